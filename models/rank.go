package models

import "time"

// RankCategoryGeneral is the namespace every user progresses in by default.
const RankCategoryGeneral = "general"

// RankUnlockBonus is the one-time XP grant on rank unlock.
const RankUnlockBonus int64 = 100

// UserRank is a rung on the rank ladder within a category namespace.
type UserRank struct {
	ID   string `gorm:"primaryKey;type:uuid" json:"id"`
	Code string `gorm:"uniqueIndex;not null" json:"code"`

	Title       string `gorm:"not null" json:"title"`
	Description string `json:"description"`
	IconName    string `json:"icon_name"`

	Category   string `gorm:"not null;index" json:"category"` // general, movie_buff, bookworm, gamer
	OrderIndex int    `gorm:"not null" json:"order_index"`

	RequiredLevel        int `json:"required_level"`
	RequiredAchievements int `json:"required_achievements"`
	RequiredCategories   int `json:"required_categories"`

	BonusMultiplier float64 `json:"bonus_multiplier" gorm:"default:1.0"`

	Timestamps
}

// UserRankProgress tracks one user's progress toward one rank.
type UserRankProgress struct {
	ID     string `gorm:"primaryKey;type:uuid" json:"id"`
	UserID string `gorm:"not null;index;uniqueIndex:idx_user_rank" json:"user_id"`
	RankID string `gorm:"not null;uniqueIndex:idx_user_rank" json:"rank_id"`

	Rank UserRank `gorm:"foreignKey:RankID" json:"rank,omitempty"`

	LevelPct        int `json:"level_pct" gorm:"default:0"`
	AchievementsPct int `json:"achievements_pct" gorm:"default:0"`
	CategoriesPct   int `json:"categories_pct" gorm:"default:0"`

	Unlocked   bool       `json:"unlocked" gorm:"default:false"`
	UnlockedAt *time.Time `json:"unlocked_at,omitempty"`
	IsActive   bool       `json:"is_active" gorm:"default:false"`

	Timestamps
}

// UpdateProgress recomputes the three percentages from current user state
// and flips Unlocked exactly once when all reach 100. A zero requirement
// counts as satisfied. Returns true on the unlocking update.
func (p *UserRankProgress) UpdateProgress(rank *UserRank, level, achievements, categories int, now time.Time) bool {
	p.LevelPct = progressPct(level, rank.RequiredLevel)
	p.AchievementsPct = progressPct(achievements, rank.RequiredAchievements)
	p.CategoriesPct = progressPct(categories, rank.RequiredCategories)

	if p.Unlocked {
		return false
	}
	if p.LevelPct == 100 && p.AchievementsPct == 100 && p.CategoriesPct == 100 {
		p.Unlocked = true
		t := now
		p.UnlockedAt = &t
		return true
	}
	return false
}

func progressPct(have, need int) int {
	if need <= 0 {
		return 100
	}
	pct := have * 100 / need
	if pct > 100 {
		pct = 100
	}
	return pct
}

// RankLadder is seeded on startup if the table is empty.
var RankLadder = []UserRank{
	{Code: "novice", Title: "Новичок", Description: "Только начинает путь", IconName: "ic_rank_novice", Category: RankCategoryGeneral, OrderIndex: 1, RequiredLevel: 1, BonusMultiplier: 1.0},
	{Code: "amateur", Title: "Любитель", Description: "Освоился в приложении", IconName: "ic_rank_amateur", Category: RankCategoryGeneral, OrderIndex: 2, RequiredLevel: 5, RequiredAchievements: 3, BonusMultiplier: 1.1},
	{Code: "enthusiast", Title: "Энтузиаст", Description: "Активный участник", IconName: "ic_rank_enthusiast", Category: RankCategoryGeneral, OrderIndex: 3, RequiredLevel: 10, RequiredAchievements: 7, RequiredCategories: 2, BonusMultiplier: 1.2},
	{Code: "connoisseur", Title: "Знаток", Description: "Разбирается в контенте", IconName: "ic_rank_connoisseur", Category: RankCategoryGeneral, OrderIndex: 4, RequiredLevel: 20, RequiredAchievements: 12, RequiredCategories: 3, BonusMultiplier: 1.4},
	{Code: "master", Title: "Мастер", Description: "Почти ничего не пропускает", IconName: "ic_rank_master", Category: RankCategoryGeneral, OrderIndex: 5, RequiredLevel: 35, RequiredAchievements: 16, RequiredCategories: 4, BonusMultiplier: 1.7},
	{Code: "legend", Title: "Легенда", Description: "Вершина ладдера", IconName: "ic_rank_legend", Category: RankCategoryGeneral, OrderIndex: 6, RequiredLevel: 50, RequiredAchievements: 19, RequiredCategories: 5, BonusMultiplier: 2.0},

	{Code: "movie-buff", Title: "Киноман", Description: "Смотрит всё подряд", IconName: "ic_rank_movie_buff", Category: "movie_buff", OrderIndex: 1, RequiredLevel: 8, RequiredAchievements: 5, BonusMultiplier: 1.1},
	{Code: "movie-critic", Title: "Кинокритик", Description: "Пишет о кино профессионально", IconName: "ic_rank_movie_critic", Category: "movie_buff", OrderIndex: 2, RequiredLevel: 25, RequiredAchievements: 12, RequiredCategories: 2, BonusMultiplier: 1.3},

	{Code: "bookworm", Title: "Книголюб", Description: "Не расстаётся с книгой", IconName: "ic_rank_bookworm", Category: "bookworm", OrderIndex: 1, RequiredLevel: 8, RequiredAchievements: 5, BonusMultiplier: 1.1},
	{Code: "literary-critic", Title: "Литературный критик", Description: "Глубокие рецензии на литературу", IconName: "ic_rank_literary_critic", Category: "bookworm", OrderIndex: 2, RequiredLevel: 25, RequiredAchievements: 12, RequiredCategories: 2, BonusMultiplier: 1.3},

	{Code: "gamer", Title: "Геймер", Description: "Проходит игры одну за другой", IconName: "ic_rank_gamer", Category: "gamer", OrderIndex: 1, RequiredLevel: 8, RequiredAchievements: 5, BonusMultiplier: 1.1},
	{Code: "pro-gamer", Title: "Про-геймер", Description: "Игры — вторая профессия", IconName: "ic_rank_pro_gamer", Category: "gamer", OrderIndex: 2, RequiredLevel: 25, RequiredAchievements: 12, RequiredCategories: 2, BonusMultiplier: 1.3},
}
