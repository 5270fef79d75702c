package models

import "time"

// Achievement is a catalog entry evaluated against user counters
type Achievement struct {
	ID          string `gorm:"primaryKey;type:uuid" json:"id"`
	Code        string `gorm:"uniqueIndex;not null" json:"code"`
	Title       string `gorm:"not null" json:"title"`
	Description string `json:"description"`
	IconName    string `json:"icon_name"`

	RequiredAction string `gorm:"not null" json:"required_action"` // swipe, rate, review, complete, total, streak
	RequiredCount  int    `gorm:"not null" json:"required_count"`
	Category       string `json:"category"` // empty = any category
	XPReward       int64  `json:"xp_reward"`

	Timestamps
}

// UserAchievement marks an unlocked achievement; at most one row per
// user/achievement pair.
type UserAchievement struct {
	ID            string `gorm:"primaryKey;type:uuid" json:"id"`
	UserID        string `gorm:"not null;index;uniqueIndex:idx_user_achievement" json:"user_id"`
	AchievementID string `gorm:"not null;uniqueIndex:idx_user_achievement" json:"achievement_id"`

	Achievement Achievement `gorm:"foreignKey:AchievementID" json:"achievement,omitempty"`

	UnlockedAt time.Time `json:"unlocked_at"`
}

// AchievementCatalog is seeded on startup if the table is empty.
var AchievementCatalog = []Achievement{
	{Code: "first-step", Title: "Первый шаг", Description: "Сделайте первый свайп", IconName: "ic_first_swipe", RequiredAction: ActionSwipe, RequiredCount: 1, XPReward: 10},
	{Code: "explorer", Title: "Исследователь", Description: "Сделайте 50 свайпов", IconName: "ic_explorer", RequiredAction: ActionSwipe, RequiredCount: 50, XPReward: 50},
	{Code: "swipe-master", Title: "Мастер свайпов", Description: "Сделайте 500 свайпов", IconName: "ic_swipe_master", RequiredAction: ActionSwipe, RequiredCount: 500, XPReward: 200},
	{Code: "first-rating", Title: "Первая оценка", Description: "Поставьте первую оценку", IconName: "ic_first_rating", RequiredAction: ActionRate, RequiredCount: 1, XPReward: 15},
	{Code: "critic", Title: "Критик", Description: "Поставьте 25 оценок", IconName: "ic_critic", RequiredAction: ActionRate, RequiredCount: 25, XPReward: 75},
	{Code: "expert", Title: "Эксперт", Description: "Поставьте 100 оценок", IconName: "ic_expert", RequiredAction: ActionRate, RequiredCount: 100, XPReward: 250},
	{Code: "first-review", Title: "Первая рецензия", Description: "Напишите первую рецензию", IconName: "ic_first_review", RequiredAction: ActionReview, RequiredCount: 1, XPReward: 30},
	{Code: "reviewer", Title: "Рецензент", Description: "Напишите 10 рецензий", IconName: "ic_reviewer", RequiredAction: ActionReview, RequiredCount: 10, XPReward: 150},
	{Code: "author", Title: "Писатель", Description: "Напишите 50 рецензий", IconName: "ic_author", RequiredAction: ActionReview, RequiredCount: 50, XPReward: 500},
	{Code: "first-complete", Title: "Завершитель", Description: "Отметьте первый завершённый контент", IconName: "ic_first_complete", RequiredAction: ActionComplete, RequiredCount: 1, XPReward: 20},
	{Code: "collector", Title: "Коллекционер", Description: "Завершите 25 единиц контента", IconName: "ic_collector", RequiredAction: ActionComplete, RequiredCount: 25, XPReward: 100},
	{Code: "marathoner", Title: "Марафонец", Description: "Завершите 100 единиц контента", IconName: "ic_marathoner", RequiredAction: ActionComplete, RequiredCount: 100, XPReward: 400},
	{Code: "active-user", Title: "Активист", Description: "Выполните 100 действий", IconName: "ic_active", RequiredAction: ActionTotal, RequiredCount: 100, XPReward: 100},
	{Code: "veteran", Title: "Ветеран", Description: "Выполните 1000 действий", IconName: "ic_veteran", RequiredAction: ActionTotal, RequiredCount: 1000, XPReward: 500},
	{Code: "movie-buff", Title: "Киноман", Description: "50 действий с фильмами", IconName: "ic_movie_buff", RequiredAction: ActionTotal, RequiredCount: 50, Category: "movies", XPReward: 100},
	{Code: "bookworm", Title: "Книголюб", Description: "50 действий с книгами", IconName: "ic_bookworm", RequiredAction: ActionTotal, RequiredCount: 50, Category: "books", XPReward: 100},
	{Code: "streak-week", Title: "Неделя подряд", Description: "7 дней активности подряд", IconName: "ic_streak_week", RequiredAction: ActionStreak, RequiredCount: 7, XPReward: 70},
	{Code: "streak-month", Title: "Месяц подряд", Description: "30 дней активности подряд", IconName: "ic_streak_month", RequiredAction: ActionStreak, RequiredCount: 30, XPReward: 300},
	{Code: "devoted-fan", Title: "Преданный фанат", Description: "100 дней активности подряд", IconName: "ic_devoted", RequiredAction: ActionStreak, RequiredCount: 100, XPReward: 1000},
}
