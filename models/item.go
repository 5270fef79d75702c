package models

import "time"

// Item rarities
const (
	RarityCommon    = "common"
	RarityRare      = "rare"
	RarityEpic      = "epic"
	RarityLegendary = "legendary"
)

// Item grant sources
const (
	ItemSourceStarter = "starter"
	ItemSourceQuest   = "quest"
	ItemSourceEvent   = "event"
	ItemSourceAdmin   = "admin"
)

// CollectibleItem is a catalog entry grantable to users
type CollectibleItem struct {
	ID   string `gorm:"primaryKey;type:uuid" json:"id"`
	Code string `gorm:"uniqueIndex;not null" json:"code"`

	Title       string `gorm:"not null" json:"title"`
	Description string `json:"description"`
	IconName    string `json:"icon_name"`
	Rarity      string `json:"rarity"`

	EventID string `gorm:"index" json:"event_id,omitempty"` // set when the item belongs to a seasonal event

	Timestamps
}

// UserItem is an inventory row; at most one per user/item pair.
type UserItem struct {
	ID     string `gorm:"primaryKey;type:uuid" json:"id"`
	UserID string `gorm:"not null;index;uniqueIndex:idx_user_item" json:"user_id"`
	ItemID string `gorm:"not null;uniqueIndex:idx_user_item" json:"item_id"`

	Item CollectibleItem `gorm:"foreignKey:ItemID" json:"item,omitempty"`

	Source    string    `json:"source"`
	GrantedAt time.Time `json:"granted_at"`
}

// ItemCatalog is seeded on startup if the table is empty. Event items are
// associated with their event rows during the maintenance tick.
var ItemCatalog = []CollectibleItem{
	{Code: "welcome-badge", Title: "Значок новичка", Description: "Выдаётся при первом входе", IconName: "ic_item_welcome", Rarity: RarityCommon},
	{Code: "film-reel", Title: "Кинолента", Description: "Классическая бобина с плёнкой", IconName: "ic_item_reel", Rarity: RarityCommon},
	{Code: "golden-popcorn", Title: "Золотой попкорн", Description: "Награда настоящего киномана", IconName: "ic_item_popcorn", Rarity: RarityRare},
	{Code: "ancient-tome", Title: "Древний фолиант", Description: "Книга, пережившая века", IconName: "ic_item_tome", Rarity: RarityRare},
	{Code: "crystal-dice", Title: "Хрустальный кубик", Description: "Приносит удачу в играх", IconName: "ic_item_dice", Rarity: RarityEpic},
	{Code: "new-year-star", Title: "Новогодняя звезда", Description: "Сияет только зимой", IconName: "ic_item_star", Rarity: RarityEpic},
	{Code: "summer-trophy", Title: "Летний трофей", Description: "Память о марафоне", IconName: "ic_item_trophy", Rarity: RarityRare},
	{Code: "pumpkin-lantern", Title: "Тыквенный фонарь", Description: "Светится в ночь Хэллоуина", IconName: "ic_item_pumpkin", Rarity: RarityRare},
	{Code: "cupid-arrow", Title: "Стрела Купидона", Description: "Попадает точно в сердце", IconName: "ic_item_arrow", Rarity: RarityRare},
	{Code: "legend-crown", Title: "Корона легенды", Description: "Для тех, кто достиг вершины", IconName: "ic_item_crown", Rarity: RarityLegendary},
}

// StarterItemCodes are granted to every user at bootstrap.
var StarterItemCodes = []string{"welcome-badge"}

// EventItemCodes maps a seasonal event code to the items it can drop.
var EventItemCodes = map[string][]string{
	"new-year-magic":  {"new-year-star"},
	"summer-marathon": {"summer-trophy"},
	"halloween":       {"pumpkin-lantern"},
	"valentines-day":  {"cupid-arrow"},
}
