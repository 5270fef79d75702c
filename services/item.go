package services

import (
	"errors"
	"log"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"content-rewards-system/models"
)

// ItemService owns the collectible catalog and per-user inventories.
type ItemService struct {
	DB  *gorm.DB
	Bus *Bus
}

func NewItemService(db *gorm.DB, bus *Bus) *ItemService {
	return &ItemService{DB: db, Bus: bus}
}

// SeedCatalog inserts the default item catalog if the table is empty.
func (s *ItemService) SeedCatalog() error {
	var count int64
	if err := s.DB.Model(&models.CollectibleItem{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	for i := range models.ItemCatalog {
		item := models.ItemCatalog[i]
		item.ID = uuid.NewString()
		if err := s.DB.Create(&item).Error; err != nil {
			return err
		}
	}
	log.Printf("✅ Seeded %d collectible items", len(models.ItemCatalog))
	return nil
}

// Grant adds an item to the user's inventory. Granting an already-owned
// item is a no-op; returns whether a new row was created.
func (s *ItemService) Grant(userID, itemID, source string, now time.Time) (bool, error) {
	var item models.CollectibleItem
	if err := s.DB.Where("id = ?", itemID).First(&item).Error; err != nil {
		return false, err
	}

	var existing int64
	err := s.DB.Model(&models.UserItem{}).
		Where("user_id = ? AND item_id = ?", userID, itemID).
		Count(&existing).Error
	if err != nil {
		return false, err
	}
	if existing > 0 {
		return false, nil
	}

	row := models.UserItem{
		ID:        uuid.NewString(),
		UserID:    userID,
		ItemID:    itemID,
		Source:    source,
		GrantedAt: now,
	}
	if err := s.DB.Create(&row).Error; err != nil {
		return false, err
	}

	log.Printf("🎁 Item granted: user=%s %q (%s)", userID, item.Title, source)
	if s.Bus != nil {
		s.Bus.Publish(RewardEvent{
			Type:   EventItemGranted,
			UserID: userID,
			Title:  item.Title,
			Payload: map[string]string{
				"item_id": itemID,
				"rarity":  item.Rarity,
				"source":  source,
			},
			At: now,
		})
	}
	return true, nil
}

// GrantStarters gives a new user the starter items.
func (s *ItemService) GrantStarters(userID string, now time.Time) error {
	for _, code := range models.StarterItemCodes {
		var item models.CollectibleItem
		err := s.DB.Where("code = ?", code).First(&item).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			continue
		}
		if err != nil {
			return err
		}
		if _, err := s.Grant(userID, item.ID, models.ItemSourceStarter, now); err != nil {
			return err
		}
	}
	return nil
}

// EventItems lists catalog items associated with an event.
func (s *ItemService) EventItems(eventID string) ([]models.CollectibleItem, error) {
	var items []models.CollectibleItem
	err := s.DB.Where("event_id = ?", eventID).Find(&items).Error
	return items, err
}

// UpdateEventAssociations links seeded event items to their event rows by
// code. Runs during the maintenance tick so admin-created events with
// matching codes also pick up their items.
func (s *ItemService) UpdateEventAssociations() error {
	for eventCode, itemCodes := range models.EventItemCodes {
		var ev models.SeasonalEvent
		err := s.DB.Where("code = ?", eventCode).First(&ev).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			continue
		}
		if err != nil {
			return err
		}
		err = s.DB.Model(&models.CollectibleItem{}).
			Where("code IN ? AND (event_id IS NULL OR event_id = '')", itemCodes).
			Update("event_id", ev.ID).Error
		if err != nil {
			return err
		}
	}
	return nil
}

// Inventory lists the user's items with catalog rows preloaded.
func (s *ItemService) Inventory(userID string) ([]models.UserItem, error) {
	var rows []models.UserItem
	err := s.DB.Preload("Item").Where("user_id = ?", userID).Order("granted_at ASC").Find(&rows).Error
	return rows, err
}
