// Package rooms owns the room lifecycle inside an inventory: append-only
// ordering at creation, partial updates, and cascade deletion of items.
package rooms

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/movetrack/movetrackgo/internal/apperrors"
	"github.com/movetrack/movetrackgo/internal/models"
	"github.com/movetrack/movetrackgo/internal/services/audit"
	"github.com/movetrack/movetrackgo/internal/services/inventory"
)

// UpdateFields is the partial-overwrite set for a room. Nil means "keep".
type UpdateFields struct {
	CustomName *string
	IsComplete *bool
	SortOrder  *int
}

// Service implements the room store.
type Service struct {
	db        *gorm.DB
	inventory *inventory.Service
}

// NewService creates the room service.
func NewService(db *gorm.DB, inventorySvc *inventory.Service) *Service {
	return &Service{db: db, inventory: inventorySvc}
}

// EnsureNotLocked loads the owning inventory and refuses mutation when it
// is locked. Called before every mutating room or item operation.
func (s *Service) EnsureNotLocked(ctx context.Context, inventoryID string) (*models.Inventory, error) {
	return ensureNotLocked(ctx, s.db, inventoryID)
}

func ensureNotLocked(ctx context.Context, db *gorm.DB, inventoryID string) (*models.Inventory, error) {
	var inv models.Inventory
	err := db.WithContext(ctx).Where("id = ?", inventoryID).First(&inv).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("inventory: %w", apperrors.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	if inv.IsLocked {
		return nil, fmt.Errorf("inventory is locked: %w", apperrors.ErrForbidden)
	}
	return &inv, nil
}

// Create appends a room: its sort order is the count of rooms that already
// exist, so orders stay a gapless 0..n-1 sequence in creation order.
func (s *Service) Create(ctx context.Context, inventoryID, roomType string, customName *string) (*models.Room, error) {
	if _, err := s.EnsureNotLocked(ctx, inventoryID); err != nil {
		return nil, err
	}

	room := &models.Room{
		ID:          uuid.NewString(),
		InventoryID: inventoryID,
		Type:        roomType,
		CustomName:  customName,
	}

	var auditTx *audit.Service
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Room{}).Where("inventory_id = ?", inventoryID).Count(&count).Error; err != nil {
			return err
		}
		room.SortOrder = int(count)

		if err := tx.Create(room).Error; err != nil {
			return err
		}

		auditTx = s.inventory.Audit().WithTx(tx)
		return auditTx.Append(ctx, inventoryID, models.ActionRoomCreated, models.ActorCustomer,
			audit.RoomPayload{RoomName: room.DisplayName(), Type: roomType})
	})
	if err != nil {
		return nil, err
	}
	auditTx.Flush()
	return room, nil
}

// Update overwrites only the supplied fields. There is deliberately no lock
// guard here: admins can still toggle completion on a submitted-but-unlocked
// inventory, and that asymmetry with Delete is preserved as observed.
func (s *Service) Update(ctx context.Context, roomID string, fields UpdateFields) (*models.Room, error) {
	var room models.Room
	err := s.db.WithContext(ctx).Where("id = ?", roomID).First(&room).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("room: %w", apperrors.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if fields.CustomName != nil {
		updates["custom_name"] = *fields.CustomName
		room.CustomName = fields.CustomName
	}
	if fields.IsComplete != nil {
		updates["is_complete"] = *fields.IsComplete
		room.IsComplete = *fields.IsComplete
	}
	if fields.SortOrder != nil {
		updates["sort_order"] = *fields.SortOrder
		room.SortOrder = *fields.SortOrder
	}
	if len(updates) == 0 {
		return &room, nil
	}

	if err := s.db.WithContext(ctx).Model(&models.Room{}).Where("id = ?", roomID).Updates(updates).Error; err != nil {
		return nil, err
	}
	return &room, nil
}

// Delete removes a room and all of its items, guarded by the owning
// inventory's lock, and records room_deleted.
func (s *Service) Delete(ctx context.Context, roomID string) error {
	var room models.Room
	err := s.db.WithContext(ctx).Where("id = ?", roomID).First(&room).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("room: %w", apperrors.ErrNotFound)
	}
	if err != nil {
		return err
	}

	if _, err := s.EnsureNotLocked(ctx, room.InventoryID); err != nil {
		return err
	}

	var auditTx *audit.Service
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Items first, then the room
		if err := tx.Where("room_id = ?", roomID).Delete(&models.RoomItem{}).Error; err != nil {
			return err
		}
		if err := tx.Where("id = ?", roomID).Delete(&models.Room{}).Error; err != nil {
			return err
		}

		// The cascade removed items, so the stored totals are stale
		if _, err := s.inventory.RecalculateTotalsTx(ctx, tx, room.InventoryID); err != nil {
			return err
		}

		auditTx = s.inventory.Audit().WithTx(tx)
		return auditTx.Append(ctx, room.InventoryID, models.ActionRoomDeleted, models.ActorCustomer,
			audit.RoomPayload{RoomName: room.DisplayName(), Type: room.Type})
	})
	if err != nil {
		return err
	}
	auditTx.Flush()
	return nil
}

// ListForInventory returns rooms ordered by sort order with items attached.
func (s *Service) ListForInventory(ctx context.Context, inventoryID string) ([]models.Room, error) {
	var list []models.Room
	err := s.db.WithContext(ctx).
		Preload("Items").
		Where("inventory_id = ?", inventoryID).
		Order("sort_order ASC").
		Find(&list).Error
	if err != nil {
		return nil, err
	}
	return list, nil
}
