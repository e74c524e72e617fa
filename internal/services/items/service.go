// Package items owns the line items inside rooms: volumetric computation,
// the one-row-per-library-item dedup rule, quantity semantics (zero means
// delete), and the read-only seeded catalog.
package items

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/movetrack/movetrackgo/internal/apperrors"
	"github.com/movetrack/movetrackgo/internal/models"
	"github.com/movetrack/movetrackgo/internal/services/audit"
	"github.com/movetrack/movetrackgo/internal/services/inventory"
)

// searchResultCap bounds library search responses.
const searchResultCap = 200

// UpsertFields describes one item write. Per-unit measures default to zero;
// totals are always per-unit times quantity at 2-decimal precision.
type UpsertFields struct {
	ItemLibraryID       *string
	Name                string
	Category            *string
	Quantity            int
	CuFtPerItem         *float64
	WeightPerItem       *float64
	IsSpecialtyItem     bool
	RequiresDisassembly bool
	IsFragile           bool
	IsHighValue         bool
	Images              []string
	Notes               *string
}

// Service implements the room item store.
type Service struct {
	db        *gorm.DB
	inventory *inventory.Service
}

// NewService creates the item service.
func NewService(db *gorm.DB, inventorySvc *inventory.Service) *Service {
	return &Service{db: db, inventory: inventorySvc}
}

// Upsert inserts a new row, or — when the room already holds an item
// referencing the same library id — updates that row in place. One row per
// distinct library item per room, differentiated only by quantity. Custom
// items (no library id) always insert.
func (s *Service) Upsert(ctx context.Context, inventoryID, roomID string, fields UpsertFields) (*models.RoomItem, error) {
	if _, err := ensureNotLocked(ctx, s.db, inventoryID); err != nil {
		return nil, err
	}

	cuFtPer := 0.0
	if fields.CuFtPerItem != nil {
		cuFtPer = *fields.CuFtPerItem
	}
	weightPer := 0.0
	if fields.WeightPerItem != nil {
		weightPer = *fields.WeightPerItem
	}
	totalCuFt := models.Decimal2(cuFtPer * float64(fields.Quantity))
	totalWeight := models.Decimal2(weightPer * float64(fields.Quantity))

	roomName, err := s.roomDisplayName(ctx, roomID)
	if err != nil {
		return nil, err
	}

	if fields.ItemLibraryID != nil {
		var existing models.RoomItem
		err := s.db.WithContext(ctx).
			Where("room_id = ? AND item_library_id = ?", roomID, *fields.ItemLibraryID).
			First(&existing).Error
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		if err == nil {
			return s.dedupUpdate(ctx, &existing, fields, totalCuFt, totalWeight, roomName)
		}
	}

	item := &models.RoomItem{
		ID:                  uuid.NewString(),
		RoomID:              roomID,
		InventoryID:         inventoryID,
		ItemLibraryID:       fields.ItemLibraryID,
		Name:                fields.Name,
		Category:            fields.Category,
		Quantity:            fields.Quantity,
		CuFtPerItem:         models.Decimal2(cuFtPer),
		WeightPerItem:       models.Decimal2(weightPer),
		TotalCuFt:           totalCuFt,
		TotalWeight:         totalWeight,
		IsSpecialtyItem:     fields.IsSpecialtyItem,
		RequiresDisassembly: fields.RequiresDisassembly,
		IsFragile:           fields.IsFragile,
		IsHighValue:         fields.IsHighValue,
		Images:              datatypes.NewJSONSlice(imagesOrEmpty(fields.Images)),
		Notes:               fields.Notes,
	}

	var auditTx *audit.Service
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(item).Error; err != nil {
			return err
		}
		if _, err := s.inventory.RecalculateTotalsTx(ctx, tx, inventoryID); err != nil {
			return err
		}
		auditTx = s.inventory.Audit().WithTx(tx)
		return auditTx.Append(ctx, inventoryID, models.ActionItemCreated, models.ActorCustomer,
			audit.ItemCreatedPayload{
				ItemName:  item.Name,
				RoomName:  roomName,
				Category:  item.Category,
				Quantity:  item.Quantity,
				HasPhotos: len(item.Images) > 0,
			})
	})
	if err != nil {
		return nil, err
	}
	auditTx.Flush()
	return item, nil
}

// dedupUpdate is the library-id collision branch of Upsert: the existing
// row absorbs the new quantity; notes and images are kept unless supplied.
func (s *Service) dedupUpdate(ctx context.Context, existing *models.RoomItem, fields UpsertFields, totalCuFt, totalWeight, roomName string) (*models.RoomItem, error) {
	oldQuantity := existing.Quantity

	updates := map[string]interface{}{
		"quantity":     fields.Quantity,
		"total_cu_ft":  totalCuFt,
		"total_weight": totalWeight,
	}
	if fields.Notes != nil {
		updates["notes"] = *fields.Notes
		existing.Notes = fields.Notes
	}
	if fields.Images != nil {
		existing.Images = datatypes.NewJSONSlice(fields.Images)
		updates["images"] = existing.Images
	}
	existing.Quantity = fields.Quantity
	existing.TotalCuFt = totalCuFt
	existing.TotalWeight = totalWeight

	var auditTx *audit.Service
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.RoomItem{}).Where("id = ?", existing.ID).Updates(updates).Error; err != nil {
			return err
		}
		if _, err := s.inventory.RecalculateTotalsTx(ctx, tx, existing.InventoryID); err != nil {
			return err
		}
		auditTx = s.inventory.Audit().WithTx(tx)
		return auditTx.Append(ctx, existing.InventoryID, models.ActionItemUpdated, models.ActorCustomer,
			audit.ItemUpdatedPayload{
				ItemName: existing.Name,
				RoomName: roomName,
				Quantity: &existing.Quantity,
				Changes: audit.ChangeSet{
					"quantity": {Old: oldQuantity, New: fields.Quantity},
				},
			})
	})
	if err != nil {
		return nil, err
	}
	auditTx.Flush()
	return existing, nil
}

// UpdateQuantity sets a new quantity, recomputing the row's totals from its
// stored per-unit rates. A quantity of zero or less means "remove the item"
// and takes the delete path.
func (s *Service) UpdateQuantity(ctx context.Context, itemID string, quantity int) (*models.RoomItem, bool, error) {
	item, err := s.findItem(ctx, itemID)
	if err != nil {
		return nil, false, err
	}
	if _, err := ensureNotLocked(ctx, s.db, item.InventoryID); err != nil {
		return nil, false, err
	}

	if quantity <= 0 {
		if err := s.deleteItem(ctx, item); err != nil {
			return nil, false, err
		}
		return nil, true, nil
	}

	oldQuantity := item.Quantity
	totalCuFt := models.Decimal2(models.ParseDecimal(item.CuFtPerItem) * float64(quantity))
	totalWeight := models.Decimal2(models.ParseDecimal(item.WeightPerItem) * float64(quantity))

	roomName, err := s.roomDisplayName(ctx, item.RoomID)
	if err != nil {
		return nil, false, err
	}

	var auditTx *audit.Service
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.RoomItem{}).Where("id = ?", item.ID).Updates(map[string]interface{}{
			"quantity":     quantity,
			"total_cu_ft":  totalCuFt,
			"total_weight": totalWeight,
		}).Error; err != nil {
			return err
		}
		if _, err := s.inventory.RecalculateTotalsTx(ctx, tx, item.InventoryID); err != nil {
			return err
		}
		if quantity == oldQuantity {
			return nil
		}
		auditTx = s.inventory.Audit().WithTx(tx)
		return auditTx.Append(ctx, item.InventoryID, models.ActionItemUpdated, models.ActorCustomer,
			audit.ItemUpdatedPayload{
				ItemName: item.Name,
				RoomName: roomName,
				Quantity: &quantity,
				Changes: audit.ChangeSet{
					"quantity": {Old: oldQuantity, New: quantity},
				},
			})
	})
	if err != nil {
		return nil, false, err
	}
	auditTx.Flush()

	item.Quantity = quantity
	item.TotalCuFt = totalCuFt
	item.TotalWeight = totalWeight
	return item, false, nil
}

// UpdateImages overwrites the photo list. Images carry no volume or weight,
// so totals stay untouched; the audit entry records only the counts, and
// only when the count actually changed.
func (s *Service) UpdateImages(ctx context.Context, itemID string, images []string) (*models.RoomItem, error) {
	item, err := s.findItem(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if _, err := ensureNotLocked(ctx, s.db, item.InventoryID); err != nil {
		return nil, err
	}

	oldCount := len(item.Images)
	newCount := len(images)
	item.Images = datatypes.NewJSONSlice(imagesOrEmpty(images))

	roomName, err := s.roomDisplayName(ctx, item.RoomID)
	if err != nil {
		return nil, err
	}

	var auditTx *audit.Service
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.RoomItem{}).Where("id = ?", item.ID).Update("images", item.Images).Error; err != nil {
			return err
		}
		if oldCount == newCount {
			return nil
		}
		auditTx = s.inventory.Audit().WithTx(tx)
		return auditTx.Append(ctx, item.InventoryID, models.ActionItemUpdated, models.ActorCustomer,
			audit.ItemUpdatedPayload{
				ItemName: item.Name,
				RoomName: roomName,
				Changes: audit.ChangeSet{
					"photos": {Old: oldCount, New: newCount},
				},
			})
	})
	if err != nil {
		return nil, err
	}
	auditTx.Flush()
	return item, nil
}

// Delete removes the row, recomputes the inventory totals and records
// item_deleted.
func (s *Service) Delete(ctx context.Context, itemID string) error {
	item, err := s.findItem(ctx, itemID)
	if err != nil {
		return err
	}
	if _, err := ensureNotLocked(ctx, s.db, item.InventoryID); err != nil {
		return err
	}
	return s.deleteItem(ctx, item)
}

func (s *Service) deleteItem(ctx context.Context, item *models.RoomItem) error {
	roomName, err := s.roomDisplayName(ctx, item.RoomID)
	if err != nil {
		return err
	}

	var auditTx *audit.Service
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ?", item.ID).Delete(&models.RoomItem{}).Error; err != nil {
			return err
		}
		if _, err := s.inventory.RecalculateTotalsTx(ctx, tx, item.InventoryID); err != nil {
			return err
		}
		auditTx = s.inventory.Audit().WithTx(tx)
		return auditTx.Append(ctx, item.InventoryID, models.ActionItemDeleted, models.ActorCustomer,
			audit.ItemDeletedPayload{ItemName: item.Name, RoomName: roomName})
	})
	if err != nil {
		return err
	}
	auditTx.Flush()
	return nil
}

// SearchLibrary filters the seeded catalog: active entries, case-insensitive
// substring match across name/category/keywords, catalog sort order, capped
// at 200. Room-type filtering happens in memory because the query layer
// cannot efficiently filter inside the jsonb room-type list.
func (s *Service) SearchLibrary(ctx context.Context, query, category, roomType string) ([]models.ItemLibraryEntry, error) {
	q := s.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("sort_order ASC").
		Limit(searchResultCap)

	if query != "" {
		pattern := "%" + strings.ToLower(query) + "%"
		q = q.Where("LOWER(name) LIKE ? OR LOWER(category) LIKE ? OR LOWER(search_keywords) LIKE ?",
			pattern, pattern, pattern)
	}
	if category != "" {
		q = q.Where("category = ?", category)
	}

	var entries []models.ItemLibraryEntry
	if err := q.Find(&entries).Error; err != nil {
		return nil, err
	}

	if roomType == "" {
		return entries, nil
	}
	filtered := entries[:0]
	for _, e := range entries {
		for _, rt := range e.RoomTypes {
			if rt == roomType {
				filtered = append(filtered, e)
				break
			}
		}
	}
	return filtered, nil
}

// GetCategories returns the distinct non-null categories among active
// entries, alphabetically.
func (s *Service) GetCategories(ctx context.Context) ([]string, error) {
	var categories []string
	err := s.db.WithContext(ctx).
		Model(&models.ItemLibraryEntry{}).
		Distinct("category").
		Where("category IS NOT NULL AND category <> '' AND is_active = ?", true).
		Pluck("category", &categories).Error
	if err != nil {
		return nil, err
	}
	sort.Strings(categories)
	return categories, nil
}

func (s *Service) findItem(ctx context.Context, itemID string) (*models.RoomItem, error) {
	var item models.RoomItem
	err := s.db.WithContext(ctx).Where("id = ?", itemID).First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("item: %w", apperrors.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *Service) roomDisplayName(ctx context.Context, roomID string) (string, error) {
	var room models.Room
	err := s.db.WithContext(ctx).Where("id = ?", roomID).First(&room).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", fmt.Errorf("room: %w", apperrors.ErrNotFound)
	}
	if err != nil {
		return "", err
	}
	return room.DisplayName(), nil
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

func imagesOrEmpty(images []string) []string {
	if images == nil {
		return []string{}
	}
	return images
}
