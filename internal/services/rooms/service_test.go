package rooms

import (
	"context"
	"errors"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/movetrack/movetrackgo/internal/apperrors"
	"github.com/movetrack/movetrackgo/internal/models"
	"github.com/movetrack/movetrackgo/internal/services/audit"
	"github.com/movetrack/movetrackgo/internal/services/inventory"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:"+uuid.NewString()+"?mode=memory&cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	err = db.AutoMigrate(
		&models.Inventory{},
		&models.Room{},
		&models.RoomItem{},
		&models.AuditLogEntry{},
	)
	if err != nil {
		t.Fatalf("Failed to migrate test schema: %v", err)
	}
	return db
}

func newTestServices(t *testing.T) (*Service, *inventory.Service, *gorm.DB) {
	db := newTestDB(t)
	inventorySvc := inventory.NewService(db, audit.NewService(db))
	return NewService(db, inventorySvc), inventorySvc, db
}

func createInventory(t *testing.T, svc *inventory.Service) *models.Inventory {
	t.Helper()
	inv, err := svc.Create(context.Background(), inventory.CustomerFields{})
	if err != nil {
		t.Fatalf("Failed to create inventory: %v", err)
	}
	return inv
}

func TestCreate_AssignsSequentialSortOrder(t *testing.T) {
	svc, inventorySvc, _ := newTestServices(t)
	ctx := context.Background()
	inv := createInventory(t, inventorySvc)

	types := []string{"living_room", "kitchen", "garage"}
	for i, roomType := range types {
		room, err := svc.Create(ctx, inv.ID, roomType, nil)
		if err != nil {
			t.Fatalf("Create room %d failed: %v", i, err)
		}
		if room.SortOrder != i {
			t.Errorf("Expected sort order %d for room %s, got %d", i, roomType, room.SortOrder)
		}
	}
}

func TestCreate_RecordsAudit(t *testing.T) {
	svc, inventorySvc, db := newTestServices(t)
	ctx := context.Background()
	inv := createInventory(t, inventorySvc)

	custom := "Kids Room"
	if _, err := svc.Create(ctx, inv.ID, "bedroom", &custom); err != nil {
		t.Fatalf("Create room failed: %v", err)
	}

	var entry models.AuditLogEntry
	err := db.Where("inventory_id = ? AND action = ?", inv.ID, models.ActionRoomCreated).First(&entry).Error
	if err != nil {
		t.Fatalf("Expected room_created entry: %v", err)
	}
	if entry.Payload["roomName"] != "Kids Room" {
		t.Errorf("Expected custom name in payload, got %#v", entry.Payload["roomName"])
	}
	if entry.Payload["type"] != "bedroom" {
		t.Errorf("Expected type bedroom, got %#v", entry.Payload["type"])
	}
}

func TestCreate_LockedIsForbidden(t *testing.T) {
	svc, inventorySvc, _ := newTestServices(t)
	ctx := context.Background()
	inv := createInventory(t, inventorySvc)

	if _, err := inventorySvc.Lock(ctx, inv.ID); err != nil {
		t.Fatalf("Lock failed: %v", err)
	}

	_, err := svc.Create(ctx, inv.ID, "kitchen", nil)
	if !errors.Is(err, apperrors.ErrForbidden) {
		t.Errorf("Expected ErrForbidden, got %v", err)
	}
}

func TestUpdate_PartialFields(t *testing.T) {
	svc, inventorySvc, db := newTestServices(t)
	ctx := context.Background()
	inv := createInventory(t, inventorySvc)

	room, err := svc.Create(ctx, inv.ID, "office", nil)
	if err != nil {
		t.Fatalf("Create room failed: %v", err)
	}

	done := true
	updated, err := svc.Update(ctx, room.ID, UpdateFields{IsComplete: &done})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if !updated.IsComplete {
		t.Error("Expected room marked complete")
	}
	if updated.SortOrder != room.SortOrder {
		t.Error("Sort order should be untouched by a completion toggle")
	}

	// Room field edits are not audited
	var count int64
	db.Model(&models.AuditLogEntry{}).
		Where("inventory_id = ? AND action NOT IN ?", inv.ID,
			[]string{models.ActionInventoryCreated, models.ActionRoomCreated}).
		Count(&count)
	if count != 0 {
		t.Errorf("Expected no extra audit entries, got %d", count)
	}
}

func TestUpdate_AllowedWhenLocked(t *testing.T) {
	svc, inventorySvc, _ := newTestServices(t)
	ctx := context.Background()
	inv := createInventory(t, inventorySvc)

	room, err := svc.Create(ctx, inv.ID, "attic", nil)
	if err != nil {
		t.Fatalf("Create room failed: %v", err)
	}
	if _, err := inventorySvc.Lock(ctx, inv.ID); err != nil {
		t.Fatalf("Lock failed: %v", err)
	}

	// Completion toggles stay available after locking, unlike create/delete
	done := true
	if _, err := svc.Update(ctx, room.ID, UpdateFields{IsComplete: &done}); err != nil {
		t.Errorf("Expected update to succeed on a locked inventory, got %v", err)
	}
}

func TestDelete_CascadesAndRecomputes(t *testing.T) {
	svc, inventorySvc, db := newTestServices(t)
	ctx := context.Background()
	inv := createInventory(t, inventorySvc)

	room, err := svc.Create(ctx, inv.ID, "living_room", nil)
	if err != nil {
		t.Fatalf("Create room failed: %v", err)
	}

	item := models.RoomItem{
		ID:          uuid.NewString(),
		RoomID:      room.ID,
		InventoryID: inv.ID,
		Name:        "Sofa (3-Seat)",
		Quantity:    1,
		TotalCuFt:   "50.00",
		TotalWeight: "250.00",
	}
	if err := db.Create(&item).Error; err != nil {
		t.Fatalf("Failed to seed item: %v", err)
	}
	if _, err := inventorySvc.RecalculateTotals(ctx, inv.ID); err != nil {
		t.Fatalf("RecalculateTotals failed: %v", err)
	}

	if err := svc.Delete(ctx, room.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	var itemCount int64
	db.Model(&models.RoomItem{}).Where("room_id = ?", room.ID).Count(&itemCount)
	if itemCount != 0 {
		t.Errorf("Expected cascade delete of items, %d remain", itemCount)
	}

	var stored models.Inventory
	if err := db.Where("id = ?", inv.ID).First(&stored).Error; err != nil {
		t.Fatalf("Failed to reload inventory: %v", err)
	}
	if stored.TotalItems != 0 || stored.TotalCuFt != "0.00" || stored.TotalWeight != "0.00" {
		t.Errorf("Expected totals reset after room delete, got %d / %s / %s",
			stored.TotalItems, stored.TotalCuFt, stored.TotalWeight)
	}

	var entry models.AuditLogEntry
	err = db.Where("inventory_id = ? AND action = ?", inv.ID, models.ActionRoomDeleted).First(&entry).Error
	if err != nil {
		t.Errorf("Expected room_deleted entry: %v", err)
	}
}

func TestDelete_LockedIsForbidden(t *testing.T) {
	svc, inventorySvc, _ := newTestServices(t)
	ctx := context.Background()
	inv := createInventory(t, inventorySvc)

	room, err := svc.Create(ctx, inv.ID, "basement", nil)
	if err != nil {
		t.Fatalf("Create room failed: %v", err)
	}
	if _, err := inventorySvc.Lock(ctx, inv.ID); err != nil {
		t.Fatalf("Lock failed: %v", err)
	}

	err = svc.Delete(ctx, room.ID)
	if !errors.Is(err, apperrors.ErrForbidden) {
		t.Errorf("Expected ErrForbidden, got %v", err)
	}
}

func TestDelete_UnknownRoom(t *testing.T) {
	svc, _, _ := newTestServices(t)

	err := svc.Delete(context.Background(), uuid.NewString())
	if !errors.Is(err, apperrors.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}
