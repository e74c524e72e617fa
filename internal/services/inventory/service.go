// Package inventory owns the inventory lifecycle: token-based access, the
// draft → in_progress → submitted → locked state machine, customer-field
// editing with change tracking, and the derived totals kept in sync with
// the current room items.
package inventory

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/movetrack/movetrackgo/internal/apperrors"
	"github.com/movetrack/movetrackgo/internal/models"
	"github.com/movetrack/movetrackgo/internal/services/audit"
	"github.com/movetrack/movetrackgo/internal/utils"
)

const accessTokenTTL = 30 * 24 * time.Hour

// CustomerFields is the customer-editable subset of an inventory. Nil
// pointers mean "not supplied" and keep the stored value.
type CustomerFields struct {
	CustomerName  *string
	CustomerEmail *string
	CustomerPhone *string
	MoveDate      *time.Time
	FromAddress   *string
	ToAddress     *string
	Notes         *string
}

// Totals is the result of a full recompute over an inventory's room items.
type Totals struct {
	TotalItems  int     `json:"totalItems"`
	TotalCuFt   float64 `json:"totalCuFt"`
	TotalWeight float64 `json:"totalWeight"`
}

// RoomSummary is the per-room aggregate computed on read, never stored.
type RoomSummary struct {
	ID        string            `json:"id"`
	Type      string            `json:"type"`
	Name      string            `json:"name"`
	ItemCount int               `json:"itemCount"`
	CuFt      float64           `json:"cuFt"`
	Weight    float64           `json:"weight"`
	Items     []models.RoomItem `json:"items"`
}

// Summary is the assembled admin/customer view of one inventory.
type Summary struct {
	Inventory      *models.Inventory `json:"inventory"`
	RoomSummaries  []RoomSummary     `json:"roomSummaries"`
	SpecialtyItems []models.RoomItem `json:"specialtyItems"`
	Totals         Totals            `json:"totals"`
}

// Service implements the inventory lifecycle.
type Service struct {
	db    *gorm.DB
	audit *audit.Service
}

// NewService creates the inventory service.
func NewService(db *gorm.DB, auditSvc *audit.Service) *Service {
	return &Service{db: db, audit: auditSvc}
}

// Create generates a fresh unguessable token, persists a draft inventory
// with a 30-day expiry and records inventory_created. The token is returned
// to the caller and is the only way to reach the inventory afterwards; a
// collision trips the unique constraint and fails the whole operation.
func (s *Service) Create(ctx context.Context, fields CustomerFields) (*models.Inventory, error) {
	now := time.Now().UTC()
	expiresAt := now.Add(accessTokenTTL)

	inv := &models.Inventory{
		ID:            uuid.NewString(),
		Token:         utils.GenerateAccessToken(),
		CustomerName:  fields.CustomerName,
		CustomerEmail: fields.CustomerEmail,
		CustomerPhone: fields.CustomerPhone,
		MoveDate:      fields.MoveDate,
		FromAddress:   fields.FromAddress,
		ToAddress:     fields.ToAddress,
		Notes:         fields.Notes,
		Status:        models.StatusDraft,
		TotalCuFt:     "0.00",
		TotalWeight:   "0.00",
		ExpiresAt:     &expiresAt,
	}

	var auditTx *audit.Service
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(inv).Error; err != nil {
			return err
		}
		auditTx = s.audit.WithTx(tx)
		return auditTx.Append(ctx, inv.ID, models.ActionInventoryCreated, models.ActorCustomer, nil)
	})
	if err != nil {
		return nil, err
	}
	auditTx.Flush()
	return inv, nil
}

// FindByToken resolves a customer token to the full inventory with rooms
// (sorted) and their items. Every token-based operation re-resolves the
// internal id through this call.
func (s *Service) FindByToken(ctx context.Context, token string) (*models.Inventory, error) {
	var inv models.Inventory
	err := s.db.WithContext(ctx).
		Preload("Rooms", func(db *gorm.DB) *gorm.DB { return db.Order("sort_order ASC") }).
		Preload("Rooms.Items").
		Where("token = ?", token).
		First(&inv).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("inventory: %w", apperrors.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

// findByID loads an inventory without relations.
func (s *Service) findByID(ctx context.Context, db *gorm.DB, id string) (*models.Inventory, error) {
	var inv models.Inventory
	err := db.WithContext(ctx).Where("id = ?", id).First(&inv).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("inventory: %w", apperrors.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

// Update applies the supplied customer fields, tracking a field-level diff
// for the audit trail. Editing ratchets the status to in_progress (never
// backwards from submitted) and is refused only when locked.
func (s *Service) Update(ctx context.Context, token string, fields CustomerFields) (*models.Inventory, error) {
	inv, err := s.FindByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if inv.IsLocked {
		return nil, fmt.Errorf("inventory is locked: %w", apperrors.ErrForbidden)
	}

	changes := audit.ChangeSet{}

	diffString(changes, "customerName", inv.CustomerName, fields.CustomerName)
	diffString(changes, "customerEmail", inv.CustomerEmail, fields.CustomerEmail)
	diffString(changes, "customerPhone", inv.CustomerPhone, fields.CustomerPhone)
	diffMoveDate(changes, inv.MoveDate, fields.MoveDate)
	diffString(changes, "fromAddress", inv.FromAddress, fields.FromAddress)
	diffString(changes, "toAddress", inv.ToAddress, fields.ToAddress)
	diffString(changes, "notes", inv.Notes, fields.Notes)

	applyFields(inv, fields)
	inv.Status = models.StatusInProgress

	var auditTx *audit.Service
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Save(inv).Error; err != nil {
			return err
		}
		if len(changes) == 0 {
			return nil
		}
		auditTx = s.audit.WithTx(tx)
		return auditTx.Append(ctx, inv.ID, models.ActionInventoryUpdated, models.ActorCustomer,
			audit.InventoryUpdatedPayload{Changes: changes})
	})
	if err != nil {
		return nil, err
	}
	auditTx.Flush()
	return inv, nil
}

// Submit recomputes totals one final time so the submitted snapshot is
// accurate, then marks the inventory submitted. A locked inventory is a
// conflict, not a forbidden edit.
func (s *Service) Submit(ctx context.Context, token string) (*models.Inventory, error) {
	inv, err := s.FindByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if inv.IsLocked {
		return nil, fmt.Errorf("inventory already locked: %w", apperrors.ErrConflict)
	}

	now := time.Now().UTC()
	var auditTx *audit.Service
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		totals, err := s.recalculateTotals(ctx, tx, inv.ID)
		if err != nil {
			return err
		}

		if err := tx.Model(&models.Inventory{}).Where("id = ?", inv.ID).Updates(map[string]interface{}{
			"status":       models.StatusSubmitted,
			"submitted_at": now,
		}).Error; err != nil {
			return err
		}

		snapshot := audit.SubmissionPayload{
			CustomerName: inv.CustomerName,
			FromAddress:  inv.FromAddress,
			ToAddress:    inv.ToAddress,
			TotalItems:   totals.TotalItems,
			TotalCuFt:    fmt.Sprintf("%.1f", totals.TotalCuFt),
			TotalWeight:  fmt.Sprintf("%.0f", totals.TotalWeight),
		}
		if inv.MoveDate != nil {
			d := inv.MoveDate.Format("2006-01-02")
			snapshot.MoveDate = &d
		}
		auditTx = s.audit.WithTx(tx)
		return auditTx.Append(ctx, inv.ID, models.ActionInventorySubmitted, models.ActorCustomer, snapshot)
	})
	if err != nil {
		return nil, err
	}
	auditTx.Flush()
	return s.FindByToken(ctx, token)
}

// Lock is the admin-only, irreversible transition that freezes all room
// and item mutation. The gateway layer has already authenticated the caller.
func (s *Service) Lock(ctx context.Context, inventoryID string) (*models.Inventory, error) {
	inv, err := s.findByID(ctx, s.db, inventoryID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	inv.IsLocked = true
	inv.LockedAt = &now
	inv.Status = models.StatusLocked

	var auditTx *audit.Service
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Inventory{}).Where("id = ?", inv.ID).Updates(map[string]interface{}{
			"is_locked": true,
			"locked_at": now,
			"status":    models.StatusLocked,
		}).Error; err != nil {
			return err
		}
		auditTx = s.audit.WithTx(tx)
		return auditTx.Append(ctx, inv.ID, models.ActionInventoryLocked, models.ActorAdmin, nil)
	})
	if err != nil {
		return nil, err
	}
	auditTx.Flush()
	return inv, nil
}

// RecalculateTotals rebuilds the three derived totals from the inventory's
// current room items. Always a full recompute from source rows; a flat read
// over the denormalized inventory_id, never grouped by room.
func (s *Service) RecalculateTotals(ctx context.Context, inventoryID string) (Totals, error) {
	return s.recalculateTotals(ctx, s.db, inventoryID)
}

// RecalculateTotalsTx is RecalculateTotals inside an in-flight transaction,
// for stores that bundle an item write and the recompute atomically.
func (s *Service) RecalculateTotalsTx(ctx context.Context, tx *gorm.DB, inventoryID string) (Totals, error) {
	return s.recalculateTotals(ctx, tx, inventoryID)
}

func (s *Service) recalculateTotals(ctx context.Context, db *gorm.DB, inventoryID string) (Totals, error) {
	var items []models.RoomItem
	if err := db.WithContext(ctx).Where("inventory_id = ?", inventoryID).Find(&items).Error; err != nil {
		return Totals{}, err
	}

	var totals Totals
	for _, item := range items {
		totals.TotalItems += item.Quantity
		totals.TotalCuFt += models.ParseDecimal(item.TotalCuFt)
		totals.TotalWeight += models.ParseDecimal(item.TotalWeight)
	}

	err := db.WithContext(ctx).Model(&models.Inventory{}).Where("id = ?", inventoryID).Updates(map[string]interface{}{
		"total_items":  totals.TotalItems,
		"total_cu_ft":  models.Decimal2(totals.TotalCuFt),
		"total_weight": models.Decimal2(totals.TotalWeight),
		"updated_at":   time.Now().UTC(),
	}).Error
	if err != nil {
		return Totals{}, err
	}
	return totals, nil
}

// LogAction is the single audit-write entry point; the room and item stores
// funnel through it so every action kind shares one code path.
func (s *Service) LogAction(ctx context.Context, inventoryID, action, actor string, payload audit.Payload) error {
	return s.audit.Append(ctx, inventoryID, action, actor, payload)
}

// Audit exposes the audit trail for read paths (activity feed).
func (s *Service) Audit() *audit.Service {
	return s.audit
}

// DB exposes the underlying handle for sibling stores that share the
// transaction boundary.
func (s *Service) DB() *gorm.DB {
	return s.db
}

// FindAll is the admin listing: newest first, optional status filter.
func (s *Service) FindAll(ctx context.Context, status string, limit, offset int) ([]models.Inventory, error) {
	if limit <= 0 {
		limit = 50
	}
	q := s.db.WithContext(ctx).Order("created_at DESC").Limit(limit).Offset(offset)
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var list []models.Inventory
	if err := q.Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

// GetSummary assembles the inventory with per-room aggregates (computed on
// read) and the specialty item subset.
func (s *Service) GetSummary(ctx context.Context, inventoryID string) (*Summary, error) {
	var inv models.Inventory
	err := s.db.WithContext(ctx).
		Preload("Rooms", func(db *gorm.DB) *gorm.DB { return db.Order("sort_order ASC") }).
		Preload("Rooms.Items").
		Where("id = ?", inventoryID).
		First(&inv).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("inventory: %w", apperrors.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}

	summary := &Summary{
		Inventory:      &inv,
		RoomSummaries:  make([]RoomSummary, 0, len(inv.Rooms)),
		SpecialtyItems: []models.RoomItem{},
		Totals: Totals{
			TotalItems:  inv.TotalItems,
			TotalCuFt:   models.ParseDecimal(inv.TotalCuFt),
			TotalWeight: models.ParseDecimal(inv.TotalWeight),
		},
	}

	for i := range inv.Rooms {
		room := &inv.Rooms[i]
		rs := RoomSummary{
			ID:    room.ID,
			Type:  room.Type,
			Name:  room.DisplayName(),
			Items: room.Items,
		}
		for _, item := range room.Items {
			rs.ItemCount += item.Quantity
			rs.CuFt += models.ParseDecimal(item.TotalCuFt)
			rs.Weight += models.ParseDecimal(item.TotalWeight)
			if item.IsSpecialtyItem {
				summary.SpecialtyItems = append(summary.SpecialtyItems, item)
			}
		}
		summary.RoomSummaries = append(summary.RoomSummaries, rs)
	}
	return summary, nil
}

// diffString records a change when the field was supplied and differs from
// the stored value.
func diffString(changes audit.ChangeSet, field string, stored, supplied *string) {
	if supplied == nil {
		return
	}
	if stored != nil && *stored == *supplied {
		return
	}
	change := audit.FieldChange{New: *supplied}
	if stored != nil {
		change.Old = *stored
	}
	changes[field] = change
}

// diffMoveDate compares by effective calendar date, not raw timestamp, so
// timezone formatting differences do not produce false diffs.
func diffMoveDate(changes audit.ChangeSet, stored, supplied *time.Time) {
	if supplied == nil {
		return
	}
	newDay := supplied.Format("2006-01-02")
	if stored != nil && stored.Format("2006-01-02") == newDay {
		return
	}
	change := audit.FieldChange{New: newDay}
	if stored != nil {
		change.Old = stored.Format("2006-01-02")
	}
	changes["moveDate"] = change
}

func applyFields(inv *models.Inventory, fields CustomerFields) {
	if fields.CustomerName != nil {
		inv.CustomerName = fields.CustomerName
	}
	if fields.CustomerEmail != nil {
		inv.CustomerEmail = fields.CustomerEmail
	}
	if fields.CustomerPhone != nil {
		inv.CustomerPhone = fields.CustomerPhone
	}
	if fields.MoveDate != nil {
		inv.MoveDate = fields.MoveDate
	}
	if fields.FromAddress != nil {
		inv.FromAddress = fields.FromAddress
	}
	if fields.ToAddress != nil {
		inv.ToAddress = fields.ToAddress
	}
	if fields.Notes != nil {
		inv.Notes = fields.Notes
	}
}
