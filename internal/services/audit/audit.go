// Package audit owns the append-only action log: writing immutable entries
// and reconstructing human-readable activity descriptions from them.
package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/movetrack/movetrackgo/internal/models"
)

// DefaultListLimit caps the activity feed when the caller does not ask for
// a specific page size.
const DefaultListLimit = 20

// Notifier receives decorated entries as they are appended. The websocket
// hub implements this; a nil notifier is fine.
type Notifier interface {
	PublishActivity(inventoryID string, entry models.AuditLogEntry, info Description)
}

// Service appends and reads audit log entries. A transaction-bound service
// (see WithTx) queues notifier publishes until Flush, so watchers never see
// an event whose transaction rolled back.
type Service struct {
	db       *gorm.DB
	notifier Notifier
	pending  *[]models.AuditLogEntry
}

// NewService creates the audit service.
func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// SetNotifier attaches a live-activity notifier. Publish failures never
// affect the write path.
func (s *Service) SetNotifier(n Notifier) {
	s.notifier = n
}

// Append inserts one immutable entry. Payload may be nil for actions that
// carry none (inventory_created, inventory_locked).
func (s *Service) Append(ctx context.Context, inventoryID, action, actor string, payload Payload) error {
	entry := models.AuditLogEntry{
		ID:          uuid.NewString(),
		InventoryID: &inventoryID,
		Action:      action,
		Actor:       actor,
	}

	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("marshal audit payload: %w", err)
		}
		m := datatypes.JSONMap{}
		if err := json.Unmarshal(raw, &m); err != nil {
			return fmt.Errorf("encode audit payload: %w", err)
		}
		entry.Payload = m
	}

	if err := s.db.WithContext(ctx).Create(&entry).Error; err != nil {
		return err
	}

	if s.pending != nil {
		*s.pending = append(*s.pending, entry)
		return nil
	}
	s.publish(entry)
	return nil
}

// WithTx binds the service to an in-flight transaction, so audit writes
// commit or roll back with the mutation they describe. Notifier publishes
// are held back until Flush; a rolled-back transaction is never broadcast.
func (s *Service) WithTx(tx *gorm.DB) *Service {
	var queue []models.AuditLogEntry
	return &Service{db: tx, notifier: s.notifier, pending: &queue}
}

// Flush broadcasts the entries appended through a transaction-bound
// service. Call it only after the transaction has committed. Safe on nil.
func (s *Service) Flush() {
	if s == nil || s.pending == nil {
		return
	}
	for _, entry := range *s.pending {
		s.publish(entry)
	}
	*s.pending = (*s.pending)[:0]
}

func (s *Service) publish(entry models.AuditLogEntry) {
	if s.notifier == nil || entry.InventoryID == nil {
		return
	}
	s.notifier.PublishActivity(*entry.InventoryID, entry, Describe(entry))
}

// List returns entries for an inventory ordered newest-first, capped at
// limit (DefaultListLimit when limit <= 0).
func (s *Service) List(ctx context.Context, inventoryID string, limit int) ([]models.AuditLogEntry, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	var entries []models.AuditLogEntry
	err := s.db.WithContext(ctx).
		Where("inventory_id = ?", inventoryID).
		Order("created_at DESC").
		Limit(limit).
		Find(&entries).Error
	if err != nil {
		log.Printf("⚠️  Audit: failed to list entries for %s: %v", inventoryID, err)
		return nil, err
	}
	return entries, nil
}
