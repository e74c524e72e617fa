// Package admin owns what is exclusive to the admin context: dashboard
// stats and internal notes. Locking and CRM pushes are deliberately
// delegated to the inventory and ghl services.
package admin

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/movetrack/movetrackgo/internal/apperrors"
	"github.com/movetrack/movetrackgo/internal/models"
)

// DashboardStats is the cross-inventory aggregate for the admin dashboard.
type DashboardStats struct {
	Total             int64            `json:"total"`
	ByStatus          map[string]int64 `json:"byStatus"`
	GHLPushed         int64            `json:"ghlPushed"`
	TotalItemsTracked int64            `json:"totalItemsTracked"`
}

// Service implements the admin read surface.
type Service struct {
	db *gorm.DB
}

// NewService creates the admin service.
func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// GetDashboardStats aggregates inventory counts by status plus push and
// item totals. Read-only, no side effects.
func (s *Service) GetDashboardStats(ctx context.Context) (*DashboardStats, error) {
	type row struct {
		Status         string
		IsLocked       bool
		TotalItems     int
		GHLSubmittedAt *time.Time
	}
	var all []row
	err := s.db.WithContext(ctx).
		Model(&models.Inventory{}).
		Select("status", "is_locked", "total_items", "ghl_submitted_at").
		Find(&all).Error
	if err != nil {
		return nil, err
	}

	stats := &DashboardStats{
		ByStatus: map[string]int64{
			models.StatusDraft:      0,
			models.StatusInProgress: 0,
			models.StatusSubmitted:  0,
			models.StatusLocked:     0,
		},
	}
	for _, r := range all {
		stats.Total++
		stats.ByStatus[r.Status]++
		stats.TotalItemsTracked += int64(r.TotalItems)
		if r.GHLSubmittedAt != nil {
			stats.GHLPushed++
		}
	}
	return stats, nil
}

// AddInternalNote appends one timestamped line to the admin-only note log.
// Existing lines are never rewritten.
func (s *Service) AddInternalNote(ctx context.Context, inventoryID, note string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var inv models.Inventory
		err := tx.Select("id", "internal_notes").Where("id = ?", inventoryID).First(&inv).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("inventory: %w", apperrors.ErrNotFound)
		}
		if err != nil {
			return err
		}

		entry := fmt.Sprintf("[%s] %s", time.Now().UTC().Format(time.RFC3339), note)
		if inv.InternalNotes != nil && *inv.InternalNotes != "" {
			entry = *inv.InternalNotes + "\n" + entry
		}

		return tx.Model(&models.Inventory{}).Where("id = ?", inventoryID).
			Update("internal_notes", entry).Error
	})
}
