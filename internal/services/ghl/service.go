// Package ghl pushes completed inventories to the downstream CRM webhook.
// The call is fire-once: no retry, no backoff, a failed POST surfaces as an
// error and nothing is marked as sent.
package ghl

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/movetrack/movetrackgo/internal/config"
	"github.com/movetrack/movetrackgo/internal/models"
	"github.com/movetrack/movetrackgo/internal/services/inventory"
)

const webhookTimeout = 10 * time.Second

// PayloadRoom is one room inside the webhook payload.
type PayloadRoom struct {
	Name      string        `json:"name"`
	Type      string        `json:"type"`
	ItemCount int           `json:"itemCount"`
	Items     []PayloadItem `json:"items"`
}

// PayloadItem is one line item inside the webhook payload.
type PayloadItem struct {
	Name        string  `json:"name"`
	Quantity    int     `json:"quantity"`
	CuFt        float64 `json:"cuFt"`
	Weight      float64 `json:"weight"`
	IsSpecialty bool    `json:"isSpecialty"`
}

// Payload is the full webhook body sent to the CRM.
type Payload struct {
	InventoryID    string        `json:"inventoryId"`
	Token          string        `json:"token"`
	CustomerName   *string       `json:"customerName"`
	CustomerEmail  *string       `json:"customerEmail"`
	CustomerPhone  *string       `json:"customerPhone"`
	FromAddress    *string       `json:"fromAddress"`
	ToAddress      *string       `json:"toAddress"`
	MoveDate       *time.Time    `json:"moveDate"`
	TotalItems     int           `json:"totalItems"`
	TotalCuFt      string        `json:"totalCuFt"`
	TotalWeight    string        `json:"totalWeight"`
	Rooms          []PayloadRoom `json:"rooms"`
	SpecialtyItems []string      `json:"specialtyItems"`
	SubmittedAt    string        `json:"submittedAt"`
	InventoryURL   string        `json:"inventoryUrl"`
	Source         string        `json:"source"`
	Version        string        `json:"version"`
}

// Service pushes inventory summaries to the CRM webhook.
type Service struct {
	db     *gorm.DB
	cfg    config.GHLConfig
	webURL string
	client *http.Client
}

// NewService creates the webhook service with injected configuration.
func NewService(db *gorm.DB, cfg config.GHLConfig, publicWebURL string) *Service {
	return &Service{
		db:     db,
		cfg:    cfg,
		webURL: publicWebURL,
		client: &http.Client{Timeout: webhookTimeout},
	}
}

// BuildPayload flattens a summary into the webhook body.
func (s *Service) BuildPayload(summary *inventory.Summary) Payload {
	inv := summary.Inventory

	rooms := make([]PayloadRoom, 0, len(summary.RoomSummaries))
	for _, rs := range summary.RoomSummaries {
		room := PayloadRoom{
			Name:      rs.Name,
			Type:      rs.Type,
			ItemCount: rs.ItemCount,
			Items:     make([]PayloadItem, 0, len(rs.Items)),
		}
		for _, item := range rs.Items {
			room.Items = append(room.Items, PayloadItem{
				Name:        item.Name,
				Quantity:    item.Quantity,
				CuFt:        models.ParseDecimal(item.TotalCuFt),
				Weight:      models.ParseDecimal(item.TotalWeight),
				IsSpecialty: item.IsSpecialtyItem,
			})
		}
		rooms = append(rooms, room)
	}

	specialty := make([]string, 0, len(summary.SpecialtyItems))
	for _, item := range summary.SpecialtyItems {
		specialty = append(specialty, fmt.Sprintf("%dx %s", item.Quantity, item.Name))
	}

	submittedAt := time.Now().UTC().Format(time.RFC3339)
	if inv.SubmittedAt != nil {
		submittedAt = inv.SubmittedAt.UTC().Format(time.RFC3339)
	}

	return Payload{
		InventoryID:    inv.ID,
		Token:          inv.Token,
		CustomerName:   inv.CustomerName,
		CustomerEmail:  inv.CustomerEmail,
		CustomerPhone:  inv.CustomerPhone,
		FromAddress:    inv.FromAddress,
		ToAddress:      inv.ToAddress,
		MoveDate:       inv.MoveDate,
		TotalItems:     inv.TotalItems,
		TotalCuFt:      inv.TotalCuFt,
		TotalWeight:    inv.TotalWeight,
		Rooms:          rooms,
		SpecialtyItems: specialty,
		SubmittedAt:    submittedAt,
		InventoryURL:   fmt.Sprintf("%s/inventory/%s", s.webURL, inv.Token),
		Source:         "moving-inventory-app",
		Version:        "1.0",
	}
}

// Push POSTs the payload to the configured webhook and, on success, stamps
// the inventory with the send time and the exact payload sent. A missing
// webhook URL is a no-op, not an error, so dev environments work unwired.
func (s *Service) Push(ctx context.Context, inventoryID string, payload Payload) error {
	if s.cfg.WebhookURL == "" {
		log.Println("⚠️  GHL: webhook URL not configured, skipping push")
		return nil
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal webhook payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.WebhookURL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-API-Key", s.cfg.APIKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("webhook POST failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}

	// Record what was sent and when
	raw := datatypes.JSONMap{}
	if err := json.Unmarshal(body, &raw); err != nil {
		return err
	}
	err = s.db.WithContext(ctx).Model(&models.Inventory{}).Where("id = ?", inventoryID).Updates(map[string]interface{}{
		"ghl_submitted_at":    time.Now().UTC(),
		"ghl_webhook_payload": raw,
	}).Error
	if err != nil {
		return err
	}

	log.Printf("✅ GHL: webhook sent for inventory %s", inventoryID)
	return nil
}
