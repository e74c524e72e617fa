package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Inventory statuses
const (
	StatusDraft      = "draft"
	StatusInProgress = "in_progress"
	StatusSubmitted  = "submitted"
	StatusLocked     = "locked"
)

// Inventory represents one customer move, identified to the customer only
// by its access token.
type Inventory struct {
	ID    string `gorm:"type:uuid;primaryKey" json:"id"`
	Token string `gorm:"type:varchar(64);uniqueIndex;not null" json:"token"`

	CustomerName  *string    `gorm:"type:varchar(255)" json:"customerName"`
	CustomerEmail *string    `gorm:"type:varchar(255)" json:"customerEmail"`
	CustomerPhone *string    `gorm:"type:varchar(50)" json:"customerPhone"`
	MoveDate      *time.Time `json:"moveDate"`
	FromAddress   *string    `gorm:"type:text" json:"fromAddress"`
	ToAddress     *string    `gorm:"type:text" json:"toAddress"`

	Status   string     `gorm:"type:varchar(20);not null;default:'draft';index" json:"status"`
	IsLocked bool       `gorm:"not null;default:false" json:"isLocked"`
	LockedAt *time.Time `json:"lockedAt"`

	TotalItems  int    `gorm:"not null;default:0" json:"totalItems"`
	TotalCuFt   string `gorm:"type:decimal(10,2);not null;default:0" json:"totalCuFt"`
	TotalWeight string `gorm:"type:decimal(10,2);not null;default:0" json:"totalWeight"`

	GHLContactID      *string           `gorm:"type:varchar(255)" json:"ghlContactId,omitempty"`
	GHLSubmittedAt    *time.Time        `json:"ghlSubmittedAt"`
	GHLWebhookPayload datatypes.JSONMap `gorm:"type:jsonb" json:"ghlWebhookPayload,omitempty"`

	Notes         *string    `gorm:"type:text" json:"notes"`
	InternalNotes *string    `gorm:"type:text" json:"internalNotes,omitempty"`
	SubmittedAt   *time.Time `json:"submittedAt"`
	CreatedAt     time.Time  `gorm:"index" json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
	ExpiresAt     *time.Time `json:"expiresAt"`

	// Relations
	Rooms []Room `gorm:"foreignKey:InventoryID;constraint:OnDelete:CASCADE" json:"rooms,omitempty"`
}

// TableName specifies the table name for Inventory model
func (Inventory) TableName() string {
	return "inventories"
}

// AfterFind re-renders the decimal columns in canonical 2-decimal form.
// Drivers disagree on how numeric-typed text comes back (SQLite strips
// trailing zeros), so the read side normalizes.
func (inv *Inventory) AfterFind(*gorm.DB) error {
	inv.TotalCuFt = Decimal2(ParseDecimal(inv.TotalCuFt))
	inv.TotalWeight = Decimal2(ParseDecimal(inv.TotalWeight))
	for k, v := range inv.GHLWebhookPayload {
		inv.GHLWebhookPayload[k] = plainJSONValue(v)
	}
	return nil
}
