package models

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Audit actors
const (
	ActorCustomer = "customer"
	ActorAdmin    = "admin"
)

// Audit action kinds. The payload shape for each kind is a caller
// convention, see the typed payloads in services/audit.
const (
	ActionInventoryCreated   = "inventory_created"
	ActionInventoryUpdated   = "inventory_updated"
	ActionInventorySubmitted = "inventory_submitted"
	ActionInventoryLocked    = "inventory_locked"
	ActionRoomCreated        = "room_created"
	ActionRoomDeleted        = "room_deleted"
	ActionItemCreated        = "item_created"
	ActionItemUpdated        = "item_updated"
	ActionItemDeleted        = "item_deleted"
)

// AuditLogEntry is append-only and immutable once written. InventoryID is
// nullable so entries survive inventory deletion (FK set-null, not cascade).
type AuditLogEntry struct {
	ID          string            `gorm:"type:uuid;primaryKey" json:"id"`
	InventoryID *string           `gorm:"type:uuid;index" json:"inventoryId"`
	Action      string            `gorm:"type:varchar(100);not null" json:"action"`
	Actor       string            `gorm:"type:varchar(100);default:'customer'" json:"actor"`
	Payload     datatypes.JSONMap `gorm:"type:jsonb" json:"payload,omitempty"`
	IPAddress   *string           `gorm:"type:varchar(50)" json:"ipAddress,omitempty"`
	UserAgent   *string           `gorm:"type:text" json:"userAgent,omitempty"`
	CreatedAt   time.Time         `gorm:"index" json:"createdAt"`

	// Relations
	Inventory *Inventory `gorm:"foreignKey:InventoryID;constraint:OnDelete:SET NULL" json:"-"`
}

// TableName specifies the table name for AuditLogEntry model
func (AuditLogEntry) TableName() string {
	return "audit_log"
}

// AfterFind restores the payload's number values to float64. JSONMap scans
// with json.Decoder.UseNumber, so without this a read-back payload carries
// json.Number where the write path stored float64.
func (e *AuditLogEntry) AfterFind(*gorm.DB) error {
	for k, v := range e.Payload {
		e.Payload[k] = plainJSONValue(v)
	}
	return nil
}

func plainJSONValue(v interface{}) interface{} {
	switch t := v.(type) {
	case json.Number:
		if f, err := t.Float64(); err == nil {
			return f
		}
		return t.String()
	case map[string]interface{}:
		for k, nested := range t {
			t[k] = plainJSONValue(nested)
		}
		return t
	case []interface{}:
		for i, nested := range t {
			t[i] = plainJSONValue(nested)
		}
		return t
	default:
		return v
	}
}
