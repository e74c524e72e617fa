package models

import (
	"strings"
	"time"
)

// RoomTypes is the closed set of room types a customer can pick from.
var RoomTypes = []string{
	"living_room",
	"master_bedroom",
	"bedroom",
	"kitchen",
	"dining_room",
	"bathroom",
	"garage",
	"office",
	"basement",
	"attic",
	"storage",
	"outdoor",
	"other",
}

// ValidRoomType reports whether t is one of the known room types.
func ValidRoomType(t string) bool {
	for _, rt := range RoomTypes {
		if rt == t {
			return true
		}
	}
	return false
}

// Room belongs to exactly one inventory. Sort order is the number of rooms
// that existed when it was created, so orders form 0..n-1 in creation order.
type Room struct {
	ID          string    `gorm:"type:uuid;primaryKey" json:"id"`
	InventoryID string    `gorm:"type:uuid;not null;index" json:"inventoryId"`
	Type        string    `gorm:"type:varchar(50);not null" json:"type"`
	CustomName  *string   `gorm:"type:varchar(255)" json:"customName"`
	SortOrder   int       `gorm:"not null;default:0" json:"sortOrder"`
	IsComplete  bool      `gorm:"not null;default:false" json:"isComplete"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`

	// Relations
	Inventory *Inventory `gorm:"foreignKey:InventoryID;constraint:OnDelete:CASCADE" json:"-"`
	Items     []RoomItem `gorm:"foreignKey:RoomID;constraint:OnDelete:CASCADE" json:"items,omitempty"`
}

// TableName specifies the table name for Room model
func (Room) TableName() string {
	return "rooms"
}

// DisplayName returns the custom name if set, otherwise the type with
// underscores replaced by spaces ("dining_room" -> "dining room").
func (r *Room) DisplayName() string {
	if r.CustomName != nil && *r.CustomName != "" {
		return *r.CustomName
	}
	return strings.ReplaceAll(r.Type, "_", " ")
}
