package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// RoomItem is one line item inside a room. InventoryID is denormalized so
// total recomputation does not need a join through rooms.
type RoomItem struct {
	ID          string `gorm:"type:uuid;primaryKey" json:"id"`
	RoomID      string `gorm:"type:uuid;not null;index" json:"roomId"`
	InventoryID string `gorm:"type:uuid;not null;index" json:"inventoryId"`

	ItemLibraryID *string `gorm:"type:varchar(100)" json:"itemLibraryId"`
	Name          string  `gorm:"type:varchar(255);not null" json:"name"`
	Category      *string `gorm:"type:varchar(100)" json:"category"`

	Quantity      int    `gorm:"not null;default:1" json:"quantity"`
	CuFtPerItem   string `gorm:"type:decimal(8,2);default:0" json:"cuFtPerItem"`
	WeightPerItem string `gorm:"type:decimal(8,2);default:0" json:"weightPerItem"`
	TotalCuFt     string `gorm:"type:decimal(10,2);default:0" json:"totalCuFt"`
	TotalWeight   string `gorm:"type:decimal(10,2);default:0" json:"totalWeight"`

	IsSpecialtyItem     bool `gorm:"not null;default:false" json:"isSpecialtyItem"`
	RequiresDisassembly bool `gorm:"not null;default:false" json:"requiresDisassembly"`
	IsFragile           bool `gorm:"not null;default:false" json:"isFragile"`
	IsHighValue         bool `gorm:"not null;default:false" json:"isHighValue"`

	Images datatypes.JSONSlice[string] `gorm:"type:jsonb" json:"images"`
	Notes  *string                     `gorm:"type:text" json:"notes"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	// Relations
	Room *Room `gorm:"foreignKey:RoomID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName specifies the table name for RoomItem model
func (RoomItem) TableName() string {
	return "room_items"
}

// AfterFind normalizes the decimal columns to canonical 2-decimal form,
// whatever shape the driver returned them in.
func (item *RoomItem) AfterFind(*gorm.DB) error {
	item.CuFtPerItem = Decimal2(ParseDecimal(item.CuFtPerItem))
	item.WeightPerItem = Decimal2(ParseDecimal(item.WeightPerItem))
	item.TotalCuFt = Decimal2(ParseDecimal(item.TotalCuFt))
	item.TotalWeight = Decimal2(ParseDecimal(item.TotalWeight))
	return nil
}
