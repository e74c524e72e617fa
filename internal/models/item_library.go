package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ItemLibraryEntry is a seeded catalog row supplying default name, category
// and volumetrics when a customer picks from the library instead of typing
// a custom item. Runtime code never writes this table.
type ItemLibraryEntry struct {
	ID                  string                      `gorm:"type:varchar(100);primaryKey" json:"id"`
	Name                string                      `gorm:"type:varchar(255);not null;index" json:"name"`
	Category            string                      `gorm:"type:varchar(100);not null;index" json:"category"`
	RoomTypes           datatypes.JSONSlice[string] `gorm:"type:jsonb" json:"roomTypes"`
	CuFt                string                      `gorm:"type:decimal(8,2);not null;default:0" json:"cuFt"`
	Weight              string                      `gorm:"type:decimal(8,2);not null;default:0" json:"weight"`
	IsSpecialtyItem     bool                        `gorm:"not null;default:false" json:"isSpecialtyItem"`
	RequiresDisassembly bool                        `gorm:"not null;default:false" json:"requiresDisassembly"`
	IsFragile           bool                        `gorm:"not null;default:false" json:"isFragile"`
	SearchKeywords      *string                     `gorm:"type:text" json:"searchKeywords,omitempty"`
	SortOrder           int                         `gorm:"not null;default:0" json:"sortOrder"`
	// No default tag: GORM skips zero-valued fields carrying one, which
	// would silently persist IsActive=false rows as active.
	IsActive  bool      `gorm:"not null" json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
}

// TableName specifies the table name for ItemLibraryEntry model
func (ItemLibraryEntry) TableName() string {
	return "item_library"
}

// AfterFind normalizes the per-unit decimals to canonical 2-decimal form.
func (e *ItemLibraryEntry) AfterFind(*gorm.DB) error {
	e.CuFt = Decimal2(ParseDecimal(e.CuFt))
	e.Weight = Decimal2(ParseDecimal(e.Weight))
	return nil
}
