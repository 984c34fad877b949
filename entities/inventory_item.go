package entities

import (
	"github.com/google/uuid"
	"inventra-backend/domain"
)

type InventoryItem struct {
	ID          uuid.UUID   `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	Name        string      `gorm:"not null" json:"name"`
	NameKey     string      `gorm:"not null;uniqueIndex:idx_inventory_name_unit" json:"-"`
	Quantity    float64     `gorm:"not null;check:quantity >= 0" json:"quantity"`
	Unit        domain.Unit `gorm:"type:varchar(8);not null;uniqueIndex:idx_inventory_name_unit" json:"unit"`
	MinQuantity float64     `gorm:"not null;default:0" json:"minQuantity"`
	Category    string      `json:"category"`
	Version     int64       `gorm:"not null;default:0" json:"-"`

	Timestamp
}

// IsLowStock reports whether the item has fallen to or below its threshold.
func (i *InventoryItem) IsLowStock() bool {
	return i.Quantity <= i.MinQuantity
}

type StockTransaction struct {
	ID           uuid.UUID   `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	ItemID       uuid.UUID   `gorm:"type:uuid;index" json:"item_id"`
	ItemName     string      `json:"item_name"`
	Action       string      `gorm:"type:varchar(16)" json:"action"` // "add", "subtract", "adjust"
	Quantity     float64     `json:"quantity"`
	Unit         domain.Unit `gorm:"type:varchar(8)" json:"unit"`
	BalanceAfter float64     `json:"balance_after"`
	ReferenceID  *uuid.UUID  `gorm:"type:uuid" json:"reference_id,omitempty"`
	Description  string      `gorm:"type:text" json:"description"`

	Timestamp
}
