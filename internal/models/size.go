package models

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Size is a catalog-level size template, e.g. a cake for 8 people.
type Size struct {
	ID              string          `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Name            string          `json:"name" gorm:"type:varchar(100);not null"`
	PersonCapacity  int             `json:"person_capacity" gorm:"not null"`
	AdditionalPrice decimal.Decimal `json:"additional_price" gorm:"type:decimal(10,2);not null"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// Label renders the size the way the storefront lists it.
func (s Size) Label() string {
	return fmt.Sprintf("%s – %d people", s.Name, s.PersonCapacity)
}

// ProductSize attaches a Size to a Product. A product has at most one
// default option, and a size is attached to a product at most once.
type ProductSize struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	ProductID string    `json:"product_id" gorm:"type:varchar(36);not null;uniqueIndex:idx_product_sizes_product_size,priority:1"`
	SizeID    string    `json:"size_id" gorm:"type:varchar(36);not null;uniqueIndex:idx_product_sizes_product_size,priority:2;index"`
	IsDefault bool      `json:"is_default" gorm:"not null"`
	Position  int       `json:"position" gorm:"not null"`
	CreatedAt time.Time `json:"created_at"`
	Size      Size      `json:"size" gorm:"foreignKey:SizeID"`
}
