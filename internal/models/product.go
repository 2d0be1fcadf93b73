package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product represents a bakery product in the store.
type Product struct {
	ID          string           `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Name        string           `json:"name" gorm:"type:varchar(100);not null"`
	Description string           `json:"description" gorm:"type:varchar(500)"`
	Price       decimal.Decimal  `json:"price" gorm:"type:decimal(10,2);not null"`
	IsOnOffer   bool             `json:"is_on_offer" gorm:"not null"`
	OfferPrice  *decimal.Decimal `json:"offer_price,omitempty" gorm:"type:decimal(10,2)"`
	Stock       int              `json:"stock" gorm:"not null"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

