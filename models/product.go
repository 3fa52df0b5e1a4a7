package models

import (
	"time"

	"github.com/google/uuid"
)

// Product is a catalog entry. Prices are stored in integer minor currency
// units (cents); no float arithmetic anywhere in the money path.
type Product struct {
	ID          uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name        string    `gorm:"type:varchar(255);not null" json:"name"`
	Description string    `json:"description"`
	PriceCents  int64     `gorm:"not null;check:price_cents >= 0" json:"price_cents"`
	ImageURL    string    `json:"image_url"`
	InStock     bool      `gorm:"not null;default:true" json:"in_stock"`
	CategoryID  uuid.UUID `gorm:"type:uuid;not null;index" json:"category_id"`
	Category    Category  `gorm:"foreignKey:CategoryID" json:"category"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
