package domain

import (
	"time"

	"gorm.io/gorm"
)

// StatusInStock is the inventory status counted as available stock.
// Comparisons against it are exact and case-sensitive.
const StatusInStock = "In Stock"

// Product represents a catalogue entry. Physical units live in InventoryItem.
type Product struct {
	ID            int       `json:"productId" gorm:"column:product_id;primaryKey"`
	Name          string    `json:"name" gorm:"column:name;size:255;not null;default:''"`
	Description   *string   `json:"description" gorm:"column:description;type:text"`
	Price         Amount    `json:"price" gorm:"column:price;type:decimal(18,2);not null"`
	Color         *string   `json:"color" gorm:"column:color;size:255"`
	Material      *string   `json:"material" gorm:"column:material;size:255"`
	Size          *string   `json:"size" gorm:"column:size;size:255"`
	Closure       *string   `json:"closure" gorm:"column:closure;size:255"`
	Collection    *string   `json:"collection" gorm:"column:collection;size:255"`
	Height        *Amount   `json:"height" gorm:"column:height;type:decimal(18,2)"`
	Width         *Amount   `json:"width" gorm:"column:width;type:decimal(18,2)"`
	InsideTexture *string   `json:"insideTexture" gorm:"column:inside_texture;size:255"`
	InsideColor   *string   `json:"insideColor" gorm:"column:inside_color;size:255"`
	CreatedAt     time.Time `json:"createdAt" gorm:"column:created_at;not null"`
}

// TableName returns the table name for Product
func (Product) TableName() string {
	return "products"
}

// BeforeCreate stamps the creation time when the caller left it unset.
func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now()
	}
	return nil
}

// ProductStock is a Product projection carrying the number of units in stock.
type ProductStock struct {
	ProductID  int    `json:"productId" gorm:"column:product_id"`
	Name       string `json:"name" gorm:"column:name"`
	Price      Amount `json:"price" gorm:"column:price"`
	TotalStock int    `json:"totalStock" gorm:"column:total_stock"`
}

// StringPtr is a helper for populating optional text columns.
func StringPtr(s string) *string {
	return &s
}
