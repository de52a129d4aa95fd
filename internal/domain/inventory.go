package domain

import (
	"time"

	"gorm.io/gorm"
)

// InventoryItem is one physical unit of a Product, identified externally by SKU.
// SKUs are expected to be unique per unit but the schema does not enforce it.
type InventoryItem struct {
	ID          int       `json:"inventoryId" gorm:"column:inventory_id;primaryKey"`
	ProductID   int       `json:"productId" gorm:"column:product_id;not null;index:idx_inventory_product_status"`
	SKU         string    `json:"sku" gorm:"column:sku;size:100;not null;default:'';index:idx_inventory_sku"`
	Status      string    `json:"status" gorm:"column:status;size:50;not null;default:'In Stock';index:idx_inventory_product_status"`
	Location    *string   `json:"location" gorm:"column:location;size:255"`
	ArrivalDate time.Time `json:"arrivalDate" gorm:"column:arrival_date;not null"`
}

// TableName returns the table name for InventoryItem
func (InventoryItem) TableName() string {
	return "inventory"
}

func (i *InventoryItem) BeforeCreate(tx *gorm.DB) error {
	if i.Status == "" {
		i.Status = StatusInStock
	}
	if i.ArrivalDate.IsZero() {
		i.ArrivalDate = time.Now()
	}
	return nil
}

// Sale records the sale of one InventoryItem. The table is part of the
// schema but no API path reads or writes it yet.
type Sale struct {
	ID              int       `json:"saleId" gorm:"column:sale_id;primaryKey"`
	InventoryID     int       `json:"inventoryId" gorm:"column:inventory_id;not null"`
	SaleDate        time.Time `json:"saleDate" gorm:"column:sale_date;not null"`
	FinalPrice      Amount    `json:"finalPrice" gorm:"column:final_price;type:decimal(18,2);not null"`
	PaymentMethod   *string   `json:"paymentMethod" gorm:"column:payment_method;size:50"`
	DiscountApplied *Amount   `json:"discountApplied" gorm:"column:discount_applied;type:decimal(18,2)"`
	ClientID        *int      `json:"clientId" gorm:"column:client_id"`
}

// TableName returns the table name for Sale
func (Sale) TableName() string {
	return "sales"
}

func (s *Sale) BeforeCreate(tx *gorm.DB) error {
	if s.SaleDate.IsZero() {
		s.SaleDate = time.Now()
	}
	return nil
}
