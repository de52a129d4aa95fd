package repository

import (
	"context"
	"errors"
	"fmt"

	"gaia-mare/internal/domain"

	"gorm.io/gorm"
)

var (
	ErrInventoryItemNotFound = errors.New("inventory item not found")
)

// InventoryRepository defines the interface for inventory data access
type InventoryRepository interface {
	Create(ctx context.Context, item *domain.InventoryItem) error
	List(ctx context.Context) ([]domain.InventoryItem, error)
	FindBySKU(ctx context.Context, sku string) (*domain.InventoryItem, error)
}

type inventoryRepository struct {
	db *gorm.DB
}

// NewInventoryRepository creates a new instance of InventoryRepository
func NewInventoryRepository(db *gorm.DB) InventoryRepository {
	return &inventoryRepository{db: db}
}

// Create inserts a new inventory item; status defaults to "In Stock"
func (r *inventoryRepository) Create(ctx context.Context, item *domain.InventoryItem) error {
	if err := r.db.WithContext(ctx).Create(item).Error; err != nil {
		return fmt.Errorf("failed to create inventory item: %w", err)
	}
	return nil
}

// List retrieves every inventory item in store order
func (r *inventoryRepository) List(ctx context.Context) ([]domain.InventoryItem, error) {
	items := []domain.InventoryItem{}
	if err := r.db.WithContext(ctx).Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to list inventory: %w", err)
	}
	return items, nil
}

// FindBySKU retrieves the inventory item with the given SKU (exact,
// case-sensitive). SKUs are not unique; when several rows share one the
// row with the lowest id is returned.
func (r *inventoryRepository) FindBySKU(ctx context.Context, sku string) (*domain.InventoryItem, error) {
	item := &domain.InventoryItem{}
	err := r.db.WithContext(ctx).
		Where("sku = ?", sku).
		Order("inventory_id").
		Take(item).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInventoryItemNotFound
		}
		return nil, fmt.Errorf("failed to find inventory item by SKU: %w", err)
	}

	return item, nil
}
