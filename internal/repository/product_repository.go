package repository

import (
	"context"
	"fmt"

	"gaia-mare/internal/domain"

	"gorm.io/gorm"
)

// ProductRepository defines the interface for product data access
type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product) error
	List(ctx context.Context) ([]domain.Product, error)
	ListWithStock(ctx context.Context) ([]domain.ProductStock, error)
	Filter(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error)
}

type productRepository struct {
	db *gorm.DB
}

// NewProductRepository creates a new instance of ProductRepository
func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepository{db: db}
}

// Create inserts a new product. Price and dimensions are rounded to two places on write.
func (r *productRepository) Create(ctx context.Context, product *domain.Product) error {
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}
	return nil
}

// List retrieves every product in store order
func (r *productRepository) List(ctx context.Context) ([]domain.Product, error) {
	products := []domain.Product{}
	if err := r.db.WithContext(ctx).Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return products, nil
}

// ListWithStock projects every product with the number of its inventory
// rows whose status is exactly "In Stock". Products without stock report 0.
func (r *productRepository) ListWithStock(ctx context.Context) ([]domain.ProductStock, error) {
	db := r.db.WithContext(ctx)

	inStock := db.Model(&domain.InventoryItem{}).
		Select("COUNT(*)").
		Where("inventory.product_id = products.product_id").
		Where("inventory.status = ?", domain.StatusInStock)

	rows := []domain.ProductStock{}
	err := db.Model(&domain.Product{}).
		Select("products.product_id, products.name, products.price, (?) AS total_stock", inStock).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list products with stock: %w", err)
	}

	return rows, nil
}

// Filter retrieves products matching every value set in filter
func (r *productRepository) Filter(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error) {
	products := []domain.Product{}
	err := r.db.WithContext(ctx).
		Scopes(FilterScope(filter)).
		Find(&products).Error
	if err != nil {
		return nil, fmt.Errorf("failed to filter products: %w", err)
	}
	return products, nil
}

// FilterScope turns a ProductFilter into a query chain. Each criterion
// adds one equality condition; gorm joins consecutive Where calls with AND.
func FilterScope(filter domain.ProductFilter) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		for _, c := range filter.Criteria() {
			db = db.Where(map[string]interface{}{c.Column: c.Value})
		}
		return db
	}
}
