package service

import (
	"context"
	"errors"
	"fmt"

	"gaia-mare/internal/domain"
	"gaia-mare/internal/repository"
)

var (
	ErrInventoryItemNotFound = errors.New("inventory item not found")
)

// ProductService defines the read operations over the product catalogue
type ProductService interface {
	ListProducts(ctx context.Context) ([]domain.Product, error)
	ListProductsWithStock(ctx context.Context) ([]domain.ProductStock, error)
	FilterProducts(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error)
}

// InventoryService defines the read operations over physical inventory
type InventoryService interface {
	ListInventory(ctx context.Context) ([]domain.InventoryItem, error)
	GetBySKU(ctx context.Context, sku string) (*domain.InventoryItem, error)
}

type productService struct {
	productRepo repository.ProductRepository
}

// NewProductService creates a new instance of ProductService
func NewProductService(productRepo repository.ProductRepository) ProductService {
	return &productService{productRepo: productRepo}
}

func (s *productService) ListProducts(ctx context.Context) ([]domain.Product, error) {
	products, err := s.productRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return products, nil
}

func (s *productService) ListProductsWithStock(ctx context.Context) ([]domain.ProductStock, error) {
	rows, err := s.productRepo.ListWithStock(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list products with stock: %w", err)
	}
	return rows, nil
}

// FilterProducts narrows the catalogue by the values set in filter. A
// filter without values is the same as ListProducts.
func (s *productService) FilterProducts(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error) {
	if len(filter.Criteria()) == 0 {
		return s.ListProducts(ctx)
	}

	products, err := s.productRepo.Filter(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to filter products: %w", err)
	}
	return products, nil
}

type inventoryService struct {
	inventoryRepo repository.InventoryRepository
}

// NewInventoryService creates a new instance of InventoryService
func NewInventoryService(inventoryRepo repository.InventoryRepository) InventoryService {
	return &inventoryService{inventoryRepo: inventoryRepo}
}

func (s *inventoryService) ListInventory(ctx context.Context) ([]domain.InventoryItem, error) {
	items, err := s.inventoryRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list inventory: %w", err)
	}
	return items, nil
}

// GetBySKU returns ErrInventoryItemNotFound when no unit carries sku.
func (s *inventoryService) GetBySKU(ctx context.Context, sku string) (*domain.InventoryItem, error) {
	item, err := s.inventoryRepo.FindBySKU(ctx, sku)
	if err != nil {
		if errors.Is(err, repository.ErrInventoryItemNotFound) {
			return nil, ErrInventoryItemNotFound
		}
		return nil, fmt.Errorf("failed to get inventory item: %w", err)
	}
	return item, nil
}
