package database

import (
	"context"
	"fmt"

	"gaia-mare/internal/domain"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type seedProduct struct {
	product domain.Product
	units   []domain.InventoryItem
}

func sampleCatalog() []seedProduct {
	s := domain.StringPtr
	amountPtr := func(v string) *domain.Amount { a := domain.NewAmount(v); return &a }

	return []seedProduct{
		{
			product: domain.Product{
				Name:          "Tote Gaia",
				Description:   s("Tote de piel curtida al vegetal"),
				Price:         domain.NewAmount("189.90"),
				Color:         s("Brown"),
				Material:      s("Piel"),
				Size:          s("L"),
				Closure:       s("Magnet"),
				Collection:    s("Verano"),
				Height:        amountPtr("32.50"),
				Width:         amountPtr("41.00"),
				InsideTexture: s("Suede"),
				InsideColor:   s("Sand"),
			},
			units: []domain.InventoryItem{
				{SKU: "GAIA-TOTE-BRW-001", Location: s("Madrid")},
				{SKU: "GAIA-TOTE-BRW-002", Location: s("Madrid")},
				{SKU: "GAIA-TOTE-BRW-003", Status: "Sold", Location: s("Valencia")},
			},
		},
		{
			product: domain.Product{
				Name:       "Bandolera Mare",
				Price:      domain.NewAmount("129.00"),
				Color:      s("Navy"),
				Material:   s("Lona"),
				Size:       s("M"),
				Closure:    s("Zip"),
				Collection: s("Verano"),
			},
			units: []domain.InventoryItem{
				{SKU: "MARE-BAND-NVY-001", Location: s("Barcelona")},
			},
		},
		{
			product: domain.Product{
				Name:       "Clutch Invierno",
				Price:      domain.NewAmount("95.50"),
				Color:      s("Black"),
				Material:   s("Piel"),
				Size:       s("S"),
				Closure:    s("Clasp"),
				Collection: s("Invierno"),
			},
		},
	}
}

// Seed inserts a small sample catalogue when the products table is empty.
// It reports whether anything was inserted.
func Seed(ctx context.Context, db *gorm.DB, logger *zap.Logger) (bool, error) {
	var count int64
	if err := db.WithContext(ctx).Model(&domain.Product{}).Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to count products: %w", err)
	}
	if count > 0 {
		logger.Info("Catalogue already populated, skipping seed", zap.Int64("products", count))
		return false, nil
	}

	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, sp := range sampleCatalog() {
			product := sp.product
			if err := tx.Create(&product).Error; err != nil {
				return fmt.Errorf("failed to create product %q: %w", product.Name, err)
			}
			for _, unit := range sp.units {
				unit.ProductID = product.ID
				if err := tx.Create(&unit).Error; err != nil {
					return fmt.Errorf("failed to create inventory item %s: %w", unit.SKU, err)
				}
			}
		}
		return nil
	})
	if err != nil {
		return false, err
	}

	logger.Info("Seeded sample catalogue")
	return true, nil
}
