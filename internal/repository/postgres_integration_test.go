package repository_test

import (
	"context"
	"errors"
	"testing"

	"gaia-mare/internal/database/databasetest"
	"gaia-mare/internal/domain"
	"gaia-mare/internal/repository"
)

// The same queries against postgres with the SQL migrations applied.
func TestPostgres_CatalogQueries(t *testing.T) {
	db := databasetest.NewPostgres(t).DB()
	products := repository.NewProductRepository(db)
	inventory := repository.NewInventoryRepository(db)
	ctx := context.Background()

	t.Run("sku lookup on empty table", func(t *testing.T) {
		if _, err := inventory.FindBySKU(ctx, toteSKU); !errors.Is(err, repository.ErrInventoryItemNotFound) {
			t.Fatalf("expected ErrInventoryItemNotFound, got %v", err)
		}
	})

	lone := createProduct(t, products, "Clutch", "verano", "Piel")
	tote := createProduct(t, products, "Tote", "Verano", "Piel")
	first := createUnit(t, inventory, tote.ID, toteSKU, domain.StatusInStock)
	createUnit(t, inventory, tote.ID, "GAIA-TOTE-BRW-002", "")
	createUnit(t, inventory, tote.ID, "GAIA-TOTE-BRW-003", "Sold")

	t.Run("stock counts", func(t *testing.T) {
		rows, err := products.ListWithStock(ctx)
		if err != nil {
			t.Fatalf("ListWithStock failed: %v", err)
		}
		if len(rows) != 2 {
			t.Fatalf("expected 2 rows, got %d", len(rows))
		}
		for _, r := range rows {
			want := map[int]int{lone.ID: 0, tote.ID: 2}[r.ProductID]
			if r.TotalStock != want {
				t.Errorf("product %d: TotalStock = %d, want %d", r.ProductID, r.TotalStock, want)
			}
		}
	})

	t.Run("filter is case-sensitive", func(t *testing.T) {
		got, err := products.Filter(ctx, domain.NewProductFilter("Verano", ""))
		if err != nil {
			t.Fatalf("Filter failed: %v", err)
		}
		if len(got) != 1 || got[0].ID != tote.ID {
			t.Fatalf("expected only the tote, got %+v", got)
		}
	})

	t.Run("duplicate sku returns one row", func(t *testing.T) {
		createUnit(t, inventory, tote.ID, toteSKU, "Sold")
		got, err := inventory.FindBySKU(ctx, toteSKU)
		if err != nil {
			t.Fatalf("FindBySKU failed: %v", err)
		}
		if got.ID != first.ID {
			t.Fatalf("expected item %d, got %d", first.ID, got.ID)
		}
	})
}
