package postgres

import (
	"testing"

	"github.com/vladislavdragonenkov/pos/internal/domain"
)

func TestProductRepository_PostgresLifecycle(t *testing.T) {
	store := openPostgresStoreForIntegrationTest(t)
	repo := NewProductRepository(store)

	created, err := repo.Create(domain.Product{
		Name:              "Pão Francês",
		Quantity:          50,
		PriceMinor:        75,
		LowStockThreshold: 5,
	})
	if err != nil {
		t.Fatalf("create product: %v", err)
	}
	if created.Code == 0 {
		t.Fatal("expected assigned product code")
	}

	byName, err := repo.GetByName("PÃO FRANCÊS")
	if err != nil {
		t.Fatalf("get product by name: %v", err)
	}
	if byName.Code != created.Code {
		t.Fatalf("unexpected code by name: got=%d want=%d", byName.Code, created.Code)
	}

	if _, err := repo.Create(domain.Product{Name: "pão francês", Quantity: 1, PriceMinor: 1}); err != domain.ErrAlreadyExists {
		t.Fatalf("expected ErrAlreadyExists for duplicate name, got %v", err)
	}

	created.Quantity = 40
	if err := repo.Save(created); err != nil {
		t.Fatalf("save product: %v", err)
	}

	// Повторный Save с устаревшей версией должен дать конфликт.
	if err := repo.Save(created); err != domain.ErrVersionConflict {
		t.Fatalf("expected ErrVersionConflict, got %v", err)
	}

	fresh, err := repo.Get(created.Code)
	if err != nil {
		t.Fatalf("get product: %v", err)
	}
	if fresh.Quantity != 40 || fresh.Version != created.Version+1 {
		t.Fatalf("unexpected product after save: %+v", fresh)
	}

	if err := repo.Remove(created.Code); err != nil {
		t.Fatalf("remove product: %v", err)
	}
	if _, err := repo.Get(created.Code); err != domain.ErrProductNotFound {
		t.Fatalf("expected ErrProductNotFound after remove, got %v", err)
	}
}
