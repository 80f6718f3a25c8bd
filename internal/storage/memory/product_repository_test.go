package memory_test

import (
	"errors"
	"testing"

	"github.com/vladislavdragonenkov/pos/internal/domain"
	"github.com/vladislavdragonenkov/pos/internal/storage/memory"
)

func newProduct(name string) domain.Product {
	return domain.Product{
		Name:              name,
		Quantity:          50,
		PriceMinor:        75,
		LowStockThreshold: 5,
	}
}

func TestProductRepository_CreateAssignsSequentialCodes(t *testing.T) {
	repo := memory.NewProductRepository()

	first, err := repo.Create(newProduct("Pão Francês"))
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	second, err := repo.Create(newProduct("Bolo"))
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if first.Code != 1 || second.Code != 2 {
		t.Fatalf("expected sequential codes 1,2, got %d,%d", first.Code, second.Code)
	}
}

func TestProductRepository_GetByNameIsCaseInsensitive(t *testing.T) {
	repo := memory.NewProductRepository()
	created, err := repo.Create(newProduct("Pão Francês"))
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	found, err := repo.GetByName("  pão francês ")
	if err != nil {
		t.Fatalf("get by name failed: %v", err)
	}
	if found.Code != created.Code {
		t.Fatalf("expected code %d, got %d", created.Code, found.Code)
	}
}

func TestProductRepository_CreateDuplicateName(t *testing.T) {
	repo := memory.NewProductRepository()
	if _, err := repo.Create(newProduct("Café")); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if _, err := repo.Create(newProduct("CAFÉ")); !errors.Is(err, domain.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}
}

func TestProductRepository_SaveVersionConflict(t *testing.T) {
	repo := memory.NewProductRepository()
	created, err := repo.Create(newProduct("Café"))
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	created.Quantity = 40
	if err := repo.Save(created); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	// Повторное сохранение со старой версией должно конфликтовать.
	stale := created
	stale.Quantity = 30
	if err := repo.Save(stale); !domain.IsVersionConflict(err) {
		t.Fatalf("expected version conflict, got %v", err)
	}
}

func TestProductRepository_Remove(t *testing.T) {
	repo := memory.NewProductRepository()
	created, err := repo.Create(newProduct("Café"))
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if err := repo.Remove(created.Code); err != nil {
		t.Fatalf("remove failed: %v", err)
	}
	if _, err := repo.Get(created.Code); !errors.Is(err, domain.ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound, got %v", err)
	}
	// Имя освобождается для повторной регистрации.
	if _, err := repo.Create(newProduct("Café")); err != nil {
		t.Fatalf("re-create after remove failed: %v", err)
	}
}
