package domain_test

import (
	"testing"

	"github.com/vladislavdragonenkov/pos/internal/domain"
)

func TestProductValidateInvariants(t *testing.T) {
	product := domain.Product{Name: "Pão Francês", Quantity: 50, PriceMinor: 75, LowStockThreshold: 5}
	if errs := product.ValidateInvariants(); len(errs) != 0 {
		t.Fatalf("expected no validation errors, got %v", errs)
	}

	bad := domain.Product{Name: "  ", Quantity: -1, PriceMinor: -10}
	if errs := bad.ValidateInvariants(); len(errs) != 3 {
		t.Fatalf("expected 3 validation errors, got %v", errs)
	}
}

func TestProductLowStock(t *testing.T) {
	product := domain.Product{Name: "Café", Quantity: 5, LowStockThreshold: 5}
	if !product.LowStock() {
		t.Fatal("quantity at threshold must trigger low stock")
	}
	product.Quantity = 6
	if product.LowStock() {
		t.Fatal("quantity above threshold must not trigger low stock")
	}
}

func TestNormalizeName(t *testing.T) {
	if domain.NormalizeName("  Pão Francês ") != domain.NormalizeName("pão francês") {
		t.Fatal("normalization must ignore case and surrounding spaces")
	}
}
