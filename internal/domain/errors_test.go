package domain_test

import (
	"fmt"
	"testing"

	"github.com/vladislavdragonenkov/ecom/internal/domain"
)

func TestIsNotFound(t *testing.T) {
	for _, err := range []error{
		domain.ErrCustomerNotFound,
		domain.ErrProductNotFound,
		domain.ErrOrderNotFound,
	} {
		if !domain.IsNotFound(err) {
			t.Fatalf("expected %v to be not-found", err)
		}
		// Проверяем и обёрнутые варианты.
		if !domain.IsNotFound(fmt.Errorf("customer 42: %w", err)) {
			t.Fatalf("expected wrapped %v to be not-found", err)
		}
	}

	if domain.IsNotFound(domain.ErrInsufficientStock) {
		t.Fatal("insufficient stock must not be not-found")
	}
	if domain.IsNotFound(domain.ErrStorageFailure) {
		t.Fatal("storage failure must not be not-found")
	}
}

func TestIsStorageFailure(t *testing.T) {
	wrapped := fmt.Errorf("insert product: %w: connection reset", domain.ErrStorageFailure)
	if !domain.IsStorageFailure(wrapped) {
		t.Fatal("expected wrapped storage failure to match")
	}
	if domain.IsStorageFailure(domain.ErrCustomerNotFound) {
		t.Fatal("not-found must not be a storage failure")
	}
}
