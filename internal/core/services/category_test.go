package services

import (
	"context"
	"testing"

	"github.com/custodia-labs/sercha-core/internal/core/domain"
	"github.com/custodia-labs/sercha-core/internal/core/ports/driven/mocks"
)

func TestCategoryService_CreateAndList(t *testing.T) {
	kv := mocks.NewMockKVStore()
	svc := NewCategoryService(kv)
	ctx := context.Background()

	if err := svc.Create(ctx, domain.DomainFinance, "Invoices"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := svc.Create(ctx, domain.DomainFinance, "Receipts"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	categories, err := svc.List(ctx, domain.DomainFinance)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(categories) != 2 {
		t.Errorf("expected 2 categories, got %d", len(categories))
	}
}

func TestCategoryService_Create_UnknownDomain(t *testing.T) {
	kv := mocks.NewMockKVStore()
	svc := NewCategoryService(kv)

	err := svc.Create(context.Background(), "NotADomain", "Whatever")
	if err != domain.ErrInvalidInput {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
}

func TestCategoryService_Create_Duplicate(t *testing.T) {
	kv := mocks.NewMockKVStore()
	svc := NewCategoryService(kv)
	ctx := context.Background()

	_ = svc.Create(ctx, domain.DomainLegal, "Contracts")
	err := svc.Create(ctx, domain.DomainLegal, "Contracts")
	if err != domain.ErrAlreadyExists {
		t.Errorf("expected ErrAlreadyExists, got %v", err)
	}
}

func TestCategoryService_Delete(t *testing.T) {
	kv := mocks.NewMockKVStore()
	svc := NewCategoryService(kv)
	ctx := context.Background()

	_ = svc.Create(ctx, domain.DomainCompany, "Onboarding")
	_ = svc.Create(ctx, domain.DomainCompany, "Payroll")

	if err := svc.Delete(ctx, domain.DomainCompany, "Onboarding"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	categories, _ := svc.List(ctx, domain.DomainCompany)
	if len(categories) != 1 || categories[0] != "Payroll" {
		t.Errorf("expected only Payroll to remain, got %v", categories)
	}
}

func TestCategoryService_Delete_NotFound(t *testing.T) {
	kv := mocks.NewMockKVStore()
	svc := NewCategoryService(kv)

	err := svc.Delete(context.Background(), domain.DomainBusiness, "Nonexistent")
	if err != domain.ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
