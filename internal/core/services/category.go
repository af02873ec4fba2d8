package services

import (
	"context"
	"sort"

	"github.com/custodia-labs/sercha-core/internal/core/domain"
	"github.com/custodia-labs/sercha-core/internal/core/ports/driven"
	"github.com/custodia-labs/sercha-core/internal/core/ports/driving"
)

// Ensure categoryService implements CategoryService
var _ driving.CategoryService = (*categoryService)(nil)

// categoryService implements CategoryService on top of the KV side channel
// (spec §6): custom categories for a domain live in the hash at
// "categories:<domain>", field names are the category, values are unused.
type categoryService struct {
	kvStore driven.KVStore
}

// NewCategoryService creates a new CategoryService.
func NewCategoryService(kvStore driven.KVStore) driving.CategoryService {
	return &categoryService{kvStore: kvStore}
}

func categoryKey(dom string) string {
	return "categories:" + dom
}

func isKnownDomain(dom string) bool {
	for _, d := range domain.AllDomains() {
		if d == dom {
			return true
		}
	}
	return false
}

func (s *categoryService) List(ctx context.Context, dom string) ([]string, error) {
	if !isKnownDomain(dom) {
		return nil, domain.ErrInvalidInput
	}

	fields, err := s.kvStore.HGetAll(ctx, categoryKey(dom))
	if err != nil {
		return nil, err
	}

	categories := make([]string, 0, len(fields))
	for category := range fields {
		categories = append(categories, category)
	}
	sort.Strings(categories)
	return categories, nil
}

func (s *categoryService) Create(ctx context.Context, dom, category string) error {
	if !isKnownDomain(dom) || category == "" {
		return domain.ErrInvalidInput
	}

	existing, err := s.kvStore.HGetAll(ctx, categoryKey(dom))
	if err != nil {
		return err
	}
	if _, ok := existing[category]; ok {
		return domain.ErrAlreadyExists
	}

	return s.kvStore.HSet(ctx, categoryKey(dom), map[string]string{category: "1"})
}

func (s *categoryService) Delete(ctx context.Context, dom, category string) error {
	if !isKnownDomain(dom) {
		return domain.ErrInvalidInput
	}

	existing, err := s.kvStore.HGetAll(ctx, categoryKey(dom))
	if err != nil {
		return err
	}
	if _, ok := existing[category]; !ok {
		return domain.ErrNotFound
	}

	delete(existing, category)
	if err := s.kvStore.HDel(ctx, categoryKey(dom)); err != nil {
		return err
	}
	if len(existing) == 0 {
		return nil
	}
	return s.kvStore.HSet(ctx, categoryKey(dom), existing)
}
