package driving

import "context"

// CategoryService manages the custom categories that can be added within a
// fixed domain of the classification taxonomy (spec §4.2, §6 KV side channel).
type CategoryService interface {
	// List returns the custom categories registered for a domain.
	List(ctx context.Context, domain string) ([]string, error)

	// Create adds a category to a domain's custom category list.
	Create(ctx context.Context, domain, category string) error

	// Delete removes a category from a domain's custom category list.
	Delete(ctx context.Context, domain, category string) error
}
