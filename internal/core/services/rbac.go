package services

import "github.com/custodia-labs/sercha-core/internal/core/domain"

// Access implements the RBAC file-visibility rule (spec §4.6): given a role
// and a document's domain/category, decide whether the role may see it.
// A nil role or nil FilePermissions denies everything.
func Access(role *domain.Role, docDomain, category string) bool {
	if role == nil || role.FilePermissions == nil {
		return false
	}
	fp := role.FilePermissions

	if fp.AllowsAllDomains() {
		return true
	}
	if !containsString(fp.AllowedDomains, docDomain) {
		return false
	}
	if category != "" && containsString(fp.DeniedCategories, category) {
		return false
	}
	if len(fp.AllowedCategories) > 0 && !fp.AllowsAllCategories() {
		if !containsString(fp.AllowedCategories, category) {
			return false
		}
	}
	return true
}

// CanSeeDocument is Access specialized to a domain.Document.
func CanSeeDocument(role *domain.Role, doc *domain.Document) bool {
	if doc == nil {
		return false
	}
	return Access(role, doc.Domain, doc.Category)
}

func containsString(list []string, want string) bool {
	for _, v := range list {
		if v == want {
			return true
		}
	}
	return false
}
