package domain

import "time"

// Wildcard grants unrestricted access when used in place of a domain, category
// list, or capability.
const Wildcard = "*"

// FilePermissions scopes which documents a role may see.
type FilePermissions struct {
	// AllowedDomains is "*" (all) or an explicit list of domain names.
	AllowedDomains []string `json:"allowed_domains"`
	// AllowedCategories is "*" (all), an explicit list, or nil (none beyond domain match).
	AllowedCategories []string `json:"allowed_categories"`
	// DeniedCategories always wins over an allowed match.
	DeniedCategories []string `json:"denied_categories"`
}

// AllowsAllDomains reports whether AllowedDomains is the wildcard form.
func (f *FilePermissions) AllowsAllDomains() bool {
	return len(f.AllowedDomains) == 1 && f.AllowedDomains[0] == Wildcard
}

// AllowsAllCategories reports whether AllowedCategories is the wildcard form.
func (f *FilePermissions) AllowsAllCategories() bool {
	return len(f.AllowedCategories) == 1 && f.AllowedCategories[0] == Wildcard
}

// Role is a named, database-backed set of capabilities and file-access rules.
type Role struct {
	ID              string           `json:"id"`
	Name            string           `json:"name"`
	Permissions     []string         `json:"permissions"`
	FilePermissions *FilePermissions `json:"file_permissions,omitempty"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`
}

// HasCapability reports whether the role grants the given capability string,
// honoring a "*" wildcard entry.
func (r *Role) HasCapability(capability string) bool {
	for _, c := range r.Permissions {
		if c == Wildcard || c == capability {
			return true
		}
	}
	return false
}

// Well-known capability strings (spec §4.6).
const (
	CapFilesUpload           = "files.upload"
	CapFilesDeleteOwn        = "files.delete.own"
	CapFilesDeleteAll        = "files.delete.all"
	CapFilesDownload         = "files.download"
	CapFilesViewDuplicates   = "files.view_duplicates"
	CapFilesDeleteDuplicates = "files.delete_duplicates"
	CapCategoriesCreate      = "categories.create"
	CapCategoriesDelete      = "categories.delete"
	CapAdminDashboard        = "admin.dashboard"
	CapAnalyticsView         = "analytics.view"
)

// Built-in role names seeded at first boot.
const (
	RoleNameAdmin  = "Admin"
	RoleNameMember = "Member"
	RoleNameViewer = "Viewer"
)

// NewAdminRole returns the unrestricted built-in administrator role.
func NewAdminRole() *Role {
	return &Role{
		Name:        RoleNameAdmin,
		Permissions: []string{Wildcard},
		FilePermissions: &FilePermissions{
			AllowedDomains:    []string{Wildcard},
			AllowedCategories: []string{Wildcard},
		},
	}
}

// User represents a team member.
type User struct {
	ID           string     `json:"id"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	Name         string     `json:"name"`
	RoleID       string     `json:"role_id"`
	Active       bool       `json:"active"`
	UploadQuota  int        `json:"upload_quota"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
	LastLoginAt  *time.Time `json:"last_login_at,omitempty"`
}

// UserSummary is a safe view of user data (no password hash).
type UserSummary struct {
	ID          string     `json:"id"`
	Email       string     `json:"email"`
	Name        string     `json:"name"`
	RoleID      string     `json:"role_id"`
	RoleName    string     `json:"role_name,omitempty"`
	Active      bool       `json:"active"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
}

// ToSummary converts a User to a UserSummary.
func (u *User) ToSummary() *UserSummary {
	return &UserSummary{
		ID:          u.ID,
		Email:       u.Email,
		Name:        u.Name,
		RoleID:      u.RoleID,
		Active:      u.Active,
		LastLoginAt: u.LastLoginAt,
	}
}

// DefaultUploadQuota is the per-user pending-file quota (spec §4.10), waived
// for roles holding the wildcard capability.
const DefaultUploadQuota = 10

// MaxUploadSizeBytes is the per-file size cap enforced at upload time.
const MaxUploadSizeBytes = 25 << 20 // 25MB
