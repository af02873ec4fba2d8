package classifier

import "github.com/custodia-labs/sercha-core/internal/core/domain"

// codeExtensions is the set of source-code extensions that shortcut straight
// to the Code domain (spec §4.2 step 2), without running keyword scoring.
var codeExtensions = map[string]bool{
	".py": true, ".js": true, ".jsx": true, ".ts": true, ".tsx": true,
	".java": true, ".cpp": true, ".c": true, ".h": true, ".hpp": true,
	".cs": true, ".go": true, ".rs": true, ".rb": true, ".php": true,
	".swift": true, ".kt": true, ".scala": true,
	".sh": true, ".bash": true, ".ps1": true, ".bat": true, ".cmd": true,
	".sql": true, ".r": true, ".dart": true, ".lua": true,
}

// frontendExtensions and backendExtensions pick the Code subcategory once an
// extension is known to be code. html/css/scss/sass/vue are listed here but
// are not members of codeExtensions, so they never actually reach this
// branch - carried over unchanged from the upstream extension tables.
var frontendExtensions = map[string]bool{
	".js": true, ".jsx": true, ".ts": true, ".tsx": true,
	".html": true, ".css": true, ".scss": true, ".sass": true, ".vue": true,
}

var backendExtensions = map[string]bool{
	".py": true, ".java": true, ".go": true, ".php": true, ".rb": true, ".rs": true, ".cs": true,
}

// markdownLikeExtensions map to Documentation/Other at a lower, still-high
// confidence (spec §4.2 step 2).
var markdownLikeExtensions = map[string]bool{
	".md": true, ".rst": true, ".adoc": true,
}

// extensionShortcut implements spec §4.2 step 2. ok is false when the
// extension isn't in either fixed set, meaning keyword scoring should run.
func extensionShortcut(ext string) (c domain.Classification, ok bool) {
	if codeExtensions[ext] {
		category := "Script"
		switch {
		case frontendExtensions[ext]:
			category = "Frontend"
		case backendExtensions[ext]:
			category = "Backend"
		}
		return domain.Classification{
			Domain:      domain.DomainCode,
			Category:    category,
			Confidence:  0.95,
			MatchedRule: "extension:code",
		}, true
	}
	if markdownLikeExtensions[ext] {
		return domain.Classification{
			Domain:      domain.DomainDocumentation,
			Category:    domain.CategoryOther,
			Confidence:  0.85,
			MatchedRule: "extension:markdown",
		}, true
	}
	return domain.Classification{}, false
}
