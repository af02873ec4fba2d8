// Package extractors turns a file on disk into plain text (spec §4.1),
// dispatching on lowercase file extension.
package extractors

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/custodia-labs/sercha-core/internal/core/ports/driven"
)

var _ driven.Extractor = (*Registry)(nil)

// Registry is an extension-keyed map of Extractors (grounded in
// bbiangul-go-reason/parser/registry.go's format→Parser map). Unregistered
// extensions fall through to the degenerate extractor rather than erroring.
type Registry struct {
	extractors map[string]driven.Extractor
	fallback   driven.Extractor
}

// NewRegistry creates a registry populated with the default extractor set.
func NewRegistry() *Registry {
	r := &Registry{
		extractors: make(map[string]driven.Extractor),
		fallback:   &DegenerateExtractor{},
	}

	plain := &PlaintextExtractor{}
	for _, ext := range []string{
		".txt", ".csv", ".log", ".json", ".yaml", ".yml", ".xml",
		".md", ".markdown", ".rst", ".adoc",
		".go", ".js", ".jsx", ".ts", ".tsx", ".py", ".java", ".rb", ".php",
		".rs", ".cs", ".c", ".cpp", ".h", ".hpp", ".scala", ".kt", ".swift",
		".sh", ".bash", ".ps1", ".sql", ".pl", ".css", ".scss", ".vue",
	} {
		r.extractors[ext] = plain
	}

	r.Register(".pdf", &PDFExtractor{})
	r.Register(".xlsx", &XLSXExtractor{})
	r.Register(".xls", &XLSXExtractor{})
	r.Register(".html", &HTMLExtractor{})
	r.Register(".htm", &HTMLExtractor{})

	return r
}

// Register adds or overrides the extractor used for an extension.
func (r *Registry) Register(ext string, e driven.Extractor) {
	r.extractors[strings.ToLower(ext)] = e
}

// Get returns the extractor registered for an extension, or the fallback
// degenerate extractor if none is registered.
func (r *Registry) Get(ext string) driven.Extractor {
	if e, ok := r.extractors[strings.ToLower(ext)]; ok {
		return e
	}
	return r.fallback
}

// Extract dispatches to the extractor registered for path's extension
// (spec §4.1).
func (r *Registry) Extract(ctx context.Context, path string) (driven.ExtractedText, error) {
	ext := strings.ToLower(filepath.Ext(path))
	return r.Get(ext).Extract(ctx, path)
}

// hashFile streams a sha256 digest of a file's raw bytes, grounded in
// bbiangul-go-reason/store/store.go's content_hash column.
func hashFile(path string) (hash string, size int64, err error) {
	f, err := os.Open(path)
	if err != nil {
		return "", 0, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	h := sha256.New()
	n, err := io.Copy(h, f)
	if err != nil {
		return "", 0, fmt.Errorf("hashing %s: %w", path, err)
	}
	return hex.EncodeToString(h.Sum(nil)), n, nil
}
