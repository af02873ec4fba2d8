package extractors

import (
	"context"
	"path/filepath"

	"github.com/custodia-labs/sercha-core/internal/core/ports/driven"
)

var _ driven.Extractor = (*DegenerateExtractor)(nil)

// DegenerateExtractor handles unknown extensions: content is reduced to
// just the filename so the document is still discoverable by name, even
// though its body was never extracted (spec §4.1).
type DegenerateExtractor struct{}

func (e *DegenerateExtractor) Extract(ctx context.Context, path string) (driven.ExtractedText, error) {
	hash, size, err := hashFile(path)
	if err != nil {
		return driven.ExtractedText{}, err
	}
	return driven.ExtractedText{
		Text:        "File: " + filepath.Base(path),
		ContentHash: hash,
		SizeBytes:   size,
	}, nil
}
