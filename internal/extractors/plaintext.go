package extractors

import (
	"context"
	"fmt"
	"os"

	"github.com/custodia-labs/sercha-core/internal/core/ports/driven"
)

var _ driven.Extractor = (*PlaintextExtractor)(nil)

// PlaintextExtractor passes through UTF-8 text files (source code,
// markdown, plain text) unchanged.
type PlaintextExtractor struct{}

func (e *PlaintextExtractor) Extract(ctx context.Context, path string) (driven.ExtractedText, error) {
	hash, size, err := hashFile(path)
	if err != nil {
		return driven.ExtractedText{}, err
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return driven.ExtractedText{}, fmt.Errorf("reading %s: %w", path, err)
	}

	return driven.ExtractedText{Text: string(content), ContentHash: hash, SizeBytes: size}, nil
}
