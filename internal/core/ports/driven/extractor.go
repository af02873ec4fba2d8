package driven

import "context"

// ExtractedText is the result of pulling plain text out of a file.
type ExtractedText struct {
	Text        string
	ContentHash string
	SizeBytes   int64
}

// Extractor turns a file on disk into plain text (spec §4.1). Registered in
// the registry keyed by lowercase file extension (including the dot).
type Extractor interface {
	Extract(ctx context.Context, path string) (ExtractedText, error)
}
