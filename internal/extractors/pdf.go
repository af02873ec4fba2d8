package extractors

import (
	"context"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/custodia-labs/sercha-core/internal/core/ports/driven"
)

var _ driven.Extractor = (*PDFExtractor)(nil)

// PDFExtractor pulls plain text out of a PDF page by page (grounded in
// bbiangul-go-reason/parser/pdf.go's pdf.Open + GetPlainText path — the
// simple text path, not that file's heading/section/image extraction).
type PDFExtractor struct{}

func (e *PDFExtractor) Extract(ctx context.Context, path string) (driven.ExtractedText, error) {
	hash, size, err := hashFile(path)
	if err != nil {
		return driven.ExtractedText{}, err
	}

	f, reader, err := pdf.Open(path)
	if err != nil {
		return driven.ExtractedText{}, fmt.Errorf("opening PDF %s: %w", path, err)
	}
	defer f.Close()

	var sb strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		sb.WriteString(text)
		sb.WriteString("\n")
	}

	return driven.ExtractedText{Text: sb.String(), ContentHash: hash, SizeBytes: size}, nil
}
