package extractors

import (
	"context"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/custodia-labs/sercha-core/internal/core/ports/driven"
)

var _ driven.Extractor = (*XLSXExtractor)(nil)

// XLSXExtractor flattens every sheet's rows into a pipe-delimited markdown
// table (grounded in bbiangul-go-reason/parser/xlsx.go).
type XLSXExtractor struct{}

func (e *XLSXExtractor) Extract(ctx context.Context, path string) (driven.ExtractedText, error) {
	hash, size, err := hashFile(path)
	if err != nil {
		return driven.ExtractedText{}, err
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		return driven.ExtractedText{}, fmt.Errorf("opening XLSX %s: %w", path, err)
	}
	defer f.Close()

	var sb strings.Builder
	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil || len(rows) == 0 {
			continue
		}
		fmt.Fprintf(&sb, "## %s\n", sheet)
		for _, row := range rows {
			sb.WriteString("| " + strings.Join(row, " | ") + " |\n")
		}
		sb.WriteString("\n")
	}

	return driven.ExtractedText{Text: sb.String(), ContentHash: hash, SizeBytes: size}, nil
}
