package extractors

import (
	"context"
	"os"
	"strings"

	"github.com/custodia-labs/sercha-core/internal/core/ports/driven"
)

var _ driven.Extractor = (*HTMLExtractor)(nil)

// HTMLExtractor strips tags and decodes entities into plain text with
// hand-rolled string scanning rather than pulling in a dependency for a
// single, small transformation.
type HTMLExtractor struct{}

func (e *HTMLExtractor) Extract(ctx context.Context, path string) (driven.ExtractedText, error) {
	hash, size, err := hashFile(path)
	if err != nil {
		return driven.ExtractedText{}, err
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return driven.ExtractedText{}, err
	}

	text := stripHTML(string(raw))
	return driven.ExtractedText{Text: text, ContentHash: hash, SizeBytes: size}, nil
}

func stripHTML(content string) string {
	content = removeHTMLBlock(content, "script")
	content = removeHTMLBlock(content, "style")
	content = stripTags(content)
	content = decodeEntities(content)

	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.ReplaceAll(content, "\r", "\n")
	for strings.Contains(content, "  ") {
		content = strings.ReplaceAll(content, "  ", " ")
	}
	for strings.Contains(content, "\n\n\n") {
		content = strings.ReplaceAll(content, "\n\n\n", "\n\n")
	}
	return strings.TrimSpace(content)
}

func removeHTMLBlock(content, tagName string) string {
	result := content
	startTag := "<" + tagName
	endTag := "</" + tagName + ">"
	for {
		lower := strings.ToLower(result)
		startIdx := strings.Index(lower, startTag)
		if startIdx == -1 {
			break
		}
		endIdx := strings.Index(strings.ToLower(result[startIdx:]), endTag)
		if endIdx == -1 {
			break
		}
		result = result[:startIdx] + result[startIdx+endIdx+len(endTag):]
	}
	return result
}

func stripTags(content string) string {
	var sb strings.Builder
	inTag := false
	for _, r := range content {
		switch {
		case r == '<':
			inTag = true
		case r == '>':
			inTag = false
			sb.WriteRune(' ')
		case !inTag:
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

func decodeEntities(content string) string {
	replacements := map[string]string{
		"&nbsp;": " ", "&amp;": "&", "&lt;": "<", "&gt;": ">",
		"&quot;": "\"", "&apos;": "'", "&#39;": "'",
		"&mdash;": "—", "&ndash;": "–", "&hellip;": "...",
		"&copy;": "©", "&reg;": "®", "&trade;": "™",
	}
	for entity, replacement := range replacements {
		content = strings.ReplaceAll(content, entity, replacement)
	}
	return content
}
