package classifier

import (
	"context"

	"github.com/custodia-labs/sercha-core/internal/core/domain"
	"github.com/custodia-labs/sercha-core/internal/core/ports/driven"
)

// ClassifyWithFallback runs the rule-based engine, then — only when its
// confidence is below domain.LLMFallbackThreshold — asks the language
// model for a second opinion (spec §4.2 step 6). Any LLM failure keeps the
// rule-based answer rather than propagating the error.
func ClassifyWithFallback(ctx context.Context, llm driven.LLMService, filename, text string) domain.Classification {
	result := Classify(filename, text)
	if result.Confidence >= domain.LLMFallbackThreshold || llm == nil {
		return result
	}

	excerpt := text
	if len(excerpt) > 1024 {
		excerpt = excerpt[:1024]
	}

	llmResult, err := llm.Classify(ctx, filename, excerpt, domainOrder)
	if err != nil || llmResult.Domain == "" {
		return result
	}

	return domain.Classification{
		Domain:       llmResult.Domain,
		Category:     orDefault(llmResult.Category, domain.CategoryOther),
		Confidence:   0.85,
		MatchedRule:  "llm-fallback",
		KeywordScore: result.KeywordScore,
		UsedLLM:      true,
	}
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
