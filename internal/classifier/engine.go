package classifier

import (
	"math"
	"path/filepath"
	"strings"

	"github.com/custodia-labs/sercha-core/internal/core/domain"
)

// Classify runs the deterministic, rule-based portion of the classifier
// (spec §4.2 steps 1-5): guardrail rules, then the extension shortcut, then
// keyword scoring at the domain and category level, fused into one
// confidence figure. It never throws: on internal error it recovers and
// returns the documented degenerate result.
func Classify(filename, text string) (result domain.Classification) {
	defer func() {
		if r := recover(); r != nil {
			result = fallbackClassification(filename)
		}
	}()

	lowerFilename := strings.ToLower(filename)
	lowerText := strings.ToLower(text)

	for _, rule := range Guardrails {
		if rule.Match(lowerFilename, lowerText) {
			return domain.Classification{
				Domain:      rule.Domain,
				Category:    rule.Category,
				Confidence:  0.95,
				MatchedRule: "guardrail:" + rule.Name,
			}
		}
	}

	if c, ok := extensionShortcut(strings.ToLower(filepath.Ext(filename))); ok {
		return c
	}

	return scoreByKeywords(lowerFilename, lowerText)
}

// scoreByKeywords implements spec §4.2 steps 3-5.
func scoreByKeywords(lowerFilename, lowerText string) domain.Classification {
	domainScores := make(map[string]float64, len(domainOrder))
	var totalDomainScore float64
	bestDomain := domain.DomainTechnology
	bestDomainScore := -1.0

	for _, d := range domainOrder {
		lex, ok := Lexicon[d]
		if !ok {
			continue
		}
		score := 2*countAll(lowerText, lex.Strong) + countAll(lowerText, lex.Weak) + 5*countAll(lowerFilename, lex.Strong)
		domainScores[d] = score
		totalDomainScore += score
		if score > bestDomainScore {
			bestDomainScore = score
			bestDomain = d
		}
	}
	if bestDomainScore <= 0 {
		bestDomain = domain.DomainTechnology
		bestDomainScore = 0
	}

	bestCategory := domain.CategoryOther
	bestCategoryScore := -1.0
	var totalCategoryScore float64
	for _, cat := range Lexicon[bestDomain].Categories {
		score := countAll(lowerText, cat.Keywords)
		if presentAny(lowerFilename, cat.Keywords) {
			score += 5
		}
		totalCategoryScore += score
		if score > bestCategoryScore {
			bestCategoryScore = score
			bestCategory = cat.Name
		}
	}
	if bestCategoryScore <= 0 {
		bestCategory = domain.CategoryOther
		bestCategoryScore = 0
	}

	domainConf := 0.0
	if totalDomainScore > 0 {
		domainConf = bestDomainScore / totalDomainScore
	}
	categoryConf := 0.0
	if totalCategoryScore > 0 {
		categoryConf = bestCategoryScore / totalCategoryScore
	}

	combined := math.Min(1.0, 0.6*domainConf+0.4*categoryConf)
	combined = math.Round(combined*100) / 100

	return domain.Classification{
		Domain:       bestDomain,
		Category:     bestCategory,
		Confidence:   combined,
		MatchedRule:  "keyword-score",
		KeywordScore: bestDomainScore,
	}
}

// countAll sums strings.Count(text, kw) over a keyword list.
func countAll(text string, keywords []string) float64 {
	total := 0.0
	for _, kw := range keywords {
		total += float64(strings.Count(text, kw))
	}
	return total
}

func presentAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

// fallbackClassification is the documented never-throws degenerate result
// (spec §4.2): Technology/Other at zero confidence.
func fallbackClassification(filename string) domain.Classification {
	return domain.Classification{
		Domain:      domain.DomainTechnology,
		Category:    domain.CategoryOther,
		Confidence:  0.0,
		MatchedRule: "error:" + filepath.Ext(filename),
	}
}
