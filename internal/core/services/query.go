package services

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/custodia-labs/sercha-core/internal/core/domain"
	"github.com/custodia-labs/sercha-core/internal/core/ports/driven"
	"github.com/custodia-labs/sercha-core/internal/core/ports/driving"
	"github.com/custodia-labs/sercha-core/internal/runtime"
)

// Ensure queryService implements QueryService
var _ driving.QueryService = (*queryService)(nil)

// queryService implements the grounded-answer retrieval pipeline (spec
// §4.9): vector-store retrieval, RBAC filtering, reranking, and LLM
// synthesis. When the embedding or LLM service isn't configured it returns
// an error wrapping domain.ErrModelUnavailable instead of silently
// returning no results.
type queryService struct {
	vectorStore   driven.VectorStore
	chunkStore    driven.ChunkStore
	documentStore driven.DocumentStore
	reranker      driven.Reranker
	services      *runtime.Services
	logger        *slog.Logger
}

// NewQueryService creates a new QueryService.
func NewQueryService(
	vectorStore driven.VectorStore,
	chunkStore driven.ChunkStore,
	documentStore driven.DocumentStore,
	reranker driven.Reranker,
	services *runtime.Services,
	logger *slog.Logger,
) driving.QueryService {
	return &queryService{
		vectorStore:   vectorStore,
		chunkStore:    chunkStore,
		documentStore: documentStore,
		reranker:      reranker,
		services:      services,
		logger:        logger,
	}
}

// filenameToken matches filename-like tokens with one dot between name and
// extension (spec §9 Open Question); in a multi-dot name such as
// archive.tar.gz it matches only the leading archive.tar.
var filenameToken = regexp.MustCompile(`\b[\w-]+\.[\w]+\b`)

// fileIntentPhrases are the case-insensitive cues that, together with a
// filename-like token, trigger whole-file retrieval instead of kNN search.
var fileIntentPhrases = []string{
	"give me", "show me", "full text of", "entire file", "whole document",
	"complete text", "contents of", "read me the file", "dame el archivo",
	"muéstrame",
}

// refusalPhrases are checked case-insensitively against the model's answer
// to detect a grounded refusal (spec §4.9 step 9).
var refusalPhrases = []string{
	"i don't have enough information",
	"i do not have enough information",
	"i don't know based on the provided sources",
	"cannot answer",
	"can't answer",
}

func (s *queryService) Query(ctx context.Context, caller *domain.AuthContext, req domain.QueryRequest) (*domain.QueryResult, error) {
	start := time.Now()
	lang := detectLanguage(req.Query)

	if filename, ok := wholeFileIntent(req.Query); ok {
		result, err := s.wholeFileRetrieval(ctx, caller, req.Query, filename, lang)
		if err != nil {
			return nil, err
		}
		if result != nil {
			result.Took = time.Since(start)
			return result, nil
		}
		// No chunks matched that filename; fall through to normal retrieval.
	}

	embeddingService := s.services.EmbeddingService()
	if embeddingService == nil {
		return nil, fmt.Errorf("%w: no embedding service configured", domain.ErrModelUnavailable)
	}
	llm := s.services.LLMService()
	if llm == nil {
		return nil, fmt.Errorf("%w: no LLM service configured", domain.ErrModelUnavailable)
	}

	queryEmbedding, err := embeddingService.EmbedQuery(ctx, req.Query)
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}

	matches, err := s.vectorStore.Query(ctx, queryEmbedding, domain.QueryKNNCandidates)
	if err != nil {
		return nil, fmt.Errorf("vector query: %w", err)
	}

	var cutoff []driven.VectorMatch
	for _, m := range matches {
		if m.Distance < domain.QueryDistanceCutoff {
			cutoff = append(cutoff, m)
		}
	}

	if len(cutoff) == 0 {
		return &domain.QueryResult{
			Query: req.Query, Outcome: domain.QueryOutcomeNoResults,
			Language: lang, Took: time.Since(start),
		}, nil
	}

	visible, accessDenied := s.rbacFilter(ctx, caller, cutoff)
	if accessDenied {
		return &domain.QueryResult{
			Query: req.Query, Outcome: domain.QueryOutcomeAccessDenied,
			Language: lang, Took: time.Since(start),
		}, nil
	}
	if len(visible) == 0 {
		return &domain.QueryResult{
			Query: req.Query, Outcome: domain.QueryOutcomeNoResults,
			Language: lang, Took: time.Since(start),
		}, nil
	}

	ranked, err := s.rerank(ctx, req.Query, visible)
	if err != nil {
		return nil, fmt.Errorf("reranking: %w", err)
	}

	ranked = applyNoiseFloor(ranked)
	if len(ranked) == 0 {
		return &domain.QueryResult{
			Query: req.Query, Outcome: domain.QueryOutcomeNoResults,
			Language: lang, Took: time.Since(start),
		}, nil
	}

	sources := make([]string, len(ranked))
	for i, rc := range ranked {
		filename := rc.Document.Filename
		sources[i] = fmt.Sprintf("Source %d: %s\n%s", i+1, filename, rc.Chunk.Content)
	}

	prompt := req.Query
	if requiresDefinitionPrefix(req.Query) {
		prompt = "Begin with a 1-2 line definition, then answer: " + req.Query
	}

	answer, err := llm.GenerateAnswer(ctx, prompt, sources)
	if err != nil {
		return nil, fmt.Errorf("generating answer: %w", err)
	}

	if isRefusal(answer) {
		return &domain.QueryResult{
			Query: req.Query, Answer: answer, Outcome: domain.QueryOutcomeRefused,
			Language: lang, Took: time.Since(start),
		}, nil
	}

	confidence := computeConfidence(ranked)
	return &domain.QueryResult{
		Query:           req.Query,
		Answer:          answer,
		Outcome:         domain.QueryOutcomeAnswered,
		Sources:         ranked,
		Confidence:      confidence,
		ConfidenceLabel: domain.LabelForConfidence(confidence),
		Language:        lang,
		Took:            time.Since(start),
	}, nil
}

// rbacFilter drops candidates whose document the caller's role may not see,
// reporting whether RBAC dropped a non-empty pre-filter set entirely (spec
// §4.9 step 4's distinct "access denied" path).
func (s *queryService) rbacFilter(ctx context.Context, caller *domain.AuthContext, candidates []driven.VectorMatch) (visible []driven.VectorMatch, accessDenied bool) {
	docCache := make(map[string]*domain.Document, len(candidates))
	for _, c := range candidates {
		doc, ok := docCache[c.DocumentID]
		if !ok {
			fetched, err := s.documentStore.Get(ctx, c.DocumentID)
			if err != nil {
				s.logger.Warn("query: document lookup failed", "document_id", c.DocumentID, "error", err)
				continue
			}
			doc = fetched
			docCache[c.DocumentID] = doc
		}
		if CanSeeDocument(caller.Role, doc) {
			visible = append(visible, c)
		}
	}
	if len(visible) == 0 && len(candidates) > 0 {
		return nil, true
	}
	return visible, false
}

// rerank cross-encodes survivors against the query. If no reranker is
// configured it keeps the QueryRerankTopK nearest candidates in distance
// order, each scored with its negated distance.
func (s *queryService) rerank(ctx context.Context, query string, candidates []driven.VectorMatch) ([]*domain.RankedChunk, error) {
	byID := make(map[string]driven.VectorMatch, len(candidates))
	rerankCandidates := make([]driven.RerankCandidate, len(candidates))
	for i, c := range candidates {
		byID[c.ChunkID] = c
		rerankCandidates[i] = driven.RerankCandidate{ID: c.ChunkID, Text: c.Content}
	}

	var results []driven.RerankResult
	if s.reranker != nil {
		rr, err := s.reranker.Rerank(ctx, query, rerankCandidates, domain.QueryRerankTopK)
		if err != nil {
			return nil, err
		}
		results = rr
	} else {
		sort.Slice(candidates, func(i, j int) bool { return candidates[i].Distance < candidates[j].Distance })
		n := domain.QueryRerankTopK
		if n > len(candidates) {
			n = len(candidates)
		}
		results = make([]driven.RerankResult, n)
		for i := 0; i < n; i++ {
			results[i] = driven.RerankResult{ID: candidates[i].ChunkID, Score: -candidates[i].Distance}
		}
	}

	ranked := make([]*domain.RankedChunk, 0, len(results))
	for _, r := range results {
		match, ok := byID[r.ID]
		if !ok {
			continue
		}
		doc, err := s.documentStore.Get(ctx, match.DocumentID)
		if err != nil {
			s.logger.Warn("query: document lookup failed during rerank", "document_id", match.DocumentID, "error", err)
			continue
		}
		ranked = append(ranked, &domain.RankedChunk{
			Chunk: &domain.Chunk{
				ID:         match.ChunkID,
				DocumentID: match.DocumentID,
				Content:    match.Content,
			},
			Document:       doc,
			Distance:       match.Distance,
			RelevanceScore: r.Score,
		})
	}
	return ranked, nil
}

// applyNoiseFloor drops chunks at or below the noise floor, keeping the
// top-ranked chunk if that empties the set (spec §4.9 step 6).
func applyNoiseFloor(ranked []*domain.RankedChunk) []*domain.RankedChunk {
	var kept []*domain.RankedChunk
	for _, rc := range ranked {
		if rc.RelevanceScore > domain.QueryNoiseFloorScore {
			kept = append(kept, rc)
		}
	}
	if len(kept) == 0 && len(ranked) > 0 {
		best := ranked[0]
		for _, rc := range ranked[1:] {
			if rc.RelevanceScore > best.RelevanceScore {
				best = rc
			}
		}
		return []*domain.RankedChunk{best}
	}
	return kept
}

// computeConfidence implements spec §4.9 step 10's formula.
func computeConfidence(ranked []*domain.RankedChunk) float64 {
	if len(ranked) == 0 {
		return 0
	}
	var simSum, distSum float64
	for _, rc := range ranked {
		simSum += 1 - rc.Distance/2
		distSum += rc.Distance
	}
	n := float64(len(ranked))
	meanSimilarity := simSum / n
	meanDistance := distSum / n

	chunkBonus := n / 5
	if chunkBonus > 1 {
		chunkBonus = 1
	}
	distanceConfidence := 1 - meanDistance/2
	if distanceConfidence < 0 {
		distanceConfidence = 0
	}

	confidence := 100 * (0.4*meanSimilarity + 0.3*chunkBonus + 0.3*distanceConfidence)
	if confidence < 0 {
		confidence = 0
	}
	if confidence > 100 {
		confidence = 100
	}
	return confidence
}

// wholeFileIntent reports whether query contains both a filename-like token
// and a file-intent phrase, returning the token if so (spec §4.9 step 2).
func wholeFileIntent(query string) (string, bool) {
	lower := strings.ToLower(query)
	hasIntent := false
	for _, phrase := range fileIntentPhrases {
		if strings.Contains(lower, phrase) {
			hasIntent = true
			break
		}
	}
	if !hasIntent {
		return "", false
	}
	token := filenameToken.FindString(query)
	if token == "" {
		return "", false
	}
	return token, true
}

// wholeFileRetrieval fetches every chunk tagged with the given filename,
// concatenates them in chunk-index order, and returns a single-block
// literal-content answer at confidence 1.0. Returns (nil, nil) if no chunk
// carries that filename, so the caller can fall through to normal
// retrieval.
func (s *queryService) wholeFileRetrieval(ctx context.Context, caller *domain.AuthContext, query, filename, lang string) (*domain.QueryResult, error) {
	matches, err := s.vectorStore.Get(ctx, map[string]string{domain.MetaKeyFilename: filename})
	if err != nil {
		return nil, fmt.Errorf("whole-file lookup: %w", err)
	}
	if len(matches) == 0 {
		return nil, nil
	}

	doc, err := s.documentStore.Get(ctx, matches[0].DocumentID)
	if err != nil {
		return nil, nil
	}
	if !CanSeeDocument(caller.Role, doc) {
		return &domain.QueryResult{Query: query, Outcome: domain.QueryOutcomeAccessDenied, Language: lang}, nil
	}

	sort.Slice(matches, func(i, j int) bool {
		return chunkIndexOf(matches[i]) < chunkIndexOf(matches[j])
	})

	var sb strings.Builder
	sources := make([]*domain.RankedChunk, 0, len(matches))
	for _, m := range matches {
		sb.WriteString(m.Content)
		sb.WriteString("\n")
		sources = append(sources, &domain.RankedChunk{
			Chunk:          &domain.Chunk{ID: m.ChunkID, DocumentID: m.DocumentID, Content: m.Content},
			Document:       doc,
			RelevanceScore: 1.0,
		})
	}

	return &domain.QueryResult{
		Query:           query,
		Answer:          sb.String(),
		Outcome:         domain.QueryOutcomeAnswered,
		Sources:         sources,
		Confidence:      100,
		ConfidenceLabel: domain.ConfidenceHigh,
		Language:        lang,
	}, nil
}

func chunkIndexOf(m driven.VectorMatch) int {
	v, ok := m.Metadata[domain.MetaKeyChunkIndex]
	if !ok {
		return 0
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0
	}
	return n
}

// requiresDefinitionPrefix matches spec §4.9 step 7's trigger phrases.
func requiresDefinitionPrefix(query string) bool {
	lower := strings.ToLower(query)
	for _, phrase := range []string{"what is", "define", "definition of", "meaning of"} {
		if strings.Contains(lower, phrase) {
			return true
		}
	}
	return false
}

func isRefusal(answer string) bool {
	lower := strings.ToLower(answer)
	for _, phrase := range refusalPhrases {
		if strings.Contains(lower, phrase) {
			return true
		}
	}
	return false
}

// detectLanguage is a best-effort script sniff over the query's rune ranges,
// good enough to localize the two canned strings (spec §4.9 step 1, §9 Open
// Question: no pack example ships a language-id library, so this is
// intentionally minimal stdlib logic rather than an invented dependency).
func detectLanguage(query string) string {
	var latinAccented, cyrillic, cjk int
	for _, r := range query {
		switch {
		case r >= 0x0400 && r <= 0x04FF:
			cyrillic++
		case r >= 0x4E00 && r <= 0x9FFF:
			cjk++
		case r >= 0x00C0 && r <= 0x017F:
			latinAccented++
		}
	}
	switch {
	case cjk > 0:
		return "zh"
	case cyrillic > 0:
		return "ru"
	case latinAccented > 0:
		return "es"
	default:
		return "en"
	}
}
