// Package postprocessors turns extracted document text into the chunks that
// get embedded and indexed (spec §4.7 step 9). Chunking is an internal
// algorithm detail of the ingestion pipeline, not a pluggable port — there
// is exactly one chunking strategy, adaptively sized by source length.
package postprocessors

import (
	"sort"
	"strings"
	"sync"

	"github.com/custodia-labs/sercha-core/internal/core/domain"
)

// Chunk is a post-processed slice of document content, prior to embedding.
type Chunk struct {
	Content     string
	Position    int
	StartOffset int
	EndOffset   int
	Metadata    map[string]string
}

// Processor transforms a slice of chunks into another slice of chunks.
// Processors run in ascending Order(); the chunker (Order 0) runs first.
type Processor interface {
	Process(chunks []Chunk) []Chunk
	Name() string
	Order() int
}

// Pipeline chains post-processors, starting from a single whole-content
// chunk and narrowing it down to the final indexed chunk set.
type Pipeline struct {
	mu         sync.RWMutex
	processors []Processor
	sorted     bool
}

// NewPipeline creates an empty post-processor pipeline.
func NewPipeline() *Pipeline {
	return &Pipeline{processors: make([]Processor, 0)}
}

// Add appends a processor to the pipeline. Processors are (re-)sorted by
// Order() the next time Process runs.
func (p *Pipeline) Add(processor Processor) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.processors = append(p.processors, processor)
	p.sorted = false
}

// Process applies every processor in order to the raw document content,
// returning the chunks ready for embedding/indexing.
func (p *Pipeline) Process(content string) []Chunk {
	p.mu.Lock()
	if !p.sorted {
		sort.Slice(p.processors, func(i, j int) bool {
			return p.processors[i].Order() < p.processors[j].Order()
		})
		p.sorted = true
	}
	processors := make([]Processor, len(p.processors))
	copy(processors, p.processors)
	p.mu.Unlock()

	chunks := []Chunk{{Content: content, Position: 0, StartOffset: 0, EndOffset: len(content)}}
	for _, proc := range processors {
		chunks = proc.Process(chunks)
	}
	return chunks
}

// List returns processor names in their stored order: insertion order until
// Process has sorted them into run order by Order().
func (p *Pipeline) List() []string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	names := make([]string, len(p.processors))
	for i, proc := range p.processors {
		names[i] = proc.Name()
	}
	return names
}

// DefaultPipeline creates a pipeline with just the default-sized chunker.
func DefaultPipeline() *Pipeline {
	p := NewPipeline()
	p.Add(NewChunker(DefaultChunkConfig()))
	return p
}

// AdaptivePipeline builds the pipeline the ingestion worker actually runs:
// a chunker sized to the source document's byte length (spec §4.7 step 9),
// whitespace normalization, then deduplication.
func AdaptivePipeline(sourceSizeBytes int64) *Pipeline {
	p := NewPipeline()
	p.Add(NewChunker(ChunkConfigFromDomain(domain.ChunkConfigForSize(sourceSizeBytes))))
	p.Add(NewWhitespaceNormalizer())
	p.Add(NewDeduplicator(DefaultDeduplicatorConfig()))
	return p
}

// ChunkConfig controls the chunker's size/overlap/boundary-preservation
// behavior.
type ChunkConfig struct {
	MaxChunkSize       int
	Overlap            int
	PreserveSentences  bool
	PreserveParagraphs bool
}

// DefaultChunkConfig returns sensible defaults.
func DefaultChunkConfig() ChunkConfig {
	return ChunkConfig{MaxChunkSize: 1000, Overlap: 200, PreserveSentences: true, PreserveParagraphs: true}
}

// ChunkConfigFromDomain adapts the adaptive tier picked by
// domain.ChunkConfigForSize into a chunker ChunkConfig.
func ChunkConfigFromDomain(c domain.ChunkConfig) ChunkConfig {
	return ChunkConfig{
		MaxChunkSize:       c.MaxChunkSize,
		Overlap:            c.Overlap,
		PreserveSentences:  true,
		PreserveParagraphs: true,
	}
}

// Chunker splits content into overlapping chunks, preferring paragraph,
// then sentence, then word boundaries. Always runs first (Order 0).
type Chunker struct {
	config ChunkConfig
}

var _ Processor = (*Chunker)(nil)

// NewChunker creates a chunker with the given config.
func NewChunker(config ChunkConfig) *Chunker {
	return &Chunker{config: config}
}

func (c *Chunker) Process(chunks []Chunk) []Chunk {
	var result []Chunk
	position := 0
	for _, chunk := range chunks {
		result = append(result, c.splitContent(chunk.Content, chunk.StartOffset, &position)...)
	}
	return result
}

func (c *Chunker) Name() string { return "chunker" }
func (c *Chunker) Order() int   { return 0 }

func (c *Chunker) splitContent(content string, baseOffset int, position *int) []Chunk {
	if len(content) <= c.config.MaxChunkSize {
		chunk := Chunk{Content: content, Position: *position, StartOffset: baseOffset, EndOffset: baseOffset + len(content)}
		*position++
		return []Chunk{chunk}
	}

	var chunks []Chunk
	start := 0
	for start < len(content) {
		end := start + c.config.MaxChunkSize
		if end > len(content) {
			end = len(content)
		}

		if end < len(content) && (c.config.PreserveSentences || c.config.PreserveParagraphs) {
			if bp := c.findBreakPoint(content, start, end); bp > start {
				end = bp
			}
		}

		chunks = append(chunks, Chunk{
			Content:     content[start:end],
			Position:    *position,
			StartOffset: baseOffset + start,
			EndOffset:   baseOffset + end,
		})
		*position++

		if end >= len(content) {
			break
		}

		nextStart := end - c.config.Overlap
		if nextStart <= start {
			nextStart = start + 1
		}
		start = nextStart
	}
	return chunks
}

func (c *Chunker) findBreakPoint(content string, start, maxEnd int) int {
	searchStart := maxEnd - 100
	if searchStart < start {
		searchStart = start
	}
	searchContent := content[searchStart:maxEnd]

	if c.config.PreserveParagraphs {
		if idx := strings.LastIndex(searchContent, "\n\n"); idx != -1 {
			return searchStart + idx + 2
		}
	}

	if c.config.PreserveSentences {
		sentenceEnders := []string{". ", "! ", "? ", ".\n", "!\n", "?\n"}
		bestIdx := -1
		for _, ender := range sentenceEnders {
			if idx := strings.LastIndex(searchContent, ender); idx != -1 {
				if endPos := idx + len(ender); endPos > bestIdx {
					bestIdx = endPos
				}
			}
		}
		if bestIdx > 0 {
			return searchStart + bestIdx
		}
	}

	if idx := strings.LastIndex(searchContent, " "); idx != -1 {
		return searchStart + idx + 1
	}
	return maxEnd
}

// DeduplicatorConfig configures near-duplicate chunk removal.
type DeduplicatorConfig struct {
	MinDuplicateLength  int
	SimilarityThreshold float64
}

// DefaultDeduplicatorConfig returns sensible defaults.
func DefaultDeduplicatorConfig() DeduplicatorConfig {
	return DeduplicatorConfig{MinDuplicateLength: 50, SimilarityThreshold: 0.95}
}

// Deduplicator drops exact-duplicate chunks (after normalization) that
// crop up when overlapping chunk windows reproduce boilerplate content.
type Deduplicator struct {
	config DeduplicatorConfig
}

var _ Processor = (*Deduplicator)(nil)

// NewDeduplicator creates a deduplicator with the given config.
func NewDeduplicator(config DeduplicatorConfig) *Deduplicator {
	return &Deduplicator{config: config}
}

func (d *Deduplicator) Process(chunks []Chunk) []Chunk {
	if len(chunks) <= 1 {
		return chunks
	}

	seen := make(map[string]bool)
	var result []Chunk
	for _, chunk := range chunks {
		if len(chunk.Content) < d.config.MinDuplicateLength {
			result = append(result, chunk)
			continue
		}
		normalized := strings.TrimSpace(strings.ToLower(chunk.Content))
		if !seen[normalized] {
			seen[normalized] = true
			result = append(result, chunk)
		}
	}
	return result
}

func (d *Deduplicator) Name() string { return "deduplicator" }
func (d *Deduplicator) Order() int   { return 10 }

// WhitespaceNormalizer collapses redundant whitespace left over from PDF/
// XLSX extraction before embedding.
type WhitespaceNormalizer struct{}

var _ Processor = (*WhitespaceNormalizer)(nil)

// NewWhitespaceNormalizer creates a whitespace normalizer.
func NewWhitespaceNormalizer() *WhitespaceNormalizer {
	return &WhitespaceNormalizer{}
}

func (w *WhitespaceNormalizer) Process(chunks []Chunk) []Chunk {
	result := make([]Chunk, 0, len(chunks))
	for _, chunk := range chunks {
		content := chunk.Content
		content = strings.ReplaceAll(content, "\r\n", "\n")
		content = strings.ReplaceAll(content, "\r", "\n")

		lines := strings.Split(content, "\n")
		for i, line := range lines {
			for strings.Contains(line, "  ") {
				line = strings.ReplaceAll(line, "  ", " ")
			}
			lines[i] = strings.TrimSpace(line)
		}
		content = strings.Join(lines, "\n")

		for strings.Contains(content, "\n\n\n") {
			content = strings.ReplaceAll(content, "\n\n\n", "\n\n")
		}
		content = strings.TrimSpace(content)

		if len(content) > 0 {
			newChunk := chunk
			newChunk.Content = content
			result = append(result, newChunk)
		}
	}
	return result
}

func (w *WhitespaceNormalizer) Name() string { return "whitespace-normalizer" }
func (w *WhitespaceNormalizer) Order() int   { return 5 }
