// Package qdrant implements the VectorStore port against a Qdrant
// collection, grounded in intelligencedev-manifold's qdrantVector adapter:
// the same DSN-to-gRPC-config parsing, the UUID-or-deterministic-UUID point
// id trick (Qdrant only accepts UUIDs/uints as point ids, so a non-UUID
// chunk id is rehashed and the original kept in the payload), and the
// Filter-from-map query shape.
package qdrant

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/qdrant/go-client/qdrant"

	"github.com/custodia-labs/sercha-core/internal/core/ports/driven"
)

// payloadChunkIDField stores the caller-supplied chunk id when it isn't
// itself a valid Qdrant point id (UUID).
const payloadChunkIDField = "_chunk_id"
const payloadDocumentIDField = "_document_id"
const payloadContentField = "_content"

var _ driven.VectorStore = (*Store)(nil)

// Store implements driven.VectorStore over a Qdrant collection.
type Store struct {
	client     *qdrant.Client
	collection string
	dimension  int
}

// Config holds the parameters needed to connect to Qdrant and ensure the
// target collection exists.
type Config struct {
	DSN        string // e.g. "http://localhost:6334?api_key=..."
	Collection string
	Dimension  int
	Metric     string // cosine|l2|euclidean|ip|dot|manhattan, default cosine
}

// New connects to Qdrant and ensures the configured collection exists.
func New(cfg Config) (*Store, error) {
	if cfg.Collection == "" {
		return nil, fmt.Errorf("qdrant: collection name is required")
	}
	parsed, err := url.Parse(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("qdrant: parse dsn: %w", err)
	}
	host := parsed.Hostname()
	if host == "" {
		host = "localhost"
	}
	port := parsed.Port()
	if port == "" {
		port = "6334"
	}
	portNum, err := strconv.Atoi(port)
	if err != nil {
		return nil, fmt.Errorf("qdrant: invalid port in dsn: %w", err)
	}

	clientCfg := &qdrant.Config{Host: host, Port: portNum}
	if parsed.Scheme == "https" {
		clientCfg.UseTLS = true
	}
	if apiKey := parsed.Query().Get("api_key"); apiKey != "" {
		clientCfg.APIKey = apiKey
	}

	client, err := qdrant.NewClient(clientCfg)
	if err != nil {
		return nil, fmt.Errorf("qdrant: creating client: %w", err)
	}

	s := &Store{client: client, collection: cfg.Collection, dimension: cfg.Dimension}
	if err := s.ensureCollection(context.Background(), cfg.Metric); err != nil {
		client.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) ensureCollection(ctx context.Context, metric string) error {
	exists, err := s.client.CollectionExists(ctx, s.collection)
	if err != nil {
		return fmt.Errorf("qdrant: checking collection: %w", err)
	}
	if exists {
		return nil
	}
	if s.dimension <= 0 {
		return fmt.Errorf("qdrant: dimension must be > 0 to create a collection")
	}

	var distance qdrant.Distance
	switch strings.ToLower(strings.TrimSpace(metric)) {
	case "l2", "euclidean":
		distance = qdrant.Distance_Euclid
	case "ip", "dot":
		distance = qdrant.Distance_Dot
	case "manhattan":
		distance = qdrant.Distance_Manhattan
	default:
		distance = qdrant.Distance_Cosine
	}

	return s.client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: s.collection,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     uint64(s.dimension),
			Distance: distance,
		}),
	})
}

func pointIDFor(chunkID string) (pointID *qdrant.PointId, rehashed bool) {
	if _, err := uuid.Parse(chunkID); err == nil {
		return qdrant.NewIDUUID(chunkID), false
	}
	return qdrant.NewIDUUID(uuid.NewSHA1(uuid.NameSpaceOID, []byte(chunkID)).String()), true
}

// Add upserts chunks into the collection.
func (s *Store) Add(ctx context.Context, chunks []driven.VectorChunk) error {
	points := make([]*qdrant.PointStruct, 0, len(chunks))
	for _, c := range chunks {
		pointID, rehashed := pointIDFor(c.ChunkID)

		payload := make(map[string]any, len(c.Metadata)+3)
		for k, v := range c.Metadata {
			payload[k] = v
		}
		payload[payloadDocumentIDField] = c.DocumentID
		payload[payloadContentField] = c.Content
		if rehashed {
			payload[payloadChunkIDField] = c.ChunkID
		}

		vec := make([]float32, len(c.Embedding))
		copy(vec, c.Embedding)

		points = append(points, &qdrant.PointStruct{
			Id:      pointID,
			Vectors: qdrant.NewVectorsDense(vec),
			Payload: qdrant.NewValueMap(payload),
		})
	}

	_, err := s.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: s.collection,
		Points:         points,
	})
	if err != nil {
		return fmt.Errorf("qdrant: upsert: %w", err)
	}
	return nil
}

// Query returns the n nearest neighbours to queryEmbedding.
func (s *Store) Query(ctx context.Context, queryEmbedding []float32, n int) ([]driven.VectorMatch, error) {
	if n <= 0 {
		n = 10
	}
	vec := make([]float32, len(queryEmbedding))
	copy(vec, queryEmbedding)
	limit := uint64(n)

	hits, err := s.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: s.collection,
		Query:          qdrant.NewQueryDense(vec),
		Limit:          &limit,
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, fmt.Errorf("qdrant: query: %w", err)
	}

	matches := make([]driven.VectorMatch, 0, len(hits))
	for _, hit := range hits {
		matches = append(matches, matchFromHit(hit.Id, hit.Payload, float64(hit.Score)))
	}
	return matches, nil
}

// Get returns chunks matching a metadata predicate.
func (s *Store) Get(ctx context.Context, where map[string]string) ([]driven.VectorMatch, error) {
	filter := filterFromMap(where)
	var matches []driven.VectorMatch
	var offset *qdrant.PointId

	for {
		limit := uint32(256)
		resp, err := s.client.Scroll(ctx, &qdrant.ScrollPoints{
			CollectionName: s.collection,
			Filter:         filter,
			Limit:          &limit,
			Offset:         offset,
			WithPayload:    qdrant.NewWithPayload(true),
		})
		if err != nil {
			return nil, fmt.Errorf("qdrant: scroll: %w", err)
		}
		for _, p := range resp {
			matches = append(matches, matchFromHit(p.Id, p.Payload, 0))
		}
		if len(resp) < int(limit) {
			break
		}
		offset = resp[len(resp)-1].Id
	}
	return matches, nil
}

// Delete removes chunks by id, by predicate, or both (OR semantics).
func (s *Store) Delete(ctx context.Context, ids []string, where map[string]string) error {
	var selectors []*qdrant.PointsSelector

	if len(ids) > 0 {
		pointIDs := make([]*qdrant.PointId, 0, len(ids))
		for _, id := range ids {
			pid, _ := pointIDFor(id)
			pointIDs = append(pointIDs, pid)
		}
		selectors = append(selectors, qdrant.NewPointsSelector(pointIDs...))
	}
	if len(where) > 0 {
		selectors = append(selectors, &qdrant.PointsSelector{
			PointsSelectorOneOf: &qdrant.PointsSelector_Filter{Filter: filterFromMap(where)},
		})
	}

	for _, sel := range selectors {
		if _, err := s.client.Delete(ctx, &qdrant.DeletePoints{
			CollectionName: s.collection,
			Points:         sel,
		}); err != nil {
			return fmt.Errorf("qdrant: delete: %w", err)
		}
	}
	return nil
}

// Count returns the total number of indexed chunks.
func (s *Store) Count(ctx context.Context) (int, error) {
	n, err := s.client.Count(ctx, &qdrant.CountPoints{CollectionName: s.collection})
	if err != nil {
		return 0, fmt.Errorf("qdrant: count: %w", err)
	}
	return int(n), nil
}

// Close releases the gRPC connection.
func (s *Store) Close() error {
	return s.client.Close()
}

func filterFromMap(where map[string]string) *qdrant.Filter {
	if len(where) == 0 {
		return nil
	}
	must := make([]*qdrant.Condition, 0, len(where))
	for k, v := range where {
		key := k
		if k == "document_id" {
			key = payloadDocumentIDField
		}
		must = append(must, qdrant.NewMatch(key, v))
	}
	return &qdrant.Filter{Must: must}
}

func matchFromHit(id *qdrant.PointId, payload map[string]*qdrant.Value, score float64) driven.VectorMatch {
	metadata := make(map[string]string, len(payload))
	var chunkID, documentID, content string
	for k, v := range payload {
		switch k {
		case payloadChunkIDField:
			chunkID = v.GetStringValue()
		case payloadDocumentIDField:
			documentID = v.GetStringValue()
		case payloadContentField:
			content = v.GetStringValue()
		default:
			metadata[k] = v.GetStringValue()
		}
	}
	if chunkID == "" {
		chunkID = id.GetUuid()
		if chunkID == "" {
			chunkID = id.String()
		}
	}
	return driven.VectorMatch{
		ChunkID:    chunkID,
		DocumentID: documentID,
		Content:    content,
		Distance:   1 - score,
		Metadata:   metadata,
	}
}
