package services

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/qdrant/go-client/qdrant"

	"hackquest/agent-api/internal/pipeline"
)

// QdrantService is the candidate index: one vector per hackathon, cosine
// distance, metadata stored in the point payload.
type QdrantService interface {
	InitCollection(ctx context.Context) error
	UpsertHackathon(ctx context.Context, id, title, problemStatement string, embedding []float32) error
	Query(ctx context.Context, vector []float32, topK int, includeMetadata bool) ([]pipeline.IndexHit, error)
}

type qdrantService struct {
	client         *qdrant.Client
	collectionName string
	vectorSize     uint64
}

func NewQdrantService(urlStr, apiKey, collectionName string) (QdrantService, error) {
	parsed, err := url.Parse(urlStr)
	if err != nil {
		return nil, fmt.Errorf("invalid Qdrant URL: %w", err)
	}

	host := parsed.Hostname()
	useTLS := parsed.Scheme == "https"

	// For gRPC client, use port 6334 by default (gRPC port)
	port := 6334
	if p := parsed.Port(); p != "" {
		if v, err := strconv.Atoi(p); err == nil {
			port = v
		}
	}

	client, err := qdrant.NewClient(&qdrant.Config{
		Host:   host,
		Port:   port,
		APIKey: apiKey,
		UseTLS: useTLS,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create qdrant client: %w", err)
	}

	return &qdrantService{
		client:         client,
		collectionName: collectionName,
		vectorSize:     768, // text-embedding-004 dimensionality
	}, nil
}

// InitCollection implements QdrantService.
func (q *qdrantService) InitCollection(ctx context.Context) error {
	exists, err := q.client.CollectionExists(ctx, q.collectionName)
	if err != nil {
		return fmt.Errorf("failed to check collection: %w", err)
	}
	if exists {
		return nil
	}

	err = q.client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: q.collectionName,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     q.vectorSize,
			Distance: qdrant.Distance_Cosine,
		}),
	})
	if err != nil {
		return fmt.Errorf("failed to create collection: %w", err)
	}

	return nil
}

// UpsertHackathon implements QdrantService.
func (q *qdrantService) UpsertHackathon(ctx context.Context, id, title, problemStatement string, embedding []float32) error {
	point := &qdrant.PointStruct{
		Id:      qdrant.NewID(id),
		Vectors: qdrant.NewVectors(embedding...),
		Payload: qdrant.NewValueMap(map[string]interface{}{
			"title":             title,
			"problem_statement": problemStatement,
		}),
	}

	_, err := q.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: q.collectionName,
		Points:         []*qdrant.PointStruct{point},
	})
	if err != nil {
		return fmt.Errorf("failed to upsert point: %w", err)
	}

	return nil
}

// Query implements QdrantService. Result order follows qdrant's own
// similarity ranking.
func (q *qdrantService) Query(ctx context.Context, vector []float32, topK int, includeMetadata bool) ([]pipeline.IndexHit, error) {
	searchResult, err := q.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: q.collectionName,
		Query:          qdrant.NewQuery(vector...),
		Limit:          qdrant.PtrOf(uint64(topK)),
		WithPayload:    qdrant.NewWithPayload(includeMetadata),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to search: %w", err)
	}

	hits := make([]pipeline.IndexHit, 0, len(searchResult))
	for _, point := range searchResult {
		hit := pipeline.IndexHit{
			Score:    point.Score,
			Metadata: make(map[string]string),
		}

		if id := point.Id; id != nil {
			if uid := id.GetUuid(); uid != "" {
				hit.ID = uid
			} else {
				hit.ID = strconv.FormatUint(id.GetNum(), 10)
			}
		}

		for key, value := range point.Payload {
			if val, ok := value.GetKind().(*qdrant.Value_StringValue); ok {
				hit.Metadata[key] = val.StringValue
			}
		}

		hits = append(hits, hit)
	}

	return hits, nil
}
