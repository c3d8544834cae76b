package services

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"strconv"

	"github.com/qdrant/go-client/qdrant"
)

// CandidatePoint is one candidate's vector and the payload stored with it.
type CandidatePoint struct {
	CandidateID   string
	UserID        string
	UploadID      string
	CandidateName string
	Filename      string
	JobRole       string
	Score         float64
	MatchedSkills string
	Vector        []float32
}

type SearchResult struct {
	ID         string
	Similarity float32
	Payload    map[string]string
	Score      float64
}

type VectorStore interface {
	InitCollection(ctx context.Context) error
	UpsertCandidates(ctx context.Context, points []CandidatePoint) error
	SearchCandidates(ctx context.Context, queryEmbedding []float32, userID string, limit int) ([]SearchResult, error)
	DeleteUserCandidates(ctx context.Context, userID string) error
}

type qdrantService struct {
	client         *qdrant.Client
	collectionName string
	vectorSize     uint64
}

func NewQdrantService(urlStr, apiKey, collectionName string) (VectorStore, error) {
	// Parse URL to extract host, port, and TLS usage
	parsed, err := url.Parse(urlStr)
	if err != nil {
		return nil, fmt.Errorf("invalid Qdrant URL: %w", err)
	}

	host := parsed.Hostname()
	useTLS := parsed.Scheme == "https"

	// gRPC port
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
		vectorSize:     768, // text-embedding-004
	}, nil
}

// InitCollection implements VectorStore.
func (q *qdrantService) InitCollection(ctx context.Context) error {
	exists, err := q.client.CollectionExists(ctx, q.collectionName)
	if err != nil {
		return fmt.Errorf("failed to check collection: %w", err)
	}

	if exists {
		log.Println("✅ Collection already exists")
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

	log.Printf("✅ Qdrant collection '%s' created successfully\n", q.collectionName)
	return nil
}

// UpsertCandidates implements VectorStore. Point ids are candidate ids, so
// re-indexing an upload overwrites its points.
func (q *qdrantService) UpsertCandidates(ctx context.Context, points []CandidatePoint) error {
	if len(points) == 0 {
		return nil
	}

	structs := make([]*qdrant.PointStruct, 0, len(points))
	for _, p := range points {
		structs = append(structs, &qdrant.PointStruct{
			Id:      qdrant.NewID(p.CandidateID),
			Vectors: qdrant.NewVectors(p.Vector...),
			Payload: qdrant.NewValueMap(map[string]any{
				"candidate_id":   p.CandidateID,
				"user_id":        p.UserID,
				"upload_id":      p.UploadID,
				"candidate_name": p.CandidateName,
				"filename":       p.Filename,
				"job_role":       p.JobRole,
				"score":          p.Score,
				"matched_skills": p.MatchedSkills,
			}),
		})
	}

	_, err := q.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: q.collectionName,
		Points:         structs,
	})
	if err != nil {
		return fmt.Errorf("failed to upsert points: %w", err)
	}

	return nil
}

// SearchCandidates implements VectorStore.
func (q *qdrantService) SearchCandidates(ctx context.Context, queryEmbedding []float32, userID string, limit int) ([]SearchResult, error) {
	searchResult, err := q.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: q.collectionName,
		Query:          qdrant.NewQuery(queryEmbedding...),
		Filter: &qdrant.Filter{
			Must: []*qdrant.Condition{
				qdrant.NewMatch("user_id", userID),
			},
		},
		Limit:       qdrant.PtrOf(uint64(limit)),
		WithPayload: qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to search: %w", err)
	}

	results := make([]SearchResult, 0, len(searchResult))
	for _, point := range searchResult {
		result := SearchResult{
			Similarity: point.Score,
			Payload:    make(map[string]string),
		}

		for key, value := range point.Payload {
			switch v := value.GetKind().(type) {
			case *qdrant.Value_StringValue:
				result.Payload[key] = v.StringValue
			case *qdrant.Value_DoubleValue:
				if key == "score" {
					result.Score = v.DoubleValue
				}
			}
		}
		result.ID = result.Payload["candidate_id"]

		results = append(results, result)
	}

	return results, nil
}

// DeleteUserCandidates implements VectorStore.
func (q *qdrantService) DeleteUserCandidates(ctx context.Context, userID string) error {
	filter := &qdrant.Filter{
		Must: []*qdrant.Condition{
			qdrant.NewMatch("user_id", userID),
		},
	}

	_, err := q.client.Delete(ctx, &qdrant.DeletePoints{
		CollectionName: q.collectionName,
		Points:         qdrant.NewPointsSelectorFilter(filter),
	})
	if err != nil {
		return fmt.Errorf("failed to delete user points: %w", err)
	}

	return nil
}
