package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"

	"hrseeker/resume-matcher/internal/apperrors"
	"hrseeker/resume-matcher/internal/models"
	"hrseeker/resume-matcher/internal/repositories"
)

const (
	DefaultTalentSearchLimit = 10
	MaxTalentSearchLimit     = 50
)

// ErrTalentIndexDisabled is returned by searches when no embedding or vector
// backend is configured.
var ErrTalentIndexDisabled = errors.New("talent index is not configured")

// TalentIndexer keeps a semantic index of every stored candidate, scoped per
// user.
type TalentIndexer interface {
	IndexUpload(ctx context.Context, uploadID uuid.UUID) error
	Search(ctx context.Context, userID uuid.UUID, query string, limit int) ([]models.TalentSearchResult, error)
	RemoveUser(ctx context.Context, userID uuid.UUID) error
}

type talentIndexer struct {
	uploadRepo repositories.UploadRepository
	embedder   Embedder
	store      VectorStore
}

func NewTalentIndexer(
	uploadRepo repositories.UploadRepository,
	embedder Embedder,
	store VectorStore,
) TalentIndexer {
	return &talentIndexer{
		uploadRepo: uploadRepo,
		embedder:   embedder,
		store:      store,
	}
}

// IndexUpload embeds every candidate of a batch, upserts the vectors and
// stamps the batch as indexed.
func (t *talentIndexer) IndexUpload(ctx context.Context, uploadID uuid.UUID) error {
	upload, err := t.uploadRepo.FindByID(ctx, uploadID)
	if err != nil {
		return err
	}

	candidates, err := t.uploadRepo.FindCandidates(ctx, uploadID)
	if err != nil {
		return err
	}

	points := make([]CandidatePoint, 0, len(candidates))
	for _, c := range candidates {
		skills := strings.Join(c.MatchedSkills, ", ")
		vector, err := t.embedder.GenerateEmbedding(ctx, candidateProfileText(c, upload.JobRole))
		if err != nil {
			return fmt.Errorf("failed to embed candidate %s: %w", c.ID, err)
		}

		points = append(points, CandidatePoint{
			CandidateID:   c.ID.String(),
			UserID:        upload.UserID.String(),
			UploadID:      upload.ID.String(),
			CandidateName: c.CandidateName,
			Filename:      c.Filename,
			JobRole:       upload.JobRole,
			Score:         c.Score,
			MatchedSkills: skills,
			Vector:        vector,
		})
	}

	if err := t.store.UpsertCandidates(ctx, points); err != nil {
		return err
	}

	if err := t.uploadRepo.MarkIndexed(ctx, uploadID); err != nil {
		return err
	}

	log.Printf("✅ Indexed %d candidates from upload %s\n", len(points), uploadID)
	return nil
}

func (t *talentIndexer) Search(ctx context.Context, userID uuid.UUID, query string, limit int) ([]models.TalentSearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, apperrors.BadRequest("Search query is required")
	}
	limit = clampSearchLimit(limit)

	vector, err := t.embedder.GenerateEmbedding(ctx, query)
	if err != nil {
		return nil, apperrors.Upstream("Embedding service unavailable", err)
	}

	hits, err := t.store.SearchCandidates(ctx, vector, userID.String(), limit)
	if err != nil {
		return nil, apperrors.Upstream("Vector store unavailable", err)
	}

	results := make([]models.TalentSearchResult, 0, len(hits))
	for _, hit := range hits {
		results = append(results, models.TalentSearchResult{
			CandidateID:   hit.ID,
			UploadID:      hit.Payload["upload_id"],
			CandidateName: hit.Payload["candidate_name"],
			Filename:      hit.Payload["filename"],
			JobRole:       hit.Payload["job_role"],
			Score:         hit.Score,
			Similarity:    hit.Similarity,
		})
	}
	return results, nil
}

func (t *talentIndexer) RemoveUser(ctx context.Context, userID uuid.UUID) error {
	return t.store.DeleteUserCandidates(ctx, userID.String())
}

func candidateProfileText(c models.Candidate, jobRole string) string {
	name := c.CandidateName
	if name == "" {
		name = models.UnknownCandidateName
	}
	return fmt.Sprintf("%s. Applied for %s. Skills: %s. Resume file: %s",
		name, jobRole, strings.Join(c.MatchedSkills, ", "), c.Filename)
}

func clampSearchLimit(limit int) int {
	if limit <= 0 {
		return DefaultTalentSearchLimit
	}
	if limit > MaxTalentSearchLimit {
		return MaxTalentSearchLimit
	}
	return limit
}

type disabledTalentIndexer struct{}

// NewDisabledTalentIndexer returns an indexer whose hooks do nothing and
// whose searches fail with ErrTalentIndexDisabled.
func NewDisabledTalentIndexer() TalentIndexer {
	return disabledTalentIndexer{}
}

func (disabledTalentIndexer) IndexUpload(context.Context, uuid.UUID) error { return nil }

func (disabledTalentIndexer) Search(context.Context, uuid.UUID, string, int) ([]models.TalentSearchResult, error) {
	return nil, ErrTalentIndexDisabled
}

func (disabledTalentIndexer) RemoveUser(context.Context, uuid.UUID) error { return nil }
