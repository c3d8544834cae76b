package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hrseeker/resume-matcher/internal/apperrors"
	"hrseeker/resume-matcher/internal/models"
)

func seedUpload(t *testing.T, repo *fakeUploadRepo, userID uuid.UUID) *models.ResumeUpload {
	t.Helper()
	upload := &models.ResumeUpload{UserID: userID, JobRole: "Data Analyst", JobDescription: "SQL", TotalResumes: 5, RequiredCandidates: 2}
	candidates := []models.Candidate{
		{Filename: "a.pdf", CandidateName: "Ann", Score: 82, MatchedSkills: []string{"sql", "python"}, RankPosition: 1},
		{Filename: "b.pdf", CandidateName: "", Score: 64, MatchedSkills: []string{}, RankPosition: 2},
	}
	require.NoError(t, repo.CreateWithCandidates(context.Background(), upload, candidates))
	return upload
}

func TestTalentIndexer_IndexUpload(t *testing.T) {
	repo := newFakeUploadRepo()
	embedder := &fakeEmbedder{}
	store := &fakeVectorStore{}
	indexer := NewTalentIndexer(repo, embedder, store)

	userID := uuid.New()
	upload := seedUpload(t, repo, userID)

	require.NoError(t, indexer.IndexUpload(context.Background(), upload.ID))

	require.Len(t, embedder.texts, 2)
	assert.Equal(t, "Ann. Applied for Data Analyst. Skills: sql, python. Resume file: a.pdf", embedder.texts[0])
	assert.Equal(t, "Unknown Candidate. Applied for Data Analyst. Skills: . Resume file: b.pdf", embedder.texts[1])

	require.Len(t, store.points, 2)
	point := store.points[0]
	assert.Equal(t, repo.candidates[upload.ID][0].ID.String(), point.CandidateID)
	assert.Equal(t, userID.String(), point.UserID)
	assert.Equal(t, upload.ID.String(), point.UploadID)
	assert.Equal(t, "sql, python", point.MatchedSkills)
	assert.Equal(t, 82.0, point.Score)

	assert.Equal(t, []uuid.UUID{upload.ID}, repo.indexed)
}

func TestTalentIndexer_EmbeddingFailureLeavesUploadUnindexed(t *testing.T) {
	repo := newFakeUploadRepo()
	store := &fakeVectorStore{}
	indexer := NewTalentIndexer(repo, &fakeEmbedder{err: errors.New("quota exceeded")}, store)
	upload := seedUpload(t, repo, uuid.New())

	err := indexer.IndexUpload(context.Background(), upload.ID)
	require.Error(t, err)
	assert.Empty(t, store.points)
	assert.Empty(t, repo.indexed)
}

func TestTalentIndexer_Search(t *testing.T) {
	store := &fakeVectorStore{hits: []SearchResult{{
		ID:         "c1",
		Similarity: 0.91,
		Score:      82,
		Payload: map[string]string{
			"candidate_id":   "c1",
			"upload_id":      "u1",
			"candidate_name": "Ann",
			"filename":       "a.pdf",
			"job_role":       "Data Analyst",
		},
	}}}
	indexer := NewTalentIndexer(newFakeUploadRepo(), &fakeEmbedder{}, store)
	userID := uuid.New()

	results, err := indexer.Search(context.Background(), userID, " sql analyst ", 500)
	require.NoError(t, err)

	assert.Equal(t, []models.TalentSearchResult{{
		CandidateID:   "c1",
		UploadID:      "u1",
		CandidateName: "Ann",
		Filename:      "a.pdf",
		JobRole:       "Data Analyst",
		Score:         82,
		Similarity:    0.91,
	}}, results)
	assert.Equal(t, []string{userID.String()}, store.searches)
	assert.Equal(t, MaxTalentSearchLimit, store.searchLimit)
}

func TestTalentIndexer_SearchRequiresQuery(t *testing.T) {
	store := &fakeVectorStore{}
	indexer := NewTalentIndexer(newFakeUploadRepo(), &fakeEmbedder{}, store)

	_, err := indexer.Search(context.Background(), uuid.New(), "   ", 5)
	assert.True(t, apperrors.Is(err, apperrors.KindBadRequest))
	assert.Empty(t, store.searches)
}

func TestTalentIndexer_RemoveUser(t *testing.T) {
	store := &fakeVectorStore{}
	indexer := NewTalentIndexer(newFakeUploadRepo(), &fakeEmbedder{}, store)
	userID := uuid.New()

	require.NoError(t, indexer.RemoveUser(context.Background(), userID))
	assert.Equal(t, []string{userID.String()}, store.deleted)
}

func TestDisabledTalentIndexer(t *testing.T) {
	indexer := NewDisabledTalentIndexer()
	ctx := context.Background()

	assert.NoError(t, indexer.IndexUpload(ctx, uuid.New()))
	assert.NoError(t, indexer.RemoveUser(ctx, uuid.New()))

	_, err := indexer.Search(ctx, uuid.New(), "go", 5)
	assert.ErrorIs(t, err, ErrTalentIndexDisabled)
}

func TestClampSearchLimit(t *testing.T) {
	assert.Equal(t, DefaultTalentSearchLimit, clampSearchLimit(0))
	assert.Equal(t, DefaultTalentSearchLimit, clampSearchLimit(-3))
	assert.Equal(t, 7, clampSearchLimit(7))
	assert.Equal(t, MaxTalentSearchLimit, clampSearchLimit(MaxTalentSearchLimit+1))
}
