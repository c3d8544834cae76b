package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"hrseeker/resume-matcher/internal/models"
	"hrseeker/resume-matcher/internal/repositories"
)

type fakeUserRepo struct {
	mu        sync.Mutex
	users     map[string]*models.User
	createErr error
	deleted   []uuid.UUID
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]*models.User{}}
}

func (r *fakeUserRepo) Create(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	copied := *user
	r.users[user.Email] = &copied
	return nil
}

func (r *fakeUserRepo) FindByEmail(_ context.Context, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[email]
	if !ok {
		return nil, fmt.Errorf("user not found: %w", repositories.ErrNotFound)
	}
	copied := *user
	return &copied, nil
}

func (r *fakeUserRepo) FindByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if user.ID == id {
			copied := *user
			return &copied, nil
		}
	}
	return nil, fmt.Errorf("user not found: %w", repositories.ErrNotFound)
}

func (r *fakeUserRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for email, user := range r.users {
		if user.ID == id {
			delete(r.users, email)
			r.deleted = append(r.deleted, id)
			return nil
		}
	}
	return fmt.Errorf("user not found: %w", repositories.ErrNotFound)
}

type fakeUploadRepo struct {
	mu         sync.Mutex
	uploads    map[uuid.UUID]*models.ResumeUpload
	candidates map[uuid.UUID][]models.Candidate
	indexed    []uuid.UUID
	createErr  error
}

func newFakeUploadRepo() *fakeUploadRepo {
	return &fakeUploadRepo{
		uploads:    map[uuid.UUID]*models.ResumeUpload{},
		candidates: map[uuid.UUID][]models.Candidate{},
	}
}

func (r *fakeUploadRepo) CreateWithCandidates(_ context.Context, upload *models.ResumeUpload, candidates []models.Candidate) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	if upload.ID == uuid.Nil {
		upload.ID = uuid.New()
	}
	upload.CreatedAt = time.Now()
	for i := range candidates {
		candidates[i].ID = uuid.New()
		candidates[i].UploadID = upload.ID
	}
	copied := *upload
	r.uploads[upload.ID] = &copied
	r.candidates[upload.ID] = append([]models.Candidate(nil), candidates...)
	return nil
}

func (r *fakeUploadRepo) FindByIDForUser(ctx context.Context, userID, uploadID uuid.UUID) (*models.ResumeUpload, error) {
	upload, err := r.FindByID(ctx, uploadID)
	if err != nil {
		return nil, err
	}
	if upload.UserID != userID {
		return nil, fmt.Errorf("upload not found: %w", repositories.ErrNotFound)
	}
	return upload, nil
}

func (r *fakeUploadRepo) FindByID(_ context.Context, uploadID uuid.UUID) (*models.ResumeUpload, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	upload, ok := r.uploads[uploadID]
	if !ok {
		return nil, fmt.Errorf("upload not found: %w", repositories.ErrNotFound)
	}
	copied := *upload
	return &copied, nil
}

func (r *fakeUploadRepo) FindCandidates(_ context.Context, uploadID uuid.UUID) ([]models.Candidate, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]models.Candidate{}, r.candidates[uploadID]...), nil
}

func (r *fakeUploadRepo) FindUnindexed(_ context.Context, limit int) ([]models.ResumeUpload, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.ResumeUpload
	for _, upload := range r.uploads {
		if upload.IndexedAt == nil && len(out) < limit {
			out = append(out, *upload)
		}
	}
	return out, nil
}

func (r *fakeUploadRepo) MarkIndexed(_ context.Context, uploadID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	upload, ok := r.uploads[uploadID]
	if !ok {
		return fmt.Errorf("upload not found: %w", repositories.ErrNotFound)
	}
	now := time.Now()
	upload.IndexedAt = &now
	r.indexed = append(r.indexed, uploadID)
	return nil
}

type fakeMLClient struct {
	mu           sync.Mutex
	matchCalls   []ScoringRequest
	analyzeCalls []StagedFile
	result       *ScoringResult
	analysis     json.RawMessage
	err          error
	// onCall runs while the staged files still exist.
	onCall func(files []StagedFile)
}

func (m *fakeMLClient) MatchResumes(_ context.Context, req ScoringRequest) (*ScoringResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.matchCalls = append(m.matchCalls, req)
	if m.onCall != nil {
		m.onCall(req.Files)
	}
	if m.err != nil {
		return nil, m.err
	}
	return m.result, nil
}

func (m *fakeMLClient) AnalyzeResume(_ context.Context, file StagedFile) (json.RawMessage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.analyzeCalls = append(m.analyzeCalls, file)
	if m.onCall != nil {
		m.onCall([]StagedFile{file})
	}
	if m.err != nil {
		return nil, m.err
	}
	return m.analysis, nil
}

type fakePDFParser struct {
	err error
}

func (p fakePDFParser) Inspect(path string) (*PDFInfo, error) {
	if p.err != nil {
		return nil, p.err
	}
	return &PDFInfo{PageCount: 1, FilePath: path}, nil
}

type fakeIndexQueue struct {
	mu  sync.Mutex
	ids []uuid.UUID
}

func (q *fakeIndexQueue) EnqueueJob(id uuid.UUID) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.ids = append(q.ids, id)
}

type fakeEmbedder struct {
	mu    sync.Mutex
	texts []string
	err   error
}

func (e *fakeEmbedder) GenerateEmbedding(_ context.Context, text string) ([]float32, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.err != nil {
		return nil, e.err
	}
	e.texts = append(e.texts, text)
	return []float32{float32(len(text)), 1, 0}, nil
}

type fakeVectorStore struct {
	mu          sync.Mutex
	points      []CandidatePoint
	searches    []string
	deleted     []string
	hits        []SearchResult
	searchLimit int
}

func (s *fakeVectorStore) InitCollection(context.Context) error { return nil }

func (s *fakeVectorStore) UpsertCandidates(_ context.Context, points []CandidatePoint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.points = append(s.points, points...)
	return nil
}

func (s *fakeVectorStore) SearchCandidates(_ context.Context, _ []float32, userID string, limit int) ([]SearchResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.searches = append(s.searches, userID)
	s.searchLimit = limit
	return s.hits, nil
}

func (s *fakeVectorStore) DeleteUserCandidates(_ context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deleted = append(s.deleted, userID)
	return nil
}

type fakeTalentIndexer struct {
	mu        sync.Mutex
	indexed   []uuid.UUID
	removed   []uuid.UUID
	indexErr  error
	removeErr error
}

func (f *fakeTalentIndexer) IndexUpload(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.indexed = append(f.indexed, id)
	return f.indexErr
}

func (f *fakeTalentIndexer) Search(context.Context, uuid.UUID, string, int) ([]models.TalentSearchResult, error) {
	return nil, nil
}

func (f *fakeTalentIndexer) RemoveUser(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.removed = append(f.removed, id)
	return f.removeErr
}

func (f *fakeTalentIndexer) indexedIDs() []uuid.UUID {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]uuid.UUID(nil), f.indexed...)
}

// multipartFiles builds real file headers for the given names by parsing a
// multipart body, the same way an HTTP server would.
func multipartFiles(t *testing.T, field string, names ...string) []*multipart.FileHeader {
	t.Helper()

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for _, name := range names {
		part, err := w.CreateFormFile(field, name)
		require.NoError(t, err)
		_, err = part.Write([]byte("resume content of " + name))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	form, err := multipart.NewReader(&body, w.Boundary()).ReadForm(1 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { form.RemoveAll() })

	return form.File[field]
}

func resumeNames(n int, ext string) []string {
	names := make([]string, n)
	for i := range names {
		names[i] = fmt.Sprintf("resume_%d%s", i+1, ext)
	}
	return names
}
