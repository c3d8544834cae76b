package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"mime/multipart"
	"strings"

	"github.com/google/uuid"

	"hrseeker/resume-matcher/internal/apperrors"
	"hrseeker/resume-matcher/internal/models"
	"hrseeker/resume-matcher/internal/repositories"
)

const (
	MinResumeFiles = 5
	MaxResumeFiles = 20
	DefaultTopN    = 5
)

type MatchOutcome struct {
	UploadID uuid.UUID
	Results  json.RawMessage
}

// IndexQueue accepts uploads for asynchronous talent indexing.
type IndexQueue interface {
	EnqueueJob(uploadID uuid.UUID)
}

type MatchingService interface {
	SubmitBatch(ctx context.Context, userID uuid.UUID, req models.MatchRequest, files []*multipart.FileHeader) (*MatchOutcome, error)
	AnalyzeResume(ctx context.Context, file *multipart.FileHeader) (json.RawMessage, error)
}

type matchingService struct {
	uploadRepo repositories.UploadRepository
	storage    StorageService
	pdfParser  PDFParserService
	ml         MLClient
	indexQueue IndexQueue
}

func NewMatchingService(
	uploadRepo repositories.UploadRepository,
	storage StorageService,
	pdfParser PDFParserService,
	ml MLClient,
	indexQueue IndexQueue,
) MatchingService {
	return &matchingService{
		uploadRepo: uploadRepo,
		storage:    storage,
		pdfParser:  pdfParser,
		ml:         ml,
		indexQueue: indexQueue,
	}
}

// SubmitBatch validates a matching request, relays the resumes to the
// scoring service and stores the ranked result. Staged files are removed on
// every return path.
func (s *matchingService) SubmitBatch(ctx context.Context, userID uuid.UUID, req models.MatchRequest, files []*multipart.FileHeader) (*MatchOutcome, error) {
	if len(files) < MinResumeFiles || len(files) > MaxResumeFiles {
		return nil, apperrors.BadRequest(fmt.Sprintf("Please upload between %d and %d resume files", MinResumeFiles, MaxResumeFiles))
	}

	jobRole := strings.TrimSpace(req.JobRole)
	jobDescription := strings.TrimSpace(req.JobDescription)
	if jobRole == "" || jobDescription == "" {
		return nil, apperrors.BadRequest("Job role and job description are required")
	}

	dir, err := s.storage.CreateStagingDir()
	if err != nil {
		return nil, apperrors.Internal("Failed to prepare upload storage", err)
	}
	defer s.cleanup(dir)

	staged, err := s.stage(dir, files)
	if err != nil {
		return nil, err
	}

	topN := parseTopN(req.TopN)
	scoring := ScoringRequest{
		Files:          staged,
		JobDescription: jobDescription,
		Requirements: JobRequirements{
			RequiredSkills:    parseSkills(req.RequiredSkills),
			MinEducationLevel: parseLeadingInt(req.MinEducation),
			MinExperience:     parseLeadingInt(req.MinExperience),
		},
		TopN: topN,
	}

	log.Printf("🤖 Sending %d resumes for %q to ML service (top %d)\n", len(staged), jobRole, topN)
	result, err := s.ml.MatchResumes(ctx, scoring)
	if err != nil {
		return nil, err
	}

	upload := &models.ResumeUpload{
		UserID:             userID,
		JobRole:            jobRole,
		JobDescription:     jobDescription,
		TotalResumes:       len(files),
		RequiredCandidates: topN,
	}
	candidates := buildCandidates(result.TopCandidates)

	if err := s.uploadRepo.CreateWithCandidates(ctx, upload, candidates); err != nil {
		return nil, apperrors.Internal("Failed to save matching results", err)
	}

	log.Printf("💾 Saved upload %s with %d candidates\n", upload.ID, len(candidates))

	if s.indexQueue != nil {
		s.indexQueue.EnqueueJob(upload.ID)
	}

	return &MatchOutcome{
		UploadID: upload.ID,
		Results:  result.Raw,
	}, nil
}

// AnalyzeResume relays a single resume to the scoring service and returns
// its analysis unchanged. Nothing is persisted.
func (s *matchingService) AnalyzeResume(ctx context.Context, file *multipart.FileHeader) (json.RawMessage, error) {
	if file == nil {
		return nil, apperrors.BadRequest("No file uploaded")
	}

	dir, err := s.storage.CreateStagingDir()
	if err != nil {
		return nil, apperrors.Internal("Failed to prepare upload storage", err)
	}
	defer s.cleanup(dir)

	staged, err := s.stage(dir, []*multipart.FileHeader{file})
	if err != nil {
		return nil, err
	}

	return s.ml.AnalyzeResume(ctx, staged[0])
}

func (s *matchingService) stage(dir string, files []*multipart.FileHeader) ([]StagedFile, error) {
	staged := make([]StagedFile, 0, len(files))
	for _, fh := range files {
		f, err := s.storage.SaveFile(dir, fh)
		if err != nil {
			if apperrors.Is(err, apperrors.KindBadRequest) {
				return nil, err
			}
			return nil, apperrors.Internal("Failed to store uploaded file", err)
		}

		if f.IsPDF() {
			if _, err := s.pdfParser.Inspect(f.Path); err != nil {
				return nil, unreadablePDF(f.OriginalName, err)
			}
		}

		staged = append(staged, *f)
	}
	return staged, nil
}

func (s *matchingService) cleanup(dir string) {
	if err := s.storage.RemoveDir(dir); err != nil {
		log.Printf("⚠️  Failed to clean up %s: %v\n", dir, err)
	}
}

// buildCandidates converts scored entries to rows in the scorer's order. An
// entry without a rank takes its 1-based position in the list.
func buildCandidates(scored []ScoredCandidate) []models.Candidate {
	candidates := make([]models.Candidate, 0, len(scored))
	for i, sc := range scored {
		name := models.UnknownCandidateName
		if sc.CandidateName != nil && strings.TrimSpace(*sc.CandidateName) != "" {
			name = *sc.CandidateName
		}

		rank := sc.RankPosition
		if rank <= 0 {
			rank = i + 1
		}

		skills := sc.MatchedSkills
		if skills == nil {
			skills = []string{}
		}

		candidates = append(candidates, models.Candidate{
			Filename:      sc.Filename,
			CandidateName: name,
			Score:         sc.Score,
			SemanticScore: sc.SemanticScore,
			FeatureScore:  sc.FeatureScore,
			MatchedSkills: skills,
			RankPosition:  rank,
		})
	}
	return candidates
}

// parseSkills accepts either a JSON array of strings or a comma-separated
// list and returns the trimmed, lower-cased, non-empty entries.
func parseSkills(raw string) []string {
	raw = strings.TrimSpace(raw)
	skills := []string{}
	if raw == "" {
		return skills
	}

	var entries []string
	if strings.HasPrefix(raw, "[") {
		if err := json.Unmarshal([]byte(raw), &entries); err != nil {
			entries = strings.Split(strings.Trim(raw, "[]"), ",")
		}
	} else {
		entries = strings.Split(raw, ",")
	}

	for _, entry := range entries {
		entry = strings.ToLower(strings.Trim(strings.TrimSpace(entry), `"`))
		if entry != "" {
			skills = append(skills, entry)
		}
	}
	return skills
}

// parseLeadingInt reads the integer prefix of s ("3 years" is 3). Blank,
// non-numeric and negative input yield 0.
func parseLeadingInt(s string) int {
	s = strings.TrimSpace(s)
	n := 0
	for _, r := range s {
		if r < '0' || r > '9' {
			break
		}
		n = n*10 + int(r-'0')
		if n > 1_000_000 {
			break
		}
	}
	return n
}

func parseTopN(s string) int {
	n := parseLeadingInt(s)
	if n <= 0 {
		return DefaultTopN
	}
	return n
}
