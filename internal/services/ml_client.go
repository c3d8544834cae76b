package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"hrseeker/resume-matcher/internal/apperrors"
)

const (
	matchResumesPath  = "/api/match-resumes"
	analyzeResumePath = "/api/analyze-student-resume"
)

// JobRequirements is the JSON-encoded requirements object sent to the
// scoring service. Education levels run 0 (none) through 5 (PhD).
type JobRequirements struct {
	RequiredSkills    []string `json:"required_skills"`
	MinEducationLevel int      `json:"min_education_level"`
	MinExperience     int      `json:"min_experience"`
}

type ScoringRequest struct {
	Files          []StagedFile
	JobDescription string
	Requirements   JobRequirements
	TopN           int
}

type ScoredCandidate struct {
	Filename      string   `json:"filename"`
	CandidateName *string  `json:"candidate_name"`
	Score         float64  `json:"score"`
	SemanticScore float64  `json:"semantic_score"`
	FeatureScore  float64  `json:"feature_score"`
	MatchedSkills []string `json:"matched_skills"`
	RankPosition  int      `json:"rank_position"`
}

// ScoringResult is the parsed scoring response. Raw keeps the exact bytes
// so they can be returned to the client untouched.
type ScoringResult struct {
	TotalResumes  int               `json:"total_resumes"`
	TopCandidates []ScoredCandidate `json:"top_candidates"`
	Raw           json.RawMessage   `json:"-"`
}

type MLClient interface {
	MatchResumes(ctx context.Context, req ScoringRequest) (*ScoringResult, error)
	AnalyzeResume(ctx context.Context, file StagedFile) (json.RawMessage, error)
}

type mlClient struct {
	baseURL string
	http    *http.Client
}

// NewMLClient returns a client for the scoring service at baseURL. A zero
// timeout leaves outbound calls bounded only by the caller's context.
func NewMLClient(baseURL string, timeout time.Duration) MLClient {
	return &mlClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// MatchResumes implements MLClient.
func (c *mlClient) MatchResumes(ctx context.Context, req ScoringRequest) (*ScoringResult, error) {
	requirements, err := json.Marshal(req.Requirements)
	if err != nil {
		return nil, apperrors.Internal("Failed to encode job requirements", err)
	}

	body, err := c.postMultipart(ctx, matchResumesPath, func(w *multipart.Writer) error {
		for _, f := range req.Files {
			if err := writeFilePart(w, "files", f); err != nil {
				return err
			}
		}
		if err := w.WriteField("job_description", req.JobDescription); err != nil {
			return err
		}
		if err := w.WriteField("job_requirements", string(requirements)); err != nil {
			return err
		}
		return w.WriteField("top_n", strconv.Itoa(req.TopN))
	})
	if err != nil {
		return nil, err
	}

	var result ScoringResult
	if err := json.Unmarshal(body, &result); err != nil {
		log.Printf("❌ ML service returned unparseable match response: %v\n", err)
		return nil, apperrors.Upstream("ML service returned an invalid response", err)
	}
	result.Raw = json.RawMessage(body)

	return &result, nil
}

// AnalyzeResume implements MLClient.
func (c *mlClient) AnalyzeResume(ctx context.Context, file StagedFile) (json.RawMessage, error) {
	body, err := c.postMultipart(ctx, analyzeResumePath, func(w *multipart.Writer) error {
		return writeFilePart(w, "file", file)
	})
	if err != nil {
		return nil, err
	}

	if !json.Valid(body) {
		return nil, apperrors.Upstream("ML service returned an invalid response", nil)
	}
	return json.RawMessage(body), nil
}

// postMultipart streams a multipart body produced by write to path and
// returns the response body of a 2xx reply.
func (c *mlClient) postMultipart(ctx context.Context, path string, write func(*multipart.Writer) error) ([]byte, error) {
	pr, pw := io.Pipe()
	defer pr.Close()

	mw := multipart.NewWriter(pw)
	go func() {
		err := write(mw)
		if err == nil {
			err = mw.Close()
		}
		pw.CloseWithError(err)
	}()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, pr)
	if err != nil {
		return nil, apperrors.Internal("Failed to build ML service request", err)
	}
	httpReq.Header.Set("Content-Type", mw.FormDataContentType())

	start := time.Now()
	resp, err := c.http.Do(httpReq)
	if err != nil {
		log.Printf("❌ ML service %s unreachable: %v\n", path, err)
		return nil, apperrors.Upstream("ML service unavailable", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperrors.Upstream("Failed to read ML service response", err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		log.Printf("❌ ML service %s returned %s: %s\n", path, resp.Status, truncate(string(body), 500))
		return nil, apperrors.Upstream(fmt.Sprintf("ML service error: %s", statusText(resp)), nil)
	}

	log.Printf("📊 ML service %s answered in %s\n", path, time.Since(start).Round(time.Millisecond))
	return body, nil
}

func writeFilePart(w *multipart.Writer, field string, file StagedFile) error {
	part, err := w.CreateFormFile(field, file.OriginalName)
	if err != nil {
		return err
	}

	src, err := os.Open(file.Path)
	if err != nil {
		return fmt.Errorf("failed to open staged file: %w", err)
	}
	defer src.Close()

	_, err = io.Copy(part, src)
	return err
}

func statusText(resp *http.Response) string {
	if text := http.StatusText(resp.StatusCode); text != "" {
		return text
	}
	return resp.Status
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
