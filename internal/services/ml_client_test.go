package services

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hrseeker/resume-matcher/internal/apperrors"
)

func stageTestFiles(t *testing.T, names ...string) []StagedFile {
	t.Helper()
	dir := t.TempDir()
	files := make([]StagedFile, 0, len(names))
	for i, name := range names {
		path := filepath.Join(dir, "staged_"+name)
		content := []byte("content " + name)
		require.NoError(t, os.WriteFile(path, content, 0o644))
		files = append(files, StagedFile{OriginalName: names[i], Path: path, Size: int64(len(content))})
	}
	return files
}

func TestMLClient_MatchResumes(t *testing.T) {
	const response = `{"total_resumes":2,"top_candidates":[{"filename":"a.pdf","candidate_name":"Ann","score":77.5,"semantic_score":70,"feature_score":85,"matched_skills":["go"]}]}`

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/match-resumes", r.URL.Path)
		if !assert.NoError(t, r.ParseMultipartForm(1<<20)) {
			return
		}

		files := r.MultipartForm.File["files"]
		if !assert.Len(t, files, 2) {
			return
		}
		assert.Equal(t, "a.pdf", files[0].Filename)
		assert.Equal(t, "b.docx", files[1].Filename)

		f, err := files[1].Open()
		if !assert.NoError(t, err) {
			return
		}
		body, _ := io.ReadAll(f)
		f.Close()
		assert.Equal(t, "content b.docx", string(body))

		assert.Equal(t, "Build APIs", r.FormValue("job_description"))
		assert.Equal(t, "3", r.FormValue("top_n"))

		var reqs JobRequirements
		assert.NoError(t, json.Unmarshal([]byte(r.FormValue("job_requirements")), &reqs))
		assert.Equal(t, JobRequirements{RequiredSkills: []string{"go"}, MinEducationLevel: 3, MinExperience: 2}, reqs)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(response))
	}))
	defer server.Close()

	client := NewMLClient(server.URL+"/", 0)
	result, err := client.MatchResumes(context.Background(), ScoringRequest{
		Files:          stageTestFiles(t, "a.pdf", "b.docx"),
		JobDescription: "Build APIs",
		Requirements:   JobRequirements{RequiredSkills: []string{"go"}, MinEducationLevel: 3, MinExperience: 2},
		TopN:           3,
	})
	require.NoError(t, err)

	assert.Equal(t, 2, result.TotalResumes)
	require.Len(t, result.TopCandidates, 1)
	assert.Equal(t, "Ann", *result.TopCandidates[0].CandidateName)
	assert.Equal(t, 77.5, result.TopCandidates[0].Score)
	assert.Zero(t, result.TopCandidates[0].RankPosition)
	assert.JSONEq(t, response, string(result.Raw))
}

func TestMLClient_UpstreamErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.Copy(io.Discard, r.Body)
		http.Error(w, `{"detail":"model crashed at /srv/ml/model.py"}`, http.StatusInternalServerError)
	}))
	defer server.Close()

	_, err := NewMLClient(server.URL, 0).MatchResumes(context.Background(), ScoringRequest{
		Files: stageTestFiles(t, "a.pdf"),
		TopN:  5,
	})
	require.Error(t, err)

	var appErr *apperrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.KindUpstream, appErr.Kind)
	assert.Equal(t, "ML service error: Internal Server Error", appErr.Message)
	assert.NotContains(t, err.Error(), "model.py")
}

func TestMLClient_Unavailable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	_, err := NewMLClient(url, time.Second).AnalyzeResume(context.Background(), stageTestFiles(t, "cv.pdf")[0])
	require.Error(t, err)

	var appErr *apperrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.KindUpstream, appErr.Kind)
	assert.Equal(t, "ML service unavailable", appErr.Message)
}

func TestMLClient_AnalyzeResume(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/analyze-student-resume", r.URL.Path)
		file, header, err := r.FormFile("file")
		if !assert.NoError(t, err) {
			return
		}
		file.Close()
		assert.Equal(t, "cv.pdf", header.Filename)

		_, _ = w.Write([]byte(`{"skills":["python"],"experience_years":1}`))
	}))
	defer server.Close()

	out, err := NewMLClient(server.URL, 0).AnalyzeResume(context.Background(), stageTestFiles(t, "cv.pdf")[0])
	require.NoError(t, err)
	assert.JSONEq(t, `{"skills":["python"],"experience_years":1}`, string(out))
}

func TestMLClient_InvalidJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.Copy(io.Discard, r.Body)
		_, _ = w.Write([]byte("<html>gateway</html>"))
	}))
	defer server.Close()

	_, err := NewMLClient(server.URL, 0).MatchResumes(context.Background(), ScoringRequest{Files: stageTestFiles(t, "a.pdf")})
	assert.True(t, apperrors.Is(err, apperrors.KindUpstream))
}
