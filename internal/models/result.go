package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type LoginRequest struct {
	Email    string `json:"email" form:"email" validate:"required"`
	Password string `json:"password" form:"password" validate:"required"`
	Name     string `json:"name" form:"name"`
	Role     string `json:"role" form:"role"`
}

type UserResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

func NewUserResponse(u *User) UserResponse {
	return UserResponse{
		ID:    u.ID.String(),
		Name:  u.Name,
		Email: u.Email,
		Role:  u.Role,
	}
}

type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

// MatchRequest carries the non-file fields of a matching submission exactly
// as the client sent them; normalization happens in the matching service.
type MatchRequest struct {
	JobRole        string `form:"jobRole"`
	JobDescription string `form:"jobDescription"`
	RequiredSkills string `form:"requiredSkills"`
	MinEducation   string `form:"minEducation"`
	MinExperience  string `form:"minExperience"`
	TopN           string `form:"topN"`
}

type MatchResponse struct {
	Success  bool            `json:"success"`
	UploadID string          `json:"uploadId"`
	Results  json.RawMessage `json:"results"`
}

type UploadHistoryItem struct {
	ID                 uuid.UUID `json:"id"`
	JobRole            string    `json:"job_role"`
	TotalResumes       int       `json:"total_resumes"`
	RequiredCandidates int       `json:"required_candidates"`
	UploadDate         time.Time `json:"upload_date"`
	AvgScore           *float64  `json:"avg_score"`
}

type CandidatesResponse struct {
	Upload     ResumeUpload `json:"upload"`
	Candidates []Candidate  `json:"candidates"`
}

type DashboardStats struct {
	TotalUploads    int64 `json:"totalUploads"`
	TotalCandidates int64 `json:"totalCandidates"`
	AvgScore        int   `json:"avgScore"`
}

type TalentSearchResult struct {
	CandidateID   string  `json:"candidate_id"`
	UploadID      string  `json:"upload_id"`
	CandidateName string  `json:"candidate_name"`
	Filename      string  `json:"filename"`
	JobRole       string  `json:"job_role"`
	Score         float64 `json:"score"`
	Similarity    float32 `json:"similarity"`
}
