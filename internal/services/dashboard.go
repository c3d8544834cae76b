package services

import (
	"context"
	"errors"
	"math"

	"github.com/google/uuid"

	"hrseeker/resume-matcher/internal/apperrors"
	"hrseeker/resume-matcher/internal/models"
	"hrseeker/resume-matcher/internal/repositories"
)

type DashboardService interface {
	History(ctx context.Context, userID uuid.UUID) ([]models.UploadHistoryItem, error)
	CandidatesForUpload(ctx context.Context, userID, uploadID uuid.UUID) (*models.CandidatesResponse, error)
	Stats(ctx context.Context, userID uuid.UUID) (*models.DashboardStats, error)
}

type dashboardService struct {
	dashboardRepo repositories.DashboardRepository
	uploadRepo    repositories.UploadRepository
}

func NewDashboardService(
	dashboardRepo repositories.DashboardRepository,
	uploadRepo repositories.UploadRepository,
) DashboardService {
	return &dashboardService{
		dashboardRepo: dashboardRepo,
		uploadRepo:    uploadRepo,
	}
}

func (s *dashboardService) History(ctx context.Context, userID uuid.UUID) ([]models.UploadHistoryItem, error) {
	items, err := s.dashboardRepo.History(ctx, userID)
	if err != nil {
		return nil, apperrors.Internal("Failed to load upload history", err)
	}
	return items, nil
}

// CandidatesForUpload returns an upload and its ranked candidates. Uploads
// owned by another user are reported as not found.
func (s *dashboardService) CandidatesForUpload(ctx context.Context, userID, uploadID uuid.UUID) (*models.CandidatesResponse, error) {
	upload, err := s.uploadRepo.FindByIDForUser(ctx, userID, uploadID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperrors.NotFound("Upload not found")
		}
		return nil, apperrors.Internal("Failed to load upload", err)
	}

	candidates, err := s.uploadRepo.FindCandidates(ctx, upload.ID)
	if err != nil {
		return nil, apperrors.Internal("Failed to load candidates", err)
	}

	return &models.CandidatesResponse{
		Upload:     *upload,
		Candidates: candidates,
	}, nil
}

func (s *dashboardService) Stats(ctx context.Context, userID uuid.UUID) (*models.DashboardStats, error) {
	uploads, err := s.dashboardRepo.CountUploads(ctx, userID)
	if err != nil {
		return nil, apperrors.Internal("Failed to load dashboard stats", err)
	}

	totals, err := s.dashboardRepo.CandidateTotals(ctx, userID)
	if err != nil {
		return nil, apperrors.Internal("Failed to load dashboard stats", err)
	}

	return &models.DashboardStats{
		TotalUploads:    uploads,
		TotalCandidates: totals.Total,
		AvgScore:        int(math.Round(totals.AvgScore)),
	}, nil
}
