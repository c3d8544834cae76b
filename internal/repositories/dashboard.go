package repositories

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"hrseeker/resume-matcher/internal/models"
)

// CandidateTotals is the per-user candidate count and mean score.
type CandidateTotals struct {
	Total    int64
	AvgScore float64
}

type DashboardRepository interface {
	History(ctx context.Context, userID uuid.UUID) ([]models.UploadHistoryItem, error)
	CountUploads(ctx context.Context, userID uuid.UUID) (int64, error)
	CandidateTotals(ctx context.Context, userID uuid.UUID) (*CandidateTotals, error)
}

type dashboardRepository struct {
	db *gorm.DB
}

func NewDashboardRepository(db *gorm.DB) DashboardRepository {
	return &dashboardRepository{db: db}
}

func (r *dashboardRepository) History(ctx context.Context, userID uuid.UUID) ([]models.UploadHistoryItem, error) {
	items := []models.UploadHistoryItem{}
	err := r.db.WithContext(ctx).
		Table("resume_uploads ru").
		Select(`ru.id, ru.job_role, ru.total_resumes, ru.required_candidates,
			ru.created_at AS upload_date, AVG(c.score) AS avg_score`).
		Joins("LEFT JOIN candidates c ON c.upload_id = ru.id").
		Where("ru.user_id = ?", userID).
		Group("ru.id, ru.job_role, ru.total_resumes, ru.required_candidates, ru.created_at").
		Order("ru.created_at DESC").
		Scan(&items).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load upload history: %w", err)
	}
	return items, nil
}

func (r *dashboardRepository) CountUploads(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.ResumeUpload{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count uploads: %w", err)
	}
	return count, nil
}

func (r *dashboardRepository) CandidateTotals(ctx context.Context, userID uuid.UUID) (*CandidateTotals, error) {
	var totals CandidateTotals
	err := r.db.WithContext(ctx).
		Table("candidates c").
		Select("COUNT(c.id) AS total, COALESCE(AVG(c.score), 0) AS avg_score").
		Joins("JOIN resume_uploads ru ON ru.id = c.upload_id").
		Where("ru.user_id = ?", userID).
		Scan(&totals).Error
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate candidates: %w", err)
	}
	return &totals, nil
}
