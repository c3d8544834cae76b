package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"hrseeker/resume-matcher/internal/models"
)

type UploadRepository interface {
	CreateWithCandidates(ctx context.Context, upload *models.ResumeUpload, candidates []models.Candidate) error
	FindByIDForUser(ctx context.Context, userID, uploadID uuid.UUID) (*models.ResumeUpload, error)
	FindByID(ctx context.Context, uploadID uuid.UUID) (*models.ResumeUpload, error)
	FindCandidates(ctx context.Context, uploadID uuid.UUID) ([]models.Candidate, error)
	FindUnindexed(ctx context.Context, limit int) ([]models.ResumeUpload, error)
	MarkIndexed(ctx context.Context, uploadID uuid.UUID) error
}

type uploadRepository struct {
	db *gorm.DB
}

func NewUploadRepository(db *gorm.DB) UploadRepository {
	return &uploadRepository{db: db}
}

// CreateWithCandidates inserts the batch row and then its candidates, in
// slice order, inside a single transaction.
func (r *uploadRepository) CreateWithCandidates(ctx context.Context, upload *models.ResumeUpload, candidates []models.Candidate) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Candidates").Create(upload).Error; err != nil {
			return fmt.Errorf("failed to create upload: %w", err)
		}

		if len(candidates) == 0 {
			return nil
		}

		for i := range candidates {
			candidates[i].UploadID = upload.ID
		}

		if err := tx.Create(&candidates).Error; err != nil {
			return fmt.Errorf("failed to create candidates: %w", err)
		}
		return nil
	})
}

func (r *uploadRepository) FindByIDForUser(ctx context.Context, userID, uploadID uuid.UUID) (*models.ResumeUpload, error) {
	var upload models.ResumeUpload
	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", uploadID, userID).
		First(&upload).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("upload not found: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find upload: %w", err)
	}
	return &upload, nil
}

func (r *uploadRepository) FindByID(ctx context.Context, uploadID uuid.UUID) (*models.ResumeUpload, error) {
	var upload models.ResumeUpload
	if err := r.db.WithContext(ctx).Where("id = ?", uploadID).First(&upload).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("upload not found: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find upload: %w", err)
	}
	return &upload, nil
}

func (r *uploadRepository) FindCandidates(ctx context.Context, uploadID uuid.UUID) ([]models.Candidate, error) {
	candidates := []models.Candidate{}
	err := r.db.WithContext(ctx).
		Where("upload_id = ?", uploadID).
		Order("rank_position ASC").
		Find(&candidates).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find candidates: %w", err)
	}
	return candidates, nil
}

func (r *uploadRepository) FindUnindexed(ctx context.Context, limit int) ([]models.ResumeUpload, error) {
	var uploads []models.ResumeUpload
	err := r.db.WithContext(ctx).
		Where("indexed_at IS NULL").
		Order("created_at ASC").
		Limit(limit).
		Find(&uploads).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find unindexed uploads: %w", err)
	}
	return uploads, nil
}

func (r *uploadRepository) MarkIndexed(ctx context.Context, uploadID uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Model(&models.ResumeUpload{}).
		Where("id = ?", uploadID).
		Update("indexed_at", time.Now())

	if result.Error != nil {
		return fmt.Errorf("failed to mark upload indexed: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("upload not found: %w", ErrNotFound)
	}
	return nil
}
