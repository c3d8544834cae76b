package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ResumeUpload is one matching batch. It is written once, together with its
// candidates, and never updated apart from the talent-index stamp.
type ResumeUpload struct {
	ID                 uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID             uuid.UUID  `gorm:"type:uuid;not null;index" json:"user_id"`
	JobRole            string     `gorm:"type:varchar(255);not null" json:"job_role"`
	JobDescription     string     `gorm:"type:text;not null" json:"job_description"`
	TotalResumes       int        `gorm:"not null" json:"total_resumes"`
	RequiredCandidates int        `gorm:"not null" json:"required_candidates"`
	CreatedAt          time.Time  `gorm:"index" json:"upload_date"`
	IndexedAt          *time.Time `json:"-"`

	// Relations
	Candidates []Candidate `gorm:"foreignKey:UploadID;constraint:OnDelete:CASCADE" json:"-"`
}

func (ResumeUpload) TableName() string {
	return "resume_uploads"
}

func (r *ResumeUpload) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
