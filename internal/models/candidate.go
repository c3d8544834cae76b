package models

import (
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const UnknownCandidateName = "Unknown Candidate"

type Candidate struct {
	ID            uuid.UUID                   `gorm:"type:uuid;primaryKey" json:"id"`
	UploadID      uuid.UUID                   `gorm:"type:uuid;not null;index" json:"upload_id"`
	Filename      string                      `gorm:"type:text;not null" json:"filename"`
	CandidateName string                      `gorm:"type:varchar(255);default:'Unknown Candidate'" json:"candidate_name"`
	Score         float64                     `json:"score"`
	SemanticScore float64                     `json:"semantic_score"`
	FeatureScore  float64                     `json:"feature_score"`
	MatchedSkills datatypes.JSONSlice[string] `json:"matched_skills"`
	RankPosition  int                         `gorm:"not null" json:"rank_position"`
}

func (Candidate) TableName() string {
	return "candidates"
}

func (c *Candidate) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
