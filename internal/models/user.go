package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Role string

const (
	RoleStudent Role = "Student"
	RoleHR      Role = "Hr"
)

// ParseRole maps a free-form role label onto one of the two known roles.
// Any label containing "hr" (case-insensitive) is Hr, everything else is Student.
func ParseRole(label string) Role {
	if strings.Contains(strings.ToLower(label), "hr") {
		return RoleHR
	}
	return RoleStudent
}

func (r Role) Valid() bool {
	return r == RoleStudent || r == RoleHR
}

type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Email        string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"type:text;not null" json:"-"`
	Name         string    `gorm:"type:varchar(255)" json:"name"`
	Role         Role      `gorm:"type:varchar(20);not null;default:'Student'" json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	// Relations
	Uploads []ResumeUpload `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

func (User) TableName() string {
	return "users"
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
