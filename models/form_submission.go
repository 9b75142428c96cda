package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// FormSubmission is the aggregate root for the response side: one completed
// pass of a respondent over a form, immutable once created.
type FormSubmission struct {
	ID        string    `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	FormID string `gorm:"type:uuid;not null;index" json:"form_id"`
	// Nullable: published forms accept anonymous respondents
	UserID      *string   `gorm:"type:uuid;index" json:"user_id"`
	SubmittedAt time.Time `gorm:"not null" json:"submitted_at"`

	// Relationships
	Answers []Answer `gorm:"foreignKey:FormSubmissionID" json:"answers,omitempty"`
}

// BeforeCreate hook to generate UUID and set SubmittedAt
func (s *FormSubmission) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	if s.SubmittedAt.IsZero() {
		s.SubmittedAt = time.Now()
	}
	return nil
}

// TableName specifies the table name for FormSubmission model
func (FormSubmission) TableName() string {
	return "form_submissions"
}
