package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Answer records one respondent value for one question. Exactly one of
// Value / FieldOptionsID is set: free-text questions populate Value, choice
// questions reference one of their own question's options.
type Answer struct {
	ID        string    `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	QuestionID       string  `gorm:"type:uuid;not null;index" json:"question_id"`
	FormSubmissionID string  `gorm:"type:uuid;not null;index" json:"form_submission_id"`
	Value            *string `gorm:"type:text" json:"value,omitempty"`
	FieldOptionsID   *string `gorm:"type:uuid" json:"field_options_id,omitempty"`

	// Relationships
	Question    *Question    `gorm:"foreignKey:QuestionID" json:"question,omitempty"`
	FieldOption *FieldOption `gorm:"foreignKey:FieldOptionsID" json:"field_option,omitempty"`
}

// BeforeCreate hook to generate UUID
func (a *Answer) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name for Answer model
func (Answer) TableName() string {
	return "answers"
}
