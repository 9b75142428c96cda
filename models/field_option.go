package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// FieldOption is one selectable choice of a Select or RadioGroup question.
// Questions of the other field types never carry options.
type FieldOption struct {
	ID        string    `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	Text       string `gorm:"not null" json:"text"`
	Value      string `gorm:"not null" json:"value"`
	QuestionID string `gorm:"type:uuid;not null;index" json:"question_id"`
}

// BeforeCreate hook to generate UUID
func (o *FieldOption) BeforeCreate(tx *gorm.DB) error {
	if o.ID == "" {
		o.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name for FieldOption model
func (FieldOption) TableName() string {
	return "field_options"
}
