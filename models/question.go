package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Field type constants (closed enumeration)
const (
	FieldTypeInput      = "Input"
	FieldTypeTextarea   = "Textarea"
	FieldTypeSelect     = "Select"
	FieldTypeRadioGroup = "RadioGroup"
	FieldTypeSwitch     = "Switch"
)

// Question belongs to exactly one form. Questions are persisted in schema
// order and read back in insertion order, which doubles as display order.
type Question struct {
	ID        string    `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	Text      string `gorm:"type:text;not null" json:"text"`
	FieldType string `gorm:"not null" json:"field_type"`
	FormID    string `gorm:"type:uuid;not null;index" json:"form_id"`

	// Relationships
	FieldOptions []FieldOption `gorm:"foreignKey:QuestionID" json:"field_options,omitempty"`
}

// BeforeCreate hook to generate UUID
func (q *Question) BeforeCreate(tx *gorm.DB) error {
	if q.ID == "" {
		q.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name for Question model
func (Question) TableName() string {
	return "questions"
}

// IsValidFieldType checks if the field type is part of the enumeration
func IsValidFieldType(fieldType string) bool {
	validTypes := []string{
		FieldTypeInput,
		FieldTypeTextarea,
		FieldTypeSelect,
		FieldTypeRadioGroup,
		FieldTypeSwitch,
	}
	for _, t := range validTypes {
		if t == fieldType {
			return true
		}
	}
	return false
}

// FieldTypeHasOptions reports whether questions of this type carry a
// non-empty option set
func FieldTypeHasOptions(fieldType string) bool {
	return fieldType == FieldTypeSelect || fieldType == FieldTypeRadioGroup
}
