package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Form is the aggregate root for the editing side: deleting a form removes
// its questions, their options, and every submission recorded against it.
type Form struct {
	ID        string    `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Name        string `gorm:"not null" json:"name"`
	Description string `gorm:"type:text" json:"description"`
	// Nullable: forms may be created before the owner is known
	UserID    *string `gorm:"type:uuid;index" json:"user_id"`
	Published bool    `gorm:"not null;default:false" json:"published"`

	// Relationships
	User        *User            `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Questions   []Question       `gorm:"foreignKey:FormID" json:"questions,omitempty"`
	Submissions []FormSubmission `gorm:"foreignKey:FormID" json:"submissions,omitempty"`
}

// BeforeCreate hook to generate UUID
func (f *Form) BeforeCreate(tx *gorm.DB) error {
	if f.ID == "" {
		f.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name for Form model
func (Form) TableName() string {
	return "forms"
}

// IsOwnedBy checks whether the form belongs to the given user id
func (f *Form) IsOwnedBy(userID string) bool {
	return f.UserID != nil && *f.UserID == userID && userID != ""
}
