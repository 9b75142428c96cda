package services

import (
	"errors"
	"fmt"
	"form_forge_app_go/models"

	"gorm.io/gorm"
)

// Authorization errors. These are distinct from ErrFormNotFound: existence
// is always checked first, so a missing form is reported as missing rather
// than as an authorization failure.
var (
	ErrUnauthorized      = errors.New("unauthorized")
	ErrFormNotAccessible = errors.New("form not accessible")
)

// AuthorizeFormOwner loads a form and verifies the caller owns it. Every
// mutation (delete, update, publish-toggle, replace-questions) goes through
// this gate before touching the aggregate.
func AuthorizeFormOwner(db *gorm.DB, user *models.User, formID string) (*models.Form, error) {
	form, err := loadFormRow(db, formID)
	if err != nil {
		return nil, err
	}

	if user == nil || !form.IsOwnedBy(user.ID) {
		return nil, ErrUnauthorized
	}
	return form, nil
}

// AuthorizeFormView loads a form and verifies the caller may see it as a
// respondent: the form is published, or the caller is the owner.
func AuthorizeFormView(db *gorm.DB, user *models.User, formID string) (*models.Form, error) {
	form, err := loadFormRow(db, formID)
	if err != nil {
		return nil, err
	}

	if form.Published {
		return form, nil
	}
	if user != nil && form.IsOwnedBy(user.ID) {
		return form, nil
	}
	return nil, ErrFormNotAccessible
}

func loadFormRow(db *gorm.DB, formID string) (*models.Form, error) {
	var form models.Form
	if err := db.First(&form, "id = ?", formID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrFormNotFound
		}
		return nil, fmt.Errorf("failed to load form: %w", err)
	}
	return &form, nil
}
