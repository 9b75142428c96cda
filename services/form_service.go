package services

import (
	"errors"
	"fmt"
	"form_forge_app_go/models"

	"gorm.io/gorm"
)

// Form-related errors
var (
	ErrFormNotFound        = errors.New("form not found")
	ErrInvalidFieldType    = errors.New("invalid field type")
	ErrMissingFieldOptions = errors.New("choice question has no field options")
)

const (
	// ManualFormName is the name given to forms created without AI
	ManualFormName = "New Form"
	// ManualFormDescription prompts the owner to fill in a real description
	ManualFormDescription = "Enter a description for your form to help respondents understand its purpose"
)

// CreateForm materializes a validated schema as a brand-new unpublished
// form. Every row of the aggregate is written inside one transaction: a
// rejected question or a failed insert rolls the whole form back.
// ownerUserID may be empty for anonymously created forms.
func CreateForm(db *gorm.DB, ownerUserID string, schema *FormSchema) (string, error) {
	var formID string

	err := db.Transaction(func(tx *gorm.DB) error {
		form := models.Form{
			Name:        SanitizeText(schema.Name),
			Description: SanitizeText(schema.Description),
			Published:   false,
		}
		if ownerUserID != "" {
			form.UserID = &ownerUserID
		}

		if err := tx.Create(&form).Error; err != nil {
			return fmt.Errorf("failed to create form: %w", err)
		}

		if err := insertQuestions(tx, form.ID, schema.Questions); err != nil {
			return err
		}

		formID = form.ID
		return nil
	})
	if err != nil {
		return "", err
	}

	return formID, nil
}

// ReplaceQuestions updates a form's name and description and replaces its
// entire question set with the supplied schema in one transaction. This is
// a full replace: questions absent from the new schema are gone, along with
// their options. Options are deleted before their questions to respect the
// foreign-key dependency.
func ReplaceQuestions(db *gorm.DB, formID string, schema *FormSchema) (string, error) {
	err := db.Transaction(func(tx *gorm.DB) error {
		var form models.Form
		if err := tx.First(&form, "id = ?", formID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrFormNotFound
			}
			return fmt.Errorf("failed to load form: %w", err)
		}

		updates := map[string]interface{}{
			"name":        SanitizeText(schema.Name),
			"description": SanitizeText(schema.Description),
		}
		if err := tx.Model(&form).Updates(updates).Error; err != nil {
			return fmt.Errorf("failed to update form: %w", err)
		}

		questionIDs := tx.Model(&models.Question{}).Select("id").Where("form_id = ?", formID)
		if err := tx.Where("question_id IN (?)", questionIDs).Delete(&models.FieldOption{}).Error; err != nil {
			return fmt.Errorf("failed to delete field options: %w", err)
		}
		if err := tx.Where("form_id = ?", formID).Delete(&models.Question{}).Error; err != nil {
			return fmt.Errorf("failed to delete questions: %w", err)
		}

		return insertQuestions(tx, formID, schema.Questions)
	})
	if err != nil {
		return "", err
	}

	return formID, nil
}

// insertQuestions writes the question set in schema order. Insertion order
// is the display order consumers rely on; there is no ordinal column.
// The option invariant is enforced here: Select and RadioGroup questions
// must carry at least one option, every other type carries none.
func insertQuestions(tx *gorm.DB, formID string, questions []QuestionSchema) error {
	for _, q := range questions {
		if !models.IsValidFieldType(q.FieldType) {
			return fmt.Errorf("%w: %q", ErrInvalidFieldType, q.FieldType)
		}

		question := models.Question{
			Text:      SanitizeText(q.Text),
			FieldType: q.FieldType,
			FormID:    formID,
		}
		if err := tx.Create(&question).Error; err != nil {
			return fmt.Errorf("failed to create question: %w", err)
		}

		if !models.FieldTypeHasOptions(q.FieldType) {
			// Options declared for a free-text or switch question are dropped
			continue
		}
		if len(q.FieldOptions) == 0 {
			return fmt.Errorf("%w: %q (%s)", ErrMissingFieldOptions, question.Text, q.FieldType)
		}

		options := make([]models.FieldOption, 0, len(q.FieldOptions))
		for _, o := range q.FieldOptions {
			options = append(options, models.FieldOption{
				Text:       SanitizeText(o.Text),
				Value:      SanitizeText(o.Value),
				QuestionID: question.ID,
			})
		}
		if err := tx.Create(&options).Error; err != nil {
			return fmt.Errorf("failed to create field options: %w", err)
		}
	}
	return nil
}

// CreateManualForm creates an empty named form for the builder flow
func CreateManualForm(db *gorm.DB, ownerUserID string) (string, error) {
	schema := &FormSchema{
		Name:        ManualFormName,
		Description: ManualFormDescription,
		Questions:   []QuestionSchema{},
	}
	return CreateForm(db, ownerUserID, schema)
}

// GetFormByID retrieves a form, optionally with its question set and its
// submissions. Questions and options are returned in insertion order.
func GetFormByID(db *gorm.DB, formID string, withQuestions, withSubmissions bool) (*models.Form, error) {
	query := db.Where("id = ?", formID)

	if withQuestions {
		query = query.
			Preload("Questions", func(db *gorm.DB) *gorm.DB {
				return db.Order("questions.created_at ASC")
			}).
			Preload("Questions.FieldOptions", func(db *gorm.DB) *gorm.DB {
				return db.Order("field_options.created_at ASC")
			})
	}
	if withSubmissions {
		query = query.
			Preload("Submissions", func(db *gorm.DB) *gorm.DB {
				return db.Order("form_submissions.submitted_at ASC")
			}).
			Preload("Submissions.Answers").
			Preload("Submissions.Answers.Question").
			Preload("Submissions.Answers.FieldOption")
	}

	var form models.Form
	if err := query.First(&form).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrFormNotFound
		}
		return nil, fmt.Errorf("failed to load form: %w", err)
	}

	return &form, nil
}

// GetFormsByUser lists a user's forms in insertion order. When
// withSubmissions is set, each form carries its submissions for dashboard
// counts.
func GetFormsByUser(db *gorm.DB, userID string, withSubmissions bool) ([]models.Form, error) {
	query := db.Where("user_id = ?", userID).Order("created_at ASC")
	if withSubmissions {
		query = query.Preload("Submissions")
	}

	var forms []models.Form
	if err := query.Find(&forms).Error; err != nil {
		return nil, fmt.Errorf("failed to list forms: %w", err)
	}
	return forms, nil
}

// DeleteForm removes a form and everything hanging off it: questions,
// their options, submissions, and answers, all in one transaction
func DeleteForm(db *gorm.DB, formID string) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var form models.Form
		if err := tx.First(&form, "id = ?", formID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrFormNotFound
			}
			return fmt.Errorf("failed to load form: %w", err)
		}

		submissionIDs := tx.Model(&models.FormSubmission{}).Select("id").Where("form_id = ?", formID)
		if err := tx.Where("form_submission_id IN (?)", submissionIDs).Delete(&models.Answer{}).Error; err != nil {
			return fmt.Errorf("failed to delete answers: %w", err)
		}
		if err := tx.Where("form_id = ?", formID).Delete(&models.FormSubmission{}).Error; err != nil {
			return fmt.Errorf("failed to delete submissions: %w", err)
		}

		questionIDs := tx.Model(&models.Question{}).Select("id").Where("form_id = ?", formID)
		if err := tx.Where("question_id IN (?)", questionIDs).Delete(&models.FieldOption{}).Error; err != nil {
			return fmt.Errorf("failed to delete field options: %w", err)
		}
		if err := tx.Where("form_id = ?", formID).Delete(&models.Question{}).Error; err != nil {
			return fmt.Errorf("failed to delete questions: %w", err)
		}

		if err := tx.Delete(&form).Error; err != nil {
			return fmt.Errorf("failed to delete form: %w", err)
		}
		return nil
	})
}

// SetPublished sets a form's publish state
func SetPublished(db *gorm.DB, formID string, published bool) error {
	result := db.Model(&models.Form{}).Where("id = ?", formID).Update("published", published)
	if result.Error != nil {
		return fmt.Errorf("failed to update publish state: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrFormNotFound
	}
	return nil
}
