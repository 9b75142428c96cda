package services

import (
	"errors"
	"fmt"
	"form_forge_app_go/models"

	"gorm.io/gorm"
)

// Submission-related errors
var (
	ErrQuestionNotInForm   = errors.New("question does not belong to form")
	ErrOptionNotInQuestion = errors.New("field option does not belong to question")
	ErrAnswerValueMissing  = errors.New("answer is missing a value")
	ErrAnswerValueConflict = errors.New("answer sets both a value and a field option")
)

// AnswerInput is one respondent answer as received from the submit endpoint
type AnswerInput struct {
	QuestionID     string  `json:"question_id"`
	Value          *string `json:"value,omitempty"`
	FieldOptionsID *string `json:"field_options_id,omitempty"`
}

// SubmitAnswers records one respondent's full pass over a form. The
// submission row and every answer row are written in a single transaction,
// so readers never observe a submission with only some of its answers.
// userID is nil for anonymous respondents.
//
// Each answer is validated at this boundary before anything is written:
// the question must belong to the form, choice questions must reference one
// of their own options, free-text questions must carry a value, and never
// both.
func SubmitAnswers(db *gorm.DB, formID string, userID *string, answers []AnswerInput) (string, error) {
	var submissionID string

	err := db.Transaction(func(tx *gorm.DB) error {
		form, err := loadFormForSubmission(tx, formID)
		if err != nil {
			return err
		}

		questionsByID := make(map[string]*models.Question, len(form.Questions))
		for i := range form.Questions {
			questionsByID[form.Questions[i].ID] = &form.Questions[i]
		}

		rows := make([]models.Answer, 0, len(answers))
		for _, in := range answers {
			question, ok := questionsByID[in.QuestionID]
			if !ok {
				return fmt.Errorf("%w: question %s, form %s", ErrQuestionNotInForm, in.QuestionID, formID)
			}

			row, err := buildAnswerRow(question, in)
			if err != nil {
				return err
			}
			rows = append(rows, row)
		}

		submission := models.FormSubmission{
			FormID: formID,
			UserID: userID,
		}
		if err := tx.Create(&submission).Error; err != nil {
			return fmt.Errorf("failed to create submission: %w", err)
		}

		for i := range rows {
			rows[i].FormSubmissionID = submission.ID
			if err := tx.Create(&rows[i]).Error; err != nil {
				return fmt.Errorf("failed to create answer: %w", err)
			}
		}

		submissionID = submission.ID
		return nil
	})
	if err != nil {
		return "", err
	}

	return submissionID, nil
}

func loadFormForSubmission(tx *gorm.DB, formID string) (*models.Form, error) {
	var form models.Form
	err := tx.Preload("Questions").Preload("Questions.FieldOptions").
		First(&form, "id = ?", formID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrFormNotFound
		}
		return nil, fmt.Errorf("failed to load form: %w", err)
	}
	return &form, nil
}

// buildAnswerRow validates one answer against its question and produces the
// row to insert. Choice questions take exactly a field option id, every
// other type takes exactly a text value.
func buildAnswerRow(question *models.Question, in AnswerInput) (models.Answer, error) {
	if in.Value != nil && in.FieldOptionsID != nil {
		return models.Answer{}, fmt.Errorf("%w: question %s", ErrAnswerValueConflict, question.ID)
	}

	row := models.Answer{QuestionID: question.ID}

	if models.FieldTypeHasOptions(question.FieldType) {
		if in.FieldOptionsID == nil {
			return models.Answer{}, fmt.Errorf("%w: question %s expects a field option", ErrAnswerValueMissing, question.ID)
		}
		if !questionHasOption(question, *in.FieldOptionsID) {
			return models.Answer{}, fmt.Errorf("%w: option %s, question %s", ErrOptionNotInQuestion, *in.FieldOptionsID, question.ID)
		}
		row.FieldOptionsID = in.FieldOptionsID
		return row, nil
	}

	if in.Value == nil {
		return models.Answer{}, fmt.Errorf("%w: question %s expects a value", ErrAnswerValueMissing, question.ID)
	}
	value := SanitizeText(*in.Value)
	row.Value = &value
	return row, nil
}

func questionHasOption(question *models.Question, optionID string) bool {
	for _, o := range question.FieldOptions {
		if o.ID == optionID {
			return true
		}
	}
	return false
}

// GetFormSubmissions returns a form's submissions in submission order, each
// with its answers resolved to their question and chosen option
func GetFormSubmissions(db *gorm.DB, formID string) ([]models.FormSubmission, error) {
	var submissions []models.FormSubmission
	err := db.Where("form_id = ?", formID).
		Preload("Answers").
		Preload("Answers.Question").
		Preload("Answers.FieldOption").
		Order("submitted_at ASC").
		Find(&submissions).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load submissions: %w", err)
	}
	return submissions, nil
}
