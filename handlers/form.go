package handlers

import (
	"errors"
	"form_forge_app_go/db"
	"form_forge_app_go/middleware"
	"form_forge_app_go/services"
	"net/http"

	"github.com/labstack/echo/v4"
)

// Generator drives the AI generation pipeline. Wired in main.
var Generator *services.FormGenerator

type generateFormRequest struct {
	Description string `json:"description"`
}

type fieldOptionRequest struct {
	Text  string `json:"text"`
	Value string `json:"value"`
}

type questionRequest struct {
	Text         string               `json:"text"`
	FieldType    string               `json:"field_type"`
	FieldOptions []fieldOptionRequest `json:"field_options"`
}

type updateFormRequest struct {
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Questions   []questionRequest `json:"questions"`
}

type publishFormRequest struct {
	Published bool `json:"published"`
}

// GenerateFormHandler runs the description → AI → schema → form pipeline
// and returns the new form id for redirection to the edit view
func GenerateFormHandler(c echo.Context) error {
	user := middleware.GetCurrentUser(c)

	var req generateFormRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	formID, err := Generator.Generate(c.Request().Context(), user.ID, req.Description)
	if err != nil {
		return c.JSON(statusForGenerateError(err), map[string]interface{}{
			"message": services.UserMessage(err),
		})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "success",
		"form_id": formID,
	})
}

// CreateFormHandler creates an empty form for the manual builder flow
func CreateFormHandler(c echo.Context) error {
	user := middleware.GetCurrentUser(c)

	formID, err := services.CreateManualForm(db.DB, user.ID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to create form")
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{
		"form_id": formID,
	})
}

// GetFormsHandler lists the caller's forms for the dashboard.
// ?with_submissions=true includes each form's submissions.
func GetFormsHandler(c echo.Context) error {
	user := middleware.GetCurrentUser(c)
	withSubmissions := c.QueryParam("with_submissions") == "true"

	forms, err := services.GetFormsByUser(db.DB, user.ID, withSubmissions)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch forms")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"forms": forms,
	})
}

// GetFormHandler returns one form with its questions for rendering to a
// respondent. Unpublished forms are visible to their owner only.
func GetFormHandler(c echo.Context) error {
	formID := c.Param("id")
	user := middleware.GetCurrentUser(c)

	if _, err := services.AuthorizeFormView(db.DB, user, formID); err != nil {
		return formErrorResponse(err)
	}

	form, err := services.GetFormByID(db.DB, formID, true, false)
	if err != nil {
		return formErrorResponse(err)
	}

	return c.JSON(http.StatusOK, form)
}

// UpdateFormHandler replaces a form's name, description and question set
func UpdateFormHandler(c echo.Context) error {
	formID := c.Param("id")
	user := middleware.GetCurrentUser(c)

	var req updateFormRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	if _, err := services.AuthorizeFormOwner(db.DB, user, formID); err != nil {
		return formErrorResponse(err)
	}

	schema := &services.FormSchema{
		Name:        req.Name,
		Description: req.Description,
		Questions:   make([]services.QuestionSchema, 0, len(req.Questions)),
	}
	for _, q := range req.Questions {
		question := services.QuestionSchema{
			Text:         q.Text,
			FieldType:    q.FieldType,
			FieldOptions: make([]services.FieldOptionSchema, 0, len(q.FieldOptions)),
		}
		for _, o := range q.FieldOptions {
			question.FieldOptions = append(question.FieldOptions, services.FieldOptionSchema{
				Text:  o.Text,
				Value: o.Value,
			})
		}
		schema.Questions = append(schema.Questions, question)
	}

	if _, err := services.ReplaceQuestions(db.DB, formID, schema); err != nil {
		if errors.Is(err, services.ErrInvalidFieldType) || errors.Is(err, services.ErrMissingFieldOptions) {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		return formErrorResponse(err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"form_id": formID,
	})
}

// DeleteFormHandler deletes a form and everything hanging off it
func DeleteFormHandler(c echo.Context) error {
	formID := c.Param("id")
	user := middleware.GetCurrentUser(c)

	if _, err := services.AuthorizeFormOwner(db.DB, user, formID); err != nil {
		return formErrorResponse(err)
	}

	if err := services.DeleteForm(db.DB, formID); err != nil {
		return formErrorResponse(err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "Form deleted successfully",
	})
}

// PublishFormHandler sets a form's publish state
func PublishFormHandler(c echo.Context) error {
	formID := c.Param("id")
	user := middleware.GetCurrentUser(c)

	var req publishFormRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	if _, err := services.AuthorizeFormOwner(db.DB, user, formID); err != nil {
		return formErrorResponse(err)
	}

	if err := services.SetPublished(db.DB, formID, req.Published); err != nil {
		return formErrorResponse(err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"form_id":   formID,
		"published": req.Published,
	})
}

// GetFormResultsHandler returns a form's submissions with answers resolved
// to their question and chosen option. Owner only.
func GetFormResultsHandler(c echo.Context) error {
	formID := c.Param("id")
	user := middleware.GetCurrentUser(c)

	if _, err := services.AuthorizeFormOwner(db.DB, user, formID); err != nil {
		return formErrorResponse(err)
	}

	form, err := services.GetFormByID(db.DB, formID, true, true)
	if err != nil {
		return formErrorResponse(err)
	}

	return c.JSON(http.StatusOK, form)
}

// statusForGenerateError maps orchestrator failures to HTTP statuses. The
// user-facing message comes from services.UserMessage.
func statusForGenerateError(err error) int {
	switch {
	case errors.Is(err, services.ErrEmptyDescription):
		return http.StatusBadRequest
	case errors.Is(err, services.ErrGeneratorNotConfigured):
		return http.StatusServiceUnavailable
	case errors.Is(err, services.ErrNoJSONFound), errors.Is(err, services.ErrMalformedJSON):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// formErrorResponse maps store and guard errors to HTTP errors. Not-found
// stays distinct from the authorization failures.
func formErrorResponse(err error) error {
	switch {
	case errors.Is(err, services.ErrFormNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "Form not found")
	case errors.Is(err, services.ErrUnauthorized):
		return echo.NewHTTPError(http.StatusForbidden, "You do not have permission to manage this form")
	case errors.Is(err, services.ErrFormNotAccessible):
		return echo.NewHTTPError(http.StatusForbidden, "This form is not accepting responses")
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, "Something went wrong")
	}
}
