package handlers

import (
	"errors"
	"form_forge_app_go/config"
	"form_forge_app_go/db"
	"form_forge_app_go/middleware"
	"form_forge_app_go/models"
	"form_forge_app_go/services"
	"log"
	"net/http"

	"github.com/labstack/echo/v4"
)

type submitAnswersRequest struct {
	Answers []services.AnswerInput `json:"answers"`
}

// SubmitFormHandler records one respondent's answers against a form.
// Anonymous respondents are allowed; the view gate applies either way.
func SubmitFormHandler(c echo.Context) error {
	formID := c.Param("id")
	user := middleware.GetCurrentUser(c)

	form, err := services.AuthorizeFormView(db.DB, user, formID)
	if err != nil {
		return formErrorResponse(err)
	}

	var req submitAnswersRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	var userID *string
	if user != nil {
		userID = &user.ID
	}

	submissionID, err := services.SubmitAnswers(db.DB, formID, userID, req.Answers)
	if err != nil {
		return submissionErrorResponse(err)
	}

	notifyFormOwner(c, form, len(req.Answers))

	return c.JSON(http.StatusOK, map[string]interface{}{
		"submission_id": submissionID,
	})
}

// notifyFormOwner emails the owner about a new response. Failures are
// logged, never surfaced to the respondent.
func notifyFormOwner(c echo.Context, form *models.Form, answerCount int) {
	if form.UserID == nil {
		return
	}
	cfg, ok := c.Get("config").(*config.Config)
	if !ok {
		return
	}

	var owner models.User
	if err := db.DB.First(&owner, "id = ?", *form.UserID).Error; err != nil {
		log.Printf("Failed to load form owner for notification: %v", err)
		return
	}

	email := services.BuildSubmissionNotificationEmail(cfg, &owner, form, answerCount)
	services.SendEmailAsync(cfg, email)
}

func submissionErrorResponse(err error) error {
	switch {
	case errors.Is(err, services.ErrFormNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "Form not found")
	case errors.Is(err, services.ErrQuestionNotInForm),
		errors.Is(err, services.ErrOptionNotInQuestion),
		errors.Is(err, services.ErrAnswerValueMissing),
		errors.Is(err, services.ErrAnswerValueConflict):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to submit answers")
	}
}
