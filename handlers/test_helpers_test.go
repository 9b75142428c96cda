package handlers

import (
	"form_forge_app_go/config"
	"form_forge_app_go/db"
	"form_forge_app_go/middleware"
	"form_forge_app_go/models"
	"form_forge_app_go/services"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	// Use unique shared memory name to isolate tests while allowing shared cache for async tasks
	dbName := "mem_" + uuid.New().String()
	testDB, err := gorm.Open(sqlite.Open("file:"+dbName+"?mode=memory&cache=shared&_busy_timeout=5000"), &gorm.Config{})
	assert.NoError(t, err)

	err = testDB.Exec("PRAGMA journal_mode=WAL;").Error
	assert.NoError(t, err)

	err = testDB.AutoMigrate(
		&models.User{},
		&models.Session{},
		&models.Form{},
		&models.Question{},
		&models.FieldOption{},
		&models.FormSubmission{},
		&models.Answer{},
	)
	assert.NoError(t, err)

	// Set global DB
	db.DB = testDB

	return testDB
}

func setupEcho(method, path string, body io.Reader) (*echo.Echo, echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(method, path, body)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	// Add config to context
	c.Set("config", &config.Config{
		Environment:   "test",
		EmailTestMode: true,
	})

	return e, c, rec
}

func createTestUser(t *testing.T, database *gorm.DB, email string) *models.User {
	hashedPassword, err := services.HashPassword("pass123456789")
	assert.NoError(t, err)

	user := &models.User{
		Name:     "Test " + email,
		Email:    email,
		Password: hashedPassword,
		IsActive: true,
	}
	assert.NoError(t, database.Create(user).Error)
	return user
}

func setCurrentUser(c echo.Context, user *models.User) {
	c.Set(middleware.ContextKeyUser, user)
}

func createOwnedForm(t *testing.T, database *gorm.DB, ownerID string) *models.Form {
	schema := &services.FormSchema{
		Name:        "Feedback",
		Description: "Tell us",
		Questions: []services.QuestionSchema{
			{Text: "Your name", FieldType: models.FieldTypeInput},
			{Text: "Rating", FieldType: models.FieldTypeRadioGroup, FieldOptions: []services.FieldOptionSchema{
				{Text: "Good", Value: "good"},
				{Text: "Bad", Value: "bad"},
			}},
		},
	}
	formID, err := services.CreateForm(database, ownerID, schema)
	assert.NoError(t, err)

	form, err := services.GetFormByID(database, formID, true, false)
	assert.NoError(t, err)
	return form
}
