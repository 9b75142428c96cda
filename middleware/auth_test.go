package middleware

import (
	"form_forge_app_go/db"
	"form_forge_app_go/models"
	"form_forge_app_go/services"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	testDB, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect to test database: %v", err)
	}

	err = testDB.AutoMigrate(&models.User{}, &models.Session{})
	if err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	// Set the global DB variable used by middleware
	db.DB = testDB
	return testDB
}

func createActiveUser(testDB *gorm.DB, email string) models.User {
	user := models.User{
		ID:       uuid.New().String(),
		Name:     "Test User",
		Email:    email,
		IsActive: true,
	}
	testDB.Create(&user)
	return user
}

func TestRequireAuth(t *testing.T) {
	testDB := setupTestDB(t)
	e := echo.New()

	user := createActiveUser(testDB, "test@example.com")
	session, _ := services.CreateSession(testDB, user.ID, "127.0.0.1", "test-agent")

	t.Run("ValidSession", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: session.Token})
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		handler := RequireAuth()(func(c echo.Context) error {
			return c.String(http.StatusOK, "success")
		})

		err := handler(c)
		assert.NoError(t, err)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, user.ID, GetCurrentUser(c).ID)
	})

	t.Run("NoCookie", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/forms", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		handler := RequireAuth()(func(c echo.Context) error {
			return c.String(http.StatusOK, "success")
		})

		err := handler(c)
		he, ok := err.(*echo.HTTPError)
		assert.True(t, ok)
		assert.Equal(t, http.StatusUnauthorized, he.Code)
	})

	t.Run("InvalidToken", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/forms", nil)
		req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "invalid-token"})
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		handler := RequireAuth()(func(c echo.Context) error {
			return c.String(http.StatusOK, "success")
		})

		err := handler(c)
		he, ok := err.(*echo.HTTPError)
		assert.True(t, ok)
		assert.Equal(t, http.StatusUnauthorized, he.Code)

		// The bad cookie is cleared on the response
		cookies := rec.Result().Cookies()
		assert.NotEmpty(t, cookies)
		assert.Equal(t, SessionCookieName, cookies[0].Name)
		assert.Equal(t, -1, cookies[0].MaxAge)
	})

	t.Run("InactiveUser", func(t *testing.T) {
		inactiveUser := models.User{
			ID:       uuid.New().String(),
			Name:     "Inactive User",
			Email:    "inactive@example.com",
			IsActive: false,
		}
		testDB.Create(&inactiveUser)
		// Force IsActive to false because GORM default:true might override zero values during creation
		testDB.Model(&inactiveUser).Update("is_active", false)

		session, _ := services.CreateSession(testDB, inactiveUser.ID, "", "")

		req := httptest.NewRequest(http.MethodGet, "/api/forms", nil)
		req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: session.Token})
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		handler := RequireAuth()(func(c echo.Context) error {
			return c.String(http.StatusOK, "success")
		})

		err := handler(c)
		he, ok := err.(*echo.HTTPError)
		assert.True(t, ok)
		assert.Equal(t, http.StatusUnauthorized, he.Code)
	})
}

func TestOptionalAuth(t *testing.T) {
	testDB := setupTestDB(t)
	e := echo.New()

	user := createActiveUser(testDB, "optional@example.com")
	session, _ := services.CreateSession(testDB, user.ID, "127.0.0.1", "test-agent")

	t.Run("ValidSession", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/forms/some-id", nil)
		req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: session.Token})
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		handler := OptionalAuth()(func(c echo.Context) error {
			return c.String(http.StatusOK, "success")
		})

		err := handler(c)
		assert.NoError(t, err)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, user.ID, GetCurrentUser(c).ID)
	})

	t.Run("NoCookie", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/forms/some-id", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		handler := OptionalAuth()(func(c echo.Context) error {
			return c.String(http.StatusOK, "success")
		})

		err := handler(c)
		assert.NoError(t, err)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Nil(t, GetCurrentUser(c))
	})

	t.Run("InvalidToken", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/forms/some-id", nil)
		req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "invalid-token"})
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		handler := OptionalAuth()(func(c echo.Context) error {
			return c.String(http.StatusOK, "success")
		})

		err := handler(c)
		assert.NoError(t, err)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Nil(t, GetCurrentUser(c))
	})
}

func TestGetCurrentUser(t *testing.T) {
	e := echo.New()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	user := &models.User{ID: "123"}
	c.Set(ContextKeyUser, user)
	assert.Equal(t, user, GetCurrentUser(c))

	c = e.NewContext(req, rec)
	assert.Nil(t, GetCurrentUser(c))
}
