package serverutils

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "test-secret"

func signed(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return s
}

func newApp() *fiber.App {
	app := fiber.New()
	app.Use(ErrorHandlerMiddleware())
	app.Get("/me", JwtMiddleware(secret), func(c *fiber.Ctx) error {
		return c.JSON(SuccessResponse("ok", fiber.Map{
			"user_id": c.Locals(LocalUserID),
			"email":   c.Locals(LocalEmail),
		}))
	})
	app.Get("/boom", func(c *fiber.Ctx) error { panic("boom") })
	app.Get("/bad", func(c *fiber.Ctx) error {
		return ValidateRequest(struct {
			Question string `validate:"required"`
		}{})
	})
	return app
}

func decode(t *testing.T, body io.Reader) Response {
	t.Helper()
	var r Response
	require.NoError(t, json.NewDecoder(body).Decode(&r))
	return r
}

func TestJwtMiddleware(t *testing.T) {
	app := newApp()

	token := signed(t, jwt.MapClaims{"user_id": "u-1", "username": "dana", "email": "dana@tcube360.com", "exp": time.Now().Add(time.Hour).Unix()})
	req := httptest.NewRequest("GET", "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
	body := decode(t, resp.Body)
	assert.Equal(t, "dana@tcube360.com", body.Data.(map[string]interface{})["email"])

	resp, err = app.Test(httptest.NewRequest("GET", "/me", nil))
	require.NoError(t, err)
	assert.Equal(t, 401, resp.StatusCode)

	expired := signed(t, jwt.MapClaims{"user_id": "u-1", "exp": time.Now().Add(-time.Hour).Unix()})
	resp, err = app.Test(httptest.NewRequest("GET", "/me?token="+expired, nil))
	require.NoError(t, err)
	assert.Equal(t, 401, resp.StatusCode)
}

func TestErrorHandlerMiddleware(t *testing.T) {
	app := newApp()

	resp, err := app.Test(httptest.NewRequest("GET", "/boom", nil))
	require.NoError(t, err)
	assert.Equal(t, 500, resp.StatusCode)
	assert.Equal(t, "Internal server error", decode(t, resp.Body).Message)

	resp, err = app.Test(httptest.NewRequest("GET", "/bad", nil))
	require.NoError(t, err)
	assert.Equal(t, 400, resp.StatusCode)
	assert.Contains(t, decode(t, resp.Body).Message, "Question failed on required")
}
