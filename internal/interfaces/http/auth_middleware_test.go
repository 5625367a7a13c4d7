package http_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Academia-api/internal/application/auth"
	"github.com/jhoicas/Academia-api/internal/application/dto"
	apphttp "github.com/jhoicas/Academia-api/internal/interfaces/http"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const (
	testJWTSecret = "test-secret-key-for-unit-tests-32b!"
	testEmail     = "admin@academia.test"
	testAccountID = "00000000-0000-0000-0000-000000000001"
)

func tokenConfig(now func() time.Time) auth.TokenConfig {
	return auth.TokenConfig{
		Secret:     testJWTSecret,
		Issuer:     "academia-api-test",
		Audience:   "academia-clients-test",
		AccessTTL:  60 * time.Minute,
		RefreshTTL: 24 * time.Hour,
		Now:        now,
	}
}

func newTokens(t *testing.T, now func() time.Time) *auth.TokenService {
	t.Helper()
	svc, err := auth.NewTokenService(tokenConfig(now))
	require.NoError(t, err)
	return svc
}

// buildTestApp app mínima con AuthMiddleware + RequireRole y un handler que devuelve el actor.
func buildTestApp(t *testing.T, allowedRoles ...string) *fiber.App {
	t.Helper()
	app := fiber.New()
	app.Get("/protected",
		apphttp.AuthMiddleware(newTokens(t, nil)),
		apphttp.RequireRole(allowedRoles...),
		func(c *fiber.Ctx) error {
			a, _ := apphttp.GetActor(c)
			return c.JSON(fiber.Map{
				"user_id":    apphttp.GetUserID(c),
				"account_id": a.AccountID,
				"roles":      apphttp.GetRoles(c),
			})
		},
	)
	return app
}

// bearer genera un Authorization header con los roles indicados.
func bearer(t *testing.T, svc *auth.TokenService, roles ...string) string {
	t.Helper()
	tok, _, err := svc.IssueAccessToken(auth.AccessSubject{Subject: testEmail, UserID: testAccountID, Roles: roles})
	require.NoError(t, err)
	return "Bearer " + tok
}

func get(t *testing.T, app *fiber.App, authHeader string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func decodeError(t *testing.T, resp *http.Response) dto.ErrorResponse {
	t.Helper()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var out dto.ErrorResponse
	require.NoError(t, json.Unmarshal(body, &out), "body: %s", body)
	return out
}

// ──────────────────────────────────────────────────────────────────────────────
// AuthMiddleware
// ──────────────────────────────────────────────────────────────────────────────

func TestAuthMiddleware_SinHeader(t *testing.T) {
	resp := get(t, buildTestApp(t, "admin"), "")

	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	e := decodeError(t, resp)
	assert.Equal(t, "MISSING_TOKEN", e.Code)
	assert.Equal(t, auth.MsgUnauthorized, e.Message)
}

func TestAuthMiddleware_EsquemaInvalido(t *testing.T) {
	resp := get(t, buildTestApp(t, "admin"), "Basic abc")

	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "INVALID_TOKEN", decodeError(t, resp).Code)
}

func TestAuthMiddleware_TokenBasura(t *testing.T) {
	resp := get(t, buildTestApp(t, "admin"), "Bearer no.es.un.jwt")

	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	e := decodeError(t, resp)
	assert.Equal(t, "INVALID_TOKEN", e.Code)
	assert.Equal(t, auth.MsgUnauthorized, e.Message)
}

func TestAuthMiddleware_TokenExpirado(t *testing.T) {
	old := newTokens(t, func() time.Time { return time.Now().Add(-2 * time.Hour) })

	resp := get(t, buildTestApp(t, "admin"), bearer(t, old, "admin"))

	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	e := decodeError(t, resp)
	assert.Equal(t, "TOKEN_EXPIRED", e.Code)
	assert.Equal(t, auth.MsgUnauthorized, e.Message)
}

func TestAuthMiddleware_TokenValido_CargaActor(t *testing.T) {
	resp := get(t, buildTestApp(t, "admin"), bearer(t, newTokens(t, nil), "admin"))
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body struct {
		UserID    string   `json:"user_id"`
		AccountID string   `json:"account_id"`
		Roles     []string `json:"roles"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, testEmail, body.UserID)
	assert.Equal(t, testAccountID, body.AccountID)
	assert.Equal(t, []string{"admin"}, body.Roles)
}

// ──────────────────────────────────────────────────────────────────────────────
// RequireRole
// ──────────────────────────────────────────────────────────────────────────────

func TestRequireRole(t *testing.T) {
	svc := newTokens(t, nil)
	cases := []struct {
		name    string
		allowed []string
		roles   []string
		want    int
	}{
		{"admin en ruta de admin", []string{"admin"}, []string{"admin"}, fiber.StatusOK},
		{"alumno en ruta de admin", []string{"admin"}, []string{"student"}, fiber.StatusForbidden},
		{"sin roles", []string{"admin"}, nil, fiber.StatusForbidden},
		{"instructor en ruta compartida", []string{"admin", "instructor"}, []string{"instructor"}, fiber.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp := get(t, buildTestApp(t, tc.allowed...), bearer(t, svc, tc.roles...))
			assert.Equal(t, tc.want, resp.StatusCode)
		})
	}
}

func TestRequireRole_SinAuthMiddleware(t *testing.T) {
	app := fiber.New()
	app.Get("/protected", apphttp.RequireRole("admin"), func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })

	resp := get(t, app, "")

	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}
