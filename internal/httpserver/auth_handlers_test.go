package httpserver

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/recyclemart/ewaste-market/internal/models"
	"github.com/recyclemart/ewaste-market/internal/tokens"
	"github.com/recyclemart/ewaste-market/internal/transport"
)

func TestRegister(t *testing.T) {
	env := newTestEnv(t)

	payload := map[string]string{
		"name":     "Test User",
		"email":    "test@example.com",
		"password": "password",
	}
	rec, c := env.doJSONRequest(http.MethodPost, "/auth/register", payload)
	require.NoError(t, env.Auth.Register(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp transport.AuthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.True(t, resp.Success)
	require.NotNil(t, resp.User)
	require.Equal(t, "test@example.com", resp.User.Email)
	require.Equal(t, "user", resp.User.Role)
	require.NotEmpty(t, resp.User.ID)
	require.NotEmpty(t, resp.User.AccessToken)

	// password hash never leaves the server
	require.NotContains(t, rec.Body.String(), "password_hash")
	require.NotContains(t, rec.Body.String(), "passwordHash")

	var cookie *http.Cookie
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == tokens.CookieName {
			cookie = ck
		}
	}
	require.NotNil(t, cookie, "expected accessToken cookie")
	require.True(t, cookie.HttpOnly)
	require.Equal(t, http.SameSiteLaxMode, cookie.SameSite)

	var stored models.User
	require.NoError(t, env.DB.Where("email = ?", "test@example.com").First(&stored).Error)
	require.NotEqual(t, "password", stored.PasswordHash)
}

func TestRegister_EmailNormalized(t *testing.T) {
	env := newTestEnv(t)

	payload := map[string]string{
		"name":     "Shouty",
		"email":    "  SHOUTY@Example.COM ",
		"password": "password",
	}
	rec, c := env.doJSONRequest(http.MethodPost, "/auth/register", payload)
	require.NoError(t, env.Auth.Register(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	var stored models.User
	require.NoError(t, env.DB.Where("email = ?", "shouty@example.com").First(&stored).Error)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	env := newTestEnv(t)

	payload := map[string]string{
		"name":     "Test User",
		"email":    "dup@example.com",
		"password": "password",
	}
	rec, c := env.doJSONRequest(http.MethodPost, "/auth/register", payload)
	require.NoError(t, env.Auth.Register(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	rec2, c2 := env.doJSONRequest(http.MethodPost, "/auth/register", payload)
	require.NoError(t, env.Auth.Register(c2))
	require.Equal(t, http.StatusBadRequest, rec2.Code)

	var resp transport.AuthResponse
	require.NoError(t, json.Unmarshal(rec2.Body.Bytes(), &resp))
	require.False(t, resp.Success)
	require.Equal(t, "User already exists", resp.Message)

	var count int64
	env.DB.Model(&models.User{}).Where("email = ?", "dup@example.com").Count(&count)
	require.EqualValues(t, 1, count)
}

func TestRegister_MissingFields(t *testing.T) {
	env := newTestEnv(t)

	rec, c := env.doJSONRequest(http.MethodPost, "/auth/register", map[string]string{
		"email": "nobody@example.com",
	})
	require.NoError(t, env.Auth.Register(c))
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp transport.AuthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "Missing required fields", resp.Message)
}

func TestLogin(t *testing.T) {
	env := newTestEnv(t)
	env.createUser("Test User", "login@example.com", models.RoleUser)

	rec, c := env.doJSONRequest(http.MethodPost, "/auth/login", map[string]string{
		"email":    "login@example.com",
		"password": "password",
	})
	require.NoError(t, env.Auth.Login(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp transport.AuthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.True(t, resp.Success)
	require.NotNil(t, resp.User)
	require.NotEmpty(t, resp.User.AccessToken)

	claims, err := tokens.Parse(resp.User.AccessToken, []byte("test-jwt-secret"))
	require.NoError(t, err)
	require.Equal(t, "login@example.com", claims.Email)
	require.Equal(t, "user", claims.Role)
}

func TestLogin_BadCredentialsIndistinguishable(t *testing.T) {
	env := newTestEnv(t)
	env.createUser("Test User", "known@example.com", models.RoleUser)

	recWrongPass, cWrongPass := env.doJSONRequest(http.MethodPost, "/auth/login", map[string]string{
		"email":    "known@example.com",
		"password": "not-the-password",
	})
	require.NoError(t, env.Auth.Login(cWrongPass))

	recUnknown, cUnknown := env.doJSONRequest(http.MethodPost, "/auth/login", map[string]string{
		"email":    "unknown@example.com",
		"password": "password",
	})
	require.NoError(t, env.Auth.Login(cUnknown))

	require.Equal(t, http.StatusUnauthorized, recWrongPass.Code)
	require.Equal(t, http.StatusUnauthorized, recUnknown.Code)
	require.JSONEq(t, recWrongPass.Body.String(), recUnknown.Body.String())
}

func TestLogout_ClearsCookie(t *testing.T) {
	env := newTestEnv(t)

	rec, c := env.doJSONRequest(http.MethodPost, "/auth/logout", nil)
	require.NoError(t, env.Auth.Logout(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var cookie *http.Cookie
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == tokens.CookieName {
			cookie = ck
		}
	}
	require.NotNil(t, cookie)
	require.Empty(t, cookie.Value)
	require.Negative(t, cookie.MaxAge)
}
