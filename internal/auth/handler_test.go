package auth_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tejash/bloghub/internal/auth"
	"github.com/tejash/bloghub/internal/middleware"
	"github.com/tejash/bloghub/internal/store"
)

func newAuthServer(t *testing.T) (*httptest.Server, *auth.TokenService) {
	t.Helper()

	users := store.NewMemoryUserStore()
	tokens := auth.NewTokenService("test-secret")
	require.NoError(t, auth.EnsureAdmin(context.Background(), users, "tejash", "tejash@gmail.com", "tejash@123"))

	handler := auth.NewHandler(users, tokens)
	r := chi.NewRouter()
	r.Post("/api/auth/login", handler.Login)
	r.With(middleware.RequireAuth(tokens, users)).Get("/api/auth/user", handler.Me)

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv, tokens
}

func doLogin(t *testing.T, srv *httptest.Server, email, password string) *http.Response {
	t.Helper()
	body := fmt.Sprintf(`{"email":%q,"password":%q}`, email, password)
	resp, err := http.Post(srv.URL+"/api/auth/login", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	return resp
}

func TestLoginIssuesVerifiableToken(t *testing.T) {
	srv, tokens := newAuthServer(t)

	resp := doLogin(t, srv, "tejash@gmail.com", "tejash@123")
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var result struct {
		User struct {
			ID       string `json:"id"`
			Username string `json:"username"`
			Email    string `json:"email"`
		} `json:"user"`
		Token string `json:"token"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	require.NotEmpty(t, result.Token)

	userID, err := tokens.Verify(result.Token)
	require.NoError(t, err)
	assert.Equal(t, result.User.ID, userID)
}

func TestLoginWrongPassword(t *testing.T) {
	srv, _ := newAuthServer(t)

	resp := doLogin(t, srv, "tejash@gmail.com", "wrong")
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.NotContains(t, string(body), "token")
}

func TestLoginUnknownEmail(t *testing.T) {
	srv, _ := newAuthServer(t)

	resp := doLogin(t, srv, "nobody@example.com", "whatever")
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestCurrentUser(t *testing.T) {
	srv, _ := newAuthServer(t)

	resp := doLogin(t, srv, "tejash@gmail.com", "tejash@123")
	var login struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&login))
	resp.Body.Close()

	req, err := http.NewRequest(http.MethodGet, srv.URL+"/api/auth/user", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+login.Token)

	userResp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer userResp.Body.Close()
	require.Equal(t, http.StatusOK, userResp.StatusCode)

	raw, err := io.ReadAll(userResp.Body)
	require.NoError(t, err)

	var result struct {
		User struct {
			Username string `json:"username"`
			Email    string `json:"email"`
		} `json:"user"`
	}
	require.NoError(t, json.Unmarshal(raw, &result))
	assert.Equal(t, "tejash", result.User.Username)
	assert.Equal(t, "tejash@gmail.com", result.User.Email)

	// The password hash must never leave the server.
	assert.NotContains(t, string(raw), "password")
}

func TestCurrentUserWithoutToken(t *testing.T) {
	srv, _ := newAuthServer(t)

	resp, err := http.Get(srv.URL + "/api/auth/user")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestCurrentUserUnknownIdentity(t *testing.T) {
	srv, tokens := newAuthServer(t)

	// A well-signed token whose user no longer exists must be rejected.
	token, err := tokens.Issue("ghost-user")
	require.NoError(t, err)

	req, err := http.NewRequest(http.MethodGet, srv.URL+"/api/auth/user", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestEnsureAdminIsIdempotent(t *testing.T) {
	users := store.NewMemoryUserStore()
	ctx := context.Background()

	require.NoError(t, auth.EnsureAdmin(ctx, users, "tejash", "tejash@gmail.com", "tejash@123"))
	require.NoError(t, auth.EnsureAdmin(ctx, users, "tejash", "tejash@gmail.com", "tejash@123"))

	u, err := users.GetUserByEmail(ctx, "tejash@gmail.com")
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.Equal(t, "tejash", u.Username)
}
