package oauth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

func newTestService() *GoogleOAuthService {
	return NewGoogleOAuthService(GoogleOAuthConfig{
		ClientID:           "client-id",
		ClientSecret:       "client-secret",
		RedirectURL:        "http://localhost:8080/api/v1/auth/google/callback",
		FrontendSuccessURL: "http://localhost:3000/auth/success",
		FrontendErrorURL:   "http://localhost:3000/auth/error",
	})
}

func TestGetAuthURLCarriesState(t *testing.T) {
	s := newTestService()

	u, err := url.Parse(s.GetAuthURL("abc123"))
	require.NoError(t, err)
	assert.Equal(t, "abc123", u.Query().Get("state"))
	assert.Equal(t, "client-id", u.Query().Get("client_id"))
	assert.True(t, s.IsConfigured())
}

func TestGetUserInfo(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer token-1", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"g-1","email":"Jane@Example.com","name":"Jane","picture":"http://pic"}`))
	}))
	defer server.Close()

	s := newTestService()
	s.userInfoURL = server.URL

	info, err := s.GetUserInfo(context.Background(), &oauth2.Token{AccessToken: "token-1", TokenType: "Bearer"})
	require.NoError(t, err)
	assert.Equal(t, "g-1", info.ID)
	assert.Equal(t, "Jane@Example.com", info.Email)
}

func TestGetUserInfoRejectsErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	s := newTestService()
	s.userInfoURL = server.URL

	_, err := s.GetUserInfo(context.Background(), &oauth2.Token{AccessToken: "bad"})
	assert.ErrorIs(t, err, ErrFailedToGetUser)
}

func TestRedirects(t *testing.T) {
	s := newTestService()

	success := s.SuccessRedirect("a.b.c", "r.s.t")
	assert.True(t, strings.HasPrefix(success, "http://localhost:3000/auth/success#"))
	assert.Contains(t, success, "access_token=a.b.c")

	assert.Equal(t, "http://localhost:3000/auth/error?error=invalid_state", s.ErrorRedirect("invalid_state"))
}

func TestGenerateStateIsRandom(t *testing.T) {
	a, err := GenerateState()
	require.NoError(t, err)
	b, err := GenerateState()
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
	assert.Len(t, a, 32)
}
