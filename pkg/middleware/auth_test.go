package middleware_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idlikadai/backend/app/models"
	"github.com/idlikadai/backend/pkg/auth"
	"github.com/idlikadai/backend/pkg/middleware"
)

func lookupFor(user *models.User) middleware.UserLookup {
	return func(_ context.Context, username string) (*models.User, error) {
		if user != nil && user.Username == username {
			return user, nil
		}
		return nil, nil
	}
}

func protected(t *testing.T, lookup middleware.UserLookup) (http.Handler, *[]*models.User) {
	t.Helper()
	var seen []*models.User
	handler := middleware.Authenticate(lookup)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = append(seen, middleware.UserFrom(r.Context()))
		w.WriteHeader(http.StatusOK)
	}))
	return handler, &seen
}

func detailOf(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body["detail"]
}

func TestAuthenticateMissingToken(t *testing.T) {
	handler, _ := protected(t, lookupFor(nil))

	for _, header := range []string{"", "token-without-scheme", "Basic dXNlcjpwYXNz"} {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "No token provided", detailOf(t, rec))
	}
}

func TestAuthenticateBadToken(t *testing.T) {
	handler, _ := protected(t, lookupFor(nil))

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer not.a.token")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Invalid or expired token", detailOf(t, rec))
}

func TestAuthenticateDeletedAccount(t *testing.T) {
	// Token is valid but the account behind it no longer exists.
	handler, _ := protected(t, lookupFor(nil))

	token, err := auth.GenerateToken("ghost")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "User not found", detailOf(t, rec))
}

func TestAuthenticateLoadsUser(t *testing.T) {
	user := &models.User{Username: "ravi", Role: models.RoleBuyer}
	handler, seen := protected(t, lookupFor(user))

	token, err := auth.GenerateToken("ravi")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, *seen, 1)
	assert.Same(t, user, (*seen)[0])
}

func TestUserFromEmptyContext(t *testing.T) {
	assert.Nil(t, middleware.UserFrom(context.Background()))
}
