package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/idlikadai/backend/app/models"
	"github.com/idlikadai/backend/pkg/auth"
	"github.com/idlikadai/backend/pkg/response"
)

type userCtxKey struct{}

// UserLookup resolves a token subject (username) to an account. A nil user
// with a nil error means the account no longer exists.
type UserLookup func(ctx context.Context, username string) (*models.User, error)

// Authenticate verifies the bearer token and loads the account it belongs
// to into the request context. Handlers behind it read the account with
// UserFrom.
func Authenticate(lookup UserLookup) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			token := strings.TrimPrefix(header, "Bearer ")
			if token == "" || token == header {
				response.Unauthorized(w, "No token provided")
				return
			}

			username, err := auth.VerifyToken(token)
			if err != nil {
				response.Unauthorized(w, "Invalid or expired token")
				return
			}

			user, err := lookup(r.Context(), username)
			if err != nil {
				response.Fail(w, err)
				return
			}
			if user == nil {
				response.Unauthorized(w, "User not found")
				return
			}

			ctx := context.WithValue(r.Context(), userCtxKey{}, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserFrom returns the account stored by Authenticate, or nil.
func UserFrom(ctx context.Context) *models.User {
	user, _ := ctx.Value(userCtxKey{}).(*models.User)
	return user
}
