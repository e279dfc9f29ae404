// Package rbac provides role-based access control middleware.
package rbac

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/idlikadai/backend/app/models"
	"github.com/idlikadai/backend/pkg/middleware"
	"github.com/idlikadai/backend/pkg/response"
)

// HasRole returns middleware that allows access only to accounts holding one
// of the given roles. Requires the authentication middleware to have run.
func HasRole(roles ...models.Role) func(http.Handler) http.Handler {
	allowed := make(map[models.Role]bool, len(roles))
	names := make([]string, 0, len(roles))
	for _, r := range roles {
		allowed[r] = true
		names = append(names, titleCase(string(r)))
	}
	detail := fmt.Sprintf("Not enough permissions. %s access required.", strings.Join(names, " or "))

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user := middleware.UserFrom(r.Context())
			if user == nil || !allowed[user.Role] {
				response.Forbidden(w, detail)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
