package middleware

import (
	"net/http"
	"strings"

	"github.com/tejash/bloghub/internal/auth"
)

// RequireAuth validates the Authorization bearer token, resolves the user
// against the credential store, and attaches it to the request context.
// Failure is terminal for the request: no retries, 401 in every case.
func RequireAuth(tokens *auth.TokenService, users auth.UserStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" || !strings.HasPrefix(header, "Bearer ") {
				http.Error(w, `{"error":"authentication required"}`, http.StatusUnauthorized)
				return
			}

			userID, err := tokens.Verify(strings.TrimPrefix(header, "Bearer "))
			if err != nil {
				http.Error(w, `{"error":"invalid token"}`, http.StatusUnauthorized)
				return
			}

			// The token may outlive the account it was issued for.
			user, err := users.GetUserByID(r.Context(), userID)
			if err != nil || user == nil {
				http.Error(w, `{"error":"unknown user"}`, http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r.WithContext(auth.WithUser(r.Context(), user)))
		})
	}
}
