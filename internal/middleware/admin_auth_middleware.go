package middleware

import (
	"net/http"

	"github.com/kinnetikdevelopers-hub/almubarak/internal/utils"
)

// AdminMiddleware must sit behind AuthMiddleware. It refuses any session
// whose role is not admin.
func AdminMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s, ok := SessionFrom(r.Context())
		if !ok {
			utils.RespondErrorWithCode(
				w, http.StatusUnauthorized, utils.ErrCodeUnauthorized, "Missing session", nil,
			)
			return
		}
		if !s.IsAdmin() {
			utils.RespondErrorWithCode(
				w, http.StatusForbidden, utils.ErrCodeForbidden, "Insufficient permissions", nil,
			)
			return
		}
		next.ServeHTTP(w, r)
	})
}
