package middlewarectx

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"github.com/barakahtool/barakah-backend/internal/http/response"
)

// AdminOnlyMiddleware пропускает только пользователей с ролью admin.
// Вешается после JWTMiddleware, который кладёт роль в контекст.
func AdminOnlyMiddleware(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role, ok := r.Context().Value(Role).(string)
			if !ok || role != "admin" {
				log.Error("admin access denied", slog.String("role", role))
				render.Status(r, http.StatusForbidden)
				render.JSON(w, r, response.ErrorCode(response.CodeAccessDenied, "admin access required"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
