package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/m04kA/SMC-TutorBooking/internal/api/handlers"
	"github.com/m04kA/SMC-TutorBooking/pkg/auth"
)

const msgMissingToken = "отсутствует токен авторизации"

// Auth требует заголовок Authorization: Bearer <token> и кладет токен в контекст запроса
// Токен затем передается бэкенду репетиторов без изменений
func Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r.Header.Get("Authorization"))
		if !ok {
			handlers.RespondUnauthorized(w, msgMissingToken)
			return
		}
		next.ServeHTTP(w, r.WithContext(auth.WithToken(r.Context(), token)))
	})
}

// GetToken возвращает токен пользователя из контекста
func GetToken(ctx context.Context) (string, bool) {
	return auth.TokenFromContext(ctx)
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
