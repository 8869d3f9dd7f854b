package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/NordCoder/Todorus/internal/services/todo-api/web"
)

type userIDKey struct{}

func UserIDFromCtx(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(userIDKey{}).(int64)
	return id, ok
}

// Middleware is the auth gate in front of protected routes. Each rejection
// is terminal: the wrapped handler never runs and no state is touched.
func Middleware(parse func(token string) (int64, error)) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				web.Error(w, http.StatusUnauthorized, "No token provided")
				return
			}
			tok, ok := bearerToken(header)
			if !ok {
				web.Error(w, http.StatusUnauthorized, "Invalid token format")
				return
			}
			uid, err := parse(tok)
			if err != nil {
				web.Error(w, http.StatusUnauthorized, "Invalid or expired token")
				return
			}
			ctx := context.WithValue(r.Context(), userIDKey{}, uid)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(value string) (string, bool) {
	const bearer = "Bearer "
	if !strings.HasPrefix(value, bearer) {
		return "", false
	}
	tok := value[len(bearer):]
	if tok == "" {
		return "", false
	}
	return tok, true
}
