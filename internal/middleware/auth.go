package middleware

import (
	"SkillHub/internal/auth"
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"
)

type ctxKey int

const identityKey ctxKey = iota

// sessionTTL — срок жизни cookie, выдаваемой SetLoginCookie.
const sessionTTL = 30 * 24 * time.Hour

// WithAuth читает токен из cookie или заголовка Authorization и кладёт Identity в контекст.
// Запрос без токена или с невалидным токеном проходит как анонимный.
func WithAuth(policy *auth.Policy) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := tokenFromRequest(r)
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}
			id, err := policy.Identify(token)
			if err != nil {
				logger.Debugw("session rejected", "error", err)
				next.ServeHTTP(w, r)
				return
			}
			ctx := context.WithValue(r.Context(), identityKey, id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetIdentityFromContext возвращает пользователя текущего запроса.
func GetIdentityFromContext(ctx context.Context) (auth.Identity, bool) {
	id, ok := ctx.Value(identityKey).(auth.Identity)
	return id, ok
}

// RequireUser отвечает 401 анонимному запросу.
func RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := GetIdentityFromContext(r.Context()); !ok {
			writeError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAdmin отвечает 401 анониму и 403 не-администратору.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := GetIdentityFromContext(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}
		if !id.IsAdmin {
			writeError(w, http.StatusForbidden, "Forbidden")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// SetLoginCookie выписывает токен для identity, ставит cookie сессии и возвращает токен
// (для клиентов, которые ходят с Authorization: Bearer).
func SetLoginCookie(w http.ResponseWriter, id auth.Identity, policy *auth.Policy) (string, error) {
	token, err := policy.IssueToken(id, sessionTTL)
	if err != nil {
		return "", err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     auth.CookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Expires:  time.Now().Add(sessionTTL),
	})
	return token, nil
}

// ClearLoginCookie удаляет cookie сессии.
func ClearLoginCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     auth.CookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
}

func tokenFromRequest(r *http.Request) string {
	if c, err := r.Cookie(auth.CookieName); err == nil && c.Value != "" {
		return c.Value
	}
	h := r.Header.Get("Authorization")
	if len(h) > 7 && strings.EqualFold(h[:7], "bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return ""
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
