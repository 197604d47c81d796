// Package middlewarectx содержит HTTP middleware дашборда: проверку сессии
// администратора школы и ограничение частоты запросов.
//
// SessionMiddleware берёт токен сессии из cookie или заголовка Authorization,
// проверяет его и кладёт сессию в контекст запроса. Просроченная или неизвестная
// сессия даёт 401 Unauthorized.
package middlewarectx

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/school-fees/internal/http/response"
	"github.com/magabrotheeeer/school-fees/internal/lib/sl"
	"github.com/magabrotheeeer/school-fees/internal/models"
	"github.com/magabrotheeeer/school-fees/internal/session"
)

// CookieName имя cookie с токеном сессии.
const CookieName = "session"

// Key тип для ключей контекста HTTP-запроса.
type Key string

// SessionKey ключ сессии в контексте.
const SessionKey Key = "session"

// Authenticator проверяет токен и возвращает действующую сессию.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (session.Session, error)
}

// TokenFromRequest достаёт токен сессии из cookie, а при её отсутствии из заголовка Authorization.
func TokenFromRequest(r *http.Request) string {
	if c, err := r.Cookie(CookieName); err == nil && c.Value != "" {
		return c.Value
	}
	authHeader := r.Header.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}
	return ""
}

// WithSession возвращает контекст с сессией.
func WithSession(ctx context.Context, s session.Session) context.Context {
	return context.WithValue(ctx, SessionKey, s)
}

// SessionFromContext возвращает сессию, положенную SessionMiddleware.
func SessionFromContext(ctx context.Context) (session.Session, bool) {
	s, ok := ctx.Value(SessionKey).(session.Session)
	return s, ok && s.LoggedIn
}

// SessionMiddleware пропускает запрос дальше только с действующей сессией.
func SessionMiddleware(auth Authenticator, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.SessionMiddleware"
			log := log.With(
				slog.String("op", op),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)

			token := TokenFromRequest(r)
			if token == "" {
				log.Info("missing session token")
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.Error("not logged in"))
				return
			}

			sess, err := auth.Authenticate(r.Context(), token)
			if err != nil {
				log.Info("session rejected", sl.Err(err))
				msg := "not logged in"
				if errors.Is(err, models.ErrSessionExpired) {
					msg = "session expired, please log in again"
				}
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.Error(msg))
				return
			}
			next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), sess)))
		})
	}
}

// SetSessionCookie выставляет cookie с токеном сессии на время жизни сессии.
func SetSessionCookie(w http.ResponseWriter, token string, maxAge int, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearSessionCookie удаляет cookie сессии.
func ClearSessionCookie(w http.ResponseWriter, secure bool) {
	SetSessionCookie(w, "", -1, secure)
}
