// Package restore реализует восстановление входа по токену «запомнить меня».
package restore

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/school-fees/internal/http/middlewarectx"
	"github.com/magabrotheeeer/school-fees/internal/http/response"
	"github.com/magabrotheeeer/school-fees/internal/lib/sl"
	services "github.com/magabrotheeeer/school-fees/internal/services/auth"
)

// Service открывает сессию по токену восстановления.
type Service interface {
	Restore(ctx context.Context, rememberToken string) (*services.LoginResult, error)
}

// Handler обрабатывает восстановление входа.
type Handler struct {
	log          *slog.Logger
	authService  Service
	cookieMaxAge int
	secureCookie bool
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, authService Service, cookieMaxAge int, secureCookie bool) *Handler {
	return &Handler{
		log:          log,
		authService:  authService,
		cookieMaxAge: cookieMaxAge,
		secureCookie: secureCookie,
	}
}

// ServeHTTP godoc
// @Summary Восстановление входа
// @Description Открывает новую сессию по токену из параметра remember без ввода пароля.
// @Tags Auth
// @Produce  json
// @Param remember query string true "Токен восстановления входа"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.ErrorResponse "Нет токена"
// @Failure 401 {object} response.ErrorResponse "Токен недействителен"
// @Router /session/restore [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.restore"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	token := r.URL.Query().Get("remember")
	if token == "" {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("remember token is required"))
		return
	}

	res, err := h.authService.Restore(r.Context(), token)
	if err != nil {
		log.Info("failed to restore session", sl.Err(err))
		render.Status(r, http.StatusUnauthorized)
		render.JSON(w, r, response.Error("invalid or expired remember token"))
		return
	}

	middlewarectx.SetSessionCookie(w, res.Token, h.cookieMaxAge, h.secureCookie)
	log.Info("session restored", sl.School(res.Session.SchoolID))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"token":       res.Token,
		"school_id":   res.Session.SchoolID,
		"school_name": res.Session.SchoolName,
	}))
}
