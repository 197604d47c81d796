// Package logout реализует HTTP-обработчик завершения сессии.
package logout

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/school-fees/internal/http/middlewarectx"
	"github.com/magabrotheeeer/school-fees/internal/http/response"
)

// Service завершает сессию по токену.
type Service interface {
	Logout(ctx context.Context, token string)
}

// Handler обрабатывает выход администратора.
type Handler struct {
	log          *slog.Logger
	authService  Service
	secureCookie bool
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, authService Service, secureCookie bool) *Handler {
	return &Handler{log: log, authService: authService, secureCookie: secureCookie}
}

// ServeHTTP godoc
// @Summary Выход
// @Description Завершает сессию и удаляет cookie. Повторный выход не является ошибкой.
// @Tags Auth
// @Produce  json
// @Success 200 {object} response.Response
// @Security BearerAuth
// @Router /logout [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.logout"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	if token := middlewarectx.TokenFromRequest(r); token != "" {
		h.authService.Logout(r.Context(), token)
	}
	middlewarectx.ClearSessionCookie(w, h.secureCookie)

	log.Info("logged out")
	render.JSON(w, r, response.OK())
}
