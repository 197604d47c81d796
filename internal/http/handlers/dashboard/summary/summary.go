// Package summary реализует HTTP-обработчик итоговых показателей школы.
package summary

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/school-fees/internal/http/middlewarectx"
	"github.com/magabrotheeeer/school-fees/internal/http/response"
	"github.com/magabrotheeeer/school-fees/internal/lib/sl"
	"github.com/magabrotheeeer/school-fees/internal/models"
)

// Service возвращает показатели дашборда школы.
type Service interface {
	Dashboard(ctx context.Context, schoolID string) (*models.Dashboard, error)
}

// Handler обрабатывает запрос показателей.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Показатели школы
// @Description Общий остаток, число должников, процент собранного и их подсветка по порогам.
// @Tags Dashboard
// @Produce  json
// @Success 200 {object} response.Response{data=models.Dashboard}
// @Failure 401 {object} response.ErrorResponse
// @Failure 502 {object} response.ErrorResponse
// @Security BearerAuth
// @Router /dashboard [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.dashboard.summary"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	sess, ok := middlewarectx.SessionFromContext(r.Context())
	if !ok {
		log.Error("session not found in context")
		render.Status(r, http.StatusUnauthorized)
		render.JSON(w, r, response.Error("not logged in"))
		return
	}

	dash, err := h.service.Dashboard(r.Context(), sess.SchoolID)
	if err != nil {
		log.Error("failed to build dashboard", sl.School(sess.SchoolID), sl.Err(err))
		status, resp := response.FromError(err)
		render.Status(r, status)
		render.JSON(w, r, resp)
		return
	}

	render.JSON(w, r, response.OKWithData(map[string]any{
		"school_name": sess.SchoolName,
		"dashboard":   dash,
	}))
}
