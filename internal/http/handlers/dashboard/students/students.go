// Package students возвращает учеников выбранного родителя для формы оплаты.
package students

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/school-fees/internal/http/middlewarectx"
	"github.com/magabrotheeeer/school-fees/internal/http/response"
	"github.com/magabrotheeeer/school-fees/internal/lib/sl"
)

type Service interface {
	Students(ctx context.Context, schoolID, parent string) ([]string, error)
}

type Handler struct {
	log     *slog.Logger
	service Service
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Ученики родителя
// @Tags Dashboard
// @Produce  json
// @Param parent query string true "Имя родителя"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.ErrorResponse
// @Failure 401 {object} response.ErrorResponse
// @Security BearerAuth
// @Router /parents/students [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.dashboard.students"
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

	parent := strings.TrimSpace(r.URL.Query().Get("parent"))
	if parent == "" {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("parent is required"))
		return
	}

	list, err := h.service.Students(r.Context(), sess.SchoolID, parent)
	if err != nil {
		log.Error("failed to list students", sl.School(sess.SchoolID), sl.Err(err))
		status, resp := response.FromError(err)
		render.Status(r, status)
		render.JSON(w, r, resp)
		return
	}

	render.JSON(w, r, response.OKWithData(map[string]any{
		"parent":   parent,
		"students": list,
	}))
}
