// Package list отдаёт полную таблицу записей школы с подсветкой строк по статусу.
package list

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/school-fees/internal/fees"
	"github.com/magabrotheeeer/school-fees/internal/http/middlewarectx"
	"github.com/magabrotheeeer/school-fees/internal/http/response"
	"github.com/magabrotheeeer/school-fees/internal/lib/sl"
	"github.com/magabrotheeeer/school-fees/internal/models"
)

type Service interface {
	Records(ctx context.Context, schoolID string) ([]models.FeeRecord, error)
}

// Row запись с цветом строки: paid зелёный, partial оранжевый, unpaid красный.
type Row struct {
	models.FeeRecord
	Highlight string `json:"highlight"`
}

type Handler struct {
	log     *slog.Logger
	service Service
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Записи об оплате
// @Tags Records
// @Produce  json
// @Success 200 {object} response.Response
// @Failure 401 {object} response.ErrorResponse
// @Failure 502 {object} response.ErrorResponse
// @Security BearerAuth
// @Router /records [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.records.list"
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

	records, err := h.service.Records(r.Context(), sess.SchoolID)
	if err != nil {
		log.Error("failed to list records", sl.School(sess.SchoolID), sl.Err(err))
		status, resp := response.FromError(err)
		render.Status(r, status)
		render.JSON(w, r, resp)
		return
	}

	rows := make([]Row, 0, len(records))
	for _, rec := range records {
		rows = append(rows, Row{FeeRecord: rec, Highlight: fees.Highlight(rec.Status)})
	}

	log.Debug("list records", "count", len(rows))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"count":   len(rows),
		"records": rows,
	}))
}
