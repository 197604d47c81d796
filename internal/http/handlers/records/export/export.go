// Package export отдаёт записи школы файлом CSV: все или только неоплаченные.
package export

import (
	"bytes"
	"context"
	"fmt"
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

// Значения параметра filter.
const (
	FilterAll    = "all"
	FilterUnpaid = "unpaid"
)

type Service interface {
	Export(ctx context.Context, schoolID string, unpaidOnly bool) ([]models.FeeRecord, error)
}

type Handler struct {
	log     *slog.Logger
	service Service
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Выгрузка записей в CSV
// @Description filter=all — все записи, filter=unpaid — записи с положительным остатком.
// @Tags Records
// @Produce  text/csv
// @Param filter query string false "all или unpaid" Enums(all, unpaid)
// @Success 200 {file} file
// @Failure 400 {object} response.ErrorResponse
// @Failure 401 {object} response.ErrorResponse
// @Security BearerAuth
// @Router /records/export [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.records.export"
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

	filter := r.URL.Query().Get("filter")
	if filter == "" {
		filter = FilterAll
	}
	if filter != FilterAll && filter != FilterUnpaid {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("filter must be one of: all unpaid"))
		return
	}

	records, err := h.service.Export(r.Context(), sess.SchoolID, filter == FilterUnpaid)
	if err != nil {
		log.Error("failed to load records for export", sl.School(sess.SchoolID), sl.Err(err))
		status, resp := response.FromError(err)
		render.Status(r, status)
		render.JSON(w, r, resp)
		return
	}

	var buf bytes.Buffer
	if err := fees.WriteCSV(&buf, records); err != nil {
		log.Error("failed to write csv", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("internal error"))
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fmt.Sprintf("fees_%s_%s.csv", sess.SchoolID, filter)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(buf.Bytes()); err != nil {
		log.Error("failed to send csv", sl.Err(err))
	}
}
