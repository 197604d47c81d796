// Package parents реализует HTTP-обработчик задолженности по родителям.
package parents

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/school-fees/internal/http/middlewarectx"
	"github.com/magabrotheeeer/school-fees/internal/http/response"
	"github.com/magabrotheeeer/school-fees/internal/lib/money"
	"github.com/magabrotheeeer/school-fees/internal/lib/sl"
	"github.com/magabrotheeeer/school-fees/internal/models"
)

// Service возвращает агрегаты по родителям и список всех родителей.
type Service interface {
	ParentBalances(ctx context.Context, schoolID string) ([]models.ParentAggregate, error)
	Parents(ctx context.Context, schoolID string) ([]string, error)
}

// Row строка таблицы должников с долей для столбчатой диаграммы.
type Row struct {
	models.ParentAggregate
	Share float64 `json:"share"` // Процент от наибольшего долга, 0..100
}

// Handler обрабатывает запрос задолженности по родителям.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Задолженность по родителям
// @Description Родители с положительным остатком, от большего долга к меньшему, и имена всех родителей школы.
// @Tags Dashboard
// @Produce  json
// @Success 200 {object} response.Response
// @Failure 401 {object} response.ErrorResponse
// @Failure 502 {object} response.ErrorResponse
// @Security BearerAuth
// @Router /parents [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.dashboard.parents"
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

	balances, err := h.service.ParentBalances(r.Context(), sess.SchoolID)
	if err == nil {
		var names []string
		names, err = h.service.Parents(r.Context(), sess.SchoolID)
		if err == nil {
			render.JSON(w, r, response.OKWithData(map[string]any{
				"count":   len(balances),
				"parents": rows(balances),
				"names":   names,
			}))
			return
		}
	}

	log.Error("failed to aggregate parents", sl.School(sess.SchoolID), sl.Err(err))
	status, resp := response.FromError(err)
	render.Status(r, status)
	render.JSON(w, r, resp)
}

// rows считает долю каждого родителя относительно наибольшего долга.
// Агрегаты уже отсортированы по убыванию, поэтому максимум в первой строке.
func rows(balances []models.ParentAggregate) []Row {
	out := make([]Row, 0, len(balances))
	for _, b := range balances {
		out = append(out, Row{
			ParentAggregate: b,
			Share:           money.Percent(b.BalanceDue, balances[0].BalanceDue),
		})
	}
	return out
}
