// Package record реализует HTTP-обработчик внесения оплаты.
//
// Запрос содержит родителя, ученика и неотрицательную сумму. Сумма добавляется
// к оплаченному в первой записи родителя, где числится ученик; в ответе новая
// оплаченная сумма, остаток и статус записи.
package record

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/school-fees/internal/http/middlewarectx"
	"github.com/magabrotheeeer/school-fees/internal/http/response"
	"github.com/magabrotheeeer/school-fees/internal/lib/sl"
	"github.com/magabrotheeeer/school-fees/internal/models"
)

// Request структура входных данных для оплаты.
// Amount указатель, чтобы отличать пропущенную сумму от нулевой.
type Request struct {
	Parent  string   `json:"parent" validate:"required"`
	Student string   `json:"student" validate:"required"`
	Amount  *float64 `json:"amount" validate:"required,min=0"`
}

// Service вносит оплату.
type Service interface {
	RecordPayment(ctx context.Context, schoolID, parent, student string, amount float64) (*models.PaymentResult, error)
}

// Handler обрабатывает внесение оплаты.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Внесение оплаты
// @Description Добавляет сумму к оплаченному в записи родителя и ученика и пересчитывает статус.
// @Tags Payments
// @Accept  json
// @Produce  json
// @Param request body Request true "Родитель, ученик и сумма"
// @Success 200 {object} response.Response{data=models.PaymentResult}
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 404 {object} response.ErrorResponse "Запись не найдена"
// @Failure 502 {object} response.ErrorResponse "Хранилище недоступно"
// @Security BearerAuth
// @Router /payments [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.payment.record"
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

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}
	log.Debug("request body decoded", slog.Any("request", req))

	if err := h.validate.Struct(req); err != nil {
		log.Info("validation failed", sl.Err(err))
		render.Status(r, http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	res, err := h.service.RecordPayment(r.Context(), sess.SchoolID, req.Parent, req.Student, *req.Amount)
	if err != nil {
		log.Error("failed to record payment", sl.School(sess.SchoolID), sl.Err(err))
		status, resp := response.FromError(err)
		render.Status(r, status)
		render.JSON(w, r, resp)
		return
	}

	log.Info("payment recorded", sl.School(sess.SchoolID), slog.String("record_id", res.RecordID))
	render.JSON(w, r, response.OKWithData(res))
}
