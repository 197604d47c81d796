// Package login реализует HTTP-обработчик входа администратора школы.
//
// Обработчик декодирует email и пароль, валидирует их и делегирует проверку сервису
// аутентификации. При успехе выставляет cookie сессии и возвращает токен, код и
// название школы; при remember дополнительно возвращает токен восстановления входа.
package login

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/school-fees/internal/http/middlewarectx"
	"github.com/magabrotheeeer/school-fees/internal/http/response"
	"github.com/magabrotheeeer/school-fees/internal/lib/sl"
	services "github.com/magabrotheeeer/school-fees/internal/services/auth"
)

// Request структура входных данных для входа.
type Request struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	Remember bool   `json:"remember"`
}

// Service описывает вход администратора.
type Service interface {
	Login(ctx context.Context, email, password string, remember bool) (*services.LoginResult, error)
}

// Handler обрабатывает HTTP-запросы входа.
type Handler struct {
	log          *slog.Logger
	authService  Service
	validate     *validator.Validate
	cookieMaxAge int
	secureCookie bool
}

// New создает новый экземпляр Handler. cookieMaxAge задаётся в секундах.
func New(log *slog.Logger, authService Service, cookieMaxAge int, secureCookie bool) *Handler {
	return &Handler{
		log:          log,
		authService:  authService,
		validate:     validator.New(),
		cookieMaxAge: cookieMaxAge,
		secureCookie: secureCookie,
	}
}

// ServeHTTP godoc
// @Summary Вход администратора школы
// @Description Проверяет email и пароль администратора, открывает сессию и выставляет cookie.
// @Tags Auth
// @Accept  json
// @Produce  json
// @Param request body Request true "Учетные данные администратора"
// @Success 200 {object} response.Response "Успешный вход"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 404 {object} response.ErrorResponse "Школа не найдена"
// @Failure 401 {object} response.ErrorResponse "Неверный пароль"
// @Failure 502 {object} response.ErrorResponse "Хранилище недоступно"
// @Router /login [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.login"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Info("validation failed", sl.Err(err))
		render.Status(r, http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	res, err := h.authService.Login(r.Context(), req.Email, req.Password, req.Remember)
	if err != nil {
		log.Info("login failed", slog.String("email", req.Email), sl.Err(err))
		status, resp := response.FromError(err)
		render.Status(r, status)
		render.JSON(w, r, resp)
		return
	}

	middlewarectx.SetSessionCookie(w, res.Token, h.cookieMaxAge, h.secureCookie)
	log.Info("login success", slog.String("school_id", res.Session.SchoolID))

	data := map[string]any{
		"token":       res.Token,
		"school_id":   res.Session.SchoolID,
		"school_name": res.Session.SchoolName,
		"message":     fmt.Sprintf("Welcome %s!", res.Session.SchoolName),
	}
	if res.RememberToken != "" {
		data["remember_token"] = res.RememberToken
	}
	render.JSON(w, r, response.OKWithData(data))
}
