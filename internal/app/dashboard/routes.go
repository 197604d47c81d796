// Package dashboard собирает HTTP-приложение дашборда оплат школы.
package dashboard

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"
	"golang.org/x/time/rate"

	// описание API для /docs
	_ "github.com/magabrotheeeer/school-fees/docs"
	"github.com/magabrotheeeer/school-fees/internal/http/handlers/auth/login"
	"github.com/magabrotheeeer/school-fees/internal/http/handlers/auth/logout"
	"github.com/magabrotheeeer/school-fees/internal/http/handlers/auth/restore"
	"github.com/magabrotheeeer/school-fees/internal/http/handlers/dashboard/parents"
	"github.com/magabrotheeeer/school-fees/internal/http/handlers/dashboard/students"
	"github.com/magabrotheeeer/school-fees/internal/http/handlers/dashboard/summary"
	"github.com/magabrotheeeer/school-fees/internal/http/handlers/health"
	"github.com/magabrotheeeer/school-fees/internal/http/handlers/payment/record"
	"github.com/magabrotheeeer/school-fees/internal/http/handlers/records/export"
	"github.com/magabrotheeeer/school-fees/internal/http/handlers/records/list"
	"github.com/magabrotheeeer/school-fees/internal/http/middlewarectx"
	authservice "github.com/magabrotheeeer/school-fees/internal/services/auth"
	ledgerservice "github.com/magabrotheeeer/school-fees/internal/services/ledger"
)

// Cookie настройки cookie сессии.
type Cookie struct {
	MaxAge int // в секундах
	Secure bool
}

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(
	r chi.Router,
	logger *slog.Logger,
	authService *authservice.AuthService,
	ledgerService *ledgerservice.LedgerService,
	loginLimiter *rate.Limiter,
	cookie Cookie,
) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	r.Route("/api/v1", func(r chi.Router) {
		// Открытые конечные точки, с ограничением частоты попыток
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.RateLimitMiddleware(loginLimiter, logger))
			r.Post("/login", login.New(logger, authService, cookie.MaxAge, cookie.Secure).ServeHTTP)
			r.Post("/session/restore", restore.New(logger, authService, cookie.MaxAge, cookie.Secure).ServeHTTP)
		})

		// Выход не требует действующей сессии: повторный вызов тоже успешен
		r.Post("/logout", logout.New(logger, authService, cookie.Secure).ServeHTTP)

		// Группа с проверкой сессии
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.SessionMiddleware(authService, logger))
			r.Get("/dashboard", summary.New(logger, ledgerService).ServeHTTP)
			r.Get("/parents", parents.New(logger, ledgerService).ServeHTTP)
			r.Get("/parents/students", students.New(logger, ledgerService).ServeHTTP)
			r.Get("/records", list.New(logger, ledgerService).ServeHTTP)
			r.Get("/records/export", export.New(logger, ledgerService).ServeHTTP)
			r.Post("/payments", record.New(logger, ledgerService).ServeHTTP)
		})
	})

	r.Get("/health", health.New().ServeHTTP)
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
