package dashboard

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/streadway/amqp"
	"golang.org/x/time/rate"

	"github.com/magabrotheeeer/school-fees/internal/cache"
	"github.com/magabrotheeeer/school-fees/internal/config"
	"github.com/magabrotheeeer/school-fees/internal/fees"
	"github.com/magabrotheeeer/school-fees/internal/lib/jwt"
	"github.com/magabrotheeeer/school-fees/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/school-fees/internal/lib/sl"
	authservice "github.com/magabrotheeeer/school-fees/internal/services/auth"
	ledgerservice "github.com/magabrotheeeer/school-fees/internal/services/ledger"
	"github.com/magabrotheeeer/school-fees/internal/session"
	"github.com/magabrotheeeer/school-fees/internal/storage/tablestore"
)

const shutdownTimeout = 15 * time.Second

// App HTTP-сервер дашборда и его внешние подключения.
type App struct {
	server *http.Server
	logger *slog.Logger
	redis  *cache.Redis
	amqp   *amqp.Connection
}

// New собирает зависимости приложения по конфигурации.
// Без REDIS_ADDRESS снимки кэшируются в памяти процесса,
// без RABBITMQ_URL события об оплатах не публикуются.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	app := &App{logger: logger}

	store := tablestore.NewFromConfig(cfg.Store)

	var snapshots cache.Cache = cache.NewMemory()
	if cfg.RedisAddress != "" {
		redisCache, err := cache.NewRedis(ctx, cfg.Redis)
		if err != nil {
			return nil, err
		}
		app.redis = redisCache
		snapshots = redisCache
	}

	var publisher ledgerservice.EventPublisher
	if cfg.RabbitURL != "" {
		conn, err := rabbitmq.Connect(ctx, cfg.RabbitURL, cfg.RabbitMaxRetries, cfg.RabbitRetryDelay)
		if err != nil {
			app.close()
			return nil, err
		}
		app.amqp = conn
		ch, err := rabbitmq.SetupChannel(conn, cfg.RabbitExchange)
		if err != nil {
			app.close()
			return nil, err
		}
		publisher = rabbitmq.NewPublisher(ch, cfg.RabbitExchange)
	}

	sessions := session.NewStore(cfg.SessionTimeout)
	jwtMaker := jwt.NewJWTMaker(cfg.SessionSecret, cfg.SessionTimeout, cfg.RememberTTL)

	authService := authservice.NewAuthService(store, sessions, jwtMaker, logger)
	ledgerService := ledgerservice.NewLedgerService(store, snapshots, publisher, logger, ledgerservice.Options{
		CacheTTL: cfg.CacheTTL,
		Thresholds: fees.Thresholds{
			OutstandingAlert: cfg.OutstandingAlert,
			ParentsAlert:     cfg.ParentsAlert,
			CollectedTarget:  cfg.CollectedTarget,
		},
		WriteDerivedFields: cfg.WriteDerivedFields,
	})

	router := chi.NewRouter()
	RegisterRoutes(router, logger, authService, ledgerService,
		rate.NewLimiter(rate.Limit(cfg.LoginRate), cfg.LoginBurst),
		Cookie{MaxAge: int(cfg.SessionTimeout.Seconds()), Secure: cfg.SecureCookie},
	)

	app.server = &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}
	return app, nil
}

// Run запускает сервер и останавливает его при отмене ctx.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		a.close()
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		a.close()
		return err
	}
}

func (a *App) close() {
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.logger.Warn("failed to close redis", sl.Err(err))
		}
	}
	if a.amqp != nil {
		if err := a.amqp.Close(); err != nil {
			a.logger.Warn("failed to close rabbitmq connection", sl.Err(err))
		}
	}
}
