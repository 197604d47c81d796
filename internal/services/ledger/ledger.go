// Package services содержит бизнес-логику дашборда начислений школы:
// кэшированный снимок записей, итоговые показатели, задолженность по родителям
// и внесение оплат обратно во внешнее хранилище.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/school-fees/internal/cache"
	"github.com/magabrotheeeer/school-fees/internal/fees"
	"github.com/magabrotheeeer/school-fees/internal/lib/sl"
	"github.com/magabrotheeeer/school-fees/internal/metrics"
	"github.com/magabrotheeeer/school-fees/internal/models"
)

// DefaultCacheTTL время жизни снимка записей по умолчанию.
const DefaultCacheTTL = 5 * time.Minute

// Значения метки result для metrics.CacheLookups.
const (
	cacheHit   = "hit"
	cacheMiss  = "miss"
	cacheStale = "stale"
)

const paymentNotFound = "not_found"

// FeeRepository определяет чтение и изменение записей об оплате.
type FeeRepository interface {
	// ListFees возвращает все нормализованные записи школы.
	ListFees(ctx context.Context, schoolID string) ([]models.FeeRecord, error)
	// UpdateFee изменяет поля одной записи по её идентификатору.
	UpdateFee(ctx context.Context, recordID string, fields map[string]any) error
}

// EventPublisher публикует события о внесённых оплатах.
type EventPublisher interface {
	PublishPayment(ctx context.Context, event models.PaymentEvent) error
}

// Options настройки LedgerService.
type Options struct {
	CacheTTL           time.Duration
	Thresholds         fees.Thresholds
	WriteDerivedFields bool
}

// LedgerService реализует операции дашборда поверх хранилища и кэша снимков.
type LedgerService struct {
	repo       FeeRepository
	cache      cache.Cache
	publisher  EventPublisher
	log        *slog.Logger
	ttl        time.Duration
	thresholds fees.Thresholds
	writeAll   bool
	now        func() time.Time
}

// NewLedgerService создает новый экземпляр LedgerService. publisher может быть nil.
func NewLedgerService(repo FeeRepository, c cache.Cache, publisher EventPublisher, log *slog.Logger, opts Options) *LedgerService {
	ttl := opts.CacheTTL
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &LedgerService{
		repo:       repo,
		cache:      c,
		publisher:  publisher,
		log:        log,
		ttl:        ttl,
		thresholds: opts.Thresholds,
		writeAll:   opts.WriteDerivedFields,
		now:        time.Now,
	}
}

func cacheKey(schoolID string) string {
	return "fees:" + schoolID
}

// Records возвращает снимок записей школы: из кэша, пока он свежий, иначе из хранилища.
func (s *LedgerService) Records(ctx context.Context, schoolID string) ([]models.FeeRecord, error) {
	const op = "services.ledger.Records"

	var entry cache.Entry[[]models.FeeRecord]
	found, err := s.cache.Get(cacheKey(schoolID), &entry)
	switch {
	case err != nil:
		metrics.CacheLookups.WithLabelValues(metrics.ResultError).Inc()
		s.log.Warn("failed to read fee snapshot from cache", slog.String("op", op), sl.School(schoolID), sl.Err(err))
	case !found:
		metrics.CacheLookups.WithLabelValues(cacheMiss).Inc()
	case entry.Stale(s.now(), s.ttl):
		metrics.CacheLookups.WithLabelValues(cacheStale).Inc()
	default:
		metrics.CacheLookups.WithLabelValues(cacheHit).Inc()
		return entry.Value, nil
	}

	records, err := s.Refresh(ctx, schoolID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return records, nil
}

// Refresh загружает записи из хранилища и кладёт их в кэш.
func (s *LedgerService) Refresh(ctx context.Context, schoolID string) ([]models.FeeRecord, error) {
	const op = "services.ledger.Refresh"
	records, err := s.repo.ListFees(ctx, schoolID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	key := cacheKey(schoolID)
	if err := s.cache.Set(key, cache.NewEntry(records, s.now()), s.ttl); err != nil {
		s.log.Warn("failed to cache fee snapshot", slog.String("key", key), sl.Err(err))
	}
	s.log.Debug("fee snapshot loaded", sl.School(schoolID), slog.Int("records", len(records)))
	return records, nil
}

// Dashboard возвращает итоги школы и показатели с подсветкой по порогам.
func (s *LedgerService) Dashboard(ctx context.Context, schoolID string) (*models.Dashboard, error) {
	const op = "services.ledger.Dashboard"
	records, err := s.Records(ctx, schoolID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	summary := fees.Summarize(records)
	return &models.Dashboard{
		SchoolID: schoolID,
		Summary:  summary,
		KPIs:     s.thresholds.Evaluate(summary),
	}, nil
}

// ParentBalances возвращает задолженность по родителям, от большей к меньшей.
func (s *LedgerService) ParentBalances(ctx context.Context, schoolID string) ([]models.ParentAggregate, error) {
	const op = "services.ledger.ParentBalances"
	records, err := s.Records(ctx, schoolID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return fees.ByParent(records), nil
}

// Parents возвращает имена всех родителей школы для формы оплаты.
func (s *LedgerService) Parents(ctx context.Context, schoolID string) ([]string, error) {
	const op = "services.ledger.Parents"
	records, err := s.Records(ctx, schoolID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return fees.Parents(records), nil
}

// Students возвращает учеников родителя без повторов.
func (s *LedgerService) Students(ctx context.Context, schoolID, parent string) ([]string, error) {
	const op = "services.ledger.Students"
	records, err := s.Records(ctx, schoolID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return fees.StudentsOf(records, parent), nil
}

// Export возвращает записи для выгрузки: все или только с положительным остатком.
func (s *LedgerService) Export(ctx context.Context, schoolID string, unpaidOnly bool) ([]models.FeeRecord, error) {
	const op = "services.ledger.Export"
	records, err := s.Records(ctx, schoolID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if unpaidOnly {
		return fees.Outstanding(records), nil
	}
	return records, nil
}

// RecordPayment вносит оплату в первую запись родителя, где числится ученик.
// Записи читаются из хранилища заново, изменяется ровно одна запись.
// Если записи нет, возвращается models.ErrRecordNotFound и ничего не пишется.
func (s *LedgerService) RecordPayment(ctx context.Context, schoolID, parent, student string, amount float64) (*models.PaymentResult, error) {
	const op = "services.ledger.RecordPayment"

	res, err := s.recordPayment(ctx, schoolID, parent, student, amount)
	switch {
	case errors.Is(err, models.ErrRecordNotFound):
		metrics.Payments.WithLabelValues(paymentNotFound).Inc()
		return nil, fmt.Errorf("%s: %w", op, err)
	case err != nil:
		metrics.Payments.WithLabelValues(metrics.ResultError).Inc()
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	metrics.Payments.WithLabelValues(metrics.ResultOK).Inc()
	metrics.PaymentAmount.Add(amount)
	return res, nil
}

func (s *LedgerService) recordPayment(ctx context.Context, schoolID, parent, student string, amount float64) (*models.PaymentResult, error) {
	records, err := s.repo.ListFees(ctx, schoolID)
	if err != nil {
		return nil, err
	}
	rec, ok := fees.FindPayable(records, parent, student)
	if !ok {
		return nil, models.ErrRecordNotFound
	}

	updated := fees.ApplyPayment(rec, amount)
	fields := map[string]any{models.FieldAmountPaid: updated.AmountPaid}
	if s.writeAll {
		fields[models.FieldBalance] = updated.Balance
		fields[models.FieldStatus] = updated.Status
	}
	if err := s.repo.UpdateFee(ctx, rec.ID, fields); err != nil {
		return nil, err
	}

	key := cacheKey(schoolID)
	if err := s.cache.Invalidate(key); err != nil {
		s.log.Warn("failed to invalidate fee snapshot", slog.String("key", key), sl.Err(err))
	}

	s.log.Info("payment recorded",
		sl.School(schoolID),
		slog.String("record_id", rec.ID),
		slog.Float64("amount", amount),
		slog.String("status", updated.Status),
	)

	s.publish(ctx, models.PaymentEvent{
		SchoolID:      schoolID,
		RecordID:      rec.ID,
		ParentName:    updated.ParentName,
		ParentEmail:   updated.ParentEmail,
		ParentContact: updated.ParentContact,
		Student:       student,
		Amount:        amount,
		AmountPaid:    updated.AmountPaid,
		Balance:       updated.Balance,
		Status:        updated.Status,
		RecordedAt:    s.now().UTC().Format(time.RFC3339),
	})

	return &models.PaymentResult{
		RecordID:   rec.ID,
		ParentName: updated.ParentName,
		Student:    student,
		Amount:     amount,
		AmountPaid: updated.AmountPaid,
		Balance:    updated.Balance,
		Status:     updated.Status,
	}, nil
}

// publish отправляет событие; ошибка брокера не отменяет уже записанную оплату.
func (s *LedgerService) publish(ctx context.Context, event models.PaymentEvent) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishPayment(ctx, event); err != nil {
		s.log.Warn("failed to publish payment event", sl.School(event.SchoolID), sl.Err(err))
	}
}
