// Package metrics регистрирует счётчики Prometheus сервиса.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "schoolfees"

// Значения метки result.
const (
	ResultOK    = "ok"
	ResultError = "error"
)

var (
	// Logins считает попытки входа по результату: ok, not_found, invalid_password, error.
	Logins = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Login attempts by result.",
	}, []string{"result"})

	// Payments считает внесённые оплаты по результату.
	Payments = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "payments_total",
		Help:      "Payment submissions by result.",
	}, []string{"result"})

	// PaymentAmount суммирует внесённые суммы.
	PaymentAmount = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "payment_amount_total",
		Help:      "Sum of recorded payment amounts.",
	})

	// StoreRequests считает обращения к внешнему хранилищу.
	StoreRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "store_requests_total",
		Help:      "Requests to the external table store by operation and result.",
	}, []string{"operation", "result"})

	// StoreDuration измеряет длительность обращений к хранилищу.
	StoreDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "store_request_duration_seconds",
		Help:      "Duration of external table store requests.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"operation"})

	// CacheLookups считает обращения к кэшу снимков: hit, miss, stale, error.
	CacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cache_lookups_total",
		Help:      "Fee snapshot cache lookups by result.",
	}, []string{"result"})
)

// Result переводит ошибку в значение метки result.
func Result(err error) string {
	if err != nil {
		return ResultError
	}
	return ResultOK
}
