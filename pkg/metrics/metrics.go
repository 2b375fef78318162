package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Результаты запросов котировки
const (
	QuoteResultSuccess     = "success"
	QuoteResultError       = "error"
	QuoteResultSkippedAuth = "skipped_auth"
	QuoteResultUnchanged   = "unchanged"
	QuoteResultDropped     = "dropped_inflight"
	QuoteResultDiscarded   = "discarded"
)

// Metrics набор метрик сервиса
// Все методы безопасны для nil-получателя: если метрики выключены, вызовы ничего не делают
type Metrics struct {
	httpRequests   *prometheus.CounterVec
	httpDuration   *prometheus.HistogramVec
	monthFetches   *prometheus.CounterVec
	quoteRequests  *prometheus.CounterVec
	submissions    *prometheus.CounterVec
	activeSessions prometheus.Gauge
	agendaCache    *prometheus.CounterVec
	dbQueries      *prometheus.HistogramVec
}

// New создает метрики и регистрирует их в глобальном реестре Prometheus
func New(serviceName string) *Metrics {
	return NewWithRegistry(serviceName, prometheus.DefaultRegisterer)
}

// NewWithRegistry создает метрики и регистрирует их в указанном реестре
func NewWithRegistry(serviceName string, reg prometheus.Registerer) *Metrics {
	labels := prometheus.Labels{"service": serviceName}

	m := &Metrics{
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "http_requests_total",
			Help:        "Total number of HTTP requests",
			ConstLabels: labels,
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "http_request_duration_seconds",
			Help:        "HTTP request latency",
			ConstLabels: labels,
			Buckets:     prometheus.DefBuckets,
		}, []string{"method", "route"}),
		monthFetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "month_fetches_total",
			Help:        "Month availability fetches by result",
			ConstLabels: labels,
		}, []string{"result"}),
		quoteRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "quote_requests_total",
			Help:        "Quote evaluations by result",
			ConstLabels: labels,
		}, []string{"result"}),
		submissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "booking_submissions_total",
			Help:        "Booking and reschedule submissions by kind and result",
			ConstLabels: labels,
		}, []string{"kind", "result"}),
		activeSessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Name:        "booking_sessions_active",
			Help:        "Number of open booking sessions",
			ConstLabels: labels,
		}),
		agendaCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "agenda_cache_lookups_total",
			Help:        "Shared agenda cache lookups by result",
			ConstLabels: labels,
		}, []string{"result"}),
		dbQueries: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "db_query_duration_seconds",
			Help:        "Database query latency by operation and status",
			ConstLabels: labels,
			Buckets:     []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		}, []string{"operation", "status"}),
	}

	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(
		m.httpRequests,
		m.httpDuration,
		m.monthFetches,
		m.quoteRequests,
		m.submissions,
		m.activeSessions,
		m.agendaCache,
		m.dbQueries,
	)

	return m
}

// ObserveHTTP фиксирует обработанный HTTP запрос
func (m *Metrics) ObserveHTTP(method, route string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// ObserveMonthFetch фиксирует загрузку месяца (success/error/skipped)
func (m *Metrics) ObserveMonthFetch(result string) {
	if m == nil {
		return
	}
	m.monthFetches.WithLabelValues(result).Inc()
}

// ObserveQuote фиксирует результат вычисления котировки
func (m *Metrics) ObserveQuote(result string) {
	if m == nil {
		return
	}
	m.quoteRequests.WithLabelValues(result).Inc()
}

// ObserveSubmission фиксирует отправку бронирования или переноса
func (m *Metrics) ObserveSubmission(kind, result string) {
	if m == nil {
		return
	}
	m.submissions.WithLabelValues(kind, result).Inc()
}

// SessionOpened увеличивает счетчик открытых сессий
func (m *Metrics) SessionOpened() {
	if m == nil {
		return
	}
	m.activeSessions.Inc()
}

// SessionClosed уменьшает счетчик открытых сессий
func (m *Metrics) SessionClosed() {
	if m == nil {
		return
	}
	m.activeSessions.Dec()
}

// ObserveAgendaCache фиксирует попадание/промах общего кэша расписаний
func (m *Metrics) ObserveAgendaCache(result string) {
	if m == nil {
		return
	}
	m.agendaCache.WithLabelValues(result).Inc()
}

// ObserveDBQuery фиксирует длительность запроса к БД
func (m *Metrics) ObserveDBQuery(operation string, elapsed time.Duration, err error) {
	if m == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.dbQueries.WithLabelValues(operation, status).Observe(elapsed.Seconds())
}
