package quote

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/m04kA/SMC-TutorBooking/internal/domain"
	"github.com/m04kA/SMC-TutorBooking/pkg/auth"
	"github.com/m04kA/SMC-TutorBooking/pkg/metrics"
	"github.com/m04kA/SMC-TutorBooking/pkg/taskslot"
)

// Engine отложенный запрос котировок для одной сессии
// Одновременно выполняется не более одного запроса; срабатывание во время запроса отбрасывается
type Engine struct {
	mu            sync.Mutex
	quote         *domain.Quote
	lastSignature domain.QuoteSignature
	lastErr       error
	generation    uint64
	hooks         Hooks

	client   Client
	auth     auth.Provider
	slot     *taskslot.Slot
	debounce time.Duration
	metrics  Metrics
	logger   Logger
}

// NewEngine создает движок котировок
func NewEngine(parent context.Context, client Client, provider auth.Provider, debounce time.Duration, m Metrics, logger Logger) *Engine {
	if debounce <= 0 {
		debounce = domain.DefaultQuoteDebounce
	}
	if provider == nil {
		provider = auth.Anonymous
	}
	e := &Engine{
		client:   client,
		auth:     provider,
		slot:     taskslot.New(parent),
		debounce: debounce,
		metrics:  m,
		logger:   logger,
	}
	e.slot.OnDrop(func() {
		e.observe(metrics.QuoteResultDropped)
		e.logger.Info("Quote: firing dropped, previous request still in flight")
	})
	return e
}

// SetHooks устанавливает обработчики начала и завершения запроса
func (e *Engine) SetHooks(h Hooks) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.hooks = h
}

// Schedule перезапускает таймер отложенного запроса
func (e *Engine) Schedule(source RequestSource) {
	e.slot.Debounce(e.debounce, func(ctx context.Context) {
		e.run(ctx, source)
	})
}

// Cancel останавливает таймер и отменяет выполняющийся запрос
// Результаты, пришедшие после Cancel, отбрасываются
func (e *Engine) Cancel() {
	e.mu.Lock()
	e.generation++
	e.mu.Unlock()

	e.slot.Close()
}

// Wait ждет завершения выполняющегося запроса
func (e *Engine) Wait() {
	e.slot.Wait()
}

// InFlight сообщает, выполняется ли сейчас запрос
func (e *Engine) InFlight() bool {
	return e.slot.InFlight()
}

// Current возвращает последнюю успешную котировку
func (e *Engine) Current() *domain.Quote {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.quote
}

// QuoteFor возвращает котировку, если она получена ровно для этой подписи
func (e *Engine) QuoteFor(sig domain.QuoteSignature) (*domain.Quote, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.quote == nil || e.quote.Signature != sig {
		return nil, false
	}
	return e.quote, true
}

// LastError возвращает ошибку последней котировки (ErrQuote) или nil
func (e *Engine) LastError() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lastErr
}

// Total возвращает итог котировки q или hourlyRateCents * totalHours
func Total(q *domain.Quote, hourlyRateCents int64, totalHours int) int64 {
	if q != nil {
		return q.TotalAmountCents
	}
	return hourlyRateCents * int64(totalHours)
}

func (e *Engine) run(ctx context.Context, source RequestSource) {
	token, ok := e.auth.Token()
	if !ok {
		e.observe(metrics.QuoteResultSkippedAuth)
		return
	}

	req := source()
	if req.IsEmpty() {
		e.mu.Lock()
		e.quote = nil
		e.lastSignature = ""
		e.lastErr = nil
		e.mu.Unlock()
		return
	}

	sig := Signature(req)

	e.mu.Lock()
	if sig == e.lastSignature {
		e.mu.Unlock()
		e.observe(metrics.QuoteResultUnchanged)
		return
	}
	generation := e.generation
	hooks := e.hooks
	e.mu.Unlock()

	if hooks.Started != nil {
		hooks.Started()
	}

	q, err := e.client.Quote(auth.WithToken(ctx, token), req)

	e.mu.Lock()
	if generation != e.generation || ctx.Err() != nil {
		e.mu.Unlock()
		e.observe(metrics.QuoteResultDiscarded)
		return
	}
	if err != nil {
		e.quote = nil
		e.lastSignature = ""
		e.lastErr = fmt.Errorf("%w: %v", domain.ErrQuote, err)
		result := e.lastErr
		e.mu.Unlock()

		e.observe(metrics.QuoteResultError)
		e.logger.Warn("Quote: request with %d items failed: %v", len(req.Items), err)
		if hooks.Finished != nil {
			hooks.Finished(nil, result)
		}
		return
	}

	q.Signature = sig
	e.quote = q
	e.lastSignature = sig
	e.lastErr = nil
	e.mu.Unlock()

	e.observe(metrics.QuoteResultSuccess)
	e.logger.Info("Quote: %d items priced at %d cents", len(req.Items), q.TotalAmountCents)
	if hooks.Finished != nil {
		hooks.Finished(q, nil)
	}
}

func (e *Engine) observe(result string) {
	if e.metrics != nil {
		e.metrics.ObserveQuote(result)
	}
}
