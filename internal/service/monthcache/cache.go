package monthcache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/m04kA/SMC-TutorBooking/internal/domain"
	"github.com/m04kA/SMC-TutorBooking/internal/service/calendar"
	"github.com/m04kA/SMC-TutorBooking/internal/service/slotindex"
)

const (
	resultSuccess   = "success"
	resultError     = "error"
	resultSkipped   = "skipped"
	resultDiscarded = "discarded"
)

// Cache кэш доступности по месяцам для одной сессии
// Каждый (предмет, месяц) загружается не более одного раза, пока загрузка не завершится ошибкой
type Cache struct {
	mu        sync.Mutex
	requested map[string]struct{}

	index    *slotindex.Index
	source   AgendaSource
	loc      *time.Location
	onMerged MergedFunc
	metrics  Metrics
	logger   Logger

	ctx    context.Context
	cancel context.CancelFunc
}

// New создает кэш, привязанный к контексту сессии
func New(parent context.Context, index *slotindex.Index, source AgendaSource, loc *time.Location, metrics Metrics, logger Logger) *Cache {
	ctx, cancel := context.WithCancel(parent)
	if loc == nil {
		loc = time.UTC
	}
	return &Cache{
		requested: make(map[string]struct{}),
		index:     index,
		source:    source,
		loc:       loc,
		metrics:   metrics,
		logger:    logger,
		ctx:       ctx,
		cancel:    cancel,
	}
}

// OnMerged устанавливает обработчик успешного слияния месяца
func (c *Cache) OnMerged(fn MergedFunc) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onMerged = fn
}

// EnsureMonth загружает месяц, если он еще не запрашивался
// Маркер ставится до начала загрузки, поэтому повторный вызов во время загрузки ничего не делает.
// При ошибке маркер снимается, следующий вызов повторит загрузку
func (c *Cache) EnsureMonth(ctx context.Context, subjectID int64, month time.Time) error {
	key := c.markerKey(subjectID, month)

	c.mu.Lock()
	if c.ctx.Err() != nil {
		c.mu.Unlock()
		return domain.ErrSessionClosed
	}
	if _, ok := c.requested[key]; ok {
		c.mu.Unlock()
		c.observe(resultSkipped)
		return nil
	}
	c.requested[key] = struct{}{}
	c.mu.Unlock()

	return c.fetch(ctx, subjectID, month, key, false)
}

// ForceRefetch сбрасывает маркер и перезагружает месяц в обход общего кэша
// Заменяются только даты этого месяца, остальные месяцы остаются в индексе
func (c *Cache) ForceRefetch(ctx context.Context, subjectID int64, month time.Time) error {
	key := c.markerKey(subjectID, month)

	c.mu.Lock()
	if c.ctx.Err() != nil {
		c.mu.Unlock()
		return domain.ErrSessionClosed
	}
	c.requested[key] = struct{}{}
	c.mu.Unlock()

	return c.fetch(ctx, subjectID, month, key, true)
}

// Close отменяет выполняющиеся загрузки; их результаты будут отброшены
func (c *Cache) Close() {
	c.cancel()
}

func (c *Cache) fetch(ctx context.Context, subjectID int64, month time.Time, key string, replace bool) error {
	fetchCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	stop := context.AfterFunc(c.ctx, cancel)
	defer stop()

	from, to := calendar.MonthRange(month.In(c.loc))
	monthKey := calendar.MonthKey(from)

	var (
		days []domain.DayAgenda
		err  error
	)
	if replace {
		days, err = c.source.GetAgendaFresh(fetchCtx, subjectID, from, to)
	} else {
		days, err = c.source.GetAgenda(fetchCtx, subjectID, from, to)
	}

	c.mu.Lock()
	if c.ctx.Err() != nil {
		c.mu.Unlock()
		c.observe(resultDiscarded)
		c.logger.Info("EnsureMonth: discarded late result for subject=%d month=%s", subjectID, monthKey)
		return domain.ErrSessionClosed
	}
	if err != nil {
		delete(c.requested, key)
		c.mu.Unlock()
		c.observe(resultError)
		c.logger.Warn("EnsureMonth: fetch failed for subject=%d month=%s: %v", subjectID, monthKey, err)
		return fmt.Errorf("%w: subject=%d month=%s: %v", domain.ErrFetch, subjectID, monthKey, err)
	}

	entry := slotindex.FromAgenda(subjectID, monthKey, days)
	if replace {
		c.index.ReplaceMonth(entry)
	} else {
		c.index.Merge(entry)
	}
	onMerged := c.onMerged
	c.mu.Unlock()

	c.observe(resultSuccess)
	c.logger.Info("EnsureMonth: merged subject=%d month=%s days=%d replace=%t", subjectID, monthKey, len(days), replace)

	if onMerged != nil {
		onMerged(subjectID, monthKey)
	}
	return nil
}

func (c *Cache) observe(result string) {
	if c.metrics != nil {
		c.metrics.ObserveMonthFetch(result)
	}
}

// Маркер считается в той же локации, в которой загружается месяц
func (c *Cache) markerKey(subjectID int64, month time.Time) string {
	return fmt.Sprintf("%d:%s", subjectID, calendar.MonthKey(month.In(c.loc)))
}
