package agenda

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"github.com/m04kA/SMC-TutorBooking/internal/domain"
)

const (
	keyPrefix     = "agenda:"
	versionPrefix = "agenda:ver:"

	resultHit     = "hit"
	resultMiss    = "miss"
	resultShared  = "shared"
	resultRefresh = "refresh"
	resultError   = "error"
)

// Cache общий для всех сессий кэш расписания поверх Redis
// Одинаковые одновременные промахи сворачиваются в один запрос к источнику
type Cache struct {
	redis   *redis.Client
	source  Source
	ttl     time.Duration
	group   singleflight.Group
	metrics Metrics
	logger  Logger
}

// New создает кэш расписания
func New(client *redis.Client, source Source, ttl time.Duration, metrics Metrics, logger Logger) *Cache {
	return &Cache{
		redis:   client,
		source:  source,
		ttl:     ttl,
		metrics: metrics,
		logger:  logger,
	}
}

// GetAgenda возвращает расписание из Redis или загружает его из источника
func (c *Cache) GetAgenda(ctx context.Context, subjectID int64, from, to time.Time) ([]domain.DayAgenda, error) {
	key, err := c.key(ctx, subjectID, from, to)
	if err != nil {
		c.observe(resultError)
		c.logger.Warn("AgendaCache: version lookup for subject=%d failed, bypassing cache: %v", subjectID, err)
		return c.source.GetAgenda(ctx, subjectID, from, to)
	}

	if days, ok := c.read(ctx, key); ok {
		c.observe(resultHit)
		return days, nil
	}

	ch := c.group.DoChan(key, func() (interface{}, error) {
		// Запрос не должен отменяться вместе с первым из ожидающих
		fetchCtx := context.WithoutCancel(ctx)
		days, err := c.source.GetAgenda(fetchCtx, subjectID, from, to)
		if err != nil {
			return nil, err
		}
		c.write(fetchCtx, key, days)
		return days, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		if res.Shared {
			c.observe(resultShared)
		} else {
			c.observe(resultMiss)
		}
		return res.Val.([]domain.DayAgenda), nil
	}
}

// GetAgendaFresh загружает расписание из источника в обход Redis и перезаписывает запись кэша
func (c *Cache) GetAgendaFresh(ctx context.Context, subjectID int64, from, to time.Time) ([]domain.DayAgenda, error) {
	days, err := c.source.GetAgenda(ctx, subjectID, from, to)
	if err != nil {
		return nil, err
	}

	key, err := c.key(ctx, subjectID, from, to)
	if err != nil {
		c.observe(resultError)
		c.logger.Warn("AgendaCache: version lookup for subject=%d failed, fresh agenda not cached: %v", subjectID, err)
		return days, nil
	}
	c.write(ctx, key, days)
	c.observe(resultRefresh)
	return days, nil
}

// Invalidate сбрасывает все закэшированные периоды предмета
// Старые ключи не удаляются, а перестают читаться и истекают по TTL
func (c *Cache) Invalidate(ctx context.Context, subjectID int64) error {
	if err := c.redis.Incr(ctx, versionKey(subjectID)).Err(); err != nil {
		return fmt.Errorf("agenda cache: invalidate subject %d: %w", subjectID, err)
	}
	c.logger.Info("AgendaCache: invalidated subject=%d", subjectID)
	return nil
}

func (c *Cache) key(ctx context.Context, subjectID int64, from, to time.Time) (string, error) {
	version, err := c.redis.Get(ctx, versionKey(subjectID)).Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		return "", err
	}
	return fmt.Sprintf("%s%d:v%d:%s:%s", keyPrefix, subjectID, version,
		from.Format(domain.DateFormat), to.Format(domain.DateFormat)), nil
}

func (c *Cache) read(ctx context.Context, key string) ([]domain.DayAgenda, bool) {
	data, err := c.redis.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn("AgendaCache: read %s: %v", key, err)
		}
		return nil, false
	}

	var cached []cachedDay
	if err := json.Unmarshal(data, &cached); err != nil {
		c.logger.Warn("AgendaCache: corrupted entry %s: %v", key, err)
		return nil, false
	}
	return fromCached(cached), true
}

func (c *Cache) write(ctx context.Context, key string, days []domain.DayAgenda) {
	data, err := json.Marshal(toCached(days))
	if err != nil {
		c.logger.Warn("AgendaCache: marshal %s: %v", key, err)
		return
	}
	if err := c.redis.Set(ctx, key, data, c.ttl).Err(); err != nil {
		c.logger.Warn("AgendaCache: write %s: %v", key, err)
	}
}

func (c *Cache) observe(result string) {
	if c.metrics != nil {
		c.metrics.ObserveAgendaCache(result)
	}
}

func versionKey(subjectID int64) string {
	return versionPrefix + strconv.FormatInt(subjectID, 10)
}
