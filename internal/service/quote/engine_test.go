package quote

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-TutorBooking/internal/domain"
	"github.com/m04kA/SMC-TutorBooking/pkg/auth"
	"github.com/m04kA/SMC-TutorBooking/pkg/logger"
	"github.com/m04kA/SMC-TutorBooking/pkg/metrics"
)

type fakeClient struct {
	calls   atomic.Int32
	mu      sync.Mutex
	err     error
	total   int64
	tokens  []string
	release chan struct{}
	started chan struct{}
}

func (f *fakeClient) Quote(ctx context.Context, req domain.QuoteRequest) (*domain.Quote, error) {
	f.calls.Add(1)
	token, _ := auth.TokenFromContext(ctx)
	f.mu.Lock()
	f.tokens = append(f.tokens, token)
	err, total := f.err, f.total
	f.mu.Unlock()

	if f.started != nil {
		f.started <- struct{}{}
	}
	if f.release != nil {
		select {
		case <-f.release:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if err != nil {
		return nil, err
	}
	return &domain.Quote{TotalAmountCents: total}, nil
}

// fire выполняет запрос сразу, минуя таймер
func fire(e *Engine, source RequestSource) bool {
	return e.slot.TryRun(func(ctx context.Context) { e.run(ctx, source) })
}

type recordingMetrics struct {
	mu      sync.Mutex
	results []string
}

func (m *recordingMetrics) ObserveQuote(result string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.results = append(m.results, result)
}

func (m *recordingMetrics) count(result string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, r := range m.results {
		if r == result {
			n++
		}
	}
	return n
}

func requestOf(ids ...int64) RequestSource {
	start := time.Date(2024, 6, 3, 9, 0, 0, 0, time.UTC)
	items := make([]domain.QuoteItem, len(ids))
	for i, id := range ids {
		items[i] = domain.QuoteItem{AvailabilityID: id, Start: start.Add(time.Duration(i) * 2 * time.Hour), End: start.Add(time.Duration(i)*2*time.Hour + time.Hour)}
	}
	return func() domain.QuoteRequest { return domain.QuoteRequest{Items: items} }
}

func newEngine(client Client, provider auth.Provider, m Metrics) *Engine {
	return NewEngine(context.Background(), client, provider, 20*time.Millisecond, m, logger.NewNop())
}

func TestEngine_DebounceCollapsesBursts(t *testing.T) {
	client := &fakeClient{total: 9000}
	e := newEngine(client, auth.Static("tok"), nil)
	defer e.Cancel()

	for i := 0; i < 5; i++ {
		e.Schedule(requestOf(1, 2))
		time.Sleep(2 * time.Millisecond)
	}

	require.Eventually(t, func() bool { return e.Current() != nil }, time.Second, 5*time.Millisecond)
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, int32(1), client.calls.Load())
	assert.Equal(t, int64(9000), Total(e.Current(), 5000, 3))
	assert.Equal(t, []string{"tok"}, client.tokens)
}

func TestEngine_SkipsWithoutAuth(t *testing.T) {
	client := &fakeClient{}
	m := &recordingMetrics{}
	e := newEngine(client, auth.Anonymous, m)
	defer e.Cancel()

	assert.True(t, fire(e, requestOf(1)))
	assert.Equal(t, int32(0), client.calls.Load())
	assert.Equal(t, 1, m.count(metrics.QuoteResultSkippedAuth))
	assert.Equal(t, int64(10000), Total(e.Current(), 5000, 2))
}

func TestEngine_UnchangedSignatureIsNoop(t *testing.T) {
	client := &fakeClient{total: 100}
	m := &recordingMetrics{}
	e := newEngine(client, auth.Static("tok"), m)
	defer e.Cancel()

	fire(e, requestOf(1, 2))
	fire(e, requestOf(1, 2))

	assert.Equal(t, int32(1), client.calls.Load())
	assert.Equal(t, 1, m.count(metrics.QuoteResultUnchanged))

	fire(e, requestOf(1))
	assert.Equal(t, int32(2), client.calls.Load())
}

func TestEngine_FailureIsNonFatalAndRetried(t *testing.T) {
	client := &fakeClient{err: errors.New("upstream down")}
	e := newEngine(client, auth.Static("tok"), nil)
	defer e.Cancel()

	fire(e, requestOf(1))
	require.ErrorIs(t, e.LastError(), domain.ErrQuote)
	assert.Nil(t, e.Current())
	assert.Equal(t, int64(5000), Total(e.Current(), 5000, 1))

	client.mu.Lock()
	client.err = nil
	client.total = 4200
	client.mu.Unlock()

	fire(e, requestOf(1))
	assert.NoError(t, e.LastError())
	assert.Equal(t, int64(4200), Total(e.Current(), 5000, 1))
	assert.Equal(t, int32(2), client.calls.Load())
}

func TestEngine_DropsWhileInFlight(t *testing.T) {
	client := &fakeClient{total: 1, release: make(chan struct{}), started: make(chan struct{}, 1)}
	m := &recordingMetrics{}
	e := newEngine(client, auth.Static("tok"), m)
	defer e.Cancel()

	go fire(e, requestOf(1))
	<-client.started

	// Срабатывание таймера во время запроса отбрасывается, а не ставится в очередь
	e.Schedule(requestOf(2))
	require.Eventually(t, func() bool { return m.count(metrics.QuoteResultDropped) == 1 }, time.Second, time.Millisecond)

	close(client.release)
	require.Eventually(t, func() bool { return e.Current() != nil }, time.Second, time.Millisecond)
	assert.Equal(t, int32(1), client.calls.Load())
}

func TestEngine_LateResultAfterCancelDiscarded(t *testing.T) {
	client := &fakeClient{total: 1, release: make(chan struct{}), started: make(chan struct{}, 1)}
	var finished atomic.Int32
	e := newEngine(client, auth.Static("tok"), nil)
	e.SetHooks(Hooks{Finished: func(*domain.Quote, error) { finished.Add(1) }})

	go fire(e, requestOf(1))
	<-client.started

	e.Cancel()
	e.Wait()

	assert.Nil(t, e.Current())
	assert.NoError(t, e.LastError())
	assert.Equal(t, int32(0), finished.Load())
	assert.False(t, fire(e, requestOf(1)))
}

func TestEngine_QuoteFor(t *testing.T) {
	client := &fakeClient{total: 700}
	e := newEngine(client, auth.Static("tok"), nil)
	defer e.Cancel()

	source := requestOf(1, 2)
	fire(e, source)

	q, ok := e.QuoteFor(Signature(source()))
	require.True(t, ok)
	assert.Equal(t, int64(700), q.TotalAmountCents)

	_, ok = e.QuoteFor(Signature(requestOf(1)()))
	assert.False(t, ok)
}

func TestEngine_HooksCalled(t *testing.T) {
	client := &fakeClient{total: 1}
	e := newEngine(client, auth.Static("tok"), nil)
	defer e.Cancel()

	var started, finished atomic.Int32
	e.SetHooks(Hooks{
		Started:  func() { started.Add(1) },
		Finished: func(q *domain.Quote, err error) { finished.Add(1) },
	})

	fire(e, requestOf(1))
	assert.Equal(t, int32(1), started.Load())
	assert.Equal(t, int32(1), finished.Load())
}
