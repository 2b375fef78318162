// Package taskslot реализует очередь задач на один слот:
// не более одной выполняемой задачи, отложенный запуск с перезапуском таймера
// и отмену всего, что еще не завершилось, при закрытии.
package taskslot

import (
	"context"
	"sync"
	"time"
)

// Task задача, выполняемая в слоте
// ctx отменяется при закрытии слота
type Task func(ctx context.Context)

// Slot очередь задач на один слот
type Slot struct {
	mu       sync.Mutex
	timer    *time.Timer
	inFlight bool
	closed   bool
	onDrop   func()

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New создает слот, привязанный к родительскому контексту
func New(parent context.Context) *Slot {
	ctx, cancel := context.WithCancel(parent)
	return &Slot{ctx: ctx, cancel: cancel}
}

// Debounce откладывает запуск задачи на delay
// Повторный вызов до срабатывания отменяет предыдущий таймер и запускает новый.
// Если к моменту срабатывания в слоте уже выполняется задача, новая отбрасывается (не ставится в очередь)
func (s *Slot) Debounce(delay time.Duration, task Task) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(delay, func() {
		if !s.TryRun(task) {
			s.dropped()
		}
	})
}

// OnDrop устанавливает обработчик отброшенного срабатывания таймера
// Вызывается только если слот был занят, но не закрыт
func (s *Slot) OnDrop(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onDrop = fn
}

func (s *Slot) dropped() {
	s.mu.Lock()
	fn := s.onDrop
	closed := s.closed
	s.mu.Unlock()

	if fn != nil && !closed {
		fn()
	}
}

// TryRun синхронно выполняет задачу, если слот свободен
// Возвращает false, если задача отброшена: слот занят или закрыт
func (s *Slot) TryRun(task Task) bool {
	s.mu.Lock()
	if s.closed || s.inFlight {
		s.mu.Unlock()
		return false
	}
	s.inFlight = true
	s.wg.Add(1)
	ctx := s.ctx
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.inFlight = false
		s.mu.Unlock()
		s.wg.Done()
	}()

	task(ctx)
	return true
}

// InFlight сообщает, выполняется ли сейчас задача
func (s *Slot) InFlight() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inFlight
}

// Close отменяет таймер и контекст выполняющейся задачи
// После Close новые задачи не запускаются
func (s *Slot) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.mu.Unlock()

	s.cancel()
}

// Wait ждет завершения выполняющейся задачи
func (s *Slot) Wait() {
	s.wg.Wait()
}
