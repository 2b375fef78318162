package session

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/m04kA/SMC-TutorBooking/internal/domain"
	"github.com/m04kA/SMC-TutorBooking/internal/service/calendar"
	"github.com/m04kA/SMC-TutorBooking/internal/service/monthcache"
	"github.com/m04kA/SMC-TutorBooking/internal/service/quote"
	"github.com/m04kA/SMC-TutorBooking/internal/service/reschedule"
	"github.com/m04kA/SMC-TutorBooking/internal/service/selection"
	"github.com/m04kA/SMC-TutorBooking/internal/service/slotindex"
	"github.com/m04kA/SMC-TutorBooking/internal/usecase/create_booking"
	"github.com/m04kA/SMC-TutorBooking/internal/usecase/reschedule_booking"
	"github.com/m04kA/SMC-TutorBooking/pkg/auth"
	"github.com/m04kA/SMC-TutorBooking/pkg/types"
)

// Session сессия бронирования одного пользователя
// Состояние защищено мьютексом; сетевые вызовы выполняются без удержания блокировки
type Session struct {
	id    string
	opts  Options
	owner string

	mu              sync.Mutex
	store           *selection.Store
	machine         *selection.Machine
	focused         string
	rescheduleBlock *domain.Block
	lastErr         error
	lastActive      time.Time
	closed          bool
	onClose         func(id string)

	index     *slotindex.Index
	months    *monthcache.Cache
	quotes    *quote.Engine
	validator *reschedule.Validator

	bookings    BookingSubmitter
	reschedules RescheduleSubmitter

	ctx    context.Context
	cancel context.CancelFunc
	now    func() time.Time
	logger Logger
}

func newSession(parent context.Context, id string, opts Options, deps Deps, now func() time.Time) (*Session, error) {
	if opts.SubjectID <= 0 {
		return nil, fmt.Errorf("%w: subject id must be positive", domain.ErrInvalidInput)
	}
	if opts.Mode == "" {
		opts.Mode = ModeBooking
	}
	if !opts.Mode.IsValid() {
		return nil, fmt.Errorf("%w: unknown mode %q", domain.ErrInvalidInput, opts.Mode)
	}
	if opts.HourlyRateCents < 0 {
		return nil, fmt.Errorf("%w: hourly rate must not be negative", domain.ErrInvalidInput)
	}
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if opts.Auth == nil {
		opts.Auth = auth.Anonymous
	}

	var validator *reschedule.Validator
	if opts.Mode == ModeReschedule {
		if opts.Reschedule == nil {
			return nil, fmt.Errorf("%w: reschedule context is required", domain.ErrInvalidInput)
		}
		v, err := reschedule.NewValidator(*opts.Reschedule, opts.Location)
		if err != nil {
			return nil, err
		}
		validator = v
		rc := v.Context()
		opts.Reschedule = &rc
	}

	ctx, cancel := context.WithCancel(parent)
	index := slotindex.New()
	token, _ := opts.Auth.Token()

	s := &Session{
		id:          id,
		opts:        opts,
		owner:       ownerKey(token),
		store:       selection.NewStore(),
		machine:     selection.NewMachine(),
		lastActive:  now(),
		index:       index,
		months:      monthcache.New(ctx, index, deps.Agenda, opts.Location, deps.Metrics, deps.Logger),
		quotes:      quote.NewEngine(ctx, deps.Quotes, opts.Auth, deps.QuoteDebounce, deps.Metrics, deps.Logger),
		validator:   validator,
		bookings:    deps.Bookings,
		reschedules: deps.Reschedules,
		ctx:         ctx,
		cancel:      cancel,
		now:         now,
		logger:      deps.Logger,
	}

	s.months.OnMerged(s.autoFocus)
	s.quotes.SetHooks(quote.Hooks{
		Started:  s.quoteStarted,
		Finished: s.quoteFinished,
	})
	return s, nil
}

// ID возвращает идентификатор сессии
func (s *Session) ID() string {
	return s.id
}

// Mode возвращает режим сессии
func (s *Session) Mode() Mode {
	return s.opts.Mode
}

// OwnedBy проверяет, что сессию открыл пользователь с этим токеном
func (s *Session) OwnedBy(token string) bool {
	return subtle.ConstantTimeCompare([]byte(s.owner), []byte(ownerKey(token))) == 1
}

// LastActive возвращает время последнего обращения к сессии
func (s *Session) LastActive() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastActive
}

// Closed сообщает, закрыта ли сессия
func (s *Session) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// Open открывает окно бронирования и загружает первый месяц
// Ошибка загрузки не мешает открытию: она сохраняется в LastError и повторится при следующем просмотре
func (s *Session) Open(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return domain.ErrSessionClosed
	}
	if err := s.machine.Open(); err != nil {
		s.mu.Unlock()
		return err
	}
	s.touch()
	s.mu.Unlock()

	month := s.opts.Month
	if month.IsZero() {
		month = s.now().In(s.opts.Location)
		if s.validator != nil && s.validator.Context().MinStart().After(month) {
			month = s.validator.Context().MinStart().In(s.opts.Location)
		}
	}

	if err := s.EnsureMonth(ctx, month, false); err != nil {
		s.logger.Warn("Session: session=%s initial month %s not loaded: %v", s.id, calendar.MonthKey(month), err)
	}
	return nil
}

// EnsureMonth загружает месяц в индекс сессии
// force=true перезагружает месяц, заменяя только его даты
func (s *Session) EnsureMonth(ctx context.Context, month time.Time, force bool) error {
	if err := s.active(); err != nil {
		return err
	}

	ctx = s.withAuth(ctx)
	var err error
	if force {
		err = s.months.ForceRefetch(ctx, s.opts.SubjectID, month)
	} else {
		err = s.months.EnsureMonth(ctx, s.opts.SubjectID, month)
	}

	s.mu.Lock()
	if err != nil && !errors.Is(err, domain.ErrSessionClosed) {
		s.lastErr = err
	}
	s.mu.Unlock()
	return err
}

// Focus делает дату фокусной и подгружает ее месяц
func (s *Session) Focus(ctx context.Context, dateKey string) error {
	date, err := calendar.ParseDate(dateKey, s.opts.Location)
	if err != nil {
		return fmt.Errorf("%w: date %q", domain.ErrInvalidInput, dateKey)
	}

	s.mu.Lock()
	if err := s.checkOpenLocked(); err != nil {
		s.mu.Unlock()
		return err
	}
	s.focused = calendar.DateKey(date)
	s.touch()
	s.mu.Unlock()

	return s.EnsureMonth(ctx, date, false)
}

// ToggleHour переключает выбор часа в режиме бронирования
// Час, которого нет среди доступных часов даты, не добавляется (возвращается false),
// но уже выбранный час снимается всегда, даже если после перезагрузки месяца он стал занят
func (s *Session) ToggleHour(dateKey string, hour types.HourString) (bool, error) {
	if s.opts.Mode != ModeBooking {
		return false, fmt.Errorf("%w: toggle hour in %s mode", ErrWrongMode, s.opts.Mode)
	}
	if err := hour.Validate(); err != nil {
		return false, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}

	s.mu.Lock()
	if err := s.checkOpenLocked(); err != nil {
		s.mu.Unlock()
		return false, err
	}
	s.touch()
	s.focused = dateKey

	changed := s.store.ToggleHour(dateKey, hour, s.index.Hours(dateKey))
	if !changed {
		s.mu.Unlock()
		return false, nil
	}
	if err := s.machine.SelectionChanged(s.store.TotalHours()); err != nil {
		// Откатываем выбор, если окно в состоянии, где выбор менять нельзя
		s.store.ToggleHour(dateKey, hour, []types.HourString{hour})
		s.mu.Unlock()
		return false, err
	}
	s.lastErr = nil
	s.mu.Unlock()

	s.quotes.Schedule(s.quoteRequest)
	return true, nil
}

// SelectRescheduleStart выбирает начало нового блока в режиме переноса
// При неполном блоке выбор сбрасывается
func (s *Session) SelectRescheduleStart(dateKey string, hour types.HourString) (domain.Block, error) {
	if s.opts.Mode != ModeReschedule {
		return domain.Block{}, fmt.Errorf("%w: reschedule start in %s mode", ErrWrongMode, s.opts.Mode)
	}

	s.mu.Lock()
	if err := s.checkOpenLocked(); err != nil {
		s.mu.Unlock()
		return domain.Block{}, err
	}
	s.touch()
	s.focused = dateKey

	block, err := s.validator.SelectStart(dateKey, hour, s.index)
	if err != nil {
		s.lastErr = err
		if errors.Is(err, domain.ErrIncompleteBlock) {
			s.store.Clear()
			s.rescheduleBlock = nil
			_ = s.machine.SelectionChanged(0)
		}
		s.mu.Unlock()
		s.logger.Warn("Session: session=%s reschedule start %s %s rejected: %v", s.id, dateKey, hour, err)
		return domain.Block{}, err
	}

	s.store.Clear()
	hours := blockHours(block)
	for _, h := range hours {
		s.store.ToggleHour(block.DateKey, h, hours)
	}
	s.rescheduleBlock = &block
	s.lastErr = nil
	if err := s.machine.SelectionChanged(block.Hours()); err != nil {
		s.mu.Unlock()
		return domain.Block{}, err
	}
	s.mu.Unlock()

	s.quotes.Schedule(s.quoteRequest)
	return block, nil
}

// Summary возвращает снимок состояния сессии
func (s *Session) Summary() Summary {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	selections := s.store.Selections()
	hours := s.store.TotalHours()

	sum := Summary{
		ID:          s.id,
		Mode:        s.opts.Mode,
		SubjectID:   s.opts.SubjectID,
		State:       s.machine.State(),
		FocusedDate: s.focused,
		Selections:  selections,
		TotalHours:  hours,
		Closed:      s.closed,
	}

	if s.focused != "" {
		available := s.index.Hours(s.focused)
		if s.validator != nil {
			available = s.validator.AllowedHours(s.focused, available)
		}
		sum.AvailableHours = available
	}

	req, stale, err := quote.BuildRequest(selections, s.index, s.opts.Location)
	var current *domain.Quote
	if err == nil {
		current, _ = s.quotes.QuoteFor(quote.Signature(req))
		sum.StaleBlocks = stale
	}
	sum.Quote = current
	sum.TotalAmountCents = quote.Total(current, s.opts.HourlyRateCents, hours)
	sum.QuotePending = s.quotes.InFlight()
	if qerr := s.quotes.LastError(); qerr != nil {
		sum.QuoteError = qerr.Error()
	}

	if s.rescheduleBlock != nil {
		block := *s.rescheduleBlock
		sum.RescheduleBlock = &block
	}
	if s.opts.Reschedule != nil {
		rc := *s.opts.Reschedule
		sum.Reschedule = &rc
	}
	if s.lastErr != nil {
		sum.LastError = s.lastErr.Error()
	}
	return sum
}

// Confirm отправляет выбор на бэкенд
// Успех закрывает сессию; при ошибке окно возвращается к выбору часов
func (s *Session) Confirm(ctx context.Context) (*ConfirmResult, error) {
	s.mu.Lock()
	if err := s.checkOpenLocked(); err != nil {
		s.mu.Unlock()
		return nil, err
	}
	s.touch()
	if err := s.machine.BeginSubmit(s.store.TotalHours()); err != nil {
		s.mu.Unlock()
		return nil, err
	}
	selections := s.store.Selections()
	var block *domain.Block
	if s.rescheduleBlock != nil {
		b := *s.rescheduleBlock
		block = &b
	}
	s.mu.Unlock()

	ctx = s.withAuth(ctx)

	var (
		result ConfirmResult
		err    error
	)
	switch s.opts.Mode {
	case ModeReschedule:
		if block == nil {
			err = domain.ErrEmptySelection
			break
		}
		result.Reschedule, err = s.reschedules.Execute(ctx, &reschedule_booking.Request{
			SessionID: s.id,
			SubjectID: s.opts.SubjectID,
			Validator: s.validator,
			Block:     block,
			Slots:     s.index,
			Location:  s.opts.Location,
		})
	default:
		result.Booking, err = s.bookings.Execute(ctx, &create_booking.Request{
			SessionID:       s.id,
			SubjectID:       s.opts.SubjectID,
			Selections:      selections,
			Slots:           s.index,
			Location:        s.opts.Location,
			HourlyRateCents: s.opts.HourlyRateCents,
			Quote:           s.quotes.Current(),
		})
	}

	s.mu.Lock()
	if err != nil {
		s.machine.SubmitFailed()
		s.lastErr = err
		s.mu.Unlock()
		s.logger.Warn("Session: session=%s confirm failed: %v", s.id, err)
		return nil, err
	}
	s.machine.SubmitSucceeded()
	s.mu.Unlock()

	s.logger.Info("Session: session=%s confirmed in %s mode", s.id, s.opts.Mode)
	s.Close()
	return &result, nil
}

// Close закрывает сессию: отменяет таймер котировки и загрузки, сбрасывает выбор
// Повторный вызов ничего не делает
func (s *Session) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.machine.Close()
	s.store.Clear()
	s.rescheduleBlock = nil
	onClose := s.onClose
	s.mu.Unlock()

	s.quotes.Cancel()
	s.months.Close()
	s.cancel()

	s.logger.Info("Session: session=%s closed", s.id)
	if onClose != nil {
		onClose(s.id)
	}
}

func (s *Session) quoteRequest() domain.QuoteRequest {
	s.mu.Lock()
	defer s.mu.Unlock()

	req, stale, err := quote.BuildRequest(s.store.Selections(), s.index, s.opts.Location)
	if err != nil {
		s.logger.Warn("Session: session=%s quote request not built: %v", s.id, err)
		return domain.QuoteRequest{}
	}
	if len(stale) > 0 {
		s.logger.Warn("Session: session=%s %d stale blocks left out of quote", s.id, len(stale))
	}
	return req
}

func (s *Session) quoteStarted() {
	s.mu.Lock()
	defer s.mu.Unlock()
	_ = s.machine.QuoteStarted()
}

func (s *Session) quoteFinished(_ *domain.Quote, _ error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.machine.QuoteFinished()
}

// autoFocus выбирает первую доступную дату, если фокуса еще нет
func (s *Session) autoFocus(_ int64, monthKey string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.focused != "" || s.closed {
		return
	}

	if s.validator == nil {
		if date, ok := s.index.FirstAvailableDate(); ok {
			s.focused = date
			s.logger.Info("Session: session=%s auto-focused %s after month %s", s.id, date, monthKey)
		}
		return
	}

	for _, date := range s.index.Dates() {
		if len(s.validator.AllowedHours(date, s.index.Hours(date))) > 0 {
			s.focused = date
			s.logger.Info("Session: session=%s auto-focused %s after month %s", s.id, date, monthKey)
			return
		}
	}
}

func (s *Session) active() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return domain.ErrSessionClosed
	}
	s.touch()
	return nil
}

func (s *Session) checkOpenLocked() error {
	if s.closed || s.machine.State() == selection.StateClosed {
		return domain.ErrSessionClosed
	}
	return nil
}

func (s *Session) touch() {
	s.lastActive = s.now()
}

func (s *Session) withAuth(ctx context.Context) context.Context {
	if token, ok := s.opts.Auth.Token(); ok {
		return auth.WithToken(ctx, token)
	}
	return ctx
}

// В памяти хранится только хэш токена
func ownerKey(token string) string {
	if token == "" {
		return ""
	}
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

func blockHours(b domain.Block) []types.HourString {
	hours := make([]types.HourString, 0, b.Hours())
	for h := b.StartHour; h < b.EndHour; h++ {
		hours = append(hours, types.MustHour(h))
	}
	return hours
}
