// Package sessiontest собирает менеджер сессий на подставных зависимостях для тестов обработчиков
package sessiontest

import (
	"context"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/m04kA/SMC-TutorBooking/internal/domain"
	"github.com/m04kA/SMC-TutorBooking/internal/service/session"
	"github.com/m04kA/SMC-TutorBooking/internal/usecase/create_booking"
	"github.com/m04kA/SMC-TutorBooking/internal/usecase/reschedule_booking"
	"github.com/m04kA/SMC-TutorBooking/pkg/auth"
	"github.com/m04kA/SMC-TutorBooking/pkg/logger"
	"github.com/m04kA/SMC-TutorBooking/pkg/types"
)

const (
	// Month месяц, для которого подставной источник отдает расписание
	Month = "2024-06"
	// Token токен пользователя, открывающего сессии
	Token = "student-token"
)

// Agenda расписание на июнь 2024:
// 2024-06-05 доступны 09:00-12:00 (ID 11-13), 12:00 занят; 2024-06-06 доступны 15:00-17:00 (ID 30, 31)
type Agenda struct {
	mu  sync.Mutex
	Err error
}

func (a *Agenda) GetAgenda(_ context.Context, _ int64, from, _ time.Time) ([]domain.DayAgenda, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.Err != nil {
		return nil, a.Err
	}
	if from.Format(domain.MonthFormat) != Month {
		return nil, nil
	}
	return []domain.DayAgenda{
		{DateKey: "2024-06-05", Slots: []domain.TimeSlot{
			slot("2024-06-05", 9, 11, domain.SlotAvailable),
			slot("2024-06-05", 10, 12, domain.SlotAvailable),
			slot("2024-06-05", 11, 13, domain.SlotAvailable),
			slot("2024-06-05", 12, 0, domain.SlotOccupied),
		}},
		{DateKey: "2024-06-06", Slots: []domain.TimeSlot{
			slot("2024-06-06", 15, 30, domain.SlotAvailable),
			slot("2024-06-06", 16, 31, domain.SlotAvailable),
		}},
	}, nil
}

func (a *Agenda) GetAgendaFresh(ctx context.Context, subjectID int64, from, to time.Time) ([]domain.DayAgenda, error) {
	return a.GetAgenda(ctx, subjectID, from, to)
}

func slot(date string, hour int, id int64, status domain.SlotStatus) domain.TimeSlot {
	return domain.TimeSlot{DateKey: date, Hour: types.MustHour(hour), AvailabilityID: id, Status: status}
}

// Quotes отдает 4500 центов за каждый блок
type Quotes struct{}

func (Quotes) Quote(_ context.Context, req domain.QuoteRequest) (*domain.Quote, error) {
	return &domain.Quote{TotalAmountCents: int64(len(req.Items)) * 4500}, nil
}

// Bookings запоминает последний запрос бронирования
type Bookings struct {
	mu   sync.Mutex
	Last *create_booking.Request
	Err  error
}

func (b *Bookings) Execute(_ context.Context, req *create_booking.Request) (*create_booking.Response, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.Last = req
	if b.Err != nil {
		return nil, b.Err
	}
	hours := 0
	for _, sel := range req.Selections {
		hours += len(sel.Hours)
	}
	return &create_booking.Response{
		RedirectURL:      "https://pay.example.com/checkout/42",
		TotalAmountCents: req.HourlyRateCents * int64(hours),
		TotalHours:       hours,
		PriceID:          create_booking.PriceIDHourly,
	}, nil
}

// Reschedules подтверждает любой перенос
type Reschedules struct {
	Err error
}

func (r *Reschedules) Execute(_ context.Context, req *reschedule_booking.Request) (*reschedule_booking.Response, error) {
	if r.Err != nil {
		return nil, r.Err
	}
	start, end, err := req.Block.Range(req.Location)
	if err != nil {
		return nil, err
	}
	return &reschedule_booking.Response{BookingID: req.Validator.Context().BookingID, Start: start, End: end}, nil
}

// Env менеджер и его подставные зависимости
type Env struct {
	Manager     *session.Manager
	Agenda      *Agenda
	Bookings    *Bookings
	Reschedules *Reschedules
}

// New создает менеджер сессий и закрывает его по окончании теста
func New(t testing.TB) *Env {
	t.Helper()
	env := &Env{
		Agenda:      &Agenda{},
		Bookings:    &Bookings{},
		Reschedules: &Reschedules{},
	}
	manager, err := session.NewManager(session.Deps{
		Agenda:        env.Agenda,
		Quotes:        Quotes{},
		Bookings:      env.Bookings,
		Reschedules:   env.Reschedules,
		QuoteDebounce: 5 * time.Millisecond,
		Logger:        logger.NewNop(),
	}, time.Minute)
	if err != nil {
		t.Fatalf("session manager: %v", err)
	}
	t.Cleanup(manager.Shutdown)
	env.Manager = manager
	return env
}

// BookingOptions параметры сессии бронирования на июнь 2024
func BookingOptions() session.Options {
	return session.Options{
		SubjectID:       7,
		Mode:            session.ModeBooking,
		HourlyRateCents: 3000,
		Auth:            auth.Static(Token),
		Month:           time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
	}
}

// RescheduleOptions параметры переноса занятия 2024-06-05 08:00-10:00 на два часа
func RescheduleOptions() session.Options {
	return session.Options{
		SubjectID: 7,
		Mode:      session.ModeReschedule,
		Auth:      auth.Static(Token),
		Month:     time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
		Reschedule: &domain.RescheduleContext{
			BookingID:     55,
			CurrentStart:  time.Date(2024, 6, 5, 8, 0, 0, 0, time.UTC),
			CurrentEnd:    time.Date(2024, 6, 5, 10, 0, 0, 0, time.UTC),
			RequiredHours: 2,
		},
	}
}

// WithToken добавляет в запрос токен пользователя, как это делает middleware авторизации
func WithToken(r *http.Request, token string) *http.Request {
	return r.WithContext(auth.WithToken(r.Context(), token))
}

// Open создает сессию с указанными параметрами
func (e *Env) Open(t testing.TB, opts session.Options) *session.Session {
	t.Helper()
	s, err := e.Manager.Create(context.Background(), opts)
	if err != nil {
		t.Fatalf("create session: %v", err)
	}
	return s
}
