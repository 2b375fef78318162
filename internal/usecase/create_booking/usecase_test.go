package create_booking

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-TutorBooking/internal/domain"
	submissionRepo "github.com/m04kA/SMC-TutorBooking/internal/infra/storage/submission"
	"github.com/m04kA/SMC-TutorBooking/internal/integrations/tutorapi"
	"github.com/m04kA/SMC-TutorBooking/internal/service/quote"
	"github.com/m04kA/SMC-TutorBooking/internal/service/slotindex"
	"github.com/m04kA/SMC-TutorBooking/pkg/logger"
	"github.com/m04kA/SMC-TutorBooking/pkg/types"
)

type fakeClient struct {
	calls    int
	err      error
	redirect string
	last     *tutorapi.CreateBookingRequest
}

func (f *fakeClient) CreateBooking(_ context.Context, req *tutorapi.CreateBookingRequest) (string, error) {
	f.calls++
	f.last = req
	if f.err != nil {
		return "", f.err
	}
	return f.redirect, nil
}

type fakeInvalidator struct {
	subjects []int64
	err      error
}

func (f *fakeInvalidator) Invalidate(_ context.Context, subjectID int64) error {
	f.subjects = append(f.subjects, subjectID)
	return f.err
}

type fakeJournal struct {
	entries []*domain.Submission
}

func (j *fakeJournal) Create(_ context.Context, s *domain.Submission) (*domain.Submission, error) {
	copied := *s
	copied.ID = int64(len(j.entries) + 1)
	j.entries = append(j.entries, &copied)
	return &copied, nil
}

func (j *fakeJournal) FindSucceeded(_ context.Context, sessionID string, kind domain.SubmissionKind, subjectID int64, sig domain.QuoteSignature) (*domain.Submission, error) {
	for i := len(j.entries) - 1; i >= 0; i-- {
		e := j.entries[i]
		if e.SessionID == sessionID && e.Kind == kind && e.SubjectID == subjectID && e.Signature == sig && e.Status == domain.SubmissionSucceeded {
			return e, nil
		}
	}
	return nil, submissionRepo.ErrSubmissionNotFound
}

func (j *fakeJournal) MarkSucceeded(_ context.Context, id int64, redirectURL *string) error {
	e := j.entries[id-1]
	e.Status = domain.SubmissionSucceeded
	e.RedirectURL = redirectURL
	return nil
}

func (j *fakeJournal) MarkFailed(_ context.Context, id int64, message string) error {
	e := j.entries[id-1]
	e.Status = domain.SubmissionFailed
	e.ErrorMessage = &message
	return nil
}

// 2024-06-03: 09:00, 10:00 (id 1), 14:00 (id 3) доступны; 11:00 занят
func index() *slotindex.Index {
	date := "2024-06-03"
	idx := slotindex.New()
	idx.Merge(slotindex.FromAgenda(7, "2024-06", []domain.DayAgenda{{
		DateKey: date,
		Slots: []domain.TimeSlot{
			{DateKey: date, Hour: "09:00", AvailabilityID: 1, Status: domain.SlotAvailable},
			{DateKey: date, Hour: "10:00", AvailabilityID: 1, Status: domain.SlotAvailable},
			{DateKey: date, Hour: "11:00", Status: domain.SlotOccupied},
			{DateKey: date, Hour: "14:00", AvailabilityID: 3, Status: domain.SlotAvailable},
		},
	}}))
	return idx
}

func request(hours ...types.HourString) *Request {
	return &Request{
		SessionID:       "sess-1",
		SubjectID:       7,
		Selections:      []domain.DaySelection{{DateKey: "2024-06-03", Hours: hours}},
		Slots:           index(),
		Location:        time.UTC,
		HourlyRateCents: 5000,
	}
}

func TestUseCase_Execute_FlatRate(t *testing.T) {
	client := &fakeClient{redirect: "https://pay.example.com/1"}
	journal := &fakeJournal{}
	uc := NewUseCase(client, journal, nil, nil, logger.NewNop())

	resp, err := uc.Execute(context.Background(), request("09:00", "10:00", "14:00"))
	require.NoError(t, err)

	assert.Equal(t, "https://pay.example.com/1", resp.RedirectURL)
	assert.Equal(t, int64(15000), resp.TotalAmountCents)
	assert.Equal(t, PriceIDHourly, resp.PriceID)
	assert.Len(t, resp.Blocks, 2)

	require.NotNil(t, client.last)
	assert.Equal(t, int64(1), client.last.AvailabilityID)
	assert.Equal(t, []int64{1, 3}, client.last.AvailabilityIDs)
	assert.Equal(t, "2024-06-03T09:00:00Z", client.last.StartTime)
	assert.Equal(t, "2024-06-03T15:00:00Z", client.last.EndTime)
	assert.Equal(t, 3, client.last.TotalHours)
	assert.Len(t, client.last.Items, 2)

	require.Len(t, journal.entries, 1)
	assert.Equal(t, domain.SubmissionSucceeded, journal.entries[0].Status)
}

func TestUseCase_Execute_UsesMatchingQuote(t *testing.T) {
	client := &fakeClient{redirect: "https://pay.example.com/1"}
	uc := NewUseCase(client, nil, nil, nil, logger.NewNop())

	req := request("09:00", "10:00")
	start := time.Date(2024, 6, 3, 9, 0, 0, 0, time.UTC)
	sig := quote.Signature(domain.QuoteRequest{Items: []domain.QuoteItem{
		{AvailabilityID: 1, Start: start, End: start.Add(2 * time.Hour)},
	}})
	req.Quote = &domain.Quote{Signature: sig, TotalAmountCents: 9000}

	resp, err := uc.Execute(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, int64(9000), resp.TotalAmountCents)
	assert.Equal(t, PriceIDQuote, client.last.PriceID)
}

func TestUseCase_Execute_StaleQuoteIgnored(t *testing.T) {
	client := &fakeClient{redirect: "https://pay.example.com/1"}
	uc := NewUseCase(client, nil, nil, nil, logger.NewNop())

	req := request("09:00")
	req.Quote = &domain.Quote{Signature: "other", TotalAmountCents: 1}

	resp, err := uc.Execute(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, int64(5000), resp.TotalAmountCents)
	assert.Equal(t, PriceIDHourly, resp.PriceID)
}

func TestUseCase_Execute_StaleSelection(t *testing.T) {
	client := &fakeClient{redirect: "https://pay.example.com/1"}
	uc := NewUseCase(client, nil, nil, nil, logger.NewNop())

	_, err := uc.Execute(context.Background(), request("10:00", "11:00"))
	assert.ErrorIs(t, err, domain.ErrStaleSelection)
	assert.Equal(t, 0, client.calls)
}

func TestUseCase_Execute_EmptySelection(t *testing.T) {
	uc := NewUseCase(&fakeClient{}, nil, nil, nil, logger.NewNop())

	_, err := uc.Execute(context.Background(), request())
	assert.ErrorIs(t, err, domain.ErrEmptySelection)
}

func TestUseCase_Execute_InvalidInput(t *testing.T) {
	uc := NewUseCase(&fakeClient{}, nil, nil, nil, logger.NewNop())

	req := request("09:00")
	req.SubjectID = 0
	_, err := uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestUseCase_Execute_UpstreamFailure(t *testing.T) {
	client := &fakeClient{err: errors.New("payment provider down")}
	journal := &fakeJournal{}
	uc := NewUseCase(client, journal, nil, nil, logger.NewNop())

	_, err := uc.Execute(context.Background(), request("09:00"))
	require.ErrorIs(t, err, domain.ErrSubmission)

	require.Len(t, journal.entries, 1)
	assert.Equal(t, domain.SubmissionFailed, journal.entries[0].Status)
	require.NotNil(t, journal.entries[0].ErrorMessage)
	assert.Contains(t, *journal.entries[0].ErrorMessage, "payment provider down")
}

func TestUseCase_Execute_IdempotentResubmit(t *testing.T) {
	client := &fakeClient{redirect: "https://pay.example.com/1"}
	journal := &fakeJournal{}
	uc := NewUseCase(client, journal, nil, nil, logger.NewNop())

	first, err := uc.Execute(context.Background(), request("09:00", "14:00"))
	require.NoError(t, err)

	// Порядок выбора не влияет на подпись
	second, err := uc.Execute(context.Background(), request("14:00", "09:00"))
	require.NoError(t, err)

	assert.True(t, second.Resumed)
	assert.Equal(t, first.RedirectURL, second.RedirectURL)
	assert.Equal(t, 1, client.calls)
	assert.Len(t, journal.entries, 1)
}

func TestUseCase_Execute_SameSetInAnotherSessionIsBooked(t *testing.T) {
	client := &fakeClient{redirect: "https://pay.example.com/1"}
	journal := &fakeJournal{}
	uc := NewUseCase(client, journal, nil, nil, logger.NewNop())

	first, err := uc.Execute(context.Background(), request("09:00", "14:00"))
	require.NoError(t, err)

	// Другая сессия с тем же набором часов получает собственную оплату
	client.redirect = "https://pay.example.com/2"
	req := request("09:00", "14:00")
	req.SessionID = "sess-2"
	second, err := uc.Execute(context.Background(), req)
	require.NoError(t, err)

	assert.False(t, second.Resumed)
	assert.Equal(t, "https://pay.example.com/2", second.RedirectURL)
	assert.NotEqual(t, first.RedirectURL, second.RedirectURL)
	assert.Equal(t, 2, client.calls)
	require.Len(t, journal.entries, 2)
	assert.Equal(t, "sess-2", journal.entries[1].SessionID)
}

func TestUseCase_Execute_InvalidatesAgendaAfterBooking(t *testing.T) {
	client := &fakeClient{redirect: "https://pay.example.com/1"}
	invalidator := &fakeInvalidator{}
	uc := NewUseCase(client, nil, invalidator, nil, logger.NewNop())

	_, err := uc.Execute(context.Background(), request("09:00"))
	require.NoError(t, err)
	assert.Equal(t, []int64{7}, invalidator.subjects)

	// Ошибка сброса кэша не отменяет бронирование
	invalidator.err = errors.New("redis down")
	resp, err := uc.Execute(context.Background(), request("10:00"))
	require.NoError(t, err)
	assert.Equal(t, "https://pay.example.com/1", resp.RedirectURL)
	assert.Equal(t, []int64{7, 7}, invalidator.subjects)
}

func TestUseCase_Execute_FailureKeepsAgendaCache(t *testing.T) {
	client := &fakeClient{err: errors.New("payment provider down")}
	invalidator := &fakeInvalidator{}
	uc := NewUseCase(client, nil, invalidator, nil, logger.NewNop())

	_, err := uc.Execute(context.Background(), request("09:00"))
	require.ErrorIs(t, err, domain.ErrSubmission)
	assert.Empty(t, invalidator.subjects)
}
