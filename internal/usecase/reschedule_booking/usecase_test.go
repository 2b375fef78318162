package reschedule_booking

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-TutorBooking/internal/domain"
	submissionRepo "github.com/m04kA/SMC-TutorBooking/internal/infra/storage/submission"
	"github.com/m04kA/SMC-TutorBooking/internal/service/conflict"
	"github.com/m04kA/SMC-TutorBooking/internal/service/reschedule"
	"github.com/m04kA/SMC-TutorBooking/internal/service/slotindex"
	"github.com/m04kA/SMC-TutorBooking/pkg/logger"
)

type fakeClient struct {
	calls     int
	err       error
	bookingID int64
	items     []domain.QuoteItem
}

func (f *fakeClient) Reschedule(_ context.Context, bookingID int64, items []domain.QuoteItem) error {
	f.calls++
	f.bookingID = bookingID
	f.items = items
	return f.err
}

type fakeInvalidator struct {
	subjects []int64
}

func (f *fakeInvalidator) Invalidate(_ context.Context, subjectID int64) error {
	f.subjects = append(f.subjects, subjectID)
	return nil
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

func (j *fakeJournal) MarkSucceeded(_ context.Context, id int64, _ *string) error {
	j.entries[id-1].Status = domain.SubmissionSucceeded
	return nil
}

func (j *fakeJournal) MarkFailed(_ context.Context, id int64, message string) error {
	j.entries[id-1].Status = domain.SubmissionFailed
	j.entries[id-1].ErrorMessage = &message
	return nil
}

// Текущее бронирование 2024-05-01 09:00-10:00; 11:00, 12:00, 14:00 и 15:00 свободны, 13:00 занят
func setup(t *testing.T) (*reschedule.Validator, *slotindex.Index) {
	t.Helper()
	date := "2024-05-01"
	idx := slotindex.New()
	idx.Merge(slotindex.FromAgenda(4, "2024-05", []domain.DayAgenda{{
		DateKey: date,
		Slots: []domain.TimeSlot{
			{DateKey: date, Hour: "09:00", Status: domain.SlotOccupied},
			{DateKey: date, Hour: "11:00", AvailabilityID: 21, Status: domain.SlotAvailable},
			{DateKey: date, Hour: "12:00", AvailabilityID: 21, Status: domain.SlotAvailable},
			{DateKey: date, Hour: "13:00", Status: domain.SlotOccupied},
			{DateKey: date, Hour: "14:00", AvailabilityID: 22, Status: domain.SlotAvailable},
			{DateKey: date, Hour: "15:00", AvailabilityID: 22, Status: domain.SlotAvailable},
		},
	}}))

	v, err := reschedule.NewValidator(domain.RescheduleContext{
		BookingID:     77,
		CurrentStart:  time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC),
		CurrentEnd:    time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
		RequiredHours: 2,
	}, time.UTC)
	require.NoError(t, err)
	return v, idx
}

func newUseCase(client RescheduleClient, journal SubmissionRepository) *UseCase {
	return NewUseCase(client, conflict.NewGuard(logger.NewNop()), journal, nil, nil, logger.NewNop())
}

func TestUseCase_Execute(t *testing.T) {
	v, idx := setup(t)
	client := &fakeClient{}
	journal := &fakeJournal{}
	uc := newUseCase(client, journal)

	block, err := v.SelectStart("2024-05-01", "11:00", idx)
	require.NoError(t, err)

	resp, err := uc.Execute(context.Background(), &Request{
		SessionID: "sess-1", SubjectID: 4, Validator: v, Block: &block, Slots: idx, Location: time.UTC,
	})
	require.NoError(t, err)

	assert.Equal(t, int64(77), resp.BookingID)
	assert.Equal(t, time.Date(2024, 5, 1, 11, 0, 0, 0, time.UTC), resp.Start)
	assert.Equal(t, time.Date(2024, 5, 1, 13, 0, 0, 0, time.UTC), resp.End)
	assert.Equal(t, int64(77), client.bookingID)
	require.Len(t, client.items, 1)
	assert.Equal(t, int64(21), client.items[0].AvailabilityID)

	require.Len(t, journal.entries, 1)
	assert.Equal(t, domain.SubmissionSucceeded, journal.entries[0].Status)
	require.NotNil(t, journal.entries[0].BookingID)
	assert.Equal(t, int64(77), *journal.entries[0].BookingID)
}

func TestUseCase_Execute_NotAfterBoundary(t *testing.T) {
	v, idx := setup(t)
	client := &fakeClient{}
	uc := newUseCase(client, nil)

	block := domain.Block{DateKey: "2024-05-01", StartHour: 10, EndHour: 12, AvailabilityID: 21}
	_, err := uc.Execute(context.Background(), &Request{
		SessionID: "sess-1", SubjectID: 4, Validator: v, Block: &block, Slots: idx,
	})
	assert.ErrorIs(t, err, domain.ErrNotAfterBoundary)
	assert.Equal(t, 0, client.calls)
}

func TestUseCase_Execute_StaleBlock(t *testing.T) {
	v, idx := setup(t)
	client := &fakeClient{}
	uc := newUseCase(client, nil)

	block, err := v.SelectStart("2024-05-01", "11:00", idx)
	require.NoError(t, err)

	// Месяц перезагружен: 12:00 заняли
	idx.ReplaceMonth(slotindex.FromAgenda(4, "2024-05", []domain.DayAgenda{{
		DateKey: "2024-05-01",
		Slots: []domain.TimeSlot{
			{DateKey: "2024-05-01", Hour: "11:00", AvailabilityID: 21, Status: domain.SlotAvailable},
			{DateKey: "2024-05-01", Hour: "12:00", Status: domain.SlotOccupied},
		},
	}}))

	_, err = uc.Execute(context.Background(), &Request{
		SessionID: "sess-1", SubjectID: 4, Validator: v, Block: &block, Slots: idx,
	})
	assert.ErrorIs(t, err, domain.ErrStaleSelection)
	assert.Equal(t, 0, client.calls)
}

func TestUseCase_Execute_EmptyBlock(t *testing.T) {
	v, idx := setup(t)
	uc := newUseCase(&fakeClient{}, nil)

	_, err := uc.Execute(context.Background(), &Request{SessionID: "sess-1", SubjectID: 4, Validator: v, Slots: idx})
	assert.ErrorIs(t, err, domain.ErrEmptySelection)
}

func TestUseCase_Execute_UpstreamFailure(t *testing.T) {
	v, idx := setup(t)
	client := &fakeClient{err: errors.New("booking locked")}
	journal := &fakeJournal{}
	uc := newUseCase(client, journal)

	block, err := v.SelectStart("2024-05-01", "11:00", idx)
	require.NoError(t, err)

	_, err = uc.Execute(context.Background(), &Request{
		SessionID: "sess-1", SubjectID: 4, Validator: v, Block: &block, Slots: idx,
	})
	require.ErrorIs(t, err, domain.ErrSubmission)
	assert.Equal(t, domain.SubmissionFailed, journal.entries[0].Status)
}

func TestUseCase_Execute_RepeatIsResumed(t *testing.T) {
	v, idx := setup(t)
	client := &fakeClient{}
	journal := &fakeJournal{}
	uc := newUseCase(client, journal)

	block, err := v.SelectStart("2024-05-01", "11:00", idx)
	require.NoError(t, err)
	req := &Request{SessionID: "sess-1", SubjectID: 4, Validator: v, Block: &block, Slots: idx}

	_, err = uc.Execute(context.Background(), req)
	require.NoError(t, err)
	resp, err := uc.Execute(context.Background(), req)
	require.NoError(t, err)

	assert.True(t, resp.Resumed)
	assert.Equal(t, 1, client.calls)
}

func TestUseCase_Execute_MoveBackToEarlierTimeIsSent(t *testing.T) {
	v, idx := setup(t)
	client := &fakeClient{}
	journal := &fakeJournal{}
	uc := newUseCase(client, journal)

	x, err := v.SelectStart("2024-05-01", "11:00", idx)
	require.NoError(t, err)
	y, err := v.SelectStart("2024-05-01", "14:00", idx)
	require.NoError(t, err)

	// X, затем Y, затем снова X: каждый перенос выполняется в своей сессии
	_, err = uc.Execute(context.Background(), &Request{SessionID: "sess-1", SubjectID: 4, Validator: v, Block: &x, Slots: idx})
	require.NoError(t, err)
	_, err = uc.Execute(context.Background(), &Request{SessionID: "sess-2", SubjectID: 4, Validator: v, Block: &y, Slots: idx})
	require.NoError(t, err)
	resp, err := uc.Execute(context.Background(), &Request{SessionID: "sess-3", SubjectID: 4, Validator: v, Block: &x, Slots: idx})
	require.NoError(t, err)

	assert.False(t, resp.Resumed)
	assert.Equal(t, 3, client.calls)
	require.Len(t, client.items, 1)
	assert.Equal(t, int64(21), client.items[0].AvailabilityID)
	assert.Len(t, journal.entries, 3)
}

func TestUseCase_Execute_InvalidatesAgendaAfterReschedule(t *testing.T) {
	v, idx := setup(t)
	invalidator := &fakeInvalidator{}
	client := &fakeClient{}
	uc := NewUseCase(client, conflict.NewGuard(logger.NewNop()), nil, invalidator, nil, logger.NewNop())

	block, err := v.SelectStart("2024-05-01", "11:00", idx)
	require.NoError(t, err)
	req := &Request{SessionID: "sess-1", SubjectID: 4, Validator: v, Block: &block, Slots: idx}

	_, err = uc.Execute(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, []int64{4}, invalidator.subjects)

	// Отказ бэкенда не сбрасывает кэш
	client.err = errors.New("booking locked")
	_, err = uc.Execute(context.Background(), req)
	require.ErrorIs(t, err, domain.ErrSubmission)
	assert.Equal(t, []int64{4}, invalidator.subjects)
}
