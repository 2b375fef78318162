package reschedule_booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-TutorBooking/internal/domain"
	submissionRepo "github.com/m04kA/SMC-TutorBooking/internal/infra/storage/submission"
	"github.com/m04kA/SMC-TutorBooking/internal/service/blocks"
	"github.com/m04kA/SMC-TutorBooking/internal/service/quote"
	"github.com/m04kA/SMC-TutorBooking/pkg/ptr"
)

const (
	resultSuccess = "success"
	resultError   = "error"
	resultResumed = "resumed"
)

// UseCase use case для переноса бронирования
type UseCase struct {
	client      RescheduleClient
	guard       ConflictGuard
	journal     SubmissionRepository
	invalidator AgendaInvalidator
	metrics     Metrics
	logger      Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(client RescheduleClient, guard ConflictGuard, journal SubmissionRepository, invalidator AgendaInvalidator, metrics Metrics, logger Logger) *UseCase {
	return &UseCase{
		client:      client,
		guard:       guard,
		journal:     journal,
		invalidator: invalidator,
		metrics:     metrics,
		logger:      logger,
	}
}

// Execute выполняет use case переноса бронирования
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("RescheduleBooking: validation failed: %v", err)
		return nil, err
	}

	rc := req.Validator.Context()
	block := *req.Block
	uc.logger.Info("RescheduleBooking: session=%s, booking=%d, new block %s %02d:00-%02d:00",
		req.SessionID, rc.BookingID, block.DateKey, block.StartHour, block.EndHour)

	loc := req.Location
	if loc == nil {
		loc = time.UTC
	}

	// 2. Новый блок начинается строго после окончания текущего бронирования
	if err := req.Validator.ValidateConfirm(block); err != nil {
		uc.logger.Warn("RescheduleBooking: booking=%d: %v", rc.BookingID, err)
		return nil, err
	}

	// 3. Все часы блока все еще доступны
	rebuilt, err := blocks.BuildBlocks(block.DateKey, blockHours(block), req.Slots)
	if err != nil {
		uc.logger.Warn("RescheduleBooking: booking=%d: %v", rc.BookingID, err)
		return nil, err
	}

	items, err := quote.ItemsFromBlocks(rebuilt, loc)
	if err != nil {
		return nil, err
	}
	start, end := items[0].Start, items[len(items)-1].End

	// 4. Интервал не пересекается с чужими бронированиями
	if err := uc.guard.CheckRange(req.Slots.OccupiedSlots(), start, end); err != nil {
		return nil, err
	}

	signature := quote.Signature(domain.QuoteRequest{Items: items})

	// 5. Повторный перенос на то же время в этой же сессии уже выполнен
	if uc.alreadyDone(ctx, req.SessionID, req.SubjectID, rc.BookingID, signature) {
		uc.logger.Info("RescheduleBooking: booking=%d already moved to %s", rc.BookingID, start.Format(time.RFC3339))
		uc.observe(resultResumed)
		return &Response{BookingID: rc.BookingID, Start: start, End: end, Resumed: true}, nil
	}

	ids := make([]int64, 0, len(rebuilt))
	for _, b := range rebuilt {
		ids = append(ids, b.AvailabilityID)
	}
	entryID := uc.journalPending(ctx, &domain.Submission{
		SessionID:       req.SessionID,
		Kind:            domain.SubmissionReschedule,
		SubjectID:       req.SubjectID,
		BookingID:       ptr.Ptr(rc.BookingID),
		Signature:       signature,
		AvailabilityIDs: ids,
		TotalHours:      block.Hours(),
		Status:          domain.SubmissionPending,
	})

	// 6. Отправляем перенос
	if err := uc.client.Reschedule(ctx, rc.BookingID, items); err != nil {
		uc.logger.Error("RescheduleBooking: booking=%d: upstream rejected reschedule: %v", rc.BookingID, err)
		uc.journalFailed(ctx, entryID, err)
		uc.observe(resultError)
		return nil, fmt.Errorf("%w: reschedule booking %d: %v", domain.ErrSubmission, rc.BookingID, err)
	}

	uc.journalSucceeded(ctx, entryID)
	uc.invalidate(ctx, req.SubjectID)
	uc.observe(resultSuccess)
	uc.logger.Info("RescheduleBooking: booking=%d moved to %s", rc.BookingID, start.Format(time.RFC3339))

	return &Response{BookingID: rc.BookingID, Start: start, End: end}, nil
}

func (uc *UseCase) alreadyDone(ctx context.Context, sessionID string, subjectID, bookingID int64, signature domain.QuoteSignature) bool {
	if uc.journal == nil {
		return false
	}
	prev, err := uc.journal.FindSucceeded(ctx, sessionID, domain.SubmissionReschedule, subjectID, signature)
	if err != nil {
		if !errors.Is(err, submissionRepo.ErrSubmissionNotFound) {
			uc.logger.Warn("RescheduleBooking: journal lookup failed: %v", err)
		}
		return false
	}
	return prev.BookingID != nil && *prev.BookingID == bookingID
}

func (uc *UseCase) journalPending(ctx context.Context, s *domain.Submission) int64 {
	if uc.journal == nil {
		return 0
	}
	created, err := uc.journal.Create(ctx, s)
	if err != nil {
		uc.logger.Warn("RescheduleBooking: failed to journal submission for session=%s: %v", s.SessionID, err)
		return 0
	}
	return created.ID
}

func (uc *UseCase) journalSucceeded(ctx context.Context, id int64) {
	if uc.journal == nil || id == 0 {
		return
	}
	if err := uc.journal.MarkSucceeded(ctx, id, nil); err != nil {
		uc.logger.Warn("RescheduleBooking: failed to mark submission id=%d succeeded: %v", id, err)
	}
}

func (uc *UseCase) journalFailed(ctx context.Context, id int64, cause error) {
	if uc.journal == nil || id == 0 {
		return
	}
	if err := uc.journal.MarkFailed(ctx, id, cause.Error()); err != nil {
		uc.logger.Warn("RescheduleBooking: failed to mark submission id=%d failed: %v", id, err)
	}
}

func (uc *UseCase) invalidate(ctx context.Context, subjectID int64) {
	if uc.invalidator == nil {
		return
	}
	if err := uc.invalidator.Invalidate(ctx, subjectID); err != nil {
		uc.logger.Warn("RescheduleBooking: failed to invalidate agenda cache for subject=%d: %v", subjectID, err)
	}
}

func (uc *UseCase) observe(result string) {
	if uc.metrics != nil {
		uc.metrics.ObserveSubmission(string(domain.SubmissionReschedule), result)
	}
}
