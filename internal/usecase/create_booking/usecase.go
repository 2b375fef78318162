package create_booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-TutorBooking/internal/domain"
	submissionRepo "github.com/m04kA/SMC-TutorBooking/internal/infra/storage/submission"
	"github.com/m04kA/SMC-TutorBooking/internal/integrations/tutorapi"
	"github.com/m04kA/SMC-TutorBooking/internal/service/blocks"
	"github.com/m04kA/SMC-TutorBooking/internal/service/quote"
)

const (
	resultSuccess = "success"
	resultError   = "error"
	resultResumed = "resumed"
)

// UseCase use case для отправки бронирования
type UseCase struct {
	client      BookingClient
	journal     SubmissionRepository
	invalidator AgendaInvalidator
	metrics     Metrics
	logger      Logger
}

// NewUseCase создает новый экземпляр use case
// journal может быть nil: тогда попытки не журналируются и повторная отправка не распознается
// invalidator может быть nil, если общий кэш расписания выключен
func NewUseCase(client BookingClient, journal SubmissionRepository, invalidator AgendaInvalidator, metrics Metrics, logger Logger) *UseCase {
	return &UseCase{
		client:      client,
		journal:     journal,
		invalidator: invalidator,
		metrics:     metrics,
		logger:      logger,
	}
}

// Execute выполняет use case отправки бронирования
// Блоки строятся заново по индексу слотов; исчезнувший слот блокирует отправку
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateBooking: session=%s, subject=%d, days=%d", req.SessionID, req.SubjectID, len(req.Selections))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		return nil, err
	}

	loc := req.Location
	if loc == nil {
		loc = time.UTC
	}

	// 2. Строим блоки строго: каждый выбранный час должен быть доступен
	built := make([]domain.Block, 0)
	for _, sel := range req.Selections {
		dayBlocks, err := blocks.BuildBlocks(sel.DateKey, sel.Hours, req.Slots)
		if err != nil {
			uc.logger.Warn("CreateBooking: session=%s selection on %s is stale: %v", req.SessionID, sel.DateKey, err)
			return nil, err
		}
		built = append(built, dayBlocks...)
	}

	items, err := quote.ItemsFromBlocks(built, loc)
	if err != nil {
		return nil, err
	}
	quoteReq := domain.QuoteRequest{Items: items}
	signature := quote.Signature(quoteReq)
	hours := totalHours(req.Selections)

	// 3. Цена: котировка, если она получена ровно для этого набора, иначе ставка за час
	priceID := PriceIDHourly
	var matching *domain.Quote
	if req.Quote != nil && req.Quote.Signature == signature {
		priceID = PriceIDQuote
		matching = req.Quote
	}
	total := quote.Total(matching, req.HourlyRateCents, hours)

	// 4. Повторная отправка того же набора в этой же сессии возвращает сохраненный результат
	if prev := uc.findSucceeded(ctx, req.SessionID, req.SubjectID, signature); prev != nil {
		uc.logger.Info("CreateBooking: session=%s resubmitted signature already booked as submission id=%d", req.SessionID, prev.ID)
		uc.observe(resultResumed)
		return &Response{
			RedirectURL:      *prev.RedirectURL,
			TotalAmountCents: prev.TotalAmountCents,
			TotalHours:       prev.TotalHours,
			PriceID:          priceID,
			Blocks:           built,
			Resumed:          true,
		}, nil
	}

	// 5. Журналируем попытку
	entryID := uc.journalPending(ctx, &domain.Submission{
		SessionID:        req.SessionID,
		Kind:             domain.SubmissionBooking,
		SubjectID:        req.SubjectID,
		Signature:        signature,
		AvailabilityIDs:  uniqueAvailabilityIDs(built),
		TotalHours:       hours,
		TotalAmountCents: total,
		Status:           domain.SubmissionPending,
	})

	// 6. Отправляем бронирование
	wireItems := tutorapi.FromDomainItems(items)
	redirect, err := uc.client.CreateBooking(ctx, &tutorapi.CreateBookingRequest{
		AvailabilityID:  built[0].AvailabilityID,
		PriceID:         priceID,
		StartTime:       wireItems[0].StartTime,
		EndTime:         wireItems[len(wireItems)-1].EndTime,
		TotalHours:      hours,
		AvailabilityIDs: uniqueAvailabilityIDs(built),
		Items:           wireItems,
	})
	if err != nil {
		uc.logger.Error("CreateBooking: session=%s, subject=%d: upstream rejected booking: %v", req.SessionID, req.SubjectID, err)
		uc.journalFailed(ctx, entryID, err)
		uc.observe(resultError)
		return nil, fmt.Errorf("%w: create booking: %v", domain.ErrSubmission, err)
	}

	uc.journalSucceeded(ctx, entryID, redirect)
	uc.invalidate(ctx, req.SubjectID)
	uc.observe(resultSuccess)
	uc.logger.Info("CreateBooking: session=%s, subject=%d booked %d hours in %d blocks, total=%d (%s)",
		req.SessionID, req.SubjectID, hours, len(built), total, priceID)

	return &Response{
		RedirectURL:      redirect,
		TotalAmountCents: total,
		TotalHours:       hours,
		PriceID:          priceID,
		Blocks:           built,
	}, nil
}

// Ошибки журнала не блокируют бронирование

func (uc *UseCase) findSucceeded(ctx context.Context, sessionID string, subjectID int64, signature domain.QuoteSignature) *domain.Submission {
	if uc.journal == nil {
		return nil
	}
	prev, err := uc.journal.FindSucceeded(ctx, sessionID, domain.SubmissionBooking, subjectID, signature)
	if err != nil {
		if !errors.Is(err, submissionRepo.ErrSubmissionNotFound) {
			uc.logger.Warn("CreateBooking: journal lookup failed: %v", err)
		}
		return nil
	}
	if prev.RedirectURL == nil || *prev.RedirectURL == "" {
		return nil
	}
	return prev
}

func (uc *UseCase) journalPending(ctx context.Context, s *domain.Submission) int64 {
	if uc.journal == nil {
		return 0
	}
	created, err := uc.journal.Create(ctx, s)
	if err != nil {
		uc.logger.Warn("CreateBooking: failed to journal submission for session=%s: %v", s.SessionID, err)
		return 0
	}
	return created.ID
}

func (uc *UseCase) journalSucceeded(ctx context.Context, id int64, redirect string) {
	if uc.journal == nil || id == 0 {
		return
	}
	if err := uc.journal.MarkSucceeded(ctx, id, &redirect); err != nil {
		uc.logger.Warn("CreateBooking: failed to mark submission id=%d succeeded: %v", id, err)
	}
}

func (uc *UseCase) journalFailed(ctx context.Context, id int64, cause error) {
	if uc.journal == nil || id == 0 {
		return
	}
	if err := uc.journal.MarkFailed(ctx, id, cause.Error()); err != nil {
		uc.logger.Warn("CreateBooking: failed to mark submission id=%d failed: %v", id, err)
	}
}

// Занятые часы должны исчезнуть из общего кэша сразу, а не по истечении TTL
func (uc *UseCase) invalidate(ctx context.Context, subjectID int64) {
	if uc.invalidator == nil {
		return
	}
	if err := uc.invalidator.Invalidate(ctx, subjectID); err != nil {
		uc.logger.Warn("CreateBooking: failed to invalidate agenda cache for subject=%d: %v", subjectID, err)
	}
}

func (uc *UseCase) observe(result string) {
	if uc.metrics != nil {
		uc.metrics.ObserveSubmission(string(domain.SubmissionBooking), result)
	}
}
