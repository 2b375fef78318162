package manage_availability

import (
	"context"
	"fmt"
	"time"

	"github.com/m04kA/SMC-TutorBooking/internal/domain"
	"github.com/m04kA/SMC-TutorBooking/internal/integrations/tutorapi"
	"github.com/m04kA/SMC-TutorBooking/internal/service/blocks"
	"github.com/m04kA/SMC-TutorBooking/internal/service/calendar"
)

// UseCase use case редактирования недельной доступности преподавателем
type UseCase struct {
	client      AvailabilityClient
	guard       ConflictGuard
	invalidator AgendaInvalidator
	logger      Logger
}

// NewUseCase создает новый экземпляр use case
// invalidator может быть nil, если общий кэш расписания выключен
func NewUseCase(client AvailabilityClient, guard ConflictGuard, invalidator AgendaInvalidator, logger Logger) *UseCase {
	return &UseCase{
		client:      client,
		guard:       guard,
		invalidator: invalidator,
		logger:      logger,
	}
}

// PublishHours сворачивает часы в непрерывные диапазоны и создает по записи доступности на каждый
func (uc *UseCase) PublishHours(ctx context.Context, req *PublishRequest) (*PublishResponse, error) {
	uc.logger.Info("PublishHours: preference=%d, day=%d, hours=%v", req.PreferenceID, req.DayOfWeek, req.Hours)

	weekday, err := validatePublishRequest(req)
	if err != nil {
		uc.logger.Warn("PublishHours: validation failed: %v", err)
		return nil, err
	}

	ranges, err := blocks.ConsolidateHours(req.Hours)
	if err != nil {
		uc.logger.Warn("PublishHours: invalid hours: %v", err)
		return nil, err
	}

	created := make([]domain.HourRange, 0, len(ranges))
	for _, r := range ranges {
		err := uc.client.CreateAvailability(ctx, &tutorapi.CreateAvailabilityRequest{
			SubjectPreferenceID: req.PreferenceID,
			DayOfWeek:           domain.ISOWeekday(weekday),
			StartTime:           string(r.FromString()),
			EndTime:             string(r.ToString()),
		})
		if err != nil {
			uc.logger.Error("PublishHours: preference=%d, %s %s-%s failed after %d of %d ranges: %v",
				req.PreferenceID, weekday, r.FromString(), r.ToString(), len(created), len(ranges), err)
			uc.invalidate(ctx, req.SubjectID)
			return nil, fmt.Errorf("%w: create availability %s-%s: %v", domain.ErrSubmission, r.FromString(), r.ToString(), err)
		}
		created = append(created, r)
	}

	uc.invalidate(ctx, req.SubjectID)
	uc.logger.Info("PublishHours: preference=%d, %s published %d ranges", req.PreferenceID, weekday, len(created))
	return &PublishResponse{Ranges: created}, nil
}

// LoadWeek загружает семь дней расписания начиная с from
// День считается включенным, если в нем есть хотя бы один слот
func (uc *UseCase) LoadWeek(ctx context.Context, subjectID int64, from time.Time) (*domain.WeekSchedule, error) {
	if subjectID <= 0 {
		return nil, fmt.Errorf("%w: subjectID must be positive", domain.ErrInvalidInput)
	}
	if from.IsZero() {
		return nil, fmt.Errorf("%w: week start is required", domain.ErrInvalidInput)
	}

	start := calendar.StartOfDay(from)
	end := start.AddDate(0, 0, 6)

	days, err := uc.client.GetAgenda(ctx, subjectID, start, end)
	if err != nil {
		uc.logger.Warn("LoadWeek: subject=%d from %s: %v", subjectID, calendar.DateKey(start), err)
		return nil, fmt.Errorf("%w: subject=%d week %s: %v", domain.ErrFetch, subjectID, calendar.DateKey(start), err)
	}

	week := &domain.WeekSchedule{
		SubjectID:   subjectID,
		EnabledDays: make(map[time.Weekday]bool, 7),
		Slots:       make([]domain.TimeSlot, 0),
	}
	for d := 0; d < 7; d++ {
		week.EnabledDays[start.AddDate(0, 0, d).Weekday()] = false
	}
	for _, day := range days {
		if len(day.Slots) == 0 {
			continue
		}
		weekday, err := day.Slots[0].Weekday()
		if err != nil {
			continue
		}
		week.EnabledDays[weekday] = true
		week.Slots = append(week.Slots, day.Slots...)
	}

	return week, nil
}

// RemoveSlot удаляет запись доступности, если ни один ее час не забронирован
func (uc *UseCase) RemoveSlot(ctx context.Context, req *RemoveSlotRequest) error {
	uc.logger.Info("RemoveSlot: subject=%d, availability=%d", req.SubjectID, req.AvailabilityID)

	if err := validateRemoveSlotRequest(req); err != nil {
		uc.logger.Warn("RemoveSlot: validation failed: %v", err)
		return err
	}

	week, err := uc.LoadWeek(ctx, req.SubjectID, req.WeekFrom)
	if err != nil {
		return err
	}

	found := false
	for _, slot := range week.Slots {
		if slot.AvailabilityID != req.AvailabilityID {
			continue
		}
		found = true
		weekday, err := slot.Weekday()
		if err != nil {
			continue
		}
		if err := uc.guard.CheckSlotRemoval(week, weekday, slot.Hour); err != nil {
			return err
		}
	}
	if !found {
		uc.logger.Warn("RemoveSlot: availability=%d not found in week of %s", req.AvailabilityID, calendar.DateKey(req.WeekFrom))
		return fmt.Errorf("%w: availability %d is not in the loaded week", domain.ErrInvalidInput, req.AvailabilityID)
	}

	if err := uc.client.DeleteAvailability(ctx, req.AvailabilityID); err != nil {
		uc.logger.Error("RemoveSlot: availability=%d: %v", req.AvailabilityID, err)
		return fmt.Errorf("%w: delete availability %d: %v", domain.ErrSubmission, req.AvailabilityID, err)
	}

	uc.invalidate(ctx, req.SubjectID)
	uc.logger.Info("RemoveSlot: availability=%d removed", req.AvailabilityID)
	return nil
}

// DisableDay удаляет всю доступность дня недели
// Запрещено, если в этот день есть бронирования или это последний включенный день
func (uc *UseCase) DisableDay(ctx context.Context, req *DisableDayRequest) (*DisableDayResponse, error) {
	uc.logger.Info("DisableDay: subject=%d, day=%d", req.SubjectID, req.DayOfWeek)

	weekday, err := validateDisableDayRequest(req)
	if err != nil {
		uc.logger.Warn("DisableDay: validation failed: %v", err)
		return nil, err
	}

	week, err := uc.LoadWeek(ctx, req.SubjectID, req.WeekFrom)
	if err != nil {
		return nil, err
	}

	if err := uc.guard.CheckDayDisable(week, weekday); err != nil {
		return nil, err
	}

	seen := make(map[int64]struct{})
	removed := make([]int64, 0)
	for _, slot := range week.SlotsOn(weekday) {
		if slot.AvailabilityID <= 0 {
			continue
		}
		if _, ok := seen[slot.AvailabilityID]; ok {
			continue
		}
		seen[slot.AvailabilityID] = struct{}{}

		if err := uc.client.DeleteAvailability(ctx, slot.AvailabilityID); err != nil {
			uc.logger.Error("DisableDay: subject=%d, %s: availability=%d: %v", req.SubjectID, weekday, slot.AvailabilityID, err)
			uc.invalidate(ctx, req.SubjectID)
			return nil, fmt.Errorf("%w: delete availability %d: %v", domain.ErrSubmission, slot.AvailabilityID, err)
		}
		removed = append(removed, slot.AvailabilityID)
	}

	uc.invalidate(ctx, req.SubjectID)
	uc.logger.Info("DisableDay: subject=%d, %s disabled, removed %d records", req.SubjectID, weekday, len(removed))
	return &DisableDayResponse{Removed: removed}, nil
}

func (uc *UseCase) invalidate(ctx context.Context, subjectID int64) {
	if uc.invalidator == nil || subjectID <= 0 {
		return
	}
	if err := uc.invalidator.Invalidate(ctx, subjectID); err != nil {
		uc.logger.Warn("invalidate: subject=%d: %v", subjectID, err)
	}
}
