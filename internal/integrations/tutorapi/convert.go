package tutorapi

import (
	"fmt"
	"sort"
	"time"

	"github.com/m04kA/SMC-TutorBooking/internal/domain"
	"github.com/m04kA/SMC-TutorBooking/pkg/types"
)

// ToDomainAgenda проверяет ответ расписания по схеме и переводит его в доменные модели
// Любое нарушение схемы превращается в ErrInvalidResponse, неполные данные внутрь не передаются
func ToDomainAgenda(resp *AgendaResponse, from, to time.Time) ([]domain.DayAgenda, error) {
	if resp == nil || resp.Days == nil {
		return nil, fmt.Errorf("%w: days is required", ErrInvalidResponse)
	}

	fromKey := from.Format(domain.DateFormat)
	toKey := to.Format(domain.DateFormat)

	days := make([]domain.DayAgenda, 0, len(resp.Days))
	seen := make(map[string]bool, len(resp.Days))

	for i, day := range resp.Days {
		date, err := time.Parse(domain.DateFormat, day.Date)
		if err != nil {
			return nil, fmt.Errorf("%w: days[%d].date %q: %v", ErrInvalidResponse, i, day.Date, err)
		}
		dateKey := date.Format(domain.DateFormat)
		if dateKey < fromKey || dateKey > toKey {
			return nil, fmt.Errorf("%w: days[%d].date %s outside of requested range", ErrInvalidResponse, i, dateKey)
		}
		if seen[dateKey] {
			return nil, fmt.Errorf("%w: duplicate day %s", ErrInvalidResponse, dateKey)
		}
		seen[dateKey] = true

		slots := make([]domain.TimeSlot, 0, len(day.Slots))
		for j, s := range day.Slots {
			slot, err := toDomainSlot(dateKey, s)
			if err != nil {
				return nil, fmt.Errorf("%w: days[%d].slots[%d]: %v", ErrInvalidResponse, i, j, err)
			}
			slots = append(slots, slot)
		}
		sort.Slice(slots, func(a, b int) bool { return slots[a].Hour < slots[b].Hour })

		dayName := day.DayName
		if dayName == "" {
			dayName = date.Weekday().String()
		}

		days = append(days, domain.DayAgenda{
			DateKey: dateKey,
			DayName: dayName,
			Slots:   slots,
		})
	}

	sort.Slice(days, func(a, b int) bool { return days[a].DateKey < days[b].DateKey })
	return days, nil
}

func toDomainSlot(dateKey string, s AgendaSlot) (domain.TimeSlot, error) {
	hour, err := parseStartTime(s.StartTime)
	if err != nil {
		return domain.TimeSlot{}, err
	}

	status := domain.SlotStatus(s.Status)
	if !status.IsValid() {
		return domain.TimeSlot{}, fmt.Errorf("unknown status %q", s.Status)
	}

	var availabilityID int64
	if s.AvailabilityID != nil {
		availabilityID = *s.AvailabilityID
	}
	if status == domain.SlotAvailable && availabilityID <= 0 {
		return domain.TimeSlot{}, fmt.Errorf("available slot %s has no availabilityId", hour)
	}

	return domain.TimeSlot{
		DateKey:        dateKey,
		Hour:           hour,
		AvailabilityID: availabilityID,
		Status:         status,
	}, nil
}

// parseStartTime принимает "HH:00", "HH:00:00" или RFC3339
func parseStartTime(value string) (types.HourString, error) {
	if hour, err := types.ParseHourString(value); err == nil {
		return hour, nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return "", fmt.Errorf("invalid startTime %q", value)
	}
	if t.Minute() != 0 || t.Second() != 0 {
		return "", fmt.Errorf("startTime %q is not aligned to an hour", value)
	}
	return types.NewHourStringFromTime(t), nil
}

// ToDomainQuote проверяет ответ котировки по схеме
func ToDomainQuote(resp *QuoteResponse) (*domain.Quote, error) {
	if resp == nil || resp.TotalAmount == nil {
		return nil, fmt.Errorf("%w: totalAmount is required", ErrInvalidResponse)
	}
	if *resp.TotalAmount < 0 {
		return nil, fmt.Errorf("%w: negative totalAmount", ErrInvalidResponse)
	}

	quote := &domain.Quote{
		TotalAmountCents: *resp.TotalAmount,
		Blocks:           make([]domain.QuoteBlock, 0, len(resp.Blocks)),
	}

	if p := resp.GlobalPricingPolicy; p != nil {
		quote.Policy = &domain.PricingPolicy{
			BaseHours:      p.BaseHours,
			BaseRateCents:  p.BaseRateCents,
			ExtraRateCents: p.ExtraRateCents,
			Description:    p.Description,
		}
	}

	for i, b := range resp.Blocks {
		start, err := time.Parse(time.RFC3339, b.Start)
		if err != nil {
			return nil, fmt.Errorf("%w: blocks[%d].start: %v", ErrInvalidResponse, i, err)
		}
		end, err := time.Parse(time.RFC3339, b.End)
		if err != nil {
			return nil, fmt.Errorf("%w: blocks[%d].end: %v", ErrInvalidResponse, i, err)
		}
		if !end.After(start) || b.Hours <= 0 || b.AmountCents < 0 {
			return nil, fmt.Errorf("%w: blocks[%d] is inconsistent", ErrInvalidResponse, i)
		}
		quote.Blocks = append(quote.Blocks, domain.QuoteBlock{
			Start:       start,
			End:         end,
			Hours:       b.Hours,
			AmountCents: b.AmountCents,
		})
	}

	return quote, nil
}

// FromDomainItems переводит элементы котировки в формат бэкенда
func FromDomainItems(items []domain.QuoteItem) []QuoteItem {
	result := make([]QuoteItem, len(items))
	for i, item := range items {
		result[i] = QuoteItem{
			AvailabilityID: item.AvailabilityID,
			StartTime:      item.Start.Format(time.RFC3339),
			EndTime:        item.End.Format(time.RFC3339),
		}
	}
	return result
}
