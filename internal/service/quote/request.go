package quote

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/m04kA/SMC-TutorBooking/internal/domain"
	"github.com/m04kA/SMC-TutorBooking/internal/service/blocks"
)

// BuildRequest строит запрос котировки из выбранных часов
// Блоки, чей первый слот больше не разрешается, молча пропускаются и возвращаются вторым значением
func BuildRequest(selections []domain.DaySelection, resolver blocks.SlotResolver, loc *time.Location) (domain.QuoteRequest, []domain.Block, error) {
	req := domain.QuoteRequest{Items: make([]domain.QuoteItem, 0)}
	var dropped []domain.Block

	for _, sel := range selections {
		kept, skipped, err := blocks.BuildBlocksLenient(sel.DateKey, sel.Hours, resolver)
		if err != nil {
			return domain.QuoteRequest{}, nil, err
		}
		dropped = append(dropped, skipped...)

		items, err := ItemsFromBlocks(kept, loc)
		if err != nil {
			return domain.QuoteRequest{}, nil, err
		}
		req.Items = append(req.Items, items...)
	}
	return req, dropped, nil
}

// ItemsFromBlocks переводит блоки в элементы котировки
func ItemsFromBlocks(list []domain.Block, loc *time.Location) ([]domain.QuoteItem, error) {
	items := make([]domain.QuoteItem, 0, len(list))
	for _, b := range list {
		start, end, err := b.Range(loc)
		if err != nil {
			return nil, fmt.Errorf("%w: block date %q: %v", domain.ErrInvalidInput, b.DateKey, err)
		}
		items = append(items, domain.QuoteItem{
			AvailabilityID: b.AvailabilityID,
			Start:          start,
			End:            end,
		})
	}
	return items, nil
}

// Signature возвращает подпись запроса, не зависящую от порядка элементов
func Signature(req domain.QuoteRequest) domain.QuoteSignature {
	parts := make([]string, len(req.Items))
	for i, item := range req.Items {
		parts[i] = fmt.Sprintf("%d|%s|%s",
			item.AvailabilityID,
			item.Start.Format(time.RFC3339),
			item.End.Format(time.RFC3339),
		)
	}
	sort.Strings(parts)
	return domain.QuoteSignature(strings.Join(parts, ";"))
}
