package domain

import "time"

// QuoteItem элемент запроса котировки
type QuoteItem struct {
	AvailabilityID int64
	Start          time.Time
	End            time.Time
}

// QuoteRequest упорядоченный набор элементов котировки
type QuoteRequest struct {
	Items []QuoteItem
}

// IsEmpty возвращает true, если запрос не содержит элементов
func (r QuoteRequest) IsEmpty() bool {
	return len(r.Items) == 0
}

// QuoteSignature ключ мемоизации запроса котировки
// Одинаковые наборы элементов в любом порядке дают одинаковую подпись
type QuoteSignature string

// PricingPolicy глобальная ценовая политика
// Например: первые BaseHours часов по базовой ставке, остальные по ExtraRateCents
type PricingPolicy struct {
	BaseHours      int
	BaseRateCents  int64
	ExtraRateCents int64
	Description    string
}

// QuoteBlock стоимость одного блока
type QuoteBlock struct {
	Start       time.Time
	End         time.Time
	Hours       int
	AmountCents int64
}

// Quote результат котировки
type Quote struct {
	Signature        QuoteSignature
	TotalAmountCents int64
	Policy           *PricingPolicy
	Blocks           []QuoteBlock
}
