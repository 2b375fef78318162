package handlers

import (
	"time"

	"github.com/m04kA/SMC-TutorBooking/internal/domain"
	"github.com/m04kA/SMC-TutorBooking/internal/service/session"
)

// SessionResponse сводка сессии бронирования
type SessionResponse struct {
	ID               string               `json:"id"`
	Mode             string               `json:"mode"`
	SubjectID        int64                `json:"subjectId"`
	State            string               `json:"state"`
	FocusedDate      string               `json:"focusedDate,omitempty"`
	AvailableHours   []string             `json:"availableHours"`
	Selections       []DaySelection       `json:"selections"`
	TotalHours       int                  `json:"totalHours"`
	TotalAmountCents int64                `json:"totalAmountCents"`
	Quote            *QuoteResponse       `json:"quote,omitempty"`
	QuotePending     bool                 `json:"quotePending"`
	QuoteError       string               `json:"quoteError,omitempty"`
	StaleBlocks      []BlockResponse      `json:"staleBlocks,omitempty"`
	RescheduleBlock  *BlockResponse       `json:"rescheduleBlock,omitempty"`
	Reschedule       *RescheduleResponse  `json:"reschedule,omitempty"`
	LastError        string               `json:"lastError,omitempty"`
	Closed           bool                 `json:"closed"`
	Submissions      []SubmissionResponse `json:"submissions,omitempty"`
}

// DaySelection выбранные часы одной даты
type DaySelection struct {
	Date  string   `json:"date"`
	Hours []string `json:"hours"`
}

// BlockResponse непрерывный блок часов
type BlockResponse struct {
	Date           string `json:"date"`
	StartHour      int    `json:"startHour"`
	EndHour        int    `json:"endHour"`
	AvailabilityID int64  `json:"availabilityId,omitempty"`
}

// QuoteResponse котировка бэкенда
type QuoteResponse struct {
	TotalAmountCents int64              `json:"totalAmountCents"`
	Policy           *PolicyResponse    `json:"policy,omitempty"`
	Blocks           []QuoteBlockResult `json:"blocks"`
}

// PolicyResponse глобальная ценовая политика
type PolicyResponse struct {
	BaseHours      int    `json:"baseHours"`
	BaseRateCents  int64  `json:"baseRateCents"`
	ExtraRateCents int64  `json:"extraRateCents"`
	Description    string `json:"description,omitempty"`
}

// QuoteBlockResult стоимость одного блока котировки
type QuoteBlockResult struct {
	Start       string `json:"start"`
	End         string `json:"end"`
	Hours       int    `json:"hours"`
	AmountCents int64  `json:"amountCents"`
}

// RescheduleResponse контекст переноса
type RescheduleResponse struct {
	BookingID     int64  `json:"bookingId"`
	CurrentStart  string `json:"currentStart"`
	CurrentEnd    string `json:"currentEnd"`
	RequiredHours int    `json:"requiredHours"`
}

// FromSummary конвертирует сводку сессии в HTTP ответ
func FromSummary(sum session.Summary) *SessionResponse {
	resp := &SessionResponse{
		ID:               sum.ID,
		Mode:             string(sum.Mode),
		SubjectID:        sum.SubjectID,
		State:            string(sum.State),
		FocusedDate:      sum.FocusedDate,
		AvailableHours:   make([]string, len(sum.AvailableHours)),
		Selections:       make([]DaySelection, len(sum.Selections)),
		TotalHours:       sum.TotalHours,
		TotalAmountCents: sum.TotalAmountCents,
		QuotePending:     sum.QuotePending,
		QuoteError:       sum.QuoteError,
		LastError:        sum.LastError,
		Closed:           sum.Closed,
	}

	for i, h := range sum.AvailableHours {
		resp.AvailableHours[i] = string(h)
	}
	for i, sel := range sum.Selections {
		hours := make([]string, len(sel.Hours))
		for j, h := range sel.Hours {
			hours[j] = string(h)
		}
		resp.Selections[i] = DaySelection{Date: sel.DateKey, Hours: hours}
	}
	for _, b := range sum.StaleBlocks {
		resp.StaleBlocks = append(resp.StaleBlocks, FromBlock(b))
	}
	if sum.RescheduleBlock != nil {
		b := FromBlock(*sum.RescheduleBlock)
		resp.RescheduleBlock = &b
	}
	if sum.Quote != nil {
		resp.Quote = FromQuote(sum.Quote)
	}
	if rc := sum.Reschedule; rc != nil {
		resp.Reschedule = &RescheduleResponse{
			BookingID:     rc.BookingID,
			CurrentStart:  rc.CurrentStart.Format(time.RFC3339),
			CurrentEnd:    rc.CurrentEnd.Format(time.RFC3339),
			RequiredHours: rc.RequiredHours,
		}
	}
	return resp
}

// SubmissionResponse попытка отправки из журнала
type SubmissionResponse struct {
	ID               int64   `json:"id"`
	Kind             string  `json:"kind"`
	Status           string  `json:"status"`
	TotalHours       int     `json:"totalHours"`
	TotalAmountCents int64   `json:"totalAmountCents"`
	BookingID        *int64  `json:"bookingId,omitempty"`
	RedirectURL      *string `json:"redirectUrl,omitempty"`
	Error            *string `json:"error,omitempty"`
	CreatedAt        string  `json:"createdAt"`
}

// FromSubmissions конвертирует записи журнала
func FromSubmissions(list []*domain.Submission) []SubmissionResponse {
	result := make([]SubmissionResponse, 0, len(list))
	for _, s := range list {
		result = append(result, SubmissionResponse{
			ID:               s.ID,
			Kind:             string(s.Kind),
			Status:           string(s.Status),
			TotalHours:       s.TotalHours,
			TotalAmountCents: s.TotalAmountCents,
			BookingID:        s.BookingID,
			RedirectURL:      s.RedirectURL,
			Error:            s.ErrorMessage,
			CreatedAt:        s.CreatedAt.Format(time.RFC3339),
		})
	}
	return result
}

// FromBlock конвертирует блок
func FromBlock(b domain.Block) BlockResponse {
	return BlockResponse{
		Date:           b.DateKey,
		StartHour:      b.StartHour,
		EndHour:        b.EndHour,
		AvailabilityID: b.AvailabilityID,
	}
}

// FromQuote конвертирует котировку
func FromQuote(q *domain.Quote) *QuoteResponse {
	resp := &QuoteResponse{
		TotalAmountCents: q.TotalAmountCents,
		Blocks:           make([]QuoteBlockResult, len(q.Blocks)),
	}
	if p := q.Policy; p != nil {
		resp.Policy = &PolicyResponse{
			BaseHours:      p.BaseHours,
			BaseRateCents:  p.BaseRateCents,
			ExtraRateCents: p.ExtraRateCents,
			Description:    p.Description,
		}
	}
	for i, b := range q.Blocks {
		resp.Blocks[i] = QuoteBlockResult{
			Start:       b.Start.Format(time.RFC3339),
			End:         b.End.Format(time.RFC3339),
			Hours:       b.Hours,
			AmountCents: b.AmountCents,
		}
	}
	return resp
}
