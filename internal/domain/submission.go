package domain

import "time"

// SubmissionKind вид отправки
type SubmissionKind string

const (
	SubmissionBooking    SubmissionKind = "booking"
	SubmissionReschedule SubmissionKind = "reschedule"
)

// SubmissionStatus статус попытки отправки
type SubmissionStatus string

const (
	SubmissionPending   SubmissionStatus = "pending"
	SubmissionSucceeded SubmissionStatus = "succeeded"
	SubmissionFailed    SubmissionStatus = "failed"
)

// Submission запись журнала отправок бронирований и переносов
type Submission struct {
	ID               int64
	SessionID        string
	Kind             SubmissionKind
	SubjectID        int64
	BookingID        *int64 // только для переноса
	Signature        QuoteSignature
	AvailabilityIDs  []int64
	TotalHours       int
	TotalAmountCents int64
	Status           SubmissionStatus
	RedirectURL      *string
	ErrorMessage     *string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
