package submission

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/m04kA/SMC-TutorBooking/internal/domain"
	"github.com/m04kA/SMC-TutorBooking/pkg/dbmetrics"
	"github.com/m04kA/SMC-TutorBooking/pkg/psqlbuilder"
)

const table = "booking_submissions"

var columns = []string{
	"id",
	"session_id",
	"kind",
	"subject_id",
	"booking_id",
	"signature",
	"availability_ids",
	"total_hours",
	"total_amount_cents",
	"status",
	"redirect_url",
	"error_message",
	"created_at",
	"updated_at",
}

// Repository журнал попыток отправки бронирований и переносов
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория журнала
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create записывает новую попытку отправки
func (r *Repository) Create(ctx context.Context, s *domain.Submission) (*domain.Submission, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert(table).
		Columns(
			"session_id",
			"kind",
			"subject_id",
			"booking_id",
			"signature",
			"availability_ids",
			"total_hours",
			"total_amount_cents",
			"status",
		).
		Values(
			s.SessionID,
			s.Kind,
			s.SubjectID,
			s.BookingID,
			s.Signature,
			pq.Array(s.AvailabilityIDs),
			s.TotalHours,
			s.TotalAmountCents,
			s.Status,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&s.ID, &createdAt, &updatedAt)
	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	s.CreatedAt = createdAt.Time
	s.UpdatedAt = updatedAt.Time

	return s, nil
}

// FindSucceeded ищет последнюю успешную отправку сессии с той же подписью
// Отправки других сессий не учитываются
func (r *Repository) FindSucceeded(ctx context.Context, sessionID string, kind domain.SubmissionKind, subjectID int64, signature domain.QuoteSignature) (*domain.Submission, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.Eq{
			"session_id": sessionID,
			"kind":       kind,
			"subject_id": subjectID,
			"signature":  signature,
			"status":     domain.SubmissionSucceeded,
		}).
		OrderBy("id DESC").
		Limit(1).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: FindSucceeded - build select query: %v", ErrBuildQuery, err)
	}

	s, err := scanSubmission(executor.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSubmissionNotFound
		}
		return nil, fmt.Errorf("%w: FindSucceeded: %v", ErrScanRow, err)
	}
	return s, nil
}

// ListBySession возвращает все попытки сессии в порядке создания
func (r *Repository) ListBySession(ctx context.Context, sessionID string) ([]*domain.Submission, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.Eq{"session_id": sessionID}).
		OrderBy("id ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListBySession - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListBySession - execute select: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	result := make([]*domain.Submission, 0)
	for rows.Next() {
		s, err := scanSubmission(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: ListBySession: %v", ErrScanRow, err)
		}
		result = append(result, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListBySession - rows error: %v", ErrScanRow, err)
	}

	return result, nil
}

// MarkSucceeded отмечает попытку успешной
func (r *Repository) MarkSucceeded(ctx context.Context, id int64, redirectURL *string) error {
	return r.updateStatus(ctx, "MarkSucceeded", id, psqlbuilder.Update(table).
		Set("status", domain.SubmissionSucceeded).
		Set("redirect_url", redirectURL))
}

// MarkFailed отмечает попытку неуспешной с текстом ошибки
func (r *Repository) MarkFailed(ctx context.Context, id int64, message string) error {
	return r.updateStatus(ctx, "MarkFailed", id, psqlbuilder.Update(table).
		Set("status", domain.SubmissionFailed).
		Set("error_message", message))
}

func (r *Repository) updateStatus(ctx context.Context, op string, id int64, builder squirrel.UpdateBuilder) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := builder.
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: %s - build update query: %v", ErrBuildQuery, op, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: %s - execute update: %v", ErrExecQuery, op, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %s - get rows affected: %v", ErrExecQuery, op, err)
	}

	if rowsAffected == 0 {
		return ErrSubmissionNotFound
	}

	return nil
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanSubmission(row scanner) (*domain.Submission, error) {
	var (
		s                    domain.Submission
		bookingID            sql.NullInt64
		redirectURL, errMsg  sql.NullString
		createdAt, updatedAt sql.NullTime
	)

	err := row.Scan(
		&s.ID,
		&s.SessionID,
		&s.Kind,
		&s.SubjectID,
		&bookingID,
		&s.Signature,
		pq.Array(&s.AvailabilityIDs),
		&s.TotalHours,
		&s.TotalAmountCents,
		&s.Status,
		&redirectURL,
		&errMsg,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	if bookingID.Valid {
		s.BookingID = &bookingID.Int64
	}
	if redirectURL.Valid {
		s.RedirectURL = &redirectURL.String
	}
	if errMsg.Valid {
		s.ErrorMessage = &errMsg.String
	}
	s.CreatedAt = createdAt.Time
	s.UpdatedAt = updatedAt.Time

	return &s, nil
}
