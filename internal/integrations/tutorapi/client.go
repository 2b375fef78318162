package tutorapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/m04kA/SMC-TutorBooking/internal/domain"
	"github.com/m04kA/SMC-TutorBooking/pkg/auth"
)

// Client клиент REST бэкенда маркетплейса (расписание, доступность, котировки, бронирования)
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        Logger
}

// NewClient создает новый экземпляр клиента
func NewClient(baseURL string, timeout time.Duration, log Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// GetAgenda получает расписание предмета за период [from, to]
func (c *Client) GetAgenda(ctx context.Context, subjectID int64, from, to time.Time) ([]domain.DayAgenda, error) {
	query := url.Values{}
	query.Set("startDate", from.Format(domain.DateFormat))
	query.Set("endDate", to.Format(domain.DateFormat))
	path := fmt.Sprintf("/agenda/%d?%s", subjectID, query.Encode())

	var resp AgendaResponse
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}

	days, err := ToDomainAgenda(&resp, from, to)
	if err != nil {
		c.log.Warn("GetAgenda: malformed agenda for subject=%d (%s..%s): %v",
			subjectID, from.Format(domain.DateFormat), to.Format(domain.DateFormat), err)
		return nil, err
	}
	return days, nil
}

// GetAgendaFresh совпадает с GetAgenda: у клиента нет своего кэша
func (c *Client) GetAgendaFresh(ctx context.Context, subjectID int64, from, to time.Time) ([]domain.DayAgenda, error) {
	return c.GetAgenda(ctx, subjectID, from, to)
}

// CreateAvailability создает открытый диапазон часов в недельном расписании
func (c *Client) CreateAvailability(ctx context.Context, req *CreateAvailabilityRequest) error {
	var resp StatusResponse
	if err := c.do(ctx, http.MethodPost, "/availability", req, &resp); err != nil {
		return err
	}
	return checkStatus(&resp)
}

// DeleteAvailability удаляет запись доступности
func (c *Client) DeleteAvailability(ctx context.Context, availabilityID int64) error {
	var resp StatusResponse
	path := "/availability/" + strconv.FormatInt(availabilityID, 10)
	if err := c.do(ctx, http.MethodDelete, path, nil, &resp); err != nil {
		return err
	}
	return checkStatus(&resp)
}

// Quote запрашивает котировку для набора блоков
func (c *Client) Quote(ctx context.Context, req domain.QuoteRequest) (*domain.Quote, error) {
	body := QuoteRequest{Items: FromDomainItems(req.Items)}

	var resp QuoteResponse
	if err := c.do(ctx, http.MethodPost, "/booking/quote", body, &resp); err != nil {
		return nil, err
	}
	return ToDomainQuote(&resp)
}

// CreateBooking создает бронирование и возвращает URL для перехода к оплате
func (c *Client) CreateBooking(ctx context.Context, req *CreateBookingRequest) (string, error) {
	var resp CreateBookingResponse
	if err := c.do(ctx, http.MethodPost, "/booking", req, &resp); err != nil {
		return "", err
	}
	if resp.RedirectURL == "" {
		return "", fmt.Errorf("%w: redirectUrl is required", ErrInvalidResponse)
	}
	if _, err := url.ParseRequestURI(resp.RedirectURL); err != nil {
		return "", fmt.Errorf("%w: redirectUrl: %v", ErrInvalidResponse, err)
	}
	return resp.RedirectURL, nil
}

// Reschedule переносит бронирование на новые блоки
func (c *Client) Reschedule(ctx context.Context, bookingID int64, items []domain.QuoteItem) error {
	body := RescheduleRequest{
		BookingID: bookingID,
		Items:     FromDomainItems(items),
	}

	var resp StatusResponse
	if err := c.do(ctx, http.MethodPost, "/booking/reschedule", body, &resp); err != nil {
		return err
	}
	return checkStatus(&resp)
}

// do выполняет запрос и декодирует ответ в out
func (c *Client) do(ctx context.Context, method, path string, body interface{}, out interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%w: failed to encode request: %v", ErrInternal, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if token, ok := auth.TokenFromContext(ctx); ok {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: failed to execute request: %v", ErrInternal, err)
	}
	defer resp.Body.Close()

	// Обработка статус-кодов
	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		// Продолжаем обработку
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return ErrUnauthorized
	case resp.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case resp.StatusCode == http.StatusBadRequest ||
		resp.StatusCode == http.StatusConflict ||
		resp.StatusCode == http.StatusUnprocessableEntity:
		return fmt.Errorf("%w: %s", ErrRejected, readErrorMessage(resp.Body))
	default:
		bodyBytes, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, string(bodyBytes))
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}

	// Парсим ответ
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: failed to decode response: %v", ErrInvalidResponse, err)
	}

	return nil
}

// checkStatus проверяет ответ вида {success, message}
func checkStatus(resp *StatusResponse) error {
	if resp.Success == nil {
		return fmt.Errorf("%w: success is required", ErrInvalidResponse)
	}
	if !*resp.Success {
		return fmt.Errorf("%w: %s", ErrRejected, resp.Message)
	}
	return nil
}

func readErrorMessage(body io.Reader) string {
	data, _ := io.ReadAll(body)
	var errResp ErrorResponse
	if err := json.Unmarshal(data, &errResp); err == nil && errResp.Message != "" {
		return errResp.Message
	}
	return string(data)
}
