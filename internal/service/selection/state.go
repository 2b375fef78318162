package selection

import (
	"fmt"

	"github.com/m04kA/SMC-TutorBooking/internal/domain"
)

// State состояние окна бронирования
type State string

const (
	StateClosed         State = "closed"
	StateDateFocused    State = "date_focused"
	StateHoursSelected  State = "hours_selected"
	StateQuoting        State = "quoting"
	StateReadyToConfirm State = "ready_to_confirm"
	StateSubmitting     State = "submitting"
)

// Machine конечный автомат окна бронирования
//
//	Closed -> DateFocused -> HoursSelected -> Quoting -> ReadyToConfirm -> Submitting
//	Submitting -> Closed (успех) | HoursSelected (ошибка)
type Machine struct {
	state State
}

// NewMachine создает автомат в состоянии Closed
func NewMachine() *Machine {
	return &Machine{state: StateClosed}
}

// State возвращает текущее состояние
func (m *Machine) State() State {
	return m.state
}

// Open открывает окно: Closed -> DateFocused
func (m *Machine) Open() error {
	if m.state != StateClosed {
		return fmt.Errorf("%w: open from %s", domain.ErrInvalidTransition, m.state)
	}
	m.state = StateDateFocused
	return nil
}

// SelectionChanged реагирует на переключение часа
// Непустой выбор переводит в HoursSelected, пустой - обратно в DateFocused
func (m *Machine) SelectionChanged(totalHours int) error {
	switch m.state {
	case StateClosed, StateSubmitting:
		return fmt.Errorf("%w: selection change in %s", domain.ErrInvalidTransition, m.state)
	}
	if totalHours > 0 {
		m.state = StateHoursSelected
	} else {
		m.state = StateDateFocused
	}
	return nil
}

// QuoteStarted HoursSelected|ReadyToConfirm -> Quoting
func (m *Machine) QuoteStarted() error {
	if m.state != StateHoursSelected && m.state != StateReadyToConfirm {
		return fmt.Errorf("%w: quote from %s", domain.ErrInvalidTransition, m.state)
	}
	m.state = StateQuoting
	return nil
}

// QuoteFinished Quoting -> ReadyToConfirm (в том числе при ошибке котировки)
// В остальных состояниях результат игнорируется без ошибки: выбор мог измениться за время запроса
func (m *Machine) QuoteFinished() {
	if m.state == StateQuoting {
		m.state = StateReadyToConfirm
	}
}

// BeginSubmit переводит в Submitting
// Подтверждение пустого выбора отклоняется без перехода
func (m *Machine) BeginSubmit(totalHours int) error {
	if totalHours == 0 {
		return domain.ErrEmptySelection
	}
	switch m.state {
	case StateHoursSelected, StateQuoting, StateReadyToConfirm:
		m.state = StateSubmitting
		return nil
	default:
		return fmt.Errorf("%w: submit from %s", domain.ErrInvalidTransition, m.state)
	}
}

// SubmitSucceeded Submitting -> Closed
func (m *Machine) SubmitSucceeded() {
	if m.state == StateSubmitting {
		m.state = StateClosed
	}
}

// SubmitFailed Submitting -> HoursSelected
func (m *Machine) SubmitFailed() {
	if m.state == StateSubmitting {
		m.state = StateHoursSelected
	}
}

// Close закрывает окно из любого состояния
func (m *Machine) Close() {
	m.state = StateClosed
}
