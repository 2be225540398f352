// Package wizard мастер записи: стек шагов над данными каталога тенанта
package wizard

import (
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

// State шаг мастера
type State string

const (
	StateZoneCheck      State = "zone_check"
	StateServiceSelect  State = "service_select"
	StateServiceOptions State = "service_options"
	StateDateSelect     State = "date_select"
	StateSlotSelect     State = "slot_select"
	StateContactForm    State = "contact_form"
	StateSubmitted      State = "submitted"
)

// Frame элемент стека; для service_options StepID указывает шаг плана услуги
type Frame struct {
	State  State  `json:"state"`
	StepID string `json:"stepId,omitempty"`
}

// Session состояние мастера, хранится целиком в хранилище сессий
type Session struct {
	ID            string                `json:"id"`
	TenantID      int64                 `json:"tenantId"`
	Stack         []Frame               `json:"stack"`
	Request       domain.BookingRequest `json:"request"`
	Errors        []string              `json:"errors,omitempty"`
	Reason        string                `json:"reason,omitempty"`
	NeedsRefresh  bool                  `json:"needsRefresh,omitempty"`
	BookingID     *int64                `json:"bookingId,omitempty"`
	BookingStatus domain.BookingStatus  `json:"bookingStatus,omitempty"`
	CreatedAt     time.Time             `json:"createdAt"`
	UpdatedAt     time.Time             `json:"updatedAt"`
}

// NewSession сессия на первом шаге
func NewSession(id string, tenantID int64, now time.Time) *Session {
	return &Session{
		ID:        id,
		TenantID:  tenantID,
		Stack:     []Frame{{State: StateZoneCheck}},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Current текущий шаг
func (s *Session) Current() Frame {
	if len(s.Stack) == 0 {
		return Frame{State: StateZoneCheck}
	}
	return s.Stack[len(s.Stack)-1]
}

// IsSubmitted returns true if the booking was accepted
func (s *Session) IsSubmitted() bool {
	return s.Current().State == StateSubmitted
}

// HasErrors returns true if the last submission was rejected
func (s *Session) HasErrors() bool {
	return len(s.Errors) > 0
}

func (s *Session) push(f Frame) {
	s.Stack = append(s.Stack, f)
}

// popTo снимает кадры до ближайшего кадра с состоянием state
func (s *Session) popTo(state State) {
	for i := len(s.Stack) - 1; i >= 0; i-- {
		if s.Stack[i].State == state {
			s.Stack = s.Stack[:i+1]
			return
		}
	}
}

func (s *Session) clearErrors() {
	s.Errors = nil
	s.Reason = ""
}

// reject записывает ошибку пользователя; шаг не меняется
func (s *Session) reject(err error) {
	s.Reason = domain.ReasonOf(err)
	if problems := domain.ProblemsOf(err); len(problems) > 0 {
		s.Errors = problems
		return
	}
	s.Errors = []string{err.Error()}
}

// Input данные, отправленные на текущем шаге
// Учитываются только поля текущего шага
type Input struct {
	PostalCode     *string             `json:"postalCode,omitempty"`
	ServiceID      *string             `json:"serviceId,omitempty"`
	EquipmentID    *string             `json:"equipmentId,omitempty"`
	InterventionID *string             `json:"interventionId,omitempty"`
	Attributes     map[string]string   `json:"attributes,omitempty"`
	Selections     map[string][]string `json:"selections,omitempty"`
	Date           *string             `json:"date,omitempty"` // YYYY-MM-DD
	SessionID      *string             `json:"sessionId,omitempty"`
	Contact        *domain.Contact     `json:"contact,omitempty"`
	Location       *domain.GeoPoint    `json:"location,omitempty"`
}
