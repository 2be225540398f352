package models

import (
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	intake "github.com/m04kA/SMC-SchedulingService/internal/wizard"
)

// SessionView состояние мастера вместе с данными для отображения текущего шага
type SessionView struct {
	ID            string                `json:"id"`
	TenantID      int64                 `json:"tenantId"`
	State         string                `json:"state"`
	StepID        string                `json:"stepId,omitempty"`
	Step          *StepView             `json:"step,omitempty"`
	Choices       []domain.Choice       `json:"choices,omitempty"`
	Days          []DayView             `json:"days,omitempty"`
	Sessions      []SessionSlotView     `json:"sessions,omitempty"`
	Request       domain.BookingRequest `json:"request"`
	Errors        []string              `json:"errors,omitempty"`
	Reason        string                `json:"reason,omitempty"`
	NeedsRefresh  bool                  `json:"needsRefresh"`
	CanGoBack     bool                  `json:"canGoBack"`
	BookingID     *int64                `json:"bookingId,omitempty"`
	BookingStatus string                `json:"bookingStatus,omitempty"`
	CreatedAt     time.Time             `json:"createdAt"`
	UpdatedAt     time.Time             `json:"updatedAt"`
}

// StepView шаг опций услуги
type StepView struct {
	ID          string   `json:"id"`
	Kind        string   `json:"kind"`
	Title       string   `json:"title"`
	Fields      []string `json:"fields,omitempty"`
	MinSelected int      `json:"minSelected,omitempty"`
}

// DayView день календаря на шаге выбора даты
type DayView struct {
	Date       string            `json:"date"`
	DayOfWeek  string            `json:"dayOfWeek"`
	IsPast     bool              `json:"isPast"`
	IsToday    bool              `json:"isToday"`
	IsBookable bool              `json:"isBookable"`
	Sessions   []SessionSlotView `json:"sessions"`
}

// SessionSlotView окно дня
type SessionSlotView struct {
	SessionID string `json:"sessionId"`
	Name      string `json:"name"`
	Start     string `json:"start"`
	End       string `json:"end"`
	Available bool   `json:"available"`
	Remaining int    `json:"remaining"`
}

// FromSession конвертирует сессию мастера в view без данных шага
func FromSession(s *intake.Session) *SessionView {
	frame := s.Current()
	return &SessionView{
		ID:            s.ID,
		TenantID:      s.TenantID,
		State:         string(frame.State),
		StepID:        frame.StepID,
		Request:       s.Request,
		Errors:        s.Errors,
		Reason:        s.Reason,
		NeedsRefresh:  s.NeedsRefresh,
		CanGoBack:     len(s.Stack) > 1 && !s.IsSubmitted(),
		BookingID:     s.BookingID,
		BookingStatus: string(s.BookingStatus),
		CreatedAt:     s.CreatedAt,
		UpdatedAt:     s.UpdatedAt,
	}
}

// FromOptionStep конвертирует шаг каталога
func FromOptionStep(step *domain.OptionStep) *StepView {
	return &StepView{
		ID:          step.ID,
		Kind:        string(step.Kind),
		Title:       step.Title,
		Fields:      step.FieldNames(),
		MinSelected: step.MinSelected,
	}
}

// FromDomainDays конвертирует доступность месяца
func FromDomainDays(days []domain.DayAvailability) []DayView {
	result := make([]DayView, len(days))
	for i := range days {
		result[i] = FromDomainDay(&days[i])
	}
	return result
}

// FromDomainDay конвертирует доступность дня
func FromDomainDay(day *domain.DayAvailability) DayView {
	return DayView{
		Date:       day.Date.Format(domain.DateFormat),
		DayOfWeek:  day.Weekday.String(),
		IsPast:     day.IsPast,
		IsToday:    day.IsToday,
		IsBookable: day.IsBookable(),
		Sessions:   FromDomainSessions(day.Sessions),
	}
}

// FromDomainSessions конвертирует окна дня
func FromDomainSessions(sessions []domain.SessionAvailability) []SessionSlotView {
	result := make([]SessionSlotView, len(sessions))
	for i, s := range sessions {
		result[i] = SessionSlotView{
			SessionID: s.SessionID,
			Name:      s.Name,
			Start:     s.Start.String(),
			End:       s.End.String(),
			Available: s.Available,
			Remaining: s.Remaining,
		}
	}
	return result
}
