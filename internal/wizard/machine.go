package wizard

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

// transition обработчик отправки данных на шаге
// Ошибки с причиной domain записываются в сессию, остальные возвращаются вызывающему
type transition func(m *Machine, ctx context.Context, s *Session, in *Input) error

// transitions таблица переходов; шаги service_options интерпретируются по плану услуги
var transitions = map[State]transition{
	StateZoneCheck:      (*Machine).zoneCheck,
	StateServiceSelect:  (*Machine).serviceSelect,
	StateServiceOptions: (*Machine).serviceOptions,
	StateDateSelect:     (*Machine).dateSelect,
	StateSlotSelect:     (*Machine).slotSelect,
	StateContactForm:    (*Machine).contactForm,
}

// Machine мастер записи для конфигурации одного тенанта
type Machine struct {
	cfg      *domain.TenantScheduleConfig
	calendar Calendar
	reserver Reserver
}

func NewMachine(cfg *domain.TenantScheduleConfig, calendar Calendar, reserver Reserver) *Machine {
	return &Machine{
		cfg:      cfg,
		calendar: calendar,
		reserver: reserver,
	}
}

// Plan шаги опций для услуги и оборудования из запроса
func Plan(cfg *domain.TenantScheduleConfig, req *domain.BookingRequest) ([]domain.OptionStep, error) {
	if req.ServiceID == "" {
		return nil, nil
	}
	return cfg.StepPlan(req.ServiceID, req.EquipmentID)
}

// Start новая сессия мастера
func (m *Machine) Start(id string, now time.Time) *Session {
	return NewSession(id, m.cfg.TenantID, now)
}

// Submit применяет данные текущего шага и переходит дальше, если шаг заполнен
// Отказ (некорректные данные, зона, заполненное окно) записывается в Errors и Reason, ошибка при этом nil
func (m *Machine) Submit(ctx context.Context, s *Session, in Input) error {
	if s.TenantID != m.cfg.TenantID {
		return ErrTenantMismatch
	}
	if s.IsSubmitted() {
		return ErrSessionSubmitted
	}

	s.clearErrors()

	state := s.Current().State
	handle, ok := transitions[state]
	if !ok {
		return fmt.Errorf("wizard: no transition for state %q", state)
	}

	err := handle(m, ctx, s, &in)
	if err == nil {
		return nil
	}
	if domain.ReasonOf(err) != "" {
		s.reject(err)
		return nil
	}
	return err
}

// Back возвращает на предыдущий шаг, собранные данные сохраняются
func (m *Machine) Back(s *Session) error {
	if s.IsSubmitted() {
		return ErrSessionSubmitted
	}
	if len(s.Stack) <= 1 {
		return ErrNoPreviousStep
	}

	s.Stack = s.Stack[:len(s.Stack)-1]
	s.clearErrors()
	return nil
}

// CurrentStep описание шага service_options, на котором стоит сессия
func (m *Machine) CurrentStep(s *Session) (*domain.OptionStep, error) {
	frame := s.Current()
	if frame.State != StateServiceOptions {
		return nil, nil
	}

	plan, err := Plan(m.cfg, &s.Request)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnknownStep, err)
	}
	for i := range plan {
		if plan[i].ID == frame.StepID {
			return &plan[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownStep, frame.StepID)
}

func (m *Machine) zoneCheck(_ context.Context, s *Session, in *Input) error {
	if in.PostalCode == nil || strings.TrimSpace(*in.PostalCode) == "" {
		return domain.NewValidationError("postalCode")
	}
	code := strings.TrimSpace(*in.PostalCode)

	if _, ok := m.cfg.ZoneFor(code); !ok {
		return fmt.Errorf("postalCode: %s: %w", code, domain.ErrOutsideZone)
	}

	s.Request.PostalCode = code
	if in.Location != nil {
		s.Request.Location = in.Location
	}
	s.push(Frame{State: StateServiceSelect})
	return nil
}

func (m *Machine) serviceSelect(_ context.Context, s *Session, in *Input) error {
	if in.ServiceID == nil || *in.ServiceID == "" {
		return domain.NewValidationError("serviceId")
	}

	service, ok := m.cfg.FindService(*in.ServiceID)
	if !ok {
		return domain.NewValidationError(fmt.Sprintf("serviceId: unknown service %q", *in.ServiceID))
	}

	// Смена услуги: данные старой услуги больше не действительны
	if s.Request.ServiceID != service.ID {
		s.Request.ClearServiceData()
	}
	s.Request.ServiceID = service.ID

	return m.advance(s, "")
}

func (m *Machine) serviceOptions(_ context.Context, s *Session, in *Input) error {
	step, err := m.CurrentStep(s)
	if err != nil {
		return err
	}
	service, ok := m.cfg.FindService(s.Request.ServiceID)
	if !ok {
		return fmt.Errorf("%w: service %q", ErrUnknownStep, s.Request.ServiceID)
	}

	m.apply(s, step, in)

	if problems := step.Missing(&s.Request, service); len(problems) > 0 {
		return domain.NewValidationError(problems...)
	}

	return m.advance(s, step.ID)
}

func (m *Machine) dateSelect(ctx context.Context, s *Session, in *Input) error {
	if in.Date == nil || *in.Date == "" {
		return domain.NewValidationError("date")
	}
	date, err := time.Parse(domain.DateFormat, *in.Date)
	if err != nil {
		return domain.NewValidationError(fmt.Sprintf("date: %q is not a YYYY-MM-DD date", *in.Date))
	}

	day, err := m.calendar.Day(ctx, m.cfg, date)
	if err != nil {
		return fmt.Errorf("wizard: load availability of %s: %w", *in.Date, err)
	}
	if !day.IsBookable() {
		s.NeedsRefresh = true
		return domain.NewValidationError(fmt.Sprintf("date: %s has no available session", *in.Date))
	}

	if !s.Request.Date.Equal(date) {
		s.Request.SessionID = ""
	}
	s.Request.Date = date
	s.NeedsRefresh = false
	s.push(Frame{State: StateSlotSelect})
	return nil
}

func (m *Machine) slotSelect(ctx context.Context, s *Session, in *Input) error {
	if in.SessionID == nil || *in.SessionID == "" {
		return domain.NewValidationError("sessionId")
	}
	id := *in.SessionID

	day, err := m.calendar.Day(ctx, m.cfg, s.Request.Date)
	if err != nil {
		return fmt.Errorf("wizard: load availability of %s: %w", s.Request.Date.Format(domain.DateFormat), err)
	}

	session, ok := day.Session(id)
	if !ok {
		return domain.NewValidationError(fmt.Sprintf("sessionId: %q is not a session of this day", id))
	}

	// Мягкая проверка: окончательно место проверяет резервирование
	if !session.Available {
		s.NeedsRefresh = true
		if session.Remaining <= 0 {
			return fmt.Errorf("sessionId: %s: %w", id, domain.ErrSlotFull)
		}
		return fmt.Errorf("sessionId: %s: %w", id, domain.ErrOutsideLeadTimeWindow)
	}

	s.Request.SessionID = id
	s.NeedsRefresh = false
	s.push(Frame{State: StateContactForm})
	return nil
}

func (m *Machine) contactForm(ctx context.Context, s *Session, in *Input) error {
	if in.Contact != nil {
		s.Request.Contact = *in.Contact
	}
	if in.Location != nil {
		s.Request.Location = in.Location
	}

	if problems := domain.ValidateContact(s.Request.Contact); len(problems) > 0 {
		return domain.NewValidationError(problems...)
	}

	booking, err := m.reserver.Reserve(ctx, s.TenantID, s.Request)
	switch {
	case err == nil:
		id := booking.ID
		s.BookingID = &id
		s.BookingStatus = booking.Status
		s.push(Frame{State: StateSubmitted})
		return nil

	case errors.Is(err, domain.ErrSlotFull), errors.Is(err, domain.ErrOutsideLeadTimeWindow):
		// Окно заняли или оно вышло из окна записи: выбрать заново по свежей доступности
		s.popTo(StateSlotSelect)
		s.Request.SessionID = ""
		s.NeedsRefresh = true
		return err

	case errors.Is(err, domain.ErrOutsideZone):
		s.popTo(StateZoneCheck)
		return err
	}

	return err
}

// advance переходит к шагу плана после stepID (пустой stepID: первый шаг) или к выбору даты
func (m *Machine) advance(s *Session, stepID string) error {
	plan, err := Plan(m.cfg, &s.Request)
	if err != nil {
		return err
	}

	next := 0
	if stepID != "" {
		next = len(plan)
		for i, step := range plan {
			if step.ID == stepID {
				next = i + 1
				break
			}
		}
	}

	if next < len(plan) {
		s.push(Frame{State: StateServiceOptions, StepID: plan[next].ID})
		return nil
	}
	s.push(Frame{State: StateDateSelect})
	return nil
}

// apply переносит в запрос поля текущего шага
func (m *Machine) apply(s *Session, step *domain.OptionStep, in *Input) {
	req := &s.Request

	switch step.Kind {
	case domain.StepEquipment:
		if in.EquipmentID == nil {
			return
		}
		id := *in.EquipmentID
		// Смена оборудования сбрасывает данные шагов прежнего оборудования
		if req.EquipmentID != nil && *req.EquipmentID != id {
			if old, ok := m.cfg.FindEquipment(*req.EquipmentID); ok {
				req.ClearSteps(old.Steps)
			}
		}
		req.EquipmentID = &id

	case domain.StepIntervention:
		if in.InterventionID != nil {
			id := *in.InterventionID
			req.InterventionID = &id
		}

	case domain.StepMultiSelect:
		for _, field := range step.Fields {
			if values, ok := in.Selections[field]; ok {
				req.SetSelection(field, append([]string(nil), values...))
			}
		}

	default:
		for _, field := range step.Fields {
			if value, ok := in.Attributes[field]; ok {
				req.SetAttribute(field, strings.TrimSpace(value))
			}
		}
	}
}
