package wizard

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/internal/infra/session"
	tenantRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/tenant"
	"github.com/m04kA/SMC-SchedulingService/internal/service/wizard/models"
	getAvailability "github.com/m04kA/SMC-SchedulingService/internal/usecase/get_availability"
	reserveSession "github.com/m04kA/SMC-SchedulingService/internal/usecase/reserve_session"
	intake "github.com/m04kA/SMC-SchedulingService/internal/wizard"
)

// Результаты для счетчика wizard_transitions_total
const (
	resultAdvanced = "advanced"
	resultRejected = "rejected"
	resultBack     = "back"
	resultError    = "error"
)

// Service сервис мастера записи: загрузка и сохранение сессий, отображение текущего шага
type Service struct {
	store        SessionStore
	tenantRepo   TenantRepository
	availability AvailabilityCalculator
	reserver     intake.Reserver
	metrics      MetricsCollector
	now          func() time.Time
	newID        func() string
	logger       Logger
}

// NewService создает новый экземпляр сервиса мастера
// metrics может быть nil
func NewService(
	store SessionStore,
	tenantRepo TenantRepository,
	availability AvailabilityCalculator,
	reserve ReserveUseCase,
	metrics MetricsCollector,
	logger Logger,
) *Service {
	return &Service{
		store:        store,
		tenantRepo:   tenantRepo,
		availability: availability,
		reserver:     reserveAdapter{useCase: reserve},
		metrics:      metrics,
		now:          time.Now,
		newID:        uuid.NewString,
		logger:       logger,
	}
}

// Start открывает новую сессию мастера тенанта
func (s *Service) Start(ctx context.Context, tenantID int64) (*models.SessionView, error) {
	s.logger.Info("Start: opening wizard session for tenant=%d", tenantID)

	// 1. Получаем конфигурацию тенанта
	cfg, err := s.loadConfig(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	// 2. Создаем сессию на первом шаге
	sess := s.machine(cfg).Start(s.newID(), s.now())

	// 3. Сохраняем
	if err := s.save(ctx, sess); err != nil {
		return nil, err
	}

	s.logger.Info("Start: wizard session %s opened for tenant=%d", sess.ID, tenantID)
	return s.render(ctx, cfg, sess, nil)
}

// Get возвращает текущий шаг сессии
// month выбирает месяц календаря на шаге выбора даты; nil - месяц выбранной даты или текущий
func (s *Service) Get(ctx context.Context, id string, month *time.Time) (*models.SessionView, error) {
	sess, cfg, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.render(ctx, cfg, sess, month)
}

// Submit отправляет данные текущего шага
// Отказ по данным пользователя не является ошибкой: он возвращается в Errors и Reason
func (s *Service) Submit(ctx context.Context, id string, in intake.Input) (*models.SessionView, error) {
	// 1. Загружаем сессию и конфигурацию
	sess, cfg, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	state := sess.Current().State
	s.logger.Info("Submit: session=%s, state=%s", id, state)

	// 2. Переход
	if err := s.machine(cfg).Submit(ctx, sess, in); err != nil {
		s.record(state, resultError)
		if errors.Is(err, intake.ErrSessionSubmitted) {
			s.logger.Warn("Submit: session=%s is already submitted", id)
			return nil, ErrSessionSubmitted
		}
		s.logger.Error("Submit: transition of session=%s from %s failed: %v", id, state, err)
		return nil, fmt.Errorf("%w: Submit - transition: %v", ErrInternal, err)
	}

	if sess.HasErrors() {
		s.record(state, resultRejected)
		s.logger.Warn("Submit: session=%s stays at %s: reason=%s, errors=%v",
			id, sess.Current().State, sess.Reason, sess.Errors)
	} else {
		s.record(state, resultAdvanced)
		s.logger.Info("Submit: session=%s moved from %s to %s", id, state, sess.Current().State)
	}

	// 3. Сохраняем
	sess.UpdatedAt = s.now()
	if err := s.save(ctx, sess); err != nil {
		return nil, err
	}

	return s.render(ctx, cfg, sess, nil)
}

// Back возвращает сессию на предыдущий шаг
func (s *Service) Back(ctx context.Context, id string) (*models.SessionView, error) {
	sess, cfg, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	state := sess.Current().State
	if err := s.machine(cfg).Back(sess); err != nil {
		switch {
		case errors.Is(err, intake.ErrSessionSubmitted):
			return nil, ErrSessionSubmitted
		case errors.Is(err, intake.ErrNoPreviousStep):
			return nil, ErrNoPreviousStep
		}
		return nil, fmt.Errorf("%w: Back: %v", ErrInternal, err)
	}
	s.record(state, resultBack)

	sess.UpdatedAt = s.now()
	if err := s.save(ctx, sess); err != nil {
		return nil, err
	}

	s.logger.Info("Back: session=%s moved from %s to %s", id, state, sess.Current().State)
	return s.render(ctx, cfg, sess, nil)
}

func (s *Service) machine(cfg *domain.TenantScheduleConfig) *intake.Machine {
	return intake.NewMachine(cfg, s.availability, s.reserver)
}

func (s *Service) load(ctx context.Context, id string) (*intake.Session, *domain.TenantScheduleConfig, error) {
	if id == "" {
		return nil, nil, fmt.Errorf("%w: session id is required", ErrInvalidInput)
	}

	sess, err := s.store.Get(ctx, id)
	if err != nil {
		if errors.Is(err, session.ErrSessionNotFound) {
			s.logger.Warn("wizard session %s not found", id)
			return nil, nil, ErrSessionNotFound
		}
		s.logger.Error("failed to load wizard session %s: %v", id, err)
		return nil, nil, fmt.Errorf("%w: load session: %v", ErrInternal, err)
	}

	cfg, err := s.loadConfig(ctx, sess.TenantID)
	if err != nil {
		return nil, nil, err
	}
	return sess, cfg, nil
}

func (s *Service) loadConfig(ctx context.Context, tenantID int64) (*domain.TenantScheduleConfig, error) {
	cfg, err := s.tenantRepo.Get(ctx, tenantID)
	if err != nil {
		if errors.Is(err, tenantRepo.ErrConfigNotFound) {
			s.logger.Warn("tenant=%d has no schedule config", tenantID)
			return nil, ErrTenantNotFound
		}
		s.logger.Error("failed to get config of tenant=%d: %v", tenantID, err)
		return nil, fmt.Errorf("%w: get config: %v", ErrInternal, err)
	}
	return cfg, nil
}

func (s *Service) save(ctx context.Context, sess *intake.Session) error {
	if err := s.store.Save(ctx, sess); err != nil {
		s.logger.Error("failed to save wizard session %s: %v", sess.ID, err)
		return fmt.Errorf("%w: save session: %v", ErrInternal, err)
	}
	return nil
}

// render дополняет сессию вариантами ответа текущего шага
func (s *Service) render(ctx context.Context, cfg *domain.TenantScheduleConfig, sess *intake.Session, month *time.Time) (*models.SessionView, error) {
	view := models.FromSession(sess)

	switch sess.Current().State {
	case intake.StateServiceSelect:
		for _, svc := range cfg.SortedServices() {
			view.Choices = append(view.Choices, domain.Choice{ID: svc.ID, Label: svc.Name})
		}

	case intake.StateServiceOptions:
		step, err := s.machine(cfg).CurrentStep(sess)
		if err != nil {
			s.logger.Error("render: session=%s: %v", sess.ID, err)
			return nil, fmt.Errorf("%w: render step: %v", ErrInternal, err)
		}
		view.Step = models.FromOptionStep(step)
		view.Choices = stepChoices(cfg, sess.Request.ServiceID, step)

	case intake.StateDateSelect:
		calendar, err := s.calendarMonth(cfg, sess, month)
		if err != nil {
			s.logger.Error("render: invalid timezone %q of tenant=%d: %v", cfg.Timezone, cfg.TenantID, err)
			return nil, fmt.Errorf("%w: load timezone: %v", ErrInternal, err)
		}
		resp, err := s.availability.Execute(ctx, &getAvailability.Request{
			TenantID: cfg.TenantID,
			Month:    calendar,
		})
		if err != nil {
			s.logger.Error("render: availability of session=%s: %v", sess.ID, err)
			return nil, fmt.Errorf("%w: render calendar: %v", ErrInternal, err)
		}
		view.Days = models.FromDomainDays(resp.Days)

	case intake.StateSlotSelect:
		day, err := s.availability.Day(ctx, cfg, sess.Request.Date)
		if err != nil {
			s.logger.Error("render: day availability of session=%s: %v", sess.ID, err)
			return nil, fmt.Errorf("%w: render sessions: %v", ErrInternal, err)
		}
		view.Sessions = models.FromDomainSessions(day.Sessions)
	}

	return view, nil
}

// calendarMonth месяц календаря; текущий месяц считается в часовом поясе тенанта
func (s *Service) calendarMonth(cfg *domain.TenantScheduleConfig, sess *intake.Session, month *time.Time) (time.Time, error) {
	switch {
	case month != nil:
		return *month, nil
	case !sess.Request.Date.IsZero():
		return sess.Request.Date, nil
	}

	loc, err := cfg.Location()
	if err != nil {
		return time.Time{}, err
	}
	return s.now().In(loc), nil
}

func (s *Service) record(state intake.State, result string) {
	if s.metrics != nil {
		s.metrics.RecordWizardTransition(string(state), result)
	}
}

// stepChoices варианты ответа шага опций
func stepChoices(cfg *domain.TenantScheduleConfig, serviceID string, step *domain.OptionStep) []domain.Choice {
	service, ok := cfg.FindService(serviceID)
	if !ok {
		return nil
	}

	switch step.Kind {
	case domain.StepEquipment:
		equipment := cfg.EquipmentFor(service)
		choices := make([]domain.Choice, len(equipment))
		for i, eq := range equipment {
			choices[i] = domain.Choice{ID: eq.ID, Label: eq.Name}
		}
		return choices

	case domain.StepIntervention:
		interventions := make([]domain.Intervention, len(service.Interventions))
		copy(interventions, service.Interventions)
		sort.SliceStable(interventions, func(i, j int) bool {
			return interventions[i].Position < interventions[j].Position
		})
		choices := make([]domain.Choice, len(interventions))
		for i, in := range interventions {
			choices[i] = domain.Choice{ID: in.ID, Label: in.Name}
		}
		return choices

	default:
		return step.Choices
	}
}

// reserveAdapter передает заявку мастера в use case резервирования
type reserveAdapter struct {
	useCase ReserveUseCase
}

func (r reserveAdapter) Reserve(ctx context.Context, tenantID int64, req domain.BookingRequest) (*domain.Booking, error) {
	resp, err := r.useCase.Execute(ctx, &reserveSession.Request{TenantID: tenantID, Booking: req})
	if err != nil {
		return nil, err
	}
	return resp.Booking, nil
}
