package reserve_session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/internal/events"
	tenantRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/tenant"
	"github.com/m04kA/SMC-SchedulingService/pkg/metrics"
)

// UseCase резервирование окна с атомарной проверкой вместимости
// Единственный путь записи бронирований
type UseCase struct {
	bookingRepo  BookingRepository
	tenantRepo   TenantRepository
	txManager    TransactionManager
	events       EventPublisher
	metrics      MetricsCollector
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
// events и metrics могут быть nil
func NewUseCase(
	bookingRepo BookingRepository,
	tenantRepo TenantRepository,
	txManager TransactionManager,
	events EventPublisher,
	metrics MetricsCollector,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		tenantRepo:   tenantRepo,
		txManager:    txManager,
		events:       events,
		metrics:      metrics,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute выполняет резервирование
// Повторно проверяет зону, обязательные поля и окно записи: данные клиента не считаются проверенными
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("ReserveSession: tenant=%d, date=%s, session=%s, service=%s",
		req.TenantID, req.Booking.Date.Format(domain.DateFormat), req.Booking.SessionID, req.Booking.ServiceID)

	// 1. Валидация формы запроса
	if err := validateShape(req); err != nil {
		uc.logger.Warn("ReserveSession: validation failed: %v", err)
		return nil, uc.reject(metrics.OutcomeValidationFailed, err)
	}

	// 2. Получаем текущее время
	now := uc.timeProvider.Now()

	// 3. Получаем конфигурацию тенанта
	cfg, err := uc.tenantRepo.Get(ctx, req.TenantID)
	if err != nil {
		if errors.Is(err, tenantRepo.ErrConfigNotFound) {
			uc.logger.Warn("ReserveSession: tenant id=%d has no schedule config", req.TenantID)
			return nil, uc.reject(metrics.OutcomeError, ErrTenantNotFound)
		}
		uc.logger.Error("ReserveSession: failed to get config of tenant id=%d: %v", req.TenantID, err)
		return nil, uc.reject(metrics.OutcomeError, fmt.Errorf("%w: failed to get config: %v", ErrInternal, err))
	}

	// 4. Зона обслуживания
	if _, ok := cfg.ZoneFor(req.Booking.PostalCode); !ok {
		uc.logger.Warn("ReserveSession: postal code %s is outside zones of tenant=%d", req.Booking.PostalCode, req.TenantID)
		return nil, uc.reject(metrics.OutcomeOutsideZone, fmt.Errorf("reserve_session: %w", domain.ErrOutsideZone))
	}

	// 5. Обязательные поля услуги, оборудования и контакта
	if err := cfg.ValidateRequest(&req.Booking); err != nil {
		uc.logger.Warn("ReserveSession: request validation failed: %v", err)
		return nil, uc.reject(metrics.OutcomeValidationFailed, err)
	}

	// 6. Окно существует и день рабочий
	window, date, err := resolveWindow(cfg, &req.Booking)
	if err != nil {
		uc.logger.Warn("ReserveSession: %v", err)
		return nil, uc.reject(metrics.OutcomeValidationFailed, err)
	}

	// 7. Окно записи (включая прошедшие даты)
	start, err := window.Start.OnDate(date, date.Location())
	if err != nil {
		uc.logger.Error("ReserveSession: invalid session start %q: %v", window.Start, err)
		return nil, uc.reject(metrics.OutcomeError, fmt.Errorf("%w: session start: %v", ErrInternal, err))
	}
	if !cfg.WithinLeadTime(start, now) {
		uc.logger.Warn("ReserveSession: session %s at %s is outside the lead time window",
			window.ID, start.Format(time.RFC3339))
		return nil, uc.reject(metrics.OutcomeOutsideLeadWindow, fmt.Errorf("reserve_session: %w", domain.ErrOutsideLeadTimeWindow))
	}

	var result *domain.Booking

	// 8. Подсчет и запись в одной сериализуемой транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 8.1. Активные бронирования окна
		active, err := uc.bookingRepo.CountActive(txCtx, req.TenantID, date, window.ID)
		if err != nil {
			return fmt.Errorf("%w: failed to count bookings: %w", ErrInternal, err)
		}

		// 8.2. Та же формула, что и в калькуляторе доступности
		remaining := domain.RemainingCapacity(window.MaxBookings, active)
		if remaining <= 0 {
			uc.logger.Warn("ReserveSession: session %s on %s is full, %d/%d places taken",
				window.ID, date.Format(domain.DateFormat), active, window.MaxBookings)
			return fmt.Errorf("reserve_session: %w", domain.ErrSlotFull)
		}

		// 8.3. Создаем бронирование
		created, err := uc.bookingRepo.Create(txCtx, newBooking(cfg, &req.Booking, window, date))
		if err != nil {
			return fmt.Errorf("%w: failed to create booking: %w", ErrInternal, err)
		}

		result = created
		return nil
	})

	if err != nil {
		if errors.Is(err, domain.ErrSlotFull) {
			return nil, uc.reject(metrics.OutcomeSlotFull, err)
		}
		uc.logger.Error("ReserveSession: reservation failed: %v", err)
		if !errors.Is(err, ErrInternal) {
			err = fmt.Errorf("%w: %v", ErrInternal, err)
		}
		return nil, uc.reject(metrics.OutcomeError, err)
	}

	uc.logger.Info("ReserveSession: created booking id=%d with status %s", result.ID, result.Status)
	uc.record(metrics.OutcomeReserved)

	// 9. Уведомляем подписчиков
	uc.publish(result)

	return &Response{Booking: result}, nil
}

// resolveWindow находит окно дня и проверяет рабочий день
// Возвращает дату бронирования в часовом поясе тенанта
func resolveWindow(cfg *domain.TenantScheduleConfig, req *domain.BookingRequest) (domain.SessionWindow, time.Time, error) {
	loc, err := cfg.Location()
	if err != nil {
		return domain.SessionWindow{}, time.Time{}, fmt.Errorf("%w: load timezone: %v", ErrInternal, err)
	}

	window, ok, err := cfg.FindWindow(req.SessionID)
	if err != nil {
		return domain.SessionWindow{}, time.Time{}, fmt.Errorf("%w: build windows: %v", ErrInternal, err)
	}
	if !ok {
		return domain.SessionWindow{}, time.Time{}, domain.NewValidationError(
			fmt.Sprintf("sessionId: %q is not a session of this calendar", req.SessionID))
	}

	date := domain.InLocation(req.Date, loc)
	if !cfg.IsWorkDay(date.Weekday()) {
		return domain.SessionWindow{}, time.Time{}, domain.NewValidationError(
			fmt.Sprintf("date: %s is not a working day", date.Format(domain.DateFormat)))
	}

	return window, date, nil
}

func newBooking(cfg *domain.TenantScheduleConfig, req *domain.BookingRequest, window domain.SessionWindow, date time.Time) *domain.Booking {
	return &domain.Booking{
		TenantID:       cfg.TenantID,
		BookingDate:    date,
		SessionID:      window.ID,
		SessionStart:   window.Start,
		SessionEnd:     window.End,
		ServiceID:      req.ServiceID,
		EquipmentID:    req.EquipmentID,
		InterventionID: req.InterventionID,
		PostalCode:     req.PostalCode,
		Details: domain.BookingDetails{
			Attributes: req.Attributes,
			Selections: req.Selections,
			Contact:    req.Contact,
		},
		Location: req.Location,
		Status:   cfg.InitialStatus(),
	}
}

func (uc *UseCase) publish(b *domain.Booking) {
	if uc.events == nil {
		return
	}
	err := uc.events.PublishJSON(events.EventBookingCreated, events.BookingEventPayload{
		BookingID:     b.ID,
		TenantID:      b.TenantID,
		Date:          b.BookingDate.Format(domain.DateFormat),
		SessionID:     b.SessionID,
		ServiceID:     b.ServiceID,
		PostalCode:    b.PostalCode,
		Status:        string(b.Status),
		CustomerName:  b.Details.Contact.FullName(),
		CustomerEmail: b.Details.Contact.Email,
		OccurredAt:    b.CreatedAt,
	})
	if err != nil {
		uc.logger.Warn("ReserveSession: failed to publish %s for booking id=%d: %v", events.EventBookingCreated, b.ID, err)
	}
}

func (uc *UseCase) reject(outcome string, err error) error {
	uc.record(outcome)
	return err
}

func (uc *UseCase) record(outcome string) {
	if uc.metrics != nil {
		uc.metrics.RecordReservation(outcome)
	}
}
