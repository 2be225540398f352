package get_availability

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	tenantRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/tenant"
)

// UseCase use case для получения доступности календаря тенанта
type UseCase struct {
	bookingRepo  BookingRepository
	tenantRepo   TenantRepository
	metrics      MetricsCollector
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
// metrics может быть nil
func NewUseCase(
	bookingRepo BookingRepository,
	tenantRepo TenantRepository,
	metrics MetricsCollector,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		tenantRepo:   tenantRepo,
		metrics:      metrics,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute выполняет use case получения доступности на месяц
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailability: tenant=%d, month=%s", req.TenantID, req.Month.Format(domain.MonthFormat))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailability: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем конфигурацию тенанта
	cfg, err := uc.loadConfig(ctx, req.TenantID)
	if err != nil {
		return nil, err
	}

	// 3. Проверяем зону обслуживания, если передан индекс
	var zone *domain.Zone
	if req.PostalCode != nil {
		z, ok := cfg.ZoneFor(*req.PostalCode)
		if !ok {
			uc.logger.Warn("GetAvailability: postal code %s is outside zones of tenant=%d", *req.PostalCode, req.TenantID)
			return nil, fmt.Errorf("get_availability: %w", domain.ErrOutsideZone)
		}
		zone = z
	}

	loc, err := cfg.Location()
	if err != nil {
		uc.logger.Error("GetAvailability: invalid timezone %q of tenant=%d: %v", cfg.Timezone, req.TenantID, err)
		return nil, fmt.Errorf("%w: load timezone: %v", ErrInternal, err)
	}

	// 4. Получаем активные бронирования месяца
	first := time.Date(req.Month.Year(), req.Month.Month(), 1, 0, 0, 0, 0, loc)
	last := first.AddDate(0, 1, -1)

	bookings, err := uc.bookingRepo.List(ctx, domain.BookingsFilter{
		TenantID:  req.TenantID,
		StartDate: &first,
		EndDate:   &last,
	})
	if err != nil {
		uc.logger.Error("GetAvailability: failed to get bookings: %v", err)
		return nil, fmt.Errorf("%w: failed to get bookings: %v", ErrInternal, err)
	}

	// 5. Считаем доступность
	started := time.Now()
	days, err := ComputeAvailability(cfg, first, bookings, uc.timeProvider.Now())
	uc.observe(scopeMonth, started)
	if err != nil {
		uc.logger.Error("GetAvailability: failed to compute availability: %v", err)
		return nil, fmt.Errorf("%w: compute availability: %v", ErrInternal, err)
	}

	uc.logger.Info("GetAvailability: computed %d days for tenant=%d from %d bookings",
		len(days), req.TenantID, len(bookings))

	return &Response{
		TenantID: req.TenantID,
		Month:    first,
		Zone:     zone,
		Days:     days,
	}, nil
}

// ExecuteDay возвращает доступность одного дня
func (uc *UseCase) ExecuteDay(ctx context.Context, req *DayRequest) (*domain.DayAvailability, error) {
	if req.TenantID <= 0 || req.Date.IsZero() {
		return nil, fmt.Errorf("%w: tenantID and date are required", ErrInvalidInput)
	}

	cfg, err := uc.loadConfig(ctx, req.TenantID)
	if err != nil {
		return nil, err
	}

	return uc.Day(ctx, cfg, req.Date)
}

// Day считает доступность дня по уже загруженной конфигурации
func (uc *UseCase) Day(ctx context.Context, cfg *domain.TenantScheduleConfig, date time.Time) (*domain.DayAvailability, error) {
	day := domain.DateOf(date)

	bookings, err := uc.bookingRepo.List(ctx, domain.BookingsFilter{
		TenantID:  cfg.TenantID,
		StartDate: &day,
		EndDate:   &day,
	})
	if err != nil {
		uc.logger.Error("GetAvailability: failed to get bookings of %s: %v", day.Format(domain.DateFormat), err)
		return nil, fmt.Errorf("%w: failed to get bookings: %v", ErrInternal, err)
	}

	started := time.Now()
	result, err := ComputeDay(cfg, day, bookings, uc.timeProvider.Now())
	uc.observe(scopeDay, started)
	if err != nil {
		return nil, fmt.Errorf("%w: compute day: %v", ErrInternal, err)
	}

	return &result, nil
}

const (
	scopeMonth = "month"
	scopeDay   = "day"
)

func (uc *UseCase) observe(scope string, started time.Time) {
	if uc.metrics != nil {
		uc.metrics.ObserveAvailability(scope, time.Since(started))
	}
}

func (uc *UseCase) loadConfig(ctx context.Context, tenantID int64) (*domain.TenantScheduleConfig, error) {
	cfg, err := uc.tenantRepo.Get(ctx, tenantID)
	if err != nil {
		if errors.Is(err, tenantRepo.ErrConfigNotFound) {
			uc.logger.Warn("GetAvailability: tenant id=%d has no schedule config", tenantID)
			return nil, ErrTenantNotFound
		}
		uc.logger.Error("GetAvailability: failed to get config of tenant id=%d: %v", tenantID, err)
		return nil, fmt.Errorf("%w: failed to get config: %v", ErrInternal, err)
	}
	return cfg, nil
}
