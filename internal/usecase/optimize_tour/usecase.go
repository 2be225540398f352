package optimize_tour

import (
	"context"
	"fmt"
	"math"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

// UseCase построение маршрута техника
type UseCase struct {
	bookingRepo BookingRepository
	exporter    RouteExporter
	metrics     MetricsCollector
	logger      Logger
}

// NewUseCase создает новый экземпляр use case
// exporter и metrics могут быть nil
func NewUseCase(bookingRepo BookingRepository, exporter RouteExporter, metrics MetricsCollector, logger Logger) *UseCase {
	return &UseCase{
		bookingRepo: bookingRepo,
		exporter:    exporter,
		metrics:     metrics,
		logger:      logger,
	}
}

// Execute упорядочивает явно переданные остановки
func (uc *UseCase) Execute(_ context.Context, req *Request) (*Response, error) {
	if err := validatePoint("depot", req.Depot); err != nil {
		return nil, err
	}
	for i, stop := range req.Stops {
		if err := validatePoint(fmt.Sprintf("stops[%d]", i), stop.Point); err != nil {
			return nil, err
		}
	}

	ordered := Optimize(req.Depot, req.Stops)
	uc.observe(len(ordered))

	return &Response{
		Depot:         req.Depot,
		Stops:         ordered,
		TotalDistance: TotalDistance(req.Depot, ordered),
	}, nil
}

// ExecuteDay строит маршрут техника по подтвержденным бронированиям на дату
// В маршрут попадают только бронирования, назначенные req.TechnicianID
// Бронирования без координат в маршрут не попадают и возвращаются в Unlocated
func (uc *UseCase) ExecuteDay(ctx context.Context, req *DayRequest) (*DayResponse, error) {
	uc.logger.Info("OptimizeTour: tenant=%d, technician=%d, date=%s",
		req.TenantID, req.TechnicianID, req.Date.Format(domain.DateFormat))

	// 1. Валидация входных данных
	if req.TenantID <= 0 {
		return nil, fmt.Errorf("%w: tenantID must be positive", ErrInvalidInput)
	}
	if req.TechnicianID <= 0 {
		return nil, fmt.Errorf("%w: technicianId must be positive", ErrInvalidInput)
	}
	if req.Date.IsZero() {
		return nil, fmt.Errorf("%w: date is required", ErrInvalidInput)
	}
	if err := validatePoint("depot", req.Depot); err != nil {
		return nil, err
	}

	// 2. Подтвержденные бронирования дня, назначенные технику
	status := domain.StatusConfirmed
	technicianID := req.TechnicianID
	bookings, err := uc.bookingRepo.List(ctx, domain.BookingsFilter{
		TenantID:     req.TenantID,
		StartDate:    &req.Date,
		EndDate:      &req.Date,
		Status:       &status,
		TechnicianID: &technicianID,
	})
	if err != nil {
		uc.logger.Error("OptimizeTour: failed to get bookings: %v", err)
		return nil, fmt.Errorf("%w: failed to get bookings: %v", ErrInternal, err)
	}

	// 3. Проекция в остановки
	stops := make([]domain.Stop, 0, len(bookings))
	byID := make(map[int64]*domain.Booking, len(bookings))
	unlocated := make([]int64, 0)
	for _, b := range bookings {
		if b.Location == nil {
			unlocated = append(unlocated, b.ID)
			continue
		}
		id := b.ID
		byID[id] = b
		stops = append(stops, domain.Stop{
			BookingID: &id,
			Label:     stopLabel(b),
			Point:     domain.PointOf(*b.Location),
		})
	}
	if len(unlocated) > 0 {
		uc.logger.Warn("OptimizeTour: %d bookings without location skipped: %v", len(unlocated), unlocated)
	}

	// 4. Ближайший сосед
	ordered := Optimize(req.Depot, stops)
	uc.observe(len(ordered))

	resp := &DayResponse{
		TenantID:     req.TenantID,
		TechnicianID: req.TechnicianID,
		Date:         req.Date,
		Depot:        req.Depot,
		Stops:        make([]TourStop, len(ordered)),
		Unlocated:    unlocated,
	}
	current := req.Depot
	for i, stop := range ordered {
		leg := current.Distance(stop.Point)
		resp.Stops[i] = TourStop{Stop: stop, Booking: byID[*stop.BookingID], LegDistance: leg}
		resp.TotalDistance += leg
		current = stop.Point
	}

	uc.logger.Info("OptimizeTour: %d stops, total distance %.4f", len(resp.Stops), resp.TotalDistance)
	return resp, nil
}

// ExportDay строит маршрут дня и формирует маршрутный лист
func (uc *UseCase) ExportDay(ctx context.Context, req *DayRequest) ([]byte, *DayResponse, error) {
	if uc.exporter == nil {
		return nil, nil, fmt.Errorf("%w: route exporter is not configured", ErrInternal)
	}

	tour, err := uc.ExecuteDay(ctx, req)
	if err != nil {
		return nil, nil, err
	}

	data, err := uc.exporter.Export(tour)
	if err != nil {
		uc.logger.Error("OptimizeTour: failed to export route sheet: %v", err)
		return nil, nil, fmt.Errorf("%w: export route sheet: %v", ErrInternal, err)
	}

	return data, tour, nil
}

func (uc *UseCase) observe(stops int) {
	if uc.metrics != nil {
		uc.metrics.ObserveTourSize(stops)
	}
}

func stopLabel(b *domain.Booking) string {
	name := b.Details.Contact.FullName()
	if name == "" {
		return fmt.Sprintf("#%d", b.ID)
	}
	return fmt.Sprintf("#%d %s", b.ID, name)
}

func validatePoint(name string, p domain.Point) error {
	if math.IsNaN(p.X) || math.IsNaN(p.Y) || math.IsInf(p.X, 0) || math.IsInf(p.Y, 0) {
		return fmt.Errorf("%w: %s must have finite coordinates", ErrInvalidInput, name)
	}
	return nil
}
