package optimize_tour

import (
	"context"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	List(ctx context.Context, filter domain.BookingsFilter) ([]*domain.Booking, error)
}

// RouteExporter формирует файл маршрутного листа
type RouteExporter interface {
	Export(tour *DayResponse) ([]byte, error)
}

// MetricsCollector метрика размера маршрута
type MetricsCollector interface {
	ObserveTourSize(stops int)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
