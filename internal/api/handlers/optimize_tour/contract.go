package optimize_tour

import (
	"context"

	optimizeTour "github.com/m04kA/SMC-SchedulingService/internal/usecase/optimize_tour"
)

type OptimizeTourUseCase interface {
	Execute(ctx context.Context, req *optimizeTour.Request) (*optimizeTour.Response, error)
	ExecuteDay(ctx context.Context, req *optimizeTour.DayRequest) (*optimizeTour.DayResponse, error)
	ExportDay(ctx context.Context, req *optimizeTour.DayRequest) ([]byte, *optimizeTour.DayResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
