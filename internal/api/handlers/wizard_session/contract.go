package wizard_session

import (
	"context"
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/service/wizard/models"
	intake "github.com/m04kA/SMC-SchedulingService/internal/wizard"
)

type WizardService interface {
	Start(ctx context.Context, tenantID int64) (*models.SessionView, error)
	Get(ctx context.Context, id string, month *time.Time) (*models.SessionView, error)
	Submit(ctx context.Context, id string, in intake.Input) (*models.SessionView, error)
	Back(ctx context.Context, id string) (*models.SessionView, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
