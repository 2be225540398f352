package reserve_session

import (
	"strings"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

// validateShape проверяет обязательные поля запроса до загрузки конфигурации
func validateShape(req *Request) error {
	var problems []string
	if req.TenantID <= 0 {
		problems = append(problems, "tenantId: must be positive")
	}
	if strings.TrimSpace(req.Booking.PostalCode) == "" {
		problems = append(problems, "postalCode")
	}
	if len(problems) > 0 {
		return domain.NewValidationError(problems...)
	}
	return nil
}
