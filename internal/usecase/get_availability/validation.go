package get_availability

import "fmt"

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.TenantID <= 0 {
		return fmt.Errorf("%w: tenantID must be positive", ErrInvalidInput)
	}

	if req.Month.IsZero() {
		return fmt.Errorf("%w: month is required", ErrInvalidInput)
	}

	if req.PostalCode != nil && *req.PostalCode == "" {
		return fmt.Errorf("%w: postalCode must not be empty", ErrInvalidInput)
	}

	return nil
}
