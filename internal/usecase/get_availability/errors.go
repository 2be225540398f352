package get_availability

import "errors"

var (
	// ErrTenantNotFound возвращается, когда у тенанта нет конфигурации расписания
	ErrTenantNotFound = errors.New("get_availability: tenant not found")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("get_availability: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("get_availability: internal error")
)
