package reserve_session

import "errors"

var (
	// ErrTenantNotFound возвращается, когда у тенанта нет конфигурации расписания
	ErrTenantNotFound = errors.New("reserve_session: tenant not found")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("reserve_session: internal error")
)
