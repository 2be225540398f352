package tenant

import "errors"

var (
	// ErrConfigNotFound возвращается, когда у тенанта нет конфигурации расписания
	ErrConfigNotFound = errors.New("tenant.repository: schedule config not found")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("tenant.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("tenant.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("tenant.repository: failed to scan row")

	// ErrCodec возвращается, если конфигурацию не удалось (де)сериализовать
	ErrCodec = errors.New("tenant.repository: failed to encode or decode config")
)
