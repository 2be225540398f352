package domain

import (
	"errors"
	"strings"
)

// Причины отказа, общие для калькулятора, мастера и резервирования
var (
	ErrValidationFailed      = errors.New("validation failed")
	ErrSlotFull              = errors.New("slot is full")
	ErrOutsideZone           = errors.New("postal code is outside the service area")
	ErrOutsideLeadTimeWindow = errors.New("date is outside the lead time window")
	ErrInvalidConfiguration  = errors.New("invalid schedule configuration")
)

// Машиночитаемые коды причин для API
const (
	ReasonValidationFailed      = "ValidationFailed"
	ReasonSlotFull              = "SlotFull"
	ReasonOutsideZone           = "OutsideZone"
	ReasonOutsideLeadTimeWindow = "OutsideLeadTimeWindow"
	ReasonInvalidConfiguration  = "InvalidConfiguration"
)

// ValidationError список проблем с входными данными
type ValidationError struct {
	Problems []string
}

func NewValidationError(problems ...string) *ValidationError {
	return &ValidationError{Problems: problems}
}

func (e *ValidationError) Error() string {
	return ErrValidationFailed.Error() + ": " + strings.Join(e.Problems, "; ")
}

func (e *ValidationError) Unwrap() error {
	return ErrValidationFailed
}

// ConfigurationError список проблем конфигурации тенанта
type ConfigurationError struct {
	Problems []string
}

func (e *ConfigurationError) Error() string {
	return ErrInvalidConfiguration.Error() + ": " + strings.Join(e.Problems, "; ")
}

func (e *ConfigurationError) Unwrap() error {
	return ErrInvalidConfiguration
}

// ReasonOf возвращает код причины для ошибки или пустую строку
func ReasonOf(err error) string {
	switch {
	case errors.Is(err, ErrSlotFull):
		return ReasonSlotFull
	case errors.Is(err, ErrOutsideZone):
		return ReasonOutsideZone
	case errors.Is(err, ErrOutsideLeadTimeWindow):
		return ReasonOutsideLeadTimeWindow
	case errors.Is(err, ErrValidationFailed):
		return ReasonValidationFailed
	case errors.Is(err, ErrInvalidConfiguration):
		return ReasonInvalidConfiguration
	default:
		return ""
	}
}

// ProblemsOf возвращает список сообщений из ValidationError/ConfigurationError
func ProblemsOf(err error) []string {
	var validationErr *ValidationError
	if errors.As(err, &validationErr) {
		return validationErr.Problems
	}
	var configErr *ConfigurationError
	if errors.As(err, &configErr) {
		return configErr.Problems
	}
	return nil
}
