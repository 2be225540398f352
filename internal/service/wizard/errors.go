package wizard

import "errors"

var (
	// ErrSessionNotFound сессия не найдена или истек ее срок
	ErrSessionNotFound = errors.New("wizard session not found")

	// ErrTenantNotFound у тенанта нет конфигурации расписания
	ErrTenantNotFound = errors.New("tenant not found")

	// ErrSessionSubmitted бронирование по сессии уже создано
	ErrSessionSubmitted = errors.New("wizard session is already submitted")

	// ErrNoPreviousStep сессия стоит на первом шаге
	ErrNoPreviousStep = errors.New("wizard session has no previous step")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
