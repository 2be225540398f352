package domain

// Значения конфигурации по умолчанию
const (
	DefaultTimezone    = "UTC"
	DefaultMinSelected = 1
)

// Ограничения для валидации конфигурации
const (
	MinSlotDurationMinutes = 5
	MaxSlotDurationMinutes = 480 // 8 часов
	MinBookingsPerSession  = 1
	MaxBookingsPerSession  = 100
	MaxLeadTimeDaysLimit   = 365 // 1 год
	MaxMinLeadTimeHours    = 24 * 30
	MaxCommentLength       = 500
)

// Форматы времени
const (
	TimeFormat  = "15:04"      // HH:MM
	DateFormat  = "2006-01-02" // YYYY-MM-DD
	MonthFormat = "2006-01"    // YYYY-MM
)

// ActiveStatuses статусы, которые занимают место в сессии
var ActiveStatuses = []BookingStatus{
	StatusPending,
	StatusConfirmed,
}

// InactiveStatuses статусы, которые место не занимают
var InactiveStatuses = []BookingStatus{
	StatusRejected,
	StatusCanceled,
}
