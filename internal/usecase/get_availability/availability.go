package get_availability

import (
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

type sessionKey struct {
	date      string
	sessionID string
}

// countActive группирует активные бронирования по (дата, окно)
func countActive(bookings []*domain.Booking) map[sessionKey]int {
	counts := make(map[sessionKey]int)
	for _, b := range bookings {
		if !b.IsActive() {
			continue
		}
		counts[sessionKey{date: b.BookingDate.Format(domain.DateFormat), sessionID: b.SessionID}]++
	}
	return counts
}

// ComputeAvailability считает доступность каждого дня месяца month
// Функция чистая: результат зависит только от аргументов
// Бронирования других месяцев не влияют на результат
func ComputeAvailability(
	cfg *domain.TenantScheduleConfig,
	month time.Time,
	bookings []*domain.Booking,
	now time.Time,
) ([]domain.DayAvailability, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}
	windows, err := cfg.Windows()
	if err != nil {
		return nil, err
	}

	counts := countActive(bookings)
	first := time.Date(month.Year(), month.Month(), 1, 0, 0, 0, 0, loc)

	days := make([]domain.DayAvailability, 0, 31)
	for date := first; date.Month() == first.Month(); date = date.AddDate(0, 0, 1) {
		day, err := computeDay(cfg, windows, date, counts, now)
		if err != nil {
			return nil, err
		}
		days = append(days, day)
	}

	return days, nil
}

// ComputeDay считает доступность одного дня
func ComputeDay(
	cfg *domain.TenantScheduleConfig,
	date time.Time,
	bookings []*domain.Booking,
	now time.Time,
) (domain.DayAvailability, error) {
	loc, err := cfg.Location()
	if err != nil {
		return domain.DayAvailability{}, err
	}
	windows, err := cfg.Windows()
	if err != nil {
		return domain.DayAvailability{}, err
	}

	return computeDay(cfg, windows, domain.InLocation(date, loc), countActive(bookings), now)
}

func computeDay(
	cfg *domain.TenantScheduleConfig,
	windows []domain.SessionWindow,
	date time.Time,
	counts map[sessionKey]int,
	now time.Time,
) (domain.DayAvailability, error) {
	today := domain.DateOf(now.In(date.Location()))

	day := domain.DayAvailability{
		Date:      date,
		Weekday:   date.Weekday(),
		IsPast:    date.Before(today),
		IsToday:   date.Equal(today),
		IsWorkDay: cfg.IsWorkDay(date.Weekday()),
		Sessions:  []domain.SessionAvailability{},
	}

	// В нерабочий день окна не показываются
	if !day.IsWorkDay {
		return day, nil
	}

	dateKey := date.Format(domain.DateFormat)
	for _, w := range windows {
		start, err := w.Start.OnDate(date, date.Location())
		if err != nil {
			return domain.DayAvailability{}, err
		}

		booked := counts[sessionKey{date: dateKey, sessionID: w.ID}]
		remaining := domain.RemainingCapacity(w.MaxBookings, booked)
		withinLeadTime := cfg.WithinLeadTime(start, now)

		day.Sessions = append(day.Sessions, domain.SessionAvailability{
			SessionID:      w.ID,
			Name:           w.Name,
			Start:          w.Start,
			End:            w.End,
			Capacity:       w.MaxBookings,
			Booked:         booked,
			Remaining:      remaining,
			WithinLeadTime: withinLeadTime,
			Available:      !day.IsPast && withinLeadTime && remaining > 0,
		})
	}

	return day, nil
}
