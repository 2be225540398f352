package domain

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/m04kA/SMC-SchedulingService/pkg/types"
)

// ScheduleMode способ нарезки рабочего дня
type ScheduleMode string

const (
	ModeSession ScheduleMode = "session" // именованные окна (утро/день)
	ModeSlot    ScheduleMode = "slot"    // слоты фиксированной длины
)

// SessionWindow именованное окно приема с лимитом бронирований
type SessionWindow struct {
	ID          string           `json:"id"`
	Name        string           `json:"name"`
	Start       types.TimeString `json:"start"`
	End         types.TimeString `json:"end"`
	MaxBookings int              `json:"maxBookings"`
}

// SlotParameters параметры генерации слотов
type SlotParameters struct {
	DurationMinutes int               `json:"durationMinutes"`
	IntervalMinutes int               `json:"intervalMinutes"`
	MaxPerSlot      int               `json:"maxPerSlot"`
	DayStart        types.TimeString  `json:"dayStart"`
	DayEnd          types.TimeString  `json:"dayEnd"`
	LunchStart      *types.TimeString `json:"lunchStart,omitempty"`
	LunchEnd        *types.TimeString `json:"lunchEnd,omitempty"`
}

// Zone зона обслуживания по префиксу почтового индекса
type Zone struct {
	Prefix string `json:"prefix"`
	Label  string `json:"label"`
}

// TenantScheduleConfig конфигурация календаря и каталога тенанта
// Все вычисления по дням выполняются в часовом поясе Timezone
type TenantScheduleConfig struct {
	TenantID         int64               `json:"tenantId"`
	Mode             ScheduleMode        `json:"mode"`
	Sessions         []SessionWindow     `json:"sessions,omitempty"`
	Slots            *SlotParameters     `json:"slots,omitempty"`
	WorkDays         []string            `json:"workDays"`
	MinLeadTimeHours *int                `json:"minLeadTimeHours,omitempty"`
	MaxLeadTimeDays  *int                `json:"maxLeadTimeDays,omitempty"`
	AutoConfirm      bool                `json:"autoConfirm"`
	Timezone         string              `json:"timezone"`
	Services         []ServiceOffering   `json:"services"`
	Equipment        []EquipmentOffering `json:"equipment,omitempty"`
	Zones            []Zone              `json:"zones,omitempty"`

	UpdatedAt time.Time `json:"-"`
}

var weekdayNames = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

// Location часовой пояс тенанта
func (c *TenantScheduleConfig) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.UTC, nil
	}
	return time.LoadLocation(c.Timezone)
}

// IsWorkDay проверяет, что день недели рабочий
func (c *TenantScheduleConfig) IsWorkDay(day time.Weekday) bool {
	for _, name := range c.WorkDays {
		if wd, ok := weekdayNames[strings.ToLower(name)]; ok && wd == day {
			return true
		}
	}
	return false
}

// InitialStatus статус нового бронирования
func (c *TenantScheduleConfig) InitialStatus() BookingStatus {
	if c.AutoConfirm {
		return StatusConfirmed
	}
	return StatusPending
}

// Windows возвращает окна одного рабочего дня, отсортированные по времени начала
// В режиме слотов ID окна совпадает с временем начала слота "HH:MM"
func (c *TenantScheduleConfig) Windows() ([]SessionWindow, error) {
	switch c.Mode {
	case ModeSession:
		windows := make([]SessionWindow, len(c.Sessions))
		copy(windows, c.Sessions)
		sort.SliceStable(windows, func(i, j int) bool {
			return windows[i].Start.IsBefore(windows[j].Start)
		})
		return windows, nil
	case ModeSlot:
		if c.Slots == nil {
			return nil, fmt.Errorf("%w: slot parameters are missing", ErrInvalidConfiguration)
		}
		return c.Slots.generate()
	default:
		return nil, fmt.Errorf("%w: unknown mode %q", ErrInvalidConfiguration, c.Mode)
	}
}

// FindWindow ищет окно дня по ID
func (c *TenantScheduleConfig) FindWindow(sessionID string) (SessionWindow, bool, error) {
	windows, err := c.Windows()
	if err != nil {
		return SessionWindow{}, false, err
	}
	for _, w := range windows {
		if w.ID == sessionID {
			return w, true, nil
		}
	}
	return SessionWindow{}, false, nil
}

// generate нарезает день на слоты с шагом IntervalMinutes
// Слоты, пересекающиеся с обедом, пропускаются
func (p *SlotParameters) generate() ([]SessionWindow, error) {
	dayStart, err := p.DayStart.Minutes()
	if err != nil {
		return nil, fmt.Errorf("%w: dayStart: %v", ErrInvalidConfiguration, err)
	}
	dayEnd, err := p.DayEnd.Minutes()
	if err != nil {
		return nil, fmt.Errorf("%w: dayEnd: %v", ErrInvalidConfiguration, err)
	}
	if p.DurationMinutes <= 0 || p.IntervalMinutes <= 0 {
		return nil, fmt.Errorf("%w: slot duration and interval must be positive", ErrInvalidConfiguration)
	}

	lunchStart, lunchEnd, hasLunch, err := p.lunch()
	if err != nil {
		return nil, err
	}

	windows := make([]SessionWindow, 0)
	for start := dayStart; start+p.DurationMinutes <= dayEnd; start += p.IntervalMinutes {
		end := start + p.DurationMinutes
		if hasLunch && isOverlapping(start, end, lunchStart, lunchEnd) {
			continue
		}

		startTS, err := types.NewTimeStringFromMinutes(start)
		if err != nil {
			return nil, err
		}
		endTS, err := startTS.AddMinutes(p.DurationMinutes)
		if err != nil {
			return nil, err
		}

		windows = append(windows, SessionWindow{
			ID:          startTS.String(),
			Name:        startTS.String() + "-" + endTS.String(),
			Start:       startTS,
			End:         endTS,
			MaxBookings: p.MaxPerSlot,
		})
	}

	return windows, nil
}

func (p *SlotParameters) lunch() (start, end int, ok bool, err error) {
	if p.LunchStart == nil || p.LunchEnd == nil {
		return 0, 0, false, nil
	}
	start, err = p.LunchStart.Minutes()
	if err != nil {
		return 0, 0, false, fmt.Errorf("%w: lunchStart: %v", ErrInvalidConfiguration, err)
	}
	end, err = p.LunchEnd.Minutes()
	if err != nil {
		return 0, 0, false, fmt.Errorf("%w: lunchEnd: %v", ErrInvalidConfiguration, err)
	}
	return start, end, true, nil
}

// isOverlapping проверяет пересечение интервалов [start1, end1) и [start2, end2)
// Интервалы, которые только касаются границами, не пересекаются
func isOverlapping(start1, end1, start2, end2 int) bool {
	return start1 < end2 && start2 < end1
}

// ZoneFor ищет зону по префиксу почтового индекса
// Если зоны не настроены, обслуживается любой индекс
func (c *TenantScheduleConfig) ZoneFor(postalCode string) (*Zone, bool) {
	code := strings.ReplaceAll(strings.TrimSpace(postalCode), " ", "")
	if code == "" {
		return nil, false
	}
	if len(c.Zones) == 0 {
		return nil, true
	}

	var best *Zone
	for i := range c.Zones {
		zone := &c.Zones[i]
		if strings.HasPrefix(code, zone.Prefix) && (best == nil || len(zone.Prefix) > len(best.Prefix)) {
			best = zone
		}
	}
	return best, best != nil
}

// WithinLeadTime проверяет, что начало сессии попадает в окно записи
//   - сессия не началась и начинается не раньше now + MinLeadTimeHours
//   - дата сессии не позже сегодняшней + MaxLeadTimeDays
func (c *TenantScheduleConfig) WithinLeadTime(sessionStart, now time.Time) bool {
	if sessionStart.Before(now) {
		return false
	}

	if c.MinLeadTimeHours != nil {
		earliest := now.Add(time.Duration(*c.MinLeadTimeHours) * time.Hour)
		if sessionStart.Before(earliest) {
			return false
		}
	}

	if c.MaxLeadTimeDays != nil {
		today := DateOf(now.In(sessionStart.Location()))
		latest := today.AddDate(0, 0, *c.MaxLeadTimeDays)
		if DateOf(sessionStart).After(latest) {
			return false
		}
	}

	return true
}

// FindService ищет услугу каталога по ID
func (c *TenantScheduleConfig) FindService(id string) (*ServiceOffering, bool) {
	for i := range c.Services {
		if c.Services[i].ID == id {
			return &c.Services[i], true
		}
	}
	return nil, false
}

// FindEquipment ищет оборудование каталога по ID
func (c *TenantScheduleConfig) FindEquipment(id string) (*EquipmentOffering, bool) {
	for i := range c.Equipment {
		if c.Equipment[i].ID == id {
			return &c.Equipment[i], true
		}
	}
	return nil, false
}

// SortedServices услуги в порядке отображения
func (c *TenantScheduleConfig) SortedServices() []ServiceOffering {
	services := make([]ServiceOffering, len(c.Services))
	copy(services, c.Services)
	sort.SliceStable(services, func(i, j int) bool {
		return services[i].Position < services[j].Position
	})
	return services
}

// EquipmentFor оборудование, доступное для услуги, в порядке отображения
func (c *TenantScheduleConfig) EquipmentFor(service *ServiceOffering) []EquipmentOffering {
	result := make([]EquipmentOffering, 0, len(service.EquipmentIDs))
	for _, id := range service.EquipmentIDs {
		if eq, ok := c.FindEquipment(id); ok {
			result = append(result, *eq)
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Position < result[j].Position
	})
	return result
}

// RemainingCapacity свободные места в сессии
// Используется и калькулятором доступности, и при резервировании
func RemainingCapacity(maxBookings, activeBookings int) int {
	remaining := maxBookings - activeBookings
	if remaining < 0 {
		return 0
	}
	return remaining
}

// DateOf возвращает полночь дня t в его часовом поясе
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// InLocation переносит календарную дату (без времени) в часовой пояс loc
func InLocation(date time.Time, loc *time.Location) time.Time {
	y, m, d := date.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}
