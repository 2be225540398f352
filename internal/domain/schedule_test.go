package domain_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/internal/domain/domaintest"
	"github.com/m04kA/SMC-SchedulingService/pkg/ptr"
	"github.com/m04kA/SMC-SchedulingService/pkg/types"
)

func TestWindows_SlotModeSkipsLunch(t *testing.T) {
	cfg := domaintest.SlotConfig()

	windows, err := cfg.Windows()
	require.NoError(t, err)

	ids := make([]string, 0, len(windows))
	for _, w := range windows {
		ids = append(ids, w.ID)
		assert.Equal(t, 1, w.MaxBookings)
	}
	assert.Equal(t, []string{"08:00", "09:00", "10:00", "11:00", "13:00", "14:00", "15:00", "16:00"}, ids)
	assert.Equal(t, types.TimeString("09:00"), windows[0].End)
}

func TestWindows_OverlappingIntervalSlots(t *testing.T) {
	cfg := domaintest.SlotConfig()
	cfg.Slots.DurationMinutes = 90
	cfg.Slots.IntervalMinutes = 30
	cfg.Slots.DayEnd = "12:00"
	cfg.Slots.LunchStart = nil
	cfg.Slots.LunchEnd = nil

	windows, err := cfg.Windows()
	require.NoError(t, err)

	require.Len(t, windows, 6)
	assert.Equal(t, types.TimeString("10:30"), windows[5].Start)
	assert.Equal(t, types.TimeString("12:00"), windows[5].End)
}

func TestWindows_SessionModeSortedByStart(t *testing.T) {
	cfg := domaintest.SessionConfig()
	cfg.Sessions[0], cfg.Sessions[1] = cfg.Sessions[1], cfg.Sessions[0]

	windows, err := cfg.Windows()
	require.NoError(t, err)
	assert.Equal(t, "morning", windows[0].ID)
	assert.Equal(t, "afternoon", windows[1].ID)
}

func TestZoneFor(t *testing.T) {
	cfg := domaintest.SessionConfig()

	zone, ok := cfg.ZoneFor("60200")
	require.True(t, ok)
	assert.Equal(t, "Oise", zone.Label)

	_, ok = cfg.ZoneFor("95 100")
	assert.True(t, ok)

	_, ok = cfg.ZoneFor("75008")
	assert.False(t, ok)

	_, ok = cfg.ZoneFor("")
	assert.False(t, ok)

	cfg.Zones = nil
	_, ok = cfg.ZoneFor("75008")
	assert.True(t, ok)
}

func TestZoneFor_LongestPrefixWins(t *testing.T) {
	cfg := domaintest.SessionConfig()
	cfg.Zones = append(cfg.Zones, domain.Zone{Prefix: "6010", Label: "Beauvais"})

	zone, ok := cfg.ZoneFor("60100")
	require.True(t, ok)
	assert.Equal(t, "Beauvais", zone.Label)
}

func TestWithinLeadTime(t *testing.T) {
	cfg := domaintest.SessionConfig()
	cfg.MinLeadTimeHours = ptr.Ptr(24)
	cfg.MaxLeadTimeDays = ptr.Ptr(30)

	now := time.Date(2026, 1, 5, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		start time.Time
		want  bool
	}{
		{name: "already started", start: time.Date(2026, 1, 5, 8, 0, 0, 0, time.UTC), want: false},
		{name: "inside min lead", start: time.Date(2026, 1, 6, 8, 0, 0, 0, time.UTC), want: false},
		{name: "exactly min lead", start: time.Date(2026, 1, 6, 9, 0, 0, 0, time.UTC), want: true},
		{name: "last allowed day", start: time.Date(2026, 2, 4, 13, 0, 0, 0, time.UTC), want: true},
		{name: "after max lead", start: time.Date(2026, 2, 5, 8, 0, 0, 0, time.UTC), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, cfg.WithinLeadTime(tt.start, now))
		})
	}
}

func TestRemainingCapacity(t *testing.T) {
	assert.Equal(t, 2, domain.RemainingCapacity(3, 1))
	assert.Equal(t, 0, domain.RemainingCapacity(1, 1))
	assert.Equal(t, 0, domain.RemainingCapacity(1, 4))
}

func TestIsWorkDay(t *testing.T) {
	cfg := domaintest.SessionConfig()
	assert.True(t, cfg.IsWorkDay(time.Monday))
	assert.False(t, cfg.IsWorkDay(time.Sunday))
}

func TestValidate_AcceptsFixtures(t *testing.T) {
	assert.NoError(t, domaintest.SessionConfig().Validate())
	assert.NoError(t, domaintest.SlotConfig().Validate())
}

func TestValidate_RejectsMalformedConfig(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *domain.TenantScheduleConfig)
		problem string
	}{
		{
			name:    "lunch outside working day",
			mutate:  func(c *domain.TenantScheduleConfig) { c.Slots.LunchEnd = ptr.Ptr(types.TimeString("18:00")) },
			problem: "slots: lunch break must be inside the working day",
		},
		{
			name:    "lunch start without end",
			mutate:  func(c *domain.TenantScheduleConfig) { c.Slots.LunchEnd = nil },
			problem: "slots: lunchStart and lunchEnd must be set together",
		},
		{
			name:    "unknown weekday",
			mutate:  func(c *domain.TenantScheduleConfig) { c.WorkDays = []string{"funday"} },
			problem: `workDays: unknown day "funday"`,
		},
		{
			name:    "unknown timezone",
			mutate:  func(c *domain.TenantScheduleConfig) { c.Timezone = "Mars/Olympus" },
			problem: `timezone "Mars/Olympus" is unknown`,
		},
		{
			name:    "service references unknown equipment",
			mutate:  func(c *domain.TenantScheduleConfig) { c.Services[0].EquipmentIDs = append(c.Services[0].EquipmentIDs, "stove") },
			problem: `services[0]: unknown equipment "stove"`,
		},
		{
			name:    "day too short for a slot",
			mutate:  func(c *domain.TenantScheduleConfig) { c.Slots.DurationMinutes = 480; c.Slots.DayEnd = "10:00"; c.Slots.LunchStart, c.Slots.LunchEnd = nil, nil },
			problem: "slots.durationMinutes is longer than the working day",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := domaintest.SlotConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			require.ErrorIs(t, err, domain.ErrInvalidConfiguration)

			var configErr *domain.ConfigurationError
			require.True(t, errors.As(err, &configErr))
			assert.Contains(t, configErr.Problems, tt.problem)
		})
	}
}

func TestValidate_SessionMode(t *testing.T) {
	cfg := domaintest.SessionConfig()
	cfg.Sessions = append(cfg.Sessions, domain.SessionWindow{ID: "morning", Start: "18:00", End: "17:00", MaxBookings: 0})

	err := cfg.Validate()
	require.ErrorIs(t, err, domain.ErrInvalidConfiguration)

	problems := domain.ProblemsOf(err)
	assert.Contains(t, problems, `sessions[2].id "morning" is duplicated`)
	assert.Contains(t, problems, "sessions[2]: start must be before end")
	assert.Contains(t, problems, "sessions[2].maxBookings must be in 1..100")
}

func TestInitialStatus(t *testing.T) {
	cfg := domaintest.SessionConfig()
	assert.Equal(t, domain.StatusConfirmed, cfg.InitialStatus())

	cfg.AutoConfirm = false
	assert.Equal(t, domain.StatusPending, cfg.InitialStatus())
}
