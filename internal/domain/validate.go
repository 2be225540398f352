package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/SMC-SchedulingService/pkg/types"
)

// Validate проверяет конфигурацию тенанта в момент сохранения
// Возвращает *ConfigurationError со всеми найденными проблемами
func (c *TenantScheduleConfig) Validate() error {
	v := &configValidator{}

	if c.TenantID <= 0 {
		v.add("tenantId must be positive")
	}
	if _, err := c.Location(); err != nil {
		v.add("timezone %q is unknown", c.Timezone)
	}

	switch c.Mode {
	case ModeSession:
		v.sessions(c.Sessions)
	case ModeSlot:
		v.slots(c.Slots)
	default:
		v.add("mode must be %q or %q", ModeSession, ModeSlot)
	}

	v.workDays(c.WorkDays)

	if c.MinLeadTimeHours != nil && (*c.MinLeadTimeHours < 0 || *c.MinLeadTimeHours > MaxMinLeadTimeHours) {
		v.add("minLeadTimeHours must be in 0..%d", MaxMinLeadTimeHours)
	}
	if c.MaxLeadTimeDays != nil && (*c.MaxLeadTimeDays < 0 || *c.MaxLeadTimeDays > MaxLeadTimeDaysLimit) {
		v.add("maxLeadTimeDays must be in 0..%d", MaxLeadTimeDaysLimit)
	}

	v.zones(c.Zones)
	v.catalog(c)

	if len(v.problems) > 0 {
		return &ConfigurationError{Problems: v.problems}
	}
	return nil
}

type configValidator struct {
	problems []string
}

func (v *configValidator) add(format string, args ...interface{}) {
	v.problems = append(v.problems, fmt.Sprintf(format, args...))
}

func (v *configValidator) timeOfDay(name string, t types.TimeString) (int, bool) {
	minutes, err := t.Minutes()
	if err != nil || t.Validate() != nil {
		v.add("%s: invalid time %q, expected HH:MM", name, t)
		return 0, false
	}
	return minutes, true
}

func (v *configValidator) sessions(sessions []SessionWindow) {
	if len(sessions) == 0 {
		v.add("sessions: at least one session is required in session mode")
		return
	}

	seen := make(map[string]bool, len(sessions))
	for i, s := range sessions {
		prefix := fmt.Sprintf("sessions[%d]", i)
		if s.ID == "" {
			v.add("%s.id is required", prefix)
		} else if seen[s.ID] {
			v.add("%s.id %q is duplicated", prefix, s.ID)
		}
		seen[s.ID] = true

		start, okStart := v.timeOfDay(prefix+".start", s.Start)
		end, okEnd := v.timeOfDay(prefix+".end", s.End)
		if okStart && okEnd && start >= end {
			v.add("%s: start must be before end", prefix)
		}
		if s.MaxBookings < MinBookingsPerSession || s.MaxBookings > MaxBookingsPerSession {
			v.add("%s.maxBookings must be in %d..%d", prefix, MinBookingsPerSession, MaxBookingsPerSession)
		}
	}
}

func (v *configValidator) slots(p *SlotParameters) {
	if p == nil {
		v.add("slots: parameters are required in slot mode")
		return
	}
	before := len(v.problems)

	if p.DurationMinutes < MinSlotDurationMinutes || p.DurationMinutes > MaxSlotDurationMinutes {
		v.add("slots.durationMinutes must be in %d..%d", MinSlotDurationMinutes, MaxSlotDurationMinutes)
	}
	if p.IntervalMinutes <= 0 {
		v.add("slots.intervalMinutes must be positive")
	}
	if p.MaxPerSlot < MinBookingsPerSession || p.MaxPerSlot > MaxBookingsPerSession {
		v.add("slots.maxPerSlot must be in %d..%d", MinBookingsPerSession, MaxBookingsPerSession)
	}

	dayStart, okStart := v.timeOfDay("slots.dayStart", p.DayStart)
	dayEnd, okEnd := v.timeOfDay("slots.dayEnd", p.DayEnd)
	if okStart && okEnd {
		if dayStart >= dayEnd {
			v.add("slots: dayStart must be before dayEnd")
		} else if p.DurationMinutes > dayEnd-dayStart {
			v.add("slots.durationMinutes is longer than the working day")
		}
	}

	if (p.LunchStart == nil) != (p.LunchEnd == nil) {
		v.add("slots: lunchStart and lunchEnd must be set together")
		return
	}
	if p.LunchStart != nil {
		lunchStart, okLS := v.timeOfDay("slots.lunchStart", *p.LunchStart)
		lunchEnd, okLE := v.timeOfDay("slots.lunchEnd", *p.LunchEnd)
		if okLS && okLE {
			if lunchStart >= lunchEnd {
				v.add("slots: lunchStart must be before lunchEnd")
			}
			if okStart && okEnd && (lunchStart < dayStart || lunchEnd > dayEnd) {
				v.add("slots: lunch break must be inside the working day")
			}
		}
	}

	if len(v.problems) == before {
		windows, err := p.generate()
		if err != nil {
			v.add("slots: %v", err)
		} else if len(windows) == 0 {
			v.add("slots: parameters produce no slots")
		}
	}
}

func (v *configValidator) workDays(days []string) {
	if len(days) == 0 {
		v.add("workDays: at least one work day is required")
		return
	}
	seen := make(map[time.Weekday]bool, len(days))
	for _, name := range days {
		wd, ok := weekdayNames[strings.ToLower(name)]
		if !ok {
			v.add("workDays: unknown day %q", name)
			continue
		}
		if seen[wd] {
			v.add("workDays: %q is duplicated", name)
		}
		seen[wd] = true
	}
}

func (v *configValidator) zones(zones []Zone) {
	seen := make(map[string]bool, len(zones))
	for i, z := range zones {
		if strings.TrimSpace(z.Prefix) == "" {
			v.add("zones[%d].prefix is required", i)
			continue
		}
		if seen[z.Prefix] {
			v.add("zones[%d].prefix %q is duplicated", i, z.Prefix)
		}
		seen[z.Prefix] = true
	}
}

func (v *configValidator) catalog(c *TenantScheduleConfig) {
	if len(c.Services) == 0 {
		v.add("services: at least one service is required")
	}

	equipmentIDs := make(map[string]bool, len(c.Equipment))
	for i, eq := range c.Equipment {
		prefix := fmt.Sprintf("equipment[%d]", i)
		if eq.ID == "" {
			v.add("%s.id is required", prefix)
		} else if equipmentIDs[eq.ID] {
			v.add("%s.id %q is duplicated", prefix, eq.ID)
		}
		equipmentIDs[eq.ID] = true

		for j, step := range eq.Steps {
			stepPrefix := fmt.Sprintf("%s.steps[%d]", prefix, j)
			if step.Kind == StepEquipment || step.Kind == StepIntervention {
				v.add("%s: kind %q is not allowed in equipment steps", stepPrefix, step.Kind)
				continue
			}
			v.step(stepPrefix, step, nil)
		}
	}

	serviceIDs := make(map[string]bool, len(c.Services))
	for i := range c.Services {
		s := &c.Services[i]
		prefix := fmt.Sprintf("services[%d]", i)
		if s.ID == "" {
			v.add("%s.id is required", prefix)
		} else if serviceIDs[s.ID] {
			v.add("%s.id %q is duplicated", prefix, s.ID)
		}
		serviceIDs[s.ID] = true

		if s.Name == "" {
			v.add("%s.name is required", prefix)
		}
		for _, eqID := range s.EquipmentIDs {
			if !equipmentIDs[eqID] {
				v.add("%s: unknown equipment %q", prefix, eqID)
			}
		}

		stepIDs := make(map[string]bool, len(s.Steps))
		for j, step := range s.Steps {
			stepPrefix := fmt.Sprintf("%s.steps[%d]", prefix, j)
			if stepIDs[step.ID] {
				v.add("%s.id %q is duplicated", stepPrefix, step.ID)
			}
			stepIDs[step.ID] = true
			v.step(stepPrefix, step, s)
		}

		// шаги оборудования встраиваются в план услуги, их ID не должны совпадать
		for _, eq := range c.EquipmentFor(s) {
			for _, step := range eq.Steps {
				if stepIDs[step.ID] {
					v.add("%s: step id %q of equipment %q clashes with a service step", prefix, step.ID, eq.ID)
				}
			}
		}
	}
}

func (v *configValidator) step(prefix string, step OptionStep, service *ServiceOffering) {
	if step.ID == "" {
		v.add("%s.id is required", prefix)
	}

	switch step.Kind {
	case StepEquipment:
		if len(service.EquipmentIDs) == 0 {
			v.add("%s: equipment step requires equipmentIds on the service", prefix)
		}
	case StepIntervention:
		if len(service.Interventions) == 0 {
			v.add("%s: intervention step requires interventions on the service", prefix)
		}
	case StepChoice:
		if len(step.Fields) != 1 {
			v.add("%s: choice step requires exactly one field", prefix)
		}
		if len(step.Choices) == 0 {
			v.add("%s: choice step requires choices", prefix)
		}
	case StepText:
		if len(step.Fields) == 0 {
			v.add("%s: text step requires fields", prefix)
		}
	case StepMultiSelect:
		if len(step.Fields) != 1 {
			v.add("%s: multi_select step requires exactly one field", prefix)
		}
		if len(step.Choices) == 0 {
			v.add("%s: multi_select step requires choices", prefix)
		}
		if step.MinSelected > len(step.Choices) {
			v.add("%s: minSelected is larger than the number of choices", prefix)
		}
	default:
		v.add("%s: unknown kind %q", prefix, step.Kind)
	}
}
