package domain

import (
	"fmt"
	"strings"
)

// StepKind тип шага опций услуги
type StepKind string

const (
	StepEquipment    StepKind = "equipment"    // выбор оборудования из EquipmentIDs услуги
	StepIntervention StepKind = "intervention" // выбор вида вмешательства
	StepChoice       StepKind = "choice"       // одно значение из Choices в Attributes[Fields[0]]
	StepText         StepKind = "text"         // непустые Attributes для каждого из Fields
	StepMultiSelect  StepKind = "multi_select" // не меньше MinSelected значений в Selections[Fields[0]]
)

// Choice вариант ответа
type Choice struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// OptionStep шаг мастера, описанный данными каталога
type OptionStep struct {
	ID          string   `json:"id"`
	Kind        StepKind `json:"kind"`
	Title       string   `json:"title"`
	Fields      []string `json:"fields,omitempty"`
	Choices     []Choice `json:"choices,omitempty"`
	MinSelected int      `json:"minSelected,omitempty"`
}

// Intervention вид вмешательства (ремонт, обслуживание, установка)
type Intervention struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Position int    `json:"position"`
}

// EquipmentOffering оборудование каталога со своими шагами
// Steps встраиваются в план сразу после шага выбора оборудования
type EquipmentOffering struct {
	ID       string       `json:"id"`
	Name     string       `json:"name"`
	Position int          `json:"position"`
	Steps    []OptionStep `json:"steps,omitempty"`
}

// ServiceOffering услуга каталога
type ServiceOffering struct {
	ID            string         `json:"id"`
	Name          string         `json:"name"`
	Position      int            `json:"position"`
	EquipmentIDs  []string       `json:"equipmentIds,omitempty"`
	Interventions []Intervention `json:"interventions,omitempty"`
	Steps         []OptionStep   `json:"steps,omitempty"`
}

// HasEquipment проверяет, что оборудование доступно для услуги
func (s *ServiceOffering) HasEquipment(id string) bool {
	for _, eqID := range s.EquipmentIDs {
		if eqID == id {
			return true
		}
	}
	return false
}

// HasIntervention проверяет, что вид вмешательства доступен для услуги
func (s *ServiceOffering) HasIntervention(id string) bool {
	for _, i := range s.Interventions {
		if i.ID == id {
			return true
		}
	}
	return false
}

// StepPlan возвращает шаги опций для выбранной услуги с учетом выбранного оборудования
func (c *TenantScheduleConfig) StepPlan(serviceID string, equipmentID *string) ([]OptionStep, error) {
	service, ok := c.FindService(serviceID)
	if !ok {
		return nil, NewValidationError(fmt.Sprintf("serviceId: unknown service %q", serviceID))
	}

	plan := make([]OptionStep, 0, len(service.Steps))
	for _, step := range service.Steps {
		plan = append(plan, step)
		if step.Kind != StepEquipment || equipmentID == nil {
			continue
		}
		if eq, ok := c.FindEquipment(*equipmentID); ok && service.HasEquipment(eq.ID) {
			plan = append(plan, eq.Steps...)
		}
	}

	return plan, nil
}

// Missing возвращает незаполненные или некорректные поля шага
func (s OptionStep) Missing(req *BookingRequest, service *ServiceOffering) []string {
	var problems []string

	switch s.Kind {
	case StepEquipment:
		if req.EquipmentID == nil || strings.TrimSpace(*req.EquipmentID) == "" {
			problems = append(problems, "equipmentId")
		} else if !service.HasEquipment(*req.EquipmentID) {
			problems = append(problems, fmt.Sprintf("equipmentId: %q is not offered for this service", *req.EquipmentID))
		}

	case StepIntervention:
		if req.InterventionID == nil || strings.TrimSpace(*req.InterventionID) == "" {
			problems = append(problems, "interventionId")
		} else if !service.HasIntervention(*req.InterventionID) {
			problems = append(problems, fmt.Sprintf("interventionId: %q is not offered for this service", *req.InterventionID))
		}

	case StepChoice:
		field := s.field()
		value := strings.TrimSpace(req.Attributes[field])
		if value == "" {
			problems = append(problems, field)
		} else if !s.hasChoice(value) {
			problems = append(problems, fmt.Sprintf("%s: %q is not an allowed value", field, value))
		}

	case StepText:
		for _, field := range s.Fields {
			if strings.TrimSpace(req.Attributes[field]) == "" {
				problems = append(problems, field)
			}
		}

	case StepMultiSelect:
		field := s.field()
		valid := 0
		for _, value := range req.Selections[field] {
			if !s.hasChoice(value) {
				problems = append(problems, fmt.Sprintf("%s: %q is not an allowed value", field, value))
				continue
			}
			valid++
		}
		if valid < s.minSelected() {
			problems = append(problems, field)
		}

	default:
		problems = append(problems, fmt.Sprintf("step %s: unknown kind %q", s.ID, s.Kind))
	}

	return problems
}

// FieldNames поля запроса, которые заполняет шаг
func (s OptionStep) FieldNames() []string {
	switch s.Kind {
	case StepEquipment:
		return []string{"equipmentId"}
	case StepIntervention:
		return []string{"interventionId"}
	default:
		return s.Fields
	}
}

func (s OptionStep) field() string {
	if len(s.Fields) == 0 {
		return s.ID
	}
	return s.Fields[0]
}

func (s OptionStep) minSelected() int {
	if s.MinSelected <= 0 {
		return DefaultMinSelected
	}
	return s.MinSelected
}

func (s OptionStep) hasChoice(value string) bool {
	for _, c := range s.Choices {
		if c.ID == value {
			return true
		}
	}
	return false
}
