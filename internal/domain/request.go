package domain

import (
	"fmt"
	"strings"
	"time"
)

// BookingRequest данные, собранные мастером или пришедшие через API
type BookingRequest struct {
	PostalCode     string              `json:"postalCode"`
	ServiceID      string              `json:"serviceId"`
	EquipmentID    *string             `json:"equipmentId,omitempty"`
	InterventionID *string             `json:"interventionId,omitempty"`
	Attributes     map[string]string   `json:"attributes,omitempty"`
	Selections     map[string][]string `json:"selections,omitempty"`
	Date           time.Time           `json:"date"`
	SessionID      string              `json:"sessionId"`
	Contact        Contact             `json:"contact"`
	Location       *GeoPoint           `json:"location,omitempty"`
}

// ClearServiceData сбрасывает все данные, зависящие от услуги
func (r *BookingRequest) ClearServiceData() {
	r.EquipmentID = nil
	r.InterventionID = nil
	r.Attributes = nil
	r.Selections = nil
}

// ClearSteps сбрасывает поля, которые заполняют переданные шаги
func (r *BookingRequest) ClearSteps(steps []OptionStep) {
	for _, step := range steps {
		switch step.Kind {
		case StepEquipment:
			r.EquipmentID = nil
		case StepIntervention:
			r.InterventionID = nil
		case StepMultiSelect:
			for _, field := range step.Fields {
				delete(r.Selections, field)
			}
		default:
			for _, field := range step.Fields {
				delete(r.Attributes, field)
			}
		}
	}
}

// SetAttribute записывает атрибут, создавая map при необходимости
func (r *BookingRequest) SetAttribute(field, value string) {
	if r.Attributes == nil {
		r.Attributes = make(map[string]string)
	}
	r.Attributes[field] = value
}

// SetSelection записывает множественный выбор, создавая map при необходимости
func (r *BookingRequest) SetSelection(field string, values []string) {
	if r.Selections == nil {
		r.Selections = make(map[string][]string)
	}
	r.Selections[field] = values
}

// ValidateOptions проверяет, что услуга существует и все шаги ее плана заполнены
func (c *TenantScheduleConfig) ValidateOptions(req *BookingRequest) []string {
	if req.ServiceID == "" {
		return []string{"serviceId"}
	}

	plan, err := c.StepPlan(req.ServiceID, req.EquipmentID)
	if err != nil {
		return ProblemsOf(err)
	}
	service, _ := c.FindService(req.ServiceID)

	var problems []string
	hasEquipment, hasIntervention := false, false
	for _, step := range plan {
		switch step.Kind {
		case StepEquipment:
			hasEquipment = true
		case StepIntervention:
			hasIntervention = true
		}
		problems = append(problems, step.Missing(req, service)...)
	}

	// поля вне плана услуги не принимаются
	if !hasEquipment && req.EquipmentID != nil {
		problems = append(problems, "equipmentId: not offered for this service")
	}
	if !hasIntervention && req.InterventionID != nil {
		problems = append(problems, "interventionId: not offered for this service")
	}
	return problems
}

// ValidateContact проверяет контактные данные
func ValidateContact(contact Contact) []string {
	var problems []string

	required := []struct {
		field string
		value string
	}{
		{"contact.firstName", contact.FirstName},
		{"contact.lastName", contact.LastName},
		{"contact.email", contact.Email},
		{"contact.phone", contact.Phone},
		{"contact.address", contact.Address},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			problems = append(problems, r.field)
		}
	}

	if contact.Email != "" && !strings.Contains(contact.Email, "@") {
		problems = append(problems, "contact.email: invalid address")
	}
	if len(contact.Comment) > MaxCommentLength {
		problems = append(problems, fmt.Sprintf("contact.comment: longer than %d characters", MaxCommentLength))
	}

	return problems
}

// ValidateRequest полная проверка полей запроса без календаря
// Возвращает *ValidationError или nil
func (c *TenantScheduleConfig) ValidateRequest(req *BookingRequest) error {
	var problems []string
	if strings.TrimSpace(req.PostalCode) == "" {
		problems = append(problems, "postalCode")
	}
	problems = append(problems, c.ValidateOptions(req)...)
	if req.Date.IsZero() {
		problems = append(problems, "date")
	}
	if req.SessionID == "" {
		problems = append(problems, "sessionId")
	}
	problems = append(problems, ValidateContact(req.Contact)...)

	if len(problems) > 0 {
		return NewValidationError(problems...)
	}
	return nil
}
