// Package domaintest содержит конфигурации тенантов для тестов
package domaintest

import (
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/pkg/ptr"
	"github.com/m04kA/SMC-SchedulingService/pkg/types"
)

const TenantID int64 = 1

// SessionConfig тенант с окнами "утро" (1 место) и "день" (2 места), будни, зоны 60 и 95
func SessionConfig() *domain.TenantScheduleConfig {
	return &domain.TenantScheduleConfig{
		TenantID: TenantID,
		Mode:     domain.ModeSession,
		Sessions: []domain.SessionWindow{
			{ID: "morning", Name: "Matin", Start: "08:00", End: "12:00", MaxBookings: 1},
			{ID: "afternoon", Name: "Après-midi", Start: "13:00", End: "17:00", MaxBookings: 2},
		},
		WorkDays:    []string{"monday", "tuesday", "wednesday", "thursday", "friday"},
		AutoConfirm: true,
		Timezone:    "UTC",
		Zones: []domain.Zone{
			{Prefix: "60", Label: "Oise"},
			{Prefix: "95", Label: "Val-d'Oise"},
		},
		Services:  Services(),
		Equipment: Equipment(),
	}
}

// SlotConfig тенант со слотами по 60 минут с 08:00 до 17:00 и обедом 12:00-13:00
func SlotConfig() *domain.TenantScheduleConfig {
	cfg := SessionConfig()
	cfg.Mode = domain.ModeSlot
	cfg.Sessions = nil
	cfg.Slots = &domain.SlotParameters{
		DurationMinutes: 60,
		IntervalMinutes: 60,
		MaxPerSlot:      1,
		DayStart:        "08:00",
		DayEnd:          "17:00",
		LunchStart:      ptr.Ptr(types.TimeString("12:00")),
		LunchEnd:        ptr.Ptr(types.TimeString("13:00")),
	}
	return cfg
}

// Services каталог: ремонт (оборудование + марка/модель) и обслуживание
func Services() []domain.ServiceOffering {
	return []domain.ServiceOffering{
		{
			ID:           "repair",
			Name:         "Dépannage",
			Position:     2,
			EquipmentIDs: []string{"boiler", "heat_pump"},
			Steps: []domain.OptionStep{
				{ID: "equipment", Kind: domain.StepEquipment, Title: "Équipement"},
				{ID: "device", Kind: domain.StepText, Title: "Appareil", Fields: []string{"brand", "model"}},
			},
		},
		{
			ID:           "maintenance",
			Name:         "Entretien",
			Position:     1,
			EquipmentIDs: []string{"boiler"},
			Interventions: []domain.Intervention{
				{ID: "annual", Name: "Entretien annuel", Position: 1},
				{ID: "contract", Name: "Contrat", Position: 2},
			},
			Steps: []domain.OptionStep{
				{ID: "equipment", Kind: domain.StepEquipment, Title: "Équipement"},
				{ID: "intervention", Kind: domain.StepIntervention, Title: "Intervention"},
				{
					ID:     "extras",
					Kind:   domain.StepMultiSelect,
					Title:  "Options",
					Fields: []string{"extras"},
					Choices: []domain.Choice{
						{ID: "descaling", Label: "Détartrage"},
						{ID: "filter", Label: "Filtre"},
					},
				},
			},
		},
	}
}

// Equipment оборудование каталога; у котла есть шаг выбора типа дымохода
func Equipment() []domain.EquipmentOffering {
	return []domain.EquipmentOffering{
		{
			ID:       "boiler",
			Name:     "Chaudière",
			Position: 1,
			Steps: []domain.OptionStep{
				{
					ID:     "exhaust",
					Kind:   domain.StepChoice,
					Title:  "Évacuation",
					Fields: []string{"exhaust"},
					Choices: []domain.Choice{
						{ID: "flue", Label: "Ventouse"},
						{ID: "chimney", Label: "Cheminée"},
					},
				},
			},
		},
		{ID: "heat_pump", Name: "Pompe à chaleur", Position: 2},
	}
}

// Contact заполненные контактные данные
func Contact() domain.Contact {
	return domain.Contact{
		FirstName: "Camille",
		LastName:  "Martin",
		Email:     "camille.martin@example.org",
		Phone:     "+33600000000",
		Address:   "12 rue de la Gare",
		City:      "Beauvais",
	}
}

// RepairRequest полный запрос на ремонт котла с окном "утро"
func RepairRequest(date time.Time) domain.BookingRequest {
	return domain.BookingRequest{
		PostalCode:  "60000",
		ServiceID:   "repair",
		EquipmentID: ptr.Ptr("boiler"),
		Attributes: map[string]string{
			"exhaust": "flue",
			"brand":   "Saunier Duval",
			"model":   "ThemaPlus",
		},
		Date:      date,
		SessionID: "morning",
		Contact:   Contact(),
		Location:  &domain.GeoPoint{Lat: 49.43, Lng: 2.08},
	}
}

// Date полночь UTC заданного дня
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
