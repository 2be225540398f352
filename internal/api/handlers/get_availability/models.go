package get_availability

import (
	"strings"
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	getAvailability "github.com/m04kA/SMC-SchedulingService/internal/usecase/get_availability"
)

// AvailabilityResponse HTTP response model
type AvailabilityResponse struct {
	TenantID int64        `json:"tenantId"`
	Month    string       `json:"month"`
	Zone     *domain.Zone `json:"zone,omitempty"`
	Days     []Day        `json:"days"`
}

// Day модель дня календаря
type Day struct {
	Date       string    `json:"date"`
	DayOfWeek  string    `json:"dayOfWeek"`
	IsPast     bool      `json:"isPast"`
	IsToday    bool      `json:"isToday"`
	IsBookable bool      `json:"isBookable"`
	Sessions   []Session `json:"sessions"`
}

// Session модель окна дня
type Session struct {
	SessionID string `json:"sessionId"`
	Name      string `json:"name"`
	Start     string `json:"start"`
	End       string `json:"end"`
	Available bool   `json:"available"`
	Remaining int    `json:"remaining"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailability.Response) *AvailabilityResponse {
	days := make([]Day, len(resp.Days))
	for i := range resp.Days {
		day := &resp.Days[i]

		sessions := make([]Session, len(day.Sessions))
		for j, s := range day.Sessions {
			sessions[j] = Session{
				SessionID: s.SessionID,
				Name:      s.Name,
				Start:     s.Start.String(),
				End:       s.End.String(),
				Available: s.Available,
				Remaining: s.Remaining,
			}
		}

		days[i] = Day{
			Date:       day.Date.Format(domain.DateFormat),
			DayOfWeek:  day.Weekday.String(),
			IsPast:     day.IsPast,
			IsToday:    day.IsToday,
			IsBookable: day.IsBookable(),
			Sessions:   sessions,
		}
	}

	return &AvailabilityResponse{
		TenantID: resp.TenantID,
		Month:    resp.Month.Format(domain.MonthFormat),
		Zone:     resp.Zone,
		Days:     days,
	}
}

// ToUseCaseRequest создает запрос use case из query параметров
func ToUseCaseRequest(tenantID int64, monthStr, postalCode string) (*getAvailability.Request, error) {
	// Парсим месяц
	month, err := time.Parse(domain.MonthFormat, monthStr)
	if err != nil {
		return nil, err
	}

	req := &getAvailability.Request{
		TenantID: tenantID,
		Month:    month,
	}
	if code := strings.TrimSpace(postalCode); code != "" {
		req.PostalCode = &code
	}
	return req, nil
}
