package optimize_tour

import (
	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	optimizeTour "github.com/m04kA/SMC-SchedulingService/internal/usecase/optimize_tour"
)

// OptimizeRequest тело запроса POST /tours/optimize
type OptimizeRequest struct {
	Depot domain.Point  `json:"depot"`
	Stops []domain.Stop `json:"stops"`
}

// OptimizeResponse упорядоченные остановки
type OptimizeResponse struct {
	Depot         domain.Point  `json:"depot"`
	Stops         []domain.Stop `json:"stops"`
	TotalDistance float64       `json:"totalDistance"`
}

// DayTourResponse маршрут техника на день
type DayTourResponse struct {
	TenantID      int64         `json:"tenantId"`
	TechnicianID  int64         `json:"technicianId"`
	Date          string        `json:"date"`
	Depot         domain.Point  `json:"depot"`
	Stops         []DayTourStop `json:"stops"`
	TotalDistance float64       `json:"totalDistance"`
	Unlocated     []int64       `json:"unlocated"`
}

// DayTourStop остановка маршрута дня
type DayTourStop struct {
	Position     int          `json:"position"`
	BookingID    int64        `json:"bookingId"`
	Label        string       `json:"label"`
	Point        domain.Point `json:"point"`
	SessionID    string       `json:"sessionId"`
	SessionStart string       `json:"sessionStart"`
	SessionEnd   string       `json:"sessionEnd"`
	Phone        string       `json:"phone,omitempty"`
	Address      string       `json:"address,omitempty"`
	LegDistance  float64      `json:"legDistance"`
}

func (r *OptimizeRequest) ToUseCaseRequest() *optimizeTour.Request {
	stops := r.Stops
	if stops == nil {
		stops = []domain.Stop{}
	}
	return &optimizeTour.Request{Depot: r.Depot, Stops: stops}
}

func FromUseCaseResponse(resp *optimizeTour.Response) *OptimizeResponse {
	return &OptimizeResponse{
		Depot:         resp.Depot,
		Stops:         resp.Stops,
		TotalDistance: resp.TotalDistance,
	}
}

func FromDayResponse(resp *optimizeTour.DayResponse) *DayTourResponse {
	result := &DayTourResponse{
		TenantID:      resp.TenantID,
		TechnicianID:  resp.TechnicianID,
		Date:          resp.Date.Format(domain.DateFormat),
		Depot:         resp.Depot,
		Stops:         make([]DayTourStop, len(resp.Stops)),
		TotalDistance: resp.TotalDistance,
		Unlocated:     resp.Unlocated,
	}
	if result.Unlocated == nil {
		result.Unlocated = []int64{}
	}

	for i, stop := range resp.Stops {
		s := DayTourStop{
			Position:    i + 1,
			Label:       stop.Stop.Label,
			Point:       stop.Stop.Point,
			LegDistance: stop.LegDistance,
		}
		if b := stop.Booking; b != nil {
			s.BookingID = b.ID
			s.SessionID = b.SessionID
			s.SessionStart = b.SessionStart.String()
			s.SessionEnd = b.SessionEnd.String()
			s.Phone = b.Details.Contact.Phone
			s.Address = b.Details.Contact.Address
		}
		result.Stops[i] = s
	}
	return result
}
