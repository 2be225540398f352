package list_bookings

import (
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/internal/service/bookings/models"
)

// ToServiceRequest формирует запрос к сервису из query параметров
// date задает один день, from/to - период; date важнее периода
func ToServiceRequest(tenantID int64, query url.Values) (*models.ListBookingsRequest, error) {
	req := &models.ListBookingsRequest{
		TenantID:        tenantID,
		IncludeInactive: false, // По умолчанию только активные
	}

	if dateStr := query.Get("date"); dateStr != "" {
		date, err := parseDate("date", dateStr)
		if err != nil {
			return nil, err
		}
		req.StartDate, req.EndDate = &date, &date
	} else {
		if fromStr := query.Get("from"); fromStr != "" {
			from, err := parseDate("from", fromStr)
			if err != nil {
				return nil, err
			}
			req.StartDate = &from
		}
		if toStr := query.Get("to"); toStr != "" {
			to, err := parseDate("to", toStr)
			if err != nil {
				return nil, err
			}
			req.EndDate = &to
		}
	}

	if status := query.Get("status"); status != "" {
		req.Status = &status
	}
	if sessionID := query.Get("sessionId"); sessionID != "" {
		req.SessionID = &sessionID
	}

	if technicianStr := query.Get("technicianId"); technicianStr != "" {
		technicianID, err := strconv.ParseInt(technicianStr, 10, 64)
		if err != nil || technicianID <= 0 {
			return nil, fmt.Errorf("technicianId: invalid value %q", technicianStr)
		}
		req.TechnicianID = &technicianID
	}

	if includeInactiveStr := query.Get("includeInactive"); includeInactiveStr != "" {
		includeInactive, err := strconv.ParseBool(includeInactiveStr)
		if err != nil {
			return nil, fmt.Errorf("includeInactive: %w", err)
		}
		req.IncludeInactive = includeInactive
	}

	return req, nil
}

func parseDate(name, value string) (time.Time, error) {
	date, err := time.Parse(domain.DateFormat, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("%s: %w", name, err)
	}
	return date, nil
}
