package domain

import (
	"time"

	"github.com/m04kA/SMC-SchedulingService/pkg/types"
)

// SessionAvailability доступность одного окна в конкретный день
type SessionAvailability struct {
	SessionID      string
	Name           string
	Start          types.TimeString
	End            types.TimeString
	Capacity       int
	Booked         int
	Remaining      int
	WithinLeadTime bool
	Available      bool
}

// DayAvailability доступность дня календаря тенанта
type DayAvailability struct {
	Date      time.Time
	Weekday   time.Weekday
	IsPast    bool
	IsToday   bool
	IsWorkDay bool
	Sessions  []SessionAvailability
}

// IsBookable returns true if at least one session of the day can be reserved
func (d *DayAvailability) IsBookable() bool {
	for _, s := range d.Sessions {
		if s.Available {
			return true
		}
	}
	return false
}

// Session ищет окно дня по ID
func (d *DayAvailability) Session(sessionID string) (*SessionAvailability, bool) {
	for i := range d.Sessions {
		if d.Sessions[i].SessionID == sessionID {
			return &d.Sessions[i], true
		}
	}
	return nil, false
}
