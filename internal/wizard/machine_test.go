package wizard

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/internal/domain/domaintest"
	"github.com/m04kA/SMC-SchedulingService/internal/usecase/get_availability"
	"github.com/m04kA/SMC-SchedulingService/pkg/ptr"
)

var now = time.Date(2026, 1, 4, 12, 0, 0, 0, time.UTC)

// calendar считает доступность по списку бронирований в памяти
type calendar struct {
	bookings []*domain.Booking
	err      error
}

func (c *calendar) Day(_ context.Context, cfg *domain.TenantScheduleConfig, date time.Time) (*domain.DayAvailability, error) {
	if c.err != nil {
		return nil, c.err
	}
	day, err := get_availability.ComputeDay(cfg, date, c.bookings, now)
	if err != nil {
		return nil, err
	}
	return &day, nil
}

type mockReserver struct{ mock.Mock }

func (m *mockReserver) Reserve(ctx context.Context, tenantID int64, req domain.BookingRequest) (*domain.Booking, error) {
	args := m.Called(ctx, tenantID, req)
	if b := args.Get(0); b != nil {
		return b.(*domain.Booking), args.Error(1)
	}
	return nil, args.Error(1)
}

type fixture struct {
	cfg      *domain.TenantScheduleConfig
	calendar *calendar
	reserver *mockReserver
	machine  *Machine
	session  *Session
}

func newFixture() *fixture {
	cfg := domaintest.SessionConfig()
	cfg.Services = append(cfg.Services, domain.ServiceOffering{ID: "diagnostic", Name: "Diagnostic", Position: 3})

	f := &fixture{
		cfg:      cfg,
		calendar: &calendar{},
		reserver: &mockReserver{},
	}
	f.machine = NewMachine(cfg, f.calendar, f.reserver)
	f.session = f.machine.Start("session-1", now)
	return f
}

func (f *fixture) submit(t *testing.T, in Input) {
	t.Helper()
	require.NoError(t, f.machine.Submit(context.Background(), f.session, in))
}

func (f *fixture) back(t *testing.T) {
	t.Helper()
	require.NoError(t, f.machine.Back(f.session))
}

func (f *fixture) assertAt(t *testing.T, state State, stepID string) {
	t.Helper()
	assert.Equal(t, Frame{State: state, StepID: stepID}, f.session.Current(), "errors: %v", f.session.Errors)
}

// toDevice доводит сессию ремонта котла до шага марки и модели
func (f *fixture) toDevice(t *testing.T) {
	t.Helper()
	f.submit(t, Input{PostalCode: ptr.Ptr("60000")})
	f.submit(t, Input{ServiceID: ptr.Ptr("repair")})
	f.submit(t, Input{EquipmentID: ptr.Ptr("boiler")})
	f.submit(t, Input{Attributes: map[string]string{"exhaust": "flue"}})
	f.assertAt(t, StateServiceOptions, "device")
}

func (f *fixture) toContact(t *testing.T) {
	t.Helper()
	f.toDevice(t)
	f.submit(t, Input{Attributes: map[string]string{"brand": "Saunier Duval", "model": "ThemaPlus"}})
	f.submit(t, Input{Date: ptr.Ptr("2026-01-05")})
	f.submit(t, Input{SessionID: ptr.Ptr("morning")})
	f.assertAt(t, StateContactForm, "")
}

func TestMachine_RepairHappyPath(t *testing.T) {
	f := newFixture()
	f.assertAt(t, StateZoneCheck, "")

	f.submit(t, Input{PostalCode: ptr.Ptr(" 60000 ")})
	f.assertAt(t, StateServiceSelect, "")

	f.submit(t, Input{ServiceID: ptr.Ptr("repair")})
	f.assertAt(t, StateServiceOptions, "equipment")

	// Шаг котла встраивается сразу после выбора оборудования
	f.submit(t, Input{EquipmentID: ptr.Ptr("boiler")})
	f.assertAt(t, StateServiceOptions, "exhaust")

	f.submit(t, Input{Attributes: map[string]string{"exhaust": "flue"}})
	f.assertAt(t, StateServiceOptions, "device")

	f.submit(t, Input{Attributes: map[string]string{"brand": "Saunier Duval", "model": "ThemaPlus"}})
	f.assertAt(t, StateDateSelect, "")

	f.submit(t, Input{Date: ptr.Ptr("2026-01-05")})
	f.assertAt(t, StateSlotSelect, "")

	f.submit(t, Input{SessionID: ptr.Ptr("morning")})
	f.assertAt(t, StateContactForm, "")

	f.reserver.On("Reserve", mock.Anything, domaintest.TenantID, mock.MatchedBy(func(req domain.BookingRequest) bool {
		return req.PostalCode == "60000" &&
			req.ServiceID == "repair" &&
			ptr.Value(req.EquipmentID) == "boiler" &&
			req.Attributes["model"] == "ThemaPlus" &&
			req.SessionID == "morning" &&
			req.Date.Equal(domaintest.Date(2026, 1, 5))
	})).Return(&domain.Booking{ID: 42, Status: domain.StatusConfirmed}, nil).Once()

	contact := domaintest.Contact()
	f.submit(t, Input{Contact: &contact})

	f.assertAt(t, StateSubmitted, "")
	assert.True(t, f.session.IsSubmitted())
	assert.Equal(t, int64(42), ptr.Value(f.session.BookingID))
	assert.Equal(t, domain.StatusConfirmed, f.session.BookingStatus)
	f.reserver.AssertExpectations(t)

	assert.ErrorIs(t, f.machine.Submit(context.Background(), f.session, Input{}), ErrSessionSubmitted)
	assert.ErrorIs(t, f.machine.Back(f.session), ErrSessionSubmitted)
}

func TestMachine_PostalCodeOutsideZones(t *testing.T) {
	f := newFixture()

	f.submit(t, Input{PostalCode: ptr.Ptr("75008")})

	f.assertAt(t, StateZoneCheck, "")
	assert.Equal(t, domain.ReasonOutsideZone, f.session.Reason)
	assert.NotEmpty(t, f.session.Errors)
	assert.Empty(t, f.session.Request.PostalCode)

	f.submit(t, Input{PostalCode: ptr.Ptr("95100")})
	f.assertAt(t, StateServiceSelect, "")
	assert.Empty(t, f.session.Errors)
}

func TestMachine_RepairBrandWithoutModel(t *testing.T) {
	f := newFixture()
	f.toDevice(t)

	f.submit(t, Input{Attributes: map[string]string{"brand": "Saunier Duval"}})

	f.assertAt(t, StateServiceOptions, "device")
	assert.Equal(t, domain.ReasonValidationFailed, f.session.Reason)
	assert.Equal(t, []string{"model"}, f.session.Errors)
	assert.Equal(t, "Saunier Duval", f.session.Request.Attributes["brand"])
}

func TestMachine_ForwardBackForwardIsIdempotent(t *testing.T) {
	f := newFixture()
	f.toDevice(t)
	device := Input{Attributes: map[string]string{"brand": "Saunier Duval", "model": "ThemaPlus"}}
	f.submit(t, device)
	f.assertAt(t, StateDateSelect, "")

	snapshot := f.session.Request
	snapshot.Attributes = make(map[string]string, len(f.session.Request.Attributes))
	for k, v := range f.session.Request.Attributes {
		snapshot.Attributes[k] = v
	}
	stack := append([]Frame(nil), f.session.Stack...)

	f.back(t)
	f.assertAt(t, StateServiceOptions, "device")
	f.back(t)
	f.assertAt(t, StateServiceOptions, "exhaust")

	// Данные сохраняются при возврате
	assert.Equal(t, snapshot, f.session.Request)

	f.submit(t, Input{Attributes: map[string]string{"exhaust": "flue"}})
	f.submit(t, device)

	assert.Equal(t, snapshot, f.session.Request)
	assert.Equal(t, stack, f.session.Stack)
}

func TestMachine_ChangingServiceClearsServiceData(t *testing.T) {
	f := newFixture()
	f.toDevice(t)

	f.back(t)
	f.back(t)
	f.back(t)
	f.assertAt(t, StateServiceSelect, "")

	f.submit(t, Input{ServiceID: ptr.Ptr("maintenance")})
	f.assertAt(t, StateServiceOptions, "equipment")
	assert.Nil(t, f.session.Request.EquipmentID)
	assert.Empty(t, f.session.Request.Attributes)
	assert.Equal(t, "60000", f.session.Request.PostalCode)

	f.submit(t, Input{EquipmentID: ptr.Ptr("boiler")})
	f.submit(t, Input{Attributes: map[string]string{"exhaust": "chimney"}})
	f.assertAt(t, StateServiceOptions, "intervention")
	f.submit(t, Input{InterventionID: ptr.Ptr("annual")})
	f.assertAt(t, StateServiceOptions, "extras")

	f.submit(t, Input{Selections: map[string][]string{"extras": {"sauna"}}})
	f.assertAt(t, StateServiceOptions, "extras")
	assert.Equal(t, domain.ReasonValidationFailed, f.session.Reason)

	f.submit(t, Input{Selections: map[string][]string{"extras": {"descaling", "filter"}}})
	f.assertAt(t, StateDateSelect, "")
}

func TestMachine_ChangingEquipmentClearsOldEquipmentSteps(t *testing.T) {
	f := newFixture()
	f.toDevice(t)
	assert.Equal(t, "flue", f.session.Request.Attributes["exhaust"])

	f.back(t)
	f.back(t)
	f.assertAt(t, StateServiceOptions, "equipment")

	f.submit(t, Input{EquipmentID: ptr.Ptr("heat_pump")})

	// У теплового насоса нет своих шагов
	f.assertAt(t, StateServiceOptions, "device")
	_, ok := f.session.Request.Attributes["exhaust"]
	assert.False(t, ok)
	assert.Equal(t, "heat_pump", ptr.Value(f.session.Request.EquipmentID))
}

func TestMachine_ServiceWithoutOptionsSkipsToDate(t *testing.T) {
	f := newFixture()
	f.submit(t, Input{PostalCode: ptr.Ptr("60000")})
	f.submit(t, Input{ServiceID: ptr.Ptr("diagnostic")})
	f.assertAt(t, StateDateSelect, "")
}

func TestMachine_UnknownService(t *testing.T) {
	f := newFixture()
	f.submit(t, Input{PostalCode: ptr.Ptr("60000")})
	f.submit(t, Input{ServiceID: ptr.Ptr("painting")})

	f.assertAt(t, StateServiceSelect, "")
	assert.Equal(t, []string{`serviceId: unknown service "painting"`}, f.session.Errors)
}

func TestMachine_DateWithoutAvailableSession(t *testing.T) {
	f := newFixture()
	f.submit(t, Input{PostalCode: ptr.Ptr("60000")})
	f.submit(t, Input{ServiceID: ptr.Ptr("diagnostic")})

	// Суббота
	f.submit(t, Input{Date: ptr.Ptr("2026-01-10")})
	f.assertAt(t, StateDateSelect, "")
	assert.Equal(t, domain.ReasonValidationFailed, f.session.Reason)

	f.submit(t, Input{Date: ptr.Ptr("05/01/2026")})
	f.assertAt(t, StateDateSelect, "")
	assert.Equal(t, domain.ReasonValidationFailed, f.session.Reason)
}

func TestMachine_FullSessionIsNotSelectable(t *testing.T) {
	f := newFixture()
	f.calendar.bookings = []*domain.Booking{{
		TenantID:    domaintest.TenantID,
		BookingDate: domaintest.Date(2026, 1, 5),
		SessionID:   "morning",
		Status:      domain.StatusConfirmed,
	}}

	f.submit(t, Input{PostalCode: ptr.Ptr("60000")})
	f.submit(t, Input{ServiceID: ptr.Ptr("diagnostic")})
	f.submit(t, Input{Date: ptr.Ptr("2026-01-05")})

	f.submit(t, Input{SessionID: ptr.Ptr("morning")})
	f.assertAt(t, StateSlotSelect, "")
	assert.Equal(t, domain.ReasonSlotFull, f.session.Reason)
	assert.True(t, f.session.NeedsRefresh)

	f.submit(t, Input{SessionID: ptr.Ptr("afternoon")})
	f.assertAt(t, StateContactForm, "")
	assert.False(t, f.session.NeedsRefresh)
}

func TestMachine_SlotFullOnSubmitReturnsToSlotSelect(t *testing.T) {
	f := newFixture()
	f.toContact(t)

	f.reserver.On("Reserve", mock.Anything, domaintest.TenantID, mock.Anything).
		Return(nil, domain.ErrSlotFull).Once()

	contact := domaintest.Contact()
	f.submit(t, Input{Contact: &contact})

	f.assertAt(t, StateSlotSelect, "")
	assert.Equal(t, domain.ReasonSlotFull, f.session.Reason)
	assert.True(t, f.session.NeedsRefresh)
	assert.Empty(t, f.session.Request.SessionID)
	assert.Equal(t, contact, f.session.Request.Contact)
	assert.Nil(t, f.session.BookingID)
}

func TestMachine_OutsideZoneOnSubmitReturnsToZoneCheck(t *testing.T) {
	f := newFixture()
	f.toContact(t)

	f.reserver.On("Reserve", mock.Anything, domaintest.TenantID, mock.Anything).
		Return(nil, domain.ErrOutsideZone).Once()

	contact := domaintest.Contact()
	f.submit(t, Input{Contact: &contact})

	f.assertAt(t, StateZoneCheck, "")
	assert.Equal(t, domain.ReasonOutsideZone, f.session.Reason)
}

func TestMachine_ContactValidation(t *testing.T) {
	f := newFixture()
	f.toContact(t)

	f.submit(t, Input{Contact: &domain.Contact{FirstName: "Camille"}})

	f.assertAt(t, StateContactForm, "")
	assert.Contains(t, f.session.Errors, "contact.email")
	f.reserver.AssertNotCalled(t, "Reserve", mock.Anything, mock.Anything, mock.Anything)
}

func TestMachine_InfrastructureErrorsAreReturned(t *testing.T) {
	f := newFixture()
	f.submit(t, Input{PostalCode: ptr.Ptr("60000")})
	f.submit(t, Input{ServiceID: ptr.Ptr("diagnostic")})

	f.calendar.err = assert.AnError
	err := f.machine.Submit(context.Background(), f.session, Input{Date: ptr.Ptr("2026-01-05")})

	assert.ErrorIs(t, err, assert.AnError)
	f.assertAt(t, StateDateSelect, "")
	assert.Empty(t, f.session.Reason)
}

func TestMachine_Back(t *testing.T) {
	f := newFixture()
	assert.ErrorIs(t, f.machine.Back(f.session), ErrNoPreviousStep)

	f.submit(t, Input{PostalCode: ptr.Ptr("60000")})
	f.back(t)
	f.assertAt(t, StateZoneCheck, "")
	assert.Equal(t, "60000", f.session.Request.PostalCode)
}

func TestMachine_TenantMismatch(t *testing.T) {
	f := newFixture()
	f.session.TenantID = 2
	assert.ErrorIs(t, f.machine.Submit(context.Background(), f.session, Input{}), ErrTenantMismatch)
}
