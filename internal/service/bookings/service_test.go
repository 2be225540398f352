package bookings

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/internal/domain/domaintest"
	"github.com/m04kA/SMC-SchedulingService/internal/events"
	bookingRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/booking"
	"github.com/m04kA/SMC-SchedulingService/internal/infra/storage/storagetest"
	"github.com/m04kA/SMC-SchedulingService/internal/service/bookings/models"
	"github.com/m04kA/SMC-SchedulingService/pkg/logger"
	"github.com/m04kA/SMC-SchedulingService/pkg/ptr"
	"github.com/m04kA/SMC-SchedulingService/pkg/txmanager"
)

type fixture struct {
	repo    *bookingRepo.Repository
	bus     *events.EventBus
	service *Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db := storagetest.Open(t)
	f := &fixture{
		repo: bookingRepo.NewRepository(db, storagetest.Driver),
		bus:  events.NewEventBus(),
	}
	f.service = NewService(f.repo, txmanager.NewTransactionManager(db, txmanager.DefaultOptions()), f.bus, logger.Nop())
	return f
}

func (f *fixture) create(t *testing.T, sessionID string, status domain.BookingStatus) *domain.Booking {
	t.Helper()
	req := domaintest.RepairRequest(domaintest.Date(2026, 1, 5))
	b, err := f.repo.Create(context.Background(), &domain.Booking{
		TenantID:     domaintest.TenantID,
		BookingDate:  req.Date,
		SessionID:    sessionID,
		SessionStart: "08:00",
		SessionEnd:   "12:00",
		ServiceID:    req.ServiceID,
		EquipmentID:  req.EquipmentID,
		PostalCode:   req.PostalCode,
		Details:      domain.BookingDetails{Attributes: req.Attributes, Contact: req.Contact},
		Location:     req.Location,
		Status:       status,
	})
	require.NoError(t, err)
	return b
}

func TestService_GetByID(t *testing.T) {
	f := newFixture(t)
	b := f.create(t, "morning", domain.StatusPending)

	resp, err := f.service.GetByID(context.Background(), domaintest.TenantID, b.ID)
	require.NoError(t, err)
	assert.Equal(t, "2026-01-05", resp.BookingDate)
	assert.Equal(t, "pending", resp.Status)
	assert.Equal(t, "ThemaPlus", resp.Attributes["model"])

	_, err = f.service.GetByID(context.Background(), 2, b.ID)
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestService_List(t *testing.T) {
	f := newFixture(t)
	f.create(t, "morning", domain.StatusConfirmed)
	f.create(t, "afternoon", domain.StatusPending)
	f.create(t, "afternoon", domain.StatusCanceled)

	date := domaintest.Date(2026, 1, 5)
	resp, err := f.service.List(context.Background(), &models.ListBookingsRequest{
		TenantID:  domaintest.TenantID,
		StartDate: &date,
		EndDate:   &date,
	})
	require.NoError(t, err)
	assert.Len(t, resp.Bookings, 2)

	resp, err = f.service.List(context.Background(), &models.ListBookingsRequest{
		TenantID: domaintest.TenantID,
		Status:   ptr.Ptr("pending"),
	})
	require.NoError(t, err)
	require.Len(t, resp.Bookings, 1)
	assert.Equal(t, "afternoon", resp.Bookings[0].SessionID)

	_, err = f.service.List(context.Background(), &models.ListBookingsRequest{
		TenantID: domaintest.TenantID,
		Status:   ptr.Ptr("archived"),
	})
	assert.ErrorIs(t, err, models.ErrInvalidStatus)

	before := date.AddDate(0, 0, -1)
	_, err = f.service.List(context.Background(), &models.ListBookingsRequest{
		TenantID:  domaintest.TenantID,
		StartDate: &date,
		EndDate:   &before,
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestService_UpdateStatus(t *testing.T) {
	f := newFixture(t)
	b := f.create(t, "morning", domain.StatusPending)

	var published events.BookingEventPayload
	f.bus.Subscribe(events.EventBookingStatusChanged, func(e *events.Event) error {
		return e.Decode(&published)
	})

	resp, err := f.service.UpdateStatus(context.Background(), domaintest.TenantID, b.ID, &models.UpdateStatusRequest{Status: "confirmed"})
	require.NoError(t, err)
	assert.Equal(t, "confirmed", resp.Status)

	assert.Equal(t, b.ID, published.BookingID)
	assert.Equal(t, "confirmed", published.Status)
	assert.Equal(t, "pending", published.PreviousStatus)

	stored, err := f.repo.GetByID(context.Background(), domaintest.TenantID, b.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusConfirmed, stored.Status)
}

func TestService_UpdateStatus_Errors(t *testing.T) {
	f := newFixture(t)
	canceled := f.create(t, "morning", domain.StatusCanceled)

	tests := []struct {
		name    string
		id      int64
		status  string
		wantErr error
	}{
		{name: "unknown status", id: canceled.ID, status: "archived", wantErr: ErrInvalidStatus},
		{name: "canceled is final", id: canceled.ID, status: "confirmed", wantErr: ErrInvalidTransition},
		{name: "missing booking", id: 999, status: "canceled", wantErr: ErrBookingNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.service.UpdateStatus(context.Background(), domaintest.TenantID, tt.id, &models.UpdateStatusRequest{Status: tt.status})
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestService_AssignTechnician(t *testing.T) {
	f := newFixture(t)
	first := f.create(t, "morning", domain.StatusConfirmed)
	second := f.create(t, "afternoon", domain.StatusPending)
	ctx := context.Background()

	resp, err := f.service.AssignTechnician(ctx, domaintest.TenantID, first.ID, &models.AssignTechnicianRequest{TechnicianID: ptr.Ptr(int64(7))})
	require.NoError(t, err)
	assert.Equal(t, int64(7), ptr.Value(resp.TechnicianID))

	_, err = f.service.AssignTechnician(ctx, domaintest.TenantID, second.ID, &models.AssignTechnicianRequest{TechnicianID: ptr.Ptr(int64(8))})
	require.NoError(t, err)

	list, err := f.service.List(ctx, &models.ListBookingsRequest{TenantID: domaintest.TenantID, TechnicianID: ptr.Ptr(int64(7))})
	require.NoError(t, err)
	require.Len(t, list.Bookings, 1)
	assert.Equal(t, first.ID, list.Bookings[0].ID)

	resp, err = f.service.AssignTechnician(ctx, domaintest.TenantID, first.ID, &models.AssignTechnicianRequest{})
	require.NoError(t, err)
	assert.Nil(t, resp.TechnicianID)
}

func TestService_AssignTechnician_Errors(t *testing.T) {
	f := newFixture(t)
	canceled := f.create(t, "morning", domain.StatusCanceled)
	active := f.create(t, "afternoon", domain.StatusPending)
	ctx := context.Background()

	_, err := f.service.AssignTechnician(ctx, domaintest.TenantID, canceled.ID, &models.AssignTechnicianRequest{TechnicianID: ptr.Ptr(int64(7))})
	assert.ErrorIs(t, err, ErrBookingInactive)

	_, err = f.service.AssignTechnician(ctx, domaintest.TenantID, active.ID, &models.AssignTechnicianRequest{TechnicianID: ptr.Ptr(int64(0))})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = f.service.AssignTechnician(ctx, domaintest.TenantID, 999, &models.AssignTechnicianRequest{TechnicianID: ptr.Ptr(int64(7))})
	assert.ErrorIs(t, err, ErrBookingNotFound)
}
