package optimize_tour

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/internal/domain/domaintest"
	bookingRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/booking"
	"github.com/m04kA/SMC-SchedulingService/internal/infra/storage/storagetest"
	"github.com/m04kA/SMC-SchedulingService/pkg/logger"
	"github.com/m04kA/SMC-SchedulingService/pkg/ptr"
)

type mockBookingRepo struct{ mock.Mock }

func (m *mockBookingRepo) List(ctx context.Context, filter domain.BookingsFilter) ([]*domain.Booking, error) {
	args := m.Called(ctx, filter)
	if b := args.Get(0); b != nil {
		return b.([]*domain.Booking), args.Error(1)
	}
	return nil, args.Error(1)
}

type mockExporter struct{ mock.Mock }

func (m *mockExporter) Export(tour *DayResponse) ([]byte, error) {
	args := m.Called(tour)
	if b := args.Get(0); b != nil {
		return b.([]byte), args.Error(1)
	}
	return nil, args.Error(1)
}

func located(id int64, lat, lng float64) *domain.Booking {
	return &domain.Booking{
		ID:       id,
		TenantID: domaintest.TenantID,
		Status:   domain.StatusConfirmed,
		Location: &domain.GeoPoint{Lat: lat, Lng: lng},
		Details:  domain.BookingDetails{Contact: domaintest.Contact()},
	}
}

func TestUseCase_Execute(t *testing.T) {
	uc := NewUseCase(&mockBookingRepo{}, nil, nil, logger.Nop())

	resp, err := uc.Execute(context.Background(), &Request{
		Depot: domain.Point{},
		Stops: []domain.Stop{
			{Label: "a", Point: domain.Point{X: 1, Y: 1}},
			{Label: "b", Point: domain.Point{X: 5, Y: 5}},
			{Label: "c", Point: domain.Point{X: 2, Y: 2}},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, []domain.Point{{X: 1, Y: 1}, {X: 2, Y: 2}, {X: 5, Y: 5}}, points(resp.Stops))

	_, err = uc.Execute(context.Background(), &Request{Depot: domain.Point{X: math.NaN()}})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestUseCase_ExecuteDay(t *testing.T) {
	repo := &mockBookingRepo{}
	uc := NewUseCase(repo, nil, nil, logger.Nop())
	date := domaintest.Date(2026, 1, 5)

	noLocation := located(4, 0, 0)
	noLocation.Location = nil

	repo.On("List", mock.Anything, mock.MatchedBy(func(f domain.BookingsFilter) bool {
		return f.TenantID == domaintest.TenantID &&
			f.TechnicianID != nil && *f.TechnicianID == 7 &&
			f.Status != nil && *f.Status == domain.StatusConfirmed &&
			f.StartDate.Equal(date) && f.EndDate.Equal(date)
	})).Return([]*domain.Booking{
		located(1, 5, 5),
		located(2, 1, 1),
		located(3, 2, 2),
		noLocation,
	}, nil)

	resp, err := uc.ExecuteDay(context.Background(), &DayRequest{TenantID: domaintest.TenantID, TechnicianID: 7, Date: date})
	require.NoError(t, err)
	assert.Equal(t, int64(7), resp.TechnicianID)

	require.Len(t, resp.Stops, 3)
	assert.Equal(t, int64(2), resp.Stops[0].Booking.ID)
	assert.Equal(t, int64(3), resp.Stops[1].Booking.ID)
	assert.Equal(t, int64(1), resp.Stops[2].Booking.ID)
	assert.Equal(t, "#2 Camille Martin", resp.Stops[0].Stop.Label)
	assert.InDelta(t, math.Sqrt2, resp.Stops[0].LegDistance, 1e-9)
	assert.InDelta(t, 5*math.Sqrt2, resp.TotalDistance, 1e-9)
	assert.Equal(t, []int64{4}, resp.Unlocated)
}

func TestUseCase_ExportDay(t *testing.T) {
	repo := &mockBookingRepo{}
	exporter := &mockExporter{}
	uc := NewUseCase(repo, exporter, nil, logger.Nop())

	repo.On("List", mock.Anything, mock.Anything).Return([]*domain.Booking{located(1, 1, 1)}, nil)
	exporter.On("Export", mock.MatchedBy(func(tour *DayResponse) bool { return len(tour.Stops) == 1 })).
		Return([]byte("xlsx"), nil)

	data, tour, err := uc.ExportDay(context.Background(), &DayRequest{TenantID: 1, TechnicianID: 7, Date: domaintest.Date(2026, 1, 5)})
	require.NoError(t, err)
	assert.Equal(t, []byte("xlsx"), data)
	assert.Len(t, tour.Stops, 1)

	_, _, err = NewUseCase(repo, nil, nil, logger.Nop()).ExportDay(context.Background(), &DayRequest{TenantID: 1})
	assert.ErrorIs(t, err, ErrInternal)
}

func TestUseCase_ExecuteDay_RequiresTechnician(t *testing.T) {
	repo := &mockBookingRepo{}
	uc := NewUseCase(repo, nil, nil, logger.Nop())

	_, err := uc.ExecuteDay(context.Background(), &DayRequest{TenantID: 1, Date: domaintest.Date(2026, 1, 5)})
	assert.ErrorIs(t, err, ErrInvalidInput)
	repo.AssertNotCalled(t, "List", mock.Anything, mock.Anything)
}

// Маршрут каждого техника строится только по его бронированиям
func TestUseCase_ExecuteDay_FiltersByTechnician(t *testing.T) {
	repo := bookingRepo.NewRepository(storagetest.Open(t), storagetest.Driver)
	uc := NewUseCase(repo, nil, nil, logger.Nop())
	ctx := context.Background()
	date := domaintest.Date(2026, 1, 5)

	create := func(technicianID *int64, lat, lng float64) int64 {
		b, err := repo.Create(ctx, &domain.Booking{
			TenantID:     domaintest.TenantID,
			BookingDate:  date,
			SessionID:    "morning",
			SessionStart: "08:00",
			SessionEnd:   "12:00",
			ServiceID:    "repair",
			PostalCode:   "60000",
			Details:      domain.BookingDetails{Contact: domaintest.Contact()},
			Location:     &domain.GeoPoint{Lat: lat, Lng: lng},
			Status:       domain.StatusConfirmed,
			TechnicianID: technicianID,
		})
		require.NoError(t, err)
		return b.ID
	}

	first := create(ptr.Ptr(int64(7)), 1, 1)
	second := create(ptr.Ptr(int64(7)), 2, 2)
	other := create(ptr.Ptr(int64(8)), 3, 3)
	create(nil, 4, 4)

	tour, err := uc.ExecuteDay(ctx, &DayRequest{TenantID: domaintest.TenantID, TechnicianID: 7, Date: date})
	require.NoError(t, err)
	require.Len(t, tour.Stops, 2)
	assert.Equal(t, first, tour.Stops[0].Booking.ID)
	assert.Equal(t, second, tour.Stops[1].Booking.ID)

	tour, err = uc.ExecuteDay(ctx, &DayRequest{TenantID: domaintest.TenantID, TechnicianID: 8, Date: date})
	require.NoError(t, err)
	require.Len(t, tour.Stops, 1)
	assert.Equal(t, other, tour.Stops[0].Booking.ID)

	tour, err = uc.ExecuteDay(ctx, &DayRequest{TenantID: domaintest.TenantID, TechnicianID: 9, Date: date})
	require.NoError(t, err)
	assert.Empty(t, tour.Stops)
}
