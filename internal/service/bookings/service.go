package bookings

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/internal/events"
	bookingRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/booking"
	"github.com/m04kA/SMC-SchedulingService/internal/service/bookings/models"
)

// Service сервис администрирования бронирований тенанта
type Service struct {
	bookingRepo BookingRepository
	txManager   TransactionManager
	events      EventPublisher
	logger      Logger
}

// NewService создает новый экземпляр сервиса бронирований
// events может быть nil
func NewService(
	bookingRepo BookingRepository,
	txManager TransactionManager,
	events EventPublisher,
	logger Logger,
) *Service {
	return &Service{
		bookingRepo: bookingRepo,
		txManager:   txManager,
		events:      events,
		logger:      logger,
	}
}

// GetByID получает бронирование тенанта по ID
func (s *Service) GetByID(ctx context.Context, tenantID, id int64) (*models.BookingResponse, error) {
	s.logger.Info("GetByID: fetching booking id=%d of tenant=%d", id, tenantID)

	booking, err := s.bookingRepo.GetByID(ctx, tenantID, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("GetByID: booking id=%d not found", id)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("GetByID: repository error for booking id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainBooking(booking), nil
}

// List получает бронирования тенанта с фильтрацией по периоду и статусу
func (s *Service) List(ctx context.Context, req *models.ListBookingsRequest) (*models.BookingListResponse, error) {
	s.logger.Info("List: fetching bookings of tenant=%d", req.TenantID)

	filter, err := req.ToDomainFilter()
	if err != nil {
		s.logger.Warn("List: invalid filter: %v", err)
		return nil, err
	}
	if filter.StartDate != nil && filter.EndDate != nil && filter.EndDate.Before(*filter.StartDate) {
		return nil, fmt.Errorf("%w: endDate is before startDate", ErrInvalidInput)
	}

	bookings, err := s.bookingRepo.List(ctx, filter)
	if err != nil {
		s.logger.Error("List: repository error for tenant=%d: %v", req.TenantID, err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("List: successfully fetched %d bookings of tenant=%d", len(bookings), req.TenantID)
	return models.FromDomainBookingList(bookings), nil
}

// UpdateStatus переводит бронирование в новый статус
// Подтверждение и отклонение заявок тенанта без автоподтверждения, отмена
func (s *Service) UpdateStatus(ctx context.Context, tenantID, id int64, req *models.UpdateStatusRequest) (*models.BookingResponse, error) {
	s.logger.Info("UpdateStatus: updating booking id=%d of tenant=%d to status=%s", id, tenantID, req.Status)

	// 1. Валидируем статус
	next, ok := domain.ParseBookingStatus(req.Status)
	if !ok {
		s.logger.Warn("UpdateStatus: invalid status=%s", req.Status)
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, req.Status)
	}

	var (
		booking  *domain.Booking
		previous domain.BookingStatus
	)

	// 2. Проверка перехода и обновление в одной транзакции
	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		var err error
		booking, err = s.bookingRepo.GetByID(txCtx, tenantID, id)
		if err != nil {
			return err
		}

		previous = booking.Status
		if !previous.CanTransitionTo(next) {
			return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, previous, next)
		}

		return s.bookingRepo.UpdateStatus(txCtx, tenantID, id, previous, next)
	})

	if err != nil {
		switch {
		case errors.Is(err, bookingRepo.ErrBookingNotFound):
			s.logger.Warn("UpdateStatus: booking id=%d not found", id)
			return nil, ErrBookingNotFound
		case errors.Is(err, ErrInvalidTransition):
			s.logger.Warn("UpdateStatus: %v", err)
			return nil, err
		case errors.Is(err, bookingRepo.ErrStatusConflict):
			s.logger.Warn("UpdateStatus: booking id=%d changed concurrently", id)
			return nil, fmt.Errorf("%w: status changed concurrently", ErrInvalidTransition)
		}
		s.logger.Error("UpdateStatus: repository error for booking id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: UpdateStatus - repository error: %v", ErrInternal, err)
	}

	booking.Status = next
	booking.UpdatedAt = time.Now()

	s.logger.Info("UpdateStatus: successfully updated booking id=%d %s -> %s", id, previous, next)

	// 3. Уведомляем подписчиков
	s.publish(booking, previous)

	return models.FromDomainBooking(booking), nil
}

// AssignTechnician назначает техника активному бронированию или снимает назначение
// Тур дня строится по бронированиям одного техника
func (s *Service) AssignTechnician(ctx context.Context, tenantID, id int64, req *models.AssignTechnicianRequest) (*models.BookingResponse, error) {
	s.logger.Info("AssignTechnician: booking id=%d of tenant=%d, technician=%v", id, tenantID, formatTechnician(req.TechnicianID))

	// 1. Валидируем ID техника
	if req.TechnicianID != nil && *req.TechnicianID <= 0 {
		s.logger.Warn("AssignTechnician: invalid technician id=%d", *req.TechnicianID)
		return nil, fmt.Errorf("%w: technicianId must be positive", ErrInvalidInput)
	}

	var booking *domain.Booking

	// 2. Проверка статуса и назначение в одной транзакции
	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		var err error
		booking, err = s.bookingRepo.GetByID(txCtx, tenantID, id)
		if err != nil {
			return err
		}
		if !booking.IsActive() {
			return fmt.Errorf("%w: status %s", ErrBookingInactive, booking.Status)
		}
		return s.bookingRepo.AssignTechnician(txCtx, tenantID, id, req.TechnicianID)
	})

	if err != nil {
		switch {
		case errors.Is(err, bookingRepo.ErrBookingNotFound):
			s.logger.Warn("AssignTechnician: booking id=%d not found", id)
			return nil, ErrBookingNotFound
		case errors.Is(err, ErrBookingInactive):
			s.logger.Warn("AssignTechnician: booking id=%d: %v", id, err)
			return nil, err
		case errors.Is(err, bookingRepo.ErrStatusConflict):
			s.logger.Warn("AssignTechnician: booking id=%d changed concurrently", id)
			return nil, fmt.Errorf("%w: status changed concurrently", ErrBookingInactive)
		}
		s.logger.Error("AssignTechnician: repository error for booking id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: AssignTechnician - repository error: %v", ErrInternal, err)
	}

	booking.TechnicianID = req.TechnicianID
	booking.UpdatedAt = time.Now()

	s.logger.Info("AssignTechnician: successfully updated booking id=%d", id)
	return models.FromDomainBooking(booking), nil
}

func formatTechnician(id *int64) string {
	if id == nil {
		return "none"
	}
	return fmt.Sprintf("%d", *id)
}

func (s *Service) publish(b *domain.Booking, previous domain.BookingStatus) {
	if s.events == nil {
		return
	}
	err := s.events.PublishJSON(events.EventBookingStatusChanged, events.BookingEventPayload{
		BookingID:      b.ID,
		TenantID:       b.TenantID,
		Date:           b.BookingDate.Format(domain.DateFormat),
		SessionID:      b.SessionID,
		ServiceID:      b.ServiceID,
		PostalCode:     b.PostalCode,
		Status:         string(b.Status),
		PreviousStatus: string(previous),
		CustomerName:   b.Details.Contact.FullName(),
		CustomerEmail:  b.Details.Contact.Email,
		OccurredAt:     b.UpdatedAt,
	})
	if err != nil {
		s.logger.Warn("UpdateStatus: failed to publish %s for booking id=%d: %v", events.EventBookingStatusChanged, b.ID, err)
	}
}
