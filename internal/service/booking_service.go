package service

import (
	"context"
	"fmt"

	"github.com/trailmark/experiences-api/internal/domain"
	"github.com/trailmark/experiences-api/internal/repository"
	"github.com/trailmark/experiences-api/pkg/events"
	"github.com/trailmark/experiences-api/pkg/logger"
)

type BookingService interface {
	Book(ctx context.Context, caller domain.Identity, experienceID int64, req *domain.BookingRequest) (*domain.Booking, error)
	ListMine(ctx context.Context, caller domain.Identity, limit, offset int) ([]domain.Booking, int64, error)
}

type bookingService struct {
	bookingRepo repository.BookingRepository
	expRepo     repository.ExperienceRepository
	eventBus    events.Publisher
}

func NewBookingService(
	bookingRepo repository.BookingRepository,
	expRepo repository.ExperienceRepository,
	eventBus events.Publisher,
) BookingService {
	return &bookingService{
		bookingRepo: bookingRepo,
		expRepo:     expRepo,
		eventBus:    eventBus,
	}
}

// Book runs the eligibility chain and records exactly one confirmed
// booking per (experience, caller). The pre-check keeps the common
// duplicate case cheap; the confirmed unique index in the store is
// what actually holds under concurrent requests.
func (s *bookingService) Book(ctx context.Context, caller domain.Identity, experienceID int64, req *domain.BookingRequest) (*domain.Booking, error) {
	if experienceID < 1 {
		return nil, domain.E(domain.CodeInvalidInput, "invalid experience id")
	}
	if details := req.Validate(); len(details) > 0 {
		return nil, domain.ValidationFailed(details)
	}

	exp, err := s.expRepo.FindByID(ctx, experienceID)
	if err != nil {
		return nil, fmt.Errorf("failed to find experience: %w", err)
	}
	if exp == nil {
		return nil, domain.E(domain.CodeNotFound, "experience not found")
	}
	if exp.Status != domain.ExperiencePublished {
		return nil, domain.E(domain.CodeInvalidState, "cannot book unpublished experience")
	}
	if caller.Role == domain.RoleHost && exp.CreatedBy == caller.ID {
		return nil, domain.E(domain.CodeForbidden, "hosts cannot book their own experiences")
	}

	existing, err := s.bookingRepo.FindConfirmed(ctx, experienceID, caller.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing booking: %w", err)
	}
	if existing != nil {
		return nil, domain.E(domain.CodeAlreadyBooked, "already have a confirmed booking for this experience")
	}

	booking, err := s.bookingRepo.CreateConfirmed(ctx, experienceID, caller.ID, *req.Seats)
	if err == repository.ErrDuplicate {
		// A concurrent request won the race between the check above
		// and this insert.
		return nil, domain.E(domain.CodeAlreadyBooked, "already have a confirmed booking for this experience")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create booking: %w", err)
	}

	event := events.BookingCreatedEvent{
		BookingID:    booking.ID,
		ExperienceID: booking.ExperienceID,
		UserID:       booking.UserID,
		Seats:        booking.Seats,
		CreatedAt:    booking.CreatedAt,
	}
	if err := s.eventBus.Publish(ctx, events.BookingCreated, event); err != nil {
		logger.ErrorContext(ctx, "Failed to publish booking created event", "error", err, "booking_id", booking.ID)
	}

	return booking, nil
}

func (s *bookingService) ListMine(ctx context.Context, caller domain.Identity, limit, offset int) ([]domain.Booking, int64, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	bookings, total, err := s.bookingRepo.ListByUser(ctx, caller.ID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list bookings: %w", err)
	}
	if bookings == nil {
		bookings = []domain.Booking{}
	}
	return bookings, total, nil
}
