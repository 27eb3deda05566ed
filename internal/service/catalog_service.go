package service

import (
	"context"
	"fmt"

	"github.com/trailmark/experiences-api/internal/domain"
	"github.com/trailmark/experiences-api/internal/repository"
	"github.com/trailmark/experiences-api/pkg/events"
	"github.com/trailmark/experiences-api/pkg/logger"
)

type CatalogService interface {
	Create(ctx context.Context, ownerID int64, req *domain.CreateExperienceRequest) (*domain.Experience, error)
	Get(ctx context.Context, id int64, caller *domain.Identity) (*domain.Experience, error)
	ListPublished(ctx context.Context, q domain.ListQuery) (*domain.ListResult, error)
	Publish(ctx context.Context, id int64) (*domain.Experience, error)
	Block(ctx context.Context, id int64) (*domain.Experience, error)
}

type catalogService struct {
	expRepo  repository.ExperienceRepository
	eventBus events.Publisher
}

func NewCatalogService(expRepo repository.ExperienceRepository, eventBus events.Publisher) CatalogService {
	return &catalogService{
		expRepo:  expRepo,
		eventBus: eventBus,
	}
}

func (s *catalogService) Create(ctx context.Context, ownerID int64, req *domain.CreateExperienceRequest) (*domain.Experience, error) {
	if details := req.Validate(); len(details) > 0 {
		return nil, domain.ValidationFailed(details)
	}

	exp := &domain.Experience{
		Title:       req.Title,
		Description: req.Description,
		Location:    req.Location,
		CreatedBy:   ownerID,
	}
	if req.Price != nil {
		exp.Price = *req.Price
	}
	if req.StartTime != nil {
		t, err := domain.ParseStartTime(*req.StartTime)
		if err != nil {
			return nil, domain.ValidationFailed([]string{"start_time must be a valid date"})
		}
		exp.StartTime = &t
	}

	created, err := s.expRepo.Create(ctx, exp)
	if err != nil {
		return nil, fmt.Errorf("failed to create experience: %w", err)
	}
	return created, nil
}

// Get returns a published experience to anyone, and an unpublished one
// only to its owner or an admin.
func (s *catalogService) Get(ctx context.Context, id int64, caller *domain.Identity) (*domain.Experience, error) {
	exp, err := s.expRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to find experience: %w", err)
	}
	if exp == nil {
		return nil, domain.E(domain.CodeNotFound, "experience not found")
	}
	if exp.Status == domain.ExperiencePublished {
		return exp, nil
	}
	if caller != nil && (caller.ID == exp.CreatedBy || caller.Role == domain.RoleAdmin) {
		return exp, nil
	}
	return nil, domain.E(domain.CodeNotFound, "experience not found")
}

func (s *catalogService) ListPublished(ctx context.Context, q domain.ListQuery) (*domain.ListResult, error) {
	q.Clamp()

	data, total, err := s.expRepo.ListPublished(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("failed to list experiences: %w", err)
	}
	if data == nil {
		data = []domain.Experience{}
	}

	return &domain.ListResult{
		Data:  data,
		Total: total,
		Page:  q.Page,
		Limit: q.Limit,
	}, nil
}

// Publish moves draft -> published. Re-publishing a published
// experience returns it unchanged; blocked is terminal.
func (s *catalogService) Publish(ctx context.Context, id int64) (*domain.Experience, error) {
	exp, err := s.expRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to find experience: %w", err)
	}
	if exp == nil {
		return nil, domain.E(domain.CodeNotFound, "experience not found")
	}

	switch exp.Status {
	case domain.ExperiencePublished:
		return exp, nil
	case domain.ExperienceBlocked:
		return nil, domain.E(domain.CodeInvalidState, "blocked experience cannot be published")
	}

	updated, err := s.expRepo.UpdateStatus(ctx, id, domain.ExperiencePublished)
	if err != nil {
		return nil, fmt.Errorf("failed to publish experience: %w", err)
	}
	if updated == nil {
		return nil, domain.E(domain.CodeNotFound, "experience not found")
	}

	s.publishStatusEvent(ctx, events.ExperiencePublished, updated)
	return updated, nil
}

// Block moves any state -> blocked, admin gated at the boundary.
// Re-blocking is idempotent.
func (s *catalogService) Block(ctx context.Context, id int64) (*domain.Experience, error) {
	exp, err := s.expRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to find experience: %w", err)
	}
	if exp == nil {
		return nil, domain.E(domain.CodeNotFound, "experience not found")
	}
	if exp.Status == domain.ExperienceBlocked {
		return exp, nil
	}

	updated, err := s.expRepo.UpdateStatus(ctx, id, domain.ExperienceBlocked)
	if err != nil {
		return nil, fmt.Errorf("failed to block experience: %w", err)
	}
	if updated == nil {
		return nil, domain.E(domain.CodeNotFound, "experience not found")
	}

	s.publishStatusEvent(ctx, events.ExperienceBlocked, updated)
	return updated, nil
}

func (s *catalogService) publishStatusEvent(ctx context.Context, subject string, exp *domain.Experience) {
	event := events.ExperienceStatusEvent{
		ExperienceID: exp.ID,
		OwnerID:      exp.CreatedBy,
		Status:       string(exp.Status),
	}
	if err := s.eventBus.Publish(ctx, subject, event); err != nil {
		logger.ErrorContext(ctx, "Failed to publish experience status event",
			"error", err, "experience_id", exp.ID, "subject", subject)
	}
}
