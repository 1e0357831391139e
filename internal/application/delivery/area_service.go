package delivery

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/nepalmeatshop/backend/internal/domain/delivery"
	"github.com/nepalmeatshop/backend/internal/domain/shared"
)

// AreaService handles delivery area management and lookups
type AreaService struct {
	areaRepo       delivery.AreaRepository
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewAreaService creates a new AreaService
func NewAreaService(areaRepo delivery.AreaRepository, logger *zap.Logger) *AreaService {
	return &AreaService{
		areaRepo: areaRepo,
		logger:   logger,
	}
}

// SetEventPublisher sets the event publisher for cross-context integration
func (s *AreaService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create creates a new delivery area
func (s *AreaService) Create(ctx context.Context, req CreateAreaRequest) (*AreaResponse, error) {
	exists, err := s.areaRepo.ExistsByName(ctx, req.Name)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Delivery area with this name already exists")
	}

	area, err := delivery.NewArea(req.Name, req.NameNepali, req.Charge)
	if err != nil {
		return nil, err
	}

	if req.MinOrderAmount != nil {
		if err := area.SetMinOrderAmount(*req.MinOrderAmount); err != nil {
			return nil, err
		}
	}
	if req.EstimatedHours != nil {
		if err := area.Update(area.Name, area.NameNepali, area.Charge, *req.EstimatedHours); err != nil {
			return nil, err
		}
	}

	if err := s.areaRepo.Save(ctx, area); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, area)

	s.logger.Info("Delivery area created",
		zap.String("area_id", area.ID.String()),
		zap.String("name", area.Name))

	return ToAreaResponse(area), nil
}

// GetByID retrieves a delivery area by ID
func (s *AreaService) GetByID(ctx context.Context, id uuid.UUID) (*AreaResponse, error) {
	area, err := s.areaRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return ToAreaResponse(area), nil
}

// ListActive returns the areas selectable at checkout
func (s *AreaService) ListActive(ctx context.Context) ([]AreaResponse, error) {
	areas, err := s.areaRepo.FindActive(ctx)
	if err != nil {
		return nil, err
	}
	return toAreaResponses(areas), nil
}

// List returns all delivery areas for the back office
func (s *AreaService) List(ctx context.Context) ([]AreaResponse, error) {
	areas, err := s.areaRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	return toAreaResponses(areas), nil
}

// Update updates a delivery area's details
func (s *AreaService) Update(ctx context.Context, id uuid.UUID, req UpdateAreaRequest) (*AreaResponse, error) {
	area, err := s.areaRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != area.Name {
		exists, err := s.areaRepo.ExistsByName(ctx, req.Name)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, shared.NewDomainError("ALREADY_EXISTS", "Delivery area with this name already exists")
		}
	}

	if err := area.Update(req.Name, req.NameNepali, req.Charge, req.EstimatedHours); err != nil {
		return nil, err
	}
	if req.MinOrderAmount != nil {
		if err := area.SetMinOrderAmount(*req.MinOrderAmount); err != nil {
			return nil, err
		}
	}

	if err := s.areaRepo.Save(ctx, area); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, area)

	return ToAreaResponse(area), nil
}

// Activate makes an area selectable at checkout
func (s *AreaService) Activate(ctx context.Context, id uuid.UUID) (*AreaResponse, error) {
	return s.changeStatus(ctx, id, func(a *delivery.Area) error { return a.Activate() })
}

// Deactivate hides an area from checkout
func (s *AreaService) Deactivate(ctx context.Context, id uuid.UUID) (*AreaResponse, error) {
	return s.changeStatus(ctx, id, func(a *delivery.Area) error { return a.Deactivate() })
}

// Delete removes a delivery area. Orders keep their stored charge, so
// removal never rewrites history.
func (s *AreaService) Delete(ctx context.Context, id uuid.UUID) error {
	area, err := s.areaRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.areaRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("Delivery area deleted",
		zap.String("area_id", id.String()),
		zap.String("name", area.Name))

	return nil
}

// changeStatus applies a status transition and saves
func (s *AreaService) changeStatus(ctx context.Context, id uuid.UUID, transition func(*delivery.Area) error) (*AreaResponse, error) {
	area, err := s.areaRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := transition(area); err != nil {
		return nil, err
	}

	if err := s.areaRepo.Save(ctx, area); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, area)

	return ToAreaResponse(area), nil
}

// publishEvents publishes buffered domain events after a successful save
func (s *AreaService) publishEvents(ctx context.Context, area *delivery.Area) {
	if s.eventPublisher == nil {
		return
	}
	for _, event := range area.GetDomainEvents() {
		if err := s.eventPublisher.Publish(ctx, event); err != nil {
			s.logger.Warn("Failed to publish delivery area event",
				zap.String("event_type", event.EventType()),
				zap.Error(err))
		}
	}
	area.ClearDomainEvents()
}

func toAreaResponses(areas []*delivery.Area) []AreaResponse {
	responses := make([]AreaResponse, 0, len(areas))
	for _, area := range areas {
		responses = append(responses, *ToAreaResponse(area))
	}
	return responses
}
