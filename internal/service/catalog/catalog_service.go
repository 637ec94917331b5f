package catalog

import (
	"context"

	"github.com/anirudhpn/eventbooking/internal/domain"
	"github.com/anirudhpn/eventbooking/internal/repository"
)

type CatalogUseCase interface {
	List(ctx context.Context) ([]domain.Event, error)
	GetByID(ctx context.Context, id string) (*domain.Event, error)
	GetTariffs(ctx context.Context, eventID string) ([]domain.Tariff, error)
}

type Cache interface {
	GetEvents(ctx context.Context) ([]domain.Event, error)
	SetEvents(ctx context.Context, events []domain.Event) error
	InvalidateEvents(ctx context.Context) error
}

// CatalogService is the read-only event catalog the booking core consumes.
// Seat counts are mutated exclusively by the booking ledger's transaction,
// never through this service.
type CatalogService struct {
	repo  repository.EventRepository
	cache Cache
}

func NewCatalogService(repo repository.EventRepository, cache Cache) *CatalogService {
	return &CatalogService{repo: repo, cache: cache}
}

func (s *CatalogService) List(ctx context.Context) ([]domain.Event, error) {
	if s.cache != nil {
		if cached, err := s.cache.GetEvents(ctx); err == nil && cached != nil {
			return cached, nil
		}
	}

	events, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		_ = s.cache.SetEvents(ctx, events)
	}
	return events, nil
}

func (s *CatalogService) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *CatalogService) GetTariffs(ctx context.Context, eventID string) ([]domain.Tariff, error) {
	return s.repo.GetTariffs(ctx, eventID)
}

var _ CatalogUseCase = (*CatalogService)(nil)
