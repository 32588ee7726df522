package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/msomdec/service-market/internal/domain"
)

const (
	maxMediaSize  = 10 * 1024 * 1024 // 10MB per item
	maxMediaItems = 5

	defaultPageSize = 10
	maxPageSize     = 100
)

// ListingInput carries the caller-supplied fields of a service listing.
// Update replaces all of these wholesale; there is no partial merge.
type ListingInput struct {
	Name        string
	Description string
	Price       float64
	Media       []domain.MediaItem
}

// CatalogService orchestrates service listings: provider-only creation,
// owner-only mutation, and filtered public retrieval.
type CatalogService struct {
	services domain.ServiceRepository
}

// NewCatalogService creates a new CatalogService.
func NewCatalogService(services domain.ServiceRepository) *CatalogService {
	return &CatalogService{services: services}
}

// Create persists a new listing owned by the caller.
// Only providers may create listings.
func (s *CatalogService) Create(ctx context.Context, owner *domain.User, in ListingInput) (*domain.Service, error) {
	if owner.Role != domain.RoleProvider {
		return nil, fmt.Errorf("%w: only providers can create services", domain.ErrForbidden)
	}

	if err := validateListing(in); err != nil {
		return nil, err
	}

	svc := &domain.Service{
		ProviderID:  owner.ID,
		Name:        in.Name,
		Description: in.Description,
		Price:       in.Price,
		Media:       in.Media,
	}

	if err := s.services.Create(ctx, svc); err != nil {
		return nil, fmt.Errorf("create service: %w", err)
	}

	// Re-read so the response carries the joined provider fields.
	return s.services.GetByID(ctx, svc.ID)
}

// List returns one page of listings matching the filter.
// Page and limit are normalized here so repositories always see sane values.
func (s *CatalogService) List(ctx context.Context, filter domain.ServiceFilter) (*domain.ServicePage, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit <= 0 {
		filter.Limit = defaultPageSize
	}
	if filter.Limit > maxPageSize {
		filter.Limit = maxPageSize
	}
	if strings.ToLower(filter.Order) == "desc" {
		filter.Order = "desc"
	} else {
		filter.Order = "asc"
	}

	return s.services.List(ctx, filter)
}

// Get returns a single listing by id.
func (s *CatalogService) Get(ctx context.Context, id string) (*domain.Service, error) {
	return s.services.GetByID(ctx, id)
}

// Update replaces the listing's name, description, price, and media.
// Only the owning provider may update; missing ids report not found
// before the ownership check so callers can't probe for existence.
func (s *CatalogService) Update(ctx context.Context, id string, caller *domain.User, in ListingInput) (*domain.Service, error) {
	existing, err := s.services.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if existing.ProviderID != caller.ID {
		return nil, fmt.Errorf("%w: not the owner of this service", domain.ErrForbidden)
	}

	if err := validateListing(in); err != nil {
		return nil, err
	}

	existing.Name = in.Name
	existing.Description = in.Description
	existing.Price = in.Price
	existing.Media = in.Media

	if err := s.services.Update(ctx, existing); err != nil {
		return nil, fmt.Errorf("update service: %w", err)
	}

	return s.services.GetByID(ctx, id)
}

// Delete removes a listing. Only the owning provider may delete.
// Deleting an id that no longer exists reports not found.
func (s *CatalogService) Delete(ctx context.Context, id string, caller *domain.User) error {
	existing, err := s.services.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if existing.ProviderID != caller.ID {
		return fmt.Errorf("%w: not the owner of this service", domain.ErrForbidden)
	}

	return s.services.Delete(ctx, id)
}

// AddReview appends a review to a listing and returns the listing with
// its recomputed ratings aggregate.
func (s *CatalogService) AddReview(ctx context.Context, serviceID string, caller *domain.User, comment string, stars int) (*domain.Service, error) {
	if stars < 1 || stars > 5 {
		return nil, fmt.Errorf("%w: stars must be between 1 and 5", domain.ErrInvalidInput)
	}

	review := &domain.Review{
		ServiceID: serviceID,
		UserID:    caller.ID,
		Comment:   comment,
		Stars:     stars,
	}

	if err := s.services.AddReview(ctx, review); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("add review: %w", err)
	}

	return s.services.GetByID(ctx, serviceID)
}

func validateListing(in ListingInput) error {
	if in.Name == "" {
		return fmt.Errorf("%w: service name is required", domain.ErrInvalidInput)
	}
	if in.Price < 0 {
		return fmt.Errorf("%w: price must not be negative", domain.ErrInvalidInput)
	}
	if len(in.Media) > maxMediaItems {
		return fmt.Errorf("%w: maximum %d media items per service", domain.ErrInvalidInput, maxMediaItems)
	}
	for i, m := range in.Media {
		if len(m.Data) == 0 {
			return fmt.Errorf("%w: media item %d has no content", domain.ErrInvalidInput, i)
		}
		if m.ContentType == "" {
			return fmt.Errorf("%w: media item %d has no content type", domain.ErrInvalidInput, i)
		}
		if len(m.Data) > maxMediaSize {
			return fmt.Errorf("%w: media item %d exceeds 10MB limit", domain.ErrInvalidInput, i)
		}
	}
	return nil
}
