package domain

import (
	"context"
	"time"
)

// MediaItem is a single piece of media attached to a service listing.
// The bytes are stored inline with the listing, not as an external reference.
type MediaItem struct {
	ID          int64
	ServiceID   string
	SortOrder   int
	Filename    string
	ContentType string
	Data        []byte
}

// Review is a getter's review of a service.
type Review struct {
	ID        int64
	ServiceID string
	UserID    string
	Comment   string
	Stars     int
	CreatedAt time.Time
}

// Service is a listing created by a provider.
// ProviderName and ProviderContact are denormalized from the owning user
// at read time; they are never written through this struct.
type Service struct {
	ID              string
	ProviderID      string
	ProviderName    string
	ProviderContact string
	Name            string
	Description     string
	Price           float64
	Ratings         float64
	Media           []MediaItem
	Reviews         []Review
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// ServiceFilter describes a catalog query. Zero values mean "no constraint"
// except Page and Limit, which the service layer normalizes before use.
type ServiceFilter struct {
	Search   string
	MinPrice *float64
	MaxPrice *float64
	SortBy   string
	Order    string
	Page     int
	Limit    int
}

// ServicePage is one page of catalog results. Total counts all matches
// before pagination; Pages is ceil(Total/Limit).
type ServicePage struct {
	Services []Service
	Total    int
	Page     int
	Pages    int
}

// ServiceRepository defines persistence operations for service listings.
type ServiceRepository interface {
	Create(ctx context.Context, service *Service) error
	GetByID(ctx context.Context, id string) (*Service, error)
	List(ctx context.Context, filter ServiceFilter) (*ServicePage, error)
	Update(ctx context.Context, service *Service) error
	Delete(ctx context.Context, id string) error
	AddReview(ctx context.Context, review *Review) error
}
