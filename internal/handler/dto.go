package handler

import (
	"encoding/base64"
	"fmt"
	"time"

	"github.com/msomdec/service-market/internal/domain"
)

// MediaDTO is the JSON representation of a media item. Data is base64 on
// the wire and raw bytes in storage.
type MediaDTO struct {
	Data        string `json:"data" validate:"required"`
	ContentType string `json:"contentType" validate:"required"`
	Filename    string `json:"filename,omitempty"`
}

func toMediaDTO(m domain.MediaItem) MediaDTO {
	return MediaDTO{
		Data:        base64.StdEncoding.EncodeToString(m.Data),
		ContentType: m.ContentType,
		Filename:    m.Filename,
	}
}

func toMediaDTOs(media []domain.MediaItem) []MediaDTO {
	dtos := make([]MediaDTO, len(media))
	for i, m := range media {
		dtos[i] = toMediaDTO(m)
	}
	return dtos
}

func fromMediaDTOs(dtos []MediaDTO) ([]domain.MediaItem, error) {
	media := make([]domain.MediaItem, len(dtos))
	for i, d := range dtos {
		data, err := base64.StdEncoding.DecodeString(d.Data)
		if err != nil {
			return nil, fmt.Errorf("media item %d is not valid base64", i)
		}
		media[i] = domain.MediaItem{
			Data:        data,
			ContentType: d.ContentType,
			Filename:    d.Filename,
		}
	}
	return media, nil
}

// PhotoDTO is the JSON representation of a profile photo.
type PhotoDTO struct {
	Data        string `json:"data"`
	ContentType string `json:"contentType"`
}

// UserDTO is the JSON representation of a user. The password hash never
// leaves the server.
type UserDTO struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Contact   string    `json:"contact"`
	Role      string    `json:"role"`
	Photo     *PhotoDTO `json:"photo,omitempty"`
	CreatedAt string    `json:"createdAt"`
}

func toUserDTO(u *domain.User, includePhoto bool) UserDTO {
	dto := UserDTO{
		ID:        u.ID,
		Name:      u.Name,
		Contact:   u.Contact,
		Role:      string(u.Role),
		CreatedAt: u.CreatedAt.Format(time.RFC3339),
	}
	if includePhoto && len(u.PhotoData) > 0 {
		dto.Photo = &PhotoDTO{
			Data:        base64.StdEncoding.EncodeToString(u.PhotoData),
			ContentType: u.PhotoContentType,
		}
	}
	return dto
}

// ProviderDTO is the denormalized owner embedded in a service response.
type ProviderDTO struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Contact string `json:"contact"`
}

// ReviewDTO is the JSON representation of a review.
type ReviewDTO struct {
	ID        int64  `json:"id"`
	UserID    string `json:"userId"`
	Comment   string `json:"comment"`
	Stars     int    `json:"stars"`
	CreatedAt string `json:"createdAt"`
}

func toReviewDTOs(reviews []domain.Review) []ReviewDTO {
	dtos := make([]ReviewDTO, len(reviews))
	for i, r := range reviews {
		dtos[i] = ReviewDTO{
			ID:        r.ID,
			UserID:    r.UserID,
			Comment:   r.Comment,
			Stars:     r.Stars,
			CreatedAt: r.CreatedAt.Format(time.RFC3339),
		}
	}
	return dtos
}

// ServiceDTO is the JSON representation of a service listing.
type ServiceDTO struct {
	ID          string      `json:"id"`
	Provider    ProviderDTO `json:"provider"`
	ServiceName string      `json:"serviceName"`
	Description string      `json:"description"`
	Price       float64     `json:"price"`
	Ratings     float64     `json:"ratings"`
	Media       []MediaDTO  `json:"media"`
	Reviews     []ReviewDTO `json:"reviews"`
	CreatedAt   string      `json:"createdAt"`
	UpdatedAt   string      `json:"updatedAt"`
}

func toServiceDTO(s *domain.Service) ServiceDTO {
	return ServiceDTO{
		ID: s.ID,
		Provider: ProviderDTO{
			ID:      s.ProviderID,
			Name:    s.ProviderName,
			Contact: s.ProviderContact,
		},
		ServiceName: s.Name,
		Description: s.Description,
		Price:       s.Price,
		Ratings:     s.Ratings,
		Media:       toMediaDTOs(s.Media),
		Reviews:     toReviewDTOs(s.Reviews),
		CreatedAt:   s.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   s.UpdatedAt.Format(time.RFC3339),
	}
}

func toServiceDTOs(services []domain.Service) []ServiceDTO {
	dtos := make([]ServiceDTO, len(services))
	for i := range services {
		dtos[i] = toServiceDTO(&services[i])
	}
	return dtos
}
