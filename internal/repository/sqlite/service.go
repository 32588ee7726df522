package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/msomdec/service-market/internal/domain"
)

// sortColumns maps API sort field names to catalog columns. Anything else
// falls back to creation time.
var sortColumns = map[string]string{
	"serviceName": "s.name",
	"price":       "s.price",
	"ratings":     "s.ratings",
	"createdAt":   "s.created_at",
}

// ServiceRepository implements domain.ServiceRepository using SQLite.
// Media items and reviews live in child tables and are written together
// with the listing inside a transaction.
type ServiceRepository struct {
	db *sql.DB
}

// NewServiceRepository creates a new SQLite-backed ServiceRepository.
func NewServiceRepository(db *DB) *ServiceRepository {
	return &ServiceRepository{db: db.SqlDB}
}

func (r *ServiceRepository) Create(ctx context.Context, service *domain.Service) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	id := uuid.NewString()
	now := time.Now().UTC()
	_, err = tx.ExecContext(ctx,
		`INSERT INTO services (id, provider_id, name, description, price, ratings, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, 0, ?, ?)`,
		id, service.ProviderID, service.Name, service.Description, service.Price, now, now,
	)
	if err != nil {
		return fmt.Errorf("insert service: %w", err)
	}

	if err := insertMedia(ctx, tx, id, service.Media); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	service.ID = id
	service.CreatedAt = now
	service.UpdatedAt = now
	return nil
}

func (r *ServiceRepository) GetByID(ctx context.Context, id string) (*domain.Service, error) {
	s := &domain.Service{}
	err := r.db.QueryRowContext(ctx,
		`SELECT s.id, s.provider_id, u.name, u.contact, s.name, s.description, s.price, s.ratings, s.created_at, s.updated_at
		 FROM services s
		 JOIN users u ON u.id = s.provider_id
		 WHERE s.id = ?`, id,
	).Scan(&s.ID, &s.ProviderID, &s.ProviderName, &s.ProviderContact,
		&s.Name, &s.Description, &s.Price, &s.Ratings, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get service: %w", err)
	}

	if err := r.loadChildren(ctx, s); err != nil {
		return nil, err
	}
	return s, nil
}

func (r *ServiceRepository) List(ctx context.Context, filter domain.ServiceFilter) (*domain.ServicePage, error) {
	where, args := buildWhere(filter)

	var total int
	countQuery := "SELECT COUNT(*) FROM services s" + where
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count services: %w", err)
	}

	orderCol, ok := sortColumns[filter.SortBy]
	if !ok {
		orderCol = "s.created_at"
	}
	direction := "ASC"
	if filter.Order == "desc" {
		direction = "DESC"
	}

	query := `SELECT s.id, s.provider_id, u.name, u.contact, s.name, s.description, s.price, s.ratings, s.created_at, s.updated_at
		 FROM services s
		 JOIN users u ON u.id = s.provider_id` + where +
		" ORDER BY " + orderCol + " " + direction + ", s.id ASC LIMIT ? OFFSET ?"
	args = append(args, filter.Limit, (filter.Page-1)*filter.Limit)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list services: %w", err)
	}
	defer rows.Close()

	var services []domain.Service
	for rows.Next() {
		var s domain.Service
		if err := rows.Scan(&s.ID, &s.ProviderID, &s.ProviderName, &s.ProviderContact,
			&s.Name, &s.Description, &s.Price, &s.Ratings, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan service: %w", err)
		}
		services = append(services, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range services {
		if err := r.loadChildren(ctx, &services[i]); err != nil {
			return nil, err
		}
	}

	pages := 0
	if filter.Limit > 0 {
		pages = (total + filter.Limit - 1) / filter.Limit
	}

	return &domain.ServicePage{
		Services: services,
		Total:    total,
		Page:     filter.Page,
		Pages:    pages,
	}, nil
}

// Update performs a full replace of the mutable fields: name, description,
// price, and the media set. Reviews and ratings are untouched.
func (r *ServiceRepository) Update(ctx context.Context, service *domain.Service) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	result, err := tx.ExecContext(ctx,
		`UPDATE services SET name = ?, description = ?, price = ?, updated_at = ? WHERE id = ?`,
		service.Name, service.Description, service.Price, now, service.ID,
	)
	if err != nil {
		return fmt.Errorf("update service: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if rows == 0 {
		return domain.ErrNotFound
	}

	// Full replace of the media set.
	if _, err := tx.ExecContext(ctx, "DELETE FROM service_media WHERE service_id = ?", service.ID); err != nil {
		return fmt.Errorf("delete media: %w", err)
	}

	if err := insertMedia(ctx, tx, service.ID, service.Media); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	service.UpdatedAt = now
	return nil
}

func (r *ServiceRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM services WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete service: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// AddReview inserts a review and recomputes the listing's ratings aggregate
// as the mean of all review stars, in one transaction.
func (r *ServiceRepository) AddReview(ctx context.Context, review *domain.Review) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var exists int
	err = tx.QueryRowContext(ctx, "SELECT COUNT(*) FROM services WHERE id = ?", review.ServiceID).Scan(&exists)
	if err != nil {
		return fmt.Errorf("check service: %w", err)
	}
	if exists == 0 {
		return domain.ErrNotFound
	}

	now := time.Now().UTC()
	result, err := tx.ExecContext(ctx,
		`INSERT INTO service_reviews (service_id, user_id, comment, stars, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		review.ServiceID, review.UserID, review.Comment, review.Stars, now,
	)
	if err != nil {
		return fmt.Errorf("insert review: %w", err)
	}

	reviewID, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("get review id: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE services
		 SET ratings = (SELECT AVG(stars) FROM service_reviews WHERE service_id = ?)
		 WHERE id = ?`,
		review.ServiceID, review.ServiceID,
	)
	if err != nil {
		return fmt.Errorf("update ratings: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	review.ID = reviewID
	review.CreatedAt = now
	return nil
}

func buildWhere(filter domain.ServiceFilter) (string, []any) {
	var clauses []string
	var args []any

	if filter.Search != "" {
		needle := "%" + strings.ToLower(filter.Search) + "%"
		clauses = append(clauses, "(LOWER(s.name) LIKE ? OR LOWER(s.description) LIKE ?)")
		args = append(args, needle, needle)
	}
	if filter.MinPrice != nil {
		clauses = append(clauses, "s.price >= ?")
		args = append(args, *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		clauses = append(clauses, "s.price <= ?")
		args = append(args, *filter.MaxPrice)
	}

	if len(clauses) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

func insertMedia(ctx context.Context, tx *sql.Tx, serviceID string, media []domain.MediaItem) error {
	for i := range media {
		m := &media[i]
		result, err := tx.ExecContext(ctx,
			`INSERT INTO service_media (service_id, sort_order, filename, content_type, data)
			 VALUES (?, ?, ?, ?, ?)`,
			serviceID, i, m.Filename, m.ContentType, m.Data,
		)
		if err != nil {
			return fmt.Errorf("insert media %d: %w", i, err)
		}

		mediaID, err := result.LastInsertId()
		if err != nil {
			return fmt.Errorf("get media id: %w", err)
		}
		m.ID = mediaID
		m.ServiceID = serviceID
		m.SortOrder = i
	}
	return nil
}

func (r *ServiceRepository) loadChildren(ctx context.Context, s *domain.Service) error {
	media, err := r.loadMedia(ctx, s.ID)
	if err != nil {
		return err
	}
	s.Media = media

	reviews, err := r.loadReviews(ctx, s.ID)
	if err != nil {
		return err
	}
	s.Reviews = reviews
	return nil
}

func (r *ServiceRepository) loadMedia(ctx context.Context, serviceID string) ([]domain.MediaItem, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, service_id, sort_order, filename, content_type, data
		 FROM service_media WHERE service_id = ? ORDER BY sort_order`, serviceID)
	if err != nil {
		return nil, fmt.Errorf("load media: %w", err)
	}
	defer rows.Close()

	var media []domain.MediaItem
	for rows.Next() {
		var m domain.MediaItem
		if err := rows.Scan(&m.ID, &m.ServiceID, &m.SortOrder, &m.Filename, &m.ContentType, &m.Data); err != nil {
			return nil, fmt.Errorf("scan media: %w", err)
		}
		media = append(media, m)
	}
	return media, rows.Err()
}

func (r *ServiceRepository) loadReviews(ctx context.Context, serviceID string) ([]domain.Review, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, service_id, user_id, comment, stars, created_at
		 FROM service_reviews WHERE service_id = ? ORDER BY id`, serviceID)
	if err != nil {
		return nil, fmt.Errorf("load reviews: %w", err)
	}
	defer rows.Close()

	var reviews []domain.Review
	for rows.Next() {
		var rv domain.Review
		if err := rows.Scan(&rv.ID, &rv.ServiceID, &rv.UserID, &rv.Comment, &rv.Stars, &rv.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan review: %w", err)
		}
		reviews = append(reviews, rv)
	}
	return reviews, rows.Err()
}
