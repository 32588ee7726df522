package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/msomdec/service-market/internal/domain"
	"github.com/msomdec/service-market/internal/service"
)

// CatalogHandler handles service listing HTTP requests.
type CatalogHandler struct {
	catalog *service.CatalogService
}

// NewCatalogHandler creates a new CatalogHandler.
func NewCatalogHandler(catalog *service.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

type listingRequest struct {
	ServiceName string     `json:"serviceName" validate:"required"`
	Description string     `json:"description"`
	Price       float64    `json:"price" validate:"gte=0"`
	Media       []MediaDTO `json:"media" validate:"max=5,dive"`
}

func (req *listingRequest) toInput() (service.ListingInput, error) {
	media, err := fromMediaDTOs(req.Media)
	if err != nil {
		return service.ListingInput{}, err
	}
	return service.ListingInput{
		Name:        req.ServiceName,
		Description: req.Description,
		Price:       req.Price,
		Media:       media,
	}, nil
}

// HandleCreate creates a listing owned by the authenticated provider.
// POST /api/services
func (h *CatalogHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "Not authenticated.")
		return
	}

	var req listingRequest
	if err := readValidJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	in, err := req.toInput()
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	svc, err := h.catalog.Create(r.Context(), user, in)
	if err != nil {
		writeCatalogError(w, "create service", err)
		return
	}

	writeJSON(w, http.StatusCreated, toServiceDTO(svc))
}

// HandleList returns one page of listings matching the query.
// GET /api/services?search=&sortBy=&order=&minPrice=&maxPrice=&page=&limit=
func (h *CatalogHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	filter, err := parseListFilter(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	page, err := h.catalog.List(r.Context(), filter)
	if err != nil {
		slog.Error("list services", "error", err)
		writeError(w, http.StatusInternalServerError, "An unexpected error occurred. Please try again.")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"total":    page.Total,
		"page":     page.Page,
		"pages":    page.Pages,
		"services": toServiceDTOs(page.Services),
	})
}

// HandleGet returns a single listing.
// GET /api/services/{id}
func (h *CatalogHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	svc, err := h.catalog.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeCatalogError(w, "get service", err)
		return
	}

	writeJSON(w, http.StatusOK, toServiceDTO(svc))
}

// HandleUpdate replaces a listing's fields. Owner only.
// PUT /api/services/{id}
func (h *CatalogHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "Not authenticated.")
		return
	}

	var req listingRequest
	if err := readValidJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	in, err := req.toInput()
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	svc, err := h.catalog.Update(r.Context(), r.PathValue("id"), user, in)
	if err != nil {
		writeCatalogError(w, "update service", err)
		return
	}

	writeJSON(w, http.StatusOK, toServiceDTO(svc))
}

// HandleDelete removes a listing. Owner only.
// DELETE /api/services/{id}
func (h *CatalogHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "Not authenticated.")
		return
	}

	if err := h.catalog.Delete(r.Context(), r.PathValue("id"), user); err != nil {
		writeCatalogError(w, "delete service", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Service deleted."})
}

type reviewRequest struct {
	Comment string `json:"comment"`
	Stars   int    `json:"stars" validate:"required,min=1,max=5"`
}

// HandleAddReview appends a review to a listing.
// POST /api/services/{id}/reviews
func (h *CatalogHandler) HandleAddReview(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "Not authenticated.")
		return
	}

	var req reviewRequest
	if err := readValidJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	svc, err := h.catalog.AddReview(r.Context(), r.PathValue("id"), user, req.Comment, req.Stars)
	if err != nil {
		writeCatalogError(w, "add review", err)
		return
	}

	writeJSON(w, http.StatusCreated, toServiceDTO(svc))
}

func parseListFilter(r *http.Request) (domain.ServiceFilter, error) {
	q := r.URL.Query()
	filter := domain.ServiceFilter{
		Search: q.Get("search"),
		SortBy: q.Get("sortBy"),
		Order:  q.Get("order"),
	}

	if v := q.Get("minPrice"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return filter, errors.New("minPrice must be a number")
		}
		filter.MinPrice = &f
	}
	if v := q.Get("maxPrice"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return filter, errors.New("maxPrice must be a number")
		}
		filter.MaxPrice = &f
	}
	if v := q.Get("page"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return filter, errors.New("page must be an integer")
		}
		filter.Page = n
	}
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return filter, errors.New("limit must be an integer")
		}
		filter.Limit = n
	}

	return filter, nil
}

// writeCatalogError maps domain sentinel errors to status codes and hides
// everything else behind a generic 500.
func writeCatalogError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "Service not found.")
	case errors.Is(err, domain.ErrForbidden):
		writeError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, domain.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		slog.Error(op, "error", err)
		writeError(w, http.StatusInternalServerError, "An unexpected error occurred. Please try again.")
	}
}
