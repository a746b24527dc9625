package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/thando/renthub/internal/api/middleware"
	"github.com/thando/renthub/internal/authz"
	"github.com/thando/renthub/internal/domain"
	"github.com/thando/renthub/internal/filter"
	"github.com/thando/renthub/internal/service"
)

type ListingHandler struct {
	listingService *service.ListingService
	gate           *authz.Gate
}

func NewListingHandler(listingService *service.ListingService, gate *authz.Gate) *ListingHandler {
	return &ListingHandler{listingService: listingService, gate: gate}
}

type CreateListingRequest struct {
	Title           string      `json:"title"`
	Description     string      `json:"description"`
	Price           json.Number `json:"price"`
	Location        string      `json:"location"`
	Rooms           json.Number `json:"rooms"`
	Amenities       []string    `json:"amenities"`
	Images          []string    `json:"images"`
	LandlordName    string      `json:"landlordName"`
	LandlordContact string      `json:"landlordContact"`
}

type UpdateListingRequest struct {
	Title           *string      `json:"title"`
	Description     *string      `json:"description"`
	Price           *json.Number `json:"price"`
	Location        *string      `json:"location"`
	Rooms           *json.Number `json:"rooms"`
	Amenities       []string     `json:"amenities"`
	Images          []string     `json:"images"`
	LandlordName    *string      `json:"landlordName"`
	LandlordContact *string      `json:"landlordContact"`
}

type SetVerifiedRequest struct {
	Verified bool `json:"verified"`
}

type ListingResponse struct {
	ID              string   `json:"id"`
	Title           string   `json:"title"`
	Description     string   `json:"description"`
	Price           int      `json:"price"`
	Location        string   `json:"location"`
	Rooms           int      `json:"rooms"`
	Amenities       []string `json:"amenities"`
	Images          []string `json:"images"`
	LandlordID      string   `json:"landlordId"`
	LandlordName    string   `json:"landlordName"`
	LandlordContact string   `json:"landlordContact"`
	Verified        bool     `json:"verified"`
	CreatedAt       string   `json:"createdAt"`
	UpdatedAt       string   `json:"updatedAt"`
}

func listingResponse(l *domain.Listing) ListingResponse {
	amenities := l.AmenityList()
	if amenities == nil {
		amenities = []string{}
	}
	images := l.ImageList()
	if images == nil {
		images = []string{}
	}
	return ListingResponse{
		ID:              l.ID.String(),
		Title:           l.Title,
		Description:     l.Description,
		Price:           l.Price,
		Location:        l.Location,
		Rooms:           l.Rooms,
		Amenities:       amenities,
		Images:          images,
		LandlordID:      l.LandlordID.String(),
		LandlordName:    l.LandlordName,
		LandlordContact: l.LandlordContact,
		Verified:        l.Verified,
		CreatedAt:       l.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:       l.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

func listingResponses(listings []*domain.Listing) []ListingResponse {
	out := make([]ListingResponse, 0, len(listings))
	for _, l := range listings {
		out = append(out, listingResponse(l))
	}
	return out
}

// List is public; filters come from the query string (?location=,
// ?search=, ?priceRange=, ?rooms=, ?amenities=a,b, ?minPrice=, ?maxPrice=).
func (h *ListingHandler) List(w http.ResponseWriter, r *http.Request) {
	f := filter.FromQuery(r.URL.Query())

	listings, err := h.listingService.List(r.Context(), f)
	if err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	resp := listingResponses(listings)
	if _, signedIn := middleware.GetUserID(r.Context()); !signedIn {
		for i := range resp {
			resp[i].LandlordContact = ""
		}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

func (h *ListingHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "Invalid listing ID", http.StatusBadRequest)
		return
	}

	listing, err := h.listingService.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrListingNotFound) {
			http.Error(w, "Listing not found", http.StatusNotFound)
			return
		}
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	// Landlord contact details are only served to signed-in viewers.
	resp := listingResponse(listing)
	if _, signedIn := middleware.GetUserID(r.Context()); !signedIn {
		resp.LandlordContact = ""
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

func (h *ListingHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req CreateListingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if req.Title == "" || req.Location == "" {
		http.Error(w, "Title and location are required", http.StatusBadRequest)
		return
	}

	listing, err := h.listingService.Create(r.Context(), userID, service.CreateListingInput{
		Title:           req.Title,
		Description:     req.Description,
		Price:           req.Price.String(),
		Location:        req.Location,
		Rooms:           req.Rooms.String(),
		Amenities:       req.Amenities,
		Images:          req.Images,
		LandlordName:    req.LandlordName,
		LandlordContact: req.LandlordContact,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidPrice):
			http.Error(w, "Price must be a positive number", http.StatusBadRequest)
		case errors.Is(err, domain.ErrInvalidRooms):
			http.Error(w, "Rooms must be a positive number", http.StatusBadRequest)
		default:
			http.Error(w, "Internal server error", http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(listingResponse(listing))
}

func (h *ListingHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "Invalid listing ID", http.StatusBadRequest)
		return
	}

	var req UpdateListingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	input := service.UpdateListingInput{
		Title:           req.Title,
		Description:     req.Description,
		Location:        req.Location,
		Amenities:       req.Amenities,
		Images:          req.Images,
		LandlordName:    req.LandlordName,
		LandlordContact: req.LandlordContact,
	}
	if req.Price != nil {
		price := req.Price.String()
		input.Price = &price
	}
	if req.Rooms != nil {
		rooms := req.Rooms.String()
		input.Rooms = &rooms
	}

	isAdmin := h.gate.IsAdmin(r.Context(), userID)
	listing, err := h.listingService.Update(r.Context(), userID, isAdmin, id, input)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrListingNotFound):
			http.Error(w, "Listing not found", http.StatusNotFound)
		case errors.Is(err, domain.ErrNotOwner):
			http.Error(w, "Only the listing owner may edit it", http.StatusForbidden)
		case errors.Is(err, domain.ErrInvalidPrice):
			http.Error(w, "Price must be a positive number", http.StatusBadRequest)
		case errors.Is(err, domain.ErrInvalidRooms):
			http.Error(w, "Rooms must be a positive number", http.StatusBadRequest)
		default:
			http.Error(w, "Internal server error", http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(listingResponse(listing))
}

func (h *ListingHandler) SetVerified(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "Invalid listing ID", http.StatusBadRequest)
		return
	}

	var req SetVerifiedRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	listing, err := h.listingService.SetVerified(r.Context(), id, req.Verified)
	if err != nil {
		if errors.Is(err, domain.ErrListingNotFound) {
			http.Error(w, "Listing not found", http.StatusNotFound)
			return
		}
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(listingResponse(listing))
}

func (h *ListingHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "Invalid listing ID", http.StatusBadRequest)
		return
	}

	if err := h.listingService.Delete(r.Context(), id); err != nil {
		if errors.Is(err, domain.ErrListingNotFound) {
			http.Error(w, "Listing not found", http.StatusNotFound)
			return
		}
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]bool{"success": true})
}
