package service

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/thando/renthub/internal/cache"
	"github.com/thando/renthub/internal/domain"
	"github.com/thando/renthub/internal/filter"
	"github.com/thando/renthub/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type ListingService struct {
	listingRepo repository.ListingRepository
	cache       *cache.Cache
	ttl         time.Duration
	log         *zap.Logger
}

func NewListingService(listingRepo repository.ListingRepository, queryCache *cache.Cache, ttl time.Duration, log *zap.Logger) *ListingService {
	return &ListingService{
		listingRepo: listingRepo,
		cache:       queryCache,
		ttl:         ttl,
		log:         log,
	}
}

type CreateListingInput struct {
	Title           string
	Description     string
	Price           string
	Location        string
	Rooms           string
	Amenities       []string
	Images          []string
	LandlordName    string
	LandlordContact string
}

type UpdateListingInput struct {
	Title           *string
	Description     *string
	Price           *string
	Location        *string
	Rooms           *string
	Amenities       []string
	Images          []string
	LandlordName    *string
	LandlordContact *string
}

// List returns listings matching the filter, newest first, through the
// query cache. The SQL query covers location/rooms/price; the amenity
// subset is applied here before results surface.
func (s *ListingService) List(ctx context.Context, f domain.FilterSet) ([]*domain.Listing, error) {
	f = f.Normalized()
	key := cache.Key("listings", f)

	return cache.Get(ctx, s.cache, key, s.ttl, func(ctx context.Context) ([]*domain.Listing, error) {
		listings, err := s.listingRepo.List(ctx, f)
		if err != nil {
			return nil, err
		}
		if len(f.Amenities) == 0 {
			return listings, nil
		}
		matched := make([]*domain.Listing, 0, len(listings))
		for _, l := range listings {
			if filter.Matches(l, f) {
				matched = append(matched, l)
			}
		}
		return matched, nil
	})
}

func (s *ListingService) Get(ctx context.Context, id uuid.UUID) (*domain.Listing, error) {
	key := "listing:" + id.String()
	return cache.Get(ctx, s.cache, key, s.ttl, func(ctx context.Context) (*domain.Listing, error) {
		listing, err := s.listingRepo.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, domain.ErrListingNotFound
			}
			return nil, err
		}
		return listing, nil
	})
}

// Create stamps the acting user as landlord owner and coerces price and
// rooms; both must parse as positive integers.
func (s *ListingService) Create(ctx context.Context, actorID uuid.UUID, input CreateListingInput) (*domain.Listing, error) {
	price, err := parsePositiveInt(input.Price)
	if err != nil {
		return nil, domain.ErrInvalidPrice
	}
	rooms, err := parsePositiveInt(input.Rooms)
	if err != nil {
		return nil, domain.ErrInvalidRooms
	}

	listing := &domain.Listing{
		ID:              uuid.New(),
		Title:           input.Title,
		Description:     input.Description,
		Price:           price,
		Location:        input.Location,
		Rooms:           rooms,
		Amenities:       domain.EncodeStringList(input.Amenities),
		Images:          domain.EncodeStringList(dropEmpty(input.Images)),
		LandlordID:      actorID,
		LandlordName:    input.LandlordName,
		LandlordContact: input.LandlordContact,
		Verified:        false,
		CreatedAt:       time.Now(),
		UpdatedAt:       time.Now(),
	}
	if err := s.listingRepo.Create(ctx, listing); err != nil {
		return nil, err
	}

	s.invalidate(listing.ID)
	return listing, nil
}

// Update applies a partial edit. Only the owning landlord or an admin may
// edit; the verified flag is not touched here (see SetVerified).
func (s *ListingService) Update(ctx context.Context, actorID uuid.UUID, isAdmin bool, id uuid.UUID, input UpdateListingInput) (*domain.Listing, error) {
	listing, err := s.listingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrListingNotFound
		}
		return nil, err
	}
	if listing.LandlordID != actorID && !isAdmin {
		return nil, domain.ErrNotOwner
	}

	if input.Title != nil {
		listing.Title = *input.Title
	}
	if input.Description != nil {
		listing.Description = *input.Description
	}
	if input.Price != nil {
		price, err := parsePositiveInt(*input.Price)
		if err != nil {
			return nil, domain.ErrInvalidPrice
		}
		listing.Price = price
	}
	if input.Location != nil {
		listing.Location = *input.Location
	}
	if input.Rooms != nil {
		rooms, err := parsePositiveInt(*input.Rooms)
		if err != nil {
			return nil, domain.ErrInvalidRooms
		}
		listing.Rooms = rooms
	}
	if input.Amenities != nil {
		listing.Amenities = domain.EncodeStringList(input.Amenities)
	}
	if input.Images != nil {
		listing.Images = domain.EncodeStringList(dropEmpty(input.Images))
	}
	if input.LandlordName != nil {
		listing.LandlordName = *input.LandlordName
	}
	if input.LandlordContact != nil {
		listing.LandlordContact = *input.LandlordContact
	}
	listing.UpdatedAt = time.Now()

	if err := s.listingRepo.Update(ctx, listing); err != nil {
		return nil, err
	}

	s.invalidate(id)
	return listing, nil
}

// SetVerified toggles the admin-only verified flag.
func (s *ListingService) SetVerified(ctx context.Context, id uuid.UUID, verified bool) (*domain.Listing, error) {
	listing, err := s.listingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrListingNotFound
		}
		return nil, err
	}

	listing.Verified = verified
	listing.UpdatedAt = time.Now()
	if err := s.listingRepo.Update(ctx, listing); err != nil {
		return nil, err
	}

	s.invalidate(id)
	return listing, nil
}

func (s *ListingService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.listingRepo.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrListingNotFound
		}
		return err
	}
	if err := s.listingRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.invalidate(id)
	return nil
}

// invalidate drops every cached list query and the single-listing entry so
// the acting client's next read refetches (read-your-writes).
func (s *ListingService) invalidate(id uuid.UUID) {
	s.cache.Invalidate("listings")
	s.cache.Invalidate("listing:" + id.String())
}

func parsePositiveInt(raw string) (int, error) {
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, err
	}
	if n <= 0 {
		return 0, errors.New("not positive")
	}
	return n, nil
}

func dropEmpty(values []string) []string {
	if values == nil {
		return nil
	}
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}
