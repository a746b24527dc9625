package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/thando/renthub/internal/domain"
	"gorm.io/gorm"
)

type listingRepository struct {
	db *gorm.DB
}

func NewListingRepository(db *gorm.DB) *listingRepository {
	return &listingRepository{db: db}
}

func (r *listingRepository) Create(ctx context.Context, listing *domain.Listing) error {
	return r.db.WithContext(ctx).Create(listing).Error
}

func (r *listingRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Listing, error) {
	var listing domain.Listing
	err := r.db.WithContext(ctx).First(&listing, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &listing, nil
}

// List translates the filter into a query: case-insensitive location
// substring, exact room count and combined price bounds. Amenity subset
// filtering happens after the query (JSON column) in the service layer.
// Results are always newest-created-first; callers rely on that order.
func (r *listingRepository) List(ctx context.Context, filter domain.FilterSet) ([]*domain.Listing, error) {
	q := r.db.WithContext(ctx).Model(&domain.Listing{}).Order("created_at DESC")

	if filter.Location != "" {
		q = q.Where("location ILIKE ?", "%"+filter.Location+"%")
	}
	if filter.Rooms > 0 {
		q = q.Where("rooms = ?", filter.Rooms)
	}
	if min, max := filter.PriceBounds(); min != nil {
		q = q.Where("price >= ?", *min)
		if max != nil {
			q = q.Where("price <= ?", *max)
		}
	} else if max != nil {
		q = q.Where("price <= ?", *max)
	}

	var listings []*domain.Listing
	if err := q.Find(&listings).Error; err != nil {
		return nil, err
	}
	return listings, nil
}

func (r *listingRepository) Update(ctx context.Context, listing *domain.Listing) error {
	return r.db.WithContext(ctx).Save(listing).Error
}

func (r *listingRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&domain.Listing{}, "id = ?", id).Error
}

func (r *listingRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Listing{}).Count(&count).Error
	return count, err
}

func (r *listingRepository) CountVerified(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.Listing{}).
		Where("verified = ?", true).
		Count(&count).Error
	return count, err
}
