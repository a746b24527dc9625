package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/thando/renthub/internal/cache"
	"github.com/thando/renthub/internal/domain"
	"github.com/thando/renthub/internal/repository"
	"gorm.io/gorm"
)

type ProfileService struct {
	profileRepo repository.ProfileRepository
	cache       *cache.Cache
	ttl         time.Duration
}

func NewProfileService(profileRepo repository.ProfileRepository, queryCache *cache.Cache, ttl time.Duration) *ProfileService {
	return &ProfileService{profileRepo: profileRepo, cache: queryCache, ttl: ttl}
}

func (s *ProfileService) Get(ctx context.Context, id uuid.UUID) (*domain.Profile, error) {
	profile, err := s.profileRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrProfileNotFound
		}
		return nil, err
	}
	return profile, nil
}

// List returns all profiles, newest first, through the query cache.
func (s *ProfileService) List(ctx context.Context) ([]*domain.Profile, error) {
	return cache.Get(ctx, s.cache, "profiles", s.ttl, func(ctx context.Context) ([]*domain.Profile, error) {
		return s.profileRepo.List(ctx)
	})
}

// UpdateRole flips a profile's role. Admin-only; the route guard enforces
// the caller's capability, this validates the target value.
func (s *ProfileService) UpdateRole(ctx context.Context, id uuid.UUID, role domain.Role) (*domain.Profile, error) {
	if !role.IsValid() {
		return nil, domain.ErrInvalidRole
	}

	profile, err := s.profileRepo.UpdateRole(ctx, id, role)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrProfileNotFound
		}
		return nil, err
	}

	s.cache.Invalidate("profiles")
	return profile, nil
}
