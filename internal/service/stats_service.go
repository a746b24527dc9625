package service

import (
	"context"

	"github.com/thando/renthub/internal/repository"
	"golang.org/x/sync/errgroup"
)

type Stats struct {
	TotalUsers       int64 `json:"totalUsers"`
	TotalListings    int64 `json:"totalListings"`
	VerifiedListings int64 `json:"verifiedListings"`
}

type StatsService struct {
	profileRepo repository.ProfileRepository
	listingRepo repository.ListingRepository
}

func NewStatsService(profileRepo repository.ProfileRepository, listingRepo repository.ListingRepository) *StatsService {
	return &StatsService{profileRepo: profileRepo, listingRepo: listingRepo}
}

// Overview fetches the three aggregates concurrently. Either all three are
// present or the first failure is surfaced; a failed count is never
// silently reported as zero.
func (s *StatsService) Overview(ctx context.Context) (*Stats, error) {
	var stats Stats

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		n, err := s.profileRepo.Count(ctx)
		stats.TotalUsers = n
		return err
	})
	g.Go(func() error {
		n, err := s.listingRepo.Count(ctx)
		stats.TotalListings = n
		return err
	})
	g.Go(func() error {
		n, err := s.listingRepo.CountVerified(ctx)
		stats.VerifiedListings = n
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &stats, nil
}
