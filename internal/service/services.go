package service

import (
	"github.com/thando/renthub/internal/cache"
	"github.com/thando/renthub/internal/config"
	"github.com/thando/renthub/internal/mail"
	"github.com/thando/renthub/internal/repository"
	"go.uber.org/zap"
)

type Services struct {
	Auth    *AuthService
	Listing *ListingService
	Profile *ProfileService
	Stats   *StatsService
}

func NewServices(repos *repository.Repositories, queryCache *cache.Cache, mailer mail.Mailer, cfg *config.Config, log *zap.Logger) *Services {
	return &Services{
		Auth:    NewAuthService(repos.User, repos.Session, repos.Profile, repos.PasswordReset, mailer, cfg, log),
		Listing: NewListingService(repos.Listing, queryCache, cfg.QueryCacheTTL, log),
		Profile: NewProfileService(repos.Profile, queryCache, cfg.QueryCacheTTL),
		Stats:   NewStatsService(repos.Profile, repos.Listing),
	}
}
