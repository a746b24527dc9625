// Package authz derives the is-admin capability from a session identity by
// resolving the profile role. The gate fails closed: any lookup error or
// missing profile denies access.
package authz

import (
	"context"

	"github.com/google/uuid"
	"github.com/thando/renthub/internal/domain"
	"go.uber.org/zap"
)

// RoleLookup resolves the authorization-relevant profile for a user.
type RoleLookup interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Profile, error)
}

type Gate struct {
	profiles RoleLookup
	log      *zap.Logger
}

func NewGate(profiles RoleLookup, log *zap.Logger) *Gate {
	return &Gate{profiles: profiles, log: log}
}

// IsAdmin reports whether the user's profile carries the ADMIN role.
// Errors and absent profiles resolve to false.
func (g *Gate) IsAdmin(ctx context.Context, userID uuid.UUID) bool {
	profile, err := g.profiles.GetByID(ctx, userID)
	if err != nil {
		g.log.Warn("role lookup failed, denying admin access",
			zap.String("userId", userID.String()),
			zap.Error(err))
		return false
	}
	if profile == nil {
		return false
	}
	return profile.Role == domain.RoleAdmin
}
