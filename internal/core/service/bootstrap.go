package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/storefront/backoffice/internal/core/domain"
	"github.com/storefront/backoffice/internal/core/ports"
)

// SeedAdmin creates the first administrator when the identity store is empty
// and credentials were configured. It reports whether an account was created.
func SeedAdmin(ctx context.Context, repo ports.IdentityRepository, identity ports.IdentityService, username, secret string, log zerolog.Logger) (bool, error) {
	if username == "" || secret == "" {
		return false, nil
	}

	count, err := repo.Count(ctx)
	if err != nil {
		return false, fmt.Errorf("seed admin: count principals: %w", err)
	}
	if count > 0 {
		log.Debug().Int64("principals", count).Msg("principals exist, skipping admin seed")
		return false, nil
	}

	p, err := identity.CreatePrincipal(ctx, ports.CreatePrincipalInput{
		Username: username,
		Secret:   secret,
		Role:     domain.RoleAdmin,
	})
	if err != nil {
		return false, fmt.Errorf("seed admin: %w", err)
	}

	log.Warn().Int64("principal_id", p.ID).Str("username", p.Username).Msg("bootstrap administrator created")
	return true, nil
}
