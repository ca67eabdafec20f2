package contract

import (
	"context"

	"lost-london-agent/internal/entity"
)

type UserProfileRepository interface {
	// GetProfile returns nil when no profile is stored for the user.
	GetProfile(ctx context.Context, userId string) (*entity.UserProfile, error)
}
