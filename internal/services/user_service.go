package services

import (
	"context"
	"encoding/json"

	apperrors "github.com/kondate-app/menu-helper/internal/errors"
	"github.com/kondate-app/menu-helper/internal/repository"
)

// UserService exposes the profile operations: the profile itself is an
// opaque bag owned by the client, stored and returned as-is.
type UserService struct {
	users *repository.UserRepository
}

func NewUserService(users *repository.UserRepository) *UserService {
	return &UserService{users: users}
}

// GetProfile returns the owner's profile, or nil when none was saved yet.
func (s *UserService) GetProfile(ctx context.Context, ownerID string) (json.RawMessage, error) {
	profile, err := s.users.GetProfile(ctx, ownerID)
	if err != nil {
		return nil, apperrors.NewDatabaseError(err)
	}
	return profile, nil
}

// UpdateProfile merges the new profile into the owner's record. Only the
// profile field is replaced; the usage counter is untouched.
func (s *UserService) UpdateProfile(ctx context.Context, ownerID string, profile json.RawMessage) error {
	if err := s.users.UpdateProfile(ctx, ownerID, profile); err != nil {
		return apperrors.NewDatabaseError(err)
	}
	return nil
}
