package interfaces

import (
	"context"
	"encoding/json"

	"github.com/kondate-app/menu-helper/internal/domain"
	"github.com/kondate-app/menu-helper/internal/services"
)

// MenuServiceInterface defines the contract for the suggestion pipeline
type MenuServiceInterface interface {
	Suggest(ctx context.Context, ownerID string, input services.RawMenuInput, date string) (*domain.DailyPlan, error)
}

// UserServiceInterface defines the contract for profile operations
type UserServiceInterface interface {
	GetProfile(ctx context.Context, ownerID string) (json.RawMessage, error)
	UpdateProfile(ctx context.Context, ownerID string, profile json.RawMessage) error
}

// HistoryServiceInterface defines the contract for history persistence
type HistoryServiceInterface interface {
	Save(ctx context.Context, ownerID string, entry services.HistoryEntry) (string, error)
}
