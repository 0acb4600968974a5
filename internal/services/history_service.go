package services

import (
	"context"
	"encoding/json"
	"time"

	apperrors "github.com/kondate-app/menu-helper/internal/errors"
	"github.com/kondate-app/menu-helper/internal/repository"
)

// HistoryEntry is one finalized plan as submitted by the client. CreatedAt
// is optional: an omitted or unparsable value falls back to now.
type HistoryEntry struct {
	Date      string          `json:"date"`
	Input     json.RawMessage `json:"input,omitempty"`
	Output    json.RawMessage `json:"output"`
	CreatedAt string          `json:"createdAt,omitempty"`
}

// HistoryService records finalized plans keyed by date.
type HistoryService struct {
	history *repository.HistoryRepository
}

func NewHistoryService(history *repository.HistoryRepository) *HistoryService {
	return &HistoryService{history: history}
}

// Save upserts the entry under the owner's history, keyed by date. Later
// saves for the same date overwrite input and output but keep the original
// creation time. Returns the entry id, which is the date.
func (s *HistoryService) Save(ctx context.Context, ownerID string, entry HistoryEntry) (string, error) {
	if entry.Date == "" || len(entry.Output) == 0 {
		return "", apperrors.NewValidationError("date and output are required")
	}
	if _, err := time.Parse("2006-01-02", entry.Date); err != nil {
		return "", apperrors.NewValidationError("date must be YYYY-MM-DD")
	}

	createdAt := time.Now()
	if entry.CreatedAt != "" {
		if t, err := time.Parse(time.RFC3339, entry.CreatedAt); err == nil {
			createdAt = t
		}
	}

	if err := s.history.Upsert(ctx, ownerID, entry.Date, entry.Input, entry.Output, createdAt); err != nil {
		return "", apperrors.NewDatabaseError(err)
	}
	return entry.Date, nil
}
