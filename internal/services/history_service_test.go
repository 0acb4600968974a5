package services

import (
	"context"
	"testing"
	"time"

	apperrors "github.com/kondate-app/menu-helper/internal/errors"
	"github.com/kondate-app/menu-helper/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHistorySaveAndUpsert(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewHistoryRepository(newTestDB(t))
	svc := NewHistoryService(repo)

	created := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	id, err := svc.Save(ctx, "owner-1", HistoryEntry{
		Date:      "2025-06-01",
		Input:     []byte(`{"mealPlans":[]}`),
		Output:    []byte(`{"totalCalorieKcal":380}`),
		CreatedAt: created.Format(time.RFC3339),
	})
	require.NoError(t, err)
	assert.Equal(t, "2025-06-01", id)

	entry, err := repo.GetByDate(ctx, "owner-1", "2025-06-01")
	require.NoError(t, err)
	require.NotNil(t, entry)
	assert.JSONEq(t, `{"totalCalorieKcal":380}`, string(entry.Output))

	// A later save for the same date overwrites output but keeps the
	// original creation time.
	_, err = svc.Save(ctx, "owner-1", HistoryEntry{
		Date:   "2025-06-01",
		Output: []byte(`{"totalCalorieKcal":420}`),
	})
	require.NoError(t, err)

	updated, err := repo.GetByDate(ctx, "owner-1", "2025-06-01")
	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.JSONEq(t, `{"totalCalorieKcal":420}`, string(updated.Output))
	assert.Equal(t, entry.CreatedAt.UTC(), updated.CreatedAt.UTC())
}

func TestHistorySaveValidation(t *testing.T) {
	ctx := context.Background()
	svc := NewHistoryService(repository.NewHistoryRepository(newTestDB(t)))

	tests := []struct {
		name  string
		entry HistoryEntry
	}{
		{"missing date", HistoryEntry{Output: []byte(`{}`)}},
		{"missing output", HistoryEntry{Date: "2025-06-01"}},
		{"malformed date", HistoryEntry{Date: "June 1st", Output: []byte(`{}`)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Save(ctx, "owner-1", tt.entry)
			require.Error(t, err)
			assert.Equal(t, apperrors.ErrorTypeValidation, apperrors.TypeOf(err))
		})
	}
}

func TestHistoryList(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewHistoryRepository(newTestDB(t))
	svc := NewHistoryService(repo)

	for _, date := range []string{"2025-06-01", "2025-06-03", "2025-06-02"} {
		_, err := svc.Save(ctx, "owner-1", HistoryEntry{Date: date, Output: []byte(`{}`)})
		require.NoError(t, err)
	}
	_, err := svc.Save(ctx, "owner-2", HistoryEntry{Date: "2025-06-01", Output: []byte(`{}`)})
	require.NoError(t, err)

	entries, err := repo.List(ctx, "owner-1", 0)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "2025-06-03", entries[0].Date)
	assert.Equal(t, "2025-06-02", entries[1].Date)
	assert.Equal(t, "2025-06-01", entries[2].Date)
}
