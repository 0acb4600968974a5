package services

import (
	"context"
	"encoding/json"
	"time"

	"github.com/kondate-app/menu-helper/internal/domain"
	"github.com/kondate-app/menu-helper/internal/logger"
	"github.com/kondate-app/menu-helper/internal/repository"
	"github.com/kondate-app/menu-helper/internal/utils"
)

// MenuGenerator is the structured generation boundary, implemented by
// AIService and by fakes in tests.
type MenuGenerator interface {
	SuggestMenu(ctx context.Context, req domain.GenerationRequest, date string, profile json.RawMessage) (*domain.DailyPlan, error)
}

// MenuService runs the suggestion pipeline: normalize, admit against the
// daily quota, generate, compose. Quota admission strictly precedes the
// generation call, and a failure after admission does not refund the slot:
// an attempt costs a slot.
type MenuService struct {
	users           *repository.UserRepository
	quota           QuotaService
	generator       MenuGenerator
	dailyLimit      int
	reportingOffset time.Duration
	now             func() time.Time
}

func NewMenuService(users *repository.UserRepository, quota QuotaService, generator MenuGenerator, dailyLimit int, reportingOffset time.Duration) *MenuService {
	return &MenuService{
		users:           users,
		quota:           quota,
		generator:       generator,
		dailyLimit:      dailyLimit,
		reportingOffset: reportingOffset,
		now:             time.Now,
	}
}

// Suggest produces a daily plan for the owner. date is the calendar day the
// plan is for, supplied by the caller; the quota bucket uses server time in
// the reporting timezone, not this date.
func (s *MenuService) Suggest(ctx context.Context, ownerID string, input RawMenuInput, date string) (*domain.DailyPlan, error) {
	req, err := Normalize(input)
	if err != nil {
		// Rejected before any quota is consumed.
		return nil, err
	}

	dayKey := utils.ReportingDayKey(s.now(), s.reportingOffset)
	newCount, err := s.quota.CheckAndIncrement(ctx, ownerID, dayKey, s.dailyLimit)
	if err != nil {
		return nil, err
	}
	logger.Info("suggestion admitted", "owner_id", ownerID, "day", dayKey, "count", newCount)

	profile, err := s.users.GetProfile(ctx, ownerID)
	if err != nil {
		profile = nil // a missing profile only weakens the prompt
		logger.Warn("failed to load profile", "owner_id", ownerID, "error", err)
	}

	plan, err := s.generator.SuggestMenu(ctx, req, date, profile)
	if err != nil {
		return nil, err
	}

	return ComposePlan(plan)
}
