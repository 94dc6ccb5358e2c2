package service

import (
	"context"
	"errors"
	"time"

	availabilityerrors "slotbook/internal/availability/errors"
	"slotbook/internal/availability/repository"
	"slotbook/internal/availability/validator"
	"slotbook/pkg/config"
	apperrors "slotbook/pkg/errors"
	"slotbook/pkg/model"
)

const dateLayout = "2006-01-02"

type AvailabilityService interface {
	Add(ctx context.Context, req *model.AvailabilityRequest) ([]*model.AvailabilityWindow, error)
	GetAll(ctx context.Context) ([]*model.AvailabilityWindow, error)
	GetByDate(ctx context.Context, date string) (*model.AvailabilityWindow, error)
	ListDates(ctx context.Context) ([]string, error)
	Delete(ctx context.Context, id string) error
}

type availabilityService struct {
	repo      repository.AvailabilityRepository
	validator *validator.AvailabilityValidator
	cfg       *config.Config
	now       func() time.Time
}

func NewAvailabilityService(
	repo repository.AvailabilityRepository,
	validator *validator.AvailabilityValidator,
	cfg *config.Config,
) AvailabilityService {
	return &availabilityService{
		repo:      repo,
		validator: validator,
		cfg:       cfg,
		now:       time.Now,
	}
}

// Add opens one window per requested date. An existing window on a date
// is replaced, so admins can correct hours by re-submitting the date.
func (s *availabilityService) Add(ctx context.Context, req *model.AvailabilityRequest) ([]*model.AvailabilityWindow, error) {
	s.applyDefaults(req)
	if err := s.validator.ValidateRequest(req); err != nil {
		s.cfg.Log.Warn("Availability validation failed", "error", err)
		return nil, apperrors.Validation("Availability validation failed", map[string]any{"error": err.Error()})
	}

	windows := make([]*model.AvailabilityWindow, 0, len(req.Dates))
	for _, date := range req.Dates {
		window := &model.AvailabilityWindow{
			Date:      date,
			StartTime: req.StartTime,
			EndTime:   req.EndTime,
			Duration:  req.Duration,
		}

		if err := s.repo.Upsert(ctx, window); err != nil {
			s.cfg.Log.Error("Failed to store availability window", "date", date, "error", err)
			return nil, apperrors.Internal("Failed to store availability", err)
		}

		windows = append(windows, window)
	}

	s.cfg.Log.Info("Availability windows stored",
		"dates", len(windows),
		"start_time", req.StartTime,
		"end_time", req.EndTime,
		"duration", req.Duration,
	)
	return windows, nil
}

func (s *availabilityService) GetAll(ctx context.Context) ([]*model.AvailabilityWindow, error) {
	windows, err := s.repo.FindAll(ctx)
	if err != nil {
		s.cfg.Log.Error("Failed to list availability windows", "error", err)
		return nil, apperrors.Internal("Failed to retrieve availability", err)
	}
	return windows, nil
}

func (s *availabilityService) GetByDate(ctx context.Context, date string) (*model.AvailabilityWindow, error) {
	if date == "" {
		return nil, apperrors.InvalidInput("Date cannot be empty")
	}
	if _, err := time.Parse(dateLayout, date); err != nil {
		return nil, apperrors.InvalidInput("Date must be in YYYY-MM-DD format")
	}

	window, err := s.repo.FindByDate(ctx, date)
	if err != nil {
		if errors.Is(err, availabilityerrors.ErrNotFound) {
			return nil, apperrors.NotFound("No availability for date " + date)
		}
		return nil, apperrors.Internal("Failed to retrieve availability", err)
	}

	return window, nil
}

// ListDates returns the open dates from today onward, ascending. Past
// windows stay in storage for the admin view but never reach visitors.
func (s *availabilityService) ListDates(ctx context.Context) ([]string, error) {
	today := s.now().UTC().Format(dateLayout)

	dates, err := s.repo.FindDatesFrom(ctx, today)
	if err != nil {
		s.cfg.Log.Error("Failed to list availability dates", "error", err)
		return nil, apperrors.Internal("Failed to retrieve available dates", err)
	}

	if dates == nil {
		dates = []string{}
	}
	return dates, nil
}

// Delete treats a missing window as success: the admin's goal is the
// window being gone, and a retry after a timeout should not surface 404.
func (s *availabilityService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return apperrors.InvalidInput("Availability ID cannot be empty")
	}

	err := s.repo.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, availabilityerrors.ErrNotFound) {
			s.cfg.Log.Info("Availability window already absent", "id", id)
			return nil
		}
		if errors.Is(err, availabilityerrors.ErrInvalidID) {
			return apperrors.InvalidInput("Invalid availability ID format")
		}
		s.cfg.Log.Error("Failed to delete availability window", "id", id, "error", err)
		return apperrors.Internal("Failed to delete availability", err)
	}

	s.cfg.Log.Info("Availability window deleted", "id", id)
	return nil
}

func (s *availabilityService) applyDefaults(req *model.AvailabilityRequest) {
	if req.Duration == 0 {
		req.Duration = s.cfg.DefaultSlotDuration
	}
}
