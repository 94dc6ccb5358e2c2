package service

import (
	"context"
	"testing"
	"time"

	availabilityerrors "slotbook/internal/availability/errors"
	"slotbook/internal/availability/validator"
	"slotbook/pkg/config"
	apperrors "slotbook/pkg/errors"
	"slotbook/pkg/logger"
	"slotbook/pkg/model"
)

// Mock repository for testing
type mockAvailabilityRepository struct {
	upsertFunc        func(ctx context.Context, window *model.AvailabilityWindow) error
	findByDateFunc    func(ctx context.Context, date string) (*model.AvailabilityWindow, error)
	findAllFunc       func(ctx context.Context) ([]*model.AvailabilityWindow, error)
	findDatesFromFunc func(ctx context.Context, fromDate string) ([]string, error)
	deleteFunc        func(ctx context.Context, id string) error
}

func (m *mockAvailabilityRepository) Upsert(ctx context.Context, window *model.AvailabilityWindow) error {
	if m.upsertFunc != nil {
		return m.upsertFunc(ctx, window)
	}
	return nil
}

func (m *mockAvailabilityRepository) FindByDate(ctx context.Context, date string) (*model.AvailabilityWindow, error) {
	if m.findByDateFunc != nil {
		return m.findByDateFunc(ctx, date)
	}
	return nil, availabilityerrors.ErrNotFound
}

func (m *mockAvailabilityRepository) FindAll(ctx context.Context) ([]*model.AvailabilityWindow, error) {
	if m.findAllFunc != nil {
		return m.findAllFunc(ctx)
	}
	return []*model.AvailabilityWindow{}, nil
}

func (m *mockAvailabilityRepository) FindDatesFrom(ctx context.Context, fromDate string) ([]string, error) {
	if m.findDatesFromFunc != nil {
		return m.findDatesFromFunc(ctx, fromDate)
	}
	return nil, nil
}

func (m *mockAvailabilityRepository) Delete(ctx context.Context, id string) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return nil
}

func newTestConfig() *config.Config {
	log := logger.New(logger.Config{
		Level:     "info",
		Format:    logger.JSON,
		AddSource: false,
		Service:   "test",
	})

	return &config.Config{
		Log:                 log,
		DefaultSlotDuration: 30,
		ReadTimeout:         5 * time.Second,
		WriteTimeout:        5 * time.Second,
	}
}

func TestAdd_OneWindowPerDate(t *testing.T) {
	cfg := newTestConfig()

	var stored []*model.AvailabilityWindow
	mockRepo := &mockAvailabilityRepository{
		upsertFunc: func(ctx context.Context, window *model.AvailabilityWindow) error {
			stored = append(stored, window)
			return nil
		},
	}

	svc := &availabilityService{
		repo:      mockRepo,
		validator: validator.NewAvailabilityValidator(cfg.Log),
		cfg:       cfg,
		now:       time.Now,
	}

	req := &model.AvailabilityRequest{
		Dates:     []string{"2026-09-01", "2026-09-02", "2026-09-03"},
		StartTime: "09:00",
		EndTime:   "17:00",
		Duration:  45,
	}

	windows, err := svc.Add(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(stored) != 3 {
		t.Fatalf("expected 3 upserted windows, got %d", len(stored))
	}
	if len(windows) != 3 {
		t.Fatalf("expected 3 returned windows, got %d", len(windows))
	}

	for i, date := range req.Dates {
		if stored[i].Date != date {
			t.Errorf("window %d date = %q, want %q", i, stored[i].Date, date)
		}
		if stored[i].StartTime != "09:00" || stored[i].EndTime != "17:00" || stored[i].Duration != 45 {
			t.Errorf("window %d carries wrong hours: %+v", i, stored[i])
		}
	}
}

func TestAdd_DefaultDuration(t *testing.T) {
	cfg := newTestConfig()

	var captured *model.AvailabilityWindow
	mockRepo := &mockAvailabilityRepository{
		upsertFunc: func(ctx context.Context, window *model.AvailabilityWindow) error {
			captured = window
			return nil
		},
	}

	svc := &availabilityService{
		repo:      mockRepo,
		validator: validator.NewAvailabilityValidator(cfg.Log),
		cfg:       cfg,
		now:       time.Now,
	}

	req := &model.AvailabilityRequest{
		Dates:     []string{"2026-09-01"},
		StartTime: "10:00",
		EndTime:   "12:00",
	}

	if _, err := svc.Add(context.Background(), req); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if captured == nil {
		t.Fatal("expected a window to be stored")
	}
	if captured.Duration != cfg.DefaultSlotDuration {
		t.Errorf("duration = %d, want default %d", captured.Duration, cfg.DefaultSlotDuration)
	}
}

func TestAdd_RejectsInvertedWindow(t *testing.T) {
	cfg := newTestConfig()

	svc := &availabilityService{
		repo:      &mockAvailabilityRepository{},
		validator: validator.NewAvailabilityValidator(cfg.Log),
		cfg:       cfg,
		now:       time.Now,
	}

	req := &model.AvailabilityRequest{
		Dates:     []string{"2026-09-01"},
		StartTime: "17:00",
		EndTime:   "09:00",
		Duration:  30,
	}

	_, err := svc.Add(context.Background(), req)
	if err == nil {
		t.Fatal("expected validation error for end before start")
	}

	if appErr := apperrors.AsAppError(err); appErr.Code != apperrors.CodeValidation {
		t.Errorf("expected validation error code, got %v", err)
	}
}

func TestListDates_QueriesFromToday(t *testing.T) {
	cfg := newTestConfig()
	fixedNow := time.Date(2026, 9, 15, 13, 45, 0, 0, time.UTC)

	var capturedFrom string
	mockRepo := &mockAvailabilityRepository{
		findDatesFromFunc: func(ctx context.Context, fromDate string) ([]string, error) {
			capturedFrom = fromDate
			return []string{"2026-09-15", "2026-09-20"}, nil
		},
	}

	svc := &availabilityService{
		repo:      mockRepo,
		validator: validator.NewAvailabilityValidator(cfg.Log),
		cfg:       cfg,
		now:       func() time.Time { return fixedNow },
	}

	dates, err := svc.ListDates(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if capturedFrom != "2026-09-15" {
		t.Errorf("repository queried from %q, want today %q", capturedFrom, "2026-09-15")
	}
	if len(dates) != 2 {
		t.Errorf("expected 2 dates, got %d", len(dates))
	}
}

func TestListDates_EmptyIsNotNil(t *testing.T) {
	cfg := newTestConfig()

	svc := &availabilityService{
		repo:      &mockAvailabilityRepository{},
		validator: validator.NewAvailabilityValidator(cfg.Log),
		cfg:       cfg,
		now:       time.Now,
	}

	dates, err := svc.ListDates(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dates == nil {
		t.Error("expected empty slice, got nil")
	}
	if len(dates) != 0 {
		t.Errorf("expected no dates, got %v", dates)
	}
}

func TestDelete_MissingWindowIsSuccess(t *testing.T) {
	cfg := newTestConfig()

	mockRepo := &mockAvailabilityRepository{
		deleteFunc: func(ctx context.Context, id string) error {
			return availabilityerrors.ErrNotFound
		},
	}

	svc := &availabilityService{
		repo:      mockRepo,
		validator: validator.NewAvailabilityValidator(cfg.Log),
		cfg:       cfg,
		now:       time.Now,
	}

	if err := svc.Delete(context.Background(), "64f1c0ffee0123456789abcd"); err != nil {
		t.Errorf("expected deleting a missing window to succeed, got %v", err)
	}
}

func TestGetByDate_RejectsBadDate(t *testing.T) {
	cfg := newTestConfig()

	svc := &availabilityService{
		repo:      &mockAvailabilityRepository{},
		validator: validator.NewAvailabilityValidator(cfg.Log),
		cfg:       cfg,
		now:       time.Now,
	}

	_, err := svc.GetByDate(context.Background(), "01/09/2026")
	if err == nil {
		t.Fatal("expected error for malformed date")
	}

	if appErr := apperrors.AsAppError(err); appErr.Code != apperrors.CodeInvalidInput {
		t.Errorf("expected invalid input error code, got %v", err)
	}
}
