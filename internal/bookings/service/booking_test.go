package service

import (
	"context"
	"sync"
	"testing"
	"time"

	bookingserrors "slotbook/internal/bookings/errors"
	"slotbook/internal/bookings/validator"
	"slotbook/internal/notifications"
	"slotbook/pkg/config"
	apperrors "slotbook/pkg/errors"
	"slotbook/pkg/logger"
	"slotbook/pkg/model"
)

// Mock repository for testing
type mockBookingRepository struct {
	createFunc              func(ctx context.Context, booking *model.Booking) error
	findByIDFunc            func(ctx context.Context, id string) (*model.Booking, error)
	findAllFunc             func(ctx context.Context, date string) ([]*model.Booking, error)
	findActiveFunc          func(ctx context.Context, date string, slotTime string) (*model.Booking, error)
	findBookedTimesFunc     func(ctx context.Context, date string) ([]string, error)
	updateStatusFunc        func(ctx context.Context, id string, status string) (*model.Booking, error)
}

func (m *mockBookingRepository) Create(ctx context.Context, booking *model.Booking) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, booking)
	}
	return nil
}

func (m *mockBookingRepository) FindByID(ctx context.Context, id string) (*model.Booking, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return nil, bookingserrors.ErrNotFound
}

func (m *mockBookingRepository) FindAll(ctx context.Context, date string) ([]*model.Booking, error) {
	if m.findAllFunc != nil {
		return m.findAllFunc(ctx, date)
	}
	return []*model.Booking{}, nil
}

func (m *mockBookingRepository) FindActiveByDateAndTime(ctx context.Context, date string, slotTime string) (*model.Booking, error) {
	if m.findActiveFunc != nil {
		return m.findActiveFunc(ctx, date, slotTime)
	}
	return nil, bookingserrors.ErrNotFound
}

func (m *mockBookingRepository) FindBookedTimes(ctx context.Context, date string) ([]string, error) {
	if m.findBookedTimesFunc != nil {
		return m.findBookedTimesFunc(ctx, date)
	}
	return nil, nil
}

func (m *mockBookingRepository) UpdateStatus(ctx context.Context, id string, status string) (*model.Booking, error) {
	if m.updateStatusFunc != nil {
		return m.updateStatusFunc(ctx, id, status)
	}
	return nil, bookingserrors.ErrNotFound
}

// Mock availability lookup for testing
type mockAvailability struct {
	getByDateFunc func(ctx context.Context, date string) (*model.AvailabilityWindow, error)
}

func (m *mockAvailability) Add(ctx context.Context, req *model.AvailabilityRequest) ([]*model.AvailabilityWindow, error) {
	return nil, nil
}

func (m *mockAvailability) GetAll(ctx context.Context) ([]*model.AvailabilityWindow, error) {
	return nil, nil
}

func (m *mockAvailability) GetByDate(ctx context.Context, date string) (*model.AvailabilityWindow, error) {
	if m.getByDateFunc != nil {
		return m.getByDateFunc(ctx, date)
	}
	return nil, apperrors.NotFound("No availability for date " + date)
}

func (m *mockAvailability) ListDates(ctx context.Context) ([]string, error) {
	return nil, nil
}

func (m *mockAvailability) Delete(ctx context.Context, id string) error {
	return nil
}

// Publisher mock that records events on a channel so tests can wait for
// the detached publish goroutine.
type channelPublisher struct {
	events chan notifications.Event
}

func newChannelPublisher() *channelPublisher {
	return &channelPublisher{events: make(chan notifications.Event, 16)}
}

func (p *channelPublisher) Publish(ctx context.Context, event notifications.Event) error {
	p.events <- event
	return nil
}

func (p *channelPublisher) Close() error { return nil }

func standardWindow() *model.AvailabilityWindow {
	return &model.AvailabilityWindow{
		ID:        "win-1",
		Date:      "2026-09-10",
		StartTime: "09:00",
		EndTime:   "11:00",
		Duration:  30,
	}
}

func newBookingTestConfig() *config.Config {
	log := logger.New(logger.Config{
		Level:     "info",
		Format:    logger.JSON,
		AddSource: false,
		Service:   "test",
	})

	return &config.Config{
		Log:          log,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
	}
}

func newTestService(repo *mockBookingRepository, avail *mockAvailability, pub notifications.Publisher) *bookingService {
	cfg := newBookingTestConfig()
	return &bookingService{
		repo:         repo,
		availability: avail,
		validator:    validator.NewBookingValidator(cfg.Log),
		publisher:    pub,
		cfg:          cfg,
	}
}

func validBooking() *model.Booking {
	return &model.Booking{
		Name:  "Dana Visitor",
		Email: "dana@example.com",
		Date:  "2026-09-10",
		Time:  "09:30",
		Note:  "first visit",
	}
}

func TestFreeSlots_SubtractsBookedTimes(t *testing.T) {
	repo := &mockBookingRepository{
		findBookedTimesFunc: func(ctx context.Context, date string) ([]string, error) {
			return []string{"09:30", "10:30"}, nil
		},
	}
	avail := &mockAvailability{
		getByDateFunc: func(ctx context.Context, date string) (*model.AvailabilityWindow, error) {
			return standardWindow(), nil
		},
	}

	svc := newTestService(repo, avail, newChannelPublisher())

	free, err := svc.FreeSlots(context.Background(), "2026-09-10")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{"09:00", "10:00"}
	if len(free) != len(want) {
		t.Fatalf("free slots = %v, want %v", free, want)
	}
	for i := range want {
		if free[i] != want[i] {
			t.Errorf("slot %d = %q, want %q", i, free[i], want[i])
		}
	}
}

func TestFreeSlots_NoWindowYieldsEmpty(t *testing.T) {
	svc := newTestService(&mockBookingRepository{}, &mockAvailability{}, newChannelPublisher())

	free, err := svc.FreeSlots(context.Background(), "2026-09-10")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if free == nil {
		t.Fatal("expected empty slice, got nil")
	}
	if len(free) != 0 {
		t.Errorf("expected no slots, got %v", free)
	}
}

func TestAdmit_Success(t *testing.T) {
	var created *model.Booking
	repo := &mockBookingRepository{
		createFunc: func(ctx context.Context, booking *model.Booking) error {
			booking.ID = "b-1"
			created = booking
			return nil
		},
	}
	avail := &mockAvailability{
		getByDateFunc: func(ctx context.Context, date string) (*model.AvailabilityWindow, error) {
			return standardWindow(), nil
		},
	}
	pub := newChannelPublisher()

	svc := newTestService(repo, avail, pub)

	booking := validBooking()
	booking.Email = " Dana@Example.COM "
	if err := svc.Admit(context.Background(), booking); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if created == nil {
		t.Fatal("expected booking to be stored")
	}
	if created.Status != model.StatusBooked {
		t.Errorf("status = %q, want %q", created.Status, model.StatusBooked)
	}
	if created.Email != "dana@example.com" {
		t.Errorf("email not normalized: %q", created.Email)
	}

	select {
	case event := <-pub.events:
		if event.Type != notifications.EventBookingConfirmed {
			t.Errorf("event type = %q, want %q", event.Type, notifications.EventBookingConfirmed)
		}
		if event.Email != "dana@example.com" {
			t.Errorf("event email = %q", event.Email)
		}
	case <-time.After(2 * time.Second):
		t.Error("expected a confirmation event to be published")
	}
}

func TestAdmit_RejectsNonSlotTime(t *testing.T) {
	avail := &mockAvailability{
		getByDateFunc: func(ctx context.Context, date string) (*model.AvailabilityWindow, error) {
			return standardWindow(), nil
		},
	}

	svc := newTestService(&mockBookingRepository{}, avail, newChannelPublisher())

	booking := validBooking()
	booking.Time = "09:17"
	err := svc.Admit(context.Background(), booking)
	if err == nil {
		t.Fatal("expected error for off-grid time")
	}

	if appErr := apperrors.AsAppError(err); appErr.Code != apperrors.CodeInvalidInput {
		t.Errorf("expected invalid input error, got %v", err)
	}
}

func TestAdmit_PrecheckConflict(t *testing.T) {
	repo := &mockBookingRepository{
		findActiveFunc: func(ctx context.Context, date string, slotTime string) (*model.Booking, error) {
			return &model.Booking{ID: "existing", Date: date, Time: slotTime, Status: model.StatusBooked}, nil
		},
	}
	avail := &mockAvailability{
		getByDateFunc: func(ctx context.Context, date string) (*model.AvailabilityWindow, error) {
			return standardWindow(), nil
		},
	}

	svc := newTestService(repo, avail, newChannelPublisher())

	err := svc.Admit(context.Background(), validBooking())
	if err == nil {
		t.Fatal("expected conflict for occupied slot")
	}

	if appErr := apperrors.AsAppError(err); appErr.Code != apperrors.CodeConflict {
		t.Errorf("expected conflict error, got %v", err)
	}
}

func TestAdmit_InsertRaceSurfacesConflict(t *testing.T) {
	repo := &mockBookingRepository{
		createFunc: func(ctx context.Context, booking *model.Booking) error {
			// Pre-check saw the slot free, but another writer won the insert.
			return bookingserrors.ErrSlotTaken
		},
	}
	avail := &mockAvailability{
		getByDateFunc: func(ctx context.Context, date string) (*model.AvailabilityWindow, error) {
			return standardWindow(), nil
		},
	}

	svc := newTestService(repo, avail, newChannelPublisher())

	err := svc.Admit(context.Background(), validBooking())
	if err == nil {
		t.Fatal("expected conflict when insert loses the race")
	}

	if appErr := apperrors.AsAppError(err); appErr.Code != apperrors.CodeConflict {
		t.Errorf("expected conflict error, got %v", err)
	}
}

// uniqueSlotStore imitates the unique partial index: at most one active
// booking per (date, time), enforced under a mutex.
type uniqueSlotStore struct {
	mu     sync.Mutex
	active map[string]*model.Booking
}

func (s *uniqueSlotStore) key(date, slotTime string) string {
	return date + "|" + slotTime
}

func (s *uniqueSlotStore) create(booking *model.Booking) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	k := s.key(booking.Date, booking.Time)
	if _, exists := s.active[k]; exists {
		return bookingserrors.ErrSlotTaken
	}
	s.active[k] = booking
	return nil
}

func (s *uniqueSlotStore) findActive(date, slotTime string) (*model.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if b, exists := s.active[s.key(date, slotTime)]; exists {
		return b, nil
	}
	return nil, bookingserrors.ErrNotFound
}

func TestAdmit_ConcurrentRequestsOneWinner(t *testing.T) {
	store := &uniqueSlotStore{active: make(map[string]*model.Booking)}
	repo := &mockBookingRepository{
		createFunc: func(ctx context.Context, booking *model.Booking) error {
			return store.create(booking)
		},
		findActiveFunc: func(ctx context.Context, date string, slotTime string) (*model.Booking, error) {
			return store.findActive(date, slotTime)
		},
	}
	avail := &mockAvailability{
		getByDateFunc: func(ctx context.Context, date string) (*model.AvailabilityWindow, error) {
			return standardWindow(), nil
		},
	}

	svc := newTestService(repo, avail, newChannelPublisher())

	const workers = 25
	var wg sync.WaitGroup
	results := make(chan error, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results <- svc.Admit(context.Background(), validBooking())
		}()
	}
	wg.Wait()
	close(results)

	var successes, conflicts int
	for err := range results {
		if err == nil {
			successes++
			continue
		}
		if appErr := apperrors.AsAppError(err); appErr.Code != apperrors.CodeConflict {
			t.Errorf("unexpected error kind: %v", err)
			continue
		}
		conflicts++
	}

	if successes != 1 {
		t.Errorf("expected exactly 1 successful admission, got %d", successes)
	}
	if conflicts != workers-1 {
		t.Errorf("expected %d conflicts, got %d", workers-1, conflicts)
	}
}

func TestCancel_Idempotent(t *testing.T) {
	cancelled := &model.Booking{
		ID:     "b-1",
		Name:   "Dana Visitor",
		Email:  "dana@example.com",
		Date:   "2026-09-10",
		Time:   "09:30",
		Status: model.StatusCancelled,
	}

	updateCalled := false
	repo := &mockBookingRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Booking, error) {
			return cancelled, nil
		},
		updateStatusFunc: func(ctx context.Context, id string, status string) (*model.Booking, error) {
			updateCalled = true
			return cancelled, nil
		},
	}

	svc := newTestService(repo, &mockAvailability{}, newChannelPublisher())

	got, err := svc.Cancel(context.Background(), "b-1")
	if err != nil {
		t.Fatalf("expected cancelling an already-cancelled booking to succeed, got %v", err)
	}
	if got.Status != model.StatusCancelled {
		t.Errorf("status = %q, want %q", got.Status, model.StatusCancelled)
	}
	if updateCalled {
		t.Error("expected no status update for an already-cancelled booking")
	}
}

func TestCancel_ActiveBooking(t *testing.T) {
	active := &model.Booking{
		ID:     "b-2",
		Name:   "Dana Visitor",
		Email:  "dana@example.com",
		Date:   "2026-09-10",
		Time:   "10:00",
		Status: model.StatusBooked,
	}

	repo := &mockBookingRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Booking, error) {
			return active, nil
		},
		updateStatusFunc: func(ctx context.Context, id string, status string) (*model.Booking, error) {
			if status != model.StatusCancelled {
				t.Errorf("status update = %q, want %q", status, model.StatusCancelled)
			}
			updated := *active
			updated.Status = status
			return &updated, nil
		},
	}

	svc := newTestService(repo, &mockAvailability{}, newChannelPublisher())

	got, err := svc.Cancel(context.Background(), "b-2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Status != model.StatusCancelled {
		t.Errorf("status = %q, want %q", got.Status, model.StatusCancelled)
	}
}

func TestRemind_CancelledRejected(t *testing.T) {
	repo := &mockBookingRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Booking, error) {
			return &model.Booking{ID: id, Status: model.StatusCancelled}, nil
		},
	}

	svc := newTestService(repo, &mockAvailability{}, newChannelPublisher())

	err := svc.Remind(context.Background(), "b-3")
	if err == nil {
		t.Fatal("expected error for reminding a cancelled booking")
	}

	if appErr := apperrors.AsAppError(err); appErr.Code != apperrors.CodeInvalidInput {
		t.Errorf("expected invalid input error, got %v", err)
	}
}
