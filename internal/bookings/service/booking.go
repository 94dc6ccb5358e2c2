package service

import (
	"context"
	"errors"
	"time"

	availabilityservice "slotbook/internal/availability/service"
	bookingserrors "slotbook/internal/bookings/errors"
	"slotbook/internal/bookings/repository"
	"slotbook/internal/bookings/validator"
	"slotbook/internal/notifications"
	"slotbook/internal/slots"
	"slotbook/pkg/config"
	apperrors "slotbook/pkg/errors"
	"slotbook/pkg/model"
	"slotbook/pkg/sanitizer"
)

const publishTimeout = 5 * time.Second

type BookingService interface {
	FreeSlots(ctx context.Context, date string) ([]string, error)
	Admit(ctx context.Context, booking *model.Booking) error
	Cancel(ctx context.Context, id string) (*model.Booking, error)
	GetByID(ctx context.Context, id string) (*model.Booking, error)
	GetAll(ctx context.Context, date string) ([]*model.Booking, error)
	Remind(ctx context.Context, id string) error
}

type bookingService struct {
	repo         repository.BookingRepository
	availability availabilityservice.AvailabilityService
	validator    *validator.BookingValidator
	publisher    notifications.Publisher
	cfg          *config.Config
}

func NewBookingService(
	repo repository.BookingRepository,
	availability availabilityservice.AvailabilityService,
	validator *validator.BookingValidator,
	publisher notifications.Publisher,
	cfg *config.Config,
) BookingService {
	return &bookingService{
		repo:         repo,
		availability: availability,
		validator:    validator,
		publisher:    publisher,
		cfg:          cfg,
	}
}

// FreeSlots resolves the open slots of a date: the window's generated
// slots minus the times holding an active booking. A date without a
// window has no slots rather than being an error.
func (s *bookingService) FreeSlots(ctx context.Context, date string) ([]string, error) {
	window, err := s.availability.GetByDate(ctx, date)
	if err != nil {
		if apperrors.AsAppError(err).Code == apperrors.CodeNotFound {
			return []string{}, nil
		}
		return nil, err
	}

	all, err := slots.Generate(window.StartTime, window.EndTime, window.Duration)
	if err != nil {
		s.cfg.Log.Error("Stored availability window generates no slots",
			"date", date,
			"error", err,
		)
		return nil, apperrors.Internal("Failed to compute slots", err)
	}

	bookedTimes, err := s.repo.FindBookedTimes(ctx, date)
	if err != nil {
		s.cfg.Log.Error("Failed to load booked times", "date", date, "error", err)
		return nil, apperrors.Internal("Failed to compute slots", err)
	}

	booked := make(map[string]struct{}, len(bookedTimes))
	for _, t := range bookedTimes {
		booked[t] = struct{}{}
	}

	free := make([]string, 0, len(all))
	for _, slot := range all {
		if _, taken := booked[slot]; !taken {
			free = append(free, slot)
		}
	}

	return free, nil
}

// Admit accepts a booking for an open slot. The pre-check rejects most
// losers of a race early; the unique index on active (date, time) pairs
// settles the rest, so two concurrent requests for one slot can never
// both land.
func (s *bookingService) Admit(ctx context.Context, booking *model.Booking) error {
	s.applyDefaults(booking)
	s.sanitize(booking)
	if err := s.validate(booking); err != nil {
		return err
	}

	window, err := s.availability.GetByDate(ctx, booking.Date)
	if err != nil {
		return err
	}

	all, err := slots.Generate(window.StartTime, window.EndTime, window.Duration)
	if err != nil {
		return apperrors.Internal("Failed to compute slots", err)
	}
	if !containsSlot(all, booking.Time) {
		return apperrors.InvalidInput("Requested time is not a bookable slot on this date")
	}

	if _, err := s.repo.FindActiveByDateAndTime(ctx, booking.Date, booking.Time); err == nil {
		return apperrors.Conflict("This slot has already been booked")
	} else if !errors.Is(err, bookingserrors.ErrNotFound) {
		return apperrors.Internal("Failed to check slot availability", err)
	}

	if err := s.repo.Create(ctx, booking); err != nil {
		if errors.Is(err, bookingserrors.ErrSlotTaken) {
			return apperrors.Conflict("This slot has already been booked")
		}
		s.cfg.Log.Error("Failed to create booking", "error", err)
		return apperrors.Internal("Failed to create booking", err)
	}

	s.cfg.Log.Info("Booking created successfully",
		"id", booking.ID,
		"date", booking.Date,
		"time", booking.Time,
	)

	s.publishAsync(notifications.Event{
		Type:    notifications.EventBookingConfirmed,
		Email:   booking.Email,
		Booking: booking,
	})

	return nil
}

// Cancel marks the booking cancelled and frees its slot. Cancelling an
// already-cancelled booking succeeds and returns the current record.
func (s *bookingService) Cancel(ctx context.Context, id string) (*model.Booking, error) {
	booking, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !booking.Active() {
		s.cfg.Log.Info("Booking already cancelled", "id", id)
		return booking, nil
	}

	updated, err := s.repo.UpdateStatus(ctx, id, model.StatusCancelled)
	if err != nil {
		if errors.Is(err, bookingserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Booking", id)
		}
		s.cfg.Log.Error("Failed to cancel booking", "id", id, "error", err)
		return nil, apperrors.Internal("Failed to cancel booking", err)
	}

	s.cfg.Log.Info("Booking cancelled", "id", id, "date", updated.Date, "time", updated.Time)
	return updated, nil
}

func (s *bookingService) GetByID(ctx context.Context, id string) (*model.Booking, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Booking ID cannot be empty")
	}

	booking, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Booking", id)
		}
		if errors.Is(err, bookingserrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid booking ID format")
		}
		return nil, apperrors.Internal("Failed to retrieve booking", err)
	}

	return booking, nil
}

func (s *bookingService) GetAll(ctx context.Context, date string) ([]*model.Booking, error) {
	bookings, err := s.repo.FindAll(ctx, date)
	if err != nil {
		s.cfg.Log.Error("Failed to list bookings", "date", date, "error", err)
		return nil, apperrors.Internal("Failed to retrieve bookings", err)
	}
	return bookings, nil
}

// Remind re-sends the booking email with the time remaining until the
// appointment. Only active bookings can be reminded about.
func (s *bookingService) Remind(ctx context.Context, id string) error {
	booking, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if !booking.Active() {
		return apperrors.InvalidInput("Cannot send a reminder for a cancelled booking")
	}

	s.publishAsync(notifications.Event{
		Type:    notifications.EventBookingReminder,
		Email:   booking.Email,
		Booking: booking,
	})

	s.cfg.Log.Info("Reminder queued", "id", id, "date", booking.Date, "time", booking.Time)
	return nil
}

// --- Helpers ---

// publishAsync fires the event without holding up the request. Delivery
// failures are logged and absorbed; the booking itself already committed.
func (s *bookingService) publishAsync(event notifications.Event) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
		defer cancel()

		if err := s.publisher.Publish(ctx, event); err != nil {
			s.cfg.Log.Warn("Failed to publish notification event",
				"type", event.Type,
				"email", event.Email,
				"error", err,
			)
		}
	}()
}

func (s *bookingService) applyDefaults(b *model.Booking) {
	if b.Status == "" {
		b.Status = model.StatusBooked
	}
}

func (s *bookingService) sanitize(b *model.Booking) {
	b.Name = sanitizer.NormalizeName(b.Name)
	b.Email = sanitizer.NormalizeEmail(b.Email)
	b.Note = sanitizer.NormalizeNote(b.Note)
}

func (s *bookingService) validate(booking *model.Booking) error {
	if err := s.validator.Validate(booking); err != nil {
		s.cfg.Log.Warn("Booking validation failed", "error", err)
		return apperrors.Validation("Booking validation failed", map[string]any{"error": err.Error()})
	}
	return nil
}

func containsSlot(all []string, slot string) bool {
	for _, s := range all {
		if s == slot {
			return true
		}
	}
	return false
}
