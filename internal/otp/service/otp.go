package service

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"errors"
	"fmt"
	"math/big"
	"time"

	"slotbook/internal/notifications"
	otperrors "slotbook/internal/otp/errors"
	"slotbook/internal/otp/repository"
	"slotbook/pkg/config"
	apperrors "slotbook/pkg/errors"
	"slotbook/pkg/model"
	"slotbook/pkg/sanitizer"

	"github.com/go-playground/validator/v10"
)

const (
	codeDigits     = 6
	publishTimeout = 5 * time.Second
)

type OtpService interface {
	Send(ctx context.Context, email string) error
	Verify(ctx context.Context, email string, code string) error
}

type otpService struct {
	repo      repository.OtpRepository
	publisher notifications.Publisher
	validate  *validator.Validate
	cfg       *config.Config
	now       func() time.Time
}

func NewOtpService(
	repo repository.OtpRepository,
	publisher notifications.Publisher,
	cfg *config.Config,
) OtpService {
	return &otpService{
		repo:      repo,
		publisher: publisher,
		validate:  validator.New(),
		cfg:       cfg,
		now:       time.Now,
	}
}

// Send issues a fresh code for the address, replacing any outstanding
// challenge, and queues the code email.
func (s *otpService) Send(ctx context.Context, email string) error {
	email = sanitizer.NormalizeEmail(email)
	if err := s.validate.Var(email, "required,email"); err != nil {
		return apperrors.InvalidInput("A valid email address is required")
	}

	code, err := generateCode()
	if err != nil {
		s.cfg.Log.Error("Failed to generate otp code", "error", err)
		return apperrors.Internal("Failed to generate verification code", err)
	}

	challenge := &model.OtpChallenge{
		Email:     email,
		Code:      code,
		CreatedAt: s.now().UTC(),
	}

	if err := s.repo.Upsert(ctx, challenge); err != nil {
		s.cfg.Log.Error("Failed to store otp challenge", "error", err)
		return apperrors.Internal("Failed to issue verification code", err)
	}

	s.publishAsync(notifications.Event{
		Type:  notifications.EventOtpRequested,
		Email: email,
		Code:  code,
	})

	s.cfg.Log.Info("Otp challenge issued", "email", email)
	return nil
}

// Verify checks the code against the outstanding challenge. A match
// consumes the challenge; expired or wrong codes are rejected without
// revealing which condition failed.
func (s *otpService) Verify(ctx context.Context, email string, code string) error {
	email = sanitizer.NormalizeEmail(email)
	if err := s.validate.Var(email, "required,email"); err != nil {
		return apperrors.InvalidInput("A valid email address is required")
	}
	if code == "" {
		return apperrors.InvalidInput("Verification code is required")
	}

	challenge, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, otperrors.ErrNotFound) {
			return apperrors.Unauthorized("Invalid or expired verification code")
		}
		return apperrors.Internal("Failed to verify code", err)
	}

	if challenge.Expired(s.now(), s.cfg.OtpTTL) {
		if err := s.repo.Delete(ctx, email); err != nil {
			s.cfg.Log.Warn("Failed to remove expired otp challenge", "email", email, "error", err)
		}
		return apperrors.Unauthorized("Invalid or expired verification code")
	}

	if subtle.ConstantTimeCompare([]byte(challenge.Code), []byte(code)) != 1 {
		return apperrors.Unauthorized("Invalid or expired verification code")
	}

	// Codes are single use.
	if err := s.repo.Delete(ctx, email); err != nil {
		s.cfg.Log.Warn("Failed to remove verified otp challenge", "email", email, "error", err)
	}

	s.cfg.Log.Info("Otp challenge verified", "email", email)
	return nil
}

func (s *otpService) publishAsync(event notifications.Event) {
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

func generateCode() (string, error) {
	max := big.NewInt(1)
	for i := 0; i < codeDigits; i++ {
		max.Mul(max, big.NewInt(10))
	}

	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("%0*d", codeDigits, n), nil
}
