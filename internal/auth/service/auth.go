package service

import (
	"context"
	"errors"
	"time"

	"slotbook/internal/auth/repository"
	"slotbook/pkg/config"
	apperrors "slotbook/pkg/errors"
	"slotbook/pkg/model"
	"slotbook/pkg/sanitizer"

	jwt "github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

type Claims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

type AuthService interface {
	Login(ctx context.Context, email string, password string) (string, error)
	VerifyToken(tokenString string) (email string, role string, err error)
	EnsureAdmin(ctx context.Context) error
}

type authService struct {
	repo repository.UserRepository
	cfg  *config.Config
	now  func() time.Time
}

func NewAuthService(repo repository.UserRepository, cfg *config.Config) AuthService {
	return &authService{
		repo: repo,
		cfg:  cfg,
		now:  time.Now,
	}
}

// Login checks the password and returns a signed token. Unknown address
// and wrong password produce the same error.
func (s *authService) Login(ctx context.Context, email string, password string) (string, error) {
	email = sanitizer.NormalizeEmail(email)
	if email == "" || password == "" {
		return "", apperrors.InvalidInput("Email and password are required")
	}

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", apperrors.Unauthorized("Invalid email or password")
		}
		s.cfg.Log.Error("Failed to look up user", "error", err)
		return "", apperrors.Internal("Failed to authenticate", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		s.cfg.Log.Warn("Login rejected", "email", email)
		return "", apperrors.Unauthorized("Invalid email or password")
	}

	claims := Claims{
		Email: user.Email,
		Role:  user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.Email,
			IssuedAt:  jwt.NewNumericDate(s.now()),
			ExpiresAt: jwt.NewNumericDate(s.now().Add(s.cfg.TokenTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		s.cfg.Log.Error("Failed to sign token", "error", err)
		return "", apperrors.Internal("Failed to issue token", err)
	}

	s.cfg.Log.Info("Admin logged in", "email", email)
	return signed, nil
}

// VerifyToken satisfies middleware.TokenVerifier.
func (s *authService) VerifyToken(tokenString string) (string, string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil {
		return "", "", err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return "", "", errors.New("invalid token")
	}

	return claims.Email, claims.Role, nil
}

// EnsureAdmin seeds the admin account from configuration so a fresh
// deployment can log in without manual database work.
func (s *authService) EnsureAdmin(ctx context.Context) error {
	if s.cfg.AdminEmail == "" || s.cfg.AdminPassword == "" {
		s.cfg.Log.Warn("Admin bootstrap skipped, credentials not configured")
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(s.cfg.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return apperrors.Internal("Failed to hash admin password", err)
	}

	user := &model.User{
		Email:        sanitizer.NormalizeEmail(s.cfg.AdminEmail),
		PasswordHash: string(hash),
		Role:         model.RoleAdmin,
	}

	if err := s.repo.Upsert(ctx, user); err != nil {
		return apperrors.Internal("Failed to seed admin account", err)
	}

	s.cfg.Log.Info("Admin account ensured", "email", user.Email)
	return nil
}
