package service

import (
	"context"
	"testing"
	"time"

	"slotbook/internal/auth/repository"
	"slotbook/pkg/config"
	apperrors "slotbook/pkg/errors"
	"slotbook/pkg/logger"
	"slotbook/pkg/model"

	"golang.org/x/crypto/bcrypt"
)

// Mock repository for testing
type mockUserRepository struct {
	users map[string]*model.User
}

func newMockUserRepository() *mockUserRepository {
	return &mockUserRepository{users: make(map[string]*model.User)}
}

func (m *mockUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	if user, ok := m.users[email]; ok {
		return user, nil
	}
	return nil, repository.ErrNotFound
}

func (m *mockUserRepository) Upsert(ctx context.Context, user *model.User) error {
	m.users[user.Email] = user
	return nil
}

func newAuthTestService(repo *mockUserRepository) *authService {
	log := logger.New(logger.Config{
		Level:     "info",
		Format:    logger.JSON,
		AddSource: false,
		Service:   "test",
	})

	cfg := &config.Config{
		Log:           log,
		JWTSecret:     "test-secret",
		TokenTTL:      5 * time.Hour,
		AdminEmail:    "admin@example.com",
		AdminPassword: "correct horse",
		ReadTimeout:   5 * time.Second,
		WriteTimeout:  5 * time.Second,
	}

	return &authService{
		repo: repo,
		cfg:  cfg,
		now:  time.Now,
	}
}

func seedAdmin(t *testing.T, repo *mockUserRepository, password string) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	repo.users["admin@example.com"] = &model.User{
		ID:           "u-1",
		Email:        "admin@example.com",
		PasswordHash: string(hash),
		Role:         model.RoleAdmin,
	}
}

func TestLoginAndVerifyToken(t *testing.T) {
	repo := newMockUserRepository()
	seedAdmin(t, repo, "correct horse")
	svc := newAuthTestService(repo)

	token, err := svc.Login(context.Background(), "Admin@Example.com", "correct horse")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if token == "" {
		t.Fatal("expected a signed token")
	}

	email, role, err := svc.VerifyToken(token)
	if err != nil {
		t.Fatalf("expected token to verify, got %v", err)
	}
	if email != "admin@example.com" {
		t.Errorf("email = %q, want admin@example.com", email)
	}
	if role != model.RoleAdmin {
		t.Errorf("role = %q, want %q", role, model.RoleAdmin)
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	repo := newMockUserRepository()
	seedAdmin(t, repo, "correct horse")
	svc := newAuthTestService(repo)

	_, err := svc.Login(context.Background(), "admin@example.com", "battery staple")
	if err == nil {
		t.Fatal("expected wrong password to be rejected")
	}
	if appErr := apperrors.AsAppError(err); appErr.Code != apperrors.CodeUnauthorized {
		t.Errorf("expected unauthorized error, got %v", err)
	}
}

func TestLogin_UnknownUserSameError(t *testing.T) {
	repo := newMockUserRepository()
	seedAdmin(t, repo, "correct horse")
	svc := newAuthTestService(repo)

	_, errUnknown := svc.Login(context.Background(), "nobody@example.com", "whatever")
	_, errWrongPw := svc.Login(context.Background(), "admin@example.com", "wrong")

	if errUnknown == nil || errWrongPw == nil {
		t.Fatal("expected both logins to fail")
	}
	if errUnknown.Error() != errWrongPw.Error() {
		t.Errorf("unknown user and wrong password should be indistinguishable: %q vs %q",
			errUnknown.Error(), errWrongPw.Error())
	}
}

func TestVerifyToken_Expired(t *testing.T) {
	repo := newMockUserRepository()
	seedAdmin(t, repo, "correct horse")
	svc := newAuthTestService(repo)

	// Issue a token that expired an hour ago.
	svc.now = func() time.Time { return time.Now().Add(-6 * time.Hour) }
	token, err := svc.Login(context.Background(), "admin@example.com", "correct horse")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	svc.now = time.Now
	if _, _, err := svc.VerifyToken(token); err == nil {
		t.Error("expected expired token to be rejected")
	}
}

func TestVerifyToken_Garbage(t *testing.T) {
	svc := newAuthTestService(newMockUserRepository())

	if _, _, err := svc.VerifyToken("not.a.token"); err == nil {
		t.Error("expected garbage token to be rejected")
	}
}

func TestEnsureAdmin_SeedsAccount(t *testing.T) {
	repo := newMockUserRepository()
	svc := newAuthTestService(repo)

	if err := svc.EnsureAdmin(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	user, ok := repo.users["admin@example.com"]
	if !ok {
		t.Fatal("expected admin account to be created")
	}
	if user.Role != model.RoleAdmin {
		t.Errorf("role = %q, want %q", user.Role, model.RoleAdmin)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("correct horse")); err != nil {
		t.Error("stored hash does not match configured password")
	}

	// Login with the seeded account must work end to end.
	if _, err := svc.Login(context.Background(), "admin@example.com", "correct horse"); err != nil {
		t.Errorf("expected seeded admin to log in, got %v", err)
	}
}
