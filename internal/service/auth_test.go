package service_test

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/msomdec/service-market/internal/domain"
	"github.com/msomdec/service-market/internal/repository/sqlite"
	"github.com/msomdec/service-market/internal/service"
)

const testJWTSecret = "test-secret-key-for-unit-tests"

func newTestDB(t *testing.T) *sqlite.DB {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := sqlite.New(dbPath)
	if err != nil {
		t.Fatalf("New DB: %v", err)
	}
	if err := db.Migrate(context.Background()); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func newTestAuthService(t *testing.T) (*service.AuthService, *sqlite.DB) {
	t.Helper()
	db := newTestDB(t)
	// Use cost 4 for fast tests.
	auth := service.NewAuthService(db.Users(), testJWTSecret, 4, 24*time.Hour)
	return auth, db
}

func TestAuthService_Register_Success(t *testing.T) {
	auth, _ := newTestAuthService(t)
	ctx := context.Background()

	user, err := auth.Register(ctx, "New User", "new@example.com", "password123", domain.RoleProvider, nil, "")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	if user.ID == "" {
		t.Fatal("expected user ID to be set")
	}
	if user.Contact != "new@example.com" {
		t.Fatalf("expected contact new@example.com, got %s", user.Contact)
	}
	// The plaintext must never be stored.
	if user.PasswordHash == "password123" {
		t.Fatal("expected password to be hashed")
	}
	if !strings.HasPrefix(user.PasswordHash, "$2") {
		t.Fatalf("expected a bcrypt hash, got %q", user.PasswordHash)
	}
}

func TestAuthService_Register_DuplicateContact(t *testing.T) {
	auth, _ := newTestAuthService(t)
	ctx := context.Background()

	_, err := auth.Register(ctx, "User 1", "dup@example.com", "password123", domain.RoleGetter, nil, "")
	if err != nil {
		t.Fatalf("first register: %v", err)
	}

	_, err = auth.Register(ctx, "User 2", "dup@example.com", "password456", domain.RoleProvider, nil, "")
	if !errors.Is(err, domain.ErrDuplicateContact) {
		t.Fatalf("expected ErrDuplicateContact, got %v", err)
	}
}

func TestAuthService_Register_InvalidInput(t *testing.T) {
	auth, _ := newTestAuthService(t)
	ctx := context.Background()

	tests := []struct {
		name     string
		userName string
		contact  string
		password string
		role     domain.Role
	}{
		{"empty name", "", "a@b.com", "password123", domain.RoleGetter},
		{"empty contact", "Name", "", "password123", domain.RoleGetter},
		{"empty password", "Name", "a@b.com", "", domain.RoleGetter},
		{"short password", "Name", "a@b.com", "short", domain.RoleGetter},
		{"unknown role", "Name", "a@b.com", "password123", domain.Role("admin")},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := auth.Register(ctx, tc.userName, tc.contact, tc.password, tc.role, nil, "")
			if !errors.Is(err, domain.ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
}

func TestAuthService_Register_PhotoValidation(t *testing.T) {
	auth, _ := newTestAuthService(t)
	ctx := context.Background()

	_, err := auth.Register(ctx, "Name", "photo@example.com", "password123", domain.RoleGetter,
		[]byte{1, 2, 3}, "application/pdf")
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for non-image photo, got %v", err)
	}

	user, err := auth.Register(ctx, "Name", "photo2@example.com", "password123", domain.RoleGetter,
		[]byte{0xFF, 0xD8}, "image/jpeg")
	if err != nil {
		t.Fatalf("Register with JPEG photo: %v", err)
	}
	if len(user.PhotoData) != 2 {
		t.Fatal("expected photo bytes to be stored")
	}
}

func TestAuthService_Login_Success(t *testing.T) {
	auth, _ := newTestAuthService(t)
	ctx := context.Background()

	registered, err := auth.Register(ctx, "Login User", "login@example.com", "password123", domain.RoleProvider, nil, "")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	user, token, err := auth.Login(ctx, "login@example.com", "password123")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if token == "" {
		t.Fatal("expected a token")
	}
	if user.ID != registered.ID {
		t.Fatalf("expected user %s, got %s", registered.ID, user.ID)
	}
}

func TestAuthService_Login_GenericFailure(t *testing.T) {
	auth, _ := newTestAuthService(t)
	ctx := context.Background()

	_, err := auth.Register(ctx, "User", "known@example.com", "password123", domain.RoleGetter, nil, "")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	// Wrong password and unknown contact must fail identically, so the
	// API cannot be used to enumerate accounts.
	_, _, errWrongPw := auth.Login(ctx, "known@example.com", "wrongpassword")
	if !errors.Is(errWrongPw, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for wrong password, got %v", errWrongPw)
	}

	_, _, errNoUser := auth.Login(ctx, "unknown@example.com", "password123")
	if !errors.Is(errNoUser, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for unknown contact, got %v", errNoUser)
	}
}

func TestAuthService_ValidateToken_RoundTrip(t *testing.T) {
	auth, _ := newTestAuthService(t)
	ctx := context.Background()

	user, err := auth.Register(ctx, "Token User", "token@example.com", "password123", domain.RoleProvider, nil, "")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	token, err := auth.IssueToken(user)
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}

	userID, err := auth.ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	if userID != user.ID {
		t.Fatalf("expected user id %s, got %s", user.ID, userID)
	}
}

func TestAuthService_ValidateToken_Garbage(t *testing.T) {
	auth, _ := newTestAuthService(t)

	for _, token := range []string{"", "not-a-jwt", "aaa.bbb.ccc"} {
		if _, err := auth.ValidateToken(token); !errors.Is(err, domain.ErrUnauthorized) {
			t.Fatalf("expected ErrUnauthorized for %q, got %v", token, err)
		}
	}
}

func TestAuthService_ValidateToken_WrongSecret(t *testing.T) {
	auth, db := newTestAuthService(t)
	ctx := context.Background()

	user, err := auth.Register(ctx, "User", "secret@example.com", "password123", domain.RoleGetter, nil, "")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	other := service.NewAuthService(db.Users(), "a-completely-different-secret-key", 4, 24*time.Hour)
	token, err := other.IssueToken(user)
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}

	if _, err := auth.ValidateToken(token); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for foreign signature, got %v", err)
	}
}

func TestAuthService_ValidateToken_Expired(t *testing.T) {
	_, db := newTestAuthService(t)
	ctx := context.Background()

	// Negative TTL produces an already-expired token.
	expired := service.NewAuthService(db.Users(), testJWTSecret, 4, -time.Hour)
	user, err := expired.Register(ctx, "User", "expired@example.com", "password123", domain.RoleGetter, nil, "")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	token, err := expired.IssueToken(user)
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}

	if _, err := expired.ValidateToken(token); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for expired token, got %v", err)
	}
}
