package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/msomdec/service-market/internal/domain"
	"golang.org/x/crypto/bcrypt"
)

const maxPhotoSize = 5 * 1024 * 1024 // 5MB

// AuthService handles user registration, login, and JWT token operations.
// Tokens are self-contained; there is no server-side session store and no
// revocation list, so logout is purely a client-side token discard.
type AuthService struct {
	users      domain.UserRepository
	jwtSecret  []byte
	bcryptCost int
	tokenTTL   time.Duration
}

// NewAuthService creates a new AuthService.
func NewAuthService(users domain.UserRepository, jwtSecret string, bcryptCost int, tokenTTL time.Duration) *AuthService {
	return &AuthService{
		users:      users,
		jwtSecret:  []byte(jwtSecret),
		bcryptCost: bcryptCost,
		tokenTTL:   tokenTTL,
	}
}

// Register creates a new user account after validating inputs.
// The plaintext password is bcrypt-hashed and never stored.
func (s *AuthService) Register(ctx context.Context, name, contact, password string, role domain.Role, photoData []byte, photoContentType string) (*domain.User, error) {
	if name == "" || contact == "" || password == "" {
		return nil, fmt.Errorf("%w: name, contact, and password are required", domain.ErrInvalidInput)
	}

	if !role.Valid() {
		return nil, fmt.Errorf("%w: role must be provider or getter", domain.ErrInvalidInput)
	}

	if len(password) < 8 {
		return nil, fmt.Errorf("%w: password must be at least 8 characters", domain.ErrInvalidInput)
	}

	if len(photoData) > 0 {
		if photoContentType != "image/jpeg" && photoContentType != "image/png" {
			return nil, fmt.Errorf("%w: only JPEG and PNG photos are accepted", domain.ErrInvalidInput)
		}
		if len(photoData) > maxPhotoSize {
			return nil, fmt.Errorf("%w: photo exceeds 5MB limit", domain.ErrInvalidInput)
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		Name:             name,
		Contact:          contact,
		Role:             role,
		PasswordHash:     string(hash),
		PhotoData:        photoData,
		PhotoContentType: photoContentType,
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	return user, nil
}

// Login verifies credentials and returns the user with a signed JWT.
// The failure is deliberately the same whether the contact is unknown or
// the password wrong, so accounts cannot be enumerated.
func (s *AuthService) Login(ctx context.Context, contact, password string) (*domain.User, string, error) {
	user, err := s.users.GetByContact(ctx, contact)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, "", domain.ErrInvalidCredentials
		}
		return nil, "", fmt.Errorf("get user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", domain.ErrInvalidCredentials
	}

	token, err := s.IssueToken(user)
	if err != nil {
		return nil, "", fmt.Errorf("issue token: %w", err)
	}

	return user, token, nil
}

// IssueToken signs a time-bound JWT carrying the user's id.
func (s *AuthService) IssueToken(user *domain.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":  user.ID,
		"role": string(user.Role),
		"iat":  now.Unix(),
		"exp":  now.Add(s.tokenTTL).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}

// ValidateToken parses and validates a JWT token string.
// Returns the user ID from the sub claim.
func (s *AuthService) ValidateToken(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		return "", domain.ErrUnauthorized
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", domain.ErrUnauthorized
	}

	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return "", domain.ErrUnauthorized
	}

	return sub, nil
}

// GetUserByID retrieves a user by their ID.
func (s *AuthService) GetUserByID(ctx context.Context, id string) (*domain.User, error) {
	return s.users.GetByID(ctx, id)
}
