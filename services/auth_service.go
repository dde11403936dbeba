package services

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/kendall-kelly/petnic-studio-api/logging"
	"github.com/kendall-kelly/petnic-studio-api/models"
	"github.com/kendall-kelly/petnic-studio-api/utils"
	"gorm.io/gorm"
)

// MinPasswordLength is the shortest password accepted at registration
const MinPasswordLength = 8

// TokenConfig describes how session tokens are signed
type TokenConfig struct {
	Secret   string
	Issuer   string
	Audience string
	TTL      time.Duration
}

// RegisterInput is the payload of a sign-up request
type RegisterInput struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone"`
	Address   string `json:"address"`
}

// LoginResult is a freshly opened session
type LoginResult struct {
	User      *models.User
	Token     string
	SessionID string
	ExpiresAt time.Time
}

// AuthService registers users and opens and closes their sessions
type AuthService struct {
	db       *gorm.DB
	sessions SessionStore
	tokens   TokenConfig
	now      func() time.Time
}

// NewAuthService creates an auth service backed by the given session store
func NewAuthService(db *gorm.DB, sessions SessionStore, tokens TokenConfig) *AuthService {
	return &AuthService{db: db, sessions: sessions, tokens: tokens, now: time.Now}
}

// Register creates a customer account
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*models.User, error) {
	username := strings.TrimSpace(input.Username)
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if username == "" || email == "" || input.Password == "" {
		return nil, validationError("Username, email and password are required")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, validationError("Invalid email address")
	}
	if len(input.Password) < MinPasswordLength {
		return nil, validationError("Password must be at least %d characters", MinPasswordLength)
	}

	db := s.db.WithContext(ctx)

	var count int64
	if err := db.Model(&models.User{}).Where("username = ?", username).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}
	if count > 0 {
		return nil, conflictError("Username already exists")
	}
	if err := db.Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if count > 0 {
		return nil, conflictError("Email already registered")
	}

	hash, err := utils.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := models.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		FirstName:    strings.TrimSpace(input.FirstName),
		LastName:     strings.TrimSpace(input.LastName),
		Phone:        strings.TrimSpace(input.Phone),
		Address:      strings.TrimSpace(input.Address),
		IsActive:     true,
	}
	if err := db.Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, conflictError("Username or email already exists")
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	logging.FromContext(ctx).Info("user registered", "user_id", user.ID)
	return &user, nil
}

// Login checks credentials and opens a session. identifier may be the
// username or the email address.
func (s *AuthService) Login(ctx context.Context, identifier, password string) (*LoginResult, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" || password == "" {
		return nil, validationError("Username and password are required")
	}

	var user models.User
	err := s.db.WithContext(ctx).
		Where("username = ? OR email = ?", identifier, strings.ToLower(identifier)).
		First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, unauthenticatedError("Invalid credentials")
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if !utils.CheckPassword(user.PasswordHash, password) || !user.IsActive {
		return nil, unauthenticatedError("Invalid credentials")
	}

	sessionID, err := s.sessions.Create(ctx, user.ID, s.tokens.TTL)
	if err != nil {
		return nil, err
	}

	token, expiresAt, err := s.issueToken(user.ID, sessionID)
	if err != nil {
		_ = s.sessions.Delete(ctx, sessionID)
		return nil, err
	}

	logging.FromContext(ctx).Info("user logged in", "user_id", user.ID)
	return &LoginResult{User: &user, Token: token, SessionID: sessionID, ExpiresAt: expiresAt}, nil
}

// Logout revokes the session. Unknown sessions are ignored.
func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	return s.sessions.Delete(ctx, sessionID)
}

// ResolveSession returns the live user behind a validated token. A dead
// session, a user that no longer exists or a deactivated user all yield
// ErrUnauthenticated.
func (s *AuthService) ResolveSession(ctx context.Context, sessionID string, userID uint) (*models.User, error) {
	owner, err := s.sessions.Lookup(ctx, sessionID)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return nil, unauthenticatedError("Session expired")
		}
		return nil, err
	}
	if owner != userID {
		return nil, unauthenticatedError("Session does not match token")
	}

	var user models.User
	if err := s.db.WithContext(ctx).First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, unauthenticatedError("User not found")
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if !user.IsActive {
		return nil, unauthenticatedError("Account disabled")
	}
	return &user, nil
}

func (s *AuthService) issueToken(userID uint, sessionID string) (string, time.Time, error) {
	now := s.now().UTC()
	expiresAt := now.Add(s.tokens.TTL)

	claims := jwt.RegisteredClaims{
		Issuer:    s.tokens.Issuer,
		Subject:   strconv.FormatUint(uint64(userID), 10),
		Audience:  jwt.ClaimStrings{s.tokens.Audience},
		ExpiresAt: jwt.NewNumericDate(expiresAt),
		IssuedAt:  jwt.NewNumericDate(now),
		ID:        sessionID,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.tokens.Secret))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign session token: %w", err)
	}
	return signed, expiresAt, nil
}
