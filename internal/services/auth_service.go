package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"laptopshop/internal/models"
	"laptopshop/internal/repositories"

	"github.com/dgrijalva/jwt-go"
	"golang.org/x/crypto/bcrypt"
)

// loginStateRetries bounds the compare-and-swap loop on the attempt counter.
const loginStateRetries = 3

// AuthConfig tunes token issuing and the login lockout.
type AuthConfig struct {
	JWTSecret    string
	TokenTTL     time.Duration
	MaxAttempts  int
	LockDuration time.Duration
}

// AuthService handles business logic for authentication and authorization.
type AuthService struct {
	userRepo     repositories.UserRepository
	jwtSecret    []byte
	tokenTTL     time.Duration
	maxAttempts  int
	lockDuration time.Duration
	now          func() time.Time
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repositories.UserRepository, cfg AuthConfig) *AuthService {
	s := &AuthService{
		userRepo:     userRepo,
		jwtSecret:    []byte(cfg.JWTSecret),
		tokenTTL:     cfg.TokenTTL,
		maxAttempts:  cfg.MaxAttempts,
		lockDuration: cfg.LockDuration,
		now:          time.Now,
	}
	if s.tokenTTL <= 0 {
		s.tokenTTL = 24 * time.Hour
	}
	if s.maxAttempts <= 0 {
		s.maxAttempts = 5
	}
	if s.lockDuration <= 0 {
		s.lockDuration = 15 * time.Minute
	}
	return s
}

// LoginResult is returned by a successful login.
type LoginResult struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      *models.User `json:"user"`
}

// Login checks the credentials and applies the lockout rules. Every failed
// password check is counted; reaching the limit locks the account.
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	for attempt := 0; attempt < loginStateRetries; attempt++ {
		user, err := s.userRepo.GetByEmail(ctx, email)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return nil, ErrInvalidCredentials
			}
			return nil, err
		}
		if user.Status == models.UserStatusInactive {
			return nil, ErrAccountInactive
		}

		now := s.now()
		if user.IsLocked(now) {
			return nil, &LockedError{Until: *user.LockUntil}
		}

		previous := user.FailedLoginAttempts
		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
			locked := user.RecordFailedLogin(now, s.maxAttempts, s.lockDuration)
			saved, err := s.userRepo.SaveLoginState(ctx, user, previous)
			if err != nil {
				return nil, err
			}
			if !saved {
				continue
			}
			if locked {
				log.Printf("Account %s locked until %s after %d failed logins", user.Email, user.LockUntil.Format(time.RFC3339), user.FailedLoginAttempts)
				return nil, &LockedError{Until: *user.LockUntil}
			}
			return nil, ErrInvalidCredentials
		}

		user.RecordSuccessfulLogin(now)
		saved, err := s.userRepo.SaveLoginState(ctx, user, previous)
		if err != nil {
			return nil, err
		}
		if !saved {
			continue
		}

		token, expiresAt, err := s.generateToken(user, now)
		if err != nil {
			return nil, err
		}
		return &LoginResult{Token: token, ExpiresAt: expiresAt, User: user}, nil
	}

	log.Printf("Login state for %s kept changing, giving up after %d tries", email, loginStateRetries)
	return nil, ErrInvalidCredentials
}

func (s *AuthService) generateToken(user *models.User, now time.Time) (string, time.Time, error) {
	expiresAt := now.Add(s.tokenTTL)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": user.ID,
		"email":   user.Email,
		"role":    user.Role,
		"exp":     expiresAt.Unix(),
		"iat":     now.Unix(),
	})

	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to generate token: %w", err)
	}
	return tokenString, expiresAt, nil
}

// ValidateToken parses and validates a JWT token, returning the claims if valid.
func (s *AuthService) ValidateToken(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, fmt.Errorf("invalid token")
}

// Authenticate validates tokenString and loads the account it was issued
// for. Deactivated or locked accounts are refused even while their token
// has not expired, and the returned user carries the current role.
func (s *AuthService) Authenticate(ctx context.Context, tokenString string) (*models.User, error) {
	claims, err := s.ValidateToken(tokenString)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCredentials, err)
	}
	userID, _ := claims["user_id"].(string)
	if userID == "" {
		return nil, fmt.Errorf("%w: token has no subject", ErrInvalidCredentials)
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: account no longer exists", ErrInvalidCredentials)
		}
		return nil, err
	}
	if user.Status == models.UserStatusInactive {
		return nil, ErrAccountInactive
	}
	if user.IsLocked(s.now()) {
		return nil, &LockedError{Until: *user.LockUntil}
	}
	return user, nil
}

// Me returns the account behind a validated token.
func (s *AuthService) Me(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, translate(err, "user")
	}
	return user, nil
}

// CreateUserInput is the payload for creating a back-office account.
type CreateUserInput struct {
	Email    string `json:"email" validate:"required,email"`
	Name     string `json:"name" validate:"required,max=100"`
	Password string `json:"password" validate:"required,min=8,max=72"`
	Role     string `json:"role" validate:"required,oneof=admin superadmin"`
}

// UpdateUserInput changes the role, status or name of an account. Nil
// fields are left untouched.
type UpdateUserInput struct {
	Name   *string `json:"name" validate:"omitempty,max=100"`
	Role   *string `json:"role" validate:"omitempty,oneof=admin superadmin"`
	Status *string `json:"status" validate:"omitempty,oneof=active inactive"`
}

// ListUsers returns every back-office account.
func (s *AuthService) ListUsers(ctx context.Context) ([]models.User, error) {
	return s.userRepo.List(ctx)
}

// CreateUser registers a new account with a hashed password.
func (s *AuthService) CreateUser(ctx context.Context, in CreateUserInput) (*models.User, error) {
	if in.Role != models.RoleAdmin && in.Role != models.RoleSuperAdmin {
		return nil, validationError("unknown role %q", in.Role)
	}
	hash, err := hashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Email:        strings.ToLower(strings.TrimSpace(in.Email)),
		Name:         strings.TrimSpace(in.Name),
		PasswordHash: hash,
		Role:         in.Role,
		Status:       models.UserStatusActive,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, fmt.Errorf("email %s %w", user.Email, ErrConflict)
		}
		return nil, err
	}
	return user, nil
}

// UpdateUser applies role, status and name changes.
func (s *AuthService) UpdateUser(ctx context.Context, id string, in UpdateUserInput) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, translate(err, "user")
	}
	if in.Name != nil {
		user.Name = strings.TrimSpace(*in.Name)
	}
	if in.Role != nil {
		if *in.Role != models.RoleAdmin && *in.Role != models.RoleSuperAdmin {
			return nil, validationError("unknown role %q", *in.Role)
		}
		user.Role = *in.Role
	}
	if in.Status != nil {
		switch *in.Status {
		case models.UserStatusActive:
			user.Unlock()
			user.Status = models.UserStatusActive
		case models.UserStatusInactive:
			user.Status = models.UserStatusInactive
		default:
			return nil, validationError("unknown status %q", *in.Status)
		}
	}
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// UnlockUser clears the failed attempt counter and any active lock.
func (s *AuthService) UnlockUser(ctx context.Context, id string) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, translate(err, "user")
	}
	user.Unlock()
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// ResetPassword replaces the password of an account and unlocks it.
func (s *AuthService) ResetPassword(ctx context.Context, id, password string) error {
	if len(password) < 8 {
		return validationError("password must be at least 8 characters")
	}
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return translate(err, "user")
	}
	hash, err := hashPassword(password)
	if err != nil {
		return err
	}
	user.PasswordHash = hash
	user.Unlock()
	return s.userRepo.Update(ctx, user)
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}
