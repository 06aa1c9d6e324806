package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/avolkov/task-manager-api/internal/auth"
	"github.com/avolkov/task-manager-api/internal/config"
	"github.com/avolkov/task-manager-api/internal/constants"
	"github.com/avolkov/task-manager-api/internal/models"
	"github.com/avolkov/task-manager-api/internal/repository"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUsernameTaken      = errors.New("username is already taken")
	ErrEmailTaken         = errors.New("email is already in use")
	ErrUsernameLength     = fmt.Errorf("username must be between %d and %d characters",
		constants.MinUsernameLength, constants.MaxUsernameLength)
	ErrPasswordTooShort = fmt.Errorf("password must be at least %d characters",
		constants.MinPasswordLength)
	ErrRoleMissing = errors.New("required role is not provisioned")
)

// AuthService handles credential verification, token issuance and
// self-service registration.
type AuthService struct {
	db        *gorm.DB
	jwtSecret []byte
	tokenTTL  time.Duration
}

// NewAuthService creates a new AuthService.
func NewAuthService(db *gorm.DB, cfg *config.Config) *AuthService {
	return &AuthService{
		db:        db,
		jwtSecret: []byte(cfg.JWTSecret),
		tokenTTL:  cfg.TokenTTL,
	}
}

// LoginInput holds the credentials for authentication.
type LoginInput struct {
	Username string
	Password string
}

// LoginResult is the outcome of a successful login.
type LoginResult struct {
	Token string
	User  *models.User
}

// Login verifies credentials, records the login time and issues a bearer
// token. All failure modes collapse into ErrInvalidCredentials so callers
// cannot probe which usernames exist.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*LoginResult, error) {
	userRepo := repository.NewUserRepository(s.db.WithContext(ctx))

	user, err := userRepo.FindByUsername(input.Username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if !user.Enabled {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	if err := userRepo.UpdateLastLogin(user.ID); err != nil {
		return nil, fmt.Errorf("failed to record login time: %w", err)
	}

	principal := auth.Principal{UserID: user.ID, Roles: user.RoleNames()}
	token, err := auth.IssueToken(principal, s.jwtSecret, s.tokenTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	return &LoginResult{Token: token, User: user}, nil
}

// RegisterInput holds the fields for self-service registration.
type RegisterInput struct {
	Username string
	Email    string
	Password string
}

// Register creates a new user with the USER role. The very first user also
// receives ADMIN; the emptiness check runs inside the same transaction as the
// insert, serialized on the ADMIN role row, so concurrent first registrations
// cannot both become administrators.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) error {
	username := strings.TrimSpace(input.Username)
	if len(username) < constants.MinUsernameLength || len(username) > constants.MaxUsernameLength {
		return ErrUsernameLength
	}
	if len(input.Password) < constants.MinPasswordLength {
		return ErrPasswordTooShort
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		userRepo := repository.NewUserRepository(tx)
		roleRepo := repository.NewRoleRepository(tx)

		if taken, err := userRepo.ExistsByUsername(username); err != nil {
			return fmt.Errorf("failed to check username: %w", err)
		} else if taken {
			return ErrUsernameTaken
		}
		if taken, err := userRepo.ExistsByEmail(input.Email); err != nil {
			return fmt.Errorf("failed to check email: %w", err)
		} else if taken {
			return ErrEmailTaken
		}

		userRole, err := roleRepo.FindByName(models.RoleUser)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrRoleMissing
			}
			return fmt.Errorf("failed to load role: %w", err)
		}

		roles := []models.Role{*userRole}

		adminRole, err := roleRepo.FindByNameForUpdate(models.RoleAdmin)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrRoleMissing
			}
			return fmt.Errorf("failed to load role: %w", err)
		}

		count, err := userRepo.Count()
		if err != nil {
			return fmt.Errorf("failed to count users: %w", err)
		}
		if count == 0 {
			roles = append(roles, *adminRole)
		}

		user := &models.User{
			Username:     username,
			Email:        input.Email,
			PasswordHash: string(hashedPassword),
			Enabled:      true,
			Roles:        roles,
		}

		if err := userRepo.Create(user); err != nil {
			return fmt.Errorf("failed to create user: %w", err)
		}

		return nil
	})
}
