package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"crowdsight/internal/authz"
	"crowdsight/internal/model"
	"crowdsight/internal/repository"
	"crowdsight/internal/utils"

	"github.com/sirupsen/logrus"
)

var (
	ErrUserAlreadyExists  = errors.New("user with this email already exists")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// TokenIssuer signs access tokens for authenticated users
type TokenIssuer interface {
	GenerateToken(userID int64, email string, role model.Role) (string, error)
}

// AuthService provides authentication related services
type AuthService interface {
	Signup(ctx context.Context, req model.SignupRequest) (*model.User, string, error)
	Login(ctx context.Context, email, password string) (*model.User, string, error)
	Me(ctx context.Context, id authz.Identity) (*model.User, error)
}

// AuthOptions tunes account creation
type AuthOptions struct {
	// InitialAdminEmail, when set, is granted the admin role at signup
	InitialAdminEmail string
	BcryptCost        int
}

type authService struct {
	userRepo repository.UserRepository
	tokens   TokenIssuer
	opts     AuthOptions
	logger   *logrus.Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(userRepo repository.UserRepository, tokens TokenIssuer, opts AuthOptions, logger *logrus.Logger) AuthService {
	opts.InitialAdminEmail = model.NormalizeEmail(opts.InitialAdminEmail)
	return &authService{
		userRepo: userRepo,
		tokens:   tokens,
		opts:     opts,
		logger:   logger,
	}
}

// Signup creates a new user account and returns it with a fresh token
func (s *authService) Signup(ctx context.Context, req model.SignupRequest) (*model.User, string, error) {
	name := strings.TrimSpace(req.Name)
	email := model.NormalizeEmail(req.Email)
	if name == "" || email == "" {
		return nil, "", fmt.Errorf("%w: name and email are required", authz.ErrValidation)
	}

	existingUser, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, "", fmt.Errorf("failed to check existing user: %w", err)
	}
	if existingUser != nil {
		return nil, "", ErrUserAlreadyExists
	}

	hashedPassword, err := utils.HashPasswordWithCost(req.Password, s.opts.BcryptCost)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}

	role := model.RoleUser
	if s.opts.InitialAdminEmail != "" && email == s.opts.InitialAdminEmail {
		role = model.RoleAdmin
		s.logger.WithField("email", email).Info("Registering user as admin via INITIAL_ADMIN_EMAIL")
	}

	user := &model.User{
		Name:         name,
		Email:        email,
		PasswordHash: hashedPassword,
		Role:         role,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, "", ErrUserAlreadyExists
		}
		return nil, "", fmt.Errorf("failed to create user in repository: %w", err)
	}

	token, err := s.tokens.GenerateToken(user.ID, user.Email, user.Role)
	if err != nil {
		s.logger.WithError(err).WithField("user_id", user.ID).Error("User created, but failed to generate token")
		return user, "", fmt.Errorf("user created, but failed to generate token: %w", err)
	}

	return user, token, nil
}

// Login authenticates a user and returns a JWT token. Unknown email and
// wrong password yield the same error.
func (s *authService) Login(ctx context.Context, email, password string) (*model.User, string, error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, "", fmt.Errorf("error finding user by email: %w", err)
	}
	if user == nil {
		return nil, "", ErrInvalidCredentials
	}

	if !utils.CheckPasswordHash(password, user.PasswordHash) {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.tokens.GenerateToken(user.ID, user.Email, user.Role)
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate token: %w", err)
	}

	return user, token, nil
}

// Me returns the stored account of the caller
func (s *authService) Me(ctx context.Context, id authz.Identity) (*model.User, error) {
	if !id.IsAuthenticated() {
		return nil, authz.ErrUnauthenticated
	}
	user, err := s.userRepo.FindByID(ctx, id.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to find user by ID: %w", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}
