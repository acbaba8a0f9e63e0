package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/deniz/bookbridge/internal/app/models"
	"github.com/deniz/bookbridge/internal/app/models/dto"
	"github.com/deniz/bookbridge/internal/app/repositories"
	"github.com/deniz/bookbridge/internal/pkg/apperrors"
	"github.com/deniz/bookbridge/internal/pkg/auth"
	"github.com/deniz/bookbridge/internal/pkg/validation"
)

// SyntheticEmailDomain is appended to the phone number to form the internal
// login identity. Users never see or type the email.
const SyntheticEmailDomain = "@bookbridge.app"

// AuthService handles registration, login and profile management
type AuthService struct {
	userRepo   *repositories.UserRepository
	jwtService *auth.JWTService
	logger     zerolog.Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(
	userRepo *repositories.UserRepository,
	jwtService *auth.JWTService,
	logger zerolog.Logger,
) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		jwtService: jwtService,
		logger:     logger,
	}
}

// SyntheticEmail derives the internal login email from a phone number.
func SyntheticEmail(phone string) string {
	return strings.TrimPrefix(phone, "+") + SyntheticEmailDomain
}

func (s *AuthService) validateRegistration(req *dto.RegisterRequest) error {
	if !validation.IsValidPhone(req.Phone) {
		return apperrors.NewCustomError(apperrors.ErrInvalidPhone,
			"phone must be 10 to 15 digits, optionally starting with +")
	}
	if !validation.IsValidPassword(req.Password) {
		return apperrors.NewValidationError(
			fmt.Sprintf("password must be at least %d characters long", validation.PasswordMinLength))
	}
	if !validation.IsValidName(req.Name) {
		return apperrors.NewValidationError("name must be between 2 and 100 characters")
	}
	if !validation.IsValidClass(req.StudentClass) {
		return apperrors.NewValidationError("student class must look like \"9\" or \"9-A\"")
	}
	return nil
}

// Register creates a new student account keyed by phone number and returns a
// signed access token.
func (s *AuthService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.TokenResponse, error) {
	if err := s.validateRegistration(req); err != nil {
		return nil, err
	}

	exists, err := s.userRepo.ExistsByPhone(ctx, req.Phone)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperrors.NewCustomError(apperrors.ErrPhoneAlreadyTaken,
			"this phone number is already registered")
	}

	hashed, err := auth.HashPassword(req.Password)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to hash password")
		return nil, err
	}

	user := &models.User{
		Phone:        req.Phone,
		Email:        SyntheticEmail(req.Phone),
		Password:     hashed,
		Name:         req.Name,
		StudentClass: req.StudentClass,
		Role:         models.RoleStudent,
	}

	id, err := s.userRepo.Create(ctx, user)
	if err != nil {
		s.logger.Error().Err(err).Str("phone", req.Phone).Msg("Failed to create user")
		return nil, err
	}
	user.ID = id

	s.logger.Info().Str("userID", id.String()).Msg("User registered")
	return s.issueToken(user)
}

// Login authenticates by phone and password.
func (s *AuthService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error) {
	user, err := s.userRepo.GetByPhone(ctx, req.Phone)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			// Same error as a wrong password, so callers cannot probe for accounts
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, err
	}

	if !auth.CheckPassword(user.Password, req.Password) {
		return nil, apperrors.ErrInvalidCredentials
	}

	s.logger.Info().Str("userID", user.ID.String()).Msg("User logged in")
	return s.issueToken(user)
}

func (s *AuthService) issueToken(user *models.User) (*dto.TokenResponse, error) {
	token, expiresIn, err := s.jwtService.GenerateToken(user)
	if err != nil {
		s.logger.Error().Err(err).Str("userID", user.ID.String()).Msg("Failed to generate token")
		return nil, err
	}

	return &dto.TokenResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   expiresIn,
		User:        dto.FromUser(user),
	}, nil
}

// GetProfile returns the profile of a user.
func (s *AuthService) GetProfile(ctx context.Context, userID uuid.UUID) (*dto.UserResponse, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	resp := dto.FromUser(user)
	return &resp, nil
}

// UpdateProfile updates the mutable profile fields. Phone and role are fixed.
func (s *AuthService) UpdateProfile(ctx context.Context, userID uuid.UUID, req *dto.UpdateProfileRequest) (*dto.UserResponse, error) {
	if !validation.IsValidName(req.Name) {
		return nil, apperrors.NewValidationError("name must be between 2 and 100 characters")
	}
	if !validation.IsValidClass(req.StudentClass) {
		return nil, apperrors.NewValidationError("student class must look like \"9\" or \"9-A\"")
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	user.Name = req.Name
	user.StudentClass = req.StudentClass
	if req.IsContactPrivate != nil {
		user.IsContactPrivate = *req.IsContactPrivate
	}

	if err := s.userRepo.UpdateProfile(ctx, user); err != nil {
		return nil, err
	}

	resp := dto.FromUser(user)
	return &resp, nil
}
