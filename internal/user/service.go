package user

import (
	"context"
	"fmt"
	"log/slog"

	internal "github.com/frahmantamala/shift-tracking/internal"
	"github.com/frahmantamala/shift-tracking/internal/auth"
	usermodel "github.com/frahmantamala/shift-tracking/internal/core/datamodel/user"
)

type ServiceAPI interface {
	Register(ctx context.Context, dto RegisterDTO) (*usermodel.User, error)
	Provision(ctx context.Context, username, password, firstName, lastName, email, phone string) (*usermodel.User, error)
	GetProfile(ctx context.Context, userID int64) (*usermodel.User, *usermodel.Profile, error)
	UpdateProfile(ctx context.Context, userID int64, dto UpdateProfileDTO) (*usermodel.User, *usermodel.Profile, error)
}

type Repository interface {
	UserByID(ctx context.Context, id int64) (*usermodel.User, error)
	UserByUsername(ctx context.Context, username string) (*usermodel.User, error)
	UserByEmail(ctx context.Context, email string) (*usermodel.User, error)
	ProfileByUserID(ctx context.Context, userID int64) (*usermodel.Profile, error)
	ProfileByPhone(ctx context.Context, phone string) (*usermodel.Profile, error)
	CreateWithProfile(ctx context.Context, u *usermodel.User, p *usermodel.Profile) error
	SaveUser(ctx context.Context, u *usermodel.User) error
	SaveProfile(ctx context.Context, p *usermodel.Profile) error
}

type Service struct {
	repo       Repository
	bcryptCost int
	logger     *slog.Logger
}

func NewService(repo Repository, bcryptCost int, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		repo:       repo,
		bcryptCost: bcryptCost,
		logger:     logger,
	}
}

// Register creates a standalone account from a signup request.
func (s *Service) Register(ctx context.Context, dto RegisterDTO) (*usermodel.User, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}
	return s.Provision(ctx, dto.Username, dto.Password, dto.FirstName, dto.LastName, dto.Email, dto.PhoneNumber)
}

// Provision creates a user and its profile in one transaction. Uniqueness of
// username, email and phone number is checked up front so all conflicts come
// back together as field errors.
func (s *Service) Provision(ctx context.Context, username, password, firstName, lastName, email, phone string) (*usermodel.User, error) {
	var fieldErrors []internal.ValidationError

	existing, err := s.repo.UserByUsername(ctx, username)
	if err != nil {
		return nil, internal.NewInternalError("failed to check username", err)
	}
	if existing != nil {
		fieldErrors = append(fieldErrors, internal.ValidationError{
			Field:   "username",
			Message: "A user with that username already exists",
			Code:    string(internal.ErrCodeDuplicateValue),
		})
	}

	byEmail, err := s.repo.UserByEmail(ctx, email)
	if err != nil {
		return nil, internal.NewInternalError("failed to check email", err)
	}
	if byEmail != nil {
		fieldErrors = append(fieldErrors, internal.ValidationError{
			Field:   "email",
			Message: "Email is already in use",
			Code:    string(internal.ErrCodeDuplicateValue),
		})
	}

	byPhone, err := s.repo.ProfileByPhone(ctx, phone)
	if err != nil {
		return nil, internal.NewInternalError("failed to check phone number", err)
	}
	if byPhone != nil {
		fieldErrors = append(fieldErrors, internal.ValidationError{
			Field:   "phone_number",
			Message: "Phone number is already in use",
			Code:    string(internal.ErrCodeDuplicateValue),
		})
	}

	if len(fieldErrors) > 0 {
		return nil, internal.NewValidationError("Validation failed", internal.ErrCodeValidationFailed).
			WithDetails(internal.ValidationErrors{Errors: fieldErrors})
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, internal.NewInternalError("failed to hash password", err)
	}

	u := &usermodel.User{
		Username:     username,
		Email:        email,
		FirstName:    firstName,
		LastName:     lastName,
		PasswordHash: hash,
		IsActive:     true,
	}
	p := &usermodel.Profile{PhoneNumber: &phone}

	if err := s.repo.CreateWithProfile(ctx, u, p); err != nil {
		return nil, internal.NewInternalError("failed to create user", err)
	}

	s.logger.Info("user provisioned", "user_id", u.ID, "username", u.Username)
	return u, nil
}

func (s *Service) GetProfile(ctx context.Context, userID int64) (*usermodel.User, *usermodel.Profile, error) {
	u, err := s.repo.UserByID(ctx, userID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get user: %w", err)
	}
	if u == nil {
		return nil, nil, internal.ErrUserNotFound
	}

	p, err := s.repo.ProfileByUserID(ctx, userID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get profile: %w", err)
	}

	return u, p, nil
}

// UpdateProfile applies a partial update to the caller's own account. A value
// held by another user is rejected as a field conflict; the caller's current
// value resubmitted unchanged is not.
func (s *Service) UpdateProfile(ctx context.Context, userID int64, dto UpdateProfileDTO) (*usermodel.User, *usermodel.Profile, error) {
	if err := dto.Validate(); err != nil {
		return nil, nil, err
	}

	u, p, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	if p == nil {
		p = &usermodel.Profile{UserID: userID}
	}

	var fieldErrors []internal.ValidationError

	if dto.Email != nil && *dto.Email != u.Email {
		other, err := s.repo.UserByEmail(ctx, *dto.Email)
		if err != nil {
			return nil, nil, internal.NewInternalError("failed to check email", err)
		}
		if other != nil && other.ID != userID {
			fieldErrors = append(fieldErrors, internal.ValidationError{
				Field:   "email",
				Message: "Email is already in use",
				Code:    string(internal.ErrCodeDuplicateValue),
			})
		}
	}

	if dto.PhoneNumber != nil && (p.PhoneNumber == nil || *dto.PhoneNumber != *p.PhoneNumber) {
		other, err := s.repo.ProfileByPhone(ctx, *dto.PhoneNumber)
		if err != nil {
			return nil, nil, internal.NewInternalError("failed to check phone number", err)
		}
		if other != nil && other.UserID != userID {
			fieldErrors = append(fieldErrors, internal.ValidationError{
				Field:   "phone_number",
				Message: "Phone number is already in use",
				Code:    string(internal.ErrCodeDuplicateValue),
			})
		}
	}

	if len(fieldErrors) > 0 {
		return nil, nil, internal.NewValidationError("Validation failed", internal.ErrCodeValidationFailed).
			WithDetails(internal.ValidationErrors{Errors: fieldErrors})
	}

	if dto.FirstName != nil {
		u.FirstName = *dto.FirstName
	}
	if dto.LastName != nil {
		u.LastName = *dto.LastName
	}
	if dto.Email != nil {
		u.Email = *dto.Email
	}
	if err := s.repo.SaveUser(ctx, u); err != nil {
		return nil, nil, internal.NewInternalError("failed to update user", err)
	}

	if dto.PhoneNumber != nil {
		p.PhoneNumber = dto.PhoneNumber
		if err := s.repo.SaveProfile(ctx, p); err != nil {
			return nil, nil, internal.NewInternalError("failed to update profile", err)
		}
	}

	return u, p, nil
}
