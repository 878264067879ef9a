package postgres

import (
	"context"
	"errors"
	"fmt"

	usermodel "github.com/frahmantamala/shift-tracking/internal/core/datamodel/user"
	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) UserByID(ctx context.Context, id int64) (*usermodel.User, error) {
	var u usermodel.User
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query user by id: %w", err)
	}
	return &u, nil
}

func (r *UserRepository) UserByUsername(ctx context.Context, username string) (*usermodel.User, error) {
	var u usermodel.User
	err := r.db.WithContext(ctx).
		Where("username = ?", username).
		First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query user by username: %w", err)
	}
	return &u, nil
}

func (r *UserRepository) UserByEmail(ctx context.Context, email string) (*usermodel.User, error) {
	var u usermodel.User
	err := r.db.WithContext(ctx).
		Where("email = ?", email).
		First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query user by email: %w", err)
	}
	return &u, nil
}

func (r *UserRepository) ProfileByUserID(ctx context.Context, userID int64) (*usermodel.Profile, error) {
	var p usermodel.Profile
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query profile by user id: %w", err)
	}
	return &p, nil
}

func (r *UserRepository) ProfileByPhone(ctx context.Context, phone string) (*usermodel.Profile, error) {
	var p usermodel.Profile
	err := r.db.WithContext(ctx).
		Where("phone_number = ?", phone).
		First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query profile by phone: %w", err)
	}
	return &p, nil
}

// CreateWithProfile inserts the user and its profile in one transaction so a
// profile insert failure never leaves an orphan account behind.
func (r *UserRepository) CreateWithProfile(ctx context.Context, u *usermodel.User, p *usermodel.Profile) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(u).Error; err != nil {
			return fmt.Errorf("insert user: %w", err)
		}
		p.UserID = u.ID
		if err := tx.Create(p).Error; err != nil {
			return fmt.Errorf("insert profile: %w", err)
		}
		return nil
	})
}

func (r *UserRepository) SaveUser(ctx context.Context, u *usermodel.User) error {
	if err := r.db.WithContext(ctx).Save(u).Error; err != nil {
		return fmt.Errorf("save user: %w", err)
	}
	return nil
}

func (r *UserRepository) SaveProfile(ctx context.Context, p *usermodel.Profile) error {
	if err := r.db.WithContext(ctx).Save(p).Error; err != nil {
		return fmt.Errorf("save profile: %w", err)
	}
	return nil
}
