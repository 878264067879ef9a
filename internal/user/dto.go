package user

import (
	internal "github.com/frahmantamala/shift-tracking/internal"
	"github.com/frahmantamala/shift-tracking/internal/core/common/validation"
)

// RegisterDTO is the self-signup payload. Every field is mandatory so the
// account is usable for company invitations right away.
type RegisterDTO struct {
	Username    string `json:"username"`
	Password    string `json:"password"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phone_number"`
}

func (dto RegisterDTO) Validate() *internal.AppError {
	v := validation.NewValidator()
	v.Field("username", dto.Username).Required().MaxLength(150)
	v.Field("password", dto.Password).Required()
	v.Field("first_name", dto.FirstName).Required().MaxLength(150)
	v.Field("last_name", dto.LastName).Required().MaxLength(150)
	v.Field("email", dto.Email).Required()
	v.Field("phone_number", dto.PhoneNumber).Required()
	if err := v.Validate(); err != nil {
		return err
	}
	if err := validation.ValidateEmail(dto.Email); err != nil {
		return err
	}
	return validation.ValidatePhoneNumber(dto.PhoneNumber)
}

// UpdateProfileDTO carries a partial profile update. Nil fields stay as they
// are.
type UpdateProfileDTO struct {
	FirstName   *string `json:"first_name"`
	LastName    *string `json:"last_name"`
	Email       *string `json:"email"`
	PhoneNumber *string `json:"phone_number"`
}

func (dto UpdateProfileDTO) Validate() *internal.AppError {
	v := validation.NewValidator()
	if dto.FirstName != nil {
		v.Field("first_name", *dto.FirstName).Required().MaxLength(150)
	}
	if dto.LastName != nil {
		v.Field("last_name", *dto.LastName).Required().MaxLength(150)
	}
	if err := v.Validate(); err != nil {
		return err
	}
	if dto.Email != nil {
		if err := validation.ValidateEmail(*dto.Email); err != nil {
			return err
		}
	}
	if dto.PhoneNumber != nil {
		if err := validation.ValidatePhoneNumber(*dto.PhoneNumber); err != nil {
			return err
		}
	}
	return nil
}
