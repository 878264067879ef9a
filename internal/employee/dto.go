package employee

import (
	internal "github.com/frahmantamala/shift-tracking/internal"
	"github.com/frahmantamala/shift-tracking/internal/core/common/validation"
)

// InviteDTO is the request payload for inviting a user into a company. When
// the username is unknown the remaining fields provision the new account.
type InviteDTO struct {
	Username    string `json:"username"`
	RoleID      int64  `json:"role_id"`
	Password    string `json:"password,omitempty"`
	FirstName   string `json:"first_name,omitempty"`
	LastName    string `json:"last_name,omitempty"`
	Email       string `json:"email,omitempty"`
	PhoneNumber string `json:"phone_number,omitempty"`
}

// Validate checks the fields every invite needs regardless of whether the
// invited user already exists.
func (dto InviteDTO) Validate() *internal.AppError {
	v := validation.NewValidator()
	v.Field("username", dto.Username).Required().MaxLength(255)
	v.Field("role_id", dto.RoleID).Required()
	return v.Validate()
}

// ValidateForProvisioning checks the full field set needed to create a new
// user account alongside the invite.
func (dto InviteDTO) ValidateForProvisioning() *internal.AppError {
	v := validation.NewValidator()
	v.Field("username", dto.Username).Required().MaxLength(255)
	v.Field("role_id", dto.RoleID).Required()
	v.Field("password", dto.Password).Required()
	v.Field("first_name", dto.FirstName).Required()
	v.Field("last_name", dto.LastName).Required()
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
