package company

import (
	"time"

	internal "github.com/frahmantamala/shift-tracking/internal"
	"github.com/frahmantamala/shift-tracking/internal/core/common/validation"
)

const dateLayout = "2006-01-02"

type CreateCompanyDTO struct {
	Name           string `json:"name"`
	Number         int64  `json:"number"`
	City           string `json:"city"`
	FoundationDate string `json:"foundation_date"`
}

// Validate checks the request fields and parses the foundation date. All
// field failures come back together in one validation error.
func (dto CreateCompanyDTO) Validate() (time.Time, *internal.AppError) {
	v := validation.NewValidator()
	v.Field("name", dto.Name).Required().MaxLength(255)
	v.Field("number", dto.Number).Required()
	v.Field("city", dto.City).Required().MaxLength(255)
	v.Field("foundation_date", dto.FoundationDate).Required()
	if err := v.Validate(); err != nil {
		return time.Time{}, err
	}

	foundation, err := time.Parse(dateLayout, dto.FoundationDate)
	if err != nil {
		return time.Time{}, internal.NewValidationFieldError("foundation_date",
			"Foundation date must be a valid date in YYYY-MM-DD format", internal.ErrCodeInvalidDate)
	}
	if appErr := validation.ValidateFoundationDate(foundation); appErr != nil {
		return time.Time{}, appErr
	}
	return foundation, nil
}

// UpdateCompanyDTO carries a partial edit. Nil fields stay as they are.
type UpdateCompanyDTO struct {
	Name           *string `json:"name"`
	Number         *int64  `json:"number"`
	City           *string `json:"city"`
	FoundationDate *string `json:"foundation_date"`
}

func (dto UpdateCompanyDTO) Validate() (*time.Time, *internal.AppError) {
	v := validation.NewValidator()
	if dto.Name != nil {
		v.Field("name", *dto.Name).Required().MaxLength(255)
	}
	if dto.Number != nil {
		v.Field("number", *dto.Number).Required()
	}
	if dto.City != nil {
		v.Field("city", *dto.City).Required().MaxLength(255)
	}
	if err := v.Validate(); err != nil {
		return nil, err
	}

	if dto.FoundationDate == nil {
		return nil, nil
	}
	foundation, err := time.Parse(dateLayout, *dto.FoundationDate)
	if err != nil {
		return nil, internal.NewValidationFieldError("foundation_date",
			"Foundation date must be a valid date in YYYY-MM-DD format", internal.ErrCodeInvalidDate)
	}
	if appErr := validation.ValidateFoundationDate(foundation); appErr != nil {
		return nil, appErr
	}
	return &foundation, nil
}
