package postgres

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"time"

	"github.com/frahmantamala/shift-tracking/internal/core/common/pagination"
	employeemodel "github.com/frahmantamala/shift-tracking/internal/core/datamodel/employee"
	shiftmodel "github.com/frahmantamala/shift-tracking/internal/core/datamodel/shift"
	"github.com/frahmantamala/shift-tracking/internal/shift"
	"github.com/frahmantamala/shift-tracking/internal/visibility"
	"gorm.io/gorm"
)

// shiftFilterColumns are the fields a shift listing may be narrowed by with
// free-text contains filters.
var shiftFilterColumns = map[string]string{
	"enter_time": "shifts.enter_time",
	"exit_time":  "shifts.exit_time",
}

// ShiftRepository implements the shift.Repository interface using GORM
type ShiftRepository struct {
	db *gorm.DB
}

func NewShiftRepository(db *gorm.DB) shift.Repository {
	return &ShiftRepository{db: db}
}

func (r *ShiftRepository) ActiveEmployee(ctx context.Context, userID, companyID int64) (*employeemodel.Employee, error) {
	var emp employeemodel.Employee
	err := r.db.WithContext(ctx).
		Scopes(visibility.NotDeleted).
		Where("user_id = ? AND company_id = ? AND is_accepted = ?", userID, companyID, true).
		First(&emp).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &emp, nil
}

func (r *ShiftRepository) EmployeeByBadge(ctx context.Context, uid string) (*employeemodel.Employee, error) {
	var emp employeemodel.Employee
	err := r.db.WithContext(ctx).
		Scopes(visibility.NotDeleted).
		Where("uid = ? AND is_accepted = ?", uid, true).
		First(&emp).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &emp, nil
}

func (r *ShiftRepository) OpenShift(ctx context.Context, employeeID int64) (*shiftmodel.Shift, error) {
	var sh shiftmodel.Shift
	err := r.db.WithContext(ctx).
		Scopes(visibility.NotDeleted).
		Where("employee_id = ? AND exit_time IS NULL", employeeID).
		First(&sh).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &sh, nil
}

func (r *ShiftRepository) Create(ctx context.Context, sh *shiftmodel.Shift) error {
	err := r.db.WithContext(ctx).Create(sh).Error
	if err != nil && isDuplicateKey(err) {
		return shift.ErrOpenShiftExists
	}
	return err
}

// CloseShift stamps the exit time. The exit_time IS NULL guard makes the
// update a no-op when another toggle already closed the row, which the
// service treats as an invariant fault.
func (r *ShiftRepository) CloseShift(ctx context.Context, shiftID int64, exitTime time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&shiftmodel.Shift{}).
		Where("id = ? AND exit_time IS NULL AND is_deleted = ?", shiftID, false).
		Update("exit_time", exitTime)
	return result.RowsAffected, result.Error
}

func (r *ShiftRepository) ListVisible(ctx context.Context, viewerID int64, filters url.Values, page int) ([]*shiftmodel.Shift, pagination.Page, error) {
	query := r.db.WithContext(ctx).
		Model(&shiftmodel.Shift{}).
		Scopes(visibility.NotDeleted, visibility.ShiftVisibleTo(viewerID), visibility.ContainsFilters(filters, shiftFilterColumns)).
		Order("enter_time DESC, exit_time DESC")

	var shifts []*shiftmodel.Shift
	pageInfo, err := pagination.Paginate(query, page, &shifts)
	return shifts, pageInfo, err
}

func (r *ShiftRepository) ListForCompany(ctx context.Context, companyID, viewerID int64, ownerView bool, page int) ([]*shiftmodel.Shift, pagination.Page, error) {
	query := r.db.WithContext(ctx).
		Model(&shiftmodel.Shift{}).
		Scopes(visibility.NotDeleted).
		Where("employee_id IN (?)", r.companyEmployeeIDs(companyID, viewerID, ownerView)).
		Order("enter_time DESC, exit_time DESC")

	var shifts []*shiftmodel.Shift
	pageInfo, err := pagination.Paginate(query, page, &shifts)
	return shifts, pageInfo, err
}

// companyEmployeeIDs builds the subquery of employee ids whose shifts the
// viewer may see within one company.
func (r *ShiftRepository) companyEmployeeIDs(companyID, viewerID int64, ownerView bool) *gorm.DB {
	sub := r.db.
		Model(&employeemodel.Employee{}).
		Select("id").
		Where("company_id = ?", companyID)
	if !ownerView {
		sub = sub.Where("user_id = ?", viewerID)
	}
	return sub
}

func (r *ShiftRepository) ListForEmployee(ctx context.Context, employeeID int64, page int) ([]*shiftmodel.Shift, pagination.Page, error) {
	query := r.db.WithContext(ctx).
		Model(&shiftmodel.Shift{}).
		Scopes(visibility.NotDeleted).
		Where("employee_id = ?", employeeID).
		Order("enter_time DESC, exit_time DESC")

	var shifts []*shiftmodel.Shift
	pageInfo, err := pagination.Paginate(query, page, &shifts)
	return shifts, pageInfo, err
}

func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	// fallback for drivers without error translation enabled
	msg := err.Error()
	return strings.Contains(msg, "duplicate key") || strings.Contains(msg, "UNIQUE constraint failed")
}
