package postgres

import (
	"context"
	"errors"
	"net/url"
	"strings"

	"github.com/frahmantamala/shift-tracking/internal/core/common/pagination"
	companymodel "github.com/frahmantamala/shift-tracking/internal/core/datamodel/company"
	employeemodel "github.com/frahmantamala/shift-tracking/internal/core/datamodel/employee"
	usermodel "github.com/frahmantamala/shift-tracking/internal/core/datamodel/user"
	"github.com/frahmantamala/shift-tracking/internal/employee"
	"github.com/frahmantamala/shift-tracking/internal/visibility"
	"gorm.io/gorm"
)

var employeeFilterColumns = map[string]string{
	"uid": "employees.uid",
}

// EmployeeRepository implements the employee.Repository interface using GORM
type EmployeeRepository struct {
	db *gorm.DB
}

func NewEmployeeRepository(db *gorm.DB) employee.Repository {
	return &EmployeeRepository{db: db}
}

func (r *EmployeeRepository) CompanyOwned(ctx context.Context, companyID, ownerID int64) (*companymodel.Company, error) {
	var company companymodel.Company
	err := r.db.WithContext(ctx).
		Scopes(visibility.NotDeleted).
		Where("id = ? AND created_by = ?", companyID, ownerID).
		First(&company).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &company, nil
}

func (r *EmployeeRepository) RoleByID(ctx context.Context, roleID int64) (*companymodel.Role, error) {
	var role companymodel.Role
	err := r.db.WithContext(ctx).
		Scopes(visibility.NotDeleted).
		Where("id = ?", roleID).
		First(&role).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &role, nil
}

func (r *EmployeeRepository) UserByUsername(ctx context.Context, username string) (*usermodel.User, error) {
	var user usermodel.User
	err := r.db.WithContext(ctx).
		Where("username = ?", username).
		First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (r *EmployeeRepository) LiveEmployee(ctx context.Context, userID, companyID int64) (*employeemodel.Employee, error) {
	var emp employeemodel.Employee
	err := r.db.WithContext(ctx).
		Scopes(visibility.NotDeleted).
		Where("user_id = ? AND company_id = ?", userID, companyID).
		First(&emp).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &emp, nil
}

func (r *EmployeeRepository) VisibleEmployee(ctx context.Context, id, viewerID int64) (*employeemodel.Employee, error) {
	var emp employeemodel.Employee
	err := r.db.WithContext(ctx).
		Scopes(visibility.NotDeleted, visibility.EmployeeVisibleTo(viewerID)).
		Where("employees.id = ?", id).
		First(&emp).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &emp, nil
}

func (r *EmployeeRepository) EmployeeByID(ctx context.Context, id int64) (*employeemodel.Employee, error) {
	var emp employeemodel.Employee
	err := r.db.WithContext(ctx).
		Scopes(visibility.NotDeleted).
		Where("id = ?", id).
		First(&emp).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &emp, nil
}

// CreateOrRevive inserts a new employee row; when the (user, company) unique
// pair already exists it clears is_deleted on the old row instead, keeping
// its badge uid and acceptance state.
func (r *EmployeeRepository) CreateOrRevive(ctx context.Context, emp *employeemodel.Employee) (*employeemodel.Employee, bool, error) {
	err := r.db.WithContext(ctx).Create(emp).Error
	if err == nil {
		return emp, false, nil
	}
	if !isDuplicateKey(err) {
		return nil, false, err
	}

	var existing employeemodel.Employee
	findErr := r.db.WithContext(ctx).
		Where("user_id = ? AND company_id = ?", emp.UserID, emp.CompanyID).
		First(&existing).Error
	if findErr != nil {
		return nil, false, findErr
	}

	updates := map[string]interface{}{
		"is_deleted": false,
		"role_id":    emp.RoleID,
	}
	if updateErr := r.db.WithContext(ctx).
		Model(&employeemodel.Employee{}).
		Where("id = ?", existing.ID).
		Updates(updates).Error; updateErr != nil {
		return nil, false, updateErr
	}

	existing.IsDeleted = false
	existing.RoleID = emp.RoleID
	return &existing, true, nil
}

func (r *EmployeeRepository) Save(ctx context.Context, emp *employeemodel.Employee) error {
	return r.db.WithContext(ctx).Save(emp).Error
}

func (r *EmployeeRepository) SoftDelete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).
		Model(&employeemodel.Employee{}).
		Where("id = ?", id).
		Update("is_deleted", true).Error
}

func (r *EmployeeRepository) ListForOwner(ctx context.Context, ownerID int64, filters url.Values, page int) ([]*employeemodel.Employee, pagination.Page, error) {
	query := r.db.WithContext(ctx).
		Model(&employeemodel.Employee{}).
		Scopes(visibility.NotDeleted, visibility.ContainsFilters(filters, employeeFilterColumns)).
		Where(`EXISTS (
			SELECT 1 FROM companies c
			WHERE c.id = employees.company_id
			  AND c.created_by = ?
			  AND c.is_deleted = ?
		)`, ownerID, false).
		Order("company_id, user_id")

	var employees []*employeemodel.Employee
	pageInfo, err := pagination.Paginate(query, page, &employees)
	return employees, pageInfo, err
}

func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate key") || strings.Contains(msg, "UNIQUE constraint failed")
}
