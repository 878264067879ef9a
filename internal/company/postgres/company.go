package postgres

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/frahmantamala/shift-tracking/internal/core/common/pagination"
	companymodel "github.com/frahmantamala/shift-tracking/internal/core/datamodel/company"
	employeemodel "github.com/frahmantamala/shift-tracking/internal/core/datamodel/employee"
	"github.com/frahmantamala/shift-tracking/internal/visibility"
	"gorm.io/gorm"
)

// companyFilterColumns maps the query params listings accept to the columns
// they filter on.
var companyFilterColumns = map[string]string{
	"name":   "name",
	"city":   "city",
	"number": "number",
}

type CompanyRepository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *CompanyRepository {
	return &CompanyRepository{db: db}
}

func (r *CompanyRepository) ByID(ctx context.Context, id int64) (*companymodel.Company, error) {
	var c companymodel.Company
	err := r.db.WithContext(ctx).
		Scopes(visibility.NotDeleted).
		Where("id = ?", id).
		First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query company by id: %w", err)
	}
	return &c, nil
}

func (r *CompanyRepository) VisibleByID(ctx context.Context, id, viewerID int64) (*companymodel.Company, error) {
	var c companymodel.Company
	err := r.db.WithContext(ctx).
		Scopes(visibility.NotDeleted, visibility.CompanyVisibleTo(viewerID)).
		Where("companies.id = ?", id).
		First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query visible company: %w", err)
	}
	return &c, nil
}

func (r *CompanyRepository) ByName(ctx context.Context, name string) (*companymodel.Company, error) {
	var c companymodel.Company
	err := r.db.WithContext(ctx).
		Scopes(visibility.NotDeleted).
		Where("name = ?", name).
		First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query company by name: %w", err)
	}
	return &c, nil
}

func (r *CompanyRepository) ByNumber(ctx context.Context, number int64) (*companymodel.Company, error) {
	var c companymodel.Company
	err := r.db.WithContext(ctx).
		Scopes(visibility.NotDeleted).
		Where("number = ?", number).
		First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query company by number: %w", err)
	}
	return &c, nil
}

func (r *CompanyRepository) Create(ctx context.Context, c *companymodel.Company) error {
	if err := r.db.WithContext(ctx).Create(c).Error; err != nil {
		return fmt.Errorf("insert company: %w", err)
	}
	return nil
}

func (r *CompanyRepository) Save(ctx context.Context, c *companymodel.Company) error {
	if err := r.db.WithContext(ctx).Save(c).Error; err != nil {
		return fmt.Errorf("save company: %w", err)
	}
	return nil
}

func (r *CompanyRepository) SoftDelete(ctx context.Context, id int64) error {
	err := r.db.WithContext(ctx).
		Model(&companymodel.Company{}).
		Where("id = ?", id).
		Update("is_deleted", true).Error
	if err != nil {
		return fmt.Errorf("soft delete company: %w", err)
	}
	return nil
}

func (r *CompanyRepository) ListOwned(ctx context.Context, ownerID int64, filters url.Values, page int) ([]*companymodel.Company, pagination.Page, error) {
	query := r.db.WithContext(ctx).
		Model(&companymodel.Company{}).
		Scopes(
			visibility.NotDeleted,
			visibility.ContainsFilters(filters, companyFilterColumns),
		).
		Where("created_by = ?", ownerID).
		Order("name")

	var companies []*companymodel.Company
	pageInfo, err := pagination.Paginate(query, page, &companies)
	if err != nil {
		return nil, pagination.Page{}, fmt.Errorf("list owned companies: %w", err)
	}
	return companies, pageInfo, nil
}

// ListMember returns companies where the viewer holds a live employee row,
// split by acceptance state. Companies the viewer owns are excluded so each
// row lands in exactly one bucket.
func (r *CompanyRepository) ListMember(ctx context.Context, userID int64, accepted bool, filters url.Values, page int) ([]*companymodel.Company, pagination.Page, error) {
	query := r.db.WithContext(ctx).
		Model(&companymodel.Company{}).
		Scopes(
			visibility.NotDeleted,
			visibility.CompanyMemberOf(userID, accepted),
			visibility.ContainsFilters(filters, companyFilterColumns),
		).
		Where("created_by <> ?", userID).
		Order("name")

	var companies []*companymodel.Company
	pageInfo, err := pagination.Paginate(query, page, &companies)
	if err != nil {
		return nil, pagination.Page{}, fmt.Errorf("list member companies: %w", err)
	}
	return companies, pageInfo, nil
}

func (r *CompanyRepository) ListEmployees(ctx context.Context, companyID int64, page int) ([]*employeemodel.Employee, pagination.Page, error) {
	query := r.db.WithContext(ctx).
		Model(&employeemodel.Employee{}).
		Scopes(visibility.NotDeleted).
		Where("company_id = ?", companyID).
		Order("id")

	var employees []*employeemodel.Employee
	pageInfo, err := pagination.Paginate(query, page, &employees)
	if err != nil {
		return nil, pagination.Page{}, fmt.Errorf("list company employees: %w", err)
	}
	return employees, pageInfo, nil
}
