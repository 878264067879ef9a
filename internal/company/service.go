package company

import (
	"context"
	"log/slog"
	"net/url"

	internal "github.com/frahmantamala/shift-tracking/internal"
	"github.com/frahmantamala/shift-tracking/internal/core/common/pagination"
	companymodel "github.com/frahmantamala/shift-tracking/internal/core/datamodel/company"
	employeemodel "github.com/frahmantamala/shift-tracking/internal/core/datamodel/employee"
)

// ViewerInfo identifies the caller for visibility and mutation gating.
type ViewerInfo struct {
	UserID  int64
	IsStaff bool
}

// Buckets groups the caller's companies by their relationship to the caller.
type Buckets struct {
	Owned       []*companymodel.Company `json:"owned"`
	OwnedPage   pagination.Page         `json:"owned_pagination"`
	Member      []*companymodel.Company `json:"member"`
	MemberPage  pagination.Page         `json:"member_pagination"`
	Pending     []*companymodel.Company `json:"pending"`
	PendingPage pagination.Page         `json:"pending_pagination"`
}

type Repository interface {
	ByID(ctx context.Context, id int64) (*companymodel.Company, error)
	VisibleByID(ctx context.Context, id, viewerID int64) (*companymodel.Company, error)
	ByName(ctx context.Context, name string) (*companymodel.Company, error)
	ByNumber(ctx context.Context, number int64) (*companymodel.Company, error)
	Create(ctx context.Context, c *companymodel.Company) error
	Save(ctx context.Context, c *companymodel.Company) error
	SoftDelete(ctx context.Context, id int64) error
	ListOwned(ctx context.Context, ownerID int64, filters url.Values, page int) ([]*companymodel.Company, pagination.Page, error)
	ListMember(ctx context.Context, userID int64, accepted bool, filters url.Values, page int) ([]*companymodel.Company, pagination.Page, error)
	ListEmployees(ctx context.Context, companyID int64, page int) ([]*employeemodel.Employee, pagination.Page, error)
}

type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, logger: logger}
}

// Create registers a company with the caller as owner. Name and number
// uniqueness failures come back as field errors before any write.
func (s *Service) Create(ctx context.Context, ownerID int64, dto CreateCompanyDTO) (*companymodel.Company, error) {
	foundation, appErr := dto.Validate()
	if appErr != nil {
		return nil, appErr
	}

	var fieldErrors []internal.ValidationError

	byName, err := s.repo.ByName(ctx, dto.Name)
	if err != nil {
		return nil, internal.NewInternalError("failed to check company name", err)
	}
	if byName != nil {
		fieldErrors = append(fieldErrors, internal.ValidationError{
			Field:   "name",
			Message: "A company with that name already exists",
			Code:    string(internal.ErrCodeDuplicateValue),
		})
	}

	byNumber, err := s.repo.ByNumber(ctx, dto.Number)
	if err != nil {
		return nil, internal.NewInternalError("failed to check company number", err)
	}
	if byNumber != nil {
		fieldErrors = append(fieldErrors, internal.ValidationError{
			Field:   "number",
			Message: "A company with that number already exists",
			Code:    string(internal.ErrCodeDuplicateValue),
		})
	}

	if len(fieldErrors) > 0 {
		return nil, internal.NewValidationError("Validation failed", internal.ErrCodeValidationFailed).
			WithDetails(internal.ValidationErrors{Errors: fieldErrors})
	}

	c := &companymodel.Company{
		Name:           dto.Name,
		Number:         dto.Number,
		City:           dto.City,
		FoundationDate: foundation,
		CreatedBy:      ownerID,
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, internal.NewInternalError("failed to create company", err)
	}

	s.logger.Info("company created", "company_id", c.ID, "owner_id", ownerID)
	return c, nil
}

// Get returns a company the viewer may see. The owner and staff also get the
// first page of the employee list.
func (s *Service) Get(ctx context.Context, id int64, viewer *ViewerInfo, employeePage int) (*companymodel.Company, []*employeemodel.Employee, pagination.Page, error) {
	c, err := s.lookup(ctx, id, viewer)
	if err != nil {
		return nil, nil, pagination.Page{}, err
	}

	if !viewer.IsStaff && c.CreatedBy != viewer.UserID {
		return c, nil, pagination.Page{}, nil
	}

	employees, pageInfo, err := s.repo.ListEmployees(ctx, c.ID, employeePage)
	if err != nil {
		return nil, nil, pagination.Page{}, internal.NewInternalError("failed to list company employees", err)
	}
	return c, employees, pageInfo, nil
}

// Update edits a company. Only the owner or staff may edit; a visible
// non-owner gets Forbidden, an invisible company reads as absent.
func (s *Service) Update(ctx context.Context, id int64, viewer *ViewerInfo, dto UpdateCompanyDTO) (*companymodel.Company, error) {
	foundation, appErr := dto.Validate()
	if appErr != nil {
		return nil, appErr
	}

	c, err := s.lookup(ctx, id, viewer)
	if err != nil {
		return nil, err
	}
	if !viewer.IsStaff && c.CreatedBy != viewer.UserID {
		return nil, internal.ErrAccessDenied
	}

	var fieldErrors []internal.ValidationError

	if dto.Name != nil && *dto.Name != c.Name {
		other, err := s.repo.ByName(ctx, *dto.Name)
		if err != nil {
			return nil, internal.NewInternalError("failed to check company name", err)
		}
		if other != nil && other.ID != c.ID {
			fieldErrors = append(fieldErrors, internal.ValidationError{
				Field:   "name",
				Message: "A company with that name already exists",
				Code:    string(internal.ErrCodeDuplicateValue),
			})
		}
	}
	if dto.Number != nil && *dto.Number != c.Number {
		other, err := s.repo.ByNumber(ctx, *dto.Number)
		if err != nil {
			return nil, internal.NewInternalError("failed to check company number", err)
		}
		if other != nil && other.ID != c.ID {
			fieldErrors = append(fieldErrors, internal.ValidationError{
				Field:   "number",
				Message: "A company with that number already exists",
				Code:    string(internal.ErrCodeDuplicateValue),
			})
		}
	}

	if len(fieldErrors) > 0 {
		return nil, internal.NewValidationError("Validation failed", internal.ErrCodeValidationFailed).
			WithDetails(internal.ValidationErrors{Errors: fieldErrors})
	}

	if dto.Name != nil {
		c.Name = *dto.Name
	}
	if dto.Number != nil {
		c.Number = *dto.Number
	}
	if dto.City != nil {
		c.City = *dto.City
	}
	if foundation != nil {
		c.FoundationDate = *foundation
	}

	if err := s.repo.Save(ctx, c); err != nil {
		return nil, internal.NewInternalError("failed to update company", err)
	}
	return c, nil
}

// Delete soft-deletes a company. Owner or staff only.
func (s *Service) Delete(ctx context.Context, id int64, viewer *ViewerInfo) error {
	c, err := s.lookup(ctx, id, viewer)
	if err != nil {
		return err
	}
	if !viewer.IsStaff && c.CreatedBy != viewer.UserID {
		return internal.ErrAccessDenied
	}

	if err := s.repo.SoftDelete(ctx, c.ID); err != nil {
		return internal.NewInternalError("failed to delete company", err)
	}
	s.logger.Info("company deleted", "company_id", c.ID, "by_user_id", viewer.UserID)
	return nil
}

// List groups the caller's companies into owned, accepted-member and
// pending-invitation buckets, each one paginated with the same page number.
func (s *Service) List(ctx context.Context, userID int64, filters url.Values, page int) (*Buckets, error) {
	owned, ownedPage, err := s.repo.ListOwned(ctx, userID, filters, page)
	if err != nil {
		return nil, internal.NewInternalError("failed to list owned companies", err)
	}
	member, memberPage, err := s.repo.ListMember(ctx, userID, true, filters, page)
	if err != nil {
		return nil, internal.NewInternalError("failed to list member companies", err)
	}
	pending, pendingPage, err := s.repo.ListMember(ctx, userID, false, filters, page)
	if err != nil {
		return nil, internal.NewInternalError("failed to list pending companies", err)
	}

	return &Buckets{
		Owned:       owned,
		OwnedPage:   ownedPage,
		Member:      member,
		MemberPage:  memberPage,
		Pending:     pending,
		PendingPage: pendingPage,
	}, nil
}

// lookup resolves the company under the viewer's visibility. Staff bypass
// the scope; everyone else reads hidden rows as absent.
func (s *Service) lookup(ctx context.Context, id int64, viewer *ViewerInfo) (*companymodel.Company, error) {
	var (
		c   *companymodel.Company
		err error
	)
	if viewer.IsStaff {
		c, err = s.repo.ByID(ctx, id)
	} else {
		c, err = s.repo.VisibleByID(ctx, id, viewer.UserID)
	}
	if err != nil {
		return nil, internal.NewInternalError("failed to get company", err)
	}
	if c == nil {
		return nil, internal.ErrCompanyNotFound
	}
	return c, nil
}
