package employee

import (
	"context"
	"log/slog"
	"net/url"

	internal "github.com/frahmantamala/shift-tracking/internal"
	"github.com/frahmantamala/shift-tracking/internal/core/common/pagination"
	companymodel "github.com/frahmantamala/shift-tracking/internal/core/datamodel/company"
	employeemodel "github.com/frahmantamala/shift-tracking/internal/core/datamodel/employee"
	usermodel "github.com/frahmantamala/shift-tracking/internal/core/datamodel/user"
)

// Repository defines the data access methods for employee rows and the
// lookups the invitation workflow needs around them. Lookup methods return
// (nil, nil) when no row matches.
type Repository interface {
	CompanyOwned(ctx context.Context, companyID, ownerID int64) (*companymodel.Company, error)
	RoleByID(ctx context.Context, roleID int64) (*companymodel.Role, error)
	UserByUsername(ctx context.Context, username string) (*usermodel.User, error)

	// LiveEmployee is the live (not soft-deleted) row for (user, company)
	// in any acceptance state.
	LiveEmployee(ctx context.Context, userID, companyID int64) (*employeemodel.Employee, error)
	// VisibleEmployee resolves an employee row under the visibility policy:
	// its own user or the owning company's owner.
	VisibleEmployee(ctx context.Context, id, viewerID int64) (*employeemodel.Employee, error)
	// EmployeeByID bypasses visibility; reserved for staff.
	EmployeeByID(ctx context.Context, id int64) (*employeemodel.Employee, error)

	// CreateOrRevive inserts the row, or clears is_deleted on the existing
	// (user, company) row, keeping its badge uid.
	CreateOrRevive(ctx context.Context, emp *employeemodel.Employee) (*employeemodel.Employee, bool, error)
	Save(ctx context.Context, emp *employeemodel.Employee) error
	SoftDelete(ctx context.Context, id int64) error

	ListForOwner(ctx context.Context, ownerID int64, filters url.Values, page int) ([]*employeemodel.Employee, pagination.Page, error)
}

// Provisioner creates a user account plus profile after uniqueness
// validation, in one transaction.
type Provisioner interface {
	Provision(ctx context.Context, username, password, firstName, lastName, email, phone string) (*usermodel.User, error)
}

type Service struct {
	repo        Repository
	provisioner Provisioner
	logger      *slog.Logger
}

func NewService(repo Repository, provisioner Provisioner, logger *slog.Logger) *Service {
	return &Service{
		repo:        repo,
		provisioner: provisioner,
		logger:      logger,
	}
}

// Invite adds a user to a company as a pending employee. Only the company
// owner may invite; unknown usernames get a full account provisioned after
// field-level uniqueness validation; a previously removed employee row for
// the same pair is revived with its original badge uid.
func (s *Service) Invite(ctx context.Context, inviter *InviterInfo, companyID int64, dto InviteDTO) (*employeemodel.Employee, error) {
	// authorization first: nothing else runs for a non-owner
	company, err := s.repo.CompanyOwned(ctx, companyID, inviter.UserID)
	if err != nil {
		s.logger.Error("failed to resolve company for invite", "error", err, "company_id", companyID)
		return nil, err
	}
	if company == nil {
		s.logger.Warn("invite denied: not company owner", "user_id", inviter.UserID, "company_id", companyID)
		return nil, internal.ErrAccessDenied
	}

	if err := dto.Validate(); err != nil {
		return nil, err
	}

	if dto.Username == inviter.Username {
		return nil, internal.NewValidationFieldError("username", "You can not add yourself as Employee", internal.ErrCodeValidationFailed)
	}

	role, err := s.repo.RoleByID(ctx, dto.RoleID)
	if err != nil {
		return nil, err
	}
	if role == nil {
		return nil, internal.NewValidationFieldError("role_id", "Role does not exist", internal.ErrCodeRoleNotFound)
	}

	invited, err := s.repo.UserByUsername(ctx, dto.Username)
	if err != nil {
		return nil, err
	}

	if invited != nil {
		live, err := s.repo.LiveEmployee(ctx, invited.ID, companyID)
		if err != nil {
			return nil, err
		}
		if live != nil {
			return nil, internal.NewValidationFieldError("username", "Employee is already joined to this company", internal.ErrCodeDuplicateValue)
		}
	} else {
		if err := dto.ValidateForProvisioning(); err != nil {
			return nil, err
		}
		invited, err = s.provisioner.Provision(ctx, dto.Username, dto.Password, dto.FirstName, dto.LastName, dto.Email, dto.PhoneNumber)
		if err != nil {
			return nil, err
		}
	}

	uid, err := NewBadgeUID()
	if err != nil {
		return nil, internal.NewInternalError("failed to generate badge uid", err)
	}

	emp := &employeemodel.Employee{
		UID:       uid,
		UserID:    invited.ID,
		CompanyID: companyID,
		RoleID:    dto.RoleID,
	}

	created, revived, err := s.repo.CreateOrRevive(ctx, emp)
	if err != nil {
		s.logger.Error("failed to create employee", "error", err, "user_id", invited.ID, "company_id", companyID)
		return nil, err
	}

	s.logger.Info("employee invited",
		"employee_id", created.ID,
		"company_id", companyID,
		"user_id", invited.ID,
		"revived", revived)

	return created, nil
}

// Accept confirms a pending invitation for the calling user.
func (s *Service) Accept(ctx context.Context, userID, companyID int64) error {
	emp, err := s.repo.LiveEmployee(ctx, userID, companyID)
	if err != nil {
		return err
	}
	if emp == nil {
		return internal.ErrEmployeeNotFound
	}

	if emp.IsAccepted {
		// already a member; nothing to transition
		return nil
	}

	emp.IsAccepted = true
	if err := s.repo.Save(ctx, emp); err != nil {
		s.logger.Error("failed to accept invitation", "error", err, "employee_id", emp.ID)
		return err
	}

	s.logger.Info("invitation accepted", "employee_id", emp.ID, "company_id", companyID)
	return nil
}

// Decline rejects a pending invitation, or lets a member leave, by
// soft-deleting the row. There is no way back except a fresh invite, which
// revives the same row.
func (s *Service) Decline(ctx context.Context, userID, companyID int64) error {
	emp, err := s.repo.LiveEmployee(ctx, userID, companyID)
	if err != nil {
		return err
	}
	if emp == nil {
		return internal.ErrEmployeeNotFound
	}

	if err := s.repo.SoftDelete(ctx, emp.ID); err != nil {
		s.logger.Error("failed to decline invitation", "error", err, "employee_id", emp.ID)
		return err
	}

	s.logger.Info("invitation declined", "employee_id", emp.ID, "company_id", companyID)
	return nil
}

// Get resolves one employee row for the viewer; hidden and absent rows are
// indistinguishable.
func (s *Service) Get(ctx context.Context, id int64, viewer *ViewerInfo) (*employeemodel.Employee, error) {
	emp, err := s.lookup(ctx, id, viewer)
	if err != nil {
		return nil, err
	}
	if emp == nil {
		return nil, internal.ErrEmployeeNotFound
	}
	return emp, nil
}

// Remove soft-deletes an employee row. Allowed for the employee's own user,
// the company owner, or staff.
func (s *Service) Remove(ctx context.Context, id int64, viewer *ViewerInfo) error {
	emp, err := s.lookup(ctx, id, viewer)
	if err != nil {
		return err
	}
	if emp == nil {
		return internal.ErrEmployeeNotFound
	}

	if err := s.repo.SoftDelete(ctx, emp.ID); err != nil {
		s.logger.Error("failed to remove employee", "error", err, "employee_id", emp.ID)
		return err
	}

	s.logger.Info("employee removed", "employee_id", emp.ID, "removed_by", viewer.UserID)
	return nil
}

// ListForOwner returns every employee across the companies the viewer owns.
func (s *Service) ListForOwner(ctx context.Context, ownerID int64, filters url.Values, page int) ([]*employeemodel.Employee, pagination.Page, error) {
	return s.repo.ListForOwner(ctx, ownerID, filters, page)
}

func (s *Service) lookup(ctx context.Context, id int64, viewer *ViewerInfo) (*employeemodel.Employee, error) {
	if viewer.IsStaff {
		return s.repo.EmployeeByID(ctx, id)
	}
	return s.repo.VisibleEmployee(ctx, id, viewer.UserID)
}

// InviterInfo carries what Invite needs to know about the caller.
type InviterInfo struct {
	UserID   int64
	Username string
}

// ViewerInfo carries what read/remove paths need to know about the caller.
type ViewerInfo struct {
	UserID  int64
	IsStaff bool
}
