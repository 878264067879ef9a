package shift

import (
	"context"
	"errors"
	"log/slog"
	"net/url"
	"time"

	internal "github.com/frahmantamala/shift-tracking/internal"
	"github.com/frahmantamala/shift-tracking/internal/core/common/pagination"
	employeemodel "github.com/frahmantamala/shift-tracking/internal/core/datamodel/employee"
	shiftmodel "github.com/frahmantamala/shift-tracking/internal/core/datamodel/shift"
)

const (
	ActionStarted = "started"
	ActionEnded   = "ended"

	messageTimeLayout = "2006/01/02 at 15:04"
)

// ErrOpenShiftExists is returned by the repository when inserting a new open
// shift loses the race against a concurrent toggle. The storage layer backs
// this with a partial unique index on (employee_id) for open, live shifts.
var ErrOpenShiftExists = errors.New("employee already has an open shift")

// Repository defines the data access methods for shifts. Employee resolution
// lives here too: the toggle engine is the only writer of shift rows and
// always starts from an accepted, live employee.
type Repository interface {
	// ActiveEmployee resolves the accepted, live employee row for
	// (user, company); (nil, nil) when there is none.
	ActiveEmployee(ctx context.Context, userID, companyID int64) (*employeemodel.Employee, error)
	// EmployeeByBadge resolves an accepted, live employee by badge uid;
	// (nil, nil) when the uid is unknown.
	EmployeeByBadge(ctx context.Context, uid string) (*employeemodel.Employee, error)
	// OpenShift returns the employee's open, live shift or (nil, nil).
	OpenShift(ctx context.Context, employeeID int64) (*shiftmodel.Shift, error)
	Create(ctx context.Context, sh *shiftmodel.Shift) error
	// CloseShift sets exit_time guarded by "exit_time IS NULL" and reports
	// how many rows were touched, so a lost race shows up as zero.
	CloseShift(ctx context.Context, shiftID int64, exitTime time.Time) (int64, error)
	ListVisible(ctx context.Context, viewerID int64, filters url.Values, page int) ([]*shiftmodel.Shift, pagination.Page, error)
	ListForCompany(ctx context.Context, companyID, viewerID int64, ownerView bool, page int) ([]*shiftmodel.Shift, pagination.Page, error)
	ListForEmployee(ctx context.Context, employeeID int64, page int) ([]*shiftmodel.Shift, pagination.Page, error)
}

// ToggleResult reports what a clock action did.
type ToggleResult struct {
	Action  string            `json:"action"`
	Message string            `json:"message"`
	Shift   *shiftmodel.Shift `json:"shift"`
}

type Service struct {
	repo   Repository
	logger *slog.Logger
	now    func() time.Time
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
		now:    time.Now,
	}
}

// Toggle clocks the employee for (user, company) in or out. An identity that
// is not an accepted member of the company gets access denied without
// learning whether the company exists.
func (s *Service) Toggle(ctx context.Context, userID, companyID int64) (*ToggleResult, error) {
	emp, err := s.repo.ActiveEmployee(ctx, userID, companyID)
	if err != nil {
		s.logger.Error("failed to resolve employee for toggle", "error", err, "user_id", userID, "company_id", companyID)
		return nil, err
	}
	if emp == nil {
		s.logger.Warn("toggle denied: not an accepted member", "user_id", userID, "company_id", companyID)
		return nil, internal.ErrAccessDenied
	}
	return s.toggle(ctx, emp)
}

// ToggleByBadge is the kiosk entry point: no session, just the badge uid.
func (s *Service) ToggleByBadge(ctx context.Context, uid string) (*ToggleResult, error) {
	emp, err := s.repo.EmployeeByBadge(ctx, uid)
	if err != nil {
		s.logger.Error("failed to resolve employee by badge", "error", err)
		return nil, err
	}
	if emp == nil {
		s.logger.Warn("badge toggle denied: unknown badge")
		return nil, internal.ErrAccessDenied
	}
	return s.toggle(ctx, emp)
}

// toggleFault marks a toggle invariant violation. The fault carries the
// shift conflict code so callers can tell it apart from other internal
// errors.
func toggleFault(message string, cause error) *internal.AppError {
	fault := internal.NewInternalError(message, cause)
	fault.Code = internal.ErrCodeShiftConflict
	return fault
}

func (s *Service) toggle(ctx context.Context, emp *employeemodel.Employee) (*ToggleResult, error) {
	open, err := s.repo.OpenShift(ctx, emp.ID)
	if err != nil {
		s.logger.Error("failed to look up open shift", "error", err, "employee_id", emp.ID)
		return nil, err
	}

	now := s.now()

	if open == nil {
		sh := &shiftmodel.Shift{
			EmployeeID: emp.ID,
			EnterTime:  now,
		}
		if err := s.repo.Create(ctx, sh); err != nil {
			if errors.Is(err, ErrOpenShiftExists) {
				// two toggles raced past the open-shift lookup; the
				// unique index kept the invariant, surface the fault
				return nil, toggleFault("shift toggle conflict: open shift appeared concurrently", err)
			}
			s.logger.Error("failed to create shift", "error", err, "employee_id", emp.ID)
			return nil, err
		}

		s.logger.Info("shift started", "shift_id", sh.ID, "employee_id", emp.ID)
		return &ToggleResult{
			Action:  ActionStarted,
			Message: "Shift Started on " + now.Format(messageTimeLayout) + ".",
			Shift:   sh,
		}, nil
	}

	if open.ExitTime != nil {
		// the open-shift query must never return a closed row
		return nil, toggleFault("shift toggle conflict: located open shift is already closed", nil)
	}

	if now.Before(open.EnterTime) {
		return nil, internal.NewValidationFieldError("exit_time", "Shift time is not valid", internal.ErrCodeInvalidDate)
	}

	rows, err := s.repo.CloseShift(ctx, open.ID, now)
	if err != nil {
		s.logger.Error("failed to close shift", "error", err, "shift_id", open.ID)
		return nil, err
	}
	if rows == 0 {
		return nil, toggleFault("shift toggle conflict: shift was closed concurrently", nil)
	}

	open.ExitTime = &now
	s.logger.Info("shift ended", "shift_id", open.ID, "employee_id", emp.ID)
	return &ToggleResult{
		Action:  ActionEnded,
		Message: "Shift Ended on " + now.Format(messageTimeLayout) + ".",
		Shift:   open,
	}, nil
}

// ListOwn returns the viewer's visible shifts, newest first.
func (s *Service) ListOwn(ctx context.Context, viewerID int64, filters url.Values, page int) ([]*shiftmodel.Shift, pagination.Page, error) {
	return s.repo.ListVisible(ctx, viewerID, filters, page)
}

// ListForCompany returns the shifts of one company: the owner sees all of
// them, an accepted member only their own.
func (s *Service) ListForCompany(ctx context.Context, companyID, viewerID int64, ownerView bool, page int) ([]*shiftmodel.Shift, pagination.Page, error) {
	return s.repo.ListForCompany(ctx, companyID, viewerID, ownerView, page)
}

// ListForEmployee returns the shift history of one employee row. Callers are
// expected to have resolved the employee through the visibility policy first.
func (s *Service) ListForEmployee(ctx context.Context, employeeID int64, page int) ([]*shiftmodel.Shift, pagination.Page, error) {
	return s.repo.ListForEmployee(ctx, employeeID, page)
}
