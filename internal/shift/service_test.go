package shift_test

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	internal "github.com/frahmantamala/shift-tracking/internal"
	"github.com/frahmantamala/shift-tracking/internal/core/common/pagination"
	employeemodel "github.com/frahmantamala/shift-tracking/internal/core/datamodel/employee"
	shiftmodel "github.com/frahmantamala/shift-tracking/internal/core/datamodel/shift"
	"github.com/frahmantamala/shift-tracking/internal/shift"
)

func TestShiftService(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Shift Service Suite")
}

// Mock repository for testing
type mockShiftRepository struct {
	employees      map[string]*employeemodel.Employee // key: "userID:companyID"
	employeesByUID map[string]*employeemodel.Employee
	openShifts     map[int64]*shiftmodel.Shift
	shifts         []*shiftmodel.Shift
	createError    error
	closeRows      int64
	closeRowsSet   bool
	closeError     error
	lookupError    error
	nextID         int64
}

func newMockShiftRepository() *mockShiftRepository {
	return &mockShiftRepository{
		employees:      make(map[string]*employeemodel.Employee),
		employeesByUID: make(map[string]*employeemodel.Employee),
		openShifts:     make(map[int64]*shiftmodel.Shift),
		shifts:         make([]*shiftmodel.Shift, 0),
		nextID:         1,
	}
}

func key(userID, companyID int64) string {
	return fmt.Sprintf("%d:%d", userID, companyID)
}

func (m *mockShiftRepository) addEmployee(emp *employeemodel.Employee) {
	m.employees[key(emp.UserID, emp.CompanyID)] = emp
	m.employeesByUID[emp.UID] = emp
}

func (m *mockShiftRepository) ActiveEmployee(_ context.Context, userID, companyID int64) (*employeemodel.Employee, error) {
	if m.lookupError != nil {
		return nil, m.lookupError
	}
	return m.employees[key(userID, companyID)], nil
}

func (m *mockShiftRepository) EmployeeByBadge(_ context.Context, uid string) (*employeemodel.Employee, error) {
	if m.lookupError != nil {
		return nil, m.lookupError
	}
	return m.employeesByUID[uid], nil
}

func (m *mockShiftRepository) OpenShift(_ context.Context, employeeID int64) (*shiftmodel.Shift, error) {
	if m.lookupError != nil {
		return nil, m.lookupError
	}
	return m.openShifts[employeeID], nil
}

func (m *mockShiftRepository) Create(_ context.Context, sh *shiftmodel.Shift) error {
	if m.createError != nil {
		return m.createError
	}
	sh.ID = m.nextID
	m.nextID++
	m.openShifts[sh.EmployeeID] = sh
	m.shifts = append(m.shifts, sh)
	return nil
}

func (m *mockShiftRepository) CloseShift(_ context.Context, shiftID int64, exitTime time.Time) (int64, error) {
	if m.closeError != nil {
		return 0, m.closeError
	}
	if m.closeRowsSet {
		return m.closeRows, nil
	}
	for employeeID, sh := range m.openShifts {
		if sh.ID == shiftID {
			sh.ExitTime = &exitTime
			delete(m.openShifts, employeeID)
			return 1, nil
		}
	}
	return 0, nil
}

func (m *mockShiftRepository) ListVisible(_ context.Context, _ int64, _ url.Values, _ int) ([]*shiftmodel.Shift, pagination.Page, error) {
	return m.shifts, pagination.Page{Number: 1, Size: pagination.PageSize}, nil
}

func (m *mockShiftRepository) ListForCompany(_ context.Context, _, _ int64, _ bool, _ int) ([]*shiftmodel.Shift, pagination.Page, error) {
	return m.shifts, pagination.Page{Number: 1, Size: pagination.PageSize}, nil
}

func (m *mockShiftRepository) ListForEmployee(_ context.Context, _ int64, _ int) ([]*shiftmodel.Shift, pagination.Page, error) {
	return m.shifts, pagination.Page{Number: 1, Size: pagination.PageSize}, nil
}

var _ = Describe("ShiftService", func() {
	var (
		service  *shift.Service
		mockRepo *mockShiftRepository
		ctx      context.Context
		emp      *employeemodel.Employee
	)

	BeforeEach(func() {
		mockRepo = newMockShiftRepository()
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service = shift.NewService(mockRepo, logger)
		ctx = context.Background()

		emp = &employeemodel.Employee{
			ID:         7,
			UID:        "a1b2c3d4e5",
			UserID:     123,
			CompanyID:  42,
			RoleID:     1,
			IsAccepted: true,
		}
		mockRepo.addEmployee(emp)
	})

	Describe("Toggle", func() {
		Context("when the employee has no open shift", func() {
			It("should start a new shift at the current time", func() {
				result, err := service.Toggle(ctx, 123, 42)

				Expect(err).ToNot(HaveOccurred())
				Expect(result.Action).To(Equal(shift.ActionStarted))
				Expect(result.Message).To(HavePrefix("Shift Started on "))
				Expect(result.Shift).ToNot(BeNil())
				Expect(result.Shift.EmployeeID).To(Equal(emp.ID))
				Expect(result.Shift.ExitTime).To(BeNil())
				Expect(result.Shift.EnterTime).To(BeTemporally("~", time.Now(), time.Second))
			})
		})

		Context("when the employee has an open shift", func() {
			BeforeEach(func() {
				mockRepo.openShifts[emp.ID] = &shiftmodel.Shift{
					ID:         99,
					EmployeeID: emp.ID,
					EnterTime:  time.Now().Add(-2 * time.Hour),
				}
			})

			It("should close the shift at the current time", func() {
				result, err := service.Toggle(ctx, 123, 42)

				Expect(err).ToNot(HaveOccurred())
				Expect(result.Action).To(Equal(shift.ActionEnded))
				Expect(result.Message).To(HavePrefix("Shift Ended on "))
				Expect(result.Shift.ExitTime).ToNot(BeNil())
				Expect(*result.Shift.ExitTime).To(BeTemporally(">=", result.Shift.EnterTime))
			})

			It("should report an internal fault when the close touches no row", func() {
				mockRepo.closeRowsSet = true
				mockRepo.closeRows = 0

				result, err := service.Toggle(ctx, 123, 42)

				Expect(result).To(BeNil())
				appErr, ok := internal.IsAppError(err)
				Expect(ok).To(BeTrue())
				Expect(appErr.Type).To(Equal(internal.ErrorTypeInternal))
				Expect(appErr.Code).To(Equal(internal.ErrCodeShiftConflict))
			})
		})

		Context("when the open shift lookup returns a closed row", func() {
			It("should report an internal fault", func() {
				exit := time.Now().Add(-time.Hour)
				mockRepo.openShifts[emp.ID] = &shiftmodel.Shift{
					ID:         99,
					EmployeeID: emp.ID,
					EnterTime:  time.Now().Add(-2 * time.Hour),
					ExitTime:   &exit,
				}

				result, err := service.Toggle(ctx, 123, 42)

				Expect(result).To(BeNil())
				appErr, ok := internal.IsAppError(err)
				Expect(ok).To(BeTrue())
				Expect(appErr.Type).To(Equal(internal.ErrorTypeInternal))
				Expect(appErr.Code).To(Equal(internal.ErrCodeShiftConflict))
			})
		})

		Context("when the open shift starts in the future", func() {
			It("should reject the close with a field error", func() {
				mockRepo.openShifts[emp.ID] = &shiftmodel.Shift{
					ID:         99,
					EmployeeID: emp.ID,
					EnterTime:  time.Now().Add(time.Hour),
				}

				result, err := service.Toggle(ctx, 123, 42)

				Expect(result).To(BeNil())
				appErr, ok := internal.IsAppError(err)
				Expect(ok).To(BeTrue())
				Expect(appErr.Type).To(Equal(internal.ErrorTypeValidation))
			})
		})

		Context("when two toggles race on the insert", func() {
			It("should surface the unique violation as an internal fault", func() {
				mockRepo.createError = shift.ErrOpenShiftExists

				result, err := service.Toggle(ctx, 123, 42)

				Expect(result).To(BeNil())
				appErr, ok := internal.IsAppError(err)
				Expect(ok).To(BeTrue())
				Expect(appErr.Type).To(Equal(internal.ErrorTypeInternal))
				Expect(appErr.Code).To(Equal(internal.ErrCodeShiftConflict))
			})
		})

		Context("when the caller is not an accepted member", func() {
			It("should deny access without revealing anything", func() {
				result, err := service.Toggle(ctx, 999, 42)

				Expect(result).To(BeNil())
				Expect(err).To(Equal(internal.ErrAccessDenied))
			})

			It("should deny access for the right user in the wrong company", func() {
				result, err := service.Toggle(ctx, 123, 41)

				Expect(result).To(BeNil())
				Expect(err).To(Equal(internal.ErrAccessDenied))
			})
		})
	})

	Describe("ToggleByBadge", func() {
		Context("with a known badge uid", func() {
			It("should toggle the badge owner's shift", func() {
				result, err := service.ToggleByBadge(ctx, "a1b2c3d4e5")

				Expect(err).ToNot(HaveOccurred())
				Expect(result.Action).To(Equal(shift.ActionStarted))
				Expect(result.Shift.EmployeeID).To(Equal(emp.ID))
			})

			It("should close an open shift on the second scan", func() {
				_, err := service.ToggleByBadge(ctx, "a1b2c3d4e5")
				Expect(err).ToNot(HaveOccurred())

				result, err := service.ToggleByBadge(ctx, "a1b2c3d4e5")
				Expect(err).ToNot(HaveOccurred())
				Expect(result.Action).To(Equal(shift.ActionEnded))
			})
		})

		Context("with an unknown badge uid", func() {
			It("should deny access", func() {
				result, err := service.ToggleByBadge(ctx, "nosuchuid0")

				Expect(result).To(BeNil())
				Expect(err).To(Equal(internal.ErrAccessDenied))
			})
		})
	})
})
