package postgres_test

import (
	"context"
	"net/url"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	companymodel "github.com/frahmantamala/shift-tracking/internal/core/datamodel/company"
	employeemodel "github.com/frahmantamala/shift-tracking/internal/core/datamodel/employee"
	usermodel "github.com/frahmantamala/shift-tracking/internal/core/datamodel/user"
	"github.com/frahmantamala/shift-tracking/internal/employee"
	employeePostgres "github.com/frahmantamala/shift-tracking/internal/employee/postgres"
)

func TestEmployeePostgres(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Employee Postgres Suite")
}

var _ = Describe("Employee PostgreSQL Repository", func() {
	var (
		db   *gorm.DB
		repo employee.Repository
		ctx  context.Context

		owner  usermodel.User
		worker usermodel.User
		comp   companymodel.Company
		role   companymodel.Role
	)

	BeforeEach(func() {
		var err error
		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
			Logger: gormlogger.Default.LogMode(gormlogger.Silent),
		})
		Expect(err).NotTo(HaveOccurred())

		err = db.AutoMigrate(
			&usermodel.User{},
			&companymodel.Company{},
			&companymodel.Role{},
			&employeemodel.Employee{},
		)
		Expect(err).NotTo(HaveOccurred())

		repo = employeePostgres.NewEmployeeRepository(db)
		ctx = context.Background()

		owner = usermodel.User{Username: "owner", Email: "owner@mail.com", PasswordHash: "x", IsActive: true}
		Expect(db.Create(&owner).Error).NotTo(HaveOccurred())
		worker = usermodel.User{Username: "worker", Email: "worker@mail.com", PasswordHash: "x", IsActive: true}
		Expect(db.Create(&worker).Error).NotTo(HaveOccurred())

		comp = companymodel.Company{
			Name:           "Demo Mart",
			Number:         100001,
			City:           "Jakarta",
			FoundationDate: time.Date(2015, 4, 1, 0, 0, 0, 0, time.UTC),
			CreatedBy:      owner.ID,
		}
		Expect(db.Create(&comp).Error).NotTo(HaveOccurred())

		role = companymodel.Role{Name: "Cashier"}
		Expect(db.Create(&role).Error).NotTo(HaveOccurred())
	})

	Describe("CompanyOwned", func() {
		It("should resolve for the owner", func() {
			got, err := repo.CompanyOwned(ctx, comp.ID, owner.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(got).NotTo(BeNil())
		})

		It("should return nothing for anyone else", func() {
			got, err := repo.CompanyOwned(ctx, comp.ID, worker.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(got).To(BeNil())
		})

		It("should return nothing for a soft-deleted company", func() {
			Expect(db.Model(&comp).Update("is_deleted", true).Error).NotTo(HaveOccurred())

			got, err := repo.CompanyOwned(ctx, comp.ID, owner.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(got).To(BeNil())
		})
	})

	Describe("CreateOrRevive", func() {
		It("should insert a fresh row", func() {
			emp := &employeemodel.Employee{
				UID:       "badge00001",
				UserID:    worker.ID,
				CompanyID: comp.ID,
				RoleID:    role.ID,
			}

			created, revived, err := repo.CreateOrRevive(ctx, emp)
			Expect(err).NotTo(HaveOccurred())
			Expect(revived).To(BeFalse())
			Expect(created.ID).To(BeNumerically(">", 0))
		})

		It("should revive a soft-deleted row keeping its badge uid", func() {
			original := &employeemodel.Employee{
				UID:       "badge00001",
				UserID:    worker.ID,
				CompanyID: comp.ID,
				RoleID:    role.ID,
			}
			created, _, err := repo.CreateOrRevive(ctx, original)
			Expect(err).NotTo(HaveOccurred())

			Expect(repo.SoftDelete(ctx, created.ID)).To(Succeed())

			otherRole := companymodel.Role{Name: "Manager"}
			Expect(db.Create(&otherRole).Error).NotTo(HaveOccurred())

			replacement := &employeemodel.Employee{
				UID:       "badge99999",
				UserID:    worker.ID,
				CompanyID: comp.ID,
				RoleID:    otherRole.ID,
			}
			revivedRow, revived, err := repo.CreateOrRevive(ctx, replacement)
			Expect(err).NotTo(HaveOccurred())
			Expect(revived).To(BeTrue())
			Expect(revivedRow.ID).To(Equal(created.ID))
			Expect(revivedRow.UID).To(Equal("badge00001"))
			Expect(revivedRow.RoleID).To(Equal(otherRole.ID))
			Expect(revivedRow.IsDeleted).To(BeFalse())
		})
	})

	Describe("VisibleEmployee", func() {
		var emp *employeemodel.Employee

		BeforeEach(func() {
			emp = &employeemodel.Employee{
				UID:       "badge00001",
				UserID:    worker.ID,
				CompanyID: comp.ID,
				RoleID:    role.ID,
			}
			_, _, err := repo.CreateOrRevive(ctx, emp)
			Expect(err).NotTo(HaveOccurred())
		})

		It("should be visible to its own user", func() {
			got, err := repo.VisibleEmployee(ctx, emp.ID, worker.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(got).NotTo(BeNil())
		})

		It("should be visible to the company owner", func() {
			got, err := repo.VisibleEmployee(ctx, emp.ID, owner.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(got).NotTo(BeNil())
		})

		It("should be hidden from unrelated users", func() {
			stranger := usermodel.User{Username: "stranger", Email: "s@mail.com", PasswordHash: "x", IsActive: true}
			Expect(db.Create(&stranger).Error).NotTo(HaveOccurred())

			got, err := repo.VisibleEmployee(ctx, emp.ID, stranger.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(got).To(BeNil())
		})
	})

	Describe("ListForOwner", func() {
		BeforeEach(func() {
			emp := &employeemodel.Employee{
				UID:       "badge00001",
				UserID:    worker.ID,
				CompanyID: comp.ID,
				RoleID:    role.ID,
			}
			_, _, err := repo.CreateOrRevive(ctx, emp)
			Expect(err).NotTo(HaveOccurred())
		})

		It("should list employees of owned companies", func() {
			employees, page, err := repo.ListForOwner(ctx, owner.ID, nil, 1)
			Expect(err).NotTo(HaveOccurred())
			Expect(employees).To(HaveLen(1))
			Expect(page.TotalRows).To(Equal(int64(1)))
		})

		It("should list nothing for a non-owner", func() {
			employees, _, err := repo.ListForOwner(ctx, worker.ID, nil, 1)
			Expect(err).NotTo(HaveOccurred())
			Expect(employees).To(BeEmpty())
		})

		It("should narrow by the uid contains filter", func() {
			filters := url.Values{}
			filters.Set("uid", "badge000")
			employees, _, err := repo.ListForOwner(ctx, owner.ID, filters, 1)
			Expect(err).NotTo(HaveOccurred())
			Expect(employees).To(HaveLen(1))

			filters.Set("uid", "nomatch")
			employees, _, err = repo.ListForOwner(ctx, owner.ID, filters, 1)
			Expect(err).NotTo(HaveOccurred())
			Expect(employees).To(BeEmpty())
		})
	})
})
