package postgres_test

import (
	"context"
	"fmt"
	"net/url"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/frahmantamala/shift-tracking/internal/company"
	companyPostgres "github.com/frahmantamala/shift-tracking/internal/company/postgres"
	companymodel "github.com/frahmantamala/shift-tracking/internal/core/datamodel/company"
	employeemodel "github.com/frahmantamala/shift-tracking/internal/core/datamodel/employee"
	usermodel "github.com/frahmantamala/shift-tracking/internal/core/datamodel/user"
)

func TestCompanyPostgres(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Company Postgres Suite")
}

var _ = Describe("Company PostgreSQL Repository", func() {
	var (
		db   *gorm.DB
		repo company.Repository
		ctx  context.Context

		owner  usermodel.User
		member usermodel.User
		comp   companymodel.Company
	)

	addEmployee := func(userID, companyID int64, accepted bool) employeemodel.Employee {
		emp := employeemodel.Employee{
			UID:        fmt.Sprintf("badge%05d%05d", userID, companyID),
			UserID:     userID,
			CompanyID:  companyID,
			RoleID:     1,
			IsAccepted: accepted,
		}
		Expect(db.Create(&emp).Error).NotTo(HaveOccurred())
		return emp
	}

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

		repo = companyPostgres.NewRepository(db)
		ctx = context.Background()

		owner = usermodel.User{Username: "owner", Email: "owner@mail.com", PasswordHash: "x", IsActive: true}
		Expect(db.Create(&owner).Error).NotTo(HaveOccurred())
		member = usermodel.User{Username: "member", Email: "member@mail.com", PasswordHash: "x", IsActive: true}
		Expect(db.Create(&member).Error).NotTo(HaveOccurred())

		role := companymodel.Role{Name: "Cashier"}
		Expect(db.Create(&role).Error).NotTo(HaveOccurred())

		comp = companymodel.Company{
			Name:           "Demo Mart",
			Number:         100001,
			City:           "Jakarta",
			FoundationDate: time.Date(2015, 4, 1, 0, 0, 0, 0, time.UTC),
			CreatedBy:      owner.ID,
		}
		Expect(db.Create(&comp).Error).NotTo(HaveOccurred())
	})

	Describe("VisibleByID", func() {
		It("should show the company to its owner", func() {
			got, err := repo.VisibleByID(ctx, comp.ID, owner.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(got).NotTo(BeNil())
		})

		It("should show the company to an accepted live member", func() {
			addEmployee(member.ID, comp.ID, true)

			got, err := repo.VisibleByID(ctx, comp.ID, member.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(got).NotTo(BeNil())
		})

		It("should hide the company from a pending member", func() {
			addEmployee(member.ID, comp.ID, false)

			got, err := repo.VisibleByID(ctx, comp.ID, member.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(got).To(BeNil())
		})

		It("should hide the company from a removed member", func() {
			emp := addEmployee(member.ID, comp.ID, true)
			Expect(db.Model(&emp).Update("is_deleted", true).Error).NotTo(HaveOccurred())

			got, err := repo.VisibleByID(ctx, comp.ID, member.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(got).To(BeNil())
		})

		It("should hide a soft-deleted company from everyone", func() {
			Expect(repo.SoftDelete(ctx, comp.ID)).To(Succeed())

			got, err := repo.VisibleByID(ctx, comp.ID, owner.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(got).To(BeNil())
		})
	})

	Describe("ListOwned and ListMember", func() {
		var other companymodel.Company

		BeforeEach(func() {
			other = companymodel.Company{
				Name:           "Member Mart",
				Number:         100002,
				City:           "Bandung",
				FoundationDate: time.Date(2018, 1, 1, 0, 0, 0, 0, time.UTC),
				CreatedBy:      member.ID,
			}
			Expect(db.Create(&other).Error).NotTo(HaveOccurred())
		})

		It("should split owned and accepted-member companies into buckets", func() {
			addEmployee(owner.ID, other.ID, true)

			owned, _, err := repo.ListOwned(ctx, owner.ID, nil, 1)
			Expect(err).NotTo(HaveOccurred())
			Expect(owned).To(HaveLen(1))
			Expect(owned[0].Name).To(Equal("Demo Mart"))

			accepted, _, err := repo.ListMember(ctx, owner.ID, true, nil, 1)
			Expect(err).NotTo(HaveOccurred())
			Expect(accepted).To(HaveLen(1))
			Expect(accepted[0].Name).To(Equal("Member Mart"))

			pending, _, err := repo.ListMember(ctx, owner.ID, false, nil, 1)
			Expect(err).NotTo(HaveOccurred())
			Expect(pending).To(BeEmpty())
		})

		It("should put pending invitations in the pending bucket only", func() {
			addEmployee(owner.ID, other.ID, false)

			accepted, _, err := repo.ListMember(ctx, owner.ID, true, nil, 1)
			Expect(err).NotTo(HaveOccurred())
			Expect(accepted).To(BeEmpty())

			pending, _, err := repo.ListMember(ctx, owner.ID, false, nil, 1)
			Expect(err).NotTo(HaveOccurred())
			Expect(pending).To(HaveLen(1))
		})

		It("should narrow owned companies by the name contains filter", func() {
			filters := url.Values{}
			filters.Set("name", "Demo")
			owned, _, err := repo.ListOwned(ctx, owner.ID, filters, 1)
			Expect(err).NotTo(HaveOccurred())
			Expect(owned).To(HaveLen(1))

			filters.Set("name", "Nothing")
			owned, _, err = repo.ListOwned(ctx, owner.ID, filters, 1)
			Expect(err).NotTo(HaveOccurred())
			Expect(owned).To(BeEmpty())
		})
	})

	Describe("ByName and ByNumber", func() {
		It("should resolve live companies for uniqueness checks", func() {
			got, err := repo.ByName(ctx, "Demo Mart")
			Expect(err).NotTo(HaveOccurred())
			Expect(got).NotTo(BeNil())

			got, err = repo.ByNumber(ctx, 100001)
			Expect(err).NotTo(HaveOccurred())
			Expect(got).NotTo(BeNil())
		})

		It("should ignore soft-deleted companies", func() {
			Expect(repo.SoftDelete(ctx, comp.ID)).To(Succeed())

			got, err := repo.ByName(ctx, "Demo Mart")
			Expect(err).NotTo(HaveOccurred())
			Expect(got).To(BeNil())
		})
	})
})
