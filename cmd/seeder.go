package cmd

import (
	"fmt"
	"log"

	"github.com/frahmantamala/shift-tracking/internal/employee"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with sample data",
	Long:  `Seed the database with sample data for development and testing purposes.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(".")
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		sqlDB, err := initDB(cfg.Database)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}
		db, err := initGorm(sqlDB)
		if err != nil {
			log.Fatalf("failed to init orm: %v", err)
		}

		if clearData {
			for _, table := range []string{"shifts", "employees", "companies", "roles", "profiles", "users"} {
				if err := db.Exec("DELETE FROM " + table).Error; err != nil {
					log.Fatalf("failed to clear %s: %v", table, err)
				}
			}
			fmt.Println("Cleared existing data")
		}

		password := "password"
		hash, _ := bcrypt.GenerateFromPassword([]byte(password), cfg.Security.BCryptCost)

		for _, role := range []string{"Manager", "Cashier", "Clerk"} {
			var id int64
			row := db.Raw("SELECT id FROM roles WHERE name = ?", role).Row()
			if err := row.Scan(&id); err == nil {
				continue
			}
			if err := db.Exec("INSERT INTO roles (name, is_deleted) VALUES (?, false)", role).Error; err != nil {
				log.Fatalf("failed to insert role %s: %v", role, err)
			}
			fmt.Println("Seeded role:", role)
		}

		seedUser := func(username, email, firstName, lastName, phone string, staff bool) int64 {
			var id int64
			row := db.Raw("SELECT id FROM users WHERE username = ?", username).Row()
			if err := row.Scan(&id); err == nil {
				fmt.Println("user already exists:", username)
				return id
			}
			err := db.Exec(
				"INSERT INTO users (username, email, first_name, last_name, password_hash, is_staff, is_active, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, true, now(), now())",
				username, email, firstName, lastName, string(hash), staff,
			).Error
			if err != nil {
				log.Fatalf("failed to insert user %s: %v", username, err)
			}
			if err := db.Raw("SELECT id FROM users WHERE username = ?", username).Row().Scan(&id); err != nil {
				log.Fatalf("failed to lookup user %s: %v", username, err)
			}
			if err := db.Exec("INSERT INTO profiles (user_id, phone_number) VALUES (?, ?)", id, phone).Error; err != nil {
				log.Fatalf("failed to insert profile for %s: %v", username, err)
			}
			fmt.Println("Seeded user:", username)
			return id
		}

		adminID := seedUser("admin", "admin@mail.com", "Site", "Admin", "+628110000001", true)
		ownerID := seedUser("owner", "owner@mail.com", "Olivia", "Owner", "+628110000002", false)
		workerID := seedUser("worker", "worker@mail.com", "Wira", "Worker", "+628110000003", false)
		_ = adminID

		var companyID int64
		row := db.Raw("SELECT id FROM companies WHERE name = ?", "Demo Mart").Row()
		if err := row.Scan(&companyID); err != nil {
			err := db.Exec(
				"INSERT INTO companies (name, number, city, foundation_date, created_by, is_deleted, created_at) VALUES (?, ?, ?, ?, ?, false, now())",
				"Demo Mart", 100001, "Jakarta", "2015-04-01", ownerID,
			).Error
			if err != nil {
				log.Fatalf("failed to insert demo company: %v", err)
			}
			if err := db.Raw("SELECT id FROM companies WHERE name = ?", "Demo Mart").Row().Scan(&companyID); err != nil {
				log.Fatalf("failed to lookup demo company: %v", err)
			}
			fmt.Println("Seeded company: Demo Mart")
		}

		var roleID int64
		if err := db.Raw("SELECT id FROM roles WHERE name = ?", "Cashier").Row().Scan(&roleID); err != nil {
			log.Fatalf("failed to lookup cashier role: %v", err)
		}

		var employeeID int64
		row = db.Raw("SELECT id FROM employees WHERE user_id = ? AND company_id = ?", workerID, companyID).Row()
		if err := row.Scan(&employeeID); err != nil {
			uid, err := employee.NewBadgeUID()
			if err != nil {
				log.Fatalf("failed to generate badge uid: %v", err)
			}
			err = db.Exec(
				"INSERT INTO employees (uid, user_id, company_id, role_id, is_accepted, is_deleted, created_at) VALUES (?, ?, ?, ?, true, false, now())",
				uid, workerID, companyID, roleID,
			).Error
			if err != nil {
				log.Fatalf("failed to insert demo employee: %v", err)
			}
			fmt.Println("Seeded employee with badge uid:", uid)
		}

		fmt.Println("Seeding complete")
	},
}
