package postgres

import (
	"database/sql"
	"fmt"

	"github.com/frahmantamala/shift-tracking/internal/auth"
	"gorm.io/gorm"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		db: db,
	}
}

func (r *Repository) GetPasswordForUsername(username string) (string, int64, error) {
	var passwordHash string
	var userID int64
	query := `SELECT id, password_hash FROM users WHERE username = ? AND is_active = ?`

	row := r.db.Raw(query, username, true).Row()
	if err := row.Scan(&userID, &passwordHash); err != nil {
		if err == sql.ErrNoRows {
			return "", 0, fmt.Errorf("user not found")
		}
		return "", 0, err
	}
	return passwordHash, userID, nil
}

func (r *Repository) GetUser(userID int64) (*auth.User, error) {
	var user auth.User
	query := `SELECT id, username, email, is_staff FROM users WHERE id = ? AND is_active = ?`

	row := r.db.Raw(query, userID, true).Row()
	if err := row.Scan(&user.ID, &user.Username, &user.Email, &user.IsStaff); err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("user not found")
		}
		return nil, err
	}
	return &user, nil
}
