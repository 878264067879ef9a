package user

import "time"

type User struct {
	ID           int64     `gorm:"primaryKey"`
	Username     string    `gorm:"column:username;uniqueIndex;not null"`
	Email        string    `gorm:"column:email;uniqueIndex;not null"`
	FirstName    string    `gorm:"column:first_name"`
	LastName     string    `gorm:"column:last_name"`
	PasswordHash string    `gorm:"column:password_hash;not null"`
	IsStaff      bool      `gorm:"column:is_staff;default:false"`
	IsActive     bool      `gorm:"column:is_active;default:true"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (User) TableName() string {
	return "users"
}

// Profile is the 1:1 satellite of a user; it is inserted explicitly right
// after the user row by the provisioning workflow.
type Profile struct {
	ID          int64   `gorm:"primaryKey"`
	UserID      int64   `gorm:"column:user_id;uniqueIndex;not null"`
	PhoneNumber *string `gorm:"column:phone_number;uniqueIndex"`
}

func (Profile) TableName() string {
	return "profiles"
}

func (u *User) FullName() string {
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}
