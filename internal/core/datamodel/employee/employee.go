package employee

import "time"

// Employee joins one user to one company in a role. The (user_id, company_id)
// pair is unique for all time: re-inviting a removed employee revives the
// original row and keeps its badge uid.
type Employee struct {
	ID         int64     `json:"id" gorm:"primaryKey"`
	UID        string    `json:"uid" gorm:"column:uid;uniqueIndex;not null"`
	UserID     int64     `json:"user_id" gorm:"column:user_id;uniqueIndex:idx_employees_user_company;not null"`
	CompanyID  int64     `json:"company_id" gorm:"column:company_id;uniqueIndex:idx_employees_user_company;not null"`
	RoleID     int64     `json:"role_id" gorm:"column:role_id;not null"`
	IsAccepted bool      `json:"is_accepted" gorm:"column:is_accepted;default:false"`
	IsDeleted  bool      `json:"-" gorm:"column:is_deleted;default:false"`
	CreatedAt  time.Time `json:"created_at" gorm:"column:created_at;autoCreateTime"`
}

func (Employee) TableName() string {
	return "employees"
}
