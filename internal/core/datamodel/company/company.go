package company

import "time"

type Company struct {
	ID             int64     `json:"id" gorm:"primaryKey"`
	Name           string    `json:"name" gorm:"column:name;uniqueIndex;uniqueIndex:idx_companies_name_number;not null"`
	Number         int64     `json:"number" gorm:"column:number;uniqueIndex;uniqueIndex:idx_companies_name_number;not null"`
	City           string    `json:"city" gorm:"column:city;not null"`
	FoundationDate time.Time `json:"foundation_date" gorm:"column:foundation_date;type:date;not null"`
	CreatedBy      int64     `json:"created_by" gorm:"column:created_by;not null"`
	IsDeleted      bool      `json:"-" gorm:"column:is_deleted;default:false"`
	CreatedAt      time.Time `json:"created_at" gorm:"column:created_at;autoCreateTime"`
}

func (Company) TableName() string {
	return "companies"
}

type Role struct {
	ID        int64  `json:"id" gorm:"primaryKey"`
	Name      string `json:"name" gorm:"column:name;not null"`
	IsDeleted bool   `json:"-" gorm:"column:is_deleted;default:false"`
}

func (Role) TableName() string {
	return "roles"
}
