package shift

import "time"

// Shift is one clock-in/clock-out interval. A null exit_time marks the open
// shift; the partial unique index in db/migrations allows at most one open
// shift per employee.
type Shift struct {
	ID         int64      `json:"id" gorm:"primaryKey"`
	EmployeeID int64      `json:"employee_id" gorm:"column:employee_id;not null"`
	EnterTime  time.Time  `json:"enter_time" gorm:"column:enter_time;not null"`
	ExitTime   *time.Time `json:"exit_time,omitempty" gorm:"column:exit_time"`
	IsDeleted  bool       `json:"-" gorm:"column:is_deleted;default:false"`
	CreatedAt  time.Time  `json:"created_at" gorm:"column:created_at;autoCreateTime"`
}

func (Shift) TableName() string {
	return "shifts"
}

// Open reports whether the shift has not been clocked out yet.
func (s *Shift) Open() bool {
	return s.ExitTime == nil
}
