package model

// WorkShift 工作班次表 — 对应 work_shifts
type WorkShift struct {
	BaseModel
	Name           string    `json:"name"`
	Description    string    `json:"description,omitempty"`
	StartTime      string    `json:"start_time"` // "07:30:00"
	EndTime        string    `json:"end_time"`   // "12:00:00"
	ApplicableDays []Weekday `json:"applicable_days"`
	IsActive       bool      `json:"is_active"`
}

func (WorkShift) TableName() string { return "work_shifts" }

// AppliesOn 班次是否在指定星期生效
func (s WorkShift) AppliesOn(day Weekday) bool {
	for _, d := range s.ApplicableDays {
		if d == day {
			return true
		}
	}
	return false
}
