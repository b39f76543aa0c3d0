package model

// 时段状态
const (
	SlotStatusAvailable   = "AVAILABLE"
	SlotStatusUnavailable = "UNAVAILABLE"
	SlotStatusBooked      = "BOOKED"
	SlotStatusCancelled   = "CANCELLED"
)

// Slot 可预约时段表 — 对应 slots
//
// DayOfWeek 与 SpecificDate 至少其一有值；填写 SpecificDate 时 DayOfWeek 为其公历星期。
// TeamID / WorkTypeID / EmployeeID 为查找引用，PetGroupID 指向外部宠物分组，不做存在性校验。
type Slot struct {
	BaseModel
	TeamID       string  `json:"team_id"`
	WorkTypeID   string  `json:"work_type_id"`
	EmployeeID   string  `json:"employee_id,omitempty"`
	PetGroupID   string  `json:"pet_group_id,omitempty"`
	DayOfWeek    Weekday `json:"day_of_week,omitempty"`
	SpecificDate string  `json:"specific_date,omitempty"` // "2026-01-05"
	StartTime    string  `json:"start_time"`
	EndTime      string  `json:"end_time"`
	MaxCapacity  int     `json:"max_capacity"`
	Status       string  `json:"status"`
	SpecialNotes string  `json:"special_notes,omitempty"`
}

func (Slot) TableName() string { return "slots" }

// ValidSlotStatus 是否为合法时段状态
func ValidSlotStatus(s string) bool {
	switch s {
	case SlotStatusAvailable, SlotStatusUnavailable, SlotStatusBooked, SlotStatusCancelled:
		return true
	}
	return false
}
