package model

// 团队状态
const (
	TeamStatusActive   = "ACTIVE"
	TeamStatusInactive = "INACTIVE"
)

// Team 团队表 — 对应 teams
type Team struct {
	BaseModel
	Name        string `json:"name"`
	Description string `json:"description"`
	LeaderID    string `json:"leader_id"`
	IsActive    bool   `json:"is_active"`
	Status      string `json:"status"`
}

func (Team) TableName() string { return "teams" }

// TeamMember 团队成员关联表 — 对应 team_members
//
// 同一 (team_id, employee_id) 最多存在一条未删除且 is_active 的记录。
type TeamMember struct {
	BaseModel
	TeamID     string `json:"team_id"`
	EmployeeID string `json:"employee_id"`
	IsActive   bool   `json:"is_active"`
}

func (TeamMember) TableName() string { return "team_members" }

// TeamWorkType 团队工作类型关联表 — 对应 team_work_types
type TeamWorkType struct {
	BaseModel
	TeamID     string `json:"team_id"`
	WorkTypeID string `json:"work_type_id"`
}

func (TeamWorkType) TableName() string { return "team_work_types" }

// TeamWorkShift 团队班次关联表 — 对应 team_work_shifts
type TeamWorkShift struct {
	BaseModel
	TeamID      string `json:"team_id"`
	WorkShiftID string `json:"work_shift_id"`
}

func (TeamWorkShift) TableName() string { return "team_work_shifts" }
