package dto

// ── 团队模块 DTO ──

// CreateTeamRequest 创建团队请求
type CreateTeamRequest struct {
	Name         string   `json:"name"          binding:"required"`
	Description  string   `json:"description"   binding:"required"`
	LeaderID     string   `json:"leader_id"     binding:"required"`
	WorkTypeIDs  []string `json:"work_type_ids" binding:"required"`
	MemberIDs    []string `json:"member_ids"`
	WorkShiftIDs []string `json:"work_shift_ids"`
	IsActive     *bool    `json:"is_active"` // 缺省为 true
	Status       string   `json:"status"`    // 缺省为 ACTIVE
}

// UpdateTeamRequest 更新团队请求；WorkTypeIDs 非 nil 时整体替换团队的工作类型集合
type UpdateTeamRequest struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	LeaderID    *string  `json:"leader_id"`
	IsActive    *bool    `json:"is_active"`
	Status      *string  `json:"status"`
	WorkTypeIDs []string `json:"work_type_ids"`
}

// TeamListRequest 团队列表查询参数
type TeamListRequest struct {
	IncludeInactive bool   `form:"include_inactive"`
	WorkTypeID      string `form:"work_type_id"`
}

// AddTeamMembersRequest 添加成员请求
type AddTeamMembersRequest struct {
	EmployeeIDs []string `json:"employee_ids" binding:"required"`
}

// SetMemberActiveRequest 启用/停用成员请求
type SetMemberActiveRequest struct {
	IsActive *bool `json:"is_active" binding:"required"`
}

// AssignWorkShiftsRequest 分配班次请求
type AssignWorkShiftsRequest struct {
	WorkShiftIDs []string `json:"work_shift_ids" binding:"required"`
}

// TeamResponse 团队基础信息
type TeamResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	LeaderID    string `json:"leader_id"`
	IsActive    bool   `json:"is_active"`
	Status      string `json:"status"`
	AuditResponse
}

// TeamMemberResponse 团队成员（嵌套员工信息）
//
// Synthetic 为 true 表示该行由组长身份推导而来，存储中没有对应的成员记录。
type TeamMemberResponse struct {
	ID         string           `json:"id"`
	TeamID     string           `json:"team_id"`
	EmployeeID string           `json:"employee_id"`
	IsActive   bool             `json:"is_active"`
	IsLeader   bool             `json:"is_leader"`
	Synthetic  bool             `json:"synthetic"`
	Employee   EmployeeResponse `json:"employee"`
	AuditResponse
}

// TeamWorkShiftResponse 团队班次（嵌套班次信息）
type TeamWorkShiftResponse struct {
	ID          string            `json:"id"`
	TeamID      string            `json:"team_id"`
	WorkShiftID string            `json:"work_shift_id"`
	WorkShift   WorkShiftResponse `json:"work_shift"`
	AuditResponse
}

// TeamDetailResponse 团队详情（组长、成员、工作类型、班次）
type TeamDetailResponse struct {
	TeamResponse
	Leader     *EmployeeResponse       `json:"leader"`
	Members    []TeamMemberResponse    `json:"team_members"`
	WorkTypes  []WorkTypeResponse      `json:"work_types"`
	WorkShifts []TeamWorkShiftResponse `json:"team_work_shifts"`
}
