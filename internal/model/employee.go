package model

import "github.com/shopspring/decimal"

// 员工子角色
const (
	SubRoleWorkingStaff = "WORKING_STAFF"
	SubRoleSaleStaff    = "SALE_STAFF"
)

// Employee 员工表 — 对应 employees
//
// 被 TeamMember 与 Team.LeaderID 引用，但不归属于任何团队。
type Employee struct {
	BaseModel
	FullName  string          `json:"full_name"`
	Email     string          `json:"email,omitempty"`
	Phone     string          `json:"phone,omitempty"`
	Address   string          `json:"address,omitempty"`
	Skills    []string        `json:"skills,omitempty"`
	Salary    decimal.Decimal `json:"salary"`
	SubRole   string          `json:"sub_role,omitempty"`
	AvatarURL string          `json:"avatar_url,omitempty"`
}

// TableName 指定表名
func (Employee) TableName() string { return "employees" }
