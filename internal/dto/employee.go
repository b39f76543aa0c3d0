package dto

import "github.com/shopspring/decimal"

// ── 员工模块 DTO ──

// CreateEmployeeRequest 创建员工请求
type CreateEmployeeRequest struct {
	FullName  string          `json:"full_name" binding:"required"`
	Email     string          `json:"email"`
	Phone     string          `json:"phone"`
	Address   string          `json:"address"`
	Skills    []string        `json:"skills"`
	Salary    decimal.Decimal `json:"salary"`
	SubRole   string          `json:"sub_role"`
	AvatarURL string          `json:"avatar_url"`
}

// UpdateEmployeeRequest 更新员工请求（字段为 nil 表示不修改）
type UpdateEmployeeRequest struct {
	FullName  *string          `json:"full_name"`
	Email     *string          `json:"email"`
	Phone     *string          `json:"phone"`
	Address   *string          `json:"address"`
	Skills    []string         `json:"skills"`
	Salary    *decimal.Decimal `json:"salary"`
	SubRole   *string          `json:"sub_role"`
	AvatarURL *string          `json:"avatar_url"`
}

// EmployeeListRequest 员工列表查询参数
type EmployeeListRequest struct {
	SubRole string `form:"sub_role"`
	Keyword string `form:"keyword"`
}

// EmployeeResponse 员工信息响应
type EmployeeResponse struct {
	ID        string          `json:"id"`
	FullName  string          `json:"full_name"`
	Email     string          `json:"email,omitempty"`
	Phone     string          `json:"phone,omitempty"`
	Address   string          `json:"address,omitempty"`
	Skills    []string        `json:"skills"`
	Salary    decimal.Decimal `json:"salary"`
	SubRole   string          `json:"sub_role,omitempty"`
	AvatarURL string          `json:"avatar_url,omitempty"`
	AuditResponse
}
