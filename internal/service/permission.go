package service

import (
	"strings"

	"pet-cafe/backend/config"
	apperrors "pet-cafe/backend/pkg/errors"
)

// ── 权限 ──

// 写操作能力
const (
	CapTeamWrite        = "team:write"
	CapTeamMembersWrite = "team:members:write"
	CapTeamShiftsWrite  = "team:shifts:write"
	CapEmployeeWrite    = "employee:write"
	CapWorkTypeWrite    = "work_type:write"
	CapWorkShiftWrite   = "work_shift:write"
	CapSlotWrite        = "slot:write"
)

// Actor 发起写操作的主体
type Actor struct {
	ID   string
	Role string
}

// PermissionChecker 权限判定，由调用方注入
type PermissionChecker interface {
	HasPermission(actor Actor, capability string) bool
}

// PermissionFunc 函数适配器
type PermissionFunc func(actor Actor, capability string) bool

func (f PermissionFunc) HasPermission(actor Actor, capability string) bool {
	return f(actor, capability)
}

// AllowAll 放行全部操作（测试与本地工具用）
var AllowAll = PermissionFunc(func(Actor, string) bool { return true })

// RolePermissions 按配置的角色 → 能力表判定
type RolePermissions struct {
	roles map[string]map[string]bool
}

// NewRolePermissions 由配置构造；角色名不区分大小写
func NewRolePermissions(cfg *config.PermissionConfig) *RolePermissions {
	p := &RolePermissions{roles: make(map[string]map[string]bool, len(cfg.Roles))}
	for role, caps := range cfg.Roles {
		set := make(map[string]bool, len(caps))
		for _, c := range caps {
			set[strings.TrimSpace(c)] = true
		}
		p.roles[strings.ToLower(role)] = set
	}
	return p
}

func (p *RolePermissions) HasPermission(actor Actor, capability string) bool {
	if actor.ID == "" {
		return false
	}
	caps := p.roles[strings.ToLower(actor.Role)]
	return caps["*"] || caps[capability]
}

func authorize(checker PermissionChecker, actor Actor, capability string) error {
	if checker == nil || !checker.HasPermission(actor, capability) {
		return apperrors.PermissionDenied(capability)
	}
	return nil
}
