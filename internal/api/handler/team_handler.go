package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"pet-cafe/backend/internal/dto"
	"pet-cafe/backend/internal/model"
	"pet-cafe/backend/internal/service"
	"pet-cafe/backend/pkg/response"
)

// TeamHandler 团队模块 HTTP 处理器（含成员、班次、日历）
type TeamHandler struct {
	teamSvc     service.TeamService
	resolverSvc service.ResolverService
	calendarSvc service.CalendarService
}

// NewTeamHandler 创建 TeamHandler
func NewTeamHandler(teamSvc service.TeamService, resolverSvc service.ResolverService, calendarSvc service.CalendarService) *TeamHandler {
	return &TeamHandler{teamSvc: teamSvc, resolverSvc: resolverSvc, calendarSvc: calendarSvc}
}

// ListTeams 团队列表（含成员、工作类型、班次）
// GET /api/v1/teams?include_inactive=true&work_type_id=xxx
func (h *TeamHandler) ListTeams(c *gin.Context) {
	var req dto.TeamListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindFailed(c, err)
		return
	}

	teams, err := h.resolverSvc.ListTeamDetails(c.Request.Context(), service.TeamFilter{
		IncludeInactive: req.IncludeInactive,
		WorkTypeID:      req.WorkTypeID,
	})
	if err != nil {
		handleError(c, err)
		return
	}

	response.OK(c, gin.H{"list": teams})
}

// GetTeam 团队详情
// GET /api/v1/teams/:id
func (h *TeamHandler) GetTeam(c *gin.Context) {
	team, err := h.resolverSvc.ResolveTeamDetail(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}
	response.OK(c, team)
}

// CreateTeam 创建团队
// POST /api/v1/teams
func (h *TeamHandler) CreateTeam(c *gin.Context) {
	var req dto.CreateTeamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	team, err := h.teamSvc.CreateTeam(c.Request.Context(), actor, &req)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Created(c, team)
}

// UpdateTeam 更新团队
// PUT /api/v1/teams/:id
func (h *TeamHandler) UpdateTeam(c *gin.Context) {
	var req dto.UpdateTeamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	team, err := h.teamSvc.UpdateTeam(c.Request.Context(), actor, c.Param("id"), &req)
	if err != nil {
		handleError(c, err)
		return
	}
	response.OK(c, team)
}

// DeleteTeam 删除团队
// DELETE /api/v1/teams/:id
func (h *TeamHandler) DeleteTeam(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}
	if err := h.teamSvc.DeleteTeam(c.Request.Context(), actor, c.Param("id")); err != nil {
		handleError(c, err)
		return
	}
	response.OK(c, nil)
}

// ── 成员 ──

// ListMembers 团队成员（组长恒在其中）
// GET /api/v1/teams/:id/members
func (h *TeamHandler) ListMembers(c *gin.Context) {
	members, err := h.resolverSvc.ResolveTeamMembers(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}
	response.OK(c, gin.H{"list": members})
}

// AddMembers 批量添加成员
// POST /api/v1/teams/:id/members
func (h *TeamHandler) AddMembers(c *gin.Context) {
	var req dto.AddTeamMembersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	members, err := h.teamSvc.AddTeamMembers(c.Request.Context(), actor, c.Param("id"), req.EmployeeIDs)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Created(c, gin.H{"list": members})
}

// RemoveMember 移除成员
// DELETE /api/v1/teams/:id/members/:employee_id
func (h *TeamHandler) RemoveMember(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}
	if err := h.teamSvc.RemoveTeamMember(c.Request.Context(), actor, c.Param("id"), c.Param("employee_id")); err != nil {
		handleError(c, err)
		return
	}
	response.OK(c, nil)
}

// SetMemberActive 启用/停用成员
// PUT /api/v1/teams/:id/members/:employee_id/active
func (h *TeamHandler) SetMemberActive(c *gin.Context) {
	var req dto.SetMemberActiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}
	if req.IsActive == nil {
		response.BadRequest(c, response.CodeInvalidParams, "is_active 不能为空")
		return
	}
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	members, err := h.teamSvc.SetTeamMemberActive(c.Request.Context(), actor, c.Param("id"), c.Param("employee_id"), *req.IsActive)
	if err != nil {
		handleError(c, err)
		return
	}
	response.OK(c, gin.H{"list": members})
}

// ── 工作类型 / 班次 ──

// ListWorkTypes 团队工作类型
// GET /api/v1/teams/:id/work-types
func (h *TeamHandler) ListWorkTypes(c *gin.Context) {
	types, err := h.resolverSvc.ResolveTeamWorkTypes(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}
	response.OK(c, gin.H{"list": types})
}

// ListWorkShifts 团队班次
// GET /api/v1/teams/:id/work-shifts
func (h *TeamHandler) ListWorkShifts(c *gin.Context) {
	shifts, err := h.resolverSvc.ResolveTeamWorkShifts(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}
	response.OK(c, gin.H{"list": shifts})
}

// AssignWorkShifts 分配班次
// POST /api/v1/teams/:id/work-shifts
func (h *TeamHandler) AssignWorkShifts(c *gin.Context) {
	var req dto.AssignWorkShiftsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	shifts, err := h.teamSvc.AssignWorkShifts(c.Request.Context(), actor, c.Param("id"), req.WorkShiftIDs)
	if err != nil {
		handleError(c, err)
		return
	}
	response.OK(c, gin.H{"list": shifts})
}

// UnassignWorkShift 取消班次分配
// DELETE /api/v1/teams/:id/work-shifts/:shift_id
func (h *TeamHandler) UnassignWorkShift(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}
	if err := h.teamSvc.UnassignWorkShift(c.Request.Context(), actor, c.Param("id"), c.Param("shift_id")); err != nil {
		handleError(c, err)
		return
	}
	response.OK(c, nil)
}

// ShiftsCalendar 团队班次日历（iCalendar）
// GET /api/v1/teams/:id/shifts.ics?from=2026-01-05
func (h *TeamHandler) ShiftsCalendar(c *gin.Context) {
	from := time.Now()
	if s := c.Query("from"); s != "" {
		t, err := time.Parse(model.DateLayout, s)
		if err != nil {
			response.BadRequest(c, response.CodeInvalidParams, "from 格式应为 YYYY-MM-DD")
			return
		}
		from = t
	}

	body, err := h.calendarSvc.TeamShiftsICS(c.Request.Context(), c.Param("id"), from)
	if err != nil {
		handleError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="team-shifts.ics"`)
	c.Data(http.StatusOK, "text/calendar; charset=utf-8", []byte(body))
}
