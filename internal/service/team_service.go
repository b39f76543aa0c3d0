package service

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"pet-cafe/backend/internal/dto"
	"pet-cafe/backend/internal/model"
	"pet-cafe/backend/internal/store"
	apperrors "pet-cafe/backend/pkg/errors"
	"pet-cafe/backend/pkg/metrics"
)

// ── 团队模块业务错误 ──

var (
	ErrTeamNotFound          = apperrors.Define(apperrors.ErrNotFound, "团队不存在")
	ErrLeaderNotFound        = apperrors.Define(apperrors.ErrReference, "组长不存在或已删除")
	ErrWorkTypeRefNotFound   = apperrors.Define(apperrors.ErrReference, "工作类型不存在或已删除")
	ErrEmployeeRefNotFound   = apperrors.Define(apperrors.ErrReference, "员工不存在或已删除")
	ErrWorkShiftRefNotFound  = apperrors.Define(apperrors.ErrReference, "班次不存在或已删除")
	ErrMemberDuplicate       = apperrors.Define(apperrors.ErrDuplicate, "员工已是团队的有效成员")
	ErrMemberNotFound        = apperrors.Define(apperrors.ErrNotFound, "团队成员不存在")
	ErrTeamWorkShiftNotFound = apperrors.Define(apperrors.ErrNotFound, "团队未分配该班次")
)

// TeamService 团队写操作接口（读操作见 ResolverService）
type TeamService interface {
	CreateTeam(ctx context.Context, actor Actor, req *dto.CreateTeamRequest) (*dto.TeamDetailResponse, error)
	UpdateTeam(ctx context.Context, actor Actor, id string, req *dto.UpdateTeamRequest) (*dto.TeamDetailResponse, error)
	DeleteTeam(ctx context.Context, actor Actor, id string) error
	AddTeamMembers(ctx context.Context, actor Actor, teamID string, employeeIDs []string) ([]dto.TeamMemberResponse, error)
	RemoveTeamMember(ctx context.Context, actor Actor, teamID, employeeID string) error
	SetTeamMemberActive(ctx context.Context, actor Actor, teamID, employeeID string, active bool) ([]dto.TeamMemberResponse, error)
	AssignWorkShifts(ctx context.Context, actor Actor, teamID string, workShiftIDs []string) ([]dto.TeamWorkShiftResponse, error)
	UnassignWorkShift(ctx context.Context, actor Actor, teamID, workShiftID string) error
}

type teamService struct {
	store   *store.Store
	perm    PermissionChecker
	metrics *metrics.Metrics
	logger  *zap.Logger
}

// NewTeamService 创建 TeamService 实例
func NewTeamService(st *store.Store, perm PermissionChecker, m *metrics.Metrics, logger *zap.Logger) TeamService {
	return &teamService{store: st, perm: perm, metrics: m, logger: logger}
}

// ────────────────────── CreateTeam ──────────────────────

func (s *teamService) CreateTeam(ctx context.Context, actor Actor, req *dto.CreateTeamRequest) (_ *dto.TeamDetailResponse, err error) {
	defer s.metrics.ObserveMutation("create_team", time.Now(), &err)
	if err := authorize(s.perm, actor, CapTeamWrite); err != nil {
		return nil, err
	}

	name := strings.TrimSpace(req.Name)
	description := strings.TrimSpace(req.Description)
	leaderID := strings.TrimSpace(req.LeaderID)
	switch {
	case name == "":
		return nil, apperrors.Validation("name", "团队名称不能为空")
	case description == "":
		return nil, apperrors.Validation("description", "团队描述不能为空")
	case leaderID == "":
		return nil, apperrors.Validation("leader_id", "组长不能为空")
	}
	workTypeIDs := uniqueIDs(req.WorkTypeIDs)
	if len(workTypeIDs) == 0 {
		return nil, apperrors.Validation("work_type_ids", "至少需要一个工作类型")
	}
	memberIDs, dup := uniqueStrict(req.MemberIDs)
	if dup != "" {
		return nil, apperrors.WithID(ErrMemberDuplicate, dup)
	}
	shiftIDs := uniqueIDs(req.WorkShiftIDs)

	status := strings.TrimSpace(req.Status)
	if status == "" {
		status = model.TeamStatusActive
	}
	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	var detail *dto.TeamDetailResponse
	err = s.store.Update(ctx, actor.ID, func(tx *store.Tx) error {
		if !tx.View.Employees().Exists(leaderID) {
			return apperrors.WithID(ErrLeaderNotFound, leaderID)
		}
		if err := requireLive(tx.View.WorkTypes(), workTypeIDs, ErrWorkTypeRefNotFound); err != nil {
			return err
		}
		if err := requireLive(tx.View.Employees(), memberIDs, ErrEmployeeRefNotFound); err != nil {
			return err
		}
		if err := requireLive(tx.View.WorkShifts(), shiftIDs, ErrWorkShiftRefNotFound); err != nil {
			return err
		}

		teamID, err := tx.Teams().Insert(model.Team{
			Name:        name,
			Description: description,
			LeaderID:    leaderID,
			IsActive:    isActive,
			Status:      status,
		})
		if err != nil {
			return err
		}
		for _, wtID := range workTypeIDs {
			if _, err := tx.TeamWorkTypes().Insert(model.TeamWorkType{TeamID: teamID, WorkTypeID: wtID}); err != nil {
				return err
			}
		}
		for _, empID := range memberIDs {
			if _, err := tx.TeamMembers().Insert(model.TeamMember{TeamID: teamID, EmployeeID: empID, IsActive: true}); err != nil {
				return err
			}
		}
		for _, wsID := range shiftIDs {
			if _, err := tx.TeamWorkShifts().Insert(model.TeamWorkShift{TeamID: teamID, WorkShiftID: wsID}); err != nil {
				return err
			}
		}

		detail, err = resolveTeamDetail(tx.View, teamID)
		return err
	})
	if err != nil {
		logFailure(s.logger, "创建团队失败", err, zap.String("name", name))
		return nil, err
	}

	s.logger.Info("团队已创建",
		zap.String("team_id", detail.ID),
		zap.String("leader_id", leaderID),
		zap.String("actor", actor.ID),
	)
	return detail, nil
}

// ────────────────────── UpdateTeam ──────────────────────

func (s *teamService) UpdateTeam(ctx context.Context, actor Actor, id string, req *dto.UpdateTeamRequest) (_ *dto.TeamDetailResponse, err error) {
	defer s.metrics.ObserveMutation("update_team", time.Now(), &err)
	if err := authorize(s.perm, actor, CapTeamWrite); err != nil {
		return nil, err
	}

	if req.Name != nil && strings.TrimSpace(*req.Name) == "" {
		return nil, apperrors.Validation("name", "团队名称不能为空")
	}
	if req.Description != nil && strings.TrimSpace(*req.Description) == "" {
		return nil, apperrors.Validation("description", "团队描述不能为空")
	}
	if req.LeaderID != nil && strings.TrimSpace(*req.LeaderID) == "" {
		return nil, apperrors.Validation("leader_id", "组长不能为空")
	}
	var workTypeIDs []string
	if req.WorkTypeIDs != nil {
		workTypeIDs = uniqueIDs(req.WorkTypeIDs)
		if len(workTypeIDs) == 0 {
			return nil, apperrors.Validation("work_type_ids", "至少需要一个工作类型")
		}
	}

	var detail *dto.TeamDetailResponse
	err = s.store.Update(ctx, actor.ID, func(tx *store.Tx) error {
		team, err := tx.View.Teams().Get(id)
		if err != nil {
			return notFoundAs(err, ErrTeamNotFound, id)
		}
		if req.LeaderID != nil {
			leaderID := strings.TrimSpace(*req.LeaderID)
			if leaderID != team.LeaderID && !tx.View.Employees().Exists(leaderID) {
				return apperrors.WithID(ErrLeaderNotFound, leaderID)
			}
		}
		if workTypeIDs != nil {
			if err := requireLive(tx.View.WorkTypes(), workTypeIDs, ErrWorkTypeRefNotFound); err != nil {
				return err
			}
		}

		if _, err := tx.Teams().Update(id, func(t *model.Team) {
			if req.Name != nil {
				t.Name = strings.TrimSpace(*req.Name)
			}
			if req.Description != nil {
				t.Description = strings.TrimSpace(*req.Description)
			}
			if req.LeaderID != nil {
				t.LeaderID = strings.TrimSpace(*req.LeaderID)
			}
			if req.IsActive != nil {
				t.IsActive = *req.IsActive
			}
			if req.Status != nil {
				t.Status = strings.TrimSpace(*req.Status)
			}
		}); err != nil {
			return err
		}

		if workTypeIDs != nil {
			if err := replaceTeamWorkTypes(tx, id, workTypeIDs); err != nil {
				return err
			}
		}

		detail, err = resolveTeamDetail(tx.View, id)
		return err
	})
	if err != nil {
		logFailure(s.logger, "更新团队失败", err, zap.String("team_id", id))
		return nil, err
	}

	s.logger.Info("团队已更新", zap.String("team_id", id), zap.String("actor", actor.ID))
	return detail, nil
}

// replaceTeamWorkTypes 将团队工作类型集合替换为 ids：移除多余关联，补齐缺失关联
func replaceTeamWorkTypes(tx *store.Tx, teamID string, ids []string) error {
	want := make(map[string]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	have := make(map[string]bool)
	for _, row := range tx.View.TeamWorkTypes().List(func(r model.TeamWorkType) bool { return r.TeamID == teamID }) {
		if want[row.WorkTypeID] && !have[row.WorkTypeID] {
			have[row.WorkTypeID] = true
			continue
		}
		if err := tx.TeamWorkTypes().SoftDelete(row.ID); err != nil {
			return err
		}
	}
	for _, id := range ids {
		if have[id] {
			continue
		}
		if _, err := tx.TeamWorkTypes().Insert(model.TeamWorkType{TeamID: teamID, WorkTypeID: id}); err != nil {
			return err
		}
	}
	return nil
}

// ────────────────────── DeleteTeam ──────────────────────

// DeleteTeam 仅软删除团队本身，关联行保留供历史查询
func (s *teamService) DeleteTeam(ctx context.Context, actor Actor, id string) (err error) {
	defer s.metrics.ObserveMutation("delete_team", time.Now(), &err)
	if err := authorize(s.perm, actor, CapTeamWrite); err != nil {
		return err
	}

	err = s.store.Update(ctx, actor.ID, func(tx *store.Tx) error {
		return notFoundAs(tx.Teams().SoftDelete(id), ErrTeamNotFound, id)
	})
	if err != nil {
		logFailure(s.logger, "删除团队失败", err, zap.String("team_id", id))
		return err
	}

	s.logger.Info("团队已删除", zap.String("team_id", id), zap.String("actor", actor.ID))
	return nil
}

// ────────────────────── AddTeamMembers ──────────────────────

// AddTeamMembers 批量添加成员，任一员工冲突则整体失败
//
// 已存在但被停用（is_active=false）的成员行会被重新启用，而不是插入新行。
func (s *teamService) AddTeamMembers(ctx context.Context, actor Actor, teamID string, employeeIDs []string) (_ []dto.TeamMemberResponse, err error) {
	defer s.metrics.ObserveMutation("add_team_members", time.Now(), &err)
	if err := authorize(s.perm, actor, CapTeamMembersWrite); err != nil {
		return nil, err
	}

	ids, dup := uniqueStrict(employeeIDs)
	if dup != "" {
		return nil, apperrors.WithID(ErrMemberDuplicate, dup)
	}
	if len(ids) == 0 {
		return nil, apperrors.Validation("employee_ids", "至少需要一名员工")
	}

	var members []dto.TeamMemberResponse
	err = s.store.Update(ctx, actor.ID, func(tx *store.Tx) error {
		team, err := tx.View.Teams().Get(teamID)
		if err != nil {
			return notFoundAs(err, ErrTeamNotFound, teamID)
		}
		if err := requireLive(tx.View.Employees(), ids, ErrEmployeeRefNotFound); err != nil {
			return err
		}

		// 先校验全部员工，再写入
		reactivate := make(map[string]string, len(ids))
		for _, empID := range ids {
			rows := tx.View.TeamMembers().List(func(m model.TeamMember) bool {
				return m.TeamID == teamID && m.EmployeeID == empID
			})
			for _, row := range rows {
				if row.IsActive {
					return apperrors.WithID(ErrMemberDuplicate, empID)
				}
				reactivate[empID] = row.ID
			}
		}

		for _, empID := range ids {
			if rowID, ok := reactivate[empID]; ok {
				if _, err := tx.TeamMembers().Update(rowID, func(m *model.TeamMember) { m.IsActive = true }); err != nil {
					return err
				}
				continue
			}
			if _, err := tx.TeamMembers().Insert(model.TeamMember{TeamID: teamID, EmployeeID: empID, IsActive: true}); err != nil {
				return err
			}
		}

		members = resolveTeamMembers(tx.View, team)
		return nil
	})
	if err != nil {
		logFailure(s.logger, "添加团队成员失败", err, zap.String("team_id", teamID))
		return nil, err
	}

	s.logger.Info("团队成员已添加",
		zap.String("team_id", teamID),
		zap.Strings("employee_ids", ids),
		zap.String("actor", actor.ID),
	)
	return members, nil
}

// ────────────────────── RemoveTeamMember ──────────────────────

func (s *teamService) RemoveTeamMember(ctx context.Context, actor Actor, teamID, employeeID string) (err error) {
	defer s.metrics.ObserveMutation("remove_team_member", time.Now(), &err)
	if err := authorize(s.perm, actor, CapTeamMembersWrite); err != nil {
		return err
	}

	err = s.store.Update(ctx, actor.ID, func(tx *store.Tx) error {
		if !tx.View.Teams().Exists(teamID) {
			return apperrors.WithID(ErrTeamNotFound, teamID)
		}
		rows := tx.View.TeamMembers().List(func(m model.TeamMember) bool {
			return m.TeamID == teamID && m.EmployeeID == employeeID
		})
		if len(rows) == 0 {
			return apperrors.WithID(ErrMemberNotFound, employeeID)
		}
		for _, row := range rows {
			if err := tx.TeamMembers().SoftDelete(row.ID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		logFailure(s.logger, "移除团队成员失败", err, zap.String("team_id", teamID), zap.String("employee_id", employeeID))
		return err
	}

	s.logger.Info("团队成员已移除",
		zap.String("team_id", teamID),
		zap.String("employee_id", employeeID),
		zap.String("actor", actor.ID),
	)
	return nil
}

// ────────────────────── SetTeamMemberActive ──────────────────────

func (s *teamService) SetTeamMemberActive(ctx context.Context, actor Actor, teamID, employeeID string, active bool) (_ []dto.TeamMemberResponse, err error) {
	defer s.metrics.ObserveMutation("set_team_member_active", time.Now(), &err)
	if err := authorize(s.perm, actor, CapTeamMembersWrite); err != nil {
		return nil, err
	}

	var members []dto.TeamMemberResponse
	err = s.store.Update(ctx, actor.ID, func(tx *store.Tx) error {
		team, err := tx.View.Teams().Get(teamID)
		if err != nil {
			return notFoundAs(err, ErrTeamNotFound, teamID)
		}
		row, ok := tx.View.TeamMembers().Find(func(m model.TeamMember) bool {
			return m.TeamID == teamID && m.EmployeeID == employeeID
		})
		if !ok {
			return apperrors.WithID(ErrMemberNotFound, employeeID)
		}
		if row.IsActive != active {
			if _, err := tx.TeamMembers().Update(row.ID, func(m *model.TeamMember) { m.IsActive = active }); err != nil {
				return err
			}
		}
		members = resolveTeamMembers(tx.View, team)
		return nil
	})
	if err != nil {
		logFailure(s.logger, "更新成员状态失败", err, zap.String("team_id", teamID), zap.String("employee_id", employeeID))
		return nil, err
	}

	s.logger.Info("团队成员状态已更新",
		zap.String("team_id", teamID),
		zap.String("employee_id", employeeID),
		zap.Bool("is_active", active),
		zap.String("actor", actor.ID),
	)
	return members, nil
}

// ────────────────────── AssignWorkShifts ──────────────────────

// AssignWorkShifts 为团队分配班次，已分配的班次不重复插入
func (s *teamService) AssignWorkShifts(ctx context.Context, actor Actor, teamID string, workShiftIDs []string) (_ []dto.TeamWorkShiftResponse, err error) {
	defer s.metrics.ObserveMutation("assign_work_shifts", time.Now(), &err)
	if err := authorize(s.perm, actor, CapTeamShiftsWrite); err != nil {
		return nil, err
	}

	ids := uniqueIDs(workShiftIDs)
	if len(ids) == 0 {
		return nil, apperrors.Validation("work_shift_ids", "至少需要一个班次")
	}

	var shifts []dto.TeamWorkShiftResponse
	inserted := 0
	err = s.store.Update(ctx, actor.ID, func(tx *store.Tx) error {
		if !tx.View.Teams().Exists(teamID) {
			return apperrors.WithID(ErrTeamNotFound, teamID)
		}
		if err := requireLive(tx.View.WorkShifts(), ids, ErrWorkShiftRefNotFound); err != nil {
			return err
		}

		assigned := make(map[string]bool)
		for _, row := range tx.View.TeamWorkShifts().List(func(r model.TeamWorkShift) bool { return r.TeamID == teamID }) {
			assigned[row.WorkShiftID] = true
		}
		for _, wsID := range ids {
			if assigned[wsID] {
				continue
			}
			if _, err := tx.TeamWorkShifts().Insert(model.TeamWorkShift{TeamID: teamID, WorkShiftID: wsID}); err != nil {
				return err
			}
			inserted++
		}

		shifts = resolveTeamWorkShifts(tx.View, teamID)
		return nil
	})
	if err != nil {
		logFailure(s.logger, "分配班次失败", err, zap.String("team_id", teamID))
		return nil, err
	}

	s.logger.Info("团队班次已分配",
		zap.String("team_id", teamID),
		zap.Int("inserted", inserted),
		zap.String("actor", actor.ID),
	)
	return shifts, nil
}

// ────────────────────── UnassignWorkShift ──────────────────────

func (s *teamService) UnassignWorkShift(ctx context.Context, actor Actor, teamID, workShiftID string) (err error) {
	defer s.metrics.ObserveMutation("unassign_work_shift", time.Now(), &err)
	if err := authorize(s.perm, actor, CapTeamShiftsWrite); err != nil {
		return err
	}

	err = s.store.Update(ctx, actor.ID, func(tx *store.Tx) error {
		if !tx.View.Teams().Exists(teamID) {
			return apperrors.WithID(ErrTeamNotFound, teamID)
		}
		rows := tx.View.TeamWorkShifts().List(func(r model.TeamWorkShift) bool {
			return r.TeamID == teamID && r.WorkShiftID == workShiftID
		})
		if len(rows) == 0 {
			return apperrors.WithID(ErrTeamWorkShiftNotFound, workShiftID)
		}
		for _, row := range rows {
			if err := tx.TeamWorkShifts().SoftDelete(row.ID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		logFailure(s.logger, "取消班次分配失败", err, zap.String("team_id", teamID), zap.String("work_shift_id", workShiftID))
		return err
	}

	s.logger.Info("团队班次已取消", zap.String("team_id", teamID), zap.String("work_shift_id", workShiftID), zap.String("actor", actor.ID))
	return nil
}

// ── 校验辅助 ──

// requireLive 校验每个 ID 都指向未删除的行，否则返回 sentinel（附带首个缺失 ID）
func requireLive[T any](table store.ReadTable[T], ids []string, sentinel error) error {
	for _, id := range ids {
		if !table.Exists(id) {
			return apperrors.WithID(sentinel, id)
		}
	}
	return nil
}

// uniqueIDs 去除空白与重复，保持首次出现顺序
func uniqueIDs(ids []string) []string {
	out := make([]string, 0, len(ids))
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

// uniqueStrict 同 uniqueIDs，但遇到重复时返回重复的 ID
func uniqueStrict(ids []string) ([]string, string) {
	out := make([]string, 0, len(ids))
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if seen[id] {
			return nil, id
		}
		seen[id] = true
		out = append(out, id)
	}
	return out, ""
}
