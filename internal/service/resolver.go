package service

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"pet-cafe/backend/internal/dto"
	"pet-cafe/backend/internal/model"
	"pet-cafe/backend/internal/store"
)

// leaderMembershipNamespace 组长隐式成员行 ID 的 UUIDv5 命名空间
var leaderMembershipNamespace = uuid.MustParse("5b0c51f4-3c1e-4a57-9d87-2f0e6c8a41d3")

// LeaderMembershipID 返回组长隐式成员行的确定性 ID（同一团队恒定）
func LeaderMembershipID(teamID string) string {
	return uuid.NewSHA1(leaderMembershipNamespace, []byte(teamID)).String()
}

// TeamFilter 团队列表过滤条件
type TeamFilter struct {
	IncludeInactive bool   // 包含 is_active=false 的团队
	WorkTypeID      string // 仅返回声明了该工作类型的团队
}

// ResolverService 关联解析：由扁平关联表组装团队的填充视图，只读
type ResolverService interface {
	ResolveTeamMembers(ctx context.Context, teamID string) ([]dto.TeamMemberResponse, error)
	ResolveTeamWorkTypes(ctx context.Context, teamID string) ([]dto.WorkTypeResponse, error)
	ResolveTeamWorkShifts(ctx context.Context, teamID string) ([]dto.TeamWorkShiftResponse, error)
	ResolveTeamDetail(ctx context.Context, teamID string) (*dto.TeamDetailResponse, error)
	ListTeamDetails(ctx context.Context, filter TeamFilter) ([]dto.TeamDetailResponse, error)
}

type resolverService struct {
	store  *store.Store
	logger *zap.Logger
}

// NewResolverService 创建 ResolverService 实例
func NewResolverService(st *store.Store, logger *zap.Logger) ResolverService {
	return &resolverService{store: st, logger: logger}
}

func (s *resolverService) ResolveTeamMembers(ctx context.Context, teamID string) ([]dto.TeamMemberResponse, error) {
	var out []dto.TeamMemberResponse
	err := s.store.View(ctx, func(v store.View) error {
		team, err := v.Teams().Get(teamID)
		if err != nil {
			return notFoundAs(err, ErrTeamNotFound, teamID)
		}
		out = resolveTeamMembers(v, team)
		return nil
	})
	logFailure(s.logger, "解析团队成员失败", err, zap.String("team_id", teamID))
	return out, err
}

func (s *resolverService) ResolveTeamWorkTypes(ctx context.Context, teamID string) ([]dto.WorkTypeResponse, error) {
	var out []dto.WorkTypeResponse
	err := s.store.View(ctx, func(v store.View) error {
		if _, err := v.Teams().Get(teamID); err != nil {
			return notFoundAs(err, ErrTeamNotFound, teamID)
		}
		out = resolveTeamWorkTypes(v, teamID)
		return nil
	})
	logFailure(s.logger, "解析团队工作类型失败", err, zap.String("team_id", teamID))
	return out, err
}

func (s *resolverService) ResolveTeamWorkShifts(ctx context.Context, teamID string) ([]dto.TeamWorkShiftResponse, error) {
	var out []dto.TeamWorkShiftResponse
	err := s.store.View(ctx, func(v store.View) error {
		if _, err := v.Teams().Get(teamID); err != nil {
			return notFoundAs(err, ErrTeamNotFound, teamID)
		}
		out = resolveTeamWorkShifts(v, teamID)
		return nil
	})
	logFailure(s.logger, "解析团队班次失败", err, zap.String("team_id", teamID))
	return out, err
}

func (s *resolverService) ResolveTeamDetail(ctx context.Context, teamID string) (*dto.TeamDetailResponse, error) {
	var out *dto.TeamDetailResponse
	err := s.store.View(ctx, func(v store.View) error {
		var err error
		out, err = resolveTeamDetail(v, teamID)
		return err
	})
	logFailure(s.logger, "解析团队详情失败", err, zap.String("team_id", teamID))
	return out, err
}

func (s *resolverService) ListTeamDetails(ctx context.Context, filter TeamFilter) ([]dto.TeamDetailResponse, error) {
	var out []dto.TeamDetailResponse
	err := s.store.View(ctx, func(v store.View) error {
		out = listTeamDetails(v, filter)
		return nil
	})
	logFailure(s.logger, "列出团队失败", err)
	return out, err
}

// ════════════════════════════════════════════════════════════
// 以下解析函数同时供写操作在事务内复用，保证返回的视图与写入一致
// ════════════════════════════════════════════════════════════

func resolveTeamDetail(v store.View, teamID string) (*dto.TeamDetailResponse, error) {
	team, err := v.Teams().Get(teamID)
	if err != nil {
		return nil, notFoundAs(err, ErrTeamNotFound, teamID)
	}
	return buildTeamDetail(v, team), nil
}

func buildTeamDetail(v store.View, team model.Team) *dto.TeamDetailResponse {
	detail := &dto.TeamDetailResponse{
		TeamResponse: toTeamResponse(team),
		Members:      resolveTeamMembers(v, team),
		WorkTypes:    resolveTeamWorkTypes(v, team.ID),
		WorkShifts:   resolveTeamWorkShifts(v, team.ID),
	}
	if leader, err := v.Employees().Get(team.LeaderID); err == nil {
		resp := toEmployeeResponse(leader)
		detail.Leader = &resp
	}
	return detail
}

func listTeamDetails(v store.View, filter TeamFilter) []dto.TeamDetailResponse {
	teams := v.Teams().List(func(t model.Team) bool {
		return filter.IncludeInactive || t.IsActive
	})
	out := make([]dto.TeamDetailResponse, 0, len(teams))
	for _, team := range teams {
		detail := buildTeamDetail(v, team)
		if filter.WorkTypeID != "" && !declaresWorkType(detail, filter.WorkTypeID) {
			continue
		}
		out = append(out, *detail)
	}
	return out
}

func declaresWorkType(detail *dto.TeamDetailResponse, workTypeID string) bool {
	for _, wt := range detail.WorkTypes {
		if wt.ID == workTypeID {
			return true
		}
	}
	return false
}

// resolveTeamMembers 团队成员列表
//
// 成员行按创建顺序排列，同一员工只保留一行（优先 is_active 的行）；员工已删除的行丢弃。
// 组长没有成员行时合成一条隐式成员置于首位。
func resolveTeamMembers(v store.View, team model.Team) []dto.TeamMemberResponse {
	rows := v.TeamMembers().List(func(m model.TeamMember) bool { return m.TeamID == team.ID })

	members := make([]dto.TeamMemberResponse, 0, len(rows)+1)
	index := make(map[string]int, len(rows))
	for _, row := range rows {
		emp, err := v.Employees().Get(row.EmployeeID)
		if err != nil {
			continue
		}
		resp := dto.TeamMemberResponse{
			ID:            row.ID,
			TeamID:        row.TeamID,
			EmployeeID:    row.EmployeeID,
			IsActive:      row.IsActive,
			IsLeader:      row.EmployeeID == team.LeaderID,
			Employee:      toEmployeeResponse(emp),
			AuditResponse: dto.NewAuditResponse(row.BaseModel),
		}
		if i, seen := index[row.EmployeeID]; seen {
			if !members[i].IsActive && row.IsActive {
				members[i] = resp
			}
			continue
		}
		index[row.EmployeeID] = len(members)
		members = append(members, resp)
	}

	if _, present := index[team.LeaderID]; present || team.LeaderID == "" {
		return members
	}
	leader, err := v.Employees().Get(team.LeaderID)
	if err != nil {
		return members
	}
	synthetic := dto.TeamMemberResponse{
		ID:            LeaderMembershipID(team.ID),
		TeamID:        team.ID,
		EmployeeID:    leader.ID,
		IsActive:      true,
		IsLeader:      true,
		Synthetic:     true,
		Employee:      toEmployeeResponse(leader),
		AuditResponse: dto.NewAuditResponse(team.BaseModel),
	}
	return append([]dto.TeamMemberResponse{synthetic}, members...)
}

// resolveTeamWorkTypes 团队工作类型；工作类型已删除的关联丢弃，按工作类型去重
func resolveTeamWorkTypes(v store.View, teamID string) []dto.WorkTypeResponse {
	rows := v.TeamWorkTypes().List(func(r model.TeamWorkType) bool { return r.TeamID == teamID })
	out := make([]dto.WorkTypeResponse, 0, len(rows))
	seen := make(map[string]bool, len(rows))
	for _, row := range rows {
		if seen[row.WorkTypeID] {
			continue
		}
		wt, err := v.WorkTypes().Get(row.WorkTypeID)
		if err != nil {
			continue
		}
		seen[row.WorkTypeID] = true
		out = append(out, toWorkTypeResponse(wt))
	}
	return out
}

// resolveTeamWorkShifts 团队班次（含关联行元数据）；班次已删除的关联丢弃
func resolveTeamWorkShifts(v store.View, teamID string) []dto.TeamWorkShiftResponse {
	rows := v.TeamWorkShifts().List(func(r model.TeamWorkShift) bool { return r.TeamID == teamID })
	out := make([]dto.TeamWorkShiftResponse, 0, len(rows))
	seen := make(map[string]bool, len(rows))
	for _, row := range rows {
		if seen[row.WorkShiftID] {
			continue
		}
		ws, err := v.WorkShifts().Get(row.WorkShiftID)
		if err != nil {
			continue
		}
		seen[row.WorkShiftID] = true
		out = append(out, dto.TeamWorkShiftResponse{
			ID:            row.ID,
			TeamID:        row.TeamID,
			WorkShiftID:   row.WorkShiftID,
			WorkShift:     toWorkShiftResponse(ws),
			AuditResponse: dto.NewAuditResponse(row.BaseModel),
		})
	}
	return out
}
