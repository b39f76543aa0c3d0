package service

import (
	"go.uber.org/zap"

	"pet-cafe/backend/config"
	"pet-cafe/backend/internal/store"
	"pet-cafe/backend/pkg/jwt"
	"pet-cafe/backend/pkg/metrics"
)

// Service 所有 Service 的聚合入口
type Service struct {
	Auth      AuthService
	Resolver  ResolverService
	Team      TeamService
	Employee  EmployeeService
	WorkType  WorkTypeService
	WorkShift WorkShiftService
	Slot      SlotService
	Match     MatchService
	Export    ExportService
	Calendar  CalendarService
}

// NewService 创建 Service 聚合
func NewService(
	cfg *config.Config,
	st *store.Store,
	perm PermissionChecker,
	jwtMgr *jwt.Manager,
	blacklist TokenBlacklist,
	m *metrics.Metrics,
	logger *zap.Logger,
) *Service {
	match := NewMatchService(cfg.Matching, st, m, logger)
	return &Service{
		Auth:      NewAuthService(&cfg.Auth, jwtMgr, blacklist, logger),
		Resolver:  NewResolverService(st, logger),
		Team:      NewTeamService(st, perm, m, logger),
		Employee:  NewEmployeeService(st, perm, m, logger),
		WorkType:  NewWorkTypeService(st, perm, m, logger),
		WorkShift: NewWorkShiftService(st, perm, m, logger),
		Slot:      NewSlotService(st, perm, m, logger),
		Match:     match,
		Export:    NewExportService(match, logger),
		Calendar:  NewCalendarService(st, logger),
	}
}
