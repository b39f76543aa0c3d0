package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"pet-cafe/backend/config"
	"pet-cafe/backend/internal/availability"
	"pet-cafe/backend/internal/dto"
	"pet-cafe/backend/internal/store"
	apperrors "pet-cafe/backend/pkg/errors"
	"pet-cafe/backend/pkg/metrics"
)

// MatchService 团队可用性匹配接口
//
// 时间或星期缺失、格式错误、窗口倒置都不会报错，分别体现为 UNEVALUATED / UNMATCHED；
// 只有非法的 mode 会返回校验错误。
type MatchService interface {
	Match(ctx context.Context, req *dto.MatchRequest) (*dto.MatchResponse, error)
}

type matchService struct {
	cfg     config.MatchingConfig
	store   *store.Store
	metrics *metrics.Metrics
	logger  *zap.Logger
}

// NewMatchService 创建 MatchService 实例
func NewMatchService(cfg config.MatchingConfig, st *store.Store, m *metrics.Metrics, logger *zap.Logger) MatchService {
	return &matchService{cfg: cfg, store: st, metrics: m, logger: logger}
}

func (s *matchService) Match(ctx context.Context, req *dto.MatchRequest) (*dto.MatchResponse, error) {
	modeText := req.Mode
	if strings.TrimSpace(modeText) == "" {
		modeText = s.cfg.DefaultMode
	}
	mode, ok := availability.ParseMode(modeText)
	if !ok {
		return nil, apperrors.Validation("mode", "匹配模式只能为 FILTER 或 RANK")
	}
	includeInactive := s.cfg.IncludeInactive
	if req.IncludeInactive != nil {
		includeInactive = *req.IncludeInactive
	}

	window := availability.Window{
		Day:        req.DayOfWeek,
		Date:       req.SpecificDate,
		Start:      req.StartTime,
		End:        req.EndTime,
		WorkTypeID: strings.TrimSpace(req.WorkTypeID),
	}

	var results []availability.Result
	err := s.store.View(ctx, func(v store.View) error {
		teams := listTeamDetails(v, TeamFilter{IncludeInactive: includeInactive})
		results = availability.Match(teams, window, mode)
		return nil
	})
	if err != nil {
		logFailure(s.logger, "团队匹配失败", err)
		return nil, err
	}

	resp := &dto.MatchResponse{Mode: string(mode), Results: make([]dto.TeamMatchResponse, 0, len(results))}
	if day, ok := window.Weekday(); ok {
		resp.DayOfWeek = string(day)
	}
	resp.StartTime, _ = availability.NormalizeTime(req.StartTime)
	resp.EndTime, _ = availability.NormalizeTime(req.EndTime)

	for _, r := range results {
		s.metrics.ObserveMatch(r.Schedule)
		resp.Results = append(resp.Results, dto.TeamMatchResponse{
			Team:               r.Team,
			WorkTypeCompatible: r.WorkTypeCompatible,
			Schedule:           r.Schedule,
			MatchedShiftIDs:    r.MatchedShiftIDs,
		})
	}

	s.logger.Debug("团队匹配完成",
		zap.String("mode", resp.Mode),
		zap.String("day", resp.DayOfWeek),
		zap.Int("results", len(resp.Results)),
	)
	return resp, nil
}
