package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"pet-cafe/backend/internal/availability"
	"pet-cafe/backend/internal/dto"
	"pet-cafe/backend/internal/model"
	"pet-cafe/backend/internal/store"
	apperrors "pet-cafe/backend/pkg/errors"
	"pet-cafe/backend/pkg/metrics"
)

// ── 班次模块业务错误 ──

var (
	ErrWorkShiftNotFound = apperrors.Define(apperrors.ErrNotFound, "班次不存在")
)

// WorkShiftService 工作班次业务接口
type WorkShiftService interface {
	Create(ctx context.Context, actor Actor, req *dto.CreateWorkShiftRequest) (*dto.WorkShiftResponse, error)
	GetByID(ctx context.Context, id string) (*dto.WorkShiftResponse, error)
	List(ctx context.Context, req *dto.WorkShiftListRequest) ([]dto.WorkShiftResponse, error)
	Update(ctx context.Context, actor Actor, id string, req *dto.UpdateWorkShiftRequest) (*dto.WorkShiftResponse, error)
	Delete(ctx context.Context, actor Actor, id string) error
}

type workShiftService struct {
	store   *store.Store
	perm    PermissionChecker
	metrics *metrics.Metrics
	logger  *zap.Logger
}

// NewWorkShiftService 创建 WorkShiftService 实例
func NewWorkShiftService(st *store.Store, perm PermissionChecker, m *metrics.Metrics, logger *zap.Logger) WorkShiftService {
	return &workShiftService{store: st, perm: perm, metrics: m, logger: logger}
}

func (s *workShiftService) Create(ctx context.Context, actor Actor, req *dto.CreateWorkShiftRequest) (_ *dto.WorkShiftResponse, err error) {
	defer s.metrics.ObserveMutation("create_work_shift", time.Now(), &err)
	if err := authorize(s.perm, actor, CapWorkShiftWrite); err != nil {
		return nil, err
	}

	ws := model.WorkShift{
		Name:        strings.TrimSpace(req.Name),
		Description: strings.TrimSpace(req.Description),
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		IsActive:    true,
	}
	if req.IsActive != nil {
		ws.IsActive = *req.IsActive
	}
	if ws.Name == "" {
		return nil, apperrors.Validation("name", "班次名称不能为空")
	}
	if ws.ApplicableDays, err = parseDays(req.ApplicableDays); err != nil {
		return nil, err
	}
	if err := normalizeShiftWindow(&ws); err != nil {
		return nil, err
	}

	err = s.store.Update(ctx, actor.ID, func(tx *store.Tx) error {
		id, err := tx.WorkShifts().Insert(ws)
		if err != nil {
			return err
		}
		ws, err = tx.View.WorkShifts().Get(id)
		return err
	})
	if err != nil {
		logFailure(s.logger, "创建班次失败", err)
		return nil, err
	}

	s.logger.Info("班次已创建", zap.String("work_shift_id", ws.ID), zap.String("actor", actor.ID))
	resp := toWorkShiftResponse(ws)
	return &resp, nil
}

func (s *workShiftService) GetByID(ctx context.Context, id string) (*dto.WorkShiftResponse, error) {
	var ws model.WorkShift
	err := s.store.View(ctx, func(v store.View) error {
		var err error
		ws, err = v.WorkShifts().Get(id)
		return notFoundAs(err, ErrWorkShiftNotFound, id)
	})
	if err != nil {
		return nil, err
	}
	resp := toWorkShiftResponse(ws)
	return &resp, nil
}

func (s *workShiftService) List(ctx context.Context, req *dto.WorkShiftListRequest) ([]dto.WorkShiftResponse, error) {
	var day model.Weekday
	if strings.TrimSpace(req.DayOfWeek) != "" {
		d, ok := model.ParseWeekday(req.DayOfWeek)
		if !ok {
			return nil, apperrors.Validation("day_of_week", "星期取值无效")
		}
		day = d
	}

	var result []dto.WorkShiftResponse
	err := s.store.View(ctx, func(v store.View) error {
		rows := v.WorkShifts().List(func(ws model.WorkShift) bool {
			return day == "" || ws.AppliesOn(day)
		})
		result = make([]dto.WorkShiftResponse, 0, len(rows))
		for _, ws := range rows {
			result = append(result, toWorkShiftResponse(ws))
		}
		return nil
	})
	return result, err
}

func (s *workShiftService) Update(ctx context.Context, actor Actor, id string, req *dto.UpdateWorkShiftRequest) (_ *dto.WorkShiftResponse, err error) {
	defer s.metrics.ObserveMutation("update_work_shift", time.Now(), &err)
	if err := authorize(s.perm, actor, CapWorkShiftWrite); err != nil {
		return nil, err
	}

	var days []model.Weekday
	if req.ApplicableDays != nil {
		if days, err = parseDays(req.ApplicableDays); err != nil {
			return nil, err
		}
	}

	var ws model.WorkShift
	err = s.store.Update(ctx, actor.ID, func(tx *store.Tx) error {
		current, err := tx.View.WorkShifts().Get(id)
		if err != nil {
			return notFoundAs(err, ErrWorkShiftNotFound, id)
		}
		if req.Name != nil {
			current.Name = strings.TrimSpace(*req.Name)
			if current.Name == "" {
				return apperrors.Validation("name", "班次名称不能为空")
			}
		}
		if req.Description != nil {
			current.Description = strings.TrimSpace(*req.Description)
		}
		if req.StartTime != nil {
			current.StartTime = *req.StartTime
		}
		if req.EndTime != nil {
			current.EndTime = *req.EndTime
		}
		if req.ApplicableDays != nil {
			current.ApplicableDays = days
		}
		if req.IsActive != nil {
			current.IsActive = *req.IsActive
		}
		if err := normalizeShiftWindow(&current); err != nil {
			return err
		}
		ws, err = tx.WorkShifts().Update(id, func(w *model.WorkShift) { *w = current })
		return err
	})
	if err != nil {
		logFailure(s.logger, "更新班次失败", err, zap.String("id", id))
		return nil, err
	}

	s.logger.Info("班次已更新", zap.String("work_shift_id", id), zap.String("actor", actor.ID))
	resp := toWorkShiftResponse(ws)
	return &resp, nil
}

func (s *workShiftService) Delete(ctx context.Context, actor Actor, id string) (err error) {
	defer s.metrics.ObserveMutation("delete_work_shift", time.Now(), &err)
	if err := authorize(s.perm, actor, CapWorkShiftWrite); err != nil {
		return err
	}

	err = s.store.Update(ctx, actor.ID, func(tx *store.Tx) error {
		return notFoundAs(tx.WorkShifts().SoftDelete(id), ErrWorkShiftNotFound, id)
	})
	if err != nil {
		logFailure(s.logger, "删除班次失败", err, zap.String("id", id))
		return err
	}

	s.logger.Info("班次已删除", zap.String("work_shift_id", id), zap.String("actor", actor.ID))
	return nil
}

// ── 校验 ──

// normalizeShiftWindow 规范化起止时间并拒绝零长或倒置的班次
func normalizeShiftWindow(ws *model.WorkShift) error {
	start, ok := availability.NormalizeTime(ws.StartTime)
	if !ok {
		return apperrors.Validation("start_time", "时间格式应为 HH:MM 或 HH:MM:SS")
	}
	end, ok := availability.NormalizeTime(ws.EndTime)
	if !ok {
		return apperrors.Validation("end_time", "时间格式应为 HH:MM 或 HH:MM:SS")
	}
	if end <= start {
		return apperrors.Validation("end_time", "结束时间必须晚于开始时间")
	}
	ws.StartTime, ws.EndTime = start, end
	return nil
}

// parseDays 解析星期列表，去重并按 SUNDAY..SATURDAY 排序；允许为空
func parseDays(tokens []string) ([]model.Weekday, error) {
	seen := make(map[model.Weekday]bool, len(tokens))
	days := make([]model.Weekday, 0, len(tokens))
	for _, tok := range tokens {
		d, ok := model.ParseWeekday(tok)
		if !ok {
			return nil, apperrors.Validation("applicable_days", "星期取值无效: "+tok)
		}
		if !seen[d] {
			seen[d] = true
			days = append(days, d)
		}
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Index() < days[j].Index() })
	return days, nil
}
