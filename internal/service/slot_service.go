package service

import (
	"context"
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

// ── 时段模块业务错误 ──

var (
	ErrSlotNotFound    = apperrors.Define(apperrors.ErrNotFound, "时段不存在")
	ErrTeamRefNotFound = apperrors.Define(apperrors.ErrReference, "团队不存在或已删除")
)

// SlotService 可预约时段业务接口
//
// 时段的星期不受团队班次适用日约束，响应中的 schedule_hint 仅为匹配提示。
type SlotService interface {
	Create(ctx context.Context, actor Actor, req *dto.CreateSlotRequest) (*dto.SlotResponse, error)
	GetByID(ctx context.Context, id string) (*dto.SlotResponse, error)
	List(ctx context.Context, req *dto.SlotListRequest) ([]dto.SlotResponse, error)
	Update(ctx context.Context, actor Actor, id string, req *dto.UpdateSlotRequest) (*dto.SlotResponse, error)
	Delete(ctx context.Context, actor Actor, id string) error
}

type slotService struct {
	store   *store.Store
	perm    PermissionChecker
	metrics *metrics.Metrics
	logger  *zap.Logger
}

// NewSlotService 创建 SlotService 实例
func NewSlotService(st *store.Store, perm PermissionChecker, m *metrics.Metrics, logger *zap.Logger) SlotService {
	return &slotService{store: st, perm: perm, metrics: m, logger: logger}
}

// ────────────────────── Create ──────────────────────

func (s *slotService) Create(ctx context.Context, actor Actor, req *dto.CreateSlotRequest) (_ *dto.SlotResponse, err error) {
	defer s.metrics.ObserveMutation("create_slot", time.Now(), &err)
	if err := authorize(s.perm, actor, CapSlotWrite); err != nil {
		return nil, err
	}

	slot := model.Slot{
		TeamID:       strings.TrimSpace(req.TeamID),
		WorkTypeID:   strings.TrimSpace(req.WorkTypeID),
		EmployeeID:   strings.TrimSpace(req.EmployeeID),
		PetGroupID:   strings.TrimSpace(req.PetGroupID),
		DayOfWeek:    model.Weekday(req.DayOfWeek),
		SpecificDate: strings.TrimSpace(req.SpecificDate),
		StartTime:    req.StartTime,
		EndTime:      req.EndTime,
		MaxCapacity:  req.MaxCapacity,
		Status:       strings.ToUpper(strings.TrimSpace(req.Status)),
		SpecialNotes: strings.TrimSpace(req.SpecialNotes),
	}
	if slot.Status == "" {
		slot.Status = model.SlotStatusAvailable
	}
	if err := validateSlot(&slot); err != nil {
		return nil, err
	}

	var resp dto.SlotResponse
	err = s.store.Update(ctx, actor.ID, func(tx *store.Tx) error {
		if err := checkSlotRefs(tx.View, slot); err != nil {
			return err
		}
		id, err := tx.Slots().Insert(slot)
		if err != nil {
			return err
		}
		created, err := tx.View.Slots().Get(id)
		if err != nil {
			return err
		}
		resp = slotResponse(tx.View, created)
		return nil
	})
	if err != nil {
		logFailure(s.logger, "创建时段失败", err, zap.String("team_id", slot.TeamID))
		return nil, err
	}

	s.logger.Info("时段已创建",
		zap.String("slot_id", resp.ID),
		zap.String("team_id", resp.TeamID),
		zap.String("schedule_hint", resp.ScheduleHint),
		zap.String("actor", actor.ID),
	)
	return &resp, nil
}

// ────────────────────── GetByID ──────────────────────

func (s *slotService) GetByID(ctx context.Context, id string) (*dto.SlotResponse, error) {
	var resp dto.SlotResponse
	err := s.store.View(ctx, func(v store.View) error {
		slot, err := v.Slots().Get(id)
		if err != nil {
			return notFoundAs(err, ErrSlotNotFound, id)
		}
		resp = slotResponse(v, slot)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// ────────────────────── List ──────────────────────

func (s *slotService) List(ctx context.Context, req *dto.SlotListRequest) ([]dto.SlotResponse, error) {
	var day model.Weekday
	if strings.TrimSpace(req.DayOfWeek) != "" {
		d, ok := model.ParseWeekday(req.DayOfWeek)
		if !ok {
			return nil, apperrors.Validation("day_of_week", "星期取值无效")
		}
		day = d
	}
	status := strings.ToUpper(strings.TrimSpace(req.Status))

	var result []dto.SlotResponse
	err := s.store.View(ctx, func(v store.View) error {
		rows := v.Slots().List(func(sl model.Slot) bool {
			if req.TeamID != "" && sl.TeamID != req.TeamID {
				return false
			}
			if day != "" && sl.DayOfWeek != day {
				return false
			}
			return status == "" || sl.Status == status
		})
		result = make([]dto.SlotResponse, 0, len(rows))
		for _, sl := range rows {
			result = append(result, slotResponse(v, sl))
		}
		return nil
	})
	return result, err
}

// ────────────────────── Update ──────────────────────

func (s *slotService) Update(ctx context.Context, actor Actor, id string, req *dto.UpdateSlotRequest) (_ *dto.SlotResponse, err error) {
	defer s.metrics.ObserveMutation("update_slot", time.Now(), &err)
	if err := authorize(s.perm, actor, CapSlotWrite); err != nil {
		return nil, err
	}

	var resp dto.SlotResponse
	err = s.store.Update(ctx, actor.ID, func(tx *store.Tx) error {
		current, err := tx.View.Slots().Get(id)
		if err != nil {
			return notFoundAs(err, ErrSlotNotFound, id)
		}
		applySlotPatch(&current, req)
		if err := validateSlot(&current); err != nil {
			return err
		}
		if err := checkSlotRefs(tx.View, current); err != nil {
			return err
		}
		updated, err := tx.Slots().Update(id, func(sl *model.Slot) { *sl = current })
		if err != nil {
			return err
		}
		resp = slotResponse(tx.View, updated)
		return nil
	})
	if err != nil {
		logFailure(s.logger, "更新时段失败", err, zap.String("id", id))
		return nil, err
	}

	s.logger.Info("时段已更新", zap.String("slot_id", id), zap.String("actor", actor.ID))
	return &resp, nil
}

func applySlotPatch(sl *model.Slot, req *dto.UpdateSlotRequest) {
	if req.WorkTypeID != nil {
		sl.WorkTypeID = strings.TrimSpace(*req.WorkTypeID)
	}
	if req.EmployeeID != nil {
		sl.EmployeeID = strings.TrimSpace(*req.EmployeeID)
	}
	if req.PetGroupID != nil {
		sl.PetGroupID = strings.TrimSpace(*req.PetGroupID)
	}
	if req.DayOfWeek != nil {
		sl.DayOfWeek = model.Weekday(*req.DayOfWeek)
	}
	if req.SpecificDate != nil {
		sl.SpecificDate = strings.TrimSpace(*req.SpecificDate)
		// 只改日期时由日期重新推导星期
		if req.DayOfWeek == nil {
			sl.DayOfWeek = ""
		}
	}
	if req.StartTime != nil {
		sl.StartTime = *req.StartTime
	}
	if req.EndTime != nil {
		sl.EndTime = *req.EndTime
	}
	if req.MaxCapacity != nil {
		sl.MaxCapacity = *req.MaxCapacity
	}
	if req.Status != nil {
		sl.Status = strings.ToUpper(strings.TrimSpace(*req.Status))
	}
	if req.SpecialNotes != nil {
		sl.SpecialNotes = strings.TrimSpace(*req.SpecialNotes)
	}
}

// ────────────────────── Delete ──────────────────────

func (s *slotService) Delete(ctx context.Context, actor Actor, id string) (err error) {
	defer s.metrics.ObserveMutation("delete_slot", time.Now(), &err)
	if err := authorize(s.perm, actor, CapSlotWrite); err != nil {
		return err
	}

	err = s.store.Update(ctx, actor.ID, func(tx *store.Tx) error {
		return notFoundAs(tx.Slots().SoftDelete(id), ErrSlotNotFound, id)
	})
	if err != nil {
		logFailure(s.logger, "删除时段失败", err, zap.String("id", id))
		return err
	}

	s.logger.Info("时段已删除", zap.String("slot_id", id), zap.String("actor", actor.ID))
	return nil
}

// ── 校验与提示 ──

// validateSlot 规范化并校验时段字段（不含引用检查）
//
// 填写具体日期时星期由日期推导；同时填写星期且不一致视为校验失败。
func validateSlot(sl *model.Slot) error {
	if sl.TeamID == "" {
		return apperrors.Validation("team_id", "团队不能为空")
	}
	if sl.WorkTypeID == "" {
		return apperrors.Validation("work_type_id", "工作类型不能为空")
	}

	var day model.Weekday
	if strings.TrimSpace(string(sl.DayOfWeek)) != "" {
		d, ok := model.ParseWeekday(string(sl.DayOfWeek))
		if !ok {
			return apperrors.Validation("day_of_week", "星期取值无效")
		}
		day = d
	}
	if sl.SpecificDate != "" {
		d, ok := model.WeekdayOfDate(sl.SpecificDate)
		if !ok {
			return apperrors.Validation("specific_date", "日期格式应为 YYYY-MM-DD")
		}
		if day != "" && day != d {
			return apperrors.Validation("day_of_week", "星期与具体日期不一致")
		}
		day = d
	}
	if day == "" {
		return apperrors.Validation("day_of_week", "星期与具体日期至少填写一项")
	}
	sl.DayOfWeek = day

	start, ok := availability.NormalizeTime(sl.StartTime)
	if !ok {
		return apperrors.Validation("start_time", "时间格式应为 HH:MM 或 HH:MM:SS")
	}
	end, ok := availability.NormalizeTime(sl.EndTime)
	if !ok {
		return apperrors.Validation("end_time", "时间格式应为 HH:MM 或 HH:MM:SS")
	}
	if end <= start {
		return apperrors.Validation("end_time", "结束时间必须晚于开始时间")
	}
	sl.StartTime, sl.EndTime = start, end

	if sl.MaxCapacity <= 0 {
		return apperrors.Validation("max_capacity", "容量必须大于 0")
	}
	if !model.ValidSlotStatus(sl.Status) {
		return apperrors.Validation("status", "状态取值无效")
	}
	return nil
}

func checkSlotRefs(v store.View, sl model.Slot) error {
	if !v.Teams().Exists(sl.TeamID) {
		return apperrors.WithID(ErrTeamRefNotFound, sl.TeamID)
	}
	if !v.WorkTypes().Exists(sl.WorkTypeID) {
		return apperrors.WithID(ErrWorkTypeRefNotFound, sl.WorkTypeID)
	}
	if sl.EmployeeID != "" && !v.Employees().Exists(sl.EmployeeID) {
		return apperrors.WithID(ErrEmployeeRefNotFound, sl.EmployeeID)
	}
	return nil
}

// slotResponse 生成响应并附带所属团队班次的匹配提示；团队已删除时不给提示
func slotResponse(v store.View, sl model.Slot) dto.SlotResponse {
	resp := toSlotResponse(sl)
	team, err := v.Teams().Get(sl.TeamID)
	if err != nil {
		return resp
	}
	results := availability.Match(
		[]dto.TeamDetailResponse{*buildTeamDetail(v, team)},
		availability.Window{Day: string(sl.DayOfWeek), Date: sl.SpecificDate, Start: sl.StartTime, End: sl.EndTime},
		availability.ModeRank,
	)
	if len(results) == 1 {
		resp.ScheduleHint = results[0].Schedule
	}
	return resp
}
