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

// ── 工作类型模块业务错误 ──

var (
	ErrWorkTypeNotFound   = apperrors.Define(apperrors.ErrNotFound, "工作类型不存在")
	ErrWorkTypeNameExists = apperrors.Define(apperrors.ErrDuplicate, "工作类型名称已存在")
)

// WorkTypeService 工作类型业务接口
type WorkTypeService interface {
	Create(ctx context.Context, actor Actor, req *dto.CreateWorkTypeRequest) (*dto.WorkTypeResponse, error)
	GetByID(ctx context.Context, id string) (*dto.WorkTypeResponse, error)
	List(ctx context.Context) ([]dto.WorkTypeResponse, error)
	Update(ctx context.Context, actor Actor, id string, req *dto.UpdateWorkTypeRequest) (*dto.WorkTypeResponse, error)
	Delete(ctx context.Context, actor Actor, id string) error
}

type workTypeService struct {
	store   *store.Store
	perm    PermissionChecker
	metrics *metrics.Metrics
	logger  *zap.Logger
}

// NewWorkTypeService 创建 WorkTypeService 实例
func NewWorkTypeService(st *store.Store, perm PermissionChecker, m *metrics.Metrics, logger *zap.Logger) WorkTypeService {
	return &workTypeService{store: st, perm: perm, metrics: m, logger: logger}
}

func (s *workTypeService) Create(ctx context.Context, actor Actor, req *dto.CreateWorkTypeRequest) (_ *dto.WorkTypeResponse, err error) {
	defer s.metrics.ObserveMutation("create_work_type", time.Now(), &err)
	if err := authorize(s.perm, actor, CapWorkTypeWrite); err != nil {
		return nil, err
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, apperrors.Validation("name", "名称不能为空")
	}
	wt := model.WorkType{Name: name, Description: strings.TrimSpace(req.Description), IsActive: true}
	if req.IsActive != nil {
		wt.IsActive = *req.IsActive
	}

	err = s.store.Update(ctx, actor.ID, func(tx *store.Tx) error {
		if err := ensureWorkTypeNameFree(tx.View, name, ""); err != nil {
			return err
		}
		id, err := tx.WorkTypes().Insert(wt)
		if err != nil {
			return err
		}
		wt, err = tx.View.WorkTypes().Get(id)
		return err
	})
	if err != nil {
		logFailure(s.logger, "创建工作类型失败", err)
		return nil, err
	}

	s.logger.Info("工作类型已创建", zap.String("work_type_id", wt.ID), zap.String("actor", actor.ID))
	resp := toWorkTypeResponse(wt)
	return &resp, nil
}

func (s *workTypeService) GetByID(ctx context.Context, id string) (*dto.WorkTypeResponse, error) {
	var wt model.WorkType
	err := s.store.View(ctx, func(v store.View) error {
		var err error
		wt, err = v.WorkTypes().Get(id)
		return notFoundAs(err, ErrWorkTypeNotFound, id)
	})
	if err != nil {
		return nil, err
	}
	resp := toWorkTypeResponse(wt)
	return &resp, nil
}

func (s *workTypeService) List(ctx context.Context) ([]dto.WorkTypeResponse, error) {
	var result []dto.WorkTypeResponse
	err := s.store.View(ctx, func(v store.View) error {
		rows := v.WorkTypes().List(nil)
		result = make([]dto.WorkTypeResponse, 0, len(rows))
		for _, wt := range rows {
			result = append(result, toWorkTypeResponse(wt))
		}
		return nil
	})
	return result, err
}

func (s *workTypeService) Update(ctx context.Context, actor Actor, id string, req *dto.UpdateWorkTypeRequest) (_ *dto.WorkTypeResponse, err error) {
	defer s.metrics.ObserveMutation("update_work_type", time.Now(), &err)
	if err := authorize(s.perm, actor, CapWorkTypeWrite); err != nil {
		return nil, err
	}
	if req.Name != nil && strings.TrimSpace(*req.Name) == "" {
		return nil, apperrors.Validation("name", "名称不能为空")
	}

	var wt model.WorkType
	err = s.store.Update(ctx, actor.ID, func(tx *store.Tx) error {
		if !tx.View.WorkTypes().Exists(id) {
			return apperrors.WithID(ErrWorkTypeNotFound, id)
		}
		if req.Name != nil {
			if err := ensureWorkTypeNameFree(tx.View, strings.TrimSpace(*req.Name), id); err != nil {
				return err
			}
		}
		var err error
		wt, err = tx.WorkTypes().Update(id, func(w *model.WorkType) {
			if req.Name != nil {
				w.Name = strings.TrimSpace(*req.Name)
			}
			if req.Description != nil {
				w.Description = strings.TrimSpace(*req.Description)
			}
			if req.IsActive != nil {
				w.IsActive = *req.IsActive
			}
		})
		return err
	})
	if err != nil {
		logFailure(s.logger, "更新工作类型失败", err, zap.String("id", id))
		return nil, err
	}

	s.logger.Info("工作类型已更新", zap.String("work_type_id", id), zap.String("actor", actor.ID))
	resp := toWorkTypeResponse(wt)
	return &resp, nil
}

func (s *workTypeService) Delete(ctx context.Context, actor Actor, id string) (err error) {
	defer s.metrics.ObserveMutation("delete_work_type", time.Now(), &err)
	if err := authorize(s.perm, actor, CapWorkTypeWrite); err != nil {
		return err
	}

	err = s.store.Update(ctx, actor.ID, func(tx *store.Tx) error {
		return notFoundAs(tx.WorkTypes().SoftDelete(id), ErrWorkTypeNotFound, id)
	})
	if err != nil {
		logFailure(s.logger, "删除工作类型失败", err, zap.String("id", id))
		return err
	}

	s.logger.Info("工作类型已删除", zap.String("work_type_id", id), zap.String("actor", actor.ID))
	return nil
}

// ensureWorkTypeNameFree 名称在未删除的工作类型中唯一（忽略大小写），exceptID 为正在更新的行
func ensureWorkTypeNameFree(v store.View, name, exceptID string) error {
	_, taken := v.WorkTypes().Find(func(w model.WorkType) bool {
		return w.ID != exceptID && strings.EqualFold(w.Name, name)
	})
	if taken {
		return apperrors.WithID(ErrWorkTypeNameExists, name)
	}
	return nil
}
