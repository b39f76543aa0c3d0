package service

import (
	"context"
	"net/mail"
	"strings"
	"time"

	"go.uber.org/zap"

	"pet-cafe/backend/internal/dto"
	"pet-cafe/backend/internal/model"
	"pet-cafe/backend/internal/store"
	apperrors "pet-cafe/backend/pkg/errors"
	"pet-cafe/backend/pkg/metrics"
)

// ── 员工模块业务错误 ──

var (
	ErrEmployeeNotFound = apperrors.Define(apperrors.ErrNotFound, "员工不存在")
)

// EmployeeService 员工业务接口
type EmployeeService interface {
	Create(ctx context.Context, actor Actor, req *dto.CreateEmployeeRequest) (*dto.EmployeeResponse, error)
	GetByID(ctx context.Context, id string) (*dto.EmployeeResponse, error)
	List(ctx context.Context, req *dto.EmployeeListRequest) ([]dto.EmployeeResponse, error)
	Update(ctx context.Context, actor Actor, id string, req *dto.UpdateEmployeeRequest) (*dto.EmployeeResponse, error)
	Delete(ctx context.Context, actor Actor, id string) error
}

type employeeService struct {
	store   *store.Store
	perm    PermissionChecker
	metrics *metrics.Metrics
	logger  *zap.Logger
}

// NewEmployeeService 创建 EmployeeService 实例
func NewEmployeeService(st *store.Store, perm PermissionChecker, m *metrics.Metrics, logger *zap.Logger) EmployeeService {
	return &employeeService{store: st, perm: perm, metrics: m, logger: logger}
}

// ────────────────────── Create ──────────────────────

func (s *employeeService) Create(ctx context.Context, actor Actor, req *dto.CreateEmployeeRequest) (_ *dto.EmployeeResponse, err error) {
	defer s.metrics.ObserveMutation("create_employee", time.Now(), &err)
	if err := authorize(s.perm, actor, CapEmployeeWrite); err != nil {
		return nil, err
	}

	emp := model.Employee{
		FullName:  strings.TrimSpace(req.FullName),
		Email:     strings.TrimSpace(req.Email),
		Phone:     strings.TrimSpace(req.Phone),
		Address:   strings.TrimSpace(req.Address),
		Skills:    cleanSkills(req.Skills),
		Salary:    req.Salary,
		SubRole:   strings.ToUpper(strings.TrimSpace(req.SubRole)),
		AvatarURL: strings.TrimSpace(req.AvatarURL),
	}
	if err := validateEmployee(emp); err != nil {
		return nil, err
	}

	err = s.store.Update(ctx, actor.ID, func(tx *store.Tx) error {
		id, err := tx.Employees().Insert(emp)
		if err != nil {
			return err
		}
		emp, err = tx.View.Employees().Get(id)
		return err
	})
	if err != nil {
		logFailure(s.logger, "创建员工失败", err)
		return nil, err
	}

	s.logger.Info("员工已创建", zap.String("employee_id", emp.ID), zap.String("actor", actor.ID))
	resp := toEmployeeResponse(emp)
	return &resp, nil
}

// ────────────────────── GetByID ──────────────────────

func (s *employeeService) GetByID(ctx context.Context, id string) (*dto.EmployeeResponse, error) {
	var emp model.Employee
	err := s.store.View(ctx, func(v store.View) error {
		var err error
		emp, err = v.Employees().Get(id)
		return notFoundAs(err, ErrEmployeeNotFound, id)
	})
	if err != nil {
		logFailure(s.logger, "查询员工失败", err, zap.String("id", id))
		return nil, err
	}
	resp := toEmployeeResponse(emp)
	return &resp, nil
}

// ────────────────────── List ──────────────────────

func (s *employeeService) List(ctx context.Context, req *dto.EmployeeListRequest) ([]dto.EmployeeResponse, error) {
	subRole := strings.ToUpper(strings.TrimSpace(req.SubRole))
	keyword := strings.ToLower(strings.TrimSpace(req.Keyword))

	var result []dto.EmployeeResponse
	err := s.store.View(ctx, func(v store.View) error {
		emps := v.Employees().List(func(e model.Employee) bool {
			if subRole != "" && e.SubRole != subRole {
				return false
			}
			return keyword == "" || strings.Contains(strings.ToLower(e.FullName), keyword)
		})
		result = make([]dto.EmployeeResponse, 0, len(emps))
		for _, e := range emps {
			result = append(result, toEmployeeResponse(e))
		}
		return nil
	})
	if err != nil {
		logFailure(s.logger, "列出员工失败", err)
		return nil, err
	}
	return result, nil
}

// ────────────────────── Update ──────────────────────

func (s *employeeService) Update(ctx context.Context, actor Actor, id string, req *dto.UpdateEmployeeRequest) (_ *dto.EmployeeResponse, err error) {
	defer s.metrics.ObserveMutation("update_employee", time.Now(), &err)
	if err := authorize(s.perm, actor, CapEmployeeWrite); err != nil {
		return nil, err
	}

	var emp model.Employee
	err = s.store.Update(ctx, actor.ID, func(tx *store.Tx) error {
		current, err := tx.View.Employees().Get(id)
		if err != nil {
			return notFoundAs(err, ErrEmployeeNotFound, id)
		}
		applyEmployeePatch(&current, req)
		if err := validateEmployee(current); err != nil {
			return err
		}
		emp, err = tx.Employees().Update(id, func(e *model.Employee) { *e = current })
		return err
	})
	if err != nil {
		logFailure(s.logger, "更新员工失败", err, zap.String("id", id))
		return nil, err
	}

	s.logger.Info("员工已更新", zap.String("employee_id", id), zap.String("actor", actor.ID))
	resp := toEmployeeResponse(emp)
	return &resp, nil
}

func applyEmployeePatch(e *model.Employee, req *dto.UpdateEmployeeRequest) {
	if req.FullName != nil {
		e.FullName = strings.TrimSpace(*req.FullName)
	}
	if req.Email != nil {
		e.Email = strings.TrimSpace(*req.Email)
	}
	if req.Phone != nil {
		e.Phone = strings.TrimSpace(*req.Phone)
	}
	if req.Address != nil {
		e.Address = strings.TrimSpace(*req.Address)
	}
	if req.Skills != nil {
		e.Skills = cleanSkills(req.Skills)
	}
	if req.Salary != nil {
		e.Salary = *req.Salary
	}
	if req.SubRole != nil {
		e.SubRole = strings.ToUpper(strings.TrimSpace(*req.SubRole))
	}
	if req.AvatarURL != nil {
		e.AvatarURL = strings.TrimSpace(*req.AvatarURL)
	}
}

// ────────────────────── Delete ──────────────────────

// Delete 软删除员工；其担任组长的团队保留 leader_id，解析时组长为空
func (s *employeeService) Delete(ctx context.Context, actor Actor, id string) (err error) {
	defer s.metrics.ObserveMutation("delete_employee", time.Now(), &err)
	if err := authorize(s.perm, actor, CapEmployeeWrite); err != nil {
		return err
	}

	err = s.store.Update(ctx, actor.ID, func(tx *store.Tx) error {
		return notFoundAs(tx.Employees().SoftDelete(id), ErrEmployeeNotFound, id)
	})
	if err != nil {
		logFailure(s.logger, "删除员工失败", err, zap.String("id", id))
		return err
	}

	s.logger.Info("员工已删除", zap.String("employee_id", id), zap.String("actor", actor.ID))
	return nil
}

// ── 校验 ──

func validateEmployee(e model.Employee) error {
	if e.FullName == "" {
		return apperrors.Validation("full_name", "姓名不能为空")
	}
	if e.Email != "" {
		if _, err := mail.ParseAddress(e.Email); err != nil {
			return apperrors.Validation("email", "邮箱格式不正确")
		}
	}
	if e.Salary.IsNegative() {
		return apperrors.Validation("salary", "薪资不能为负数")
	}
	return nil
}

func cleanSkills(skills []string) []string {
	out := make([]string, 0, len(skills))
	seen := make(map[string]bool, len(skills))
	for _, sk := range skills {
		sk = strings.TrimSpace(sk)
		if sk == "" || seen[strings.ToLower(sk)] {
			continue
		}
		seen[strings.ToLower(sk)] = true
		out = append(out, sk)
	}
	return out
}
