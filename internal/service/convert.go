package service

import (
	"errors"

	"go.uber.org/zap"

	"pet-cafe/backend/internal/dto"
	"pet-cafe/backend/internal/model"
	apperrors "pet-cafe/backend/pkg/errors"
)

// ── 模型 → 响应 ──

func toEmployeeResponse(e model.Employee) dto.EmployeeResponse {
	skills := e.Skills
	if skills == nil {
		skills = []string{}
	}
	return dto.EmployeeResponse{
		ID:            e.ID,
		FullName:      e.FullName,
		Email:         e.Email,
		Phone:         e.Phone,
		Address:       e.Address,
		Skills:        skills,
		Salary:        e.Salary,
		SubRole:       e.SubRole,
		AvatarURL:     e.AvatarURL,
		AuditResponse: dto.NewAuditResponse(e.BaseModel),
	}
}

func toWorkTypeResponse(wt model.WorkType) dto.WorkTypeResponse {
	return dto.WorkTypeResponse{
		ID:            wt.ID,
		Name:          wt.Name,
		Description:   wt.Description,
		IsActive:      wt.IsActive,
		AuditResponse: dto.NewAuditResponse(wt.BaseModel),
	}
}

func toWorkShiftResponse(ws model.WorkShift) dto.WorkShiftResponse {
	days := make([]string, 0, len(ws.ApplicableDays))
	for _, d := range ws.ApplicableDays {
		days = append(days, string(d))
	}
	return dto.WorkShiftResponse{
		ID:             ws.ID,
		Name:           ws.Name,
		Description:    ws.Description,
		StartTime:      ws.StartTime,
		EndTime:        ws.EndTime,
		ApplicableDays: days,
		IsActive:       ws.IsActive,
		AuditResponse:  dto.NewAuditResponse(ws.BaseModel),
	}
}

func toTeamResponse(t model.Team) dto.TeamResponse {
	return dto.TeamResponse{
		ID:            t.ID,
		Name:          t.Name,
		Description:   t.Description,
		LeaderID:      t.LeaderID,
		IsActive:      t.IsActive,
		Status:        t.Status,
		AuditResponse: dto.NewAuditResponse(t.BaseModel),
	}
}

func toSlotResponse(s model.Slot) dto.SlotResponse {
	return dto.SlotResponse{
		ID:            s.ID,
		TeamID:        s.TeamID,
		WorkTypeID:    s.WorkTypeID,
		EmployeeID:    s.EmployeeID,
		PetGroupID:    s.PetGroupID,
		DayOfWeek:     string(s.DayOfWeek),
		SpecificDate:  s.SpecificDate,
		StartTime:     s.StartTime,
		EndTime:       s.EndTime,
		MaxCapacity:   s.MaxCapacity,
		Status:        s.Status,
		SpecialNotes:  s.SpecialNotes,
		AuditResponse: dto.NewAuditResponse(s.BaseModel),
	}
}

// ── 错误辅助 ──

// notFoundAs 将存储层 NotFound 替换为模块错误（附带 ID），其他错误原样返回
func notFoundAs(err error, sentinel error, id string) error {
	if errors.Is(err, apperrors.ErrNotFound) {
		return apperrors.WithID(sentinel, id)
	}
	return err
}

// logFailure 仅记录无法归类的错误；业务错误由调用方处理
func logFailure(logger *zap.Logger, msg string, err error, fields ...zap.Field) {
	if err == nil || apperrors.KindOf(err) != nil {
		return
	}
	logger.Error(msg, append(fields, zap.Error(err))...)
}
