package service

import (
	"context"
	"errors"
	"testing"

	"pet-cafe/backend/internal/availability"
	"pet-cafe/backend/internal/dto"
	"pet-cafe/backend/internal/store"
	apperrors "pet-cafe/backend/pkg/errors"
)

func validSlotRequest() dto.CreateSlotRequest {
	return dto.CreateSlotRequest{
		TeamID:      "team-cat",
		WorkTypeID:  "wt-cat",
		DayOfWeek:   "MONDAY",
		StartTime:   "08:00",
		EndTime:     "10:00",
		MaxCapacity: 4,
	}
}

func TestSlotService_Create(t *testing.T) {
	env := setupTestEnv(t)

	req := validSlotRequest()
	created, err := env.svc.Slot.Create(context.Background(), testActor, &req)
	if err != nil {
		t.Fatalf("Create 应成功: %v", err)
	}
	if created.Status != "AVAILABLE" {
		t.Errorf("缺省状态应为 AVAILABLE，实际 %s", created.Status)
	}
	if created.StartTime != "08:00:00" || created.EndTime != "10:00:00" {
		t.Errorf("时间未规范化: %s-%s", created.StartTime, created.EndTime)
	}
	if created.ScheduleHint != availability.Matched {
		t.Errorf("周一 08:00-10:00 应落在早班内，实际 %s", created.ScheduleHint)
	}
}

func TestSlotService_Create_HintIsAdvisory(t *testing.T) {
	env := setupTestEnv(t)

	req := validSlotRequest()
	req.DayOfWeek = "FRIDAY"
	created, err := env.svc.Slot.Create(context.Background(), testActor, &req)
	if err != nil {
		t.Fatalf("班次外的时段也应允许创建: %v", err)
	}
	if created.ScheduleHint != availability.Unmatched {
		t.Errorf("期望提示 UNMATCHED，实际 %s", created.ScheduleHint)
	}
}

func TestSlotService_Create_DateDerivesDay(t *testing.T) {
	env := setupTestEnv(t)

	req := validSlotRequest()
	req.DayOfWeek = ""
	req.SpecificDate = "2026-01-05"
	created, err := env.svc.Slot.Create(context.Background(), testActor, &req)
	if err != nil {
		t.Fatalf("Create 应成功: %v", err)
	}
	if created.DayOfWeek != "MONDAY" {
		t.Errorf("2026-01-05 应推导为 MONDAY，实际 %s", created.DayOfWeek)
	}
}

func TestSlotService_Create_Validation(t *testing.T) {
	env := setupTestEnv(t)

	tests := []struct {
		name   string
		mutate func(r *dto.CreateSlotRequest)
		field  string
	}{
		{"星期与日期都缺失", func(r *dto.CreateSlotRequest) { r.DayOfWeek = "" }, "day_of_week"},
		{"星期与日期不一致", func(r *dto.CreateSlotRequest) { r.SpecificDate = "2026-01-06" }, "day_of_week"},
		{"日期格式错误", func(r *dto.CreateSlotRequest) { r.SpecificDate = "05/01/2026" }, "specific_date"},
		{"结束早于开始", func(r *dto.CreateSlotRequest) { r.EndTime = "07:00" }, "end_time"},
		{"容量为零", func(r *dto.CreateSlotRequest) { r.MaxCapacity = 0 }, "max_capacity"},
		{"状态无效", func(r *dto.CreateSlotRequest) { r.Status = "FULL" }, "status"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validSlotRequest()
			tt.mutate(&req)
			_, err := env.svc.Slot.Create(context.Background(), testActor, &req)
			var appErr *apperrors.Error
			if !errors.As(err, &appErr) || !errors.Is(err, apperrors.ErrValidation) {
				t.Fatalf("期望 ValidationError，实际: %v", err)
			}
			if appErr.Field != tt.field {
				t.Errorf("期望字段 %s，实际 %s", tt.field, appErr.Field)
			}
		})
	}
	if n := env.count(t, store.TableSlots); n != 0 {
		t.Errorf("校验失败不应写入，实际 %d", n)
	}
}

func TestSlotService_Create_References(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	req := validSlotRequest()
	req.TeamID = "nope"
	if _, err := env.svc.Slot.Create(ctx, testActor, &req); !errors.Is(err, ErrTeamRefNotFound) {
		t.Errorf("期望 ErrTeamRefNotFound，实际: %v", err)
	}
	req = validSlotRequest()
	req.WorkTypeID = "wt-gone"
	if _, err := env.svc.Slot.Create(ctx, testActor, &req); !errors.Is(err, ErrWorkTypeRefNotFound) {
		t.Errorf("期望 ErrWorkTypeRefNotFound，实际: %v", err)
	}
	req = validSlotRequest()
	req.EmployeeID = "emp-gone"
	if _, err := env.svc.Slot.Create(ctx, testActor, &req); !errors.Is(err, apperrors.ErrReference) {
		t.Errorf("期望 ReferenceError，实际: %v", err)
	}
}

func TestSlotService_UpdateListDelete(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	req := validSlotRequest()
	created, err := env.svc.Slot.Create(ctx, testActor, &req)
	if err != nil {
		t.Fatalf("Create 应成功: %v", err)
	}

	updated, err := env.svc.Slot.Update(ctx, testActor, created.ID, &dto.UpdateSlotRequest{SpecificDate: ptr("2026-01-07")})
	if err != nil {
		t.Fatalf("Update 应成功: %v", err)
	}
	if updated.DayOfWeek != "WEDNESDAY" {
		t.Errorf("只改日期时星期应重新推导，实际 %s", updated.DayOfWeek)
	}

	list, _ := env.svc.Slot.List(ctx, &dto.SlotListRequest{DayOfWeek: "wednesday"})
	if len(list) != 1 {
		t.Errorf("期望 1 个周三时段，实际 %d", len(list))
	}
	list, _ = env.svc.Slot.List(ctx, &dto.SlotListRequest{TeamID: "other"})
	if len(list) != 0 {
		t.Errorf("期望 0 个时段，实际 %d", len(list))
	}

	if err := env.svc.Slot.Delete(ctx, testActor, created.ID); err != nil {
		t.Fatalf("Delete 应成功: %v", err)
	}
	if _, err := env.svc.Slot.GetByID(ctx, created.ID); !errors.Is(err, ErrSlotNotFound) {
		t.Errorf("期望 ErrSlotNotFound，实际: %v", err)
	}
}
