package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"pet-cafe/backend/config"
	"pet-cafe/backend/internal/model"
	"pet-cafe/backend/internal/store"
)

// ── 测试夹具 ──
//
// 使用真实的内存存储并通过快照导入固定数据：
//   - 员工：emp-leader（组长）、emp-a、emp-b、emp-gone（已删除）
//   - 工作类型：wt-cat、wt-dog、wt-gone（已删除）
//   - 班次：ws-morning 07:30-12:00 周一、ws-evening 13:00-18:00 周二/周三、ws-gone（已删除）
//   - 团队：team-cat "Cat Zone Care"，组长 emp-leader，成员 emp-a，工作类型 wt-cat，班次 ws-morning

var testActor = Actor{ID: "manager-1", Role: "manager"}

var testNow = time.Date(2026, 1, 5, 8, 0, 0, 0, time.UTC)

type testEnv struct {
	store *store.Store
	svc   *Service
}

func deleted(id string) model.BaseModel {
	return model.BaseModel{ID: id, IsDeleted: true}
}

func live(id string) model.BaseModel {
	return model.BaseModel{ID: id, CreatedAt: testNow, UpdatedAt: testNow, CreatedBy: "seed", UpdatedBy: "seed"}
}

func seedSnapshot() store.Snapshot {
	return store.Snapshot{
		Employees: []model.Employee{
			{BaseModel: live("emp-leader"), FullName: "Lan Nguyen", Email: "lan@petcafe.vn", Salary: decimal.NewFromInt(9000000), SubRole: model.SubRoleWorkingStaff},
			{BaseModel: live("emp-a"), FullName: "Minh Tran", Skills: []string{"cat grooming"}, SubRole: model.SubRoleWorkingStaff},
			{BaseModel: live("emp-b"), FullName: "Hoa Le", SubRole: model.SubRoleSaleStaff},
			{BaseModel: deleted("emp-gone"), FullName: "Former Staff"},
		},
		WorkTypes: []model.WorkType{
			{BaseModel: live("wt-cat"), Name: "Cat care", IsActive: true},
			{BaseModel: live("wt-dog"), Name: "Dog care", IsActive: true},
			{BaseModel: deleted("wt-gone"), Name: "Bird care"},
		},
		WorkShifts: []model.WorkShift{
			{BaseModel: live("ws-morning"), Name: "Morning", StartTime: "07:30:00", EndTime: "12:00:00", ApplicableDays: []model.Weekday{model.Monday}, IsActive: true},
			{BaseModel: live("ws-evening"), Name: "Evening", StartTime: "13:00:00", EndTime: "18:00:00", ApplicableDays: []model.Weekday{model.Tuesday, model.Wednesday}, IsActive: true},
			{BaseModel: deleted("ws-gone"), Name: "Night", StartTime: "18:00:00", EndTime: "22:00:00"},
		},
		Teams: []model.Team{
			{BaseModel: live("team-cat"), Name: "Cat Zone Care", Description: "Cat area staff", LeaderID: "emp-leader", IsActive: true, Status: model.TeamStatusActive},
		},
		TeamMembers: []model.TeamMember{
			{BaseModel: live("tm-a"), TeamID: "team-cat", EmployeeID: "emp-a", IsActive: true},
		},
		TeamWorkTypes: []model.TeamWorkType{
			{BaseModel: live("twt-cat"), TeamID: "team-cat", WorkTypeID: "wt-cat"},
		},
		TeamWorkShifts: []model.TeamWorkShift{
			{BaseModel: live("tws-morning"), TeamID: "team-cat", WorkShiftID: "ws-morning"},
		},
	}
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	return setupTestEnvWith(t, AllowAll)
}

func setupTestEnvWith(t *testing.T, perm PermissionChecker) *testEnv {
	t.Helper()
	n := 0
	st := store.New(
		store.WithClock(func() time.Time { return testNow }),
		store.WithIDGenerator(func() string {
			n++
			return fmt.Sprintf("gen-%d", n)
		}),
	)
	if err := st.Import(context.Background(), seedSnapshot()); err != nil {
		t.Fatalf("导入测试数据失败: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })

	cfg := &config.Config{
		Auth:     config.AuthConfig{JWTSecret: "test-secret-key-for-unit-testing-2026", AccessTokenTTL: time.Hour},
		Matching: config.MatchingConfig{DefaultMode: "FILTER"},
	}
	svc := NewService(cfg, st, perm, nil, nil, nil, zap.NewNop())
	return &testEnv{store: st, svc: svc}
}

// count 统计某表未删除行数
func (e *testEnv) count(t *testing.T, table string) int {
	t.Helper()
	n := 0
	err := e.store.View(context.Background(), func(v store.View) error {
		switch table {
		case store.TableTeams:
			n = v.Teams().Len()
		case store.TableTeamMembers:
			n = v.TeamMembers().Len()
		case store.TableTeamWorkTypes:
			n = v.TeamWorkTypes().Len()
		case store.TableTeamWorkShifts:
			n = v.TeamWorkShifts().Len()
		case store.TableSlots:
			n = v.Slots().Len()
		default:
			t.Fatalf("未知表 %s", table)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("读取存储失败: %v", err)
	}
	return n
}

func ptr[T any](v T) *T { return &v }
