package store

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"go.uber.org/zap"

	"pet-cafe/backend/internal/model"
	apperrors "pet-cafe/backend/pkg/errors"
)

// Snapshot 存储全量快照（含已软删除的行），字段形状与 REST 接口一致
type Snapshot struct {
	Employees      []model.Employee      `json:"employees"`
	WorkTypes      []model.WorkType      `json:"work_types"`
	WorkShifts     []model.WorkShift     `json:"work_shifts"`
	Teams          []model.Team          `json:"teams"`
	TeamMembers    []model.TeamMember    `json:"team_members"`
	TeamWorkTypes  []model.TeamWorkType  `json:"team_work_types"`
	TeamWorkShifts []model.TeamWorkShift `json:"team_work_shifts"`
	Slots          []model.Slot          `json:"slots"`
}

// Export 导出当前状态
func (s *Store) Export(ctx context.Context) (Snapshot, error) {
	var snap Snapshot
	err := s.View(ctx, func(v View) error {
		snap = Snapshot{
			Employees:      v.Employees().ListWithDeleted(nil),
			WorkTypes:      v.WorkTypes().ListWithDeleted(nil),
			WorkShifts:     v.WorkShifts().ListWithDeleted(nil),
			Teams:          v.Teams().ListWithDeleted(nil),
			TeamMembers:    v.TeamMembers().ListWithDeleted(nil),
			TeamWorkTypes:  v.TeamWorkTypes().ListWithDeleted(nil),
			TeamWorkShifts: v.TeamWorkShifts().ListWithDeleted(nil),
			Slots:          v.Slots().ListWithDeleted(nil),
		}
		return nil
	})
	return snap, err
}

// Import 以快照替换当前全部状态
//
// 行按原样写入（保留审计字段与删除标记），每行必须带 ID 且同表内不得重复。
func (s *Store) Import(ctx context.Context, snap Snapshot) error {
	next := newState()
	if err := putAll(next.employees, snap.Employees); err != nil {
		return err
	}
	if err := putAll(next.workTypes, snap.WorkTypes); err != nil {
		return err
	}
	if err := putAll(next.workShifts, snap.WorkShifts); err != nil {
		return err
	}
	if err := putAll(next.teams, snap.Teams); err != nil {
		return err
	}
	if err := putAll(next.teamMembers, snap.TeamMembers); err != nil {
		return err
	}
	if err := putAll(next.teamWorkTypes, snap.TeamWorkTypes); err != nil {
		return err
	}
	if err := putAll(next.teamWorkShifts, snap.TeamWorkShifts); err != nil {
		return err
	}
	if err := putAll(next.slots, snap.Slots); err != nil {
		return err
	}

	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return apperrors.ErrStoreClosed
	}
	s.state = next
	s.logger.Info("快照已导入",
		zap.Int("teams", len(snap.Teams)),
		zap.Int("employees", len(snap.Employees)),
		zap.Int("work_shifts", len(snap.WorkShifts)),
	)
	return nil
}

// LoadSnapshot 从 JSON 读取快照
func LoadSnapshot(r io.Reader) (Snapshot, error) {
	var snap Snapshot
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&snap); err != nil {
		return Snapshot{}, fmt.Errorf("解析快照失败: %w", err)
	}
	return snap, nil
}

func putAll[T any](t *table[T], rows []T) error {
	for i := range rows {
		id := t.base(&rows[i]).ID
		if id == "" {
			return apperrors.Validation(fmt.Sprintf("%s[%d].id", t.name, i), "快照行缺少 ID")
		}
		if _, ok := t.rows[id]; ok {
			return apperrors.Duplicate(t.name, id, "快照内 ID 重复")
		}
		t.put(rows[i])
	}
	return nil
}
