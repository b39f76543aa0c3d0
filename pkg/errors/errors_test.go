package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefine_UnwrapsToKind(t *testing.T) {
	errTeamNotFound := Define(ErrNotFound, "团队不存在")

	wrapped := WithID(errTeamNotFound, "team-1")
	assert.ErrorIs(t, wrapped, errTeamNotFound)
	assert.ErrorIs(t, wrapped, ErrNotFound)
	assert.NotErrorIs(t, wrapped, ErrReference)
	assert.Equal(t, "团队不存在: team-1", wrapped.Error())
}

func TestKindName(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{nil, "ok"},
		{errors.New("boom"), "internal"},
		{NotFound("teams", "t-1"), "not_found"},
		{Validation("name", "不能为空"), "validation"},
		{Define(ErrReference, "负责人不存在"), "reference"},
		{Duplicate("team_members", "e-1", "已是成员"), "duplicate"},
		{PermissionDenied("team:write"), "permission_denied"},
		{fmt.Errorf("wrapped: %w", ErrStoreClosed), "store_closed"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, KindName(tt.err))
		})
	}
}

func TestError_Message(t *testing.T) {
	assert.Equal(t, "name: 不能为空", Validation("name", "不能为空").Error())
	assert.Equal(t, "teams(t-1): 记录不存在或已删除", NotFound("teams", "t-1").Error())
}
