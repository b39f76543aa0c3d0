package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"pet-cafe/backend/internal/dto"
	"pet-cafe/backend/internal/service"
	apperrors "pet-cafe/backend/pkg/errors"
	"pet-cafe/backend/pkg/response"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// ═══════════════════════════════════════════════════════════
// Mock Services
// ═══════════════════════════════════════════════════════════

// ── Mock AuthService ──

type mockAuthService struct {
	loginResult *dto.TokenResponse
	loginErr    error
	logoutErr   error
	loggedOut   string
	logoutTTL   time.Duration
}

func (m *mockAuthService) Login(_ context.Context, _ *dto.LoginRequest) (*dto.TokenResponse, error) {
	return m.loginResult, m.loginErr
}
func (m *mockAuthService) Logout(_ context.Context, jti string, ttl time.Duration) error {
	m.loggedOut, m.logoutTTL = jti, ttl
	return m.logoutErr
}

// ── Mock TeamService ──

type mockTeamService struct {
	detail     *dto.TeamDetailResponse
	members    []dto.TeamMemberResponse
	shifts     []dto.TeamWorkShiftResponse
	err        error
	lastActor  service.Actor
	lastActive *bool
}

func (m *mockTeamService) CreateTeam(_ context.Context, actor service.Actor, _ *dto.CreateTeamRequest) (*dto.TeamDetailResponse, error) {
	m.lastActor = actor
	return m.detail, m.err
}
func (m *mockTeamService) UpdateTeam(_ context.Context, actor service.Actor, _ string, _ *dto.UpdateTeamRequest) (*dto.TeamDetailResponse, error) {
	m.lastActor = actor
	return m.detail, m.err
}
func (m *mockTeamService) DeleteTeam(_ context.Context, actor service.Actor, _ string) error {
	m.lastActor = actor
	return m.err
}
func (m *mockTeamService) AddTeamMembers(_ context.Context, actor service.Actor, _ string, _ []string) ([]dto.TeamMemberResponse, error) {
	m.lastActor = actor
	return m.members, m.err
}
func (m *mockTeamService) RemoveTeamMember(_ context.Context, actor service.Actor, _, _ string) error {
	m.lastActor = actor
	return m.err
}
func (m *mockTeamService) SetTeamMemberActive(_ context.Context, actor service.Actor, _, _ string, active bool) ([]dto.TeamMemberResponse, error) {
	m.lastActor = actor
	m.lastActive = &active
	return m.members, m.err
}
func (m *mockTeamService) AssignWorkShifts(_ context.Context, actor service.Actor, _ string, _ []string) ([]dto.TeamWorkShiftResponse, error) {
	m.lastActor = actor
	return m.shifts, m.err
}
func (m *mockTeamService) UnassignWorkShift(_ context.Context, actor service.Actor, _, _ string) error {
	m.lastActor = actor
	return m.err
}

// ── Mock ResolverService ──

type mockResolverService struct {
	detail     *dto.TeamDetailResponse
	list       []dto.TeamDetailResponse
	err        error
	lastFilter service.TeamFilter
}

func (m *mockResolverService) ResolveTeamMembers(_ context.Context, _ string) ([]dto.TeamMemberResponse, error) {
	if m.detail == nil {
		return nil, m.err
	}
	return m.detail.Members, m.err
}
func (m *mockResolverService) ResolveTeamWorkTypes(_ context.Context, _ string) ([]dto.WorkTypeResponse, error) {
	if m.detail == nil {
		return nil, m.err
	}
	return m.detail.WorkTypes, m.err
}
func (m *mockResolverService) ResolveTeamWorkShifts(_ context.Context, _ string) ([]dto.TeamWorkShiftResponse, error) {
	if m.detail == nil {
		return nil, m.err
	}
	return m.detail.WorkShifts, m.err
}
func (m *mockResolverService) ResolveTeamDetail(_ context.Context, _ string) (*dto.TeamDetailResponse, error) {
	return m.detail, m.err
}
func (m *mockResolverService) ListTeamDetails(_ context.Context, filter service.TeamFilter) ([]dto.TeamDetailResponse, error) {
	m.lastFilter = filter
	return m.list, m.err
}

// ── Mock CalendarService ──

type mockCalendarService struct {
	body     string
	err      error
	lastFrom time.Time
}

func (m *mockCalendarService) TeamShiftsICS(_ context.Context, _ string, from time.Time) (string, error) {
	m.lastFrom = from
	return m.body, m.err
}

// ── Mock MatchService / ExportService ──

type mockMatchService struct {
	result *dto.MatchResponse
	err    error
}

func (m *mockMatchService) Match(_ context.Context, _ *dto.MatchRequest) (*dto.MatchResponse, error) {
	return m.result, m.err
}

type mockExportService struct {
	buf      *bytes.Buffer
	filename string
	err      error
}

func (m *mockExportService) ExportMatches(_ context.Context, _ *dto.MatchRequest) (*bytes.Buffer, string, error) {
	return m.buf, m.filename, m.err
}

// ═══════════════════════════════════════════════════════════
// 测试辅助
// ═══════════════════════════════════════════════════════════

// withActor 模拟 JWT 中间件注入的认证信息
func withActor(h gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(CtxUserID, "manager-1")
		c.Set(CtxRole, "manager")
		c.Set(CtxJTI, "jti-1")
		c.Set(CtxTokenExp, time.Now().Add(10*time.Minute))
		h(c)
	}
}

func jsonBody(v interface{}) io.Reader {
	b, _ := json.Marshal(v)
	return bytes.NewReader(b)
}

func parseResponse(w *httptest.ResponseRecorder) response.Response {
	var resp response.Response
	json.Unmarshal(w.Body.Bytes(), &resp)
	return resp
}

func serve(r *gin.Engine, method, path string, body io.Reader) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, body)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	r.ServeHTTP(w, req)
	return w
}

func sampleDetail() *dto.TeamDetailResponse {
	return &dto.TeamDetailResponse{
		TeamResponse: dto.TeamResponse{ID: "team-cat", Name: "Cat Zone Care", LeaderID: "emp-leader", IsActive: true, Status: "ACTIVE"},
		Members: []dto.TeamMemberResponse{
			{ID: "synthetic", TeamID: "team-cat", EmployeeID: "emp-leader", IsActive: true, IsLeader: true, Synthetic: true},
		},
		WorkTypes:  []dto.WorkTypeResponse{{ID: "wt-cat", Name: "Cat care", IsActive: true}},
		WorkShifts: []dto.TeamWorkShiftResponse{},
	}
}

func teamRouter(teamSvc *mockTeamService, resolver *mockResolverService, cal *mockCalendarService) *gin.Engine {
	h := NewTeamHandler(teamSvc, resolver, cal)
	r := gin.New()
	r.GET("/teams", withActor(h.ListTeams))
	r.POST("/teams", withActor(h.CreateTeam))
	r.POST("/teams-anonymous", h.CreateTeam)
	r.GET("/teams/:id", withActor(h.GetTeam))
	r.PUT("/teams/:id", withActor(h.UpdateTeam))
	r.DELETE("/teams/:id", withActor(h.DeleteTeam))
	r.GET("/teams/:id/members", withActor(h.ListMembers))
	r.POST("/teams/:id/members", withActor(h.AddMembers))
	r.DELETE("/teams/:id/members/:employee_id", withActor(h.RemoveMember))
	r.PUT("/teams/:id/members/:employee_id/active", withActor(h.SetMemberActive))
	r.POST("/teams/:id/work-shifts", withActor(h.AssignWorkShifts))
	r.GET("/teams/:id/shifts.ics", withActor(h.ShiftsCalendar))
	return r
}

// ═══════════════════════════════════════════════════════════
// AuthHandler
// ═══════════════════════════════════════════════════════════

func TestAuthHandler_Login_Success(t *testing.T) {
	mock := &mockAuthService{loginResult: &dto.TokenResponse{AccessToken: "token", ExpiresIn: 900, Role: "manager"}}
	h := NewAuthHandler(mock)

	r := gin.New()
	r.POST("/auth/login", h.Login)
	w := serve(r, "POST", "/auth/login", jsonBody(dto.LoginRequest{Username: "lan", Password: "Meow@2026"}))

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	resp := parseResponse(w)
	if resp.Code != 0 {
		t.Errorf("expected code 0, got %d", resp.Code)
	}
}

func TestAuthHandler_Login_BadJSON(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{})

	r := gin.New()
	r.POST("/auth/login", h.Login)
	w := serve(r, "POST", "/auth/login", strings.NewReader("invalid json"))

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestAuthHandler_Login_InvalidCredentials(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{loginErr: service.ErrInvalidCredentials})

	r := gin.New()
	r.POST("/auth/login", h.Login)
	w := serve(r, "POST", "/auth/login", jsonBody(dto.LoginRequest{Username: "lan", Password: "bad"}))

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
	if resp := parseResponse(w); resp.Code != 11001 {
		t.Errorf("expected code 11001, got %d", resp.Code)
	}
}

func TestAuthHandler_Logout_Success(t *testing.T) {
	mock := &mockAuthService{}
	h := NewAuthHandler(mock)

	r := gin.New()
	r.POST("/auth/logout", withActor(h.Logout))
	w := serve(r, "POST", "/auth/logout", nil)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if mock.loggedOut != "jti-1" || mock.logoutTTL <= 0 {
		t.Errorf("期望以 jti-1 与剩余有效期登出，实际 %s %v", mock.loggedOut, mock.logoutTTL)
	}
}

func TestAuthHandler_Logout_Unauthenticated(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{})

	r := gin.New()
	r.POST("/auth/logout", h.Logout)
	w := serve(r, "POST", "/auth/logout", nil)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
}

// ═══════════════════════════════════════════════════════════
// TeamHandler
// ═══════════════════════════════════════════════════════════

func TestTeamHandler_CreateTeam_Success(t *testing.T) {
	teamSvc := &mockTeamService{detail: sampleDetail()}
	r := teamRouter(teamSvc, &mockResolverService{}, &mockCalendarService{})

	w := serve(r, "POST", "/teams", jsonBody(dto.CreateTeamRequest{
		Name: "Cat Zone Care", Description: "d", LeaderID: "emp-leader", WorkTypeIDs: []string{"wt-cat"},
	}))

	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", w.Code)
	}
	if teamSvc.lastActor.ID != "manager-1" || teamSvc.lastActor.Role != "manager" {
		t.Errorf("操作者应来自认证上下文，实际 %+v", teamSvc.lastActor)
	}

	var body struct {
		Data struct {
			Members []map[string]interface{} `json:"team_members"`
		} `json:"data"`
	}
	json.Unmarshal(w.Body.Bytes(), &body)
	if len(body.Data.Members) != 1 || body.Data.Members[0]["synthetic"] != true {
		t.Errorf("响应应包含 team_members 及隐式组长: %s", w.Body.String())
	}
}

func TestTeamHandler_CreateTeam_Unauthenticated(t *testing.T) {
	r := teamRouter(&mockTeamService{}, &mockResolverService{}, &mockCalendarService{})

	w := serve(r, "POST", "/teams-anonymous", jsonBody(dto.CreateTeamRequest{
		Name: "x", Description: "d", LeaderID: "e", WorkTypeIDs: []string{"wt"},
	}))
	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
}

func TestTeamHandler_ErrorMapping(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantHTTP int
		wantCode int
	}{
		{"组长不存在", apperrors.WithID(service.ErrLeaderNotFound, "emp-gone"), http.StatusUnprocessableEntity, response.CodeReferenceMissing},
		{"成员重复", apperrors.WithID(service.ErrMemberDuplicate, "emp-a"), http.StatusConflict, response.CodeDuplicate},
		{"无权限", apperrors.PermissionDenied(service.CapTeamWrite), http.StatusForbidden, response.CodeForbidden},
		{"参数校验", apperrors.Validation("name", "团队名称不能为空"), http.StatusBadRequest, response.CodeInvalidParams},
		{"团队不存在", apperrors.WithID(service.ErrTeamNotFound, "nope"), http.StatusNotFound, response.CodeNotFound},
		{"存储关闭", apperrors.ErrStoreClosed, http.StatusServiceUnavailable, response.CodeUnavailable},
		{"未知错误", errors.New("boom"), http.StatusInternalServerError, response.CodeInternal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := teamRouter(&mockTeamService{err: tt.err}, &mockResolverService{}, &mockCalendarService{})
			w := serve(r, "POST", "/teams/team-cat/members", jsonBody(dto.AddTeamMembersRequest{EmployeeIDs: []string{"emp-a"}}))

			if w.Code != tt.wantHTTP {
				t.Errorf("expected %d, got %d", tt.wantHTTP, w.Code)
			}
			if resp := parseResponse(w); resp.Code != tt.wantCode {
				t.Errorf("expected code %d, got %d", tt.wantCode, resp.Code)
			}
		})
	}
}

func TestTeamHandler_ListTeams_PassesFilter(t *testing.T) {
	resolver := &mockResolverService{list: []dto.TeamDetailResponse{*sampleDetail()}}
	r := teamRouter(&mockTeamService{}, resolver, &mockCalendarService{})

	w := serve(r, "GET", "/teams?include_inactive=true&work_type_id=wt-cat", nil)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if !resolver.lastFilter.IncludeInactive || resolver.lastFilter.WorkTypeID != "wt-cat" {
		t.Errorf("过滤条件未传递: %+v", resolver.lastFilter)
	}
}

func TestTeamHandler_GetTeam_NotFound(t *testing.T) {
	resolver := &mockResolverService{err: apperrors.WithID(service.ErrTeamNotFound, "nope")}
	r := teamRouter(&mockTeamService{}, resolver, &mockCalendarService{})

	w := serve(r, "GET", "/teams/nope", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
}

func TestTeamHandler_SetMemberActive(t *testing.T) {
	teamSvc := &mockTeamService{members: sampleDetail().Members}
	r := teamRouter(teamSvc, &mockResolverService{}, &mockCalendarService{})

	w := serve(r, "PUT", "/teams/team-cat/members/emp-a/active", jsonBody(map[string]interface{}{}))
	if w.Code != http.StatusBadRequest {
		t.Errorf("缺少 is_active 应返回 400，实际 %d", w.Code)
	}

	w = serve(r, "PUT", "/teams/team-cat/members/emp-a/active", jsonBody(map[string]interface{}{"is_active": false}))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if teamSvc.lastActive == nil || *teamSvc.lastActive {
		t.Error("期望以 is_active=false 调用")
	}
}

func TestTeamHandler_DeleteAndRemove(t *testing.T) {
	r := teamRouter(&mockTeamService{}, &mockResolverService{}, &mockCalendarService{})

	if w := serve(r, "DELETE", "/teams/team-cat", nil); w.Code != http.StatusOK {
		t.Errorf("DeleteTeam expected 200, got %d", w.Code)
	}
	if w := serve(r, "DELETE", "/teams/team-cat/members/emp-a", nil); w.Code != http.StatusOK {
		t.Errorf("RemoveMember expected 200, got %d", w.Code)
	}
}

func TestTeamHandler_ShiftsCalendar(t *testing.T) {
	cal := &mockCalendarService{body: "BEGIN:VCALENDAR\r\nEND:VCALENDAR\r\n"}
	r := teamRouter(&mockTeamService{}, &mockResolverService{}, cal)

	w := serve(r, "GET", "/teams/team-cat/shifts.ics?from=2026-01-05", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/calendar") {
		t.Errorf("Content-Type 错误: %s", ct)
	}
	if cal.lastFrom.Format("2006-01-02") != "2026-01-05" {
		t.Errorf("from 未传递: %v", cal.lastFrom)
	}

	w = serve(r, "GET", "/teams/team-cat/shifts.ics?from=05/01/2026", nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("非法 from 应返回 400，实际 %d", w.Code)
	}
}

// ═══════════════════════════════════════════════════════════
// AvailabilityHandler
// ═══════════════════════════════════════════════════════════

func TestAvailabilityHandler_Match(t *testing.T) {
	mock := &mockMatchService{result: &dto.MatchResponse{
		Mode:    "FILTER",
		Results: []dto.TeamMatchResponse{{Team: *sampleDetail(), WorkTypeCompatible: true, Schedule: "MATCHED", MatchedShiftIDs: []string{"ws-morning"}}},
	}}
	h := NewAvailabilityHandler(mock, &mockExportService{})

	r := gin.New()
	r.POST("/availability/match", h.Match)
	w := serve(r, "POST", "/availability/match", jsonBody(dto.MatchRequest{DayOfWeek: "MONDAY", StartTime: "08:00", EndTime: "09:00"}))

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"schedule":"MATCHED"`) {
		t.Errorf("响应缺少匹配结果: %s", w.Body.String())
	}
}

func TestAvailabilityHandler_Match_InvalidMode(t *testing.T) {
	mock := &mockMatchService{err: apperrors.Validation("mode", "匹配模式只能为 FILTER 或 RANK")}
	h := NewAvailabilityHandler(mock, &mockExportService{})

	r := gin.New()
	r.POST("/availability/match", h.Match)
	w := serve(r, "POST", "/availability/match", jsonBody(dto.MatchRequest{Mode: "BEST"}))

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestAvailabilityHandler_Export(t *testing.T) {
	mock := &mockExportService{buf: bytes.NewBufferString("xlsx"), filename: "team-match-monday-080000.xlsx"}
	h := NewAvailabilityHandler(&mockMatchService{}, mock)

	r := gin.New()
	r.POST("/availability/export", h.Export)
	w := serve(r, "POST", "/availability/export", jsonBody(dto.MatchRequest{}))

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != xlsxContentType {
		t.Errorf("Content-Type 错误: %s", ct)
	}
	if cd := w.Header().Get("Content-Disposition"); !strings.Contains(cd, "team-match-monday-080000.xlsx") {
		t.Errorf("Content-Disposition 错误: %s", cd)
	}
}

func TestAvailabilityHandler_Export_GenerateFail(t *testing.T) {
	h := NewAvailabilityHandler(&mockMatchService{}, &mockExportService{err: service.ErrExportGenerateFail})

	r := gin.New()
	r.POST("/availability/export", h.Export)
	w := serve(r, "POST", "/availability/export", jsonBody(dto.MatchRequest{}))

	if w.Code != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", w.Code)
	}
}
