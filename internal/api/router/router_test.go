package router

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"pet-cafe/backend/config"
	"pet-cafe/backend/internal/api/handler"
	"pet-cafe/backend/internal/service"
	"pet-cafe/backend/internal/store"
	"pet-cafe/backend/pkg/jwt"
	"pet-cafe/backend/pkg/metrics"
	"pet-cafe/backend/pkg/redis"
)

type testServer struct {
	engine *gin.Engine
	mr     *miniredis.Miniredis
}

// newTestServer 组装完整链路：内存存储 + miniredis 黑名单 + 独立的 prometheus 注册表
func newTestServer(t *testing.T) *testServer {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("Meow@2026"), bcrypt.MinCost)
	require.NoError(t, err)

	mr := miniredis.RunT(t)
	cfg := &config.Config{
		Server: config.ServerConfig{CORS: config.CORSConfig{AllowOrigins: []string{"http://localhost:5173"}}},
		Redis:  config.RedisConfig{Enabled: true, Addr: mr.Addr()},
		Auth: config.AuthConfig{
			JWTSecret:      "router-test-secret",
			AccessTokenTTL: 15 * time.Minute,
			Operators: []config.OperatorConfig{
				{Username: "manager", PasswordHash: string(hash), Role: "manager"},
				{Username: "staff", PasswordHash: string(hash), Role: "working_staff"},
			},
		},
		Permission: config.PermissionConfig{Roles: map[string][]string{
			"manager":       {"*"},
			"working_staff": {service.CapSlotWrite},
		}},
		Matching: config.MatchingConfig{DefaultMode: "FILTER"},
	}

	logger := zap.NewNop()
	rdb, err := redis.NewClient(&cfg.Redis, logger)
	require.NoError(t, err)
	t.Cleanup(func() { rdb.Close() })

	st := store.New(store.WithLogger(logger))
	t.Cleanup(func() { st.Close() })

	reg := prometheus.NewRegistry()
	m, err := metrics.New(reg)
	require.NoError(t, err)

	jwtMgr := jwt.NewManager(&cfg.Auth)
	svc := service.NewService(cfg, st, service.NewRolePermissions(&cfg.Permission), jwtMgr, rdb, m, logger)

	return &testServer{
		engine: Setup(cfg, handler.NewHandler(svc), jwtMgr, rdb, reg, logger),
		mr:     mr,
	}
}

func (s *testServer) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	return w
}

func (s *testServer) login(t *testing.T, username string) string {
	t.Helper()
	w := s.do(t, "POST", "/api/v1/auth/login", "", map[string]string{"username": username, "password": "Meow@2026"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Data struct {
			AccessToken string `json:"access_token"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Data.AccessToken)
	return resp.Data.AccessToken
}

// createID 发送创建请求并返回 data.id
func (s *testServer) createID(t *testing.T, path, token string, body interface{}) string {
	t.Helper()
	w := s.do(t, "POST", path, token, body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp struct {
		Data struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Data.ID)
	return resp.Data.ID
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, "GET", "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"ok"`)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	s.mr.Close()
	w = s.do(t, "GET", "/health", "", nil)
	assert.Contains(t, w.Body.String(), `"degraded"`)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, "GET", "/api/v1/teams", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.do(t, "GET", "/api/v1/teams", "not-a-jwt", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLogin_WrongPassword(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, "POST", "/api/v1/auth/login", "", map[string]string{"username": "manager", "password": "nope"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestTeamLifecycleAndMatch(t *testing.T) {
	s := newTestServer(t)
	token := s.login(t, "manager")

	leader := s.createID(t, "/api/v1/employees", token, map[string]interface{}{"full_name": "Nguyen Thi Lan", "email": "lan@petcafe.vn"})
	member := s.createID(t, "/api/v1/employees", token, map[string]interface{}{"full_name": "Tran Van Minh"})
	workType := s.createID(t, "/api/v1/work-types", token, map[string]interface{}{"name": "Cat care"})
	shift := s.createID(t, "/api/v1/work-shifts", token, map[string]interface{}{
		"name": "Morning shift", "start_time": "07:30", "end_time": "12:00", "applicable_days": []string{"MONDAY"},
	})

	teamID := s.createID(t, "/api/v1/teams", token, map[string]interface{}{
		"name":           "Cat Zone Care",
		"description":    "Cat zone",
		"leader_id":      leader,
		"work_type_ids":  []string{workType},
		"member_ids":     []string{member},
		"work_shift_ids": []string{shift},
	})

	// 详情：组长作为隐式成员出现一次
	w := s.do(t, "GET", "/api/v1/teams/"+teamID, token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var detail struct {
		Data struct {
			Members []struct {
				EmployeeID string `json:"employee_id"`
				IsLeader   bool   `json:"is_leader"`
			} `json:"team_members"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &detail))
	require.Len(t, detail.Data.Members, 2)
	leaders := 0
	for _, m := range detail.Data.Members {
		if m.IsLeader {
			leaders++
			assert.Equal(t, leader, m.EmployeeID)
		}
	}
	assert.Equal(t, 1, leaders)

	// 重复添加已有成员整体拒绝
	w = s.do(t, "POST", "/api/v1/teams/"+teamID+"/members", token, map[string]interface{}{"employee_ids": []string{member}})
	assert.Equal(t, http.StatusConflict, w.Code)

	// 引用不存在的组长
	w = s.do(t, "POST", "/api/v1/teams", token, map[string]interface{}{
		"name": "Ghost", "description": "x", "leader_id": "emp-missing", "work_type_ids": []string{workType},
	})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	// 匹配：周一 08:00-09:00 落在早班内
	w = s.do(t, "POST", "/api/v1/availability/match", token, map[string]interface{}{
		"day_of_week": "MONDAY", "start_time": "08:00", "end_time": "09:00", "work_type_id": workType,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var match struct {
		Data struct {
			Results []struct {
				Schedule        string   `json:"schedule"`
				MatchedShiftIDs []string `json:"matched_shift_ids"`
			} `json:"results"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &match))
	require.Len(t, match.Data.Results, 1)
	assert.Equal(t, "MATCHED", match.Data.Results[0].Schedule)
	assert.Equal(t, []string{shift}, match.Data.Results[0].MatchedShiftIDs)

	// 日历
	w = s.do(t, "GET", "/api/v1/teams/"+teamID+"/shifts.ics?from=2026-01-05", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "RRULE:FREQ=WEEKLY;BYDAY=MO")

	// 删除后 404
	w = s.do(t, "DELETE", "/api/v1/teams/"+teamID, token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	w = s.do(t, "GET", "/api/v1/teams/"+teamID, token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	// 变更已计入指标
	w = s.do(t, "GET", "/metrics", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "petcafe_mutations_total")
	assert.Contains(t, w.Body.String(), "petcafe_match_results_total")
}

func TestStaffCannotWriteTeams(t *testing.T) {
	s := newTestServer(t)
	token := s.login(t, "staff")

	w := s.do(t, "POST", "/api/v1/work-types", token, map[string]interface{}{"name": "Dog walking"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(t, "GET", "/api/v1/teams", token, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestLogoutRevokesToken(t *testing.T) {
	s := newTestServer(t)
	token := s.login(t, "manager")

	w := s.do(t, "POST", "/api/v1/auth/logout", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = s.do(t, "GET", "/api/v1/teams", token, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLoginRateLimited(t *testing.T) {
	s := newTestServer(t)

	var last int
	for i := 0; i < loginRateLimit+1; i++ {
		last = s.do(t, "POST", "/api/v1/auth/login", "", map[string]string{"username": "manager", "password": "nope"}).Code
	}
	assert.Equal(t, http.StatusTooManyRequests, last)
}

func TestBodyLimit(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest("POST", "/api/v1/auth/login", strings.NewReader(strings.Repeat("a", maxBodyBytes+1)))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}
