package routes

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	commonsRoutes "croncommander/commons/routes"
	"croncommander/internal/audit"
	"croncommander/internal/auth"
	"croncommander/internal/domain"
	"croncommander/internal/gateway/memory"
	"croncommander/internal/handler"
	"croncommander/internal/i18n"
	"croncommander/internal/logger"
	"croncommander/internal/metrics"
	"croncommander/internal/nonce"
	"croncommander/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	adminKey  = "admin-secret"
	editorKey = "editor-secret"
	now       = int64(1700000000)
)

type envelope struct {
	Success   bool            `json:"success"`
	Status    string          `json:"status"`
	ErrorCode int             `json:"errorCode"`
	Message   string          `json:"message"`
	Data      json.RawMessage `json:"data"`
}

type testServer struct {
	router  *gin.Engine
	gateway *memory.Gateway
}

func newTestServer(t *testing.T, jobs ...domain.ScheduledJob) *testServer {
	t.Helper()
	log := logger.NewNopLogger()

	gw := memory.NewGateway(func() time.Time { return time.Unix(now, 0) }, log, jobs...)
	m := metrics.MustNewMetrics(prometheus.NewRegistry())

	catalog, err := i18n.NewCatalog("en")
	require.NoError(t, err)
	presenter := service.NewPresenter(gw, catalog, service.NewIntervalRegistry(nil), time.UTC, m, log)

	controller := service.NewToggleController(gw, service.DefaultReArmDelay, log)
	gate := service.NewToggleGate(controller, nonce.NewMemoryStore(64, time.Hour), audit.NewLogPublisher(log), m, log)

	deps := commonsRoutes.RouteDependencies{
		Logger: log,
		Authenticator: auth.NewKeyAuthenticator([]auth.APIKey{
			{Key: adminKey, Caller: "admin", Capabilities: []string{string(auth.CapabilityManageOptions)}},
			{Key: editorKey, Caller: "editor"},
		}),
	}

	router := commonsRoutes.NewRouter(commonsRoutes.RouterConfig{ServiceName: "cron-commander", Version: "v1"}, deps)
	InitHealthRoutes(router, handler.NewHealthHandler(log, "cron-commander", "memory"), deps)
	InitCronRoutes(router, handler.NewCronHandler(presenter, gate, log), deps)
	InitPageRoutes(router, handler.NewPageHandler(presenter, gate, ToggleURL, log), deps)
	InitMetricsRoutes(router, m)

	return &testServer{router: router, gateway: gw}
}

func (s *testServer) do(t *testing.T, req *http.Request) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	var env envelope
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	}
	return rec, env
}

func (s *testServer) token(t *testing.T, key string) string {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/crons", nil)
	req.Header.Set("Authorization", "Bearer "+key)
	rec, env := s.do(t, req)
	require.Equal(t, http.StatusOK, rec.Code)
	require.True(t, env.Success)
	return rec.Header().Get(handler.TokenHeader)
}

func toggleForm(key, hook, timestamp, token string) *http.Request {
	form := url.Values{}
	form.Set("hook", hook)
	form.Set("timestamp", timestamp)
	form.Set("token", token)
	req := httptest.NewRequest(http.MethodPost, ToggleURL, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if key != "" {
		req.Header.Set("Authorization", "Bearer "+key)
	}
	return req
}

func toggleJSON(key, body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, ToggleURL, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if key != "" {
		req.Header.Set("Authorization", "Bearer "+key)
	}
	return req
}

func dataString(t *testing.T, env envelope) string {
	t.Helper()
	var s string
	require.NoError(t, json.Unmarshal(env.Data, &s))
	return s
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)

	rec, env := s.do(t, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, env.Success)
	assert.JSONEq(t, `{"status":"healthy","service":"cron-commander","backend":"memory"}`, string(env.Data))
}

func TestListCrons(t *testing.T) {
	s := newTestServer(t,
		domain.ScheduledJob{HookID: "cleanup", DueTime: now + 600},
		domain.ScheduledJob{HookID: "my_hook", DueTime: now, Recurrence: "hourly"},
	)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/crons?locale=fr", nil)
	req.Header.Set("Authorization", "Bearer "+adminKey)
	rec, env := s.do(t, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var data struct {
		service.Table
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))

	assert.Equal(t, "fr", data.Locale)
	assert.NotEmpty(t, data.Token)
	assert.Equal(t, data.Token, rec.Header().Get(handler.TokenHeader))
	require.Len(t, data.Rows, 2)
	assert.Equal(t, "my_hook", data.Rows[0].HookID)
	assert.Equal(t, "Arrêter", data.Rows[0].Action)
	assert.Equal(t, "Ponctuel", data.Rows[1].Recurrence)
}

func TestListCronsEmptyAndFiltered(t *testing.T) {
	s := newTestServer(t, domain.ScheduledJob{HookID: "cleanup", DueTime: now})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/crons?filter="+url.QueryEscape("recurring"), nil)
	req.Header.Set("Authorization", "Bearer "+adminKey)
	_, env := s.do(t, req)

	var data service.Table
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.True(t, data.Empty)
	assert.Equal(t, "No scheduled tasks found.", data.EmptyMessage)

	req = httptest.NewRequest(http.MethodGet, "/api/v1/crons?filter="+url.QueryEscape("hook +"), nil)
	req.Header.Set("Authorization", "Bearer "+adminKey)
	rec, env := s.do(t, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.False(t, env.Success)
	assert.Equal(t, handler.MessageInvalidInput, dataString(t, env))
}

func TestListCronsAuthentication(t *testing.T) {
	s := newTestServer(t)

	rec, env := s.do(t, httptest.NewRequest(http.MethodGet, "/api/v1/crons", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, env.Success)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/crons", nil)
	req.Header.Set("Authorization", "Bearer "+editorKey)
	rec, env = s.do(t, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, handler.MessagePermissionDenied, dataString(t, env))
}

func TestToggleStopsRecurringJob(t *testing.T) {
	s := newTestServer(t,
		domain.ScheduledJob{HookID: "my_hook", DueTime: now, Recurrence: "hourly"},
		domain.ScheduledJob{HookID: "my_hook", DueTime: now + 3600, Recurrence: "hourly"},
	)

	rec, env := s.do(t, toggleForm(adminKey, "my_hook", "1700000000", s.token(t, adminKey)))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, env.Success)
	assert.Equal(t, "Stopped", dataString(t, env))
	assert.NotEmpty(t, rec.Header().Get(handler.TokenHeader))

	snapshot, err := s.gateway.ListAll(testContext(t))
	require.NoError(t, err)
	assert.True(t, snapshot.IsEmpty())

	// second toggle of the same entry reports the hook as gone
	rec, env = s.do(t, toggleForm(adminKey, "my_hook", "1700000000", rec.Header().Get(handler.TokenHeader)))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, handler.MessageHookNotFound, dataString(t, env))
}

func TestToggleStartsOneTimeJobFromJSON(t *testing.T) {
	s := newTestServer(t, domain.ScheduledJob{HookID: "cleanup", DueTime: now - 30})

	body := `{"hook":"cleanup","timestamp":1699999970,"token":"` + s.token(t, adminKey) + `"}`
	rec, env := s.do(t, toggleJSON(adminKey, body))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Started", dataString(t, env))

	job, err := s.gateway.FindJob(testContext(t), "cleanup", now+60)
	require.NoError(t, err)
	assert.False(t, job.IsRecurring())
}

func TestToggleRejectionOrder(t *testing.T) {
	tests := []struct {
		name     string
		request  func(t *testing.T, s *testServer) *http.Request
		wantCode int
		wantData string
	}{
		{
			name:     "no key",
			request:  func(*testing.T, *testServer) *http.Request { return toggleForm("", "", "abc", "") },
			wantCode: http.StatusUnauthorized,
			wantData: handler.MessagePermissionDenied,
		},
		{
			name:     "unknown key",
			request:  func(*testing.T, *testServer) *http.Request { return toggleForm("nope", "my_hook", "1700000000", "") },
			wantCode: http.StatusUnauthorized,
			wantData: handler.MessagePermissionDenied,
		},
		{
			name:     "missing capability beats bad token and input",
			request:  func(*testing.T, *testServer) *http.Request { return toggleForm(editorKey, "", "abc", "bogus") },
			wantCode: http.StatusForbidden,
			wantData: handler.MessagePermissionDenied,
		},
		{
			name:     "bad token beats bad input",
			request:  func(*testing.T, *testServer) *http.Request { return toggleForm(adminKey, "", "abc", "bogus") },
			wantCode: http.StatusForbidden,
			wantData: handler.MessageInvalidToken,
		},
		{
			name: "malformed json body is invalid input after token check",
			request: func(t *testing.T, s *testServer) *http.Request {
				return toggleJSON(adminKey, `{"token":"`+s.token(t, adminKey)+`","hook":42}`)
			},
			wantCode: http.StatusBadRequest,
			wantData: handler.MessageInvalidInput,
		},
		{
			name: "unparseable timestamp",
			request: func(t *testing.T, s *testServer) *http.Request {
				return toggleForm(adminKey, "my_hook", "tomorrow", s.token(t, adminKey))
			},
			wantCode: http.StatusBadRequest,
			wantData: handler.MessageInvalidInput,
		},
		{
			name: "empty hook",
			request: func(t *testing.T, s *testServer) *http.Request {
				return toggleForm(adminKey, "", "1700000000", s.token(t, adminKey))
			},
			wantCode: http.StatusBadRequest,
			wantData: handler.MessageInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t, domain.ScheduledJob{HookID: "my_hook", DueTime: now, Recurrence: "hourly"})

			rec, env := s.do(t, tt.request(t, s))
			assert.Equal(t, tt.wantCode, rec.Code)
			assert.False(t, env.Success)
			assert.Equal(t, tt.wantData, dataString(t, env))

			snapshot, err := s.gateway.ListAll(testContext(t))
			require.NoError(t, err)
			assert.Equal(t, 1, snapshot.Len())
		})
	}
}

func TestToggleTokenReplay(t *testing.T) {
	s := newTestServer(t, domain.ScheduledJob{HookID: "cleanup", DueTime: now})
	token := s.token(t, adminKey)

	rec, _ := s.do(t, toggleForm(adminKey, "cleanup", "1700000000", token))
	require.Equal(t, http.StatusOK, rec.Code)

	rec, env := s.do(t, toggleForm(adminKey, "cleanup", "1700000000", token))
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, handler.MessageInvalidToken, dataString(t, env))
}

func TestTogglePluginNonceField(t *testing.T) {
	s := newTestServer(t, domain.ScheduledJob{HookID: "cleanup", DueTime: now})

	form := url.Values{"hook": {"cleanup"}, "timestamp": {"1700000000"}, "nonce": {s.token(t, adminKey)}}
	req := httptest.NewRequest(http.MethodPost, ToggleURL, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.AddCookie(&http.Cookie{Name: auth.CookieName, Value: adminKey})

	rec, env := s.do(t, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Started", dataString(t, env))
}

func TestPage(t *testing.T) {
	s := newTestServer(t, domain.ScheduledJob{HookID: "my_hook", DueTime: now, Recurrence: "daily"})

	req := httptest.NewRequest(http.MethodGet, PagePath, nil)
	req.AddCookie(&http.Cookie{Name: auth.CookieName, Value: adminKey})
	req.Header.Set("Accept-Language", "de-DE,de;q=0.9,en;q=0.8")
	rec, _ := s.do(t, req)

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Nächste Ausführung")
	assert.Contains(t, body, `data-hook="my_hook"`)
	assert.Contains(t, body, `data-timestamp="1700000000"`)
	assert.Contains(t, body, "Stoppen")
	assert.Contains(t, body, `class="cc-toggle"`)
}

func TestPageEmptyState(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, PagePath, nil)
	req.Header.Set("Authorization", "Bearer "+adminKey)
	rec, _ := s.do(t, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "No scheduled tasks found.")
	assert.NotContains(t, rec.Body.String(), "<table>")
}

func TestPageRequiresAuth(t *testing.T) {
	s := newTestServer(t)

	rec, env := s.do(t, httptest.NewRequest(http.MethodGet, PagePath, nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, env.Success)
}

func TestMetricsAndUnknownRoutes(t *testing.T) {
	s := newTestServer(t, domain.ScheduledJob{HookID: "cleanup", DueTime: now})
	s.token(t, adminKey)

	rec, _ := s.do(t, httptest.NewRequest(http.MethodGet, MetricsPath, nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "cron_commander_listed_jobs 1")

	rec, env := s.do(t, httptest.NewRequest(http.MethodGet, "/api/v1/nope", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.False(t, env.Success)

	rec, env = s.do(t, httptest.NewRequest(http.MethodDelete, "/api/v1/crons", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.False(t, env.Success)
}

// testContext stands in for testing.T.Context (Go 1.24+): a context that is
// canceled when the test finishes.
func testContext(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	return ctx
}
