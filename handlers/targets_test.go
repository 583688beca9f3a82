package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sre-api/logger"
	"sre-api/services"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	logger.Init()
	os.Exit(m.Run())
}

// stubTargetService scripts the service layer for handler tests and records
// every mutation attempt.
type stubTargetService struct {
	targetGroupARN string
	resolveErr     error

	instances map[string]*services.InstanceInfo

	listResult []services.InstanceInfo
	listErr    error

	registerErr   error
	deregisterErr error

	registerCalls   []string
	deregisterCalls []string
}

func (s *stubTargetService) ResolveTargetGroup(context.Context) (string, error) {
	return s.targetGroupARN, s.resolveErr
}

func (s *stubTargetService) LookupInstance(_ context.Context, instanceID string) *services.InstanceInfo {
	return s.instances[instanceID]
}

func (s *stubTargetService) ListTargetInstances(context.Context, string) ([]services.InstanceInfo, error) {
	return s.listResult, s.listErr
}

func (s *stubTargetService) RegisterInstance(_ context.Context, _, instanceID string) error {
	s.registerCalls = append(s.registerCalls, instanceID)
	return s.registerErr
}

func (s *stubTargetService) DeregisterInstance(_ context.Context, _, instanceID string) error {
	s.deregisterCalls = append(s.deregisterCalls, instanceID)
	return s.deregisterErr
}

func newTestRouter(svc TargetService) *gin.Engine {
	router := gin.New()
	h := NewTargetHandler(svc, services.DefaultLoadBalancerName)
	router.GET("/healthcheck!", HealthCheck)
	router.GET("/elb/alb-ls", h.ListInstances)
	router.POST("/elb/alb-ls", h.AttachInstance)
	router.DELETE("/elb/alb-ls", h.DetachInstance)
	return router
}

func doRequest(t *testing.T, router *gin.Engine, method, body string) *httptest.ResponseRecorder {
	t.Helper()
	path := "/elb/alb-ls"
	if method == http.MethodGet {
		body = ""
	}
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func errorBody(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.Error
}

var testInstance = &services.InstanceInfo{
	InstanceID:   "i-0123456789abcdef0",
	InstanceType: "t3.micro",
	LaunchDate:   "2023-04-01T12:30:00Z",
}

func TestHealthCheck(t *testing.T) {
	router := newTestRouter(&stubTargetService{})

	req := httptest.NewRequest(http.MethodGet, "/healthcheck!", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"up"}`, w.Body.String())
}

func TestListInstances(t *testing.T) {
	svc := &stubTargetService{
		targetGroupARN: "tg-arn",
		listResult:     []services.InstanceInfo{*testInstance},
	}
	w := doRequest(t, newTestRouter(svc), http.MethodGet, "")

	assert.Equal(t, http.StatusOK, w.Code)

	var got []services.InstanceInfo
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, []services.InstanceInfo{*testInstance}, got)
}

func TestListInstancesLoadBalancerMissing(t *testing.T) {
	svc := &stubTargetService{resolveErr: services.ErrTargetGroupNotFound}
	w := doRequest(t, newTestRouter(svc), http.MethodGet, "")

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Load balancer default-alb does not exist or has no target group.", errorBody(t, w))
}

func TestListInstancesMultipleTargetGroups(t *testing.T) {
	svc := &stubTargetService{resolveErr: services.ErrMultipleTargetGroups}
	w := doRequest(t, newTestRouter(svc), http.MethodGet, "")

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, errorBody(t, w), "more than one target group")
}

func TestListInstancesProviderError(t *testing.T) {
	svc := &stubTargetService{targetGroupARN: "tg-arn", listErr: assert.AnError}
	w := doRequest(t, newTestRouter(svc), http.MethodGet, "")

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, assert.AnError.Error(), errorBody(t, w))
}

func TestAttachInstance(t *testing.T) {
	svc := &stubTargetService{
		targetGroupARN: "tg-arn",
		instances:      map[string]*services.InstanceInfo{testInstance.InstanceID: testInstance},
	}
	w := doRequest(t, newTestRouter(svc), http.MethodPost, `{"instanceId":"i-0123456789abcdef0"}`)

	assert.Equal(t, http.StatusCreated, w.Code)

	var got services.InstanceInfo
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, *testInstance, got)
	assert.Equal(t, []string{testInstance.InstanceID}, svc.registerCalls)
}

func TestAttachInstanceInvalidBody(t *testing.T) {
	for _, body := range []string{`{}`, `{"instanceId":""}`, `not json`} {
		t.Run(body, func(t *testing.T) {
			svc := &stubTargetService{targetGroupARN: "tg-arn"}
			w := doRequest(t, newTestRouter(svc), http.MethodPost, body)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			// no provider mutation may happen on validation failure
			assert.Empty(t, svc.registerCalls)
		})
	}
}

func TestAttachInstanceUnknownInstance(t *testing.T) {
	svc := &stubTargetService{targetGroupARN: "tg-arn"}
	w := doRequest(t, newTestRouter(svc), http.MethodPost, `{"instanceId":"i-unknown"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Instance i-unknown does not exist.", errorBody(t, w))
	assert.Empty(t, svc.registerCalls)
}

func TestAttachInstanceLoadBalancerMissing(t *testing.T) {
	svc := &stubTargetService{
		resolveErr: services.ErrTargetGroupNotFound,
		instances:  map[string]*services.InstanceInfo{testInstance.InstanceID: testInstance},
	}
	w := doRequest(t, newTestRouter(svc), http.MethodPost, `{"instanceId":"i-0123456789abcdef0"}`)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Empty(t, svc.registerCalls)
}

func TestAttachInstanceAlreadyAttached(t *testing.T) {
	svc := &stubTargetService{
		targetGroupARN: "tg-arn",
		instances:      map[string]*services.InstanceInfo{testInstance.InstanceID: testInstance},
		registerErr:    services.ErrDuplicateTarget,
	}
	w := doRequest(t, newTestRouter(svc), http.MethodPost, `{"instanceId":"i-0123456789abcdef0"}`)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "Instance i-0123456789abcdef0 is already attached to the load balancer.", errorBody(t, w))
	// exactly one registration attempt, no retry
	assert.Len(t, svc.registerCalls, 1)
}

func TestAttachInstanceProviderError(t *testing.T) {
	svc := &stubTargetService{
		targetGroupARN: "tg-arn",
		instances:      map[string]*services.InstanceInfo{testInstance.InstanceID: testInstance},
		registerErr:    assert.AnError,
	}
	w := doRequest(t, newTestRouter(svc), http.MethodPost, `{"instanceId":"i-0123456789abcdef0"}`)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, assert.AnError.Error(), errorBody(t, w))
}

func TestDetachInstance(t *testing.T) {
	svc := &stubTargetService{
		targetGroupARN: "tg-arn",
		instances:      map[string]*services.InstanceInfo{testInstance.InstanceID: testInstance},
	}
	w := doRequest(t, newTestRouter(svc), http.MethodDelete, `{"instanceId":"i-0123456789abcdef0"}`)

	// 201 on detach mirrors the attach endpoint
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, []string{testInstance.InstanceID}, svc.deregisterCalls)
}

func TestDetachInstanceNotAttached(t *testing.T) {
	svc := &stubTargetService{
		targetGroupARN: "tg-arn",
		instances:      map[string]*services.InstanceInfo{testInstance.InstanceID: testInstance},
		deregisterErr:  services.ErrTargetNotAttached,
	}
	w := doRequest(t, newTestRouter(svc), http.MethodDelete, `{"instanceId":"i-0123456789abcdef0"}`)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "Instance i-0123456789abcdef0 is not attached to the load balancer.", errorBody(t, w))
}

func TestDetachInstanceInvalidBody(t *testing.T) {
	svc := &stubTargetService{targetGroupARN: "tg-arn"}
	w := doRequest(t, newTestRouter(svc), http.MethodDelete, `{}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, svc.deregisterCalls)
}
