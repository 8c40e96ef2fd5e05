package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/qs3c/api_access_gate/internal/pkg/response"
	"github.com/qs3c/api_access_gate/internal/repository"
	"github.com/qs3c/api_access_gate/internal/service"
	"github.com/qs3c/api_access_gate/internal/testutil"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// testContext 本地测试上下文
type testContext struct {
	DB            *gorm.DB
	Plans         *service.PlanService
	Subscriptions *service.SubscriptionService
	Endpoints     *service.EndpointService
	Usage         *service.UsageService
	Gate          *service.AccessGate
}

func setupServices(t *testing.T) (*testContext, func()) {
	t.Helper()

	db := testutil.SetupTestDB(t)
	planRepo := repository.NewPlanRepository(db)
	subRepo := repository.NewSubscriptionRepository(db)

	ctx := &testContext{
		DB:            db,
		Plans:         service.NewPlanService(db, planRepo, subRepo, nil),
		Subscriptions: service.NewSubscriptionService(db, planRepo, subRepo, nil),
		Endpoints:     service.NewEndpointService(repository.NewEndpointRepository(db), nil),
		Usage:         service.NewUsageService(repository.NewUsageRepository(db), nil),
		Gate:          service.NewAccessGate(db, planRepo, subRepo, nil),
	}

	cleanup := func() {
		testutil.CleanupTestDB(t, db)
	}

	return ctx, cleanup
}

func performRequest(r http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	var reqBody *bytes.Buffer
	if body != nil {
		jsonBytes, _ := json.Marshal(body)
		reqBody = bytes.NewBuffer(jsonBytes)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func parseResponse(t *testing.T, w *httptest.ResponseRecorder) response.Response {
	var resp response.Response
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	require.NoError(t, err)
	return resp
}

func dataMap(t *testing.T, resp response.Response) map[string]interface{} {
	t.Helper()

	data, ok := resp.Data.(map[string]interface{})
	require.True(t, ok, "data should be an object, got %T", resp.Data)
	return data
}
