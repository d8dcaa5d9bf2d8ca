package server_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	_ "collabkanban/docs"
	"collabkanban/internal/config"
	"collabkanban/internal/logger"
	"collabkanban/internal/server"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func memoryConfig() *config.Config {
	return &config.Config{
		ServerPort:        "0",
		JWTSecret:         "test-secret",
		JWTExpiry:         time.Hour,
		AppEnv:            "test",
		StorageDriver:     config.StorageMemory,
		InvitationTTL:     7 * 24 * time.Hour,
		CommentEditWindow: 15 * time.Minute,
		DefaultColumnName: "Maybe",
		ActivityPageSize:  50,
	}
}

func serve(s *server.Server, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	s.Engine.ServeHTTP(resp, req)
	return resp
}

func TestInit_MemoryStorage(t *testing.T) {
	gin.SetMode(gin.TestMode)

	s, err := server.Init(memoryConfig(), logger.Nop())

	require.NoError(t, err)
	assert.Nil(t, s.DB)
	assert.NotNil(t, s.Service)
	assert.Equal(t, http.StatusOK, serve(s, http.MethodGet, "/healthz", "").Code)
}

func TestInit_UnknownStorage(t *testing.T) {
	cfg := memoryConfig()
	cfg.StorageDriver = "sqlite"

	_, err := server.Init(cfg, logger.Nop())

	assert.ErrorContains(t, err, "unknown storage driver")
}

func TestEngine_MetricsAndRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	s, err := server.Init(memoryConfig(), logger.Nop())
	require.NoError(t, err)

	reg := serve(s, http.MethodPost, "/register", `{"email":"owner@example.com","name":"Owner","password":"password123"}`)
	require.Equal(t, http.StatusCreated, reg.Code, reg.Body.String())
	assert.NotEmpty(t, reg.Header().Get("X-Request-ID"))

	metrics := serve(s, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, metrics.Code)
	body := metrics.Body.String()
	assert.Contains(t, body, `kanban_http_requests_total{method="POST",route="/register",status="201"} 1`)
	assert.Contains(t, body, `kanban_intents_total{intent="register",outcome="ok"} 1`)
	assert.Contains(t, body, "go_goroutines")
}

func TestEngine_SwaggerDoc(t *testing.T) {
	gin.SetMode(gin.TestMode)
	s, err := server.Init(memoryConfig(), logger.Nop())
	require.NoError(t, err)

	resp := serve(s, http.MethodGet, "/swagger/doc.json", "")

	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), `"/intents"`)
	assert.Contains(t, resp.Body.String(), "Collaborative Kanban API")
}
