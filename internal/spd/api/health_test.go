package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/jimyag/spd/internal/spd/entity"
)

func setupHealthRouter(mockService *MockPoolService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.Default()
	healthAPI := &Health{poolService: mockService}
	healthAPI.RegisterRoutes(router.Group("/api"))
	return router
}

func getPath(t *testing.T, router *gin.Engine, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHealth_Ping(t *testing.T) {
	t.Parallel()

	router := setupHealthRouter(&MockPoolService{})
	w := getPath(t, router, "/api/ping")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "pong", w.Body.String())
}

func TestHealth_Health(t *testing.T) {
	t.Parallel()

	t.Run("注册表可达时返回 ok", func(t *testing.T) {
		t.Parallel()
		mockService := &MockPoolService{}
		mockService.On("List", mock.Anything, mock.Anything).Return(&entity.ListPoolsResponse{
			Pools: []entity.Pool{{ID: "pool-1"}, {ID: "pool-2"}},
		}, nil)

		w := getPath(t, setupHealthRouter(mockService), "/api/health")
		require.Equal(t, http.StatusOK, w.Code)

		var resp entity.HealthResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "ok", resp.Status)
		assert.Equal(t, 2, resp.Pools)
	})

	t.Run("注册表不可达时返回 500", func(t *testing.T) {
		t.Parallel()
		mockService := &MockPoolService{}
		mockService.On("List", mock.Anything, mock.Anything).Return(nil, errors.New("database is locked"))

		w := getPath(t, setupHealthRouter(mockService), "/api/health")
		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}
