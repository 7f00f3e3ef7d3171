package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/jimyag/spd/internal/spd/entity"
	"github.com/jimyag/spd/internal/spd/service"
	"github.com/jimyag/spd/pkg/ginx"
)

type Health struct {
	poolService PoolServiceInterface
}

func NewHealth(poolService *service.PoolService) *Health {
	return &Health{
		poolService: poolService,
	}
}

func (h *Health) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/ping", ginx.Adapt0(h.Ping))
	router.GET("/health", ginx.Adapt3(h.Health))
}

// Ping 存活探测
func (h *Health) Ping(ctx *gin.Context) {
	ctx.String(http.StatusOK, "pong")
}

// Health 健康检查，确认池注册表可达
func (h *Health) Health(ctx *gin.Context) (*entity.HealthResponse, error) {
	logger := zerolog.Ctx(ctx)

	resp, err := h.poolService.List(ctx, &entity.ListPoolsRequest{})
	if err != nil {
		logger.Error().
			Err(err).
			Msg("Failed to list pools for health check")
		return nil, err
	}

	return &entity.HealthResponse{
		Status: "ok",
		Pools:  len(resp.Pools),
	}, nil
}
