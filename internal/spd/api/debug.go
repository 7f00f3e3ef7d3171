package api

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/jimyag/spd/internal/spd/entity"
	"github.com/jimyag/spd/internal/spd/service"
	"github.com/jimyag/spd/pkg/ginx"
)

// DebugServiceInterface 定义调试服务的接口
// 接口不稳定，不保证兼容性
type DebugServiceInterface interface {
	DumpPools(ctx context.Context, req *entity.DumpPoolsRequest) (*entity.DumpPoolsResponse, error)
	DescribeMdv(ctx context.Context, req *entity.DescribeMdvRequest) (*entity.DescribeMdvResponse, error)
}

type Debug struct {
	debugService DebugServiceInterface
}

func NewDebug(debugService *service.DebugService) *Debug {
	return &Debug{
		debugService: debugService,
	}
}

func (d *Debug) RegisterRoutes(router *gin.RouterGroup) {
	debugRouter := router.Group("/debug")
	debugRouter.POST("/pools/dump", ginx.Adapt5(d.DumpPools))
	debugRouter.POST("/mdv/describe", ginx.Adapt5(d.DescribeMdv))
}

func (d *Debug) DumpPools(ctx *gin.Context, req *entity.DumpPoolsRequest) (*entity.DumpPoolsResponse, error) {
	logger := zerolog.Ctx(ctx)

	resp, err := d.debugService.DumpPools(ctx, req)
	if err != nil {
		logger.Error().
			Err(err).
			Msg("Failed to dump pools")
		return nil, err
	}
	return resp, nil
}

func (d *Debug) DescribeMdv(ctx *gin.Context, req *entity.DescribeMdvRequest) (*entity.DescribeMdvResponse, error) {
	logger := zerolog.Ctx(ctx)

	resp, err := d.debugService.DescribeMdv(ctx, req)
	if err != nil {
		logger.Error().
			Err(err).
			Str("pool_id", req.PoolID).
			Msg("Failed to describe mdv")
		return nil, err
	}
	return resp, nil
}
