package api

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/jimyag/spd/internal/spd/entity"
	"github.com/jimyag/spd/internal/spd/service"
	"github.com/jimyag/spd/pkg/ginx"
)

// PoolServiceInterface 定义池服务的接口
type PoolServiceInterface interface {
	Create(ctx context.Context, req *entity.CreatePoolRequest) (*entity.CreatePoolResponse, error)
	Start(ctx context.Context, req *entity.StartPoolRequest) (*entity.StartPoolResponse, error)
	Stop(ctx context.Context, req *entity.StopPoolRequest) (*entity.StopPoolResponse, error)
	Destroy(ctx context.Context, req *entity.DestroyPoolRequest) (*entity.DestroyPoolResponse, error)
	SetOverprovision(ctx context.Context, req *entity.SetOverprovisionRequest) (*entity.SetOverprovisionResponse, error)
	SetFsLimit(ctx context.Context, req *entity.SetFsLimitRequest) (*entity.SetFsLimitResponse, error)
	List(ctx context.Context, req *entity.ListPoolsRequest) (*entity.ListPoolsResponse, error)
	Describe(ctx context.Context, req *entity.DescribePoolRequest) (*entity.DescribePoolResponse, error)
}

type Pool struct {
	poolService PoolServiceInterface
}

func NewPool(poolService *service.PoolService) *Pool {
	return &Pool{
		poolService: poolService,
	}
}

func (p *Pool) RegisterRoutes(router *gin.RouterGroup) {
	poolRouter := router.Group("/pools")
	poolRouter.POST("/create", ginx.Adapt5(p.CreatePool))
	poolRouter.POST("/list", ginx.Adapt5(p.ListPools))
	poolRouter.POST("/describe", ginx.Adapt5(p.DescribePool))
	poolRouter.POST("/start", ginx.Adapt5(p.StartPool))
	poolRouter.POST("/stop", ginx.Adapt5(p.StopPool))
	poolRouter.POST("/destroy", ginx.Adapt5(p.DestroyPool))
	poolRouter.POST("/set-overprovision", ginx.Adapt5(p.SetOverprovision))
	poolRouter.POST("/set-fs-limit", ginx.Adapt5(p.SetFsLimit))
}

func (p *Pool) CreatePool(ctx *gin.Context, req *entity.CreatePoolRequest) (*entity.CreatePoolResponse, error) {
	logger := zerolog.Ctx(ctx)
	logger.Info().
		Str("name", req.Name).
		Strs("devices", req.Devices).
		Msg("CreatePool called")

	resp, err := p.poolService.Create(ctx, req)
	if err != nil {
		logger.Error().
			Err(err).
			Msg("Failed to create pool")
		return nil, err
	}

	logger.Info().
		Str("pool_id", resp.Pool.ID).
		Msg("Pool created successfully")
	return resp, nil
}

func (p *Pool) ListPools(ctx *gin.Context, req *entity.ListPoolsRequest) (*entity.ListPoolsResponse, error) {
	logger := zerolog.Ctx(ctx)

	resp, err := p.poolService.List(ctx, req)
	if err != nil {
		logger.Error().
			Err(err).
			Msg("Failed to list pools")
		return nil, err
	}

	logger.Info().
		Int("count", len(resp.Pools)).
		Msg("Pools listed successfully")
	return resp, nil
}

func (p *Pool) DescribePool(ctx *gin.Context, req *entity.DescribePoolRequest) (*entity.DescribePoolResponse, error) {
	logger := zerolog.Ctx(ctx)

	resp, err := p.poolService.Describe(ctx, req)
	if err != nil {
		logger.Error().
			Err(err).
			Str("pool_id", req.PoolID).
			Msg("Failed to describe pool")
		return nil, err
	}
	return resp, nil
}

func (p *Pool) StartPool(ctx *gin.Context, req *entity.StartPoolRequest) (*entity.StartPoolResponse, error) {
	logger := zerolog.Ctx(ctx)
	logger.Info().
		Str("pool_id", req.PoolID).
		Msg("StartPool called")

	resp, err := p.poolService.Start(ctx, req)
	if err != nil {
		logger.Error().
			Err(err).
			Msg("Failed to start pool")
		return nil, err
	}
	return resp, nil
}

func (p *Pool) StopPool(ctx *gin.Context, req *entity.StopPoolRequest) (*entity.StopPoolResponse, error) {
	logger := zerolog.Ctx(ctx)
	logger.Info().
		Str("pool_id", req.PoolID).
		Msg("StopPool called")

	resp, err := p.poolService.Stop(ctx, req)
	if err != nil {
		logger.Error().
			Err(err).
			Msg("Failed to stop pool")
		return nil, err
	}
	return resp, nil
}

func (p *Pool) DestroyPool(ctx *gin.Context, req *entity.DestroyPoolRequest) (*entity.DestroyPoolResponse, error) {
	logger := zerolog.Ctx(ctx)
	logger.Info().
		Str("pool_id", req.PoolID).
		Msg("DestroyPool called")

	resp, err := p.poolService.Destroy(ctx, req)
	if err != nil {
		logger.Error().
			Err(err).
			Msg("Failed to destroy pool")
		return nil, err
	}

	logger.Info().
		Str("pool_id", req.PoolID).
		Msg("Pool destroyed successfully")
	return resp, nil
}

func (p *Pool) SetOverprovision(ctx *gin.Context, req *entity.SetOverprovisionRequest) (*entity.SetOverprovisionResponse, error) {
	logger := zerolog.Ctx(ctx)
	logger.Info().
		Str("pool_id", req.PoolID).
		Bool("enabled", *req.Enabled).
		Msg("SetOverprovision called")

	resp, err := p.poolService.SetOverprovision(ctx, req)
	if err != nil {
		logger.Error().
			Err(err).
			Msg("Failed to set overprovisioning")
		return nil, err
	}
	return resp, nil
}

func (p *Pool) SetFsLimit(ctx *gin.Context, req *entity.SetFsLimitRequest) (*entity.SetFsLimitResponse, error) {
	logger := zerolog.Ctx(ctx)
	logger.Info().
		Str("pool_id", req.PoolID).
		Uint64("fs_limit", req.FsLimit).
		Msg("SetFsLimit called")

	resp, err := p.poolService.SetFsLimit(ctx, req)
	if err != nil {
		logger.Error().
			Err(err).
			Msg("Failed to set filesystem limit")
		return nil, err
	}
	return resp, nil
}
