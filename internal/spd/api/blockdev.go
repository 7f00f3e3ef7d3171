package api

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/jimyag/spd/internal/spd/entity"
	"github.com/jimyag/spd/internal/spd/service"
	"github.com/jimyag/spd/pkg/ginx"
)

// BlockDevServiceInterface 定义块设备服务的接口
type BlockDevServiceInterface interface {
	Register(ctx context.Context, req *entity.RegisterBlockDevRequest) (*entity.RegisterBlockDevResponse, error)
	List(ctx context.Context, req *entity.ListBlockDevsRequest) (*entity.ListBlockDevsResponse, error)
	Describe(ctx context.Context, req *entity.DescribeBlockDevRequest) (*entity.DescribeBlockDevResponse, error)
}

type BlockDev struct {
	blockDevService BlockDevServiceInterface
}

func NewBlockDev(blockDevService *service.BlockDevService) *BlockDev {
	return &BlockDev{
		blockDevService: blockDevService,
	}
}

func (b *BlockDev) RegisterRoutes(router *gin.RouterGroup) {
	devRouter := router.Group("/blockdevs")
	devRouter.POST("/register", ginx.Adapt5(b.RegisterBlockDev))
	devRouter.POST("/list", ginx.Adapt5(b.ListBlockDevs))
	devRouter.POST("/describe", ginx.Adapt5(b.DescribeBlockDev))
}

func (b *BlockDev) RegisterBlockDev(ctx *gin.Context, req *entity.RegisterBlockDevRequest) (*entity.RegisterBlockDevResponse, error) {
	logger := zerolog.Ctx(ctx)
	logger.Info().
		Str("pool_id", req.PoolID).
		Str("path", req.Path).
		Msg("RegisterBlockDev called")

	resp, err := b.blockDevService.Register(ctx, req)
	if err != nil {
		logger.Error().
			Err(err).
			Msg("Failed to register block device")
		return nil, err
	}

	logger.Info().
		Str("device_id", resp.Device.ID).
		Msg("Block device registered successfully")
	return resp, nil
}

func (b *BlockDev) ListBlockDevs(ctx *gin.Context, req *entity.ListBlockDevsRequest) (*entity.ListBlockDevsResponse, error) {
	logger := zerolog.Ctx(ctx)

	resp, err := b.blockDevService.List(ctx, req)
	if err != nil {
		logger.Error().
			Err(err).
			Msg("Failed to list block devices")
		return nil, err
	}
	return resp, nil
}

func (b *BlockDev) DescribeBlockDev(ctx *gin.Context, req *entity.DescribeBlockDevRequest) (*entity.DescribeBlockDevResponse, error) {
	logger := zerolog.Ctx(ctx)

	resp, err := b.blockDevService.Describe(ctx, req)
	if err != nil {
		logger.Error().
			Err(err).
			Str("device_id", req.DeviceID).
			Msg("Failed to describe block device")
		return nil, err
	}
	return resp, nil
}
