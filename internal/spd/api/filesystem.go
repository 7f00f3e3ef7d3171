package api

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/jimyag/spd/internal/spd/entity"
	"github.com/jimyag/spd/internal/spd/service"
	"github.com/jimyag/spd/pkg/ginx"
)

// FilesystemServiceInterface 定义文件系统服务的接口
type FilesystemServiceInterface interface {
	Create(ctx context.Context, req *entity.CreateFilesystemRequest) (*entity.CreateFilesystemResponse, error)
	Destroy(ctx context.Context, req *entity.DestroyFilesystemRequest) (*entity.DestroyFilesystemResponse, error)
	List(ctx context.Context, req *entity.ListFilesystemsRequest) (*entity.ListFilesystemsResponse, error)
	Describe(ctx context.Context, req *entity.DescribeFilesystemRequest) (*entity.DescribeFilesystemResponse, error)
}

type Filesystem struct {
	filesystemService FilesystemServiceInterface
}

func NewFilesystem(filesystemService *service.FilesystemService) *Filesystem {
	return &Filesystem{
		filesystemService: filesystemService,
	}
}

func (f *Filesystem) RegisterRoutes(router *gin.RouterGroup) {
	fsRouter := router.Group("/filesystems")
	fsRouter.POST("/create", ginx.Adapt5(f.CreateFilesystem))
	fsRouter.POST("/destroy", ginx.Adapt5(f.DestroyFilesystem))
	fsRouter.POST("/list", ginx.Adapt5(f.ListFilesystems))
	fsRouter.POST("/describe", ginx.Adapt5(f.DescribeFilesystem))
}

func (f *Filesystem) CreateFilesystem(ctx *gin.Context, req *entity.CreateFilesystemRequest) (*entity.CreateFilesystemResponse, error) {
	logger := zerolog.Ctx(ctx)
	logger.Info().
		Str("pool_id", req.PoolID).
		Str("name", req.Name).
		Uint64("size_b", req.SizeB).
		Msg("CreateFilesystem called")

	resp, err := f.filesystemService.Create(ctx, req)
	if err != nil {
		logger.Error().
			Err(err).
			Msg("Failed to create filesystem")
		return nil, err
	}

	logger.Info().
		Str("filesystem_id", resp.Filesystem.ID).
		Msg("Filesystem created successfully")
	return resp, nil
}

func (f *Filesystem) DestroyFilesystem(ctx *gin.Context, req *entity.DestroyFilesystemRequest) (*entity.DestroyFilesystemResponse, error) {
	logger := zerolog.Ctx(ctx)
	logger.Info().
		Str("filesystem_id", req.FilesystemID).
		Msg("DestroyFilesystem called")

	resp, err := f.filesystemService.Destroy(ctx, req)
	if err != nil {
		logger.Error().
			Err(err).
			Msg("Failed to destroy filesystem")
		return nil, err
	}
	return resp, nil
}

func (f *Filesystem) ListFilesystems(ctx *gin.Context, req *entity.ListFilesystemsRequest) (*entity.ListFilesystemsResponse, error) {
	logger := zerolog.Ctx(ctx)

	resp, err := f.filesystemService.List(ctx, req)
	if err != nil {
		logger.Error().
			Err(err).
			Msg("Failed to list filesystems")
		return nil, err
	}

	logger.Info().
		Int("count", len(resp.Filesystems)).
		Msg("Filesystems listed successfully")
	return resp, nil
}

func (f *Filesystem) DescribeFilesystem(ctx *gin.Context, req *entity.DescribeFilesystemRequest) (*entity.DescribeFilesystemResponse, error) {
	logger := zerolog.Ctx(ctx)

	resp, err := f.filesystemService.Describe(ctx, req)
	if err != nil {
		logger.Error().
			Err(err).
			Str("filesystem_id", req.FilesystemID).
			Msg("Failed to describe filesystem")
		return nil, err
	}
	return resp, nil
}
