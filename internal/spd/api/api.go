// Package api 提供存储池守护进程的 HTTP API
package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jimyag/spd/internal/spd/service"
)

type API struct {
	engine *gin.Engine
	server *http.Server

	pool       *Pool
	filesystem *Filesystem
	blockdev   *BlockDev
	debug      *Debug
	health     *Health
}

func New(
	address string,
	poolService *service.PoolService,
	filesystemService *service.FilesystemService,
	blockDevService *service.BlockDevService,
	debugService *service.DebugService,
) (*API, error) {
	engine := gin.Default()
	api := &API{
		engine:     engine,
		pool:       NewPool(poolService),
		filesystem: NewFilesystem(filesystemService),
		blockdev:   NewBlockDev(blockDevService),
		debug:      NewDebug(debugService),
		health:     NewHealth(poolService),
	}

	group := engine.Group("/api")
	api.pool.RegisterRoutes(group)
	api.filesystem.RegisterRoutes(group)
	api.blockdev.RegisterRoutes(group)
	api.debug.RegisterRoutes(group)
	api.health.RegisterRoutes(group)

	api.server = &http.Server{
		Addr:    address,
		Handler: engine,
	}
	return api, nil
}

func (a *API) Run(ctx context.Context) error {
	if err := a.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (a *API) Shutdown(ctx context.Context) error {
	return a.server.Shutdown(ctx)
}

// Name 实现 grace.Grace 接口
func (a *API) Name() string {
	return "SPD API"
}
