// Package spd 提供存储池守护进程的主入口和初始化逻辑
package spd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/jimmicro/grace"
	"github.com/rs/zerolog"

	"github.com/jimyag/spd/internal/spd/api"
	"github.com/jimyag/spd/internal/spd/config"
	"github.com/jimyag/spd/internal/spd/repository"
	"github.com/jimyag/spd/internal/spd/service"
	"github.com/jimyag/spd/pkg/blockdev"
	"github.com/jimyag/spd/pkg/mdv"
)

type Server struct {
	cfg  *config.Config
	api  *api.API
	repo *repository.Repository
}

func New(cfg *config.Config) (*Server, error) {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	zerolog.DefaultContextLogger = &logger

	if err := os.MkdirAll(cfg.DataDir, 0o700); err != nil {
		return nil, fmt.Errorf("create data dir %s: %w", cfg.DataDir, err)
	}

	// 1. 打开注册库
	repo, err := repository.New(cfg.DBPath())
	if err != nil {
		return nil, fmt.Errorf("open repository: %w", err)
	}
	logger.Info().Str("path", cfg.DBPath()).Msg("Repository opened")

	// 2. MDV Manager 和设备探测器
	mdvMgr := mdv.New(cfg.MdvDir())
	prober := blockdev.New("")

	// 3. 创建 Accountant
	accountant := service.NewAccountant(
		repository.NewPoolRepository(repo.DB()),
		repository.NewFilesystemRepository(repo.DB()),
		repository.NewBlockDevRepository(repo.DB()),
		repository.NewMdvRepository(repo.DB()),
		mdvMgr,
	)

	// 4. 创建各个 Service，同一个 locker 保证单写者
	locker := service.NewPoolLocker()
	poolService := service.NewPoolService(repo, accountant, mdvMgr, prober, locker)
	filesystemService := service.NewFilesystemService(repo, accountant, locker)
	blockDevService := service.NewBlockDevService(repo, accountant, prober, locker)
	debugService := service.NewDebugService(repo, accountant, mdvMgr)

	// 5. 创建 API
	apiInstance, err := api.New(cfg.Address, poolService, filesystemService, blockDevService, debugService)
	if err != nil {
		return nil, err
	}

	server := &Server{
		cfg:  cfg,
		api:  apiInstance,
		repo: repo,
	}
	return server, nil
}

func (s *Server) Run(ctx context.Context) error {
	// 使用 grace.Shepherd 管理服务生命周期
	services := []grace.Grace{
		s.api,
	}

	shepherd := grace.NewShepherd(
		services,
		grace.WithTimeout(30*time.Second),
		grace.WithLogger(&zerologLogger{}),
	)

	shepherd.Start(ctx)
	return s.repo.Close()
}

func (s *Server) Shutdown(ctx context.Context) error {
	if err := s.api.Shutdown(ctx); err != nil {
		return err
	}
	return s.repo.Close()
}

// Name 实现 grace.Grace 接口
func (s *Server) Name() string {
	return "SPD Server"
}

// zerologLogger 实现 grace.Logger 接口
type zerologLogger struct{}

func (l *zerologLogger) Info(msg string, args ...interface{}) {
	logger := zerolog.DefaultContextLogger.Info()
	if len(args) > 0 {
		logger.Msgf(msg, args...)
	} else {
		logger.Msg(msg)
	}
}

func (l *zerologLogger) Error(msg string, args ...interface{}) {
	logger := zerolog.DefaultContextLogger.Error()
	if len(args) > 0 {
		logger.Msgf(msg, args...)
	} else {
		logger.Msg(msg)
	}
}
