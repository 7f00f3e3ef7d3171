package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/jimyag/spd/internal/spd/entity"
	"github.com/jimyag/spd/internal/spd/repository"
	"github.com/jimyag/spd/internal/spd/repository/model"
	"github.com/jimyag/spd/pkg/apierror"
	"github.com/jimyag/spd/pkg/idgen"
)

// FilesystemService 文件系统管理服务
// 文件系统是池内的瘦分配卷，虚拟容量独立于物理容量
type FilesystemService struct {
	poolRepo   repository.PoolRepository
	fsRepo     repository.FilesystemRepository
	accountant *Accountant
	idGen      *idgen.Generator
	locker     *PoolLocker
}

// NewFilesystemService 创建文件系统管理服务
func NewFilesystemService(
	repo *repository.Repository,
	accountant *Accountant,
	locker *PoolLocker,
) *FilesystemService {
	return &FilesystemService{
		poolRepo:   repository.NewPoolRepository(repo.DB()),
		fsRepo:     repository.NewFilesystemRepository(repo.DB()),
		accountant: accountant,
		idGen:      idgen.DefaultGenerator(),
		locker:     locker,
	}
}

// getActivePool 查询池并要求其处于 active 状态
func (s *FilesystemService) getActivePool(ctx context.Context, poolID string) (*model.Pool, error) {
	pool, err := s.poolRepo.GetByID(ctx, poolID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierror.WrapError(apierror.ErrPoolNotFound,
				fmt.Sprintf("pool %s not found", poolID), err)
		}
		return nil, fmt.Errorf("get pool %s: %w", poolID, err)
	}
	if err = requireState(pool, model.PoolStateActive); err != nil {
		return nil, err
	}
	return pool, nil
}

// Create 在池内创建文件系统
// 虚拟容量不低于 512 MiB；超分配关闭时受物理容量约束；
// 池内文件系统数量不能超过上限；同池内名称唯一
func (s *FilesystemService) Create(ctx context.Context, req *entity.CreateFilesystemRequest) (*entity.CreateFilesystemResponse, error) {
	unlock := s.locker.lock(req.PoolID)
	defer unlock()

	if req.SizeB < MinFilesystemSizeB {
		return nil, apierror.WrapError(apierror.ErrInvalidArgument,
			fmt.Sprintf("filesystem size %d is below minimum %d bytes", req.SizeB, MinFilesystemSizeB), nil)
	}

	pool, err := s.getActivePool(ctx, req.PoolID)
	if err != nil {
		return nil, err
	}

	// 同池内名称唯一
	existing, err := s.fsRepo.List(ctx, map[string]interface{}{
		"pool_id": req.PoolID,
		"name":    req.Name,
	})
	if err != nil {
		return nil, fmt.Errorf("list filesystems of pool %s: %w", req.PoolID, err)
	}
	if len(existing) > 0 {
		return nil, apierror.WrapError(apierror.ErrInvalidArgument,
			fmt.Sprintf("filesystem %s already exists in pool %s", req.Name, req.PoolID), nil)
	}

	if err = s.accountant.RequestAllocation(ctx, pool, req.SizeB); err != nil {
		return nil, err
	}

	fsID, err := s.idGen.NewFilesystemID()
	if err != nil {
		return nil, fmt.Errorf("generate filesystem id: %w", err)
	}
	fs := &model.Filesystem{
		ID:         fsID,
		Name:       req.Name,
		PoolID:     req.PoolID,
		SizeB:      req.SizeB,
		State:      model.FilesystemStateAvailable,
		CreateTime: time.Now(),
	}
	if err = s.fsRepo.Create(ctx, fs); err != nil {
		return nil, fmt.Errorf("create filesystem %s: %w", fsID, err)
	}

	s.persistSnapshot(ctx, pool)

	zerolog.Ctx(ctx).Info().
		Str("filesystemID", fsID).
		Str("poolID", req.PoolID).
		Str("name", req.Name).
		Uint64("sizeB", req.SizeB).
		Msg("filesystem created")

	ent, err := filesystemModelToEntity(fs)
	if err != nil {
		return nil, fmt.Errorf("convert filesystem %s: %w", fsID, err)
	}
	return &entity.CreateFilesystemResponse{Filesystem: ent}, nil
}

// Destroy 销毁文件系统，释放它占用的虚拟容量
// 先标记 destroying 再删除，崩溃后残留的记录可以安全重试
func (s *FilesystemService) Destroy(ctx context.Context, req *entity.DestroyFilesystemRequest) (*entity.DestroyFilesystemResponse, error) {
	fs, err := s.fsRepo.GetByID(ctx, req.FilesystemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierror.WrapError(apierror.ErrFilesystemNotFound,
				fmt.Sprintf("filesystem %s not found", req.FilesystemID), err)
		}
		return nil, fmt.Errorf("get filesystem %s: %w", req.FilesystemID, err)
	}

	unlock := s.locker.lock(fs.PoolID)
	defer unlock()

	pool, err := s.getActivePool(ctx, fs.PoolID)
	if err != nil {
		return nil, err
	}

	fs.State = model.FilesystemStateDestroying
	if err = s.fsRepo.Update(ctx, fs); err != nil {
		return nil, fmt.Errorf("update filesystem %s: %w", fs.ID, err)
	}
	if err = s.fsRepo.Delete(ctx, fs.ID); err != nil {
		return nil, fmt.Errorf("delete filesystem %s: %w", fs.ID, err)
	}

	s.persistSnapshot(ctx, pool)

	zerolog.Ctx(ctx).Info().
		Str("filesystemID", fs.ID).
		Str("poolID", fs.PoolID).
		Msg("filesystem destroyed")

	return &entity.DestroyFilesystemResponse{
		Message: fmt.Sprintf("filesystem %s destroyed", fs.ID),
	}, nil
}

// List 列举文件系统，可按池过滤
func (s *FilesystemService) List(ctx context.Context, req *entity.ListFilesystemsRequest) (*entity.ListFilesystemsResponse, error) {
	filters := map[string]interface{}{}
	if req.PoolID != "" {
		filters["pool_id"] = req.PoolID
	}
	filesystems, err := s.fsRepo.List(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("list filesystems: %w", err)
	}

	resp := &entity.ListFilesystemsResponse{Filesystems: make([]entity.Filesystem, 0, len(filesystems))}
	for _, fs := range filesystems {
		ent, entErr := filesystemModelToEntity(fs)
		if entErr != nil {
			return nil, fmt.Errorf("convert filesystem %s: %w", fs.ID, entErr)
		}
		resp.Filesystems = append(resp.Filesystems, *ent)
	}
	return resp, nil
}

// Describe 查询文件系统详情
func (s *FilesystemService) Describe(ctx context.Context, req *entity.DescribeFilesystemRequest) (*entity.DescribeFilesystemResponse, error) {
	fs, err := s.fsRepo.GetByID(ctx, req.FilesystemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierror.WrapError(apierror.ErrFilesystemNotFound,
				fmt.Sprintf("filesystem %s not found", req.FilesystemID), err)
		}
		return nil, fmt.Errorf("get filesystem %s: %w", req.FilesystemID, err)
	}
	ent, err := filesystemModelToEntity(fs)
	if err != nil {
		return nil, fmt.Errorf("convert filesystem %s: %w", fs.ID, err)
	}
	return &entity.DescribeFilesystemResponse{Filesystem: ent}, nil
}

// persistSnapshot 变更成功后把元数据快照写进 MDV
func (s *FilesystemService) persistSnapshot(ctx context.Context, pool *model.Pool) {
	if err := s.accountant.PersistSnapshot(ctx, pool); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).
			Str("poolID", pool.ID).
			Msg("persist metadata snapshot failed")
	}
}
