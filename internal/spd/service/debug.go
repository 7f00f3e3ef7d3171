package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/jimyag/spd/internal/spd/entity"
	"github.com/jimyag/spd/internal/spd/repository"
	"github.com/jimyag/spd/pkg/apierror"
	"github.com/jimyag/spd/pkg/mdv"
)

// DebugService 调试接口，导出内部状态
// 输出结构不稳定，不保证兼容性
type DebugService struct {
	poolRepo   repository.PoolRepository
	fsRepo     repository.FilesystemRepository
	devRepo    repository.BlockDevRepository
	mdvRepo    repository.MdvRepository
	accountant *Accountant
	mdvMgr     mdv.Manager
}

// NewDebugService 创建调试服务
func NewDebugService(repo *repository.Repository, accountant *Accountant, mdvMgr mdv.Manager) *DebugService {
	return &DebugService{
		poolRepo:   repository.NewPoolRepository(repo.DB()),
		fsRepo:     repository.NewFilesystemRepository(repo.DB()),
		devRepo:    repository.NewBlockDevRepository(repo.DB()),
		mdvRepo:    repository.NewMdvRepository(repo.DB()),
		accountant: accountant,
		mdvMgr:     mdvMgr,
	}
}

// DumpPools 导出所有池及其文件系统、设备和 MDV 记录
func (s *DebugService) DumpPools(ctx context.Context, _ *entity.DumpPoolsRequest) (*entity.DumpPoolsResponse, error) {
	pools, err := s.poolRepo.List(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("list pools: %w", err)
	}

	resp := &entity.DumpPoolsResponse{Pools: make([]entity.PoolDump, 0, len(pools))}
	for _, pool := range pools {
		dump := entity.PoolDump{}

		poolEnt, convErr := poolModelToEntity(pool)
		if convErr != nil {
			return nil, fmt.Errorf("convert pool %s: %w", pool.ID, convErr)
		}
		poolEnt.CapacityB, err = s.accountant.PhysicalCapacity(ctx, pool.ID)
		if err != nil {
			return nil, err
		}
		poolEnt.AllocatedB, err = s.accountant.VirtualAllocated(ctx, pool.ID)
		if err != nil {
			return nil, err
		}
		poolEnt.FilesystemCount, err = s.fsRepo.CountByPool(ctx, pool.ID)
		if err != nil {
			return nil, fmt.Errorf("count filesystems of pool %s: %w", pool.ID, err)
		}
		dump.Pool = poolEnt

		filesystems, listErr := s.fsRepo.List(ctx, map[string]interface{}{"pool_id": pool.ID})
		if listErr != nil {
			return nil, fmt.Errorf("list filesystems of pool %s: %w", pool.ID, listErr)
		}
		for _, fs := range filesystems {
			fsEnt, fsErr := filesystemModelToEntity(fs)
			if fsErr != nil {
				return nil, fmt.Errorf("convert filesystem %s: %w", fs.ID, fsErr)
			}
			dump.Filesystems = append(dump.Filesystems, *fsEnt)
		}

		devices, listErr := s.devRepo.List(ctx, map[string]interface{}{"pool_id": pool.ID})
		if listErr != nil {
			return nil, fmt.Errorf("list devices of pool %s: %w", pool.ID, listErr)
		}
		for _, dev := range devices {
			devEnt, devErr := blockDevModelToEntity(dev)
			if devErr != nil {
				return nil, fmt.Errorf("convert device %s: %w", dev.ID, devErr)
			}
			dump.Devices = append(dump.Devices, *devEnt)
		}

		mdvRow, mdvErr := s.mdvRepo.GetByPoolID(ctx, pool.ID)
		if mdvErr != nil {
			if !errors.Is(mdvErr, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("get mdv of pool %s: %w", pool.ID, mdvErr)
			}
		} else {
			dump.Mdv = &entity.MdvInfo{
				ID:        mdvRow.ID,
				PoolID:    mdvRow.PoolID,
				SizeB:     mdvRow.SizeB,
				ImagePath: mdvRow.ImagePath,
				MountPath: mdvRow.MountPath,
			}
		}

		resp.Pools = append(resp.Pools, dump)
	}
	return resp, nil
}

// DescribeMdv 查询池的元数据卷信息，并尽量读出快照原文
// 快照读取失败只记日志，MDV 未挂载时没有快照是正常情况
func (s *DebugService) DescribeMdv(ctx context.Context, req *entity.DescribeMdvRequest) (*entity.DescribeMdvResponse, error) {
	if _, err := s.poolRepo.GetByID(ctx, req.PoolID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierror.WrapError(apierror.ErrPoolNotFound,
				fmt.Sprintf("pool %s not found", req.PoolID), err)
		}
		return nil, fmt.Errorf("get pool %s: %w", req.PoolID, err)
	}

	mdvRow, err := s.mdvRepo.GetByPoolID(ctx, req.PoolID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierror.WrapError(apierror.ErrPoolNotFound,
				fmt.Sprintf("pool %s has no metadata volume", req.PoolID), err)
		}
		return nil, fmt.Errorf("get mdv of pool %s: %w", req.PoolID, err)
	}

	resp := &entity.DescribeMdvResponse{
		Mdv: &entity.MdvInfo{
			ID:        mdvRow.ID,
			PoolID:    mdvRow.PoolID,
			SizeB:     mdvRow.SizeB,
			ImagePath: mdvRow.ImagePath,
			MountPath: mdvRow.MountPath,
		},
	}

	info := &mdv.Info{
		ID:        mdvRow.ID,
		PoolID:    mdvRow.PoolID,
		SizeB:     mdvRow.SizeB,
		ImagePath: mdvRow.ImagePath,
		MountPath: mdvRow.MountPath,
	}
	snap, err := s.mdvMgr.ReadSnapshot(ctx, info)
	if err != nil {
		zerolog.Ctx(ctx).Debug().Err(err).
			Str("poolID", req.PoolID).
			Msg("read metadata snapshot failed")
	} else {
		resp.Snapshot = snap
	}
	return resp, nil
}
