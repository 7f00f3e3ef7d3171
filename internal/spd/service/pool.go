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
	"github.com/jimyag/spd/pkg/blockdev"
	"github.com/jimyag/spd/pkg/idgen"
	"github.com/jimyag/spd/pkg/mdv"
)

// PoolService 池管理服务
// 负责池的生命周期：created → active → stopped → destroyed
// 同一个池的所有变更操作串行执行（单写者），不同池之间互不阻塞
type PoolService struct {
	poolRepo   repository.PoolRepository
	fsRepo     repository.FilesystemRepository
	devRepo    repository.BlockDevRepository
	mdvRepo    repository.MdvRepository
	accountant *Accountant
	mdvMgr     mdv.Manager
	prober     blockdev.Prober
	idGen      *idgen.Generator
	locker     *PoolLocker
}

// NewPoolService 创建池管理服务
func NewPoolService(
	repo *repository.Repository,
	accountant *Accountant,
	mdvMgr mdv.Manager,
	prober blockdev.Prober,
	locker *PoolLocker,
) *PoolService {
	return &PoolService{
		poolRepo:   repository.NewPoolRepository(repo.DB()),
		fsRepo:     repository.NewFilesystemRepository(repo.DB()),
		devRepo:    repository.NewBlockDevRepository(repo.DB()),
		mdvRepo:    repository.NewMdvRepository(repo.DB()),
		accountant: accountant,
		mdvMgr:     mdvMgr,
		prober:     prober,
		idGen:      idgen.DefaultGenerator(),
		locker:     locker,
	}
}

// getPool 按 ID 查询池，不存在时返回 PoolNotFound
func (s *PoolService) getPool(ctx context.Context, poolID string) (*model.Pool, error) {
	pool, err := s.poolRepo.GetByID(ctx, poolID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierror.WrapError(apierror.ErrPoolNotFound,
				fmt.Sprintf("pool %s not found", poolID), err)
		}
		return nil, fmt.Errorf("get pool %s: %w", poolID, err)
	}
	return pool, nil
}

// requireState 检查池处于给定状态之一，否则返回 InvalidPoolState
func requireState(pool *model.Pool, states ...string) error {
	for _, st := range states {
		if pool.State == st {
			return nil
		}
	}
	return apierror.WrapError(apierror.ErrInvalidPoolState,
		fmt.Sprintf("pool %s is %s, operation requires state in %v", pool.ID, pool.State, states), nil)
}

// toEntity 把池模型转成实体并补齐容量统计
func (s *PoolService) toEntity(ctx context.Context, pool *model.Pool) (*entity.Pool, error) {
	ent, err := poolModelToEntity(pool)
	if err != nil {
		return nil, fmt.Errorf("convert pool %s: %w", pool.ID, err)
	}
	ent.CapacityB, err = s.accountant.PhysicalCapacity(ctx, pool.ID)
	if err != nil {
		return nil, err
	}
	ent.AllocatedB, err = s.accountant.VirtualAllocated(ctx, pool.ID)
	if err != nil {
		return nil, err
	}
	ent.FilesystemCount, err = s.fsRepo.CountByPool(ctx, pool.ID)
	if err != nil {
		return nil, fmt.Errorf("count filesystems of pool %s: %w", pool.ID, err)
	}
	return ent, nil
}

// persistSnapshot 变更成功后把元数据快照写进 MDV
// DB 是事实来源，快照写失败只记日志，下次变更会重写
func (s *PoolService) persistSnapshot(ctx context.Context, pool *model.Pool) {
	if err := s.accountant.PersistSnapshot(ctx, pool); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).
			Str("poolID", pool.ID).
			Msg("persist metadata snapshot failed")
	}
}

// Create 创建池
// 探测并注册初始设备，分配并挂载 MDV，写入初始元数据快照
// 新池直接进入 active 状态，立即可以创建文件系统
func (s *PoolService) Create(ctx context.Context, req *entity.CreatePoolRequest) (*entity.CreatePoolResponse, error) {
	log := zerolog.Ctx(ctx)

	if len(req.Devices) == 0 {
		return nil, apierror.WrapError(apierror.ErrInvalidArgument,
			"pool requires at least one block device", nil)
	}

	// 池名称唯一
	if _, err := s.poolRepo.GetByName(ctx, req.Name); err == nil {
		return nil, apierror.WrapError(apierror.ErrInvalidArgument,
			fmt.Sprintf("pool name %s already exists", req.Name), nil)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("get pool by name %s: %w", req.Name, err)
	}

	// 探测所有设备，任何一个失败就整体失败
	type probedDev struct {
		path      string
		capacityB uint64
	}
	probed := make([]probedDev, 0, len(req.Devices))
	for _, path := range req.Devices {
		if _, err := s.devRepo.GetByPath(ctx, path); err == nil {
			return nil, apierror.WrapError(apierror.ErrDeviceInUse,
				fmt.Sprintf("device %s already belongs to a pool", path), nil)
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("get device by path %s: %w", path, err)
		}
		ok, err := s.prober.IsBlockDevice(ctx, path)
		if err != nil {
			return nil, apierror.WrapError(apierror.ErrInvalidArgument,
				fmt.Sprintf("probe device %s failed", path), err)
		}
		if !ok {
			return nil, apierror.WrapError(apierror.ErrInvalidArgument,
				fmt.Sprintf("%s is not a block device", path), nil)
		}
		capacityB, err := s.prober.Size(ctx, path)
		if err != nil {
			return nil, apierror.WrapError(apierror.ErrInvalidArgument,
				fmt.Sprintf("read size of device %s failed", path), err)
		}
		probed = append(probed, probedDev{path: path, capacityB: capacityB})
	}

	poolID, err := s.idGen.NewPoolID()
	if err != nil {
		return nil, fmt.Errorf("generate pool id: %w", err)
	}
	mdvID, err := s.idGen.NewMdvID()
	if err != nil {
		return nil, fmt.Errorf("generate mdv id: %w", err)
	}

	// 先分配 MDV，失败时池完全不存在
	mdvInfo, err := s.mdvMgr.Create(ctx, mdvID, poolID, mdv.MinSizeB)
	if err != nil {
		if errors.Is(err, mdv.ErrNoSpace) {
			return nil, apierror.WrapError(apierror.ErrAllocationFailure,
				fmt.Sprintf("allocate metadata volume for pool %s failed: no space", poolID), err)
		}
		return nil, fmt.Errorf("create mdv for pool %s: %w", poolID, err)
	}
	if err = s.mdvMgr.Mount(ctx, mdvInfo); err != nil {
		// 回滚 MDV
		if rmErr := s.mdvMgr.Remove(ctx, mdvInfo); rmErr != nil {
			log.Error().Err(rmErr).Str("mdvID", mdvID).Msg("rollback mdv failed")
		}
		return nil, fmt.Errorf("mount mdv %s: %w", mdvID, err)
	}

	rollbackMdv := func() {
		if rmErr := s.mdvMgr.Remove(ctx, mdvInfo); rmErr != nil {
			log.Error().Err(rmErr).Str("mdvID", mdvID).Msg("rollback mdv failed")
		}
	}

	fsLimit := req.FsLimit
	if fsLimit == 0 {
		fsLimit = model.DefaultFsLimit
	}

	now := time.Now()
	pool := &model.Pool{
		ID:               poolID,
		Name:             req.Name,
		State:            model.PoolStateActive,
		Overprovisioning: req.Overprovision,
		FsLimit:          fsLimit,
		MdvID:            mdvID,
		CreateTime:       now,
	}
	if err = s.poolRepo.Create(ctx, pool); err != nil {
		rollbackMdv()
		return nil, fmt.Errorf("create pool %s: %w", poolID, err)
	}

	mdvRow := &model.Mdv{
		ID:         mdvID,
		PoolID:     poolID,
		SizeB:      mdvInfo.SizeB,
		ImagePath:  mdvInfo.ImagePath,
		MountPath:  mdvInfo.MountPath,
		CreateTime: now,
	}
	if err = s.mdvRepo.Create(ctx, mdvRow); err != nil {
		rollbackMdv()
		if delErr := s.poolRepo.Delete(ctx, poolID); delErr != nil {
			log.Error().Err(delErr).Str("poolID", poolID).Msg("rollback pool row failed")
		}
		return nil, fmt.Errorf("create mdv row %s: %w", mdvID, err)
	}

	rollbackRows := func() {
		rollbackMdv()
		if delErr := s.mdvRepo.Delete(ctx, mdvID); delErr != nil {
			log.Error().Err(delErr).Str("mdvID", mdvID).Msg("rollback mdv row failed")
		}
		if delErr := s.devRepo.DeleteByPool(ctx, poolID); delErr != nil {
			log.Error().Err(delErr).Str("poolID", poolID).Msg("rollback device rows failed")
		}
		if delErr := s.poolRepo.Delete(ctx, poolID); delErr != nil {
			log.Error().Err(delErr).Str("poolID", poolID).Msg("rollback pool row failed")
		}
	}

	for _, dev := range probed {
		devID, idErr := s.idGen.NewDeviceID()
		if idErr != nil {
			rollbackRows()
			return nil, fmt.Errorf("generate device id: %w", idErr)
		}
		row := &model.BlockDevice{
			ID:         devID,
			Path:       dev.path,
			PoolID:     poolID,
			CapacityB:  dev.capacityB,
			CreateTime: now,
		}
		if err = s.devRepo.Create(ctx, row); err != nil {
			rollbackRows()
			return nil, fmt.Errorf("register device %s: %w", dev.path, err)
		}
	}

	s.persistSnapshot(ctx, pool)

	log.Info().
		Str("poolID", poolID).
		Str("name", req.Name).
		Int("devices", len(probed)).
		Bool("overprovisioning", req.Overprovision).
		Msg("pool created")

	ent, err := s.toEntity(ctx, pool)
	if err != nil {
		return nil, err
	}
	return &entity.CreatePoolResponse{Pool: ent}, nil
}

// Start 启动池：created 或 stopped → active
// 重新挂载 MDV（幂等），active 状态下再次启动直接成功
func (s *PoolService) Start(ctx context.Context, req *entity.StartPoolRequest) (*entity.StartPoolResponse, error) {
	unlock := s.locker.lock(req.PoolID)
	defer unlock()

	pool, err := s.getPool(ctx, req.PoolID)
	if err != nil {
		return nil, err
	}
	if pool.State != model.PoolStateActive {
		if err = requireState(pool, model.PoolStateCreated, model.PoolStateStopped); err != nil {
			return nil, err
		}
		mdvRow, mdvErr := s.mdvRepo.GetByPoolID(ctx, pool.ID)
		if mdvErr != nil {
			return nil, fmt.Errorf("get mdv of pool %s: %w", pool.ID, mdvErr)
		}
		info := &mdv.Info{
			ID:        mdvRow.ID,
			PoolID:    mdvRow.PoolID,
			SizeB:     mdvRow.SizeB,
			ImagePath: mdvRow.ImagePath,
			MountPath: mdvRow.MountPath,
		}
		if err = s.mdvMgr.Mount(ctx, info); err != nil {
			return nil, fmt.Errorf("mount mdv %s: %w", mdvRow.ID, err)
		}
		pool.State = model.PoolStateActive
		if err = s.poolRepo.Update(ctx, pool); err != nil {
			return nil, fmt.Errorf("update pool %s: %w", pool.ID, err)
		}
		zerolog.Ctx(ctx).Info().Str("poolID", pool.ID).Msg("pool started")
	}

	ent, err := s.toEntity(ctx, pool)
	if err != nil {
		return nil, err
	}
	return &entity.StartPoolResponse{Pool: ent}, nil
}

// Stop 停止池：active → stopped
// 卸载 MDV（幂等），stopped 状态下再次停止直接成功
func (s *PoolService) Stop(ctx context.Context, req *entity.StopPoolRequest) (*entity.StopPoolResponse, error) {
	unlock := s.locker.lock(req.PoolID)
	defer unlock()

	pool, err := s.getPool(ctx, req.PoolID)
	if err != nil {
		return nil, err
	}
	if pool.State != model.PoolStateStopped {
		if err = requireState(pool, model.PoolStateActive); err != nil {
			return nil, err
		}
		mdvRow, mdvErr := s.mdvRepo.GetByPoolID(ctx, pool.ID)
		if mdvErr != nil {
			return nil, fmt.Errorf("get mdv of pool %s: %w", pool.ID, mdvErr)
		}
		info := &mdv.Info{
			ID:        mdvRow.ID,
			PoolID:    mdvRow.PoolID,
			SizeB:     mdvRow.SizeB,
			ImagePath: mdvRow.ImagePath,
			MountPath: mdvRow.MountPath,
		}
		if err = s.mdvMgr.Unmount(ctx, info); err != nil {
			return nil, fmt.Errorf("unmount mdv %s: %w", mdvRow.ID, err)
		}
		pool.State = model.PoolStateStopped
		if err = s.poolRepo.Update(ctx, pool); err != nil {
			return nil, fmt.Errorf("update pool %s: %w", pool.ID, err)
		}
		zerolog.Ctx(ctx).Info().Str("poolID", pool.ID).Msg("pool stopped")
	}

	ent, err := s.toEntity(ctx, pool)
	if err != nil {
		return nil, err
	}
	return &entity.StopPoolResponse{Pool: ent}, nil
}

// Destroy 销毁池，只允许在 stopped 状态下执行
// 池内还有文件系统时返回 PoolBusy；成功后删除 MDV 和所有注册的设备记录
func (s *PoolService) Destroy(ctx context.Context, req *entity.DestroyPoolRequest) (*entity.DestroyPoolResponse, error) {
	unlock := s.locker.lock(req.PoolID)
	defer unlock()

	pool, err := s.getPool(ctx, req.PoolID)
	if err != nil {
		return nil, err
	}
	if err = requireState(pool, model.PoolStateStopped); err != nil {
		return nil, err
	}

	count, err := s.fsRepo.CountByPool(ctx, pool.ID)
	if err != nil {
		return nil, fmt.Errorf("count filesystems of pool %s: %w", pool.ID, err)
	}
	if count > 0 {
		return nil, apierror.WrapError(apierror.ErrPoolBusy,
			fmt.Sprintf("pool %s still has %d filesystems", pool.ID, count), nil)
	}

	mdvRow, err := s.mdvRepo.GetByPoolID(ctx, pool.ID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("get mdv of pool %s: %w", pool.ID, err)
	}
	if mdvRow != nil {
		info := &mdv.Info{
			ID:        mdvRow.ID,
			PoolID:    mdvRow.PoolID,
			SizeB:     mdvRow.SizeB,
			ImagePath: mdvRow.ImagePath,
			MountPath: mdvRow.MountPath,
		}
		if err = s.mdvMgr.Remove(ctx, info); err != nil {
			return nil, fmt.Errorf("remove mdv %s: %w", mdvRow.ID, err)
		}
		if err = s.mdvRepo.Delete(ctx, mdvRow.ID); err != nil {
			return nil, fmt.Errorf("delete mdv row %s: %w", mdvRow.ID, err)
		}
	}

	if err = s.devRepo.DeleteByPool(ctx, pool.ID); err != nil {
		return nil, fmt.Errorf("delete devices of pool %s: %w", pool.ID, err)
	}

	pool.State = model.PoolStateDestroyed
	if err = s.poolRepo.Update(ctx, pool); err != nil {
		return nil, fmt.Errorf("update pool %s: %w", pool.ID, err)
	}
	if err = s.poolRepo.Delete(ctx, pool.ID); err != nil {
		return nil, fmt.Errorf("delete pool %s: %w", pool.ID, err)
	}

	s.locker.forget(pool.ID)

	zerolog.Ctx(ctx).Info().Str("poolID", pool.ID).Msg("pool destroyed")
	return &entity.DestroyPoolResponse{
		Message: fmt.Sprintf("pool %s destroyed", pool.ID),
	}, nil
}

// SetOverprovision 设置池的超分配开关，active 和 stopped 状态下都允许
func (s *PoolService) SetOverprovision(ctx context.Context, req *entity.SetOverprovisionRequest) (*entity.SetOverprovisionResponse, error) {
	unlock := s.locker.lock(req.PoolID)
	defer unlock()

	pool, err := s.getPool(ctx, req.PoolID)
	if err != nil {
		return nil, err
	}
	if err = requireState(pool, model.PoolStateActive, model.PoolStateStopped); err != nil {
		return nil, err
	}

	if err = s.accountant.SetOverprovisioning(ctx, pool, *req.Enabled); err != nil {
		return nil, err
	}
	// MDV 只在 active 状态下挂载
	if pool.State == model.PoolStateActive {
		s.persistSnapshot(ctx, pool)
	}

	zerolog.Ctx(ctx).Info().
		Str("poolID", pool.ID).
		Bool("overprovisioning", *req.Enabled).
		Msg("pool overprovisioning updated")

	ent, err := s.toEntity(ctx, pool)
	if err != nil {
		return nil, err
	}
	return &entity.SetOverprovisionResponse{Pool: ent}, nil
}

// SetFsLimit 提高池的文件系统数量上限，active 和 stopped 状态下都允许
func (s *PoolService) SetFsLimit(ctx context.Context, req *entity.SetFsLimitRequest) (*entity.SetFsLimitResponse, error) {
	unlock := s.locker.lock(req.PoolID)
	defer unlock()

	pool, err := s.getPool(ctx, req.PoolID)
	if err != nil {
		return nil, err
	}
	if err = requireState(pool, model.PoolStateActive, model.PoolStateStopped); err != nil {
		return nil, err
	}

	if err = s.accountant.IncreaseFilesystemLimit(ctx, pool, req.FsLimit); err != nil {
		return nil, err
	}
	if pool.State == model.PoolStateActive {
		s.persistSnapshot(ctx, pool)
	}

	zerolog.Ctx(ctx).Info().
		Str("poolID", pool.ID).
		Uint64("fsLimit", req.FsLimit).
		Msg("pool filesystem limit updated")

	ent, err := s.toEntity(ctx, pool)
	if err != nil {
		return nil, err
	}
	return &entity.SetFsLimitResponse{Pool: ent}, nil
}

// List 列举池，可按状态过滤
func (s *PoolService) List(ctx context.Context, req *entity.ListPoolsRequest) (*entity.ListPoolsResponse, error) {
	filters := map[string]interface{}{}
	if req.State != "" {
		filters["state"] = req.State
	}
	pools, err := s.poolRepo.List(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("list pools: %w", err)
	}

	resp := &entity.ListPoolsResponse{Pools: make([]entity.Pool, 0, len(pools))}
	for _, pool := range pools {
		ent, entErr := s.toEntity(ctx, pool)
		if entErr != nil {
			return nil, entErr
		}
		resp.Pools = append(resp.Pools, *ent)
	}
	return resp, nil
}

// Describe 查询池详情
func (s *PoolService) Describe(ctx context.Context, req *entity.DescribePoolRequest) (*entity.DescribePoolResponse, error) {
	pool, err := s.getPool(ctx, req.PoolID)
	if err != nil {
		return nil, err
	}
	ent, err := s.toEntity(ctx, pool)
	if err != nil {
		return nil, err
	}
	return &entity.DescribePoolResponse{Pool: ent}, nil
}
