package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/jimyag/spd/internal/spd/repository"
	"github.com/jimyag/spd/internal/spd/repository/model"
	"github.com/jimyag/spd/pkg/apierror"
	"github.com/jimyag/spd/pkg/mdv"
)

// MinFilesystemSizeB 文件系统的最小虚拟容量：512 MiB
const MinFilesystemSizeB uint64 = 512 * 1024 * 1024

// Accountant 瘦分配精算器
// 跟踪池的逻辑（虚拟）与物理容量，执行超分配策略：
//   - 超分配关闭时，虚拟容量之和不允许超过物理容量
//   - 文件系统数量上限只增不减
//
// 已分配虚拟容量从文件系统表推导，不单独计数；
// 每次成功变更后通过 MDV Manager 持久化池元数据快照
type Accountant struct {
	poolRepo repository.PoolRepository
	fsRepo   repository.FilesystemRepository
	devRepo  repository.BlockDevRepository
	mdvRepo  repository.MdvRepository
	mdvMgr   mdv.Manager
}

// NewAccountant 创建精算器
func NewAccountant(
	poolRepo repository.PoolRepository,
	fsRepo repository.FilesystemRepository,
	devRepo repository.BlockDevRepository,
	mdvRepo repository.MdvRepository,
	mdvMgr mdv.Manager,
) *Accountant {
	return &Accountant{
		poolRepo: poolRepo,
		fsRepo:   fsRepo,
		devRepo:  devRepo,
		mdvRepo:  mdvRepo,
		mdvMgr:   mdvMgr,
	}
}

// PhysicalCapacity 返回池的物理容量（设备容量之和，字节）
func (a *Accountant) PhysicalCapacity(ctx context.Context, poolID string) (uint64, error) {
	return a.devRepo.SumCapacityByPool(ctx, poolID)
}

// VirtualAllocated 返回池已分配的虚拟容量（文件系统虚拟容量之和，字节）
func (a *Accountant) VirtualAllocated(ctx context.Context, poolID string) (uint64, error) {
	return a.fsRepo.SumSizeByPool(ctx, poolID)
}

// RequestAllocation 检查池能否再分配 sizeB 字节的虚拟容量
// 失败立即返回，不等待空间释放：
//   - 文件系统数量达到上限：PolicyViolation
//   - 超分配关闭且物理容量不足：CapacityExceeded
//
// 调用方必须持有池锁
func (a *Accountant) RequestAllocation(ctx context.Context, pool *model.Pool, sizeB uint64) error {
	count, err := a.fsRepo.CountByPool(ctx, pool.ID)
	if err != nil {
		return fmt.Errorf("count filesystems of pool %s: %w", pool.ID, err)
	}
	if count >= pool.FsLimit {
		return apierror.WrapError(apierror.ErrPolicyViolation,
			fmt.Sprintf("pool %s already has %d filesystems, limit is %d", pool.ID, count, pool.FsLimit), nil)
	}

	// 超分配开启时不检查物理容量
	if pool.Overprovisioning {
		return nil
	}

	physical, err := a.PhysicalCapacity(ctx, pool.ID)
	if err != nil {
		return fmt.Errorf("physical capacity of pool %s: %w", pool.ID, err)
	}
	allocated, err := a.VirtualAllocated(ctx, pool.ID)
	if err != nil {
		return fmt.Errorf("virtual allocated of pool %s: %w", pool.ID, err)
	}

	// sizeB 来自请求体，allocated+sizeB 可能溢出 uint64，用减法比较
	if sizeB > physical || allocated > physical-sizeB {
		return apierror.WrapError(apierror.ErrCapacityExceeded,
			fmt.Sprintf("pool %s: requested %d bytes, allocated %d of %d physical bytes and overprovisioning is disabled",
				pool.ID, sizeB, allocated, physical), nil)
	}

	return nil
}

// SetOverprovisioning 设置池的超分配开关
// 关闭时如果当前虚拟容量已超过物理容量，返回 PolicyViolation
// 调用方必须持有池锁
func (a *Accountant) SetOverprovisioning(ctx context.Context, pool *model.Pool, enabled bool) error {
	if !enabled {
		physical, err := a.PhysicalCapacity(ctx, pool.ID)
		if err != nil {
			return fmt.Errorf("physical capacity of pool %s: %w", pool.ID, err)
		}
		allocated, err := a.VirtualAllocated(ctx, pool.ID)
		if err != nil {
			return fmt.Errorf("virtual allocated of pool %s: %w", pool.ID, err)
		}
		if allocated > physical {
			return apierror.WrapError(apierror.ErrPolicyViolation,
				fmt.Sprintf("pool %s: allocated %d bytes exceeds physical %d bytes, cannot disable overprovisioning",
					pool.ID, allocated, physical), nil)
		}
	}

	pool.Overprovisioning = enabled
	if err := a.poolRepo.Update(ctx, pool); err != nil {
		return fmt.Errorf("update pool %s: %w", pool.ID, err)
	}

	return nil
}

// IncreaseFilesystemLimit 提高池的文件系统数量上限
// 上限只增不减，newLimit 小于当前上限时返回 InvalidArgument
// 调用方必须持有池锁
func (a *Accountant) IncreaseFilesystemLimit(ctx context.Context, pool *model.Pool, newLimit uint64) error {
	if newLimit < pool.FsLimit {
		return apierror.WrapError(apierror.ErrInvalidArgument,
			fmt.Sprintf("pool %s: filesystem limit is %d and can only be increased, got %d",
				pool.ID, pool.FsLimit, newLimit), nil)
	}

	pool.FsLimit = newLimit
	if err := a.poolRepo.Update(ctx, pool); err != nil {
		return fmt.Errorf("update pool %s: %w", pool.ID, err)
	}

	return nil
}

// PersistSnapshot 将池的元数据快照写入 MDV
// 每次成功变更后调用
func (a *Accountant) PersistSnapshot(ctx context.Context, pool *model.Pool) error {
	mdvRow, err := a.mdvRepo.GetByPoolID(ctx, pool.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("pool %s has no mdv", pool.ID)
		}
		return fmt.Errorf("get mdv of pool %s: %w", pool.ID, err)
	}

	filesystems, err := a.fsRepo.List(ctx, map[string]interface{}{"pool_id": pool.ID})
	if err != nil {
		return fmt.Errorf("list filesystems of pool %s: %w", pool.ID, err)
	}
	devices, err := a.devRepo.List(ctx, map[string]interface{}{"pool_id": pool.ID})
	if err != nil {
		return fmt.Errorf("list devices of pool %s: %w", pool.ID, err)
	}

	snap := &mdv.Snapshot{
		PoolID:           pool.ID,
		PoolName:         pool.Name,
		Overprovisioning: pool.Overprovisioning,
		FsLimit:          pool.FsLimit,
		WrittenAt:        time.Now().UTC(),
	}
	for _, fs := range filesystems {
		snap.Filesystems = append(snap.Filesystems, mdv.FilesystemRecord{
			ID:    fs.ID,
			Name:  fs.Name,
			SizeB: fs.SizeB,
		})
	}
	for _, dev := range devices {
		snap.BlockDevices = append(snap.BlockDevices, mdv.BlockDevRecord{
			ID:        dev.ID,
			Path:      dev.Path,
			CapacityB: dev.CapacityB,
		})
	}

	info := &mdv.Info{
		ID:        mdvRow.ID,
		PoolID:    mdvRow.PoolID,
		SizeB:     mdvRow.SizeB,
		ImagePath: mdvRow.ImagePath,
		MountPath: mdvRow.MountPath,
	}
	if err := a.mdvMgr.WriteSnapshot(ctx, info, snap); err != nil {
		return fmt.Errorf("write metadata snapshot of pool %s: %w", pool.ID, err)
	}
	return nil
}
