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
)

// BlockDevService 块设备注册服务
// 设备注册即查询一次容量并入池；一个设备只能属于一个池
type BlockDevService struct {
	poolRepo   repository.PoolRepository
	devRepo    repository.BlockDevRepository
	accountant *Accountant
	prober     blockdev.Prober
	idGen      *idgen.Generator
	locker     *PoolLocker
}

// NewBlockDevService 创建块设备注册服务
func NewBlockDevService(
	repo *repository.Repository,
	accountant *Accountant,
	prober blockdev.Prober,
	locker *PoolLocker,
) *BlockDevService {
	return &BlockDevService{
		poolRepo:   repository.NewPoolRepository(repo.DB()),
		devRepo:    repository.NewBlockDevRepository(repo.DB()),
		accountant: accountant,
		prober:     prober,
		idGen:      idgen.DefaultGenerator(),
		locker:     locker,
	}
}

// Register 把块设备注册到池，扩大池的物理容量
// 只允许注册到 active 状态的池；已属于任何池的设备返回 DeviceInUse
func (s *BlockDevService) Register(ctx context.Context, req *entity.RegisterBlockDevRequest) (*entity.RegisterBlockDevResponse, error) {
	unlock := s.locker.lock(req.PoolID)
	defer unlock()

	pool, err := s.poolRepo.GetByID(ctx, req.PoolID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierror.WrapError(apierror.ErrPoolNotFound,
				fmt.Sprintf("pool %s not found", req.PoolID), err)
		}
		return nil, fmt.Errorf("get pool %s: %w", req.PoolID, err)
	}
	if err = requireState(pool, model.PoolStateActive); err != nil {
		return nil, err
	}

	if _, err = s.devRepo.GetByPath(ctx, req.Path); err == nil {
		return nil, apierror.WrapError(apierror.ErrDeviceInUse,
			fmt.Sprintf("device %s already belongs to a pool", req.Path), nil)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("get device by path %s: %w", req.Path, err)
	}

	ok, err := s.prober.IsBlockDevice(ctx, req.Path)
	if err != nil {
		return nil, apierror.WrapError(apierror.ErrInvalidArgument,
			fmt.Sprintf("probe device %s failed", req.Path), err)
	}
	if !ok {
		return nil, apierror.WrapError(apierror.ErrInvalidArgument,
			fmt.Sprintf("%s is not a block device", req.Path), nil)
	}
	capacityB, err := s.prober.Size(ctx, req.Path)
	if err != nil {
		return nil, apierror.WrapError(apierror.ErrInvalidArgument,
			fmt.Sprintf("read size of device %s failed", req.Path), err)
	}

	devID, err := s.idGen.NewDeviceID()
	if err != nil {
		return nil, fmt.Errorf("generate device id: %w", err)
	}
	dev := &model.BlockDevice{
		ID:         devID,
		Path:       req.Path,
		PoolID:     req.PoolID,
		CapacityB:  capacityB,
		CreateTime: time.Now(),
	}
	if err = s.devRepo.Create(ctx, dev); err != nil {
		return nil, fmt.Errorf("register device %s: %w", req.Path, err)
	}

	if err = s.accountant.PersistSnapshot(ctx, pool); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).
			Str("poolID", pool.ID).
			Msg("persist metadata snapshot failed")
	}

	zerolog.Ctx(ctx).Info().
		Str("deviceID", devID).
		Str("poolID", req.PoolID).
		Str("path", req.Path).
		Uint64("capacityB", capacityB).
		Msg("block device registered")

	ent, err := blockDevModelToEntity(dev)
	if err != nil {
		return nil, fmt.Errorf("convert device %s: %w", devID, err)
	}
	return &entity.RegisterBlockDevResponse{Device: ent}, nil
}

// List 列举块设备，可按池过滤
func (s *BlockDevService) List(ctx context.Context, req *entity.ListBlockDevsRequest) (*entity.ListBlockDevsResponse, error) {
	filters := map[string]interface{}{}
	if req.PoolID != "" {
		filters["pool_id"] = req.PoolID
	}
	devices, err := s.devRepo.List(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("list devices: %w", err)
	}

	resp := &entity.ListBlockDevsResponse{Devices: make([]entity.BlockDevice, 0, len(devices))}
	for _, dev := range devices {
		ent, entErr := blockDevModelToEntity(dev)
		if entErr != nil {
			return nil, fmt.Errorf("convert device %s: %w", dev.ID, entErr)
		}
		resp.Devices = append(resp.Devices, *ent)
	}
	return resp, nil
}

// Describe 查询块设备详情
func (s *BlockDevService) Describe(ctx context.Context, req *entity.DescribeBlockDevRequest) (*entity.DescribeBlockDevResponse, error) {
	dev, err := s.devRepo.GetByID(ctx, req.DeviceID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierror.WrapError(apierror.ErrBlockDevNotFound,
				fmt.Sprintf("device %s not found", req.DeviceID), err)
		}
		return nil, fmt.Errorf("get device %s: %w", req.DeviceID, err)
	}
	ent, err := blockDevModelToEntity(dev)
	if err != nil {
		return nil, fmt.Errorf("convert device %s: %w", dev.ID, err)
	}
	return &entity.DescribeBlockDevResponse{Device: ent}, nil
}
