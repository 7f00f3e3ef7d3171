package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/jimyag/spd/internal/spd/repository/model"
)

// BlockDevRepository 块设备仓库接口
type BlockDevRepository interface {
	Create(ctx context.Context, dev *model.BlockDevice) error
	GetByID(ctx context.Context, id string) (*model.BlockDevice, error)
	GetByPath(ctx context.Context, path string) (*model.BlockDevice, error)
	List(ctx context.Context, filters map[string]interface{}) ([]*model.BlockDevice, error)
	SumCapacityByPool(ctx context.Context, poolID string) (uint64, error)
	Delete(ctx context.Context, id string) error
	DeleteByPool(ctx context.Context, poolID string) error
}

type blockDevRepository struct {
	db *gorm.DB
}

// NewBlockDevRepository 创建块设备仓库
func NewBlockDevRepository(db *gorm.DB) BlockDevRepository {
	return &blockDevRepository{db: db}
}

// Create 注册块设备
func (r *blockDevRepository) Create(ctx context.Context, dev *model.BlockDevice) error {
	return r.db.WithContext(ctx).Create(dev).Error
}

// GetByID 根据 ID 获取块设备
func (r *blockDevRepository) GetByID(ctx context.Context, id string) (*model.BlockDevice, error) {
	var dev model.BlockDevice
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&dev).Error; err != nil {
		return nil, err
	}
	return &dev, nil
}

// GetByPath 根据设备路径获取块设备
// 用于注册前检查设备是否已属于某个池
func (r *blockDevRepository) GetByPath(ctx context.Context, path string) (*model.BlockDevice, error) {
	var dev model.BlockDevice
	if err := r.db.WithContext(ctx).Where("path = ?", path).First(&dev).Error; err != nil {
		return nil, err
	}
	return &dev, nil
}

// List 列出块设备
func (r *blockDevRepository) List(ctx context.Context, filters map[string]interface{}) ([]*model.BlockDevice, error) {
	var devices []*model.BlockDevice
	query := r.db.WithContext(ctx).Model(&model.BlockDevice{})

	// 应用过滤器
	if poolID, ok := filters["pool_id"]; ok {
		query = query.Where("pool_id = ?", poolID)
	}

	if err := query.Find(&devices).Error; err != nil {
		return nil, err
	}

	return devices, nil
}

// SumCapacityByPool 统计池的物理容量（设备容量之和，字节）
func (r *blockDevRepository) SumCapacityByPool(ctx context.Context, poolID string) (uint64, error) {
	var sum uint64
	if err := r.db.WithContext(ctx).Model(&model.BlockDevice{}).
		Where("pool_id = ?", poolID).
		Select("COALESCE(SUM(capacity_b), 0)").
		Scan(&sum).Error; err != nil {
		return 0, err
	}
	return sum, nil
}

// Delete 软删除块设备
func (r *blockDevRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&model.BlockDevice{}, "id = ?", id).Error
}

// DeleteByPool 释放池的所有块设备（池销毁时）
func (r *blockDevRepository) DeleteByPool(ctx context.Context, poolID string) error {
	return r.db.WithContext(ctx).Delete(&model.BlockDevice{}, "pool_id = ?", poolID).Error
}
