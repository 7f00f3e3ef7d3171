package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/jimyag/spd/internal/spd/repository/model"
)

// PoolRepository 池仓库接口
type PoolRepository interface {
	Create(ctx context.Context, pool *model.Pool) error
	GetByID(ctx context.Context, id string) (*model.Pool, error)
	GetByName(ctx context.Context, name string) (*model.Pool, error)
	List(ctx context.Context, filters map[string]interface{}) ([]*model.Pool, error)
	Update(ctx context.Context, pool *model.Pool) error
	Delete(ctx context.Context, id string) error
	GetByIDWithDeleted(ctx context.Context, id string) (*model.Pool, error)
}

type poolRepository struct {
	db *gorm.DB
}

// NewPoolRepository 创建池仓库
func NewPoolRepository(db *gorm.DB) PoolRepository {
	return &poolRepository{db: db}
}

// Create 创建池
func (r *poolRepository) Create(ctx context.Context, pool *model.Pool) error {
	return r.db.WithContext(ctx).Create(pool).Error
}

// GetByID 根据 ID 获取池
func (r *poolRepository) GetByID(ctx context.Context, id string) (*model.Pool, error) {
	var pool model.Pool
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&pool).Error; err != nil {
		return nil, err
	}
	return &pool, nil
}

// GetByName 根据名称获取池
func (r *poolRepository) GetByName(ctx context.Context, name string) (*model.Pool, error) {
	var pool model.Pool
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&pool).Error; err != nil {
		return nil, err
	}
	return &pool, nil
}

// List 列出池
func (r *poolRepository) List(ctx context.Context, filters map[string]interface{}) ([]*model.Pool, error) {
	var pools []*model.Pool
	query := r.db.WithContext(ctx).Model(&model.Pool{})

	// 应用过滤器
	if state, ok := filters["state"]; ok {
		query = query.Where("state = ?", state)
	}
	if name, ok := filters["name"]; ok {
		query = query.Where("name = ?", name)
	}

	if err := query.Find(&pools).Error; err != nil {
		return nil, err
	}

	return pools, nil
}

// Update 更新池
func (r *poolRepository) Update(ctx context.Context, pool *model.Pool) error {
	return r.db.WithContext(ctx).Save(pool).Error
}

// Delete 软删除池
func (r *poolRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&model.Pool{}, "id = ?", id).Error
}

// GetByIDWithDeleted 根据 ID 获取池（包含已删除的记录）
func (r *poolRepository) GetByIDWithDeleted(ctx context.Context, id string) (*model.Pool, error) {
	var pool model.Pool
	if err := r.db.WithContext(ctx).Unscoped().Where("id = ?", id).First(&pool).Error; err != nil {
		return nil, err
	}
	return &pool, nil
}
