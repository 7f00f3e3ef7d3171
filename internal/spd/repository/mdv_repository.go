package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/jimyag/spd/internal/spd/repository/model"
)

// MdvRepository 元数据卷仓库接口
type MdvRepository interface {
	Create(ctx context.Context, mdv *model.Mdv) error
	GetByID(ctx context.Context, id string) (*model.Mdv, error)
	GetByPoolID(ctx context.Context, poolID string) (*model.Mdv, error)
	Update(ctx context.Context, mdv *model.Mdv) error
	Delete(ctx context.Context, id string) error
}

type mdvRepository struct {
	db *gorm.DB
}

// NewMdvRepository 创建元数据卷仓库
func NewMdvRepository(db *gorm.DB) MdvRepository {
	return &mdvRepository{db: db}
}

// Create 创建元数据卷记录
func (r *mdvRepository) Create(ctx context.Context, mdv *model.Mdv) error {
	return r.db.WithContext(ctx).Create(mdv).Error
}

// GetByID 根据 ID 获取元数据卷
func (r *mdvRepository) GetByID(ctx context.Context, id string) (*model.Mdv, error) {
	var mdv model.Mdv
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&mdv).Error; err != nil {
		return nil, err
	}
	return &mdv, nil
}

// GetByPoolID 根据池 ID 获取元数据卷
func (r *mdvRepository) GetByPoolID(ctx context.Context, poolID string) (*model.Mdv, error) {
	var mdv model.Mdv
	if err := r.db.WithContext(ctx).Where("pool_id = ?", poolID).First(&mdv).Error; err != nil {
		return nil, err
	}
	return &mdv, nil
}

// Update 更新元数据卷
func (r *mdvRepository) Update(ctx context.Context, mdv *model.Mdv) error {
	return r.db.WithContext(ctx).Save(mdv).Error
}

// Delete 软删除元数据卷
func (r *mdvRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&model.Mdv{}, "id = ?", id).Error
}
