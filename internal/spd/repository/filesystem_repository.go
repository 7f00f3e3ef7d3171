package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/jimyag/spd/internal/spd/repository/model"
)

// FilesystemRepository 文件系统仓库接口
type FilesystemRepository interface {
	Create(ctx context.Context, fs *model.Filesystem) error
	GetByID(ctx context.Context, id string) (*model.Filesystem, error)
	List(ctx context.Context, filters map[string]interface{}) ([]*model.Filesystem, error)
	CountByPool(ctx context.Context, poolID string) (uint64, error)
	SumSizeByPool(ctx context.Context, poolID string) (uint64, error)
	Update(ctx context.Context, fs *model.Filesystem) error
	Delete(ctx context.Context, id string) error
}

type filesystemRepository struct {
	db *gorm.DB
}

// NewFilesystemRepository 创建文件系统仓库
func NewFilesystemRepository(db *gorm.DB) FilesystemRepository {
	return &filesystemRepository{db: db}
}

// Create 创建文件系统
func (r *filesystemRepository) Create(ctx context.Context, fs *model.Filesystem) error {
	return r.db.WithContext(ctx).Create(fs).Error
}

// GetByID 根据 ID 获取文件系统
func (r *filesystemRepository) GetByID(ctx context.Context, id string) (*model.Filesystem, error) {
	var fs model.Filesystem
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&fs).Error; err != nil {
		return nil, err
	}
	return &fs, nil
}

// List 列出文件系统
func (r *filesystemRepository) List(ctx context.Context, filters map[string]interface{}) ([]*model.Filesystem, error) {
	var filesystems []*model.Filesystem
	query := r.db.WithContext(ctx).Model(&model.Filesystem{})

	// 应用过滤器
	if poolID, ok := filters["pool_id"]; ok {
		query = query.Where("pool_id = ?", poolID)
	}
	if state, ok := filters["state"]; ok {
		query = query.Where("state = ?", state)
	}
	if name, ok := filters["name"]; ok {
		query = query.Where("name = ?", name)
	}

	if err := query.Find(&filesystems).Error; err != nil {
		return nil, err
	}

	return filesystems, nil
}

// CountByPool 统计池内文件系统数量
func (r *filesystemRepository) CountByPool(ctx context.Context, poolID string) (uint64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.Filesystem{}).
		Where("pool_id = ?", poolID).Count(&count).Error; err != nil {
		return 0, err
	}
	return uint64(count), nil
}

// SumSizeByPool 统计池内文件系统虚拟容量之和（字节）
// 这是精算器计算已分配虚拟容量的依据
func (r *filesystemRepository) SumSizeByPool(ctx context.Context, poolID string) (uint64, error) {
	var sum uint64
	if err := r.db.WithContext(ctx).Model(&model.Filesystem{}).
		Where("pool_id = ?", poolID).
		Select("COALESCE(SUM(size_b), 0)").
		Scan(&sum).Error; err != nil {
		return 0, err
	}
	return sum, nil
}

// Update 更新文件系统
func (r *filesystemRepository) Update(ctx context.Context, fs *model.Filesystem) error {
	return r.db.WithContext(ctx).Save(fs).Error
}

// Delete 软删除文件系统
func (r *filesystemRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&model.Filesystem{}, "id = ?", id).Error
}
