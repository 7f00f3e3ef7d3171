// Package service 提供业务逻辑层的服务实现
package service

import (
	"time"

	"github.com/jinzhu/copier"

	"github.com/jimyag/spd/internal/spd/entity"
	"github.com/jimyag/spd/internal/spd/repository/model"
)

// poolModelToEntity 将 model.Pool 转换为 entity.Pool
// FilesystemCount、CapacityB、AllocatedB 是统计值，由调用方填充
func poolModelToEntity(m *model.Pool) (*entity.Pool, error) {
	e := &entity.Pool{}
	if err := copier.Copy(e, m); err != nil {
		return nil, err
	}

	// 处理时间字段
	e.CreateTime = m.CreateTime.Format(time.RFC3339)

	return e, nil
}

// filesystemModelToEntity 将 model.Filesystem 转换为 entity.Filesystem
func filesystemModelToEntity(m *model.Filesystem) (*entity.Filesystem, error) {
	e := &entity.Filesystem{}
	if err := copier.Copy(e, m); err != nil {
		return nil, err
	}

	e.CreateTime = m.CreateTime.Format(time.RFC3339)

	return e, nil
}

// blockDevModelToEntity 将 model.BlockDevice 转换为 entity.BlockDevice
func blockDevModelToEntity(m *model.BlockDevice) (*entity.BlockDevice, error) {
	e := &entity.BlockDevice{}
	if err := copier.Copy(e, m); err != nil {
		return nil, err
	}

	e.CreateTime = m.CreateTime.Format(time.RFC3339)

	return e, nil
}
