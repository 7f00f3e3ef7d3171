package model

import (
	"time"

	"gorm.io/gorm"
)

// BlockDevice 块设备表
// 一个设备路径只能属于一个未删除的池（唯一约束见 repository.createIndexes）
type BlockDevice struct {
	ID         string         `gorm:"primaryKey;type:text;column:id" json:"id"` // dev-{id}
	Path       string         `gorm:"type:text;not null;column:path" json:"path"`
	PoolID     string         `gorm:"type:text;not null;index:idx_block_devices_pool_id;column:pool_id" json:"poolID"`
	CapacityB  uint64         `gorm:"type:integer;not null;column:capacity_b" json:"capacity_b"`
	CreateTime time.Time      `gorm:"type:datetime;not null;column:create_time" json:"createTime"`
	UpdatedAt  time.Time      `gorm:"type:datetime;not null;column:updated_at" json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"type:datetime;index:idx_block_devices_deleted_at;column:deleted_at" json:"deleted_at,omitempty"` // 软删除
}

// TableName 指定表名
func (BlockDevice) TableName() string {
	return "block_devices"
}
