package model

import (
	"time"

	"gorm.io/gorm"
)

// 文件系统状态
const (
	FilesystemStateAvailable  = "available"
	FilesystemStateDestroying = "destroying"
)

// Filesystem 文件系统表
type Filesystem struct {
	ID         string         `gorm:"primaryKey;type:text;column:id" json:"id"` // fs-{id}
	Name       string         `gorm:"type:text;not null;column:name" json:"name"`
	PoolID     string         `gorm:"type:text;not null;index:idx_filesystems_pool_id;column:pool_id" json:"poolID"`
	SizeB      uint64         `gorm:"type:integer;not null;column:size_b" json:"size_b"` // 虚拟容量（字节）
	State      string         `gorm:"type:text;not null;column:state" json:"state"`
	CreateTime time.Time      `gorm:"type:datetime;not null;column:create_time" json:"createTime"`
	UpdatedAt  time.Time      `gorm:"type:datetime;not null;column:updated_at" json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"type:datetime;index:idx_filesystems_deleted_at;column:deleted_at" json:"deleted_at,omitempty"` // 软删除
}

// TableName 指定表名
func (Filesystem) TableName() string {
	return "filesystems"
}
