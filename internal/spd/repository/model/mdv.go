package model

import (
	"time"

	"gorm.io/gorm"
)

// Mdv 元数据卷表
// 每个池拥有且仅拥有一个元数据卷
type Mdv struct {
	ID         string         `gorm:"primaryKey;type:text;column:id" json:"id"` // mdv-{id}
	PoolID     string         `gorm:"type:text;not null;column:pool_id" json:"poolID"`
	SizeB      uint64         `gorm:"type:integer;not null;column:size_b" json:"size_b"` // ≥ 512 MiB
	ImagePath  string         `gorm:"type:text;not null;column:image_path" json:"imagePath"`
	MountPath  string         `gorm:"type:text;not null;column:mount_path" json:"mountPath"`
	CreateTime time.Time      `gorm:"type:datetime;not null;column:create_time" json:"createTime"`
	UpdatedAt  time.Time      `gorm:"type:datetime;not null;column:updated_at" json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"type:datetime;index:idx_mdvs_deleted_at;column:deleted_at" json:"deleted_at,omitempty"` // 软删除
}

// TableName 指定表名
func (Mdv) TableName() string {
	return "mdvs"
}
