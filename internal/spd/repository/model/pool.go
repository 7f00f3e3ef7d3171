package model

import (
	"time"

	"gorm.io/gorm"
)

// 池状态机：created → active → stopped → destroyed
// 只有 active 状态接受文件系统和设备变更；
// 超分配开关和上限调整在 active 与 stopped 状态下都允许
const (
	PoolStateCreated   = "created"
	PoolStateActive    = "active"
	PoolStateStopped   = "stopped"
	PoolStateDestroyed = "destroyed"
)

// DefaultFsLimit 池的默认文件系统数量上限
const DefaultFsLimit uint64 = 100

// Pool 池表
type Pool struct {
	ID               string         `gorm:"primaryKey;type:text;column:id" json:"id"` // pool-{id}
	Name             string         `gorm:"type:text;not null;index:idx_pools_name;column:name" json:"name"`
	State            string         `gorm:"type:text;not null;index:idx_pools_state;column:state" json:"state"` // created, active, stopped, destroyed
	Overprovisioning bool           `gorm:"type:boolean;default:0;column:overprovisioning" json:"overprovisioning"`
	FsLimit          uint64         `gorm:"type:integer;not null;column:fs_limit" json:"fsLimit"` // 只增不减
	MdvID            string         `gorm:"type:text;column:mdv_id" json:"mdvID"`
	CreateTime       time.Time      `gorm:"type:datetime;not null;column:create_time" json:"createTime"`
	UpdatedAt        time.Time      `gorm:"type:datetime;not null;column:updated_at" json:"updated_at"`
	DeletedAt        gorm.DeletedAt `gorm:"type:datetime;index:idx_pools_deleted_at;column:deleted_at" json:"deleted_at,omitempty"` // 软删除
}

// TableName 指定表名
func (Pool) TableName() string {
	return "pools"
}
