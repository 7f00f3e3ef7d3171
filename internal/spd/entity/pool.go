package entity

// Pool 存储池实体
type Pool struct {
	ID               string `json:"poolID"`                // Pool ID: pool-{id}
	Name             string `json:"name"`                  // 池名称
	State            string `json:"state"`                 // 状态：created, active, stopped, destroyed
	Overprovisioning bool   `json:"overprovisioning"`      // 是否允许超分配
	FsLimit          uint64 `json:"fsLimit"`               // 文件系统数量上限（只增不减）
	FilesystemCount  uint64 `json:"filesystemCount"`       // 当前文件系统数量
	CapacityB        uint64 `json:"capacity_b"`            // 物理容量（字节，设备容量之和）
	AllocatedB       uint64 `json:"allocated_b"`           // 已分配虚拟容量（字节，文件系统虚拟容量之和）
	MdvID            string `json:"mdvID"`                 // 元数据卷 ID
	CreateTime       string `json:"createTime,omitempty"`  // 创建时间
}

// ============================================================================
// API 请求和响应
// ============================================================================

// CreatePoolRequest 创建池请求
type CreatePoolRequest struct {
	Name          string   `json:"name" binding:"required"`    // 池名称
	Devices       []string `json:"devices" binding:"required"` // 初始块设备路径列表
	Overprovision bool     `json:"overprovision"`              // 是否允许超分配（默认 false）
	FsLimit       uint64   `json:"fs_limit"`                   // 文件系统数量上限（默认 DefaultFsLimit）
}

// CreatePoolResponse 创建池响应
type CreatePoolResponse struct {
	Pool *Pool `json:"pool"`
}

// ListPoolsRequest 列举池请求
type ListPoolsRequest struct {
	State string `json:"state"` // 按状态过滤（可选）
}

// ListPoolsResponse 列举池响应
type ListPoolsResponse struct {
	Pools []Pool `json:"pools"`
}

// DescribePoolRequest 查询池详情请求
type DescribePoolRequest struct {
	PoolID string `json:"pool_id" binding:"required"` // 池 ID
}

// DescribePoolResponse 查询池详情响应
type DescribePoolResponse struct {
	Pool *Pool `json:"pool"`
}

// SetOverprovisionRequest 设置超分配开关请求
type SetOverprovisionRequest struct {
	PoolID  string `json:"pool_id" binding:"required"` // 池 ID
	Enabled *bool  `json:"enabled" binding:"required"` // 是否允许超分配
}

// SetOverprovisionResponse 设置超分配开关响应
type SetOverprovisionResponse struct {
	Pool *Pool `json:"pool"`
}

// SetFsLimitRequest 提高文件系统数量上限请求
// 上限只能增加，不能减少
type SetFsLimitRequest struct {
	PoolID  string `json:"pool_id" binding:"required"`  // 池 ID
	FsLimit uint64 `json:"fs_limit" binding:"required"` // 新的上限
}

// SetFsLimitResponse 提高文件系统数量上限响应
type SetFsLimitResponse struct {
	Pool *Pool `json:"pool"`
}

// StartPoolRequest 启动池请求
type StartPoolRequest struct {
	PoolID string `json:"pool_id" binding:"required"` // 池 ID
}

// StartPoolResponse 启动池响应
type StartPoolResponse struct {
	Pool *Pool `json:"pool"`
}

// StopPoolRequest 停止池请求
type StopPoolRequest struct {
	PoolID string `json:"pool_id" binding:"required"` // 池 ID
}

// StopPoolResponse 停止池响应
type StopPoolResponse struct {
	Pool *Pool `json:"pool"`
}

// DestroyPoolRequest 销毁池请求
type DestroyPoolRequest struct {
	PoolID string `json:"pool_id" binding:"required"` // 池 ID
}

// DestroyPoolResponse 销毁池响应
type DestroyPoolResponse struct {
	Message string `json:"message"`
}
