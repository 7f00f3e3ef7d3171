package entity

// BlockDevice 块设备实体
// 一个设备只能属于一个池的设备集合
type BlockDevice struct {
	ID         string `json:"deviceID"`             // Device ID: dev-{id}
	Path       string `json:"path"`                 // 设备路径，如 /dev/sdb
	PoolID     string `json:"poolID"`               // 所属池 ID
	CapacityB  uint64 `json:"capacity_b"`           // 容量（字节）
	CreateTime string `json:"createTime,omitempty"` // 注册时间
}

// ============================================================================
// API 请求和响应
// ============================================================================

// RegisterBlockDevRequest 注册块设备到池请求
type RegisterBlockDevRequest struct {
	PoolID string `json:"pool_id" binding:"required"` // 池 ID
	Path   string `json:"path" binding:"required"`    // 设备路径
}

// RegisterBlockDevResponse 注册块设备响应
type RegisterBlockDevResponse struct {
	Device *BlockDevice `json:"device"`
}

// ListBlockDevsRequest 列举块设备请求
type ListBlockDevsRequest struct {
	PoolID string `json:"pool_id"` // 按池过滤（可选，为空表示所有池）
}

// ListBlockDevsResponse 列举块设备响应
type ListBlockDevsResponse struct {
	Devices []BlockDevice `json:"devices"`
}

// DescribeBlockDevRequest 查询块设备详情请求
type DescribeBlockDevRequest struct {
	DeviceID string `json:"device_id" binding:"required"` // 设备 ID
}

// DescribeBlockDevResponse 查询块设备详情响应
type DescribeBlockDevResponse struct {
	Device *BlockDevice `json:"device"`
}
