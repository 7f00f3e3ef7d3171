package entity

// Filesystem 文件系统实体
// 虚拟容量可以超过物理容量，但只在池开启超分配时允许
type Filesystem struct {
	ID         string `json:"filesystemID"`         // Filesystem ID: fs-{id}
	Name       string `json:"name"`                 // 文件系统名称
	PoolID     string `json:"poolID"`               // 所属池 ID
	SizeB      uint64 `json:"size_b"`               // 虚拟容量（字节，≥ 512 MiB）
	State      string `json:"state"`                // 状态：available, destroying
	CreateTime string `json:"createTime,omitempty"` // 创建时间
}

// ============================================================================
// API 请求和响应
// ============================================================================

// CreateFilesystemRequest 创建文件系统请求
type CreateFilesystemRequest struct {
	PoolID string `json:"pool_id" binding:"required"` // 池 ID
	Name   string `json:"name" binding:"required"`    // 文件系统名称
	SizeB  uint64 `json:"size_b" binding:"required"`  // 虚拟容量（字节，≥ 512 MiB）
}

// CreateFilesystemResponse 创建文件系统响应
type CreateFilesystemResponse struct {
	Filesystem *Filesystem `json:"filesystem"`
}

// DestroyFilesystemRequest 销毁文件系统请求
type DestroyFilesystemRequest struct {
	FilesystemID string `json:"filesystem_id" binding:"required"` // 文件系统 ID
}

// DestroyFilesystemResponse 销毁文件系统响应
type DestroyFilesystemResponse struct {
	Message string `json:"message"`
}

// ListFilesystemsRequest 列举文件系统请求
type ListFilesystemsRequest struct {
	PoolID string `json:"pool_id"` // 按池过滤（可选，为空表示所有池）
}

// ListFilesystemsResponse 列举文件系统响应
type ListFilesystemsResponse struct {
	Filesystems []Filesystem `json:"filesystems"`
}

// DescribeFilesystemRequest 查询文件系统详情请求
type DescribeFilesystemRequest struct {
	FilesystemID string `json:"filesystem_id" binding:"required"` // 文件系统 ID
}

// DescribeFilesystemResponse 查询文件系统详情响应
type DescribeFilesystemResponse struct {
	Filesystem *Filesystem `json:"filesystem"`
}
