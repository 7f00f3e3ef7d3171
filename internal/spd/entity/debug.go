package entity

// 调试接口的类型，结构不稳定，不保证兼容性

// PoolDump 单个池的完整内部状态
type PoolDump struct {
	Pool        *Pool         `json:"pool"`
	Filesystems []Filesystem  `json:"filesystems"`
	Devices     []BlockDevice `json:"devices"`
	Mdv         *MdvInfo      `json:"mdv,omitempty"`
}

// MdvInfo 元数据卷信息
type MdvInfo struct {
	ID        string `json:"mdvID"`
	PoolID    string `json:"poolID"`
	SizeB     uint64 `json:"size_b"`
	ImagePath string `json:"imagePath"`
	MountPath string `json:"mountPath"`
}

// DumpPoolsRequest 导出所有池内部状态请求
type DumpPoolsRequest struct{}

// DumpPoolsResponse 导出所有池内部状态响应
type DumpPoolsResponse struct {
	Pools []PoolDump `json:"pools"`
}

// DescribeMdvRequest 查询池的元数据卷请求
type DescribeMdvRequest struct {
	PoolID string `json:"pool_id" binding:"required"` // 池 ID
}

// DescribeMdvResponse 查询池的元数据卷响应
// Snapshot 是 MDV 上持久化的元数据快照原文，池未挂载时为空
type DescribeMdvResponse struct {
	Mdv      *MdvInfo    `json:"mdv"`
	Snapshot interface{} `json:"snapshot,omitempty"`
}
