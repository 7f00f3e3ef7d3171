package blockdev

import "context"

// Prober 定义块设备探测接口
// 用于抽象对物理块设备的探测，便于测试和 mock
type Prober interface {
	// Size 返回块设备的容量（字节）
	Size(ctx context.Context, path string) (uint64, error)
	// IsBlockDevice 判断路径是否为块设备
	IsBlockDevice(ctx context.Context, path string) (bool, error)
}
