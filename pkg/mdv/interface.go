package mdv

import "context"

// Manager 定义元数据卷（MDV）管理接口
// 每个池拥有一个 MDV，用于持久化池的元数据
// 用接口抽象底层的卷分配和挂载操作，便于测试和 mock
type Manager interface {
	// Create 为池分配一个元数据卷，容量不低于 MinSizeB
	// 底层空间不足时返回 ErrNoSpace
	Create(ctx context.Context, id, poolID string, sizeB uint64) (*Info, error)
	// Mount 将元数据卷挂载到池私有的挂载点，幂等
	Mount(ctx context.Context, info *Info) error
	// Unmount 卸载元数据卷，幂等
	// 只在池销毁或致命错误时调用
	Unmount(ctx context.Context, info *Info) error
	// Remove 卸载并删除元数据卷
	Remove(ctx context.Context, info *Info) error
	// WriteSnapshot 将池元数据快照写入已挂载的元数据卷
	WriteSnapshot(ctx context.Context, info *Info, snap *Snapshot) error
	// ReadSnapshot 从元数据卷读取池元数据快照
	ReadSnapshot(ctx context.Context, info *Info) (*Snapshot, error)
}
