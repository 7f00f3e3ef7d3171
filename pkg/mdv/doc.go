// Package mdv 管理池的元数据卷（Metadata Volume，MDV）
//
// 每个池在创建时分配一个不小于 512 MiB 的元数据卷，
// 挂载到池私有的挂载点（private 传播，外部不可见），
// 用于持久化池的元数据快照；池销毁时卸载并删除。
//
// Manager 接口抽象了卷的分配、挂载和快照读写，
// Client 是基于 loop 挂载的真实实现（truncate + mkfs.xfs + mount），
// MockManager 供测试使用。
//
// 使用示例：
//
//	mgr := mdv.New("/var/lib/spd/mdv")
//	info, err := mgr.Create(ctx, "mdv-123", "pool-123", mdv.MinSizeB)
//	if err != nil {
//	    if errors.Is(err, mdv.ErrNoSpace) { ... }
//	    return err
//	}
//	if err := mgr.Mount(ctx, info); err != nil { ... }
//	defer mgr.Unmount(ctx, info)
//
//	err = mgr.WriteSnapshot(ctx, info, &mdv.Snapshot{...})
package mdv
