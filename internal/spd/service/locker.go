package service

import "sync"

// PoolLocker 池级互斥锁
// 同一个池上的变更操作串行执行（single-writer-per-pool），
// 不同池之间互不影响
type PoolLocker struct {
	locks sync.Map // poolID -> *sync.Mutex
}

// NewPoolLocker 创建池级锁
func NewPoolLocker() *PoolLocker {
	return &PoolLocker{}
}

// lock 获取指定池的锁，返回解锁函数
//
//	unlock := locker.lock(poolID)
//	defer unlock()
func (l *PoolLocker) lock(poolID string) func() {
	v, _ := l.locks.LoadOrStore(poolID, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

// forget 释放池的锁条目（池销毁后调用）
func (l *PoolLocker) forget(poolID string) {
	l.locks.Delete(poolID)
}
