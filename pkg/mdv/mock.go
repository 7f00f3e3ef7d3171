package mdv

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockManager 是 Manager 的 mock 实现
// 用于测试，不需要真实的挂载操作
type MockManager struct {
	mock.Mock
}

// NewMockManager 创建新的 MockManager
func NewMockManager() *MockManager {
	return &MockManager{}
}

// Create 实现 Manager 接口
func (m *MockManager) Create(ctx context.Context, id, poolID string, sizeB uint64) (*Info, error) {
	args := m.Called(ctx, id, poolID, sizeB)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Info), args.Error(1)
}

// Mount 实现 Manager 接口
func (m *MockManager) Mount(ctx context.Context, info *Info) error {
	args := m.Called(ctx, info)
	return args.Error(0)
}

// Unmount 实现 Manager 接口
func (m *MockManager) Unmount(ctx context.Context, info *Info) error {
	args := m.Called(ctx, info)
	return args.Error(0)
}

// Remove 实现 Manager 接口
func (m *MockManager) Remove(ctx context.Context, info *Info) error {
	args := m.Called(ctx, info)
	return args.Error(0)
}

// WriteSnapshot 实现 Manager 接口
func (m *MockManager) WriteSnapshot(ctx context.Context, info *Info, snap *Snapshot) error {
	args := m.Called(ctx, info, snap)
	return args.Error(0)
}

// ReadSnapshot 实现 Manager 接口
func (m *MockManager) ReadSnapshot(ctx context.Context, info *Info) (*Snapshot, error) {
	args := m.Called(ctx, info)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Snapshot), args.Error(1)
}

// 编译时检查 MockManager 是否实现了 Manager 接口
var _ Manager = (*MockManager)(nil)
