package blockdev

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockProber 是 Prober 的 mock 实现
// 用于测试，不需要真实的块设备
type MockProber struct {
	mock.Mock
}

// NewMockProber 创建新的 MockProber
func NewMockProber() *MockProber {
	return &MockProber{}
}

// Size 实现 Prober 接口
func (m *MockProber) Size(ctx context.Context, path string) (uint64, error) {
	args := m.Called(ctx, path)
	return args.Get(0).(uint64), args.Error(1)
}

// IsBlockDevice 实现 Prober 接口
func (m *MockProber) IsBlockDevice(ctx context.Context, path string) (bool, error) {
	args := m.Called(ctx, path)
	return args.Bool(0), args.Error(1)
}

// 编译时检查 MockProber 是否实现了 Prober 接口
var _ Prober = (*MockProber)(nil)
