package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/jimyag/spd/internal/spd/entity"
	"github.com/jimyag/spd/internal/spd/repository/model"
	"github.com/jimyag/spd/pkg/apierror"
	"github.com/jimyag/spd/pkg/mdv"
)

const (
	gib = uint64(1024 * 1024 * 1024)
	mib = uint64(1024 * 1024)
)

func boolPtr(b bool) *bool { return &b }

func TestPoolService_Create(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("成功创建池", func(t *testing.T) {
		t.Parallel()
		env := setupTestEnv(t)
		env.expectMdv(t.TempDir())
		env.expectDevice("/dev/sdb", 10*gib)
		env.expectDevice("/dev/sdc", 5*gib)

		resp, err := env.pools.Create(ctx, &entity.CreatePoolRequest{
			Name:    "tank",
			Devices: []string{"/dev/sdb", "/dev/sdc"},
		})
		require.NoError(t, err)
		assert.Equal(t, "tank", resp.Pool.Name)
		assert.Equal(t, model.PoolStateActive, resp.Pool.State)
		assert.Equal(t, model.DefaultFsLimit, resp.Pool.FsLimit)
		assert.False(t, resp.Pool.Overprovisioning)
		assert.Equal(t, 15*gib, resp.Pool.CapacityB)
		assert.Zero(t, resp.Pool.AllocatedB)
	})

	t.Run("没有设备时失败", func(t *testing.T) {
		t.Parallel()
		env := setupTestEnv(t)

		_, err := env.pools.Create(ctx, &entity.CreatePoolRequest{
			Name:    "empty",
			Devices: []string{},
		})
		assert.ErrorIs(t, err, apierror.ErrInvalidArgument)
	})

	t.Run("池名称重复时失败", func(t *testing.T) {
		t.Parallel()
		env := setupTestEnv(t)
		createActivePool(t, env, "tank", map[string]uint64{"/dev/sdb": 10 * gib}, false)
		env.expectDevice("/dev/sdd", 10*gib)

		_, err := env.pools.Create(ctx, &entity.CreatePoolRequest{
			Name:    "tank",
			Devices: []string{"/dev/sdd"},
		})
		assert.ErrorIs(t, err, apierror.ErrInvalidArgument)
	})

	t.Run("设备已属于其他池时失败", func(t *testing.T) {
		t.Parallel()
		env := setupTestEnv(t)
		createActivePool(t, env, "tank", map[string]uint64{"/dev/sdb": 10 * gib}, false)

		_, err := env.pools.Create(ctx, &entity.CreatePoolRequest{
			Name:    "other",
			Devices: []string{"/dev/sdb"},
		})
		assert.ErrorIs(t, err, apierror.ErrDeviceInUse)
	})

	t.Run("非块设备时失败", func(t *testing.T) {
		t.Parallel()
		env := setupTestEnv(t)
		env.prober.On("IsBlockDevice", mock.Anything, "/etc/hosts").Return(false, nil)

		_, err := env.pools.Create(ctx, &entity.CreatePoolRequest{
			Name:    "bad",
			Devices: []string{"/etc/hosts"},
		})
		assert.ErrorIs(t, err, apierror.ErrInvalidArgument)
	})

	t.Run("MDV 空间不足时返回 AllocationFailure", func(t *testing.T) {
		t.Parallel()
		env := setupTestEnv(t)
		env.expectDevice("/dev/sdb", 10*gib)
		env.mdvMgr.On("Create", mock.Anything, mock.Anything, mock.Anything, mdv.MinSizeB).
			Return(nil, mdv.ErrNoSpace)

		_, err := env.pools.Create(ctx, &entity.CreatePoolRequest{
			Name:    "nospace",
			Devices: []string{"/dev/sdb"},
		})
		assert.ErrorIs(t, err, apierror.ErrAllocationFailure)
	})
}

func TestPoolService_Lifecycle(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("active 到 stopped 再回到 active", func(t *testing.T) {
		t.Parallel()
		env := setupTestEnv(t)
		env.expectMdv(t.TempDir())
		env.expectDevice("/dev/sdb", 10*gib)

		createResp, err := env.pools.Create(ctx, &entity.CreatePoolRequest{
			Name:    "tank",
			Devices: []string{"/dev/sdb"},
		})
		require.NoError(t, err)
		poolID := createResp.Pool.ID

		// 创建后即为 active，重复启动幂等
		startResp, err := env.pools.Start(ctx, &entity.StartPoolRequest{PoolID: poolID})
		require.NoError(t, err)
		assert.Equal(t, model.PoolStateActive, startResp.Pool.State)

		stopResp, err := env.pools.Stop(ctx, &entity.StopPoolRequest{PoolID: poolID})
		require.NoError(t, err)
		assert.Equal(t, model.PoolStateStopped, stopResp.Pool.State)

		// 重复停止幂等
		stopResp, err = env.pools.Stop(ctx, &entity.StopPoolRequest{PoolID: poolID})
		require.NoError(t, err)
		assert.Equal(t, model.PoolStateStopped, stopResp.Pool.State)

		startResp, err = env.pools.Start(ctx, &entity.StartPoolRequest{PoolID: poolID})
		require.NoError(t, err)
		assert.Equal(t, model.PoolStateActive, startResp.Pool.State)
	})

	t.Run("新建的池无需启动即可创建文件系统", func(t *testing.T) {
		t.Parallel()
		env := setupTestEnv(t)
		env.expectMdv(t.TempDir())
		env.expectDevice("/dev/sdb", 10*gib)

		createResp, err := env.pools.Create(ctx, &entity.CreatePoolRequest{
			Name:    "tank",
			Devices: []string{"/dev/sdb"},
		})
		require.NoError(t, err)

		_, err = env.filesystems.Create(ctx, &entity.CreateFilesystemRequest{
			PoolID: createResp.Pool.ID,
			Name:   "data",
			SizeB:  gib,
		})
		require.NoError(t, err)
	})

	t.Run("池不存在时返回 PoolNotFound", func(t *testing.T) {
		t.Parallel()
		env := setupTestEnv(t)

		_, err := env.pools.Start(ctx, &entity.StartPoolRequest{PoolID: "pool-missing"})
		assert.ErrorIs(t, err, apierror.ErrPoolNotFound)
	})
}

func TestPoolService_Destroy(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("stopped 状态下销毁成功", func(t *testing.T) {
		t.Parallel()
		env := setupTestEnv(t)
		pool := createActivePool(t, env, "tank", map[string]uint64{"/dev/sdb": 10 * gib}, false)

		_, err := env.pools.Stop(ctx, &entity.StopPoolRequest{PoolID: pool.ID})
		require.NoError(t, err)

		_, err = env.pools.Destroy(ctx, &entity.DestroyPoolRequest{PoolID: pool.ID})
		require.NoError(t, err)

		_, err = env.pools.Describe(ctx, &entity.DescribePoolRequest{PoolID: pool.ID})
		assert.ErrorIs(t, err, apierror.ErrPoolNotFound)

		// 销毁后设备可以重新入池
		listResp, err := env.blockdevs.List(ctx, &entity.ListBlockDevsRequest{})
		require.NoError(t, err)
		assert.Empty(t, listResp.Devices)
	})

	t.Run("active 状态下销毁失败", func(t *testing.T) {
		t.Parallel()
		env := setupTestEnv(t)
		pool := createActivePool(t, env, "tank", map[string]uint64{"/dev/sdb": 10 * gib}, false)

		_, err := env.pools.Destroy(ctx, &entity.DestroyPoolRequest{PoolID: pool.ID})
		assert.ErrorIs(t, err, apierror.ErrInvalidPoolState)
	})

	t.Run("还有文件系统时返回 PoolBusy", func(t *testing.T) {
		t.Parallel()
		env := setupTestEnv(t)
		pool := createActivePool(t, env, "tank", map[string]uint64{"/dev/sdb": 10 * gib}, false)

		_, err := env.filesystems.Create(ctx, &entity.CreateFilesystemRequest{
			PoolID: pool.ID,
			Name:   "data",
			SizeB:  gib,
		})
		require.NoError(t, err)

		_, err = env.pools.Stop(ctx, &entity.StopPoolRequest{PoolID: pool.ID})
		require.NoError(t, err)

		_, err = env.pools.Destroy(ctx, &entity.DestroyPoolRequest{PoolID: pool.ID})
		assert.ErrorIs(t, err, apierror.ErrPoolBusy)
	})
}

func TestPoolService_SetOverprovision(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("虚拟容量超过物理容量时禁止关闭", func(t *testing.T) {
		t.Parallel()
		env := setupTestEnv(t)
		pool := createActivePool(t, env, "tank", map[string]uint64{"/dev/sdb": 10 * gib}, true)

		// 超分配开启时可以超过物理容量
		_, err := env.filesystems.Create(ctx, &entity.CreateFilesystemRequest{
			PoolID: pool.ID,
			Name:   "big",
			SizeB:  12 * gib,
		})
		require.NoError(t, err)

		_, err = env.pools.SetOverprovision(ctx, &entity.SetOverprovisionRequest{
			PoolID:  pool.ID,
			Enabled: boolPtr(false),
		})
		assert.ErrorIs(t, err, apierror.ErrPolicyViolation)
	})

	t.Run("虚拟容量不超时允许关闭", func(t *testing.T) {
		t.Parallel()
		env := setupTestEnv(t)
		pool := createActivePool(t, env, "tank", map[string]uint64{"/dev/sdb": 10 * gib}, true)

		resp, err := env.pools.SetOverprovision(ctx, &entity.SetOverprovisionRequest{
			PoolID:  pool.ID,
			Enabled: boolPtr(false),
		})
		require.NoError(t, err)
		assert.False(t, resp.Pool.Overprovisioning)
	})

	t.Run("stopped 状态下允许调整", func(t *testing.T) {
		t.Parallel()
		env := setupTestEnv(t)
		pool := createActivePool(t, env, "tank", map[string]uint64{"/dev/sdb": 10 * gib}, false)

		_, err := env.pools.Stop(ctx, &entity.StopPoolRequest{PoolID: pool.ID})
		require.NoError(t, err)

		resp, err := env.pools.SetOverprovision(ctx, &entity.SetOverprovisionRequest{
			PoolID:  pool.ID,
			Enabled: boolPtr(true),
		})
		require.NoError(t, err)
		assert.True(t, resp.Pool.Overprovisioning)
	})
}

func TestPoolService_SetFsLimit(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("上限只增不减", func(t *testing.T) {
		t.Parallel()
		env := setupTestEnv(t)
		pool := createActivePool(t, env, "tank", map[string]uint64{"/dev/sdb": 10 * gib}, false)

		resp, err := env.pools.SetFsLimit(ctx, &entity.SetFsLimitRequest{
			PoolID:  pool.ID,
			FsLimit: 200,
		})
		require.NoError(t, err)
		assert.Equal(t, uint64(200), resp.Pool.FsLimit)

		_, err = env.pools.SetFsLimit(ctx, &entity.SetFsLimitRequest{
			PoolID:  pool.ID,
			FsLimit: 150,
		})
		assert.ErrorIs(t, err, apierror.ErrInvalidArgument)

		// 等值是空操作
		resp, err = env.pools.SetFsLimit(ctx, &entity.SetFsLimitRequest{
			PoolID:  pool.ID,
			FsLimit: 200,
		})
		require.NoError(t, err)
		assert.Equal(t, uint64(200), resp.Pool.FsLimit)
	})
}

func TestPoolService_ListAndDescribe(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	env := setupTestEnv(t)
	pool := createActivePool(t, env, "tank", map[string]uint64{"/dev/sdb": 10 * gib}, false)
	createActivePool(t, env, "backup", map[string]uint64{"/dev/sdc": 5 * gib}, false)

	_, err := env.pools.Stop(ctx, &entity.StopPoolRequest{PoolID: pool.ID})
	require.NoError(t, err)

	listResp, err := env.pools.List(ctx, &entity.ListPoolsRequest{})
	require.NoError(t, err)
	assert.Len(t, listResp.Pools, 2)

	listResp, err = env.pools.List(ctx, &entity.ListPoolsRequest{State: model.PoolStateStopped})
	require.NoError(t, err)
	require.Len(t, listResp.Pools, 1)
	assert.Equal(t, "tank", listResp.Pools[0].Name)

	descResp, err := env.pools.Describe(ctx, &entity.DescribePoolRequest{PoolID: pool.ID})
	require.NoError(t, err)
	assert.Equal(t, 10*gib, descResp.Pool.CapacityB)
}

// apierror.Error 的 Is 按错误码匹配，确认服务层的包装没有丢掉错误码
func TestPoolService_ErrorUnwrap(t *testing.T) {
	t.Parallel()

	env := setupTestEnv(t)
	_, err := env.pools.Start(context.Background(), &entity.StartPoolRequest{PoolID: "pool-x"})
	require.Error(t, err)

	var apiErr *apierror.Error
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, apierror.ErrPoolNotFound.Code, apiErr.Code)
}
