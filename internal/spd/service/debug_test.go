package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/jimyag/spd/internal/spd/entity"
	"github.com/jimyag/spd/pkg/apierror"
	"github.com/jimyag/spd/pkg/mdv"
)

func TestDebugService_DumpPools(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	env := setupTestEnv(t)
	pool := createActivePool(t, env, "tank", map[string]uint64{"/dev/sdb": 10 * gib}, false)

	_, err := env.filesystems.Create(ctx, &entity.CreateFilesystemRequest{
		PoolID: pool.ID, Name: "data", SizeB: 2 * gib,
	})
	require.NoError(t, err)

	resp, err := env.debug.DumpPools(ctx, &entity.DumpPoolsRequest{})
	require.NoError(t, err)
	require.Len(t, resp.Pools, 1)

	dump := resp.Pools[0]
	assert.Equal(t, pool.ID, dump.Pool.ID)
	assert.Equal(t, 2*gib, dump.Pool.AllocatedB)
	require.Len(t, dump.Filesystems, 1)
	require.Len(t, dump.Devices, 1)
	require.NotNil(t, dump.Mdv)
	assert.Equal(t, pool.ID, dump.Mdv.PoolID)
	assert.GreaterOrEqual(t, dump.Mdv.SizeB, mdv.MinSizeB)
}

func TestDebugService_DescribeMdv(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("返回 MDV 信息和快照", func(t *testing.T) {
		t.Parallel()
		env := setupTestEnv(t)
		pool := createActivePool(t, env, "tank", map[string]uint64{"/dev/sdb": 10 * gib}, false)
		env.mdvMgr.On("ReadSnapshot", mock.Anything, mock.Anything).
			Return(&mdv.Snapshot{
				PoolID:    pool.ID,
				PoolName:  "tank",
				FsLimit:   100,
				WrittenAt: time.Now().UTC(),
			}, nil)

		resp, err := env.debug.DescribeMdv(ctx, &entity.DescribeMdvRequest{PoolID: pool.ID})
		require.NoError(t, err)
		require.NotNil(t, resp.Mdv)
		assert.GreaterOrEqual(t, resp.Mdv.SizeB, mdv.MinSizeB)
		require.NotNil(t, resp.Snapshot)
		snap, ok := resp.Snapshot.(*mdv.Snapshot)
		require.True(t, ok)
		assert.Equal(t, pool.ID, snap.PoolID)
	})

	t.Run("快照读不到时只返回 MDV 信息", func(t *testing.T) {
		t.Parallel()
		env := setupTestEnv(t)
		pool := createActivePool(t, env, "tank", map[string]uint64{"/dev/sdb": 10 * gib}, false)
		env.mdvMgr.On("ReadSnapshot", mock.Anything, mock.Anything).
			Return(nil, assert.AnError)

		resp, err := env.debug.DescribeMdv(ctx, &entity.DescribeMdvRequest{PoolID: pool.ID})
		require.NoError(t, err)
		require.NotNil(t, resp.Mdv)
		assert.Nil(t, resp.Snapshot)
	})

	t.Run("池不存在时返回 PoolNotFound", func(t *testing.T) {
		t.Parallel()
		env := setupTestEnv(t)

		_, err := env.debug.DescribeMdv(ctx, &entity.DescribeMdvRequest{PoolID: "pool-missing"})
		assert.ErrorIs(t, err, apierror.ErrPoolNotFound)
	})
}
