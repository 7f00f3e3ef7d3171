package mdv

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshot_WriteAndRead(t *testing.T) {
	t.Parallel()

	// 快照读写只依赖挂载点路径，用临时目录模拟已挂载的 MDV
	mountPath := t.TempDir()
	info := &Info{
		ID:        "mdv-1",
		PoolID:    "pool-1",
		SizeB:     MinSizeB,
		MountPath: mountPath,
	}

	snap := &Snapshot{
		PoolID:           "pool-1",
		PoolName:         "tank",
		Overprovisioning: true,
		FsLimit:          100,
		Filesystems: []FilesystemRecord{
			{ID: "fs-1", Name: "home", SizeB: MinSizeB},
			{ID: "fs-2", Name: "var", SizeB: 2 * MinSizeB},
		},
		BlockDevices: []BlockDevRecord{
			{ID: "dev-1", Path: "/dev/sdb", CapacityB: 10 << 30},
		},
		WrittenAt: time.Now().UTC().Truncate(time.Second),
	}

	c := New(t.TempDir())
	ctx := context.Background()

	require.NoError(t, c.WriteSnapshot(ctx, info, snap))

	got, err := c.ReadSnapshot(ctx, info)
	require.NoError(t, err)
	assert.Equal(t, snap.PoolID, got.PoolID)
	assert.Equal(t, snap.PoolName, got.PoolName)
	assert.Equal(t, snap.Overprovisioning, got.Overprovisioning)
	assert.Equal(t, snap.FsLimit, got.FsLimit)
	assert.Equal(t, snap.Filesystems, got.Filesystems)
	assert.Equal(t, snap.BlockDevices, got.BlockDevices)
}

func TestSnapshot_Overwrite(t *testing.T) {
	t.Parallel()

	mountPath := t.TempDir()
	info := &Info{PoolID: "pool-1", MountPath: mountPath}
	c := New(t.TempDir())
	ctx := context.Background()

	require.NoError(t, c.WriteSnapshot(ctx, info, &Snapshot{PoolID: "pool-1", FsLimit: 10}))
	require.NoError(t, c.WriteSnapshot(ctx, info, &Snapshot{PoolID: "pool-1", FsLimit: 20}))

	got, err := c.ReadSnapshot(ctx, info)
	require.NoError(t, err)
	assert.Equal(t, uint64(20), got.FsLimit)

	// 临时文件不应残留
	entries, err := os.ReadDir(mountPath)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, snapshotFileName, entries[0].Name())
}

func TestSnapshot_ReadMissing(t *testing.T) {
	t.Parallel()

	info := &Info{PoolID: "pool-1", MountPath: t.TempDir()}
	c := New(t.TempDir())

	_, err := c.ReadSnapshot(context.Background(), info)
	assert.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestCreate_NoSpace(t *testing.T) {
	t.Parallel()

	c := New(t.TempDir())

	// 请求远超任何测试机可用空间的容量
	_, err := c.Create(context.Background(), "mdv-1", "pool-1", 1<<62)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNoSpace)

	// 后备文件不应残留
	_, statErr := os.Stat(filepath.Join(c.baseDir, "pool-1.img"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestIsMounted(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	mountsFile := filepath.Join(dir, "mounts")
	content := "/dev/sda1 / ext4 rw 0 0\n/dev/loop0 /var/lib/spd/mdv/pool-1 xfs rw 0 0\n"
	require.NoError(t, os.WriteFile(mountsFile, []byte(content), 0o644))

	c := New(dir)
	c.mountsFile = mountsFile

	mounted, err := c.isMounted("/var/lib/spd/mdv/pool-1")
	require.NoError(t, err)
	assert.True(t, mounted)

	mounted, err = c.isMounted("/var/lib/spd/mdv/pool-2")
	require.NoError(t, err)
	assert.False(t, mounted)
}

func TestUnmount_IdempotentWhenNotMounted(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	mountsFile := filepath.Join(dir, "mounts")
	require.NoError(t, os.WriteFile(mountsFile, []byte(""), 0o644))

	c := New(dir)
	c.mountsFile = mountsFile

	info := &Info{PoolID: "pool-1", MountPath: filepath.Join(dir, "pool-1")}
	// 未挂载时 Unmount 应当直接成功
	assert.NoError(t, c.Unmount(context.Background(), info))
}

func TestCreate_ClampsToMinSize(t *testing.T) {
	t.Parallel()

	// mkfs.xfs 在测试环境不可用，只验证容量下限逻辑之前的空间检查输入：
	// 通过一个不可能失败的小容量调用观察 ErrNoSpace 不触发，
	// 并在 mkfs 失败后确认后备文件被清理
	c := New(t.TempDir())
	c.mkfsPath = "/nonexistent/mkfs.xfs"

	_, err := c.Create(context.Background(), "mdv-1", "pool-1", 1)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNoSpace)

	_, statErr := os.Stat(filepath.Join(c.baseDir, "pool-1.img"))
	assert.True(t, os.IsNotExist(statErr), "backing file should be cleaned up after mkfs failure")
}
