package service

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/jimyag/spd/internal/spd/entity"
	"github.com/jimyag/spd/internal/spd/repository"
	"github.com/jimyag/spd/pkg/blockdev"
	"github.com/jimyag/spd/pkg/mdv"
)

// testEnv 是服务层测试的公共环境
// 使用真实的 sqlite 仓库和 mock 的 MDV、设备探测器
type testEnv struct {
	repo        *repository.Repository
	mdvMgr      *mdv.MockManager
	prober      *blockdev.MockProber
	accountant  *Accountant
	pools       *PoolService
	filesystems *FilesystemService
	blockdevs   *BlockDevService
	debug       *DebugService
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()

	repo, err := repository.New(filepath.Join(t.TempDir(), "spd.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })

	mdvMgr := mdv.NewMockManager()
	prober := blockdev.NewMockProber()
	locker := &PoolLocker{}

	accountant := NewAccountant(
		repository.NewPoolRepository(repo.DB()),
		repository.NewFilesystemRepository(repo.DB()),
		repository.NewBlockDevRepository(repo.DB()),
		repository.NewMdvRepository(repo.DB()),
		mdvMgr,
	)

	return &testEnv{
		repo:        repo,
		mdvMgr:      mdvMgr,
		prober:      prober,
		accountant:  accountant,
		pools:       NewPoolService(repo, accountant, mdvMgr, prober, locker),
		filesystems: NewFilesystemService(repo, accountant, locker),
		blockdevs:   NewBlockDevService(repo, accountant, prober, locker),
		debug:       NewDebugService(repo, accountant, mdvMgr),
	}
}

// expectDevice 为一条设备路径注册探测结果
func (e *testEnv) expectDevice(path string, capacityB uint64) {
	e.prober.On("IsBlockDevice", mock.Anything, path).Return(true, nil)
	e.prober.On("Size", mock.Anything, path).Return(capacityB, nil)
}

// expectMdv 注册 MDV 全生命周期的 mock 期望
func (e *testEnv) expectMdv(baseDir string) {
	e.mdvMgr.On("Create", mock.Anything, mock.Anything, mock.Anything, mdv.MinSizeB).
		Return(&mdv.Info{
			SizeB:     mdv.MinSizeB,
			ImagePath: filepath.Join(baseDir, "mdv.img"),
			MountPath: filepath.Join(baseDir, "mnt"),
		}, nil)
	e.mdvMgr.On("Mount", mock.Anything, mock.Anything).Return(nil)
	e.mdvMgr.On("Unmount", mock.Anything, mock.Anything).Return(nil)
	e.mdvMgr.On("Remove", mock.Anything, mock.Anything).Return(nil)
	e.mdvMgr.On("WriteSnapshot", mock.Anything, mock.Anything, mock.Anything).Return(nil)
}

// createActivePool 创建并启动一个池，返回池实体
func createActivePool(t *testing.T, env *testEnv, name string, devices map[string]uint64, overprovision bool) *entity.Pool {
	t.Helper()
	ctx := context.Background()

	env.expectMdv(t.TempDir())
	paths := make([]string, 0, len(devices))
	for path, capacityB := range devices {
		env.expectDevice(path, capacityB)
		paths = append(paths, path)
	}

	createResp, err := env.pools.Create(ctx, &entity.CreatePoolRequest{
		Name:          name,
		Devices:       paths,
		Overprovision: overprovision,
	})
	require.NoError(t, err)

	startResp, err := env.pools.Start(ctx, &entity.StartPoolRequest{PoolID: createResp.Pool.ID})
	require.NoError(t, err)
	return startResp.Pool
}
