package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jimyag/spd/internal/spd/repository/model"
)

func newTestFilesystem(id, poolID, name string, sizeB uint64) *model.Filesystem {
	return &model.Filesystem{
		ID:         id,
		Name:       name,
		PoolID:     poolID,
		SizeB:      sizeB,
		State:      model.FilesystemStateAvailable,
		CreateTime: time.Now(),
		UpdatedAt:  time.Now(),
	}
}

func TestFilesystemRepository(t *testing.T) {
	t.Parallel()

	repo := setupTestDB(t)

	fsRepo := NewFilesystemRepository(repo.DB())
	ctx := context.Background()

	t.Run("Create and GetByID", func(t *testing.T) {
		fs := newTestFilesystem("fs-123", "pool-1", "home", 1<<30)

		err := fsRepo.Create(ctx, fs)
		assert.NoError(t, err)

		got, err := fsRepo.GetByID(ctx, "fs-123")
		assert.NoError(t, err)
		assert.Equal(t, fs.Name, got.Name)
		assert.Equal(t, fs.PoolID, got.PoolID)
		assert.Equal(t, fs.SizeB, got.SizeB)
	})

	t.Run("unique name per pool", func(t *testing.T) {
		require.NoError(t, fsRepo.Create(ctx, newTestFilesystem("fs-uniq-1", "pool-uniq", "data", 1<<30)))

		// 同池同名应失败
		err := fsRepo.Create(ctx, newTestFilesystem("fs-uniq-2", "pool-uniq", "data", 1<<30))
		assert.Error(t, err)

		// 不同池同名允许
		err = fsRepo.Create(ctx, newTestFilesystem("fs-uniq-3", "pool-other", "data", 1<<30))
		assert.NoError(t, err)
	})

	t.Run("CountByPool and SumSizeByPool", func(t *testing.T) {
		require.NoError(t, fsRepo.Create(ctx, newTestFilesystem("fs-sum-1", "pool-sum", "a", 1<<30)))
		require.NoError(t, fsRepo.Create(ctx, newTestFilesystem("fs-sum-2", "pool-sum", "b", 2<<30)))
		require.NoError(t, fsRepo.Create(ctx, newTestFilesystem("fs-sum-3", "pool-elsewhere", "c", 4<<30)))

		count, err := fsRepo.CountByPool(ctx, "pool-sum")
		assert.NoError(t, err)
		assert.Equal(t, uint64(2), count)

		sum, err := fsRepo.SumSizeByPool(ctx, "pool-sum")
		assert.NoError(t, err)
		assert.Equal(t, uint64(3<<30), sum)

		// 空池的和为 0
		sum, err = fsRepo.SumSizeByPool(ctx, "pool-empty")
		assert.NoError(t, err)
		assert.Equal(t, uint64(0), sum)
	})

	t.Run("Delete releases allocation", func(t *testing.T) {
		require.NoError(t, fsRepo.Create(ctx, newTestFilesystem("fs-del-1", "pool-del", "a", 1<<30)))
		require.NoError(t, fsRepo.Create(ctx, newTestFilesystem("fs-del-2", "pool-del", "b", 1<<30)))

		require.NoError(t, fsRepo.Delete(ctx, "fs-del-1"))

		// 软删除后不再计入数量和容量
		count, err := fsRepo.CountByPool(ctx, "pool-del")
		assert.NoError(t, err)
		assert.Equal(t, uint64(1), count)

		sum, err := fsRepo.SumSizeByPool(ctx, "pool-del")
		assert.NoError(t, err)
		assert.Equal(t, uint64(1<<30), sum)

		_, err = fsRepo.GetByID(ctx, "fs-del-1")
		assert.Error(t, err)
	})

	t.Run("List with filters", func(t *testing.T) {
		require.NoError(t, fsRepo.Create(ctx, newTestFilesystem("fs-list-1", "pool-list", "x", 1<<30)))
		require.NoError(t, fsRepo.Create(ctx, newTestFilesystem("fs-list-2", "pool-list", "y", 1<<30)))

		filesystems, err := fsRepo.List(ctx, map[string]interface{}{"pool_id": "pool-list"})
		assert.NoError(t, err)
		assert.Len(t, filesystems, 2)

		// name 过滤只命中同名文件系统，同池其他文件系统不受影响
		filesystems, err = fsRepo.List(ctx, map[string]interface{}{"pool_id": "pool-list", "name": "y"})
		assert.NoError(t, err)
		require.Len(t, filesystems, 1)
		assert.Equal(t, "fs-list-2", filesystems[0].ID)

		filesystems, err = fsRepo.List(ctx, map[string]interface{}{"pool_id": "pool-list", "name": "z"})
		assert.NoError(t, err)
		assert.Empty(t, filesystems)
	})
}
