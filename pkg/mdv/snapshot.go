package mdv

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// snapshotFileName 元数据快照在 MDV 上的文件名
const snapshotFileName = "metadata.yaml"

// Snapshot 池元数据快照
// 每次成功变更后写入 MDV，池重建时可由此恢复
type Snapshot struct {
	PoolID           string             `yaml:"pool_id"`
	PoolName         string             `yaml:"pool_name"`
	Overprovisioning bool               `yaml:"overprovisioning"`
	FsLimit          uint64             `yaml:"fs_limit"`
	Filesystems      []FilesystemRecord `yaml:"filesystems"`
	BlockDevices     []BlockDevRecord   `yaml:"block_devices"`
	WrittenAt        time.Time          `yaml:"written_at"`
}

// FilesystemRecord 快照中的文件系统记录
type FilesystemRecord struct {
	ID    string `yaml:"id"`
	Name  string `yaml:"name"`
	SizeB uint64 `yaml:"size_b"`
}

// BlockDevRecord 快照中的块设备记录
type BlockDevRecord struct {
	ID        string `yaml:"id"`
	Path      string `yaml:"path"`
	CapacityB uint64 `yaml:"capacity_b"`
}

// WriteSnapshot 将快照写入元数据卷
// 先写临时文件再 rename，避免写一半的快照
func (c *Client) WriteSnapshot(ctx context.Context, info *Info, snap *Snapshot) error {
	data, err := yaml.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshal metadata snapshot: %w", err)
	}

	tmp, err := os.CreateTemp(info.MountPath, snapshotFileName+".*")
	if err != nil {
		return fmt.Errorf("create snapshot temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("write snapshot: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("sync snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("close snapshot temp file: %w", err)
	}

	if err := os.Rename(tmpPath, filepath.Join(info.MountPath, snapshotFileName)); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("rename snapshot into place: %w", err)
	}
	return nil
}

// ReadSnapshot 从元数据卷读取快照
func (c *Client) ReadSnapshot(ctx context.Context, info *Info) (*Snapshot, error) {
	data, err := os.ReadFile(filepath.Join(info.MountPath, snapshotFileName))
	if err != nil {
		return nil, fmt.Errorf("read metadata snapshot of pool %s: %w", info.PoolID, err)
	}

	var snap Snapshot
	if err := yaml.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("unmarshal metadata snapshot of pool %s: %w", info.PoolID, err)
	}
	return &snap, nil
}
