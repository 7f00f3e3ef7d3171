// Package mdv 管理池的元数据卷（Metadata Volume）
package mdv

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"syscall"
	"time"
)

// MinSizeB 元数据卷的最小容量：512 MiB
const MinSizeB uint64 = 512 * 1024 * 1024

// ErrNoSpace 底层设备空间不足，无法分配元数据卷
var ErrNoSpace = errors.New("insufficient space on backing device")

// Info 元数据卷信息
type Info struct {
	ID        string // mdv-{id}
	PoolID    string // 所属池 ID
	SizeB     uint64 // 容量（字节）
	ImagePath string // 卷后备文件路径
	MountPath string // 池私有挂载点
}

// Client 基于 loop 挂载的 Manager 实现
// 通过 mkfs.xfs/mount/umount 命令操作卷，
// 挂载点设置为 private 传播，外部挂载命名空间不可见
type Client struct {
	baseDir    string
	mkfsPath   string
	mountPath  string
	umountPath string
	timeout    time.Duration
	mountsFile string
}

// New 创建新的 MDV Manager
// baseDir 是元数据卷后备文件和挂载点的根目录
func New(baseDir string) *Client {
	return &Client{
		baseDir:    baseDir,
		mkfsPath:   "mkfs.xfs",
		mountPath:  "mount",
		umountPath: "umount",
		timeout:    2 * time.Minute,
		mountsFile: "/proc/self/mounts",
	}
}

// WithTimeout 设置命令执行超时时间
func (c *Client) WithTimeout(timeout time.Duration) *Client {
	c.timeout = timeout
	return c
}

// Create 为池分配元数据卷
// 容量低于 MinSizeB 时按 MinSizeB 分配
func (c *Client) Create(ctx context.Context, id, poolID string, sizeB uint64) (*Info, error) {
	if sizeB < MinSizeB {
		sizeB = MinSizeB
	}

	if err := os.MkdirAll(c.baseDir, 0o700); err != nil {
		return nil, fmt.Errorf("create mdv base directory: %w", err)
	}

	// 检查后备目录所在文件系统的可用空间
	avail, err := availableBytes(c.baseDir)
	if err != nil {
		return nil, fmt.Errorf("check available space: %w", err)
	}
	if avail < sizeB {
		return nil, fmt.Errorf("allocate %d bytes for mdv of pool %s (available %d): %w",
			sizeB, poolID, avail, ErrNoSpace)
	}

	info := &Info{
		ID:        id,
		PoolID:    poolID,
		SizeB:     sizeB,
		ImagePath: filepath.Join(c.baseDir, poolID+".img"),
		MountPath: filepath.Join(c.baseDir, poolID),
	}

	// 分配后备文件
	f, err := os.OpenFile(info.ImagePath, os.O_CREATE|os.O_EXCL|os.O_RDWR, 0o600)
	if err != nil {
		return nil, fmt.Errorf("create mdv backing file: %w", err)
	}
	if err := f.Truncate(int64(sizeB)); err != nil {
		f.Close()
		_ = os.Remove(info.ImagePath)
		return nil, fmt.Errorf("allocate mdv backing file: %w", err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(info.ImagePath)
		return nil, fmt.Errorf("close mdv backing file: %w", err)
	}

	// 在卷上创建文件系统
	if err := c.run(ctx, c.mkfsPath, "-q", info.ImagePath); err != nil {
		_ = os.Remove(info.ImagePath)
		return nil, fmt.Errorf("mkfs on mdv of pool %s: %w", poolID, err)
	}

	return info, nil
}

// Mount 挂载元数据卷，幂等
// 挂载点权限 0700，并设置为 private 传播，
// 保证挂载点对池的操作上下文之外不可见
func (c *Client) Mount(ctx context.Context, info *Info) error {
	mounted, err := c.isMounted(info.MountPath)
	if err != nil {
		return err
	}
	if mounted {
		return nil
	}

	if err := os.MkdirAll(info.MountPath, 0o700); err != nil {
		return fmt.Errorf("create mdv mount point: %w", err)
	}

	if err := c.run(ctx, c.mountPath, "-o", "loop", info.ImagePath, info.MountPath); err != nil {
		return fmt.Errorf("mount mdv of pool %s: %w", info.PoolID, err)
	}

	if err := c.run(ctx, c.mountPath, "--make-private", info.MountPath); err != nil {
		// 隔离是正确性要求，失败必须回滚挂载
		_ = c.run(ctx, c.umountPath, info.MountPath)
		return fmt.Errorf("make mdv mount private for pool %s: %w", info.PoolID, err)
	}

	return nil
}

// Unmount 卸载元数据卷，幂等
func (c *Client) Unmount(ctx context.Context, info *Info) error {
	mounted, err := c.isMounted(info.MountPath)
	if err != nil {
		return err
	}
	if !mounted {
		return nil
	}

	if err := c.run(ctx, c.umountPath, info.MountPath); err != nil {
		return fmt.Errorf("unmount mdv of pool %s: %w", info.PoolID, err)
	}
	return nil
}

// Remove 卸载并删除元数据卷
func (c *Client) Remove(ctx context.Context, info *Info) error {
	if err := c.Unmount(ctx, info); err != nil {
		return err
	}

	if err := os.Remove(info.ImagePath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove mdv backing file: %w", err)
	}
	if err := os.Remove(info.MountPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove mdv mount point: %w", err)
	}
	return nil
}

// run 执行命令，带超时
func (c *Client) run(ctx context.Context, name string, args ...string) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, name, args...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("%s %s: %w, output: %s", name, strings.Join(args, " "), err, string(output))
	}
	return nil
}

// isMounted 检查挂载点是否已挂载
func (c *Client) isMounted(mountPath string) (bool, error) {
	f, err := os.Open(c.mountsFile)
	if err != nil {
		return false, fmt.Errorf("open mounts file: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) >= 2 && fields[1] == mountPath {
			return true, nil
		}
	}
	if err := scanner.Err(); err != nil {
		return false, fmt.Errorf("read mounts file: %w", err)
	}
	return false, nil
}

// availableBytes 返回 path 所在文件系统的可用字节数
func availableBytes(path string) (uint64, error) {
	var st syscall.Statfs_t
	if err := syscall.Statfs(path, &st); err != nil {
		return 0, err
	}
	return st.Bavail * uint64(st.Bsize), nil
}

// 编译时检查 Client 是否实现了 Manager 接口
var _ Manager = (*Client)(nil)
