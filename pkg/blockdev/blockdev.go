// Package blockdev 封装对物理块设备的探测操作
package blockdev

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

// Client 封装 blockdev 命令行工具的操作
type Client struct {
	blockdevPath string
	timeout      time.Duration
}

// New 创建新的 blockdev client
// blockdevPath 是 blockdev 的路径，如果为空则使用默认的 "blockdev"
func New(blockdevPath string) *Client {
	if blockdevPath == "" {
		blockdevPath = "blockdev"
	}
	return &Client{
		blockdevPath: blockdevPath,
		timeout:      30 * time.Second,
	}
}

// WithTimeout 设置操作超时时间
func (c *Client) WithTimeout(timeout time.Duration) *Client {
	c.timeout = timeout
	return c
}

// Size 返回块设备的容量（字节）
// 等价于 blockdev --getsize64 <path>
func (c *Client) Size(ctx context.Context, path string) (uint64, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, c.blockdevPath, "--getsize64", path)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return 0, fmt.Errorf("failed to get size of %s: %w, output: %s", path, err, string(output))
	}

	return parseSize(string(output))
}

// IsBlockDevice 判断路径是否为块设备
func (c *Client) IsBlockDevice(ctx context.Context, path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		return false, fmt.Errorf("stat %s: %w", path, err)
	}
	return info.Mode()&os.ModeDevice != 0 && info.Mode()&os.ModeCharDevice == 0, nil
}

// parseSize 解析 blockdev --getsize64 的输出
func parseSize(output string) (uint64, error) {
	s := strings.TrimSpace(output)
	size, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse device size %q: %w", s, err)
	}
	return size, nil
}

// 编译时检查 Client 是否实现了 Prober 接口
var _ Prober = (*Client)(nil)
