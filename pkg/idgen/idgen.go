package idgen

import (
	"fmt"
	"sync"
	"time"

	"github.com/sony/sonyflake"
)

// Generator 递增 ID 生成器
// 使用 Sonyflake 算法生成全局唯一且递增的 ID
type Generator struct {
	sf *sonyflake.Sonyflake
}

var (
	defaultGenerator     *Generator
	defaultGeneratorOnce sync.Once
)

// initDefaultGenerator 初始化默认生成器
func initDefaultGenerator() {
	defaultGenerator = New()
}

// DefaultGenerator 返回默认的 ID 生成器
func DefaultGenerator() *Generator {
	defaultGeneratorOnce.Do(initDefaultGenerator)
	return defaultGenerator
}

// New 创建新的 ID 生成器
func New() *Generator {
	// 使用默认设置创建 Sonyflake
	// 如果需要自定义机器 ID，可以通过 Settings 配置
	sf := sonyflake.NewSonyflake(sonyflake.Settings{
		StartTime: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), // 起始时间
	})
	if sf == nil {
		// 如果创建失败，使用当前时间作为起始时间
		sf = sonyflake.NewSonyflake(sonyflake.Settings{
			StartTime: time.Now(),
		})
	}

	return &Generator{
		sf: sf,
	}
}

// generateIDWithPrefix 生成带前缀的 ID
func (g *Generator) generateIDWithPrefix(prefix, errorMsg string) (string, error) {
	id, err := g.sf.NextID()
	if err != nil {
		return "", fmt.Errorf("%s: %w", errorMsg, err)
	}
	return fmt.Sprintf("%s-%d", prefix, id), nil
}

// NewPoolID 生成池 ID，格式：pool-{id}
func (g *Generator) NewPoolID() (string, error) {
	return g.generateIDWithPrefix("pool", "generate pool id")
}

// NewFilesystemID 生成文件系统 ID，格式：fs-{id}
func (g *Generator) NewFilesystemID() (string, error) {
	return g.generateIDWithPrefix("fs", "generate filesystem id")
}

// NewDeviceID 生成块设备 ID，格式：dev-{id}
func (g *Generator) NewDeviceID() (string, error) {
	return g.generateIDWithPrefix("dev", "generate device id")
}

// NewMdvID 生成元数据卷 ID，格式：mdv-{id}
func (g *Generator) NewMdvID() (string, error) {
	return g.generateIDWithPrefix("mdv", "generate mdv id")
}

// NewRequestID 生成请求 ID，格式：req-{id}
// 用于错误响应中的 RequestID
func (g *Generator) NewRequestID() (string, error) {
	return g.generateIDWithPrefix("req", "generate request id")
}
