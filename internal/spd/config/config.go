package config

import (
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

type Config struct {
	// DataDir 是 SPD 数据目录
	// 用于存储注册库数据库和元数据卷镜像
	// 可以通过环境变量 SPD_DATA_DIR 配置
	// 默认：~/.local/share/spd
	DataDir string

	// Address 是 API 监听地址
	// 可以通过环境变量 SPD_ADDRESS 配置
	Address string
}

func New() (*Config, error) {
	// .env 文件是可选的，不存在时忽略
	_ = godotenv.Load()

	cfg := &Config{
		DataDir: getDataDir(),
		Address: getAddress(),
	}
	return cfg, nil
}

// DBPath 返回注册库 sqlite 数据库路径
func (c *Config) DBPath() string {
	return filepath.Join(c.DataDir, "spd.db")
}

// MdvDir 返回元数据卷镜像和挂载点所在目录
func (c *Config) MdvDir() string {
	return filepath.Join(c.DataDir, "mdv")
}

// getDataDir 获取数据目录，优先使用环境变量
func getDataDir() string {
	// 1. 优先使用环境变量 SPD_DATA_DIR
	if dir := os.Getenv("SPD_DATA_DIR"); dir != "" {
		return dir
	}

	// 2. 使用用户主目录下的 .local/share/spd
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".local", "share", "spd")
	}

	// 3. 如果无法获取主目录，使用当前目录下的 data
	return filepath.Join(".", "data")
}

// getAddress 获取绑定地址，优先使用环境变量 SPD_ADDRESS
func getAddress() string {
	if addr := os.Getenv("SPD_ADDRESS"); addr != "" {
		return addr
	}

	return "0.0.0.0:7766"
}
