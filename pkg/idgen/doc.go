// Package idgen 提供全局唯一且递增的资源 ID 生成器
//
// 基于 Sonyflake 算法，生成的 ID 带资源前缀：
//
//   - pool-{id}: 存储池
//   - fs-{id}:   文件系统
//   - dev-{id}:  块设备
//   - mdv-{id}:  元数据卷
//   - req-{id}:  API 请求
//
// 使用示例：
//
//	gen := idgen.New()
//	poolID, err := gen.NewPoolID() // pool-123456789
//
//	// 或使用默认生成器
//	fsID, err := idgen.DefaultGenerator().NewFilesystemID()
package idgen
