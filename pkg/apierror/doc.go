// Package apierror 提供 spd 统一的错误类型，所有服务共用
//
// 错误响应为 JSON 格式：
//
//	{
//	    "errors": [
//	        {
//	            "code": "InvalidPoolID.NotFound",
//	            "message": "The specified pool does not exist."
//	        }
//	    ],
//	    "requestID": "ea966190-f9aa-478e-9ede-example"
//	}
//
// 使用示例：
//
//	// 直接使用预定义的错误
//	return nil, apierror.ErrPoolNotFound
//
//	// 包装预定义错误，带上下文消息和原始错误
//	return nil, apierror.WrapError(apierror.ErrAllocationFailure,
//	    fmt.Sprintf("create mdv for pool %s", poolID), err)
//
//	// 判断错误类型
//	if errors.Is(err, apierror.ErrCapacityExceeded) { ... }
//
// 预定义的存储引擎错误：
//
//   - ErrPolicyViolation: 违反池的超分配策略
//   - ErrCapacityExceeded: 物理容量不足以满足分配
//   - ErrInvalidArgument: 请求参数不合法
//   - ErrAllocationFailure: 底层设备空间不足
//   - ErrPoolBusy: 池上仍有文件系统
//   - ErrInvalidPoolState: 池状态不允许此操作
//   - ErrPoolNotFound / ErrFilesystemNotFound / ErrBlockDevNotFound: 资源不存在
//   - ErrDeviceInUse: 设备已属于其他池
//   - ErrServerInternal: 内部错误
package apierror
