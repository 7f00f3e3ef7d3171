package apierror

import "net/http"

// spd 存储引擎错误
// 所有错误都会原样返回给调用方，引擎不会静默重试
var (
	// ErrPolicyViolation 操作违反了池的超分配策略
	// 例如在虚拟容量已超过物理容量时关闭超分配
	ErrPolicyViolation = &Error{
		Code:       "PolicyViolation",
		Message:    "The operation would violate the pool's provisioning policy.",
		HTTPStatus: http.StatusConflict,
	}

	// ErrCapacityExceeded 池的物理容量不足以满足本次分配
	// 超分配关闭时，虚拟容量不允许超过物理容量
	ErrCapacityExceeded = &Error{
		Code:       "CapacityExceeded",
		Message:    "The pool does not have enough physical capacity to satisfy the allocation request.",
		HTTPStatus: http.StatusConflict,
	}

	// ErrInvalidArgument 请求参数不合法
	// 例如降低文件系统数量上限，或创建小于最小容量的文件系统
	ErrInvalidArgument = &Error{
		Code:       "InvalidArgument",
		Message:    "The request contained an invalid argument.",
		HTTPStatus: http.StatusBadRequest,
	}

	// ErrAllocationFailure 底层设备空间不足，无法分配元数据卷
	ErrAllocationFailure = &Error{
		Code:       "AllocationFailure",
		Message:    "The backing device does not have enough space to allocate the volume.",
		HTTPStatus: http.StatusInsufficientStorage,
	}

	// ErrPoolBusy 池上仍存在文件系统，无法销毁
	ErrPoolBusy = &Error{
		Code:       "PoolBusy",
		Message:    "The pool still has filesystems and cannot be destroyed.",
		HTTPStatus: http.StatusConflict,
	}

	// ErrInvalidPoolState 池当前状态不允许此操作
	// 只有 active 状态的池才接受文件系统和设备变更
	ErrInvalidPoolState = &Error{
		Code:       "InvalidPoolState",
		Message:    "The pool is not in a state that permits this operation.",
		HTTPStatus: http.StatusConflict,
	}

	// ErrPoolNotFound 指定的池不存在
	ErrPoolNotFound = &Error{
		Code:       "InvalidPoolID.NotFound",
		Message:    "The specified pool does not exist.",
		HTTPStatus: http.StatusNotFound,
	}

	// ErrFilesystemNotFound 指定的文件系统不存在
	ErrFilesystemNotFound = &Error{
		Code:       "InvalidFilesystemID.NotFound",
		Message:    "The specified filesystem does not exist.",
		HTTPStatus: http.StatusNotFound,
	}

	// ErrBlockDevNotFound 指定的块设备不存在
	ErrBlockDevNotFound = &Error{
		Code:       "InvalidDeviceID.NotFound",
		Message:    "The specified block device does not exist.",
		HTTPStatus: http.StatusNotFound,
	}

	// ErrDeviceInUse 块设备已属于某个池的设备集合
	ErrDeviceInUse = &Error{
		Code:       "InvalidArgument.DeviceInUse",
		Message:    "The block device already belongs to a pool.",
		HTTPStatus: http.StatusBadRequest,
	}

	// ErrServerInternal 服务器内部错误
	ErrServerInternal = &Error{
		Code:       "ServerInternal",
		Message:    "An internal error has occurred. Retry your request, but if the problem persists, contact the administrator.",
		HTTPStatus: http.StatusInternalServerError,
	}
)
