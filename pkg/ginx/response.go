package ginx

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jimyag/spd/pkg/apierror"
	"github.com/jimyag/spd/pkg/idgen"
)

// renderResponse 渲染 JSON 响应
func renderResponse(ctx *gin.Context, response any) {
	if response == nil {
		ctx.Status(http.StatusNoContent)
		return
	}

	// 基本类型特殊处理
	switch v := response.(type) {
	case string:
		ctx.String(http.StatusOK, v)
		return
	case int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64, bool:
		ctx.JSON(http.StatusOK, gin.H{"value": v})
		return
	}

	ctx.JSON(http.StatusOK, response)
}

// requestID 获取请求 ID
// 优先使用客户端传入的 X-Request-ID，否则生成新的
func requestID(ctx *gin.Context) string {
	if id := ctx.GetHeader("X-Request-ID"); id != "" {
		return id
	}
	id, err := idgen.DefaultGenerator().NewRequestID()
	if err != nil {
		return ""
	}
	return id
}

// renderError 渲染错误响应
// 如果 err 链中包含 *apierror.Error，使用其 Code 和 HTTP 状态码
// 否则包装为 ServerInternal
func renderError(ctx *gin.Context, statusCode int, err error) {
	var apiErr *apierror.Error
	if errors.As(err, &apiErr) {
		// 使用错误对象中定义的 HTTP 状态码
		if apiErr.HTTPStatus > 0 {
			statusCode = apiErr.HTTPStatus
		}
		ctx.JSON(statusCode, apierror.NewErrorResponse(requestID(ctx), apiErr))
		return
	}

	var errResp *apierror.ErrorResponse
	if errors.As(err, &errResp) {
		// 从第一个错误中获取 HTTP 状态码（如果有）
		if len(errResp.Errors) > 0 && errResp.Errors[0].HTTPStatus > 0 {
			statusCode = errResp.Errors[0].HTTPStatus
		}
		ctx.JSON(statusCode, errResp)
		return
	}

	// 非 apierror 错误统一包装，避免内部细节泄漏结构
	wrapped := apierror.WrapError(apierror.ErrServerInternal, err.Error(), err)
	if statusCode == http.StatusBadRequest {
		wrapped = apierror.WrapError(apierror.ErrInvalidArgument, err.Error(), err)
	}
	ctx.JSON(statusCode, apierror.NewErrorResponse(requestID(ctx), wrapped))
}
