package apierror

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestError_Is(t *testing.T) {
	t.Parallel()

	testcases := []struct {
		name   string
		err    error
		target error
		want   bool
	}{
		{
			name:   "same code",
			err:    ErrCapacityExceeded,
			target: &Error{Code: "CapacityExceeded"},
			want:   true,
		},
		{
			name:   "different code",
			err:    ErrCapacityExceeded,
			target: ErrPolicyViolation,
			want:   false,
		},
		{
			name:   "wrapped error keeps code",
			err:    WrapError(ErrPoolBusy, "pool pool-123 has 2 filesystems", nil),
			target: ErrPoolBusy,
			want:   true,
		},
		{
			name:   "wrapped with fmt.Errorf",
			err:    fmt.Errorf("destroy pool: %w", ErrPoolBusy),
			target: ErrPoolBusy,
			want:   true,
		},
		{
			name:   "nil target",
			err:    ErrPoolBusy,
			target: nil,
			want:   false,
		},
		{
			name:   "not an apierror",
			err:    ErrPoolBusy,
			target: errors.New("PoolBusy"),
			want:   false,
		},
	}

	for _, tc := range testcases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, errors.Is(tc.err, tc.target))
		})
	}
}

func TestError_Unwrap(t *testing.T) {
	t.Parallel()

	raw := errors.New("disk full")
	err := WrapError(ErrAllocationFailure, "create mdv", raw)

	assert.Equal(t, raw, errors.Unwrap(err))
	assert.True(t, errors.Is(err, raw))

	// 没有 RawError 时返回 nil
	assert.Nil(t, errors.Unwrap(ErrAllocationFailure))
}

func TestWrapError(t *testing.T) {
	t.Parallel()

	raw := errors.New("no space left on device")
	err := WrapError(ErrAllocationFailure, "allocate 512 MiB mdv for pool-1", raw)

	assert.Equal(t, ErrAllocationFailure.Code, err.Code)
	assert.Equal(t, http.StatusInsufficientStorage, err.HTTPStatus)
	assert.Equal(t, "allocate 512 MiB mdv for pool-1", err.Message)
	assert.Equal(t, raw, err.RawError)
	assert.Contains(t, err.Error(), "no space left on device")
}

func TestErrorResponse_JSON(t *testing.T) {
	t.Parallel()

	resp := NewErrorResponse("req-123", ErrPoolNotFound)
	resp.AddError(ErrInvalidArgument)

	data, err := json.Marshal(resp)
	require.NoError(t, err)

	var decoded struct {
		Errors []struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"errors"`
		RequestID string `json:"requestID"`
	}
	require.NoError(t, json.Unmarshal(data, &decoded))

	assert.Equal(t, "req-123", decoded.RequestID)
	require.Len(t, decoded.Errors, 2)
	assert.Equal(t, "InvalidPoolID.NotFound", decoded.Errors[0].Code)
	assert.Equal(t, "InvalidArgument", decoded.Errors[1].Code)

	// HTTPStatus 和 RawError 不应序列化
	assert.NotContains(t, string(data), "HTTPStatus")
	assert.NotContains(t, string(data), "RawError")
}
