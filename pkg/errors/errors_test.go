// pkg/errors/errors_test.go
// TEST TYPE: Unit Test
// DEPENDENCIES: None
// PURPOSE: Test error creation, wrapping, and utility functions

package errors_test

import (
	stderrors "errors"
	"io/fs"
	"testing"

	"github.com/arthur-debert/dotbak/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		code    errors.ErrorCode
		message string
		wantStr string
	}{
		{
			name:    "not_found_error",
			code:    errors.ErrNotFound,
			message: "file not found",
			wantStr: "[NOT_FOUND] file not found",
		},
		{
			name:    "pattern_error",
			code:    errors.ErrPattern,
			message: "invalid glob",
			wantStr: "[PATTERN] invalid glob",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := errors.New(tt.code, tt.message)

			assert.Equal(t, tt.code, err.Code)
			assert.Equal(t, tt.message, err.Message)
			assert.NotNil(t, err.Details, "details should be initialized")
			assert.Equal(t, tt.wantStr, err.Error())
		})
	}
}

func TestNewf(t *testing.T) {
	err := errors.Newf(errors.ErrInvalidInput, "invalid value: %s", "test")
	assert.Equal(t, "invalid value: test", err.Message)
}

func TestWrap(t *testing.T) {
	t.Run("nil_error_returns_nil", func(t *testing.T) {
		assert.Nil(t, errors.Wrap(nil, errors.ErrMove, "move"))
		assert.Nil(t, errors.Wrapf(nil, errors.ErrMove, "move %s", "x"))
	})

	t.Run("keeps_underlying_error_reachable", func(t *testing.T) {
		pathErr := &fs.PathError{Op: "rename", Path: "/home/foo", Err: fs.ErrNotExist}
		err := errors.Wrapf(pathErr, errors.ErrMove, "failed to move %s", "/home/foo").
			WithDetail("from", "/home/foo")

		assert.True(t, stderrors.Is(err, fs.ErrNotExist))
		assert.Contains(t, err.Error(), "[MOVE] failed to move /home/foo")
		assert.Equal(t, "/home/foo", err.Details["from"])
	})
}

func TestIs_ComparesCodes(t *testing.T) {
	err := errors.Wrap(stderrors.New("boom"), errors.ErrSymlink, "symlink failed")

	assert.True(t, stderrors.Is(err, errors.New(errors.ErrSymlink, "")))
	assert.False(t, stderrors.Is(err, errors.New(errors.ErrDelete, "")))
}

func TestErrorCodeHelpers(t *testing.T) {
	plain := stderrors.New("plain")
	coded := errors.New(errors.ErrTraversal, "cannot read dir").
		WithDetails(map[string]interface{}{"path": "/tmp/x"})

	assert.Equal(t, errors.ErrUnknown, errors.GetErrorCode(plain))
	assert.Equal(t, errors.ErrTraversal, errors.GetErrorCode(coded))
	assert.True(t, errors.IsErrorCode(coded, errors.ErrTraversal))
	assert.False(t, errors.IsErrorCode(plain, errors.ErrTraversal))

	require.NotNil(t, errors.GetErrorDetails(coded))
	assert.Equal(t, "/tmp/x", errors.GetErrorDetails(coded)["path"])
	assert.Nil(t, errors.GetErrorDetails(plain))
}
