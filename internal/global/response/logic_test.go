package response

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestErrorChain(t *testing.T) {
	root := errors.New("disk full")
	e := ErrStorage.WithOrigin(root).WithTips("保存失败")

	require.Equal(t, "保存失败", e.Message)
	require.Equal(t, ErrStorage.Code, e.Code)
	require.ErrorIs(t, e, root)
	require.ErrorIs(t, e, ErrServerInternal)
	require.NotErrorIs(t, e, ErrInvalidRequest)
	require.NotNil(t, e.StackTrace())
	require.Contains(t, e.Origin, "disk full")
	require.Contains(t, e.Error(), "disk full")

	// 原错误不受影响
	require.Equal(t, "文件存储失败", ErrStorage.Message)
	require.Nil(t, ErrStorage.StackTrace())
	require.Same(t, ErrStorage, ErrStorage.WithOrigin(nil))
}
