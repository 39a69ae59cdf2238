package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppError(t *testing.T) {
	t.Run("Error格式", func(t *testing.T) {
		err := New(ErrCodeBookNotFound, "图书不存在")
		assert.Equal(t, "[40401] 图书不存在", err.Error())

		wrapped := Wrap(errors.New("connection refused"), "数据库错误")
		assert.Contains(t, wrapped.Error(), "connection refused")
		assert.Equal(t, ErrCodeInternal, wrapped.Code)
	})

	t.Run("errors.Is按实例匹配预定义错误", func(t *testing.T) {
		// 预定义错误是单例,领域层直接返回同一个实例
		err := fmt.Errorf("查询失败: %w", ErrNotFound)
		assert.True(t, errors.Is(err, ErrNotFound))
		assert.False(t, errors.Is(err, ErrInvalidParams))
	})

	t.Run("Unwrap保留内部错误链", func(t *testing.T) {
		inner := errors.New("duplicate entry")
		err := Wrapf(inner, "创建图书失败: %s", "9787115428028")
		assert.True(t, errors.Is(err, inner))
		assert.Contains(t, err.Message, "9787115428028")
	})
}

func TestGetAppError(t *testing.T) {
	t.Run("AppError原样提取", func(t *testing.T) {
		src := New(ErrCodeCategoryCycle, "分类不能移动到自己的后代下")
		got := GetAppError(fmt.Errorf("更新失败: %w", src))
		require.NotNil(t, got)
		assert.Equal(t, ErrCodeCategoryCycle, got.Code)
	})

	t.Run("普通错误包装为内部错误", func(t *testing.T) {
		got := GetAppError(errors.New("boom"))
		assert.Equal(t, ErrCodeInternal, got.Code)
		// 内部错误信息不透出给客户端
		assert.Equal(t, "系统内部错误", got.Message)
	})
}

func TestCodeOf(t *testing.T) {
	assert.Equal(t, ErrCodeISBNDuplicate, CodeOf(New(ErrCodeISBNDuplicate, "ISBN已存在")))
	assert.Equal(t, ErrCodeInternal, CodeOf(errors.New("boom")))
}

func TestIsAppError(t *testing.T) {
	assert.True(t, IsAppError(ErrBindError))
	assert.True(t, IsAppError(fmt.Errorf("wrap: %w", ErrBindError)))
	assert.False(t, IsAppError(errors.New("plain")))
}
