package book

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBook(t *testing.T) {
	b := NewBook("9787115428028", "Neuromancer", "William Gibson", "Ace Books", 1984, "Science Fiction", "", 5)

	assert.Equal(t, 5, b.TotalCopies)
	assert.Equal(t, 5, b.AvailableCopies, "可借册数初始化为馆藏册数")
	assert.Equal(t, StatusAvailable, b.Status)
}

func TestApplyTotalCopies(t *testing.T) {
	tests := []struct {
		name          string
		total         int
		available     int
		newTotal      int
		wantAvailable int
	}{
		{"扩充馆藏_可借同步增加", 5, 5, 8, 8},
		{"缩减馆藏_可借同步减少", 5, 5, 3, 3},
		{"缩减时可借夹取到下界0", 5, 1, 1, 0},
		{"借出中缩减_差值传导", 5, 3, 3, 1},
		{"全部借出时扩充_可借等于增量", 5, 0, 7, 2},
		{"总量不变_可借不变", 5, 3, 5, 3},
		{"缩到0_可借归零", 5, 3, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewBook("9787115428028", "t", "a", "", 0, "", "", tt.total)
			b.AvailableCopies = tt.available
			if tt.available == 0 {
				b.Status = StatusOutOfStock
			}

			require.NoError(t, b.ApplyTotalCopies(tt.newTotal))
			assert.Equal(t, tt.newTotal, b.TotalCopies)
			assert.Equal(t, tt.wantAvailable, b.AvailableCopies)

			// 不变量:0 ≤ available ≤ total
			assert.GreaterOrEqual(t, b.AvailableCopies, 0)
			assert.LessOrEqual(t, b.AvailableCopies, b.TotalCopies)
		})
	}

	t.Run("负数拒绝", func(t *testing.T) {
		b := NewBook("9787115428028", "t", "a", "", 0, "", "", 5)
		assert.ErrorIs(t, b.ApplyTotalCopies(-1), ErrNegativeCopies)
		assert.Equal(t, 5, b.TotalCopies, "失败时状态不变")
	})
}

func TestStockStatusSwitching(t *testing.T) {
	t.Run("可借归零自动转OUT_OF_STOCK", func(t *testing.T) {
		b := NewBook("9787115428028", "t", "a", "", 0, "", "", 2)
		b.AvailableCopies = 1

		require.NoError(t, b.ApplyTotalCopies(1))
		assert.Equal(t, 0, b.AvailableCopies)
		assert.Equal(t, StatusOutOfStock, b.Status)
	})

	t.Run("可借恢复自动转AVAILABLE", func(t *testing.T) {
		b := NewBook("9787115428028", "t", "a", "", 0, "", "", 1)
		b.AvailableCopies = 0
		b.Status = StatusOutOfStock

		require.NoError(t, b.ApplyTotalCopies(3))
		assert.Equal(t, 2, b.AvailableCopies)
		assert.Equal(t, StatusAvailable, b.Status)
	})

	t.Run("人工状态不被库存变化覆盖", func(t *testing.T) {
		b := NewBook("9787115428028", "t", "a", "", 0, "", "", 5)
		b.SetStatus(StatusDiscontinued)

		require.NoError(t, b.ApplyTotalCopies(0))
		assert.Equal(t, StatusDiscontinued, b.Status)

		require.NoError(t, b.ApplyTotalCopies(5))
		assert.Equal(t, StatusDiscontinued, b.Status)
	})
}

func TestIsAvailable(t *testing.T) {
	b := NewBook("9787115428028", "t", "a", "", 0, "", "", 1)
	assert.True(t, b.IsAvailable())

	b.SetStatus(StatusMaintenance)
	assert.False(t, b.IsAvailable())

	b.SetStatus(StatusAvailable)
	b.AvailableCopies = 0
	assert.False(t, b.IsAvailable())
}

func TestIsValidISBN(t *testing.T) {
	tests := []struct {
		isbn  string
		valid bool
	}{
		{"9787115428028", true},  // ISBN-13
		{"7115428026", true},     // ISBN-10
		{"978-7-115-42802-8", true}, // 带分隔符
		{"978 7 115 42802 8", true},
		{"043942089X", true}, // ISBN-10的X校验位
		{"12345", false},
		{"", false},
		{"abcdefghij", false},
		{"XXXXXXXXXX", false},    // X只能是末位校验位
		{"04394X2089", false},    // X出现在非末位
		{"978711542802X", false}, // ISBN-13不允许X校验位
	}

	for _, tt := range tests {
		t.Run(tt.isbn, func(t *testing.T) {
			assert.Equal(t, tt.valid, isValidISBN(tt.isbn))
		})
	}
}
