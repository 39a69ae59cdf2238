package integration

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 目录模块集成测试
//
// 场景覆盖:
// 1. 分类层级:创建三层树、level/full_path、删除后子节点上提
// 2. 图书生命周期:创建、馆藏调整的差值传导、删除
// 3. 图书↔分类关联:加入/移出、双向视图

// TestCategoryHierarchy 分类层级生命周期
func TestCategoryHierarchy(t *testing.T) {
	base := BaseURL(t)

	// 构造 Fiction > Sci-Fi > Cyberpunk 三层树
	fiction := CreateTestCategory(t, base, GenerateTestName("Fiction"), nil)
	scifi := CreateTestCategory(t, base, GenerateTestName("SciFi"), &fiction.ID)
	cyberpunk := CreateTestCategory(t, base, GenerateTestName("Cyberpunk"), &scifi.ID)

	t.Run("层级与路径", func(t *testing.T) {
		resp := GetJSON(t, fmt.Sprintf("%s/categories/%d", base, cyberpunk.ID))
		require.Equal(t, 0, resp.Code, resp.Message)

		var data CategoryData
		require.NoError(t, json.Unmarshal(resp.Data, &data))
		assert.Equal(t, 2, data.Level)
		assert.Contains(t, data.FullPath, " > ", "路径用 > 分隔")
	})

	t.Run("改挂到后代被拒绝", func(t *testing.T) {
		resp := PutJSON(t, fmt.Sprintf("%s/categories/%d", base, fiction.ID),
			map[string]interface{}{"parent_id": cyberpunk.ID})
		assert.NotEqual(t, 0, resp.Code, "成环的改挂应该失败")
	})

	t.Run("删除中间节点_子节点上提", func(t *testing.T) {
		resp := DeleteJSON(t, fmt.Sprintf("%s/categories/%d", base, scifi.ID))
		require.Equal(t, 0, resp.Code, resp.Message)

		// 被删分类不可见
		resp = GetJSON(t, fmt.Sprintf("%s/categories/%d", base, scifi.ID))
		assert.NotEqual(t, 0, resp.Code)

		// Cyberpunk上提到Fiction下
		resp = GetJSON(t, fmt.Sprintf("%s/categories/%d", base, cyberpunk.ID))
		require.Equal(t, 0, resp.Code, resp.Message)

		var data CategoryData
		require.NoError(t, json.Unmarshal(resp.Data, &data))
		require.NotNil(t, data.ParentID)
		assert.Equal(t, fiction.ID, *data.ParentID)
		assert.Equal(t, 1, data.Level)
	})
}

// TestBookLifecycle 图书生命周期与馆藏计数
func TestBookLifecycle(t *testing.T) {
	base := BaseURL(t)

	book := CreateTestBook(t, base, "集成测试图书", 5, nil)
	assert.Equal(t, 5, book.TotalCopies)
	assert.Equal(t, 5, book.AvailableCopies, "可借册数初始化为馆藏册数")
	assert.Equal(t, "AVAILABLE", book.Status)

	t.Run("馆藏缩减差值传导", func(t *testing.T) {
		resp := PutJSON(t, fmt.Sprintf("%s/books/%d", base, book.ID),
			map[string]interface{}{"total_copies": 3})
		require.Equal(t, 0, resp.Code, resp.Message)

		var data BookData
		require.NoError(t, json.Unmarshal(resp.Data, &data))
		assert.Equal(t, 3, data.TotalCopies)
		assert.Equal(t, 3, data.AvailableCopies)
	})

	t.Run("缩到0转OUT_OF_STOCK", func(t *testing.T) {
		resp := PutJSON(t, fmt.Sprintf("%s/books/%d", base, book.ID),
			map[string]interface{}{"total_copies": 0})
		require.Equal(t, 0, resp.Code, resp.Message)

		var data BookData
		require.NoError(t, json.Unmarshal(resp.Data, &data))
		assert.Equal(t, "OUT_OF_STOCK", data.Status)
	})

	t.Run("重复ISBN拒绝", func(t *testing.T) {
		resp := PostJSON(t, base+"/books", map[string]interface{}{
			"isbn":   book.ISBN,
			"title":  "另一本",
			"author": "测试作者",
		})
		assert.NotEqual(t, 0, resp.Code, "重复ISBN应该失败")
	})

	t.Run("删除后不可见", func(t *testing.T) {
		resp := DeleteJSON(t, fmt.Sprintf("%s/books/%d", base, book.ID))
		require.Equal(t, 0, resp.Code, resp.Message)

		resp = GetJSON(t, fmt.Sprintf("%s/books/%d", base, book.ID))
		assert.NotEqual(t, 0, resp.Code)
	})
}

// TestBookCategoryAssociation 图书↔分类关联的双向视图
func TestBookCategoryAssociation(t *testing.T) {
	base := BaseURL(t)

	cat := CreateTestCategory(t, base, GenerateTestName("Assoc"), nil)
	book := CreateTestBook(t, base, "关联测试图书", 1, nil)

	linkURL := fmt.Sprintf("%s/books/%d/categories/%d", base, book.ID, cat.ID)

	t.Run("加入分类", func(t *testing.T) {
		resp := PutJSON(t, linkURL, nil)
		require.Equal(t, 0, resp.Code, resp.Message)

		// 幂等:重复加入不报错
		resp = PutJSON(t, linkURL, nil)
		assert.Equal(t, 0, resp.Code, resp.Message)
	})

	t.Run("双向视图可见", func(t *testing.T) {
		// 图书侧
		resp := GetJSON(t, fmt.Sprintf("%s/books/%d", base, book.ID))
		require.Equal(t, 0, resp.Code, resp.Message)

		var data BookData
		require.NoError(t, json.Unmarshal(resp.Data, &data))
		require.Len(t, data.Categories, 1)
		assert.Equal(t, cat.ID, data.Categories[0].ID)

		// 分类侧统计
		resp = GetJSON(t, fmt.Sprintf("%s/categories/%d", base, cat.ID))
		require.Equal(t, 0, resp.Code, resp.Message)

		var catData CategoryData
		require.NoError(t, json.Unmarshal(resp.Data, &catData))
		assert.Equal(t, int64(1), catData.BookCount)
	})

	t.Run("移出分类", func(t *testing.T) {
		resp := DeleteJSON(t, linkURL)
		require.Equal(t, 0, resp.Code, resp.Message)

		// 幂等:重复移出不报错
		resp = DeleteJSON(t, linkURL)
		assert.Equal(t, 0, resp.Code, resp.Message)

		resp = GetJSON(t, fmt.Sprintf("%s/books/%d", base, book.ID))
		require.Equal(t, 0, resp.Code, resp.Message)

		var data BookData
		require.NoError(t, json.Unmarshal(resp.Data, &data))
		assert.Empty(t, data.Categories)
	})
}
