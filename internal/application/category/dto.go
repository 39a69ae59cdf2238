package category

import (
	"github.com/xiebiao/library/internal/domain/category"
)

// CategoryDetail 分类详情DTO(含沿父链计算的派生字段)
type CategoryDetail struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	ParentID    *uint  `json:"parent_id"`
	Level       int    `json:"level"`     // 深度,根=0
	FullPath    string `json:"full_path"` // 如 "Fiction > Sci-Fi > Cyberpunk"
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
}

// CategoryItem 分类列表项DTO(不含派生字段,避免列表查询N次父链上溯)
type CategoryItem struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	ParentID    *uint  `json:"parent_id"`
	CreatedAt   string `json:"created_at"`
}

// toCategoryDetail 领域实体 → 详情DTO
func toCategoryDetail(c *category.Category, level int, fullPath string) *CategoryDetail {
	return &CategoryDetail{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		ParentID:    c.ParentID,
		Level:       level,
		FullPath:    fullPath,
		CreatedAt:   c.CreatedAt.Format("2006-01-02 15:04:05"),
		UpdatedAt:   c.UpdatedAt.Format("2006-01-02 15:04:05"),
	}
}

// toCategoryItems 领域实体列表 → 列表项DTO
func toCategoryItems(categories []*category.Category) []CategoryItem {
	items := make([]CategoryItem, len(categories))
	for i, c := range categories {
		items[i] = CategoryItem{
			ID:          c.ID,
			Name:        c.Name,
			Description: c.Description,
			ParentID:    c.ParentID,
			CreatedAt:   c.CreatedAt.Format("2006-01-02 15:04:05"),
		}
	}
	return items
}
