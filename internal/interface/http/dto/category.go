package dto

// CreateCategoryRequest HTTP创建分类请求
type CreateCategoryRequest struct {
	Name        string `json:"name" binding:"required,max=100" example:"Fiction"`
	Description string `json:"description" binding:"max=500" example:"虚构类文学作品"`
	ParentID    *uint  `json:"parent_id" binding:"omitempty,min=1" example:"1"` // 省略表示创建根分类
}

// UpdateCategoryRequest HTTP更新分类请求(省略的字段不修改)
type UpdateCategoryRequest struct {
	Name        *string `json:"name" binding:"omitempty,max=100" example:"Sci-Fi"`
	Description *string `json:"description" binding:"omitempty,max=500" example:"科幻类"`
	ParentID    *uint   `json:"parent_id" binding:"omitempty,min=1" example:"2"` // 改挂到新父分类下
}

// CategoryResponse HTTP分类详情响应
type CategoryResponse struct {
	ID          uint   `json:"id" example:"3"`
	Name        string `json:"name" example:"Cyberpunk"`
	Description string `json:"description" example:"赛博朋克"`
	ParentID    *uint  `json:"parent_id" example:"2"`
	Level       int    `json:"level" example:"2"`
	FullPath    string `json:"full_path" example:"Fiction > Sci-Fi > Cyberpunk"`
	BookCount   int64  `json:"book_count" example:"12"`
	HasChildren bool   `json:"has_children" example:"false"`
	CreatedAt   string `json:"created_at" example:"2024-01-15 10:30:00"`
	UpdatedAt   string `json:"updated_at" example:"2024-01-15 10:30:00"`
}

// CategoryListItem HTTP分类列表项
type CategoryListItem struct {
	ID          uint   `json:"id" example:"3"`
	Name        string `json:"name" example:"Cyberpunk"`
	Description string `json:"description" example:"赛博朋克"`
	ParentID    *uint  `json:"parent_id" example:"2"`
	CreatedAt   string `json:"created_at" example:"2024-01-15 10:30:00"`
}
