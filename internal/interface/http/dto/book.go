package dto

// CreateBookRequest HTTP创建图书请求
// validator tag说明:
// - required: 必填字段
// - min/max: 数值范围校验
// ISBN格式(10位或13位数字)由领域服务校验
type CreateBookRequest struct {
	ISBN            string `json:"isbn" binding:"required,max=20" example:"9787115428028"`
	Title           string `json:"title" binding:"required,max=500" example:"Neuromancer"`
	Author          string `json:"author" binding:"required,max=300" example:"William Gibson"`
	Publisher       string `json:"publisher" binding:"max=200" example:"Ace Books"`
	PublicationYear int    `json:"publication_year" binding:"omitempty,min=1000,max=2100" example:"1984"`
	Genre           string `json:"genre" binding:"max=100" example:"Science Fiction"`
	Summary         string `json:"summary" binding:"max=5000" example:"黑客凯斯受雇潜入跨国企业的数据空间"`
	TotalCopies     *int   `json:"total_copies" binding:"omitempty,min=0" example:"5"` // 省略时缺省为1
	CategoryIDs     []uint `json:"category_ids" binding:"omitempty,dive,min=1"`        // 无法解析的ID跳过
}

// UpdateBookRequest HTTP更新图书请求(省略的字段不修改)
type UpdateBookRequest struct {
	ISBN            *string `json:"isbn" binding:"omitempty,max=20" example:"9787115428028"`
	Title           *string `json:"title" binding:"omitempty,max=500" example:"Neuromancer"`
	Author          *string `json:"author" binding:"omitempty,max=300" example:"William Gibson"`
	Publisher       *string `json:"publisher" binding:"omitempty,max=200" example:"Ace Books"`
	PublicationYear *int    `json:"publication_year" binding:"omitempty,min=1000,max=2100" example:"1984"`
	Genre           *string `json:"genre" binding:"omitempty,max=100" example:"Science Fiction"`
	Summary         *string `json:"summary" binding:"omitempty,max=5000"`
	TotalCopies     *int    `json:"total_copies" binding:"omitempty,min=0" example:"3"` // 差值传导到可借册数
	Status          *string `json:"status" binding:"omitempty,oneof=AVAILABLE OUT_OF_STOCK DISCONTINUED MAINTENANCE" example:"DISCONTINUED"`
	CategoryIDs     *[]uint `json:"category_ids" binding:"omitempty,dive,min=1"` // 非省略时整体替换(空数组=清空)
}

// SearchBooksRequest HTTP组合检索请求(query参数,零值不参与过滤)
type SearchBooksRequest struct {
	Title     string `form:"title" binding:"omitempty,max=500" example:"Neuromancer"`
	Author    string `form:"author" binding:"omitempty,max=300" example:"Gibson"`
	Publisher string `form:"publisher" binding:"omitempty,max=200" example:"Ace"`
	Genre     string `form:"genre" binding:"omitempty,max=100" example:"Science Fiction"`
	YearFrom  int    `form:"year_from" binding:"omitempty,min=1000,max=2100" example:"1980"`
	YearTo    int    `form:"year_to" binding:"omitempty,min=1000,max=2100" example:"1990"`
	ISBN      string `form:"isbn" binding:"omitempty,max=20" example:"9787115428028"`
	Page      int    `form:"page" binding:"omitempty,min=1" example:"1"`
	PageSize  int    `form:"page_size" binding:"omitempty,min=1,max=100" example:"20"`
}

// BookResponse HTTP图书详情响应
type BookResponse struct {
	ID              uint              `json:"id" example:"1"`
	ISBN            string            `json:"isbn" example:"9787115428028"`
	Title           string            `json:"title" example:"Neuromancer"`
	Author          string            `json:"author" example:"William Gibson"`
	Publisher       string            `json:"publisher" example:"Ace Books"`
	PublicationYear int               `json:"publication_year" example:"1984"`
	Genre           string            `json:"genre" example:"Science Fiction"`
	Summary         string            `json:"summary"`
	TotalCopies     int               `json:"total_copies" example:"5"`
	AvailableCopies int               `json:"available_copies" example:"3"`
	Status          string            `json:"status" example:"AVAILABLE"`
	Categories      []CategoryRefItem `json:"categories"`
	CreatedAt       string            `json:"created_at" example:"2024-01-15 10:30:00"`
	UpdatedAt       string            `json:"updated_at" example:"2024-01-15 10:30:00"`
}

// CategoryRefItem 图书所属分类的引用
type CategoryRefItem struct {
	ID   uint   `json:"id" example:"3"`
	Name string `json:"name" example:"Cyberpunk"`
}
