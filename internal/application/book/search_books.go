package book

import (
	"context"

	"github.com/xiebiao/library/internal/domain/book"
)

// SearchBooksUseCase 图书检索用例(只读)
// 设计说明:
// 1. Search支持组合条件分页(书名/作者/出版社/体裁/年份区间/ISBN)
// 2. 各单维度列表(低库存、未分类、按分类)是运营侧的固定视角,
//    不分页,数据量由查询条件天然限制
type SearchBooksUseCase struct {
	bookService book.Service
}

// NewSearchBooksUseCase 创建图书检索用例
func NewSearchBooksUseCase(bookService book.Service) *SearchBooksUseCase {
	return &SearchBooksUseCase{
		bookService: bookService,
	}
}

// SearchBooksRequest 组合检索请求DTO(零值字段不参与过滤)
type SearchBooksRequest struct {
	Title     string // 书名关键词
	Author    string // 作者关键词
	Publisher string // 出版社关键词
	Genre     string // 体裁(精确匹配)
	YearFrom  int    // 出版年份下界(含)
	YearTo    int    // 出版年份上界(含)
	ISBN      string // ISBN精确匹配
	Page      int    // 页码(从1开始)
	PageSize  int    // 每页数量(默认20,最大100)
}

// SearchBooksResponse 组合检索响应DTO
type SearchBooksResponse struct {
	List       []BookItem `json:"list"`
	Total      int64      `json:"total"`
	Page       int        `json:"page"`
	PageSize   int        `json:"page_size"`
	TotalPages int        `json:"total_pages"`
}

// Execute 执行组合检索
func (uc *SearchBooksUseCase) Execute(ctx context.Context, req SearchBooksRequest) (*SearchBooksResponse, error) {
	// 默认值与范围限制由领域服务处理,这里取回修正后的值计算页数
	if req.Page < 1 {
		req.Page = 1
	}
	if req.PageSize < 1 {
		req.PageSize = 20
	}
	if req.PageSize > 100 {
		req.PageSize = 100
	}

	books, total, err := uc.bookService.Search(ctx, book.SearchParams{
		Title:     req.Title,
		Author:    req.Author,
		Publisher: req.Publisher,
		Genre:     req.Genre,
		YearFrom:  req.YearFrom,
		YearTo:    req.YearTo,
		ISBN:      req.ISBN,
		Page:      req.Page,
		PageSize:  req.PageSize,
	})
	if err != nil {
		return nil, err
	}

	totalPages := int(total) / req.PageSize
	if int(total)%req.PageSize != 0 {
		totalPages++
	}

	return &SearchBooksResponse{
		List:       toBookItems(books),
		Total:      total,
		Page:       req.Page,
		PageSize:   req.PageSize,
		TotalPages: totalPages,
	}, nil
}

// ListAll 查询全部图书
func (uc *SearchBooksUseCase) ListAll(ctx context.Context) ([]BookItem, error) {
	books, err := uc.bookService.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	return toBookItems(books), nil
}

// SearchByTitle 按书名模糊查找
func (uc *SearchBooksUseCase) SearchByTitle(ctx context.Context, title string) ([]BookItem, error) {
	books, err := uc.bookService.SearchByTitle(ctx, title)
	if err != nil {
		return nil, err
	}
	return toBookItems(books), nil
}

// SearchByAuthor 按作者模糊查找
func (uc *SearchBooksUseCase) SearchByAuthor(ctx context.Context, author string) ([]BookItem, error) {
	books, err := uc.bookService.SearchByAuthor(ctx, author)
	if err != nil {
		return nil, err
	}
	return toBookItems(books), nil
}

// ListByCategory 查询分类下的图书
func (uc *SearchBooksUseCase) ListByCategory(ctx context.Context, categoryID uint) ([]BookItem, error) {
	books, err := uc.bookService.ListByCategory(ctx, categoryID)
	if err != nil {
		return nil, err
	}
	return toBookItems(books), nil
}

// ListLowStock 查询低库存图书(threshold为nil时使用默认阈值)
func (uc *SearchBooksUseCase) ListLowStock(ctx context.Context, threshold *int) ([]BookItem, error) {
	books, err := uc.bookService.ListLowStock(ctx, threshold)
	if err != nil {
		return nil, err
	}
	return toBookItems(books), nil
}

// ListUncategorized 查询没有任何分类关联的图书
func (uc *SearchBooksUseCase) ListUncategorized(ctx context.Context) ([]BookItem, error) {
	books, err := uc.bookService.ListUncategorized(ctx)
	if err != nil {
		return nil, err
	}
	return toBookItems(books), nil
}
