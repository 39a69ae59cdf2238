package book

import (
	"context"

	"github.com/xiebiao/library/internal/domain/book"
)

// LinkCategoryUseCase 图书分类关联用例
// 设计说明:
// 1. 关联边是权威数据,两侧(图书的分类列表、分类的图书列表)都是派生视图,
//    单条边的增删天然原子,不需要事务包裹
// 2. 加入/移出都是幂等操作:重复加入no-op,移出不存在的边no-op
// 3. 详情缓存只存图书行(不含分类),关联变化无需失效缓存
type LinkCategoryUseCase struct {
	bookService book.Service
}

// NewLinkCategoryUseCase 创建分类关联用例
func NewLinkCategoryUseCase(bookService book.Service) *LinkCategoryUseCase {
	return &LinkCategoryUseCase{
		bookService: bookService,
	}
}

// Add 把图书加入分类
func (uc *LinkCategoryUseCase) Add(ctx context.Context, bookID, categoryID uint) error {
	return uc.bookService.AddToCategory(ctx, bookID, categoryID)
}

// Remove 把图书移出分类
func (uc *LinkCategoryUseCase) Remove(ctx context.Context, bookID, categoryID uint) error {
	return uc.bookService.RemoveFromCategory(ctx, bookID, categoryID)
}

// ListCategories 查询图书所属的全部分类
func (uc *LinkCategoryUseCase) ListCategories(ctx context.Context, bookID uint) ([]CategoryRef, error) {
	categories, err := uc.bookService.ListCategories(ctx, bookID)
	if err != nil {
		return nil, err
	}

	refs := make([]CategoryRef, len(categories))
	for i, c := range categories {
		refs[i] = CategoryRef{ID: c.ID, Name: c.Name}
	}
	return refs, nil
}
