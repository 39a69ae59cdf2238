package category

import (
	"context"

	"github.com/xiebiao/library/internal/domain/category"
)

// QueryCategoriesUseCase 分类查询用例(只读)
// 设计说明:
// 1. 查询类用例聚合在一起,避免每个只读视角一个文件的碎片化
// 2. 详情查询附带沿父链实时计算的level/fullPath和图书数量,
//    列表查询不带(避免每行一次父链上溯)
type QueryCategoriesUseCase struct {
	categoryService category.Service
}

// NewQueryCategoriesUseCase 创建分类查询用例
func NewQueryCategoriesUseCase(categoryService category.Service) *QueryCategoriesUseCase {
	return &QueryCategoriesUseCase{
		categoryService: categoryService,
	}
}

// CategoryDetailResponse 详情响应DTO(详情 + 统计字段)
type CategoryDetailResponse struct {
	CategoryDetail
	BookCount   int64 `json:"book_count"`   // 关联的图书数量
	HasChildren bool  `json:"has_children"` // 是否有子分类
}

// GetByID 查询分类详情
func (uc *QueryCategoriesUseCase) GetByID(ctx context.Context, id uint) (*CategoryDetailResponse, error) {
	c, err := uc.categoryService.GetCategoryByID(ctx, id)
	if err != nil {
		return nil, err
	}

	fullPath, err := uc.categoryService.FullPath(ctx, id)
	if err != nil {
		return nil, err
	}
	level, err := uc.categoryService.Level(ctx, id)
	if err != nil {
		return nil, err
	}
	bookCount, err := uc.categoryService.CountBooks(ctx, id)
	if err != nil {
		return nil, err
	}
	hasChildren, err := uc.categoryService.HasChildren(ctx, id)
	if err != nil {
		return nil, err
	}

	return &CategoryDetailResponse{
		CategoryDetail: *toCategoryDetail(c, level, fullPath),
		BookCount:      bookCount,
		HasChildren:    hasChildren,
	}, nil
}

// ListAll 查询全部分类
func (uc *QueryCategoriesUseCase) ListAll(ctx context.Context) ([]CategoryItem, error) {
	categories, err := uc.categoryService.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	return toCategoryItems(categories), nil
}

// ListRoots 查询根分类
func (uc *QueryCategoriesUseCase) ListRoots(ctx context.Context) ([]CategoryItem, error) {
	categories, err := uc.categoryService.ListRoots(ctx)
	if err != nil {
		return nil, err
	}
	return toCategoryItems(categories), nil
}

// ListChildren 查询直接子分类
func (uc *QueryCategoriesUseCase) ListChildren(ctx context.Context, parentID uint) ([]CategoryItem, error) {
	// 先确认父分类存在,让"查不存在分类的子节点"得到NotFound而不是空列表
	if _, err := uc.categoryService.GetCategoryByID(ctx, parentID); err != nil {
		return nil, err
	}

	categories, err := uc.categoryService.ListChildren(ctx, parentID)
	if err != nil {
		return nil, err
	}
	return toCategoryItems(categories), nil
}

// ListByLevel 查询指定层级的分类(根=0)
func (uc *QueryCategoriesUseCase) ListByLevel(ctx context.Context, level int) ([]CategoryItem, error) {
	categories, err := uc.categoryService.ListByLevel(ctx, level)
	if err != nil {
		return nil, err
	}
	return toCategoryItems(categories), nil
}

// Search 按名称模糊查找
func (uc *QueryCategoriesUseCase) Search(ctx context.Context, name string) ([]CategoryItem, error) {
	categories, err := uc.categoryService.SearchByName(ctx, name)
	if err != nil {
		return nil, err
	}
	return toCategoryItems(categories), nil
}

// ListWithBooks 查询有图书关联的分类
func (uc *QueryCategoriesUseCase) ListWithBooks(ctx context.Context) ([]CategoryItem, error) {
	categories, err := uc.categoryService.ListWithBooks(ctx)
	if err != nil {
		return nil, err
	}
	return toCategoryItems(categories), nil
}

// ListEmpty 查询没有图书关联的分类
func (uc *QueryCategoriesUseCase) ListEmpty(ctx context.Context) ([]CategoryItem, error) {
	categories, err := uc.categoryService.ListEmpty(ctx)
	if err != nil {
		return nil, err
	}
	return toCategoryItems(categories), nil
}
