package category

import (
	"context"

	"github.com/xiebiao/library/internal/domain/category"
)

// CreateCategoryUseCase 创建分类用例
// 设计说明:
// 1. 应用层负责用例编排,协调领域服务完成业务流程
// 2. 输入输出使用DTO(Data Transfer Object),与HTTP层解耦
// 3. 业务规则校验(名称必填、父分类存在性)由领域服务负责
type CreateCategoryUseCase struct {
	categoryService category.Service
}

// NewCreateCategoryUseCase 创建分类创建用例
func NewCreateCategoryUseCase(categoryService category.Service) *CreateCategoryUseCase {
	return &CreateCategoryUseCase{
		categoryService: categoryService,
	}
}

// CreateCategoryRequest 创建分类请求DTO
type CreateCategoryRequest struct {
	Name        string // 分类名称
	Description string // 分类描述
	ParentID    *uint  // 父分类ID(nil表示创建根分类)
}

// Execute 执行创建分类用例
func (uc *CreateCategoryUseCase) Execute(ctx context.Context, req CreateCategoryRequest) (*CategoryDetail, error) {
	c, err := uc.categoryService.CreateCategory(ctx, req.Name, req.Description, req.ParentID)
	if err != nil {
		return nil, err
	}

	// 新建分类的路径即"父路径 > 自身",沿父链实时计算
	fullPath, err := uc.categoryService.FullPath(ctx, c.ID)
	if err != nil {
		return nil, err
	}
	level, err := uc.categoryService.Level(ctx, c.ID)
	if err != nil {
		return nil, err
	}

	return toCategoryDetail(c, level, fullPath), nil
}
