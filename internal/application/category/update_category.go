package category

import (
	"context"

	"github.com/xiebiao/library/internal/domain/category"
)

// UpdateCategoryUseCase 更新分类用例
// 设计说明:
// 改挂(换父节点)是"检查环→写parent_id"两步,必须在同一事务内执行,
// 否则两个并发改挂可能各自通过环检测后合起来把树改成环
// (A挂到B下、B挂到A下同时提交)。事务内MySQL的行锁把两步串行化
type UpdateCategoryUseCase struct {
	categoryService category.Service
	txManager       TxManager
}

// NewUpdateCategoryUseCase 创建分类更新用例
func NewUpdateCategoryUseCase(categoryService category.Service, txManager TxManager) *UpdateCategoryUseCase {
	return &UpdateCategoryUseCase{
		categoryService: categoryService,
		txManager:       txManager,
	}
}

// UpdateCategoryRequest 更新分类请求DTO(nil字段不修改)
type UpdateCategoryRequest struct {
	Name        *string // 新名称(nil不修改)
	Description *string // 新描述(nil不修改)
	ParentID    *uint   // 新父分类ID(nil不改挂)
}

// Execute 执行更新分类用例
func (uc *UpdateCategoryUseCase) Execute(ctx context.Context, id uint, req UpdateCategoryRequest) (*CategoryDetail, error) {
	var updated *category.Category
	err := uc.txManager.Transaction(ctx, func(txCtx context.Context) error {
		c, err := uc.categoryService.UpdateCategory(txCtx, id, req.Name, req.Description, req.ParentID)
		if err != nil {
			return err
		}
		updated = c
		return nil
	})
	if err != nil {
		return nil, err
	}

	fullPath, err := uc.categoryService.FullPath(ctx, updated.ID)
	if err != nil {
		return nil, err
	}
	level, err := uc.categoryService.Level(ctx, updated.ID)
	if err != nil {
		return nil, err
	}

	return toCategoryDetail(updated, level, fullPath), nil
}
