package category

import (
	"context"

	"github.com/xiebiao/library/internal/domain/category"
)
// DeleteCategoryUseCase 删除分类用例
// 设计说明:
// 删除是一组写操作(N个子节点改挂 + 清除图书关联边 + 软删除自身),
// 必须整体运行在一个事务内:任何一步失败全部回滚,
// 绝不能出现"部分子节点上提、部分子节点指向已停用父节点"的中间状态
type DeleteCategoryUseCase struct {
	categoryService category.Service
	txManager       TxManager
}

// NewDeleteCategoryUseCase 创建分类删除用例
func NewDeleteCategoryUseCase(categoryService category.Service, txManager TxManager) *DeleteCategoryUseCase {
	return &DeleteCategoryUseCase{
		categoryService: categoryService,
		txManager:       txManager,
	}
}

// Execute 执行删除分类用例
// 净效果:被删节点的子节点整体上提一层(挂到被删节点的父节点下,
// 被删的是根则子节点变成新的根),图书关联边清除,行软删除保留
func (uc *DeleteCategoryUseCase) Execute(ctx context.Context, id uint) error {
	return uc.txManager.Transaction(ctx, func(txCtx context.Context) error {
		return uc.categoryService.DeleteCategory(txCtx, id)
	})
}
