package book

import (
	"context"

	"go.uber.org/zap"

	"github.com/xiebiao/library/internal/domain/book"
	"github.com/xiebiao/library/internal/infrastructure/persistence/redis"
	"github.com/xiebiao/library/pkg/logger"
)

// DeleteBookUseCase 删除图书用例
// 设计说明:
// 清除关联边 + 删除图书行在一个事务内执行(物理删除),
// 提交后删除详情缓存
type DeleteBookUseCase struct {
	bookService book.Service
	txManager   TxManager
	cache       *redis.BookCache
}

// NewDeleteBookUseCase 创建图书删除用例
func NewDeleteBookUseCase(bookService book.Service, txManager TxManager, cache *redis.BookCache) *DeleteBookUseCase {
	return &DeleteBookUseCase{
		bookService: bookService,
		txManager:   txManager,
		cache:       cache,
	}
}

// Execute 执行删除图书用例
func (uc *DeleteBookUseCase) Execute(ctx context.Context, id uint) error {
	err := uc.txManager.Transaction(ctx, func(txCtx context.Context) error {
		return uc.bookService.DeleteBook(txCtx, id)
	})
	if err != nil {
		return err
	}

	if err := uc.cache.Delete(ctx, id); err != nil {
		logger.L().Warn("删除图书详情缓存失败", zap.Uint("book_id", id), zap.Error(err))
	}
	return nil
}
