package book

import (
	"context"

	"go.uber.org/zap"

	"github.com/xiebiao/library/internal/domain/book"
	"github.com/xiebiao/library/internal/infrastructure/persistence/redis"
	"github.com/xiebiao/library/pkg/logger"
)

// UpdateBookUseCase 更新图书用例
// 设计说明:
// 1. 整个更新(锁定读 → 差值算术 → 关联替换 → 写回)在一个事务内执行,
//    悲观锁防止两个并发的馆藏调整基于同一旧值各算各的差值(丢失更新)
// 2. 缓存一致性:事务提交后删除详情缓存(删除而非更新,
//    避免并发写互相覆盖),下次读取回源加载最新数据
type UpdateBookUseCase struct {
	bookService book.Service
	txManager   TxManager
	cache       *redis.BookCache
}

// NewUpdateBookUseCase 创建图书更新用例
func NewUpdateBookUseCase(bookService book.Service, txManager TxManager, cache *redis.BookCache) *UpdateBookUseCase {
	return &UpdateBookUseCase{
		bookService: bookService,
		txManager:   txManager,
		cache:       cache,
	}
}

// UpdateBookRequest 更新图书请求DTO(nil字段不修改)
type UpdateBookRequest struct {
	ISBN            *string // 新ISBN(nil不修改,有变化时重新校验唯一性)
	Title           *string
	Author          *string
	Publisher       *string
	PublicationYear *int
	Genre           *string
	Summary         *string
	TotalCopies     *int    // 新馆藏册数(差值传导到可借册数)
	Status          *string // 显式状态(DISCONTINUED/MAINTENANCE等)
	CategoryIDs     *[]uint // 非nil时整体替换分类关联(空切片=清空)
}

// Execute 执行更新图书用例
func (uc *UpdateBookUseCase) Execute(ctx context.Context, id uint, req UpdateBookRequest) (*BookDetail, error) {
	params := book.UpdateBookParams{
		ISBN:            req.ISBN,
		Title:           req.Title,
		Author:          req.Author,
		Publisher:       req.Publisher,
		PublicationYear: req.PublicationYear,
		Genre:           req.Genre,
		Summary:         req.Summary,
		TotalCopies:     req.TotalCopies,
		CategoryIDs:     req.CategoryIDs,
	}
	if req.Status != nil {
		status := book.Status(*req.Status)
		params.Status = &status
	}

	var updated *book.Book
	err := uc.txManager.Transaction(ctx, func(txCtx context.Context) error {
		b, err := uc.bookService.UpdateBook(txCtx, id, params)
		if err != nil {
			return err
		}
		updated = b
		return nil
	})
	if err != nil {
		return nil, err
	}

	// 事务已提交,删除过期的详情缓存
	// 删除失败只记录日志:缓存有TTL兜底,不能因为Redis抖动让更新报错
	if err := uc.cache.Delete(ctx, id); err != nil {
		logger.L().Warn("删除图书详情缓存失败", zap.Uint("book_id", id), zap.Error(err))
	}

	categories, err := uc.bookService.ListCategories(ctx, id)
	if err != nil {
		return nil, err
	}

	return toBookDetail(updated, categories), nil
}
