package book

import (
	"context"

	"go.uber.org/zap"

	"github.com/xiebiao/library/internal/domain/book"
	"github.com/xiebiao/library/internal/infrastructure/persistence/redis"
	"github.com/xiebiao/library/pkg/logger"
)

// GetBookUseCase 图书详情查询用例
// 设计说明(Cache-Aside模式):
// 1. 先查缓存,命中直接返回
// 2. 未命中查数据库,回填缓存(带TTL)
// 3. 缓存只存图书行本身;所属分类每次实时查询——
//    分类可能被并发删除/改名,缓存它们会放大过期窗口
// 4. Redis故障降级为直接查库,只记录日志不报错
type GetBookUseCase struct {
	bookService book.Service
	cache       *redis.BookCache
}

// NewGetBookUseCase 创建图书详情查询用例
func NewGetBookUseCase(bookService book.Service, cache *redis.BookCache) *GetBookUseCase {
	return &GetBookUseCase{
		bookService: bookService,
		cache:       cache,
	}
}

// Execute 执行详情查询用例
func (uc *GetBookUseCase) Execute(ctx context.Context, id uint) (*BookDetail, error) {
	// 1. 查缓存
	b, err := uc.cache.Get(ctx, id)
	if err != nil {
		// Redis故障降级为查库
		logger.L().Warn("读取图书详情缓存失败,回源数据库", zap.Uint("book_id", id), zap.Error(err))
	}

	// 2. 未命中则查库并回填
	if b == nil {
		b, err = uc.bookService.GetBookByID(ctx, id)
		if err != nil {
			return nil, err
		}

		if err := uc.cache.Set(ctx, b); err != nil {
			logger.L().Warn("写入图书详情缓存失败", zap.Uint("book_id", id), zap.Error(err))
		}
	}

	// 3. 所属分类实时查询
	categories, err := uc.bookService.ListCategories(ctx, id)
	if err != nil {
		return nil, err
	}

	return toBookDetail(b, categories), nil
}

// ExecuteByISBN 按ISBN查询详情(不走缓存,ISBN查询频率低)
func (uc *GetBookUseCase) ExecuteByISBN(ctx context.Context, isbn string) (*BookDetail, error) {
	b, err := uc.bookService.GetBookByISBN(ctx, isbn)
	if err != nil {
		return nil, err
	}

	categories, err := uc.bookService.ListCategories(ctx, b.ID)
	if err != nil {
		return nil, err
	}

	return toBookDetail(b, categories), nil
}
