package book

import (
	"context"

	"github.com/xiebiao/library/internal/domain/book"
)

// CreateBookUseCase 创建图书用例
// 设计说明:
// 创建图书 + 建立分类关联在一个事务内执行,
// 图书行入库失败时不会留下悬挂的关联边
type CreateBookUseCase struct {
	bookService book.Service
	txManager   TxManager
}

// NewCreateBookUseCase 创建图书创建用例
func NewCreateBookUseCase(bookService book.Service, txManager TxManager) *CreateBookUseCase {
	return &CreateBookUseCase{
		bookService: bookService,
		txManager:   txManager,
	}
}

// CreateBookRequest 创建图书请求DTO
type CreateBookRequest struct {
	ISBN            string // ISBN号(10位或13位数字)
	Title           string // 书名
	Author          string // 作者
	Publisher       string // 出版社(可选)
	PublicationYear int    // 出版年份(可选)
	Genre           string // 体裁(可选)
	Summary         string // 内容简介(可选)
	TotalCopies     *int   // 馆藏册数(nil时缺省为1)
	CategoryIDs     []uint // 初始分类(无法解析的ID跳过)
}

// Execute 执行创建图书用例
func (uc *CreateBookUseCase) Execute(ctx context.Context, req CreateBookRequest) (*BookDetail, error) {
	var created *book.Book
	err := uc.txManager.Transaction(ctx, func(txCtx context.Context) error {
		b, err := uc.bookService.CreateBook(txCtx, book.CreateBookParams{
			ISBN:            req.ISBN,
			Title:           req.Title,
			Author:          req.Author,
			Publisher:       req.Publisher,
			PublicationYear: req.PublicationYear,
			Genre:           req.Genre,
			Summary:         req.Summary,
			TotalCopies:     req.TotalCopies,
			CategoryIDs:     req.CategoryIDs,
		})
		if err != nil {
			return err
		}
		created = b
		return nil
	})
	if err != nil {
		return nil, err
	}

	categories, err := uc.bookService.ListCategories(ctx, created.ID)
	if err != nil {
		return nil, err
	}

	return toBookDetail(created, categories), nil
}
