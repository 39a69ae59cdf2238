package book

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/xiebiao/library/internal/domain/book"
	"github.com/xiebiao/library/internal/domain/category"
	"github.com/xiebiao/library/pkg/logger"
)

// ImportBooksUseCase 批量导入图书用例(CSV)
// 设计说明:
// 1. 错误策略与其他写路径刻意不同:逐行处理,单行失败跳过并记录,
//    不中止整个导入——批量导入要的是部分成功,不是全有全无
// 2. 每一行自己一个事务:行内的"创建图书+建立关联"原子,行间互不影响
// 3. 分类按名称解析,不存在的分类自动创建为根分类
//    (导入文件只有名称,层级关系留给后续人工整理)
type ImportBooksUseCase struct {
	bookService     book.Service
	categoryService category.Service
	txManager       TxManager
}

// NewImportBooksUseCase 创建批量导入用例
func NewImportBooksUseCase(
	bookService book.Service,
	categoryService category.Service,
	txManager TxManager,
) *ImportBooksUseCase {
	return &ImportBooksUseCase{
		bookService:     bookService,
		categoryService: categoryService,
		txManager:       txManager,
	}
}

// ImportResult 导入结果统计
type ImportResult struct {
	Imported int      `json:"imported"` // 成功导入数
	Skipped  int      `json:"skipped"`  // 跳过数(重复ISBN、字段缺失等)
	Errors   []string `json:"errors"`   // 每个跳过行的原因(含行号)
}

// CSV列顺序:
// isbn,title,author,publisher,publication_year,genre,summary,total_copies,categories
// categories列用分号分隔多个分类名,如 "Fiction;Sci-Fi"
const (
	colISBN = iota
	colTitle
	colAuthor
	colPublisher
	colYear
	colGenre
	colSummary
	colTotalCopies
	colCategories
	columnCount
)

// Execute 执行批量导入
// 第一行是表头,自动跳过
func (uc *ImportBooksUseCase) Execute(ctx context.Context, r io.Reader) (*ImportResult, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // 列数校验自己做,给出带行号的错误信息
	reader.TrimLeadingSpace = true

	result := &ImportResult{}
	lineNo := 0

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("解析CSV失败: %w", err)
		}

		lineNo++
		if lineNo == 1 {
			continue // 表头
		}

		if err := uc.importRow(ctx, record); err != nil {
			result.Skipped++
			result.Errors = append(result.Errors, fmt.Sprintf("第%d行: %v", lineNo, err))
			logger.L().Warn("导入行跳过",
				zap.Int("line", lineNo),
				zap.Error(err),
			)
			continue
		}
		result.Imported++
	}

	logger.L().Info("图书批量导入完成",
		zap.Int("imported", result.Imported),
		zap.Int("skipped", result.Skipped),
	)
	return result, nil
}

// importRow 导入单行(一行一个事务)
func (uc *ImportBooksUseCase) importRow(ctx context.Context, record []string) error {
	if len(record) < columnCount {
		return fmt.Errorf("列数不足: 期望%d列,实际%d列", columnCount, len(record))
	}

	isbn := strings.TrimSpace(record[colISBN])
	title := strings.TrimSpace(record[colTitle])
	author := strings.TrimSpace(record[colAuthor])

	var year int
	if s := strings.TrimSpace(record[colYear]); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil {
			return fmt.Errorf("出版年份非法: %q", s)
		}
		year = v
	}

	var totalCopies *int
	if s := strings.TrimSpace(record[colTotalCopies]); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil {
			return fmt.Errorf("馆藏册数非法: %q", s)
		}
		totalCopies = &v
	}

	// 分类名 → 分类ID(不存在则创建为根分类)
	categoryIDs, err := uc.resolveCategories(ctx, record[colCategories])
	if err != nil {
		return err
	}

	return uc.txManager.Transaction(ctx, func(txCtx context.Context) error {
		_, err := uc.bookService.CreateBook(txCtx, book.CreateBookParams{
			ISBN:            isbn,
			Title:           title,
			Author:          author,
			Publisher:       strings.TrimSpace(record[colPublisher]),
			PublicationYear: year,
			Genre:           strings.TrimSpace(record[colGenre]),
			Summary:         strings.TrimSpace(record[colSummary]),
			TotalCopies:     totalCopies,
			CategoryIDs:     categoryIDs,
		})
		if errors.Is(err, book.ErrISBNDuplicate) {
			return fmt.Errorf("ISBN %s 已存在", isbn)
		}
		return err
	})
}

// resolveCategories 把分号分隔的分类名解析成分类ID,不存在的自动创建
func (uc *ImportBooksUseCase) resolveCategories(ctx context.Context, names string) ([]uint, error) {
	var ids []uint
	for _, name := range strings.Split(names, ";") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}

		id, err := uc.findCategoryByName(ctx, name)
		if err == nil {
			ids = append(ids, id)
			continue
		}

		// 不存在则创建为根分类
		c, err := uc.categoryService.CreateCategory(ctx, name, "", nil)
		if err != nil {
			return nil, fmt.Errorf("创建分类%q失败: %w", name, err)
		}
		ids = append(ids, c.ID)
	}
	return ids, nil
}

// findCategoryByName 按名称精确查找分类(模糊查找结果里筛精确匹配)
func (uc *ImportBooksUseCase) findCategoryByName(ctx context.Context, name string) (uint, error) {
	candidates, err := uc.categoryService.SearchByName(ctx, name)
	if err != nil {
		return 0, err
	}
	for _, c := range candidates {
		if strings.EqualFold(c.Name, name) {
			return c.ID, nil
		}
	}
	return 0, category.ErrCategoryNotFound
}
