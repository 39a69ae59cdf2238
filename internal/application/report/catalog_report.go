package report

import (
	"context"

	"github.com/xiebiao/library/internal/domain/book"
	"github.com/xiebiao/library/internal/domain/category"
)

// CatalogReportUseCase 目录统计报表用例(只读)
// 设计说明:
// 1. 一次全量扫描在内存中聚合(馆藏规模在万级,不值得为报表建物化视图)
// 2. 报表是时点快照,不保证与并发写严格一致,也不走缓存
type CatalogReportUseCase struct {
	bookService     book.Service
	categoryService category.Service
}

// NewCatalogReportUseCase 创建报表用例
func NewCatalogReportUseCase(bookService book.Service, categoryService category.Service) *CatalogReportUseCase {
	return &CatalogReportUseCase{
		bookService:     bookService,
		categoryService: categoryService,
	}
}

// CatalogReport 目录统计报表DTO
type CatalogReport struct {
	TotalBooks          int            `json:"total_books"`           // 图书种数
	TotalCopies         int            `json:"total_copies"`          // 馆藏总册数
	AvailableCopies     int            `json:"available_copies"`      // 可借总册数(仅AVAILABLE状态)
	StatusCounts        map[string]int `json:"status_counts"`         // 按状态分布
	GenreCounts         map[string]int `json:"genre_counts"`          // 按体裁分布(空体裁归入"UNKNOWN")
	YearCounts          map[int]int    `json:"year_counts"`           // 按出版年份分布(未记录年份的不计入)
	LowStock            []LowStockItem `json:"low_stock"`             // 低库存清单(默认阈值)
	UncategorizedCount  int            `json:"uncategorized_count"`   // 未分类图书数
	TotalCategories     int            `json:"total_categories"`      // 分类总数
	RootCategories      int            `json:"root_categories"`       // 根分类数
	LevelCounts         map[int]int    `json:"level_counts"`          // 按层级的分类数(根=0)
	EmptyCategories     int            `json:"empty_categories"`      // 空分类数
	CategoriesWithBooks int            `json:"categories_with_books"` // 有图书的分类数
}

// LowStockItem 低库存清单项
type LowStockItem struct {
	ID              uint   `json:"id"`
	ISBN            string `json:"isbn"`
	Title           string `json:"title"`
	AvailableCopies int    `json:"available_copies"`
}

// Execute 生成目录统计报表
func (uc *CatalogReportUseCase) Execute(ctx context.Context) (*CatalogReport, error) {
	books, err := uc.bookService.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	report := &CatalogReport{
		TotalBooks:   len(books),
		StatusCounts: make(map[string]int),
		GenreCounts:  make(map[string]int),
		YearCounts:   make(map[int]int),
	}

	for _, b := range books {
		report.TotalCopies += b.TotalCopies
		// 可借总册数只统计AVAILABLE:下架/维护中的册数不对外可借
		if b.Status == book.StatusAvailable {
			report.AvailableCopies += b.AvailableCopies
		}
		report.StatusCounts[string(b.Status)]++

		genre := b.Genre
		if genre == "" {
			genre = "UNKNOWN"
		}
		report.GenreCounts[genre]++

		if b.PublicationYear > 0 {
			report.YearCounts[b.PublicationYear]++
		}
	}

	lowStock, err := uc.bookService.ListLowStock(ctx, nil)
	if err != nil {
		return nil, err
	}
	report.LowStock = make([]LowStockItem, len(lowStock))
	for i, b := range lowStock {
		report.LowStock[i] = LowStockItem{
			ID:              b.ID,
			ISBN:            b.ISBN,
			Title:           b.Title,
			AvailableCopies: b.AvailableCopies,
		}
	}

	uncategorized, err := uc.bookService.ListUncategorized(ctx)
	if err != nil {
		return nil, err
	}
	report.UncategorizedCount = len(uncategorized)

	all, err := uc.categoryService.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	report.TotalCategories = len(all)
	report.LevelCounts = levelCounts(all)

	roots, err := uc.categoryService.ListRoots(ctx)
	if err != nil {
		return nil, err
	}
	report.RootCategories = len(roots)

	empty, err := uc.categoryService.ListEmpty(ctx)
	if err != nil {
		return nil, err
	}
	report.EmptyCategories = len(empty)

	withBooks, err := uc.categoryService.ListWithBooks(ctx)
	if err != nil {
		return nil, err
	}
	report.CategoriesWithBooks = len(withBooks)

	return report, nil
}

// levelCounts 在一份分类快照上沿父链计算每个节点的深度并按层计数(根=0)
// 与层级查询同一套内存上溯算法:带记忆化,父链异常(环/悬挂指针)的节点不计入
func levelCounts(all []*category.Category) map[int]int {
	byID := make(map[uint]*category.Category, len(all))
	for _, c := range all {
		byID[c.ID] = c
	}

	memo := make(map[uint]int, len(all))
	var depth func(c *category.Category, seen map[uint]bool) int
	depth = func(c *category.Category, seen map[uint]bool) int {
		if d, ok := memo[c.ID]; ok {
			return d
		}
		if seen[c.ID] {
			return -1
		}
		seen[c.ID] = true

		d := 0
		if c.ParentID != nil {
			parent, ok := byID[*c.ParentID]
			if !ok {
				return -1
			}
			pd := depth(parent, seen)
			if pd < 0 {
				return -1
			}
			d = pd + 1
		}
		memo[c.ID] = d
		return d
	}

	counts := make(map[int]int)
	for _, c := range all {
		if d := depth(c, make(map[uint]bool)); d >= 0 {
			counts[d]++
		}
	}
	return counts
}
