package report

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/library/internal/domain/book"
	"github.com/xiebiao/library/internal/domain/category"
)

// fakeBookService 只实现报表用到的查询方法,其余方法panic
type fakeBookService struct {
	book.Service
	books         []*book.Book
	lowStock      []*book.Book
	uncategorized []*book.Book
}

func (s *fakeBookService) ListAll(_ context.Context) ([]*book.Book, error) {
	return s.books, nil
}

func (s *fakeBookService) ListLowStock(_ context.Context, _ *int) ([]*book.Book, error) {
	return s.lowStock, nil
}

func (s *fakeBookService) ListUncategorized(_ context.Context) ([]*book.Book, error) {
	return s.uncategorized, nil
}

// fakeCategoryService 只实现报表用到的查询方法
type fakeCategoryService struct {
	category.Service
	all       []*category.Category
	roots     []*category.Category
	empty     []*category.Category
	withBooks []*category.Category
}

func (s *fakeCategoryService) ListAll(_ context.Context) ([]*category.Category, error) {
	return s.all, nil
}

func (s *fakeCategoryService) ListRoots(_ context.Context) ([]*category.Category, error) {
	return s.roots, nil
}

func (s *fakeCategoryService) ListEmpty(_ context.Context) ([]*category.Category, error) {
	return s.empty, nil
}

func (s *fakeCategoryService) ListWithBooks(_ context.Context) ([]*category.Category, error) {
	return s.withBooks, nil
}

func testBook(id uint, title, genre string, year, total, available int, status book.Status) *book.Book {
	return &book.Book{
		ID:              id,
		ISBN:            "9787115428028",
		Title:           title,
		Author:          "作者",
		Genre:           genre,
		PublicationYear: year,
		TotalCopies:     total,
		AvailableCopies: available,
		Status:          status,
	}
}

func testCategory(id uint, name string, parentID *uint) *category.Category {
	return &category.Category{ID: id, Name: name, ParentID: parentID, Active: true}
}

func TestCatalogReport(t *testing.T) {
	ctx := context.Background()

	b1 := testBook(1, "Neuromancer", "Sci-Fi", 1984, 5, 4, book.StatusAvailable)
	b2 := testBook(2, "Dune", "", 1984, 2, 0, book.StatusOutOfStock)
	b3 := testBook(3, "旧版教材", "Sci-Fi", 0, 3, 2, book.StatusDiscontinued)

	fiction := testCategory(1, "Fiction", nil)
	scifi := testCategory(2, "Sci-Fi", &fiction.ID)
	cyberpunk := testCategory(3, "Cyberpunk", &scifi.ID)
	history := testCategory(4, "History", nil)

	books := &fakeBookService{
		books:         []*book.Book{b1, b2, b3},
		lowStock:      []*book.Book{b2},
		uncategorized: []*book.Book{b3},
	}
	categories := &fakeCategoryService{
		all:       []*category.Category{fiction, scifi, cyberpunk, history},
		roots:     []*category.Category{fiction, history},
		empty:     []*category.Category{cyberpunk},
		withBooks: []*category.Category{fiction, scifi},
	}

	uc := NewCatalogReportUseCase(books, categories)
	report, err := uc.Execute(ctx)
	require.NoError(t, err)

	t.Run("馆藏总量统计", func(t *testing.T) {
		assert.Equal(t, 3, report.TotalBooks)
		assert.Equal(t, 10, report.TotalCopies)
		// b3虽有2册在架,DISCONTINUED不计入可借总数
		assert.Equal(t, 4, report.AvailableCopies)
	})

	t.Run("状态与体裁分布", func(t *testing.T) {
		assert.Equal(t, map[string]int{
			"AVAILABLE":    1,
			"OUT_OF_STOCK": 1,
			"DISCONTINUED": 1,
		}, report.StatusCounts)
		// 空体裁归入UNKNOWN
		assert.Equal(t, map[string]int{"Sci-Fi": 2, "UNKNOWN": 1}, report.GenreCounts)
	})

	t.Run("按出版年份分布", func(t *testing.T) {
		// b3未记录年份,不计入
		assert.Equal(t, map[int]int{1984: 2}, report.YearCounts)
	})

	t.Run("低库存与未分类", func(t *testing.T) {
		require.Len(t, report.LowStock, 1)
		assert.Equal(t, b2.ID, report.LowStock[0].ID)
		assert.Equal(t, b2.AvailableCopies, report.LowStock[0].AvailableCopies)
		assert.Equal(t, 1, report.UncategorizedCount)
	})

	t.Run("分类层级统计", func(t *testing.T) {
		assert.Equal(t, 4, report.TotalCategories)
		assert.Equal(t, 2, report.RootCategories)
		assert.Equal(t, map[int]int{0: 2, 1: 1, 2: 1}, report.LevelCounts)
		assert.Equal(t, 1, report.EmptyCategories)
		assert.Equal(t, 2, report.CategoriesWithBooks)
	})
}

func TestLevelCounts(t *testing.T) {
	t.Run("空快照", func(t *testing.T) {
		assert.Empty(t, levelCounts(nil))
	})

	t.Run("父链悬挂的节点不计入", func(t *testing.T) {
		missing := uint(99)
		counts := levelCounts([]*category.Category{
			testCategory(1, "Root", nil),
			testCategory(2, "Orphan", &missing),
		})
		assert.Equal(t, map[int]int{0: 1}, counts)
	})
}
