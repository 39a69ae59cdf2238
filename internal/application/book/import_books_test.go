package book

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/library/internal/domain/book"
	"github.com/xiebiao/library/internal/domain/category"
)

// passthroughTx 直通事务实现,直接执行fn
type passthroughTx struct{}

func (passthroughTx) Transaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// fakeBookService 只实现导入用到的CreateBook,按领域服务同样的规则做必填
// 与ISBN重复校验,其余方法panic
type fakeBookService struct {
	book.Service
	created []book.CreateBookParams
	isbns   map[string]bool
}

func newFakeBookService() *fakeBookService {
	return &fakeBookService{isbns: make(map[string]bool)}
}

func (s *fakeBookService) CreateBook(_ context.Context, params book.CreateBookParams) (*book.Book, error) {
	if strings.TrimSpace(params.ISBN) == "" {
		return nil, book.ErrISBNRequired
	}
	if strings.TrimSpace(params.Title) == "" {
		return nil, book.ErrTitleRequired
	}
	if strings.TrimSpace(params.Author) == "" {
		return nil, book.ErrAuthorRequired
	}
	if s.isbns[params.ISBN] {
		return nil, book.ErrISBNDuplicate
	}
	s.isbns[params.ISBN] = true
	s.created = append(s.created, params)

	total := 1
	if params.TotalCopies != nil {
		total = *params.TotalCopies
	}
	return book.NewBook(params.ISBN, params.Title, params.Author, params.Publisher,
		params.PublicationYear, params.Genre, params.Summary, total), nil
}

// fakeCategoryService 按名称维护分类,实现导入用到的SearchByName/CreateCategory
type fakeCategoryService struct {
	category.Service
	nextID uint
	byName map[string]*category.Category
}

func newFakeCategoryService() *fakeCategoryService {
	return &fakeCategoryService{nextID: 1, byName: make(map[string]*category.Category)}
}

func (s *fakeCategoryService) SearchByName(_ context.Context, name string) ([]*category.Category, error) {
	var result []*category.Category
	for _, c := range s.byName {
		if strings.Contains(strings.ToLower(c.Name), strings.ToLower(name)) {
			result = append(result, c)
		}
	}
	return result, nil
}

func (s *fakeCategoryService) CreateCategory(_ context.Context, name, description string, parentID *uint) (*category.Category, error) {
	c := category.NewCategory(name, description, parentID)
	c.ID = s.nextID
	s.nextID++
	s.byName[name] = c
	return c, nil
}

const csvHeader = "isbn,title,author,publisher,publication_year,genre,summary,total_copies,categories\n"

func TestImportBooks(t *testing.T) {
	ctx := context.Background()

	newUseCase := func() (*ImportBooksUseCase, *fakeBookService, *fakeCategoryService) {
		books := newFakeBookService()
		categories := newFakeCategoryService()
		uc := NewImportBooksUseCase(books, categories, passthroughTx{})
		return uc, books, categories
	}

	t.Run("全部成功", func(t *testing.T) {
		uc, books, _ := newUseCase()

		csv := csvHeader +
			"9787115428028,Neuromancer,William Gibson,Ace Books,1984,Science Fiction,,5,Fiction;Sci-Fi\n" +
			"9780441172719,Dune,Frank Herbert,Chilton,1965,Science Fiction,,3,Sci-Fi\n"

		result, err := uc.Execute(ctx, strings.NewReader(csv))
		require.NoError(t, err)
		assert.Equal(t, 2, result.Imported)
		assert.Zero(t, result.Skipped)
		assert.Empty(t, result.Errors)
		require.Len(t, books.created, 2)
	})

	t.Run("分类按名称解析_不存在的自动创建且复用", func(t *testing.T) {
		uc, books, categories := newUseCase()

		csv := csvHeader +
			"9787115428028,Neuromancer,William Gibson,,,,,1,Fiction;Sci-Fi\n" +
			"9780441172719,Dune,Frank Herbert,,,,,1,Sci-Fi\n"

		_, err := uc.Execute(ctx, strings.NewReader(csv))
		require.NoError(t, err)

		// Sci-Fi只创建一次,两本书复用同一个ID
		assert.Len(t, categories.byName, 2)
		require.Len(t, books.created, 2)
		sciFiID := categories.byName["Sci-Fi"].ID
		assert.Contains(t, books.created[0].CategoryIDs, sciFiID)
		assert.Contains(t, books.created[1].CategoryIDs, sciFiID)
	})

	t.Run("单行失败跳过不中止", func(t *testing.T) {
		uc, books, _ := newUseCase()

		csv := csvHeader +
			"9787115428028,Neuromancer,William Gibson,,,,,1,\n" +
			",No ISBN,Somebody,,,,,1,\n" + // ISBN缺失
			"9787115428028,Duplicate,Somebody,,,,,1,\n" + // ISBN重复
			"9780441172719,Dune,Frank Herbert,,abcd,,,1,\n" + // 年份非法
			"9780143127741,Valid Again,Author,,,,,2,\n"

		result, err := uc.Execute(ctx, strings.NewReader(csv))
		require.NoError(t, err)
		assert.Equal(t, 2, result.Imported)
		assert.Equal(t, 3, result.Skipped)
		require.Len(t, result.Errors, 3)
		assert.Contains(t, result.Errors[1], "已存在")
		assert.Len(t, books.created, 2)
	})

	t.Run("列数不足跳过", func(t *testing.T) {
		uc, _, _ := newUseCase()

		csv := csvHeader + "9787115428028,OnlyTwoColumns\n"

		result, err := uc.Execute(ctx, strings.NewReader(csv))
		require.NoError(t, err)
		assert.Zero(t, result.Imported)
		assert.Equal(t, 1, result.Skipped)
	})

	t.Run("馆藏册数省略缺省为1", func(t *testing.T) {
		uc, books, _ := newUseCase()

		csv := csvHeader + "9787115428028,Neuromancer,William Gibson,,,,,,\n"

		result, err := uc.Execute(ctx, strings.NewReader(csv))
		require.NoError(t, err)
		assert.Equal(t, 1, result.Imported)
		require.Len(t, books.created, 1)
		assert.Nil(t, books.created[0].TotalCopies, "未指定时交由领域服务取缺省值")
	})
}
