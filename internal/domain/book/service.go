package book

import (
	"context"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/xiebiao/library/internal/domain/category"
	"github.com/xiebiao/library/pkg/logger"
)

// DefaultLowStockThreshold 低库存默认阈值
const DefaultLowStockThreshold = 3

// Service 图书目录领域服务接口(关联引擎)
// 设计说明:
// 1. 负责图书生命周期、馆藏计数算术、图书↔分类关联的双向一致性
// 2. 分类的存在性/Active校验委托给分类层级服务(不直接查分类存储)
// 3. 错误策略:遇到第一个阻断性错误即中止整个操作(由应用层事务回滚);
//    唯一例外是创建/更新时的分类关联——无法解析的分类ID跳过并记录日志,
//    保证批量导入场景下的部分成功(刻意的可用性取舍,勿推广到其他路径)
type Service interface {
	// CreateBook 创建图书
	// 业务规则:
	// - ISBN必填且格式合法(10位或13位数字),书名、作者必填
	// - ISBN不能重复(Conflict)
	// - TotalCopies缺省为1,可借册数初始化为同值,状态AVAILABLE
	// - CategoryIDs中无法解析的ID跳过,不导致整个操作失败
	CreateBook(ctx context.Context, params CreateBookParams) (*Book, error)

	// UpdateBook 更新图书(nil字段不修改)
	// 业务规则:
	// - ISBN有变化时重新校验唯一性
	// - TotalCopies变化按差值传导到可借册数并夹取到[0, newTotal]
	// - CategoryIDs非nil时(包括空切片)整体替换全部分类关联
	// - 调用方(应用层)负责用事务包裹,内部用悲观锁防止并发丢失更新
	UpdateBook(ctx context.Context, id uint, params UpdateBookParams) (*Book, error)

	// DeleteBook 删除图书(物理删除,先清除全部分类关联)
	DeleteBook(ctx context.Context, id uint) error

	// AddToCategory 把图书加入分类(幂等)
	AddToCategory(ctx context.Context, bookID, categoryID uint) error

	// RemoveFromCategory 把图书移出分类(幂等)
	RemoveFromCategory(ctx context.Context, bookID, categoryID uint) error

	// GetBookByID 根据ID获取图书
	GetBookByID(ctx context.Context, id uint) (*Book, error)

	// GetBookByISBN 根据ISBN获取图书
	GetBookByISBN(ctx context.Context, isbn string) (*Book, error)

	// ListAll 查询全部图书
	ListAll(ctx context.Context) ([]*Book, error)

	// SearchByTitle 按书名模糊查找
	SearchByTitle(ctx context.Context, title string) ([]*Book, error)

	// SearchByAuthor 按作者模糊查找
	SearchByAuthor(ctx context.Context, author string) ([]*Book, error)

	// ListByCategory 查询分类下的图书
	ListByCategory(ctx context.Context, categoryID uint) ([]*Book, error)

	// Search 组合条件分页查询
	Search(ctx context.Context, params SearchParams) ([]*Book, int64, error)

	// ListLowStock 查询低库存图书(threshold为nil时使用默认阈值3)
	ListLowStock(ctx context.Context, threshold *int) ([]*Book, error)

	// ListUncategorized 查询没有任何分类关联的图书
	ListUncategorized(ctx context.Context) ([]*Book, error)

	// ListCategories 查询图书所属的分类(关联的反向视图)
	ListCategories(ctx context.Context, bookID uint) ([]*category.Category, error)
}

// CreateBookParams 创建图书参数
// TotalCopies用指针区分"未指定"(缺省1)和显式的0
type CreateBookParams struct {
	ISBN            string
	Title           string
	Author          string
	Publisher       string
	PublicationYear int
	Genre           string
	Summary         string
	TotalCopies     *int
	CategoryIDs     []uint
}

// UpdateBookParams 更新图书参数(nil表示不修改)
// CategoryIDs非nil时整体替换关联:传空切片表示清空全部分类
type UpdateBookParams struct {
	ISBN            *string
	Title           *string
	Author          *string
	Publisher       *string
	PublicationYear *int
	Genre           *string
	Summary         *string
	TotalCopies     *int
	Status          *Status
	CategoryIDs     *[]uint
}

// service 领域服务实现
type service struct {
	repo       Repository
	categories category.Service
}

// NewService 创建图书目录领域服务
func NewService(repo Repository, categories category.Service) Service {
	return &service{repo: repo, categories: categories}
}

// CreateBook 创建图书
func (s *service) CreateBook(ctx context.Context, params CreateBookParams) (*Book, error) {
	// 1. 必填字段校验
	if strings.TrimSpace(params.ISBN) == "" {
		return nil, ErrISBNRequired
	}
	if strings.TrimSpace(params.Title) == "" {
		return nil, ErrTitleRequired
	}
	if strings.TrimSpace(params.Author) == "" {
		return nil, ErrAuthorRequired
	}

	// 2. ISBN格式校验
	if !isValidISBN(params.ISBN) {
		return nil, ErrInvalidISBN
	}

	// 3. 馆藏册数:缺省为1,显式负数拒绝
	totalCopies := 1
	if params.TotalCopies != nil {
		if *params.TotalCopies < 0 {
			return nil, ErrNegativeCopies
		}
		totalCopies = *params.TotalCopies
	}

	// 4. ISBN唯一性校验
	exists, err := s.repo.ExistsByISBN(ctx, params.ISBN)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrISBNDuplicate
	}

	// 5. 创建实体并持久化
	b := NewBook(params.ISBN, params.Title, params.Author, params.Publisher,
		params.PublicationYear, params.Genre, params.Summary, totalCopies)
	if err := s.repo.Create(ctx, b); err != nil {
		return nil, err
	}

	// 6. 建立分类关联(best-effort:无法解析的ID跳过并记录日志)
	s.linkCategories(ctx, b.ID, params.CategoryIDs)

	return b, nil
}

// UpdateBook 更新图书
// 并发说明:馆藏册数的差值算术必须是"锁定读-计算-写回"一个原子单元,
// 两个并发更新不能基于同一个旧值各算各的差值(丢失更新)。
// 这里用LockByID加行锁,锁的生命周期由应用层事务决定
func (s *service) UpdateBook(ctx context.Context, id uint, params UpdateBookParams) (*Book, error) {
	// 1. 锁定读取
	b, err := s.repo.LockByID(ctx, id)
	if err != nil {
		return nil, err
	}

	// 2. ISBN变化时重新校验格式和唯一性
	if params.ISBN != nil && *params.ISBN != b.ISBN {
		if !isValidISBN(*params.ISBN) {
			return nil, ErrInvalidISBN
		}
		exists, err := s.repo.ExistsByISBN(ctx, *params.ISBN)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, ErrISBNDuplicate
		}
		b.ISBN = *params.ISBN
	}

	// 3. 必填字段不允许改成空串
	if params.Title != nil && strings.TrimSpace(*params.Title) == "" {
		return nil, ErrTitleRequired
	}
	if params.Author != nil && strings.TrimSpace(*params.Author) == "" {
		return nil, ErrAuthorRequired
	}

	// 4. 更新基本信息
	b.UpdateInfo(params.Title, params.Author, params.Publisher,
		params.PublicationYear, params.Genre, params.Summary)

	// 5. 显式状态设置
	if params.Status != nil {
		b.SetStatus(*params.Status)
	}

	// 6. 馆藏册数差值传导(见entity.ApplyTotalCopies的夹取规则)
	if params.TotalCopies != nil {
		if err := b.ApplyTotalCopies(*params.TotalCopies); err != nil {
			return nil, err
		}
	}

	// 7. 分类关联整体替换(非nil才替换;空切片=清空)
	if params.CategoryIDs != nil {
		if err := s.repo.ClearCategoryLinks(ctx, id); err != nil {
			return nil, err
		}
		s.linkCategories(ctx, id, *params.CategoryIDs)
	}

	// 8. 持久化
	if err := s.repo.Update(ctx, b); err != nil {
		return nil, err
	}

	return b, nil
}

// DeleteBook 删除图书
// 与分类的软删除不同,图书是物理删除:先清除关联边(两侧视图同时失效),
// 再删除记录本身
func (s *service) DeleteBook(ctx context.Context, id uint) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return err
	}

	if err := s.repo.ClearCategoryLinks(ctx, id); err != nil {
		return err
	}

	return s.repo.Delete(ctx, id)
}

// AddToCategory 把图书加入分类
// 双方都必须存在(分类还要求Active),关联边幂等添加
func (s *service) AddToCategory(ctx context.Context, bookID, categoryID uint) error {
	if _, err := s.repo.FindByID(ctx, bookID); err != nil {
		return err
	}
	if _, err := s.categories.GetCategoryByID(ctx, categoryID); err != nil {
		return category.ErrCategoryNotFound
	}

	return s.repo.AddCategoryLink(ctx, bookID, categoryID)
}

// RemoveFromCategory 把图书移出分类(移除不存在的边是no-op)
func (s *service) RemoveFromCategory(ctx context.Context, bookID, categoryID uint) error {
	if _, err := s.repo.FindByID(ctx, bookID); err != nil {
		return err
	}
	if _, err := s.categories.GetCategoryByID(ctx, categoryID); err != nil {
		return category.ErrCategoryNotFound
	}

	return s.repo.RemoveCategoryLink(ctx, bookID, categoryID)
}

// GetBookByID 根据ID获取图书
func (s *service) GetBookByID(ctx context.Context, id uint) (*Book, error) {
	return s.repo.FindByID(ctx, id)
}

// GetBookByISBN 根据ISBN获取图书
func (s *service) GetBookByISBN(ctx context.Context, isbn string) (*Book, error) {
	return s.repo.FindByISBN(ctx, isbn)
}

// ListAll 查询全部图书
func (s *service) ListAll(ctx context.Context) ([]*Book, error) {
	return s.repo.FindAll(ctx)
}

// SearchByTitle 按书名模糊查找
func (s *service) SearchByTitle(ctx context.Context, title string) ([]*Book, error) {
	return s.repo.SearchByTitle(ctx, title)
}

// SearchByAuthor 按作者模糊查找
func (s *service) SearchByAuthor(ctx context.Context, author string) ([]*Book, error) {
	return s.repo.SearchByAuthor(ctx, author)
}

// ListByCategory 查询分类下的图书
func (s *service) ListByCategory(ctx context.Context, categoryID uint) ([]*Book, error) {
	if _, err := s.categories.GetCategoryByID(ctx, categoryID); err != nil {
		return nil, category.ErrCategoryNotFound
	}
	return s.repo.FindByCategoryID(ctx, categoryID)
}

// Search 组合条件分页查询
func (s *service) Search(ctx context.Context, params SearchParams) ([]*Book, int64, error) {
	if params.Page < 1 {
		params.Page = 1
	}
	if params.PageSize < 1 {
		params.PageSize = 20
	}
	if params.PageSize > 100 {
		params.PageSize = 100
	}
	return s.repo.Search(ctx, params)
}

// ListLowStock 查询低库存图书
func (s *service) ListLowStock(ctx context.Context, threshold *int) ([]*Book, error) {
	t := DefaultLowStockThreshold
	if threshold != nil {
		t = *threshold
	}
	return s.repo.FindLowStock(ctx, t)
}

// ListUncategorized 查询没有任何分类关联的图书
func (s *service) ListUncategorized(ctx context.Context) ([]*Book, error) {
	return s.repo.FindUncategorized(ctx)
}

// ListCategories 查询图书所属的分类
// 停用的分类被过滤掉(边可能仍指向已软删除的分类行)
func (s *service) ListCategories(ctx context.Context, bookID uint) ([]*category.Category, error) {
	if _, err := s.repo.FindByID(ctx, bookID); err != nil {
		return nil, err
	}

	ids, err := s.repo.CategoryIDs(ctx, bookID)
	if err != nil {
		return nil, err
	}

	var result []*category.Category
	for _, id := range ids {
		c, err := s.categories.GetCategoryByID(ctx, id)
		if err != nil {
			continue // 已停用的分类不出现在视图中
		}
		result = append(result, c)
	}
	return result, nil
}

// linkCategories 建立分类关联(best-effort策略)
// 无法解析为Active分类的ID跳过并记录告警,不中止操作——
// 这是为批量导入设计的可用性取舍,与其余路径的严格失败策略不同
func (s *service) linkCategories(ctx context.Context, bookID uint, categoryIDs []uint) {
	for _, cid := range categoryIDs {
		if _, err := s.categories.GetCategoryByID(ctx, cid); err != nil {
			logger.L().Warn("分类不存在或已停用,跳过关联",
				zap.Uint("book_id", bookID),
				zap.Uint("category_id", cid),
			)
			continue
		}
		if err := s.repo.AddCategoryLink(ctx, bookID, cid); err != nil {
			logger.L().Warn("建立分类关联失败,跳过",
				zap.Uint("book_id", bookID),
				zap.Uint("category_id", cid),
				zap.Error(err),
			)
		}
	}
}

// ISBN格式:去除分隔符后逐位校验
// - ISBN-13: 13位全数字,如9787115428028
// - ISBN-10: 前9位数字,末位数字或X校验位,如043942089X
// X只允许出现在ISBN-10的末位;简化实现不计算校验位的值
var (
	isbnSeparators = regexp.MustCompile(`[-\s]`)
	isbn13Pattern  = regexp.MustCompile(`^[0-9]{13}$`)
	isbn10Pattern  = regexp.MustCompile(`^[0-9]{9}[0-9Xx]$`)
)

// isValidISBN 校验ISBN格式
func isValidISBN(isbn string) bool {
	clean := isbnSeparators.ReplaceAllString(isbn, "")
	return isbn13Pattern.MatchString(clean) || isbn10Pattern.MatchString(clean)
}
