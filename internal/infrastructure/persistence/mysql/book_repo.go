package mysql

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/xiebiao/library/internal/domain/book"
	apperrors "github.com/xiebiao/library/pkg/errors"
)

// bookRepository 图书仓储实现(MySQL,目录存储)
// 设计说明:
// 1. 实现domain/book/repository.go定义的接口
// 2. 负责domain实体与GORM模型之间的转换
// 3. 处理数据库特定的错误(如ISBN重复),转换为业务错误
// 4. 关联边表book_categories也由这里维护(幂等插入/删除)
type bookRepository struct {
	db *gorm.DB
}

// NewBookRepository 创建图书仓储
func NewBookRepository(db *gorm.DB) book.Repository {
	return &bookRepository{db: db}
}

// Create 创建图书
func (r *bookRepository) Create(ctx context.Context, b *book.Book) error {
	model := toBookModel(b)
	model.ID = 0

	if err := getDB(ctx, r.db).Create(model).Error; err != nil {
		// ISBN唯一索引冲突 → 业务错误
		if isDuplicateError(err) {
			return book.ErrISBNDuplicate
		}
		return apperrors.Wrap(err, "创建图书失败")
	}

	// 回填自增ID
	b.ID = model.ID
	b.CreatedAt = model.CreatedAt
	b.UpdatedAt = model.UpdatedAt

	return nil
}

// FindByID 根据ID查找图书
func (r *bookRepository) FindByID(ctx context.Context, id uint) (*book.Book, error) {
	var model BookModel
	err := getDB(ctx, r.db).First(&model, id).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, book.ErrBookNotFound
		}
		return nil, apperrors.Wrap(err, "查询图书失败")
	}

	return toBookEntity(&model), nil
}

// FindByISBN 根据ISBN查找图书
func (r *bookRepository) FindByISBN(ctx context.Context, isbn string) (*book.Book, error) {
	var model BookModel
	err := getDB(ctx, r.db).Where("isbn = ?", isbn).First(&model).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, book.ErrBookNotFound
		}
		return nil, apperrors.Wrap(err, "查询图书失败")
	}

	return toBookEntity(&model), nil
}

// ExistsByISBN 判断ISBN是否已存在
func (r *bookRepository) ExistsByISBN(ctx context.Context, isbn string) (bool, error) {
	var count int64
	err := getDB(ctx, r.db).
		Model(&BookModel{}).
		Where("isbn = ?", isbn).
		Count(&count).Error
	if err != nil {
		return false, apperrors.Wrap(err, "查询ISBN失败")
	}
	return count > 0, nil
}

// Update 更新图书信息
func (r *bookRepository) Update(ctx context.Context, b *book.Book) error {
	model := toBookModel(b)

	// Select("*")强制全字段更新:可借册数减到0、简介清空都是零值写入
	err := getDB(ctx, r.db).Model(model).Select("*").Omit("created_at").Updates(model).Error
	if err != nil {
		if isDuplicateError(err) {
			return book.ErrISBNDuplicate
		}
		return apperrors.Wrap(err, "更新图书失败")
	}

	return nil
}

// Delete 物理删除图书
// 注意:图书与分类的删除语义刻意不同——分类软删除,图书硬删除
func (r *bookRepository) Delete(ctx context.Context, id uint) error {
	result := getDB(ctx, r.db).Delete(&BookModel{}, id)

	if result.Error != nil {
		return apperrors.Wrap(result.Error, "删除图书失败")
	}

	if result.RowsAffected == 0 {
		return book.ErrBookNotFound
	}

	return nil
}

// LockByID 悲观锁查询图书(SELECT FOR UPDATE)
// 馆藏册数调整的并发控制:两个并发更新必须串行读到对方提交后的值,
// 否则各自基于同一旧值计算差值会互相覆盖(丢失更新)
func (r *bookRepository) LockByID(ctx context.Context, id uint) (*book.Book, error) {
	var model BookModel
	err := getDB(ctx, r.db).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&model, id).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, book.ErrBookNotFound
		}
		return nil, apperrors.Wrap(err, "锁定图书失败")
	}

	return toBookEntity(&model), nil
}

// FindAll 查询全部图书
func (r *bookRepository) FindAll(ctx context.Context) ([]*book.Book, error) {
	var models []BookModel
	if err := getDB(ctx, r.db).Order("title").Find(&models).Error; err != nil {
		return nil, apperrors.Wrap(err, "查询图书列表失败")
	}
	return toBookEntities(models), nil
}

// SearchByTitle 按书名模糊查找(不区分大小写)
func (r *bookRepository) SearchByTitle(ctx context.Context, title string) ([]*book.Book, error) {
	return r.searchLike(ctx, "title", title)
}

// SearchByAuthor 按作者模糊查找(不区分大小写)
func (r *bookRepository) SearchByAuthor(ctx context.Context, author string) ([]*book.Book, error) {
	return r.searchLike(ctx, "author", author)
}

func (r *bookRepository) searchLike(ctx context.Context, column, keyword string) ([]*book.Book, error) {
	var models []BookModel
	pattern := "%" + strings.ToLower(keyword) + "%"
	err := getDB(ctx, r.db).
		Where("LOWER("+column+") LIKE ?", pattern).
		Order("title").
		Find(&models).Error
	if err != nil {
		return nil, apperrors.Wrap(err, "搜索图书失败")
	}
	return toBookEntities(models), nil
}

// FindByCategoryID 查询分类下的图书(经关联边表JOIN)
func (r *bookRepository) FindByCategoryID(ctx context.Context, categoryID uint) ([]*book.Book, error) {
	var models []BookModel
	err := getDB(ctx, r.db).
		Joins("JOIN book_categories ON book_categories.book_id = books.id").
		Where("book_categories.category_id = ?", categoryID).
		Order("books.title").
		Find(&models).Error
	if err != nil {
		return nil, apperrors.Wrap(err, "查询分类图书失败")
	}
	return toBookEntities(models), nil
}

// Search 组合条件分页查询
// 所有过滤条件可选,AND组合;先Count后分页
func (r *bookRepository) Search(ctx context.Context, params book.SearchParams) ([]*book.Book, int64, error) {
	query := getDB(ctx, r.db).Model(&BookModel{})

	if params.Title != "" {
		query = query.Where("LOWER(title) LIKE ?", "%"+strings.ToLower(params.Title)+"%")
	}
	if params.Author != "" {
		query = query.Where("LOWER(author) LIKE ?", "%"+strings.ToLower(params.Author)+"%")
	}
	if params.Publisher != "" {
		query = query.Where("LOWER(publisher) LIKE ?", "%"+strings.ToLower(params.Publisher)+"%")
	}
	if params.Genre != "" {
		query = query.Where("LOWER(genre) = ?", strings.ToLower(params.Genre))
	}
	if params.YearFrom > 0 {
		query = query.Where("publication_year >= ?", params.YearFrom)
	}
	if params.YearTo > 0 {
		query = query.Where("publication_year <= ?", params.YearTo)
	}
	if params.ISBN != "" {
		query = query.Where("isbn = ?", params.ISBN)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, apperrors.Wrap(err, "统计图书总数失败")
	}

	var models []BookModel
	offset := (params.Page - 1) * params.PageSize
	err := query.Order("title").Limit(params.PageSize).Offset(offset).Find(&models).Error
	if err != nil {
		return nil, 0, apperrors.Wrap(err, "查询图书列表失败")
	}

	return toBookEntities(models), total, nil
}

// FindLowStock 查询低库存图书(可借册数≤阈值且状态AVAILABLE)
func (r *bookRepository) FindLowStock(ctx context.Context, threshold int) ([]*book.Book, error) {
	var models []BookModel
	err := getDB(ctx, r.db).
		Where("available_copies <= ? AND status = ?", threshold, string(book.StatusAvailable)).
		Order("available_copies").
		Find(&models).Error
	if err != nil {
		return nil, apperrors.Wrap(err, "查询低库存图书失败")
	}
	return toBookEntities(models), nil
}

// FindUncategorized 查询没有任何分类关联的图书
func (r *bookRepository) FindUncategorized(ctx context.Context) ([]*book.Book, error) {
	var models []BookModel
	err := getDB(ctx, r.db).
		Where("NOT EXISTS (SELECT 1 FROM book_categories WHERE book_categories.book_id = books.id)").
		Order("title").
		Find(&models).Error
	if err != nil {
		return nil, apperrors.Wrap(err, "查询未分类图书失败")
	}
	return toBookEntities(models), nil
}

// AddCategoryLink 建立关联边(幂等)
// 复合主键冲突时DO NOTHING:重复添加同一条边是no-op
func (r *bookRepository) AddCategoryLink(ctx context.Context, bookID, categoryID uint) error {
	edge := &BookCategoryModel{BookID: bookID, CategoryID: categoryID}
	err := getDB(ctx, r.db).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(edge).Error
	if err != nil {
		return apperrors.Wrap(err, "建立分类关联失败")
	}
	return nil
}

// RemoveCategoryLink 移除关联边(幂等:边不存在时RowsAffected=0,不报错)
func (r *bookRepository) RemoveCategoryLink(ctx context.Context, bookID, categoryID uint) error {
	err := getDB(ctx, r.db).
		Where("book_id = ? AND category_id = ?", bookID, categoryID).
		Delete(&BookCategoryModel{}).Error
	if err != nil {
		return apperrors.Wrap(err, "移除分类关联失败")
	}
	return nil
}

// ClearCategoryLinks 清除图书的全部分类关联边
func (r *bookRepository) ClearCategoryLinks(ctx context.Context, bookID uint) error {
	err := getDB(ctx, r.db).
		Where("book_id = ?", bookID).
		Delete(&BookCategoryModel{}).Error
	if err != nil {
		return apperrors.Wrap(err, "清除分类关联失败")
	}
	return nil
}

// CategoryIDs 查询图书关联的分类ID列表
func (r *bookRepository) CategoryIDs(ctx context.Context, bookID uint) ([]uint, error) {
	var ids []uint
	err := getDB(ctx, r.db).
		Model(&BookCategoryModel{}).
		Where("book_id = ?", bookID).
		Order("category_id").
		Pluck("category_id", &ids).Error
	if err != nil {
		return nil, apperrors.Wrap(err, "查询图书分类失败")
	}
	return ids, nil
}

// isDuplicateError 判断是否为MySQL唯一索引冲突(错误码1062)
// 只有books.isbn有唯一索引,冲突即ISBN重复;Create/Update据此转业务错误
func isDuplicateError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	// 驱动未开启TranslateError时退化为错误信息匹配
	return strings.Contains(err.Error(), "Duplicate entry")
}

// =========================================
// 辅助函数:模型转换
// =========================================

// toBookEntity GORM模型 → 领域实体
func toBookEntity(model *BookModel) *book.Book {
	return &book.Book{
		ID:              model.ID,
		ISBN:            model.ISBN,
		Title:           model.Title,
		Author:          model.Author,
		Publisher:       model.Publisher,
		PublicationYear: model.PublicationYear,
		Genre:           model.Genre,
		Summary:         model.Summary,
		TotalCopies:     model.TotalCopies,
		AvailableCopies: model.AvailableCopies,
		Status:          book.Status(model.Status),
		CreatedAt:       model.CreatedAt,
		UpdatedAt:       model.UpdatedAt,
	}
}

// toBookModel 领域实体 → GORM模型
func toBookModel(b *book.Book) *BookModel {
	return &BookModel{
		ID:              b.ID,
		ISBN:            b.ISBN,
		Title:           b.Title,
		Author:          b.Author,
		Publisher:       b.Publisher,
		PublicationYear: b.PublicationYear,
		Genre:           b.Genre,
		Summary:         b.Summary,
		TotalCopies:     b.TotalCopies,
		AvailableCopies: b.AvailableCopies,
		Status:          string(b.Status),
		CreatedAt:       b.CreatedAt,
		UpdatedAt:       b.UpdatedAt,
	}
}

func toBookEntities(models []BookModel) []*book.Book {
	result := make([]*book.Book, len(models))
	for i := range models {
		result[i] = toBookEntity(&models[i])
	}
	return result
}
