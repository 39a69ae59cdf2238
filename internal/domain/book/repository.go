package book

import (
	"context"
)

// Repository 图书仓储接口(目录存储,依赖倒置原则)
// 设计说明:
// 1. 由domain层定义接口,infrastructure层实现
// 2. 图书与分类的多对多关联边也在这里维护:权威数据是边表
//    (book_id, category_id),"分类下的图书"和"图书所属的分类"
//    两个方向都是对边表的查询视图
// 3. 便于Mock测试,不依赖具体数据库实现
type Repository interface {
	// Create 创建图书
	Create(ctx context.Context, b *Book) error

	// FindByID 根据ID查找图书
	FindByID(ctx context.Context, id uint) (*Book, error)

	// FindByISBN 根据ISBN查找图书
	FindByISBN(ctx context.Context, isbn string) (*Book, error)

	// ExistsByISBN 判断ISBN是否已存在
	ExistsByISBN(ctx context.Context, isbn string) (bool, error)

	// Update 更新图书信息
	Update(ctx context.Context, b *Book) error

	// Delete 物理删除图书(调用方需先清除关联边)
	Delete(ctx context.Context, id uint) error

	// LockByID 悲观锁查询图书(SELECT FOR UPDATE)
	// 用于馆藏册数调整:锁定后读取-计算-写回,防止并发丢失更新
	// 必须在事务内调用(事务DB通过context传递)
	LockByID(ctx context.Context, id uint) (*Book, error)

	// FindAll 查询全部图书
	FindAll(ctx context.Context) ([]*Book, error)

	// SearchByTitle 按书名模糊查找(不区分大小写)
	SearchByTitle(ctx context.Context, title string) ([]*Book, error)

	// SearchByAuthor 按作者模糊查找(不区分大小写)
	SearchByAuthor(ctx context.Context, author string) ([]*Book, error)

	// FindByCategoryID 查询分类下的图书
	FindByCategoryID(ctx context.Context, categoryID uint) ([]*Book, error)

	// Search 组合条件分页查询(所有条件可选,AND组合)
	Search(ctx context.Context, params SearchParams) ([]*Book, int64, error)

	// FindLowStock 查询低库存图书(可借册数≤阈值且状态AVAILABLE)
	FindLowStock(ctx context.Context, threshold int) ([]*Book, error)

	// FindUncategorized 查询没有任何分类关联的图书
	FindUncategorized(ctx context.Context) ([]*Book, error)

	// AddCategoryLink 建立图书↔分类关联边(重复添加是幂等no-op)
	AddCategoryLink(ctx context.Context, bookID, categoryID uint) error

	// RemoveCategoryLink 移除关联边(移除不存在的边是幂等no-op)
	RemoveCategoryLink(ctx context.Context, bookID, categoryID uint) error

	// ClearCategoryLinks 清除图书的全部分类关联边
	ClearCategoryLinks(ctx context.Context, bookID uint) error

	// CategoryIDs 查询图书关联的分类ID列表
	CategoryIDs(ctx context.Context, bookID uint) ([]uint, error)
}

// SearchParams 组合查询参数
// 所有过滤条件均可选:零值(空串/0)表示不过滤,条件之间AND组合
type SearchParams struct {
	Title     string // 书名模糊匹配
	Author    string // 作者模糊匹配
	Publisher string // 出版社模糊匹配
	Genre     string // 体裁精确匹配(不区分大小写)
	YearFrom  int    // 出版年份下限(含)
	YearTo    int    // 出版年份上限(含)
	ISBN      string // ISBN精确匹配
	Page      int    // 页码(从1开始)
	PageSize  int    // 每页数量
}
