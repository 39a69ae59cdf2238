package mysql

import (
	"fmt"
	"log"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/xiebiao/library/internal/infrastructure/config"
)

// NewDB 创建数据库连接
// 设计说明：
// 1. 使用GORM v2作为ORM框架
// 2. 配置连接池参数（MaxOpenConns、MaxIdleConns、ConnMaxLifetime）
// 3. 开发环境开启SQL日志，生产环境关闭
// 4. 自动迁移表结构（AutoMigrate）
func NewDB(cfg *config.Config) (*gorm.DB, error) {
	// 1. 构建DSN连接字符串
	dsn := cfg.Database.DSN()

	// 2. 配置GORM日志
	logLevel := logger.Silent
	if cfg.Server.Mode == "debug" {
		logLevel = logger.Info // 开发环境打印SQL
	}

	// 3. 连接数据库
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
		NowFunc: func() time.Time {
			return time.Now()
		},
	})
	if err != nil {
		return nil, fmt.Errorf("连接数据库失败: %w", err)
	}

	// 4. 配置连接池
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("获取SQL DB失败: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)

	// 5. 测试连接
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("数据库连接测试失败: %w", err)
	}

	log.Println("✓ 数据库连接成功")

	// 6. 自动迁移表结构（开发环境）
	// 注意：生产环境应使用版本化的迁移脚本，不要依赖AutoMigrate
	if err := autoMigrate(db); err != nil {
		return nil, fmt.Errorf("数据库迁移失败: %w", err)
	}

	return db, nil
}

// autoMigrate 自动迁移表结构
func autoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&CategoryModel{},
		&BookModel{},
		&BookCategoryModel{},
	)
}

// CategoryModel GORM分类模型
// 设计说明:
// 1. 自引用树:parent_id是可空外键列(nil=根分类),children由反查parent_id得到,
//    不存对象指针、不存children列——避免双向引用的同步缺陷
// 2. Active是软删除标记:分类行永不物理删除(历史关联要能稳定指回来),
//    所以这里刻意不用gorm.DeletedAt
type CategoryModel struct {
	ID          uint      `gorm:"primaryKey"`
	Name        string    `gorm:"size:100;not null;comment:分类名称"`
	Description string    `gorm:"size:500;comment:描述"`
	ParentID    *uint     `gorm:"index;comment:父分类ID(null为根)"`
	Active      bool      `gorm:"index;default:true;not null;comment:软删除标记"`
	CreatedAt   time.Time `gorm:"comment:创建时间"`
	UpdatedAt   time.Time `gorm:"comment:更新时间"`
}

// TableName 指定表名
func (CategoryModel) TableName() string {
	return "categories"
}

// BookModel GORM图书模型
// 设计说明:
// 1. ISBN有唯一索引,防止重复
// 2. 馆藏计数约束 0 ≤ available_copies ≤ total_copies 由领域层保证
// 3. 图书是物理删除(与分类的软删除语义刻意不同),不加gorm.DeletedAt
type BookModel struct {
	ID              uint      `gorm:"primaryKey"`
	ISBN            string    `gorm:"column:isbn;uniqueIndex;size:20;not null;comment:ISBN号"`
	Title           string    `gorm:"index:idx_book_search;size:500;not null;comment:书名"`
	Author          string    `gorm:"index:idx_book_search;size:300;not null;comment:作者"`
	Publisher       string    `gorm:"size:200;comment:出版社"`
	PublicationYear int       `gorm:"index;comment:出版年份"`
	Genre           string    `gorm:"size:100;index;comment:体裁"`
	Summary         string    `gorm:"type:text;comment:内容简介"`
	TotalCopies     int       `gorm:"not null;default:1;comment:馆藏总册数"`
	AvailableCopies int       `gorm:"not null;default:1;comment:可借册数"`
	Status          string    `gorm:"size:20;not null;default:AVAILABLE;index;comment:图书状态"`
	CreatedAt       time.Time `gorm:"comment:创建时间"`
	UpdatedAt       time.Time `gorm:"comment:更新时间"`
}

// TableName 指定表名
func (BookModel) TableName() string {
	return "books"
}

// BookCategoryModel 图书↔分类关联边表
// 设计说明:
// 1. 复合主键(book_id, category_id):同一条边天然幂等,重复插入靠
//    ON CONFLICT DO NOTHING吸收
// 2. 这张表是关联的唯一权威数据,"分类下的图书"和"图书的分类"都是查询视图
type BookCategoryModel struct {
	BookID     uint `gorm:"primaryKey;comment:图书ID"`
	CategoryID uint `gorm:"primaryKey;index;comment:分类ID"`
}

// TableName 指定表名
func (BookCategoryModel) TableName() string {
	return "book_categories"
}
