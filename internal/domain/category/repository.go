package category

import (
	"context"
)

// Repository 分类仓储接口(树存储,依赖倒置原则)
// 设计说明:
// 1. 由domain层定义接口,infrastructure层实现
// 2. 除特别说明外,所有查询只返回Active=true的分类
//    (停用的分类对查询视角不存在,但存储行保留)
// 3. children不单独存储,由实现按parent_id反查
type Repository interface {
	// Create 创建分类
	Create(ctx context.Context, c *Category) error

	// FindByID 根据ID查找分类(仅Active)
	FindByID(ctx context.Context, id uint) (*Category, error)

	// FindAll 查询全部分类(仅Active)
	FindAll(ctx context.Context) ([]*Category, error)

	// Update 保存分类修改(含重新挂载和软删除的持久化)
	Update(ctx context.Context, c *Category) error

	// FindRoots 查询根分类(parent为null,按名称排序)
	FindRoots(ctx context.Context) ([]*Category, error)

	// FindChildren 查询直接子分类(按名称排序)
	FindChildren(ctx context.Context, parentID uint) ([]*Category, error)

	// SearchByName 按名称模糊查找(不区分大小写)
	SearchByName(ctx context.Context, name string) ([]*Category, error)

	// FindWithBooks 查询有图书关联的分类
	FindWithBooks(ctx context.Context) ([]*Category, error)

	// FindEmpty 查询没有图书关联的分类
	FindEmpty(ctx context.Context) ([]*Category, error)

	// CountBooks 统计分类下关联的图书数量
	CountBooks(ctx context.Context, id uint) (int64, error)

	// HasChildren 判断分类是否有Active子分类
	HasChildren(ctx context.Context, id uint) (bool, error)

	// ClearBookLinks 清除分类的全部图书关联边(删除分类时调用)
	ClearBookLinks(ctx context.Context, id uint) error
}
