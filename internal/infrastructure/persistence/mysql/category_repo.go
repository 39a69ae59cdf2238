package mysql

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/xiebiao/library/internal/domain/category"
	apperrors "github.com/xiebiao/library/pkg/errors"
)

// categoryRepository 分类仓储实现(MySQL,树存储)
// 设计说明:
// 1. 实现domain/category/repository.go定义的接口
// 2. 所有查询默认过滤active = true(软删除行对查询视角不存在)
// 3. children是对parent_id的反查,没有独立存储
// 4. 所有方法通过getDB(ctx)参与应用层开启的事务
type categoryRepository struct {
	db *gorm.DB
}

// NewCategoryRepository 创建分类仓储
func NewCategoryRepository(db *gorm.DB) category.Repository {
	return &categoryRepository{db: db}
}

// Create 创建分类
func (r *categoryRepository) Create(ctx context.Context, c *category.Category) error {
	model := &CategoryModel{
		Name:        c.Name,
		Description: c.Description,
		ParentID:    c.ParentID,
		Active:      c.Active,
	}

	if err := getDB(ctx, r.db).Create(model).Error; err != nil {
		return apperrors.Wrap(err, "创建分类失败")
	}

	// 回填自增ID
	c.ID = model.ID
	c.CreatedAt = model.CreatedAt
	c.UpdatedAt = model.UpdatedAt

	return nil
}

// FindByID 根据ID查找分类(仅Active)
func (r *categoryRepository) FindByID(ctx context.Context, id uint) (*category.Category, error) {
	var model CategoryModel
	err := getDB(ctx, r.db).Where("id = ? AND active = ?", id, true).First(&model).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, category.ErrCategoryNotFound
		}
		return nil, apperrors.Wrap(err, "查询分类失败")
	}

	return toCategoryEntity(&model), nil
}

// FindAll 查询全部分类(仅Active)
func (r *categoryRepository) FindAll(ctx context.Context) ([]*category.Category, error) {
	var models []CategoryModel
	if err := getDB(ctx, r.db).Where("active = ?", true).Find(&models).Error; err != nil {
		return nil, apperrors.Wrap(err, "查询分类列表失败")
	}
	return toCategoryEntities(models), nil
}

// Update 保存分类修改
// Select("*")强制更新所有字段:软删除(Active→false)和改挂到根
// (ParentID→nil)都是零值写入,默认的非零值更新会把它们漏掉
func (r *categoryRepository) Update(ctx context.Context, c *category.Category) error {
	model := &CategoryModel{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		ParentID:    c.ParentID,
		Active:      c.Active,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}

	if err := getDB(ctx, r.db).Model(model).Select("*").Omit("created_at").Updates(model).Error; err != nil {
		return apperrors.Wrap(err, "更新分类失败")
	}

	return nil
}

// FindRoots 查询根分类(parent为null,按名称排序)
func (r *categoryRepository) FindRoots(ctx context.Context) ([]*category.Category, error) {
	var models []CategoryModel
	err := getDB(ctx, r.db).
		Where("parent_id IS NULL AND active = ?", true).
		Order("name").
		Find(&models).Error
	if err != nil {
		return nil, apperrors.Wrap(err, "查询根分类失败")
	}
	return toCategoryEntities(models), nil
}

// FindChildren 查询直接子分类(按名称排序)
func (r *categoryRepository) FindChildren(ctx context.Context, parentID uint) ([]*category.Category, error) {
	var models []CategoryModel
	err := getDB(ctx, r.db).
		Where("parent_id = ? AND active = ?", parentID, true).
		Order("name").
		Find(&models).Error
	if err != nil {
		return nil, apperrors.Wrap(err, "查询子分类失败")
	}
	return toCategoryEntities(models), nil
}

// SearchByName 按名称模糊查找(不区分大小写)
func (r *categoryRepository) SearchByName(ctx context.Context, name string) ([]*category.Category, error) {
	var models []CategoryModel
	keyword := "%" + strings.ToLower(name) + "%"
	err := getDB(ctx, r.db).
		Where("LOWER(name) LIKE ? AND active = ?", keyword, true).
		Order("name").
		Find(&models).Error
	if err != nil {
		return nil, apperrors.Wrap(err, "搜索分类失败")
	}
	return toCategoryEntities(models), nil
}

// FindWithBooks 查询有图书关联的分类
func (r *categoryRepository) FindWithBooks(ctx context.Context) ([]*category.Category, error) {
	var models []CategoryModel
	err := getDB(ctx, r.db).
		Distinct("categories.*").
		Joins("JOIN book_categories ON book_categories.category_id = categories.id").
		Where("categories.active = ?", true).
		Order("categories.name").
		Find(&models).Error
	if err != nil {
		return nil, apperrors.Wrap(err, "查询有图书的分类失败")
	}
	return toCategoryEntities(models), nil
}

// FindEmpty 查询没有图书关联的分类
func (r *categoryRepository) FindEmpty(ctx context.Context) ([]*category.Category, error) {
	var models []CategoryModel
	err := getDB(ctx, r.db).
		Where("active = ?", true).
		Where("NOT EXISTS (SELECT 1 FROM book_categories WHERE book_categories.category_id = categories.id)").
		Order("name").
		Find(&models).Error
	if err != nil {
		return nil, apperrors.Wrap(err, "查询空分类失败")
	}
	return toCategoryEntities(models), nil
}

// CountBooks 统计分类下关联的图书数量
func (r *categoryRepository) CountBooks(ctx context.Context, id uint) (int64, error) {
	var count int64
	err := getDB(ctx, r.db).
		Model(&BookCategoryModel{}).
		Where("category_id = ?", id).
		Count(&count).Error
	if err != nil {
		return 0, apperrors.Wrap(err, "统计分类图书数量失败")
	}
	return count, nil
}

// HasChildren 判断分类是否有Active子分类
func (r *categoryRepository) HasChildren(ctx context.Context, id uint) (bool, error) {
	var count int64
	err := getDB(ctx, r.db).
		Model(&CategoryModel{}).
		Where("parent_id = ? AND active = ?", id, true).
		Count(&count).Error
	if err != nil {
		return false, apperrors.Wrap(err, "查询子分类失败")
	}
	return count > 0, nil
}

// ClearBookLinks 清除分类的全部图书关联边
func (r *categoryRepository) ClearBookLinks(ctx context.Context, id uint) error {
	err := getDB(ctx, r.db).
		Where("category_id = ?", id).
		Delete(&BookCategoryModel{}).Error
	if err != nil {
		return apperrors.Wrap(err, "清除分类图书关联失败")
	}
	return nil
}

// =========================================
// 辅助函数:模型转换
// =========================================

// toCategoryEntity GORM模型 → 领域实体
func toCategoryEntity(model *CategoryModel) *category.Category {
	return &category.Category{
		ID:          model.ID,
		Name:        model.Name,
		Description: model.Description,
		ParentID:    model.ParentID,
		Active:      model.Active,
		CreatedAt:   model.CreatedAt,
		UpdatedAt:   model.UpdatedAt,
	}
}

func toCategoryEntities(models []CategoryModel) []*category.Category {
	result := make([]*category.Category, len(models))
	for i := range models {
		result[i] = toCategoryEntity(&models[i])
	}
	return result
}
