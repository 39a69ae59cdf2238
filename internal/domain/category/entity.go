package category

import (
	"time"
)

// Category 图书分类实体(聚合根)
// DDD设计说明:
// 1. 分类通过ParentID自引用构成森林结构(每个节点最多一个父节点)
// 2. 只存储"子→父"方向的权威指针,children由仓储按parent_id反查得到,
//    避免内存中双向引用互相同步引发的一致性问题
// 3. Active是软删除标记:停用的分类保留存储行(保证历史关联稳定),
//    但被所有层级查询和统计排除
// 4. level和fullPath是派生值,每次由服务层沿父链实时计算,不落库不缓存
type Category struct {
	ID          uint
	Name        string // 分类名称
	Description string // 描述(可选)
	ParentID    *uint  // 父分类ID(nil表示根分类)
	Active      bool   // 软删除标记
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewCategory 创建新分类(工厂方法)
// 参数说明:
// - name: 分类名称(需调用方先校验非空)
// - description: 描述
// - parentID: 父分类ID,nil表示创建根分类
func NewCategory(name, description string, parentID *uint) *Category {
	now := time.Now()
	return &Category{
		Name:        name,
		Description: description,
		ParentID:    parentID,
		Active:      true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// IsRoot 是否为根分类(无父节点)
func (c *Category) IsRoot() bool {
	return c.ParentID == nil
}

// UpdateInfo 更新基本信息(nil表示不修改)
func (c *Category) UpdateInfo(name, description *string) {
	if name != nil {
		c.Name = *name
	}
	if description != nil {
		c.Description = *description
	}
	c.UpdatedAt = time.Now()
}

// Reparent 改挂到新的父节点
// 注意:环检测(不能挂到自己或自己的后代下)由领域服务负责,
// 实体层只做指针赋值
func (c *Category) Reparent(parentID *uint) {
	c.ParentID = parentID
	c.UpdatedAt = time.Now()
}

// Deactivate 逻辑删除(Active→false,不可逆)
func (c *Category) Deactivate() {
	c.Active = false
	c.UpdatedAt = time.Now()
}
