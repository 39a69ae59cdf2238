package category

import (
	"context"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/xiebiao/library/pkg/logger"
)

// Service 分类层级领域服务接口
// 设计说明:
// 1. 负责树形结构的全部不变量:无环、单父节点、删除时子节点上提
// 2. level/fullPath每次沿父链实时计算,不做任何内存缓存
//    (并发删除/改挂后缓存必然过期,实时查库换取正确性)
// 3. 删除采用软删除+子节点上提,而不是级联删除(避免悄悄摧毁整棵子树),
//    也不是拒绝删除(避免强迫调用方先手工改挂所有子节点)
type Service interface {
	// CreateCategory 创建分类
	// 业务规则:
	// - 名称必填
	// - 指定parentID时父分类必须存在且Active
	CreateCategory(ctx context.Context, name, description string, parentID *uint) (*Category, error)

	// UpdateCategory 更新分类(nil字段不修改)
	// 业务规则:
	// - newParentID与当前父节点不同才触发改挂
	// - 不能改挂到自己或自己的后代下(防止成环)
	UpdateCategory(ctx context.Context, id uint, name, description *string, newParentID *uint) (*Category, error)

	// DeleteCategory 删除分类(软删除+子节点上提)
	// 调用方(应用层)负责用事务包裹整个操作
	DeleteCategory(ctx context.Context, id uint) error

	// GetCategoryByID 根据ID获取分类(仅Active)
	GetCategoryByID(ctx context.Context, id uint) (*Category, error)

	// ListAll 查询全部分类
	ListAll(ctx context.Context) ([]*Category, error)

	// ListRoots 查询根分类(按名称排序)
	ListRoots(ctx context.Context) ([]*Category, error)

	// ListChildren 查询直接子分类(按名称排序)
	ListChildren(ctx context.Context, parentID uint) ([]*Category, error)

	// ListByLevel 查询指定层级的分类(根=0,沿父链计算深度,支持任意层级)
	ListByLevel(ctx context.Context, level int) ([]*Category, error)

	// SearchByName 按名称模糊查找(不区分大小写)
	SearchByName(ctx context.Context, name string) ([]*Category, error)

	// ListWithBooks 查询有图书关联的分类
	ListWithBooks(ctx context.Context) ([]*Category, error)

	// ListEmpty 查询没有图书关联的分类
	ListEmpty(ctx context.Context) ([]*Category, error)

	// CountBooks 统计分类下关联的图书数量
	CountBooks(ctx context.Context, id uint) (int64, error)

	// HasChildren 判断分类是否有子分类
	HasChildren(ctx context.Context, id uint) (bool, error)

	// Level 计算分类深度(根=0)
	Level(ctx context.Context, id uint) (int, error)

	// FullPath 计算从根到该分类的完整路径(" > "分隔)
	FullPath(ctx context.Context, id uint) (string, error)
}

// service 领域服务实现
type service struct {
	repo Repository
}

// NewService 创建分类层级领域服务
func NewService(repo Repository) Service {
	return &service{repo: repo}
}

// CreateCategory 创建分类
func (s *service) CreateCategory(ctx context.Context, name, description string, parentID *uint) (*Category, error) {
	// 1. 名称校验
	if strings.TrimSpace(name) == "" {
		return nil, ErrNameRequired
	}

	// 2. 父分类校验(必须存在且Active)
	if parentID != nil {
		if _, err := s.repo.FindByID(ctx, *parentID); err != nil {
			return nil, ErrParentNotFound
		}
	}

	// 3. 创建实体并持久化
	// 子节点集合是派生视图,新节点入库后自然出现在父节点的children反查结果中
	c := NewCategory(strings.TrimSpace(name), description, parentID)
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}

	return c, nil
}

// UpdateCategory 更新分类
func (s *service) UpdateCategory(ctx context.Context, id uint, name, description *string, newParentID *uint) (*Category, error) {
	// 1. 查询目标分类
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrCategoryNotFound
	}

	// 2. 名称不允许改成空串
	if name != nil && strings.TrimSpace(*name) == "" {
		return nil, ErrNameRequired
	}

	// 3. 更新基本信息
	c.UpdateInfo(name, description)

	// 4. 处理改挂(newParentID为nil表示不变)
	if newParentID != nil && !sameParent(c.ParentID, newParentID) {
		// 4.1 新父分类必须存在且Active
		if _, err := s.repo.FindByID(ctx, *newParentID); err != nil {
			return nil, ErrParentNotFound
		}

		// 4.2 环检测:新父节点不能是自己,也不能是自己的后代
		// 做法:从新父节点沿父链上溯,途中遇到自己即说明成环
		onPath, err := s.ancestorChainContains(ctx, *newParentID, id)
		if err != nil {
			return nil, err
		}
		if *newParentID == id || onPath {
			return nil, ErrCategoryCycle
		}

		c.Reparent(newParentID)
	}

	// 5. 持久化
	// 旧父节点的children集合是反查视图,parent_id一变即自动脱离,无需双写
	if err := s.repo.Update(ctx, c); err != nil {
		return nil, err
	}

	return c, nil
}

// DeleteCategory 删除分类(核心算法:子节点上提一层)
// 净效果:被删节点的子节点变成它兄弟节点的兄弟(或新的根),树被"压扁"一层
//
// 步骤:
// 1. 查找Active分类,不存在则NotFound
// 2. newParent = 被删节点当前的父节点(可能为nil,即被删的是根)
// 3. 每个子节点改挂到newParent并持久化
// 4. 清除该分类的全部图书关联边(两侧视图同时失效)
// 5. Active置false并持久化(行保留,保证引用稳定)
//
// 注意:本方法假定运行在一个事务内(由应用层TxManager包裹),
// 子节点改挂循环部分失败时整体回滚,不会出现子节点指向已停用父节点的状态
func (s *service) DeleteCategory(ctx context.Context, id uint) error {
	// 1. 查找目标
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return ErrCategoryNotFound
	}

	// 2. 若仍有图书关联,记录告警后继续删除(关联边随后被清除)
	if n, err := s.repo.CountBooks(ctx, id); err == nil && n > 0 {
		logger.L().Warn("删除的分类仍有图书关联,关联将被清除",
			zap.Uint("category_id", id),
			zap.String("name", c.Name),
			zap.Int64("book_count", n),
		)
	}

	// 3. 子节点上提:全部改挂到被删节点的父节点下
	children, err := s.repo.FindChildren(ctx, id)
	if err != nil {
		return err
	}
	for _, child := range children {
		child.Reparent(c.ParentID)
		if err := s.repo.Update(ctx, child); err != nil {
			return err
		}
	}

	// 4. 清除图书关联边,保证统计口径一致
	if err := s.repo.ClearBookLinks(ctx, id); err != nil {
		return err
	}

	// 5. 软删除
	c.Deactivate()
	return s.repo.Update(ctx, c)
}

// GetCategoryByID 根据ID获取分类
func (s *service) GetCategoryByID(ctx context.Context, id uint) (*Category, error) {
	return s.repo.FindByID(ctx, id)
}

// ListAll 查询全部分类
func (s *service) ListAll(ctx context.Context) ([]*Category, error) {
	return s.repo.FindAll(ctx)
}

// ListRoots 查询根分类
func (s *service) ListRoots(ctx context.Context) ([]*Category, error) {
	return s.repo.FindRoots(ctx)
}

// ListChildren 查询直接子分类
func (s *service) ListChildren(ctx context.Context, parentID uint) ([]*Category, error) {
	return s.repo.FindChildren(ctx, parentID)
}

// ListByLevel 查询指定层级的分类
// 实现说明:一次取出全部Active分类的快照,在内存中沿父链计算每个节点的深度。
// 相比SQL里逐层写死parent.parent.parent的做法,可以支持任意深度
func (s *service) ListByLevel(ctx context.Context, level int) ([]*Category, error) {
	if level < 0 {
		return nil, nil
	}

	all, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	byID := make(map[uint]*Category, len(all))
	for _, c := range all {
		byID[c.ID] = c
	}

	// depth带记忆化的父链上溯;-1表示父链异常(环或悬挂指针)
	memo := make(map[uint]int, len(all))
	var depth func(c *Category, seen map[uint]bool) int
	depth = func(c *Category, seen map[uint]bool) int {
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
				// 父节点不在Active快照中:不应发生(删除前先上提子节点)
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

	var result []*Category
	for _, c := range all {
		if depth(c, make(map[uint]bool)) == level {
			result = append(result, c)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Name < result[j].Name
	})
	return result, nil
}

// SearchByName 按名称模糊查找
func (s *service) SearchByName(ctx context.Context, name string) ([]*Category, error) {
	return s.repo.SearchByName(ctx, name)
}

// ListWithBooks 查询有图书关联的分类
func (s *service) ListWithBooks(ctx context.Context) ([]*Category, error) {
	return s.repo.FindWithBooks(ctx)
}

// ListEmpty 查询没有图书关联的分类
func (s *service) ListEmpty(ctx context.Context) ([]*Category, error) {
	return s.repo.FindEmpty(ctx)
}

// CountBooks 统计分类下关联的图书数量
func (s *service) CountBooks(ctx context.Context, id uint) (int64, error) {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return 0, ErrCategoryNotFound
	}
	return s.repo.CountBooks(ctx, id)
}

// HasChildren 判断分类是否有子分类
func (s *service) HasChildren(ctx context.Context, id uint) (bool, error) {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return false, ErrCategoryNotFound
	}
	return s.repo.HasChildren(ctx, id)
}

// Level 计算分类深度(根=0,每层+1)
func (s *service) Level(ctx context.Context, id uint) (int, error) {
	chain, err := s.ancestorChain(ctx, id)
	if err != nil {
		return 0, err
	}
	return len(chain) - 1, nil
}

// FullPath 计算完整路径,如 "Fiction > Sci-Fi > Cyberpunk"
func (s *service) FullPath(ctx context.Context, id uint) (string, error) {
	chain, err := s.ancestorChain(ctx, id)
	if err != nil {
		return "", err
	}

	// chain是从该节点到根的顺序,拼路径要反过来
	names := make([]string, len(chain))
	for i, c := range chain {
		names[len(chain)-1-i] = c.Name
	}
	return strings.Join(names, " > "), nil
}

// ancestorChain 返回从指定节点到根的节点链(含自身)
// 每次都实时查库,保证并发删除/改挂之后读到的是最新结构
func (s *service) ancestorChain(ctx context.Context, id uint) ([]*Category, error) {
	var chain []*Category
	visited := make(map[uint]bool)

	currentID := id
	for {
		if visited[currentID] {
			// 父链成环:存储数据异常
			return nil, ErrBrokenHierarchy
		}
		visited[currentID] = true

		c, err := s.repo.FindByID(ctx, currentID)
		if err != nil {
			if currentID == id {
				return nil, ErrCategoryNotFound
			}
			// Active节点指向不存在/停用的父节点:不应发生
			return nil, ErrBrokenHierarchy
		}
		chain = append(chain, c)

		if c.ParentID == nil {
			return chain, nil
		}
		currentID = *c.ParentID
	}
}

// ancestorChainContains 判断targetID是否出现在fromID的父链上(不含fromID自身的判断)
func (s *service) ancestorChainContains(ctx context.Context, fromID, targetID uint) (bool, error) {
	chain, err := s.ancestorChain(ctx, fromID)
	if err != nil {
		return false, err
	}
	for _, c := range chain {
		if c.ID == targetID {
			return true, nil
		}
	}
	return false, nil
}

// sameParent 比较当前父指针与请求的新父ID是否相同
func sameParent(current *uint, requested *uint) bool {
	if current == nil || requested == nil {
		return current == nil && requested == nil
	}
	return *current == *requested
}
