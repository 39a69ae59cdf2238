package category

import (
	"context"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRepository 内存版分类仓储,行为与MySQL实现对齐:
// 查询只返回Active行,children按parent_id反查
type fakeRepository struct {
	nextID    uint
	rows      map[uint]*Category
	bookLinks map[uint]int64 // category_id → 关联图书数
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{
		nextID:    1,
		rows:      make(map[uint]*Category),
		bookLinks: make(map[uint]int64),
	}
}

func (r *fakeRepository) Create(_ context.Context, c *Category) error {
	c.ID = r.nextID
	r.nextID++
	clone := *c
	r.rows[c.ID] = &clone
	return nil
}

func (r *fakeRepository) FindByID(_ context.Context, id uint) (*Category, error) {
	c, ok := r.rows[id]
	if !ok || !c.Active {
		return nil, ErrCategoryNotFound
	}
	clone := *c
	return &clone, nil
}

func (r *fakeRepository) FindAll(_ context.Context) ([]*Category, error) {
	var result []*Category
	for _, c := range r.rows {
		if c.Active {
			clone := *c
			result = append(result, &clone)
		}
	}
	return result, nil
}

func (r *fakeRepository) Update(_ context.Context, c *Category) error {
	if _, ok := r.rows[c.ID]; !ok {
		return ErrCategoryNotFound
	}
	clone := *c
	r.rows[c.ID] = &clone
	return nil
}

func (r *fakeRepository) FindRoots(ctx context.Context) ([]*Category, error) {
	all, _ := r.FindAll(ctx)
	var result []*Category
	for _, c := range all {
		if c.ParentID == nil {
			result = append(result, c)
		}
	}
	sortByName(result)
	return result, nil
}

func (r *fakeRepository) FindChildren(ctx context.Context, parentID uint) ([]*Category, error) {
	all, _ := r.FindAll(ctx)
	var result []*Category
	for _, c := range all {
		if c.ParentID != nil && *c.ParentID == parentID {
			result = append(result, c)
		}
	}
	sortByName(result)
	return result, nil
}

func (r *fakeRepository) SearchByName(ctx context.Context, name string) ([]*Category, error) {
	all, _ := r.FindAll(ctx)
	var result []*Category
	for _, c := range all {
		if strings.Contains(strings.ToLower(c.Name), strings.ToLower(name)) {
			result = append(result, c)
		}
	}
	sortByName(result)
	return result, nil
}

func (r *fakeRepository) FindWithBooks(ctx context.Context) ([]*Category, error) {
	all, _ := r.FindAll(ctx)
	var result []*Category
	for _, c := range all {
		if r.bookLinks[c.ID] > 0 {
			result = append(result, c)
		}
	}
	sortByName(result)
	return result, nil
}

func (r *fakeRepository) FindEmpty(ctx context.Context) ([]*Category, error) {
	all, _ := r.FindAll(ctx)
	var result []*Category
	for _, c := range all {
		if r.bookLinks[c.ID] == 0 {
			result = append(result, c)
		}
	}
	sortByName(result)
	return result, nil
}

func (r *fakeRepository) CountBooks(_ context.Context, id uint) (int64, error) {
	return r.bookLinks[id], nil
}

func (r *fakeRepository) HasChildren(ctx context.Context, id uint) (bool, error) {
	children, _ := r.FindChildren(ctx, id)
	return len(children) > 0, nil
}

func (r *fakeRepository) ClearBookLinks(_ context.Context, id uint) error {
	delete(r.bookLinks, id)
	return nil
}

func sortByName(cs []*Category) {
	sort.Slice(cs, func(i, j int) bool { return cs[i].Name < cs[j].Name })
}

// buildTree 构造三层测试树:Fiction > Sci-Fi > Cyberpunk,外加根分类History
func buildTree(t *testing.T, svc Service) (fiction, scifi, cyberpunk, history *Category) {
	t.Helper()
	ctx := context.Background()

	fiction, err := svc.CreateCategory(ctx, "Fiction", "虚构类", nil)
	require.NoError(t, err)

	scifi, err = svc.CreateCategory(ctx, "Sci-Fi", "科幻", &fiction.ID)
	require.NoError(t, err)

	cyberpunk, err = svc.CreateCategory(ctx, "Cyberpunk", "赛博朋克", &scifi.ID)
	require.NoError(t, err)

	history, err = svc.CreateCategory(ctx, "History", "历史", nil)
	require.NoError(t, err)

	return fiction, scifi, cyberpunk, history
}

func TestCreateCategory(t *testing.T) {
	ctx := context.Background()

	t.Run("创建根分类", func(t *testing.T) {
		svc := NewService(newFakeRepository())

		c, err := svc.CreateCategory(ctx, "Fiction", "虚构类", nil)
		require.NoError(t, err)
		assert.NotZero(t, c.ID)
		assert.True(t, c.IsRoot())
		assert.True(t, c.Active)
	})

	t.Run("创建子分类", func(t *testing.T) {
		svc := NewService(newFakeRepository())

		parent, err := svc.CreateCategory(ctx, "Fiction", "", nil)
		require.NoError(t, err)

		child, err := svc.CreateCategory(ctx, "Sci-Fi", "", &parent.ID)
		require.NoError(t, err)
		require.NotNil(t, child.ParentID)
		assert.Equal(t, parent.ID, *child.ParentID)
	})

	t.Run("名称为空拒绝", func(t *testing.T) {
		svc := NewService(newFakeRepository())

		_, err := svc.CreateCategory(ctx, "   ", "", nil)
		assert.ErrorIs(t, err, ErrNameRequired)
	})

	t.Run("父分类不存在拒绝", func(t *testing.T) {
		svc := NewService(newFakeRepository())

		missing := uint(999)
		_, err := svc.CreateCategory(ctx, "Sci-Fi", "", &missing)
		assert.ErrorIs(t, err, ErrParentNotFound)
	})
}

func TestUpdateCategory(t *testing.T) {
	ctx := context.Background()

	t.Run("重命名", func(t *testing.T) {
		svc := NewService(newFakeRepository())
		fiction, _, _, _ := buildTree(t, svc)

		newName := "Literature"
		c, err := svc.UpdateCategory(ctx, fiction.ID, &newName, nil, nil)
		require.NoError(t, err)
		assert.Equal(t, "Literature", c.Name)
	})

	t.Run("改挂到新父分类", func(t *testing.T) {
		svc := NewService(newFakeRepository())
		_, _, cyberpunk, history := buildTree(t, svc)

		c, err := svc.UpdateCategory(ctx, cyberpunk.ID, nil, nil, &history.ID)
		require.NoError(t, err)
		require.NotNil(t, c.ParentID)
		assert.Equal(t, history.ID, *c.ParentID)

		// 旧父分类的children反查视图自动脱离
		children, err := svc.ListChildren(ctx, history.ID)
		require.NoError(t, err)
		require.Len(t, children, 1)
		assert.Equal(t, cyberpunk.ID, children[0].ID)
	})

	t.Run("不能改挂到自己", func(t *testing.T) {
		svc := NewService(newFakeRepository())
		fiction, _, _, _ := buildTree(t, svc)

		_, err := svc.UpdateCategory(ctx, fiction.ID, nil, nil, &fiction.ID)
		assert.ErrorIs(t, err, ErrCategoryCycle)
	})

	t.Run("不能改挂到自己的后代", func(t *testing.T) {
		svc := NewService(newFakeRepository())
		fiction, _, cyberpunk, _ := buildTree(t, svc)

		// Fiction挂到孙子Cyberpunk下会成环
		_, err := svc.UpdateCategory(ctx, fiction.ID, nil, nil, &cyberpunk.ID)
		assert.ErrorIs(t, err, ErrCategoryCycle)
	})

	t.Run("名称改为空串拒绝", func(t *testing.T) {
		svc := NewService(newFakeRepository())
		fiction, _, _, _ := buildTree(t, svc)

		empty := ""
		_, err := svc.UpdateCategory(ctx, fiction.ID, &empty, nil, nil)
		assert.ErrorIs(t, err, ErrNameRequired)
	})
}

func TestDeleteCategory(t *testing.T) {
	ctx := context.Background()

	t.Run("删除中间节点_子节点上提一层", func(t *testing.T) {
		repo := newFakeRepository()
		svc := NewService(repo)
		fiction, scifi, cyberpunk, _ := buildTree(t, svc)

		// 删除Sci-Fi后,Cyberpunk应挂到Fiction下
		require.NoError(t, svc.DeleteCategory(ctx, scifi.ID))

		_, err := svc.GetCategoryByID(ctx, scifi.ID)
		assert.ErrorIs(t, err, ErrCategoryNotFound)

		c, err := svc.GetCategoryByID(ctx, cyberpunk.ID)
		require.NoError(t, err)
		require.NotNil(t, c.ParentID)
		assert.Equal(t, fiction.ID, *c.ParentID)

		path, err := svc.FullPath(ctx, cyberpunk.ID)
		require.NoError(t, err)
		assert.Equal(t, "Fiction > Cyberpunk", path)
	})

	t.Run("删除根节点_子节点变成根", func(t *testing.T) {
		svc := NewService(newFakeRepository())
		fiction, scifi, _, _ := buildTree(t, svc)

		require.NoError(t, svc.DeleteCategory(ctx, fiction.ID))

		c, err := svc.GetCategoryByID(ctx, scifi.ID)
		require.NoError(t, err)
		assert.Nil(t, c.ParentID)

		roots, err := svc.ListRoots(ctx)
		require.NoError(t, err)
		names := make([]string, len(roots))
		for i, r := range roots {
			names[i] = r.Name
		}
		assert.Equal(t, []string{"History", "Sci-Fi"}, names)
	})

	t.Run("删除清除图书关联边", func(t *testing.T) {
		repo := newFakeRepository()
		svc := NewService(repo)
		fiction, _, _, _ := buildTree(t, svc)
		repo.bookLinks[fiction.ID] = 3

		require.NoError(t, svc.DeleteCategory(ctx, fiction.ID))
		assert.Zero(t, repo.bookLinks[fiction.ID])
	})

	t.Run("删除不存在的分类", func(t *testing.T) {
		svc := NewService(newFakeRepository())
		assert.ErrorIs(t, svc.DeleteCategory(ctx, 999), ErrCategoryNotFound)
	})
}

func TestLevelAndFullPath(t *testing.T) {
	ctx := context.Background()
	svc := NewService(newFakeRepository())
	fiction, scifi, cyberpunk, _ := buildTree(t, svc)

	tests := []struct {
		name     string
		id       uint
		level    int
		fullPath string
	}{
		{"根分类", fiction.ID, 0, "Fiction"},
		{"二级分类", scifi.ID, 1, "Fiction > Sci-Fi"},
		{"三级分类", cyberpunk.ID, 2, "Fiction > Sci-Fi > Cyberpunk"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			level, err := svc.Level(ctx, tt.id)
			require.NoError(t, err)
			assert.Equal(t, tt.level, level)

			path, err := svc.FullPath(ctx, tt.id)
			require.NoError(t, err)
			assert.Equal(t, tt.fullPath, path)
		})
	}

	t.Run("不存在的分类", func(t *testing.T) {
		_, err := svc.Level(ctx, 999)
		assert.ErrorIs(t, err, ErrCategoryNotFound)
	})
}

func TestListByLevel(t *testing.T) {
	ctx := context.Background()
	svc := NewService(newFakeRepository())
	_, scifi, cyberpunk, _ := buildTree(t, svc)

	t.Run("第0层是根分类", func(t *testing.T) {
		result, err := svc.ListByLevel(ctx, 0)
		require.NoError(t, err)
		require.Len(t, result, 2)
		assert.Equal(t, "Fiction", result[0].Name)
		assert.Equal(t, "History", result[1].Name)
	})

	t.Run("第1层", func(t *testing.T) {
		result, err := svc.ListByLevel(ctx, 1)
		require.NoError(t, err)
		require.Len(t, result, 1)
		assert.Equal(t, scifi.ID, result[0].ID)
	})

	t.Run("第2层", func(t *testing.T) {
		result, err := svc.ListByLevel(ctx, 2)
		require.NoError(t, err)
		require.Len(t, result, 1)
		assert.Equal(t, cyberpunk.ID, result[0].ID)
	})

	t.Run("超出最大深度返回空", func(t *testing.T) {
		result, err := svc.ListByLevel(ctx, 9)
		require.NoError(t, err)
		assert.Empty(t, result)
	})

	t.Run("负层级返回空", func(t *testing.T) {
		result, err := svc.ListByLevel(ctx, -1)
		require.NoError(t, err)
		assert.Empty(t, result)
	})
}

func TestSearchByName(t *testing.T) {
	ctx := context.Background()
	svc := NewService(newFakeRepository())
	buildTree(t, svc)

	result, err := svc.SearchByName(ctx, "fi")
	require.NoError(t, err)

	// Fiction和Sci-Fi都包含"fi"(不区分大小写)
	names := make([]string, len(result))
	for i, c := range result {
		names[i] = c.Name
	}
	assert.Equal(t, []string{"Fiction", "Sci-Fi"}, names)
}

func TestBookCountViews(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepository()
	svc := NewService(repo)
	fiction, scifi, cyberpunk, history := buildTree(t, svc)
	repo.bookLinks[fiction.ID] = 2
	repo.bookLinks[cyberpunk.ID] = 1

	t.Run("CountBooks", func(t *testing.T) {
		n, err := svc.CountBooks(ctx, fiction.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(2), n)

		_, err = svc.CountBooks(ctx, 999)
		assert.ErrorIs(t, err, ErrCategoryNotFound)
	})

	t.Run("ListWithBooks", func(t *testing.T) {
		result, err := svc.ListWithBooks(ctx)
		require.NoError(t, err)
		require.Len(t, result, 2)
		assert.Equal(t, "Cyberpunk", result[0].Name)
		assert.Equal(t, "Fiction", result[1].Name)
	})

	t.Run("ListEmpty", func(t *testing.T) {
		result, err := svc.ListEmpty(ctx)
		require.NoError(t, err)
		require.Len(t, result, 2)
		assert.Equal(t, "History", result[0].Name)
		assert.Equal(t, "Sci-Fi", result[1].Name)
	})

	t.Run("HasChildren", func(t *testing.T) {
		has, err := svc.HasChildren(ctx, scifi.ID)
		require.NoError(t, err)
		assert.True(t, has)

		has, err = svc.HasChildren(ctx, history.ID)
		require.NoError(t, err)
		assert.False(t, has)
	})
}
