package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	appcategory "github.com/xiebiao/library/internal/application/category"
	"github.com/xiebiao/library/internal/interface/http/dto"
	apperrors "github.com/xiebiao/library/pkg/errors"
	"github.com/xiebiao/library/pkg/response"
)

// CategoryHandler 分类HTTP处理器
type CategoryHandler struct {
	createUseCase *appcategory.CreateCategoryUseCase
	updateUseCase *appcategory.UpdateCategoryUseCase
	deleteUseCase *appcategory.DeleteCategoryUseCase
	queryUseCase  *appcategory.QueryCategoriesUseCase
}

// NewCategoryHandler 创建分类处理器
func NewCategoryHandler(
	createUseCase *appcategory.CreateCategoryUseCase,
	updateUseCase *appcategory.UpdateCategoryUseCase,
	deleteUseCase *appcategory.DeleteCategoryUseCase,
	queryUseCase *appcategory.QueryCategoriesUseCase,
) *CategoryHandler {
	return &CategoryHandler{
		createUseCase: createUseCase,
		updateUseCase: updateUseCase,
		deleteUseCase: deleteUseCase,
		queryUseCase:  queryUseCase,
	}
}

// CreateCategory 创建分类
// @Summary      创建分类
// @Description  创建分类,省略parent_id时创建根分类
// @Tags         分类
// @Accept       json
// @Produce      json
// @Param        request body dto.CreateCategoryRequest true "分类信息"
// @Success      200 {object} response.Response{data=dto.CategoryResponse}
// @Failure      400 {object} response.Response "参数错误"
// @Failure      404 {object} response.Response "父分类不存在"
// @Router       /api/v1/categories [post]
func (h *CategoryHandler) CreateCategory(c *gin.Context) {
	var req dto.CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, apperrors.ErrCodeBindError, "参数错误: "+err.Error())
		return
	}

	result, err := h.createUseCase.Execute(c.Request.Context(), appcategory.CreateCategoryRequest{
		Name:        req.Name,
		Description: req.Description,
		ParentID:    req.ParentID,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, toCategoryResponse(result, 0, false))
}

// UpdateCategory 更新分类
// @Summary      更新分类
// @Description  更新名称/描述,指定parent_id改挂到新父分类(不能挂到自己或后代下)
// @Tags         分类
// @Accept       json
// @Produce      json
// @Param        id path int true "分类ID"
// @Param        request body dto.UpdateCategoryRequest true "更新内容"
// @Success      200 {object} response.Response{data=dto.CategoryResponse}
// @Failure      400 {object} response.Response "参数错误或成环"
// @Failure      404 {object} response.Response "分类不存在"
// @Router       /api/v1/categories/{id} [put]
func (h *CategoryHandler) UpdateCategory(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, apperrors.ErrCodeBindError, "参数错误: "+err.Error())
		return
	}

	if _, err := h.updateUseCase.Execute(c.Request.Context(), id, appcategory.UpdateCategoryRequest{
		Name:        req.Name,
		Description: req.Description,
		ParentID:    req.ParentID,
	}); err != nil {
		response.Error(c, err)
		return
	}

	// 更新后重查详情,book_count/has_children等统计字段保持准确
	result, err := h.queryUseCase.GetByID(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, toCategoryResponse(&result.CategoryDetail, result.BookCount, result.HasChildren))
}

// DeleteCategory 删除分类
// @Summary      删除分类
// @Description  软删除,子分类整体上提一层,图书关联边清除
// @Tags         分类
// @Produce      json
// @Param        id path int true "分类ID"
// @Success      200 {object} response.Response
// @Failure      404 {object} response.Response "分类不存在"
// @Router       /api/v1/categories/{id} [delete]
func (h *CategoryHandler) DeleteCategory(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.deleteUseCase.Execute(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, nil)
}

// GetCategory 查询分类详情
// @Summary      查询分类详情
// @Description  返回分类及沿父链计算的level/full_path和图书数量
// @Tags         分类
// @Produce      json
// @Param        id path int true "分类ID"
// @Success      200 {object} response.Response{data=dto.CategoryResponse}
// @Failure      404 {object} response.Response "分类不存在"
// @Router       /api/v1/categories/{id} [get]
func (h *CategoryHandler) GetCategory(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	result, err := h.queryUseCase.GetByID(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, toCategoryResponse(&result.CategoryDetail, result.BookCount, result.HasChildren))
}

// ListCategories 查询分类列表
// @Summary      查询分类列表
// @Description  支持视角过滤:roots(根分类)、with_books(有图书)、empty(空分类);level按层级过滤;name模糊查找
// @Tags         分类
// @Produce      json
// @Param        view query string false "视角" Enums(roots, with_books, empty)
// @Param        level query int false "层级(根=0)"
// @Param        name query string false "名称关键词"
// @Success      200 {object} response.Response{data=[]dto.CategoryListItem}
// @Router       /api/v1/categories [get]
func (h *CategoryHandler) ListCategories(c *gin.Context) {
	ctx := c.Request.Context()

	var (
		items []appcategory.CategoryItem
		err   error
	)
	switch {
	case c.Query("name") != "":
		items, err = h.queryUseCase.Search(ctx, c.Query("name"))
	case c.Query("level") != "":
		level, convErr := strconv.Atoi(c.Query("level"))
		if convErr != nil || level < 0 {
			response.ErrorWithCode(c, apperrors.ErrCodeInvalidParams, "层级必须是非负整数")
			return
		}
		items, err = h.queryUseCase.ListByLevel(ctx, level)
	case c.Query("view") == "roots":
		items, err = h.queryUseCase.ListRoots(ctx)
	case c.Query("view") == "with_books":
		items, err = h.queryUseCase.ListWithBooks(ctx)
	case c.Query("view") == "empty":
		items, err = h.queryUseCase.ListEmpty(ctx)
	default:
		items, err = h.queryUseCase.ListAll(ctx)
	}
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, toCategoryListItems(items))
}

// ListChildren 查询直接子分类
// @Summary      查询子分类
// @Tags         分类
// @Produce      json
// @Param        id path int true "父分类ID"
// @Success      200 {object} response.Response{data=[]dto.CategoryListItem}
// @Failure      404 {object} response.Response "分类不存在"
// @Router       /api/v1/categories/{id}/children [get]
func (h *CategoryHandler) ListChildren(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	items, err := h.queryUseCase.ListChildren(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, toCategoryListItems(items))
}

// =========================================
// 辅助函数:DTO转换与参数解析
// =========================================

// parseIDParam 解析路径中的ID参数,非法时直接写错误响应
func parseIDParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		response.ErrorWithCode(c, apperrors.ErrCodeInvalidParams, "ID必须是正整数")
		return 0, false
	}
	return uint(id), true
}

func toCategoryResponse(d *appcategory.CategoryDetail, bookCount int64, hasChildren bool) *dto.CategoryResponse {
	return &dto.CategoryResponse{
		ID:          d.ID,
		Name:        d.Name,
		Description: d.Description,
		ParentID:    d.ParentID,
		Level:       d.Level,
		FullPath:    d.FullPath,
		BookCount:   bookCount,
		HasChildren: hasChildren,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

func toCategoryListItems(items []appcategory.CategoryItem) []dto.CategoryListItem {
	result := make([]dto.CategoryListItem, len(items))
	for i, item := range items {
		result[i] = dto.CategoryListItem{
			ID:          item.ID,
			Name:        item.Name,
			Description: item.Description,
			ParentID:    item.ParentID,
			CreatedAt:   item.CreatedAt,
		}
	}
	return result
}
