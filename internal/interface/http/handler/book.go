package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	appbook "github.com/xiebiao/library/internal/application/book"
	"github.com/xiebiao/library/internal/interface/http/dto"
	apperrors "github.com/xiebiao/library/pkg/errors"
	"github.com/xiebiao/library/pkg/response"
)

// BookHandler 图书HTTP处理器
type BookHandler struct {
	createUseCase *appbook.CreateBookUseCase
	updateUseCase *appbook.UpdateBookUseCase
	deleteUseCase *appbook.DeleteBookUseCase
	getUseCase    *appbook.GetBookUseCase
	searchUseCase *appbook.SearchBooksUseCase
	linkUseCase   *appbook.LinkCategoryUseCase
	importUseCase *appbook.ImportBooksUseCase
}

// NewBookHandler 创建图书处理器
func NewBookHandler(
	createUseCase *appbook.CreateBookUseCase,
	updateUseCase *appbook.UpdateBookUseCase,
	deleteUseCase *appbook.DeleteBookUseCase,
	getUseCase *appbook.GetBookUseCase,
	searchUseCase *appbook.SearchBooksUseCase,
	linkUseCase *appbook.LinkCategoryUseCase,
	importUseCase *appbook.ImportBooksUseCase,
) *BookHandler {
	return &BookHandler{
		createUseCase: createUseCase,
		updateUseCase: updateUseCase,
		deleteUseCase: deleteUseCase,
		getUseCase:    getUseCase,
		searchUseCase: searchUseCase,
		linkUseCase:   linkUseCase,
		importUseCase: importUseCase,
	}
}

// CreateBook 创建图书
// @Summary      创建图书
// @Description  ISBN必须唯一,total_copies省略时缺省为1
// @Tags         图书
// @Accept       json
// @Produce      json
// @Param        request body dto.CreateBookRequest true "图书信息"
// @Success      200 {object} response.Response{data=dto.BookResponse}
// @Failure      400 {object} response.Response "参数错误或ISBN已存在"
// @Router       /api/v1/books [post]
func (h *BookHandler) CreateBook(c *gin.Context) {
	var req dto.CreateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, apperrors.ErrCodeBindError, "参数错误: "+err.Error())
		return
	}

	result, err := h.createUseCase.Execute(c.Request.Context(), appbook.CreateBookRequest{
		ISBN:            req.ISBN,
		Title:           req.Title,
		Author:          req.Author,
		Publisher:       req.Publisher,
		PublicationYear: req.PublicationYear,
		Genre:           req.Genre,
		Summary:         req.Summary,
		TotalCopies:     req.TotalCopies,
		CategoryIDs:     req.CategoryIDs,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, toBookResponse(result))
}

// UpdateBook 更新图书
// @Summary      更新图书
// @Description  省略的字段不修改;total_copies变化按差值传导到可借册数
// @Tags         图书
// @Accept       json
// @Produce      json
// @Param        id path int true "图书ID"
// @Param        request body dto.UpdateBookRequest true "更新内容"
// @Success      200 {object} response.Response{data=dto.BookResponse}
// @Failure      400 {object} response.Response "参数错误"
// @Failure      404 {object} response.Response "图书不存在"
// @Router       /api/v1/books/{id} [put]
func (h *BookHandler) UpdateBook(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, apperrors.ErrCodeBindError, "参数错误: "+err.Error())
		return
	}

	result, err := h.updateUseCase.Execute(c.Request.Context(), id, appbook.UpdateBookRequest{
		ISBN:            req.ISBN,
		Title:           req.Title,
		Author:          req.Author,
		Publisher:       req.Publisher,
		PublicationYear: req.PublicationYear,
		Genre:           req.Genre,
		Summary:         req.Summary,
		TotalCopies:     req.TotalCopies,
		Status:          req.Status,
		CategoryIDs:     req.CategoryIDs,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, toBookResponse(result))
}

// DeleteBook 删除图书
// @Summary      删除图书
// @Description  物理删除,分类关联边一并清除
// @Tags         图书
// @Produce      json
// @Param        id path int true "图书ID"
// @Success      200 {object} response.Response
// @Failure      404 {object} response.Response "图书不存在"
// @Router       /api/v1/books/{id} [delete]
func (h *BookHandler) DeleteBook(c *gin.Context) {
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

// GetBook 查询图书详情
// @Summary      查询图书详情
// @Tags         图书
// @Produce      json
// @Param        id path int true "图书ID"
// @Success      200 {object} response.Response{data=dto.BookResponse}
// @Failure      404 {object} response.Response "图书不存在"
// @Router       /api/v1/books/{id} [get]
func (h *BookHandler) GetBook(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	result, err := h.getUseCase.Execute(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, toBookResponse(result))
}

// GetBookByISBN 按ISBN查询图书详情
// @Summary      按ISBN查询图书
// @Tags         图书
// @Produce      json
// @Param        isbn path string true "ISBN号"
// @Success      200 {object} response.Response{data=dto.BookResponse}
// @Failure      404 {object} response.Response "图书不存在"
// @Router       /api/v1/books/isbn/{isbn} [get]
func (h *BookHandler) GetBookByISBN(c *gin.Context) {
	isbn := c.Param("isbn")

	result, err := h.getUseCase.ExecuteByISBN(c.Request.Context(), isbn)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, toBookResponse(result))
}

// SearchBooks 组合检索图书
// @Summary      检索图书
// @Description  组合条件分页检索,零值条件不参与过滤
// @Tags         图书
// @Produce      json
// @Param        title query string false "书名关键词"
// @Param        author query string false "作者关键词"
// @Param        publisher query string false "出版社关键词"
// @Param        genre query string false "体裁"
// @Param        year_from query int false "出版年份下界"
// @Param        year_to query int false "出版年份上界"
// @Param        isbn query string false "ISBN精确匹配"
// @Param        page query int false "页码(默认1)"
// @Param        page_size query int false "每页数量(默认20,最大100)"
// @Success      200 {object} response.Response{data=response.PageData}
// @Router       /api/v1/books [get]
func (h *BookHandler) SearchBooks(c *gin.Context) {
	var req dto.SearchBooksRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.ErrorWithCode(c, apperrors.ErrCodeBindError, "参数错误: "+err.Error())
		return
	}

	result, err := h.searchUseCase.Execute(c.Request.Context(), appbook.SearchBooksRequest{
		Title:     req.Title,
		Author:    req.Author,
		Publisher: req.Publisher,
		Genre:     req.Genre,
		YearFrom:  req.YearFrom,
		YearTo:    req.YearTo,
		ISBN:      req.ISBN,
		Page:      req.Page,
		PageSize:  req.PageSize,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPage(c, result.List, result.Total, result.Page, result.PageSize)
}

// ListLowStock 查询低库存图书
// @Summary      查询低库存图书
// @Description  可借册数不超过阈值的AVAILABLE图书,threshold省略时默认3
// @Tags         图书
// @Produce      json
// @Param        threshold query int false "低库存阈值"
// @Success      200 {object} response.Response
// @Router       /api/v1/books/low-stock [get]
func (h *BookHandler) ListLowStock(c *gin.Context) {
	var threshold *int
	if s := c.Query("threshold"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil || v < 0 {
			response.ErrorWithCode(c, apperrors.ErrCodeInvalidParams, "threshold必须是非负整数")
			return
		}
		threshold = &v
	}

	items, err := h.searchUseCase.ListLowStock(c.Request.Context(), threshold)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, items)
}

// ListUncategorized 查询未分类图书
// @Summary      查询未分类图书
// @Tags         图书
// @Produce      json
// @Success      200 {object} response.Response
// @Router       /api/v1/books/uncategorized [get]
func (h *BookHandler) ListUncategorized(c *gin.Context) {
	items, err := h.searchUseCase.ListUncategorized(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, items)
}

// ListBooksByCategory 查询分类下的图书
// @Summary      查询分类下的图书
// @Tags         分类
// @Produce      json
// @Param        id path int true "分类ID"
// @Success      200 {object} response.Response
// @Failure      404 {object} response.Response "分类不存在"
// @Router       /api/v1/categories/{id}/books [get]
func (h *BookHandler) ListBooksByCategory(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	items, err := h.searchUseCase.ListByCategory(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, items)
}

// ListBookCategories 查询图书所属的分类
// @Summary      查询图书所属分类
// @Tags         图书
// @Produce      json
// @Param        id path int true "图书ID"
// @Success      200 {object} response.Response{data=[]dto.CategoryRefItem}
// @Failure      404 {object} response.Response "图书不存在"
// @Router       /api/v1/books/{id}/categories [get]
func (h *BookHandler) ListBookCategories(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	refs, err := h.linkUseCase.ListCategories(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, toCategoryRefItems(refs))
}

// AddBookToCategory 把图书加入分类
// @Summary      图书加入分类
// @Description  幂等操作,重复加入不报错
// @Tags         图书
// @Produce      json
// @Param        id path int true "图书ID"
// @Param        categoryId path int true "分类ID"
// @Success      200 {object} response.Response
// @Failure      404 {object} response.Response "图书或分类不存在"
// @Router       /api/v1/books/{id}/categories/{categoryId} [put]
func (h *BookHandler) AddBookToCategory(c *gin.Context) {
	bookID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	categoryID, ok := parseIDParam(c, "categoryId")
	if !ok {
		return
	}

	if err := h.linkUseCase.Add(c.Request.Context(), bookID, categoryID); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, nil)
}

// RemoveBookFromCategory 把图书移出分类
// @Summary      图书移出分类
// @Description  幂等操作,移出不存在的关联不报错
// @Tags         图书
// @Produce      json
// @Param        id path int true "图书ID"
// @Param        categoryId path int true "分类ID"
// @Success      200 {object} response.Response
// @Failure      404 {object} response.Response "图书或分类不存在"
// @Router       /api/v1/books/{id}/categories/{categoryId} [delete]
func (h *BookHandler) RemoveBookFromCategory(c *gin.Context) {
	bookID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	categoryID, ok := parseIDParam(c, "categoryId")
	if !ok {
		return
	}

	if err := h.linkUseCase.Remove(c.Request.Context(), bookID, categoryID); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, nil)
}

// ImportBooks 批量导入图书(CSV)
// @Summary      批量导入图书
// @Description  上传CSV文件逐行导入,单行失败跳过并在结果中列出原因
// @Tags         图书
// @Accept       multipart/form-data
// @Produce      json
// @Param        file formData file true "CSV文件"
// @Success      200 {object} response.Response
// @Failure      400 {object} response.Response "文件缺失或CSV格式错误"
// @Router       /api/v1/books/import [post]
func (h *BookHandler) ImportBooks(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.ErrorWithCode(c, apperrors.ErrCodeMissingField, "缺少上传文件: "+err.Error())
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		response.ErrorWithCode(c, apperrors.ErrCodeInvalidParams, "打开上传文件失败: "+err.Error())
		return
	}
	defer f.Close()

	result, err := h.importUseCase.Execute(c.Request.Context(), f)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// =========================================
// 辅助函数:DTO转换
// =========================================

func toBookResponse(d *appbook.BookDetail) *dto.BookResponse {
	return &dto.BookResponse{
		ID:              d.ID,
		ISBN:            d.ISBN,
		Title:           d.Title,
		Author:          d.Author,
		Publisher:       d.Publisher,
		PublicationYear: d.PublicationYear,
		Genre:           d.Genre,
		Summary:         d.Summary,
		TotalCopies:     d.TotalCopies,
		AvailableCopies: d.AvailableCopies,
		Status:          d.Status,
		Categories:      toCategoryRefItems(d.Categories),
		CreatedAt:       d.CreatedAt,
		UpdatedAt:       d.UpdatedAt,
	}
}

func toCategoryRefItems(refs []appbook.CategoryRef) []dto.CategoryRefItem {
	items := make([]dto.CategoryRefItem, len(refs))
	for i, r := range refs {
		items[i] = dto.CategoryRefItem{ID: r.ID, Name: r.Name}
	}
	return items
}
