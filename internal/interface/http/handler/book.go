package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	appbook "github.com/xiebiao/bookmarket/internal/application/book"
	"github.com/xiebiao/bookmarket/internal/interface/http/dto"
	"github.com/xiebiao/bookmarket/internal/interface/http/middleware"
	apperrors "github.com/xiebiao/bookmarket/pkg/errors"
	"github.com/xiebiao/bookmarket/pkg/response"
)

// BookHandler 图书HTTP处理器
type BookHandler struct {
	publishUseCase *appbook.PublishBookUseCase
	getUseCase     *appbook.GetBookUseCase
	listUseCase    *appbook.ListBooksUseCase
	updateUseCase  *appbook.UpdateBookUseCase
	deleteUseCase  *appbook.DeleteBookUseCase
}

// NewBookHandler 创建图书处理器
func NewBookHandler(
	publishUseCase *appbook.PublishBookUseCase,
	getUseCase *appbook.GetBookUseCase,
	listUseCase *appbook.ListBooksUseCase,
	updateUseCase *appbook.UpdateBookUseCase,
	deleteUseCase *appbook.DeleteBookUseCase,
) *BookHandler {
	return &BookHandler{
		publishUseCase: publishUseCase,
		getUseCase:     getUseCase,
		listUseCase:    listUseCase,
		updateUseCase:  updateUseCase,
		deleteUseCase:  deleteUseCase,
	}
}

// PublishBook 发布图书
// @Summary      发布图书
// @Description  登录用户上架一本二手书，初始状态为available
// @Tags         图书
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.PublishBookRequest true "图书信息"
// @Success      201 {object} response.Response{data=dto.BookResponse} "发布成功"
// @Failure      400 {object} response.Response "参数错误"
// @Failure      403 {object} response.Response "未登录"
// @Router       /api/v1/books [post]
func (h *BookHandler) PublishBook(c *gin.Context) {
	var req dto.PublishBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, apperrors.KindInvalidInput, apperrors.ErrCodeInvalidParams, "参数错误: "+err.Error())
		return
	}

	userID := middleware.MustGetUserID(c)

	result, err := h.publishUseCase.Execute(c.Request.Context(), appbook.PublishBookRequest{
		Title:       req.Title,
		Author:      req.Author,
		Genre:       req.Genre,
		Publisher:   req.Publisher,
		PublishedAt: req.PublishedAt,
		Price:       req.Price,
		OwnerID:     userID,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, toBookResponse(result))
}

// GetBook 获取图书详情
// @Summary      获取图书详情
// @Description  根据ID查询图书（不返回已下架图书）
// @Tags         图书
// @Produce      json
// @Param        id path int true "图书ID"
// @Success      200 {object} response.Response{data=dto.BookResponse} "查询成功"
// @Failure      404 {object} response.Response "图书不存在"
// @Router       /api/v1/books/{id} [get]
func (h *BookHandler) GetBook(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		response.ErrorWithCode(c, apperrors.KindInvalidInput, apperrors.ErrCodeInvalidParams, "无效的图书ID")
		return
	}

	result, err := h.getUseCase.Execute(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, toBookResponse(result))
}

// ListBooks 图书列表
// @Summary      图书列表
// @Description  分页查询图书，支持关键词搜索、题材/卖家过滤与排序
// @Tags         图书
// @Produce      json
// @Param        page query int false "页码" default(1)
// @Param        page_size query int false "每页数量" default(20)
// @Param        keyword query string false "搜索关键词(标题、作者、出版社)"
// @Param        genre query string false "题材过滤"
// @Param        owner_id query int false "卖家过滤"
// @Param        sort_by query string false "排序方式" Enums(price_asc, price_desc, created_at_desc)
// @Success      200 {object} response.Response{data=dto.ListBooksResponse} "查询成功"
// @Failure      400 {object} response.Response "参数错误"
// @Router       /api/v1/books [get]
func (h *BookHandler) ListBooks(c *gin.Context) {
	var req dto.ListBooksRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.ErrorWithCode(c, apperrors.KindInvalidInput, apperrors.ErrCodeInvalidParams, "参数错误: "+err.Error())
		return
	}

	result, err := h.listUseCase.Execute(c.Request.Context(), appbook.ListBooksRequest{
		Page:     req.Page,
		PageSize: req.PageSize,
		Keyword:  req.Keyword,
		Genre:    req.Genre,
		OwnerID:  req.OwnerID,
		SortBy:   req.SortBy,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]dto.BookListItem, 0, len(result.List))
	for _, b := range result.List {
		items = append(items, dto.BookListItem{
			ID:        b.ID,
			Title:     b.Title,
			Author:    b.Author,
			Genre:     b.Genre,
			Publisher: b.Publisher,
			Price:     b.Price,
			PriceYuan: dto.FormatPriceYuan(b.Price),
			OwnerID:   b.OwnerID,
			Status:    b.Status,
			CreatedAt: b.CreatedAt,
		})
	}

	response.Success(c, dto.ListBooksResponse{
		List:  items,
		Total: result.Total,
		Page:  result.Page,
		Size:  result.PageSize,
	})
}

// UpdateBook 更新图书信息
// @Summary      更新图书
// @Description  修改图书信息或价格（仅发布者本人）
// @Tags         图书
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "图书ID"
// @Param        request body dto.UpdateBookRequest true "更新内容"
// @Success      200 {object} response.Response{data=dto.BookResponse} "更新成功"
// @Failure      403 {object} response.Response "非发布者本人"
// @Failure      404 {object} response.Response "图书不存在"
// @Router       /api/v1/books/{id} [put]
func (h *BookHandler) UpdateBook(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		response.ErrorWithCode(c, apperrors.KindInvalidInput, apperrors.ErrCodeInvalidParams, "无效的图书ID")
		return
	}

	var req dto.UpdateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, apperrors.KindInvalidInput, apperrors.ErrCodeInvalidParams, "参数错误: "+err.Error())
		return
	}

	userID := middleware.MustGetUserID(c)

	result, err := h.updateUseCase.Execute(c.Request.Context(), appbook.UpdateBookRequest{
		BookID:    id,
		UserID:    userID,
		Title:     req.Title,
		Author:    req.Author,
		Genre:     req.Genre,
		Publisher: req.Publisher,
		Price:     req.Price,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, toBookResponse(result))
}

// DeleteBook 下架图书
// @Summary      下架图书
// @Description  下架图书（仅发布者本人，已售图书不可下架）
// @Tags         图书
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "图书ID"
// @Success      200 {object} response.Response "下架成功"
// @Failure      400 {object} response.Response "图书已售出"
// @Failure      403 {object} response.Response "非发布者本人"
// @Failure      404 {object} response.Response "图书不存在"
// @Router       /api/v1/books/{id} [delete]
func (h *BookHandler) DeleteBook(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		response.ErrorWithCode(c, apperrors.KindInvalidInput, apperrors.ErrCodeInvalidParams, "无效的图书ID")
		return
	}

	userID := middleware.MustGetUserID(c)

	if err := h.deleteUseCase.Execute(c.Request.Context(), id, userID); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, gin.H{"mensaje": "图书已下架"})
}

// toBookResponse 应用层DTO转HTTP响应
func toBookResponse(b *appbook.PublishBookResponse) dto.BookResponse {
	return dto.BookResponse{
		ID:          b.ID,
		Title:       b.Title,
		Author:      b.Author,
		Genre:       b.Genre,
		Publisher:   b.Publisher,
		PublishedAt: b.PublishedAt,
		Price:       b.Price,
		PriceYuan:   dto.FormatPriceYuan(b.Price),
		OwnerID:     b.OwnerID,
		Status:      b.Status,
		CreatedAt:   b.CreatedAt,
	}
}

// parseUintParam 解析路径参数为uint
func parseUintParam(c *gin.Context, name string) (uint, error) {
	v, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(v), nil
}
