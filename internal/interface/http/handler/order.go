package handler

import (
	"github.com/gin-gonic/gin"

	apporder "github.com/xiebiao/bookmarket/internal/application/order"
	"github.com/xiebiao/bookmarket/internal/interface/http/dto"
	"github.com/xiebiao/bookmarket/internal/interface/http/middleware"
	apperrors "github.com/xiebiao/bookmarket/pkg/errors"
	"github.com/xiebiao/bookmarket/pkg/response"
)

// OrderHandler 订单HTTP处理器
// 设计说明：
// 订单接口全部要求登录,操作者身份一律取自JWT,
// 不信任请求体里的任何用户ID字段
type OrderHandler struct {
	createUseCase *apporder.CreateOrderUseCase
	getUseCase    *apporder.GetOrderUseCase
	listUseCase   *apporder.ListOrdersUseCase
	updateUseCase *apporder.UpdateOrderStatusUseCase
	deleteUseCase *apporder.DeleteOrderUseCase
}

// NewOrderHandler 创建订单处理器
func NewOrderHandler(
	createUseCase *apporder.CreateOrderUseCase,
	getUseCase *apporder.GetOrderUseCase,
	listUseCase *apporder.ListOrdersUseCase,
	updateUseCase *apporder.UpdateOrderStatusUseCase,
	deleteUseCase *apporder.DeleteOrderUseCase,
) *OrderHandler {
	return &OrderHandler{
		createUseCase: createUseCase,
		getUseCase:    getUseCase,
		listUseCase:   listUseCase,
		updateUseCase: updateUseCase,
		deleteUseCase: deleteUseCase,
	}
}

// CreateOrder 创建订单
// @Summary      创建订单
// @Description  购买一批同一卖家的图书，下单成功后图书变为sold
// @Tags         订单
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.CreateOrderRequest true "下单信息"
// @Success      201 {object} response.Response{data=dto.OrderResponse} "下单成功"
// @Failure      400 {object} response.Response "参数错误、图书不可购买、跨卖家或购买自己的书"
// @Failure      403 {object} response.Response "未登录"
// @Failure      404 {object} response.Response "图书不存在"
// @Router       /api/v1/orders [post]
func (h *OrderHandler) CreateOrder(c *gin.Context) {
	var req dto.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, apperrors.KindInvalidInput, apperrors.ErrCodeInvalidParams, "参数错误: "+err.Error())
		return
	}

	buyerID := middleware.MustGetUserID(c)

	result, err := h.createUseCase.Execute(c.Request.Context(), apporder.CreateOrderRequest{
		BuyerID:         buyerID,
		BookIDs:         req.BookIDs,
		ShippingAddress: req.ShippingAddress,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, result)
}

// GetOrder 订单详情
// @Summary      订单详情
// @Description  查询订单（仅交易双方可见）
// @Tags         订单
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "订单ID"
// @Success      200 {object} response.Response{data=dto.OrderResponse} "查询成功"
// @Failure      403 {object} response.Response "非交易双方"
// @Failure      404 {object} response.Response "订单不存在"
// @Router       /api/v1/orders/{id} [get]
func (h *OrderHandler) GetOrder(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		response.ErrorWithCode(c, apperrors.KindInvalidInput, apperrors.ErrCodeInvalidParams, "无效的订单ID")
		return
	}

	actorID := middleware.MustGetUserID(c)

	result, err := h.getUseCase.Execute(c.Request.Context(), id, actorID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// ListOrders 订单列表
// @Summary      订单列表
// @Description  查询当前用户作为买家或卖家参与的订单，可按状态过滤
// @Tags         订单
// @Produce      json
// @Security     BearerAuth
// @Param        estado query string false "状态过滤" Enums(en_progreso, cancelado, completado)
// @Param        page query int false "页码" default(1)
// @Param        page_size query int false "每页数量" default(20)
// @Success      200 {object} response.Response "查询成功"
// @Failure      400 {object} response.Response "状态值非法"
// @Failure      403 {object} response.Response "未登录"
// @Router       /api/v1/orders [get]
func (h *OrderHandler) ListOrders(c *gin.Context) {
	var req dto.ListOrdersRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.ErrorWithCode(c, apperrors.KindInvalidInput, apperrors.ErrCodeInvalidParams, "参数错误: "+err.Error())
		return
	}

	actorID := middleware.MustGetUserID(c)

	result, err := h.listUseCase.Execute(c.Request.Context(), apporder.ListOrdersRequest{
		ActorID:  actorID,
		Status:   req.Status,
		Page:     req.Page,
		PageSize: req.PageSize,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// UpdateOrderStatus 订单状态流转
// @Summary      订单状态流转
// @Description  将进行中的订单流转为cancelado（双方均可）或completado（仅卖家）
// @Tags         订单
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "订单ID"
// @Param        request body dto.UpdateOrderStatusRequest true "目标状态"
// @Success      200 {object} response.Response{data=dto.OrderResponse} "流转成功"
// @Failure      400 {object} response.Response "状态值非法或订单已终态"
// @Failure      403 {object} response.Response "非交易双方或买家确认完成"
// @Failure      404 {object} response.Response "订单不存在"
// @Router       /api/v1/orders/{id} [put]
func (h *OrderHandler) UpdateOrderStatus(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		response.ErrorWithCode(c, apperrors.KindInvalidInput, apperrors.ErrCodeInvalidParams, "无效的订单ID")
		return
	}

	var req dto.UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, apperrors.KindInvalidInput, apperrors.ErrCodeInvalidParams, "参数错误: "+err.Error())
		return
	}

	actorID := middleware.MustGetUserID(c)

	result, err := h.updateUseCase.Execute(c.Request.Context(), apporder.UpdateOrderStatusRequest{
		OrderID: id,
		ActorID: actorID,
		Status:  req.Status,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// DeleteOrder 删除(取消)订单
// @Summary      删除订单
// @Description  取消进行中的订单并释放图书；已取消订单重复删除幂等返回
// @Tags         订单
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "订单ID"
// @Success      200 {object} response.Response{data=dto.DeleteOrderResponse} "取消成功"
// @Failure      400 {object} response.Response "订单已完成,不可删除"
// @Failure      403 {object} response.Response "非交易双方"
// @Failure      404 {object} response.Response "订单不存在"
// @Router       /api/v1/orders/{id} [delete]
func (h *OrderHandler) DeleteOrder(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		response.ErrorWithCode(c, apperrors.KindInvalidInput, apperrors.ErrCodeInvalidParams, "无效的订单ID")
		return
	}

	actorID := middleware.MustGetUserID(c)

	result, err := h.deleteUseCase.Execute(c.Request.Context(), id, actorID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}
