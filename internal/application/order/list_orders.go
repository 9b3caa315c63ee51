package order

import (
	"context"

	"github.com/xiebiao/bookmarket/internal/domain/order"
)

// ListOrdersUseCase 查询订单列表用例
type ListOrdersUseCase struct {
	orderRepo order.Repository
}

// NewListOrdersUseCase 创建订单列表用例
func NewListOrdersUseCase(orderRepo order.Repository) *ListOrdersUseCase {
	return &ListOrdersUseCase{orderRepo: orderRepo}
}

// ListOrdersRequest 订单列表请求DTO
type ListOrdersRequest struct {
	ActorID  uint   // 当前用户ID(从JWT中提取)
	Status   string // 状态过滤(en_progreso/cancelado/completado),空表示不过滤
	Page     int
	PageSize int
}

// ListOrdersResponse 订单列表响应DTO
type ListOrdersResponse struct {
	Orders []*OrderDetail `json:"orders"`
	Total  int64          `json:"total"`
}

// Execute 查询订单列表
// 业务规则:
// 1. 只返回当前用户作为买家或卖家参与的订单(不存在全局订单列表)
// 2. 状态过滤值非法时返回参数错误,而不是静默返回空列表
func (uc *ListOrdersUseCase) Execute(ctx context.Context, req ListOrdersRequest) (*ListOrdersResponse, error) {
	// 解析状态过滤
	var status order.OrderStatus
	if req.Status != "" {
		var err error
		status, err = order.ParseStatus(req.Status)
		if err != nil {
			return nil, err
		}
	}

	// 分页参数兜底
	if req.Page < 1 {
		req.Page = 1
	}
	if req.PageSize < 1 || req.PageSize > 100 {
		req.PageSize = 20
	}

	orders, total, err := uc.orderRepo.ListByActor(ctx, req.ActorID, status, req.Page, req.PageSize)
	if err != nil {
		return nil, err
	}

	details := make([]*OrderDetail, len(orders))
	for i, o := range orders {
		details[i] = toOrderDetail(o)
	}

	return &ListOrdersResponse{Orders: details, Total: total}, nil
}
