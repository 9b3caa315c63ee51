package order

import (
	"context"

	"github.com/xiebiao/bookmarket/internal/domain/order"
	"github.com/xiebiao/bookmarket/pkg/authz"
)

// GetOrderUseCase 查询订单详情用例
type GetOrderUseCase struct {
	orderRepo order.Repository
}

// NewGetOrderUseCase 创建订单详情用例
func NewGetOrderUseCase(orderRepo order.Repository) *GetOrderUseCase {
	return &GetOrderUseCase{orderRepo: orderRepo}
}

// OrderDetail 订单详情DTO
type OrderDetail struct {
	OrderID         uint   `json:"order_id"`
	OrderNo         string `json:"order_no"`
	BuyerID         uint   `json:"comprador"`
	SellerID        uint   `json:"vendedor"`
	BookIDs         []uint `json:"libros_ids"`
	ShippingAddress string `json:"direccion_envio"`
	Total           int64  `json:"total"`
	TotalFormatted  string `json:"total_formateado"`
	Status          string `json:"estado"`
	CreatedAt       string `json:"created_at"`
	UpdatedAt       string `json:"updated_at"`
}

// Execute 查询订单详情
// 业务规则:只有交易双方(买家或卖家)可以查看订单
func (uc *GetOrderUseCase) Execute(ctx context.Context, orderID, actorID uint) (*OrderDetail, error) {
	o, err := uc.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	// 权限校验:先404后403,订单不存在时不泄露存在性
	if d := authz.AnyParty(actorID, o.BuyerID, o.SellerID); !d.Allowed {
		return nil, order.ErrNotOrderParty
	}

	return toOrderDetail(o), nil
}

// toOrderDetail 构建订单详情DTO
func toOrderDetail(o *order.Order) *OrderDetail {
	return &OrderDetail{
		OrderID:         o.ID,
		OrderNo:         o.OrderNo,
		BuyerID:         o.BuyerID,
		SellerID:        o.SellerID,
		BookIDs:         o.BookIDs(),
		ShippingAddress: o.ShippingAddress,
		Total:           o.Total,
		TotalFormatted:  formatPrice(o.Total),
		Status:          o.Status.String(),
		CreatedAt:       o.CreatedAt.Format("2006-01-02 15:04:05"),
		UpdatedAt:       o.UpdatedAt.Format("2006-01-02 15:04:05"),
	}
}
