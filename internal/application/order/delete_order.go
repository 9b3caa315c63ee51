package order

import (
	"context"
	"log"

	"github.com/xiebiao/bookmarket/internal/domain/book"
	"github.com/xiebiao/bookmarket/internal/domain/order"
	"github.com/xiebiao/bookmarket/pkg/authz"
	"github.com/xiebiao/bookmarket/pkg/metrics"
)

// DeleteOrderUseCase 删除订单用例
// 设计说明:
// 订单是交易记录,不做物理删除。"删除"语义上等价于取消:
// 订单流转到cancelado,图书释放回在售,记录保留可查
type DeleteOrderUseCase struct {
	orderRepo order.Repository
	bookRepo  book.Repository
	txManager TxManager
	publisher EventPublisher
}

// NewDeleteOrderUseCase 创建删除订单用例
func NewDeleteOrderUseCase(
	orderRepo order.Repository,
	bookRepo book.Repository,
	txManager TxManager,
	publisher EventPublisher,
) *DeleteOrderUseCase {
	return &DeleteOrderUseCase{
		orderRepo: orderRepo,
		bookRepo:  bookRepo,
		txManager: txManager,
		publisher: publisher,
	}
}

// DeleteOrderResponse 删除确认DTO
type DeleteOrderResponse struct {
	OrderID uint   `json:"order_id"`
	OrderNo string `json:"order_no"`
	Status  string `json:"estado"`
	Message string `json:"mensaje"`
}

// Execute 执行删除(取消)订单
// 业务规则:
// 1. 只有交易双方可操作
// 2. 进行中 → 取消并释放图书
// 3. 已取消 → 幂等,直接返回确认
// 4. 已完成 → 状态冲突,不可删除
func (uc *DeleteOrderUseCase) Execute(ctx context.Context, orderID, actorID uint) (*DeleteOrderResponse, error) {
	// 1. 查询订单(先404)
	o, err := uc.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	// 2. 权限校验(后403)
	if d := authz.AnyParty(actorID, o.BuyerID, o.SellerID); !d.Allowed {
		return nil, order.ErrNotOrderParty
	}

	// 3. 幂等:已取消的订单重复删除直接返回确认
	if o.Status == order.OrderStatusCancelled {
		return &DeleteOrderResponse{
			OrderID: o.ID,
			OrderNo: o.OrderNo,
			Status:  o.Status.String(),
			Message: "orden ya cancelada",
		}, nil
	}

	// 已完成的订单不可删除
	if o.Status == order.OrderStatusCompleted {
		return nil, order.ErrInvalidStatusTransition
	}

	// 4. 事务内CAS取消 + 释放图书
	err = uc.txManager.Transaction(ctx, func(txCtx context.Context) error {
		ok, err := uc.orderRepo.CompareAndSetStatus(txCtx, o.ID, order.OrderStatusInProgress, order.OrderStatusCancelled)
		if err != nil {
			return err
		}
		if !ok {
			// 并发竞争:重新读取判断是幂等还是冲突
			latest, err := uc.orderRepo.FindByID(txCtx, o.ID)
			if err != nil {
				return err
			}
			if latest.Status == order.OrderStatusCancelled {
				return nil // 已被并发取消,视为幂等成功
			}
			return order.ErrInvalidStatusTransition
		}

		return uc.bookRepo.Release(txCtx, o.BookIDs())
	})
	if err != nil {
		return nil, err
	}

	o.Status = order.OrderStatusCancelled
	metrics.OrdersCancelledTotal.Inc()

	if pubErr := uc.publisher.OrderCancelled(ctx, o); pubErr != nil {
		log.Printf("发布订单取消事件失败: order_no=%s, err=%v", o.OrderNo, pubErr)
	}

	return &DeleteOrderResponse{
		OrderID: o.ID,
		OrderNo: o.OrderNo,
		Status:  o.Status.String(),
		Message: "orden cancelada",
	}, nil
}
