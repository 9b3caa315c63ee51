package order

import (
	"context"
	"log"

	"github.com/xiebiao/bookmarket/internal/domain/book"
	"github.com/xiebiao/bookmarket/internal/domain/order"
	"github.com/xiebiao/bookmarket/pkg/authz"
	"github.com/xiebiao/bookmarket/pkg/metrics"
)

// UpdateOrderStatusUseCase 订单状态流转用例
// 教学要点:
// 1. 进行中的订单只能流转到cancelado或completado(终态)
// 2. 取消:交易双方任一方可操作,图书释放回在售
// 3. 完成:仅卖家可确认,图书保持已售出
type UpdateOrderStatusUseCase struct {
	orderRepo order.Repository
	bookRepo  book.Repository
	txManager TxManager
	publisher EventPublisher
}

// NewUpdateOrderStatusUseCase 创建订单状态流转用例
func NewUpdateOrderStatusUseCase(
	orderRepo order.Repository,
	bookRepo book.Repository,
	txManager TxManager,
	publisher EventPublisher,
) *UpdateOrderStatusUseCase {
	return &UpdateOrderStatusUseCase{
		orderRepo: orderRepo,
		bookRepo:  bookRepo,
		txManager: txManager,
		publisher: publisher,
	}
}

// UpdateOrderStatusRequest 状态流转请求DTO
type UpdateOrderStatusRequest struct {
	OrderID uint
	ActorID uint   // 当前用户ID(从JWT中提取)
	Status  string // 目标状态(cancelado/completado)
}

// Execute 执行状态流转
// 并发安全:
// 状态更新使用CAS(仅当前状态为en_progreso时更新),
// 两个请求并发提交同一订单的流转时,数据库保证恰好一个成功,
// 输掉的一方收到状态冲突错误
func (uc *UpdateOrderStatusUseCase) Execute(ctx context.Context, req UpdateOrderStatusRequest) (*OrderDetail, error) {
	// 1. 解析目标状态(未知值 → 参数错误)
	target, err := order.ParseStatus(req.Status)
	if err != nil {
		return nil, err
	}

	// 进行中不是合法的流转目标
	if target == order.OrderStatusInProgress {
		return nil, order.ErrInvalidStatusTransition
	}

	// 2. 查询订单(先404)
	o, err := uc.orderRepo.FindByID(ctx, req.OrderID)
	if err != nil {
		return nil, err
	}

	// 3. 权限校验(后403)
	if d := authz.AnyParty(req.ActorID, o.BuyerID, o.SellerID); !d.Allowed {
		return nil, order.ErrNotOrderParty
	}

	// 完成仅卖家可确认
	if target == order.OrderStatusCompleted {
		if d := authz.OwnerOnly(req.ActorID, o.SellerID); !d.Allowed {
			return nil, order.ErrSellerOnly
		}
	}

	// 4. 事务内CAS流转 + 图书联动
	err = uc.txManager.Transaction(ctx, func(txCtx context.Context) error {
		ok, err := uc.orderRepo.CompareAndSetStatus(txCtx, o.ID, order.OrderStatusInProgress, target)
		if err != nil {
			return err
		}
		if !ok {
			// 订单已处于终态(或并发竞争输了)
			return order.ErrInvalidStatusTransition
		}

		// 取消时释放图书(sold→available),完成时图书保持sold
		if target == order.OrderStatusCancelled {
			if err := uc.bookRepo.Release(txCtx, o.BookIDs()); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	o.Status = target

	switch target {
	case order.OrderStatusCancelled:
		metrics.OrdersCancelledTotal.Inc()
		if pubErr := uc.publisher.OrderCancelled(ctx, o); pubErr != nil {
			log.Printf("发布订单取消事件失败: order_no=%s, err=%v", o.OrderNo, pubErr)
		}
	case order.OrderStatusCompleted:
		metrics.OrdersCompletedTotal.Inc()
		if pubErr := uc.publisher.OrderCompleted(ctx, o); pubErr != nil {
			log.Printf("发布订单完成事件失败: order_no=%s, err=%v", o.OrderNo, pubErr)
		}
	}

	return toOrderDetail(o), nil
}
