package order

import (
	"context"

	"github.com/xiebiao/bookmarket/internal/domain/order"
)

// EventPublisher 订单事件发布接口
// 设计说明:
// 1. 接口定义在application层,infrastructure/event层实现(依赖倒置)
// 2. 事件在事务提交后发布,发布失败只记录日志不影响主流程
// 3. 下游消费方:通知服务、数据分析等
type EventPublisher interface {
	// OrderCreated 订单创建成功
	OrderCreated(ctx context.Context, o *order.Order) error

	// OrderCancelled 订单已取消(图书已释放)
	OrderCancelled(ctx context.Context, o *order.Order) error

	// OrderCompleted 订单已完成
	OrderCompleted(ctx context.Context, o *order.Order) error
}
