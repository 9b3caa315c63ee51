package event

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"

	appOrder "github.com/xiebiao/bookmarket/internal/application/order"
	"github.com/xiebiao/bookmarket/internal/domain/order"
	apperrors "github.com/xiebiao/bookmarket/pkg/errors"
	"github.com/xiebiao/bookmarket/pkg/mq"
)

// 订单事件路由键
const (
	RoutingKeyOrderCreated   = "order.created"
	RoutingKeyOrderCancelled = "order.cancelled"
	RoutingKeyOrderCompleted = "order.completed"
)

// OrderEvent 订单事件消息体
// 设计说明:
// 1. MessageID用于消费端幂等去重
// 2. 事件只携带订单快照,消费方需要更多信息时回查API
type OrderEvent struct {
	MessageID  string `json:"message_id"`
	EventType  string `json:"event_type"`
	OrderID    uint   `json:"order_id"`
	OrderNo    string `json:"order_no"`
	BuyerID    uint   `json:"buyer_id"`
	SellerID   uint   `json:"seller_id"`
	BookIDs    []uint `json:"book_ids"`
	Total      int64  `json:"total"`
	Status     string `json:"status"`
	OccurredAt string `json:"occurred_at"`
}

// AMQPPublisher 基于RabbitMQ的订单事件发布器
// 实现application/order.EventPublisher接口
type AMQPPublisher struct {
	publisher *mq.Publisher
}

// NewAMQPPublisher 创建RabbitMQ事件发布器
func NewAMQPPublisher(publisher *mq.Publisher) appOrder.EventPublisher {
	return &AMQPPublisher{publisher: publisher}
}

// OrderCreated 发布订单创建事件
func (p *AMQPPublisher) OrderCreated(ctx context.Context, o *order.Order) error {
	return p.publish(ctx, RoutingKeyOrderCreated, o)
}

// OrderCancelled 发布订单取消事件
func (p *AMQPPublisher) OrderCancelled(ctx context.Context, o *order.Order) error {
	return p.publish(ctx, RoutingKeyOrderCancelled, o)
}

// OrderCompleted 发布订单完成事件
func (p *AMQPPublisher) OrderCompleted(ctx context.Context, o *order.Order) error {
	return p.publish(ctx, RoutingKeyOrderCompleted, o)
}

func (p *AMQPPublisher) publish(ctx context.Context, routingKey string, o *order.Order) error {
	evt := OrderEvent{
		MessageID:  uuid.NewString(),
		EventType:  routingKey,
		OrderID:    o.ID,
		OrderNo:    o.OrderNo,
		BuyerID:    o.BuyerID,
		SellerID:   o.SellerID,
		BookIDs:    o.BookIDs(),
		Total:      o.Total,
		Status:     o.Status.String(),
		OccurredAt: time.Now().Format(time.RFC3339),
	}

	if err := p.publisher.Publish(ctx, routingKey, evt); err != nil {
		return apperrors.New(apperrors.KindInternal, apperrors.ErrCodeMQError, "发布订单事件失败")
	}
	return nil
}

// NoopPublisher 空实现,MQ未启用时降级为本地日志
type NoopPublisher struct{}

// NewNoopPublisher 创建空事件发布器
func NewNoopPublisher() appOrder.EventPublisher {
	return &NoopPublisher{}
}

func (p *NoopPublisher) OrderCreated(ctx context.Context, o *order.Order) error {
	log.Printf("订单事件(本地): %s order_no=%s", RoutingKeyOrderCreated, o.OrderNo)
	return nil
}

func (p *NoopPublisher) OrderCancelled(ctx context.Context, o *order.Order) error {
	log.Printf("订单事件(本地): %s order_no=%s", RoutingKeyOrderCancelled, o.OrderNo)
	return nil
}

func (p *NoopPublisher) OrderCompleted(ctx context.Context, o *order.Order) error {
	log.Printf("订单事件(本地): %s order_no=%s", RoutingKeyOrderCompleted, o.OrderNo)
	return nil
}
