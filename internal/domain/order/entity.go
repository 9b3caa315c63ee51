package order

import (
	"time"
)

// OrderStatus 订单状态
// 教学要点:
// 1. 使用int类型而非string(节省存储空间,便于索引)
// 2. 对外API使用西语状态值(历史契约,见ParseStatus)
// 3. 状态机只有一个非终态:进行中既可取消也可完成
type OrderStatus int

const (
	OrderStatusInProgress OrderStatus = 1 // 进行中
	OrderStatusCancelled  OrderStatus = 2 // 已取消(终态)
	OrderStatusCompleted  OrderStatus = 3 // 已完成(终态)
)

// 对外API的状态值(历史契约,不要改动)
const (
	StatusValueInProgress = "en_progreso"
	StatusValueCancelled  = "cancelado"
	StatusValueCompleted  = "completado"
)

// String 实现Stringer接口(也是对外API的状态值)
func (s OrderStatus) String() string {
	switch s {
	case OrderStatusInProgress:
		return StatusValueInProgress
	case OrderStatusCancelled:
		return StatusValueCancelled
	case OrderStatusCompleted:
		return StatusValueCompleted
	default:
		return "unknown"
	}
}

// IsTerminal 是否为终态(终态订单不可再修改)
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusCancelled || s == OrderStatusCompleted
}

// ParseStatus 解析对外API的状态值
// 未知值返回ErrUnknownStatus(KindInvalidInput)
func ParseStatus(value string) (OrderStatus, error) {
	switch value {
	case StatusValueInProgress:
		return OrderStatusInProgress, nil
	case StatusValueCancelled:
		return OrderStatusCancelled, nil
	case StatusValueCompleted:
		return OrderStatusCompleted, nil
	default:
		return 0, ErrUnknownStatus
	}
}

// OrderBook 订单内的图书条目(聚合内的子实体)
// 教学要点:
// Price记录"下单时的价格"(历史价格快照),
// 卖家之后改价不影响已有订单的明细和总价
type OrderBook struct {
	BookID uint  // 图书ID
	Price  int64 // 下单时价格(分)
}

// Order 订单实体(聚合根)
// 教学要点:
// 1. 一笔订单绑定唯一卖家(SellerID),多本书必须同属一个卖家
// 2. Total是下单时各图书价格快照之和,改价不影响历史订单
// 3. 创建后图书明细、双方ID、地址、总价均不可变,只有Status可流转
type Order struct {
	ID              uint
	OrderNo         string      // 订单号(业务主键,全局唯一)
	BuyerID         uint        // 买家用户ID
	SellerID        uint        // 卖家用户ID
	Books           []OrderBook // 订单图书明细(保持下单顺序)
	ShippingAddress string      // 收货地址
	Total           int64       // 订单总金额(分),下单时快照
	Status          OrderStatus // 订单状态
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// NewOrder 创建新订单(工厂方法)
// 教学要点:
// 1. 工厂方法封装创建逻辑,保证实体的有效性
// 2. 总价由明细的价格快照累加,不接受外部传入,防止金额与明细不一致
// 3. 初始状态为InProgress(进行中)
// 4. 图书可售性、同卖家约束由应用层在事务内校验
func NewOrder(orderNo string, buyerID, sellerID uint, books []OrderBook, shippingAddress string) (*Order, error) {
	if len(books) == 0 {
		return nil, ErrEmptyBookList
	}
	if shippingAddress == "" {
		return nil, ErrAddressRequired
	}

	var total int64
	for _, b := range books {
		total += b.Price
	}

	now := time.Now()
	return &Order{
		OrderNo:         orderNo,
		BuyerID:         buyerID,
		SellerID:        sellerID,
		Books:           books,
		ShippingAddress: shippingAddress,
		Total:           total,
		Status:          OrderStatusInProgress,
		CreatedAt:       now,
		UpdatedAt:       now,
	}, nil
}

// BookIDs 返回订单包含的图书ID(保持下单顺序)
func (o *Order) BookIDs() []uint {
	ids := make([]uint, len(o.Books))
	for i, b := range o.Books {
		ids[i] = b.BookID
	}
	return ids
}

// CanTransitionTo 检查是否可以转换到目标状态
// 教学要点:状态机设计,终态订单不允许任何流转
func (o *Order) CanTransitionTo(target OrderStatus) bool {
	transitions := map[OrderStatus][]OrderStatus{
		OrderStatusInProgress: {OrderStatusCancelled, OrderStatusCompleted},
		OrderStatusCancelled:  {}, // 终态
		OrderStatusCompleted:  {}, // 终态
	}

	allowedTargets, exists := transitions[o.Status]
	if !exists {
		return false
	}

	for _, allowed := range allowedTargets {
		if allowed == target {
			return true
		}
	}
	return false
}

// TransitionTo 状态转换
func (o *Order) TransitionTo(target OrderStatus) error {
	if !o.CanTransitionTo(target) {
		return ErrInvalidStatusTransition
	}
	o.Status = target
	o.UpdatedAt = time.Now()
	return nil
}

// Cancel 取消订单(领域行为)
func (o *Order) Cancel() error {
	return o.TransitionTo(OrderStatusCancelled)
}

// Complete 完成订单(领域行为)
func (o *Order) Complete() error {
	return o.TransitionTo(OrderStatusCompleted)
}

// IsBuyer 检查用户是否为订单买家
func (o *Order) IsBuyer(userID uint) bool {
	return o.BuyerID == userID
}

// IsSeller 检查用户是否为订单卖家
func (o *Order) IsSeller(userID uint) bool {
	return o.SellerID == userID
}

// IsParty 检查用户是否为交易双方之一
// 教学要点:权限校验,订单详情只对买卖双方可见
func (o *Order) IsParty(userID uint) bool {
	return o.IsBuyer(userID) || o.IsSeller(userID)
}
