package order

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/xiebiao/bookmarket/internal/domain/book"
	"github.com/xiebiao/bookmarket/internal/domain/order"
	"github.com/xiebiao/bookmarket/internal/domain/user"
	"github.com/xiebiao/bookmarket/pkg/metrics"
)

// CreateOrderUseCase 创建订单用例
// 教学要点:这是整个项目最核心的用例之一
// 涉及:事务处理、并发控制、跨实体一致性校验
type CreateOrderUseCase struct {
	orderRepo order.Repository
	bookRepo  book.Repository
	userRepo  user.Repository
	txManager TxManager
	publisher EventPublisher
}

// NewCreateOrderUseCase 创建下单用例
func NewCreateOrderUseCase(
	orderRepo order.Repository,
	bookRepo book.Repository,
	userRepo user.Repository,
	txManager TxManager,
	publisher EventPublisher,
) *CreateOrderUseCase {
	return &CreateOrderUseCase{
		orderRepo: orderRepo,
		bookRepo:  bookRepo,
		userRepo:  userRepo,
		txManager: txManager,
		publisher: publisher,
	}
}

// CreateOrderRequest 下单请求DTO
type CreateOrderRequest struct {
	BuyerID         uint   // 买家用户ID(从JWT中提取)
	BookIDs         []uint // 图书ID列表(二手书,每本唯一,无数量概念)
	ShippingAddress string // 收货地址
}

// CreateOrderResponse 下单响应DTO
type CreateOrderResponse struct {
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
}

// Execute 执行下单用例
// 教学重点:二手书交易的并发控制
//
// 核心问题:同一本书被并发下单
// 场景:每本二手书是唯一品,两个买家同时提交包含同一本书的订单
// 错误实现:
//  1. 查询图书状态 → available
//  2. 创建订单
//  3. 把图书置为sold
//     结果:两个请求都通过了步骤1,同一本书卖给了两个人
//
// 正确实现:悲观锁 + 条件更新
//  1. SELECT FOR UPDATE 逐本锁定图书行
//  2. 校验可售性、同卖家、非自购
//  3. 创建订单(进行中)
//  4. 条件UPDATE把全部图书available→sold,行数不符则回滚
//  5. COMMIT释放锁,恰好一个买家成功
func (uc *CreateOrderUseCase) Execute(ctx context.Context, req CreateOrderRequest) (*CreateOrderResponse, error) {
	start := time.Now()

	// 1. 参数校验
	if len(req.BookIDs) == 0 {
		return nil, order.ErrEmptyBookList
	}
	if req.ShippingAddress == "" {
		return nil, order.ErrAddressRequired
	}
	if hasDuplicates(req.BookIDs) {
		return nil, order.ErrDuplicateBooks
	}

	// 使用事务执行整个下单流程
	// 教学要点:事务保证原子性,要么全成功,要么全失败
	var result *order.Order
	err := uc.txManager.Transaction(ctx, func(txCtx context.Context) error {
		// ========================================
		// 步骤1:锁定图书(悲观锁,防止并发下单)
		// ========================================
		// LockByID执行:SELECT * FROM books WHERE id = ? FOR UPDATE
		// 其他事务必须等待当前事务COMMIT或ROLLBACK后才能访问该行
		var sellerID uint
		items := make([]order.OrderBook, 0, len(req.BookIDs))
		for _, bookID := range req.BookIDs {
			b, err := uc.bookRepo.LockByID(txCtx, bookID)
			if err != nil {
				return err // 不存在或已下架 → 404
			}

			// 可售性校验:必须在锁定后检查,否则存在并发窗口
			if !b.IsAvailable() {
				return book.ErrBookUnavailable
			}

			// 单卖家约束:一笔订单的图书必须同属一个卖家
			if sellerID == 0 {
				sellerID = b.OwnerID
			} else if b.OwnerID != sellerID {
				return order.ErrMultipleSellers
			}

			// 不能购买自己发布的图书
			if b.OwnerID == req.BuyerID {
				return order.ErrOwnBookPurchase
			}

			// 明细取锁定时的价格快照,总价由明细累加,防止改价攻击
			items = append(items, order.OrderBook{BookID: bookID, Price: b.Price})
		}

		// ========================================
		// 步骤2:创建订单(初始状态:进行中)
		// ========================================
		orderNo := order.GenerateOrderNo()
		newOrder, err := order.NewOrder(orderNo, req.BuyerID, sellerID, items, req.ShippingAddress)
		if err != nil {
			return err
		}

		if err := uc.orderRepo.Create(txCtx, newOrder); err != nil {
			return err
		}

		// ========================================
		// 步骤3:图书批量流转 available→sold
		// ========================================
		// 条件UPDATE的行数与图书数不符则返回错误,整个事务回滚,
		// 订单不会创建,图书状态不变(全有或全无)
		if err := uc.bookRepo.BatchTransition(txCtx, req.BookIDs, book.BookStatusAvailable, book.BookStatusSold); err != nil {
			return err
		}

		// ========================================
		// 步骤4:给买卖双方写入订单引用
		// ========================================
		if err := uc.userRepo.AppendOrderRef(txCtx, req.BuyerID, newOrder.ID); err != nil {
			return err
		}
		if err := uc.userRepo.AppendOrderRef(txCtx, sellerID, newOrder.ID); err != nil {
			return err
		}

		result = newOrder
		return nil
	})

	if err != nil {
		metrics.OrdersFailedTotal.Inc()
		return nil, err
	}

	metrics.OrdersCreatedTotal.Inc()
	metrics.OrderCreationDuration.Observe(time.Since(start).Seconds())

	// 事务提交后发布事件,失败不影响主流程
	if pubErr := uc.publisher.OrderCreated(ctx, result); pubErr != nil {
		log.Printf("发布订单创建事件失败: order_no=%s, err=%v", result.OrderNo, pubErr)
	}

	return toCreateOrderResponse(result), nil
}

// toCreateOrderResponse 构建响应DTO
func toCreateOrderResponse(o *order.Order) *CreateOrderResponse {
	return &CreateOrderResponse{
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
	}
}

// formatPrice 格式化价格(分→元)
func formatPrice(priceFen int64) string {
	yuan := float64(priceFen) / 100.0
	return fmt.Sprintf("%.2f", yuan)
}

// hasDuplicates 检查图书ID是否重复
func hasDuplicates(ids []uint) bool {
	seen := make(map[uint]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			return true
		}
		seen[id] = struct{}{}
	}
	return false
}
