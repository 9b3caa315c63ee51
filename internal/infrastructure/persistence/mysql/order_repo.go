package mysql

import (
	"context"
	"errors"
	"sort"
	"time"

	"gorm.io/gorm"

	"github.com/xiebiao/bookmarket/internal/domain/order"
	apperrors "github.com/xiebiao/bookmarket/pkg/errors"
)

// orderRepository 订单仓储实现(MySQL)
// 教学要点:
// 1. Order和图书关联是聚合关系,必须一起保存
// 2. 查询时使用Preload预加载关联,避免N+1问题
// 3. 事务通过context传递
type orderRepository struct {
	db *gorm.DB
}

// NewOrderRepository 创建订单仓储
func NewOrderRepository(db *gorm.DB) order.Repository {
	return &orderRepository{db: db}
}

// Create 创建订单
// 教学要点:
// 1. GORM会自动保存关联的Books(通过foreignKey)
// 2. 必须在事务中调用(通过getDB从context获取事务DB)
func (r *orderRepository) Create(ctx context.Context, o *order.Order) error {
	model := toOrderModel(o)

	if err := getDB(ctx, r.db).Create(model).Error; err != nil {
		return apperrors.Wrap(err, "创建订单失败")
	}

	// 回填自增ID
	o.ID = model.ID

	return nil
}

// FindByID 根据ID查找订单
// 教学要点:使用Preload预加载图书关联,避免N+1查询
func (r *orderRepository) FindByID(ctx context.Context, id uint) (*order.Order, error) {
	var model OrderModel

	// Preload("Books")会执行:
	// 1. SELECT * FROM orders WHERE id = ?
	// 2. SELECT * FROM order_books WHERE order_id IN (?)
	err := getDB(ctx, r.db).Preload("Books").First(&model, id).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, order.ErrOrderNotFound
		}
		return nil, apperrors.Wrap(err, "查询订单失败")
	}

	return toOrderEntity(&model), nil
}

// FindByOrderNo 根据订单号查找订单
func (r *orderRepository) FindByOrderNo(ctx context.Context, orderNo string) (*order.Order, error) {
	var model OrderModel
	err := getDB(ctx, r.db).Preload("Books").Where("order_no = ?", orderNo).First(&model).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, order.ErrOrderNotFound
		}
		return nil, apperrors.Wrap(err, "查询订单失败")
	}

	return toOrderEntity(&model), nil
}

// CompareAndSetStatus 比较并设置订单状态(CAS原子操作)
// 教学要点:
// 1. 一条带状态条件的UPDATE,靠数据库行锁保证原子性
// 2. RowsAffected==0表示当前状态不是expected(并发竞争输了或状态已是终态)
// 3. 返回(false, nil)而非错误,由调用方决定如何解释
func (r *orderRepository) CompareAndSetStatus(ctx context.Context, id uint, expected, next order.OrderStatus) (bool, error) {
	result := getDB(ctx, r.db).Model(&OrderModel{}).
		Where("id = ?", id).
		Where("status = ?", int(expected)).
		Updates(map[string]interface{}{
			"status":     int(next),
			"updated_at": time.Now(),
		})

	if result.Error != nil {
		return false, apperrors.Wrap(result.Error, "更新订单状态失败")
	}

	return result.RowsAffected > 0, nil
}

// ListByActor 查询用户作为买家或卖家参与的订单列表
func (r *orderRepository) ListByActor(ctx context.Context, userID uint, status order.OrderStatus, page, pageSize int) ([]*order.Order, int64, error) {
	var models []OrderModel
	var total int64

	query := getDB(ctx, r.db).Model(&OrderModel{}).
		Where("buyer_id = ? OR seller_id = ?", userID, userID)

	if status != 0 {
		query = query.Where("status = ?", int(status))
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, apperrors.Wrap(err, "查询订单总数失败")
	}

	offset := (page - 1) * pageSize
	err := query.Preload("Books").
		Order("created_at DESC").
		Limit(pageSize).
		Offset(offset).
		Find(&models).Error

	if err != nil {
		return nil, 0, apperrors.Wrap(err, "查询订单列表失败")
	}

	orders := make([]*order.Order, len(models))
	for i := range models {
		orders[i] = toOrderEntity(&models[i])
	}

	return orders, total, nil
}

// =========================================
// 辅助函数:模型转换
// =========================================

// toOrderModel 领域实体 → GORM模型
// 说明:Position保持下单时的图书顺序,Price保存下单时的价格快照
func toOrderModel(o *order.Order) *OrderModel {
	books := make([]OrderBookModel, len(o.Books))
	for i, b := range o.Books {
		books[i] = OrderBookModel{
			BookID:   b.BookID,
			Position: i,
			Price:    b.Price,
		}
	}

	return &OrderModel{
		ID:              o.ID,
		OrderNo:         o.OrderNo,
		BuyerID:         o.BuyerID,
		SellerID:        o.SellerID,
		ShippingAddress: o.ShippingAddress,
		Total:           o.Total,
		Status:          int(o.Status),
		Books:           books,
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       o.UpdatedAt,
	}
}

// toOrderEntity GORM模型 → 领域实体
func toOrderEntity(model *OrderModel) *order.Order {
	// 按Position还原下单时的图书顺序
	books := make([]OrderBookModel, len(model.Books))
	copy(books, model.Books)
	sort.Slice(books, func(i, j int) bool {
		return books[i].Position < books[j].Position
	})

	items := make([]order.OrderBook, len(books))
	for i, b := range books {
		items[i] = order.OrderBook{BookID: b.BookID, Price: b.Price}
	}

	return &order.Order{
		ID:              model.ID,
		OrderNo:         model.OrderNo,
		BuyerID:         model.BuyerID,
		SellerID:        model.SellerID,
		Books:           items,
		ShippingAddress: model.ShippingAddress,
		Total:           model.Total,
		Status:          order.OrderStatus(model.Status),
		CreatedAt:       model.CreatedAt,
		UpdatedAt:       model.UpdatedAt,
	}
}
