package order

import (
	"context"
)

// Repository 订单仓储接口(依赖倒置原则)
// 教学要点:
// 1. 由domain层定义接口,infrastructure层实现
// 2. 支持事务操作(通过context传递事务)
type Repository interface {
	// Create 创建订单(包含图书关联)
	// 教学要点:订单和图书关联必须在同一事务中创建
	Create(ctx context.Context, order *Order) error

	// FindByID 根据ID查找订单(包含图书ID列表)
	FindByID(ctx context.Context, id uint) (*Order, error)

	// FindByOrderNo 根据订单号查找订单
	FindByOrderNo(ctx context.Context, orderNo string) (*Order, error)

	// CompareAndSetStatus 比较并设置订单状态(CAS原子操作)
	// 仅当订单当前状态为expected时才更新为next,返回是否更新成功。
	// 并发提交同一订单的流转时,数据库保证恰好一个调用方成功
	CompareAndSetStatus(ctx context.Context, id uint, expected, next OrderStatus) (bool, error)

	// ListByActor 查询用户作为买家或卖家参与的订单列表
	// status为0表示不按状态过滤
	ListByActor(ctx context.Context, userID uint, status OrderStatus, page, pageSize int) ([]*Order, int64, error)
}
