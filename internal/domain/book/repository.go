package book

import (
	"context"
)

// Repository 图书仓储接口(依赖倒置原则)
// 设计说明:
// 1. 由domain层定义接口,infrastructure层实现
// 2. 便于Mock测试,不依赖具体数据库实现
type Repository interface {
	// Create 创建图书
	Create(ctx context.Context, book *Book) error

	// FindByID 根据ID查找图书(不含已下架)
	FindByID(ctx context.Context, id uint) (*Book, error)

	// Update 更新图书信息
	Update(ctx context.Context, book *Book) error

	// Delete 下架图书(软删除,状态置为Removed)
	Delete(ctx context.Context, id uint) error

	// List 分页查询图书列表
	List(ctx context.Context, params ListParams) ([]*Book, int64, error)

	// LockByID 悲观锁查询图书(用于订单创建时锁定)
	// 使用SELECT FOR UPDATE锁定行,防止同一本书被并发下单
	LockByID(ctx context.Context, id uint) (*Book, error)

	// BatchTransition 批量状态流转(原子操作)
	// 仅当所有图书当前均为from状态时才全部流转为to状态,
	// 任何一本不满足则整体失败并返回ErrBookUnavailable
	BatchTransition(ctx context.Context, ids []uint, from, to BookStatus) error

	// Release 释放图书(Sold→Available,订单取消时调用)
	// 幂等操作:已经是Available的图书不报错
	Release(ctx context.Context, ids []uint) error
}

// ListParams 列表查询参数
type ListParams struct {
	Page     int        // 页码(从1开始)
	PageSize int        // 每页数量
	Keyword  string     // 搜索关键词(搜索标题、作者、出版社)
	Genre    string     // 按题材过滤
	OwnerID  uint       // 按卖家过滤(0表示不过滤)
	Status   BookStatus // 按状态过滤(0表示不过滤)
	SortBy   string     // 排序字段(price_asc, price_desc, created_at_desc)
}
