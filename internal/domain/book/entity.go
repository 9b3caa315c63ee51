package book

import (
	"time"
)

// BookStatus 图书状态
// 设计说明:
// 1. 使用int类型而非string(节省存储空间,便于索引)
// 2. 每本图书是唯一的在售品(二手书),没有库存数量概念
// 3. 下架是状态流转(Removed)而非物理删除,保证历史订单的引用完整性
type BookStatus int

const (
	BookStatusAvailable BookStatus = 1 // 在售
	BookStatusSold      BookStatus = 2 // 已售出(被进行中或已完成的订单引用)
	BookStatusRemoved   BookStatus = 3 // 已下架(软删除)
)

// String 实现Stringer接口(也是对外API的状态值)
func (s BookStatus) String() string {
	switch s {
	case BookStatusAvailable:
		return "available"
	case BookStatusSold:
		return "sold"
	case BookStatusRemoved:
		return "removed"
	default:
		return "unknown"
	}
}

// Book 图书实体(聚合根)
// 设计说明:
// 1. 价格使用int64存储"分"为单位(避免浮点数精度问题),允许为0(赠送)
// 2. OwnerID是发布者(卖家),所有权决定谁能修改/下架
// 3. 状态与订单联动:下单时Available→Sold,订单取消时Sold→Available
type Book struct {
	ID          uint
	Title       string     // 书名
	Author      string     // 作者
	Genre       string     // 题材/分类
	Publisher   string     // 出版社
	PublishedAt time.Time  // 出版日期
	Price       int64      // 价格(单位:分)
	OwnerID     uint       // 卖家用户ID
	Status      BookStatus // 图书状态
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewBook 创建新图书(工厂方法)
// 业务规则:标题必填,价格不能为负;初始状态为在售
func NewBook(title, author, genre, publisher string, publishedAt time.Time, price int64, ownerID uint) (*Book, error) {
	if title == "" {
		return nil, ErrTitleRequired
	}
	if price < 0 {
		return nil, ErrInvalidPrice
	}

	now := time.Now()
	return &Book{
		Title:       title,
		Author:      author,
		Genre:       genre,
		Publisher:   publisher,
		PublishedAt: publishedAt,
		Price:       price,
		OwnerID:     ownerID,
		Status:      BookStatusAvailable,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// IsAvailable 是否可被新订单引用
func (b *Book) IsAvailable() bool {
	return b.Status == BookStatusAvailable
}

// UpdatePrice 更新价格(领域行为)
// 业务规则:价格不能为负;已创建订单的总价是下单时的快照,不受改价影响
func (b *Book) UpdatePrice(newPrice int64) error {
	if newPrice < 0 {
		return ErrInvalidPrice
	}
	b.Price = newPrice
	b.UpdatedAt = time.Now()
	return nil
}

// UpdateInfo 更新图书基本信息(空字段不修改)
func (b *Book) UpdateInfo(title, author, genre, publisher string) {
	if title != "" {
		b.Title = title
	}
	if author != "" {
		b.Author = author
	}
	if genre != "" {
		b.Genre = genre
	}
	if publisher != "" {
		b.Publisher = publisher
	}
	b.UpdatedAt = time.Now()
}

// Remove 下架(软删除,领域行为)
// 业务规则:已售出的图书不能下架(会破坏订单引用)
func (b *Book) Remove() error {
	if b.Status == BookStatusSold {
		return ErrBookSold
	}
	b.Status = BookStatusRemoved
	b.UpdatedAt = time.Now()
	return nil
}

// IsOwnedBy 检查图书是否由指定用户发布
func (b *Book) IsOwnedBy(userID uint) bool {
	return b.OwnerID == userID
}
