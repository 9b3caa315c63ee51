package book

import (
	"context"
	"time"

	"github.com/xiebiao/bookmarket/pkg/authz"
)

// Service 图书领域服务接口
// 设计说明:
// 1. 领域服务封装跨实体的业务逻辑和业务规则校验
// 2. 不依赖具体的Repository实现(依赖倒置)
type Service interface {
	// PublishBook 发布图书(上架)
	// 业务规则:
	// - 书名必填
	// - 价格不能为负(0表示赠送)
	// - 发布者即卖家(OwnerID)
	PublishBook(ctx context.Context, title, author, genre, publisher string, publishedAt time.Time, price int64, ownerID uint) (*Book, error)

	// GetBookByID 根据ID获取图书详情
	GetBookByID(ctx context.Context, id uint) (*Book, error)

	// UpdateBookInfo 更新图书信息
	// 业务规则:只有发布者本人可以修改
	UpdateBookInfo(ctx context.Context, id uint, userID uint, title, author, genre, publisher string) error

	// UpdateBookPrice 更新图书价格
	// 业务规则:只有发布者本人可以修改,且价格不能为负
	UpdateBookPrice(ctx context.Context, id uint, userID uint, newPrice int64) error

	// DeleteBook 下架图书(软删除)
	// 业务规则:只有发布者本人可以下架,已售出的图书不能下架
	DeleteBook(ctx context.Context, id uint, userID uint) error

	// ListBooks 分页查询图书列表
	// 公开接口,不需要权限校验
	ListBooks(ctx context.Context, params ListParams) ([]*Book, int64, error)
}

// service 领域服务实现
type service struct {
	repo Repository
}

// NewService 创建图书领域服务
func NewService(repo Repository) Service {
	return &service{repo: repo}
}

// PublishBook 发布图书
func (s *service) PublishBook(ctx context.Context, title, author, genre, publisher string, publishedAt time.Time, price int64, ownerID uint) (*Book, error) {
	// 1. 创建图书实体(工厂方法内做必填与价格校验)
	book, err := NewBook(title, author, genre, publisher, publishedAt, price, ownerID)
	if err != nil {
		return nil, err
	}

	// 2. 持久化
	if err := s.repo.Create(ctx, book); err != nil {
		return nil, err
	}

	return book, nil
}

// GetBookByID 根据ID获取图书
func (s *service) GetBookByID(ctx context.Context, id uint) (*Book, error) {
	return s.repo.FindByID(ctx, id)
}

// UpdateBookInfo 更新图书信息
func (s *service) UpdateBookInfo(ctx context.Context, id uint, userID uint, title, author, genre, publisher string) error {
	// 1. 查询图书
	book, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	// 2. 权限检查:只有发布者可以修改
	if d := authz.OwnerOnly(userID, book.OwnerID); !d.Allowed {
		return ErrNotOwner
	}

	// 3. 更新信息
	book.UpdateInfo(title, author, genre, publisher)

	// 4. 持久化
	return s.repo.Update(ctx, book)
}

// UpdateBookPrice 更新图书价格
func (s *service) UpdateBookPrice(ctx context.Context, id uint, userID uint, newPrice int64) error {
	// 1. 查询图书
	book, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	// 2. 权限检查
	if d := authz.OwnerOnly(userID, book.OwnerID); !d.Allowed {
		return ErrNotOwner
	}

	// 3. 更新价格(实体内做范围校验)
	if err := book.UpdatePrice(newPrice); err != nil {
		return err
	}

	// 4. 持久化
	return s.repo.Update(ctx, book)
}

// DeleteBook 下架图书
func (s *service) DeleteBook(ctx context.Context, id uint, userID uint) error {
	// 1. 查询图书
	book, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	// 2. 权限检查
	if d := authz.OwnerOnly(userID, book.OwnerID); !d.Allowed {
		return ErrNotOwner
	}

	// 3. 已售出的图书不能下架(会破坏进行中订单的引用)
	if book.Status == BookStatusSold {
		return ErrBookSold
	}

	// 4. 执行下架(软删除)
	return s.repo.Delete(ctx, id)
}

// ListBooks 分页查询图书列表
func (s *service) ListBooks(ctx context.Context, params ListParams) ([]*Book, int64, error) {
	return s.repo.List(ctx, params)
}
