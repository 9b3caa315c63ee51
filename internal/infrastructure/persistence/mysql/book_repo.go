package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/xiebiao/bookmarket/internal/domain/book"
	apperrors "github.com/xiebiao/bookmarket/pkg/errors"
)

// bookRepository 图书仓储实现(MySQL)
// 设计说明:
// 1. 实现domain/book/repository.go定义的接口
// 2. 负责domain实体与GORM模型之间的转换
// 3. 下架通过status=removed表达(非gorm软删除),订单详情仍能读到快照
type bookRepository struct {
	db *gorm.DB
}

// NewBookRepository 创建图书仓储
func NewBookRepository(db *gorm.DB) book.Repository {
	return &bookRepository{db: db}
}

// Create 创建图书
func (r *bookRepository) Create(ctx context.Context, b *book.Book) error {
	// 1. 领域实体 → GORM模型
	model := &BookModel{
		Title:       b.Title,
		Author:      b.Author,
		Genre:       b.Genre,
		Publisher:   b.Publisher,
		PublishedAt: b.PublishedAt,
		Price:       b.Price,
		OwnerID:     b.OwnerID,
		Status:      int(b.Status),
	}

	// 2. 插入数据库
	if err := getDB(ctx, r.db).Create(model).Error; err != nil {
		return apperrors.Wrap(err, "创建图书失败")
	}

	// 3. 回填自增ID
	b.ID = model.ID
	b.CreatedAt = model.CreatedAt
	b.UpdatedAt = model.UpdatedAt

	return nil
}

// FindByID 根据ID查找图书
// 已下架(removed)的图书对外等同于不存在
func (r *bookRepository) FindByID(ctx context.Context, id uint) (*book.Book, error) {
	var model BookModel
	err := getDB(ctx, r.db).
		Where("status <> ?", int(book.BookStatusRemoved)).
		First(&model, id).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, book.ErrBookNotFound
		}
		return nil, apperrors.Wrap(err, "查询图书失败")
	}

	return toBookEntity(&model), nil
}

// Update 更新图书信息
func (r *bookRepository) Update(ctx context.Context, b *book.Book) error {
	model := &BookModel{
		ID:          b.ID,
		Title:       b.Title,
		Author:      b.Author,
		Genre:       b.Genre,
		Publisher:   b.Publisher,
		PublishedAt: b.PublishedAt,
		Price:       b.Price,
		OwnerID:     b.OwnerID,
		Status:      int(b.Status),
		CreatedAt:   b.CreatedAt,
	}

	// 使用Save更新所有字段
	if err := getDB(ctx, r.db).Save(model).Error; err != nil {
		return apperrors.Wrap(err, "更新图书失败")
	}

	b.UpdatedAt = model.UpdatedAt
	return nil
}

// Delete 下架图书(软删除,状态置为removed)
func (r *bookRepository) Delete(ctx context.Context, id uint) error {
	result := getDB(ctx, r.db).Model(&BookModel{}).
		Where("id = ?", id).
		Where("status <> ?", int(book.BookStatusRemoved)).
		Update("status", int(book.BookStatusRemoved))

	if result.Error != nil {
		return apperrors.Wrap(result.Error, "下架图书失败")
	}

	if result.RowsAffected == 0 {
		return book.ErrBookNotFound
	}

	return nil
}

// List 分页查询图书列表
func (r *bookRepository) List(ctx context.Context, params book.ListParams) ([]*book.Book, int64, error) {
	var models []BookModel
	var total int64

	// 构建查询(默认排除已下架)
	query := getDB(ctx, r.db).Model(&BookModel{})
	if params.Status != 0 {
		query = query.Where("status = ?", int(params.Status))
	} else {
		query = query.Where("status <> ?", int(book.BookStatusRemoved))
	}

	// 关键词搜索(搜索标题、作者、出版社)
	if params.Keyword != "" {
		keyword := "%" + params.Keyword + "%"
		query = query.Where("title LIKE ? OR author LIKE ? OR publisher LIKE ?", keyword, keyword, keyword)
	}

	// 按题材过滤
	if params.Genre != "" {
		query = query.Where("genre = ?", params.Genre)
	}

	// 按卖家过滤
	if params.OwnerID != 0 {
		query = query.Where("owner_id = ?", params.OwnerID)
	}

	// 查询总数
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, apperrors.Wrap(err, "查询图书总数失败")
	}

	// 排序
	switch params.SortBy {
	case "price_asc":
		query = query.Order("price ASC")
	case "price_desc":
		query = query.Order("price DESC")
	default:
		query = query.Order("created_at DESC") // 默认按创建时间降序
	}

	// 分页
	offset := (params.Page - 1) * params.PageSize
	query = query.Limit(params.PageSize).Offset(offset)

	if err := query.Find(&models).Error; err != nil {
		return nil, 0, apperrors.Wrap(err, "查询图书列表失败")
	}

	// 转换为领域实体
	books := make([]*book.Book, len(models))
	for i := range models {
		books[i] = toBookEntity(&models[i])
	}

	return books, total, nil
}

// LockByID 悲观锁查询图书(用于订单创建)
// 教学要点:
// 1. SELECT FOR UPDATE锁定行,防止同一本书被并发下单
// 2. 必须在事务内调用(getDB从context提取事务DB)
func (r *bookRepository) LockByID(ctx context.Context, id uint) (*book.Book, error) {
	var model BookModel
	err := getDB(ctx, r.db).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("status <> ?", int(book.BookStatusRemoved)).
		First(&model, id).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, book.ErrBookNotFound
		}
		return nil, apperrors.Wrap(err, "锁定图书失败")
	}

	return toBookEntity(&model), nil
}

// BatchTransition 批量状态流转(原子操作)
// 教学要点:
// 1. 一条UPDATE带状态条件,RowsAffected与期望数量比较
// 2. 任何一本不处于from状态则整体失败(配合事务回滚,全有或全无)
func (r *bookRepository) BatchTransition(ctx context.Context, ids []uint, from, to book.BookStatus) error {
	if len(ids) == 0 {
		return nil
	}

	result := getDB(ctx, r.db).Model(&BookModel{}).
		Where("id IN ?", ids).
		Where("status = ?", int(from)).
		Update("status", int(to))

	if result.Error != nil {
		return apperrors.Wrap(result.Error, "图书状态流转失败")
	}

	if result.RowsAffected != int64(len(ids)) {
		// 有图书不处于from状态(已售出、已下架或不存在)
		// 调用方在事务内,返回错误触发整体回滚
		return book.ErrBookUnavailable
	}

	return nil
}

// Release 释放图书(Sold→Available,订单取消时调用)
// 幂等:已经是Available的图书不计入也不报错
func (r *bookRepository) Release(ctx context.Context, ids []uint) error {
	if len(ids) == 0 {
		return nil
	}

	err := getDB(ctx, r.db).Model(&BookModel{}).
		Where("id IN ?", ids).
		Where("status = ?", int(book.BookStatusSold)).
		Update("status", int(book.BookStatusAvailable)).Error

	if err != nil {
		return apperrors.Wrap(err, "释放图书失败")
	}

	return nil
}

// =========================================
// 辅助函数:模型转换
// =========================================

// toBookEntity GORM模型 → 领域实体
func toBookEntity(model *BookModel) *book.Book {
	return &book.Book{
		ID:          model.ID,
		Title:       model.Title,
		Author:      model.Author,
		Genre:       model.Genre,
		Publisher:   model.Publisher,
		PublishedAt: model.PublishedAt,
		Price:       model.Price,
		OwnerID:     model.OwnerID,
		Status:      book.BookStatus(model.Status),
		CreatedAt:   model.CreatedAt,
		UpdatedAt:   model.UpdatedAt,
	}
}
