package book

import (
	"context"
	"time"

	"github.com/xiebiao/bookmarket/internal/domain/book"
)

// PublishBookUseCase 图书上架用例
// 设计说明:
// 1. 应用层负责用例编排,协调领域服务完成业务流程
// 2. 输入输出使用DTO(Data Transfer Object),与HTTP层解耦
// 3. 此用例比较简单,只需调用领域服务即可
type PublishBookUseCase struct {
	bookService book.Service
}

// NewPublishBookUseCase 创建上架用例
func NewPublishBookUseCase(bookService book.Service) *PublishBookUseCase {
	return &PublishBookUseCase{
		bookService: bookService,
	}
}

// PublishBookRequest 上架请求DTO
type PublishBookRequest struct {
	Title       string // 书名
	Author      string // 作者
	Genre       string // 题材
	Publisher   string // 出版社
	PublishedAt string // 出版日期(2006-01-02)
	Price       int64  // 价格(分)
	OwnerID     uint   // 卖家用户ID(从认证中间件获取)
}

// PublishBookResponse 上架响应DTO
type PublishBookResponse struct {
	ID          uint   `json:"id"`
	Title       string `json:"title"`
	Author      string `json:"author"`
	Genre       string `json:"genre"`
	Publisher   string `json:"publisher"`
	PublishedAt string `json:"published_at"`
	Price       int64  `json:"price"` // 价格(分)
	OwnerID     uint   `json:"owner_id"`
	Status      string `json:"status"`
	CreatedAt   string `json:"created_at"`
}

// Execute 执行上架用例
// 应用层不直接操作Repository,通过领域服务间接操作,
// 业务规则校验(书名必填、价格范围)由领域服务负责
func (uc *PublishBookUseCase) Execute(ctx context.Context, req PublishBookRequest) (*PublishBookResponse, error) {
	// 出版日期可选,格式错误视为未填
	var publishedAt time.Time
	if req.PublishedAt != "" {
		if t, err := time.Parse("2006-01-02", req.PublishedAt); err == nil {
			publishedAt = t
		}
	}

	b, err := uc.bookService.PublishBook(
		ctx,
		req.Title,
		req.Author,
		req.Genre,
		req.Publisher,
		publishedAt,
		req.Price,
		req.OwnerID,
	)
	if err != nil {
		return nil, err
	}

	return toPublishBookResponse(b), nil
}

func toPublishBookResponse(b *book.Book) *PublishBookResponse {
	publishedAt := ""
	if !b.PublishedAt.IsZero() {
		publishedAt = b.PublishedAt.Format("2006-01-02")
	}

	return &PublishBookResponse{
		ID:          b.ID,
		Title:       b.Title,
		Author:      b.Author,
		Genre:       b.Genre,
		Publisher:   b.Publisher,
		PublishedAt: publishedAt,
		Price:       b.Price,
		OwnerID:     b.OwnerID,
		Status:      b.Status.String(),
		CreatedAt:   b.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}
