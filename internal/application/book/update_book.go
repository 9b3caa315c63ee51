package book

import (
	"context"

	"github.com/xiebiao/bookmarket/internal/domain/book"
)

// UpdateBookUseCase 图书信息更新用例
type UpdateBookUseCase struct {
	bookService book.Service
}

// NewUpdateBookUseCase 创建更新用例
func NewUpdateBookUseCase(bookService book.Service) *UpdateBookUseCase {
	return &UpdateBookUseCase{
		bookService: bookService,
	}
}

// UpdateBookRequest 更新请求DTO
// 空字段表示不修改,Price为nil表示不改价
type UpdateBookRequest struct {
	BookID    uint
	UserID    uint // 当前用户ID(从认证中间件获取)
	Title     string
	Author    string
	Genre     string
	Publisher string
	Price     *int64
}

// Execute 执行更新用例
// 业务规则:只有发布者本人可以修改(领域服务内校验)
func (uc *UpdateBookUseCase) Execute(ctx context.Context, req UpdateBookRequest) (*PublishBookResponse, error) {
	if err := uc.bookService.UpdateBookInfo(ctx, req.BookID, req.UserID, req.Title, req.Author, req.Genre, req.Publisher); err != nil {
		return nil, err
	}

	if req.Price != nil {
		if err := uc.bookService.UpdateBookPrice(ctx, req.BookID, req.UserID, *req.Price); err != nil {
			return nil, err
		}
	}

	b, err := uc.bookService.GetBookByID(ctx, req.BookID)
	if err != nil {
		return nil, err
	}

	return toPublishBookResponse(b), nil
}
