package book

import (
	"context"

	"github.com/xiebiao/bookmarket/internal/domain/book"
)

// GetBookUseCase 图书详情查询用例
type GetBookUseCase struct {
	bookService book.Service
}

// NewGetBookUseCase 创建详情查询用例
func NewGetBookUseCase(bookService book.Service) *GetBookUseCase {
	return &GetBookUseCase{
		bookService: bookService,
	}
}

// Execute 查询图书详情
// 公开接口,已下架图书等同于不存在
func (uc *GetBookUseCase) Execute(ctx context.Context, id uint) (*PublishBookResponse, error) {
	b, err := uc.bookService.GetBookByID(ctx, id)
	if err != nil {
		return nil, err
	}

	return toPublishBookResponse(b), nil
}
