package book

import (
	"context"

	"github.com/xiebiao/bookmarket/internal/domain/book"
)

// DeleteBookUseCase 图书下架用例
type DeleteBookUseCase struct {
	bookService book.Service
}

// NewDeleteBookUseCase 创建下架用例
func NewDeleteBookUseCase(bookService book.Service) *DeleteBookUseCase {
	return &DeleteBookUseCase{
		bookService: bookService,
	}
}

// Execute 执行下架用例
// 业务规则:只有发布者本人可以下架,已售出的图书不能下架
func (uc *DeleteBookUseCase) Execute(ctx context.Context, bookID, userID uint) error {
	return uc.bookService.DeleteBook(ctx, bookID, userID)
}
