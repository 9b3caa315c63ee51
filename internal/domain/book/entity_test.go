package book

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewBook(t *testing.T) {
	publishedAt := time.Date(2020, 5, 1, 0, 0, 0, 0, time.UTC)

	t.Run("合法参数创建成功", func(t *testing.T) {
		b, err := NewBook("百年孤独", "加西亚·马尔克斯", "小说", "南海出版公司", publishedAt, 3500, 1)
		assert.NoError(t, err)
		assert.Equal(t, "百年孤独", b.Title)
		assert.Equal(t, BookStatusAvailable, b.Status)
		assert.Equal(t, uint(1), b.OwnerID)
	})

	t.Run("书名为空返回错误", func(t *testing.T) {
		_, err := NewBook("", "作者", "小说", "出版社", publishedAt, 100, 1)
		assert.ErrorIs(t, err, ErrTitleRequired)
	})

	t.Run("价格为负返回错误", func(t *testing.T) {
		_, err := NewBook("书名", "作者", "小说", "出版社", publishedAt, -1, 1)
		assert.ErrorIs(t, err, ErrInvalidPrice)
	})

	t.Run("价格为零允许", func(t *testing.T) {
		b, err := NewBook("赠书", "作者", "小说", "出版社", publishedAt, 0, 1)
		assert.NoError(t, err)
		assert.Equal(t, int64(0), b.Price)
	})
}

func TestBookStatusString(t *testing.T) {
	assert.Equal(t, "available", BookStatusAvailable.String())
	assert.Equal(t, "sold", BookStatusSold.String())
	assert.Equal(t, "removed", BookStatusRemoved.String())
	assert.Equal(t, "unknown", BookStatus(99).String())
}

func TestBookRemove(t *testing.T) {
	t.Run("在售图书可以下架", func(t *testing.T) {
		b := &Book{Status: BookStatusAvailable}
		assert.NoError(t, b.Remove())
		assert.Equal(t, BookStatusRemoved, b.Status)
	})

	t.Run("已售出图书不能下架", func(t *testing.T) {
		b := &Book{Status: BookStatusSold}
		assert.ErrorIs(t, b.Remove(), ErrBookSold)
		assert.Equal(t, BookStatusSold, b.Status)
	})
}

func TestBookIsOwnedBy(t *testing.T) {
	b := &Book{OwnerID: 42}
	assert.True(t, b.IsOwnedBy(42))
	assert.False(t, b.IsOwnedBy(43))
}

func TestBookUpdatePrice(t *testing.T) {
	b := &Book{Price: 1000}
	assert.NoError(t, b.UpdatePrice(2000))
	assert.Equal(t, int64(2000), b.Price)
	assert.ErrorIs(t, b.UpdatePrice(-100), ErrInvalidPrice)
}
