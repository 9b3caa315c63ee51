package order

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStatus(t *testing.T) {
	tests := []struct {
		value   string
		want    OrderStatus
		wantErr bool
	}{
		{"en_progreso", OrderStatusInProgress, false},
		{"cancelado", OrderStatusCancelled, false},
		{"completado", OrderStatusCompleted, false},
		{"enviado", 0, true},
		{"", 0, true},
		{"EN_PROGRESO", 0, true}, // 大小写敏感
	}

	for _, tt := range tests {
		got, err := ParseStatus(tt.value)
		if tt.wantErr {
			assert.ErrorIs(t, err, ErrUnknownStatus, "value=%q", tt.value)
		} else {
			assert.NoError(t, err, "value=%q", tt.value)
			assert.Equal(t, tt.want, got)
		}
	}
}

func TestStatusString(t *testing.T) {
	assert.Equal(t, "en_progreso", OrderStatusInProgress.String())
	assert.Equal(t, "cancelado", OrderStatusCancelled.String())
	assert.Equal(t, "completado", OrderStatusCompleted.String())
}

func TestNewOrder(t *testing.T) {
	t.Run("创建成功初始状态为进行中", func(t *testing.T) {
		books := []OrderBook{{BookID: 10, Price: 3500}, {BookID: 11, Price: 1500}}
		o, err := NewOrder("ORD1", 1, 2, books, "Calle Mayor 1, Madrid")
		require.NoError(t, err)
		assert.Equal(t, OrderStatusInProgress, o.Status)
		assert.Equal(t, []uint{10, 11}, o.BookIDs())
		assert.Equal(t, int64(5000), o.Total, "总价应该是明细价格快照之和")
	})

	t.Run("图书列表为空", func(t *testing.T) {
		_, err := NewOrder("ORD1", 1, 2, nil, "Calle Mayor 1")
		assert.ErrorIs(t, err, ErrEmptyBookList)
	})

	t.Run("地址为空", func(t *testing.T) {
		_, err := NewOrder("ORD1", 1, 2, []OrderBook{{BookID: 10, Price: 100}}, "")
		assert.ErrorIs(t, err, ErrAddressRequired)
	})
}

func TestStatusTransitions(t *testing.T) {
	t.Run("进行中可以取消", func(t *testing.T) {
		o := &Order{Status: OrderStatusInProgress}
		assert.NoError(t, o.Cancel())
		assert.Equal(t, OrderStatusCancelled, o.Status)
	})

	t.Run("进行中可以完成", func(t *testing.T) {
		o := &Order{Status: OrderStatusInProgress}
		assert.NoError(t, o.Complete())
		assert.Equal(t, OrderStatusCompleted, o.Status)
	})

	t.Run("已取消是终态", func(t *testing.T) {
		o := &Order{Status: OrderStatusCancelled}
		assert.ErrorIs(t, o.Complete(), ErrInvalidStatusTransition)
		assert.ErrorIs(t, o.Cancel(), ErrInvalidStatusTransition)
	})

	t.Run("已完成是终态", func(t *testing.T) {
		o := &Order{Status: OrderStatusCompleted}
		assert.ErrorIs(t, o.Cancel(), ErrInvalidStatusTransition)
		assert.ErrorIs(t, o.Complete(), ErrInvalidStatusTransition)
	})

	t.Run("不能流转回进行中", func(t *testing.T) {
		o := &Order{Status: OrderStatusInProgress}
		assert.False(t, o.CanTransitionTo(OrderStatusInProgress))
	})
}

func TestIsTerminal(t *testing.T) {
	assert.False(t, OrderStatusInProgress.IsTerminal())
	assert.True(t, OrderStatusCancelled.IsTerminal())
	assert.True(t, OrderStatusCompleted.IsTerminal())
}

func TestOrderParties(t *testing.T) {
	o := &Order{BuyerID: 1, SellerID: 2}
	assert.True(t, o.IsBuyer(1))
	assert.False(t, o.IsBuyer(2))
	assert.True(t, o.IsSeller(2))
	assert.True(t, o.IsParty(1))
	assert.True(t, o.IsParty(2))
	assert.False(t, o.IsParty(3))
}
