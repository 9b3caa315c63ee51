package order

import (
	"context"
	"os"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/bookmarket/internal/domain/book"
	"github.com/xiebiao/bookmarket/internal/domain/order"
	"github.com/xiebiao/bookmarket/internal/domain/user"
	apperrors "github.com/xiebiao/bookmarket/pkg/errors"
	"github.com/xiebiao/bookmarket/pkg/metrics"
)

func TestMain(m *testing.M) {
	metrics.InitMetrics()
	os.Exit(m.Run())
}

// =========================================
// 内存实现(单元测试用)
// =========================================

// memStore 共享存储
// txMu模拟数据库的事务串行化,mu保护map的并发读写
type memStore struct {
	txMu        sync.Mutex
	mu          sync.Mutex
	nextOrderID uint
	orders      map[uint]*order.Order
	books       map[uint]*book.Book
	orderRefs   map[uint][]uint
}

func newMemStore() *memStore {
	return &memStore{
		nextOrderID: 1,
		orders:      make(map[uint]*order.Order),
		books:       make(map[uint]*book.Book),
		orderRefs:   make(map[uint][]uint),
	}
}

func (s *memStore) addBook(id, ownerID uint, price int64, status book.BookStatus) {
	s.books[id] = &book.Book{ID: id, Title: "t", OwnerID: ownerID, Price: price, Status: status}
}

// memTxManager 直通事务:靠memStore.mu串行化并发"事务"
type memTxManager struct {
	store *memStore
}

func (m *memTxManager) Transaction(ctx context.Context, fn func(ctx context.Context) error) error {
	m.store.txMu.Lock()
	defer m.store.txMu.Unlock()
	return fn(ctx)
}

type memOrderRepo struct {
	store *memStore
}

func (r *memOrderRepo) Create(ctx context.Context, o *order.Order) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	o.ID = r.store.nextOrderID
	r.store.nextOrderID++
	cp := *o
	r.store.orders[o.ID] = &cp
	return nil
}

func (r *memOrderRepo) FindByID(ctx context.Context, id uint) (*order.Order, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	o, ok := r.store.orders[id]
	if !ok {
		return nil, order.ErrOrderNotFound
	}
	cp := *o
	return &cp, nil
}

func (r *memOrderRepo) FindByOrderNo(ctx context.Context, orderNo string) (*order.Order, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, o := range r.store.orders {
		if o.OrderNo == orderNo {
			cp := *o
			return &cp, nil
		}
	}
	return nil, order.ErrOrderNotFound
}

func (r *memOrderRepo) CompareAndSetStatus(ctx context.Context, id uint, expected, next order.OrderStatus) (bool, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	o, ok := r.store.orders[id]
	if !ok || o.Status != expected {
		return false, nil
	}
	o.Status = next
	return true, nil
}

func (r *memOrderRepo) ListByActor(ctx context.Context, userID uint, status order.OrderStatus, page, pageSize int) ([]*order.Order, int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var result []*order.Order
	for _, o := range r.store.orders {
		if o.BuyerID != userID && o.SellerID != userID {
			continue
		}
		if status != 0 && o.Status != status {
			continue
		}
		cp := *o
		result = append(result, &cp)
	}
	return result, int64(len(result)), nil
}

type memBookRepo struct {
	store *memStore
}

func (r *memBookRepo) Create(ctx context.Context, b *book.Book) error { return nil }

func (r *memBookRepo) FindByID(ctx context.Context, id uint) (*book.Book, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	b, ok := r.store.books[id]
	if !ok || b.Status == book.BookStatusRemoved {
		return nil, book.ErrBookNotFound
	}
	cp := *b
	return &cp, nil
}

func (r *memBookRepo) Update(ctx context.Context, b *book.Book) error { return nil }

func (r *memBookRepo) Delete(ctx context.Context, id uint) error { return nil }

func (r *memBookRepo) List(ctx context.Context, params book.ListParams) ([]*book.Book, int64, error) {
	return nil, 0, nil
}

func (r *memBookRepo) LockByID(ctx context.Context, id uint) (*book.Book, error) {
	// 内存实现里事务已被mu串行化,锁定等同于读取
	return r.FindByID(ctx, id)
}

func (r *memBookRepo) BatchTransition(ctx context.Context, ids []uint, from, to book.BookStatus) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, id := range ids {
		b, ok := r.store.books[id]
		if !ok || b.Status != from {
			return book.ErrBookUnavailable
		}
	}
	for _, id := range ids {
		r.store.books[id].Status = to
	}
	return nil
}

func (r *memBookRepo) Release(ctx context.Context, ids []uint) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, id := range ids {
		if b, ok := r.store.books[id]; ok && b.Status == book.BookStatusSold {
			b.Status = book.BookStatusAvailable
		}
	}
	return nil
}

type memUserRepo struct {
	store *memStore
}

func (r *memUserRepo) Create(ctx context.Context, u *user.User) error { return nil }

func (r *memUserRepo) FindByID(ctx context.Context, id uint) (*user.User, error) {
	return nil, apperrors.ErrUserNotFound
}

func (r *memUserRepo) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	return nil, apperrors.ErrUserNotFound
}

func (r *memUserRepo) Update(ctx context.Context, u *user.User) error { return nil }

func (r *memUserRepo) Delete(ctx context.Context, id uint) error { return nil }

func (r *memUserRepo) AppendOrderRef(ctx context.Context, userID, orderID uint) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.orderRefs[userID] = append(r.store.orderRefs[userID], orderID)
	return nil
}

func (r *memUserRepo) ListOrderRefs(ctx context.Context, userID uint) ([]uint, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	return r.store.orderRefs[userID], nil
}

type nopPublisher struct{}

func (nopPublisher) OrderCreated(ctx context.Context, o *order.Order) error   { return nil }
func (nopPublisher) OrderCancelled(ctx context.Context, o *order.Order) error { return nil }
func (nopPublisher) OrderCompleted(ctx context.Context, o *order.Order) error { return nil }

// =========================================
// 测试辅助
// =========================================

type fixture struct {
	store     *memStore
	orderRepo *memOrderRepo
	bookRepo  *memBookRepo
	userRepo  *memUserRepo
	tx        *memTxManager
}

func newFixture() *fixture {
	store := newMemStore()
	return &fixture{
		store:     store,
		orderRepo: &memOrderRepo{store: store},
		bookRepo:  &memBookRepo{store: store},
		userRepo:  &memUserRepo{store: store},
		tx:        &memTxManager{store: store},
	}
}

func (f *fixture) createUC() *CreateOrderUseCase {
	return NewCreateOrderUseCase(f.orderRepo, f.bookRepo, f.userRepo, f.tx, nopPublisher{})
}

func (f *fixture) updateUC() *UpdateOrderStatusUseCase {
	return NewUpdateOrderStatusUseCase(f.orderRepo, f.bookRepo, f.tx, nopPublisher{})
}

func (f *fixture) deleteUC() *DeleteOrderUseCase {
	return NewDeleteOrderUseCase(f.orderRepo, f.bookRepo, f.tx, nopPublisher{})
}

const (
	buyerID  = uint(1)
	sellerID = uint(2)
	otherID  = uint(9)
	addr     = "Av. Libertador 100, Buenos Aires"
)

// =========================================
// 创建订单
// =========================================

func TestCreateOrder(t *testing.T) {
	ctx := context.Background()

	t.Run("下单成功图书流转为已售出", func(t *testing.T) {
		f := newFixture()
		f.store.addBook(10, sellerID, 1500, book.BookStatusAvailable)
		f.store.addBook(11, sellerID, 2500, book.BookStatusAvailable)

		resp, err := f.createUC().Execute(ctx, CreateOrderRequest{
			BuyerID: buyerID, BookIDs: []uint{10, 11}, ShippingAddress: addr,
		})
		require.NoError(t, err)
		assert.Equal(t, "en_progreso", resp.Status)
		assert.Equal(t, int64(4000), resp.Total) // 价格快照之和
		assert.Equal(t, sellerID, resp.SellerID)
		assert.Equal(t, []uint{10, 11}, resp.BookIDs)

		// 图书流转为已售出
		assert.Equal(t, book.BookStatusSold, f.store.books[10].Status)
		assert.Equal(t, book.BookStatusSold, f.store.books[11].Status)

		// 买卖双方都有订单引用
		assert.Contains(t, f.store.orderRefs[buyerID], resp.OrderID)
		assert.Contains(t, f.store.orderRefs[sellerID], resp.OrderID)
	})

	t.Run("下单后改价不影响订单总价", func(t *testing.T) {
		f := newFixture()
		f.store.addBook(10, sellerID, 1500, book.BookStatusAvailable)
		f.store.addBook(11, sellerID, 2500, book.BookStatusAvailable)

		created, err := f.createUC().Execute(ctx, CreateOrderRequest{
			BuyerID: buyerID, BookIDs: []uint{10, 11}, ShippingAddress: addr,
		})
		require.NoError(t, err)
		require.Equal(t, int64(4000), created.Total)

		// 卖家改价(快照已落入订单明细,历史订单金额不变)
		f.store.books[10].Price = 9900
		f.store.books[11].Price = 1

		d, err := NewGetOrderUseCase(f.orderRepo).Execute(ctx, created.OrderID, buyerID)
		require.NoError(t, err)
		assert.Equal(t, int64(4000), d.Total, "订单总价是下单时的快照,改价后不应变化")
	})

	t.Run("图书不存在返回404", func(t *testing.T) {
		f := newFixture()
		_, err := f.createUC().Execute(ctx, CreateOrderRequest{
			BuyerID: buyerID, BookIDs: []uint{999}, ShippingAddress: addr,
		})
		assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))
	})

	t.Run("图书已售出返回冲突", func(t *testing.T) {
		f := newFixture()
		f.store.addBook(10, sellerID, 1500, book.BookStatusSold)
		_, err := f.createUC().Execute(ctx, CreateOrderRequest{
			BuyerID: buyerID, BookIDs: []uint{10}, ShippingAddress: addr,
		})
		assert.ErrorIs(t, err, book.ErrBookUnavailable)
	})

	t.Run("跨卖家下单返回冲突", func(t *testing.T) {
		f := newFixture()
		f.store.addBook(10, sellerID, 1500, book.BookStatusAvailable)
		f.store.addBook(11, otherID, 2000, book.BookStatusAvailable)
		_, err := f.createUC().Execute(ctx, CreateOrderRequest{
			BuyerID: buyerID, BookIDs: []uint{10, 11}, ShippingAddress: addr,
		})
		assert.ErrorIs(t, err, order.ErrMultipleSellers)

		// 事务回滚:没有图书被占用
		assert.Equal(t, book.BookStatusAvailable, f.store.books[10].Status)
		assert.Equal(t, book.BookStatusAvailable, f.store.books[11].Status)
	})

	t.Run("购买自己的图书返回冲突", func(t *testing.T) {
		f := newFixture()
		f.store.addBook(10, buyerID, 1500, book.BookStatusAvailable)
		_, err := f.createUC().Execute(ctx, CreateOrderRequest{
			BuyerID: buyerID, BookIDs: []uint{10}, ShippingAddress: addr,
		})
		assert.ErrorIs(t, err, order.ErrOwnBookPurchase)
	})

	t.Run("地址为空返回参数错误", func(t *testing.T) {
		f := newFixture()
		f.store.addBook(10, sellerID, 1500, book.BookStatusAvailable)
		_, err := f.createUC().Execute(ctx, CreateOrderRequest{
			BuyerID: buyerID, BookIDs: []uint{10},
		})
		assert.ErrorIs(t, err, order.ErrAddressRequired)
	})

	t.Run("图书ID重复返回参数错误", func(t *testing.T) {
		f := newFixture()
		f.store.addBook(10, sellerID, 1500, book.BookStatusAvailable)
		_, err := f.createUC().Execute(ctx, CreateOrderRequest{
			BuyerID: buyerID, BookIDs: []uint{10, 10}, ShippingAddress: addr,
		})
		assert.ErrorIs(t, err, order.ErrDuplicateBooks)
	})
}

// TestCreateOrderConcurrency 并发下单同一本书,恰好一个成功
func TestCreateOrderConcurrency(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	f.store.addBook(10, sellerID, 1500, book.BookStatusAvailable)
	uc := f.createUC()

	const n = 20
	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			buyer := uint(100 + i)
			_, err := uc.Execute(ctx, CreateOrderRequest{
				BuyerID: buyer, BookIDs: []uint{10}, ShippingAddress: addr,
			})
			errs[i] = err
		}(i)
	}
	wg.Wait()

	success := 0
	for _, err := range errs {
		if err == nil {
			success++
		} else {
			assert.ErrorIs(t, err, book.ErrBookUnavailable)
		}
	}
	assert.Equal(t, 1, success, "同一本书只能被一个买家下单成功")
	assert.Equal(t, book.BookStatusSold, f.store.books[10].Status)
}

// =========================================
// 查询订单
// =========================================

func TestGetOrder(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	f.store.addBook(10, sellerID, 1500, book.BookStatusAvailable)
	created, err := f.createUC().Execute(ctx, CreateOrderRequest{
		BuyerID: buyerID, BookIDs: []uint{10}, ShippingAddress: addr,
	})
	require.NoError(t, err)

	uc := NewGetOrderUseCase(f.orderRepo)

	t.Run("买家可以查看", func(t *testing.T) {
		d, err := uc.Execute(ctx, created.OrderID, buyerID)
		require.NoError(t, err)
		assert.Equal(t, created.OrderNo, d.OrderNo)
	})

	t.Run("卖家可以查看", func(t *testing.T) {
		_, err := uc.Execute(ctx, created.OrderID, sellerID)
		assert.NoError(t, err)
	})

	t.Run("第三方返回403", func(t *testing.T) {
		_, err := uc.Execute(ctx, created.OrderID, otherID)
		assert.True(t, apperrors.IsKind(err, apperrors.KindForbidden))
	})

	t.Run("订单不存在返回404", func(t *testing.T) {
		_, err := uc.Execute(ctx, 999, buyerID)
		assert.ErrorIs(t, err, order.ErrOrderNotFound)
	})
}

func TestListOrders(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	f.store.addBook(10, sellerID, 1500, book.BookStatusAvailable)
	f.store.addBook(11, sellerID, 2000, book.BookStatusAvailable)
	created, err := f.createUC().Execute(ctx, CreateOrderRequest{
		BuyerID: buyerID, BookIDs: []uint{10}, ShippingAddress: addr,
	})
	require.NoError(t, err)

	uc := NewListOrdersUseCase(f.orderRepo)

	t.Run("只返回当前用户参与的订单", func(t *testing.T) {
		resp, err := uc.Execute(ctx, ListOrdersRequest{ActorID: buyerID})
		require.NoError(t, err)
		assert.Equal(t, int64(1), resp.Total)

		resp, err = uc.Execute(ctx, ListOrdersRequest{ActorID: otherID})
		require.NoError(t, err)
		assert.Equal(t, int64(0), resp.Total)
	})

	t.Run("状态过滤", func(t *testing.T) {
		resp, err := uc.Execute(ctx, ListOrdersRequest{ActorID: buyerID, Status: "en_progreso"})
		require.NoError(t, err)
		assert.Equal(t, int64(1), resp.Total)

		resp, err = uc.Execute(ctx, ListOrdersRequest{ActorID: buyerID, Status: "cancelado"})
		require.NoError(t, err)
		assert.Equal(t, int64(0), resp.Total)
	})

	t.Run("非法状态值返回参数错误", func(t *testing.T) {
		_, err := uc.Execute(ctx, ListOrdersRequest{ActorID: buyerID, Status: "enviado"})
		assert.ErrorIs(t, err, order.ErrUnknownStatus)
	})

	_ = created
}

// =========================================
// 状态流转
// =========================================

func TestUpdateOrderStatus(t *testing.T) {
	ctx := context.Background()

	setup := func(t *testing.T) (*fixture, *CreateOrderResponse) {
		f := newFixture()
		f.store.addBook(10, sellerID, 1500, book.BookStatusAvailable)
		created, err := f.createUC().Execute(ctx, CreateOrderRequest{
			BuyerID: buyerID, BookIDs: []uint{10}, ShippingAddress: addr,
		})
		require.NoError(t, err)
		return f, created
	}

	t.Run("买家取消订单图书释放", func(t *testing.T) {
		f, created := setup(t)
		d, err := f.updateUC().Execute(ctx, UpdateOrderStatusRequest{
			OrderID: created.OrderID, ActorID: buyerID, Status: "cancelado",
		})
		require.NoError(t, err)
		assert.Equal(t, "cancelado", d.Status)
		assert.Equal(t, book.BookStatusAvailable, f.store.books[10].Status)
	})

	t.Run("卖家也可以取消订单", func(t *testing.T) {
		f, created := setup(t)
		_, err := f.updateUC().Execute(ctx, UpdateOrderStatusRequest{
			OrderID: created.OrderID, ActorID: sellerID, Status: "cancelado",
		})
		assert.NoError(t, err)
	})

	t.Run("卖家确认完成图书保持已售出", func(t *testing.T) {
		f, created := setup(t)
		d, err := f.updateUC().Execute(ctx, UpdateOrderStatusRequest{
			OrderID: created.OrderID, ActorID: sellerID, Status: "completado",
		})
		require.NoError(t, err)
		assert.Equal(t, "completado", d.Status)
		assert.Equal(t, book.BookStatusSold, f.store.books[10].Status)
	})

	t.Run("买家不能确认完成", func(t *testing.T) {
		f, created := setup(t)
		_, err := f.updateUC().Execute(ctx, UpdateOrderStatusRequest{
			OrderID: created.OrderID, ActorID: buyerID, Status: "completado",
		})
		assert.ErrorIs(t, err, order.ErrSellerOnly)
	})

	t.Run("第三方不能操作", func(t *testing.T) {
		f, created := setup(t)
		_, err := f.updateUC().Execute(ctx, UpdateOrderStatusRequest{
			OrderID: created.OrderID, ActorID: otherID, Status: "cancelado",
		})
		assert.ErrorIs(t, err, order.ErrNotOrderParty)
	})

	t.Run("终态订单不可再流转", func(t *testing.T) {
		f, created := setup(t)
		_, err := f.updateUC().Execute(ctx, UpdateOrderStatusRequest{
			OrderID: created.OrderID, ActorID: sellerID, Status: "completado",
		})
		require.NoError(t, err)

		_, err = f.updateUC().Execute(ctx, UpdateOrderStatusRequest{
			OrderID: created.OrderID, ActorID: buyerID, Status: "cancelado",
		})
		assert.ErrorIs(t, err, order.ErrInvalidStatusTransition)
	})

	t.Run("未知状态值返回参数错误", func(t *testing.T) {
		f, created := setup(t)
		_, err := f.updateUC().Execute(ctx, UpdateOrderStatusRequest{
			OrderID: created.OrderID, ActorID: buyerID, Status: "enviado",
		})
		assert.ErrorIs(t, err, order.ErrUnknownStatus)
	})

	t.Run("目标状态为进行中返回冲突", func(t *testing.T) {
		f, created := setup(t)
		_, err := f.updateUC().Execute(ctx, UpdateOrderStatusRequest{
			OrderID: created.OrderID, ActorID: buyerID, Status: "en_progreso",
		})
		assert.ErrorIs(t, err, order.ErrInvalidStatusTransition)
	})
}

// TestUpdateOrderStatusConcurrency 并发流转同一订单,恰好一个成功
func TestUpdateOrderStatusConcurrency(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	f.store.addBook(10, sellerID, 1500, book.BookStatusAvailable)
	created, err := f.createUC().Execute(ctx, CreateOrderRequest{
		BuyerID: buyerID, BookIDs: []uint{10}, ShippingAddress: addr,
	})
	require.NoError(t, err)

	uc := f.updateUC()
	var wg sync.WaitGroup
	var cancelErr, completeErr error
	wg.Add(2)
	go func() {
		defer wg.Done()
		_, cancelErr = uc.Execute(ctx, UpdateOrderStatusRequest{
			OrderID: created.OrderID, ActorID: buyerID, Status: "cancelado",
		})
	}()
	go func() {
		defer wg.Done()
		_, completeErr = uc.Execute(ctx, UpdateOrderStatusRequest{
			OrderID: created.OrderID, ActorID: sellerID, Status: "completado",
		})
	}()
	wg.Wait()

	// CAS保证恰好一个流转成功
	if cancelErr == nil {
		assert.ErrorIs(t, completeErr, order.ErrInvalidStatusTransition)
	} else {
		assert.NoError(t, completeErr)
		assert.ErrorIs(t, cancelErr, order.ErrInvalidStatusTransition)
	}
}

// =========================================
// 删除(取消)订单
// =========================================

func TestDeleteOrder(t *testing.T) {
	ctx := context.Background()

	setup := func(t *testing.T) (*fixture, *CreateOrderResponse) {
		f := newFixture()
		f.store.addBook(10, sellerID, 1500, book.BookStatusAvailable)
		created, err := f.createUC().Execute(ctx, CreateOrderRequest{
			BuyerID: buyerID, BookIDs: []uint{10}, ShippingAddress: addr,
		})
		require.NoError(t, err)
		return f, created
	}

	t.Run("删除等价于取消并释放图书", func(t *testing.T) {
		f, created := setup(t)
		resp, err := f.deleteUC().Execute(ctx, created.OrderID, buyerID)
		require.NoError(t, err)
		assert.Equal(t, "cancelado", resp.Status)
		assert.Equal(t, book.BookStatusAvailable, f.store.books[10].Status)

		// 订单记录保留
		d, err := NewGetOrderUseCase(f.orderRepo).Execute(ctx, created.OrderID, buyerID)
		require.NoError(t, err)
		assert.Equal(t, "cancelado", d.Status)
	})

	t.Run("重复删除幂等", func(t *testing.T) {
		f, created := setup(t)
		_, err := f.deleteUC().Execute(ctx, created.OrderID, buyerID)
		require.NoError(t, err)

		resp, err := f.deleteUC().Execute(ctx, created.OrderID, buyerID)
		require.NoError(t, err)
		assert.Equal(t, "cancelado", resp.Status)
	})

	t.Run("已完成订单不可删除", func(t *testing.T) {
		f, created := setup(t)
		_, err := f.updateUC().Execute(ctx, UpdateOrderStatusRequest{
			OrderID: created.OrderID, ActorID: sellerID, Status: "completado",
		})
		require.NoError(t, err)

		_, err = f.deleteUC().Execute(ctx, created.OrderID, buyerID)
		assert.ErrorIs(t, err, order.ErrInvalidStatusTransition)
	})

	t.Run("第三方返回403", func(t *testing.T) {
		f, created := setup(t)
		_, err := f.deleteUC().Execute(ctx, created.OrderID, otherID)
		assert.ErrorIs(t, err, order.ErrNotOrderParty)
	})

	t.Run("订单不存在返回404", func(t *testing.T) {
		f, _ := setup(t)
		_, err := f.deleteUC().Execute(ctx, 999, buyerID)
		assert.ErrorIs(t, err, order.ErrOrderNotFound)
	})
}
