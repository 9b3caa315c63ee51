package user

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	apperrors "github.com/xiebiao/bookmarket/pkg/errors"
)

// fakeRepo 内存仓储实现，用于单元测试
type fakeRepo struct {
	mu     sync.Mutex
	nextID uint
	users  map[uint]*User
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{nextID: 1, users: make(map[uint]*User)}
}

func (r *fakeRepo) Create(ctx context.Context, u *User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.Email == u.Email {
			return apperrors.ErrEmailDuplicate
		}
	}
	u.ID = r.nextID
	r.nextID++
	r.users[u.ID] = u
	return nil
}

func (r *fakeRepo) FindByID(ctx context.Context, id uint) (*User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	return u, nil
}

func (r *fakeRepo) FindByEmail(ctx context.Context, email string) (*User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, apperrors.ErrUserNotFound
}

func (r *fakeRepo) Update(ctx context.Context, u *User) error { return nil }

func (r *fakeRepo) Delete(ctx context.Context, id uint) error { return nil }

func (r *fakeRepo) AppendOrderRef(ctx context.Context, userID, orderID uint) error { return nil }

func (r *fakeRepo) ListOrderRefs(ctx context.Context, userID uint) ([]uint, error) {
	return nil, nil
}

func TestRegister(t *testing.T) {
	ctx := context.Background()

	t.Run("注册成功且密码已加密", func(t *testing.T) {
		svc := NewService(newFakeRepo())
		u, err := svc.Register(ctx, "ana@example.com", "password123", "Ana García")
		require.NoError(t, err)
		assert.NotZero(t, u.ID)
		assert.Equal(t, "Ana García", u.Name)
		assert.NotEqual(t, "password123", u.Password)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.Password), []byte("password123")))
	})

	t.Run("邮箱格式错误", func(t *testing.T) {
		svc := NewService(newFakeRepo())
		_, err := svc.Register(ctx, "not-an-email", "password123", "Ana")
		assert.True(t, apperrors.IsKind(err, apperrors.KindInvalidInput))
	})

	t.Run("姓名为空", func(t *testing.T) {
		svc := NewService(newFakeRepo())
		_, err := svc.Register(ctx, "ana@example.com", "password123", "")
		assert.True(t, apperrors.IsKind(err, apperrors.KindInvalidInput))
	})

	t.Run("密码强度不足", func(t *testing.T) {
		svc := NewService(newFakeRepo())
		_, err := svc.Register(ctx, "ana@example.com", "short1", "Ana")
		assert.ErrorIs(t, err, apperrors.ErrWeakPassword)
	})

	t.Run("邮箱重复", func(t *testing.T) {
		svc := NewService(newFakeRepo())
		_, err := svc.Register(ctx, "ana@example.com", "password123", "Ana")
		require.NoError(t, err)
		_, err = svc.Register(ctx, "ana@example.com", "password456", "Otra Ana")
		assert.ErrorIs(t, err, apperrors.ErrEmailDuplicate)
	})
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo()
	svc := NewService(repo)
	_, err := svc.Register(ctx, "luis@example.com", "password123", "Luis")
	require.NoError(t, err)

	t.Run("登录成功", func(t *testing.T) {
		u, err := svc.Login(ctx, "luis@example.com", "password123")
		require.NoError(t, err)
		assert.Equal(t, "luis@example.com", u.Email)
	})

	t.Run("密码错误", func(t *testing.T) {
		_, err := svc.Login(ctx, "luis@example.com", "wrongpass1")
		assert.ErrorIs(t, err, apperrors.ErrInvalidPassword)
	})

	t.Run("用户不存在", func(t *testing.T) {
		_, err := svc.Login(ctx, "nobody@example.com", "password123")
		assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
	})
}
