package order

import (
	"context"
)

// TxManager 事务边界接口
// 设计说明:
// 1. mysql.TxManager是生产实现,单元测试用直通实现代替
// 2. fn内的所有Repository操作在同一事务中执行,返回error时回滚
type TxManager interface {
	Transaction(ctx context.Context, fn func(ctx context.Context) error) error
}
