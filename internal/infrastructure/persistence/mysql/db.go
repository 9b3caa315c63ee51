package mysql

import (
	"fmt"
	"log"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/xiebiao/bookmarket/internal/infrastructure/config"
)

// NewDB 创建数据库连接
// 设计说明：
// 1. 使用GORM v2作为ORM框架
// 2. 配置连接池参数（MaxOpenConns、MaxIdleConns、ConnMaxLifetime）
// 3. 开发环境开启SQL日志，生产环境关闭
// 4. 自动迁移表结构（AutoMigrate）
func NewDB(cfg *config.Config) (*gorm.DB, error) {
	dsn := cfg.Database.DSN()

	logLevel := logger.Silent
	if cfg.Server.Mode == "debug" {
		logLevel = logger.Info // 开发环境打印SQL
	}

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
		NowFunc: func() time.Time {
			return time.Now()
		},
	})
	if err != nil {
		return nil, fmt.Errorf("连接数据库失败: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("获取SQL DB失败: %w", err)
	}

	// 最大打开连接数（建议：CPU核数 * 2 + 磁盘数量）
	sqlDB.SetMaxOpenConns(cfg.Database.MaxOpenConns)

	// 最大空闲连接数（建议：MaxOpenConns的1/4到1/2）
	sqlDB.SetMaxIdleConns(cfg.Database.MaxIdleConns)

	// 连接最大存活时间（防止数据库主动断开连接）
	sqlDB.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("数据库连接测试失败: %w", err)
	}

	log.Println("✓ 数据库连接成功")

	// 自动迁移表结构（开发环境）
	// 注意：生产环境应使用专门的迁移工具（如golang-migrate）
	if err := autoMigrate(db); err != nil {
		return nil, fmt.Errorf("数据库迁移失败: %w", err)
	}

	return db, nil
}

// autoMigrate 自动迁移表结构
// 注意：这里使用GORM的模型定义（带tag），不是domain层的实体
func autoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&UserModel{},
		&BookModel{},
		&OrderModel{},
		&OrderBookModel{},
		&UserOrderRefModel{},
	)
}

// UserModel GORM用户模型
// 设计说明：
// 1. 这是infrastructure层的数据模型，包含GORM tag
// 2. domain/user/entity.go是领域实体，不依赖GORM
// 3. Repository负责两者之间的转换
type UserModel struct {
	ID        uint           `gorm:"primaryKey"`
	Email     string         `gorm:"uniqueIndex;size:100;not null;comment:邮箱"`
	Password  string         `gorm:"size:255;not null;comment:密码（bcrypt加密）"`
	Name      string         `gorm:"size:100;not null;comment:姓名"`
	CreatedAt time.Time      `gorm:"comment:创建时间"`
	UpdatedAt time.Time      `gorm:"comment:更新时间"`
	DeletedAt gorm.DeletedAt `gorm:"index;comment:删除时间（软删除）"`
}

// TableName 指定表名
func (UserModel) TableName() string {
	return "users"
}

// BookModel GORM图书模型
// 设计说明:
// 1. 价格使用int64存储"分"为单位(避免浮点数精度问题)
// 2. Status带索引,列表查询默认只取在售图书
// 3. OwnerID关联用户表,支持查询某用户发布的所有图书
// 4. 下架通过Status=removed表达,不用gorm.DeletedAt
//    (订单详情需要能读到已下架图书的快照信息)
type BookModel struct {
	ID          uint      `gorm:"primaryKey"`
	Title       string    `gorm:"index:idx_search;size:200;not null;comment:书名"`
	Author      string    `gorm:"index:idx_search;size:100;comment:作者"`
	Genre       string    `gorm:"index;size:50;comment:题材"`
	Publisher   string    `gorm:"size:100;comment:出版社"`
	PublishedAt time.Time `gorm:"comment:出版日期"`
	Price       int64     `gorm:"index:idx_list;not null;comment:价格(分)"`
	OwnerID     uint      `gorm:"index;not null;comment:卖家用户ID"`
	Status      int       `gorm:"index;type:tinyint;default:1;comment:图书状态(1在售2已售出3已下架)"`
	CreatedAt   time.Time `gorm:"index:idx_list;comment:创建时间"`
	UpdatedAt   time.Time `gorm:"comment:更新时间"`
}

// TableName 指定表名
func (BookModel) TableName() string {
	return "books"
}

// OrderModel GORM订单模型
// 教学要点:
// 1. 与OrderBookModel是一对多关系
// 2. OrderNo有唯一索引(业务主键)
// 3. BuyerID和SellerID各自带索引,支持"我参与的订单"双向查询
type OrderModel struct {
	ID              uint             `gorm:"primaryKey"`
	OrderNo         string           `gorm:"uniqueIndex;size:32;not null;comment:订单号"`
	BuyerID         uint             `gorm:"index;not null;comment:买家用户ID"`
	SellerID        uint             `gorm:"index;not null;comment:卖家用户ID"`
	ShippingAddress string           `gorm:"size:500;not null;comment:收货地址"`
	Total           int64            `gorm:"not null;comment:订单总金额(分)"`
	Status          int              `gorm:"index;type:tinyint;default:1;comment:订单状态(1进行中2已取消3已完成)"`
	Books           []OrderBookModel `gorm:"foreignKey:OrderID"` // 一对多关联
	CreatedAt       time.Time        `gorm:"index;comment:创建时间"`
	UpdatedAt       time.Time        `gorm:"comment:更新时间"`
}

// TableName 指定表名
func (OrderModel) TableName() string {
	return "orders"
}

// OrderBookModel GORM订单图书关联模型
// 教学要点:
// 1. Position保持下单时的图书顺序
// 2. Price记录下单时的价格快照,卖家改价不影响历史订单
type OrderBookModel struct {
	ID       uint  `gorm:"primaryKey"`
	OrderID  uint  `gorm:"index;not null;comment:订单ID"`
	BookID   uint  `gorm:"index;not null;comment:图书ID"`
	Position int   `gorm:"not null;comment:下单时的顺序"`
	Price    int64 `gorm:"not null;comment:下单时价格(分)"`
}

// TableName 指定表名
func (OrderBookModel) TableName() string {
	return "order_books"
}

// UserOrderRefModel GORM用户订单引用模型
// 订单创建成功后给买卖双方各写一条,用户详情页据此列出相关订单
type UserOrderRefModel struct {
	ID        uint      `gorm:"primaryKey"`
	UserID    uint      `gorm:"index:idx_user_order,unique;not null;comment:用户ID"`
	OrderID   uint      `gorm:"index:idx_user_order,unique;not null;comment:订单ID"`
	CreatedAt time.Time `gorm:"comment:创建时间"`
}

// TableName 指定表名
func (UserOrderRefModel) TableName() string {
	return "user_order_refs"
}
