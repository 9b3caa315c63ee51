package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind 错误类别（封闭枚举）
// 设计说明：
// 1. 调用方根据Kind分支处理，不要对Message做字符串匹配
// 2. Kind决定HTTP状态码，Code是更细粒度的业务错误码
type Kind int

const (
	// KindInternal 系统内部错误（数据库、缓存、消息队列等）
	KindInternal Kind = iota

	// KindNotFound 资源不存在
	KindNotFound

	// KindForbidden 操作者与资源没有要求的关系（非所有者、非交易双方）
	KindForbidden

	// KindConflict 业务状态冲突（状态机非法流转、跨卖家购物车、图书不可售、CAS失败）
	KindConflict

	// KindInvalidInput 参数不合法（缺少必填字段、价格为负、未知状态值）
	KindInvalidInput
)

// String 实现Stringer接口（方便日志输出）
func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindForbidden:
		return "forbidden"
	case KindConflict:
		return "conflict"
	case KindInvalidInput:
		return "invalid_input"
	default:
		return "internal"
	}
}

// HTTPStatus Kind到HTTP状态码的映射
// 设计说明：Conflict与InvalidInput统一映射为400，这是对外接口的既有契约；
// 客户端需要更细的区分时使用响应体里的Code
func (k Kind) HTTPStatus() int {
	switch k {
	case KindNotFound:
		return http.StatusNotFound
	case KindForbidden:
		return http.StatusForbidden
	case KindConflict, KindInvalidInput:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// AppError 自定义应用错误
// 设计说明：
// 1. Kind用于调用方分支与HTTP状态码推导
// 2. Code用于客户端判断具体错误类型（不要直接暴露HTTP状态码）
// 3. Message是用户友好的提示信息
// 4. Err是内部错误，仅记录到日志，不返回给客户端（防止泄露敏感信息）
type AppError struct {
	Kind    Kind   `json:"-"`       // 错误类别
	Code    int    `json:"code"`    // 业务错误码
	Message string `json:"message"` // 用户友好的错误提示
	Err     error  `json:"-"`       // 内部错误（不序列化）
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%d] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%d] %s", e.Code, e.Message)
}

// Unwrap 支持errors.Is和errors.As
func (e *AppError) Unwrap() error {
	return e.Err
}

// HTTPStatus 返回该错误应映射到的HTTP状态码
func (e *AppError) HTTPStatus() int {
	return e.Kind.HTTPStatus()
}

// New 创建新的AppError
func New(kind Kind, code int, message string) *AppError {
	return &AppError{
		Kind:    kind,
		Code:    code,
		Message: message,
	}
}

// Wrap 包装系统错误（如数据库错误、网络错误）
// 用途：将底层错误转换为业务错误，隐藏实现细节
func Wrap(err error, message string) *AppError {
	return &AppError{
		Kind:    KindInternal,
		Code:    ErrCodeInternal,
		Message: message,
		Err:     err,
	}
}

// Wrapf 格式化包装错误
func Wrapf(err error, format string, args ...interface{}) *AppError {
	return &AppError{
		Kind:    KindInternal,
		Code:    ErrCodeInternal,
		Message: fmt.Sprintf(format, args...),
		Err:     err,
	}
}

// =========================================
// 错误码定义
// =========================================
// 规范：
// - 4xxxx: 客户端错误（参数错误、业务规则校验失败）
// - 5xxxx: 服务端错误（数据库异常、外部服务调用失败）

const (
	// 系统级错误码（50000-50099）
	ErrCodeInternal      = 50000 // 内部错误
	ErrCodeDatabaseError = 50001 // 数据库错误
	ErrCodeRedisError    = 50002 // Redis错误
	ErrCodeMQError       = 50003 // 消息队列错误

	// 认证授权错误（40100-40199）
	ErrCodeUnauthorized    = 40100 // 未登录
	ErrCodeInvalidToken    = 40101 // Token无效
	ErrCodeTokenExpired    = 40102 // Token过期
	ErrCodeInvalidPassword = 40103 // 密码错误
	ErrCodeForbidden       = 40104 // 无权限

	// 资源错误（40400-40499）
	ErrCodeNotFound      = 40400 // 资源不存在(通用)
	ErrCodeUserNotFound  = 40401 // 用户不存在
	ErrCodeBookNotFound  = 40402 // 图书不存在
	ErrCodeOrderNotFound = 40403 // 订单不存在

	// 业务规则错误（40000-40099）
	ErrCodeBusinessError      = 40000 // 业务错误(通用)
	ErrCodeBookUnavailable    = 40001 // 图书不可购买
	ErrCodeInvalidOrderStatus = 40002 // 订单状态非法
	ErrCodeEmailDuplicate     = 40003 // 邮箱已存在
	ErrCodeMultipleSellers    = 40004 // 购物车跨卖家
	ErrCodeWeakPassword       = 40005 // 密码强度不足
	ErrCodeOwnBookPurchase    = 40006 // 购买自己发布的图书
	ErrCodeDuplicateEntry     = 40009 // 重复记录(通用)

	// 参数错误（40900-40999）
	ErrCodeInvalidParams = 40900 // 参数错误
	ErrCodeBindError     = 40901 // 参数绑定失败
)

// =========================================
// 预定义错误（避免每次都New）
// =========================================

var (
	// 系统错误
	ErrInternal      = New(KindInternal, ErrCodeInternal, "系统内部错误")
	ErrDatabaseError = New(KindInternal, ErrCodeDatabaseError, "数据库错误")
	ErrRedisError    = New(KindInternal, ErrCodeRedisError, "缓存服务错误")

	// 认证授权
	ErrUnauthorized    = New(KindForbidden, ErrCodeUnauthorized, "请先登录")
	ErrInvalidToken    = New(KindForbidden, ErrCodeInvalidToken, "无效的Token")
	ErrTokenExpired    = New(KindForbidden, ErrCodeTokenExpired, "Token已过期")
	ErrInvalidPassword = New(KindForbidden, ErrCodeInvalidPassword, "密码错误")
	ErrForbidden       = New(KindForbidden, ErrCodeForbidden, "无权限访问")

	// 资源不存在
	ErrUserNotFound  = New(KindNotFound, ErrCodeUserNotFound, "用户不存在")
	ErrBookNotFound  = New(KindNotFound, ErrCodeBookNotFound, "图书不存在")
	ErrOrderNotFound = New(KindNotFound, ErrCodeOrderNotFound, "订单不存在")

	// 业务规则
	ErrEmailDuplicate = New(KindConflict, ErrCodeEmailDuplicate, "邮箱已被注册")
	ErrWeakPassword   = New(KindInvalidInput, ErrCodeWeakPassword, "密码强度不足（需8-20位，包含字母和数字）")

	// 参数错误
	ErrInvalidParams = New(KindInvalidInput, ErrCodeInvalidParams, "参数错误")
	ErrBindError     = New(KindInvalidInput, ErrCodeBindError, "参数格式错误")
)

// =========================================
// 辅助函数
// =========================================

// IsAppError 判断是否为AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// IsKind 判断错误是否属于指定类别
func IsKind(err error, kind Kind) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind == kind
	}
	return false
}

// GetAppError 提取AppError（如果不是AppError则包装成Internal错误）
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return Wrap(err, "系统内部错误")
}
