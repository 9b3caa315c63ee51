package order

import (
	apperrors "github.com/xiebiao/bookmarket/pkg/errors"
)

// 订单领域错误定义
var (
	// ErrOrderNotFound 订单不存在
	ErrOrderNotFound = apperrors.New(apperrors.KindNotFound, apperrors.ErrCodeOrderNotFound, "订单不存在")

	// ErrInvalidStatusTransition 非法的状态转换(终态订单不可修改)
	ErrInvalidStatusTransition = apperrors.New(apperrors.KindConflict, apperrors.ErrCodeInvalidOrderStatus, "订单状态不允许此操作")

	// ErrUnknownStatus 未知的状态值
	ErrUnknownStatus = apperrors.New(apperrors.KindInvalidInput, apperrors.ErrCodeInvalidParams, "未知的订单状态")

	// ErrEmptyBookList 订单图书列表为空
	ErrEmptyBookList = apperrors.New(apperrors.KindInvalidInput, apperrors.ErrCodeInvalidParams, "订单至少包含一本图书")

	// ErrDuplicateBooks 图书ID重复
	ErrDuplicateBooks = apperrors.New(apperrors.KindInvalidInput, apperrors.ErrCodeInvalidParams, "订单中的图书不能重复")

	// ErrAddressRequired 收货地址必填
	ErrAddressRequired = apperrors.New(apperrors.KindInvalidInput, apperrors.ErrCodeInvalidParams, "收货地址不能为空")

	// ErrMultipleSellers 图书分属不同卖家
	ErrMultipleSellers = apperrors.New(apperrors.KindConflict, apperrors.ErrCodeMultipleSellers, "一笔订单的图书必须来自同一个卖家")

	// ErrOwnBookPurchase 不能购买自己发布的图书
	ErrOwnBookPurchase = apperrors.New(apperrors.KindConflict, apperrors.ErrCodeOwnBookPurchase, "不能购买自己发布的图书")

	// ErrNotOrderParty 非交易双方
	ErrNotOrderParty = apperrors.New(apperrors.KindForbidden, apperrors.ErrCodeForbidden, "只有交易双方可以查看此订单")

	// ErrSellerOnly 仅卖家可操作
	ErrSellerOnly = apperrors.New(apperrors.KindForbidden, apperrors.ErrCodeForbidden, "只有卖家可以确认订单完成")
)
