package book

import (
	apperrors "github.com/xiebiao/bookmarket/pkg/errors"
)

// 图书领域错误定义
var (
	// ErrBookNotFound 图书不存在
	ErrBookNotFound = apperrors.New(apperrors.KindNotFound, apperrors.ErrCodeBookNotFound, "图书不存在")

	// ErrTitleRequired 书名不能为空
	ErrTitleRequired = apperrors.New(apperrors.KindInvalidInput, apperrors.ErrCodeInvalidParams, "书名不能为空")

	// ErrInvalidPrice 无效的价格
	ErrInvalidPrice = apperrors.New(apperrors.KindInvalidInput, apperrors.ErrCodeInvalidParams, "价格不能为负数")

	// ErrBookUnavailable 图书不可售(已售出或已下架)
	ErrBookUnavailable = apperrors.New(apperrors.KindConflict, apperrors.ErrCodeBookUnavailable, "图书已售出或已下架")

	// ErrBookSold 图书已售出,不能下架
	ErrBookSold = apperrors.New(apperrors.KindConflict, apperrors.ErrCodeBookUnavailable, "图书已被订单引用,不能下架")

	// ErrNotOwner 无权操作此图书
	ErrNotOwner = apperrors.New(apperrors.KindForbidden, apperrors.ErrCodeForbidden, "无权操作此图书")
)
