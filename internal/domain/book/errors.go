package book

import (
	apperrors "github.com/xiebiao/library/pkg/errors"
)

// 图书领域错误定义
var (
	// ErrBookNotFound 图书不存在
	ErrBookNotFound = apperrors.New(apperrors.ErrCodeBookNotFound, "图书不存在")

	// ErrISBNDuplicate ISBN已存在
	ErrISBNDuplicate = apperrors.New(apperrors.ErrCodeISBNDuplicate, "ISBN号已存在")

	// ErrInvalidISBN ISBN格式不正确
	ErrInvalidISBN = apperrors.New(apperrors.ErrCodeInvalidParams, "ISBN格式不正确")

	// ErrISBNRequired ISBN不能为空
	ErrISBNRequired = apperrors.New(apperrors.ErrCodeMissingField, "ISBN不能为空")

	// ErrTitleRequired 书名不能为空
	ErrTitleRequired = apperrors.New(apperrors.ErrCodeMissingField, "书名不能为空")

	// ErrAuthorRequired 作者不能为空
	ErrAuthorRequired = apperrors.New(apperrors.ErrCodeMissingField, "作者不能为空")

	// ErrNegativeCopies 馆藏册数不能为负数
	ErrNegativeCopies = apperrors.New(apperrors.ErrCodeInvalidCopies, "馆藏册数不能为负数")
)
