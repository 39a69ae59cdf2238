package category

import (
	apperrors "github.com/xiebiao/library/pkg/errors"
)

// 分类领域错误定义
var (
	// ErrCategoryNotFound 分类不存在或已停用
	ErrCategoryNotFound = apperrors.New(apperrors.ErrCodeCategoryNotFound, "分类不存在或已停用")

	// ErrParentNotFound 父分类不存在或已停用
	ErrParentNotFound = apperrors.New(apperrors.ErrCodeParentNotFound, "父分类不存在或已停用")

	// ErrCategoryCycle 分类不能移动到自己或自己的后代下(防止成环)
	ErrCategoryCycle = apperrors.New(apperrors.ErrCodeCategoryCycle, "分类不能移动到自己或自己的后代下")

	// ErrNameRequired 分类名称不能为空
	ErrNameRequired = apperrors.New(apperrors.ErrCodeMissingField, "分类名称不能为空")

	// ErrBrokenHierarchy 父链数据异常(出现环或悬挂指针,属于存储层缺陷)
	ErrBrokenHierarchy = apperrors.New(apperrors.ErrCodeInternal, "分类层级数据异常")
)
