package service

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// ErrStorage 持久化层失败，调用方决定是否重试
var ErrStorage = errors.New("存储访问失败")

func storageError(err error) error {
	return fmt.Errorf("%w: %w", ErrStorage, err)
}

// domainErrors 已经是领域错误的不再包装
var domainErrors = []error{
	ErrPlanNotFound,
	ErrPlanNameExists,
	ErrPlanInUse,
	ErrInvalidQuota,
	ErrSubscriptionNotFound,
	ErrEndpointNotFound,
	ErrEndpointExists,
	ErrConcurrentUpdate,
	ErrStorage,
}

// translateErr 将 gorm 错误转换为领域错误
func translateErr(err error, notFound, duplicate error) error {
	if err == nil {
		return nil
	}
	for _, domainErr := range domainErrors {
		if errors.Is(err, domainErr) {
			return err
		}
	}
	if notFound != nil && errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound
	}
	if duplicate != nil && errors.Is(err, gorm.ErrDuplicatedKey) {
		return duplicate
	}
	return storageError(err)
}
