// Package disclosure provides error definitions for selective disclosure binding.
package disclosure

import (
	"errors"
	"fmt"
)

// ============================================================================
//                          选择性披露错误定义
// ============================================================================
//
// 重放/绑定类错误与证明引擎的错误分类严格区分：
// 调用方对二者的正确响应不同（换新证明重试 vs 中止）。

var (
	// ErrCredentialRevoked 凭证非激活状态错误
	ErrCredentialRevoked = errors.New("credential is not active")

	// ErrNoFieldsToReveal 未指定披露字段错误
	ErrNoFieldsToReveal = errors.New("no fields to reveal")

	// ErrTooManyFields 披露字段数超限错误
	ErrTooManyFields = errors.New("too many fields requested")

	// ErrInvalidFieldIndices 字段索引越界或重复错误
	ErrInvalidFieldIndices = errors.New("invalid field indices")

	// ErrSchemaNotFound 凭证类型无对应模式错误
	ErrSchemaNotFound = errors.New("schema not found for credential type")

	// ErrReplayDetected 披露承诺重放错误
	ErrReplayDetected = errors.New("disclosure already recorded")

	// ErrStaleDisclosure 披露时间戳超出新鲜度窗口错误
	ErrStaleDisclosure = errors.New("disclosure timestamp outside freshness window")

	// ErrEmptyProof 证明字节为空错误
	ErrEmptyProof = errors.New("proof bytes cannot be empty")

	// ErrBitmapIndexTooLarge 字段索引超出位图容量错误
	ErrBitmapIndexTooLarge = errors.New("field index exceeds bitmap capacity")
)

// WrapTooManyFieldsError 包装披露字段数超限错误
func WrapTooManyFieldsError(requested, max int) error {
	return fmt.Errorf("%w: requested=%d, max=%d", ErrTooManyFields, requested, max)
}

// WrapInvalidFieldIndicesError 包装字段索引错误
func WrapInvalidFieldIndicesError(reason string) error {
	return fmt.Errorf("%w: %s", ErrInvalidFieldIndices, reason)
}

// WrapSchemaNotFoundError 包装模式未找到错误
func WrapSchemaNotFoundError(credentialType string) error {
	return fmt.Errorf("%w: type=%s", ErrSchemaNotFound, credentialType)
}

// WrapStaleDisclosureError 包装新鲜度窗口错误
func WrapStaleDisclosureError(ageSeconds, windowSeconds uint64) error {
	return fmt.Errorf("%w: age=%ds, window=%ds", ErrStaleDisclosure, ageSeconds, windowSeconds)
}

// WrapBitmapIndexTooLargeError 包装位图索引错误
func WrapBitmapIndexTooLargeError(index uint32) error {
	return fmt.Errorf("%w: index=%d", ErrBitmapIndexTooLarge, index)
}
