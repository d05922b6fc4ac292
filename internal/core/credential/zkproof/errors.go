// Package zkproof provides error definitions for credential proof operations.
package zkproof

import (
	"errors"
	"fmt"
)

// ============================================================================
//                            零知识证明错误定义
// ============================================================================
//
// 错误分类（调用方据此决定处理策略）：
// - 输入错误：请求格式/长度/电路标识问题，密码学计算开始前即拒绝
// - 见证不可满足：私有事实不满足谓词，对外只报告"未产生证明"
// - 密码学/结构错误：密钥或证明字节损坏，属存储工件完整性问题
//
// ⚠️ **隐私约束**：见证不可满足错误的消息中永远不包含具体失败的约束信息，
// 防止错误通道泄露私有见证的部分信息。

var (
	// ErrCircuitNotFound 电路未找到错误
	ErrCircuitNotFound = errors.New("circuit not found")

	// ErrCircuitCompilationFailed 电路编译失败错误
	ErrCircuitCompilationFailed = errors.New("circuit compilation failed")

	// ErrSetupFailed 可信设置失败错误
	ErrSetupFailed = errors.New("trusted setup failed")

	// ErrProofGenerationFailed 证明生成失败错误（含见证不可满足的情形）
	ErrProofGenerationFailed = errors.New("proof generation failed")

	// ErrProofVerificationFailed 证明验证过程出错（区别于"验证结果为假"）
	ErrProofVerificationFailed = errors.New("proof verification failed")

	// ErrInvalidWitness 见证构建失败错误（缺字段、类型不符等本地分配问题）
	ErrInvalidWitness = errors.New("invalid witness")

	// ErrInvalidPublicInputs 无效公开输入错误
	ErrInvalidPublicInputs = errors.New("invalid public inputs")

	// ErrCorruptArtifact 密钥/证明字节损坏错误（数据完整性问题）
	ErrCorruptArtifact = errors.New("corrupt cryptographic artifact")

	// ErrUnsupportedCircuitType 不支持的电路类型错误
	ErrUnsupportedCircuitType = errors.New("unsupported circuit type")

	// ErrVerifyingKeyMismatch 验证密钥与锚定哈希不符错误
	ErrVerifyingKeyMismatch = errors.New("verifying key mismatch")

	// ErrProverNotInitialized 证明器未初始化错误
	ErrProverNotInitialized = errors.New("prover not initialized")

	// ErrVerifierNotInitialized 验证器未初始化错误
	ErrVerifierNotInitialized = errors.New("verifier not initialized")
)

// ============================================================================
//                               错误包装函数
// ============================================================================

// WrapCircuitNotFoundError 包装电路未找到错误
func WrapCircuitNotFoundError(circuitID string) error {
	return fmt.Errorf("%w: circuitID=%s", ErrCircuitNotFound, circuitID)
}

// WrapCircuitCompilationFailedError 包装电路编译失败错误
func WrapCircuitCompilationFailedError(circuitID string, err error) error {
	return fmt.Errorf("%w: circuitID=%s, cause=%v", ErrCircuitCompilationFailed, circuitID, err)
}

// WrapSetupFailedError 包装可信设置失败错误
func WrapSetupFailedError(circuitID string, err error) error {
	return fmt.Errorf("%w: circuitID=%s, cause=%v", ErrSetupFailed, circuitID, err)
}

// WrapProofGenerationFailedError 包装证明生成失败错误
//
// ⚠️ 刻意不携带底层 cause：约束求解失败的细节会泄露私有见证信息。
// 调用方只能得知"该电路未能产生证明"。
func WrapProofGenerationFailedError(circuitID string) error {
	return fmt.Errorf("%w: circuitID=%s", ErrProofGenerationFailed, circuitID)
}

// WrapProofVerificationFailedError 包装证明验证过程错误
func WrapProofVerificationFailedError(circuitID string, err error) error {
	return fmt.Errorf("%w: circuitID=%s, cause=%v", ErrProofVerificationFailed, circuitID, err)
}

// WrapInvalidWitnessError 包装见证构建失败错误
//
// reason 只描述分配层面的问题（缺字段、数量不符），不包含见证值本身。
func WrapInvalidWitnessError(circuitID, reason string) error {
	return fmt.Errorf("%w: circuitID=%s, reason=%s", ErrInvalidWitness, circuitID, reason)
}

// WrapInvalidPublicInputsError 包装无效公开输入错误
func WrapInvalidPublicInputsError(circuitID string, expected, actual int) error {
	return fmt.Errorf("%w: circuitID=%s, expected=%d, actual=%d", ErrInvalidPublicInputs, circuitID, expected, actual)
}

// WrapCorruptArtifactError 包装密码学工件损坏错误
func WrapCorruptArtifactError(artifact, circuitID string, err error) error {
	return fmt.Errorf("%w: artifact=%s, circuitID=%s, cause=%v", ErrCorruptArtifact, artifact, circuitID, err)
}

// WrapUnsupportedCircuitTypeError 包装不支持的电路类型错误
func WrapUnsupportedCircuitTypeError(circuitType string) error {
	return fmt.Errorf("%w: type=%s", ErrUnsupportedCircuitType, circuitType)
}

// WrapVerifyingKeyMismatchError 包装验证密钥锚定失败错误
func WrapVerifyingKeyMismatchError(circuitID string) error {
	return fmt.Errorf("%w: circuitID=%s", ErrVerifyingKeyMismatch, circuitID)
}
