package zkproof

import (
	"bytes"
	"context"
	"encoding/hex"

	// 基础设施
	"github.com/zkidchain/v1/pkg/interfaces/infrastructure/crypto"
	"github.com/zkidchain/v1/pkg/interfaces/infrastructure/log"

	// gnark ZK库
	"github.com/consensys/gnark/backend/groth16"
	"github.com/consensys/gnark/frontend"

	"github.com/zkidchain/v1/internal/core/credential/zkproof/circuits"
)

// Validator 凭证证明验证器
//
// 🎯 **专门职责**：验证Groth16证明与公开输入的一致性
// 🏗️ **设计原则**：
// - 验证是纯函数：无副作用、确定性，同样输入永远同样输出
// - "证明无效"返回 (false, nil)，不是错误；错误只用于结构损坏的输入
// - 可选的验证密钥锚定：配置中固定各电路VK哈希，检测密钥替换
type Validator struct {
	logger         log.Logger
	hashManager    crypto.HashManager
	circuitManager *CircuitManager
	config         *ManagerConfig
}

// NewValidator 创建证明验证器
func NewValidator(
	logger log.Logger,
	hashManager crypto.HashManager,
	circuitManager *CircuitManager,
	config *ManagerConfig,
) *Validator {
	return &Validator{
		logger:         logger,
		hashManager:    hashManager,
		circuitManager: circuitManager,
		config:         config,
	}
}

// VerifyProof 验证证明（使用缓存/导入的可信设置中的验证密钥）
//
// 实例只需公开输入；私有字段留空。
// 返回值约定：
//   - (true, nil)  证明有效
//   - (false, nil) 证明格式正确但验证不通过
//   - (false, err) 输入结构损坏（证明字节、密钥、公开输入长度）
func (v *Validator) VerifyProof(ctx context.Context, inst Instance, proofBytes []byte) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	restore := silenceGnarkLogger()
	defer restore()

	_, _, verifyingKey, err := v.circuitManager.trustedSetupFor(inst)
	if err != nil {
		return false, err
	}

	return v.verify(inst, verifyingKey, proofBytes)
}

// VerifyProofWithKey 使用外部提供的验证密钥字节验证证明
func (v *Validator) VerifyProofWithKey(ctx context.Context, inst Instance, vkBytes, proofBytes []byte) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	restore := silenceGnarkLogger()
	defer restore()

	curveID, err := v.circuitManager.resolveCurveID()
	if err != nil {
		return false, err
	}

	verifyingKey, err := DeserializeVerifyingKey(curveID, vkBytes)
	if err != nil {
		return false, err
	}

	return v.verify(inst, verifyingKey, proofBytes)
}

// verify 核心验证路径：锚定检查 → 反序列化证明 → 公开见证 → 配对检查
func (v *Validator) verify(inst Instance, verifyingKey groth16.VerifyingKey, proofBytes []byte) (bool, error) {
	circuitID := inst.CircuitID().String()

	if err := v.checkPinnedVK(inst.CircuitID(), verifyingKey); err != nil {
		return false, err
	}

	curveID, err := v.circuitManager.resolveCurveID()
	if err != nil {
		return false, err
	}

	proof, err := DeserializeProof(curveID, proofBytes)
	if err != nil {
		return false, err
	}

	publicWitness, err := frontend.NewWitness(inst.PublicAssignment(), curveID.ScalarField(), frontend.PublicOnly())
	if err != nil {
		expected := inst.CircuitID().PublicInputCount()
		return false, WrapInvalidPublicInputsError(circuitID, expected, len(inst.PublicFieldBytes()))
	}

	if err := groth16.Verify(proof, verifyingKey, publicWitness); err != nil {
		// 配对检查不通过：证明结构完好但对该组公开输入无效
		v.logger.Debugf("凭证证明验证不通过: circuitID=%s", circuitID)
		return false, nil
	}

	return true, nil
}

// checkPinnedVK 验证密钥锚定检查（未配置锚定哈希时跳过）
func (v *Validator) checkPinnedVK(circuitID circuits.CircuitID, verifyingKey groth16.VerifyingKey) error {
	if v.config == nil || len(v.config.PinnedVKHashes) == 0 {
		return nil
	}

	pinnedHex, exists := v.config.PinnedVKHashes[circuitID.String()]
	if !exists {
		return nil
	}

	pinned, err := hex.DecodeString(pinnedHex)
	if err != nil {
		return WrapCorruptArtifactError("pinned_vk_hash", circuitID.String(), err)
	}

	actual, err := VerifyingKeyHash(v.hashManager, verifyingKey)
	if err != nil {
		return err
	}

	if !bytes.Equal(pinned, actual) {
		return WrapVerifyingKeyMismatchError(circuitID.String())
	}
	return nil
}
