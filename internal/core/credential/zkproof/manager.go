package zkproof

import (
	"context"

	// 公共接口依赖
	"github.com/zkidchain/v1/pkg/interfaces/infrastructure/crypto"
	"github.com/zkidchain/v1/pkg/interfaces/infrastructure/log"
)

// Manager 凭证证明引擎管理器
//
// 🎯 **设计理念**：薄实现，专注依赖注入和接口协调
// 🏗️ **架构原则**：Manager只做依赖管理，业务逻辑委托给子组件
type Manager struct {
	// ==================== 密码学服务 ====================
	hashManager crypto.HashManager // 哈希计算服务

	// ==================== 基础设施服务 ====================
	logger log.Logger // 日志服务

	// ==================== 专门的子组件 ====================
	prover         *Prover         // 证明生成器
	validator      *Validator      // 证明验证器
	circuitManager *CircuitManager // 电路管理器

	// ==================== 配置参数 ====================
	config *ManagerConfig
}

// ManagerConfig 证明引擎配置
type ManagerConfig struct {
	// 证明方案配置
	DefaultProvingScheme string // 默认证明方案（当前仅 groth16）
	DefaultCurve         string // 默认椭圆曲线 (bn254, bls12-381, bls12-377)

	// 性能配置
	MaxConcurrentProofs int // 最大并发证明数（上层工作池使用）
	ProofTimeoutSeconds int // 证明超时时间

	// 密钥锚定配置：circuitID → 验证密钥SHA-256哈希（hex编码）
	// 留空表示不做锚定检查
	PinnedVKHashes map[string]string

	// 存储配置
	TrustedSetupPath string // 离线可信设置工件目录（zkkeygen产物）
}

// DefaultManagerConfig 返回默认配置
func DefaultManagerConfig() *ManagerConfig {
	return &ManagerConfig{
		DefaultProvingScheme: "groth16",
		DefaultCurve:         "bn254",
		MaxConcurrentProofs:  4,
		ProofTimeoutSeconds:  300,
		PinnedVKHashes:       make(map[string]string),
		TrustedSetupPath:     "/var/zkid/trusted_setup",
	}
}

// NewManager 创建凭证证明引擎管理器
//
// 🎯 **依赖注入模式**：通过构造函数注入所有依赖
// 🏗️ **初始化顺序**：基础服务 → 配置 → 子组件 → 组装Manager
func NewManager(
	hashManager crypto.HashManager,
	logger log.Logger,
	config *ManagerConfig,
) *Manager {
	if config == nil {
		config = DefaultManagerConfig()
	}

	// 创建专门的子组件
	circuitManager := NewCircuitManager(logger, config)
	prover := NewProver(logger, hashManager, circuitManager, config)
	validator := NewValidator(logger, hashManager, circuitManager, config)

	return &Manager{
		hashManager:    hashManager,
		logger:         logger,
		prover:         prover,
		validator:      validator,
		circuitManager: circuitManager,
		config:         config,
	}
}

// Prover 返回证明生成器
func (m *Manager) Prover() *Prover {
	return m.prover
}

// Validator 返回证明验证器
func (m *Manager) Validator() *Validator {
	return m.validator
}

// CircuitManager 返回电路管理器
func (m *Manager) CircuitManager() *CircuitManager {
	return m.circuitManager
}

// Config 返回引擎配置
func (m *Manager) Config() *ManagerConfig {
	return m.config
}

// GenerateProof 生成证明（委托给Prover）
func (m *Manager) GenerateProof(ctx context.Context, inst Instance) (*ProofResult, error) {
	if m.prover == nil {
		return nil, ErrProverNotInitialized
	}
	return m.prover.GenerateProof(ctx, inst)
}

// VerifyProof 验证证明（委托给Validator）
func (m *Manager) VerifyProof(ctx context.Context, inst Instance, proofBytes []byte) (bool, error) {
	if m.validator == nil {
		return false, ErrVerifierNotInitialized
	}
	return m.validator.VerifyProof(ctx, inst, proofBytes)
}
