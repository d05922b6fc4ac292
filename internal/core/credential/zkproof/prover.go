package zkproof

import (
	"context"
	"io"
	"time"

	// 基础设施
	"github.com/zkidchain/v1/pkg/interfaces/infrastructure/crypto"
	"github.com/zkidchain/v1/pkg/interfaces/infrastructure/log"

	// gnark ZK库
	"github.com/consensys/gnark/backend/groth16"
	"github.com/consensys/gnark/constraint"
	"github.com/consensys/gnark/frontend"
	gnarklogger "github.com/consensys/gnark/logger"

	// zerolog for gnark logger
	"github.com/rs/zerolog"
)

// ProofResult 证明生成结果
type ProofResult struct {
	CircuitID        string   // 电路标识
	ProofData        []byte   // 压缩序列化的证明
	PublicInputs     [][]byte // 公开输入的规范32字节编码（顺序即契约）
	VKHash           []byte   // 验证密钥SHA-256哈希（外部密钥路径下为nil）
	ConstraintCount  uint64   // 电路约束数量
	GenerationTimeMs uint64   // 证明生成耗时（毫秒）
	ProofSizeBytes   uint64   // 证明大小（字节）
}

// Prover 凭证证明生成器
//
// 🎯 **专门职责**：消费一次性电路实例，生成Groth16证明
// 🏗️ **技术栈**：基于gnark库实现Groth16证明方案
//
// ⚠️ **隐私约束**：
// - 实例的私有见证在证明结束后（含错误路径）被主动清零
// - 证明失败的错误与日志不携带约束求解细节，防止错误通道泄露私有事实
type Prover struct {
	logger         log.Logger
	hashManager    crypto.HashManager
	circuitManager *CircuitManager
	config         *ManagerConfig
}

// NewProver 创建证明生成器
func NewProver(
	logger log.Logger,
	hashManager crypto.HashManager,
	circuitManager *CircuitManager,
	config *ManagerConfig,
) *Prover {
	return &Prover{
		logger:         logger,
		hashManager:    hashManager,
		circuitManager: circuitManager,
		config:         config,
	}
}

// GenerateProof 生成零知识证明（使用缓存/导入的可信设置）
//
// 实例被消费恰好一次，返回前其私有见证已清零。
func (p *Prover) GenerateProof(ctx context.Context, inst Instance) (*ProofResult, error) {
	defer inst.Zeroize()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	circuitID := inst.CircuitID().String()
	startTime := time.Now()
	p.logger.Debugf("开始生成凭证证明: circuitID=%s", circuitID)

	restore := silenceGnarkLogger()
	defer restore()

	compiledCircuit, provingKey, verifyingKey, err := p.circuitManager.trustedSetupFor(inst)
	if err != nil {
		return nil, err
	}

	proofBytes, err := p.prove(ctx, inst, compiledCircuit, provingKey)
	if err != nil {
		return nil, err
	}

	vkHash, err := VerifyingKeyHash(p.hashManager, verifyingKey)
	if err != nil {
		return nil, err
	}

	generationTime := time.Since(startTime)
	p.logger.Debugf("凭证证明生成完成: circuitID=%s, 耗时=%v, 大小=%d字节", circuitID, generationTime, len(proofBytes))

	return &ProofResult{
		CircuitID:        circuitID,
		ProofData:        proofBytes,
		PublicInputs:     inst.PublicFieldBytes(),
		VKHash:           vkHash,
		ConstraintCount:  uint64(compiledCircuit.GetNbConstraints()),
		GenerationTimeMs: uint64(generationTime.Milliseconds()),
		ProofSizeBytes:   uint64(len(proofBytes)),
	}, nil
}

// GenerateProofWithProvingKey 使用外部提供的证明密钥生成证明
//
// 跨进程调用方（移动端宿主）持有离线分发的密钥字节时走此路径，
// 进程内不运行Setup、不产生新密钥。
func (p *Prover) GenerateProofWithProvingKey(ctx context.Context, inst Instance, pkBytes []byte) (*ProofResult, error) {
	defer inst.Zeroize()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	circuitID := inst.CircuitID().String()
	startTime := time.Now()

	restore := silenceGnarkLogger()
	defer restore()

	curveID, err := p.circuitManager.resolveCurveID()
	if err != nil {
		return nil, err
	}

	provingKey, err := DeserializeProvingKey(curveID, pkBytes)
	if err != nil {
		return nil, err
	}

	compiledCircuit, err := p.circuitManager.compiledFor(inst)
	if err != nil {
		return nil, err
	}

	proofBytes, err := p.prove(ctx, inst, compiledCircuit, provingKey)
	if err != nil {
		return nil, err
	}

	generationTime := time.Since(startTime)
	p.logger.Debugf("凭证证明生成完成（外部密钥）: circuitID=%s, 耗时=%v", circuitID, generationTime)

	return &ProofResult{
		CircuitID:        circuitID,
		ProofData:        proofBytes,
		PublicInputs:     inst.PublicFieldBytes(),
		ConstraintCount:  uint64(compiledCircuit.GetNbConstraints()),
		GenerationTimeMs: uint64(generationTime.Milliseconds()),
		ProofSizeBytes:   uint64(len(proofBytes)),
	}, nil
}

// prove 核心证明路径：构建见证 → Groth16证明 → 序列化
func (p *Prover) prove(ctx context.Context, inst Instance, compiledCircuit constraint.ConstraintSystem, provingKey groth16.ProvingKey) ([]byte, error) {
	circuitID := inst.CircuitID().String()

	assignment, err := inst.Assignment()
	if err != nil {
		return nil, err
	}

	curveID, err := p.circuitManager.resolveCurveID()
	if err != nil {
		return nil, err
	}

	fullWitness, err := frontend.NewWitness(assignment, curveID.ScalarField())
	if err != nil {
		// 见证分配失败是本地错误（缺字段/类型不符），与谓词失败区分
		return nil, WrapInvalidWitnessError(circuitID, "witness allocation failed")
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	proof, err := groth16.Prove(compiledCircuit, provingKey, fullWitness)
	if err != nil {
		// ⚠️ 不透传底层错误：约束求解失败的细节会泄露私有见证信息
		p.logger.Debugf("凭证证明生成失败: circuitID=%s", circuitID)
		return nil, WrapProofGenerationFailedError(circuitID)
	}

	return SerializeProof(proof)
}

// silenceGnarkLogger 执行期间禁用gnark库的日志输出
//
// gnark使用zerolog输出大量编译/求解调试信息，会污染结构化日志，
// 更重要的是求解器日志可能包含见证相关内容。
func silenceGnarkLogger() func() {
	oldGnarkLogger := gnarklogger.Logger()
	discardLogger := zerolog.New(io.Discard).Level(zerolog.Disabled)
	gnarklogger.Set(discardLogger)
	return func() {
		gnarklogger.Set(oldGnarkLogger)
	}
}

// ==================== 类型化入口 ====================

// GenerateAgeProof 生成年龄验证证明（调用方的私有输入随之清零）
func (p *Prover) GenerateAgeProof(ctx context.Context, pub *AgePublicInputs, priv *AgePrivateInputs) (*ProofResult, error) {
	defer priv.Zeroize()
	return p.GenerateProof(ctx, &AgeInstance{Public: *pub, Private: *priv})
}

// GenerateStudentProof 生成学生状态证明（调用方的私有输入随之清零）
func (p *Prover) GenerateStudentProof(ctx context.Context, pub *StudentPublicInputs, priv *StudentPrivateInputs) (*ProofResult, error) {
	defer priv.Zeroize()
	return p.GenerateProof(ctx, &StudentInstance{Public: *pub, Private: *priv})
}

// GenerateVaccinationProof 生成疫苗接种状态证明（调用方的私有输入随之清零）
func (p *Prover) GenerateVaccinationProof(ctx context.Context, pub *VaccinationPublicInputs, priv *VaccinationPrivateInputs) (*ProofResult, error) {
	defer priv.Zeroize()
	return p.GenerateProof(ctx, &VaccinationInstance{Public: *pub, Private: *priv})
}

// GenerateEmploymentProof 生成雇佣状态证明（调用方的私有输入随之清零）
func (p *Prover) GenerateEmploymentProof(ctx context.Context, pub *EmploymentPublicInputs, priv *EmploymentPrivateInputs) (*ProofResult, error) {
	defer priv.Zeroize()
	return p.GenerateProof(ctx, &EmploymentInstance{Public: *pub, Private: *priv})
}

// GenerateCustomProof 生成自定义谓词证明（调用方的私有输入随之清零）
func (p *Prover) GenerateCustomProof(ctx context.Context, pub *CustomPublicInputs, priv *CustomPrivateInputs) (*ProofResult, error) {
	defer priv.Zeroize()
	return p.GenerateProof(ctx, &CustomInstance{Public: *pub, Private: *priv})
}
