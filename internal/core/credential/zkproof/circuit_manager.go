package zkproof

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	// 基础设施
	"github.com/zkidchain/v1/pkg/interfaces/infrastructure/log"

	// gnark ZK库
	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark/backend/groth16"
	"github.com/consensys/gnark/constraint"
	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/frontend/cs/r1cs"

	"github.com/zkidchain/v1/internal/core/credential/zkproof/circuits"
)

// CircuitManager 电路管理器
//
// 🎯 **专门职责**：负责电路模板的创建、编译与可信设置的缓存
// 🏗️ **设计原则**：
// - 可信设置按电路类型运行一次并缓存，绝不按请求运行
// - 自定义电路按（谓词ID+形状）独立缓存，形状不同即不同电路
type CircuitManager struct {
	logger log.Logger
	config *ManagerConfig

	// Trusted setup 缓存（proving/verifying key & 已编译电路）
	setupCache map[string]*trustedSetupEntry
	setupMutex sync.RWMutex

	// 仅编译缓存（外部提供密钥时不运行Setup）
	compileCache map[string]constraint.ConstraintSystem
	compileMutex sync.RWMutex
}

type trustedSetupEntry struct {
	compiled     constraint.ConstraintSystem
	provingKey   groth16.ProvingKey
	verifyingKey groth16.VerifyingKey
}

// NewCircuitManager 创建电路管理器
func NewCircuitManager(logger log.Logger, config *ManagerConfig) *CircuitManager {
	return &CircuitManager{
		logger:       logger,
		config:       config,
		setupCache:   make(map[string]*trustedSetupEntry),
		compileCache: make(map[string]constraint.ConstraintSystem),
	}
}

// trustedSetupFor 返回电路实例对应的可信设置（按实例的缓存键分发）
func (cm *CircuitManager) trustedSetupFor(inst Instance) (constraint.ConstraintSystem, groth16.ProvingKey, groth16.VerifyingKey, error) {
	template, err := inst.Template()
	if err != nil {
		return nil, nil, nil, WrapUnsupportedCircuitTypeError(err.Error())
	}
	return cm.getOrCreateSetup(cm.cacheKey(inst.setupKey()), inst.CircuitID().String(), template)
}

// compiledFor 返回电路实例对应的已编译约束系统（不触发Setup）
//
// 调用方自带离线生成的密钥时走此路径，避免进程内产生新密钥。
func (cm *CircuitManager) compiledFor(inst Instance) (constraint.ConstraintSystem, error) {
	cacheKey := cm.cacheKey(inst.setupKey())

	cm.compileMutex.RLock()
	if cs, exists := cm.compileCache[cacheKey]; exists {
		cm.compileMutex.RUnlock()
		return cs, nil
	}
	cm.compileMutex.RUnlock()

	// 已有完整setup缓存时直接借用其编译结果
	cm.setupMutex.RLock()
	if entry, exists := cm.setupCache[cacheKey]; exists {
		cm.setupMutex.RUnlock()
		return entry.compiled, nil
	}
	cm.setupMutex.RUnlock()

	template, err := inst.Template()
	if err != nil {
		return nil, WrapUnsupportedCircuitTypeError(err.Error())
	}

	curveID, err := cm.resolveCurveID()
	if err != nil {
		return nil, err
	}

	compiledCircuit, err := frontend.Compile(curveID.ScalarField(), r1cs.NewBuilder, template)
	if err != nil {
		return nil, WrapCircuitCompilationFailedError(inst.CircuitID().String(), err)
	}

	cm.compileMutex.Lock()
	cm.compileCache[cacheKey] = compiledCircuit
	cm.compileMutex.Unlock()

	return compiledCircuit, nil
}

// GetTrustedSetup 返回指定电路的可信设置（编译电路、ProvingKey、VerifyingKey）
//
// 首次调用触发编译+Setup（使用密码学安全随机源），后续命中缓存。
// ⚠️ 生产部署应通过 ImportTrustedSetup 注入离线生成的密钥，
// 进程内Setup仅用于开发与测试。
func (cm *CircuitManager) GetTrustedSetup(circuitID circuits.CircuitID) (constraint.ConstraintSystem, groth16.ProvingKey, groth16.VerifyingKey, error) {
	if circuitID == circuits.CustomID {
		return nil, nil, nil, WrapUnsupportedCircuitTypeError("custom circuit requires explicit shape, use GetCustomTrustedSetup")
	}

	template, err := circuits.NewTemplate(circuitID)
	if err != nil {
		return nil, nil, nil, WrapCircuitNotFoundError(circuitID.String())
	}

	return cm.getOrCreateSetup(cm.cacheKey(circuitID.String()), circuitID.String(), template)
}

// GetCustomTrustedSetup 返回自定义谓词电路的可信设置
//
// 形状（公开/私有输入个数）是缓存键的一部分：同一谓词不同形状
// 是不同的电路，各自拥有独立的密钥对。
func (cm *CircuitManager) GetCustomTrustedSetup(predicateID string, nbPublic, nbPrivate int) (constraint.ConstraintSystem, groth16.ProvingKey, groth16.VerifyingKey, error) {
	template, err := circuits.NewCustomCircuit(predicateID, nbPublic, nbPrivate)
	if err != nil {
		return nil, nil, nil, WrapUnsupportedCircuitTypeError(err.Error())
	}

	key := cm.cacheKey(fmt.Sprintf("custom:%s:%d:%d", predicateID, nbPublic, nbPrivate))
	return cm.getOrCreateSetup(key, circuits.CustomID.String(), template)
}

// ImportTrustedSetup 注入离线生成的可信设置（生产路径）
//
// 密钥由 zkkeygen 工具离线生成后分发，进程启动时导入，
// 避免每个实例各自运行Setup导致密钥不一致。
func (cm *CircuitManager) ImportTrustedSetup(circuitID circuits.CircuitID, compiled constraint.ConstraintSystem, pk groth16.ProvingKey, vk groth16.VerifyingKey) error {
	if !circuitID.IsValid() {
		return WrapCircuitNotFoundError(circuitID.String())
	}
	if compiled == nil || pk == nil || vk == nil {
		return WrapInvalidWitnessError(circuitID.String(), "trusted setup components cannot be nil")
	}

	cm.setupMutex.Lock()
	defer cm.setupMutex.Unlock()

	cm.setupCache[cm.cacheKey(circuitID.String())] = &trustedSetupEntry{
		compiled:     compiled,
		provingKey:   pk,
		verifyingKey: vk,
	}

	cm.logger.Infof("可信设置导入成功: circuitID=%s", circuitID)
	return nil
}

// LoadPersistedSetups 从目录加载持久化的可信设置
//
// 目录布局与 zkkeygen 工具的输出一致：<circuit_id>.pk / <circuit_id>.vk。
// 缺失密钥文件的电路跳过（首次证明时回退到进程内Setup），
// 文件存在但无法解析视为损坏并返回错误。
// 返回成功导入的电路数量。
func (cm *CircuitManager) LoadPersistedSetups(dir string) (int, error) {
	curveID, err := cm.resolveCurveID()
	if err != nil {
		return 0, err
	}

	loaded := 0
	for _, circuitID := range circuits.AllCircuitIDs() {
		if circuitID == circuits.CustomID {
			continue
		}

		pkPath := filepath.Join(dir, circuitID.String()+".pk")
		vkPath := filepath.Join(dir, circuitID.String()+".vk")

		pkBytes, err := os.ReadFile(pkPath)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return loaded, WrapCorruptArtifactError("proving key file", circuitID.String(), err)
		}
		vkBytes, err := os.ReadFile(vkPath)
		if err != nil {
			return loaded, WrapCorruptArtifactError("verifying key file", circuitID.String(), err)
		}

		pk, err := DeserializeProvingKey(curveID, pkBytes)
		if err != nil {
			return loaded, err
		}
		vk, err := DeserializeVerifyingKey(curveID, vkBytes)
		if err != nil {
			return loaded, err
		}

		template, err := circuits.NewTemplate(circuitID)
		if err != nil {
			return loaded, WrapCircuitNotFoundError(circuitID.String())
		}
		compiledCircuit, err := frontend.Compile(curveID.ScalarField(), r1cs.NewBuilder, template)
		if err != nil {
			return loaded, WrapCircuitCompilationFailedError(circuitID.String(), err)
		}

		if err := cm.ImportTrustedSetup(circuitID, compiledCircuit, pk, vk); err != nil {
			return loaded, err
		}
		loaded++
	}

	return loaded, nil
}

// IsSetupCached 检查电路的可信设置是否已缓存
func (cm *CircuitManager) IsSetupCached(circuitID circuits.CircuitID) bool {
	cm.setupMutex.RLock()
	defer cm.setupMutex.RUnlock()

	_, exists := cm.setupCache[cm.cacheKey(circuitID.String())]
	return exists
}

func (cm *CircuitManager) getOrCreateSetup(cacheKey, circuitID string, template frontend.Circuit) (constraint.ConstraintSystem, groth16.ProvingKey, groth16.VerifyingKey, error) {
	cm.setupMutex.RLock()
	if entry, exists := cm.setupCache[cacheKey]; exists {
		cm.setupMutex.RUnlock()
		return entry.compiled, entry.provingKey, entry.verifyingKey, nil
	}
	cm.setupMutex.RUnlock()

	curveID, err := cm.resolveCurveID()
	if err != nil {
		return nil, nil, nil, err
	}

	compiledCircuit, err := frontend.Compile(curveID.ScalarField(), r1cs.NewBuilder, template)
	if err != nil {
		return nil, nil, nil, WrapCircuitCompilationFailedError(circuitID, err)
	}

	provingKey, verifyingKey, err := groth16.Setup(compiledCircuit)
	if err != nil {
		return nil, nil, nil, WrapSetupFailedError(circuitID, err)
	}

	cm.setupMutex.Lock()
	// 并发首调可能重复编译，后写覆盖等价结果，无正确性影响
	cm.setupCache[cacheKey] = &trustedSetupEntry{
		compiled:     compiledCircuit,
		provingKey:   provingKey,
		verifyingKey: verifyingKey,
	}
	cm.setupMutex.Unlock()

	cm.logger.Debugf("电路编译与可信设置完成并缓存: %s, constraints=%d", cacheKey, compiledCircuit.GetNbConstraints())

	return compiledCircuit, provingKey, verifyingKey, nil
}

func (cm *CircuitManager) cacheKey(base string) string {
	curveID, err := cm.resolveCurveID()
	if err != nil {
		curveID = ecc.BN254
	}
	return fmt.Sprintf("%s:%s", base, curveID.String())
}

func (cm *CircuitManager) resolveCurveID() (ecc.ID, error) {
	if cm.config == nil || cm.config.DefaultCurve == "" {
		return ecc.BN254, nil
	}

	switch cm.config.DefaultCurve {
	case "bn254":
		return ecc.BN254, nil
	case "bls12-381":
		return ecc.BLS12_381, nil
	case "bls12-377":
		return ecc.BLS12_377, nil
	default:
		return 0, fmt.Errorf("不支持的椭圆曲线: %s", cm.config.DefaultCurve)
	}
}
