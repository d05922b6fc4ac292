package circuits

import (
	"fmt"
	"sync"

	"github.com/consensys/gnark/frontend"
)

// PredicateFunc 自定义谓词的约束构建回调
//
// 回调在电路编译期被调用一次，对已分配的公开/私有变量切片发射约束。
// 回调内不得保存变量引用、不得读取明文见证值。
type PredicateFunc func(api frontend.API, public, private []frontend.Variable) error

// ==================== 谓词注册表 ====================

var (
	predicateMu  sync.RWMutex
	predicateReg = make(map[string]PredicateFunc)
)

// RegisterPredicate 注册自定义谓词构建器
//
// 同一 predicateID 重复注册返回错误而不是静默覆盖：
// 覆盖已分发密钥对应的谓词会破坏证明/验证双方的电路一致性。
func RegisterPredicate(predicateID string, fn PredicateFunc) error {
	if predicateID == "" {
		return fmt.Errorf("predicate id cannot be empty")
	}
	if fn == nil {
		return fmt.Errorf("predicate function cannot be nil: %s", predicateID)
	}

	predicateMu.Lock()
	defer predicateMu.Unlock()

	if _, exists := predicateReg[predicateID]; exists {
		return fmt.Errorf("predicate already registered: %s", predicateID)
	}
	predicateReg[predicateID] = fn
	return nil
}

// lookupPredicate 查找已注册的谓词构建器
func lookupPredicate(predicateID string) (PredicateFunc, bool) {
	predicateMu.RLock()
	defer predicateMu.RUnlock()

	fn, ok := predicateReg[predicateID]
	return fn, ok
}

// ==================== 自定义电路 ====================

// CustomCircuit 自定义谓词电路（扩展点）
//
// 🎯 **设计目标**：为未注册谓词的调用方提供占位电路框架，为已注册谓词
// 提供变长公开/私有输入的通用载体
//
// ⚠️ **安全警告**：未注册谓词时 Define 只发射一条哑元见证约束，
// 不构成任何资格证明的可靠性保证。生产谓词必须先经 RegisterPredicate 注册。
type CustomCircuit struct {
	// 公开输入（验证方可见），数量由调用方声明
	PublicInputs []frontend.Variable `gnark:",public"`

	// 私有输入（隐私保护），数量由调用方声明
	PrivateInputs []frontend.Variable

	// 谓词标识，编译期查表用，不进入约束系统
	PredicateID string `gnark:"-"`
}

// NewCustomCircuit 构造指定形状的自定义电路模板
//
// nbPublic/nbPrivate 是电路线格式的一部分：证明方和验证方必须使用
// 完全相同的形状，否则验证密钥不匹配。
func NewCustomCircuit(predicateID string, nbPublic, nbPrivate int) (*CustomCircuit, error) {
	if nbPublic < 1 {
		return nil, fmt.Errorf("custom circuit requires at least one public input, got %d", nbPublic)
	}
	if nbPrivate < 1 {
		return nil, fmt.Errorf("custom circuit requires at least one private input, got %d", nbPrivate)
	}

	return &CustomCircuit{
		PublicInputs:  make([]frontend.Variable, nbPublic),
		PrivateInputs: make([]frontend.Variable, nbPrivate),
		PredicateID:   predicateID,
	}, nil
}

// Define 定义电路约束
func (circuit *CustomCircuit) Define(api frontend.API) error {
	if fn, ok := lookupPredicate(circuit.PredicateID); ok {
		return fn(api, circuit.PublicInputs, circuit.PrivateInputs)
	}

	// 占位约束：确保首个私有输入参与约束系统（防止空电路编译失败），
	// 不验证任何业务谓词
	witnessSquared := api.Mul(circuit.PrivateInputs[0], circuit.PrivateInputs[0])
	api.AssertIsEqual(witnessSquared, api.Mul(circuit.PrivateInputs[0], circuit.PrivateInputs[0]))

	return nil
}
