// ============================================================================
// 电路实例（封闭变体类型）
// ============================================================================
//
// 🎯 **专门职责**：
// 将"电路类型 + 类型化公开输入 + 类型化私有见证"封装为一次性消费的
// 电路实例。五种电路各自实现 Instance 接口，构成封闭的变体集合；
// 证明器与验证器只面向该接口分发，不感知具体电路字段。
//
// 📋 **生命周期**：每次证明请求构造一个新实例，被证明消费恰好一次，
// 之后必须调用 Zeroize 清除私有明文，不得复用。
//
// ============================================================================
package zkproof

import (
	"fmt"

	"github.com/consensys/gnark/frontend"

	"github.com/zkidchain/v1/internal/core/credential/zkproof/circuits"
)

// Instance 一次性电路实例
type Instance interface {
	// CircuitID 返回电路类型标识
	CircuitID() circuits.CircuitID

	// Template 返回空白电路模板（用于编译与可信设置）
	Template() (frontend.Circuit, error)

	// Assignment 返回完整见证赋值（公开+私有，证明方使用）
	Assignment() (frontend.Circuit, error)

	// PublicAssignment 返回仅含公开输入的赋值（验证方使用）
	PublicAssignment() frontend.Circuit

	// PublicFieldBytes 返回公开输入的规范32字节编码序列（顺序即契约）
	PublicFieldBytes() [][]byte

	// Zeroize 清零私有见证明文
	Zeroize()

	// setupKey 可信设置缓存键基底（封闭变体，不对外扩展）
	setupKey() string
}

// ==================== 年龄验证实例 ====================

// AgeInstance 年龄验证电路实例
type AgeInstance struct {
	Public  AgePublicInputs
	Private AgePrivateInputs
}

func (i *AgeInstance) CircuitID() circuits.CircuitID { return circuits.AgeVerificationID }

func (i *AgeInstance) Template() (frontend.Circuit, error) {
	return &circuits.AgeVerificationCircuit{}, nil
}

func (i *AgeInstance) Assignment() (frontend.Circuit, error) {
	return newAgeAssignment(&i.Public, &i.Private), nil
}

func (i *AgeInstance) PublicAssignment() frontend.Circuit {
	return newAgePublicAssignment(&i.Public)
}

func (i *AgeInstance) PublicFieldBytes() [][]byte { return i.Public.FieldBytes() }

func (i *AgeInstance) Zeroize() { i.Private.Zeroize() }

func (i *AgeInstance) setupKey() string { return i.CircuitID().String() }

// ==================== 学生状态实例 ====================

// StudentInstance 学生状态电路实例
type StudentInstance struct {
	Public  StudentPublicInputs
	Private StudentPrivateInputs
}

func (i *StudentInstance) CircuitID() circuits.CircuitID { return circuits.StudentStatusID }

func (i *StudentInstance) Template() (frontend.Circuit, error) {
	return &circuits.StudentStatusCircuit{}, nil
}

func (i *StudentInstance) Assignment() (frontend.Circuit, error) {
	return newStudentAssignment(&i.Public, &i.Private), nil
}

func (i *StudentInstance) PublicAssignment() frontend.Circuit {
	return newStudentPublicAssignment(&i.Public)
}

func (i *StudentInstance) PublicFieldBytes() [][]byte { return i.Public.FieldBytes() }

func (i *StudentInstance) Zeroize() { i.Private.Zeroize() }

func (i *StudentInstance) setupKey() string { return i.CircuitID().String() }

// ==================== 疫苗接种状态实例 ====================

// VaccinationInstance 疫苗接种状态电路实例
type VaccinationInstance struct {
	Public  VaccinationPublicInputs
	Private VaccinationPrivateInputs
}

func (i *VaccinationInstance) CircuitID() circuits.CircuitID { return circuits.VaccinationStatusID }

func (i *VaccinationInstance) Template() (frontend.Circuit, error) {
	return &circuits.VaccinationStatusCircuit{}, nil
}

func (i *VaccinationInstance) Assignment() (frontend.Circuit, error) {
	return newVaccinationAssignment(&i.Public, &i.Private), nil
}

func (i *VaccinationInstance) PublicAssignment() frontend.Circuit {
	return newVaccinationPublicAssignment(&i.Public)
}

func (i *VaccinationInstance) PublicFieldBytes() [][]byte { return i.Public.FieldBytes() }

func (i *VaccinationInstance) Zeroize() { i.Private.Zeroize() }

func (i *VaccinationInstance) setupKey() string { return i.CircuitID().String() }

// ==================== 雇佣状态实例 ====================

// EmploymentInstance 雇佣状态电路实例
type EmploymentInstance struct {
	Public  EmploymentPublicInputs
	Private EmploymentPrivateInputs
}

func (i *EmploymentInstance) CircuitID() circuits.CircuitID { return circuits.EmploymentStatusID }

func (i *EmploymentInstance) Template() (frontend.Circuit, error) {
	return &circuits.EmploymentStatusCircuit{}, nil
}

func (i *EmploymentInstance) Assignment() (frontend.Circuit, error) {
	return newEmploymentAssignment(&i.Public, &i.Private), nil
}

func (i *EmploymentInstance) PublicAssignment() frontend.Circuit {
	return newEmploymentPublicAssignment(&i.Public)
}

func (i *EmploymentInstance) PublicFieldBytes() [][]byte { return i.Public.FieldBytes() }

func (i *EmploymentInstance) Zeroize() { i.Private.Zeroize() }

func (i *EmploymentInstance) setupKey() string { return i.CircuitID().String() }

// ==================== 自定义谓词实例 ====================

// CustomInstance 自定义谓词电路实例
//
// NbPrivate 记录电路形状的私有侧，验证方构造实例时没有私有值，
// 仍需该数量来匹配线格式。
type CustomInstance struct {
	Public    CustomPublicInputs
	Private   CustomPrivateInputs
	NbPrivate int
}

func (i *CustomInstance) CircuitID() circuits.CircuitID { return circuits.CustomID }

func (i *CustomInstance) nbPrivate() int {
	if len(i.Private.Values) > 0 {
		return len(i.Private.Values)
	}
	return i.NbPrivate
}

func (i *CustomInstance) Template() (frontend.Circuit, error) {
	return circuits.NewCustomCircuit(i.Public.PredicateID, len(i.Public.Values), i.nbPrivate())
}

func (i *CustomInstance) Assignment() (frontend.Circuit, error) {
	if len(i.Private.Values) == 0 {
		return nil, WrapInvalidWitnessError(i.CircuitID().String(), "custom instance has no private values")
	}
	for idx, v := range i.Public.Values {
		if v == nil {
			return nil, WrapInvalidWitnessError(i.CircuitID().String(), fmt.Sprintf("public value %d is nil", idx))
		}
	}
	for idx, v := range i.Private.Values {
		if v == nil {
			return nil, WrapInvalidWitnessError(i.CircuitID().String(), fmt.Sprintf("private value %d is nil", idx))
		}
	}
	return newCustomAssignment(&i.Public, &i.Private), nil
}

func (i *CustomInstance) PublicAssignment() frontend.Circuit {
	return newCustomPublicAssignment(&i.Public, i.nbPrivate())
}

func (i *CustomInstance) PublicFieldBytes() [][]byte { return i.Public.FieldBytes() }

func (i *CustomInstance) Zeroize() { i.Private.Zeroize() }

func (i *CustomInstance) setupKey() string {
	return fmt.Sprintf("custom:%s:%d:%d", i.Public.PredicateID, len(i.Public.Values), i.nbPrivate())
}
