package circuits

import (
	"fmt"

	"github.com/consensys/gnark/frontend"
)

// CircuitID 电路类型标识
//
// 字符串值是跨进程/跨语言边界的线格式，一旦分发不可更改。
type CircuitID string

const (
	// AgeVerificationID 年龄验证电路
	AgeVerificationID CircuitID = "age_verification"
	// StudentStatusID 学生状态电路
	StudentStatusID CircuitID = "student_status"
	// VaccinationStatusID 疫苗接种状态电路
	VaccinationStatusID CircuitID = "vaccination_status"
	// EmploymentStatusID 雇佣状态电路
	EmploymentStatusID CircuitID = "employment_status"
	// CustomID 自定义谓词电路（扩展点）
	CustomID CircuitID = "custom"
)

// AllCircuitIDs 返回全部内置电路类型
func AllCircuitIDs() []CircuitID {
	return []CircuitID{
		AgeVerificationID,
		StudentStatusID,
		VaccinationStatusID,
		EmploymentStatusID,
		CustomID,
	}
}

// IsValid 判断电路标识是否为已知类型
func (id CircuitID) IsValid() bool {
	switch id {
	case AgeVerificationID, StudentStatusID, VaccinationStatusID, EmploymentStatusID, CustomID:
		return true
	default:
		return false
	}
}

// String 实现 fmt.Stringer
func (id CircuitID) String() string {
	return string(id)
}

// PublicInputCount 返回电路的公开输入个数
//
// 验证方据此校验公开输入向量长度；自定义电路形状可变，返回 -1。
func (id CircuitID) PublicInputCount() int {
	switch id {
	case AgeVerificationID, StudentStatusID, VaccinationStatusID, EmploymentStatusID:
		return 3
	case CustomID:
		return -1
	default:
		return 0
	}
}

// NewTemplate 按电路标识构造空白电路模板（用于编译和可信设置）
//
// 自定义电路形状由调用方决定，必须经 NewCustomCircuit 构造，
// 这里对 CustomID 返回错误而不是猜测形状。
func NewTemplate(id CircuitID) (frontend.Circuit, error) {
	switch id {
	case AgeVerificationID:
		return &AgeVerificationCircuit{}, nil
	case StudentStatusID:
		return &StudentStatusCircuit{}, nil
	case VaccinationStatusID:
		return &VaccinationStatusCircuit{}, nil
	case EmploymentStatusID:
		return &EmploymentStatusCircuit{}, nil
	case CustomID:
		return nil, fmt.Errorf("custom circuit template requires explicit shape, use NewCustomCircuit")
	default:
		return nil, fmt.Errorf("unknown circuit id: %s", id)
	}
}
