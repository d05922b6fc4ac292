package circuits

import (
	"github.com/consensys/gnark/frontend"
)

// MaxEnrollmentAgeSeconds 入学时间戳的最大历史深度（10年）
const MaxEnrollmentAgeSeconds = 10 * 365 * 24 * 3600

// GPA 的声明范围（以百分之一计，4.00 → 400）
const (
	MinGpa = 0
	MaxGpa = 400
)

// StudentStatusCircuit 学生状态电路
//
// 🎯 **验证目标**：证明在册学生身份，而不泄露学号和GPA
// 🏗️ **电路结构**：公开输入（当前时间戳、院校哈希、激活标志）+ 私有输入（学号哈希、入学/到期日期、GPA、凭证哈希、签发方签名哈希）
type StudentStatusCircuit struct {
	// 公开输入（验证方可见）
	CurrentTimestamp frontend.Variable `gnark:",public"`
	InstitutionHash  frontend.Variable `gnark:",public"`
	StatusActive     frontend.Variable `gnark:",public"` // 1 = 在册，0 = 非在册

	// 私有输入（隐私保护）
	StudentIDHash       frontend.Variable
	EnrollmentDate      frontend.Variable
	ExpiryDate          frontend.Variable
	Gpa                 frontend.Variable
	CredentialHash      frontend.Variable
	IssuerSignatureHash frontend.Variable
}

// Define 定义电路约束
func (circuit *StudentStatusCircuit) Define(api frontend.API) error {
	// 约束1: StatusActive ∈ {0,1}
	api.AssertIsBoolean(circuit.StatusActive)

	// 约束2: 若在册，则 enrollment_date <= now <= expiry_date（双侧允许相等）
	afterEnrollment := isLessOrEqual(api, circuit.EnrollmentDate, circuit.CurrentTimestamp)
	beforeExpiry := isLessOrEqual(api, circuit.CurrentTimestamp, circuit.ExpiryDate)
	validPeriod := api.Mul(afterEnrollment, beforeExpiry)
	enforceImplication(api, circuit.StatusActive, validPeriod)

	// 约束3: 入学日期有效（不在未来、不早于10年前）
	enforceTimestampValidity(api, circuit.EnrollmentDate, circuit.CurrentTimestamp, MaxEnrollmentAgeSeconds)

	// 约束4: GPA 在声明范围内
	enforceRange(api, circuit.Gpa, MinGpa, MaxGpa)

	// 约束5: 哈希值非退化
	enforceValidHash(api, circuit.StudentIDHash)
	enforceValidHash(api, circuit.CredentialHash)
	enforceValidHash(api, circuit.IssuerSignatureHash)
	enforceValidHash(api, circuit.InstitutionHash)

	return nil
}
