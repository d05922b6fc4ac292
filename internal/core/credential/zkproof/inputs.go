// ============================================================================
// 电路输入类型定义
// ============================================================================
//
// 🎯 **专门职责**：
// 为每种电路定义强类型的公开/私有输入结构，并提供：
// - 见证赋值构建（证明方：公开+私有）
// - 公开见证赋值构建（验证方：仅公开）
// - 公开输入的规范字节序列（跨边界线格式，顺序即契约）
// - 私有输入的主动清零（Zeroize）
//
// ⚠️ **隐私约束**：私有输入结构包含出生日期、薪资等敏感明文。
// 使用方必须在所有退出路径（含错误路径）上调用 Zeroize；
// GC运行时不提供确定性析构，清零纪律只能由调用方维持。
//
// ============================================================================
package zkproof

import (
	"math/big"

	"github.com/consensys/gnark/frontend"

	"github.com/zkidchain/v1/internal/core/credential/zkproof/circuits"
)

// fieldFromHash 32字节哈希到域元素的内部捷径（定长数组，无长度错误分支）
func fieldFromHash(h [FieldByteLen]byte) *big.Int {
	v, _ := FieldFromBytes(h[:])
	return v
}

// wipeBig 就地清零 big.Int 的底层字
func wipeBig(v *big.Int) {
	if v == nil {
		return
	}
	bits := v.Bits()
	for i := range bits {
		bits[i] = 0
	}
	v.SetInt64(0)
}

// wipeHash 就地清零32字节哈希
func wipeHash(h *[FieldByteLen]byte) {
	for i := range h {
		h[i] = 0
	}
}

// ==================== 年龄验证 ====================

// AgePublicInputs 年龄电路公开输入（顺序即线格式契约）
type AgePublicInputs struct {
	CurrentTimestamp   uint64
	AgeThresholdYears  uint64
	CredentialTypeHash [FieldByteLen]byte
}

// FieldBytes 返回按电路声明顺序排列的公开输入32字节编码
func (p *AgePublicInputs) FieldBytes() [][]byte {
	ts := FieldToBytes(FieldFromUint64(p.CurrentTimestamp))
	th := FieldToBytes(FieldFromUint64(p.AgeThresholdYears))
	ch := FieldToBytes(fieldFromHash(p.CredentialTypeHash))
	return [][]byte{ts[:], th[:], ch[:]}
}

// AgePrivateInputs 年龄电路私有输入（敏感明文，用后清零）
type AgePrivateInputs struct {
	BirthTimestamp      uint64
	CredentialHash      [FieldByteLen]byte
	IssuerSignatureHash [FieldByteLen]byte
}

// Zeroize 主动清零私有输入
func (p *AgePrivateInputs) Zeroize() {
	p.BirthTimestamp = 0
	wipeHash(&p.CredentialHash)
	wipeHash(&p.IssuerSignatureHash)
}

func newAgeAssignment(pub *AgePublicInputs, priv *AgePrivateInputs) *circuits.AgeVerificationCircuit {
	return &circuits.AgeVerificationCircuit{
		CurrentTimestamp:    FieldFromUint64(pub.CurrentTimestamp),
		AgeThresholdYears:   FieldFromUint64(pub.AgeThresholdYears),
		CredentialTypeHash:  fieldFromHash(pub.CredentialTypeHash),
		BirthTimestamp:      FieldFromUint64(priv.BirthTimestamp),
		CredentialHash:      fieldFromHash(priv.CredentialHash),
		IssuerSignatureHash: fieldFromHash(priv.IssuerSignatureHash),
	}
}

func newAgePublicAssignment(pub *AgePublicInputs) *circuits.AgeVerificationCircuit {
	return &circuits.AgeVerificationCircuit{
		CurrentTimestamp:   FieldFromUint64(pub.CurrentTimestamp),
		AgeThresholdYears:  FieldFromUint64(pub.AgeThresholdYears),
		CredentialTypeHash: fieldFromHash(pub.CredentialTypeHash),
	}
}

// ==================== 学生状态 ====================

// StudentPublicInputs 学生电路公开输入（顺序即线格式契约）
type StudentPublicInputs struct {
	CurrentTimestamp uint64
	InstitutionHash  [FieldByteLen]byte
	StatusActive     bool
}

// FieldBytes 返回按电路声明顺序排列的公开输入32字节编码
func (p *StudentPublicInputs) FieldBytes() [][]byte {
	ts := FieldToBytes(FieldFromUint64(p.CurrentTimestamp))
	ih := FieldToBytes(fieldFromHash(p.InstitutionHash))
	st := FieldToBytes(FieldFromUint64(boolToUint64(p.StatusActive)))
	return [][]byte{ts[:], ih[:], st[:]}
}

// StudentPrivateInputs 学生电路私有输入（敏感明文，用后清零）
type StudentPrivateInputs struct {
	StudentIDHash       [FieldByteLen]byte
	EnrollmentDate      uint64
	ExpiryDate          uint64
	Gpa                 uint64 // 以百分之一计（3.50 → 350）
	CredentialHash      [FieldByteLen]byte
	IssuerSignatureHash [FieldByteLen]byte
}

// Zeroize 主动清零私有输入
func (p *StudentPrivateInputs) Zeroize() {
	wipeHash(&p.StudentIDHash)
	p.EnrollmentDate = 0
	p.ExpiryDate = 0
	p.Gpa = 0
	wipeHash(&p.CredentialHash)
	wipeHash(&p.IssuerSignatureHash)
}

func newStudentAssignment(pub *StudentPublicInputs, priv *StudentPrivateInputs) *circuits.StudentStatusCircuit {
	return &circuits.StudentStatusCircuit{
		CurrentTimestamp:    FieldFromUint64(pub.CurrentTimestamp),
		InstitutionHash:     fieldFromHash(pub.InstitutionHash),
		StatusActive:        FieldFromUint64(boolToUint64(pub.StatusActive)),
		StudentIDHash:       fieldFromHash(priv.StudentIDHash),
		EnrollmentDate:      FieldFromUint64(priv.EnrollmentDate),
		ExpiryDate:          FieldFromUint64(priv.ExpiryDate),
		Gpa:                 FieldFromUint64(priv.Gpa),
		CredentialHash:      fieldFromHash(priv.CredentialHash),
		IssuerSignatureHash: fieldFromHash(priv.IssuerSignatureHash),
	}
}

func newStudentPublicAssignment(pub *StudentPublicInputs) *circuits.StudentStatusCircuit {
	return &circuits.StudentStatusCircuit{
		CurrentTimestamp: FieldFromUint64(pub.CurrentTimestamp),
		InstitutionHash:  fieldFromHash(pub.InstitutionHash),
		StatusActive:     FieldFromUint64(boolToUint64(pub.StatusActive)),
	}
}

// ==================== 疫苗接种状态 ====================

// VaccinationPublicInputs 疫苗电路公开输入（顺序即线格式契约）
type VaccinationPublicInputs struct {
	CurrentTimestamp    uint64
	VaccinationTypeHash [FieldByteLen]byte
	MinDosesRequired    uint64
}

// FieldBytes 返回按电路声明顺序排列的公开输入32字节编码
func (p *VaccinationPublicInputs) FieldBytes() [][]byte {
	ts := FieldToBytes(FieldFromUint64(p.CurrentTimestamp))
	vh := FieldToBytes(fieldFromHash(p.VaccinationTypeHash))
	md := FieldToBytes(FieldFromUint64(p.MinDosesRequired))
	return [][]byte{ts[:], vh[:], md[:]}
}

// VaccinationPrivateInputs 疫苗电路私有输入（敏感明文，用后清零）
type VaccinationPrivateInputs struct {
	PatientIDHash       [FieldByteLen]byte
	VaccinationDate     uint64
	ExpiryDate          uint64
	DosesReceived       uint64
	BatchNumberHash     [FieldByteLen]byte
	CredentialHash      [FieldByteLen]byte
	IssuerSignatureHash [FieldByteLen]byte
}

// Zeroize 主动清零私有输入
func (p *VaccinationPrivateInputs) Zeroize() {
	wipeHash(&p.PatientIDHash)
	p.VaccinationDate = 0
	p.ExpiryDate = 0
	p.DosesReceived = 0
	wipeHash(&p.BatchNumberHash)
	wipeHash(&p.CredentialHash)
	wipeHash(&p.IssuerSignatureHash)
}

func newVaccinationAssignment(pub *VaccinationPublicInputs, priv *VaccinationPrivateInputs) *circuits.VaccinationStatusCircuit {
	return &circuits.VaccinationStatusCircuit{
		CurrentTimestamp:    FieldFromUint64(pub.CurrentTimestamp),
		VaccinationTypeHash: fieldFromHash(pub.VaccinationTypeHash),
		MinDosesRequired:    FieldFromUint64(pub.MinDosesRequired),
		PatientIDHash:       fieldFromHash(priv.PatientIDHash),
		VaccinationDate:     FieldFromUint64(priv.VaccinationDate),
		ExpiryDate:          FieldFromUint64(priv.ExpiryDate),
		DosesReceived:       FieldFromUint64(priv.DosesReceived),
		BatchNumberHash:     fieldFromHash(priv.BatchNumberHash),
		CredentialHash:      fieldFromHash(priv.CredentialHash),
		IssuerSignatureHash: fieldFromHash(priv.IssuerSignatureHash),
	}
}

func newVaccinationPublicAssignment(pub *VaccinationPublicInputs) *circuits.VaccinationStatusCircuit {
	return &circuits.VaccinationStatusCircuit{
		CurrentTimestamp:    FieldFromUint64(pub.CurrentTimestamp),
		VaccinationTypeHash: fieldFromHash(pub.VaccinationTypeHash),
		MinDosesRequired:    FieldFromUint64(pub.MinDosesRequired),
	}
}

// ==================== 雇佣状态 ====================

// EmploymentPublicInputs 雇佣电路公开输入（顺序即线格式契约）
type EmploymentPublicInputs struct {
	CurrentTimestamp   uint64
	CompanyHash        [FieldByteLen]byte
	EmploymentTypeHash [FieldByteLen]byte
}

// FieldBytes 返回按电路声明顺序排列的公开输入32字节编码
func (p *EmploymentPublicInputs) FieldBytes() [][]byte {
	ts := FieldToBytes(FieldFromUint64(p.CurrentTimestamp))
	ch := FieldToBytes(fieldFromHash(p.CompanyHash))
	th := FieldToBytes(fieldFromHash(p.EmploymentTypeHash))
	return [][]byte{ts[:], ch[:], th[:]}
}

// EmploymentPrivateInputs 雇佣电路私有输入（敏感明文，用后清零）
//
// EndDate == 0 约定为"仍在职"哨兵值。
type EmploymentPrivateInputs struct {
	EmployeeIDHash      [FieldByteLen]byte
	StartDate           uint64
	EndDate             uint64
	Salary              uint64
	PositionHash        [FieldByteLen]byte
	CredentialHash      [FieldByteLen]byte
	IssuerSignatureHash [FieldByteLen]byte
}

// Zeroize 主动清零私有输入
func (p *EmploymentPrivateInputs) Zeroize() {
	wipeHash(&p.EmployeeIDHash)
	p.StartDate = 0
	p.EndDate = 0
	p.Salary = 0
	wipeHash(&p.PositionHash)
	wipeHash(&p.CredentialHash)
	wipeHash(&p.IssuerSignatureHash)
}

func newEmploymentAssignment(pub *EmploymentPublicInputs, priv *EmploymentPrivateInputs) *circuits.EmploymentStatusCircuit {
	return &circuits.EmploymentStatusCircuit{
		CurrentTimestamp:    FieldFromUint64(pub.CurrentTimestamp),
		CompanyHash:         fieldFromHash(pub.CompanyHash),
		EmploymentTypeHash:  fieldFromHash(pub.EmploymentTypeHash),
		EmployeeIDHash:      fieldFromHash(priv.EmployeeIDHash),
		StartDate:           FieldFromUint64(priv.StartDate),
		EndDate:             FieldFromUint64(priv.EndDate),
		Salary:              FieldFromUint64(priv.Salary),
		PositionHash:        fieldFromHash(priv.PositionHash),
		CredentialHash:      fieldFromHash(priv.CredentialHash),
		IssuerSignatureHash: fieldFromHash(priv.IssuerSignatureHash),
	}
}

func newEmploymentPublicAssignment(pub *EmploymentPublicInputs) *circuits.EmploymentStatusCircuit {
	return &circuits.EmploymentStatusCircuit{
		CurrentTimestamp:   FieldFromUint64(pub.CurrentTimestamp),
		CompanyHash:        fieldFromHash(pub.CompanyHash),
		EmploymentTypeHash: fieldFromHash(pub.EmploymentTypeHash),
	}
}

// ==================== 自定义谓词 ====================

// CustomPublicInputs 自定义电路公开输入（变长，顺序由谓词约定）
type CustomPublicInputs struct {
	PredicateID string
	Values      []*big.Int
}

// FieldBytes 返回公开输入的32字节编码序列
func (p *CustomPublicInputs) FieldBytes() [][]byte {
	out := make([][]byte, 0, len(p.Values))
	for _, v := range p.Values {
		b := FieldToBytes(v)
		out = append(out, b[:])
	}
	return out
}

// CustomPrivateInputs 自定义电路私有输入（变长，用后清零）
type CustomPrivateInputs struct {
	Values []*big.Int
}

// Zeroize 主动清零私有输入
func (p *CustomPrivateInputs) Zeroize() {
	for _, v := range p.Values {
		wipeBig(v)
	}
	p.Values = nil
}

func newCustomAssignment(pub *CustomPublicInputs, priv *CustomPrivateInputs) *circuits.CustomCircuit {
	c := &circuits.CustomCircuit{
		PublicInputs:  make([]frontend.Variable, 0, len(pub.Values)),
		PrivateInputs: make([]frontend.Variable, 0, len(priv.Values)),
		PredicateID:   pub.PredicateID,
	}
	for _, v := range pub.Values {
		c.PublicInputs = append(c.PublicInputs, v)
	}
	for _, v := range priv.Values {
		c.PrivateInputs = append(c.PrivateInputs, v)
	}
	return c
}

func newCustomPublicAssignment(pub *CustomPublicInputs, nbPrivate int) *circuits.CustomCircuit {
	c := &circuits.CustomCircuit{
		PublicInputs:  make([]frontend.Variable, 0, len(pub.Values)),
		PrivateInputs: make([]frontend.Variable, nbPrivate),
		PredicateID:   pub.PredicateID,
	}
	for _, v := range pub.Values {
		c.PublicInputs = append(c.PublicInputs, v)
	}
	return c
}

func boolToUint64(b bool) uint64 {
	if b {
		return 1
	}
	return 0
}
