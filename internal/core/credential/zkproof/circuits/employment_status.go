package circuits

import (
	"github.com/consensys/gnark/frontend"
)

// MaxEmploymentAgeSeconds 入职时间戳的最大历史深度（50年）
const MaxEmploymentAgeSeconds = 50 * 365 * 24 * 3600

// EmploymentStatusCircuit 雇佣状态电路
//
// 🎯 **验证目标**：证明雇佣关系成立，而不泄露薪资和员工标识
// 🏗️ **电路结构**：公开输入（当前时间戳、公司哈希、雇佣类型哈希）+ 私有输入（员工哈希、起止日期、薪资、职位哈希、凭证哈希、签发方签名哈希）
//
// end_date == 0 约定为"仍在职"哨兵值
type EmploymentStatusCircuit struct {
	// 公开输入（验证方可见）
	CurrentTimestamp   frontend.Variable `gnark:",public"`
	CompanyHash        frontend.Variable `gnark:",public"`
	EmploymentTypeHash frontend.Variable `gnark:",public"`

	// 私有输入（隐私保护）
	EmployeeIDHash      frontend.Variable
	StartDate           frontend.Variable
	EndDate             frontend.Variable
	Salary              frontend.Variable
	PositionHash        frontend.Variable
	CredentialHash      frontend.Variable
	IssuerSignatureHash frontend.Variable
}

// Define 定义电路约束
func (circuit *EmploymentStatusCircuit) Define(api frontend.API) error {
	// 约束1: 入职日期有效（不在未来、不早于50年前）
	enforceTimestampValidity(api, circuit.StartDate, circuit.CurrentTimestamp, MaxEmploymentAgeSeconds)

	// 约束2: 雇佣区间逻辑
	stillEmployed := api.IsZero(circuit.EndDate)

	// 若已离职（end_date > 0）：end_date > start_date（严格）且 end_date <= now
	endAfterStart := isLess(api, circuit.StartDate, circuit.EndDate)
	endNotFuture := isLessOrEqual(api, circuit.EndDate, circuit.CurrentTimestamp)
	endDateChecks := api.Mul(endAfterStart, endNotFuture)
	enforceImplication(api, api.Sub(1, stillEmployed), endDateChecks)

	// 若仍在职：now > start_date（严格）
	nowAfterStart := isLess(api, circuit.StartDate, circuit.CurrentTimestamp)
	enforceImplication(api, stillEmployed, nowAfterStart)

	// 约束3: 薪资为正（域内非零即为正）
	api.AssertIsDifferent(circuit.Salary, 0)

	// 约束4: 哈希值非退化
	enforceValidHash(api, circuit.EmployeeIDHash)
	enforceValidHash(api, circuit.CompanyHash)
	enforceValidHash(api, circuit.EmploymentTypeHash)
	enforceValidHash(api, circuit.PositionHash)
	enforceValidHash(api, circuit.CredentialHash)
	enforceValidHash(api, circuit.IssuerSignatureHash)

	return nil
}
