package circuits

import (
	"github.com/consensys/gnark/frontend"
)

// MaxVaccinationAgeSeconds 接种时间戳的最大历史深度（5年）
const MaxVaccinationAgeSeconds = 5 * 365 * 24 * 3600

// 剂量计数的声明范围
const (
	MinDoses = 1
	MaxDoses = 10
)

// VaccinationStatusCircuit 疫苗接种状态电路
//
// 🎯 **验证目标**：证明接种状态满足要求，而不泄露患者标识和具体接种日期
// 🏗️ **电路结构**：公开输入（当前时间戳、疫苗类型哈希、最低剂量数）+ 私有输入（患者哈希、接种/到期日期、已接种剂量、批号哈希、凭证哈希、签发方签名哈希）
type VaccinationStatusCircuit struct {
	// 公开输入（验证方可见）
	CurrentTimestamp    frontend.Variable `gnark:",public"`
	VaccinationTypeHash frontend.Variable `gnark:",public"`
	MinDosesRequired    frontend.Variable `gnark:",public"`

	// 私有输入（隐私保护）
	PatientIDHash       frontend.Variable
	VaccinationDate     frontend.Variable
	ExpiryDate          frontend.Variable
	DosesReceived       frontend.Variable
	BatchNumberHash     frontend.Variable
	CredentialHash      frontend.Variable
	IssuerSignatureHash frontend.Variable
}

// Define 定义电路约束
//
// 剂量比较为严格大于：doses_received == min_doses_required 会被拒绝。
func (circuit *VaccinationStatusCircuit) Define(api frontend.API) error {
	// 约束1: 接种日期有效（不在未来、不早于5年前）
	enforceTimestampValidity(api, circuit.VaccinationDate, circuit.CurrentTimestamp, MaxVaccinationAgeSeconds)

	// 约束2: 未过期（now < expiry，严格）
	assertLess(api, circuit.CurrentTimestamp, circuit.ExpiryDate)

	// 约束3: 剂量充足（doses > min，严格）
	assertLess(api, circuit.MinDosesRequired, circuit.DosesReceived)

	// 约束4: 剂量在合理区间 [1,10]
	enforceRange(api, circuit.DosesReceived, MinDoses, MaxDoses)

	// 约束5: 哈希值非退化
	enforceValidHash(api, circuit.PatientIDHash)
	enforceValidHash(api, circuit.VaccinationTypeHash)
	enforceValidHash(api, circuit.BatchNumberHash)
	enforceValidHash(api, circuit.CredentialHash)
	enforceValidHash(api, circuit.IssuerSignatureHash)

	return nil
}
