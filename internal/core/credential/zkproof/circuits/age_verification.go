package circuits

import (
	"github.com/consensys/gnark/frontend"
)

// MaxAgeSeconds 出生时间戳的最大历史深度（150年）
const MaxAgeSeconds = 150 * 365 * 24 * 3600

// AgeVerificationCircuit 年龄验证电路
//
// 🎯 **验证目标**：证明 (current_timestamp - birth_timestamp) > age_threshold_years × 每年秒数，
// 而不泄露真实出生时间戳
// 🏗️ **电路结构**：公开输入（当前时间戳、年龄阈值、凭证类型哈希）+ 私有输入（出生时间戳、凭证哈希、签发方签名哈希）
//
// ⚠️ **公开输入顺序即线格式契约**：改变声明顺序会使所有已分发的验证密钥失效
type AgeVerificationCircuit struct {
	// 公开输入（验证方可见）
	CurrentTimestamp   frontend.Variable `gnark:",public"`
	AgeThresholdYears  frontend.Variable `gnark:",public"`
	CredentialTypeHash frontend.Variable `gnark:",public"`

	// 私有输入（隐私保护）
	BirthTimestamp      frontend.Variable
	CredentialHash      frontend.Variable
	IssuerSignatureHash frontend.Variable
}

// Define 定义电路约束
//
// 年龄比较为严格大于：恰好在阈值生日当秒的证明请求会被拒绝。
// 这是与发证域确认过的产品语义，不是实现偏差。
func (circuit *AgeVerificationCircuit) Define(api frontend.API) error {
	// 约束1: 出生时间戳有效（不在未来、不早于150年前）
	enforceTimestampValidity(api, circuit.BirthTimestamp, circuit.CurrentTimestamp, MaxAgeSeconds)

	// 约束2: 年龄（秒）严格大于阈值（秒）
	// age_seconds = current - birth；约束1保证满足见证下不会下溢
	ageSeconds := api.Sub(circuit.CurrentTimestamp, circuit.BirthTimestamp)
	thresholdSeconds := api.Mul(circuit.AgeThresholdYears, SecondsPerYear)
	assertLess(api, thresholdSeconds, ageSeconds)

	// 约束3: 哈希值非退化
	enforceValidHash(api, circuit.CredentialHash)
	enforceValidHash(api, circuit.IssuerSignatureHash)
	enforceValidHash(api, circuit.CredentialTypeHash)

	return nil
}
