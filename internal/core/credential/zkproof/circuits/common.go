// Package circuits 定义凭证资格谓词的零知识电路
//
// ============================================================================
// 共享约束辅助函数
// ============================================================================
//
// 🎯 **设计目的**：
// 为五种凭证电路提供可复用的电路级断言：时间戳有效性、哈希非零、区间范围。
// 所有辅助函数只操作已分配的电路变量（frontend.Variable），不接触明文见证值。
//
// ⚠️ **关键设计决策**：
// - 域元素没有符号。`now - maxAge` 在 now < maxAge 时会在域内回绕成一个
//   巨大的元素，导致比较约束永远无法满足（年龄电路的150年上限大于当前
//   Unix时间戳，必然触发）。因此下界约束改写为等价的加法形式
//   `now <= ts + maxAge`，完全避免减法下溢。
// - 严格与非严格比较按各电路声明的语义选择，不做统一规则；
//   严格 a < b 实现为 a + 1 <= b（输入为时间戳/剂量等小值，加一不会溢出）。
//
// ============================================================================
package circuits

import (
	"github.com/consensys/gnark/frontend"
)

// 时间常量（秒）
const (
	// SecondsPerYear 电路内年→秒换算常量（365天，不含闰日，与发证方约定一致）
	SecondsPerYear = 365 * 24 * 3600
)

// enforceTimestampValidity 约束时间戳有效（不在未来、不早于最大年龄窗口）
//
// 约束1: ts <= now（允许相等）
// 约束2: now <= ts + maxAgeSeconds（下界的无下溢改写，允许相等）
func enforceTimestampValidity(api frontend.API, ts, now frontend.Variable, maxAgeSeconds uint64) {
	api.AssertIsLessOrEqual(ts, now)
	api.AssertIsLessOrEqual(now, api.Add(ts, maxAgeSeconds))
}

// enforceValidHash 约束哈希值非零
//
// 全零域元素保留为"缺失/未设置"哨兵值；真实哈希输出撞零的概率
// 在密码学上可以忽略。该约束是完整性检查，不单独构成安全边界。
func enforceValidHash(api frontend.API, h frontend.Variable) {
	api.AssertIsDifferent(h, 0)
}

// enforceRange 约束 min <= value <= max（双侧均允许相等）
func enforceRange(api frontend.API, value frontend.Variable, min, max uint64) {
	api.AssertIsLessOrEqual(min, value)
	api.AssertIsLessOrEqual(value, max)
}

// assertLess 约束 a < b（严格）
//
// 实现为 a + 1 <= b；调用方保证 a 为有界小值（时间戳/计数），加一不回绕。
func assertLess(api frontend.API, a, b frontend.Variable) {
	api.AssertIsLessOrEqual(api.Add(a, 1), b)
}

// isLessOrEqual 返回布尔变量：a <= b 时为1，否则为0
//
// api.Cmp 返回 1（a>b）、0（a==b）、-1（a<b），
// 取 "cmp == 1" 的反面即为 a <= b。
func isLessOrEqual(api frontend.API, a, b frontend.Variable) frontend.Variable {
	gt := api.IsZero(api.Sub(api.Cmp(a, b), 1))
	return api.Sub(1, gt)
}

// isLess 返回布尔变量：a < b 时为1，否则为0
func isLess(api frontend.API, a, b frontend.Variable) frontend.Variable {
	return api.IsZero(api.Add(api.Cmp(a, b), 1))
}

// enforceImplication 约束 cond=1 时 conclusion 必为1（cond、conclusion均为布尔变量）
//
// 实现为 cond * (1 - conclusion) == 0。
func enforceImplication(api frontend.API, cond, conclusion frontend.Variable) {
	api.AssertIsEqual(api.Mul(cond, api.Sub(1, conclusion)), 0)
}
