// Package zkproof 实现凭证资格证明的 Groth16 驱动层
//
// ============================================================================
// 字节↔域元素编解码
// ============================================================================
//
// 🎯 **专门职责**：
// 提供32字节哈希值与原生整数到 BN254 标量域元素的规范映射。
// 设置、见证构建、验证三个阶段必须使用完全相同的映射，否则公开输入
// 在证明方与验证方之间失配。
//
// ⚠️ **关键设计决策**：
// - 32字节值按大端序解释并对域模数约简（fr.Element.SetBytes 语义）。
//   约简是有损的：高于模数的输入会映射到同一元素。哈希输出在密码学上
//   均匀分布，碰撞概率可忽略，但调用方不得依赖逐字节可逆性。
// - 域元素回写字节时固定输出32字节大端序（fr.Element.Bytes 语义），
//   作为跨进程边界的公开输入线格式。
//
// ============================================================================
package zkproof

import (
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
)

// FieldByteLen 域元素线格式的规范字节长度
const FieldByteLen = 32

// FieldFromBytes 将32字节值映射为域元素（大端序，模域约简）
//
// 长度不等于32字节视为输入错误，在任何密码学计算前拒绝。
func FieldFromBytes(b []byte) (*big.Int, error) {
	if len(b) != FieldByteLen {
		return nil, WrapInvalidWitnessError("", "hash value must be exactly 32 bytes")
	}

	var elem fr.Element
	elem.SetBytes(b)

	result := new(big.Int)
	elem.BigInt(result)
	return result, nil
}

// FieldFromUint64 将原生整数映射为域元素
func FieldFromUint64(v uint64) *big.Int {
	var elem fr.Element
	elem.SetUint64(v)

	result := new(big.Int)
	elem.BigInt(result)
	return result
}

// FieldToBytes 将域元素编码为32字节大端序线格式
func FieldToBytes(v *big.Int) [FieldByteLen]byte {
	var elem fr.Element
	elem.SetBigInt(v)
	return elem.Bytes()
}
