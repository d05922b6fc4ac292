// Package crypto 提供ZKID系统的哈希计算接口定义
//
// #️⃣ **哈希计算服务 (Hash Computation Service)**
//
// 本文件定义了凭证证明引擎的哈希计算接口，专注于：
// - 验证密钥哈希：对序列化验证密钥计算SHA-256摘要（密钥钉扎）
// - 披露承诺：对选择性披露记录计算BLAKE2b-256承诺
// - 数据校验：数据完整性和一致性校验机制
//
// 🎯 **设计原则**
// - 接口统一：哈希算法通过统一接口注入，便于测试和替换
// - 安全可靠：使用成熟的加密库和算法实现
//
// 🔗 **组件关系**
// - HashManager：被zkproof（验证密钥哈希）和disclosure（披露承诺）使用
package crypto

// HashManager 定义哈希计算相关接口
type HashManager interface {
	// SHA256 计算SHA-256哈希
	// 参数：
	//   - data: 输入数据
	// 返回：32字节哈希值
	SHA256(data []byte) []byte

	// Blake2b256 计算BLAKE2b-256哈希
	// 参数：
	//   - data: 输入数据
	// 返回：32字节哈希值
	Blake2b256(data []byte) []byte

	// DoubleSHA256 计算双重SHA-256哈希
	// 参数：
	//   - data: 输入数据
	// 返回：32字节哈希值
	DoubleSHA256(data []byte) []byte
}
