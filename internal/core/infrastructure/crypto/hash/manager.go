// Package hash 提供哈希计算服务实现
//
// 🎯 **核心职责**：实现 crypto.HashManager 接口
//
// 💡 **设计理念**：
// - SHA-256：验证密钥哈希、电路承诺（与证明制品的钉扎校验）
// - BLAKE2b-256：选择性披露承诺和披露标识符的派生
// - 无状态实现：所有方法均为纯函数，可安全并发调用
package hash

import (
	"crypto/sha256"

	"golang.org/x/crypto/blake2b"
)

// Manager 哈希管理器
//
// 实现 crypto.HashManager 接口
type Manager struct{}

// NewManager 创建哈希管理器
func NewManager() *Manager {
	return &Manager{}
}

// SHA256 计算SHA-256哈希
func (m *Manager) SHA256(data []byte) []byte {
	h := sha256.Sum256(data)
	return h[:]
}

// Blake2b256 计算BLAKE2b-256哈希
func (m *Manager) Blake2b256(data []byte) []byte {
	h := blake2b.Sum256(data)
	return h[:]
}

// DoubleSHA256 计算双重SHA-256哈希
func (m *Manager) DoubleSHA256(data []byte) []byte {
	first := sha256.Sum256(data)
	second := sha256.Sum256(first[:])
	return second[:]
}
