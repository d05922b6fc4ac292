// ============================================================================
// 证明与密钥序列化
// ============================================================================
//
// 🎯 **专门职责**：
// 证明、ProvingKey、VerifyingKey 的规范压缩字节编码。
// 编码跨进程/跨语言边界消费，必须保持稳定：gnark 的 WriteTo 使用
// 曲线点压缩格式，ReadFrom 在反序列化时做子群检查。
//
// ⚠️ 反序列化失败归类为"密码学工件损坏"，属数据完整性问题，
// 与谓词失败和验证为假严格区分。
//
// ============================================================================
package zkproof

import (
	"bytes"
	"errors"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark/backend/groth16"

	"github.com/zkidchain/v1/pkg/interfaces/infrastructure/crypto"
)

// SerializeProof 将证明编码为压缩字节序列
func SerializeProof(proof groth16.Proof) ([]byte, error) {
	var buf bytes.Buffer
	if _, err := proof.WriteTo(&buf); err != nil {
		return nil, WrapCorruptArtifactError("proof", "", err)
	}
	return buf.Bytes(), nil
}

// DeserializeProof 从压缩字节序列解码证明（含子群检查）
func DeserializeProof(curveID ecc.ID, data []byte) (groth16.Proof, error) {
	if len(data) == 0 {
		return nil, WrapCorruptArtifactError("proof", "", errors.New("empty proof bytes"))
	}

	proof := groth16.NewProof(curveID)
	if _, err := proof.ReadFrom(bytes.NewReader(data)); err != nil {
		return nil, WrapCorruptArtifactError("proof", "", err)
	}
	return proof, nil
}

// SerializeProvingKey 将证明密钥编码为压缩字节序列
func SerializeProvingKey(pk groth16.ProvingKey) ([]byte, error) {
	var buf bytes.Buffer
	if _, err := pk.WriteTo(&buf); err != nil {
		return nil, WrapCorruptArtifactError("proving_key", "", err)
	}
	return buf.Bytes(), nil
}

// DeserializeProvingKey 从压缩字节序列解码证明密钥
func DeserializeProvingKey(curveID ecc.ID, data []byte) (groth16.ProvingKey, error) {
	pk := groth16.NewProvingKey(curveID)
	if _, err := pk.ReadFrom(bytes.NewReader(data)); err != nil {
		return nil, WrapCorruptArtifactError("proving_key", "", err)
	}
	return pk, nil
}

// SerializeVerifyingKey 将验证密钥编码为压缩字节序列
func SerializeVerifyingKey(vk groth16.VerifyingKey) ([]byte, error) {
	var buf bytes.Buffer
	if _, err := vk.WriteTo(&buf); err != nil {
		return nil, WrapCorruptArtifactError("verifying_key", "", err)
	}
	return buf.Bytes(), nil
}

// DeserializeVerifyingKey 从压缩字节序列解码验证密钥
func DeserializeVerifyingKey(curveID ecc.ID, data []byte) (groth16.VerifyingKey, error) {
	vk := groth16.NewVerifyingKey(curveID)
	if _, err := vk.ReadFrom(bytes.NewReader(data)); err != nil {
		return nil, WrapCorruptArtifactError("verifying_key", "", err)
	}
	return vk, nil
}

// VerifyingKeyHash 计算验证密钥的SHA256锚定哈希
//
// 验证方可将该哈希固定在配置中，检测密钥被替换的情形。
func VerifyingKeyHash(hm crypto.HashManager, vk groth16.VerifyingKey) ([]byte, error) {
	data, err := SerializeVerifyingKey(vk)
	if err != nil {
		return nil, err
	}
	return hm.SHA256(data), nil
}
