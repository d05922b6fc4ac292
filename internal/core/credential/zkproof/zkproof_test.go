package zkproof

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zkidchain/v1/internal/core/infrastructure/crypto/hash"
	infralog "github.com/zkidchain/v1/internal/core/infrastructure/log"
)

// ============================================================================
// 证明生成与验证端到端测试
// ============================================================================

var (
	testManagerOnce sync.Once
	testManager     *Manager
)

// sharedManager 共享引擎实例（可信设置较重，全包测试复用一套）
func sharedManager() *Manager {
	testManagerOnce.Do(func() {
		testManager = NewManager(hash.NewManager(), infralog.GetLogger(), nil)
	})
	return testManager
}

const testTimestamp = uint64(1700000000)

func testHash(fill byte) [FieldByteLen]byte {
	var h [FieldByteLen]byte
	for i := range h {
		h[i] = fill
	}
	h[0] = 0 // 保持在域内，避免约简引入测试噪声
	return h
}

func validAgeInputs() (*AgePublicInputs, *AgePrivateInputs) {
	pub := &AgePublicInputs{
		CurrentTimestamp:   testTimestamp,
		AgeThresholdYears:  18,
		CredentialTypeHash: testHash(0x11),
	}
	priv := &AgePrivateInputs{
		BirthTimestamp:      testTimestamp - 25*365*24*3600,
		CredentialHash:      testHash(0x22),
		IssuerSignatureHash: testHash(0x33),
	}
	return pub, priv
}

// TestGenerateAndVerifyAgeProof 25岁证明18岁门槛，验证通过
func TestGenerateAndVerifyAgeProof(t *testing.T) {
	m := sharedManager()
	pub, priv := validAgeInputs()

	result, err := m.Prover().GenerateAgeProof(context.Background(), pub, priv)
	require.NoError(t, err)
	require.NotEmpty(t, result.ProofData)
	require.Len(t, result.PublicInputs, 3)
	require.Len(t, result.VKHash, 32)
	require.NotZero(t, result.ConstraintCount)

	verifyPub, _ := validAgeInputs()
	ok, err := m.Validator().VerifyProof(context.Background(), &AgeInstance{Public: *verifyPub}, result.ProofData)
	require.NoError(t, err)
	require.True(t, ok)
}

// TestVerifyProof_TamperedPublicInput 篡改公开输入后验证为假（非错误）
func TestVerifyProof_TamperedPublicInput(t *testing.T) {
	m := sharedManager()
	pub, priv := validAgeInputs()

	result, err := m.Prover().GenerateAgeProof(context.Background(), pub, priv)
	require.NoError(t, err)

	tamperedPub, _ := validAgeInputs()
	tamperedPub.AgeThresholdYears = 19

	ok, err := m.Validator().VerifyProof(context.Background(), &AgeInstance{Public: *tamperedPub}, result.ProofData)
	require.NoError(t, err)
	require.False(t, ok)
}

// TestGenerateProof_UnderAge 18岁证明21岁门槛，证明生成失败
func TestGenerateProof_UnderAge(t *testing.T) {
	m := sharedManager()

	pub := &AgePublicInputs{
		CurrentTimestamp:   testTimestamp,
		AgeThresholdYears:  21,
		CredentialTypeHash: testHash(0x11),
	}
	priv := &AgePrivateInputs{
		BirthTimestamp:      testTimestamp - 18*365*24*3600,
		CredentialHash:      testHash(0x22),
		IssuerSignatureHash: testHash(0x33),
	}

	_, err := m.Prover().GenerateAgeProof(context.Background(), pub, priv)
	require.Error(t, err)
	require.ErrorIs(t, err, ErrProofGenerationFailed)
	// 错误消息不得包含约束求解细节
	require.NotContains(t, err.Error(), "constraint #")
}

// TestProofSerializationRoundTrip 证明序列化往返后验证结果不变
func TestProofSerializationRoundTrip(t *testing.T) {
	m := sharedManager()
	pub, priv := validAgeInputs()

	result, err := m.Prover().GenerateAgeProof(context.Background(), pub, priv)
	require.NoError(t, err)

	curveID, err := m.CircuitManager().resolveCurveID()
	require.NoError(t, err)

	proof, err := DeserializeProof(curveID, result.ProofData)
	require.NoError(t, err)

	reserialized, err := SerializeProof(proof)
	require.NoError(t, err)
	require.Equal(t, result.ProofData, reserialized)

	verifyPub, _ := validAgeInputs()
	ok, err := m.Validator().VerifyProof(context.Background(), &AgeInstance{Public: *verifyPub}, reserialized)
	require.NoError(t, err)
	require.True(t, ok)
}

// TestVerifyProof_CorruptProofBytes 损坏的证明字节归为结构错误
func TestVerifyProof_CorruptProofBytes(t *testing.T) {
	m := sharedManager()
	pub, _ := validAgeInputs()

	ok, err := m.Validator().VerifyProof(context.Background(), &AgeInstance{Public: *pub}, []byte{0xDE, 0xAD})
	require.False(t, ok)
	require.Error(t, err)
	require.ErrorIs(t, err, ErrCorruptArtifact)
}

// TestGenerateProofWithProvingKey 外部密钥路径
func TestGenerateProofWithProvingKey(t *testing.T) {
	m := sharedManager()

	_, pk, vk, err := m.CircuitManager().GetTrustedSetup("age_verification")
	require.NoError(t, err)

	pkBytes, err := SerializeProvingKey(pk)
	require.NoError(t, err)
	vkBytes, err := SerializeVerifyingKey(vk)
	require.NoError(t, err)

	pub, priv := validAgeInputs()
	result, err := m.Prover().GenerateProofWithProvingKey(context.Background(), &AgeInstance{Public: *pub, Private: *priv}, pkBytes)
	require.NoError(t, err)
	require.Nil(t, result.VKHash) // 外部密钥路径不计算VK哈希

	verifyPub, _ := validAgeInputs()
	ok, err := m.Validator().VerifyProofWithKey(context.Background(), &AgeInstance{Public: *verifyPub}, vkBytes, result.ProofData)
	require.NoError(t, err)
	require.True(t, ok)
}

// TestGenerateAgeProof_ZeroizesPrivateInputs 证明后私有输入被清零
func TestGenerateAgeProof_ZeroizesPrivateInputs(t *testing.T) {
	m := sharedManager()
	pub, priv := validAgeInputs()

	_, err := m.Prover().GenerateAgeProof(context.Background(), pub, priv)
	require.NoError(t, err)

	require.Zero(t, priv.BirthTimestamp)
	require.Equal(t, [FieldByteLen]byte{}, priv.CredentialHash)
	require.Equal(t, [FieldByteLen]byte{}, priv.IssuerSignatureHash)
}

// TestGenerateAgeProof_ZeroizesOnFailure 失败路径同样清零
func TestGenerateAgeProof_ZeroizesOnFailure(t *testing.T) {
	m := sharedManager()

	pub := &AgePublicInputs{
		CurrentTimestamp:   testTimestamp,
		AgeThresholdYears:  99,
		CredentialTypeHash: testHash(0x11),
	}
	priv := &AgePrivateInputs{
		BirthTimestamp:      testTimestamp - 18*365*24*3600,
		CredentialHash:      testHash(0x22),
		IssuerSignatureHash: testHash(0x33),
	}

	_, err := m.Prover().GenerateAgeProof(context.Background(), pub, priv)
	require.Error(t, err)
	require.Zero(t, priv.BirthTimestamp)
	require.Equal(t, [FieldByteLen]byte{}, priv.CredentialHash)
}

// TestVerifyProof_PinnedVKMismatch 锚定哈希不符时拒绝验证
func TestVerifyProof_PinnedVKMismatch(t *testing.T) {
	cfg := DefaultManagerConfig()
	cfg.PinnedVKHashes["age_verification"] = "00000000000000000000000000000000000000000000000000000000000000ff"

	m := NewManager(hash.NewManager(), infralog.GetLogger(), cfg)

	pub, priv := validAgeInputs()
	result, err := m.Prover().GenerateAgeProof(context.Background(), pub, priv)
	require.NoError(t, err)

	verifyPub, _ := validAgeInputs()
	ok, err := m.Validator().VerifyProof(context.Background(), &AgeInstance{Public: *verifyPub}, result.ProofData)
	require.False(t, ok)
	require.ErrorIs(t, err, ErrVerifyingKeyMismatch)
}

// TestStudentProofLifecycle 学生电路端到端
func TestStudentProofLifecycle(t *testing.T) {
	m := sharedManager()

	pub := &StudentPublicInputs{
		CurrentTimestamp: testTimestamp,
		InstitutionHash:  testHash(0x44),
		StatusActive:     true,
	}
	priv := &StudentPrivateInputs{
		StudentIDHash:       testHash(0x55),
		EnrollmentDate:      testTimestamp - 365*24*3600,
		ExpiryDate:          testTimestamp + 365*24*3600,
		Gpa:                 350,
		CredentialHash:      testHash(0x66),
		IssuerSignatureHash: testHash(0x77),
	}

	result, err := m.Prover().GenerateStudentProof(context.Background(), pub, priv)
	require.NoError(t, err)

	ok, err := m.Validator().VerifyProof(context.Background(), &StudentInstance{Public: *pub}, result.ProofData)
	require.NoError(t, err)
	require.True(t, ok)
}

// TestEmploymentProofLifecycle 雇佣电路端到端（在职哨兵值）
func TestEmploymentProofLifecycle(t *testing.T) {
	m := sharedManager()

	pub := &EmploymentPublicInputs{
		CurrentTimestamp:   testTimestamp,
		CompanyHash:        testHash(0x88),
		EmploymentTypeHash: testHash(0x99),
	}
	priv := &EmploymentPrivateInputs{
		EmployeeIDHash:      testHash(0xAA),
		StartDate:           testTimestamp - 2*365*24*3600,
		EndDate:             0,
		Salary:              85000,
		PositionHash:        testHash(0xBB),
		CredentialHash:      testHash(0xCC),
		IssuerSignatureHash: testHash(0xDD),
	}

	result, err := m.Prover().GenerateEmploymentProof(context.Background(), pub, priv)
	require.NoError(t, err)

	ok, err := m.Validator().VerifyProof(context.Background(), &EmploymentInstance{Public: *pub}, result.ProofData)
	require.NoError(t, err)
	require.True(t, ok)
}

// TestVaccinationProof_InsufficientDoses 剂量不足证明失败
func TestVaccinationProof_InsufficientDoses(t *testing.T) {
	m := sharedManager()

	pub := &VaccinationPublicInputs{
		CurrentTimestamp:    testTimestamp,
		VaccinationTypeHash: testHash(0xEE),
		MinDosesRequired:    2,
	}
	priv := &VaccinationPrivateInputs{
		PatientIDHash:       testHash(0x12),
		VaccinationDate:     testTimestamp - 180*24*3600,
		ExpiryDate:          testTimestamp + 365*24*3600,
		DosesReceived:       2, // 等于最低值，严格比较应失败
		BatchNumberHash:     testHash(0x13),
		CredentialHash:      testHash(0x14),
		IssuerSignatureHash: testHash(0x15),
	}

	_, err := m.Prover().GenerateVaccinationProof(context.Background(), pub, priv)
	require.Error(t, err)
	require.ErrorIs(t, err, ErrProofGenerationFailed)
}

// TestManager_Delegation Manager委托与未初始化防护
func TestManager_Delegation(t *testing.T) {
	m := sharedManager()
	require.NotNil(t, m.Prover())
	require.NotNil(t, m.Validator())
	require.NotNil(t, m.CircuitManager())
	require.Equal(t, "groth16", m.Config().DefaultProvingScheme)
	require.Equal(t, "bn254", m.Config().DefaultCurve)

	empty := &Manager{}
	_, err := empty.GenerateProof(context.Background(), &AgeInstance{})
	require.ErrorIs(t, err, ErrProverNotInitialized)
	_, err2 := empty.VerifyProof(context.Background(), &AgeInstance{}, nil)
	require.ErrorIs(t, err2, ErrVerifierNotInitialized)
}
