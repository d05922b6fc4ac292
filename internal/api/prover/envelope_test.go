package prover

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zkidchain/v1/internal/core/credential/zkproof"
	"github.com/zkidchain/v1/internal/core/infrastructure/crypto/hash"
	infralog "github.com/zkidchain/v1/internal/core/infrastructure/log"
)

// ============================================================================
// envelope.go 测试
// ============================================================================

const testTimestamp = uint64(1700000000)

func newTestService() *Service {
	engine := zkproof.NewManager(hash.NewManager(), infralog.GetLogger(), nil)
	return NewService(infralog.GetLogger(), engine)
}

func b64Hash(fill byte) string {
	var h [32]byte
	for i := range h {
		h[i] = fill
	}
	h[0] = 0
	return base64.StdEncoding.EncodeToString(h[:])
}

func ageRequest(t *testing.T, thresholdYears, birthTimestamp uint64) []byte {
	t.Helper()

	pub, err := json.Marshal(map[string]interface{}{
		"current_timestamp":    testTimestamp,
		"age_threshold_years":  thresholdYears,
		"credential_type_hash": b64Hash(0x11),
	})
	require.NoError(t, err)

	privJSON, err := json.Marshal(map[string]interface{}{
		"birth_timestamp":       birthTimestamp,
		"credential_hash":       b64Hash(0x22),
		"issuer_signature_hash": b64Hash(0x33),
	})
	require.NoError(t, err)

	req, err := json.Marshal(Request{
		CircuitID:     "age_verification",
		PublicInputs:  pub,
		PrivateInputs: base64.StdEncoding.EncodeToString(privJSON),
	})
	require.NoError(t, err)
	return req
}

// TestHandleRequest_AgeSuccess 有效年龄请求产生证明
func TestHandleRequest_AgeSuccess(t *testing.T) {
	s := newTestService()

	respBytes := s.HandleRequest(context.Background(), ageRequest(t, 18, testTimestamp-25*365*24*3600))

	var resp Response
	require.NoError(t, json.Unmarshal(respBytes, &resp))
	require.True(t, resp.Ok)
	require.Empty(t, resp.Error)
	require.NotEmpty(t, resp.Proof)
	require.Len(t, resp.PublicInputs, 3)

	// 公开输入按电路声明顺序：时间戳、阈值、类型哈希
	first, err := base64.StdEncoding.DecodeString(resp.PublicInputs[0])
	require.NoError(t, err)
	require.Len(t, first, 32)
}

// TestHandleRequest_UnderAge 谓词不满足时 ok=false 且错误不含见证值
func TestHandleRequest_UnderAge(t *testing.T) {
	s := newTestService()

	birth := testTimestamp - 18*365*24*3600
	respBytes := s.HandleRequest(context.Background(), ageRequest(t, 21, birth))

	var resp Response
	require.NoError(t, json.Unmarshal(respBytes, &resp))
	require.False(t, resp.Ok)
	require.NotEmpty(t, resp.Error)
	require.Empty(t, resp.Proof)
	// 出生时间戳不得出现在错误消息中
	require.NotContains(t, resp.Error, "1132")
}

// TestHandleRequest_UnknownCircuit 未知电路标识是请求级错误
func TestHandleRequest_UnknownCircuit(t *testing.T) {
	s := newTestService()

	req, err := json.Marshal(Request{
		CircuitID:     "merkle_membership",
		PublicInputs:  json.RawMessage(`{}`),
		PrivateInputs: base64.StdEncoding.EncodeToString([]byte(`{}`)),
	})
	require.NoError(t, err)

	var resp Response
	require.NoError(t, json.Unmarshal(s.HandleRequest(context.Background(), req), &resp))
	require.False(t, resp.Ok)
	require.Contains(t, resp.Error, "unknown circuit id")
}

// TestHandleRequest_MalformedJSON JSON解析失败返回封套错误
func TestHandleRequest_MalformedJSON(t *testing.T) {
	s := newTestService()

	var resp Response
	require.NoError(t, json.Unmarshal(s.HandleRequest(context.Background(), []byte("{not json")), &resp))
	require.False(t, resp.Ok)
	require.Contains(t, resp.Error, "json parse error")
}

// TestHandleRequest_BadHashLength 哈希长度错误在密码学计算前拒绝
func TestHandleRequest_BadHashLength(t *testing.T) {
	s := newTestService()

	pub, err := json.Marshal(map[string]interface{}{
		"current_timestamp":    testTimestamp,
		"age_threshold_years":  18,
		"credential_type_hash": base64.StdEncoding.EncodeToString([]byte("short")),
	})
	require.NoError(t, err)

	privJSON, err := json.Marshal(map[string]interface{}{
		"birth_timestamp":       testTimestamp - 25*365*24*3600,
		"credential_hash":       b64Hash(0x22),
		"issuer_signature_hash": b64Hash(0x33),
	})
	require.NoError(t, err)

	req, err := json.Marshal(Request{
		CircuitID:     "age_verification",
		PublicInputs:  pub,
		PrivateInputs: base64.StdEncoding.EncodeToString(privJSON),
	})
	require.NoError(t, err)

	var resp Response
	require.NoError(t, json.Unmarshal(s.HandleRequest(context.Background(), req), &resp))
	require.False(t, resp.Ok)
	require.Contains(t, resp.Error, "32 bytes")
}

// TestHandleRequest_BadPrivateBlob 非base64私有块被拒绝
func TestHandleRequest_BadPrivateBlob(t *testing.T) {
	s := newTestService()

	req, err := json.Marshal(Request{
		CircuitID:     "age_verification",
		PublicInputs:  json.RawMessage(`{}`),
		PrivateInputs: "!!!not-base64!!!",
	})
	require.NoError(t, err)

	var resp Response
	require.NoError(t, json.Unmarshal(s.HandleRequest(context.Background(), req), &resp))
	require.False(t, resp.Ok)
	require.Contains(t, resp.Error, "decode error")
}

// TestHandleRequest_WithProvingKey 外部证明密钥路径
func TestHandleRequest_WithProvingKey(t *testing.T) {
	engine := zkproof.NewManager(hash.NewManager(), infralog.GetLogger(), nil)
	s := NewService(infralog.GetLogger(), engine)

	_, pk, _, err := engine.CircuitManager().GetTrustedSetup("age_verification")
	require.NoError(t, err)
	pkBytes, err := zkproof.SerializeProvingKey(pk)
	require.NoError(t, err)

	pub, err := json.Marshal(map[string]interface{}{
		"current_timestamp":    testTimestamp,
		"age_threshold_years":  18,
		"credential_type_hash": b64Hash(0x11),
	})
	require.NoError(t, err)
	privJSON, err := json.Marshal(map[string]interface{}{
		"birth_timestamp":       testTimestamp - 30*365*24*3600,
		"credential_hash":       b64Hash(0x22),
		"issuer_signature_hash": b64Hash(0x33),
	})
	require.NoError(t, err)

	req, err := json.Marshal(Request{
		CircuitID:     "age_verification",
		PublicInputs:  pub,
		PrivateInputs: base64.StdEncoding.EncodeToString(privJSON),
		ProvingKey:    base64.StdEncoding.EncodeToString(pkBytes),
	})
	require.NoError(t, err)

	var resp Response
	require.NoError(t, json.Unmarshal(s.HandleRequest(context.Background(), req), &resp))
	require.True(t, resp.Ok)
	require.NotEmpty(t, resp.Proof)
}
