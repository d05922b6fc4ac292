package disclosure

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zkidchain/v1/internal/core/infrastructure/crypto/hash"
	infralog "github.com/zkidchain/v1/internal/core/infrastructure/log"
)

// ============================================================================
// disclosure.go 测试
// ============================================================================

const testNow = uint64(1700000000)

func newTestBinder() *Binder {
	schemas := StaticSchemaSource{
		"age_credential": 3,
		"big_credential": 100,
	}
	b := NewBinder(infralog.GetLogger(), hash.NewManager(), schemas)
	b.SetNowFunc(func() uint64 { return testNow })
	return b
}

func testRequest() *BindRequest {
	var credID [IDLen]byte
	credID[0] = 0xAB

	return &BindRequest{
		CredentialID:   credID,
		CredentialType: "age_credential",
		Active:         true,
		FieldsToReveal: []uint32{0, 1},
		Proof:          []byte("proof-bytes"),
		Timestamp:      testNow,
	}
}

// TestBind_Success 3字段模式披露[0,1]成功
func TestBind_Success(t *testing.T) {
	b := newTestBinder()

	rec, err := b.Bind(testRequest())
	require.NoError(t, err)
	require.Equal(t, []uint32{0, 1}, rec.FieldsRevealed)
	require.Equal(t, uint64(0b11), rec.FieldsBitmap)
	require.Equal(t, testNow, rec.Timestamp)
	require.NotEqual(t, [IDLen]byte{}, rec.DisclosureID)

	found, ok := b.Lookup(rec.DisclosureID)
	require.True(t, ok)
	require.Equal(t, rec, found)
}

// TestBind_Replay 完全相同的请求第二次被拒绝
func TestBind_Replay(t *testing.T) {
	b := newTestBinder()

	_, err := b.Bind(testRequest())
	require.NoError(t, err)

	_, err = b.Bind(testRequest())
	require.ErrorIs(t, err, ErrReplayDetected)
}

// TestBind_DifferentTimestampNotReplay 时间戳不同则承诺不同，非重放
func TestBind_DifferentTimestampNotReplay(t *testing.T) {
	b := newTestBinder()

	_, err := b.Bind(testRequest())
	require.NoError(t, err)

	req := testRequest()
	req.Timestamp = testNow - 10
	_, err = b.Bind(req)
	require.NoError(t, err)
}

// TestBind_OutOfBoundsIndex 索引5超出3字段模式被拒绝
func TestBind_OutOfBoundsIndex(t *testing.T) {
	b := newTestBinder()

	req := testRequest()
	req.FieldsToReveal = []uint32{5}

	_, err := b.Bind(req)
	require.ErrorIs(t, err, ErrInvalidFieldIndices)
}

// TestBind_DuplicateIndex 重复索引被拒绝
func TestBind_DuplicateIndex(t *testing.T) {
	b := newTestBinder()

	req := testRequest()
	req.FieldsToReveal = []uint32{1, 1}

	_, err := b.Bind(req)
	require.ErrorIs(t, err, ErrInvalidFieldIndices)
}

// TestBind_RevokedCredential 非激活凭证被拒绝
func TestBind_RevokedCredential(t *testing.T) {
	b := newTestBinder()

	req := testRequest()
	req.Active = false

	_, err := b.Bind(req)
	require.ErrorIs(t, err, ErrCredentialRevoked)
}

// TestBind_NoFields 空字段集被拒绝
func TestBind_NoFields(t *testing.T) {
	b := newTestBinder()

	req := testRequest()
	req.FieldsToReveal = nil

	_, err := b.Bind(req)
	require.ErrorIs(t, err, ErrNoFieldsToReveal)
}

// TestBind_TooManyFields 超过50个字段被拒绝
func TestBind_TooManyFields(t *testing.T) {
	b := newTestBinder()

	req := testRequest()
	req.CredentialType = "big_credential"
	req.FieldsToReveal = make([]uint32, MaxRevealFields+1)
	for i := range req.FieldsToReveal {
		req.FieldsToReveal[i] = uint32(i)
	}

	_, err := b.Bind(req)
	require.ErrorIs(t, err, ErrTooManyFields)
}

// TestBind_UnknownSchema 未注册凭证类型被拒绝
func TestBind_UnknownSchema(t *testing.T) {
	b := newTestBinder()

	req := testRequest()
	req.CredentialType = "unknown_type"

	_, err := b.Bind(req)
	require.ErrorIs(t, err, ErrSchemaNotFound)
}

// TestBind_StaleTimestamp 超过24小时的时间戳被拒绝
func TestBind_StaleTimestamp(t *testing.T) {
	b := newTestBinder()

	req := testRequest()
	req.Timestamp = testNow - FreshnessWindowSeconds - 1

	_, err := b.Bind(req)
	require.ErrorIs(t, err, ErrStaleDisclosure)

	// 恰好在窗口边界内可接受
	req2 := testRequest()
	req2.Timestamp = testNow - FreshnessWindowSeconds
	_, err = b.Bind(req2)
	require.NoError(t, err)
}

// TestBind_EmptyProof 空证明字节被拒绝
func TestBind_EmptyProof(t *testing.T) {
	b := newTestBinder()

	req := testRequest()
	req.Proof = nil

	_, err := b.Bind(req)
	require.ErrorIs(t, err, ErrEmptyProof)
}

// TestBind_ZeroTimestampUsesNow 时间戳为0时取当前时间
func TestBind_ZeroTimestampUsesNow(t *testing.T) {
	b := newTestBinder()

	req := testRequest()
	req.Timestamp = 0

	rec, err := b.Bind(req)
	require.NoError(t, err)
	require.Equal(t, testNow, rec.Timestamp)
}

// TestFieldsBitmap 位图编码与容量检查
func TestFieldsBitmap(t *testing.T) {
	bitmap, err := FieldsBitmap([]uint32{0, 2, 63})
	require.NoError(t, err)
	require.Equal(t, uint64(1)|uint64(1)<<2|uint64(1)<<63, bitmap)

	_, err = FieldsBitmap([]uint32{64})
	require.ErrorIs(t, err, ErrBitmapIndexTooLarge)
}

// TestDisclosureCount 字段披露计数递增
func TestDisclosureCount(t *testing.T) {
	b := newTestBinder()
	req := testRequest()

	_, err := b.Bind(req)
	require.NoError(t, err)

	req2 := testRequest()
	req2.FieldsToReveal = []uint32{1, 2}
	req2.Timestamp = testNow - 5
	_, err = b.Bind(req2)
	require.NoError(t, err)

	require.Equal(t, uint64(1), b.DisclosureCount(req.CredentialID, 0))
	require.Equal(t, uint64(2), b.DisclosureCount(req.CredentialID, 1))
	require.Equal(t, uint64(1), b.DisclosureCount(req.CredentialID, 2))
	require.Zero(t, b.DisclosureCount(req.CredentialID, 9))
}

// TestCredentialDisclosures 按凭证聚合披露记录
func TestCredentialDisclosures(t *testing.T) {
	b := newTestBinder()

	req := testRequest()
	_, err := b.Bind(req)
	require.NoError(t, err)

	req2 := testRequest()
	req2.Timestamp = testNow - 100
	_, err = b.Bind(req2)
	require.NoError(t, err)

	var otherID [IDLen]byte
	otherID[0] = 0xCD
	req3 := testRequest()
	req3.CredentialID = otherID
	_, err = b.Bind(req3)
	require.NoError(t, err)

	require.Len(t, b.CredentialDisclosures(req.CredentialID), 2)
	require.Len(t, b.CredentialDisclosures(otherID), 1)
}
