package zkproof

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"
)

// ============================================================================
// encode.go 测试
// ============================================================================

// TestFieldFromBytes_Length 非32字节输入应拒绝
func TestFieldFromBytes_Length(t *testing.T) {
	_, err := FieldFromBytes([]byte{1, 2, 3})
	require.Error(t, err)
	require.ErrorIs(t, err, ErrInvalidWitness)

	_, err = FieldFromBytes(make([]byte, 33))
	require.Error(t, err)

	_, err = FieldFromBytes(make([]byte, 32))
	require.NoError(t, err)
}

// TestFieldFromBytes_SmallValue 小值按大端序解释
func TestFieldFromBytes_SmallValue(t *testing.T) {
	var b [FieldByteLen]byte
	b[FieldByteLen-1] = 7

	v, err := FieldFromBytes(b[:])
	require.NoError(t, err)
	require.Equal(t, int64(7), v.Int64())
}

// TestFieldRoundTrip 域内值编解码往返一致
func TestFieldRoundTrip(t *testing.T) {
	var b [FieldByteLen]byte
	for i := range b {
		b[i] = byte(i + 1)
	}
	// 首字节清零，保证值小于BN254标量域模数，无约简发生
	b[0] = 0

	v, err := FieldFromBytes(b[:])
	require.NoError(t, err)

	out := FieldToBytes(v)
	require.Equal(t, b, out)
}

// TestFieldFromBytes_Reduction 高于模数的输入被约简（有损，但确定性）
func TestFieldFromBytes_Reduction(t *testing.T) {
	all := make([]byte, FieldByteLen)
	for i := range all {
		all[i] = 0xFF
	}

	v1, err := FieldFromBytes(all)
	require.NoError(t, err)
	v2, err := FieldFromBytes(all)
	require.NoError(t, err)

	// 确定性：同输入同输出
	require.Zero(t, v1.Cmp(v2))
	// 已约简：值小于2^254附近的模数
	require.Less(t, v1.BitLen(), 255)
}

// TestFieldFromUint64 原生整数映射
func TestFieldFromUint64(t *testing.T) {
	require.Equal(t, int64(0), FieldFromUint64(0).Int64())
	require.Equal(t, int64(1700000000), FieldFromUint64(1700000000).Int64())

	out := FieldToBytes(FieldFromUint64(256))
	require.Equal(t, byte(1), out[FieldByteLen-2])
	require.Equal(t, byte(0), out[FieldByteLen-1])
}

// TestFieldToBytes_Zero 零元素编码为全零32字节
func TestFieldToBytes_Zero(t *testing.T) {
	out := FieldToBytes(big.NewInt(0))
	require.Equal(t, [FieldByteLen]byte{}, out)
}
