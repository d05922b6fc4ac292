// Package disclosure 实现凭证字段的选择性披露绑定
//
// ============================================================================
// 选择性披露绑定器
// ============================================================================
//
// 🎯 **专门职责**：
// 为"披露凭证的某个字段子集"生成确定性承诺并维护非重放记录：
// - 承诺 = BLAKE2b-256(credential_id ‖ field_idx(LE,4B)... ‖ proof ‖ timestamp(LE,8B))
// - 字段索引必须在凭证类型声明的模式范围内，且不得重复
// - 同一承诺只接受一次（重放拒绝）
// - 时间戳相对验证时间不得超出24小时新鲜度窗口
//
// ⚠️ **边界澄清**：绑定层不重跑zk-SNARK验证。"披露记录有效"断言的是
// 字段集完整性与非重放，不是谓词可靠性；二者不可混同。
//
// ============================================================================
package disclosure

import (
	"encoding/binary"
	"sync"
	"time"

	"github.com/zkidchain/v1/pkg/interfaces/infrastructure/crypto"
	"github.com/zkidchain/v1/pkg/interfaces/infrastructure/log"
)

const (
	// MaxRevealFields 单次披露的字段数上限
	MaxRevealFields = 50

	// FreshnessWindowSeconds 披露时间戳的新鲜度窗口（24小时）
	FreshnessWindowSeconds = 86400

	// BitmapCapacity 字段位图容量（u64位图）
	BitmapCapacity = 64

	// IDLen 凭证/披露标识的字节长度
	IDLen = 32
)

// SchemaSource 提供凭证类型的模式字段数
type SchemaSource interface {
	// FieldCount 返回凭证类型声明的字段数；类型未注册时 ok=false
	FieldCount(credentialType string) (count uint32, ok bool)
}

// StaticSchemaSource 静态模式表（凭证类型 → 字段数）
type StaticSchemaSource map[string]uint32

// FieldCount 实现 SchemaSource
func (s StaticSchemaSource) FieldCount(credentialType string) (uint32, bool) {
	count, ok := s[credentialType]
	return count, ok
}

// BindRequest 披露绑定请求
type BindRequest struct {
	CredentialID   [IDLen]byte // 凭证标识
	CredentialType string      // 凭证类型（模式查找键）
	Active         bool        // 凭证是否处于激活状态
	FieldsToReveal []uint32    // 要披露的字段索引
	Proof          []byte      // 关联的证明字节（本层不验证其谓词）
	Timestamp      uint64      // 披露时间戳（Unix秒）；为0时取当前时间
}

// Record 已接受的披露记录
type Record struct {
	DisclosureID   [IDLen]byte
	CredentialID   [IDLen]byte
	FieldsRevealed []uint32
	FieldsBitmap   uint64
	Timestamp      uint64
}

// Binder 选择性披露绑定器
//
// 并发安全：记录表与计数器由互斥锁保护，Bind可被并发调用。
type Binder struct {
	logger      log.Logger
	hashManager crypto.HashManager
	schemas     SchemaSource
	nowFunc     func() uint64

	mu          sync.Mutex
	records     map[[IDLen]byte]*Record
	fieldCounts map[fieldKey]uint64
}

type fieldKey struct {
	credentialID [IDLen]byte
	fieldIndex   uint32
}

// NewBinder 创建披露绑定器
func NewBinder(logger log.Logger, hashManager crypto.HashManager, schemas SchemaSource) *Binder {
	return &Binder{
		logger:      logger,
		hashManager: hashManager,
		schemas:     schemas,
		nowFunc:     func() uint64 { return uint64(time.Now().Unix()) },
		records:     make(map[[IDLen]byte]*Record),
		fieldCounts: make(map[fieldKey]uint64),
	}
}

// SetNowFunc 注入时间源（测试用）
func (b *Binder) SetNowFunc(now func() uint64) {
	b.nowFunc = now
}

// Bind 校验披露请求并记录承诺
//
// 校验顺序：状态 → 字段集 → 模式范围 → 新鲜度 → 重放。
// 全部通过后原子地写入记录并递增字段披露计数。
func (b *Binder) Bind(req *BindRequest) (*Record, error) {
	if !req.Active {
		return nil, ErrCredentialRevoked
	}
	if len(req.FieldsToReveal) == 0 {
		return nil, ErrNoFieldsToReveal
	}
	if len(req.FieldsToReveal) > MaxRevealFields {
		return nil, WrapTooManyFieldsError(len(req.FieldsToReveal), MaxRevealFields)
	}
	if len(req.Proof) == 0 {
		return nil, ErrEmptyProof
	}

	if err := b.validateFieldIndices(req.CredentialType, req.FieldsToReveal); err != nil {
		return nil, err
	}

	bitmap, err := FieldsBitmap(req.FieldsToReveal)
	if err != nil {
		return nil, err
	}

	timestamp := req.Timestamp
	now := b.nowFunc()
	if timestamp == 0 {
		timestamp = now
	}

	// 新鲜度：饱和减法语义，未来时间戳视为年龄0
	var age uint64
	if now > timestamp {
		age = now - timestamp
	}
	if age > FreshnessWindowSeconds {
		return nil, WrapStaleDisclosureError(age, FreshnessWindowSeconds)
	}

	disclosureID := b.generateDisclosureID(req.CredentialID, req.FieldsToReveal, req.Proof, timestamp)

	b.mu.Lock()
	defer b.mu.Unlock()

	if _, exists := b.records[disclosureID]; exists {
		return nil, ErrReplayDetected
	}

	record := &Record{
		DisclosureID:   disclosureID,
		CredentialID:   req.CredentialID,
		FieldsRevealed: append([]uint32(nil), req.FieldsToReveal...),
		FieldsBitmap:   bitmap,
		Timestamp:      timestamp,
	}
	b.records[disclosureID] = record

	for _, idx := range req.FieldsToReveal {
		key := fieldKey{credentialID: req.CredentialID, fieldIndex: idx}
		b.fieldCounts[key]++
	}

	b.logger.Debugf("披露绑定成功: fields=%d, timestamp=%d", len(req.FieldsToReveal), timestamp)

	return record, nil
}

// validateFieldIndices 校验字段索引在模式范围内且不重复
func (b *Binder) validateFieldIndices(credentialType string, fields []uint32) error {
	maxFields, ok := b.schemas.FieldCount(credentialType)
	if !ok || maxFields == 0 {
		return WrapSchemaNotFoundError(credentialType)
	}

	seen := make(map[uint32]struct{}, len(fields))
	for _, idx := range fields {
		if idx >= maxFields {
			return WrapInvalidFieldIndicesError("index out of schema bounds")
		}
		if _, dup := seen[idx]; dup {
			return WrapInvalidFieldIndicesError("duplicate index")
		}
		seen[idx] = struct{}{}
	}
	return nil
}

// generateDisclosureID 计算披露承诺
//
// 布局固定：credential_id(32B) ‖ 每个field_idx(LE,4B) ‖ proof ‖ timestamp(LE,8B)。
// 该布局是跨组件线格式，更改会使历史披露记录失去可比性。
func (b *Binder) generateDisclosureID(credentialID [IDLen]byte, fields []uint32, proof []byte, timestamp uint64) [IDLen]byte {
	data := make([]byte, 0, IDLen+4*len(fields)+len(proof)+8)
	data = append(data, credentialID[:]...)

	var idxBuf [4]byte
	for _, idx := range fields {
		binary.LittleEndian.PutUint32(idxBuf[:], idx)
		data = append(data, idxBuf[:]...)
	}

	data = append(data, proof...)

	var tsBuf [8]byte
	binary.LittleEndian.PutUint64(tsBuf[:], timestamp)
	data = append(data, tsBuf[:]...)

	var id [IDLen]byte
	copy(id[:], b.hashManager.Blake2b256(data))
	return id
}

// FieldsBitmap 将字段索引集编码为u64位图
//
// 位图用作电路公开输入的紧凑字段集表示，容量64位。
func FieldsBitmap(fields []uint32) (uint64, error) {
	var bitmap uint64
	for _, idx := range fields {
		if idx >= BitmapCapacity {
			return 0, WrapBitmapIndexTooLargeError(idx)
		}
		bitmap |= 1 << idx
	}
	return bitmap, nil
}

// DisclosureCount 返回某凭证某字段的累计披露次数（分析用）
func (b *Binder) DisclosureCount(credentialID [IDLen]byte, fieldIndex uint32) uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.fieldCounts[fieldKey{credentialID: credentialID, fieldIndex: fieldIndex}]
}

// CredentialDisclosures 返回某凭证的全部披露记录
func (b *Binder) CredentialDisclosures(credentialID [IDLen]byte) []*Record {
	b.mu.Lock()
	defer b.mu.Unlock()

	var out []*Record
	for _, rec := range b.records {
		if rec.CredentialID == credentialID {
			out = append(out, rec)
		}
	}
	return out
}

// Lookup 按披露标识查找记录
func (b *Binder) Lookup(disclosureID [IDLen]byte) (*Record, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	rec, ok := b.records[disclosureID]
	return rec, ok
}
