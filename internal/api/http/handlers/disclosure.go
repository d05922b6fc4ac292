// disclosure.go 实现选择性披露绑定端点
package handlers

import (
	"encoding/base64"
	"encoding/hex"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/zkidchain/v1/internal/api/http/middleware"
	"github.com/zkidchain/v1/internal/core/credential/disclosure"
	"github.com/zkidchain/v1/pkg/interfaces/infrastructure/log"
)

// ==================== 请求响应结构定义 ====================

// BindDisclosureRequest 披露绑定请求
type BindDisclosureRequest struct {
	CredentialID   string   `json:"credential_id" binding:"required"` // hex(32字节)
	CredentialType string   `json:"credential_type" binding:"required"`
	Active         bool     `json:"active"`
	FieldsToReveal []uint32 `json:"fields_to_reveal" binding:"required"`
	Proof          string   `json:"proof" binding:"required"` // base64
	Timestamp      uint64   `json:"timestamp"`
}

// BindDisclosureResponse 披露绑定响应
type BindDisclosureResponse struct {
	DisclosureID string   `json:"disclosure_id"` // hex(32字节)
	FieldsBitmap uint64   `json:"fields_bitmap"`
	Timestamp    uint64   `json:"timestamp"`
	Fields       []uint32 `json:"fields"`
}

// ==================== 披露API处理器 ====================

// DisclosureHandler 选择性披露HTTP处理器
type DisclosureHandler struct {
	binder *disclosure.Binder
	logger log.Logger
}

// NewDisclosureHandler 创建披露处理器实例
func NewDisclosureHandler(binder *disclosure.Binder, logger log.Logger) *DisclosureHandler {
	return &DisclosureHandler{binder: binder, logger: logger}
}

// Bind 处理披露绑定请求
//
// POST /api/v1/disclosures
// 重放与过期返回409，其余校验失败返回400。
func (h *DisclosureHandler) Bind(c *gin.Context) {
	var req BindDisclosureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}

	credIDBytes, err := hex.DecodeString(req.CredentialID)
	if err != nil || len(credIDBytes) != disclosure.IDLen {
		c.JSON(http.StatusBadRequest, gin.H{"error": "credential_id must be 32 hex-encoded bytes"})
		return
	}
	var credID [disclosure.IDLen]byte
	copy(credID[:], credIDBytes)

	proofBytes, err := base64.StdEncoding.DecodeString(req.Proof)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "proof decode error"})
		return
	}

	h.logger.Debugf("披露绑定请求: requestID=%s, fields=%d", middleware.GetRequestID(c), len(req.FieldsToReveal))

	record, err := h.binder.Bind(&disclosure.BindRequest{
		CredentialID:   credID,
		CredentialType: req.CredentialType,
		Active:         req.Active,
		FieldsToReveal: req.FieldsToReveal,
		Proof:          proofBytes,
		Timestamp:      req.Timestamp,
	})
	if err != nil {
		c.JSON(disclosureStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, BindDisclosureResponse{
		DisclosureID: hex.EncodeToString(record.DisclosureID[:]),
		FieldsBitmap: record.FieldsBitmap,
		Timestamp:    record.Timestamp,
		Fields:       record.FieldsRevealed,
	})
}

// History 查询凭证的披露记录
//
// GET /api/v1/disclosures/:credential_id
func (h *DisclosureHandler) History(c *gin.Context) {
	credIDBytes, err := hex.DecodeString(c.Param("credential_id"))
	if err != nil || len(credIDBytes) != disclosure.IDLen {
		c.JSON(http.StatusBadRequest, gin.H{"error": "credential_id must be 32 hex-encoded bytes"})
		return
	}
	var credID [disclosure.IDLen]byte
	copy(credID[:], credIDBytes)

	records := h.binder.CredentialDisclosures(credID)
	out := make([]BindDisclosureResponse, 0, len(records))
	for _, rec := range records {
		out = append(out, BindDisclosureResponse{
			DisclosureID: hex.EncodeToString(rec.DisclosureID[:]),
			FieldsBitmap: rec.FieldsBitmap,
			Timestamp:    rec.Timestamp,
			Fields:       rec.FieldsRevealed,
		})
	}

	c.JSON(http.StatusOK, gin.H{"disclosures": out})
}

// disclosureStatus 错误到HTTP状态的映射（重放/过期需要调用方不同响应）
func disclosureStatus(err error) int {
	switch {
	case errors.Is(err, disclosure.ErrReplayDetected), errors.Is(err, disclosure.ErrStaleDisclosure):
		return http.StatusConflict
	default:
		return http.StatusBadRequest
	}
}
