// Package handlers 提供凭证证明引擎的HTTP API处理器
//
// proof.go 实现证明生成与验证端点
//
// ⚠️ **隐私约束**：请求体包含私有见证，处理器不记录请求内容，
// 仅记录请求ID与电路标识。
package handlers

import (
	"encoding/base64"
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/zkidchain/v1/internal/api/http/middleware"
	proverapi "github.com/zkidchain/v1/internal/api/prover"
	"github.com/zkidchain/v1/internal/core/credential/zkproof"
	"github.com/zkidchain/v1/internal/core/credential/zkproof/circuits"
	"github.com/zkidchain/v1/pkg/interfaces/infrastructure/log"
)

// ==================== 请求响应结构定义 ====================

// VerifyProofRequest 证明验证请求
type VerifyProofRequest struct {
	CircuitID    string          `json:"circuit_id" binding:"required"`
	PublicInputs json.RawMessage `json:"public_inputs" binding:"required"`
	Proof        string          `json:"proof" binding:"required"`  // base64(压缩证明)
	VerifyingKey string          `json:"verifying_key"`             // base64，可选
	NbPrivate    int             `json:"nb_private"`                // 仅自定义电路需要
}

// VerifyProofResponse 证明验证响应
type VerifyProofResponse struct {
	Valid bool   `json:"valid"`
	Error string `json:"error,omitempty"`
}

// ==================== 证明API处理器 ====================

// ProofHandler 证明HTTP处理器
type ProofHandler struct {
	service *proverapi.Service
	engine  *zkproof.Manager
	logger  log.Logger
}

// NewProofHandler 创建证明处理器实例
func NewProofHandler(service *proverapi.Service, engine *zkproof.Manager, logger log.Logger) *ProofHandler {
	return &ProofHandler{
		service: service,
		engine:  engine,
		logger:  logger,
	}
}

// Generate 处理证明生成请求
//
// POST /api/v1/proofs
// 请求体即封套线格式；所有结果（含错误）以封套返回，HTTP状态恒为200，
// 调用方按封套的 ok 字段判定。
func (h *ProofHandler) Generate(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "failed to read request body"})
		return
	}

	h.logger.Debugf("证明生成请求: requestID=%s", middleware.GetRequestID(c))

	respBytes := h.service.HandleRequest(c.Request.Context(), body)
	c.Data(http.StatusOK, "application/json", respBytes)
}

// Verify 处理证明验证请求
//
// POST /api/v1/proofs/verify
// 返回约定：证明无效 → {valid:false}；输入结构损坏 → 400。
func (h *ProofHandler) Verify(c *gin.Context) {
	var req VerifyProofRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, VerifyProofResponse{Valid: false, Error: "invalid request: " + err.Error()})
		return
	}

	circuitID := circuits.CircuitID(req.CircuitID)
	if !circuitID.IsValid() {
		c.JSON(http.StatusBadRequest, VerifyProofResponse{Valid: false, Error: "unknown circuit id: " + req.CircuitID})
		return
	}

	inst, err := proverapi.BuildVerifyInstance(circuitID, req.PublicInputs, req.NbPrivate)
	if err != nil {
		c.JSON(http.StatusBadRequest, VerifyProofResponse{Valid: false, Error: err.Error()})
		return
	}

	proofBytes, err := base64.StdEncoding.DecodeString(req.Proof)
	if err != nil {
		c.JSON(http.StatusBadRequest, VerifyProofResponse{Valid: false, Error: "proof decode error"})
		return
	}

	h.logger.Debugf("证明验证请求: requestID=%s, circuitID=%s", middleware.GetRequestID(c), circuitID)

	var valid bool
	if req.VerifyingKey != "" {
		vkBytes, decErr := base64.StdEncoding.DecodeString(req.VerifyingKey)
		if decErr != nil {
			c.JSON(http.StatusBadRequest, VerifyProofResponse{Valid: false, Error: "verifying key decode error"})
			return
		}
		valid, err = h.engine.Validator().VerifyProofWithKey(c.Request.Context(), inst, vkBytes, proofBytes)
	} else {
		valid, err = h.engine.VerifyProof(c.Request.Context(), inst, proofBytes)
	}

	if err != nil {
		// 结构损坏类错误；验证为假不走这个分支
		c.JSON(http.StatusBadRequest, VerifyProofResponse{Valid: false, Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, VerifyProofResponse{Valid: valid})
}
