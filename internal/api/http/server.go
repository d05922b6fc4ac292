// Package http 提供凭证证明引擎的HTTP API服务
package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/zkidchain/v1/internal/api/http/handlers"
	"github.com/zkidchain/v1/internal/api/http/middleware"
	"github.com/zkidchain/v1/pkg/interfaces/infrastructure/log"
)

// ServerConfig HTTP服务器配置
type ServerConfig struct {
	ListenAddr      string // 监听地址，如 ":8080"
	ReadTimeoutSec  int    // 读超时（秒）
	WriteTimeoutSec int    // 写超时（秒）；证明生成是长操作，需留足余量
}

// DefaultServerConfig 返回默认配置
func DefaultServerConfig() *ServerConfig {
	return &ServerConfig{
		ListenAddr:      ":8080",
		ReadTimeoutSec:  30,
		WriteTimeoutSec: 300,
	}
}

// Server 凭证证明引擎HTTP服务器
//
// 路由管理、启动和优雅停止。业务逻辑全部在处理器与核心层，
// 服务器只做装配。
type Server struct {
	router     *gin.Engine
	httpServer *http.Server
	config     *ServerConfig
	logger     log.Logger

	proofHandler      *handlers.ProofHandler
	disclosureHandler *handlers.DisclosureHandler
}

// NewServer 创建HTTP服务器
func NewServer(
	config *ServerConfig,
	logger log.Logger,
	proofHandler *handlers.ProofHandler,
	disclosureHandler *handlers.DisclosureHandler,
) *Server {
	if config == nil {
		config = DefaultServerConfig()
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.NewRequestID().Middleware())
	router.Use(middleware.NewLogger(logger).Middleware())

	s := &Server{
		router:            router,
		config:            config,
		logger:            logger,
		proofHandler:      proofHandler,
		disclosureHandler: disclosureHandler,
	}
	s.setupRoutes()

	return s
}

// setupRoutes 注册API路由
func (s *Server) setupRoutes() {
	s.router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := s.router.Group("/api/v1")
	{
		v1.POST("/proofs", s.proofHandler.Generate)
		v1.POST("/proofs/verify", s.proofHandler.Verify)
		v1.POST("/disclosures", s.disclosureHandler.Bind)
		v1.GET("/disclosures/:credential_id", s.disclosureHandler.History)
	}
}

// Start 启动HTTP服务器（阻塞直到监听失败或Stop被调用）
func (s *Server) Start() error {
	s.httpServer = &http.Server{
		Addr:         s.config.ListenAddr,
		Handler:      s.router,
		ReadTimeout:  time.Duration(s.config.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(s.config.WriteTimeoutSec) * time.Second,
	}

	s.logger.Infof("HTTP服务器启动: addr=%s", s.config.ListenAddr)

	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("HTTP服务器启动失败: %w", err)
	}
	return nil
}

// Stop 优雅停止HTTP服务器
func (s *Server) Stop(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}

	s.logger.Info("HTTP服务器停止中")
	return s.httpServer.Shutdown(ctx)
}

// Router 返回底层路由引擎（测试用）
func (s *Server) Router() *gin.Engine {
	return s.router
}
