// zkid 凭证证明引擎服务进程
//
// 🎯 **核心职责**：装配日志、哈希、证明引擎、披露绑定器与HTTP服务器，
// 处理启动参数与优雅关闭。业务逻辑全部在 internal 层。
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpapi "github.com/zkidchain/v1/internal/api/http"
	"github.com/zkidchain/v1/internal/api/http/handlers"
	proverapi "github.com/zkidchain/v1/internal/api/prover"
	"github.com/zkidchain/v1/internal/core/credential/disclosure"
	"github.com/zkidchain/v1/internal/core/credential/zkproof"
	"github.com/zkidchain/v1/internal/core/infrastructure/crypto/hash"
	infralog "github.com/zkidchain/v1/internal/core/infrastructure/log"
)

func main() {
	var (
		listenAddr = flag.String("listen", ":8080", "HTTP监听地址")
		logLevel   = flag.String("log-level", "info", "日志级别（debug/info/warn/error）")
		logFile    = flag.String("log-file", "", "日志文件路径（为空仅输出到stderr）")
		setupDir   = flag.String("setup-dir", "", "可信设置目录（zkkeygen输出；为空则首次证明时进程内Setup）")
		curve      = flag.String("curve", "bn254", "椭圆曲线（bn254/bls12-381/bls12-377）")
	)
	flag.Parse()

	if err := run(*listenAddr, *logLevel, *logFile, *setupDir, *curve); err != nil {
		fmt.Fprintf(os.Stderr, "错误: %v\n", err)
		os.Exit(1)
	}
}

func run(listenAddr, logLevel, logFile, setupDir, curve string) error {
	// 日志初始化
	logCfg := infralog.DefaultConfig()
	logCfg.Level = logLevel
	logCfg.FilePath = logFile
	logger, err := infralog.New(logCfg)
	if err != nil {
		return fmt.Errorf("日志初始化失败: %w", err)
	}
	infralog.SetLogger(logger)
	defer func() { _ = logger.Sync() }()

	hashManager := hash.NewManager()

	// 证明引擎
	engineCfg := zkproof.DefaultManagerConfig()
	engineCfg.DefaultCurve = curve
	if setupDir != "" {
		engineCfg.TrustedSetupPath = setupDir
	}
	engine := zkproof.NewManager(hashManager, logger, engineCfg)

	if setupDir != "" {
		loaded, err := engine.CircuitManager().LoadPersistedSetups(setupDir)
		if err != nil {
			return fmt.Errorf("加载可信设置失败: %w", err)
		}
		logger.Infof("可信设置已加载: dir=%s, circuits=%d", setupDir, loaded)
	} else {
		logger.Warn("未配置可信设置目录，各电路将在首次证明时执行进程内Setup")
	}

	// 披露绑定器；凭证类型 → 字段数的模式表
	binder := disclosure.NewBinder(logger, hashManager, defaultSchemas())

	// API层装配
	proofService := proverapi.NewService(logger, engine)
	proofHandler := handlers.NewProofHandler(proofService, engine, logger)
	disclosureHandler := handlers.NewDisclosureHandler(binder, logger)

	serverCfg := httpapi.DefaultServerConfig()
	serverCfg.ListenAddr = listenAddr
	server := httpapi.NewServer(serverCfg, logger, proofHandler, disclosureHandler)

	// 信号处理：Ctrl+C / SIGTERM 触发优雅关闭
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	errChan := make(chan error, 1)
	go func() {
		errChan <- server.Start()
	}()

	select {
	case sig := <-sigChan:
		logger.Infof("收到退出信号: %s，开始优雅关闭", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Stop(ctx); err != nil {
			return fmt.Errorf("服务器关闭失败: %w", err)
		}
		return nil
	case err := <-errChan:
		return err
	}
}

// defaultSchemas 内置凭证模式表
//
// 字段数与各凭证电路的私有输入结构对应，
// 披露请求中的字段索引以此为上界。
func defaultSchemas() disclosure.StaticSchemaSource {
	return disclosure.StaticSchemaSource{
		"age_verification":   3,
		"student_status":     6,
		"vaccination_status": 7,
		"employment_status":  7,
	}
}
