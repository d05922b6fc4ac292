// zkkeygen 可信设置生成工具
//
// 🎯 **核心职责**：对每个固定电路执行一次性的Groth16可信设置，
// 将证明密钥与验证密钥以压缩字节形式持久化为静态资产。
//
// 输出布局（--out 目录下）：
//   <circuit_id>.pk  - 压缩证明密钥
//   <circuit_id>.vk  - 压缩验证密钥
//
// 同时打印每个验证密钥的SHA-256摘要，供部署方写入配置做密钥固定。
package main

import (
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/zkidchain/v1/internal/core/credential/zkproof"
	"github.com/zkidchain/v1/internal/core/credential/zkproof/circuits"
	"github.com/zkidchain/v1/internal/core/infrastructure/crypto/hash"
	infralog "github.com/zkidchain/v1/internal/core/infrastructure/log"
)

var (
	outDir     string
	circuitIDs []string
	curveName  string
)

var rootCmd = &cobra.Command{
	Use:   "zkkeygen",
	Short: "凭证证明电路可信设置生成工具",
	Long: `zkkeygen 为凭证证明引擎的固定电路执行Groth16可信设置。

每个电路生成一对密钥文件：
  <circuit_id>.pk  证明密钥（体积大，仅证明方需要）
  <circuit_id>.vk  验证密钥（体积小，可公开分发）

⚠️ 可信设置的随机性由本地进程产生，生产部署应使用
多方计算仪式的产物替换本工具的输出。`,
	RunE: runKeygen,
}

func init() {
	rootCmd.Flags().StringVarP(&outDir, "out", "o", "./trusted_setup", "密钥文件输出目录")
	rootCmd.Flags().StringSliceVarP(&circuitIDs, "circuit", "c", nil, "要生成的电路ID（默认全部固定电路）")
	rootCmd.Flags().StringVar(&curveName, "curve", "bn254", "椭圆曲线（bn254/bls12-381/bls12-377）")
}

func runKeygen(cmd *cobra.Command, args []string) error {
	targets, err := resolveTargets()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("创建输出目录失败: %w", err)
	}

	cfg := zkproof.DefaultManagerConfig()
	cfg.DefaultCurve = curveName

	logger := infralog.GetLogger()
	hashManager := hash.NewManager()
	cm := zkproof.NewCircuitManager(logger, cfg)

	for _, id := range targets {
		fmt.Printf("电路 %s: 编译与设置中...\n", id)

		_, pk, vk, err := cm.GetTrustedSetup(id)
		if err != nil {
			return fmt.Errorf("电路 %s 设置失败: %w", id, err)
		}

		pkBytes, err := zkproof.SerializeProvingKey(pk)
		if err != nil {
			return fmt.Errorf("电路 %s 证明密钥序列化失败: %w", id, err)
		}
		vkBytes, err := zkproof.SerializeVerifyingKey(vk)
		if err != nil {
			return fmt.Errorf("电路 %s 验证密钥序列化失败: %w", id, err)
		}

		pkPath := filepath.Join(outDir, id.String()+".pk")
		vkPath := filepath.Join(outDir, id.String()+".vk")
		if err := os.WriteFile(pkPath, pkBytes, 0o600); err != nil {
			return fmt.Errorf("写入 %s 失败: %w", pkPath, err)
		}
		if err := os.WriteFile(vkPath, vkBytes, 0o644); err != nil {
			return fmt.Errorf("写入 %s 失败: %w", vkPath, err)
		}

		vkHash, err := zkproof.VerifyingKeyHash(hashManager, vk)
		if err != nil {
			return fmt.Errorf("电路 %s 验证密钥摘要失败: %w", id, err)
		}

		fmt.Printf("  证明密钥: %s (%d 字节)\n", pkPath, len(pkBytes))
		fmt.Printf("  验证密钥: %s (%d 字节)\n", vkPath, len(vkBytes))
		fmt.Printf("  验证密钥SHA-256: %s\n", hex.EncodeToString(vkHash))
	}

	fmt.Printf("完成：共生成 %d 个电路的密钥对\n", len(targets))
	return nil
}

// resolveTargets 解析目标电路列表；自定义电路形状不固定，不支持预生成
func resolveTargets() ([]circuits.CircuitID, error) {
	if len(circuitIDs) == 0 {
		all := circuits.AllCircuitIDs()
		targets := make([]circuits.CircuitID, 0, len(all))
		for _, id := range all {
			if id == circuits.CustomID {
				continue
			}
			targets = append(targets, id)
		}
		return targets, nil
	}

	targets := make([]circuits.CircuitID, 0, len(circuitIDs))
	for _, raw := range circuitIDs {
		id := circuits.CircuitID(raw)
		if !id.IsValid() {
			return nil, fmt.Errorf("未知电路ID: %s", raw)
		}
		if id == circuits.CustomID {
			return nil, fmt.Errorf("自定义电路形状不固定，不支持预生成设置")
		}
		targets = append(targets, id)
	}
	return targets, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "错误: %v\n", err)
		os.Exit(1)
	}
}
