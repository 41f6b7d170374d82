package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"yqhp/calc-engine/api/mcpserver"
	"yqhp/calc-engine/api/rest"
	"yqhp/calc-engine/pkg/engine"
)

func newServeCmd(opts *rootOptions) *cobra.Command {
	var address string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "启动 HTTP API 服务",
		Example: `  calc-engine serve
  calc-engine serve --address :9090`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			overrides := map[string]string{}
			if cmd.Flags().Changed("address") {
				overrides["server.address"] = address
			}
			cfg, err := opts.loadConfig(overrides)
			if err != nil {
				return err
			}
			settings, err := engine.SettingsFromConfig(cfg.Engine)
			if err != nil {
				return err
			}

			log, err := newLogger(cfg.Logging, false)
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			eng := engine.New(engine.WithLogger(log), engine.WithSettings(settings))
			server := rest.NewServer(eng, &cfg.Server, log)

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			log.Info("server starting", zap.String("address", cfg.Server.Address))
			if err := server.StartWithContext(ctx); err != nil {
				return fmt.Errorf("服务运行失败: %w", err)
			}
			log.Info("server stopped")
			return nil
		},
	}

	cmd.Flags().StringVar(&address, "address", "", "监听地址 (覆盖配置)，如 :8080")
	return cmd
}

func newMCPCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "以 MCP stdio 服务运行，供 AI 助手调用计算工具",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// 标准输出承载协议数据，日志只能写到 stderr 或文件
			eng, cleanup, err := opts.newEngine(true)
			if err != nil {
				return err
			}
			defer cleanup()

			return mcpserver.ServeStdio(eng, Version)
		},
	}
}
