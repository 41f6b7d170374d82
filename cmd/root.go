// Package cmd 提供 calc-engine CLI 的命令实现
package cmd

import (
	"fmt"
	"os"

	"github.com/jinzhu/copier"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"yqhp/calc-engine/internal/config"
	"yqhp/calc-engine/pkg/engine"
	"yqhp/calc-engine/pkg/logger"
)

const (
	// Version 是当前版本号
	Version = "0.1.0"
	// Banner 是版本信息中显示的 ASCII 艺术
	Banner = `
   ___      _        |‾‾| Calc Engine %s
  / __|__ _| |__     |  |
 | (__/ _' | / _|    |  |
  \___\__,_|_\__|    |__|
`
)

// rootOptions 保存全局 flags
type rootOptions struct {
	cfgFile string
	debug   bool
	quiet   bool
}

// NewRootCmd 创建根命令及全部子命令
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "calc-engine",
		Short: "科学计算器引擎",
		Long: `calc-engine 是一个表达式计算引擎，支持分数/小数两种模式的数值计算、
三角与对数函数、多项式求导与积分、一元二次方程求解以及括号乘积展开。`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&opts.cfgFile, "config", "", "配置文件路径")
	rootCmd.PersistentFlags().BoolVar(&opts.debug, "debug", false, "启用调试日志")
	rootCmd.PersistentFlags().BoolVarP(&opts.quiet, "quiet", "q", false, "静默模式，只输出错误日志")

	// 禁用默认的 completion 命令
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	rootCmd.SetVersionTemplate(fmt.Sprintf(Banner, Version) + "\n")

	rootCmd.AddCommand(
		newEvalCmd(opts),
		newDiffCmd(opts),
		newIntegrateCmd(opts),
		newSolveCmd(opts),
		newCalcCmd(opts),
		newServeCmd(opts),
		newMCPCmd(opts),
		newConfigCmd(opts),
		newVersionCmd(),
	)

	return rootCmd
}

// Execute 执行根命令
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// loadConfig 按 默认值 < 配置文件 < 环境变量 < 命令行 的顺序加载并校验配置
func (o *rootOptions) loadConfig(overrides map[string]string) (*config.Config, error) {
	cfg, err := config.NewLoader().
		WithConfigPath(o.cfgFile).
		WithCmdArgs(overrides).
		Load()
	if err != nil {
		return nil, err
	}
	if o.debug {
		cfg.Logging.Level = "debug"
	} else if o.quiet {
		cfg.Logging.Level = "error"
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newLogger 根据配置创建日志。forceStderr 用于标准输出承载结果或协议数据的命令。
func newLogger(cfg config.LoggingConfig, forceStderr bool) (*zap.Logger, error) {
	var logCfg logger.Config
	if err := copier.Copy(&logCfg, &cfg); err != nil {
		return nil, fmt.Errorf("转换日志配置失败: %w", err)
	}
	if forceStderr && (logCfg.Output == "" || logCfg.Output == "stdout") {
		logCfg.Output = "stderr"
	}
	return logger.New(&logCfg), nil
}

// newEngine 加载配置并创建引擎，返回的 cleanup 负责刷新日志
func (o *rootOptions) newEngine(forceStderr bool) (*engine.Engine, func(), error) {
	cfg, err := o.loadConfig(nil)
	if err != nil {
		return nil, nil, err
	}
	settings, err := engine.SettingsFromConfig(cfg.Engine)
	if err != nil {
		return nil, nil, err
	}

	log, err := newLogger(cfg.Logging, forceStderr)
	if err != nil {
		return nil, nil, err
	}
	eng := engine.New(engine.WithLogger(log), engine.WithSettings(settings))
	return eng, func() { _ = log.Sync() }, nil
}
