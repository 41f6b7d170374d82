package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"yqhp/calc-engine/internal/expression"
	"yqhp/calc-engine/pkg/engine"
)

// joinArgs 允许不加引号地输入表达式
func joinArgs(args []string) string {
	return strings.Join(args, " ")
}

func printResult(cmd *cobra.Command, res engine.Result) {
	fmt.Fprintln(cmd.OutOrStdout(), res.Output)
}

func newEvalCmd(opts *rootOptions) *cobra.Command {
	var (
		fraction bool
		angle    string
	)

	cmd := &cobra.Command{
		Use:   "eval <expression>",
		Short: "数值计算表达式",
		Long: `数值计算表达式。支持 + - * / ^、括号、一元负号、sin cos tan log ln sqrt 以及常量 pi 和 e。

分数模式下整数运算保持精确，结果以最简分数输出；出现小数或函数时自动退化为浮点数。`,
		Example: `  calc-engine eval "2 + 3 * 4"
  calc-engine eval --fraction "1/3 + 1/6"
  calc-engine eval --angle radians "sin(pi/2)"
  calc-engine eval -- -2^2`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, cleanup, err := opts.newEngine(true)
			if err != nil {
				return err
			}
			defer cleanup()

			settings := eng.Settings()
			if cmd.Flags().Changed("fraction") {
				settings.PreferFraction = fraction
			}
			if cmd.Flags().Changed("angle") {
				if settings.AngleUnit, err = expression.ParseAngleUnit(angle); err != nil {
					return err
				}
			}

			res, err := eng.Evaluate(joinArgs(args), settings.PreferFraction, settings.AngleUnit)
			if err != nil {
				return err
			}
			printResult(cmd, res)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&fraction, "fraction", "f", false, "分数模式 (覆盖配置)")
	cmd.Flags().StringVarP(&angle, "angle", "a", "", "角度单位 degrees|radians (覆盖配置)")
	return cmd
}

func newDiffCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "diff <polynomial>",
		Short:   "多项式求导",
		Example: `  calc-engine diff "3x^2 + 2x + 1"`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, cleanup, err := opts.newEngine(true)
			if err != nil {
				return err
			}
			defer cleanup()

			res, err := eng.Differentiate(joinArgs(args))
			printResult(cmd, res)
			return err
		},
	}
}

func newIntegrateCmd(opts *rootOptions) *cobra.Command {
	var from, to float64

	cmd := &cobra.Command{
		Use:   "integrate <polynomial>",
		Short: "多项式积分",
		Long:  "计算多项式的不定积分；同时指定 --from 和 --to 时计算定积分。",
		Example: `  calc-engine integrate "2x + 1"
  calc-engine integrate --from 0 --to 2 "3x^2"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			hasFrom, hasTo := cmd.Flags().Changed("from"), cmd.Flags().Changed("to")
			if hasFrom != hasTo {
				return errors.New("定积分需要同时指定 --from 和 --to")
			}

			eng, cleanup, err := opts.newEngine(true)
			if err != nil {
				return err
			}
			defer cleanup()

			var res engine.Result
			if hasFrom {
				res, err = eng.DefiniteIntegral(joinArgs(args), from, to)
			} else {
				res, err = eng.Integrate(joinArgs(args))
			}
			if res.Output != "" {
				printResult(cmd, res)
			}
			return err
		},
	}

	cmd.Flags().Float64Var(&from, "from", 0, "积分下限")
	cmd.Flags().Float64Var(&to, "to", 0, "积分上限")
	return cmd
}

func newSolveCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "solve <equation|product>",
		Short: "解方程或展开括号乘积",
		Example: `  calc-engine solve "x^2 - 5x + 6 = 0"
  calc-engine solve "(x+1)(x-1)"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, cleanup, err := opts.newEngine(true)
			if err != nil {
				return err
			}
			defer cleanup()

			res, err := eng.Symbolic(joinArgs(args))
			if err != nil {
				return err
			}
			printResult(cmd, res)
			return nil
		},
	}
}

func newCalcCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "calc <expression>",
		Short: "先尝试符号计算，否则按配置做数值计算",
		Example: `  calc-engine calc "2x + 4 = 0"
  calc-engine calc "sqrt(2)"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, cleanup, err := opts.newEngine(true)
			if err != nil {
				return err
			}
			defer cleanup()

			res, err := eng.Calculate(joinArgs(args))
			if err != nil {
				return err
			}
			printResult(cmd, res)
			return nil
		},
	}
}
