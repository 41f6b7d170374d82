// Package mcpserver exposes the calculator engine as MCP tools over stdio.
package mcpserver

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"yqhp/calc-engine/internal/expression"
	"yqhp/calc-engine/pkg/calcerr"
	"yqhp/calc-engine/pkg/engine"
)

// ServerName 是 MCP 握手时上报的服务名
const ServerName = "calc-engine"

// Handler 实现各个工具
type Handler struct {
	engine *engine.Engine
}

// NewHandler 创建工具处理器
func NewHandler(eng *engine.Engine) *Handler {
	return &Handler{engine: eng}
}

// NewServer 创建注册了全部计算工具的 MCP 服务器
func NewServer(eng *engine.Engine, version string) *server.MCPServer {
	s := server.NewMCPServer(ServerName, version,
		server.WithToolCapabilities(false),
		server.WithRecovery(),
	)
	h := NewHandler(eng)
	for _, t := range h.Tools() {
		s.AddTool(t.Tool, t.Handler)
	}
	return s
}

// ServeStdio 在标准输入输出上运行 MCP 服务器，直到输入关闭
func ServeStdio(eng *engine.Engine, version string) error {
	return server.ServeStdio(NewServer(eng, version))
}

// Tools 返回工具定义及其处理函数
func (h *Handler) Tools() []server.ServerTool {
	expressionArg := mcp.WithString("expression",
		mcp.Required(),
		mcp.Description("待计算的表达式"),
	)

	return []server.ServerTool{
		{
			Tool: mcp.NewTool("evaluate",
				mcp.WithDescription("数值计算：支持 + - * / ^、括号、sin cos tan log ln sqrt、pi 和 e"),
				expressionArg,
				mcp.WithBoolean("prefer_fraction", mcp.Description("以分数形式精确计算")),
				mcp.WithString("angle_unit", mcp.Description("三角函数的角度单位"), mcp.Enum("degrees", "radians")),
			),
			Handler: h.Evaluate,
		},
		{
			Tool: mcp.NewTool("differentiate",
				mcp.WithDescription("对多项式求导，例如 3x^2 + 2x + 1"),
				expressionArg,
			),
			Handler: h.Differentiate,
		},
		{
			Tool: mcp.NewTool("integrate",
				mcp.WithDescription("对多项式求不定积分；同时给出 from 和 to 时计算定积分"),
				expressionArg,
				mcp.WithNumber("from", mcp.Description("积分下限")),
				mcp.WithNumber("to", mcp.Description("积分上限")),
			),
			Handler: h.Integrate,
		},
		{
			Tool: mcp.NewTool("symbolic",
				mcp.WithDescription("解一元一次/二次方程，或展开括号乘积，例如 x^2 - 5x + 6 = 0、(x+1)(x-1)"),
				expressionArg,
			),
			Handler: h.Symbolic,
		},
		{
			Tool: mcp.NewTool("calculate",
				mcp.WithDescription("先尝试符号计算，不适用时按默认设置做数值计算"),
				expressionArg,
			),
			Handler: h.Calculate,
		},
	}
}

// Evaluate 处理 evaluate 工具
func (h *Handler) Evaluate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	expr, err := req.RequireString("expression")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	settings := h.engine.Settings()
	preferFraction := req.GetBool("prefer_fraction", settings.PreferFraction)
	unit := settings.AngleUnit
	if s := req.GetString("angle_unit", ""); s != "" {
		if unit, err = expression.ParseAngleUnit(s); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
	}

	return toolResult(h.engine.Evaluate(expr, preferFraction, unit))
}

// Differentiate 处理 differentiate 工具
func (h *Handler) Differentiate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	expr, err := req.RequireString("expression")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return toolResult(h.engine.Differentiate(expr))
}

// Integrate 处理 integrate 工具
func (h *Handler) Integrate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	expr, err := req.RequireString("expression")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	args := req.GetArguments()
	_, hasFrom := args["from"]
	_, hasTo := args["to"]
	switch {
	case hasFrom && hasTo:
		return toolResult(h.engine.DefiniteIntegral(expr, req.GetFloat("from", 0), req.GetFloat("to", 0)))
	case hasFrom || hasTo:
		return mcp.NewToolResultError("定积分需要同时提供 from 和 to"), nil
	default:
		return toolResult(h.engine.Integrate(expr))
	}
}

// Symbolic 处理 symbolic 工具
func (h *Handler) Symbolic(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	expr, err := req.RequireString("expression")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return toolResult(h.engine.Symbolic(expr))
}

// Calculate 处理 calculate 工具
func (h *Handler) Calculate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	expr, err := req.RequireString("expression")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return toolResult(h.engine.Calculate(expr))
}

// toolResult 把表达式错误作为工具错误返回，而不是协议错误
func toolResult(res engine.Result, err error) (*mcp.CallToolResult, error) {
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("%s: %v", calcerr.KindOf(err), err)), nil
	}
	return mcp.NewToolResultText(res.Output), nil
}
