// Package callback 提供 Eino Callback 日志支持
package callback

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/callbacks"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/schema"

	"github.com/ashwinyue/travel-planner/internal/logger"
)

const maxLoggedLen = 200

// Logger 日志回调处理器
// 实现 callbacks.Handler 接口，记录模型与工具的执行事件
type Logger struct {
	log         *logger.Logger
	EnableDebug bool
}

// NewLogger 创建日志回调处理器
func NewLogger(log *logger.Logger, enableDebug bool) *Logger {
	return &Logger{log: log, EnableDebug: enableDebug}
}

// OnStart 组件执行开始时调用
func (l *Logger) OnStart(ctx context.Context, info *callbacks.RunInfo, input callbacks.CallbackInput) context.Context {
	if l.EnableDebug {
		l.log.Debug("eino component start", append(runInfoKVs(info), "input", summarizeInput(input))...)
	}
	return ctx
}

// OnEnd 组件执行成功结束时调用
func (l *Logger) OnEnd(ctx context.Context, info *callbacks.RunInfo, output callbacks.CallbackOutput) context.Context {
	if l.EnableDebug {
		l.log.Debug("eino component end", append(runInfoKVs(info), "output", summarizeOutput(output))...)
	}
	return ctx
}

// OnError 组件执行出错时调用
func (l *Logger) OnError(ctx context.Context, info *callbacks.RunInfo, err error) context.Context {
	l.log.Error("eino component error", append(runInfoKVs(info), "error", err)...)
	return ctx
}

// OnStartWithStreamInput 流式输入开始时调用
func (l *Logger) OnStartWithStreamInput(ctx context.Context, info *callbacks.RunInfo, input *schema.StreamReader[callbacks.CallbackInput]) context.Context {
	input.Close()
	if l.EnableDebug {
		l.log.Debug("eino stream start", runInfoKVs(info)...)
	}
	return ctx
}

// OnEndWithStreamOutput 流式输出结束时调用
func (l *Logger) OnEndWithStreamOutput(ctx context.Context, info *callbacks.RunInfo, output *schema.StreamReader[callbacks.CallbackOutput]) context.Context {
	output.Close()
	if l.EnableDebug {
		l.log.Debug("eino stream end", runInfoKVs(info)...)
	}
	return ctx
}

func runInfoKVs(info *callbacks.RunInfo) []interface{} {
	if info == nil {
		return []interface{}{}
	}
	return []interface{}{"name", info.Name, "type", info.Type, "component", string(info.Component)}
}

// summarizeInput 只记录关键信息，避免日志过大
func summarizeInput(input callbacks.CallbackInput) interface{} {
	if in := model.ConvCallbackInput(input); in != nil {
		return fmt.Sprintf("messages=%d tools=%d", len(in.Messages), len(in.Tools))
	}
	if in := tool.ConvCallbackInput(input); in != nil {
		return truncate(in.ArgumentsInJSON)
	}
	return truncate(fmt.Sprint(input))
}

func summarizeOutput(output callbacks.CallbackOutput) interface{} {
	if out := model.ConvCallbackOutput(output); out != nil && out.Message != nil {
		return fmt.Sprintf("content=%q tool_calls=%d", truncate(out.Message.Content), len(out.Message.ToolCalls))
	}
	if out := tool.ConvCallbackOutput(output); out != nil {
		return truncate(out.Response)
	}
	return truncate(fmt.Sprint(output))
}

func truncate(s string) string {
	r := []rune(s)
	if len(r) > maxLoggedLen {
		return string(r[:maxLoggedLen]) + "..."
	}
	return s
}

// SetupGlobalCallbacks 设置全局回调
func SetupGlobalCallbacks(log *logger.Logger, enableDebug bool) {
	callbacks.AppendGlobalHandlers(NewLogger(log, enableDebug))
	log.Info("eino global callbacks registered", "debug", enableDebug)
}
