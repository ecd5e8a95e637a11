package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"
	"github.com/kaptinlin/jsonrepair"
	"golang.org/x/sync/semaphore"

	"github.com/ashwinyue/travel-planner/internal/service/tools"
)

// ========== ErrorRemover 中间件 ==========

// ErrorHandler 将工具错误转换为交给模型的输出
type ErrorHandler func(ctx context.Context, in *compose.ToolInput, err error) string

// DefaultErrorHandler 输出 {"error": "..."} 载荷
func DefaultErrorHandler() ErrorHandler {
	return func(_ context.Context, _ *compose.ToolInput, err error) string {
		return tools.ErrorPayload(err.Error())
	}
}

// NewErrorRemoverMiddleware 捕获工具调用错误并返回错误载荷
// 错误交给模型处理，不中断本轮对话
func NewErrorRemoverMiddleware(handler ErrorHandler) compose.ToolMiddleware {
	if handler == nil {
		handler = DefaultErrorHandler()
	}

	return compose.ToolMiddleware{
		Invokable: func(next compose.InvokableToolEndpoint) compose.InvokableToolEndpoint {
			return func(ctx context.Context, in *compose.ToolInput) (*compose.ToolOutput, error) {
				output, err := next(ctx, in)
				if err != nil {
					// 不中断重试错误
					if _, ok := compose.IsInterruptRerunError(err); ok {
						return nil, err
					}
					return &compose.ToolOutput{Result: handler(ctx, in, err)}, nil
				}
				return output, nil
			}
		},
		Streamable: func(next compose.StreamableToolEndpoint) compose.StreamableToolEndpoint {
			return func(ctx context.Context, in *compose.ToolInput) (*compose.StreamToolOutput, error) {
				streamOutput, err := next(ctx, in)
				if err != nil {
					if _, ok := compose.IsInterruptRerunError(err); ok {
						return nil, err
					}
					return &compose.StreamToolOutput{
						Result: schema.StreamReaderFromArray([]string{handler(ctx, in, err)}),
					}, nil
				}
				return streamOutput, nil
			}
		},
	}
}

// ========== JsonFix 中间件 ==========

// NewJsonFixMiddleware 修复模型生成的格式错误的 JSON 参数
func NewJsonFixMiddleware() compose.ToolMiddleware {
	return compose.ToolMiddleware{
		Invokable: func(next compose.InvokableToolEndpoint) compose.InvokableToolEndpoint {
			return func(ctx context.Context, in *compose.ToolInput) (*compose.ToolOutput, error) {
				in.Arguments = repairJSON(in.Arguments)
				return next(ctx, in)
			}
		},
		Streamable: func(next compose.StreamableToolEndpoint) compose.StreamableToolEndpoint {
			return func(ctx context.Context, in *compose.ToolInput) (*compose.StreamToolOutput, error) {
				in.Arguments = repairJSON(in.Arguments)
				return next(ctx, in)
			}
		},
	}
}

// repairJSON 修复 JSON 字符串
// 策略：先尝试快速路径（有效 JSON 直接返回），再尝试修复
func repairJSON(input string) string {
	s := strings.TrimSpace(input)
	if s == "" {
		return "{}"
	}

	// 快速路径：已经是有效的 JSON 对象
	if strings.HasPrefix(s, "{") && strings.HasSuffix(s, "}") && json.Valid([]byte(s)) {
		return s
	}

	// 移除常见的 LLM 生成伪影
	s = strings.TrimPrefix(s, "<|FunctionCallBegin|>")
	s = strings.TrimSuffix(s, "<|FunctionCallEnd|>")
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	s = strings.TrimSpace(s)

	// 尝试提取 JSON 对象区域
	i := strings.IndexByte(s, '{')
	j := strings.LastIndexByte(s, '}')
	if i >= 0 && j >= i {
		sub := s[i : j+1]
		if json.Valid([]byte(sub)) {
			return sub
		}
		s = sub
	}

	if json.Valid([]byte(s)) {
		return s
	}

	// 启发式：补全缺失的大括号
	if !strings.HasPrefix(s, "{") && strings.HasSuffix(s, "}") {
		s = "{" + s
	} else if strings.HasPrefix(s, "{") && !strings.HasSuffix(s, "}") {
		s = s + "}"
	}

	// 使用 jsonrepair 进行强力修复
	out, err := jsonrepair.JSONRepair(s)
	if err != nil {
		return s
	}
	return out
}

// ========== Timeout 中间件 ==========

// NewTimeoutMiddleware 限制单个工具的执行时间，d <= 0 时不限制
func NewTimeoutMiddleware(d time.Duration) compose.ToolMiddleware {
	return compose.ToolMiddleware{
		Invokable: func(next compose.InvokableToolEndpoint) compose.InvokableToolEndpoint {
			if d <= 0 {
				return next
			}
			return func(ctx context.Context, in *compose.ToolInput) (*compose.ToolOutput, error) {
				ctx, cancel := context.WithTimeout(ctx, d)
				defer cancel()

				type result struct {
					out *compose.ToolOutput
					err error
				}
				done := make(chan result, 1)
				go func() {
					out, err := next(ctx, in)
					done <- result{out, err}
				}()

				select {
				case r := <-done:
					return r.out, r.err
				case <-ctx.Done():
					return nil, fmt.Errorf("tool %s timed out after %s", in.Name, d)
				}
			}
		},
	}
}

// ========== 并发限制中间件 ==========

// NewConcurrencyLimitMiddleware 限制同时执行的工具数量，n <= 0 时不限制
func NewConcurrencyLimitMiddleware(n int) compose.ToolMiddleware {
	if n <= 0 {
		return compose.ToolMiddleware{}
	}
	sem := semaphore.NewWeighted(int64(n))
	return compose.ToolMiddleware{
		Invokable: func(next compose.InvokableToolEndpoint) compose.InvokableToolEndpoint {
			return func(ctx context.Context, in *compose.ToolInput) (*compose.ToolOutput, error) {
				if err := sem.Acquire(ctx, 1); err != nil {
					return nil, err
				}
				defer sem.Release(1)
				return next(ctx, in)
			}
		},
	}
}

// ========== 组合中间件 ==========

// DefaultMiddlewares 默认中间件组合，第一个位于最外层
// 错误转换为载荷，修复参数，限制并发，最后是单工具超时
func DefaultMiddlewares(cfg Config) []compose.ToolMiddleware {
	return []compose.ToolMiddleware{
		NewErrorRemoverMiddleware(nil),
		NewJsonFixMiddleware(),
		NewConcurrencyLimitMiddleware(cfg.ToolConcurrency),
		NewTimeoutMiddleware(cfg.ToolTimeout),
	}
}

// unknownToolHandler 模型调用了不存在的工具
func unknownToolHandler(_ context.Context, name, _ string) (string, error) {
	return tools.ErrorPayload("unknown tool: " + name), nil
}

// isErrorPayload 判断工具输出是否为错误载荷
func isErrorPayload(out string) bool {
	s := strings.TrimSpace(out)
	if !strings.HasPrefix(s, "{") {
		return false
	}
	var payload map[string]json.RawMessage
	if err := json.Unmarshal([]byte(s), &payload); err != nil {
		return false
	}
	_, ok := payload["error"]
	return ok && len(payload) == 1
}
