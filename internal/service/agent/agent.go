// Package agent 行程规划的推理与工具执行循环
package agent

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/ashwinyue/travel-planner/internal/logger"
	"github.com/ashwinyue/travel-planner/internal/service/tools"
)

// State 循环状态
type State string

const (
	StateReasoning State = "REASONING"
	StateExecuting State = "EXECUTING"
)

const defaultMaxIterations = 50

var (
	// ErrMaxIterations 推理/执行切换次数超过上限
	ErrMaxIterations = errors.New("agent exceeded maximum iterations")
	// ErrModelFailure 模型调用失败，整轮对话失败
	ErrModelFailure = errors.New("reasoning model call failed")
)

// ToolProvider 为指定用户构建工具
type ToolProvider interface {
	Build(ctx context.Context, scope tools.Scope) ([]tool.BaseTool, error)
}

// Config 循环参数
type Config struct {
	MaxIterations   int
	ToolTimeout     time.Duration
	ToolConcurrency int
}

// TurnInput 单轮对话输入
type TurnInput struct {
	Scope   tools.Scope
	History []*schema.Message
	Message string
}

// ToolExecution 一次工具调用记录
type ToolExecution struct {
	CallID    string
	Name      string
	Arguments string
	Output    string
	Failed    bool
}

// TurnResult 单轮对话结果
type TurnResult struct {
	Answer string
	// Messages 本轮新增的消息（包含包装后的用户消息）
	Messages   []*schema.Message
	Iterations int
	Executions []ToolExecution
}

// Orchestrator 推理循环
type Orchestrator struct {
	model        model.ToolCallingChatModel
	tools        ToolProvider
	cfg          Config
	systemPrompt string
	log          *logger.Logger
	tracer       trace.Tracer
	now          func() time.Time
}

// NewOrchestrator 创建推理循环
func NewOrchestrator(m model.ToolCallingChatModel, provider ToolProvider, cfg Config, log *logger.Logger) *Orchestrator {
	if cfg.MaxIterations <= 0 {
		cfg.MaxIterations = defaultMaxIterations
	}
	if cfg.ToolConcurrency <= 0 {
		cfg.ToolConcurrency = 1
	}
	return &Orchestrator{
		model:        m,
		tools:        provider,
		cfg:          cfg,
		systemPrompt: SystemPrompt,
		log:          log,
		tracer:       otel.Tracer("travel-planner/agent"),
		now:          time.Now,
	}
}

// turn 单轮运行时状态
type turn struct {
	state      State
	iterations int
	messages   []*schema.Message
	fresh      int // messages 中本轮新增消息的起始下标
	pending    []schema.ToolCall
	executions []ToolExecution
}

// Run 执行一轮对话
func (o *Orchestrator) Run(ctx context.Context, in TurnInput) (*TurnResult, error) {
	ctx, span := o.tracer.Start(ctx, "agent.turn",
		trace.WithAttributes(attribute.String("user.id", in.Scope.UserID)))
	defer span.End()

	result, err := o.run(ctx, in)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	span.SetAttributes(
		attribute.Int("agent.iterations", result.Iterations),
		attribute.Int("agent.tool_calls", len(result.Executions)),
	)
	return result, nil
}

func (o *Orchestrator) run(ctx context.Context, in TurnInput) (*TurnResult, error) {
	available, err := o.tools.Build(ctx, in.Scope)
	if err != nil {
		return nil, fmt.Errorf("failed to build tools: %w", err)
	}
	chatModel, invokable, err := o.bind(ctx, available)
	if err != nil {
		return nil, err
	}
	// 工具集随用户变化，每轮对话建立一次工具节点
	toolsNode, err := compose.NewToolNode(ctx, &compose.ToolsNodeConfig{
		Tools:               invokable,
		UnknownToolsHandler: unknownToolHandler,
		ExecuteSequentially: o.cfg.ToolConcurrency <= 1,
		ToolCallMiddlewares: DefaultMiddlewares(o.cfg),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create tools node: %w", err)
	}

	t := &turn{state: StateReasoning}
	t.messages = make([]*schema.Message, 0, len(in.History)+8)
	t.messages = append(t.messages, in.History...)
	t.fresh = len(t.messages)
	t.messages = append(t.messages, schema.UserMessage(WrapUserMessage(in.Message, in.Scope, o.now())))

	for {
		t.iterations++
		if t.iterations > o.cfg.MaxIterations {
			o.log.Warn("agent iteration bound exceeded",
				"user_id", in.Scope.UserID, "max_iterations", o.cfg.MaxIterations)
			return nil, ErrMaxIterations
		}

		switch t.state {
		case StateReasoning:
			msg, err := o.reason(ctx, chatModel, t)
			if err != nil {
				return nil, err
			}
			if len(msg.ToolCalls) == 0 {
				return &TurnResult{
					Answer:     msg.Content,
					Messages:   t.messages[t.fresh:],
					Iterations: t.iterations,
					Executions: t.executions,
				}, nil
			}
			t.pending = msg.ToolCalls
			t.state = StateExecuting

		case StateExecuting:
			if err := o.execute(ctx, toolsNode, t); err != nil {
				return nil, err
			}
			t.pending = nil
			t.state = StateReasoning
		}
	}
}

// bind 绑定工具信息，只保留可直接调用的工具
func (o *Orchestrator) bind(ctx context.Context, available []tool.BaseTool) (model.ToolCallingChatModel, []tool.BaseTool, error) {
	invokable := make([]tool.BaseTool, 0, len(available))
	infos := make([]*schema.ToolInfo, 0, len(available))
	for _, t := range available {
		info, err := t.Info(ctx)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to get tool info: %w", err)
		}
		if _, ok := t.(tool.InvokableTool); !ok {
			o.log.Warn("skipping non-invokable tool", "tool", info.Name)
			continue
		}
		invokable = append(invokable, t)
		infos = append(infos, info)
	}
	if len(infos) == 0 {
		return o.model, invokable, nil
	}
	m, err := o.model.WithTools(infos)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to bind tools: %w", err)
	}
	return m, invokable, nil
}

// reason REASONING 状态：系统指令 + 当前消息列表交给模型
func (o *Orchestrator) reason(ctx context.Context, m model.ToolCallingChatModel, t *turn) (*schema.Message, error) {
	ctx, span := o.tracer.Start(ctx, "agent.reasoning",
		trace.WithAttributes(attribute.Int("agent.iteration", t.iterations)))
	defer span.End()

	input := make([]*schema.Message, 0, len(t.messages)+1)
	input = append(input, schema.SystemMessage(o.systemPrompt))
	input = append(input, t.messages...)

	msg, err := m.Generate(ctx, input)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		o.log.Error("reasoning model call failed", "iteration", t.iterations, "error", err)
		return nil, fmt.Errorf("%w: %v", ErrModelFailure, err)
	}
	if msg == nil {
		return nil, fmt.Errorf("%w: empty response", ErrModelFailure)
	}

	for i := range msg.ToolCalls {
		if msg.ToolCalls[i].ID == "" {
			msg.ToolCalls[i].ID = "call_" + uuid.NewString()
		}
	}
	msg.Role = schema.Assistant
	t.messages = append(t.messages, msg)
	span.SetAttributes(attribute.Int("agent.tool_calls", len(msg.ToolCalls)))
	return msg, nil
}

// execute EXECUTING 状态：工具节点执行全部调用，结果按调用顺序追加
// 工具错误已由中间件转换为错误载荷，这里的错误只来自节点本身
func (o *Orchestrator) execute(ctx context.Context, node *compose.ToolsNode, t *turn) error {
	ctx, span := o.tracer.Start(ctx, "agent.executing",
		trace.WithAttributes(
			attribute.Int("agent.iteration", t.iterations),
			attribute.Int("agent.tool_calls", len(t.pending)),
		))
	defer span.End()

	start := time.Now()
	outputs, err := node.Invoke(ctx, &schema.Message{Role: schema.Assistant, ToolCalls: t.pending})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("failed to execute tools: %w", err)
	}
	if len(outputs) != len(t.pending) {
		return fmt.Errorf("tools node returned %d results for %d calls", len(outputs), len(t.pending))
	}

	for i, tc := range t.pending {
		msg := outputs[i]
		failed := isErrorPayload(msg.Content)
		o.log.Debug("tool executed",
			"tool", tc.Function.Name, "call_id", tc.ID, "failed", failed, "duration", time.Since(start))
		t.messages = append(t.messages, msg)
		t.executions = append(t.executions, ToolExecution{
			CallID:    tc.ID,
			Name:      tc.Function.Name,
			Arguments: tc.Function.Arguments,
			Output:    msg.Content,
			Failed:    failed,
		})
	}
	return nil
}
