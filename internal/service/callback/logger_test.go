package callback

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/cloudwego/eino/callbacks"
	"github.com/cloudwego/eino/components"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/schema"

	"github.com/ashwinyue/travel-planner/internal/logger"
)

func TestSummaries(t *testing.T) {
	tests := []struct {
		name string
		got  interface{}
		want string
	}{
		{
			"model input",
			summarizeInput(&model.CallbackInput{Messages: []*schema.Message{schema.UserMessage("hi")}}),
			"messages=1 tools=0",
		},
		{
			"tool input",
			summarizeInput(&tool.CallbackInput{ArgumentsInJSON: `{"a":1}`}),
			`{"a":1}`,
		},
		{
			"tool output",
			summarizeOutput(&tool.CallbackOutput{Response: "ok"}),
			"ok",
		},
		{
			"model output",
			summarizeOutput(&model.CallbackOutput{Message: schema.AssistantMessage("done", nil)}),
			`content="done" tool_calls=0`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %v, want %v", tt.got, tt.want)
			}
		})
	}
}

func TestTruncate(t *testing.T) {
	long := strings.Repeat("x", maxLoggedLen+10)
	if got := truncate(long); len(got) != maxLoggedLen+3 {
		t.Errorf("len = %d", len(got))
	}
	if got := truncate("short"); got != "short" {
		t.Errorf("got %q", got)
	}
}

func TestLoggerHandlers(t *testing.T) {
	l := NewLogger(logger.Nop(), true)
	info := &callbacks.RunInfo{Name: "planner", Type: "OpenAI", Component: components.ComponentOfChatModel}
	ctx := context.Background()

	if got := l.OnStart(ctx, info, &model.CallbackInput{}); got != ctx {
		t.Error("OnStart should return the same context")
	}
	if got := l.OnError(ctx, info, errors.New("boom")); got != ctx {
		t.Error("OnError should return the same context")
	}
	_ = l.OnEnd(ctx, nil, nil)
}
