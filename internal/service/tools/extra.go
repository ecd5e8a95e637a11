package tools

import (
	"context"

	sequencethinking "github.com/cloudwego/eino-ext/components/tool/sequentialthinking"
	wikipediatool "github.com/cloudwego/eino-ext/components/tool/wikipedia"
	"github.com/cloudwego/eino/components/tool"

	"github.com/ashwinyue/travel-planner/internal/logger"
)

// NewExtraTools 创建通用工具，创建失败的工具被跳过
func NewExtraTools(ctx context.Context, wikiLanguage string, log *logger.Logger) []tool.BaseTool {
	var out []tool.BaseTool

	if wikiLanguage == "" {
		wikiLanguage = "en"
	}
	wikiTool, err := wikipediatool.NewTool(ctx, &wikipediatool.Config{
		ToolName: "destination_wiki_tool",
		ToolDesc: "Look up background about a destination, landmark or neighbourhood on Wikipedia.",
		Language: wikiLanguage,
		TopK:     3,
	})
	if err != nil {
		log.Warn("failed to create wikipedia tool", "error", err)
	} else {
		out = append(out, wikiTool)
	}

	thinkTool, err := sequencethinking.NewTool()
	if err != nil {
		log.Warn("failed to create sequentialthinking tool", "error", err)
	} else {
		out = append(out, thinkTool)
	}

	return out
}
