package mission

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/hazyhaar/uxaudit/collector"
)

// RegisterMCP registers the audit tools on an MCP server.
func (o *Orchestrator) RegisterMCP(srv *mcp.Server) {
	o.registerRunMission(srv)
}

func inputSchema(properties map[string]any, required []string) map[string]any {
	s := map[string]any{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		s["required"] = required
	}
	return s
}

func (o *Orchestrator) registerRunMission(srv *mcp.Server) {
	type req struct {
		URL        string `json:"url"`
		Device     string `json:"device"`
		FigmaToken string `json:"figma_token"`
		FigmaFile  string `json:"figma_file"`
		LLMModel   string `json:"llm_model"`
	}

	tool := &mcp.Tool{
		Name:        "uxaudit_run_mission",
		Description: "Run a full UI/UX audit of a web page and return the structured report",
		InputSchema: inputSchema(map[string]any{
			"url":         map[string]any{"type": "string", "description": "Page URL to audit"},
			"device":      map[string]any{"type": "string", "description": "Device profile: desktop, mobile, tablet"},
			"figma_token": map[string]any{"type": "string", "description": "Figma API token (overrides server default)"},
			"figma_file":  map[string]any{"type": "string", "description": "Figma file key for design comparison"},
			"llm_model":   map[string]any{"type": "string", "description": "Preferred generation model"},
		}, []string{"url"}),
	}

	srv.AddTool(tool, func(ctx context.Context, r *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var p req
		if err := json.Unmarshal(r.Params.Arguments, &p); err != nil {
			var res mcp.CallToolResult
			res.SetError(fmt.Errorf("invalid arguments: %w", err))
			return &res, nil
		}

		result, err := o.Run(ctx, MissionConfig{
			TargetURL:      p.URL,
			Device:         collector.ParseDevice(p.Device),
			FigmaToken:     p.FigmaToken,
			FigmaFileKey:   p.FigmaFile,
			PreferredModel: p.LLMModel,
		})
		if err != nil {
			var res mcp.CallToolResult
			res.SetError(errors.New(err.Error()))
			return &res, nil
		}

		data, err := json.Marshal(result)
		if err != nil {
			var res mcp.CallToolResult
			res.SetError(fmt.Errorf("marshal: %w", err))
			return &res, nil
		}
		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: string(data)}},
		}, nil
	})
}
