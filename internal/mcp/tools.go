package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"go.uber.org/zap"

	"github.com/user/seo-meta-service/internal/domain"
	"github.com/user/seo-meta-service/internal/pipeline"
)

// ToolGenerate is the name of the generation tool.
const ToolGenerate = "generate_meta_tags"

func (s *MCPServer) registerTools() {
	generateTool := mcp.NewTool(ToolGenerate,
		mcp.WithDescription("Generate two SEO meta title/description options for a web page. "+
			"Provide a URL, a description of the page content, or both. "+
			"When a URL is given the model researches the page and its root domain with Google Search."),
		mcp.WithString("url",
			mcp.Description("Address of the page to write tags for"),
		),
		mcp.WithString("target_page_content",
			mcp.Description("What the page is about; needs more than 20 characters when no URL is given"),
		),
		mcp.WithString("marketing_focus",
			mcp.Description("Campaign, offer or angle the marketing-focused option should push"),
		),
	)
	s.mcpServer.AddTool(generateTool, s.handleGenerate)
}

func (s *MCPServer) handleGenerate(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	in := domain.AnalysisInputs{
		URL:               request.GetString("url", ""),
		TargetPageContent: request.GetString("target_page_content", ""),
		MarketingFocus:    request.GetString("marketing_focus", ""),
	}
	if !in.Ready() {
		return mcp.NewToolResultError("provide a url or more than 20 characters of target_page_content"), nil
	}

	out, err := s.runner.Run(ctx, in)
	if err != nil {
		s.logger.Warn("mcp generation failed", zap.String("kind", string(domain.Classify(err))), zap.Error(err))
		return mcp.NewToolResultError(domain.UserMessage(err)), nil
	}
	return mcp.NewToolResultText(formatOutcome(out)), nil
}

// formatOutcome renders both options as markdown
func formatOutcome(out *pipeline.Outcome) string {
	var b strings.Builder
	b.WriteString("# SEO meta tag options\n")
	for i, opt := range []domain.MetaOption{out.Response.Option1, out.Response.Option2} {
		fmt.Fprintf(&b, "\n## Option %d: %s\n", i+1, opt.Type)
		fmt.Fprintf(&b, "- **Title** (%d/%d, %s): %s\n",
			opt.MetaTitleLength, domain.MaxTitleLength, opt.TitleStatus(), opt.MetaTitle)
		fmt.Fprintf(&b, "- **Description** (%d/%d, %s): %s\n",
			opt.MetaDescriptionLength, domain.MaxDescriptionLength, opt.DescriptionStatus(), opt.MetaDescription)
	}
	if len(out.Sources) > 0 {
		b.WriteString("\n## Sources\n")
		for _, src := range out.Sources {
			fmt.Fprintf(&b, "- %s\n", src)
		}
	}
	return b.String()
}
