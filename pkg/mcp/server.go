// Package mcp exposes the skill library over the Model Context Protocol.
// Four tools are registered: list_skills, get_skill, search_skills, and
// compose_workflow. All of them delegate to the query service, so the MCP
// surface and the CLI surface always agree on semantics.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/pkg/errors"

	"github.com/skillsmith/skillsmith/pkg/logger"
	"github.com/skillsmith/skillsmith/pkg/query"
	"github.com/skillsmith/skillsmith/pkg/version"
)

// Server wraps an MCP server bound to one skills root.
type Server struct {
	svc *query.Service
	mcp *server.MCPServer
}

// NewServer creates an MCP server exposing the skill tools over the given
// query service.
func NewServer(svc *query.Service) *Server {
	s := &Server{svc: svc}

	s.mcp = server.NewMCPServer(
		"skillsmith",
		version.Get().Version,
		server.WithToolCapabilities(true),
		server.WithRecovery(),
		server.WithInstructions(serverInstructions()),
	)

	s.mcp.AddTool(listSkillsTool(), s.handleListSkills)
	s.mcp.AddTool(getSkillTool(), s.handleGetSkill)
	s.mcp.AddTool(searchSkillsTool(), s.handleSearchSkills)
	s.mcp.AddTool(composeWorkflowTool(), s.handleComposeWorkflow)

	return s
}

// ServeStdio blocks serving the MCP protocol over stdin/stdout.
func (s *Server) ServeStdio() error {
	return errors.Wrap(server.ServeStdio(s.mcp), "mcp stdio server failed")
}

// ServeHTTP blocks serving the MCP protocol over streamable HTTP on addr.
func (s *Server) ServeHTTP(ctx context.Context, addr string) error {
	httpServer := server.NewStreamableHTTPServer(s.mcp)
	logger.G(ctx).WithField("addr", addr).Info("starting MCP streamable HTTP server")

	errCh := make(chan error, 1)
	go func() {
		errCh <- httpServer.Start(addr)
	}()

	select {
	case <-ctx.Done():
		shutdownCtx := context.Background()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return errors.Wrap(err, "mcp http server shutdown failed")
		}
		return nil
	case err := <-errCh:
		return errors.Wrap(err, "mcp http server failed")
	}
}

func listSkillsTool() mcp.Tool {
	return mcp.NewTool("list_skills",
		mcp.WithDescription("List all available skills with name, folder, description, version, and tags."),
	)
}

func (s *Server) handleListSkills(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	summaries, err := s.svc.ListSkills(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(summaries)
}

func getSkillTool() mcp.Tool {
	return mcp.NewTool("get_skill",
		mcp.WithDescription("Return the full SKILL.md document for one skill. Accepts the folder name, the metadata name, or a unique partial name."),
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description("Skill to fetch, e.g. 'debugging' or 'fastapi-best-practices'."),
		),
	)
}

func (s *Server) handleGetSkill(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := req.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	content, err := s.svc.GetSkill(ctx, name)
	if err != nil {
		// Unresolved and ambiguous names are advisory text for the
		// caller, not protocol failures.
		var notFound *query.NotFoundError
		var ambiguous *query.AmbiguousError
		if errors.As(err, &notFound) || errors.As(err, &ambiguous) {
			return mcp.NewToolResultText(err.Error()), nil
		}
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(content), nil
}

func searchSkillsTool() mcp.Tool {
	return mcp.NewTool("search_skills",
		mcp.WithDescription("Search skills by keyword overlap against name, description, tags, and body. Returns ranked results."),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("Free-text keywords to match against skill content."),
		),
		mcp.WithNumber("max_results",
			mcp.Description(fmt.Sprintf("Maximum results to return (default %d).", query.DefaultMaxResults)),
		),
	)
}

func (s *Server) handleSearchSkills(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	q, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	maxResults := req.GetInt("max_results", query.DefaultMaxResults)

	hits, err := s.svc.SearchSkills(ctx, q, maxResults)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if len(hits) == 0 {
		return mcp.NewToolResultText(fmt.Sprintf("No skills matched '%s'. Try broader keywords or list_skills().", q)), nil
	}
	return jsonResult(hits)
}

func composeWorkflowTool() mcp.Tool {
	return mcp.NewTool("compose_workflow",
		mcp.WithDescription("Compose a step-by-step workflow document from the skills most relevant to a goal."),
		mcp.WithString("goal",
			mcp.Required(),
			mcp.Description("What you want to accomplish, e.g. 'build a saas mvp'."),
		),
		mcp.WithNumber("max_skills",
			mcp.Description("Maximum workflow steps (default 7)."),
		),
	)
}

func (s *Server) handleComposeWorkflow(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	goal, err := req.RequireString("goal")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	maxSkills := req.GetInt("max_skills", 0)

	rendered, err := s.svc.ComposeWorkflow(ctx, goal, maxSkills)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(rendered), nil
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(out)), nil
}

func serverInstructions() string {
	return `You have access to skillsmith, a skill library server.

Skills are reusable instruction documents (SKILL.md files) describing how to
perform engineering tasks well.

- Use list_skills to see what is available.
- Use search_skills when you know roughly what you need.
- Use get_skill to read the full instructions before doing the task.
- Use compose_workflow to turn a goal into an ordered plan of skills.

Prefer consulting a relevant skill before starting non-trivial work.`
}
