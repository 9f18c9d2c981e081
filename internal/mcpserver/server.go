// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes the alias catalog to LLM clients via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/aliasrunner/internal/apperr"
	"github.com/starford/aliasrunner/internal/catalog"
	"github.com/starford/aliasrunner/internal/history"
	"github.com/starford/aliasrunner/internal/models"
	"github.com/starford/aliasrunner/internal/search"
)

// SyntaxURI is the resource URI of the rc syntax reference.
const SyntaxURI = "aliasrunner://syntax"

// Catalog is the alias session the tools read and edit.
type Catalog interface {
	Search(text string) []search.Hit
	Get(name string) (models.Alias, error)
	SetNote(name, text string) (models.Alias, error)
	ClearNote(name string) (models.Alias, error)
	Reload() (catalog.ReloadStats, error)
}

// Server wraps the MCP server with alias tools.
type Server struct {
	mcp  *server.MCPServer
	cat  Catalog
	runs history.Log
}

type aliasHit struct {
	models.Alias
	Location string `json:"location"`
	Score    int    `json:"score"`
}

// New creates a new MCP server with all alias tools registered. runs may be
// nil when history is disabled.
func New(cat Catalog, runs history.Log, version string) *Server {
	s := &Server{cat: cat, runs: runs}

	s.mcp = server.NewMCPServer(
		"Alias Runner",
		version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("search_aliases",
		mcp.WithDescription("Rank shell aliases by how many query words appear in their name, body or note. "+
			"An empty query lists every alias."),
		mcp.WithString("query", mcp.Description("Space-separated search terms")),
		mcp.WithNumber("limit", mcp.Description("Max results (0 for all)"), mcp.Min(0)),
		mcp.WithReadOnlyHintAnnotation(true),
	), s.searchAliases)

	s.mcp.AddTool(mcp.NewTool("get_alias",
		mcp.WithDescription("Return one alias by exact name, with the file and line that define it."),
		mcp.WithString("name", mcp.Required(), mcp.Description("Alias name, e.g. gst")),
		mcp.WithReadOnlyHintAnnotation(true),
	), s.getAlias)

	s.mcp.AddTool(mcp.NewTool("set_note",
		mcp.WithDescription("Save a user note for an alias. The note replaces the one parsed from the rc "+
			"files and is stored separately; blank text removes it."),
		mcp.WithString("name", mcp.Required(), mcp.Description("Alias name")),
		mcp.WithString("note", mcp.Required(), mcp.Description("Note text")),
	), s.setNote)

	s.mcp.AddTool(mcp.NewTool("clear_note",
		mcp.WithDescription("Remove the user note of an alias, restoring the parsed note."),
		mcp.WithString("name", mcp.Required(), mcp.Description("Alias name")),
	), s.clearNote)

	s.mcp.AddTool(mcp.NewTool("reload_aliases",
		mcp.WithDescription("Re-read the rc files and rebuild the alias set."),
	), s.reloadAliases)

	s.mcp.AddTool(mcp.NewTool("recent_runs",
		mcp.WithDescription("List the most recent alias runs, newest first."),
		mcp.WithNumber("limit", mcp.Description("Max runs"), mcp.Min(0)),
		mcp.WithString("name", mcp.Description("Only runs of this alias")),
		mcp.WithReadOnlyHintAnnotation(true),
	), s.recentRuns)

	s.mcp.AddTool(mcp.NewTool("get_syntax_reference",
		mcp.WithDescription("Describe the rc-file lines the indexer recognises: aliases, note comments and includes."),
		mcp.WithReadOnlyHintAnnotation(true),
	), s.getSyntaxReference)

	s.mcp.AddResource(
		mcp.NewResource(SyntaxURI, "RC Syntax Reference",
			mcp.WithResourceDescription("Which alias, note and include lines are indexed."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readSyntaxResource,
	)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func jsonResult(v any) *mcp.CallToolResult {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(err.Error())
	}
	return mcp.NewToolResultText(string(out))
}

func toolError(err error) *mcp.CallToolResult {
	if errors.Is(err, apperr.ErrNotFound) {
		return mcp.NewToolResultError(err.Error())
	}
	return mcp.NewToolResultError(fmt.Sprintf("internal error: %v", err))
}

func withLocation(a models.Alias, score int) aliasHit {
	return aliasHit{Alias: a, Location: a.Location(), Score: score}
}

func (s *Server) searchAliases(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query := req.GetString("query", "")
	limit := req.GetInt("limit", 0)

	hits := s.cat.Search(query)
	if limit > 0 && len(hits) > limit {
		hits = hits[:limit]
	}
	out := make([]aliasHit, len(hits))
	for i, h := range hits {
		out[i] = withLocation(h.Alias, h.Score)
	}
	return jsonResult(out), nil
}

func (s *Server) getAlias(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := req.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	a, err := s.cat.Get(name)
	if err != nil {
		return toolError(err), nil
	}
	return jsonResult(withLocation(a, 0)), nil
}

func (s *Server) setNote(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := req.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	note, err := req.RequireString("note")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	a, err := s.cat.SetNote(name, note)
	if err != nil {
		return toolError(err), nil
	}
	if strings.TrimSpace(note) == "" {
		return mcp.NewToolResultText(fmt.Sprintf("note cleared: %s", name)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("note saved: %s = %s", a.Name, a.Note)), nil
}

func (s *Server) clearNote(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := req.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if _, err := s.cat.ClearNote(name); err != nil {
		return toolError(err), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("note cleared: %s", name)), nil
}

func (s *Server) reloadAliases(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	stats, err := s.cat.Reload()
	if err != nil {
		return toolError(err), nil
	}
	return jsonResult(stats), nil
}

func (s *Server) recentRuns(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if s.runs == nil {
		return mcp.NewToolResultText("run history is disabled"), nil
	}
	runs, err := s.runs.Recent(req.GetInt("limit", 0), req.GetString("name", ""))
	if err != nil {
		return toolError(err), nil
	}
	if len(runs) == 0 {
		return mcp.NewToolResultText("no runs recorded"), nil
	}
	return jsonResult(runs), nil
}

func (s *Server) getSyntaxReference(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(SyntaxReference), nil
}

func (s *Server) readSyntaxResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      SyntaxURI,
			MIMEType: "text/markdown",
			Text:     SyntaxReference,
		},
	}, nil
}
