// Package mcp exposes the portfolio's shell, attack scenarios and
// datasets over the Model Context Protocol.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/rmax-ai/haze/pkg/content"
	"github.com/rmax-ai/haze/pkg/shell"
)

const (
	skillsURI       = "haze://skills"
	achievementsURI = "haze://achievements"
	tourPrompt      = "haze-tour"
)

// Server adapts the page content to the Model Context Protocol.
type Server struct {
	mcpServer *server.MCPServer
	content   *content.Content
	shell     *shell.Shell
	source    content.Source
}

// NewServer creates a new MCP server instance. Datasets are read from
// source on every resource request.
func NewServer(c *content.Content, source content.Source, version string) *Server {
	s := &Server{
		mcpServer: server.NewMCPServer(
			"haze",
			version,
		),
		content: c,
		shell:   c.Terminal.Shell(),
		source:  source,
	}
	s.registerResources()
	s.registerTools()
	s.registerPrompts()
	return s
}

// Serve starts the MCP server on stdio.
func (s *Server) Serve() error {
	return server.ServeStdio(s.mcpServer)
}

// --- Resources ---

func (s *Server) registerResources() {
	s.mcpServer.AddResource(mcp.NewResource(
		skillsURI,
		"Skills Graph",
		mcp.WithResourceDescription("Skill nodes with their group and level, plus the links between them"),
		mcp.WithMIMEType("application/json"),
	), s.handleReadSkills)

	s.mcpServer.AddResource(mcp.NewResource(
		achievementsURI,
		"Achievements",
		mcp.WithResourceDescription("Radar series of achievement counts per category"),
		mcp.WithMIMEType("application/json"),
	), s.handleReadAchievements)
}

// --- Tools ---

func (s *Server) registerTools() {
	s.mcpServer.AddTool(mcp.NewTool(
		"run_command",
		mcp.WithDescription("Run a command in the portfolio's terminal. Only the advertised commands have output; 'help' lists them."),
		mcp.WithString("command", mcp.Required(), mcp.Description("The literal command line")),
	), s.handleRunCommand)

	ids := make([]string, len(s.content.Scenarios))
	for i, sc := range s.content.Scenarios {
		ids[i] = sc.ID
	}
	s.mcpServer.AddTool(mcp.NewTool(
		"attack_scenario",
		mcp.WithDescription("Return the transcript of a scripted LLM attack simulation."),
		mcp.WithString("scenario", mcp.Required(), mcp.Enum(ids...), mcp.Description("Scenario id")),
	), s.handleAttackScenario)
}

// --- Prompts ---

func (s *Server) registerPrompts() {
	s.mcpServer.AddPrompt(mcp.NewPrompt(
		tourPrompt,
		mcp.WithPromptDescription("Introduces the portfolio owner and the tools available to explore it"),
	), s.handleGetPrompt)
}

// --- Handlers ---

func (s *Server) handleReadSkills(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	ds, err := s.source.Datasets(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch datasets from %s: %w", s.source.Name(), err)
	}
	return jsonContents(request.Params.URI, ds.Skills)
}

func (s *Server) handleReadAchievements(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	ds, err := s.source.Datasets(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch datasets from %s: %w", s.source.Name(), err)
	}
	return jsonContents(request.Params.URI, ds.Achievements)
}

func jsonContents(uri string, v any) ([]mcp.ResourceContents, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s: %w", uri, err)
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}

func (s *Server) handleRunCommand(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	command := mcp.ParseString(request, "command", "")

	res := s.shell.Exec(command)
	switch res.Kind {
	case shell.Empty, shell.Clear:
		return mcp.NewToolResultText(""), nil
	case shell.Unknown:
		return mcp.NewToolResultError(res.Output), nil
	}
	return mcp.NewToolResultText(res.Output), nil
}

func (s *Server) handleAttackScenario(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := mcp.ParseString(request, "scenario", "")

	sc, ok := s.content.Scenario(id)
	if !ok {
		return mcp.NewToolResultError(fmt.Sprintf("unknown scenario %q", id)), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n", sc.Label)
	for _, m := range sc.Messages {
		fmt.Fprintf(&b, "%s> %s\n", m.Role, m.Text)
	}
	return mcp.NewToolResultText(b.String()), nil
}

func (s *Server) handleGetPrompt(ctx context.Context, request mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	name := request.Params.Name
	if name != tourPrompt {
		return nil, fmt.Errorf("prompt not found: %s", name)
	}

	p := s.content.Profile
	var b strings.Builder
	fmt.Fprintf(&b, "You are touring the portfolio of %s (%s), %s.\n\n", p.Name, p.Handle, p.Title)
	b.WriteString("Tools:\n")
	b.WriteString("- run_command: run one of these terminal commands: ")
	b.WriteString(strings.Join(s.shell.Commands(), ", "))
	b.WriteString("\n- attack_scenario: replay a scripted attack simulation (")
	for i, sc := range s.content.Scenarios {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%s: %s", sc.ID, sc.Label)
	}
	b.WriteString(")\n\nResources:\n")
	fmt.Fprintf(&b, "- %s: skills graph\n- %s: achievements radar\n", skillsURI, achievementsURI)

	return mcp.NewGetPromptResult(
		tourPrompt,
		[]mcp.PromptMessage{
			mcp.NewPromptMessage(mcp.RoleUser, mcp.NewTextContent(b.String())),
		},
	), nil
}
