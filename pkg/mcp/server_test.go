package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rmax-ai/haze/pkg/content"
)

type failingSource struct{}

func (failingSource) Name() string { return "failing" }

func (failingSource) Datasets(context.Context) (*content.Datasets, error) {
	return nil, errors.New("unreachable")
}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	return NewServer(content.MustDefault(), content.Embedded(), "test")
}

func toolText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, result.Content)
	text, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok, "expected TextContent, got %T", result.Content[0])
	return text.Text
}

func callTool(name string, args map[string]any) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      name,
			Arguments: args,
		},
	}
}

func TestMCPServer_ReadSkills(t *testing.T) {
	s := newTestServer(t)

	req := mcp.ReadResourceRequest{
		Params: mcp.ReadResourceParams{URI: skillsURI},
	}
	result, err := s.handleReadSkills(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, result, 1)

	c, ok := result[0].(mcp.TextResourceContents)
	require.True(t, ok)
	assert.Equal(t, "application/json", c.MIMEType)
	assert.Equal(t, skillsURI, c.URI)

	var graph content.SkillGraph
	require.NoError(t, json.Unmarshal([]byte(c.Text), &graph))
	assert.Equal(t, content.MustDefault().Datasets.Skills, graph)
}

func TestMCPServer_ReadAchievements(t *testing.T) {
	s := newTestServer(t)

	req := mcp.ReadResourceRequest{
		Params: mcp.ReadResourceParams{URI: achievementsURI},
	}
	result, err := s.handleReadAchievements(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, result, 1)

	c := result[0].(mcp.TextResourceContents)
	var radar content.Radar
	require.NoError(t, json.Unmarshal([]byte(c.Text), &radar))
	assert.Equal(t, "Machines Compromised", radar.Label)
	assert.Len(t, radar.Values, len(radar.Labels))
}

func TestMCPServer_ReadFailsWhenSourceFails(t *testing.T) {
	s := NewServer(content.MustDefault(), failingSource{}, "test")

	_, err := s.handleReadSkills(context.Background(), mcp.ReadResourceRequest{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failing")
}

func TestMCPServer_RunCommand(t *testing.T) {
	s := newTestServer(t)
	c := content.MustDefault()

	result, err := s.handleRunCommand(context.Background(), callTool("run_command", map[string]any{
		"command": "whoami",
	}))
	require.NoError(t, err)
	assert.False(t, result.IsError)
	assert.Equal(t, c.Terminal.Responses()["whoami"], toolText(t, result))

	result, err = s.handleRunCommand(context.Background(), callTool("run_command", map[string]any{
		"command": "help",
	}))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(toolText(t, result), c.Terminal.Listing))

	result, err = s.handleRunCommand(context.Background(), callTool("run_command", map[string]any{
		"command": "rm -rf /",
	}))
	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.Contains(t, toolText(t, result), "rm -rf /")
}

func TestMCPServer_AttackScenario(t *testing.T) {
	s := newTestServer(t)
	sc, ok := content.MustDefault().Scenario("jailbreak")
	require.True(t, ok)

	result, err := s.handleAttackScenario(context.Background(), callTool("attack_scenario", map[string]any{
		"scenario": "jailbreak",
	}))
	require.NoError(t, err)
	require.False(t, result.IsError)

	text := toolText(t, result)
	lines := strings.Split(strings.TrimSuffix(text, "\n"), "\n")
	require.Len(t, lines, len(sc.Messages)+1)
	assert.Equal(t, "# "+sc.Label, lines[0])
	assert.Equal(t, sc.Messages[0].Role+"> "+sc.Messages[0].Text, lines[1])

	result, err = s.handleAttackScenario(context.Background(), callTool("attack_scenario", map[string]any{
		"scenario": "phishing",
	}))
	require.NoError(t, err)
	assert.True(t, result.IsError)
}

func TestMCPServer_Prompt(t *testing.T) {
	s := newTestServer(t)

	req := mcp.GetPromptRequest{Params: mcp.GetPromptParams{Name: tourPrompt}}
	result, err := s.handleGetPrompt(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, result.Messages, 1)

	text, ok := result.Messages[0].Content.(mcp.TextContent)
	require.True(t, ok)
	assert.Contains(t, text.Text, "whoami")
	assert.Contains(t, text.Text, skillsURI)

	_, err = s.handleGetPrompt(context.Background(), mcp.GetPromptRequest{Params: mcp.GetPromptParams{Name: "other"}})
	assert.Error(t, err)
}
