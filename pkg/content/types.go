package content

import (
	"fmt"

	"github.com/rmax-ai/haze/pkg/playback"
	"github.com/rmax-ai/haze/pkg/shell"
)

// Content is everything the page shows. It is static configuration:
// loaded once, never mutated.
type Content struct {
	Profile    Profile    `yaml:"profile" json:"profile"`
	About      string     `yaml:"about" json:"about"`
	Terminal   Terminal   `yaml:"terminal" json:"terminal"`
	Scenarios  []Scenario `yaml:"scenarios" json:"scenarios"`
	HackerMode HackerMode `yaml:"hacker_mode" json:"hacker_mode"`
	Contact    Contact    `yaml:"contact" json:"contact"`
	Datasets   Datasets   `yaml:"datasets" json:"datasets"`
}

type Profile struct {
	Handle  string `yaml:"handle" json:"handle"`
	Name    string `yaml:"name" json:"name"`
	Title   string `yaml:"title" json:"title"`
	Tagline string `yaml:"tagline" json:"tagline"`
}

// Terminal configures the fake shell and its auto-typed demo.
type Terminal struct {
	Greeting string    `yaml:"greeting" json:"greeting"`
	Prompt   string    `yaml:"prompt" json:"prompt"`
	NotFound string    `yaml:"not_found" json:"not_found"`
	Listing  string    `yaml:"listing" json:"listing"`
	Commands []Command `yaml:"commands" json:"commands"`
}

// Command is one known shell command and its canned output.
type Command struct {
	Command string `yaml:"command" json:"command"`
	Output  string `yaml:"output" json:"output"`
}

// CommandList returns the commands in display order.
func (t Terminal) CommandList() []string {
	out := make([]string, len(t.Commands))
	for i, c := range t.Commands {
		out[i] = c.Command
	}
	return out
}

// Responses returns the command to output mapping.
func (t Terminal) Responses() map[string]string {
	out := make(map[string]string, len(t.Commands))
	for _, c := range t.Commands {
		out[c.Command] = c.Output
	}
	return out
}

// Shell builds the canned shell this terminal runs.
func (t Terminal) Shell() *shell.Shell {
	var opts []shell.Option
	if t.NotFound != "" {
		opts = append(opts, shell.WithNotFound(t.NotFound))
	}
	if t.Listing != "" {
		opts = append(opts, shell.WithListing(t.Listing))
	}
	return shell.New(t.CommandList(), t.Responses(), opts...)
}

// Message is one line of a scripted dialogue.
type Message struct {
	Role string `yaml:"role" json:"role"`
	Text string `yaml:"text" json:"text"`
}

// Scenario is one attack simulation transcript.
type Scenario struct {
	ID       string    `yaml:"id" json:"id"`
	Label    string    `yaml:"label" json:"label"`
	Key      string    `yaml:"key" json:"key"`
	Messages []Message `yaml:"messages" json:"messages"`
}

// Steps converts the transcript into typed playback steps.
func (s Scenario) Steps() []playback.Step {
	steps := make([]playback.Step, len(s.Messages))
	for i, m := range s.Messages {
		steps[i] = playback.Step{Role: m.Role, Text: m.Text, Mode: playback.Typed}
	}
	return steps
}

// HackerMode is the easter egg overlay script.
type HackerMode struct {
	Lines  []Message `yaml:"lines" json:"lines"`
	Art    string    `yaml:"art" json:"art"`
	Footer string    `yaml:"footer" json:"footer"`
}

type Contact struct {
	Sending string `yaml:"sending" json:"sending"`
	Sent    string `yaml:"sent" json:"sent"`
}

// Scenario returns the scenario with the given id.
func (c *Content) Scenario(id string) (Scenario, bool) {
	for _, s := range c.Scenarios {
		if s.ID == id {
			return s, true
		}
	}
	return Scenario{}, false
}

// Validate checks the invariants the page relies on.
func (c *Content) Validate() error {
	seen := make(map[string]bool)
	for _, s := range c.Scenarios {
		if s.ID == "" {
			return fmt.Errorf("scenario without id")
		}
		if seen[s.ID] {
			return fmt.Errorf("duplicate scenario id %q", s.ID)
		}
		seen[s.ID] = true
	}
	commands := make(map[string]bool)
	for _, cmd := range c.Terminal.Commands {
		if cmd.Command == "" {
			return fmt.Errorf("terminal command without text")
		}
		if commands[cmd.Command] {
			return fmt.Errorf("duplicate terminal command %q", cmd.Command)
		}
		commands[cmd.Command] = true
	}
	return c.Datasets.Validate()
}
