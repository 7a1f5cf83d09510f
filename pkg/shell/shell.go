// Package shell is the canned command shell shown in the terminal
// section.
package shell

import (
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/rmax-ai/haze/pkg/metrics"
)

// Kind classifies a command result.
type Kind int

const (
	// Empty input produces no output.
	Empty Kind = iota
	// Known commands print their canned response.
	Known
	// Listing is the help/ls output.
	Listing
	// Clear asks the display to wipe its history.
	Clear
	// Unknown commands print the not-found notice.
	Unknown
)

// Result is what Exec produced.
type Result struct {
	Kind   Kind
	Output string
}

// Shell maps literal command strings to canned output.
type Shell struct {
	commands  []string
	responses map[string]string
	notFound  string
	listing   string
}

// Option configures a Shell.
type Option func(*Shell)

// WithNotFound sets the format of the unknown-command notice. It must
// contain one %s for the command.
func WithNotFound(format string) Option {
	return func(s *Shell) { s.notFound = format }
}

// WithListing sets the prefix of the help/ls output.
func WithListing(prefix string) Option {
	return func(s *Shell) { s.listing = prefix }
}

// New returns a Shell. commands is the advertised list, in display
// order; responses holds the canned output per literal command.
func New(commands []string, responses map[string]string, opts ...Option) *Shell {
	s := &Shell{
		commands:  append([]string(nil), commands...),
		responses: make(map[string]string, len(responses)),
		notFound:  "command not found: %s. Type 'help' to list available commands.",
		listing:   "Available commands: ",
	}
	for k, v := range responses {
		s.responses[k] = v
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Commands returns the advertised command list.
func (s *Shell) Commands() []string {
	return append([]string(nil), s.commands...)
}

// Exec runs one command line. Matching is literal; only surrounding
// whitespace is ignored when deciding that a line is blank.
func (s *Shell) Exec(command string) Result {
	if strings.TrimSpace(command) == "" {
		metrics.ShellCommands.WithLabelValues("empty").Inc()
		return Result{Kind: Empty}
	}
	if out, ok := s.responses[command]; ok {
		metrics.ShellCommands.WithLabelValues("known").Inc()
		return Result{Kind: Known, Output: out}
	}
	switch command {
	case "help", "ls":
		metrics.ShellCommands.WithLabelValues("builtin").Inc()
		return Result{Kind: Listing, Output: s.listing + strings.Join(s.commands, ", ")}
	case "clear":
		metrics.ShellCommands.WithLabelValues("builtin").Inc()
		return Result{Kind: Clear}
	}
	metrics.ShellCommands.WithLabelValues("unknown").Inc()
	return Result{Kind: Unknown, Output: fmt.Sprintf(s.notFound, command)}
}

// Complete returns the advertised commands starting with prefix, sorted.
func (s *Shell) Complete(prefix string) []string {
	var out []string
	for _, c := range s.commands {
		if strings.HasPrefix(c, prefix) {
			out = append(out, c)
		}
	}
	sort.Strings(out)
	return out
}

// CommonPrefix returns the longest prefix shared by all candidates.
func CommonPrefix(candidates []string) string {
	if len(candidates) == 0 {
		return ""
	}
	prefix := candidates[0]
	for _, c := range candidates[1:] {
		for !strings.HasPrefix(c, prefix) {
			_, size := utf8.DecodeLastRuneInString(prefix)
			prefix = prefix[:len(prefix)-size]
		}
	}
	return prefix
}
