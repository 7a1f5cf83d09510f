package ui

import (
	"sync/atomic"

	tea "github.com/charmbracelet/bubbletea"
)

// runMsg carries a scheduled callback onto the bubbletea event loop.
type runMsg func()

// Poster forwards scheduler callbacks into a running tea.Program, so
// every timer fires on the goroutine that owns the model.
//
// The Poster must exist before the program does. Callbacks posted
// before SetProgram, or after the program exits, are dropped.
type Poster struct {
	program atomic.Pointer[tea.Program]
}

// SetProgram sets the program that receives callbacks. Safe to call
// from any goroutine.
func (p *Poster) SetProgram(program *tea.Program) {
	p.program.Store(program)
}

// Post hands f to the program's event loop. It must not be called from
// inside Update, where Send would block on the loop that is running.
func (p *Poster) Post(f func()) {
	program := p.program.Load()
	if program == nil {
		return
	}
	program.Send(runMsg(f))
}
