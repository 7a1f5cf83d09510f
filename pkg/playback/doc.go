// Package playback replays scripted text against live surfaces.
//
// Everything here runs on one logical thread. A Scheduler delays
// callbacks and then hands them to that thread; in the terminal UI the
// thread is the bubbletea event loop, in tests it is the goroutine
// calling clock.FakeClock.Advance. Components therefore hold no locks,
// and every continuation checks its run's cancelled flag before it
// touches a surface.
//
// The pieces:
//
//   - Typer reveals a string one rune per tick into a Surface.
//   - Sequencer plays an ordered list of Steps into a Target, typing or
//     writing each step, pausing between steps.
//   - Debouncer collapses bursts of triggers into one call after a quiet
//     period.
//   - Future carries a one-shot completion signal.
package playback
