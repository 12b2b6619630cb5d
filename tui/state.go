// Package tui provides the terminal view of a running pool.
package tui

type state int

const (
	watchState state = iota
	errorState
)
