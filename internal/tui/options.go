package tui

import "github.com/evanschultz/shuttle/internal/board"

// Option configures a Model.
type Option func(*Model)

// WithTitle sets the header title.
func WithTitle(title string) Option {
	return func(m *Model) {
		m.title = title
	}
}

// WithShowCounts toggles member counts in list headers.
func WithShowCounts(show bool) Option {
	return func(m *Model) {
		m.showCounts = show
	}
}

// WithPopoverOffset overrides the info popover anchor offsets.
func WithPopoverOffset(offsetX, insetY int) Option {
	return func(m *Model) {
		m.popoverOffsetX = offsetX
		m.popoverInsetY = insetY
	}
}

// WithMoveObserver registers a callback invoked after every move.
func WithMoveObserver(fn func(board.MoveEvent)) Option {
	return func(m *Model) {
		m.onMove = fn
	}
}

// WithClipboard replaces the clipboard writer used by the copy binding.
func WithClipboard(write func(string) error) Option {
	return func(m *Model) {
		if write != nil {
			m.copyToClipboard = write
		}
	}
}

// WithDevMode shows the membership consistency check in the status line.
func WithDevMode(enabled bool) Option {
	return func(m *Model) {
		m.devMode = enabled
	}
}
