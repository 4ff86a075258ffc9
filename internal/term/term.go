// Package term abstracts the controlling terminal's raw-mode toggle and
// non-blocking input poll behind a single interface, with POSIX and Windows
// backends sharing that interface (see term_unix.go and term_windows.go).
package term

// Terminal puts the controlling terminal into the mode the LC-3 console
// device needs: non-canonical, no local echo, with non-blocking polling of
// pending input.
type Terminal interface {
	// EnableRawMode disables line buffering and local echo, and discards
	// any byte the backend itself still holds from an earlier PollInput.
	// Input already queued by the operating system is not flushed.
	EnableRawMode() error

	// Restore returns the terminal to the mode it had before
	// EnableRawMode was called. It is safe to call more than once.
	Restore() error

	// PollInput reports, without blocking, whether at least one byte is
	// currently readable.
	PollInput() bool

	// ReadByte returns the next byte from the terminal, blocking until
	// one is available.
	ReadByte() (byte, error)
}
