//go:build windows

package term

import (
	"os"

	"golang.org/x/sys/windows"
)

// winTerminal is the Windows backend, implementing the same Terminal
// interface as the POSIX backend by toggling console-mode flags instead of
// termios: clearing ENABLE_ECHO_INPUT and ENABLE_LINE_INPUT disables local
// echo and line buffering, and WaitForSingleObject with a zero timeout gives
// the non-blocking poll.
type winTerminal struct {
	handle  windows.Handle
	oldMode uint32
	raw     bool
	pending []byte
}

// New returns the Windows Terminal backend, operating on stdin.
func New() Terminal {
	return &winTerminal{handle: windows.Handle(os.Stdin.Fd())}
}

func (t *winTerminal) EnableRawMode() error {
	if err := windows.GetConsoleMode(t.handle, &t.oldMode); err != nil {
		return err
	}
	mode := t.oldMode &^ (windows.ENABLE_ECHO_INPUT | windows.ENABLE_LINE_INPUT | windows.ENABLE_PROCESSED_INPUT)
	if err := windows.SetConsoleMode(t.handle, mode); err != nil {
		return err
	}
	t.raw = true
	t.pending = nil
	return nil
}

func (t *winTerminal) Restore() error {
	if !t.raw {
		return nil
	}
	err := windows.SetConsoleMode(t.handle, t.oldMode)
	t.raw = false
	return err
}

func (t *winTerminal) PollInput() bool {
	if len(t.pending) > 0 {
		return true
	}
	event, err := windows.WaitForSingleObject(t.handle, 0)
	if err != nil || event != windows.WAIT_OBJECT_0 {
		return false
	}
	var buf [1]byte
	var n uint32
	if err := windows.ReadFile(t.handle, buf[:], &n, nil); err != nil || n == 0 {
		return false
	}
	t.pending = append(t.pending, buf[0])
	return true
}

func (t *winTerminal) ReadByte() (byte, error) {
	for {
		if len(t.pending) > 0 {
			b := t.pending[0]
			t.pending = t.pending[1:]
			return b, nil
		}
		var buf [1]byte
		var n uint32
		if err := windows.ReadFile(t.handle, buf[:], &n, nil); err != nil {
			return 0, err
		}
		if n > 0 {
			return buf[0], nil
		}
	}
}
