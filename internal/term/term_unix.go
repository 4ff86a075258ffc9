//go:build !windows

package term

import (
	"os"
	"time"

	"golang.org/x/sys/unix"
	xterm "golang.org/x/term"
)

// posixTerminal is the POSIX backend, grounded on the raw-mode/non-blocking
// stdin idiom of a terminal host adapter: term.MakeRaw to disable
// canonical-mode/echo, unix.SetNonblock on the same file descriptor so reads
// never block the VM, and a one-byte pending buffer so a poll that consumes
// a byte can hand it to the following read.
type posixTerminal struct {
	fd       int
	oldState *xterm.State
	pending  []byte
}

// New returns the POSIX Terminal backend, operating on stdin.
func New() Terminal {
	return &posixTerminal{fd: int(os.Stdin.Fd())}
}

func (t *posixTerminal) EnableRawMode() error {
	old, err := xterm.MakeRaw(t.fd)
	if err != nil {
		return err
	}
	t.oldState = old
	if err := unix.SetNonblock(t.fd, true); err != nil {
		_ = xterm.Restore(t.fd, t.oldState)
		t.oldState = nil
		return err
	}
	t.pending = nil
	return nil
}

func (t *posixTerminal) Restore() error {
	if t.oldState == nil {
		return nil
	}
	err := xterm.Restore(t.fd, t.oldState)
	t.oldState = nil
	return err
}

func (t *posixTerminal) PollInput() bool {
	if len(t.pending) > 0 {
		return true
	}
	var buf [1]byte
	n, err := unix.Read(t.fd, buf[:])
	if n > 0 {
		t.pending = append(t.pending, buf[0])
		return true
	}
	_ = err // EAGAIN/EWOULDBLOCK simply means nothing is ready
	return false
}

func (t *posixTerminal) ReadByte() (byte, error) {
	for {
		if len(t.pending) > 0 {
			b := t.pending[0]
			t.pending = t.pending[1:]
			return b, nil
		}
		var buf [1]byte
		n, err := unix.Read(t.fd, buf[:])
		if n > 0 {
			return buf[0], nil
		}
		if err != nil && err != unix.EAGAIN && err != unix.EWOULDBLOCK {
			return 0, err
		}
		time.Sleep(time.Millisecond)
	}
}
