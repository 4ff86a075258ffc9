package cpu_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bassosimone/lc3vm/internal/cpu"
	"github.com/bassosimone/lc3vm/internal/mem"
	"github.com/bassosimone/lc3vm/internal/trap"
)

// stubTerminal feeds a fixed byte sequence to GETC/IN, used to drive the
// end-to-end scenarios in spec without a real controlling terminal.
type stubTerminal struct {
	in  []byte
	pos int
}

func (s *stubTerminal) EnableRawMode() error { return nil }
func (s *stubTerminal) Restore() error       { return nil }
func (s *stubTerminal) PollInput() bool      { return s.pos < len(s.in) }

func (s *stubTerminal) ReadByte() (byte, error) {
	if s.pos >= len(s.in) {
		return 0, errors.New("stubTerminal: exhausted")
	}
	b := s.in[s.pos]
	s.pos++
	return b, nil
}

func runUntilHalt(t *testing.T, m *cpu.Machine) error {
	t.Helper()
	for {
		_, instr, err := m.Step()
		if err != nil {
			if errors.Is(err, cpu.ErrHalt) {
				return nil
			}
			return err
		}
		_ = instr
	}
}

func TestScenarioHello(t *testing.T) {
	// LEA R0,+2 ; PUTS ; HALT ; 'H','i','!','\n', 0
	m := mem.New()
	machine := cpu.NewMachine(m)
	var out bytes.Buffer
	machine.Trap = func(mm *cpu.Machine, vector uint16) error {
		return trap.Dispatch(mm, vector, &stubTerminal{}, &out)
	}

	addr := cpu.ResetPC
	m.Write(addr, 0xE002) // LEA R0,#2 (the string starts two words past the incremented PC)
	addr++
	m.Write(addr, 0xF022) // TRAP PUTS
	addr++
	m.Write(addr, 0xF025) // TRAP HALT
	addr++
	for _, c := range "Hi!\n" {
		m.Write(addr, uint16(c))
		addr++
	}
	m.Write(addr, 0)

	require.NoError(t, runUntilHalt(t, machine))
	assert.Contains(t, out.String(), "Hi!\n")
}

func TestScenarioEcho(t *testing.T) {
	// GETC ; OUT ; HALT, with stdin containing 'A'
	m := mem.New()
	machine := cpu.NewMachine(m)
	var out bytes.Buffer
	machine.Trap = func(mm *cpu.Machine, vector uint16) error {
		return trap.Dispatch(mm, vector, &stubTerminal{in: []byte("A")}, &out)
	}

	addr := cpu.ResetPC
	m.Write(addr, 0xF020) // TRAP GETC
	addr++
	m.Write(addr, 0xF021) // TRAP OUT
	addr++
	m.Write(addr, 0xF025) // TRAP HALT

	require.NoError(t, runUntilHalt(t, machine))
	assert.Contains(t, out.String(), "A")
}
