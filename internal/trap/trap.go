// Package trap implements the six LC-3 trap service routines dispatched on
// the low 8 bits of a TRAP instruction.
package trap

import (
	"errors"
	"fmt"
	"io"

	"github.com/bassosimone/lc3vm/internal/cpu"
	"github.com/bassosimone/lc3vm/internal/term"
)

// The trap vectors this layer services.
const (
	GETC  uint16 = 0x20 // read a character, no echo
	OUT   uint16 = 0x21 // write a character
	PUTS  uint16 = 0x22 // write a NUL-terminated word string
	IN    uint16 = 0x23 // prompt, read and echo a character
	PUTSP uint16 = 0x24 // write a NUL-terminated packed-byte string
	HALT  uint16 = 0x25 // stop the machine
)

// ErrUnknownVector indicates a TRAP vector this layer does not recognize.
var ErrUnknownVector = errors.New("trap: unknown vector")

// flusher is implemented by buffered writers; Dispatch flushes console
// output after any trap that writes to out, matching the LC-3's own
// "flush" discipline for console routines.
type flusher interface {
	Flush() error
}

// Dispatch services one TRAP instruction, reading and writing m's register
// file and memory and performing console I/O through tm and out. It returns
// cpu.ErrHalt for HALT, and ErrUnknownVector (wrapped) for a vector it does
// not recognize.
func Dispatch(m *cpu.Machine, vector uint16, tm term.Terminal, out io.Writer) error {
	switch vector {
	case GETC:
		b, err := tm.ReadByte()
		if err != nil {
			return fmt.Errorf("trap: GETC: %w", err)
		}
		m.Reg.R[0] = uint16(b)
		m.Reg.SetCC(0)

	case OUT:
		out.Write([]byte{byte(m.Reg.R[0] & 0xFF)})

	case PUTS:
		for addr := m.Reg.R[0]; ; addr++ {
			word := m.Mem.Read(addr)
			if word == 0 {
				break
			}
			out.Write([]byte{byte(word & 0xFF)})
		}

	case IN:
		fmt.Fprint(out, "Enter a character: ")
		flush(out)
		b, err := tm.ReadByte()
		if err != nil {
			return fmt.Errorf("trap: IN: %w", err)
		}
		out.Write([]byte{b})
		m.Reg.R[0] = uint16(b)
		m.Reg.SetCC(0)

	case PUTSP:
		for addr := m.Reg.R[0]; ; addr++ {
			word := m.Mem.Read(addr)
			if word == 0 {
				break
			}
			lo := byte(word & 0xFF)
			out.Write([]byte{lo})
			if hi := byte(word >> 8); hi != 0 {
				out.Write([]byte{hi})
			}
		}

	case HALT:
		fmt.Fprint(out, "\n--- halting the LC-3 ---\n")
		flush(out)
		return cpu.ErrHalt

	default:
		return fmt.Errorf("%w: 0x%02X", ErrUnknownVector, vector)
	}
	flush(out)
	return nil
}

func flush(out io.Writer) {
	if f, ok := out.(flusher); ok {
		_ = f.Flush()
	}
}
