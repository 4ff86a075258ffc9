// Package mem implements the LC-3's flat 65536-word memory, including the
// memory-mapped keyboard device at 0xFE00/0xFE02.
package mem

// MemorySize is the number of addressable 16-bit words.
const MemorySize = 1 << 16

// The following constants define the memory-mapped keyboard registers.
const (
	// KBSR is the keyboard status register. Reading it polls the input
	// device: bit 15 is set iff a byte is currently available.
	KBSR uint16 = 0xFE00

	// KBDR is the keyboard data register. It holds the most recently
	// consumed byte once KBSR's high bit has been observed set.
	KBDR uint16 = 0xFE02

	// kbsrReady is the value stored in KBSR when a byte is available.
	kbsrReady uint16 = 0x8000
)

// InputPoller abstracts the console input device that backs the keyboard
// MMIO registers. A nil poller makes KBSR always read as not-ready.
type InputPoller interface {
	// PollInput reports, without blocking, whether a byte is available.
	PollInput() bool

	// ReadByte returns the next available byte. Callers must only call
	// this after PollInput has returned true, so it will not block.
	ReadByte() (byte, error)
}

// Memory is the LC-3's flat word-addressed memory.
type Memory struct {
	cells  [MemorySize]uint16
	poller InputPoller
}

// New returns a zeroed Memory with no input poller attached.
func New() *Memory {
	return &Memory{}
}

// SetInputPoller attaches the device that services reads of KBSR. It is
// normally called once, after the terminal has been put into raw mode.
func (m *Memory) SetInputPoller(p InputPoller) {
	m.poller = p
}

// Read returns the word stored at addr. Reading KBSR first polls the input
// device: if a byte is ready, it is consumed, stashed in KBDR, and KBSR is
// set to 0x8000; otherwise KBSR is cleared to 0.
func (m *Memory) Read(addr uint16) uint16 {
	if addr == KBSR {
		if m.poller != nil && m.poller.PollInput() {
			if b, err := m.poller.ReadByte(); err == nil {
				m.cells[KBDR] = uint16(b)
				m.cells[KBSR] = kbsrReady
			} else {
				m.cells[KBSR] = 0
			}
		} else {
			m.cells[KBSR] = 0
		}
	}
	return m.cells[addr]
}

// Write unconditionally stores word at addr.
func (m *Memory) Write(addr uint16, word uint16) {
	m.cells[addr] = word
}
