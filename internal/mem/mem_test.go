package mem

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePoller struct {
	available bool
	byte_     byte
	err       error
}

func (p *fakePoller) PollInput() bool { return p.available }

func (p *fakePoller) ReadByte() (byte, error) { return p.byte_, p.err }

func TestReadWrite(t *testing.T) {
	m := New()
	m.Write(0x3000, 0x1234)
	assert.Equal(t, uint16(0x1234), m.Read(0x3000))
}

func TestKBSRNoPoller(t *testing.T) {
	m := New()
	assert.Equal(t, uint16(0), m.Read(KBSR))
}

func TestKBSRNoInputAvailable(t *testing.T) {
	m := New()
	m.SetInputPoller(&fakePoller{available: false})
	assert.Equal(t, uint16(0), m.Read(KBSR))
}

func TestKBSRInputAvailable(t *testing.T) {
	m := New()
	m.SetInputPoller(&fakePoller{available: true, byte_: 'A'})
	status := m.Read(KBSR)
	require.Equal(t, uint16(0x8000), status)
	assert.Equal(t, uint16('A'), m.Read(KBDR))
}

func TestKBSRPollerError(t *testing.T) {
	m := New()
	m.SetInputPoller(&fakePoller{available: true, err: errors.New("boom")})
	assert.Equal(t, uint16(0), m.Read(KBSR))
}

func TestWriteToKeyboardRegistersOverwrites(t *testing.T) {
	m := New()
	m.Write(KBSR, 0x1111)
	m.Write(KBDR, 0x2222)
	assert.Equal(t, uint16(0x1111), m.cells[KBSR])
	assert.Equal(t, uint16(0x2222), m.cells[KBDR])
}
