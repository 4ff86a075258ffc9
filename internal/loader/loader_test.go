package loader

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bassosimone/lc3vm/internal/mem"
)

func image(origin uint16, payload ...uint16) []byte {
	var buf bytes.Buffer
	write16 := func(w uint16) {
		buf.WriteByte(byte(w >> 8))
		buf.WriteByte(byte(w))
	}
	write16(origin)
	for _, w := range payload {
		write16(w)
	}
	return buf.Bytes()
}

func TestLoadRoundTrip(t *testing.T) {
	m := mem.New()
	payload := []uint16{0x1111, 0x2222, 0x3333}
	err := Load(bytes.NewReader(image(0x3000, payload...)), m)
	require.NoError(t, err)
	for i, want := range payload {
		assert.Equal(t, want, m.Read(0x3000+uint16(i)))
	}
}

func TestLoadEmptyPayload(t *testing.T) {
	m := mem.New()
	err := Load(bytes.NewReader(image(0x3000)), m)
	require.NoError(t, err)
}

func TestLoadRejectsTruncatedOrigin(t *testing.T) {
	m := mem.New()
	err := Load(bytes.NewReader([]byte{0x30}), m)
	assert.Error(t, err)
}

func TestLoadRejectsImageBeyondMemory(t *testing.T) {
	m := mem.New()
	err := Load(bytes.NewReader(image(0xFFFF, 0x1111, 0x2222)), m)
	assert.ErrorIs(t, err, ErrImageTooLarge)
}

func TestLoadMultipleImagesOverwriteOnOverlap(t *testing.T) {
	m := mem.New()
	require.NoError(t, Load(bytes.NewReader(image(0x3000, 0xAAAA, 0xBBBB)), m))
	require.NoError(t, Load(bytes.NewReader(image(0x3001, 0xCCCC)), m))
	assert.Equal(t, uint16(0xAAAA), m.Read(0x3000))
	assert.Equal(t, uint16(0xCCCC), m.Read(0x3001))
}
