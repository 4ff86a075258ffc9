// Package loader reads an LC-3 object image -- a big-endian stream of
// 16-bit words whose first word is a load origin -- into memory.
package loader

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/bassosimone/lc3vm/internal/mem"
)

// ErrImageTooLarge indicates that an image's origin plus its word count
// would overflow the 65536-word address space.
var ErrImageTooLarge = errors.New("loader: image exceeds memory")

// Load reads one object image from r and places it into m starting at the
// origin given by the image's first word. Word 0 is the origin; words
// 1..N are placed contiguously at origin..origin+N-1, each byte-swapped
// from big-endian to host order. Loading multiple images in sequence is
// supported by calling Load once per image against the same Memory; later
// writes overwrite earlier ones where ranges overlap.
func Load(r io.Reader, m *mem.Memory) error {
	var origin uint16
	if err := binary.Read(r, binary.BigEndian, &origin); err != nil {
		return fmt.Errorf("loader: read origin: %w", err)
	}

	addr := uint32(origin)
	for {
		var word uint16
		if err := binary.Read(r, binary.BigEndian, &word); err != nil {
			if err == io.EOF {
				return nil
			}
			return fmt.Errorf("loader: read word: %w", err)
		}
		if addr >= mem.MemorySize {
			return ErrImageTooLarge
		}
		m.Write(uint16(addr), word)
		addr++
	}
}
