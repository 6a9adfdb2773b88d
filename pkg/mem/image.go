package mem

import (
	"fmt"

	"simasm/pkg/isa"
)

// Size is the capacity of an Image in bytes.
const Size = isa.MemorySize

// Write is one committed byte.
type Write struct {
	Addr  int
	Value byte
}

// WriteFunc observes committed bytes, in write order.
type WriteFunc func(addr int, value byte)

// Image is the memory of the target machine as produced by the assembler.
// Cells that were never written (reserved space, gaps left by ORG) read as
// zero and report Written(addr) == false.
type Image struct {
	data    [Size]byte
	written [Size]bool
	log     []Write

	entry    int
	hasEntry bool
}

// New returns an empty image.
func New() *Image {
	return &Image{}
}

// Store writes value at addr and appends it to the write log.
func (m *Image) Store(addr int, value byte) error {
	if addr < 0 || addr >= Size {
		return fmt.Errorf("address %d outside memory (0-%d)", addr, Size-1)
	}
	m.data[addr] = value
	m.written[addr] = true
	m.log = append(m.log, Write{Addr: addr, Value: value})
	return nil
}

// Load returns the byte at addr, or 0 outside the image.
func (m *Image) Load(addr int) byte {
	if addr < 0 || addr >= Size {
		return 0
	}
	return m.data[addr]
}

// Written reports whether addr was stored to.
func (m *Image) Written(addr int) bool {
	if addr < 0 || addr >= Size {
		return false
	}
	return m.written[addr]
}

// Bytes returns a copy of the whole image.
func (m *Image) Bytes() []byte {
	out := make([]byte, Size)
	copy(out, m.data[:])
	return out
}

// Log returns the writes in the order they happened.
func (m *Image) Log() []Write {
	out := make([]Write, len(m.log))
	copy(out, m.log)
	return out
}

// Replay calls fn for every logged write, in order.
func (m *Image) Replay(fn WriteFunc) {
	if fn == nil {
		return
	}
	for _, w := range m.log {
		fn(w.Addr, w.Value)
	}
}

// SetEntry records the program entry point.
func (m *Image) SetEntry(addr int) {
	m.entry = addr
	m.hasEntry = true
}

// Entry returns the entry point and whether one was set.
func (m *Image) Entry() (int, bool) {
	return m.entry, m.hasEntry
}

// Used returns one past the highest written address, or 0 for an empty image.
func (m *Image) Used() int {
	for i := Size - 1; i >= 0; i-- {
		if m.written[i] {
			return i + 1
		}
	}
	return 0
}

// Equal reports whether two images hold the same bytes, written cells and
// entry point.
func (m *Image) Equal(o *Image) bool {
	return m.data == o.data && m.written == o.written &&
		m.hasEntry == o.hasEntry && m.entry == o.entry
}
