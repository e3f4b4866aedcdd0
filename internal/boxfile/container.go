// Package boxfile reads, merges and reorganizes persisted box containers:
// the fixed 14-bank × 30-slot grid of 80-byte records the game keeps in
// box storage. A slot is either all zero (empty) or holds a record whose
// stored checksum matches its decrypted substructure data.
package boxfile

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/emerald-tools/shinyhunt/internal/pokerec"
)

const (
	// Banks is the fixed bank count.
	Banks = 14

	// SlotsPerBank is the fixed capacity of one bank.
	SlotsPerBank = 30

	// SlotSize is the byte size of one stored record.
	SlotSize = pokerec.BoxRecordSize

	// Size is the byte size of a whole container.
	Size = Banks * SlotsPerBank * SlotSize
)

// ErrCorruptSlot means an existing slot failed checksum validation. The
// merge run must stop rather than silently repair or overwrite it.
var ErrCorruptSlot = errors.New("corrupt slot")

// ErrNoCapacity means the container ran out of empty slots; the records
// that did not fit are reported back, never silently dropped.
var ErrNoCapacity = errors.New("no free slots")

// SlotRef addresses one slot in the grid.
type SlotRef struct {
	Bank int
	Slot int
}

func (s SlotRef) String() string {
	return fmt.Sprintf("bank %d slot %d", s.Bank+1, s.Slot+1)
}

func (s SlotRef) offset() int {
	return (s.Bank*SlotsPerBank + s.Slot) * SlotSize
}

// Container is an immutable snapshot of box storage. Mutating operations
// return a new container; the loaded buffer is never aliased with the file
// being written.
type Container struct {
	data []byte
}

// New returns an empty container.
func New() *Container {
	return &Container{data: make([]byte, Size)}
}

// FromBytes copies b into a new container.
func FromBytes(b []byte) (*Container, error) {
	if len(b) != Size {
		return nil, fmt.Errorf("container must be %d bytes, got %d", Size, len(b))
	}
	c := New()
	copy(c.data, b)
	return c, nil
}

// Load reads a container file.
func Load(path string) (*Container, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load container: %w", err)
	}
	c, err := FromBytes(b)
	if err != nil {
		return nil, fmt.Errorf("load container %s: %w", path, err)
	}
	return c, nil
}

// WriteFile serializes the container to a new file. It refuses to clobber
// an existing path; merge output is always a fresh file.
func (c *Container) WriteFile(path string) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return fmt.Errorf("write container: %w", err)
	}
	defer f.Close()
	if _, err := f.Write(c.data); err != nil {
		return fmt.Errorf("write container: %w", err)
	}
	return nil
}

// Clone deep-copies the container.
func (c *Container) Clone() *Container {
	out := New()
	copy(out.data, c.data)
	return out
}

// SlotBytes returns a copy of the slot's raw record.
func (c *Container) SlotBytes(ref SlotRef) []byte {
	out := make([]byte, SlotSize)
	copy(out, c.data[ref.offset():])
	return out
}

// EmptySlot reports whether the slot holds the all-zero sentinel.
func (c *Container) EmptySlot(ref SlotRef) bool {
	b := c.data[ref.offset() : ref.offset()+SlotSize]
	for _, v := range b {
		if v != 0 {
			return false
		}
	}
	return true
}

func (c *Container) setSlot(ref SlotRef, raw []byte) {
	copy(c.data[ref.offset():ref.offset()+SlotSize], raw)
}

func (c *Container) clearSlot(ref SlotRef) {
	clear(c.data[ref.offset() : ref.offset()+SlotSize])
}

// Scan walks the grid in fixed bank-major order and partitions slots into
// the occupied set and the ordered empty list.
func (c *Container) Scan() (occupied, empty []SlotRef) {
	for bank := 0; bank < Banks; bank++ {
		for slot := 0; slot < SlotsPerBank; slot++ {
			ref := SlotRef{Bank: bank, Slot: slot}
			if c.EmptySlot(ref) {
				empty = append(empty, ref)
			} else {
				occupied = append(occupied, ref)
			}
		}
	}
	return occupied, empty
}

// decodeSlot validates one occupied slot: the record must decode and its
// stored checksum must match the decrypted data.
func (c *Container) decodeSlot(ref SlotRef) (*pokerec.Record, error) {
	rec, err := pokerec.Decode(c.SlotBytes(ref))
	if err != nil {
		return nil, fmt.Errorf("%s: %v: %w", ref, err, ErrCorruptSlot)
	}
	if rec.StoredChecksum() != rec.Checksum() {
		return nil, fmt.Errorf("%s: checksum %#x != %#x: %w",
			ref, rec.StoredChecksum(), rec.Checksum(), ErrCorruptSlot)
	}
	return rec, nil
}

// Record decodes and validates one occupied slot.
func (c *Container) Record(ref SlotRef) (*pokerec.Record, error) {
	return c.decodeSlot(ref)
}

// Archive moves a consumed input file into dir, creating it if needed.
func Archive(path, dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("archive: %w", err)
	}
	dst := filepath.Join(dir, filepath.Base(path))
	if err := os.Rename(path, dst); err != nil {
		return fmt.Errorf("archive %s: %w", path, err)
	}
	return nil
}
