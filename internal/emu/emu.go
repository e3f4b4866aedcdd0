// Package emu defines the emulation capability the hunt core consumes: a
// minimal surface for memory access, frame stepping, input injection and
// snapshot handling. The core never depends on emulator-specific types
// beyond this interface.
package emu

import "fmt"

// Capability is the surface an emulation engine must provide. All calls
// are synchronous; a frame advance returns only once the frames have run.
type Capability interface {
	// ReadBytes returns a fresh copy of memory at the address range.
	ReadBytes(addr uint32, n int) ([]byte, error)

	// WriteBytes writes into emulated memory.
	WriteBytes(addr uint32, data []byte) error

	// AdvanceFrames steps the emulation by n frames.
	AdvanceFrames(n int) error

	// SendInput plays an input sequence, advancing frames as it goes.
	SendInput(seq Sequence) error

	// LoadSnapshot restores emulator state from a snapshot file.
	LoadSnapshot(path string) error

	// SaveSnapshot captures emulator state to a snapshot file and returns
	// the raw snapshot bytes.
	SaveSnapshot(path string) ([]byte, error)
}

// Keys is a bitmask of held controller buttons.
type Keys uint16

const (
	KeyA Keys = 1 << iota
	KeyB
	KeySelect
	KeyStart
	KeyRight
	KeyLeft
	KeyUp
	KeyDown
	KeyR
	KeyL

	KeyNone Keys = 0
)

// Step holds keys for a number of frames, then releases and waits.
type Step struct {
	Keys Keys
	Hold int
	Wait int
}

// Sequence is an ordered list of input steps.
type Sequence []Step

// Press builds a single press-and-release step.
func Press(k Keys, hold, wait int) Sequence {
	return Sequence{{Keys: k, Hold: hold, Wait: wait}}
}

// Wait builds a step that holds nothing.
func Wait(frames int) Sequence {
	return Sequence{{Keys: KeyNone, Hold: 0, Wait: frames}}
}

// Direction is a facing in the overworld.
type Direction uint8

const (
	DirDown Direction = iota
	DirUp
	DirLeft
	DirRight
)

func (d Direction) String() string {
	switch d {
	case DirDown:
		return "down"
	case DirUp:
		return "up"
	case DirLeft:
		return "left"
	case DirRight:
		return "right"
	}
	return fmt.Sprintf("direction(%d)", uint8(d))
}

// Opposite returns the reverse facing. Turning to the opposite direction
// is always a turn in place, never a step forward.
func (d Direction) Opposite() Direction {
	switch d {
	case DirDown:
		return DirUp
	case DirUp:
		return DirDown
	case DirLeft:
		return DirRight
	default:
		return DirLeft
	}
}

// ParseDirection maps a lowercase facing name to its Direction.
func ParseDirection(name string) (Direction, error) {
	switch name {
	case "down":
		return DirDown, nil
	case "up":
		return DirUp, nil
	case "left":
		return DirLeft, nil
	case "right":
		return DirRight, nil
	}
	return DirDown, fmt.Errorf("unknown direction %q", name)
}

// Key returns the d-pad key for a facing.
func (d Direction) Key() Keys {
	switch d {
	case DirDown:
		return KeyDown
	case DirUp:
		return KeyUp
	case DirLeft:
		return KeyLeft
	default:
		return KeyRight
	}
}
