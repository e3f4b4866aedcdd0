package emu

import "fmt"

// Memory addresses for the US build of the target game. The party and
// enemy structures share the same record layout; the enemy copy lives in
// the battle region and is only populated during an encounter.
const (
	// PartyCountAddr holds the number of party records (1 byte).
	PartyCountAddr uint32 = 0x020244E9

	// PartyBaseAddr is the first party record. Records are 100 bytes.
	PartyBaseAddr uint32 = 0x020244EC

	// PartySlotSize is the stride between party records.
	PartySlotSize = 0x64

	// EnemyBaseAddr is the wild/enemy record during battle.
	EnemyBaseAddr uint32 = 0x02024744

	// RNGSeedAddr is the linear congruential generator state. The engine
	// restarts the generator at a fixed value on every reset, so hunting
	// code overwrites this location with a fresh seed.
	RNGSeedAddr uint32 = 0x03005D80

	// StorageBankPointerAddr points at the box storage structure; bank
	// data starts 4 bytes past the pointed-to address.
	StorageBankPointerAddr uint32 = 0x03005D94
	StorageDataOffset             = 4
)

// PartySlotAddr returns the address of party record slot (0-5).
func PartySlotAddr(slot int) uint32 {
	return PartyBaseAddr + uint32(slot*PartySlotSize)
}

// Reader is the read-only slice of the capability.
type Reader interface {
	ReadBytes(addr uint32, n int) ([]byte, error)
}

// StorageBase follows the pointer the game keeps to its box storage
// structure and returns the address where bank data begins. The pointer is
// only valid once a save has been loaded.
func StorageBase(r Reader) (uint32, error) {
	b, err := r.ReadBytes(StorageBankPointerAddr, 4)
	if err != nil {
		return 0, fmt.Errorf("read storage pointer: %w", err)
	}
	p := uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
	if p == 0 {
		return 0, fmt.Errorf("box storage pointer is null")
	}
	return p + StorageDataOffset, nil
}
