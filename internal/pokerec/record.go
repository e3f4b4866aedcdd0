// Package pokerec decodes and encodes Gen III box records: the 80-byte
// structures the game keeps for each stored creature, with four 12-byte
// substructures encrypted and permuted by the record's personality value.
package pokerec

import "fmt"

// Record layout constants. A box record is 80 bytes; a party record is the
// same 80 bytes followed by 20 bytes of battle state.
const (
	BoxRecordSize   = 80
	PartyRecordSize = 100

	offPV        = 0x00
	offOTID      = 0x04
	offChecksum  = 0x1C
	offEncrypted = 0x20

	// EncryptedSize is the length of the encrypted substructure region.
	EncryptedSize = 48

	// SubSize is the length of one substructure.
	SubSize = 12
)

// Substructure tags in canonical order.
const (
	subGrowth = iota
	subAttack
	subEffort
	subMisc
)

// orderTable maps pv % 24 to a substructure ordering. Each entry is a
// permutation of the four tags; the table is total and injective (verified
// by a test, since every decode depends on it).
var orderTable = [24][4]int{
	{subGrowth, subAttack, subEffort, subMisc}, // GAEM
	{subGrowth, subAttack, subMisc, subEffort}, // GAME
	{subGrowth, subEffort, subAttack, subMisc}, // GEAM
	{subGrowth, subEffort, subMisc, subAttack}, // GEMA
	{subGrowth, subMisc, subAttack, subEffort}, // GMAE
	{subGrowth, subMisc, subEffort, subAttack}, // GMEA
	{subAttack, subGrowth, subEffort, subMisc}, // AGEM
	{subAttack, subGrowth, subMisc, subEffort}, // AGME
	{subAttack, subEffort, subGrowth, subMisc}, // AEGM
	{subAttack, subEffort, subMisc, subGrowth}, // AEMG
	{subAttack, subMisc, subGrowth, subEffort}, // AMGE
	{subAttack, subMisc, subEffort, subGrowth}, // AMEG
	{subEffort, subGrowth, subAttack, subMisc}, // EGAM
	{subEffort, subGrowth, subMisc, subAttack}, // EGMA
	{subEffort, subAttack, subGrowth, subMisc}, // EAGM
	{subEffort, subAttack, subMisc, subGrowth}, // EAMG
	{subEffort, subMisc, subGrowth, subAttack}, // EMGA
	{subEffort, subMisc, subAttack, subGrowth}, // EMAG
	{subMisc, subGrowth, subAttack, subEffort}, // MGAE
	{subMisc, subGrowth, subEffort, subAttack}, // MGEA
	{subMisc, subAttack, subGrowth, subEffort}, // MAGE
	{subMisc, subAttack, subEffort, subGrowth}, // MAEG
	{subMisc, subEffort, subGrowth, subAttack}, // MEGA
	{subMisc, subEffort, subAttack, subGrowth}, // MEAG
}

// OwnerPair is the public and secret trainer identifiers associated with a
// record's origin. Required for shiny evaluation.
type OwnerPair struct {
	TrainerID uint16
	SecretID  uint16
}

// Full returns the pair packed into the 32-bit on-record layout: trainer ID
// in the low half, secret ID in the high half.
func (o OwnerPair) Full() uint32 {
	return uint32(o.TrainerID) | uint32(o.SecretID)<<16
}

// EffortValues holds per-stat effort, in the on-record stat order.
type EffortValues [6]uint8

// Total is the quality score used when ranking duplicates.
func (e EffortValues) Total() int {
	t := 0
	for _, v := range e {
		t += int(v)
	}
	return t
}

// Record is a decoded box record.
type Record struct {
	// PV is the 32-bit personality value, unique per generated record. It
	// selects the substructure ordering, contributes to the decryption key
	// and drives shiny eligibility.
	PV uint32

	// OTID is the raw origin-trainer value as stored on the record.
	OTID uint32

	// Species is the internal species index after any offset correction.
	Species uint16

	// RawSpecies is the species field exactly as decrypted, before
	// correction. Equal to Species unless a correction delta was applied.
	RawSpecies uint16

	Effort EffortValues
	Nature uint8

	// header is the unencrypted 32-byte prefix of the source record,
	// including nickname, trainer name and the stored checksum.
	header [offEncrypted]byte

	// sub holds the decrypted substructures in canonical order
	// (growth, attack, effort, misc) regardless of the on-record permutation.
	sub [4][SubSize]byte
}

// Owner returns the owner pair recorded on the record itself.
func (r *Record) Owner() OwnerPair {
	return OwnerPair{
		TrainerID: uint16(r.OTID),
		SecretID:  uint16(r.OTID >> 16),
	}
}

// StoredChecksum is the checksum carried in the record header.
func (r *Record) StoredChecksum() uint16 {
	return leU16(r.header[offChecksum:])
}

// Checksum computes the checksum of the decrypted substructure data: the
// 16-bit sum of its 24 little-endian words.
func (r *Record) Checksum() uint16 {
	var sum uint16
	for i := range r.sub {
		for j := 0; j < SubSize; j += 2 {
			sum += leU16(r.sub[i][j:])
		}
	}
	return sum
}

// NatureName returns the display name for a nature derivant.
func NatureName(n uint8) string {
	if int(n) < len(natureNames) {
		return natureNames[n]
	}
	return fmt.Sprintf("nature(%d)", n)
}

var natureNames = [25]string{
	"Hardy", "Lonely", "Brave", "Adamant", "Naughty",
	"Bold", "Docile", "Relaxed", "Impish", "Lax",
	"Timid", "Hasty", "Serious", "Jolly", "Naive",
	"Modest", "Mild", "Quiet", "Bashful", "Rash",
	"Calm", "Gentle", "Sassy", "Careful", "Quirky",
}

// PartyToBox truncates a 100-byte party record to its 80-byte box form.
func PartyToBox(party []byte) ([]byte, error) {
	if len(party) < BoxRecordSize {
		return nil, fmt.Errorf("party record too short: %d bytes", len(party))
	}
	out := make([]byte, BoxRecordSize)
	copy(out, party[:BoxRecordSize])
	return out, nil
}

func leU16(b []byte) uint16 {
	return uint16(b[0]) | uint16(b[1])<<8
}

func leU32(b []byte) uint32 {
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
}

func putU16(b []byte, v uint16) {
	b[0] = byte(v)
	b[1] = byte(v >> 8)
}

func putU32(b []byte, v uint32) {
	b[0] = byte(v)
	b[1] = byte(v >> 8)
	b[2] = byte(v >> 16)
	b[3] = byte(v >> 24)
}
