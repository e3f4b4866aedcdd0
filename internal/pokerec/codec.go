package pokerec

import (
	"errors"
	"fmt"
)

// ErrEmpty marks an all-zero record (the empty-slot sentinel).
var ErrEmpty = errors.New("empty record")

// ErrOutOfRange means no decode candidate produced a plausible species
// index. Callers must treat the record as unknown and carry on; it is not a
// fatal condition.
var ErrOutOfRange = errors.New("species out of range")

// NewRecord builds a synthetic record from scratch with a valid checksum.
// Useful for constructing container fixtures and test data; records read
// from the game come through Decode or Search instead.
func NewRecord(pv uint32, owner OwnerPair, species uint16, effort EffortValues) (*Record, error) {
	if !ValidSpecies(species) {
		return nil, fmt.Errorf("new record species %d: %w", species, ErrOutOfRange)
	}
	if pv == 0 {
		return nil, ErrEmpty
	}
	r := &Record{
		PV:         pv,
		OTID:       owner.Full(),
		Species:    species,
		RawSpecies: species,
		Effort:     effort,
		Nature:     uint8(pv % 25),
	}
	putU32(r.header[offPV:], pv)
	putU32(r.header[offOTID:], r.OTID)
	putU16(r.sub[subGrowth][:], species)
	copy(r.sub[subEffort][:6], effort[:])
	r.SetChecksum()
	return r, nil
}

// Decode decrypts a box (or party) record using the origin-trainer value
// stored on the record itself. This is the path for owned records, where
// the on-record convention is trustworthy. Records whose species field
// falls outside the internal index range are rejected with ErrOutOfRange.
func Decode(raw []byte) (*Record, error) {
	if len(raw) < BoxRecordSize {
		return nil, fmt.Errorf("record too short: %d bytes", len(raw))
	}

	pv := leU32(raw[offPV:])
	if pv == 0 {
		return nil, ErrEmpty
	}
	otid := leU32(raw[offOTID:])
	key := pv ^ otid

	r := &Record{PV: pv, OTID: otid}
	copy(r.header[:], raw[:offEncrypted])

	order := orderTable[pv%24]
	for pos, tag := range order {
		cryptSub(r.sub[tag][:], raw[offEncrypted+pos*SubSize:], key)
	}

	r.RawSpecies = leU16(r.sub[subGrowth][:])
	r.Species = r.RawSpecies
	if !ValidSpecies(r.Species) {
		return nil, fmt.Errorf("decode species %d: %w", r.Species, ErrOutOfRange)
	}

	copy(r.Effort[:], r.sub[subEffort][:6])
	r.Nature = uint8(pv % 25)
	return r, nil
}

// Encode is the inverse of Decode: it re-permutes and re-encrypts the
// substructures around the preserved header. For any record that decoded
// without error, Encode(Decode(raw)) reproduces raw byte for byte.
func Encode(r *Record) []byte {
	out := make([]byte, BoxRecordSize)
	copy(out, r.header[:])

	key := r.PV ^ r.OTID
	order := orderTable[r.PV%24]
	for pos, tag := range order {
		cryptSub(out[offEncrypted+pos*SubSize:], r.sub[tag][:], key)
	}
	return out
}

// SetChecksum recomputes the substructure checksum and stores it in the
// record header, so that a subsequent Encode carries a valid checksum.
func (r *Record) SetChecksum() {
	putU16(r.header[offChecksum:], r.Checksum())
}

// cryptSub XORs one substructure word-wise with the key. Encryption and
// decryption are the same operation.
func cryptSub(dst, src []byte, key uint32) {
	for i := 0; i < SubSize; i += 4 {
		putU32(dst[i:], leU32(src[i:])^key)
	}
}

// A searchCandidate is one immutable decode hypothesis: an assumption about
// the origin-trainer value, the byte offset of the encrypted region within
// the memory window, and which substructure slot holds the growth data.
// The empirical search is a ranked walk over these values rather than
// branching control flow, so each hypothesis is testable on its own.
type searchCandidate struct {
	label     string
	otid      uint32
	offset    int
	growthPos int
}

// search ranking. Offset 32 with growth slot 2 is the combination observed
// to hold for wild battle records, so it is tried first.
var (
	searchOffsets    = []int{32, 0, 8, 16, 24, 40, 48}
	searchGrowthPos  = []int{2, 0, 1, 3}
	maxOwnerVariants = 4
)

// searchCandidates builds the ranked hypothesis list for a memory window.
// The origin-trainer convention for wild and foreign records is
// inconsistent, so several owner assumptions are tried: the value recorded
// in the window, the zero pair, the in-window trainer ID alone, and the
// folded trainer/secret pair.
func searchCandidates(window []byte, owner OwnerPair) []searchCandidate {
	tidMem := leU16(window[4:])
	sidMem := leU16(window[6:])

	owners := []struct {
		label string
		otid  uint32
	}{
		{"memory", leU32(window[4:])},
		{"zero", 0},
		{"trainer-only", uint32(tidMem)},
		{"folded", uint32(tidMem ^ sidMem)},
		{"session-owner", owner.Full()},
	}
	if len(owners) > maxOwnerVariants+1 {
		owners = owners[:maxOwnerVariants+1]
	}

	cands := make([]searchCandidate, 0, len(owners)*len(searchOffsets)*len(searchGrowthPos))
	for _, o := range owners {
		for _, off := range searchOffsets {
			for _, gp := range searchGrowthPos {
				cands = append(cands, searchCandidate{
					label:     o.label,
					otid:      o.otid,
					offset:    off,
					growthPos: gp,
				})
			}
		}
	}
	return cands
}

// tryCandidate checks a single hypothesis against the window. It returns
// the corrected species index and true on a hit.
func tryCandidate(window []byte, pv uint32, c searchCandidate, expected SpeciesSet) (uint16, bool) {
	at := c.offset + c.growthPos*SubSize
	if at+4 > len(window) {
		return 0, false
	}
	word := leU32(window[at:]) ^ c.otid ^ pv
	return correctSpecies(uint16(word), expected)
}

// Search reconstructs a record from a raw memory window when the
// origin-trainer convention is unknown (wild and foreign records). It walks
// the ranked candidate list and stops at the first hypothesis whose species
// field lands in the expected set (after at most one offset correction).
//
// The returned record always carries PV, origin value and corrected
// species. Substructure-derived fields (effort, checksum) are filled from
// the winning hypothesis' key and offset; for non-standard alignments they
// are best-effort.
func Search(window []byte, owner OwnerPair, expected SpeciesSet) (*Record, error) {
	if len(window) < BoxRecordSize {
		return nil, fmt.Errorf("window too short: %d bytes", len(window))
	}

	pv := leU32(window[offPV:])
	if pv == 0 {
		return nil, ErrEmpty
	}

	// owned-convention fast path
	if r, err := Decode(window); err == nil {
		if sp, ok := correctSpecies(r.RawSpecies, expected); ok {
			r.Species = sp
			return r, nil
		}
	}

	for _, c := range searchCandidates(window, owner) {
		sp, ok := tryCandidate(window, pv, c, expected)
		if !ok {
			continue
		}
		r := &Record{PV: pv, OTID: leU32(window[offOTID:])}
		copy(r.header[:], window[:offEncrypted])

		key := pv ^ c.otid
		order := orderTable[pv%24]
		for pos, tag := range order {
			src := c.offset + pos*SubSize
			if src+SubSize <= len(window) {
				cryptSub(r.sub[tag][:], window[src:], key)
			}
		}
		r.RawSpecies = uint16(leU32(window[c.offset+c.growthPos*SubSize:]) ^ c.otid ^ pv)
		r.Species = sp
		copy(r.Effort[:], r.sub[subEffort][:6])
		r.Nature = uint8(pv % 25)
		return r, nil
	}

	return nil, fmt.Errorf("search exhausted %d candidates: %w",
		len(searchCandidates(window, owner)), ErrOutOfRange)
}
