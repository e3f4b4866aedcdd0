package boxfile

import (
	"fmt"
	"sort"

	"github.com/emerald-tools/shinyhunt/internal/pokerec"
)

// Merge places incoming raw records into the base container's empty slots,
// in input order, without touching any occupied slot. The result is a new
// container; base is unchanged. If the empty slots run out, the indices of
// the records that did not fit are returned along with ErrNoCapacity, and
// callers keep the merged output and report the remainder.
//
// Every existing occupied slot is checksum-validated before anything is
// placed; a mismatch aborts the whole merge with ErrCorruptSlot.
func Merge(base *Container, incoming [][]byte) (*Container, []int, error) {
	occupied, empty := base.Scan()
	for _, ref := range occupied {
		if _, err := base.decodeSlot(ref); err != nil {
			return nil, nil, err
		}
	}

	out := base.Clone()
	var unplaced []int

	next := 0
	for i, raw := range incoming {
		rec, err := pokerec.Decode(raw)
		if err != nil {
			return nil, nil, fmt.Errorf("incoming record %d: %w", i, err)
		}
		if next >= len(empty) {
			unplaced = append(unplaced, i)
			continue
		}
		// rewrite with a freshly computed checksum so the stored value is
		// always consistent with what lands in the slot
		rec.SetChecksum()
		out.setSlot(empty[next], pokerec.Encode(rec))
		next++
	}

	if len(unplaced) > 0 {
		return out, unplaced, ErrNoCapacity
	}
	return out, nil, nil
}

// Placement pairs an incoming record index with the slot it received.
type Placement struct {
	Index int
	Ref   SlotRef
	Rec   *pokerec.Record
}

// MergePlacements is Merge plus a report of where each record landed,
// for logging and the find ledger.
func MergePlacements(base *Container, incoming [][]byte) (*Container, []Placement, []int, error) {
	_, empty := base.Scan()
	out, unplaced, err := Merge(base, incoming)
	if out == nil {
		return nil, nil, nil, err
	}

	var placements []Placement
	skip := make(map[int]bool, len(unplaced))
	for _, i := range unplaced {
		skip[i] = true
	}
	next := 0
	for i, raw := range incoming {
		if skip[i] {
			continue
		}
		rec, derr := pokerec.Decode(raw)
		if derr != nil {
			return nil, nil, nil, fmt.Errorf("incoming record %d: %w", i, derr)
		}
		placements = append(placements, Placement{Index: i, Ref: empty[next], Rec: rec})
		next++
	}
	return out, placements, unplaced, err
}

// Reorganize rebuilds the container grouped by species, each group ordered
// by quality score (total effort) descending, filling from the front of
// bank 0. Slot identity is not preserved, so it only runs once the caller
// has confirmed the discard set (refs to drop entirely).
func Reorganize(base *Container, discard map[SlotRef]bool) (*Container, error) {
	occupied, _ := base.Scan()

	type kept struct {
		rec  *pokerec.Record
		scan int // original scan position, the final tie-break
	}
	var records []kept
	for i, ref := range occupied {
		rec, err := base.decodeSlot(ref)
		if err != nil {
			return nil, err
		}
		if discard[ref] {
			continue
		}
		records = append(records, kept{rec: rec, scan: i})
	}

	sort.SliceStable(records, func(i, j int) bool {
		a, b := records[i], records[j]
		if a.rec.Species != b.rec.Species {
			return a.rec.Species < b.rec.Species
		}
		if at, bt := a.rec.Effort.Total(), b.rec.Effort.Total(); at != bt {
			return at > bt
		}
		return a.scan < b.scan
	})

	if len(records) > Banks*SlotsPerBank {
		return nil, fmt.Errorf("reorganize: %d records exceed capacity: %w",
			len(records), ErrNoCapacity)
	}

	out := New()
	for i, k := range records {
		ref := SlotRef{Bank: i / SlotsPerBank, Slot: i % SlotsPerBank}
		k.rec.SetChecksum()
		out.setSlot(ref, pokerec.Encode(k.rec))
	}
	return out, nil
}
