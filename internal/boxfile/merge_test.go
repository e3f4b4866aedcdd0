package boxfile

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/emerald-tools/shinyhunt/internal/pokerec"
)

var testOwner = pokerec.OwnerPair{TrainerID: 56078, SecretID: 24723}

func rawRecord(t *testing.T, pv uint32, species uint16, effort pokerec.EffortValues) []byte {
	t.Helper()
	rec, err := pokerec.NewRecord(pv, testOwner, species, effort)
	if err != nil {
		t.Fatalf("new record: %v", err)
	}
	return pokerec.Encode(rec)
}

// fullButOne fills every slot except bank 0 slot 29.
func fullButOne(t *testing.T) *Container {
	t.Helper()
	c := New()
	pv := uint32(1)
	for bank := 0; bank < Banks; bank++ {
		for slot := 0; slot < SlotsPerBank; slot++ {
			if bank == 0 && slot == SlotsPerBank-1 {
				continue
			}
			c.setSlot(SlotRef{bank, slot}, rawRecord(t, pv, pokerec.SpeciesTorchic, pokerec.EffortValues{}))
			pv++
		}
	}
	return c
}

func TestMergePlacesInInputOrder(t *testing.T) {
	base := New()
	base.setSlot(SlotRef{0, 0}, rawRecord(t, 100, pokerec.SpeciesTreecko, pokerec.EffortValues{}))
	base.setSlot(SlotRef{0, 2}, rawRecord(t, 101, pokerec.SpeciesTorchic, pokerec.EffortValues{}))

	in := [][]byte{
		rawRecord(t, 200, pokerec.SpeciesMudkip, pokerec.EffortValues{}),
		rawRecord(t, 201, pokerec.SpeciesSwampert, pokerec.EffortValues{}),
	}
	out, unplaced, err := Merge(base, in)
	if err != nil {
		t.Fatalf("merge: %v", err)
	}
	if len(unplaced) != 0 {
		t.Fatalf("expected no unplaced, got %v", unplaced)
	}

	// empty slots in scan order are {0,1}, {0,3}, ...
	first, err := pokerec.Decode(out.SlotBytes(SlotRef{0, 1}))
	if err != nil {
		t.Fatalf("decode slot 0/1: %v", err)
	}
	if first.PV != 200 {
		t.Errorf("expected first incoming at first empty slot, got pv %d", first.PV)
	}
	second, err := pokerec.Decode(out.SlotBytes(SlotRef{0, 3}))
	if err != nil {
		t.Fatalf("decode slot 0/3: %v", err)
	}
	if second.PV != 201 {
		t.Errorf("expected second incoming at second empty slot, got pv %d", second.PV)
	}
}

func TestMergeNeverOverwritesOccupied(t *testing.T) {
	base := fullButOne(t)
	occupied, _ := base.Scan()
	before := make(map[SlotRef][]byte, len(occupied))
	for _, ref := range occupied {
		before[ref] = base.SlotBytes(ref)
	}

	in := [][]byte{
		rawRecord(t, 900, pokerec.SpeciesMudkip, pokerec.EffortValues{}),
		rawRecord(t, 901, pokerec.SpeciesMudkip, pokerec.EffortValues{}),
	}
	out, unplaced, err := Merge(base, in)
	if !errors.Is(err, ErrNoCapacity) {
		t.Fatalf("expected ErrNoCapacity, got %v", err)
	}

	for ref, b := range before {
		if !bytes.Equal(out.SlotBytes(ref), b) {
			t.Errorf("occupied %s changed during merge", ref)
		}
	}

	// one free slot, two incoming: first placed, second reported
	if len(unplaced) != 1 || unplaced[0] != 1 {
		t.Fatalf("expected unplaced [1], got %v", unplaced)
	}
	placed, err := pokerec.Decode(out.SlotBytes(SlotRef{0, SlotsPerBank - 1}))
	if err != nil {
		t.Fatalf("decode placed slot: %v", err)
	}
	if placed.PV != 900 {
		t.Errorf("expected first incoming placed, got pv %d", placed.PV)
	}
}

func TestMergeBaseUntouched(t *testing.T) {
	base := New()
	snapshot := append([]byte(nil), base.data...)

	_, _, err := Merge(base, [][]byte{rawRecord(t, 5, pokerec.SpeciesTreecko, pokerec.EffortValues{})})
	if err != nil {
		t.Fatalf("merge: %v", err)
	}
	if !bytes.Equal(base.data, snapshot) {
		t.Error("merge mutated the base container")
	}
}

func TestMergeCorruptSlot(t *testing.T) {
	base := New()
	raw := rawRecord(t, 77, pokerec.SpeciesTorchic, pokerec.EffortValues{})
	raw[0x1C] ^= 0xFF // break the stored checksum
	base.setSlot(SlotRef{3, 7}, raw)

	_, _, err := Merge(base, nil)
	if !errors.Is(err, ErrCorruptSlot) {
		t.Fatalf("expected ErrCorruptSlot, got %v", err)
	}
}

func TestMergeRecomputesChecksumOnWrite(t *testing.T) {
	out, _, err := Merge(New(), [][]byte{rawRecord(t, 42, pokerec.SpeciesMudkip, pokerec.EffortValues{4, 0, 0, 0, 0, 0})})
	if err != nil {
		t.Fatalf("merge: %v", err)
	}
	rec, err := out.decodeSlot(SlotRef{0, 0})
	if err != nil {
		t.Fatalf("placed slot failed validation: %v", err)
	}
	if rec.StoredChecksum() != rec.Checksum() {
		t.Error("placed record carries a stale checksum")
	}
}

func TestReorganizeGroupsAndRanks(t *testing.T) {
	base := New()
	base.setSlot(SlotRef{2, 5}, rawRecord(t, 1, pokerec.SpeciesTorchic, pokerec.EffortValues{1, 0, 0, 0, 0, 0}))
	base.setSlot(SlotRef{0, 9}, rawRecord(t, 2, pokerec.SpeciesMudkip, pokerec.EffortValues{0, 0, 0, 0, 0, 0}))
	base.setSlot(SlotRef{5, 1}, rawRecord(t, 3, pokerec.SpeciesMudkip, pokerec.EffortValues{9, 9, 0, 0, 0, 0}))
	base.setSlot(SlotRef{1, 0}, rawRecord(t, 4, pokerec.SpeciesTorchic, pokerec.EffortValues{200, 0, 0, 0, 0, 0}))

	out, err := Reorganize(base, map[SlotRef]bool{{0, 9}: true})
	if err != nil {
		t.Fatalf("reorganize: %v", err)
	}

	wantPVs := []uint32{4, 1, 3} // torchic by score desc, then mudkip survivor
	for i, want := range wantPVs {
		rec, err := pokerec.Decode(out.SlotBytes(SlotRef{0, i}))
		if err != nil {
			t.Fatalf("slot %d: %v", i, err)
		}
		if rec.PV != want {
			t.Errorf("slot %d: expected pv %d, got %d", i, want, rec.PV)
		}
	}
	if !out.EmptySlot(SlotRef{0, 3}) {
		t.Error("expected remaining slots empty after reorganize")
	}
}

func TestLoadWriteRoundTrip(t *testing.T) {
	dir := t.TempDir()
	c := New()
	c.setSlot(SlotRef{0, 0}, rawRecord(t, 11, pokerec.SpeciesTreecko, pokerec.EffortValues{}))

	path := filepath.Join(dir, "boxes.bin")
	if err := c.WriteFile(path); err != nil {
		t.Fatalf("write: %v", err)
	}
	// output files are never overwritten in place
	if err := c.WriteFile(path); err == nil {
		t.Error("expected refusal to overwrite an existing file")
	}

	got, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !bytes.Equal(got.data, c.data) {
		t.Error("loaded container differs from written data")
	}
}

func TestArchive(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "find.pk3")
	if err := os.WriteFile(src, []byte("data"), 0o644); err != nil {
		t.Fatalf("seed file: %v", err)
	}

	if err := Archive(src, filepath.Join(dir, "archive")); err != nil {
		t.Fatalf("archive: %v", err)
	}
	if _, err := os.Stat(src); !os.IsNotExist(err) {
		t.Error("source should be gone after archiving")
	}
	if _, err := os.Stat(filepath.Join(dir, "archive", "find.pk3")); err != nil {
		t.Errorf("archived copy missing: %v", err)
	}
}
