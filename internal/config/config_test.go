package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/emerald-tools/shinyhunt/internal/pokerec"
)

func TestDefaultParsesAndValidates(t *testing.T) {
	cfg, err := Default()
	if err != nil {
		t.Fatalf("default config: %v", err)
	}
	if cfg.Owner.TrainerID == 0 && cfg.Owner.SecretID == 0 {
		t.Error("default owner pair is zero")
	}
	if len(cfg.Locations) == 0 {
		t.Fatal("default config has no locations")
	}

	loc, ok := cfg.Locations["route-101"]
	if !ok {
		t.Fatal("route-101 missing")
	}
	if loc.Method != "flee" {
		t.Errorf("expected flee method, got %q", loc.Method)
	}
	set, err := loc.SpeciesSet()
	if err != nil {
		t.Fatalf("species set: %v", err)
	}
	id, _ := pokerec.SpeciesID("Zigzagoon")
	if !set[id] {
		t.Error("expected Zigzagoon in route-101 species set")
	}
}

func TestStarterLocationsUseReset(t *testing.T) {
	cfg, err := Default()
	if err != nil {
		t.Fatalf("default config: %v", err)
	}
	for _, key := range []string{"starter-treecko", "starter-torchic", "starter-mudkip"} {
		loc, ok := cfg.Locations[key]
		if !ok {
			t.Errorf("%s missing", key)
			continue
		}
		if loc.Method != "reset" || loc.Selection == nil {
			t.Errorf("%s: expected reset method with a selection sequence", key)
		}
	}
}

func TestLoadRejectsUnknownSpecies(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	doc := `
owner: {trainer_id: 1, secret_id: 2}
locations:
  somewhere:
    method: flee
    species: [Missingno]
    encounter: {loading_presses: 1, loading_delay_frames: 1, turn_hold_frames: 1, turn_wait_frames: 1, max_turns: 1}
`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected error for unknown species")
	}
}

func TestLoadRejectsMethodMismatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	doc := `
owner: {trainer_id: 1, secret_id: 2}
locations:
  somewhere:
    method: reset
    species: [Mudkip]
`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected error for reset location without selection sequence")
	}
}

func TestLocationNameDefaultsToKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.yaml")
	doc := `
owner: {trainer_id: 1, secret_id: 2}
locations:
  my-spot:
    method: flee
    species: [Mudkip]
    encounter: {loading_presses: 1, loading_delay_frames: 1, turn_hold_frames: 1, turn_wait_frames: 1, max_turns: 1}
`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Locations["my-spot"].Name != "my-spot" {
		t.Errorf("expected key as fallback name, got %q", cfg.Locations["my-spot"].Name)
	}
}
