// Package config loads hunt configuration: the owner pair, encounter
// tables per location, and the acquisition sequences for each hunt method.
// A built-in default covers the common locations; a YAML file can replace
// or extend it.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/emerald-tools/shinyhunt/internal/pokerec"
)

// Config is the root configuration document.
type Config struct {
	Owner     Owner               `yaml:"owner"`
	Locations map[string]Location `yaml:"locations"`
}

// Owner is the trainer pair required for shiny evaluation.
type Owner struct {
	TrainerID uint16 `yaml:"trainer_id"`
	SecretID  uint16 `yaml:"secret_id"`
}

// Pair converts to the codec's owner type.
func (o Owner) Pair() pokerec.OwnerPair {
	return pokerec.OwnerPair{TrainerID: o.TrainerID, SecretID: o.SecretID}
}

// Location describes one huntable context: its expected species set and
// the acquisition sequence that produces an encounter there.
type Location struct {
	Name string `yaml:"name"`

	// Method selects the acquisition strategy: "reset" reloads the
	// snapshot between attempts, "flee" retreats from the encounter.
	Method string `yaml:"method"`

	// Species are the display names expected at this location. Offset
	// correction only accepts decodes that land on one of these.
	Species []string `yaml:"species"`

	// Selection drives reset-method acquisition (dialogue and menu
	// navigation up to the record appearing).
	Selection *Selection `yaml:"selection,omitempty"`

	// Encounter drives flee-method acquisition (loading presses before
	// the turn-in-place loop).
	Encounter *Encounter `yaml:"encounter,omitempty"`
}

// Selection is a reset-method acquisition sequence. Zero direction presses
// means the default menu position is confirmed directly.
type Selection struct {
	DialoguePresses int    `yaml:"dialogue_presses"`
	DialogueDelay   int    `yaml:"dialogue_delay_frames"`
	MenuWait        int    `yaml:"menu_wait_frames"`
	Direction       string `yaml:"direction,omitempty"`
	DirectionPress  int    `yaml:"direction_presses,omitempty"`
	ConfirmPresses  int    `yaml:"confirm_presses"`
	ConfirmDelay    int    `yaml:"confirm_delay_frames"`
	RetryPresses    int    `yaml:"retry_presses"`
}

// Encounter is a flee-method acquisition sequence.
type Encounter struct {
	LoadingPresses int `yaml:"loading_presses"`
	LoadingDelay   int `yaml:"loading_delay_frames"`
	TurnHold       int `yaml:"turn_hold_frames"`
	TurnWait       int `yaml:"turn_wait_frames"`
	MaxTurns       int `yaml:"max_turns"`
}

// SpeciesSet resolves the location's species names to internal indices.
func (l Location) SpeciesSet() (pokerec.SpeciesSet, error) {
	set := make(pokerec.SpeciesSet, len(l.Species))
	for _, name := range l.Species {
		id, ok := pokerec.SpeciesID(name)
		if !ok {
			return nil, fmt.Errorf("location %s: unknown species %q", l.Name, name)
		}
		set[id] = true
	}
	return set, nil
}

// Validate checks the location is coherent with its method.
func (l Location) Validate() error {
	switch l.Method {
	case "reset":
		if l.Selection == nil {
			return fmt.Errorf("location %s: reset method needs a selection sequence", l.Name)
		}
	case "flee":
		if l.Encounter == nil {
			return fmt.Errorf("location %s: flee method needs an encounter sequence", l.Name)
		}
	default:
		return fmt.Errorf("location %s: unknown method %q", l.Name, l.Method)
	}
	if len(l.Species) == 0 {
		return fmt.Errorf("location %s: empty species set", l.Name)
	}
	return nil
}

// Load reads configuration from path, or returns the built-in default when
// path is empty.
func Load(path string) (*Config, error) {
	if path == "" {
		return Default()
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return parse(b)
}

// Default returns the built-in configuration.
func Default() (*Config, error) {
	return parse([]byte(defaultYAML))
}

func parse(b []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	for key, loc := range cfg.Locations {
		if loc.Name == "" {
			loc.Name = key
			cfg.Locations[key] = loc
		}
		if err := loc.Validate(); err != nil {
			return nil, err
		}
		if _, err := loc.SpeciesSet(); err != nil {
			return nil, err
		}
	}
	return &cfg, nil
}
