package pokerec

import "fmt"

// The game enumerates species by an internal index that is distinct from
// the public catalog numbering. Indices 1-251 coincide with the catalog;
// 252-276 are unused padding; 277-411 cover the third-generation species,
// offset from their catalog numbers by +25.
const (
	minInternal = 1
	maxInternal = 411
	gapLow      = 252
	gapHigh     = 276
)

// Common internal indices used by the default hunt configuration.
const (
	SpeciesTreecko   = 277
	SpeciesGrovyle   = 278
	SpeciesSceptile  = 279
	SpeciesTorchic   = 280
	SpeciesCombusken = 281
	SpeciesBlaziken  = 282
	SpeciesMudkip    = 283
	SpeciesMarshtomp = 284
	SpeciesSwampert  = 285
)

// correctionDeltas are the offset-correction candidates tried, in rank
// order, when a decoded species field misses the expected set but is still
// in range. -25 is the common family delta (catalog vs internal numbering
// for third-generation species); +25 is its reverse. -122 is an empirically
// observed entry for a single late family; it is a lookup value, not a
// derivable rule, and must not be generalised.
var correctionDeltas = []int{-25, +25, -122}

// ValidSpecies reports whether id is a plausible internal species index.
func ValidSpecies(id uint16) bool {
	if id < minInternal || id > maxInternal {
		return false
	}
	return id < gapLow || id > gapHigh
}

// SpeciesName returns the display name for an internal species index.
// Unknown-but-valid indices render as "species(n)".
func SpeciesName(id uint16) string {
	if name, ok := speciesNames[id]; ok {
		return name
	}
	return fmt.Sprintf("species(%d)", id)
}

// SpeciesID resolves a display name (case-sensitive as listed) to an
// internal index.
func SpeciesID(name string) (uint16, bool) {
	id, ok := speciesIDs[name]
	return id, ok
}

// speciesNames covers the species reachable through the default hunt
// configuration. Decoding does not require a name; this is display only.
var speciesNames = map[uint16]string{
	// first- and second-generation indices match the catalog
	25:  "Pikachu",
	27:  "Sandshrew",
	37:  "Vulpix",
	39:  "Jigglypuff",
	41:  "Zubat",
	42:  "Golbat",
	43:  "Oddish",
	44:  "Gloom",
	63:  "Abra",
	66:  "Machop",
	74:  "Geodude",
	88:  "Grimer",
	109: "Koffing",
	183: "Marill",
	227: "Skarmory",

	SpeciesTreecko:   "Treecko",
	SpeciesGrovyle:   "Grovyle",
	SpeciesSceptile:  "Sceptile",
	SpeciesTorchic:   "Torchic",
	SpeciesCombusken: "Combusken",
	SpeciesBlaziken:  "Blaziken",
	SpeciesMudkip:    "Mudkip",
	SpeciesMarshtomp: "Marshtomp",
	SpeciesSwampert:  "Swampert",

	286: "Poochyena",
	287: "Mightyena",
	288: "Zigzagoon",
	289: "Linoone",
	290: "Wurmple",
	291: "Silcoon",
	292: "Beautifly",
	293: "Cascoon",
	294: "Dustox",
	295: "Lotad",
	296: "Lombre",
	298: "Seedot",
	299: "Nuzleaf",
	301: "Taillow",
	302: "Swellow",
	303: "Wingull",
	304: "Pelipper",
	305: "Ralts",
	306: "Kirlia",
	307: "Gardevoir",
	310: "Shroomish",
	311: "Breloom",
	312: "Slakoth",
	315: "Nincada",
	318: "Whismur",
	321: "Makuhita",
	325: "Skitty",
	327: "Sableye",
	328: "Mawile",
	329: "Aron",
	334: "Electrike",
	336: "Plusle",
	337: "Minun",
	341: "Gulpin",
	347: "Numel",
	349: "Torkoal",
	352: "Spinda",
	353: "Trapinch",
	356: "Cacnea",
	358: "Swablu",
	361: "Seviper",
	368: "Baltoy",
}

var speciesIDs = func() map[string]uint16 {
	m := make(map[string]uint16, len(speciesNames))
	for id, name := range speciesNames {
		m[name] = id
	}
	return m
}()

// SpeciesSet is a set of expected internal species indices for an
// encounter context. Offset correction only accepts a candidate that lands
// exactly in this set.
type SpeciesSet map[uint16]bool

// NewSpeciesSet builds a set from internal indices.
func NewSpeciesSet(ids ...uint16) SpeciesSet {
	s := make(SpeciesSet, len(ids))
	for _, id := range ids {
		s[id] = true
	}
	return s
}

// correctSpecies maps a raw decoded species field onto the expected set.
// An exact member is returned as-is. Otherwise each correction delta is
// tried once, in rank order, and the first exact match wins; the correction
// is never chained. The second return value reports whether raw (possibly
// corrected) landed in the set.
func correctSpecies(raw uint16, expected SpeciesSet) (uint16, bool) {
	if len(expected) == 0 {
		return raw, ValidSpecies(raw)
	}
	if expected[raw] {
		return raw, true
	}
	if !ValidSpecies(raw) {
		return raw, false
	}
	for _, d := range correctionDeltas {
		c := int(raw) + d
		if c < minInternal || c > maxInternal {
			continue
		}
		if expected[uint16(c)] {
			return uint16(c), true
		}
	}
	return raw, false
}
