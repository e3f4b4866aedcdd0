package pokerec

// ShinyValue computes the eligibility value for a personality value and an
// owner pair:
//
//	(tid ^ sid) ^ (pv_low ^ pv_high)
//
// It is a pure function of its arguments and is computed identically for
// party, wild and stored records.
func ShinyValue(pv uint32, owner OwnerPair) uint16 {
	return owner.TrainerID ^ owner.SecretID ^ uint16(pv) ^ uint16(pv>>16)
}

// shinyThreshold: values below this are shiny.
const shinyThreshold = 8

// IsShiny reports eligibility along with the value it was derived from.
func IsShiny(pv uint32, owner OwnerPair) (bool, uint16) {
	v := ShinyValue(pv, owner)
	return v < shinyThreshold, v
}
