package compliance

import (
	"slices"

	"freight/internal/core/domain/model/carrier"
	"freight/internal/core/domain/model/dangerousgoods"
)

var (
	lithiumBatteryUNNumbers = []int{3090, 3091, 3480, 3481}
	radioactiveUNNumbers    = radioactiveBlacklist()
)

func radioactiveBlacklist() []int {
	var out []int
	for un := 2908; un <= 2919; un++ {
		out = append(out, un)
	}
	out = append(out, 2977, 2978)
	for un := 3321; un <= 3333; un++ {
		out = append(out, un)
	}
	return out
}

// IsLithiumBattery reports whether unNumber is one of the lithium battery entries.
func IsLithiumBattery(unNumber int) bool {
	return slices.Contains(lithiumBatteryUNNumbers, unNumber)
}

// IsRadioactive reports whether unNumber is refused outright.
func IsRadioactive(unNumber int) bool {
	return slices.Contains(radioactiveUNNumbers, unNumber)
}

// TierCutoff pairs a tier with the cutoff read from the classification record.
type TierCutoff struct {
	Tier   Tier
	Cutoff dangerousgoods.Cutoff
}

// CarrierRule decides whether a carrier of the rules' mode may keep the shipment
// once every package has been classified.
type CarrierRule func(code int, outcomes []Outcome) bool

// Rules parameterize the engine for one regulatory regime.
type Rules struct {
	name         string
	air          bool
	tiers        func(dangerousgoods.Classification) []TierCutoff
	groundExempt bool
	statement    string
	carrierRule  CarrierRule
}

// AirRules walk limited, passenger aircraft and cargo aircraft only cutoffs.
// Carriers in batteryOnly accept a shipment only when every dangerous package is
// a lithium battery entry.
func AirRules(batteryOnly carrier.Candidates) Rules {
	return Rules{
		name: "air",
		air:  true,
		tiers: func(c dangerousgoods.Classification) []TierCutoff {
			return []TierCutoff{
				{Tier: LimitedQuantity, Cutoff: c.Air.Limited},
				{Tier: PassengerAircraft, Cutoff: c.Air.Passenger},
				{Tier: CargoAircraftOnly, Cutoff: c.Air.CargoOnly},
			}
		},
		statement: "Dangerous goods in excepted quantities",
		carrierRule: func(code int, outcomes []Outcome) bool {
			if !batteryOnly.Contains(code) {
				return true
			}
			return !slices.ContainsFunc(outcomes, func(o Outcome) bool {
				return !IsLithiumBattery(o.Key.UNNumber)
			})
		},
	}
}

// GroundRules walk limited and maximum cutoffs and honour the ground-exempt flag.
// Carriers in limitedOnly drop out when any package exceeds the limited tier.
func GroundRules(limitedOnly carrier.Candidates) Rules {
	return Rules{
		name: "ground",
		tiers: func(c dangerousgoods.Classification) []TierCutoff {
			return []TierCutoff{
				{Tier: GroundLimited, Cutoff: c.Ground.Limited},
				{Tier: GroundMaximum, Cutoff: c.Ground.Maximum},
			}
		},
		groundExempt: true,
		statement:    "Excepted quantity, not restricted for ground transport",
		carrierRule: func(code int, outcomes []Outcome) bool {
			if !limitedOnly.Contains(code) {
				return true
			}
			return !slices.ContainsFunc(outcomes, func(o Outcome) bool {
				return o.State == Accepted && !o.Tier.IsLimited()
			})
		},
	}
}

func (r Rules) Name() string {
	return r.name
}

// Covers reports whether carriers of mode m are regulated by these rules.
func (r Rules) Covers(m carrier.Mode) bool {
	return m.IsAir() == r.air
}

func (r Rules) allZero(c dangerousgoods.Classification) bool {
	for _, tc := range r.tiers(c) {
		if tc.Cutoff.Available() {
			return false
		}
	}
	return true
}
