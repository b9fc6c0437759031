// Package hub describes the intermediate locations used to split a shipment
// between carriers: airbases, sailings with their ports, cargo packing stations
// and interline middle locations.
package hub

import (
	"time"

	"freight/internal/core/domain/model/kernel"
)

// Airbase is a station an air carrier flies from and to.
type Airbase struct {
	Code    string
	Carrier int
	Address kernel.Address
}

// Sailing is a named voyage of a sealift carrier between two ports.
type Sailing struct {
	Carrier         int
	Name            string
	Port            kernel.Address
	DestinationPort kernel.Address
	Departure       time.Time
}

// PackingStation is the fixed address where a sealift carrier receives cargo for packing.
type PackingStation struct {
	Carrier int
	Address kernel.Address
}

// MiddleLocation is a cross-dock shared by two carriers for interline shipments.
type MiddleLocation struct {
	FirstCarrier  int
	SecondCarrier int
	Address       kernel.Address
}

// NearestAirbase picks the airbase serving addr: same country is required, a
// city match beats a province match, and ties go to the earlier airbase.
func NearestAirbase(airbases []Airbase, addr kernel.Address) (Airbase, bool) {
	best, bestScore := Airbase{}, 0
	for _, a := range airbases {
		if !a.Address.SameCountry(addr) {
			continue
		}
		score := 0
		switch {
		case a.Address.SameCity(addr):
			score = 2
		case a.Address.SameProvince(addr):
			score = 1
		}
		if score > bestScore {
			best, bestScore = a, score
		}
	}
	return best, bestScore > 0
}
