package compliance

// Tier is the shipping tier a package was classified under.
type Tier int

const (
	NoTier Tier = iota
	Exempted
	GroundExempted
	LimitedQuantity
	PassengerAircraft
	CargoAircraftOnly
	GroundLimited
	GroundMaximum
)

func getTierStrings() map[Tier]string {
	return map[Tier]string{
		NoTier:            "none",
		Exempted:          "exempted",
		GroundExempted:    "ground_exempt",
		LimitedQuantity:   "limited",
		PassengerAircraft: "passenger",
		CargoAircraftOnly: "cargo_only",
		GroundLimited:     "ground_limited",
		GroundMaximum:     "ground_maximum",
	}
}

func (t Tier) String() string {
	if s, ok := getTierStrings()[t]; ok {
		return s
	}
	return "none"
}

// Label is the handling label the tier requires, or "" when none.
func (t Tier) Label() string {
	switch t {
	case LimitedQuantity, GroundLimited:
		return "Limited Quantity"
	case CargoAircraftOnly:
		return "Cargo Aircraft Only"
	default:
		return ""
	}
}

// IsRegulated reports whether the package still travels as dangerous goods.
func (t Tier) IsRegulated() bool {
	return t >= LimitedQuantity
}

// IsLimited reports whether the package stays within limited-quantity rules.
func (t Tier) IsLimited() bool {
	return t == LimitedQuantity || t == GroundLimited || t == Exempted || t == GroundExempted
}
