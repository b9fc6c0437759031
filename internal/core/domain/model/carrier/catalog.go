package carrier

import "slices"

// Catalog is a read-only view of the configured carriers keyed by code.
type Catalog struct {
	byCode map[int]*Carrier
}

// NewCatalog indexes carriers by code. A later duplicate replaces an earlier one.
func NewCatalog(carriers ...*Carrier) Catalog {
	byCode := make(map[int]*Carrier, len(carriers))
	for _, c := range carriers {
		if c.Validate() != nil {
			continue
		}
		byCode[c.Code()] = c
	}
	return Catalog{byCode: byCode}
}

func (c Catalog) Get(code int) (*Carrier, bool) {
	carrier, ok := c.byCode[code]
	return carrier, ok
}

// Codes returns every carrier code as a candidate set.
func (c Catalog) Codes() Candidates {
	codes := make([]int, 0, len(c.byCode))
	for code := range c.byCode {
		codes = append(codes, code)
	}
	return NewCandidates(codes...)
}

// All returns the carriers ordered by code.
func (c Catalog) All() []*Carrier {
	out := make([]*Carrier, 0, len(c.byCode))
	for _, code := range c.Codes() {
		out = append(out, c.byCode[code])
	}
	return out
}

func (c Catalog) Len() int {
	return len(c.byCode)
}

// Candidates is an ascending, duplicate-free set of carrier codes.
type Candidates []int

func NewCandidates(codes ...int) Candidates {
	out := slices.Clone(codes)
	slices.Sort(out)
	return slices.Compact(out)
}

func (c Candidates) Contains(code int) bool {
	_, found := slices.BinarySearch(c, code)
	return found
}

// Filter keeps the codes for which keep returns true.
func (c Candidates) Filter(keep func(code int) bool) Candidates {
	out := make(Candidates, 0, len(c))
	for _, code := range c {
		if keep(code) {
			out = append(out, code)
		}
	}
	return out
}

func (c Candidates) Intersect(other Candidates) Candidates {
	return c.Filter(other.Contains)
}

func (c Candidates) Without(codes ...int) Candidates {
	drop := NewCandidates(codes...)
	return c.Filter(func(code int) bool { return !drop.Contains(code) })
}

func (c Candidates) IsEmpty() bool {
	return len(c) == 0
}
