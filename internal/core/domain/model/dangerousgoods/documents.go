package dangerousgoods

// DocumentKind orders the documents produced for a dangerous goods shipment.
type DocumentKind int

const (
	Declaration DocumentKind = iota + 1
	Placard
	BatteryInsert
	Label
)

func (k DocumentKind) String() string {
	switch k {
	case Declaration:
		return "declaration"
	case Placard:
		return "placard"
	case BatteryInsert:
		return "battery_insert"
	case Label:
		return "label"
	default:
		return "unknown"
	}
}

// DeclarationLine is one classified package as it appears on the shipper's declaration.
type DeclarationLine struct {
	Key                Key
	PackingGroupText   string
	ClassDivision      string
	Subrisks           []string
	Quantity           string
	MeasurementUnit    string
	PackingInstruction string
	Tier               string
}

// Document describes one page set to render. Lines is only set for declarations.
type Document struct {
	Kind  DocumentKind
	Title string
	Mode  string
	Lines []DeclarationLine
}

// RenderedDocument pairs a document with the bytes produced by the renderer.
type RenderedDocument struct {
	Document
	ContentType string
	Content     []byte
}
