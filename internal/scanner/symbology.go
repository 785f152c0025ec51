package scanner

import (
	"fmt"
	"strings"
)

// Symbology represents a barcode encoding scheme recognized by the host.
type Symbology int

const (
	SymbologyUnknown Symbology = iota
	SymbologyQRCode
	SymbologyAztec
	SymbologyCodabar
	SymbologyCode39
	SymbologyCode93
	SymbologyCode128
	SymbologyDataMatrix
	SymbologyMaxiCode
	SymbologyITF
	SymbologyEAN13
	SymbologyEAN8
	SymbologyPDF417
	SymbologyUPCA
	SymbologyUPCE
)

// symbologyNames maps each symbology to its canonical name used in
// configuration, CLI flags, and API responses.
var symbologyNames = map[Symbology]string{
	SymbologyQRCode:     "qr",
	SymbologyAztec:      "aztec",
	SymbologyCodabar:    "codabar",
	SymbologyCode39:     "code39",
	SymbologyCode93:     "code93",
	SymbologyCode128:    "code128",
	SymbologyDataMatrix: "datamatrix",
	SymbologyMaxiCode:   "maxicode",
	SymbologyITF:        "itf",
	SymbologyEAN13:      "ean13",
	SymbologyEAN8:       "ean8",
	SymbologyPDF417:     "pdf417",
	SymbologyUPCA:       "upca",
	SymbologyUPCE:       "upce",
}

// String returns the canonical lowercase name of the symbology.
func (s Symbology) String() string {
	if name, ok := symbologyNames[s]; ok {
		return name
	}
	return "unknown"
}

// MarshalText implements encoding.TextMarshaler so symbologies serialize
// as their canonical names in JSON and YAML output.
func (s Symbology) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// ParseSymbology converts a canonical name (case-insensitive) back into a
// Symbology value.
func ParseSymbology(name string) (Symbology, error) {
	needle := strings.ToLower(strings.TrimSpace(name))
	for s, n := range symbologyNames {
		if n == needle {
			return s, nil
		}
	}
	return SymbologyUnknown, fmt.Errorf("unknown symbology %q", name)
}

// ParseSymbologies converts a list of names, failing on the first unknown one.
func ParseSymbologies(names []string) ([]Symbology, error) {
	out := make([]Symbology, 0, len(names))
	for _, n := range names {
		s, err := ParseSymbology(n)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

// Symbologies returns all recognized symbologies in declaration order.
func Symbologies() []Symbology {
	return []Symbology{
		SymbologyQRCode,
		SymbologyAztec,
		SymbologyCodabar,
		SymbologyCode39,
		SymbologyCode93,
		SymbologyCode128,
		SymbologyDataMatrix,
		SymbologyMaxiCode,
		SymbologyITF,
		SymbologyEAN13,
		SymbologyEAN8,
		SymbologyPDF417,
		SymbologyUPCA,
		SymbologyUPCE,
	}
}
