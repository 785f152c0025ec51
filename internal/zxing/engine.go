// Package zxing wraps the ZXing barcode decoding engine behind a small
// interface. The engine is treated as opaque: it receives raw pixels plus
// decode hints and reports zero or more recognized symbols tagged with its
// own format vocabulary.
package zxing

import "context"

// Engine-side format tags. These are the engine's vocabulary, distinct from
// the host's Symbology enum; adapters own the mapping between the two.
const (
	TagQRCode     = "QRCode"
	TagAztec      = "Aztec"
	TagCodabar    = "Codabar"
	TagCode39     = "Code39"
	TagCode93     = "Code93"
	TagCode128    = "Code128"
	TagDataMatrix = "DataMatrix"
	TagITF        = "ITF"
	TagEAN13      = "EAN-13"
	TagEAN8       = "EAN-8"
	TagUPCA       = "UPC-A"
	TagUPCE       = "UPC-E"
)

// allTags lists every tag the bundled engine can decode, in the order
// readers are tried when hints carry no format restriction.
var allTags = []string{
	TagQRCode,
	TagDataMatrix,
	TagAztec,
	TagCode128,
	TagCode39,
	TagCode93,
	TagCodabar,
	TagITF,
	TagEAN13,
	TagEAN8,
	TagUPCA,
	TagUPCE,
}

// Hints constrains a single decode call.
type Hints struct {
	// TryHarder trades speed for a more exhaustive search.
	TryHarder bool

	// Formats restricts decoding to the listed tags. Empty means the engine
	// tries every format it supports.
	Formats []string

	// MaxNumberOfSymbols caps the number of reported symbols. Zero or
	// negative means no cap.
	MaxNumberOfSymbols int
}

// Symbol is one decoded barcode as reported by the engine.
type Symbol struct {
	Text   string
	Format string
}

// Engine decodes all barcodes found in a pixel buffer. An empty result slice
// with a nil error means nothing was found; errors are reserved for invalid
// input or engine faults.
type Engine interface {
	DecodeAll(ctx context.Context, pix *PixelBuffer, hints Hints) ([]Symbol, error)
}
