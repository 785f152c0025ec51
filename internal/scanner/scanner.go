// Package scanner defines the host-side decoding interface: the symbology
// vocabulary, the result contract, and the Decoder capability that concrete
// engine adapters implement.
package scanner

import (
	"context"
	"image"
)

// DebugData identifies which decoding engine produced a result.
type DebugData struct {
	Engine string `json:"engine" yaml:"engine"`
}

// Result is a single decoded barcode.
type Result struct {
	Text   string    `json:"text" yaml:"text"`
	Format Symbology `json:"format" yaml:"format"`
	Debug  DebugData `json:"debug" yaml:"debug"`
}

// Decoder decodes at most one barcode from a raster image.
//
// Implementations return ErrNotFound when the image contains no recognizable
// code and a *ConsistencyError when the underlying engine reports a symbology
// the adapter has no mapping for. Concurrent calls must be safe.
type Decoder interface {
	Decode(ctx context.Context, img image.Image) (*Result, error)
}
