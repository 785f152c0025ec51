// Package decoder adapts the ZXing decoding engine to the host scanner
// interface. It performs no pixel analysis itself: it translates symbology
// vocabularies, hands raw pixels to the engine, and reshapes the engine's
// answer into the host result contract.
package decoder

import (
	"context"
	"fmt"
	"image"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/MeKo-Tech/scandec/internal/scanner"
	"github.com/MeKo-Tech/scandec/internal/zxing"
)

// engineName identifies the wrapped engine in result debug data.
const engineName = "zxing"

// formatTags is the fixed forward mapping from host symbologies to engine
// tags. MaxiCode and PDF417 are absent: the engine ships no readers for
// them. The mapping is injective, so the derived reverse table is
// well-defined.
var formatTags = map[scanner.Symbology]string{
	scanner.SymbologyQRCode:     zxing.TagQRCode,
	scanner.SymbologyAztec:      zxing.TagAztec,
	scanner.SymbologyCodabar:    zxing.TagCodabar,
	scanner.SymbologyCode39:     zxing.TagCode39,
	scanner.SymbologyCode93:     zxing.TagCode93,
	scanner.SymbologyCode128:    zxing.TagCode128,
	scanner.SymbologyDataMatrix: zxing.TagDataMatrix,
	scanner.SymbologyITF:        zxing.TagITF,
	scanner.SymbologyEAN13:      zxing.TagEAN13,
	scanner.SymbologyEAN8:       zxing.TagEAN8,
	scanner.SymbologyUPCA:       zxing.TagUPCA,
	scanner.SymbologyUPCE:       zxing.TagUPCE,
}

// Config holds construction parameters for the adapter.
type Config struct {
	// Formats lists the symbologies the host wants enabled. Kinds without an
	// engine mapping are logged and dropped. An empty list enables every
	// format the engine supports.
	Formats []scanner.Symbology

	// Verbose enables debug logging of the assembled decode hints.
	Verbose bool

	// Logger receives non-fatal warnings. Defaults to slog.Default().
	Logger *slog.Logger

	// AssetsDir optionally overrides where the engine loads its binary
	// runtime assets from. Registering the override is process-wide and
	// last-write-wins; see zxing.SetRuntimeAssetOverride.
	AssetsDir string

	// Engine overrides the decoding engine, mainly for tests. Defaults to
	// the bundled gozxing engine.
	Engine zxing.Engine
}

// ZXing adapts the ZXing engine to scanner.Decoder. All state is built at
// construction and immutable afterwards; concurrent Decode calls are safe.
type ZXing struct {
	engine  zxing.Engine
	hints   zxing.Hints
	reverse map[string]scanner.Symbology
	logger  *slog.Logger
}

var _ scanner.Decoder = (*ZXing)(nil)

// NewZXing builds the adapter: derives the reverse tag table, registers the
// asset override if one is configured, and assembles the immutable decode
// hints from the requested formats.
func NewZXing(cfg Config) *ZXing {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	engine := cfg.Engine
	if engine == nil {
		engine = zxing.NewEngine()
	}

	if cfg.AssetsDir != "" {
		base := normalizeAssetBase(cfg.AssetsDir)
		zxing.SetRuntimeAssetOverride(func(requested, defaultPrefix string) string {
			if isBinaryRuntimeAsset(requested) {
				return base + requested
			}
			return defaultPrefix + requested
		})
	}

	reverse := make(map[string]scanner.Symbology, len(formatTags))
	for sym, tag := range formatTags {
		reverse[tag] = sym
	}

	tags := make([]string, 0, len(cfg.Formats))
	for _, f := range cfg.Formats {
		tag, ok := formatTags[f]
		if !ok {
			logger.Warn("symbology is not supported by the zxing engine", "format", f.String())
			continue
		}
		tags = append(tags, tag)
	}

	hints := zxing.Hints{
		TryHarder:          false,
		Formats:            tags,
		MaxNumberOfSymbols: 1,
	}
	if cfg.Verbose {
		logger.Debug("zxing decoder ready", "formats", tags, "max_symbols", hints.MaxNumberOfSymbols)
	}

	return &ZXing{
		engine:  engine,
		hints:   hints,
		reverse: reverse,
		logger:  logger,
	}
}

// Decode extracts the full pixel buffer of img, asks the engine for at most
// one symbol, and maps the engine's answer back into the host contract.
func (d *ZXing) Decode(ctx context.Context, img image.Image) (*scanner.Result, error) {
	pix := zxing.NewPixelBuffer(img)

	symbols, err := d.engine.DecodeAll(ctx, pix, d.hints)
	if err != nil {
		return nil, fmt.Errorf("zxing decode: %w", err)
	}
	if len(symbols) == 0 {
		return nil, scanner.ErrNotFound
	}

	// Hints cap results at one; anything beyond the first is ignored.
	first := symbols[0]
	format, ok := d.reverse[first.Format]
	if !ok {
		return nil, &scanner.ConsistencyError{Tag: first.Format}
	}

	return &scanner.Result{
		Text:   first.Text,
		Format: format,
		Debug:  scanner.DebugData{Engine: engineName},
	}, nil
}

// SupportedFormats returns the symbologies present in the forward table, in
// host declaration order.
func SupportedFormats() []scanner.Symbology {
	out := make([]scanner.Symbology, 0, len(formatTags))
	for _, s := range scanner.Symbologies() {
		if _, ok := formatTags[s]; ok {
			out = append(out, s)
		}
	}
	return out
}

// EngineTag returns the engine tag for a host symbology, if mapped.
func EngineTag(s scanner.Symbology) (string, bool) {
	tag, ok := formatTags[s]
	return tag, ok
}

// normalizeAssetBase ensures the override base ends with exactly one path
// separator.
func normalizeAssetBase(dir string) string {
	sep := string(os.PathSeparator)
	return strings.TrimRight(dir, sep) + sep
}

// isBinaryRuntimeAsset reports whether a requested asset is a binary runtime
// payload subject to the location override.
func isBinaryRuntimeAsset(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".so", ".dylib", ".dll", ".wasm":
		return true
	}
	return false
}
