package decoder

import (
	"context"
	"errors"
	"image"
	"log/slog"
	"os"
	"strings"
	"sync"
	"testing"

	gozxing "github.com/makiuchi-d/gozxing"
	"github.com/makiuchi-d/gozxing/qrcode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MeKo-Tech/scandec/internal/scanner"
	"github.com/MeKo-Tech/scandec/internal/zxing"
)

// stubEngine records the last call and returns canned symbols.
type stubEngine struct {
	mu        sync.Mutex
	lastHints zxing.Hints
	symbols   []zxing.Symbol
	err       error
}

func (e *stubEngine) DecodeAll(_ context.Context, _ *zxing.PixelBuffer, hints zxing.Hints) ([]zxing.Symbol, error) {
	e.mu.Lock()
	e.lastHints = hints
	e.mu.Unlock()
	return e.symbols, e.err
}

// captureHandler collects log records for assertions.
type captureHandler struct {
	mu      sync.Mutex
	records []slog.Record
}

func (h *captureHandler) Enabled(context.Context, slog.Level) bool { return true }
func (h *captureHandler) Handle(_ context.Context, r slog.Record) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.records = append(h.records, r)
	return nil
}
func (h *captureHandler) WithAttrs([]slog.Attr) slog.Handler { return h }
func (h *captureHandler) WithGroup(string) slog.Handler      { return h }

func (h *captureHandler) warnings() []slog.Record {
	h.mu.Lock()
	defer h.mu.Unlock()
	var out []slog.Record
	for _, r := range h.records {
		if r.Level == slog.LevelWarn {
			out = append(out, r)
		}
	}
	return out
}

func blankImage(w, h int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = 0xff
	}
	return img
}

func qrImage(t *testing.T, text string) image.Image {
	t.Helper()
	writer := qrcode.NewQRCodeWriter()
	matrix, err := writer.Encode(text, gozxing.BarcodeFormat_QR_CODE, 256, 256, nil)
	require.NoError(t, err)
	return matrix
}

func TestFormatTableRoundTrip(t *testing.T) {
	d := NewZXing(Config{})
	for sym, tag := range formatTags {
		got, ok := d.reverse[tag]
		require.True(t, ok, "tag %q missing from reverse table", tag)
		assert.Equal(t, sym, got, "round trip for %s", sym)
	}
	// Injective: reverse table must be the same size as the forward table.
	assert.Len(t, d.reverse, len(formatTags))
}

func TestNewZXingUnsupportedFormatWarned(t *testing.T) {
	capture := &captureHandler{}
	requested := []scanner.Symbology{
		scanner.SymbologyQRCode,
		scanner.SymbologyMaxiCode, // no engine mapping
		scanner.SymbologyEAN13,
	}

	d := NewZXing(Config{
		Formats: requested,
		Logger:  slog.New(capture),
	})

	warnings := capture.warnings()
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0].Message, "not supported")

	// The unmapped kind is dropped; the rest keep their relative order.
	assert.Equal(t, []string{zxing.TagQRCode, zxing.TagEAN13}, d.hints.Formats)
}

func TestNewZXingPDF417Dropped(t *testing.T) {
	// The engine has no PDF417 reader, so the kind must take the same
	// warn-and-drop path as MaxiCode instead of reaching the hints.
	capture := &captureHandler{}
	d := NewZXing(Config{
		Formats: []scanner.Symbology{
			scanner.SymbologyPDF417,
			scanner.SymbologyCode128,
		},
		Logger: slog.New(capture),
	})

	warnings := capture.warnings()
	require.Len(t, warnings, 1)
	assert.Equal(t, []string{zxing.TagCode128}, d.hints.Formats)

	_, ok := EngineTag(scanner.SymbologyPDF417)
	assert.False(t, ok)
}

func TestNewZXingHints(t *testing.T) {
	d := NewZXing(Config{Formats: []scanner.Symbology{scanner.SymbologyCode128}})
	assert.False(t, d.hints.TryHarder)
	assert.Equal(t, 1, d.hints.MaxNumberOfSymbols)
	assert.Equal(t, []string{zxing.TagCode128}, d.hints.Formats)
}

func TestDecodeNotFound(t *testing.T) {
	d := NewZXing(Config{Formats: []scanner.Symbology{scanner.SymbologyQRCode}})

	_, err := d.Decode(context.Background(), blankImage(64, 64))
	require.Error(t, err)
	assert.ErrorIs(t, err, scanner.ErrNotFound)
}

func TestDecodeQRCode(t *testing.T) {
	const payload = "https://example.com/ticket/42"
	d := NewZXing(Config{Formats: []scanner.Symbology{scanner.SymbologyQRCode}})

	res, err := d.Decode(context.Background(), qrImage(t, payload))
	require.NoError(t, err)
	assert.Equal(t, payload, res.Text)
	assert.Equal(t, scanner.SymbologyQRCode, res.Format)
	assert.Equal(t, "zxing", res.Debug.Engine)
}

func TestDecodeAllFormatsWhenNoneRequested(t *testing.T) {
	// An empty requested list means "accept all formats": hints carry no
	// restriction and the engine tries every reader it has.
	const payload = "open-question-resolved"
	d := NewZXing(Config{})
	assert.Empty(t, d.hints.Formats)

	res, err := d.Decode(context.Background(), qrImage(t, payload))
	require.NoError(t, err)
	assert.Equal(t, payload, res.Text)
}

func TestDecodeTakesFirstResultOnly(t *testing.T) {
	engine := &stubEngine{symbols: []zxing.Symbol{
		{Text: "first", Format: zxing.TagQRCode},
		{Text: "second", Format: zxing.TagCode128},
	}}
	d := NewZXing(Config{
		Formats: []scanner.Symbology{scanner.SymbologyQRCode, scanner.SymbologyCode128},
		Engine:  engine,
	})

	res, err := d.Decode(context.Background(), blankImage(8, 8))
	require.NoError(t, err)
	assert.Equal(t, "first", res.Text)
	assert.Equal(t, scanner.SymbologyQRCode, res.Format)
	assert.Equal(t, 1, engine.lastHints.MaxNumberOfSymbols)
}

func TestDecodeUnmappedTagIsConsistencyError(t *testing.T) {
	engine := &stubEngine{symbols: []zxing.Symbol{{Text: "x", Format: "MicroQRCode"}}}
	d := NewZXing(Config{Engine: engine})

	_, err := d.Decode(context.Background(), blankImage(8, 8))
	require.Error(t, err)

	var consistency *scanner.ConsistencyError
	require.ErrorAs(t, err, &consistency)
	assert.Equal(t, "MicroQRCode", consistency.Tag)
	assert.NotErrorIs(t, err, scanner.ErrNotFound)
}

func TestDecodeEngineError(t *testing.T) {
	engine := &stubEngine{err: errors.New("boom")}
	d := NewZXing(Config{Engine: engine})

	_, err := d.Decode(context.Background(), blankImage(8, 8))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
	assert.NotErrorIs(t, err, scanner.ErrNotFound)
}

func TestNormalizeAssetBase(t *testing.T) {
	sep := string(os.PathSeparator)
	tests := []struct {
		in   string
		want string
	}{
		{"/opt/assets", "/opt/assets" + sep},
		{"/opt/assets" + sep, "/opt/assets" + sep},
		{"/opt/assets" + sep + sep, "/opt/assets" + sep},
	}
	for _, tt := range tests {
		got := normalizeAssetBase(tt.in)
		assert.Equal(t, tt.want, got, "input %q", tt.in)
		assert.False(t, strings.HasSuffix(got, sep+sep), "double separator for %q", tt.in)
	}
}

func TestAssetOverrideResolver(t *testing.T) {
	NewZXing(Config{AssetsDir: "/opt/zxing-assets"})
	t.Cleanup(func() { zxing.SetRuntimeAssetOverride(nil) })

	sep := string(os.PathSeparator)

	// Binary runtime assets are redirected to the override directory.
	got := zxing.ResolveRuntimeAsset("libzxing.so", "/default/")
	assert.Equal(t, "/opt/zxing-assets"+sep+"libzxing.so", got)

	// Other assets pass through unchanged.
	got = zxing.ResolveRuntimeAsset("charset.dat", "/default/")
	assert.Equal(t, "/default/charset.dat", got)
}

func TestSupportedFormats(t *testing.T) {
	supported := SupportedFormats()
	assert.Len(t, supported, len(formatTags))
	assert.NotContains(t, supported, scanner.SymbologyMaxiCode)
	assert.NotContains(t, supported, scanner.SymbologyPDF417)
	// Order follows the host declaration order.
	assert.Equal(t, scanner.SymbologyQRCode, supported[0])

	tag, ok := EngineTag(scanner.SymbologyEAN8)
	require.True(t, ok)
	assert.Equal(t, zxing.TagEAN8, tag)

	_, ok = EngineTag(scanner.SymbologyMaxiCode)
	assert.False(t, ok)
}

func TestDecodeConcurrent(t *testing.T) {
	const payload = "concurrent"
	d := NewZXing(Config{Formats: []scanner.Symbology{scanner.SymbologyQRCode}})
	img := qrImage(t, payload)

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := d.Decode(context.Background(), img)
			assert.NoError(t, err)
			if err == nil {
				assert.Equal(t, payload, res.Text)
			}
		}()
	}
	wg.Wait()
}
