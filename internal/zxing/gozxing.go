package zxing

import (
	"context"
	"errors"
	"fmt"

	gozxing "github.com/makiuchi-d/gozxing"
	"github.com/makiuchi-d/gozxing/aztec"
	"github.com/makiuchi-d/gozxing/datamatrix"
	"github.com/makiuchi-d/gozxing/oned"
	"github.com/makiuchi-d/gozxing/qrcode"
)

// goZXingEngine is the bundled production engine, backed by the pure-Go
// ZXing port. It dispatches one format reader per requested tag against a
// shared binarized bitmap.
type goZXingEngine struct{}

// NewEngine returns the default gozxing-backed engine.
func NewEngine() Engine { return &goZXingEngine{} }

func (e *goZXingEngine) DecodeAll(ctx context.Context, pix *PixelBuffer, hints Hints) ([]Symbol, error) {
	if pix.Empty() {
		return nil, errors.New("zxing: empty pixel buffer")
	}

	bmp, err := gozxing.NewBinaryBitmapFromImage(pix.Image())
	if err != nil {
		return nil, fmt.Errorf("zxing: binarize image: %w", err)
	}

	zhints := make(map[gozxing.DecodeHintType]interface{})
	if hints.TryHarder {
		zhints[gozxing.DecodeHintType_TRY_HARDER] = true
	}

	tags := hints.Formats
	if len(tags) == 0 {
		tags = allTags
	}
	if formats := possibleFormats(tags); len(formats) > 0 {
		zhints[gozxing.DecodeHintType_POSSIBLE_FORMATS] = formats
	}

	maxSymbols := hints.MaxNumberOfSymbols
	out := make([]Symbol, 0, 1)
	for _, tag := range tags {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		reader := readerForTag(tag)
		if reader == nil {
			continue
		}
		// A reader error means this format was not found; try the next one.
		res, err := reader.Decode(bmp, zhints)
		if err != nil || res == nil {
			continue
		}
		out = append(out, Symbol{
			Text:   res.GetText(),
			Format: tagForFormat(res.GetBarcodeFormat()),
		})
		if maxSymbols > 0 && len(out) >= maxSymbols {
			break
		}
	}
	return out, nil
}

// readerForTag returns a fresh format reader for the given tag. Readers are
// built per call; gozxing readers are not documented as concurrency-safe.
func readerForTag(tag string) gozxing.Reader {
	switch tag {
	case TagQRCode:
		return qrcode.NewQRCodeReader()
	case TagDataMatrix:
		return datamatrix.NewDataMatrixReader()
	case TagAztec:
		return aztec.NewAztecReader()
	case TagCode128:
		return oned.NewCode128Reader()
	case TagCode39:
		return oned.NewCode39Reader()
	case TagCode93:
		return oned.NewCode93Reader()
	case TagCodabar:
		return oned.NewCodaBarReader()
	case TagITF:
		return oned.NewITFReader()
	case TagEAN13:
		return oned.NewEAN13Reader()
	case TagEAN8:
		return oned.NewEAN8Reader()
	case TagUPCA:
		return oned.NewUPCAReader()
	case TagUPCE:
		return oned.NewUPCEReader()
	default:
		return nil
	}
}

func possibleFormats(tags []string) []gozxing.BarcodeFormat {
	formats := make([]gozxing.BarcodeFormat, 0, len(tags))
	for _, tag := range tags {
		if f, ok := formatForTag(tag); ok {
			formats = append(formats, f)
		}
	}
	return formats
}

func formatForTag(tag string) (gozxing.BarcodeFormat, bool) {
	switch tag {
	case TagQRCode:
		return gozxing.BarcodeFormat_QR_CODE, true
	case TagDataMatrix:
		return gozxing.BarcodeFormat_DATA_MATRIX, true
	case TagAztec:
		return gozxing.BarcodeFormat_AZTEC, true
	case TagCode128:
		return gozxing.BarcodeFormat_CODE_128, true
	case TagCode39:
		return gozxing.BarcodeFormat_CODE_39, true
	case TagCode93:
		return gozxing.BarcodeFormat_CODE_93, true
	case TagCodabar:
		return gozxing.BarcodeFormat_CODABAR, true
	case TagITF:
		return gozxing.BarcodeFormat_ITF, true
	case TagEAN13:
		return gozxing.BarcodeFormat_EAN_13, true
	case TagEAN8:
		return gozxing.BarcodeFormat_EAN_8, true
	case TagUPCA:
		return gozxing.BarcodeFormat_UPC_A, true
	case TagUPCE:
		return gozxing.BarcodeFormat_UPC_E, true
	default:
		return 0, false
	}
}

func tagForFormat(f gozxing.BarcodeFormat) string {
	switch f {
	case gozxing.BarcodeFormat_QR_CODE:
		return TagQRCode
	case gozxing.BarcodeFormat_DATA_MATRIX:
		return TagDataMatrix
	case gozxing.BarcodeFormat_AZTEC:
		return TagAztec
	case gozxing.BarcodeFormat_CODE_128:
		return TagCode128
	case gozxing.BarcodeFormat_CODE_39:
		return TagCode39
	case gozxing.BarcodeFormat_CODE_93:
		return TagCode93
	case gozxing.BarcodeFormat_CODABAR:
		return TagCodabar
	case gozxing.BarcodeFormat_ITF:
		return TagITF
	case gozxing.BarcodeFormat_EAN_13:
		return TagEAN13
	case gozxing.BarcodeFormat_EAN_8:
		return TagEAN8
	case gozxing.BarcodeFormat_UPC_A:
		return TagUPCA
	case gozxing.BarcodeFormat_UPC_E:
		return TagUPCE
	default:
		return f.String()
	}
}
