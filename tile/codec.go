package tile

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"strings"

	"github.com/chai2010/webp"
)

// ErrUnknownFormat is returned when the encoded bytes carry none of the
// recognized image signatures.
var ErrUnknownFormat = errors.New("unrecognized image format")

var pngSignature = []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}

// JPEGMarkersValid checks the JPEG start (FF D8) and end (FF D9) markers.
// Files truncated by an interrupted writer fail this check before the
// decoder sees them.
func JPEGMarkersValid(data []byte) bool {
	if len(data) < 4 {
		return false
	}
	return data[0] == 0xFF && data[1] == 0xD8 && data[len(data)-2] == 0xFF && data[len(data)-1] == 0xD9
}

// Decode sniffs the image format from its signature and decodes to an RGB
// raster. PNG, JPEG and WebP are supported; alpha is dropped, and images
// without three or four color channels are rejected.
func Decode(data []byte) (*Raster, error) {
	var img image.Image
	var err error
	switch {
	case len(data) >= 8 && bytes.Equal(data[:8], pngSignature):
		img, err = png.Decode(bytes.NewReader(data))
	case len(data) >= 2 && data[0] == 0xFF && data[1] == 0xD8:
		img, err = jpeg.Decode(bytes.NewReader(data))
	case len(data) >= 12 && string(data[0:4]) == "RIFF" && string(data[8:12]) == "WEBP":
		img, err = webp.Decode(bytes.NewReader(data))
	default:
		return nil, ErrUnknownFormat
	}
	if err != nil {
		return nil, err
	}
	switch img.(type) {
	case *image.Gray, *image.Gray16, *image.Alpha, *image.Alpha16:
		return nil, errors.New("expected 3 or 4 color channels, got 1")
	}
	return FromImage(img), nil
}

// Encode encodes the raster for the given file extension. JPEG is the
// default tile format on disk.
func Encode(r *Raster, ext string) ([]byte, error) {
	var buf bytes.Buffer
	switch strings.ToLower(strings.TrimPrefix(ext, ".")) {
	case "", "jpg", "jpeg":
		if err := jpeg.Encode(&buf, r.ToRGBA(), &jpeg.Options{Quality: 90}); err != nil {
			return nil, err
		}
	case "png":
		if err := png.Encode(&buf, r.ToRGBA()); err != nil {
			return nil, err
		}
	case "webp":
		if err := webp.Encode(&buf, r.ToRGBA(), &webp.Options{Quality: 90}); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("%w: cannot encode %q", ErrUnknownFormat, ext)
	}
	return buf.Bytes(), nil
}
