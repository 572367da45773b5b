package document

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"  // Register GIF decoder
	_ "image/jpeg" // Register JPEG decoder
	"image/png"
	"strings"

	"github.com/gen2brain/heic"
)

// imageToPNG decodes an image in any supported format (JPEG, PNG, GIF,
// HEIC/HEIF) and re-encodes it as PNG, returning the encoded bytes and the
// pixel dimensions.
func imageToPNG(data []byte) ([]byte, int, int, error) {
	var img image.Image
	var err error

	// HEIC/HEIF (common for phone photos) is not covered by the standard
	// image package.
	if isHEICFormat(data) {
		img, err = heic.Decode(bytes.NewReader(data))
		if err != nil {
			return nil, 0, 0, fmt.Errorf("decoding HEIC/HEIF image: %w", err)
		}
	} else {
		img, _, err = image.Decode(bytes.NewReader(data))
		if err != nil {
			if strings.Contains(err.Error(), "unknown format") || strings.Contains(err.Error(), "unsupported") {
				return nil, 0, 0, fmt.Errorf("unsupported image format. Supported formats: JPEG, PNG, GIF, HEIC, HEIF, PDF. Error: %w", err)
			}
			return nil, 0, 0, fmt.Errorf("decoding image: %w", err)
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, 0, 0, fmt.Errorf("encoding PNG: %w", err)
	}
	bounds := img.Bounds()
	return buf.Bytes(), bounds.Dx(), bounds.Dy(), nil
}

// isHEICFormat checks the ftyp box for HEIC/HEIF brand signatures.
func isHEICFormat(data []byte) bool {
	if len(data) < 12 {
		return false
	}
	if string(data[4:8]) == "ftyp" {
		brand := string(data[8:12])
		if brand == "heic" || brand == "heif" || brand == "mif1" || brand == "msf1" {
			return true
		}
	}
	return false
}
