package images

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"net/url"
	"strings"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

// Decode decodes raw image bytes into pixels. PNG, JPEG, GIF, BMP, and
// WebP are registered.
func Decode(data []byte) (image.Image, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decoding image: %w", err)
	}
	return img, nil
}

// IsDataURL reports whether the identity is an inline data: URI.
func IsDataURL(s string) bool {
	return strings.HasPrefix(s, "data:")
}

// DecodeDataURL extracts the raw payload bytes of a data: URI, handling
// both base64 and percent-encoded forms.
func DecodeDataURL(dataURL string) ([]byte, error) {
	if !IsDataURL(dataURL) {
		return nil, fmt.Errorf("not a data URL")
	}
	rest := dataURL[len("data:"):]
	comma := strings.IndexByte(rest, ',')
	if comma < 0 {
		return nil, fmt.Errorf("malformed data URL: no comma")
	}
	metadata, payload := rest[:comma], rest[comma+1:]
	if strings.Contains(metadata, ";base64") {
		decoded, err := base64.StdEncoding.DecodeString(payload)
		if err != nil {
			return nil, fmt.Errorf("base64 payload: %w", err)
		}
		return decoded, nil
	}
	unescaped, err := url.QueryUnescape(payload)
	if err != nil {
		return nil, fmt.Errorf("percent-encoded payload: %w", err)
	}
	return []byte(unescaped), nil
}
