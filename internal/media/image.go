// Package media validates inline images and CV uploads and stores files in object storage.
package media

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
)

// DefaultMaxImageBytes bounds a decoded inline image.
const DefaultMaxImageBytes = 700 * 1024

var (
	ErrInvalidImage = errors.New("image must be a base64 data URL of a png, jpeg, gif or webp file")
	ErrTooLarge     = errors.New("file is too large")
	ErrInvalidPDF   = errors.New("file is not a readable PDF document")
)

var allowedImageTypes = map[string]bool{
	"image/png":  true,
	"image/jpeg": true,
	"image/gif":  true,
	"image/webp": true,
}

// DecodeDataURL splits a "data:<mime>;base64,<payload>" string.
func DecodeDataURL(s string) (string, []byte, error) {
	rest, ok := strings.CutPrefix(s, "data:")
	if !ok {
		return "", nil, ErrInvalidImage
	}
	header, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return "", nil, ErrInvalidImage
	}
	mimeType, ok := strings.CutSuffix(header, ";base64")
	if !ok {
		return "", nil, ErrInvalidImage
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}
	return strings.ToLower(mimeType), data, nil
}

// ValidateImage accepts an empty string (no image) or a data URL no larger than maxBytes once decoded.
func ValidateImage(dataURL string, maxBytes int) error {
	if dataURL == "" {
		return nil
	}
	mimeType, data, err := DecodeDataURL(dataURL)
	if err != nil {
		return err
	}
	if !allowedImageTypes[mimeType] {
		return fmt.Errorf("%w: got %s", ErrInvalidImage, mimeType)
	}
	if maxBytes <= 0 {
		maxBytes = DefaultMaxImageBytes
	}
	if len(data) > maxBytes {
		return fmt.Errorf("%w: image is %d KB, limit is %d KB", ErrTooLarge, len(data)/1024, maxBytes/1024)
	}
	return nil
}
