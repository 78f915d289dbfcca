package media_test

import (
	"encoding/base64"
	"strings"
	"testing"

	"go-jobboard/internal/media"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dataURL(mime string, size int) string {
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString([]byte(strings.Repeat("a", size)))
}

func TestValidateImage(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		max     int
		wantErr error
	}{
		{name: "empty is allowed", input: ""},
		{name: "small png", input: dataURL("image/png", 1024)},
		{name: "upper case mime", input: dataURL("IMAGE/JPEG", 10)},
		{name: "at the limit", input: dataURL("image/webp", 2048), max: 2048},
		{name: "over the limit", input: dataURL("image/png", 2049), max: 2048, wantErr: media.ErrTooLarge},
		{name: "not a data url", input: "https://example.com/a.png", wantErr: media.ErrInvalidImage},
		{name: "not base64", input: "data:image/png;base64,@@@", wantErr: media.ErrInvalidImage},
		{name: "wrong type", input: dataURL("application/pdf", 10), wantErr: media.ErrInvalidImage},
		{name: "default limit", input: dataURL("image/png", media.DefaultMaxImageBytes+1), wantErr: media.ErrTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := media.ValidateImage(tt.input, tt.max)
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestDecodeDataURL(t *testing.T) {
	mime, data, err := media.DecodeDataURL("data:image/gif;base64," + base64.StdEncoding.EncodeToString([]byte("GIF89a")))
	require.NoError(t, err)
	assert.Equal(t, "image/gif", mime)
	assert.Equal(t, []byte("GIF89a"), data)
}

func TestValidatePDF_Rejects(t *testing.T) {
	_, err := media.ValidatePDF([]byte("hello world"), 0)
	assert.ErrorIs(t, err, media.ErrInvalidPDF)

	_, err = media.ValidatePDF([]byte("%PDF-1.4 truncated"), 0)
	assert.ErrorIs(t, err, media.ErrInvalidPDF)

	_, err = media.ValidatePDF(make([]byte, 11), 10)
	assert.ErrorIs(t, err, media.ErrTooLarge)
}
