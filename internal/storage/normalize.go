package storage

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"net/http"
	"strings"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
)

const (
	// MaxImageBytes caps uploads and remote downloads.
	MaxImageBytes = 10 << 20
	// MaxDimension bounds the longer side of a stored image.
	MaxDimension = 2400
	webpQuality  = 85
)

var (
	ErrTooLarge         = errors.New("storage: image exceeds 10MB")
	ErrUnsupportedImage = errors.New("storage: unsupported image type")
)

var allowedTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
	"image/gif":  true,
}

// AllowedType reports whether ct (parameters ignored) is an accepted image
// MIME type.
func AllowedType(ct string) bool {
	ct, _, _ = strings.Cut(ct, ";")
	return allowedTypes[strings.ToLower(strings.TrimSpace(ct))]
}

// Image is a normalised image ready to store.
type Image struct {
	Data        []byte
	ContentType string
	Ext         string
}

// Normalize sniffs data, shrinks it to fit MaxDimension and re-encodes it
// as WebP.  GIFs are stored untouched so animation survives.
func Normalize(data []byte) (Image, error) {
	if len(data) > MaxImageBytes {
		return Image{}, ErrTooLarge
	}
	ct := http.DetectContentType(data)
	if !AllowedType(ct) {
		return Image{}, ErrUnsupportedImage
	}
	if ct == "image/gif" {
		return Image{Data: data, ContentType: ct, Ext: "gif"}, nil
	}

	var (
		img image.Image
		err error
	)
	if ct == "image/webp" {
		img, err = webp.Decode(bytes.NewReader(data))
	} else {
		img, err = imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	}
	if err != nil {
		return Image{}, fmt.Errorf("%w: %v", ErrUnsupportedImage, err)
	}

	b := img.Bounds()
	if b.Dx() > MaxDimension || b.Dy() > MaxDimension {
		img = imaging.Fit(img, MaxDimension, MaxDimension, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := webp.Encode(&buf, img, &webp.Options{Quality: webpQuality}); err != nil {
		return Image{}, fmt.Errorf("storage: encode webp: %w", err)
	}
	return Image{Data: buf.Bytes(), ContentType: "image/webp", Ext: "webp"}, nil
}
