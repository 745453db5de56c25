// Package photo turns uploaded images into the self-contained payloads the
// record store keeps: a full-size JPEG and a square thumbnail, both encoded
// as base64 data URLs.
package photo

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	_ "image/gif" // register decoder
	"image/jpeg"
	_ "image/png" // register decoder
	"io"
	"strings"
	"unicode/utf8"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // register decoder

	"github.com/pkordes/booze-cruise/backend/internal/domain"
)

const (
	// MaxUploadBytes is the largest accepted upload.
	MaxUploadBytes = 5 << 20
	// MaxDimension bounds both sides of the stored full-size image.
	MaxDimension = 1200
	// ThumbSize is the side length of the square thumbnail.
	ThumbSize = 150
	// JPEGQuality is used for every stored image.
	JPEGQuality = 92

	maxGlyphBytes = 16
	dataURLPrefix = "data:image/"
)

// Process decodes an uploaded image and returns its stored representation.
// size is the declared upload size; pass -1 when unknown.
func Process(r io.Reader, contentType string, size int64) (domain.Photo, error) {
	if !strings.HasPrefix(contentType, "image/") {
		return domain.Photo{}, fmt.Errorf("%w: file must be an image", domain.ErrValidation)
	}
	if size > MaxUploadBytes {
		return domain.Photo{}, fmt.Errorf("%w: image must be 5MB or smaller", domain.ErrValidation)
	}

	data, err := io.ReadAll(io.LimitReader(r, MaxUploadBytes+1))
	if err != nil {
		return domain.Photo{}, fmt.Errorf("photo.Process: read: %w", err)
	}
	if len(data) > MaxUploadBytes {
		return domain.Photo{}, fmt.Errorf("%w: image must be 5MB or smaller", domain.ErrValidation)
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return domain.Photo{}, fmt.Errorf("%w: cannot decode image: %v", domain.ErrValidation, err)
	}

	full, err := EncodeJPEG(Fit(img, MaxDimension, MaxDimension))
	if err != nil {
		return domain.Photo{}, fmt.Errorf("photo.Process: full: %w", err)
	}
	thumb, err := EncodeJPEG(Cover(img, ThumbSize, ThumbSize))
	if err != nil {
		return domain.Photo{}, fmt.Errorf("photo.Process: thumb: %w", err)
	}
	return domain.Photo{Thumb: thumb, Full: full}, nil
}

// Fit scales img down so it fits inside maxW×maxH, keeping its aspect ratio.
// Images that already fit are returned flattened but unscaled.
func Fit(img image.Image, maxW, maxH int) image.Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= maxW && h <= maxH {
		dst := blank(w, h)
		draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Over)
		return dst
	}
	ratio := min(float64(maxW)/float64(w), float64(maxH)/float64(h))
	nw := max(1, int(float64(w)*ratio+0.5))
	nh := max(1, int(float64(h)*ratio+0.5))
	dst := blank(nw, nh)
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Over, nil)
	return dst
}

// Cover scales and centre-crops img so it fills w×h exactly.
func Cover(img image.Image, w, h int) *image.RGBA {
	b := img.Bounds()
	sw, sh := b.Dx(), b.Dy()
	src := b
	if sw*h > sh*w {
		cw := sh * w / h
		src.Min.X = b.Min.X + (sw-cw)/2
		src.Max.X = src.Min.X + cw
	} else {
		ch := sw * h / w
		src.Min.Y = b.Min.Y + (sh-ch)/2
		src.Max.Y = src.Min.Y + ch
	}
	dst := blank(w, h)
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, src, draw.Over, nil)
	return dst
}

// EncodeJPEG encodes img as a JPEG data URL.
func EncodeJPEG(img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: JPEGQuality}); err != nil {
		return "", err
	}
	return "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// Decode parses a base64 image data URL.
func Decode(dataURL string) (image.Image, error) {
	if !IsDataURL(dataURL) {
		return nil, fmt.Errorf("photo.Decode: not an image data URL")
	}
	meta, payload, ok := strings.Cut(dataURL, ",")
	if !ok || !strings.HasSuffix(meta, ";base64") {
		return nil, fmt.Errorf("photo.Decode: not a base64 data URL")
	}
	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("photo.Decode: %w", err)
	}
	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("photo.Decode: %w", err)
	}
	return img, nil
}

// IsDataURL reports whether s holds an embedded image.
func IsDataURL(s string) bool {
	return strings.HasPrefix(s, dataURLPrefix)
}

// IsGlyph reports whether s is a short symbolic stand-in such as an emoji.
func IsGlyph(s string) bool {
	return s != "" && !IsDataURL(s) && len(s) <= maxGlyphBytes && utf8.ValidString(s)
}

// Validate checks a stored photo field: empty, a glyph, or an image data URL.
func Validate(s string) error {
	if s == "" || IsGlyph(s) || IsDataURL(s) {
		return nil
	}
	return fmt.Errorf("%w: photo must be a glyph or an image data URL", domain.ErrValidation)
}

// blank returns a white canvas so transparent sources flatten predictably
// when encoded as JPEG.
func blank(w, h int) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	return dst
}
