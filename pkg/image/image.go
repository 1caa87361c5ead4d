// Package image decodes base images and encodes rendered outputs.
package image

import (
	"bytes"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
	"golang.org/x/image/webp"
)

type decodeFunc func(io.Reader) (image.Image, error)

type decodeConfigFunc func(io.Reader) (image.Config, error)

func getDecoder(file string) (decodeFunc, decodeConfigFunc, error) {
	switch ext := strings.ToLower(filepath.Ext(file)); ext {
	case ".png":
		return png.Decode, png.DecodeConfig, nil
	case ".jpg", ".jpeg":
		return jpeg.Decode, jpeg.DecodeConfig, nil
	case ".gif":
		return gif.Decode, gif.DecodeConfig, nil
	case ".webp":
		return webp.Decode, webp.DecodeConfig, nil
	case ".bmp":
		return bmp.Decode, bmp.DecodeConfig, nil
	case ".tif", ".tiff":
		return tiff.Decode, tiff.DecodeConfig, nil
	default:
		return nil, nil, fmt.Errorf("image: unsupported extension: %s", ext)
	}
}

// DecodeFile decodes the contents of file, picking the decoder by extension.
func DecodeFile(file string, b []byte) (image.Image, error) {
	decode, _, err := getDecoder(file)
	if err != nil {
		return nil, err
	}
	img, err := decode(bytes.NewReader(b))
	if err != nil {
		return nil, fmt.Errorf("image: couldn't decode %s: %w", file, err)
	}
	return img, nil
}

// Decode decodes an image of any supported format, detected from its
// contents. It returns the detected format name.
func Decode(b []byte) (image.Image, string, error) {
	img, name, err := image.Decode(bytes.NewReader(b))
	if err != nil {
		return nil, "", fmt.Errorf("image: couldn't decode: %w", err)
	}
	return img, name, nil
}

// Size returns the dimensions of the encoded image without decoding pixels.
func Size(file string, b []byte) (int, int, error) {
	_, decodeConfig, err := getDecoder(file)
	if err != nil {
		return 0, 0, err
	}
	cfg, err := decodeConfig(bytes.NewReader(b))
	if err != nil {
		return 0, 0, fmt.Errorf("image: couldn't decode config of %s: %w", file, err)
	}
	return cfg.Width, cfg.Height, nil
}

type encodeFunc func(io.Writer, image.Image) error

// Format is an output encoding.
type Format string

const (
	PNG  Format = "png"
	JPEG Format = "jpeg"
	JPG  Format = "jpg"
	GIF  Format = "gif"
	BMP  Format = "bmp"
	TIFF Format = "tiff"
)

// ParseFormat validates an output format name.
func ParseFormat(name string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimPrefix(strings.TrimSpace(name), ".")))
	switch f {
	case PNG, JPEG, JPG, GIF, BMP, TIFF:
		return f, nil
	case "tif":
		return TIFF, nil
	default:
		return "", fmt.Errorf("image: unsupported output format: %q", name)
	}
}

// HasAlpha reports whether the format can carry an alpha channel.
func (f Format) HasAlpha() bool {
	switch f {
	case JPEG, JPG:
		return false
	default:
		return true
	}
}

// ContentType returns the MIME type of the format.
func (f Format) ContentType() string {
	switch f {
	case JPEG, JPG:
		return "image/jpeg"
	case GIF:
		return "image/gif"
	case BMP:
		return "image/bmp"
	case TIFF:
		return "image/tiff"
	default:
		return "image/png"
	}
}

// Extension returns the file extension of the format, without the dot.
func (f Format) Extension() string {
	if f == JPEG {
		return "jpg"
	}
	return string(f)
}

func (f Format) encoder() (encodeFunc, error) {
	switch f {
	case PNG:
		return png.Encode, nil
	case JPEG, JPG:
		return func(w io.Writer, m image.Image) error {
			return jpeg.Encode(w, m, &jpeg.Options{Quality: 95})
		}, nil
	case GIF:
		return func(w io.Writer, m image.Image) error {
			return gif.Encode(w, m, nil)
		}, nil
	case BMP:
		return bmp.Encode, nil
	case TIFF:
		return func(w io.Writer, m image.Image) error {
			return tiff.Encode(w, m, &tiff.Options{Compression: tiff.Deflate})
		}, nil
	default:
		return nil, fmt.Errorf("image: unsupported output format: %q", string(f))
	}
}

// Encode writes m to w in the format.
func (f Format) Encode(w io.Writer, m image.Image) error {
	encode, err := f.encoder()
	if err != nil {
		return err
	}
	if err := encode(w, m); err != nil {
		return fmt.Errorf("image: couldn't encode %s: %w", f, err)
	}
	return nil
}
