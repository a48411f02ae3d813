package image

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Load reads an image file into an RGBA buffer.
// Supported formats: PNG, JPEG, GIF, BMP, TIFF, WebP.
func Load(path string) (*Buf, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %w", ErrIO, path, err)
	}
	defer func() { _ = f.Close() }()

	b, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return b, nil
}

// LoadFromBytes decodes an in-memory image file.
func LoadFromBytes(data []byte) (*Buf, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty data", ErrIO)
	}
	return Decode(bytes.NewReader(data))
}

// Decode decodes an image from r, auto-detecting the format.
func Decode(r io.Reader) (*Buf, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("%w: decode: %w", ErrIO, err)
	}
	return FromStdImage(img)
}

// Channels reports how many color channels a decoded image carries:
// 1 for gray and alpha-only images, 3 for opaque color, 4 for color with alpha.
func Channels(img image.Image) int {
	switch m := img.(type) {
	case *image.Gray, *image.Gray16, *image.Alpha, *image.Alpha16:
		return 1
	case *image.YCbCr:
		return 3
	case *image.Paletted:
		for _, c := range m.Palette {
			if _, _, _, a := c.RGBA(); a != 0xffff {
				return 4
			}
		}
		return 3
	default:
		return 4
	}
}

// FromStdImage converts a standard library image into a Buf.
// Three-channel images get alpha 255. Images with any other channel count
// than 3 or 4 are rejected with ErrFormat.
func FromStdImage(img image.Image) (*Buf, error) {
	ch := Channels(img)
	if ch != 3 && ch != 4 {
		return nil, fmt.Errorf("%w: %d channel(s)", ErrFormat, ch)
	}

	bounds := img.Bounds()
	buf, err := New(bounds.Dy(), bounds.Dx())
	if err != nil {
		return nil, err
	}

	// Fast path for NRGBA images
	if nrgba, ok := img.(*image.NRGBA); ok {
		width := buf.cols * bytesPerPixel
		for row := 0; row < buf.rows; row++ {
			start := nrgba.PixOffset(bounds.Min.X, bounds.Min.Y+row)
			copy(buf.RowBytes(row), nrgba.Pix[start:start+width])
		}
		return buf, nil
	}

	for row := 0; row < buf.rows; row++ {
		dst := buf.RowBytes(row)
		for col := 0; col < buf.cols; col++ {
			c := color.NRGBAModel.Convert(img.At(bounds.Min.X+col, bounds.Min.Y+row)).(color.NRGBA)
			off := col * bytesPerPixel
			dst[off] = c.R
			dst[off+1] = c.G
			dst[off+2] = c.B
			dst[off+3] = c.A
		}
	}
	if ch == 3 {
		buf.SetAlpha(255)
	}
	return buf, nil
}

// ToStdImage returns a non-premultiplied copy of the buffer.
func (b *Buf) ToStdImage() *image.NRGBA {
	nrgba := image.NewNRGBA(image.Rect(0, 0, b.cols, b.rows))
	copy(nrgba.Pix, b.data)
	return nrgba
}

// Save writes the buffer to path, creating intermediate directories.
// The encoding follows the extension: .jpg/.jpeg, .bmp, .tif/.tiff, otherwise PNG.
func (b *Buf) Save(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("%w: create directory %s: %w", ErrIO, dir, err)
		}
	}

	f, err := os.Create(filepath.Clean(path))
	if err != nil {
		return fmt.Errorf("%w: create file: %w", ErrIO, err)
	}

	if err := b.Encode(f, strings.ToLower(filepath.Ext(path))); err != nil {
		_ = f.Close()
		return err
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("%w: close %s: %w", ErrIO, path, err)
	}
	return nil
}

// Encode writes the buffer to w in the format named by ext (".png", ".jpg", ...).
func (b *Buf) Encode(w io.Writer, ext string) error {
	img := b.ToStdImage()

	var err error
	switch ext {
	case ".jpg", ".jpeg":
		err = jpeg.Encode(w, img, &jpeg.Options{Quality: 95})
	case ".bmp":
		err = bmp.Encode(w, img)
	case ".tif", ".tiff":
		err = tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
	default:
		err = png.Encode(w, img)
	}
	if err != nil {
		return fmt.Errorf("%w: encode %s: %w", ErrIO, ext, err)
	}
	return nil
}

// EncodeToBytes encodes the buffer as PNG and returns the bytes.
func (b *Buf) EncodeToBytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := b.Encode(&buf, ".png"); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
