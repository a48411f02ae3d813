package image

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

func writePNG(t *testing.T, path string, img image.Image) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
}

func TestLoad_RGBA(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 4, 3))
	src.SetNRGBA(2, 1, color.NRGBA{R: 200, G: 100, B: 50, A: 128})
	path := filepath.Join(t.TempDir(), "map.png")
	writePNG(t, path, src)

	b, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if b.Rows() != 3 || b.Cols() != 4 {
		t.Fatalf("shape = %dx%d, want 3x4", b.Rows(), b.Cols())
	}
	if got := b.At(1, 2); got != (color.NRGBA{R: 200, G: 100, B: 50, A: 128}) {
		t.Errorf("At(1, 2) = %v", got)
	}
}

func TestLoad_ThreeChannelsGetOpaqueAlpha(t *testing.T) {
	src := image.NewYCbCr(image.Rect(0, 0, 2, 2), image.YCbCrSubsampleRatio444)
	b, err := FromStdImage(src)
	if err != nil {
		t.Fatalf("FromStdImage() error = %v", err)
	}
	for row := 0; row < 2; row++ {
		for col := 0; col < 2; col++ {
			if a := b.At(row, col).A; a != 255 {
				t.Errorf("alpha at (%d, %d) = %d, want 255", row, col, a)
			}
		}
	}
}

func TestLoad_GrayIsFormatError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gray.png")
	writePNG(t, path, image.NewGray(image.Rect(0, 0, 2, 2)))

	_, err := Load(path)
	if !errors.Is(err, ErrFormat) {
		t.Errorf("Load(gray) error = %v, want ErrFormat", err)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.png"))
	if !errors.Is(err, ErrIO) {
		t.Errorf("Load(missing) error = %v, want ErrIO", err)
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Load(missing) error = %v, want wrapped os.ErrNotExist", err)
	}
}

func TestLoad_Garbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "junk.png")
	if err := os.WriteFile(path, []byte("not an image"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); !errors.Is(err, ErrIO) {
		t.Errorf("Load(garbage) error = %v, want ErrIO", err)
	}
}

func TestChannels(t *testing.T) {
	opaque := color.Palette{color.NRGBA{A: 255}, color.NRGBA{R: 255, A: 255}}
	translucent := color.Palette{color.NRGBA{A: 255}, color.NRGBA{}}

	tests := []struct {
		name string
		img  image.Image
		want int
	}{
		{"gray", image.NewGray(image.Rect(0, 0, 1, 1)), 1},
		{"gray16", image.NewGray16(image.Rect(0, 0, 1, 1)), 1},
		{"alpha", image.NewAlpha(image.Rect(0, 0, 1, 1)), 1},
		{"ycbcr", image.NewYCbCr(image.Rect(0, 0, 1, 1), image.YCbCrSubsampleRatio444), 3},
		{"paletted opaque", image.NewPaletted(image.Rect(0, 0, 1, 1), opaque), 3},
		{"paletted alpha", image.NewPaletted(image.Rect(0, 0, 1, 1), translucent), 4},
		{"nrgba", image.NewNRGBA(image.Rect(0, 0, 1, 1)), 4},
		{"rgba", image.NewRGBA(image.Rect(0, 0, 1, 1)), 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Channels(tt.img); got != tt.want {
				t.Errorf("Channels() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestSave_CreatesDirectories(t *testing.T) {
	b := gradient(t, 5, 7)
	path := filepath.Join(t.TempDir(), "results", "nested", "out.png")

	if err := b.Save(path); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !loaded.Equal(b) {
		t.Error("PNG round trip changed pixels")
	}
}

func TestSave_Formats(t *testing.T) {
	b := gradient(t, 4, 4)
	dir := t.TempDir()

	for _, ext := range []string{".bmp", ".tiff"} {
		t.Run(ext, func(t *testing.T) {
			path := filepath.Join(dir, "out"+ext)
			if err := b.Save(path); err != nil {
				t.Fatalf("Save() error = %v", err)
			}
			loaded, err := Load(path)
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}
			if !loaded.EqualRGB(b) {
				t.Errorf("%s round trip changed pixels", ext)
			}
		})
	}
}

func TestSave_Unwritable(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	if err := os.WriteFile(blocker, nil, 0o600); err != nil {
		t.Fatal(err)
	}
	b := gradient(t, 2, 2)

	// A regular file where a directory is needed.
	err := b.Save(filepath.Join(blocker, "out.png"))
	if !errors.Is(err, ErrIO) {
		t.Errorf("Save() error = %v, want ErrIO", err)
	}
}

func TestEncodeToBytes(t *testing.T) {
	b := gradient(t, 3, 2)
	data, err := b.EncodeToBytes()
	if err != nil {
		t.Fatalf("EncodeToBytes() error = %v", err)
	}
	if !bytes.HasPrefix(data, []byte("\x89PNG")) {
		t.Error("EncodeToBytes() did not produce PNG")
	}
	back, err := LoadFromBytes(data)
	if err != nil {
		t.Fatalf("LoadFromBytes() error = %v", err)
	}
	if !back.Equal(b) {
		t.Error("byte round trip changed pixels")
	}
	if _, err := LoadFromBytes(nil); !errors.Is(err, ErrIO) {
		t.Errorf("LoadFromBytes(nil) error = %v, want ErrIO", err)
	}
}
