// Package store writes finished level maps to disk.
//
// Each saved map is a PNG named <name>_result<unix seconds>.png plus a
// label sidecar next to it, <same name>.labels.zst: a zstd stream holding
// the map height and width as big-endian uint32 followed by one label byte
// per pixel, row-major.
package store

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/klauspost/compress/zstd"

	"github.com/gogpu/canopy/internal/image"
)

// SidecarExt is appended to the PNG path to name the label sidecar.
const SidecarExt = ".labels.zst"

const headerSize = 8

// ErrCorrupt reports a sidecar whose header does not match its payload.
var ErrCorrupt = errors.New("store: corrupt label sidecar")

// Store saves results under a directory.
type Store struct {
	dir string
	now func() time.Time
}

// New returns a store rooted at dir. The directory is created on first save.
func New(dir string) *Store {
	return &Store{dir: dir, now: time.Now}
}

// Dir returns the result directory.
func (s *Store) Dir() string { return s.dir }

// SaveResult writes pixels as a PNG and labels as its sidecar.
// labels may be nil, in which case no sidecar is written.
// It returns the PNG path. Failures wrap image.ErrIO.
func (s *Store) SaveResult(name string, pixels *image.Buf, labels []byte) (string, error) {
	if labels != nil && len(labels) != pixels.Size() {
		return "", fmt.Errorf("%w: %d labels for %d pixels", image.ErrShapeMismatch, len(labels), pixels.Size())
	}
	path := filepath.Join(s.dir, fmt.Sprintf("%s_result%d.png", name, s.now().Unix()))
	if err := pixels.Save(path); err != nil {
		return "", err
	}
	if labels == nil {
		return path, nil
	}

	f, err := os.Create(path + SidecarExt)
	if err != nil {
		return "", fmt.Errorf("%w: %w", image.ErrIO, err)
	}
	if err := encodeLabels(f, pixels.Rows(), pixels.Cols(), labels); err != nil {
		f.Close()
		return "", fmt.Errorf("%w: %s: %w", image.ErrIO, f.Name(), err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("%w: %w", image.ErrIO, err)
	}
	return path, nil
}

func encodeLabels(w io.Writer, rows, cols int, labels []byte) error {
	enc, err := zstd.NewWriter(w, zstd.WithEncoderConcurrency(runtime.NumCPU()))
	if err != nil {
		return err
	}
	var hdr [headerSize]byte
	binary.BigEndian.PutUint32(hdr[0:4], uint32(rows))
	binary.BigEndian.PutUint32(hdr[4:8], uint32(cols))
	if _, err := enc.Write(hdr[:]); err != nil {
		enc.Close()
		return err
	}
	if _, err := enc.Write(labels); err != nil {
		enc.Close()
		return err
	}
	return enc.Close()
}

// LoadLabels reads a label sidecar. path may name either the sidecar or
// the PNG it belongs to.
func LoadLabels(path string) (rows, cols int, labels []byte, err error) {
	if filepath.Ext(path) != filepath.Ext(SidecarExt) {
		path += SidecarExt
	}
	f, err := os.Open(path)
	if err != nil {
		return 0, 0, nil, fmt.Errorf("%w: %w", image.ErrIO, err)
	}
	defer f.Close()

	dec, err := zstd.NewReader(f)
	if err != nil {
		return 0, 0, nil, fmt.Errorf("%w: %s: %w", image.ErrIO, path, err)
	}
	defer dec.Close()

	plain, err := io.ReadAll(dec)
	if err != nil {
		return 0, 0, nil, fmt.Errorf("%w: %s: %w", image.ErrIO, path, err)
	}
	return decodeLabels(plain)
}

func decodeLabels(plain []byte) (rows, cols int, labels []byte, err error) {
	if len(plain) < headerSize {
		return 0, 0, nil, fmt.Errorf("%w: truncated header", ErrCorrupt)
	}
	rows = int(binary.BigEndian.Uint32(plain[0:4]))
	cols = int(binary.BigEndian.Uint32(plain[4:8]))
	labels = bytes.Clone(plain[headerSize:])
	if len(labels) != rows*cols {
		return 0, 0, nil, fmt.Errorf("%w: %dx%d header, %d labels", ErrCorrupt, rows, cols, len(labels))
	}
	return rows, cols, labels, nil
}
