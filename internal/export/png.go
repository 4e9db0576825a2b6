package export

import (
	"bytes"
	"errors"
	"fmt"
	"image/png"
	"log"
	"os"
	"path/filepath"
	"time"

	"MandalaPad/internal/state"
)

// Sentinels for the two ways a save can go wrong after the empty-drawing
// check. Callers match with errors.Is.
var (
	ErrEncode = errors.New("encoding drawing failed")
	ErrWrite  = errors.New("writing drawing failed")
)

const (
	defaultWidth  = 1024
	defaultHeight = 768
	namePrefix    = "mandala_"
	timeLayout    = "2006-01-02_15-04-05"
)

// PNGExporter rasterizes a draw list and writes it as a timestamped PNG
// into Dir.
type PNGExporter struct {
	Dir        string
	Width      int
	Height     int
	Background state.Color
}

// Export implements state.Exporter. The image is encoded into memory first;
// a failed encode leaves no file behind.
func (e PNGExporter) Export(dl state.DrawList) (string, error) {
	w, h := e.Width, e.Height
	if w <= 0 {
		w = defaultWidth
	}
	if h <= 0 {
		h = defaultHeight
	}
	bg := e.Background
	if !bg.IsSet() {
		bg = state.White
	}

	img := Rasterize(dl, w, h, bg)
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", fmt.Errorf("%w: %v", ErrEncode, err)
	}

	path := filepath.Join(e.Dir, namePrefix+time.Now().Format(timeLayout)+".png")
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return "", fmt.Errorf("%w: %v", ErrWrite, err)
	}
	log.Printf("[EXPORT] Saved PNG to %s", path)
	return path, nil
}

// DefaultDir returns the user's documents folder, falling back to the
// working directory when it cannot be determined.
func DefaultDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	docs := filepath.Join(home, "Documents")
	if info, err := os.Stat(docs); err == nil && info.IsDir() {
		return docs
	}
	return home
}
