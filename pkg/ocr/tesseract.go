package ocr

import (
	"bytes"
	"context"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os/exec"
	"strings"
	"time"

	"github.com/rotisserie/eris"
)

// Tesseract runs the tesseract command-line program, feeding the image on
// stdin and reading the text from stdout.
type Tesseract struct {
	Path     string
	Language string
	Timeout  time.Duration
}

// NewTesseract returns an engine with the default binary name, English
// language data and a one-minute timeout where arguments are empty.
func NewTesseract(path, language string, timeout time.Duration) *Tesseract {
	if path == "" {
		path = "tesseract"
	}
	if language == "" {
		language = "eng"
	}
	if timeout <= 0 {
		timeout = time.Minute
	}
	return &Tesseract{Path: path, Language: language, Timeout: timeout}
}

// ExtractText validates that img is a PNG or JPEG and returns tesseract's
// output for it.
func (t *Tesseract) ExtractText(ctx context.Context, img []byte) (string, error) {
	if _, _, err := image.DecodeConfig(bytes.NewReader(img)); err != nil {
		return "", eris.Wrap(err, "decode image")
	}

	ctx, cancel := context.WithTimeout(ctx, t.Timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, t.Path, "stdin", "stdout", "-l", t.Language)
	cmd.Stdin = bytes.NewReader(img)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return "", eris.Wrapf(err, "run %s: %s", t.Path, msg)
		}
		return "", eris.Wrapf(err, "run %s", t.Path)
	}
	return stdout.String(), nil
}
