package ocr

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBestLine(t *testing.T) {
	tests := []struct {
		name, text, want string
	}{
		{"longest qualifying", "Rx 12\nParacetamol 500mg Tablets\nUse as directed\n", "Paracetamol 500mg Tablets"},
		{"trimmed", "   Ibuprofen 200mg   \n", "Ibuprofen 200mg"},
		{"needs three letters", "ab 12\nxy-z9\n", NoCandidate},
		{"first of equal length", "Aspirin\nCodeine\n", "Aspirin"},
		{"empty", "", NoCandidate},
		{"crlf", "Omeprazole\r\nAB\r\n", "Omeprazole"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, BestLine(tt.text))
		})
	}
}

func TestAdapter_EngineError(t *testing.T) {
	a := NewAdapter(EngineFunc(func(context.Context, []byte) (string, error) {
		return "", errors.New("engine exploded")
	}))

	got := a.ExtractCandidateText(context.Background(), []byte("img"))
	assert.Equal(t, "OCR Error: engine exploded", got)
}

func TestAdapter_PicksLine(t *testing.T) {
	a := NewAdapter(EngineFunc(func(_ context.Context, img []byte) (string, error) {
		return "LOT 42\n" + string(img) + "\n", nil
	}))

	assert.Equal(t, "Diclofenac Sodium", a.ExtractCandidateText(context.Background(), []byte("Diclofenac Sodium")))
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewGray(image.Rect(0, 0, 4, 4))
	img.Set(1, 1, color.White)
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

// fakeTesseract writes a shell script standing in for the tesseract binary.
func fakeTesseract(t *testing.T, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell script engine not available on windows")
	}
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not found")
	}
	path := filepath.Join(t.TempDir(), "tesseract")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+body), 0o755))
	return path
}

func TestTesseract_Run(t *testing.T) {
	bin := fakeTesseract(t, "cat > /dev/null\necho \"args: $*\"\necho 'Amoxicillin 250mg Capsules'\n")
	eng := NewTesseract(bin, "", 0)

	out, err := eng.ExtractText(context.Background(), pngBytes(t))
	require.NoError(t, err)
	assert.Contains(t, out, "args: stdin stdout -l eng")
	assert.Equal(t, "Amoxicillin 250mg Capsules", BestLine(out))
}

func TestTesseract_Failure(t *testing.T) {
	bin := fakeTesseract(t, "cat > /dev/null\necho 'Error opening data file' >&2\nexit 1\n")
	a := NewAdapter(NewTesseract(bin, "fra", time.Second))

	got := a.ExtractCandidateText(context.Background(), pngBytes(t))
	assert.Contains(t, got, ErrorPrefix)
	assert.Contains(t, got, "Error opening data file")
}

func TestTesseract_RejectsNonImage(t *testing.T) {
	eng := NewTesseract("/nonexistent/tesseract", "", 0)
	_, err := eng.ExtractText(context.Background(), []byte("definitely not an image"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode image")
}

func TestNewTesseract_Defaults(t *testing.T) {
	eng := NewTesseract("", "", 0)
	assert.Equal(t, "tesseract", eng.Path)
	assert.Equal(t, "eng", eng.Language)
	assert.Equal(t, time.Minute, eng.Timeout)
}
