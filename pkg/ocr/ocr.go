// Package ocr extracts a candidate medicine name from a label photo.
//
// The recognition engine is a black box behind Engine. Adapter applies the
// line-selection heuristic and never fails: engine errors come back as a
// descriptive string, which the resolver treats like any other input.
package ocr

import (
	"context"
	"regexp"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"
)

// NoCandidate is returned when no line of the recognized text qualifies.
const NoCandidate = "No medicine name found"

// ErrorPrefix starts the string returned when recognition fails.
const ErrorPrefix = "OCR Error: "

var lettersPattern = regexp.MustCompile(`[A-Za-z]{3,}`)

// Engine turns image bytes into raw recognized text.
type Engine interface {
	ExtractText(ctx context.Context, image []byte) (string, error)
}

// EngineFunc adapts a function to Engine.
type EngineFunc func(ctx context.Context, image []byte) (string, error)

func (f EngineFunc) ExtractText(ctx context.Context, image []byte) (string, error) {
	return f(ctx, image)
}

// Adapter picks the most plausible medicine line out of an engine's output.
type Adapter struct {
	engine Engine
}

// NewAdapter wraps engine.
func NewAdapter(engine Engine) *Adapter {
	return &Adapter{engine: engine}
}

// ExtractCandidateText runs the engine on image and returns the longest
// trimmed line holding at least three consecutive ASCII letters, NoCandidate
// when none does, or ErrorPrefix followed by the cause when the engine fails.
func (a *Adapter) ExtractCandidateText(ctx context.Context, image []byte) string {
	text, err := a.engine.ExtractText(ctx, image)
	if err != nil {
		zap.L().Warn("ocr failed", zap.Error(err))
		return ErrorPrefix + err.Error()
	}
	return BestLine(text)
}

// BestLine applies the line heuristic to raw recognized text. The first of
// equally long lines wins.
func BestLine(text string) string {
	best := ""
	found := false
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if !lettersPattern.MatchString(line) {
			continue
		}
		if !found || utf8.RuneCountInString(line) > utf8.RuneCountInString(best) {
			best = line
			found = true
		}
	}
	if !found {
		return NoCandidate
	}
	return best
}
