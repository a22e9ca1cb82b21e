// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pdftext turns PDF bytes into plain text for email scanning.
//
// Two engines are available: pdftotext (through docconv, higher fidelity,
// present only when the pdftotext binary is on PATH) and a native Go
// reader (always present, lower fidelity). Detection runs once at startup;
// an Extractor with no engines reports itself unavailable and callers
// degrade to "no authors found".
package pdftext

import (
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/pdiddy/paperscout/pkg/types"
)

// ErrUnavailable is returned when no PDF engine is configured or present.
var ErrUnavailable = errors.New("no PDF text engine available")

// Engine converts PDF bytes into plain text.
type Engine interface {
	// Name identifies the engine in logs ("pdftotext" or "native").
	Name() string

	// Text extracts the plain text of the whole document.
	Text(data []byte) (string, error)
}

// Extractor tries its engines in order and returns the first non-empty text.
// A failing engine falls through to the next one for that document only.
type Extractor struct {
	engines []Engine
}

// NewExtractor returns an Extractor over the given engines, in priority order.
func NewExtractor(engines ...Engine) *Extractor {
	return &Extractor{engines: engines}
}

// Available reports whether at least one engine is present.
func (x *Extractor) Available() bool {
	return x != nil && len(x.engines) > 0
}

// Names lists the engines in priority order.
func (x *Extractor) Names() []string {
	if x == nil {
		return nil
	}
	names := make([]string, len(x.engines))
	for i, e := range x.engines {
		names[i] = e.Name()
	}
	return names
}

// Text extracts text from data. It returns ErrUnavailable when no engine is
// present, and the last engine error when every engine fails or yields
// nothing.
func (x *Extractor) Text(data []byte) (string, error) {
	if !x.Available() {
		return "", ErrUnavailable
	}
	var lastErr error
	for _, e := range x.engines {
		text, err := e.Text(data)
		if err != nil {
			lastErr = fmt.Errorf("%s: %w", e.Name(), err)
			continue
		}
		if strings.TrimSpace(text) != "" {
			return text, nil
		}
		lastErr = fmt.Errorf("%s: no readable text", e.Name())
	}
	return "", lastErr
}

// lookPathFunc abstracts exec.LookPath for testing.
type lookPathFunc func(file string) (string, error)

// Detect builds the Extractor for choice. "auto" prefers pdftotext when the
// binary is present and always adds the native engine as fallback.
func Detect(choice types.PDFEngineChoice) (*Extractor, error) {
	return detect(choice, exec.LookPath)
}

func detect(choice types.PDFEngineChoice, lookPath lookPathFunc) (*Extractor, error) {
	hasPdftotext := func() bool {
		_, err := lookPath(binPdftotext)
		return err == nil
	}

	switch choice {
	case types.PDFEngineNone:
		return NewExtractor(), nil
	case types.PDFEngineNative:
		return NewExtractor(NativeEngine{}), nil
	case types.PDFEnginePdftotext:
		if !hasPdftotext() {
			return NewExtractor(), nil
		}
		return NewExtractor(PdftotextEngine{}), nil
	case types.PDFEngineAuto, "":
		if hasPdftotext() {
			return NewExtractor(PdftotextEngine{}, NativeEngine{}), nil
		}
		return NewExtractor(NativeEngine{}), nil
	default:
		return nil, fmt.Errorf("unknown PDF engine %q (want auto, pdftotext, native, or none)", choice)
	}
}
