// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pdftext

import (
	"fmt"
	"os"

	"code.sajari.com/docconv/v2"
)

const binPdftotext = "pdftotext"

// PdftotextEngine converts PDFs with docconv, which shells out to the
// pdftotext binary.
type PdftotextEngine struct{}

func (PdftotextEngine) Name() string { return binPdftotext }

// Text writes data to a temporary file and converts it.
func (PdftotextEngine) Text(data []byte) (string, error) {
	tmp, err := os.CreateTemp("", "paperscout-*.pdf")
	if err != nil {
		return "", fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	_, writeErr := tmp.Write(data)
	closeErr := tmp.Close()
	if writeErr != nil {
		return "", fmt.Errorf("writing temp file: %w", writeErr)
	}
	if closeErr != nil {
		return "", fmt.Errorf("closing temp file: %w", closeErr)
	}

	resp, err := docconv.ConvertPath(tmpPath)
	if err != nil {
		return "", fmt.Errorf("converting PDF: %w", err)
	}
	return resp.Body, nil
}
