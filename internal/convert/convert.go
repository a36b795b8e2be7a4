// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package convert renders staged office documents to PDF through pluggable
// engines (a local soffice process or a remote Gotenberg instance).
package convert

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/pdiddy/doc2pdf/internal/office"
	"github.com/pdiddy/doc2pdf/internal/secrets"
	"github.com/pdiddy/doc2pdf/pkg/types"
)

// FormatPDF is the only target format the service produces.
const FormatPDF = "pdf"

var (
	// ErrConversionFailed wraps every engine-side failure. Callers map it to
	// a single generic error response.
	ErrConversionFailed = errors.New("conversion failed")

	// ErrEmptyOutput is returned when the engine exits cleanly but writes
	// nothing.
	ErrEmptyOutput = errors.New("engine produced no output")

	// ErrNotPDF is returned when the engine output lacks the PDF header.
	ErrNotPDF = errors.New("engine output is not a PDF")

	// ErrUnsupportedFormat is returned for target formats other than PDF.
	ErrUnsupportedFormat = errors.New("unsupported target format")
)

var pdfMagic = []byte("%PDF-")

// Converter transforms the document at inputPath into the target format and
// returns the rendered bytes. Implementations may write scratch files next
// to inputPath; the caller owns that directory and removes it afterwards.
type Converter interface {
	Convert(ctx context.Context, inputPath, format string) ([]byte, error)
}

// ToPDF runs c against inputPath and verifies the result looks like a PDF.
// Any failure is wrapped in ErrConversionFailed.
func ToPDF(ctx context.Context, c Converter, inputPath string) ([]byte, error) {
	out, err := c.Convert(ctx, inputPath, FormatPDF)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConversionFailed, err)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: %w", ErrConversionFailed, ErrEmptyOutput)
	}
	if err := CheckPDF(out); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConversionFailed, err)
	}
	return out, nil
}

// CheckPDF reports whether b starts with the PDF file header.
func CheckPDF(b []byte) error {
	if !bytes.HasPrefix(b, pdfMagic) {
		return ErrNotPDF
	}
	return nil
}

// New builds the converter selected by cfg, bounded by cfg.MaxConcurrent.
func New(ctx context.Context, cfg types.ConversionConfig) (Converter, error) {
	var c Converter
	switch cfg.Backend {
	case types.BackendSoffice, "":
		rt, err := office.DetectRuntime(ctx, cfg.SofficePath)
		if err != nil {
			return nil, err
		}
		c = NewSofficeConverter(rt)
	case types.BackendGotenberg:
		if cfg.GotenbergURL == "" {
			return nil, fmt.Errorf("gotenberg backend requires conversion.gotenberg_url")
		}
		s, err := secrets.Load(cfg.SecretsDir)
		if err != nil {
			return nil, err
		}
		c = NewGotenbergConverter(cfg.GotenbergURL, secrets.GotenbergCredentials(s))
	default:
		return nil, fmt.Errorf("unknown conversion backend %q", cfg.Backend)
	}
	return NewLimited(c, cfg.MaxConcurrent), nil
}
