// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdiddy/doc2pdf/internal/office"
)

// SofficeConverter converts documents by running LibreOffice headless. It
// depends on an office.Runtime injected at construction time.
type SofficeConverter struct {
	runtime office.Runtime
}

// NewSofficeConverter creates a converter that drives rt.
func NewSofficeConverter(rt office.Runtime) *SofficeConverter {
	return &SofficeConverter{runtime: rt}
}

// outDirName is the subdirectory, next to the input, that receives the
// rendition. It keeps the output path distinct from the input even when the
// source is already a PDF.
const outDirName = "out"

// Convert writes the rendition into a private directory next to inputPath
// and returns its bytes. soffice exits zero even when it cannot load the
// source, so a missing output file is treated as a failure.
func (s *SofficeConverter) Convert(ctx context.Context, inputPath, format string) ([]byte, error) {
	outDir := filepath.Join(filepath.Dir(inputPath), outDirName)
	if err := os.MkdirAll(outDir, 0o700); err != nil {
		return nil, fmt.Errorf("creating output directory %s: %w", outDir, err)
	}
	if err := s.runtime.ConvertTo(ctx, inputPath, outDir, format); err != nil {
		return nil, fmt.Errorf("converting %s with %s: %w", filepath.Base(inputPath), s.runtime.Name(), err)
	}

	outPath := OutputPath(inputPath, outDir, format)
	out, err := os.ReadFile(outPath)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s was not written", ErrEmptyOutput, filepath.Base(outPath))
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", outPath, err)
	}
	return out, nil
}

// OutputPath returns where soffice places the rendition of inputPath when
// run with --outdir outDir.
func OutputPath(inputPath, outDir, format string) string {
	base := strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath))
	return filepath.Join(outDir, base+"."+format)
}
