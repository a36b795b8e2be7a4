// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/pdiddy/doc2pdf/internal/convert"
	"github.com/pdiddy/doc2pdf/internal/logging"
	"github.com/pdiddy/doc2pdf/internal/workspace"
)

var convertCmd = &cobra.Command{
	Use:   "convert <file>",
	Short: "Convert a local document to PDF",
	Long: `Convert renders a single local document to PDF using the configured
backend, without starting the HTTP service. The file extension selects the
input filter, exactly as fileType does for POST /convert.`,
	Args: cobra.ExactArgs(1),
	RunE: runConvert,
}

func init() {
	convertCmd.Flags().StringP("output", "o", "", "output path (default: input path with a .pdf extension)")

	rootCmd.AddCommand(convertCmd)
}

func runConvert(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(viper.GetViper())
	if err != nil {
		return err
	}
	cfg.Logging.DisableFile = true

	log, closer, err := logging.New(cfg.Logging, os.Stderr)
	if err != nil {
		return err
	}
	defer closer.Close()
	defer log.Sync() //nolint:errcheck

	input := args[0]
	output, _ := cmd.Flags().GetString("output")
	if output == "" {
		output = pdfPath(input)
	}
	if err := checkOutput(input, output); err != nil {
		return err
	}

	fileType := strings.TrimPrefix(filepath.Ext(input), ".")
	data, err := os.ReadFile(input)
	if err != nil {
		return fmt.Errorf("reading %s: %w", input, err)
	}

	conv, err := convert.New(cmd.Context(), cfg.Conversion)
	if err != nil {
		return err
	}

	ws, err := workspace.New(cfg.Conversion.WorkDir, fileType, data)
	if err != nil {
		return fmt.Errorf("staging %s: %w", input, err)
	}
	defer ws.Close()

	pdf, err := convert.ToPDF(cmd.Context(), conv, ws.InputPath())
	if err != nil {
		log.Error("An error occurred during conversion to PDF", zap.String("file", input), zap.Error(err))
		return err
	}

	if err := os.WriteFile(output, pdf, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", output, err)
	}

	fields := []zap.Field{zap.String("output", output), zap.Int("bytes", len(pdf))}
	if pages, err := convert.PageCount(pdf); err == nil {
		fields = append(fields, zap.Int("pages", pages))
	}
	log.Info("Successfully converted "+fileType+" to PDF.", fields...)
	return nil
}

// pdfPath replaces the extension of path with .pdf. A source that is
// already a PDF gets a .converted.pdf suffix so it is never overwritten.
func pdfPath(path string) string {
	ext := filepath.Ext(path)
	stem := strings.TrimSuffix(path, ext)
	if strings.EqualFold(ext, ".pdf") {
		return stem + ".converted.pdf"
	}
	return stem + ".pdf"
}

// checkOutput rejects an output path that names the input file.
func checkOutput(input, output string) error {
	in, err := filepath.Abs(input)
	if err != nil {
		return fmt.Errorf("resolving %s: %w", input, err)
	}
	out, err := filepath.Abs(output)
	if err != nil {
		return fmt.Errorf("resolving %s: %w", output, err)
	}
	if in == out {
		return fmt.Errorf("output %s would overwrite the input", output)
	}
	return nil
}
