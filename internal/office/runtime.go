// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package office locates a LibreOffice installation and drives it in
// headless mode.
package office

import (
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

// waitDelay bounds how long a cancelled conversion may keep its output
// pipes open after the process group has been killed.
var waitDelay = 5 * time.Second

// candidates lists binaries tried in order when no explicit path is
// configured. Bare names are resolved on PATH.
var candidates = []string{
	"soffice",
	"libreoffice",
	"/usr/bin/soffice",
	"/usr/lib/libreoffice/program/soffice",
	"/opt/libreoffice/program/soffice",
	"/opt/homebrew/bin/soffice",
	"/Applications/LibreOffice.app/Contents/MacOS/soffice",
}

// Runtime runs document conversions with a resolved soffice binary.
type Runtime interface {
	// Name returns the resolved binary path.
	Name() string

	// Available reports whether the binary exists and answers --version.
	Available(ctx context.Context) bool

	// ConvertTo converts inputPath to the given format, writing the result
	// into outDir. Each call uses a private user profile under outDir so
	// concurrent invocations do not contend for the profile lock.
	ConvertTo(ctx context.Context, inputPath, outDir, format string) error
}

// executor abstracts command execution for testing.
type executor interface {
	LookPath(file string) (string, error)
	RunSilent(ctx context.Context, name string, args ...string) error
	RunCombined(ctx context.Context, name string, args ...string) ([]byte, error)
}

// osExecutor is the production executor backed by os/exec.
type osExecutor struct{}

func (o *osExecutor) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

func (o *osExecutor) RunSilent(ctx context.Context, name string, args ...string) error {
	return exec.CommandContext(ctx, name, args...).Run()
}

// RunCombined runs name in its own process group. The soffice launcher
// forks soffice.bin, so cancellation must signal the group rather than the
// direct child or the pipes stay open until the grandchild exits.
func (o *osExecutor) RunCombined(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	killProcessGroupOnCancel(cmd)
	cmd.WaitDelay = waitDelay
	return cmd.CombinedOutput()
}

type runtime struct {
	bin  string
	exec executor
}

func (r *runtime) Name() string { return r.bin }

func (r *runtime) Available(ctx context.Context) bool {
	if _, err := r.exec.LookPath(r.bin); err != nil {
		return false
	}
	return r.exec.RunSilent(ctx, r.bin, "--version") == nil
}

func (r *runtime) ConvertTo(ctx context.Context, inputPath, outDir, format string) error {
	absOut, err := filepath.Abs(outDir)
	if err != nil {
		return fmt.Errorf("resolving output directory %s: %w", outDir, err)
	}
	absIn, err := filepath.Abs(inputPath)
	if err != nil {
		return fmt.Errorf("resolving input %s: %w", inputPath, err)
	}

	args := ConvertArgs(absIn, absOut, format)
	out, err := r.exec.RunCombined(ctx, r.bin, args...)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return fmt.Errorf("running %s: %w", r.bin, ctxErr)
		}
		return fmt.Errorf("running %s: %w: %s", r.bin, err, strings.TrimSpace(string(out)))
	}
	return nil
}

// ConvertArgs builds the soffice command line for a headless conversion.
// Paths must be absolute.
func ConvertArgs(inputPath, outDir, format string) []string {
	profile := filepath.ToSlash(filepath.Join(outDir, "profile"))
	if !strings.HasPrefix(profile, "/") {
		profile = "/" + profile
	}
	return []string{
		"-env:UserInstallation=file://" + profile,
		"--headless",
		"--norestore",
		"--nolockcheck",
		"--convert-to", format,
		"--outdir", outDir,
		inputPath,
	}
}

var defaultExec = &osExecutor{}

// DetectRuntime returns a runtime for path when it is set, or for the first
// working candidate otherwise.
func DetectRuntime(ctx context.Context, path string) (Runtime, error) {
	return detectRuntime(ctx, defaultExec, path)
}

func detectRuntime(ctx context.Context, exec executor, path string) (Runtime, error) {
	if path != "" {
		rt := &runtime{bin: path, exec: exec}
		if !rt.Available(ctx) {
			return nil, fmt.Errorf("configured soffice %s is not operational", path)
		}
		return rt, nil
	}

	for _, c := range candidates {
		rt := &runtime{bin: c, exec: exec}
		if rt.Available(ctx) {
			return rt, nil
		}
	}

	return nil, fmt.Errorf(
		"no LibreOffice installation found: tried %s",
		strings.Join(candidates, ", "),
	)
}
