// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package office

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
)

// mockExecutor records calls and returns configured responses.
type mockExecutor struct {
	availableBins map[string]bool // binary -> whether LookPath succeeds
	runnableCmds  map[string]bool // "bin arg1 arg2" -> whether RunSilent succeeds
	combinedFunc  func(ctx context.Context, name string, args ...string) ([]byte, error)
	lastArgs      []string
}

func (m *mockExecutor) LookPath(file string) (string, error) {
	if m.availableBins[file] {
		return file, nil
	}
	return "", errors.New("not found: " + file)
}

func (m *mockExecutor) RunSilent(_ context.Context, name string, args ...string) error {
	key := name + " " + strings.Join(args, " ")
	if m.runnableCmds[key] {
		return nil
	}
	return errors.New("command failed: " + key)
}

func (m *mockExecutor) RunCombined(ctx context.Context, name string, args ...string) ([]byte, error) {
	m.lastArgs = args
	if m.combinedFunc != nil {
		return m.combinedFunc(ctx, name, args...)
	}
	return nil, nil
}

func TestDetectRuntime(t *testing.T) {
	tests := []struct {
		name     string
		exec     *mockExecutor
		path     string
		wantName string
		wantErr  string
	}{
		{
			name: "soffice on PATH",
			exec: &mockExecutor{
				availableBins: map[string]bool{"soffice": true},
				runnableCmds:  map[string]bool{"soffice --version": true},
			},
			wantName: "soffice",
		},
		{
			name: "libreoffice fallback when soffice missing",
			exec: &mockExecutor{
				availableBins: map[string]bool{"libreoffice": true},
				runnableCmds:  map[string]bool{"libreoffice --version": true},
			},
			wantName: "libreoffice",
		},
		{
			name: "soffice on PATH but broken, install location works",
			exec: &mockExecutor{
				availableBins: map[string]bool{"soffice": true, "/usr/lib/libreoffice/program/soffice": true},
				runnableCmds:  map[string]bool{"/usr/lib/libreoffice/program/soffice --version": true},
			},
			wantName: "/usr/lib/libreoffice/program/soffice",
		},
		{
			name: "configured path wins",
			exec: &mockExecutor{
				availableBins: map[string]bool{"soffice": true, "/custom/soffice": true},
				runnableCmds:  map[string]bool{"soffice --version": true, "/custom/soffice --version": true},
			},
			path:     "/custom/soffice",
			wantName: "/custom/soffice",
		},
		{
			name: "configured path not operational",
			exec: &mockExecutor{
				availableBins: map[string]bool{"soffice": true},
				runnableCmds:  map[string]bool{"soffice --version": true},
			},
			path:    "/custom/soffice",
			wantErr: "/custom/soffice",
		},
		{
			name:    "nothing installed",
			exec:    &mockExecutor{},
			wantErr: "no LibreOffice installation found",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rt, err := detectRuntime(context.Background(), tt.exec, tt.path)
			if tt.wantErr != "" {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				if !strings.Contains(err.Error(), tt.wantErr) {
					t.Errorf("error %q should mention %q", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if rt.Name() != tt.wantName {
				t.Errorf("got runtime %q, want %q", rt.Name(), tt.wantName)
			}
		})
	}
}

func TestConvertArgs(t *testing.T) {
	args := ConvertArgs("/work/abc/temp.docx", "/work/abc", "pdf")
	want := []string{
		"-env:UserInstallation=file:///work/abc/profile",
		"--headless",
		"--norestore",
		"--nolockcheck",
		"--convert-to", "pdf",
		"--outdir", "/work/abc",
		"/work/abc/temp.docx",
	}
	if strings.Join(args, " ") != strings.Join(want, " ") {
		t.Errorf("args = %v, want %v", args, want)
	}
}

func TestConvertTo(t *testing.T) {
	tests := []struct {
		name    string
		fn      func(context.Context, string, ...string) ([]byte, error)
		ctx     func() context.Context
		wantErr string
	}{
		{
			name: "success",
			fn: func(context.Context, string, ...string) ([]byte, error) {
				return []byte("convert /work/temp.docx -> /work/temp.pdf"), nil
			},
		},
		{
			name: "process failure includes output",
			fn: func(context.Context, string, ...string) ([]byte, error) {
				return []byte("Error: source file could not be loaded\n"), errors.New("exit status 1")
			},
			wantErr: "source file could not be loaded",
		},
		{
			name: "cancelled context reported",
			fn: func(context.Context, string, ...string) ([]byte, error) {
				return nil, errors.New("signal: killed")
			},
			ctx: func() context.Context {
				ctx, cancel := context.WithCancel(context.Background())
				cancel()
				return ctx
			},
			wantErr: context.Canceled.Error(),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exec := &mockExecutor{combinedFunc: tt.fn}
			rt := &runtime{bin: "soffice", exec: exec}
			ctx := context.Background()
			if tt.ctx != nil {
				ctx = tt.ctx()
			}
			dir := t.TempDir()
			err := rt.ConvertTo(ctx, filepath.Join(dir, "temp.docx"), dir, "pdf")
			if tt.wantErr != "" {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				if !strings.Contains(err.Error(), tt.wantErr) {
					t.Errorf("error %q should contain %q", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got := exec.lastArgs[len(exec.lastArgs)-1]; got != filepath.Join(dir, "temp.docx") {
				t.Errorf("input arg = %q", got)
			}
		})
	}
}
