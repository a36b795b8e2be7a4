// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package workspace stages request payloads on disk for the conversion
// engine. Every request gets a private directory named by a random UUID, so
// requests with the same file type never share a path.
package workspace

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"github.com/google/uuid"
)

// inputBase is the file name stem of the staged input.
const inputBase = "temp"

// ErrInvalidFileType is returned for file types that are not plain
// alphanumeric extensions.
var ErrInvalidFileType = errors.New("invalid file type")

// FileTypePattern matches the file types accepted for staging. It rules out
// path separators, dots and anything else that could escape the workspace.
var FileTypePattern = regexp.MustCompile(`^[A-Za-z0-9]{1,16}$`)

// Workspace is a per-request staging directory.
type Workspace struct {
	id    string
	dir   string
	input string
}

// New creates a fresh directory under root and writes data into it as
// temp.<fileType>. On error nothing is left behind.
func New(root, fileType string, data []byte) (*Workspace, error) {
	if !FileTypePattern.MatchString(fileType) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidFileType, fileType)
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("creating work root %s: %w", root, err)
	}

	id := uuid.NewString()
	dir := filepath.Join(root, id)
	if err := os.Mkdir(dir, 0o700); err != nil {
		return nil, fmt.Errorf("creating workspace %s: %w", dir, err)
	}

	w := &Workspace{
		id:    id,
		dir:   dir,
		input: filepath.Join(dir, inputBase+"."+fileType),
	}
	if err := os.WriteFile(w.input, data, 0o600); err != nil {
		w.Close()
		return nil, fmt.Errorf("staging %s: %w", filepath.Base(w.input), err)
	}
	return w, nil
}

// ID returns the UUID naming the workspace.
func (w *Workspace) ID() string { return w.id }

// Dir returns the workspace directory.
func (w *Workspace) Dir() string { return w.dir }

// InputPath returns the staged input file, temp.<fileType>.
func (w *Workspace) InputPath() string { return w.input }

// Close removes the workspace and everything the engine wrote into it. It
// is safe to call more than once.
func (w *Workspace) Close() error {
	if err := os.RemoveAll(w.dir); err != nil {
		return fmt.Errorf("removing workspace %s: %w", w.dir, err)
	}
	return nil
}
