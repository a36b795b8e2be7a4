// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

//go:build !unix

package office

import "os/exec"

// killProcessGroupOnCancel keeps the default cancel behaviour; WaitDelay
// still bounds the wait for inherited pipes.
func killProcessGroupOnCancel(*exec.Cmd) {}
