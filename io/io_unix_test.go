//go:build linux || darwin || freebsd || netbsd || openbsd

package treeio

import (
	"os"
	"testing"
)

func TestIsTerminal_DevNullIsNotATerminal(t *testing.T) {
	f, err := os.OpenFile(os.DevNull, os.O_WRONLY, 0)
	if err != nil {
		t.Skipf("cannot open %s: %v", os.DevNull, err)
	}
	defer f.Close()

	if isTerminal(f) {
		t.Error("Expected /dev/null not to be a terminal")
	}
	if New().WithOut(f).IsTTY() {
		t.Error("Expected IsTTY to be false for /dev/null")
	}
}

func TestIsTerminal_PipeIsNotATerminal(t *testing.T) {
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()
	defer w.Close()

	if isTerminal(w) {
		t.Error("Expected a pipe not to be a terminal")
	}
	if !New().WithIn(r).IsPiped() {
		t.Error("Expected IsPiped to be true for a pipe")
	}
	if isTerminal(nil) {
		t.Error("Expected nil file not to be a terminal")
	}
}
