//go:build !(linux || darwin || freebsd || netbsd || openbsd)

package treeio

import "os"

func isTerminal(f *os.File) bool {
	if f == nil {
		return false
	}
	fi, err := f.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}
