//go:build linux || darwin || freebsd || netbsd || openbsd

package treeio

import (
	"os"
	"syscall"
	"unsafe"
)

// termSize mirrors struct winsize from <sys/ioctl.h>.
type termSize struct{ rows, cols, xpixel, ypixel uint16 }

// isTerminal asks the kernel for the window size of f. Only a terminal
// answers; /dev/null and other character devices fail with ENOTTY.
func isTerminal(f *os.File) bool {
	if f == nil {
		return false
	}
	_, ok := windowSize(f.Fd())
	return ok
}

func windowSize(fd uintptr) (termSize, bool) {
	var ws termSize
	_, _, errno := syscall.Syscall(syscall.SYS_IOCTL, fd, uintptr(syscall.TIOCGWINSZ), uintptr(unsafe.Pointer(&ws)))
	return ws, errno == 0
}
