//go:build unix

package system

import (
	"os"

	"golang.org/x/sys/unix"
)

const stdoutFD = 1

// redirectFD points descriptor 1 at f and returns the function undoing it.
// If the descriptor cannot be duplicated only os.Stdout is swapped.
func redirectFD(f *os.File) func() {
	saved, err := unix.Dup(stdoutFD)
	if err != nil {
		return func() {}
	}
	if err := unix.Dup2(int(f.Fd()), stdoutFD); err != nil {
		unix.Close(saved)
		return func() {}
	}

	return func() {
		unix.Dup2(saved, stdoutFD)
		unix.Close(saved)
	}
}
