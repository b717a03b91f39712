package system

import (
	"fmt"
	"os"
)

// SuppressStdout runs fn with standard output sent to the null device.
// Both os.Stdout and, where supported, file descriptor 1 are redirected so
// native libraries writing to the descriptor are silenced as well.
// The previous stream is restored when fn returns or panics.
func SuppressStdout(fn func() error) error {
	devnull, err := os.OpenFile(os.DevNull, os.O_WRONLY, 0)
	if err != nil {
		return fmt.Errorf("open %s: %w", os.DevNull, err)
	}
	defer devnull.Close()

	saved := os.Stdout
	restoreFD := redirectFD(devnull)
	os.Stdout = devnull

	defer func() {
		os.Stdout = saved
		restoreFD()
	}()

	return fn()
}
