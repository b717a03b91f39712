package system

import (
	"errors"
	"fmt"
	"io"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// captureStdout points os.Stdout at a pipe for the duration of fn
func captureStdout(t *testing.T, fn func()) string {
	t.Helper()

	r, w, err := os.Pipe()
	require.NoError(t, err)

	orig := os.Stdout
	os.Stdout = w
	defer func() { os.Stdout = orig }()

	fn()

	require.NoError(t, w.Close())
	out, err := io.ReadAll(r)
	require.NoError(t, err)
	return string(out)
}

func TestSuppressStdoutDiscardsOutput(t *testing.T) {
	out := captureStdout(t, func() {
		err := SuppressStdout(func() error {
			fmt.Println("loading weights...")
			fmt.Fprintln(os.Stdout, "image 1/1 640x480 2 persons")
			return nil
		})
		require.NoError(t, err)
		fmt.Print("result")
	})

	assert.Equal(t, "result", out)
}

func TestSuppressStdoutRestoresOnError(t *testing.T) {
	boom := errors.New("boom")

	out := captureStdout(t, func() {
		err := SuppressStdout(func() error {
			fmt.Println("noise")
			return boom
		})
		assert.ErrorIs(t, err, boom)
		fmt.Print("after error")
	})

	assert.Equal(t, "after error", out)
}

func TestSuppressStdoutRestoresOnPanic(t *testing.T) {
	out := captureStdout(t, func() {
		func() {
			defer func() {
				assert.Equal(t, "model crashed", recover())
			}()
			SuppressStdout(func() error {
				fmt.Println("noise")
				panic("model crashed")
			})
		}()
		fmt.Print("after panic")
	})

	assert.Equal(t, "after panic", out)
}

func TestSuppressStdoutReturnsCallbackResult(t *testing.T) {
	calls := 0
	err := SuppressStdout(func() error {
		calls++
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}
