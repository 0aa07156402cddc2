// Package must contains simple functions that panic on errors.
//
// It should only be used in tests and rare places where errors are provably
// impossible, such as parsing a grammar embedded in the binary.
package must

import (
	"os"
	"path/filepath"
)

// OK panics if the error value is not nil.
func OK(err error) {
	if err != nil {
		panic(err)
	}
}

// OK1 panics if the error value is not nil, and returns the value otherwise.
func OK1[T any](v T, err error) T {
	OK(err)
	return v
}

// Pipe wraps os.Pipe.
func Pipe() (*os.File, *os.File) {
	r, w, err := os.Pipe()
	OK(err)
	return r, w
}

// ReadFileString wraps os.ReadFile, converting the content to a string.
func ReadFileString(name string) string {
	return string(OK1(os.ReadFile(name)))
}

// WriteFile writes data to a file, after creating all ancestor directories that
// don't exist.
func WriteFile(name, data string) {
	OK(os.MkdirAll(filepath.Dir(name), 0o700))
	OK(os.WriteFile(name, []byte(data), 0o600))
}
