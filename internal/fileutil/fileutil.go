// Package fileutil provides file and input-source utility functions for
// the CLI.
package fileutil

import (
	"errors"
	"fmt"
	"io"
	"os"
)

// MaxSourceSize limits Markdown input to prevent memory exhaustion (16MB).
var MaxSourceSize int64 = 16 << 20

// ErrSourceTooLarge indicates the input exceeded MaxSourceSize.
var ErrSourceTooLarge = errors.New("input exceeds maximum size")

// ReadSource reads Markdown from a file path, or from stdin when the path
// is "-".
func ReadSource(path string) (string, error) {
	if path == "-" {
		return readAll(os.Stdin)
	}
	f, err := os.Open(path) // #nosec G304 -- user-provided path
	if err != nil {
		return "", fmt.Errorf("opening input: %w", err)
	}
	defer func() { _ = f.Close() }()
	return readAll(f)
}

func readAll(r io.Reader) (string, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxSourceSize+1))
	if err != nil {
		return "", fmt.Errorf("reading input: %w", err)
	}
	if int64(len(data)) > MaxSourceSize {
		return "", fmt.Errorf("%w: max %d bytes", ErrSourceTooLarge, MaxSourceSize)
	}
	return string(data), nil
}

// WriteOutput writes content to a file path, or to stdout when the path is
// empty or "-".
func WriteOutput(path, content string) error {
	if path == "" || path == "-" {
		_, err := io.WriteString(os.Stdout, content)
		return err
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil { // #nosec G306 -- rendered output is not sensitive
		return fmt.Errorf("writing output: %w", err)
	}
	return nil
}

// FileExists returns true if the path exists and is a regular file.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}
