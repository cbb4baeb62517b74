// Package mount checks network paths and drive letters.
package mount

import (
	"context"
	"fmt"
	"os"
	"strings"
)

// NormalizeLetter accepts "m", "M:" or "M:\" and returns "M".
func NormalizeLetter(s string) (string, error) {
	l := strings.TrimSpace(s)
	l = strings.TrimSuffix(l, `\`)
	l = strings.TrimSuffix(l, ":")
	if len(l) != 1 {
		return "", fmt.Errorf("invalid drive letter %q", s)
	}
	c := strings.ToUpper(l)[0]
	if c < 'A' || c > 'Z' {
		return "", fmt.Errorf("invalid drive letter %q", s)
	}
	return string(c), nil
}

// Root returns the root directory of a drive letter, e.g. M:\.
func Root(letter string) string {
	return strings.ToUpper(letter) + `:\`
}

// Reachable stats path, giving up when ctx is done.
func Reachable(ctx context.Context, path string) error {
	done := make(chan error, 1)
	go func() {
		_, err := os.Stat(path)
		done <- err
	}()
	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("%s is not reachable: %w", path, err)
		}
		return nil
	case <-ctx.Done():
		return fmt.Errorf("%s is not reachable: %w", path, ctx.Err())
	}
}
