//go:build !windows

package mount

import (
	"errors"
	"io/fs"
	"os"
)

// Mounted reports whether the drive root exists.
func Mounted(letter string) (bool, error) {
	l, err := NormalizeLetter(letter)
	if err != nil {
		return false, err
	}
	_, err = os.Stat(Root(l))
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return err == nil, err
}
