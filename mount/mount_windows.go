//go:build windows

package mount

import (
	"golang.org/x/sys/windows"
)

// Mounted reports whether the drive letter is currently assigned.
func Mounted(letter string) (bool, error) {
	l, err := NormalizeLetter(letter)
	if err != nil {
		return false, err
	}
	mask, err := windows.GetLogicalDrives()
	if err != nil {
		return false, err
	}
	return mask&(1<<uint(l[0]-'A')) != 0, nil
}
