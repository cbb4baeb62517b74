//go:build !windows

package elevation

import (
	so "github.com/iamacarpet/mirrormount/shared"
)

func IsElevated() (bool, error) {
	return false, so.ErrUnsupported
}
