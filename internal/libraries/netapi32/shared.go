//go:build windows

package netapi32

import "syscall"

var (
	modNetapi32 = syscall.NewLazyDLL("netapi32.dll")

	NetApiBufferFree = modNetapi32.NewProc("NetApiBufferFree")
)

const (
	ERROR_ACCESS_DENIED     syscall.Errno = 5 // 0x00000005
	ERROR_INVALID_PARAMETER syscall.Errno = 87
)
