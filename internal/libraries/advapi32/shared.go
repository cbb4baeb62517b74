//go:build windows

package advapi32

import "syscall"

var modAdvapi32 = syscall.NewLazyDLL("advapi32.dll")

const ERROR_NONE_MAPPED syscall.Errno = 1332
