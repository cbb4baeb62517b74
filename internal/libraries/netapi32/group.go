//go:build windows

package netapi32

import "syscall"

var (
	NetLocalGroupGetMembers = modNetapi32.NewProc("NetLocalGroupGetMembers")
	NetLocalGroupAddMembers = modNetapi32.NewProc("NetLocalGroupAddMembers")
)

// Possible errors returned by local group management functions
// Error code enumerations taken from MS-ERREF documentation:
// https://msdn.microsoft.com/en-us/library/cc231196.aspx
const (
	NERR_GroupNotFound syscall.Errno = 2220 // 0x000008AC

	ERROR_MEMBER_IN_ALIAS syscall.Errno = 1378 // 0x00000562
)
