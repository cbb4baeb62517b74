//go:build windows

package group

import (
	"fmt"
	"strings"
	"syscall"
	"unsafe"

	"github.com/iamacarpet/mirrormount/internal"
	"github.com/iamacarpet/mirrormount/internal/libraries/netapi32"

	so "github.com/iamacarpet/mirrormount/shared"
)

// GetMembers returns information about the members of the specified
// local group.
//
// If an error occurs in the call to the underlying NetLocalGroupGetMembers function, the
// returned error will be a syscall.Errno containing the error code.
// See: https://docs.microsoft.com/en-us/windows/desktop/api/lmaccess/nf-lmaccess-netlocalgroupgetmembers
func GetMembers(groupname string) ([]so.LocalGroupMember, error) {
	var (
		dataPointer  uintptr
		resumeHandle uintptr
		entriesRead  uint32
		entriesTotal uint32
		sizeTest     netapi32.LOCALGROUP_MEMBERS_INFO_3
		retVal       = make([]so.LocalGroupMember, 0)
	)

	groupnamePtr, err := syscall.UTF16PtrFromString(groupname)
	if err != nil {
		return nil, fmt.Errorf("unable to encode group name to UTF16: %w", err)
	}

	ret, _, _ := netapi32.NetLocalGroupGetMembers.Call(
		uintptr(0),                            // servername
		uintptr(unsafe.Pointer(groupnamePtr)), // group name
		uintptr(3),                            // level, LOCALGROUP_MEMBERS_INFO_3
		uintptr(unsafe.Pointer(&dataPointer)), // bufptr
		uintptr(uint32(netapi32.USER_MAX_PREFERRED_LENGTH)), // prefmaxlen
		uintptr(unsafe.Pointer(&entriesRead)),               // entriesread
		uintptr(unsafe.Pointer(&entriesTotal)),              // totalentries
		uintptr(unsafe.Pointer(&resumeHandle)),              // resumehandle
	)
	if ret != netapi32.NERR_Success {
		return nil, syscall.Errno(ret)
	} else if dataPointer == uintptr(0) {
		return retVal, nil
	}
	defer netapi32.NetApiBufferFree.Call(dataPointer)

	var iter = dataPointer
	for i := uint32(0); i < entriesRead; i++ {
		var data = (*netapi32.LOCALGROUP_MEMBERS_INFO_3)(unsafe.Pointer(iter))

		domainAndName := internal.UTF16toString(data.Lgrmi3_domainandname)
		domain, name := internal.SplitDomainAndName(domainAndName)
		retVal = append(retVal, so.LocalGroupMember{
			Domain:        domain,
			Name:          name,
			DomainAndName: domainAndName,
		})

		iter = uintptr(unsafe.Pointer(iter + unsafe.Sizeof(sizeTest)))
	}

	return retVal, nil
}

// IsMember reports whether username is a direct member of the local group.
func IsMember(groupname, username string) (bool, error) {
	qualified, err := internal.ResolveUsername(username)
	if err != nil {
		return false, err
	}
	members, err := GetMembers(groupname)
	if err != nil {
		return false, err
	}
	for _, m := range members {
		if strings.EqualFold(m.DomainAndName, qualified) {
			return true, nil
		}
	}
	return false, nil
}

// AddMember adds the user as a member of the specified group. Adding an
// existing member is not an error.
func AddMember(groupname, username string) (bool, error) {
	username, err := internal.ResolveUsername(username)
	if err != nil {
		return false, err
	}
	uPointer, err := syscall.UTF16PtrFromString(username)
	if err != nil {
		return false, fmt.Errorf("unable to encode username to UTF16: %w", err)
	}
	gPointer, err := syscall.UTF16PtrFromString(groupname)
	if err != nil {
		return false, fmt.Errorf("unable to encode group name to UTF16: %w", err)
	}
	var uArray = make([]netapi32.LOCALGROUP_MEMBERS_INFO_3, 1)
	uArray[0] = netapi32.LOCALGROUP_MEMBERS_INFO_3{
		Lgrmi3_domainandname: uPointer,
	}
	ret, _, _ := netapi32.NetLocalGroupAddMembers.Call(
		uintptr(0),                          // servername
		uintptr(unsafe.Pointer(gPointer)),   // group name
		uintptr(uint32(3)),                  // level
		uintptr(unsafe.Pointer(&uArray[0])), // user array.
		uintptr(uint32(len(uArray))),
	)
	switch syscall.Errno(ret) {
	case netapi32.NERR_Success:
		return true, nil
	case netapi32.ERROR_MEMBER_IN_ALIAS:
		return false, nil
	case netapi32.NERR_GroupNotFound:
		return false, fmt.Errorf("group %s: %w", groupname, syscall.Errno(ret))
	}
	return false, syscall.Errno(ret)
}
