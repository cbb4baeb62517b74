//go:build windows

package user

import (
	"fmt"
	"syscall"
	"unsafe"

	"github.com/iamacarpet/mirrormount/identity/group"

	"github.com/iamacarpet/mirrormount/internal"
	"github.com/iamacarpet/mirrormount/internal/libraries/advapi32"
	"github.com/iamacarpet/mirrormount/internal/libraries/kernel32"
	"github.com/iamacarpet/mirrormount/internal/libraries/netapi32"

	so "github.com/iamacarpet/mirrormount/shared"
)

// AddOptions contains extended options for creating a new user account.
//
// The only required fields are Username and Password.
//
// Fields:
//   - Username		account username, limited to 20 characters.
//   - Password		account password
//   - PrivLevel	account's privilege level, zero is a guest account
//   - Comment		A comment to associate with the account (default: none)
type AddOptions struct {
	// Required
	Username string
	Password string

	// Optional
	PrivLevel uint32
	Comment   string
}

// AddEx creates a new user account and adds it to the local Users group.
// The password of the new account does not expire.
func AddEx(opts AddOptions) (bool, error) {
	var parmErr uint32
	var err error
	uInfo := netapi32.USER_INFO_1{
		Usri1_priv:  opts.PrivLevel,
		Usri1_flags: netapi32.USER_UF_SCRIPT | netapi32.USER_UF_NORMAL_ACCOUNT | netapi32.USER_UF_DONT_EXPIRE_PASSWD,
	}
	uInfo.Usri1_name, err = syscall.UTF16PtrFromString(opts.Username)
	if err != nil {
		return false, fmt.Errorf("unable to encode username to UTF16: %w", err)
	}
	uInfo.Usri1_password, err = syscall.UTF16PtrFromString(opts.Password)
	if err != nil {
		return false, fmt.Errorf("unable to encode password to UTF16: %w", err)
	}
	if opts.Comment != "" {
		uInfo.Usri1_comment, err = syscall.UTF16PtrFromString(opts.Comment)
		if err != nil {
			return false, fmt.Errorf("unable to encode comment to UTF16: %w", err)
		}
	}
	ret, _, _ := netapi32.NetUserAdd.Call(
		uintptr(0),
		uintptr(uint32(1)),
		uintptr(unsafe.Pointer(&uInfo)),
		uintptr(unsafe.Pointer(&parmErr)),
	)
	if ret != netapi32.NERR_Success {
		return false, errnoErr(syscall.Errno(ret), parmErr)
	}

	return group.AddMember(group.Users, opts.Username)
}

// Add creates a new user account with the given username, comment and
// password. The new account has the standard User privilege level.
func Add(username, comment, password string) (bool, error) {
	return AddEx(AddOptions{
		Username:  username,
		Password:  password,
		Comment:   comment,
		PrivLevel: netapi32.USER_PRIV_USER,
	})
}

// Exists reports whether a local account with the given username exists.
func Exists(username string) (bool, error) {
	var dataPointer uintptr
	uPointer, err := syscall.UTF16PtrFromString(username)
	if err != nil {
		return false, fmt.Errorf("unable to encode username to UTF16: %w", err)
	}
	ret, _, _ := netapi32.NetUserGetInfo.Call(
		uintptr(0),                            // servername
		uintptr(unsafe.Pointer(uPointer)),     // username
		uintptr(uint32(1)),                    // level, request USER_INFO_1
		uintptr(unsafe.Pointer(&dataPointer)), // Pointer to struct.
	)
	if dataPointer != uintptr(0) {
		defer netapi32.NetApiBufferFree.Call(dataPointer)
	}

	switch ret {
	case netapi32.NERR_Success:
		return true, nil
	case netapi32.NERR_UserNotFound:
		return false, nil
	}
	return false, errnoErr(syscall.Errno(ret), 0)
}

// GrantAdmin adds the user to the "Administrators" group.
func GrantAdmin(username string) (bool, error) {
	return group.AddMember(group.Administrators, username)
}

// IsAdmin reports whether the user is a direct member of "Administrators".
func IsAdmin(username string) (bool, error) {
	return group.IsMember(group.Administrators, username)
}

// LookupSID returns the string form (S-1-5-...) of the account's security
// identifier.
//
// See: https://docs.microsoft.com/en-us/windows/win32/api/winbase/nf-winbase-lookupaccountnamew
func LookupSID(username string) (string, error) {
	var (
		sidSize    uint32
		domainSize uint32
		sidUse     uint32
	)
	uPointer, err := syscall.UTF16PtrFromString(username)
	if err != nil {
		return "", fmt.Errorf("unable to encode username to UTF16: %w", err)
	}

	// The first call fails and reports the required buffer sizes.
	_, _, err = advapi32.LookupAccountNameW.Call(
		uintptr(0),                           // lpSystemName
		uintptr(unsafe.Pointer(uPointer)),    // lpAccountName
		uintptr(0),                           // Sid
		uintptr(unsafe.Pointer(&sidSize)),    // cbSid
		uintptr(0),                           // ReferencedDomainName
		uintptr(unsafe.Pointer(&domainSize)), // cchReferencedDomainName
		uintptr(unsafe.Pointer(&sidUse)),     // peUse
	)
	if sidSize == 0 {
		if errno, ok := err.(syscall.Errno); ok && errno == advapi32.ERROR_NONE_MAPPED {
			return "", fmt.Errorf("account %s: %w", username, errno)
		}
		return "", fmt.Errorf("lookup account %s: %w", username, err)
	}

	sid := make([]byte, sidSize)
	domain := make([]uint16, domainSize+1)
	r1, _, err := advapi32.LookupAccountNameW.Call(
		uintptr(0),
		uintptr(unsafe.Pointer(uPointer)),
		uintptr(unsafe.Pointer(&sid[0])),
		uintptr(unsafe.Pointer(&sidSize)),
		uintptr(unsafe.Pointer(&domain[0])),
		uintptr(unsafe.Pointer(&domainSize)),
		uintptr(unsafe.Pointer(&sidUse)),
	)
	if r1 == 0 {
		return "", fmt.Errorf("lookup account %s: %w", username, err)
	}

	var strPointer *uint16
	r1, _, err = advapi32.ConvertSidToStringSidW.Call(
		uintptr(unsafe.Pointer(&sid[0])),
		uintptr(unsafe.Pointer(&strPointer)),
	)
	if r1 == 0 {
		return "", fmt.Errorf("convert SID of %s: %w", username, err)
	}
	defer kernel32.LocalFree.Call(uintptr(unsafe.Pointer(strPointer)))

	return internal.UTF16toString(strPointer), nil
}

// errnoErr converts NetUserAdd/NetUserGetInfo status codes into usable errors.
func errnoErr(e syscall.Errno, parmErr uint32) error {
	switch e {
	case netapi32.ERROR_ACCESS_DENIED:
		return so.ErrAccessDenied
	case netapi32.ERROR_INVALID_PARAMETER:
		return fmt.Errorf("%w (parameter index %d)", so.ErrInvalidParameter, parmErr)
	case netapi32.NERR_UserExists:
		return so.ErrExists
	case netapi32.NERR_PasswordTooShort, netapi32.NERR_BadPassword:
		return fmt.Errorf("the password does not meet the password policy requirements: %w", e)
	}
	return e
}
