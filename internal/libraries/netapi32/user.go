//go:build windows

package netapi32

var (
	NetUserAdd     = modNetapi32.NewProc("NetUserAdd")
	NetUserGetInfo = modNetapi32.NewProc("NetUserGetInfo")
)

const (
	NERR_Success          = 0
	NERR_BadPassword      = 2203
	NERR_UserNotFound     = 2221
	NERR_UserExists       = 2224
	NERR_PasswordTooShort = 2245

	USER_PRIV_USER = 1

	USER_MAX_PREFERRED_LENGTH = 0xFFFFFFFF

	USER_UF_SCRIPT             = 1
	USER_UF_NORMAL_ACCOUNT     = 512
	USER_UF_DONT_EXPIRE_PASSWD = 65536
)

// USER_INFO_1 matches the _USER_INFO_1 struct in lmaccess.h.
type USER_INFO_1 struct {
	Usri1_name         *uint16
	Usri1_password     *uint16
	Usri1_password_age uint32
	Usri1_priv         uint32
	Usri1_home_dir     *uint16
	Usri1_comment      *uint16
	Usri1_flags        uint32
	Usri1_script_path  *uint16
}

type LOCALGROUP_MEMBERS_INFO_3 struct {
	Lgrmi3_domainandname *uint16
}
