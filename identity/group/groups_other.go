//go:build !windows

package group

import so "github.com/iamacarpet/mirrormount/shared"

func GetMembers(groupname string) ([]so.LocalGroupMember, error) {
	return nil, so.ErrUnsupported
}

func IsMember(groupname, username string) (bool, error) {
	return false, so.ErrUnsupported
}

func AddMember(groupname, username string) (bool, error) {
	return false, so.ErrUnsupported
}
