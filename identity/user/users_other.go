//go:build !windows

package user

import (
	so "github.com/iamacarpet/mirrormount/shared"
)

type AddOptions struct {
	Username  string
	Password  string
	PrivLevel uint32
	Comment   string
}

func AddEx(opts AddOptions) (bool, error) {
	return false, so.ErrUnsupported
}

func Add(username, comment, password string) (bool, error) {
	return false, so.ErrUnsupported
}

func Exists(username string) (bool, error) {
	return false, so.ErrUnsupported
}

func GrantAdmin(username string) (bool, error) {
	return false, so.ErrUnsupported
}

func IsAdmin(username string) (bool, error) {
	return false, so.ErrUnsupported
}

func LookupSID(username string) (string, error) {
	return "", so.ErrUnsupported
}
