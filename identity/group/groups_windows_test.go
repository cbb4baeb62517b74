//go:build windows

package group

// These tests read local group membership and need an elevated shell.

import (
	"errors"
	"syscall"
	"testing"

	"github.com/iamacarpet/mirrormount/internal/elevation"
)

func requireElevated(t *testing.T) {
	t.Helper()
	if ok, err := elevation.IsElevated(); err != nil || !ok {
		t.Skip("not running in an elevated shell")
	}
}

func TestGetMembersAdministrators(t *testing.T) {
	requireElevated(t)

	members, err := GetMembers(Administrators)
	if err != nil {
		t.Fatalf("GetMembers: %v", err)
	}
	if len(members) == 0 {
		t.Fatal("Administrators has no members")
	}
	for _, m := range members {
		if m.Name == "" {
			t.Errorf("member without a name: %+v", m)
		}
	}
}

func TestGetMembersUnknownGroup(t *testing.T) {
	requireElevated(t)

	_, err := GetMembers("mm-no-such-group")
	var errno syscall.Errno
	if !errors.As(err, &errno) {
		t.Fatalf("err = %v, want a syscall.Errno", err)
	}
}

func TestIsMemberUnknownAccount(t *testing.T) {
	requireElevated(t)

	ok, err := IsMember(Administrators, "mm-no-such-user")
	if err != nil {
		t.Fatalf("IsMember: %v", err)
	}
	if ok {
		t.Error("unknown account reported as member")
	}
}
