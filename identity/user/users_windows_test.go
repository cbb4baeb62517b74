//go:build windows

package user

// These tests query the local account database and need an elevated shell.

import (
	"testing"

	"github.com/iamacarpet/mirrormount/internal/elevation"
)

func requireElevated(t *testing.T) {
	t.Helper()
	if ok, err := elevation.IsElevated(); err != nil || !ok {
		t.Skip("not running in an elevated shell")
	}
}

func TestExistsUnknownAccount(t *testing.T) {
	requireElevated(t)

	ok, err := Exists("mm-no-such-user")
	if err != nil {
		t.Fatalf("Exists: %v", err)
	}
	if ok {
		t.Error("unknown account reported as existing")
	}
}

func TestLookupSIDLocalSystem(t *testing.T) {
	requireElevated(t)

	sid, err := LookupSID("SYSTEM")
	if err != nil {
		t.Fatalf("LookupSID: %v", err)
	}
	if sid != "S-1-5-18" {
		t.Errorf("LookupSID(SYSTEM) = %s, want S-1-5-18", sid)
	}
}

func TestLookupSIDUnknownAccount(t *testing.T) {
	requireElevated(t)

	if _, err := LookupSID("mm-no-such-user"); err == nil {
		t.Error("expected an error for an unknown account")
	}
}

func TestIsAdminUnknownAccount(t *testing.T) {
	requireElevated(t)

	ok, err := IsAdmin("mm-no-such-user")
	if err != nil {
		t.Fatalf("IsAdmin: %v", err)
	}
	if ok {
		t.Error("unknown account reported as administrator")
	}
}
