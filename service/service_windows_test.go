//go:build windows

package service

// These tests talk to the Service Control Manager and need an elevated shell.

import (
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/iamacarpet/mirrormount/internal/elevation"

	so "github.com/iamacarpet/mirrormount/shared"
)

func requireElevated(t *testing.T) {
	t.Helper()
	if ok, err := elevation.IsElevated(); err != nil || !ok {
		t.Skip("not running in an elevated shell")
	}
}

func TestManagerExists(t *testing.T) {
	requireElevated(t)
	m := NewManager(zerolog.Nop())

	ok, err := m.Exists("EventLog")
	if err != nil {
		t.Fatalf("Exists(EventLog): %v", err)
	}
	if !ok {
		t.Error("EventLog service not found")
	}

	ok, err = m.Exists("mm-no-such-service")
	if err != nil {
		t.Fatalf("Exists(missing): %v", err)
	}
	if ok {
		t.Error("missing service reported as existing")
	}
}

func TestManagerStateAndIdentity(t *testing.T) {
	requireElevated(t)
	m := NewManager(zerolog.Nop())

	state, err := m.State("EventLog")
	if err != nil {
		t.Fatalf("State: %v", err)
	}
	if state != StateRunning {
		t.Errorf("EventLog state = %s, want %s", state, StateRunning)
	}
	if _, err := m.Identity("EventLog"); err != nil {
		t.Errorf("Identity: %v", err)
	}
}

func TestManagerMissingService(t *testing.T) {
	requireElevated(t)
	m := NewManager(zerolog.Nop())

	if _, err := m.State("mm-no-such-service"); !errors.Is(err, so.ErrServiceNotFound) {
		t.Errorf("State err = %v, want ErrServiceNotFound", err)
	}
	if err := m.Start("mm-no-such-service"); !errors.Is(err, so.ErrServiceNotFound) {
		t.Errorf("Start err = %v, want ErrServiceNotFound", err)
	}
}
