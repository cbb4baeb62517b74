// Package service reconfigures and controls services through the local
// Service Control Manager.
package service

import (
	"strings"
)

// State is the current state of a service.
type State int

const (
	StateUnknown State = iota
	StateStopped
	StateStartPending
	StateStopPending
	StateRunning
	StateContinuePending
	StatePausePending
	StatePaused
)

func (s State) String() string {
	switch s {
	case StateStopped:
		return "stopped"
	case StateStartPending:
		return "start pending"
	case StateStopPending:
		return "stop pending"
	case StateRunning:
		return "running"
	case StateContinuePending:
		return "continue pending"
	case StatePausePending:
		return "pause pending"
	case StatePaused:
		return "paused"
	}
	return "unknown"
}

// LocalIdentity returns the run-as form of a local account, ".\name".
// Qualified names are returned unchanged.
func LocalIdentity(name string) string {
	if strings.ContainsRune(name, '\\') || strings.ContainsRune(name, '@') {
		return name
	}
	return `.\` + name
}

// SameIdentity reports whether a run-as identity read back from the service
// manager names the local account. ".\name", "HOST\name" and a bare "name"
// all match when hostname is given.
func SameIdentity(identity, account, hostname string) bool {
	var domain, name = "", identity
	if i := strings.LastIndexByte(identity, '\\'); i >= 0 {
		domain, name = identity[:i], identity[i+1:]
	}
	if !strings.EqualFold(name, account) {
		return false
	}
	switch {
	case domain == "", domain == ".":
		return true
	case hostname != "" && strings.EqualFold(domain, hostname):
		return true
	}
	return false
}
