//go:build !windows

package service

import (
	"github.com/rs/zerolog"

	so "github.com/iamacarpet/mirrormount/shared"
)

type Manager struct {
	log zerolog.Logger
}

func NewManager(log zerolog.Logger) *Manager {
	return &Manager{log: log}
}

func (m *Manager) Exists(name string) (bool, error) { return false, so.ErrUnsupported }

func (m *Manager) State(name string) (State, error) { return StateUnknown, so.ErrUnsupported }

func (m *Manager) Stop(name string) error { return so.ErrUnsupported }

func (m *Manager) Start(name string) error { return so.ErrUnsupported }

func (m *Manager) SetIdentity(name, account, password string) error { return so.ErrUnsupported }

func (m *Manager) Identity(name string) (string, error) { return "", so.ErrUnsupported }
