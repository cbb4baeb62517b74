//go:build windows

package service

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"golang.org/x/sys/windows"
	"golang.org/x/sys/windows/svc"
	"golang.org/x/sys/windows/svc/mgr"

	so "github.com/iamacarpet/mirrormount/shared"
)

// Manager talks to the local Service Control Manager.
type Manager struct {
	log zerolog.Logger
}

func NewManager(log zerolog.Logger) *Manager {
	return &Manager{log: log}
}

func (m *Manager) open(name string) (*mgr.Mgr, *mgr.Service, error) {
	scm, err := mgr.Connect()
	if err != nil {
		return nil, nil, errnoErr(err)
	}
	s, err := scm.OpenService(name)
	if err != nil {
		scm.Disconnect()
		return nil, nil, fmt.Errorf("open service %s: %w", name, errnoErr(err))
	}
	return scm, s, nil
}

// Exists reports whether a service with the given name is installed.
func (m *Manager) Exists(name string) (bool, error) {
	scm, s, err := m.open(name)
	if errors.Is(err, so.ErrServiceNotFound) {
		return false, nil
	} else if err != nil {
		return false, err
	}
	s.Close()
	scm.Disconnect()
	return true, nil
}

func (m *Manager) State(name string) (State, error) {
	scm, s, err := m.open(name)
	if err != nil {
		return StateUnknown, err
	}
	defer scm.Disconnect()
	defer s.Close()

	status, err := s.Query()
	if err != nil {
		return StateUnknown, fmt.Errorf("query service %s: %w", name, errnoErr(err))
	}
	return fromSvcState(status.State), nil
}

// Stop sends a stop control. Stopping a stopped service is not an error.
func (m *Manager) Stop(name string) error {
	scm, s, err := m.open(name)
	if err != nil {
		return err
	}
	defer scm.Disconnect()
	defer s.Close()

	_, err = s.Control(svc.Stop)
	if errors.Is(err, windows.ERROR_SERVICE_NOT_ACTIVE) {
		m.log.Debug().Str("service", name).Msg("service already stopped")
		return nil
	} else if err != nil {
		return fmt.Errorf("stop service %s: %w", name, errnoErr(err))
	}
	return nil
}

// Start starts the service. Starting a running service is not an error.
func (m *Manager) Start(name string) error {
	scm, s, err := m.open(name)
	if err != nil {
		return err
	}
	defer scm.Disconnect()
	defer s.Close()

	err = s.Start()
	if errors.Is(err, windows.ERROR_SERVICE_ALREADY_RUNNING) {
		m.log.Debug().Str("service", name).Msg("service already running")
		return nil
	} else if err != nil {
		return fmt.Errorf("start service %s: %w", name, errnoErr(err))
	}
	return nil
}

// SetIdentity changes the account the service runs as.
func (m *Manager) SetIdentity(name, account, password string) error {
	scm, s, err := m.open(name)
	if err != nil {
		return err
	}
	defer scm.Disconnect()
	defer s.Close()

	cfg, err := s.Config()
	if err != nil {
		return fmt.Errorf("read config of service %s: %w", name, errnoErr(err))
	}
	cfg.ServiceStartName = account
	cfg.Password = password
	if err := s.UpdateConfig(cfg); err != nil {
		return fmt.Errorf("update config of service %s: %w", name, errnoErr(err))
	}
	m.log.Info().Str("service", name).Str("account", account).Msg("service identity updated")
	return nil
}

// Identity returns the account the service runs as.
func (m *Manager) Identity(name string) (string, error) {
	scm, s, err := m.open(name)
	if err != nil {
		return "", err
	}
	defer scm.Disconnect()
	defer s.Close()

	cfg, err := s.Config()
	if err != nil {
		return "", fmt.Errorf("read config of service %s: %w", name, errnoErr(err))
	}
	return cfg.ServiceStartName, nil
}

func fromSvcState(s svc.State) State {
	switch s {
	case svc.Stopped:
		return StateStopped
	case svc.StartPending:
		return StateStartPending
	case svc.StopPending:
		return StateStopPending
	case svc.Running:
		return StateRunning
	case svc.ContinuePending:
		return StateContinuePending
	case svc.PausePending:
		return StatePausePending
	case svc.Paused:
		return StatePaused
	}
	return StateUnknown
}

func errnoErr(err error) error {
	switch {
	case errors.Is(err, windows.ERROR_SERVICE_DOES_NOT_EXIST):
		return so.ErrServiceNotFound
	case errors.Is(err, windows.ERROR_ACCESS_DENIED):
		return so.ErrAccessDenied
	}
	return err
}
