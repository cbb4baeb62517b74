package provision

import (
	"context"

	"github.com/iamacarpet/mirrormount/identity/user"
	"github.com/iamacarpet/mirrormount/internal/command"
	"github.com/iamacarpet/mirrormount/internal/config"
	"github.com/iamacarpet/mirrormount/internal/elevation"
	"github.com/iamacarpet/mirrormount/internal/logging"
	"github.com/iamacarpet/mirrormount/internal/printer"
	"github.com/iamacarpet/mirrormount/mount"
	"github.com/iamacarpet/mirrormount/policy"
	"github.com/iamacarpet/mirrormount/service"
	"github.com/iamacarpet/mirrormount/taskscheduler"
)

// LocalAccounts manages accounts through the netapi32 user and group APIs.
type LocalAccounts struct{}

func (LocalAccounts) Exists(name string) (bool, error) {
	return user.Exists(name)
}

func (LocalAccounts) Create(name, password, comment string) error {
	_, err := user.Add(name, comment, password)
	return err
}

func (LocalAccounts) GrantAdmin(name string) (bool, error) {
	return user.GrantAdmin(name)
}

func (LocalAccounts) IsAdmin(name string) (bool, error) {
	return user.IsAdmin(name)
}

func (LocalAccounts) LookupSID(name string) (string, error) {
	return user.LookupSID(name)
}

// LocalDrives probes the file system of this host.
type LocalDrives struct{}

func (LocalDrives) Reachable(ctx context.Context, path string) error {
	return mount.Reachable(ctx, path)
}

func (LocalDrives) Mounted(letter string) (bool, error) {
	return mount.Mounted(letter)
}

// NewLocal wires a Provisioner to the stores of this host.
func NewLocal(cfg *config.Config, p *printer.Printer, log *logging.Logger, confirm Confirm) *Provisioner {
	return &Provisioner{
		Accounts: LocalAccounts{},
		Policy:   policy.NewSecedit(command.Local{}, "", log.Component("policy")),
		Services: service.NewManager(log.Component("service")),
		Tasks:    taskscheduler.New(log.Component("taskscheduler")),
		Drives:   LocalDrives{},
		Confirm:  confirm,
		Elevated: elevation.IsElevated,
		Config:   cfg,
		Printer:  p,
		Log:      log.Component("provision"),
	}
}
