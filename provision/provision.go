// Package provision prepares a host so a network share is mirrored to a local
// drive letter at every boot.
//
// The work happens in five ordered steps: preconditions, account, policy,
// service and task. The first fatal error aborts the run and leaves the
// effects of earlier steps in place.
package provision

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/rs/zerolog"

	"github.com/iamacarpet/mirrormount/internal/config"
	"github.com/iamacarpet/mirrormount/internal/printer"
	"github.com/iamacarpet/mirrormount/internal/wait"
	"github.com/iamacarpet/mirrormount/launcher"
	"github.com/iamacarpet/mirrormount/mount"
	"github.com/iamacarpet/mirrormount/policy"
	"github.com/iamacarpet/mirrormount/service"
	"github.com/iamacarpet/mirrormount/taskscheduler"

	so "github.com/iamacarpet/mirrormount/shared"
)

const (
	StepPreconditions = "Preconditions"
	StepAccount       = "Account"
	StepPolicy        = "Policy"
	StepService       = "Service"
	StepTask          = "Task"
)

// Accounts manages local user accounts.
type Accounts interface {
	Exists(name string) (bool, error)
	Create(name, password, comment string) error
	GrantAdmin(name string) (bool, error)
	IsAdmin(name string) (bool, error)
	LookupSID(name string) (string, error)
}

// PolicyStore reads and writes the local user rights assignments.
type PolicyStore interface {
	Export(ctx context.Context) (*policy.Template, error)
	Import(ctx context.Context, t *policy.Template) error
}

// Services controls installed services.
type Services interface {
	Exists(name string) (bool, error)
	State(name string) (service.State, error)
	Stop(name string) error
	Start(name string) error
	SetIdentity(name, account, password string) error
	Identity(name string) (string, error)
}

// Tasks manages scheduled tasks.
type Tasks interface {
	Exists(name string) (bool, error)
	Delete(name string) error
	Register(d taskscheduler.Definition) error
	Run(name string) error
}

// Drives probes network paths and drive letters.
type Drives interface {
	Reachable(ctx context.Context, path string) error
	Mounted(letter string) (bool, error)
}

// Confirm asks the operator a yes/no question.
type Confirm func(question string) (bool, error)

// Elevated reports whether the process runs with administrative rights.
type Elevated func() (bool, error)

// Request holds the per run inputs.
type Request struct {
	RemotePath string
	Letter     string
	Account    so.Credential
	Share      so.Credential
	Executable string
	Service    string
	// RunNow triggers the task right after registration and waits for the
	// drive to appear.
	RunNow bool
}

// Result describes what a run changed.
type Result struct {
	AccountCreated bool
	RightGranted   bool
	ServiceUpdated bool
	LauncherPath   string
	TaskName       string
	TaskReplaced   bool
	Mounted        bool
	Warnings       []string
}

// Provisioner runs the workflow against the configured collaborators.
type Provisioner struct {
	Accounts Accounts
	Policy   PolicyStore
	Services Services
	Tasks    Tasks
	Drives   Drives
	Confirm  Confirm
	Elevated Elevated

	Config   *config.Config
	Printer  *printer.Printer
	Log      zerolog.Logger
	Hostname string

	// FileExists defaults to an os.Stat check.
	FileExists func(path string) (bool, error)
}

type run struct {
	*Provisioner
	ctx context.Context
	req Request
	res *Result

	qualified  string
	letterBusy bool
}

// Run executes the five steps in order.
func (p *Provisioner) Run(ctx context.Context, req Request) (*Result, error) {
	req, err := p.normalize(req)
	if err != nil {
		return nil, err
	}
	if p.Hostname == "" {
		if p.Hostname, err = os.Hostname(); err != nil {
			return nil, fmt.Errorf("unable to determine hostname: %w", err)
		}
	}

	r := &run{
		Provisioner: p,
		ctx:         ctx,
		req:         req,
		res:         &Result{},
		qualified:   p.Hostname + `\` + req.Account.Username,
	}
	p.Log.Info().
		Str("remote", req.RemotePath).
		Str("letter", req.Letter).
		Str("account", req.Account.Username).
		Str("service", req.Service).
		Msg("provisioning started")

	steps := []struct {
		name string
		fn   func() error
	}{
		{StepPreconditions, r.preconditions},
		{StepAccount, r.account},
		{StepPolicy, r.policy},
		{StepService, r.service},
		{StepTask, r.task},
	}
	for _, step := range steps {
		p.Printer.Step(step.name)
		if err := step.fn(); err != nil {
			p.Printer.PrintFailure(err.Error())
			p.Printer.Record(printer.OutcomeFailed, err.Error())
			p.Log.Error().Err(err).Str("step", step.name).Msg("step failed")
			return r.res, fmt.Errorf("%s: %w", strings.ToLower(step.name), err)
		}
	}
	p.Log.Info().Int("warnings", len(r.res.Warnings)).Msg("provisioning finished")
	return r.res, nil
}

func (p *Provisioner) normalize(req Request) (Request, error) {
	if strings.TrimSpace(req.RemotePath) == "" {
		return req, fmt.Errorf("network path is required: %w", so.ErrInvalidParameter)
	}
	letter, err := mount.NormalizeLetter(req.Letter)
	if err != nil {
		return req, fmt.Errorf("%s: %w", err, so.ErrInvalidParameter)
	}
	req.Letter = letter
	if req.Account.Username == "" {
		req.Account.Username = p.Config.Account.Name
	}
	if req.Account.Password == "" {
		return req, fmt.Errorf("account password is required: %w", so.ErrInvalidParameter)
	}
	if req.Executable == "" {
		req.Executable = p.Config.Mirror.Executable
	}
	if req.Service == "" {
		req.Service = p.Config.Service.Name
	}
	if req.Service == "" {
		return req, fmt.Errorf("service name is required: %w", so.ErrInvalidParameter)
	}
	if err := p.launcherOptions(req).Validate(); err != nil {
		return req, fmt.Errorf("%s: %w", err, so.ErrInvalidParameter)
	}
	return req, nil
}

func (p *Provisioner) launcherOptions(req Request) launcher.Options {
	opts := launcher.Options{
		RemotePath: req.RemotePath,
		Letter:     req.Letter,
		Executable: req.Executable,
		RemoteFlag: p.Config.Mirror.RemoteFlag,
		LetterFlag: p.Config.Mirror.LetterFlag,
		GlobalFlag: p.Config.Mirror.GlobalFlag,
	}
	if !req.Share.IsZero() {
		opts.ShareUser = req.Share.FullUser()
		opts.SharePassword = req.Share.Password
	}
	return opts
}

func (r *run) warn(msg string) {
	r.Printer.PrintWarning(msg)
	r.Printer.Record(printer.OutcomeWarning, msg)
	r.res.Warnings = append(r.res.Warnings, msg)
	r.Log.Warn().Msg(msg)
}

func (r *run) done(msg string) {
	r.Printer.PrintSuccess(msg)
	r.Printer.Record(printer.OutcomeDone, msg)
	r.Log.Info().Msg(msg)
}

func (r *run) skipped(msg string) {
	r.Printer.PrintInfo(msg)
	r.Printer.Record(printer.OutcomeSkipped, msg)
	r.Log.Info().Msg(msg)
}

func (r *run) fileExists(path string) (bool, error) {
	if r.FileExists != nil {
		return r.FileExists(path)
	}
	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	} else if err != nil {
		return false, err
	}
	return !info.IsDir(), nil
}

func (r *run) preconditions() error {
	if r.Elevated != nil {
		ok, err := r.Elevated()
		if err != nil {
			return fmt.Errorf("check elevation: %w", err)
		}
		if !ok {
			return so.ErrNotElevated
		}
	}

	ok, err := r.fileExists(r.req.Executable)
	if err != nil {
		return fmt.Errorf("check %s: %w", r.req.Executable, err)
	}
	if !ok {
		return fmt.Errorf("%s: %w", r.req.Executable, so.ErrMirrorNotFound)
	}
	r.Printer.PrintSuccess("mirroring executable found:", r.req.Executable)

	ok, err = r.Services.Exists(r.req.Service)
	if err != nil {
		return fmt.Errorf("check service %s: %w", r.req.Service, err)
	}
	if !ok {
		return fmt.Errorf("%s: %w", r.req.Service, so.ErrServiceNotFound)
	}
	r.Printer.PrintSuccess("service found:", r.req.Service)

	if busy, err := r.Drives.Mounted(r.req.Letter); err != nil {
		r.Log.Debug().Err(err).Msg("drive letter probe failed")
	} else if busy {
		r.letterBusy = true
		r.warn(fmt.Sprintf("drive %s: is already in use", r.req.Letter))
	}

	ctx, cancel := context.WithTimeout(r.ctx, r.Config.Timeouts.Reachability.Std())
	defer cancel()
	if err := r.Drives.Reachable(ctx, r.req.RemotePath); err != nil {
		r.warn(err.Error())
		proceed := false
		if r.Confirm != nil {
			if proceed, err = r.Confirm(fmt.Sprintf("%s is not reachable from this host. Continue anyway?", r.req.RemotePath)); err != nil {
				return fmt.Errorf("read confirmation: %w", err)
			}
		}
		if !proceed {
			return so.ErrAborted
		}
		return nil
	}
	r.done("network path reachable: " + r.req.RemotePath)
	return nil
}

func (r *run) account() error {
	name := r.req.Account.Username
	exists, err := r.Accounts.Exists(name)
	if err != nil {
		return fmt.Errorf("check account %s: %w", name, err)
	}
	if exists {
		r.skipped(fmt.Sprintf("account %s already exists, password and group membership left unchanged", name))
		if admin, err := r.Accounts.IsAdmin(name); err != nil {
			r.Log.Debug().Err(err).Msg("membership query failed")
		} else if !admin {
			r.warn(fmt.Sprintf("existing account %s is not a member of Administrators", name))
		}
		return nil
	}

	if err := r.Accounts.Create(name, r.req.Account.Password, r.Config.Account.Comment); err != nil {
		return fmt.Errorf("create account %s: %w", name, err)
	}
	r.res.AccountCreated = true
	r.done("account created: " + name)

	if _, err := r.Accounts.GrantAdmin(name); err != nil {
		return fmt.Errorf("add %s to Administrators: %w", name, err)
	}
	r.done(name + " added to Administrators")
	return nil
}

func (r *run) policy() error {
	name := r.req.Account.Username
	sid, err := r.Accounts.LookupSID(name)
	if err != nil {
		return fmt.Errorf("look up SID of %s: %w", name, err)
	}
	r.Log.Debug().Str("sid", sid).Msg("account SID resolved")

	t, err := r.Policy.Export(r.ctx)
	if err != nil {
		return err
	}
	if !t.Grant(policy.ServiceLogonRight, sid, name, r.qualified) {
		r.skipped(fmt.Sprintf("%s already holds %s", name, policy.ServiceLogonRight))
		return nil
	}
	if err := r.Policy.Import(r.ctx, t); err != nil {
		return err
	}
	r.res.RightGranted = true

	after, err := r.Policy.Export(r.ctx)
	if err != nil {
		r.warn(fmt.Sprintf("could not verify %s: %s", policy.ServiceLogonRight, err))
		return nil
	}
	if !after.Has(policy.ServiceLogonRight, sid, name, r.qualified) {
		r.warn(fmt.Sprintf("%s does not list %s after import", policy.ServiceLogonRight, name))
		return nil
	}
	r.done(fmt.Sprintf("%s granted to %s", policy.ServiceLogonRight, name))
	return nil
}

func (r *run) waitState(name string, want service.State, timeout config.Duration) error {
	return wait.Until(r.ctx, r.Config.Timeouts.PollInterval.Std(), timeout.Std(), func() (bool, error) {
		state, err := r.Services.State(name)
		if err != nil {
			return false, err
		}
		return state == want, nil
	})
}

func (r *run) service() error {
	name := r.req.Service
	identity := service.LocalIdentity(r.req.Account.Username)

	state, err := r.Services.State(name)
	if err != nil {
		return fmt.Errorf("query service %s: %w", name, err)
	}
	if state != service.StateStopped {
		if err := r.Services.Stop(name); err != nil {
			r.warn(fmt.Sprintf("stop %s: %s", name, err))
		} else if err := r.waitState(name, service.StateStopped, r.Config.Timeouts.ServiceStop); err != nil {
			r.warn(fmt.Sprintf("%s did not stop: %s", name, err))
		} else {
			r.done("service stopped: " + name)
		}
	}

	if err := r.Services.SetIdentity(name, identity, r.req.Account.Password); err != nil {
		return fmt.Errorf("set run-as account of %s: %w", name, err)
	}
	r.res.ServiceUpdated = true
	r.done(fmt.Sprintf("%s now runs as %s", name, identity))

	if err := r.Services.Start(name); err != nil {
		return fmt.Errorf("start service %s: %w", name, err)
	}
	if err := r.waitState(name, service.StateRunning, r.Config.Timeouts.ServiceStart); err != nil {
		r.warn(fmt.Sprintf("%s did not reach the running state: %s", name, err))
	} else {
		r.done("service running: " + name)
	}

	if got, err := r.Services.Identity(name); err != nil {
		r.warn(fmt.Sprintf("could not read back the run-as account of %s: %s", name, err))
	} else if !service.SameIdentity(got, r.req.Account.Username, r.Hostname) {
		r.warn(fmt.Sprintf("%s reports run-as account %s", name, got))
	}
	return nil
}

func (r *run) task() error {
	cfg := r.Config
	path, err := launcher.Write(cfg.Launcher.Directory, r.launcherOptions(r.req))
	if err != nil {
		return err
	}
	r.res.LauncherPath = path
	r.done("launcher written: " + path)

	name := taskscheduler.TaskName(cfg.Task.Prefix, r.req.Letter)
	r.res.TaskName = name
	exists, err := r.Tasks.Exists(name)
	if err != nil {
		return fmt.Errorf("check task %s: %w", name, err)
	}
	if exists {
		if err := r.Tasks.Delete(name); err != nil && !errors.Is(err, so.ErrTaskNotFound) {
			return fmt.Errorf("delete task %s: %w", name, err)
		}
		r.res.TaskReplaced = true
		r.done("previous task removed: " + name)
	}

	command, args := taskscheduler.ScriptAction(path)
	if err := r.Tasks.Register(taskscheduler.Definition{
		Name:             name,
		Description:      cfg.Task.Description,
		Author:           cfg.Task.Author,
		User:             r.qualified,
		Password:         r.req.Account.Password,
		Command:          command,
		Arguments:        args,
		WorkingDirectory: cfg.Launcher.Directory,
	}); err != nil {
		return fmt.Errorf("register task %s: %w", name, err)
	}
	r.done("task registered: " + name)

	if !r.req.RunNow {
		return nil
	}
	if err := r.Tasks.Run(name); err != nil {
		r.warn(fmt.Sprintf("run task %s: %s", name, err))
		return nil
	}
	if r.letterBusy {
		r.warn(fmt.Sprintf("drive %s: was already in use, mount not verified", r.req.Letter))
		return nil
	}

	err = wait.Until(r.ctx, cfg.Timeouts.PollInterval.Std(), cfg.Timeouts.Mount.Std(), func() (bool, error) {
		return r.Drives.Mounted(r.req.Letter)
	})
	if err != nil {
		r.warn(fmt.Sprintf("drive %s: not visible yet: %s", r.req.Letter, err))
		return nil
	}
	r.res.Mounted = true
	r.done(fmt.Sprintf("drive %s: mounted", r.req.Letter))
	return nil
}
