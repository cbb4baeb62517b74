package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "mirrormount.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Account.Name != DefaultAccount {
		t.Errorf("account = %q, want %q", cfg.Account.Name, DefaultAccount)
	}
	if cfg.Mirror.Executable != DefaultExecutable {
		t.Errorf("executable = %q", cfg.Mirror.Executable)
	}
	if cfg.Task.Prefix != "MirrorMount" {
		t.Errorf("prefix = %q", cfg.Task.Prefix)
	}
	if cfg.Timeouts.Mount.Std() != time.Minute {
		t.Errorf("mount timeout = %s", cfg.Timeouts.Mount.Std())
	}
}

func TestLoadEmptyPath(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Account.Name != DefaultAccount {
		t.Errorf("account = %q", cfg.Account.Name)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
account:
  name: backupmnt
service:
  name: VeeamEndpointBackupSvc
mirror:
  global_flag: ""
timeouts:
  service_stop: 45s
  mount: 2m
log:
  level: debug
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Account.Name != "backupmnt" {
		t.Errorf("account = %q", cfg.Account.Name)
	}
	if cfg.Service.Name != "VeeamEndpointBackupSvc" {
		t.Errorf("service = %q", cfg.Service.Name)
	}
	if cfg.Mirror.GlobalFlag != "" {
		t.Errorf("global flag = %q, want empty", cfg.Mirror.GlobalFlag)
	}
	if cfg.Mirror.RemoteFlag != "/r" {
		t.Errorf("remote flag = %q, default should survive", cfg.Mirror.RemoteFlag)
	}
	if got := cfg.Timeouts.ServiceStop.Std(); got != 45*time.Second {
		t.Errorf("service stop = %s", got)
	}
	if got := cfg.Timeouts.Mount.Std(); got != 2*time.Minute {
		t.Errorf("mount = %s", got)
	}
	if got := cfg.Timeouts.ServiceStart.Std(); got != 30*time.Second {
		t.Errorf("service start = %s, default should survive", got)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	path := writeConfig(t, "acount:\n  name: typo\n")
	if _, err := Load(path); err == nil {
		t.Fatal("expected an error for an unknown key")
	}
}

func TestLoadRejectsBadDuration(t *testing.T) {
	path := writeConfig(t, "timeouts:\n  mount: soon\n")
	_, err := Load(path)
	if err == nil || !strings.Contains(err.Error(), "invalid duration") {
		t.Fatalf("err = %v, want invalid duration", err)
	}
}

func TestValidate(t *testing.T) {
	cfg := Default()
	err := cfg.Validate()
	if err == nil || !strings.Contains(err.Error(), "service.name") {
		t.Fatalf("err = %v, want missing service.name", err)
	}

	cfg.Service.Name = "BackupSvc"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}

	cfg.Account.Name = `bad\name`
	if err := cfg.Validate(); err == nil {
		t.Error("expected an error for an invalid account name")
	}

	cfg.Account.Name = "averyveryverylongaccountname"
	if err := cfg.Validate(); err == nil {
		t.Error("expected an error for an overlong account name")
	}
}
