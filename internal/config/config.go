package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	yaml "go.yaml.in/yaml/v3"
)

const (
	DefaultAccount    = "mirrorsvc"
	DefaultExecutable = `C:\Program Files\Dokan\DokanLibrary\sample\mirror\mirror.exe`
	DefaultTaskPrefix = "MirrorMount"
	LogFileName       = "mirrormount.log"
)

type Config struct {
	Account  Account  `yaml:"account"`
	Service  Service  `yaml:"service"`
	Mirror   Mirror   `yaml:"mirror"`
	Launcher Launcher `yaml:"launcher"`
	Task     Task     `yaml:"task"`
	Timeouts Timeouts `yaml:"timeouts"`
	Log      Log      `yaml:"log"`
}

type Account struct {
	Name    string `yaml:"name"`
	Comment string `yaml:"comment"`
}

type Service struct {
	Name string `yaml:"name"`
}

// Mirror describes the mirroring executable and the switches it takes for
// the remote path, the drive letter and global visibility.
type Mirror struct {
	Executable string `yaml:"executable"`
	RemoteFlag string `yaml:"remote_flag"`
	LetterFlag string `yaml:"letter_flag"`
	GlobalFlag string `yaml:"global_flag"`
}

type Launcher struct {
	Directory string `yaml:"directory"`
}

type Task struct {
	Prefix      string `yaml:"prefix"`
	Author      string `yaml:"author"`
	Description string `yaml:"description"`
}

type Timeouts struct {
	Reachability Duration `yaml:"reachability"`
	ServiceStop  Duration `yaml:"service_stop"`
	ServiceStart Duration `yaml:"service_start"`
	Mount        Duration `yaml:"mount"`
	PollInterval Duration `yaml:"poll_interval"`
}

type Log struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// Duration accepts Go duration strings ("30s", "1m30s") in YAML.
type Duration time.Duration

func (d Duration) Std() time.Duration { return time.Duration(d) }

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	parsed, err := ParseDurationField(fmt.Sprintf("line %d", value.Line), raw)
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

func ParseDurationField(path, raw string) (time.Duration, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid duration %q: %w", path, raw, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("%s: duration must be >= 0", path)
	}
	return d, nil
}

// Default returns the built-in configuration. The service name has no
// default and must come from the file or the command line.
func Default() *Config {
	dir := DefaultLauncherDir()
	return &Config{
		Account: Account{
			Name:    DefaultAccount,
			Comment: "Runs the network drive mirror",
		},
		Mirror: Mirror{
			Executable: DefaultExecutable,
			RemoteFlag: "/r",
			LetterFlag: "/l",
			GlobalFlag: "/g",
		},
		Launcher: Launcher{Directory: dir},
		Task: Task{
			Prefix:      DefaultTaskPrefix,
			Author:      "mirrormount",
			Description: "Mounts a network share as a local drive at system start",
		},
		Timeouts: Timeouts{
			Reachability: Duration(10 * time.Second),
			ServiceStop:  Duration(30 * time.Second),
			ServiceStart: Duration(30 * time.Second),
			Mount:        Duration(60 * time.Second),
			PollInterval: Duration(time.Second),
		},
		Log: Log{
			Level: "info",
			File:  filepath.Join(dir, LogFileName),
		},
	}
}

// DefaultLauncherDir is %ProgramData%\MirrorMount.
func DefaultLauncherDir() string {
	base := os.Getenv("ProgramData")
	if base == "" {
		base = `C:\ProgramData`
	}
	return filepath.Join(base, "MirrorMount")
}

// Load reads path over the defaults. An empty path returns the defaults.
// Unknown keys are rejected.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := cfg.decode(data); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) decode(data []byte) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("yaml unmarshal: %w", err)
	}
	return nil
}

// Validate rejects configurations the workflow cannot run with.
func (c *Config) Validate() error {
	var missing []string
	for _, field := range []struct{ key, value string }{
		{"account.name", c.Account.Name},
		{"service.name", c.Service.Name},
		{"mirror.executable", c.Mirror.Executable},
		{"mirror.remote_flag", c.Mirror.RemoteFlag},
		{"mirror.letter_flag", c.Mirror.LetterFlag},
		{"launcher.directory", c.Launcher.Directory},
		{"task.prefix", c.Task.Prefix},
	} {
		if strings.TrimSpace(field.value) == "" {
			missing = append(missing, field.key)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required settings: %s", strings.Join(missing, ", "))
	}
	if c.Timeouts.PollInterval <= 0 {
		return errors.New("timeouts.poll_interval must be > 0")
	}
	if strings.ContainsAny(c.Account.Name, `\/[]:;|=,+*?<>"@`) {
		return fmt.Errorf("account.name %q contains characters not allowed in a local account name", c.Account.Name)
	}
	if len(c.Account.Name) > 20 {
		return fmt.Errorf("account.name %q is longer than 20 characters", c.Account.Name)
	}
	return nil
}
