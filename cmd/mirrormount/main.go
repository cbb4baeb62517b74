package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/jessevdk/go-flags"

	"github.com/iamacarpet/mirrormount/internal/config"
	"github.com/iamacarpet/mirrormount/internal/logging"
	"github.com/iamacarpet/mirrormount/internal/printer"
	"github.com/iamacarpet/mirrormount/mount"
	"github.com/iamacarpet/mirrormount/provision"

	so "github.com/iamacarpet/mirrormount/shared"
)

var version = "dev"

type Options struct {
	Args struct {
		REMOTE string `description:"UNC path of the network share, e.g. \\\\nas01\\backups"`
		LETTER string `description:"Drive letter to mount the share on"`
	} `positional-args:"yes"`
	User          string `short:"u" long:"user" description:"Local account to create and run as (default: mirrorsvc)"`
	Password      string `short:"p" long:"password" env:"MIRRORMOUNT_PASSWORD" description:"Password of the local account"`
	ShareUser     string `long:"share-user" description:"Username for the network share"`
	SharePassword string `long:"share-password" env:"MIRRORMOUNT_SHARE_PASSWORD" description:"Password for the network share"`
	Executable    string `short:"e" long:"exe" description:"Path to the mirroring executable"`
	Service       string `short:"s" long:"service" description:"Name of the backup service to reconfigure"`
	Config        string `short:"c" long:"config" description:"YAML configuration file"`
	Yes           bool   `short:"y" long:"yes" description:"Continue without asking when the share is unreachable"`
	NoRun         bool   `long:"no-run" description:"Register the task without running it"`
	Verbose       bool   `short:"v" long:"verbose" description:"Write the debug log to stderr"`
	Version       bool   `long:"version" description:"Print the version and exit"`
}

func (o *Options) apply(cfg *config.Config) {
	if o.User != "" {
		cfg.Account.Name = o.User
	}
	if o.Executable != "" {
		cfg.Mirror.Executable = o.Executable
	}
	if o.Service != "" {
		cfg.Service.Name = o.Service
	}
	if o.Verbose {
		cfg.Log.Level = "debug"
	}
}

func (o *Options) request(cfg *config.Config) (provision.Request, error) {
	if o.Args.REMOTE == "" || o.Args.LETTER == "" {
		return provision.Request{}, errors.New("REMOTE and LETTER are required")
	}
	letter, err := mount.NormalizeLetter(o.Args.LETTER)
	if err != nil {
		return provision.Request{}, err
	}
	if o.Password == "" {
		return provision.Request{}, errors.New("the account password is required (-p or MIRRORMOUNT_PASSWORD)")
	}
	if o.SharePassword != "" && o.ShareUser == "" {
		return provision.Request{}, errors.New("--share-password needs --share-user")
	}
	return provision.Request{
		RemotePath: o.Args.REMOTE,
		Letter:     letter,
		Account:    so.Credential{Username: cfg.Account.Name, Password: o.Password},
		Share:      so.Credential{Username: o.ShareUser, Password: o.SharePassword},
		Executable: cfg.Mirror.Executable,
		Service:    cfg.Service.Name,
		RunNow:     !o.NoRun,
	}, nil
}

// prompt asks on out and reads a y/n answer from in.
func prompt(in io.Reader, out io.Writer) provision.Confirm {
	reader := bufio.NewReader(in)
	return func(question string) (bool, error) {
		fmt.Fprintf(out, "%s [y/N]: ", question)
		answer, err := reader.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return false, err
		}
		switch strings.ToLower(strings.TrimSpace(answer)) {
		case "y", "yes":
			return true, nil
		}
		return false, nil
	}
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	p := flags.NewNamedParser("mirrormount", flags.Default)
	p.Usage = "[OPTIONS] REMOTE LETTER"

	var opts Options
	p.AddGroup("Application Options", "", &opts)

	if _, err := p.ParseArgs(args); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			return 0
		}
		return 1
	}
	if opts.Version {
		fmt.Fprintln(stdout, "mirrormount", version)
		return 0
	}

	cfg, err := config.Load(opts.Config)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	opts.apply(cfg)
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	req, err := opts.request(cfg)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}

	log, err := logging.New(logging.Config{Level: cfg.Log.Level, Console: opts.Verbose, File: cfg.Log.File}, stderr)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	defer log.Close()

	pcfg := printer.DefaultPrinterConfig()
	pcfg.Writer = stdout
	out := printer.NewPrinter().SetConfigs(pcfg)

	confirm := prompt(stdin, stdout)
	if opts.Yes {
		confirm = func(string) (bool, error) { return true, nil }
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	_, err = provision.NewLocal(cfg, out, log, confirm).Run(ctx, req)
	out.Summary()
	if err != nil {
		fmt.Fprintln(stderr, "provisioning failed:", err)
		return 1
	}
	return 0
}
