// Package launcher renders the batch file the boot task runs to mount the
// network share.
package launcher

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/template"
)

//go:embed launcher.cmd.tmpl
var launcherTemplate string

var tmpl = template.Must(template.New("launcher").Funcs(template.FuncMap{
	"batch": escapeBatch,
}).Parse(launcherTemplate))

// Options are the values substituted into the launcher.
type Options struct {
	RemotePath string
	Letter     string
	Executable string

	RemoteFlag string
	LetterFlag string
	GlobalFlag string

	// Share credentials are optional. When ShareUser is set the launcher
	// authenticates to the share with "net use" before mounting.
	ShareUser     string
	SharePassword string
}

func (o Options) Validate() error {
	if o.RemotePath == "" || o.Letter == "" || o.Executable == "" {
		return errors.New("launcher needs a remote path, a drive letter and an executable")
	}
	for name, v := range map[string]string{
		"remote path":    o.RemotePath,
		"executable":     o.Executable,
		"share user":     o.ShareUser,
		"share password": o.SharePassword,
	} {
		if strings.ContainsAny(v, "\"\r\n") {
			return fmt.Errorf("%s must not contain quotes or line breaks", name)
		}
	}
	return nil
}

// Render returns the launcher contents with CRLF line endings.
func Render(opts Options) ([]byte, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, opts); err != nil {
		return nil, fmt.Errorf("render launcher: %w", err)
	}
	text := strings.ReplaceAll(strings.TrimRight(buf.String(), "\r\n"), "\r\n", "\n")
	return []byte(strings.ReplaceAll(text, "\n", "\r\n") + "\r\n"), nil
}

// Path returns the launcher location for a drive letter inside dir.
func Path(dir, letter string) string {
	return filepath.Join(dir, "mount-"+strings.ToUpper(letter)+".cmd")
}

// Write renders the launcher and replaces any previous file. It returns the
// path written.
func Write(dir string, opts Options) (string, error) {
	data, err := Render(opts)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create launcher directory: %w", err)
	}
	path := Path(dir, opts.Letter)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return "", fmt.Errorf("write launcher: %w", err)
	}
	return path, nil
}

// escapeBatch doubles percent signs so cmd.exe does not expand them.
func escapeBatch(s string) string {
	return strings.ReplaceAll(s, "%", "%%")
}
