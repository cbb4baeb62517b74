package policy

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"golang.org/x/text/encoding/unicode"

	"github.com/iamacarpet/mirrormount/internal/command"
)

func argAfter(args []string, flag string) string {
	for i, a := range args {
		if a == flag && i+1 < len(args) {
			return args[i+1]
		}
	}
	return ""
}

func encodeUTF16(t *testing.T, text string) []byte {
	t.Helper()
	b, err := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewEncoder().Bytes([]byte(text))
	if err != nil {
		t.Fatal(err)
	}
	return b
}

func decodeUTF16(t *testing.T, b []byte) string {
	t.Helper()
	out, err := unicode.UTF16(unicode.LittleEndian, unicode.ExpectBOM).NewDecoder().Bytes(b)
	if err != nil {
		t.Fatal(err)
	}
	return string(out)
}

func TestSeceditExportUTF16(t *testing.T) {
	var calls [][]string
	r := command.RunFunc(func(ctx context.Context, name string, args ...string) (string, error) {
		calls = append(calls, append([]string{name}, args...))
		return "The task has completed successfully.", os.WriteFile(argAfter(args, "/cfg"), encodeUTF16(t, sampleExport), 0o600)
	})

	tmpl, err := NewSecedit(r, t.TempDir(), zerolog.Nop()).Export(context.Background())
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	if got := tmpl.Values(SectionPrivilegeRights, ServiceLogonRight); len(got) != 1 || got[0] != "*S-1-5-80-0" {
		t.Errorf("Values() = %v", got)
	}
	if len(calls) != 1 {
		t.Fatalf("calls = %d, want 1", len(calls))
	}
	cmd := strings.Join(calls[0], " ")
	if !strings.HasPrefix(cmd, "secedit.exe /export /cfg ") || !strings.HasSuffix(cmd, "/areas USER_RIGHTS") {
		t.Errorf("unexpected command line: %s", cmd)
	}
}

func TestSeceditExportUTF8(t *testing.T) {
	r := command.RunFunc(func(ctx context.Context, name string, args ...string) (string, error) {
		return "", os.WriteFile(argAfter(args, "/cfg"), []byte(sampleExport), 0o600)
	})
	tmpl, err := NewSecedit(r, t.TempDir(), zerolog.Nop()).Export(context.Background())
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	if !tmpl.Has("SeNetworkLogonRight", "S-1-1-0") {
		t.Error("UTF-8 export not parsed")
	}
}

func TestSeceditExportFailure(t *testing.T) {
	boom := errors.New("exit status 1")
	r := command.RunFunc(func(ctx context.Context, name string, args ...string) (string, error) {
		return "Access is denied.", boom
	})
	_, err := NewSecedit(r, t.TempDir(), zerolog.Nop()).Export(context.Background())
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want %v", err, boom)
	}
}

func TestSeceditExportNoFile(t *testing.T) {
	r := command.RunFunc(func(ctx context.Context, name string, args ...string) (string, error) {
		return "nothing written", nil
	})
	_, err := NewSecedit(r, t.TempDir(), zerolog.Nop()).Export(context.Background())
	if err == nil || !strings.Contains(err.Error(), "nothing written") {
		t.Fatalf("err = %v, want the tool output surfaced", err)
	}
}

func TestSeceditImport(t *testing.T) {
	var imported string
	var args []string
	r := command.RunFunc(func(ctx context.Context, name string, a ...string) (string, error) {
		args = a
		data, err := os.ReadFile(argAfter(a, "/cfg"))
		if err != nil {
			return "", err
		}
		imported = decodeUTF16(t, data)
		return "The task has completed successfully.", nil
	})

	tmpl := mustParse(t, sampleExport)
	tmpl.Grant(ServiceLogonRight, testSID)

	dir := t.TempDir()
	if err := NewSecedit(r, dir, zerolog.Nop()).Import(context.Background(), tmpl); err != nil {
		t.Fatalf("Import: %v", err)
	}

	if args[0] != "/configure" || argAfter(args, "/areas") != "USER_RIGHTS" || args[len(args)-1] != "/quiet" {
		t.Errorf("unexpected arguments: %v", args)
	}
	if argAfter(args, "/db") == "" {
		t.Error("missing /db argument")
	}
	if !strings.Contains(imported, "SeServiceLogonRight = *S-1-5-80-0,*"+testSID+"\r\n") {
		t.Errorf("imported template missing grant:\n%s", imported)
	}
	if !strings.HasPrefix(imported, "[Unicode]\r\n") {
		t.Errorf("imported template should start with [Unicode]:\n%s", imported)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("scratch files left behind: %v", entries)
	}
}
