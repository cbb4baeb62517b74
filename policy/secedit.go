package policy

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/iamacarpet/mirrormount/internal/command"
)

const (
	seceditExe = "secedit.exe"
	areaRights = "USER_RIGHTS"
)

// Secedit exports and imports the local security policy with secedit.exe.
type Secedit struct {
	runner  command.Runner
	tempDir string
	log     zerolog.Logger
}

// NewSecedit returns a store running secedit through r. Scratch files are
// created under tempDir, or the system temp directory when it is empty.
func NewSecedit(r command.Runner, tempDir string, log zerolog.Logger) *Secedit {
	return &Secedit{runner: r, tempDir: tempDir, log: log}
}

// Export returns the current user rights assignments.
func (s *Secedit) Export(ctx context.Context) (*Template, error) {
	dir, err := os.MkdirTemp(s.tempDir, "mirrormount-secedit-")
	if err != nil {
		return nil, fmt.Errorf("create scratch directory: %w", err)
	}
	defer os.RemoveAll(dir)

	cfg := filepath.Join(dir, "export.inf")
	out, err := s.runner.Run(ctx, seceditExe, "/export", "/cfg", cfg, "/areas", areaRights)
	if err != nil {
		return nil, fmt.Errorf("secedit export: %w", err)
	}
	s.log.Debug().Str("output", out).Msg("policy exported")

	f, err := os.Open(cfg)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("secedit export wrote no policy file: %s", out)
	} else if err != nil {
		return nil, fmt.Errorf("open exported policy: %w", err)
	}
	defer f.Close()

	// secedit writes UTF-16LE with a BOM; fall back to UTF-8 without one.
	t, err := Parse(transform.NewReader(f, unicode.BOMOverride(unicode.UTF8.NewDecoder())))
	if err != nil {
		return nil, fmt.Errorf("parse exported policy: %w", err)
	}
	return t, nil
}

// Import applies the privilege rights of t. Only the USER_RIGHTS area is
// configured.
func (s *Secedit) Import(ctx context.Context, t *Template) error {
	dir, err := os.MkdirTemp(s.tempDir, "mirrormount-secedit-")
	if err != nil {
		return fmt.Errorf("create scratch directory: %w", err)
	}
	defer os.RemoveAll(dir)

	cfg := filepath.Join(dir, "import.inf")
	if err := writeUTF16(cfg, UserRights(t)); err != nil {
		return err
	}

	db := filepath.Join(dir, "import.sdb")
	out, err := s.runner.Run(ctx, seceditExe, "/configure", "/db", db, "/cfg", cfg, "/areas", areaRights, "/quiet")
	if err != nil {
		return fmt.Errorf("secedit configure: %w", err)
	}
	s.log.Debug().Str("output", out).Msg("policy imported")
	return nil
}

func writeUTF16(path string, t *Template) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create policy file: %w", err)
	}
	w := transform.NewWriter(f, unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewEncoder())
	if _, err := t.WriteTo(w); err != nil {
		f.Close()
		return fmt.Errorf("write policy file: %w", err)
	}
	if err := w.Close(); err != nil {
		f.Close()
		return fmt.Errorf("write policy file: %w", err)
	}
	return f.Close()
}
