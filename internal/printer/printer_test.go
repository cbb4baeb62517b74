package printer

import (
	"bytes"
	"strings"
	"testing"

	"github.com/fatih/color"
)

func plainConfig(buf *bytes.Buffer) *PrinterConfig {
	plain := func(format string, a ...interface{}) string { return color.New().Sprintf(format, a...) }
	cfg := DefaultPrinterConfig()
	cfg.Writer = buf
	cfg.StepFormatter = plain
	cfg.OutputFormatter = plain
	cfg.SuccessFormatter = plain
	cfg.FailureFormatter = plain
	cfg.WarningFormatter = plain
	return cfg
}

func TestPrinterSymbols(t *testing.T) {
	color.NoColor = true
	var buf bytes.Buffer
	p := NewPrinter().SetConfigs(plainConfig(&buf))

	p.Step("Account")
	p.PrintSuccess("created mirrorsvc")
	p.PrintWarning("share unreachable")
	p.PrintFailure("access denied")

	out := buf.String()
	for _, want := range []string{"[>] Account", "[*] created mirrorsvc", "[!] share unreachable", "[-] access denied"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestPrinterOutcomes(t *testing.T) {
	color.NoColor = true
	var buf bytes.Buffer
	p := NewPrinter().SetConfigs(plainConfig(&buf))

	p.Step("Service")
	p.Record(OutcomeDone, "stopped")
	p.Record(OutcomeWarning, "start not observed")
	p.Step("Task")
	p.Record(OutcomeDone, "registered")

	got := p.Outcomes()
	if got["Service"] != OutcomeWarning {
		t.Errorf("Service = %q, want %q", got["Service"], OutcomeWarning)
	}
	if got["Task"] != OutcomeDone {
		t.Errorf("Task = %q, want %q", got["Task"], OutcomeDone)
	}

	buf.Reset()
	p.Summary()
	out := buf.String()
	for _, want := range []string{"Step", "Service", "start not observed", "registered"} {
		if !strings.Contains(out, want) {
			t.Errorf("summary missing %q:\n%s", want, out)
		}
	}
}
