package printer

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/fatih/color"
	"github.com/rodaine/table"
)

type Formatter func(string, ...interface{}) string

type Outcome string

const (
	OutcomeDone    Outcome = "done"
	OutcomeSkipped Outcome = "skipped"
	OutcomeWarning Outcome = "warning"
	OutcomeFailed  Outcome = "failed"
)

type Printer struct {
	mu      sync.Mutex
	config  *PrinterConfig
	step    string
	results []result
}

type result struct {
	step    string
	outcome Outcome
	detail  string
}

type PrinterConfig struct {
	Writer           io.Writer
	StepFormatter    Formatter
	OutputFormatter  Formatter
	SuccessFormatter Formatter
	SuccessSymbol    string
	FailureFormatter Formatter
	FailureSymbol    string
	WarningFormatter Formatter
	WarningSymbol    string
	StepSymbol       string
}

func DefaultPrinterConfig() *PrinterConfig {
	return &PrinterConfig{
		Writer:           os.Stdout,
		StepFormatter:    color.New(color.FgBlue, color.Bold).SprintfFunc(),
		OutputFormatter:  color.New(color.FgHiYellow).SprintfFunc(),
		SuccessFormatter: color.New(color.FgGreen, color.Bold).SprintfFunc(),
		FailureFormatter: color.New(color.FgRed, color.Bold).SprintfFunc(),
		WarningFormatter: color.New(color.FgYellow, color.Bold).SprintfFunc(),
		SuccessSymbol:    "[*]",
		FailureSymbol:    "[-]",
		WarningSymbol:    "[!]",
		StepSymbol:       "[>]",
	}
}

func NewPrinter() *Printer {
	return &Printer{config: DefaultPrinterConfig()}
}

func (p *Printer) SetConfigs(cfg *PrinterConfig) *Printer {
	p.config = cfg
	return p
}

func (p *Printer) print(symbol string, msg ...string) {
	txt := strings.Join(msg, " ")
	if symbol == "" {
		txt = "  " + p.config.OutputFormatter("%s", txt)
	}
	fmt.Fprintf(p.config.Writer, "%s%s\n", symbol, txt)
}

// Step announces a new workflow step. Outcomes recorded afterwards are
// attributed to it in the summary.
func (p *Printer) Step(name string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.step = name
	fmt.Fprintf(p.config.Writer, "%s\n", p.config.StepFormatter("%s %s", p.config.StepSymbol, name))
}

func (p *Printer) Print(msg ...string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.print("", msg...)
}

func (p *Printer) PrintSuccess(msg ...string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.print(p.config.SuccessFormatter("  %s ", p.config.SuccessSymbol), msg...)
}

func (p *Printer) PrintFailure(msg ...string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.print(p.config.FailureFormatter("  %s ", p.config.FailureSymbol), msg...)
}

func (p *Printer) PrintWarning(msg ...string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.print(p.config.WarningFormatter("  %s ", p.config.WarningSymbol), msg...)
}

func (p *Printer) PrintInfo(msg ...string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.print(color.BlueString("  %s ", p.config.SuccessSymbol), msg...)
}

// Record stores the outcome of the current step for the summary table.
func (p *Printer) Record(outcome Outcome, detail string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.results = append(p.results, result{step: p.step, outcome: outcome, detail: detail})
}

func (p *Printer) Outcomes() map[string]Outcome {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make(map[string]Outcome, len(p.results))
	for _, r := range p.results {
		if cur, ok := out[r.step]; ok && severity(cur) >= severity(r.outcome) {
			continue
		}
		out[r.step] = r.outcome
	}
	return out
}

func severity(o Outcome) int {
	switch o {
	case OutcomeFailed:
		return 3
	case OutcomeWarning:
		return 2
	case OutcomeDone:
		return 1
	}
	return 0
}

// Summary prints every recorded outcome as a table.
func (p *Printer) Summary() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.results) == 0 {
		return
	}
	tbl := table.New("Step", "Result", "Detail").WithWriter(p.config.Writer)
	tbl.WithHeaderFormatter(color.New(color.FgGreen, color.Underline).SprintfFunc()).WithFirstColumnFormatter(color.New(color.FgYellow).SprintfFunc())
	for _, r := range p.results {
		tbl.AddRow(r.step, string(r.outcome), r.detail)
	}
	fmt.Fprintln(p.config.Writer)
	tbl.Print()
}
