// Package taskscheduler registers boot-time tasks with the Windows Task
// Scheduler.
package taskscheduler

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Definition describes a task that runs Command at system start as User.
type Definition struct {
	Name             string
	Description      string
	Author           string
	User             string
	Password         string
	Command          string
	Arguments        string
	WorkingDirectory string
	// BootDelay postpones the action after the boot trigger fires.
	BootDelay time.Duration
}

func (d Definition) Validate() error {
	var missing []string
	if d.Name == "" {
		missing = append(missing, "name")
	}
	if d.User == "" {
		missing = append(missing, "user")
	}
	if d.Command == "" {
		missing = append(missing, "command")
	}
	if len(missing) > 0 {
		return fmt.Errorf("task definition is missing %s", strings.Join(missing, ", "))
	}
	if strings.ContainsAny(d.Name, `\/`) {
		return errors.New("task name must not contain path separators")
	}
	return nil
}

// TaskName derives the per drive letter task name, e.g. MirrorMount-M.
func TaskName(prefix, letter string) string {
	return prefix + "-" + strings.ToUpper(strings.TrimSuffix(letter, ":"))
}

// ScriptAction returns the command and arguments that run a batch script
// through cmd.exe.
func ScriptAction(script string) (string, string) {
	return "cmd.exe", `/c "` + script + `"`
}

// isoDuration renders d in the ISO 8601 form Task Scheduler expects. Zero
// means no limit.
func isoDuration(d time.Duration) string {
	secs := int64(d / time.Second)
	if secs <= 0 {
		return "PT0S"
	}
	var b strings.Builder
	b.WriteString("PT")
	if h := secs / 3600; h > 0 {
		fmt.Fprintf(&b, "%dH", h)
	}
	if m := secs % 3600 / 60; m > 0 {
		fmt.Fprintf(&b, "%dM", m)
	}
	if s := secs % 60; s > 0 {
		fmt.Fprintf(&b, "%dS", s)
	}
	return b.String()
}
