//go:build !windows

package taskscheduler

import (
	"github.com/rs/zerolog"

	so "github.com/iamacarpet/mirrormount/shared"
)

type Scheduler struct {
	log zerolog.Logger
}

func New(log zerolog.Logger) *Scheduler {
	return &Scheduler{log: log}
}

func (s *Scheduler) Exists(name string) (bool, error) { return false, so.ErrUnsupported }

func (s *Scheduler) Delete(name string) error { return so.ErrUnsupported }

func (s *Scheduler) Register(d Definition) error { return so.ErrUnsupported }

func (s *Scheduler) Run(name string) error { return so.ErrUnsupported }
