package service

import (
	"fmt"

	"croncommander/internal/domain"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// filterEnv is what a filter expression can see about a job
type filterEnv struct {
	Hook       string `expr:"hook"`
	Due        int64  `expr:"due"`
	Recurrence string `expr:"recurrence"`
	Recurring  bool   `expr:"recurring"`
}

// JobFilter is a compiled boolean expression over a job, e.g.
// `recurring && hook startsWith "wp_"`
type JobFilter struct {
	source  string
	program *vm.Program
}

// CompileFilter compiles src; an empty source yields a nil filter that keeps everything
func CompileFilter(src string) (*JobFilter, error) {
	if src == "" {
		return nil, nil
	}

	program, err := expr.Compile(src, expr.Env(filterEnv{}), expr.AsBool())
	if err != nil {
		return nil, fmt.Errorf("%w: filter: %v", domain.ErrInvalidInput, err)
	}

	return &JobFilter{source: src, program: program}, nil
}

// Apply returns a snapshot holding only the jobs the expression accepts
func (f *JobFilter) Apply(snapshot *domain.ScheduleSnapshot) (*domain.ScheduleSnapshot, error) {
	if f == nil {
		return snapshot, nil
	}

	kept := make([]domain.ScheduledJob, 0, snapshot.Len())
	for _, job := range snapshot.Jobs() {
		out, err := expr.Run(f.program, filterEnv{
			Hook:       job.HookID,
			Due:        job.DueTime,
			Recurrence: job.Recurrence,
			Recurring:  job.IsRecurring(),
		})
		if err != nil {
			return nil, fmt.Errorf("%w: filter %q: %v", domain.ErrInvalidInput, f.source, err)
		}
		if match, _ := out.(bool); match {
			kept = append(kept, job)
		}
	}

	return domain.NewScheduleSnapshot(kept), nil
}
