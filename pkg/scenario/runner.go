package scenario

import (
	"fmt"
	"log/slog"
	"reflect"

	"github.com/google/uuid"

	"github.com/alexandrkozlov/cow/pkg/cow"
	"github.com/alexandrkozlov/cow/pkg/logging"
	"github.com/alexandrkozlov/cow/pkg/predicate"
)

// Result reports one scenario run.
type Result struct {
	RunID    string
	Scenario string
	Steps    int
	Failures []string
}

// OK reports whether every expectation held.
func (r *Result) OK() bool {
	return len(r.Failures) == 0
}

// Runner executes scenarios, each against a fresh vector.
type Runner struct {
	log *slog.Logger
}

// NewRunner creates a Runner logging to log; nil discards logs.
func NewRunner(log *slog.Logger) *Runner {
	if log == nil {
		log = logging.Nop()
	}
	return &Runner{log: log}
}

// Run executes the scenario. Expectation mismatches are collected in the
// Result; an error is returned only when a step cannot run at all (bad
// predicate, invalid scenario).
func (r *Runner) Run(s *Scenario) (*Result, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}

	res := &Result{
		RunID:    uuid.NewString(),
		Scenario: s.Name,
	}
	log := r.log.With("run_id", res.RunID, "scenario", s.Name)
	log.Info("scenario starting", "steps", len(s.Steps))

	vec := cow.New[any]()
	snapshots := map[string]cow.View[any]{}
	defer func() {
		for _, view := range snapshots {
			view.Close()
		}
	}()

	for i, step := range s.Steps {
		removed, err := r.runStep(vec, snapshots, step)
		if err != nil {
			return nil, fmt.Errorf("step %d (%s): %w", i+1, step.Op, err)
		}
		res.Steps++
		log.Debug("step done", "index", i+1, "op", step.Op, "size", vec.Len())

		if step.Expect != nil {
			r.check(vec, snapshots, step, removed, i+1, res)
		}
	}

	if res.OK() {
		log.Info("scenario passed", "steps", res.Steps)
	} else {
		log.Warn("scenario failed", "steps", res.Steps, "failures", len(res.Failures))
	}
	return res, nil
}

// runStep applies one step and returns the removal count for remove ops.
func (r *Runner) runStep(vec *cow.Vector[any], snapshots map[string]cow.View[any], step Step) (int, error) {
	switch step.Op {
	case OpPushBack:
		vec.PushBack(step.Value)
	case OpPushFront:
		vec.PushFront(step.Value)
	case OpEmplaceBack:
		vec.EmplaceBack(func() any { return step.Value })
	case OpRemove, OpRemoveFirst, OpRemoveLast:
		pred, err := predicate.Compile(step.Where)
		if err != nil {
			return 0, err
		}
		switch step.Op {
		case OpRemove:
			return vec.Remove(pred.Match), nil
		case OpRemoveFirst:
			return boolCount(vec.RemoveFirst(pred.Match)), nil
		default:
			return boolCount(vec.RemoveLast(pred.Match)), nil
		}
	case OpClear:
		vec.Clear()
	case OpSnapshot:
		if old, ok := snapshots[step.Name]; ok {
			old.Close()
		}
		snapshots[step.Name] = vec.ReadOnlyCopy()
	case OpExpect:
		// Assertions only; handled by the caller.
	}
	return 0, nil
}

// check runs the step's expectations, appending mismatches to res.
func (r *Runner) check(vec *cow.Vector[any], snapshots map[string]cow.View[any], step Step, removed, stepNo int, res *Result) {
	exp := step.Expect
	fail := func(format string, args ...any) {
		res.Failures = append(res.Failures, fmt.Sprintf("step %d (%s): ", stepNo, step.Op)+fmt.Sprintf(format, args...))
	}

	var (
		size     int
		elems    []any
		matchAny func(*predicate.Predicate) bool
	)
	if exp.Snapshot != "" {
		view := snapshots[exp.Snapshot]
		size = view.Len()
		elems = view.Data()
	} else {
		for e := range vec.All() {
			elems = append(elems, e)
		}
		size = len(elems)
	}
	matchAny = func(p *predicate.Predicate) bool {
		for _, e := range elems {
			if p.Match(e) {
				return true
			}
		}
		return false
	}

	if exp.Removed != nil && *exp.Removed != removed {
		fail("removed = %d, want %d", removed, *exp.Removed)
	}
	if exp.Size != nil && *exp.Size != size {
		fail("size = %d, want %d", size, *exp.Size)
	}
	if exp.Contents != nil && !reflect.DeepEqual(normalize(elems), normalize(exp.Contents)) {
		fail("contents = %v, want %v", elems, exp.Contents)
	}
	if exp.Exists != "" {
		if p, err := predicate.Compile(exp.Exists); err != nil {
			fail("exists predicate: %v", err)
		} else if !matchAny(p) {
			fail("no element matches %q", exp.Exists)
		}
	}
	if exp.Absent != "" {
		if p, err := predicate.Compile(exp.Absent); err != nil {
			fail("absent predicate: %v", err)
		} else if matchAny(p) {
			fail("an element matches %q, want none", exp.Absent)
		}
	}
}

// normalize maps an empty sequence to nil so that "contents: []" compares
// equal to an empty vector.
func normalize(elems []any) []any {
	if len(elems) == 0 {
		return nil
	}
	return elems
}

func boolCount(ok bool) int {
	if ok {
		return 1
	}
	return 0
}
