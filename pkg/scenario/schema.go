package scenario

import (
	"errors"
	"fmt"
)

// Step operations.
const (
	OpPushBack    = "push_back"
	OpPushFront   = "push_front"
	OpEmplaceBack = "emplace_back"
	OpRemove      = "remove"
	OpRemoveFirst = "remove_first"
	OpRemoveLast  = "remove_last"
	OpClear       = "clear"
	OpSnapshot    = "snapshot"
	OpExpect      = "expect"
)

// Common validation errors.
var (
	ErrNoSteps       = errors.New("scenario has no steps")
	ErrUnknownOp     = errors.New("unknown op")
	ErrMissingField  = errors.New("missing field")
	ErrUnknownTarget = errors.New("unknown snapshot")
)

// Scenario is a named sequence of steps run against one fresh vector.
type Scenario struct {
	Name  string `yaml:"name"`
	Steps []Step `yaml:"steps"`
}

// Step is a single operation. Which fields apply depends on Op:
//
//   - push_back, push_front, emplace_back: Value
//   - remove, remove_first, remove_last: Where (expr predicate over v)
//   - snapshot: Name (the capture is stored under this name)
//   - expect: Expect
//   - clear: no fields
//
// Mutating and snapshot steps may also carry an Expect, checked after the
// step runs; Removed then refers to that step's own removal count.
type Step struct {
	Op     string  `yaml:"op"`
	Value  any     `yaml:"value,omitempty"`
	Where  string  `yaml:"where,omitempty"`
	Name   string  `yaml:"name,omitempty"`
	Expect *Expect `yaml:"expect,omitempty"`
}

// Expect describes assertions over the live vector, or over a named
// snapshot when Snapshot is set. Zero-valued fields are not checked.
type Expect struct {
	// Snapshot targets a previously captured snapshot instead of the live
	// vector. Contents, Size, Exists and Absent then run against it.
	Snapshot string `yaml:"snapshot,omitempty"`

	// Contents must equal the sequence exactly, in order.
	Contents []any `yaml:"contents,omitempty"`

	// Size must equal the element count.
	Size *int `yaml:"size,omitempty"`

	// Exists is a predicate that must match at least one element.
	Exists string `yaml:"exists,omitempty"`

	// Absent is a predicate that must match no element.
	Absent string `yaml:"absent,omitempty"`

	// Removed must equal the removal count of the step it is attached to
	// (remove: number removed; remove_first/remove_last: 1 or 0).
	Removed *int `yaml:"removed,omitempty"`
}

// Validate checks structural correctness: known ops, required fields, and
// snapshot references that point at earlier snapshot steps.
func (s *Scenario) Validate() error {
	if len(s.Steps) == 0 {
		return ErrNoSteps
	}

	snapshots := map[string]bool{}
	for i, step := range s.Steps {
		if err := step.validate(snapshots); err != nil {
			return fmt.Errorf("step %d (%s): %w", i+1, step.Op, err)
		}
		if step.Op == OpSnapshot {
			snapshots[step.Name] = true
		}
	}
	return nil
}

func (s *Step) validate(snapshots map[string]bool) error {
	switch s.Op {
	case OpPushBack, OpPushFront, OpEmplaceBack:
		if s.Value == nil {
			return fmt.Errorf("%w: value", ErrMissingField)
		}
	case OpRemove, OpRemoveFirst, OpRemoveLast:
		if s.Where == "" {
			return fmt.Errorf("%w: where", ErrMissingField)
		}
	case OpSnapshot:
		if s.Name == "" {
			return fmt.Errorf("%w: name", ErrMissingField)
		}
	case OpExpect:
		if s.Expect == nil {
			return fmt.Errorf("%w: expect", ErrMissingField)
		}
	case OpClear:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownOp, s.Op)
	}

	if s.Expect != nil {
		if s.Expect.Snapshot != "" && !snapshots[s.Expect.Snapshot] {
			return fmt.Errorf("%w: %q", ErrUnknownTarget, s.Expect.Snapshot)
		}
		if s.Expect.Removed != nil {
			switch s.Op {
			case OpRemove, OpRemoveFirst, OpRemoveLast:
			default:
				return fmt.Errorf("expect.removed is only valid on remove steps")
			}
		}
	}
	return nil
}
