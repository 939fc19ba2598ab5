package prefabs

import (
	"errors"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/milk9111/aicore/action"
)

const (
	KindCounted     = "counted"
	KindCombination = "combination"
	KindSequence    = "sequence"
	KindScript      = "script"
)

var (
	ErrInvalidAction = errors.New("prefabs: invalid action")
	ErrUnknownKey    = errors.New("prefabs: unknown action key")
)

// BuildAction creates a fresh action from spec. Actions are consumed by the
// manager that runs them, so every schedule needs a new one.
func BuildAction(spec ActionSpec, logger *zap.Logger) (action.Action, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	priority := 0.0
	if spec.Priority != nil {
		priority = *spec.Priority
	}
	name := spec.Name
	if name == "" {
		name = spec.Kind
	}

	switch spec.Kind {
	case "", KindCounted:
		count := spec.Count
		if count <= 0 {
			count = 1
		}
		return action.NewCountedAction(name, priority, count, spec.Interrupt, spec.Tags...), nil

	case KindCombination, KindSequence:
		if len(spec.Children) == 0 {
			return nil, fmt.Errorf("%w: %s %q has no children", ErrInvalidAction, spec.Kind, name)
		}
		subs := make([]action.Action, 0, len(spec.Children))
		for i, child := range spec.Children {
			a, err := BuildAction(child, logger)
			if err != nil {
				return nil, fmt.Errorf("prefabs: %s child %d: %w", name, i, err)
			}
			subs = append(subs, a)
		}
		if spec.Kind == KindCombination {
			c, err := action.NewCombination(name, priority, subs...)
			if err != nil {
				return nil, err
			}
			return c, nil
		}
		seq, err := action.NewSequence(name, priority, subs...)
		if err != nil {
			return nil, err
		}
		return seq, nil

	case KindScript:
		if spec.Script == "" {
			return nil, fmt.Errorf("%w: script action %q names no script", ErrInvalidAction, name)
		}
		src, err := LoadScript(spec.Script)
		if err != nil {
			return nil, fmt.Errorf("prefabs: load script %s: %w", spec.Script, err)
		}
		opts := []action.ScriptOption{action.WithScriptLogger(logger)}
		if spec.Priority != nil {
			opts = append(opts, action.WithPriority(priority))
		}
		a, err := action.NewScriptAction(name, src, opts...)
		if err != nil {
			return nil, err
		}
		return a, nil
	}
	return nil, fmt.Errorf("%w: unknown kind %q", ErrInvalidAction, spec.Kind)
}

// ActionPlan maps input keys to action specs.
type ActionPlan struct {
	Name   string
	byKey  map[string]ActionSpec
	logger *zap.Logger
}

// NewActionPlan validates spec by building every action once.
func NewActionPlan(spec ActionPlanSpec, logger *zap.Logger) (*ActionPlan, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	p := &ActionPlan{Name: spec.Name, byKey: make(map[string]ActionSpec, len(spec.Actions)), logger: logger}
	for i, a := range spec.Actions {
		if a.Key == "" {
			return nil, fmt.Errorf("%w: action %d has no key", ErrInvalidAction, i)
		}
		if _, dup := p.byKey[a.Key]; dup {
			return nil, fmt.Errorf("%w: duplicate key %q", ErrInvalidAction, a.Key)
		}
		if _, err := BuildAction(a, logger); err != nil {
			return nil, err
		}
		p.byKey[a.Key] = a
	}
	return p, nil
}

// LoadActionPlan loads and validates the named plan file.
func LoadActionPlan(filename string, logger *zap.Logger) (*ActionPlan, error) {
	spec, err := LoadActionPlanSpec(filename)
	if err != nil {
		return nil, err
	}
	return NewActionPlan(spec, logger)
}

// Keys returns the bound keys in sorted order.
func (p *ActionPlan) Keys() []string {
	keys := make([]string, 0, len(p.byKey))
	for k := range p.byKey {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (p *ActionPlan) Spec(key string) (ActionSpec, bool) {
	s, ok := p.byKey[key]
	return s, ok
}

// Build creates a fresh action for key.
func (p *ActionPlan) Build(key string) (action.Action, error) {
	s, ok := p.byKey[key]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownKey, key)
	}
	return BuildAction(s, p.logger)
}
