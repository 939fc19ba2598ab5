package action

import (
	"fmt"
	"strings"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"go.uber.org/zap"
)

// scriptDispatch is appended to every action script. The script must define
// act(engine, state); it may set the globals priority, can_interrupt and
// tags.
const scriptDispatch = `
if __phase == "act" {
	act(__engine, __state)
}
`

// ScriptAction is an action whose tick is written in tengo. The script
// finishes the action by calling engine.complete().
type ScriptAction struct {
	Base
	interrupt bool
	tags      []string

	compiled *tengo.Compiled
	state    *tengo.Map
	engine   *tengo.ImmutableMap
	ticks    int
	done     bool
	logger   *zap.Logger
}

type ScriptOption func(a *ScriptAction)

func WithScriptLogger(l *zap.Logger) ScriptOption {
	return func(a *ScriptAction) {
		if l != nil {
			a.logger = l
		}
	}
}

// WithPriority overrides the priority declared by the script.
func WithPriority(p float64) ScriptOption {
	return func(a *ScriptAction) {
		a.SetPriority(p)
	}
}

// NewScriptAction compiles src and reads its declared globals.
func NewScriptAction(name string, src []byte, opts ...ScriptOption) (*ScriptAction, error) {
	script := tengo.NewScript([]byte(string(src) + "\n" + scriptDispatch))
	_ = script.Add("__phase", "")
	_ = script.Add("__engine", map[string]any{})
	_ = script.Add("__state", map[string]any{})
	script.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))

	compiled, err := script.Compile()
	if err != nil {
		return nil, fmt.Errorf("action: compile script %q: %w", name, err)
	}

	a := &ScriptAction{
		Base:     NewBase(name, 0),
		compiled: compiled,
		state:    &tengo.Map{Value: map[string]tengo.Object{}},
		logger:   zap.NewNop(),
	}
	a.engine = a.buildEngine()

	if err := a.run("init"); err != nil {
		return nil, fmt.Errorf("action: init script %q: %w", name, err)
	}
	if compiled.IsDefined("priority") {
		a.SetPriority(compiled.Get("priority").Float())
	}
	if compiled.IsDefined("can_interrupt") {
		a.interrupt = compiled.Get("can_interrupt").Bool()
	}
	if compiled.IsDefined("tags") {
		for _, t := range compiled.Get("tags").Array() {
			if s := strings.TrimSpace(fmt.Sprint(t)); s != "" {
				a.tags = append(a.tags, s)
			}
		}
	}

	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

// Act runs the script's act function. A script error finishes the action.
func (a *ScriptAction) Act() {
	if a.done {
		return
	}
	a.ticks++
	if err := a.run("act"); err != nil {
		a.logger.Warn("action: script failed",
			zap.String("name", a.ActionName()),
			zap.Int("tick", a.ticks),
			zap.Error(err),
		)
		a.done = true
	}
}

func (a *ScriptAction) IsComplete() bool {
	return a.done
}

func (a *ScriptAction) CanInterrupt() bool {
	return a.interrupt
}

func (a *ScriptAction) Tags() []string {
	return a.tags
}

func (a *ScriptAction) CanDoBoth(other Action) bool {
	return tagsDisjoint(a.tags, other)
}

// Ticks returns how many times the action has acted.
func (a *ScriptAction) Ticks() int {
	return a.ticks
}

// State returns a copy of the script's persistent state map.
func (a *ScriptAction) State() map[string]any {
	out := make(map[string]any, len(a.state.Value))
	for k, v := range a.state.Value {
		out[k] = tengo.ToInterface(v)
	}
	return out
}

func (a *ScriptAction) run(phase string) error {
	if err := a.compiled.Set("__phase", phase); err != nil {
		return err
	}
	if err := a.compiled.Set("__engine", a.engine); err != nil {
		return err
	}
	if err := a.compiled.Set("__state", a.state); err != nil {
		return err
	}
	return a.compiled.Run()
}

func (a *ScriptAction) buildEngine() *tengo.ImmutableMap {
	values := map[string]tengo.Object{}

	values["complete"] = &tengo.UserFunction{Name: "complete", Value: func(args ...tengo.Object) (tengo.Object, error) {
		a.done = true
		return tengo.TrueValue, nil
	}}

	values["tick"] = &tengo.UserFunction{Name: "tick", Value: func(args ...tengo.Object) (tengo.Object, error) {
		return &tengo.Int{Value: int64(a.ticks)}, nil
	}}

	values["log"] = &tengo.UserFunction{Name: "log", Value: func(args ...tengo.Object) (tengo.Object, error) {
		parts := make([]string, 0, len(args))
		for _, arg := range args {
			parts = append(parts, objectString(arg))
		}
		a.logger.Info("action: script",
			zap.String("name", a.ActionName()),
			zap.String("msg", strings.Join(parts, " ")),
		)
		return tengo.UndefinedValue, nil
	}}

	values["name"] = &tengo.String{Value: a.ActionName()}

	return &tengo.ImmutableMap{Value: values}
}

func objectString(o tengo.Object) string {
	if s, ok := tengo.ToString(o); ok {
		return s
	}
	return o.String()
}
