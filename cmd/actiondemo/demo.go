package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"github.com/milk9111/aicore/action"
	"github.com/milk9111/aicore/ecs"
	"github.com/milk9111/aicore/ecs/component"
	"github.com/milk9111/aicore/ecs/system"
	"github.com/milk9111/aicore/prefabs"
)

const rule = "======================================================="

type demo struct {
	out     io.Writer
	logger  *zap.Logger
	plan    *prefabs.ActionPlan
	planRef string

	manager *action.Manager
	world   *ecs.World
	sched   *ecs.Scheduler
	watcher *prefabs.Watcher
}

func newDemo(planRef string, out io.Writer, logger *zap.Logger) (*demo, error) {
	plan, err := prefabs.LoadActionPlan(planRef, logger)
	if err != nil {
		return nil, err
	}
	d := &demo{
		out:     out,
		logger:  logger,
		plan:    plan,
		planRef: planRef,
		manager: action.NewManager(action.WithLogger(logger)),
		world:   ecs.NewWorld(),
		sched:   ecs.NewScheduler(system.NewActionSystem()),
	}
	e := ecs.CreateEntity(d.world)
	if err := ecs.Add(d.world, e, component.ActorComponent.Kind(), &component.Actor{Manager: d.manager}); err != nil {
		return nil, err
	}
	return d, nil
}

func (d *demo) run(in *bufio.Scanner) {
	fmt.Fprintln(d.out, "AI4G: Action Manager Demo (type q to exit)")
	for {
		fmt.Fprintf(d.out, "\n%s\n", rule)
		d.display()
		fmt.Fprintf(d.out, "\nType 'h' for command list\n> ")
		if !in.Scan() {
			return
		}
		d.pollReload()
		if d.process(in.Text()) {
			return
		}
	}
}

// process handles one command line. It reports whether to quit.
func (d *demo) process(line string) bool {
	cmd := strings.TrimSpace(line)
	if cmd == "" {
		return false
	}
	key := strings.ToLower(cmd[:1])
	switch key {
	case "q":
		return true
	case "h":
		d.help()
		return false
	case "r":
		d.sched.Update(d.world)
		return false
	}

	a, err := d.plan.Build(key)
	if err != nil {
		fmt.Fprintln(d.out, "Command not understood")
		return false
	}
	d.trace(a)
	if err := d.manager.Schedule(a); err != nil {
		fmt.Fprintf(d.out, "Could not schedule: %v\n", err)
		return false
	}
	fmt.Fprintf(d.out, "Scheduling %s.\n", describe(a))
	return false
}

// trace prints each counted action's work as it happens.
func (d *demo) trace(a action.Action) {
	switch v := a.(type) {
	case *action.CountedAction:
		v.OnAct = func(c *action.CountedAction) {
			fmt.Fprintf(d.out, "Doing: %s [id=%s]\n", c.ActionName(), shortID(c))
		}
	case interface{ SubActions() []action.Action }:
		for _, sub := range v.SubActions() {
			d.trace(sub)
		}
	}
}

func (d *demo) help() {
	fmt.Fprintln(d.out, "\th - this list of commands")
	fmt.Fprintln(d.out, "\tr - run the action manager")
	for _, k := range d.plan.Keys() {
		spec, _ := d.plan.Spec(k)
		fmt.Fprintf(d.out, "\t%s - schedule %s\n", k, spec.Name)
	}
	fmt.Fprintln(d.out, "\tq - quit")
}

func (d *demo) display() {
	fmt.Fprintln(d.out, "Active actions:")
	d.list(d.manager.Active())
	fmt.Fprintln(d.out, "Action queue:")
	d.list(d.manager.Queue())
}

func (d *demo) list(actions []action.Action) {
	if len(actions) == 0 {
		fmt.Fprintln(d.out, "Empty")
		return
	}
	for _, a := range actions {
		fmt.Fprintf(d.out, "Action: %s - priority %f\n", describe(a), a.Priority())
	}
}

func (d *demo) pollReload() {
	if d.watcher == nil {
		return
	}
	for {
		select {
		case ch, ok := <-d.watcher.Events:
			if !ok {
				d.watcher = nil
				return
			}
			if ch.Kind == prefabs.ChangeSpec && ch.Name() != d.planRef {
				continue
			}
			plan, err := prefabs.LoadActionPlan(d.planRef, d.logger)
			if err != nil {
				d.logger.Error("actiondemo: reload failed", zap.String("file", ch.Path), zap.Error(err))
				continue
			}
			d.plan = plan
			fmt.Fprintf(d.out, "Reloaded %s.\n", d.planRef)
		case err, ok := <-d.watcher.Errors:
			if ok {
				d.logger.Warn("actiondemo: watcher", zap.Error(err))
			}
		default:
			return
		}
	}
}

func describe(a action.Action) string {
	if id, ok := a.(action.Identified); ok {
		return fmt.Sprintf("%s [id=%s]", id.ActionName(), shortID(id))
	}
	return fmt.Sprintf("%T", a)
}

func shortID(id action.Identified) string {
	return id.ActionID().String()[:8]
}
