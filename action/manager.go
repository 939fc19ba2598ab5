package action

import (
	"errors"

	"go.uber.org/zap"
)

var (
	ErrNilAction = errors.New("action: action is nil")
	// ErrExecuting is returned when an action tries to schedule work on the
	// manager that is currently running it.
	ErrExecuting = errors.New("action: manager is executing")
)

// Manager queues actions by priority, lets high priority actions interrupt
// the running set, merges compatible actions into it and runs it.
type Manager struct {
	queue          []Action
	active         []Action
	activePriority float64
	executing      bool

	logger *zap.Logger
}

type ManagerOption func(m *Manager)

func WithLogger(l *zap.Logger) ManagerOption {
	return func(m *Manager) {
		if l != nil {
			m.logger = l
		}
	}
}

func NewManager(opts ...ManagerOption) *Manager {
	m := &Manager{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Queue returns the pending actions, highest priority first.
func (m *Manager) Queue() []Action {
	return append([]Action(nil), m.queue...)
}

// Active returns the running actions.
func (m *Manager) Active() []Action {
	return append([]Action(nil), m.active...)
}

// ActivePriority is the priority a queued action must reach to interrupt.
func (m *Manager) ActivePriority() float64 {
	return m.activePriority
}

// Len returns the number of queued and active actions.
func (m *Manager) Len() int {
	return len(m.queue) + len(m.active)
}

// Schedule queues a. Actions of equal priority keep their scheduling order.
func (m *Manager) Schedule(a Action) error {
	if a == nil {
		return ErrNilAction
	}
	if m.executing {
		return ErrExecuting
	}
	i := 0
	for i < len(m.queue) && a.Priority() <= m.queue[i].Priority() {
		i++
	}
	m.queue = append(m.queue, nil)
	copy(m.queue[i+1:], m.queue[i:])
	m.queue[i] = a
	m.logger.Debug("action: scheduled", actionFields(a, zap.Int("position", i))...)
	return nil
}

// Execute runs one tick: interrupts, merges, then acts.
func (m *Manager) Execute() {
	m.executing = true
	defer func() { m.executing = false }()

	m.checkInterrupts()
	m.addAllToActive()
	m.runActive()
}

func (m *Manager) checkInterrupts() {
	for i, a := range m.queue {
		if a.Priority() < m.activePriority {
			return
		}
		if !a.CanInterrupt() {
			continue
		}
		for _, dropped := range m.active {
			m.logger.Debug("action: interrupted", actionFields(dropped)...)
		}
		m.active = append(m.active[:0], a)
		m.activePriority = a.Priority()
		m.queue = append(m.queue[:i], m.queue[i+1:]...)
		m.logger.Debug("action: interrupting", actionFields(a)...)
		// The queue is sorted, so the first interrupter is the strongest.
		return
	}
}

func (m *Manager) addAllToActive() {
	for i := 0; i < len(m.queue); {
		a := m.queue[i]
		if !m.compatibleWithActive(a) {
			i++
			continue
		}
		m.queue = append(m.queue[:i], m.queue[i+1:]...)
		m.active = append([]Action{a}, m.active...)
		m.logger.Debug("action: activated", actionFields(a)...)
	}
}

func (m *Manager) compatibleWithActive(a Action) bool {
	for _, b := range m.active {
		if !b.CanDoBoth(a) || !a.CanDoBoth(b) {
			return false
		}
	}
	return true
}

func (m *Manager) runActive() {
	kept := m.active[:0]
	for _, a := range m.active {
		a.Act()
		if a.IsComplete() {
			m.logger.Debug("action: complete", actionFields(a)...)
			continue
		}
		kept = append(kept, a)
	}
	clear(m.active[len(kept):])
	m.active = kept
}

func actionFields(a Action, extra ...zap.Field) []zap.Field {
	fields := make([]zap.Field, 0, 3+len(extra))
	if id, ok := a.(Identified); ok {
		fields = append(fields, zap.String("name", id.ActionName()), zap.Stringer("id", id.ActionID()))
	}
	fields = append(fields, zap.Float64("priority", a.Priority()))
	return append(fields, extra...)
}
