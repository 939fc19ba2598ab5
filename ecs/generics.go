package ecs

import (
	"fmt"

	"github.com/milk9111/aicore/ecs/component"
)

// Add attaches value to e under kind, replacing any previous value.
func Add[T any](w *World, e Entity, kind component.ComponentKind[T], value *T) error {
	if !kind.Valid() {
		return component.ErrInvalidComponentKind
	}
	if value == nil {
		return component.ErrNilComponent
	}
	if !IsAlive(w, e) {
		return fmt.Errorf("%w: %s", component.ErrEntityNotAlive, e)
	}
	storeFor(w, kind, true).Set(e, value)
	return nil
}

func Remove[T any](w *World, e Entity, kind component.ComponentKind[T]) bool {
	return storeFor(w, kind, false).Remove(e)
}

func Has[T any](w *World, e Entity, kind component.ComponentKind[T]) bool {
	return storeFor(w, kind, false).Has(e)
}

func Get[T any](w *World, e Entity, kind component.ComponentKind[T]) (*T, bool) {
	v := storeFor(w, kind, false).Get(e)
	return v, v != nil
}

// ForEach visits every entity holding kind. fn must not add or remove
// components of kind.
func ForEach[T any](w *World, kind component.ComponentKind[T], fn func(Entity, *T)) {
	s := storeFor(w, kind, false)
	for _, e := range s.Entities() {
		fn(e, s.Get(e))
	}
}

// ForEach2 visits entities holding both kinds, iterating the smaller store.
func ForEach2[A, B any](w *World, ka component.ComponentKind[A], kb component.ComponentKind[B], fn func(Entity, *A, *B)) {
	sa := storeFor(w, ka, false)
	sb := storeFor(w, kb, false)
	if sa.Len() == 0 || sb.Len() == 0 {
		return
	}
	for _, e := range smaller(sa.Entities(), sb.Entities()) {
		a, b := sa.Get(e), sb.Get(e)
		if a == nil || b == nil {
			continue
		}
		fn(e, a, b)
	}
}

func ForEach3[A, B, C any](w *World, ka component.ComponentKind[A], kb component.ComponentKind[B], kc component.ComponentKind[C], fn func(Entity, *A, *B, *C)) {
	sc := storeFor(w, kc, false)
	ForEach2(w, ka, kb, func(e Entity, a *A, b *B) {
		if c := sc.Get(e); c != nil {
			fn(e, a, b, c)
		}
	})
}

func ForEach4[A, B, C, D any](w *World, ka component.ComponentKind[A], kb component.ComponentKind[B], kc component.ComponentKind[C], kd component.ComponentKind[D], fn func(Entity, *A, *B, *C, *D)) {
	sd := storeFor(w, kd, false)
	ForEach3(w, ka, kb, kc, func(e Entity, a *A, b *B, c *C) {
		if d := sd.Get(e); d != nil {
			fn(e, a, b, c, d)
		}
	})
}

// smaller returns a copy of the shorter list so callbacks may mutate the
// stores safely.
func smaller(a, b []Entity) []Entity {
	if len(b) < len(a) {
		a = b
	}
	return append([]Entity(nil), a...)
}
