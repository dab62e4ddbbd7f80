// Package pubsub provides an ordered subscriber registry that does not keep
// its subscribers alive.
//
// Subscribers are held through weak pointers. Whoever wires the graph keeps
// the strong references; once a subscriber becomes unreachable it is skipped
// at notification time. Entries are removed only by Unsubscribe.
package pubsub

import (
	"fmt"
	"reflect"
	"weak"
)

// Ref is a non-owning handle to a subscriber seen through capability T.
// Two Refs made from the same pointer are equal subscribers.
type Ref[T any] struct {
	id   any
	load func() (T, bool)
}

// Weak makes a Ref to p viewed as T. It panics if *E does not implement T.
//
//	reg.Subscribe(pubsub.Weak[ports.Sink](consoleSink))
func Weak[T any, E any](p *E) Ref[T] {
	if _, ok := any(p).(T); !ok {
		panic(fmt.Sprintf("pubsub: %T does not implement %v", p, reflect.TypeFor[T]()))
	}
	wp := weak.Make(p)
	return Ref[T]{
		id: wp,
		load: func() (T, bool) {
			e := wp.Value()
			if e == nil {
				var zero T
				return zero, false
			}
			return any(e).(T), true
		},
	}
}

// Get returns the subscriber if it is still alive.
func (r Ref[T]) Get() (T, bool) {
	if r.load == nil {
		var zero T
		return zero, false
	}
	return r.load()
}

// Registry is an ordered list of weakly referenced subscribers.
// The zero value is ready to use. A Registry is not safe for concurrent use.
type Registry[T any] struct {
	refs []Ref[T]
}

// Subscribe appends ref unless the same subscriber is already registered.
func (r *Registry[T]) Subscribe(ref Ref[T]) {
	if r.find(ref) >= 0 {
		return
	}
	r.refs = append(r.refs, ref)
}

// Unsubscribe removes ref if present.
func (r *Registry[T]) Unsubscribe(ref Ref[T]) {
	i := r.find(ref)
	if i < 0 {
		return
	}
	r.refs = append(r.refs[:i], r.refs[i+1:]...)
}

// Len returns the number of registered entries, alive or not.
func (r *Registry[T]) Len() int {
	return len(r.refs)
}

// Notify calls fn for every live subscriber in subscription order.
// Expired subscribers are skipped and kept. It returns the number notified.
func (r *Registry[T]) Notify(fn func(T)) int {
	// Snapshot so subscribers may (un)subscribe during notification.
	refs := append([]Ref[T](nil), r.refs...)
	n := 0
	for _, ref := range refs {
		sub, ok := ref.Get()
		if !ok {
			continue
		}
		fn(sub)
		n++
	}
	return n
}

func (r *Registry[T]) find(ref Ref[T]) int {
	for i, existing := range r.refs {
		if existing.id == ref.id {
			return i
		}
	}
	return -1
}
