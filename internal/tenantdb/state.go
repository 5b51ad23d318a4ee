package tenantdb

// State is the lifecycle of a collection handle.
type State int

// Collection states. A handle without tenant goes straight to Ready.
const (
	Uninitialized State = iota
	Loading
	Ready
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case Loading:
		return "loading"
	case Ready:
		return "ready"
	default:
		return "unknown"
	}
}

// Op identifies what produced a [Change].
type Op int

// Change operations.
const (
	OpLoad Op = iota
	OpCreate
	OpUpdate
	OpRemove
	OpInvalidate
)

func (o Op) String() string {
	switch o {
	case OpLoad:
		return "load"
	case OpCreate:
		return "create"
	case OpUpdate:
		return "update"
	case OpRemove:
		return "remove"
	case OpInvalidate:
		return "invalidate"
	default:
		return "unknown"
	}
}

// Change is delivered to observers after a collection changed.
//
// Rows is the full collection after the change and must not be modified. It
// is nil for OpInvalidate. ID is the affected record for mutations.
type Change[T any] struct {
	Op   Op
	ID   string
	Rows []T
}

// observers is a set of callbacks with cancellation.
type observers[T any] struct {
	next int
	fns  map[int]func(Change[T])
}

func (o *observers[T]) add(fn func(Change[T])) int {
	if o.fns == nil {
		o.fns = make(map[int]func(Change[T]))
	}
	o.next++
	o.fns[o.next] = fn
	return o.next
}

func (o *observers[T]) snapshot() []func(Change[T]) {
	out := make([]func(Change[T]), 0, len(o.fns))
	for _, fn := range o.fns {
		out = append(out, fn)
	}
	return out
}
