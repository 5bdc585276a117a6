package cmd

import "context"

// Unwrappable is implemented by wrapped commands so adapters can reach the
// command underneath, e.g. to read its requirements or category.
type Unwrappable interface {
	Command
	Unwrap() Command
}

// Wrapped is a command whose Run is replaced. Name and Description come
// from Inner.
type Wrapped struct {
	Inner   Command
	RunFunc func(ctx context.Context, inv *Invocation) error
}

func (w *Wrapped) Name() string        { return w.Inner.Name() }
func (w *Wrapped) Description() string { return w.Inner.Description() }
func (w *Wrapped) Unwrap() Command     { return w.Inner }

func (w *Wrapped) Run(ctx context.Context, inv *Invocation) error {
	if w.RunFunc == nil {
		return w.Inner.Run(ctx, inv)
	}
	return w.RunFunc(ctx, inv)
}

// Wrap returns c with run in place of c.Run.
func Wrap(c Command, run func(ctx context.Context, inv *Invocation) error) Command {
	return &Wrapped{Inner: c, RunFunc: run}
}

// Root strips every wrapper from c.
func Root(c Command) Command {
	for {
		u, ok := c.(Unwrappable)
		if !ok {
			return c
		}
		c = u.Unwrap()
	}
}

// As finds the first layer of c, outermost first, that implements T.
func As[T any](c Command) (T, bool) {
	for {
		if t, ok := c.(T); ok {
			return t, true
		}
		u, ok := c.(Unwrappable)
		if !ok {
			var zero T
			return zero, false
		}
		c = u.Unwrap()
	}
}
