package cmd

// Middleware wraps a command; the result is still a Command.
type Middleware func(Command) Command

// Apply wraps c with mws. The first middleware ends up innermost, so the
// last one listed runs first.
func Apply(c Command, mws ...Middleware) Command {
	for _, mw := range mws {
		c = mw(c)
	}
	return c
}

// Chain composes mws into one Middleware with the ordering of Apply.
func Chain(mws ...Middleware) Middleware {
	return func(c Command) Command { return Apply(c, mws...) }
}
