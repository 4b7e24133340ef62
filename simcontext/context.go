// Package simcontext gathers what would otherwise be global mutable state
// (the default trace stream and the reset-hook registry) into an explicit,
// constructible object. It holds no default bandwidth or delay: NewLink
// takes the bandwidth from its caller. Tests build independent Contexts
// instead of sharing process-wide state.
package simcontext

import (
	"io"

	"github.com/netsim-core/ethermac/mac"
	"github.com/netsim-core/ethermac/sim"
	"github.com/netsim-core/ethermac/trace"
)

// Context threads an Engine and a default Stream through the constructors
// of every component a scenario builds, so that a run needs no
// process-global state at all.
type Context struct {
	Engine *sim.Engine
	Trace  *trace.Stream
}

// Attach wires a new Interface onto link for node and connects it to the
// Context's default trace Stream, combining attachment with the hook
// registration a scenario would otherwise have to repeat for every
// interface it creates.
func (c *Context) Attach(link *mac.Link, node *mac.Node) *mac.Interface {
	iface := link.Attach(c.Engine, node)
	iface.AcceptHook(c.Trace)
	return iface
}

// NewLink creates a Link the way scenarios built through a Context should:
// a thin pass-through to mac.NewLink.
func (c *Context) NewLink(bandwidth float64, detail mac.Detail) *mac.Link {
	return mac.NewLink(bandwidth, detail)
}

// Reset resets the underlying Engine, which in turn invokes every
// registered reset hook — including the Context's own trace Stream reset —
// in registration order.
func (c *Context) Reset() {
	c.Engine.Reset()
}

// TraceWriter exposes the Context's trace sink as an io.Writer, for
// callers that want to Fprintf ad hoc diagnostics through the same line
// discipline the trace fabric uses.
func (c *Context) TraceWriter() io.Writer {
	return c.Trace
}
