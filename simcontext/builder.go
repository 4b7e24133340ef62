package simcontext

import (
	"io"
	"os"
	"sync"

	"github.com/netsim-core/ethermac/sim"
	"github.com/netsim-core/ethermac/trace"
)

// Builder constructs a Context using a fluent With* builder for assembling a
// run: each With* method returns a modified copy, and Build produces the
// final object.
type Builder struct {
	sink          io.Writer
	defaultStatus trace.Status
}

// MakeBuilder returns a Builder with sensible defaults: trace output to
// stdout, every entity disabled until explicitly enabled.
func MakeBuilder() Builder {
	return Builder{
		sink:          os.Stdout,
		defaultStatus: trace.StatusDisabled,
	}
}

// WithTraceSink directs the Context's default trace Stream at w instead of
// stdout.
func (b Builder) WithTraceSink(w io.Writer) Builder {
	b.sink = w
	return b
}

// WithDefaultTraceStatus sets the Stream-wide fallback status applied when
// no entity in an event's resolution chain has an explicit status.
func (b Builder) WithDefaultTraceStatus(status trace.Status) Builder {
	b.defaultStatus = status
	return b
}

// Build assembles the Engine and default Stream and wires the Stream's
// Reset into the Engine's reset-hook registry, so a Context-driven run
// never needs direct access to either object to behave correctly across a
// reset.
func (b Builder) Build() *Context {
	engine := sim.NewEngine()
	stream := trace.NewStream(b.sink, engine.Now)
	stream.SetDefaultStatus(b.defaultStatus)

	engine.RegisterResetHook(stream.Reset)

	return &Context{Engine: engine, Trace: stream}
}

var (
	defaultMu  sync.Mutex
	defaultCtx *Context
)

// Default returns a process-wide Context for single-simulation programs, as
// a convenience around the otherwise-explicit Context. Tests should always
// call MakeBuilder().Build() themselves rather than share this.
func Default() *Context {
	defaultMu.Lock()
	defer defaultMu.Unlock()

	if defaultCtx == nil {
		defaultCtx = MakeBuilder().Build()
	}
	return defaultCtx
}
